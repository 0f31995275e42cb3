package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/ValentinKolb/dTable/lib/table"
	"github.com/ValentinKolb/dTable/rpc/common"
	"github.com/ValentinKolb/dTable/rpc/transport"
	"github.com/VictoriaMetrics/metrics"
	"github.com/google/uuid"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("transport/http")

// maxBodySize limits the size of a request body
const maxBodySize = 8 << 20

func NewHttpServerTransport() transport.IRPCServerTransport {
	return &httpServerTransport{}
}

// Handler returns the router of the REST surface for the given handler, for
// embedding it into another server
func Handler(handler transport.ServerHandleFunc) http.Handler {
	t := &httpServerTransport{handler: handler}
	return t.newHandler()
}

type httpServerTransport struct {
	handler transport.ServerHandleFunc
	config  common.ServerConfig

	mu     sync.Mutex
	server *http.Server
	closed bool
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCServerTransport)
// --------------------------------------------------------------------------

func (t *httpServerTransport) RegisterHandler(handler transport.ServerHandleFunc) {
	t.handler = handler
}

func (t *httpServerTransport) Listen(config common.ServerConfig) error {
	t.config = config

	server := &http.Server{
		Addr:              config.Endpoint,
		Handler:           t.newHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.server = server
	t.mu.Unlock()

	Logger.Infof("Starting HTTP server on %s", config.Endpoint)

	err := server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (t *httpServerTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	if t.server == nil {
		return nil
	}
	return t.server.Close()
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// newHandler builds the router with all routes, /metrics and the middlewares
func (t *httpServerTransport) newHandler() http.Handler {
	mux := http.NewServeMux()

	for action, r := range routes {
		mux.HandleFunc(r.method+" "+r.path, t.handleAction(action))
	}
	mux.HandleFunc("GET /metrics", func(w http.ResponseWriter, _ *http.Request) {
		metrics.WritePrometheus(w, true)
	})

	var handler http.Handler = mux
	if t.config.LogLevel == "debug" {
		handler = loggerMiddleware(handler)
	}
	return requestIDMiddleware(handler)
}

// handleAction decodes the request of an action, passes it to the handler
// and writes the response envelope
func (t *httpServerTransport) handleAction(action common.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		var resp *common.Response
		req, err := decodeRequest(r)
		if err != nil {
			resp = common.NewErrorResponse(err)
		} else {
			resp = t.handler(action, req)
		}

		writeResponse(w, resp)

		metrics.GetOrCreateCounter(fmt.Sprintf(`dtable_http_requests_total{action=%q,status="%d"}`, action, resp.Status)).Inc()
		metrics.GetOrCreateHistogram(fmt.Sprintf(`dtable_http_request_duration_seconds{action=%q}`, action)).UpdateDuration(start)
	}
}

// decodeRequest reads the JSON body of the request. An empty body is an empty
// request. The tableId query parameter is used when the body has no table id.
func decodeRequest(r *http.Request) (*common.Request, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	defer r.Body.Close()
	if err != nil {
		return nil, table.NewError(table.ErrCBadRequest, "Failed to read request body")
	}

	req := common.NewRequest()
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, req); err != nil {
			return nil, table.NewError(table.ErrCBadRequest, "Invalid request body: %v", err)
		}
	}

	if q := r.URL.Query().Get("tableId"); q != "" && req.TableID == nil {
		id, err := strconv.ParseUint(q, 10, 64)
		if err != nil {
			return nil, table.NewError(table.ErrCBadRequest, "Table ID must be a non-negative integer")
		}
		req.WithTable(id)
	}
	return req, nil
}

// writeResponse writes the envelope with its status as HTTP status
func writeResponse(w http.ResponseWriter, resp *common.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		Logger.Errorf("Failed to write response: %v", err)
	}
}

// --------------------------------------------------------------------------
// Middleware (request ids, logging)
// --------------------------------------------------------------------------

// requestIDMiddleware makes sure every request and its response carry an id
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(requestIDHeader, id)
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// responseWriter is a custom ResponseWriter that captures status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

// WriteHeader captures the status code before writing it
func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// loggerMiddleware is a middleware that logs HTTP requests
func loggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Create custom response writer to capture status code
		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		Logger.Debugf("[%s] %s %s => %d took %s",
			r.Header.Get(requestIDHeader), r.Method, r.URL.Path, rw.statusCode, time.Since(start))
	})
}
