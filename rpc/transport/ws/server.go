package ws

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/ValentinKolb/dTable/rpc/common"
	"github.com/ValentinKolb/dTable/rpc/transport"
	"github.com/VictoriaMetrics/metrics"
	"github.com/gorilla/websocket"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("transport/ws")

// Path is the path of the event endpoint
const Path = "/events"

var upgrader = websocket.Upgrader{
	WriteBufferSize: 1024 * 10,
	ReadBufferSize:  1024 * 10,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// NewWsServerTransport creates the server side of the event surface
func NewWsServerTransport() transport.IRPCServerTransport {
	return &wsServerTransport{}
}

// Handler returns the websocket endpoint for the given handler, for
// embedding it into another server
func Handler(handler transport.ServerHandleFunc) http.Handler {
	t := &wsServerTransport{handler: handler}
	return http.HandlerFunc(t.serveEvents)
}

type wsServerTransport struct {
	handler transport.ServerHandleFunc

	mu     sync.Mutex
	server *http.Server
	closed bool
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCServerTransport)
// --------------------------------------------------------------------------

func (t *wsServerTransport) RegisterHandler(handler transport.ServerHandleFunc) {
	t.handler = handler
}

func (t *wsServerTransport) Listen(config common.ServerConfig) error {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+Path, t.serveEvents)

	server := &http.Server{
		Addr:              config.EventsEndpoint,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.server = server
	t.mu.Unlock()

	Logger.Infof("Starting event server on %s%s", config.EventsEndpoint, Path)

	err := server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (t *wsServerTransport) Close() error {
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

// serveEvents upgrades the connection and processes its frames in order
func (t *wsServerTransport) serveEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		Logger.Errorf("Upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	Logger.Debugf("Event connection opened from %s", conn.RemoteAddr())
	defer Logger.Debugf("Event connection closed from %s", conn.RemoteAddr())

	for {
		_, buf, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				Logger.Warningf("Event connection read error: %v", err)
			}
			return
		}

		resp := t.handleFrame(buf)
		if resp == nil {
			continue
		}
		if err := conn.WriteJSON(resp); err != nil {
			Logger.Errorf("Writing event response: %v", err)
			return
		}
	}
}

// handleFrame runs a single event. It returns the response to write back,
// nil for mutations and ignored frames.
func (t *wsServerTransport) handleFrame(buf []byte) *common.Response {
	var env common.Envelope
	if err := json.Unmarshal(buf, &env); err != nil {
		Logger.Warningf("Ignoring malformed event: %v", err)
		return nil
	}
	if !env.Action.IsEventAction() {
		Logger.Warningf("Ignoring event with unknown action %q", env.Action)
		return nil
	}
	if env.Data == nil {
		env.Data = common.NewRequest()
	}

	metrics.GetOrCreateCounter(`dtable_events_total{action="` + string(env.Action) + `"}`).Inc()

	resp := t.handler(env.Action, env.Data)
	if !env.Action.IsMutation() {
		return resp
	}

	if err := resp.Err(); err != nil {
		Logger.Errorf("Event %s failed: %v", env.Action, err)
	} else {
		Logger.Infof("Event %s: %s", env.Action, resp.Message)
	}
	return nil
}
