package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ValentinKolb/dTable/rpc/common"
	"github.com/ValentinKolb/dTable/rpc/transport"
	"github.com/google/uuid"
)

func NewHttpClientTransport() transport.IRPCClientTransport {
	return &httpClientTransport{}
}

type httpClientTransport struct {
	serverURLs []*url.URL
	client     *http.Client
	counter    uint32
	retryCount int
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCClientTransport)
// --------------------------------------------------------------------------

func (t *httpClientTransport) Connect(config common.ClientConfig) error {
	if len(config.Endpoints) == 0 {
		return fmt.Errorf("no endpoints provided")
	}

	// Parse each server URL, plain host:port endpoints default to http
	parsedURLs := make([]*url.URL, len(config.Endpoints))
	for i, server := range config.Endpoints {
		if !strings.Contains(server, "://") {
			server = "http://" + server
		}
		parsedURL, err := url.Parse(server)
		if err != nil {
			return err
		}
		parsedURLs[i] = parsedURL
	}

	timeout := time.Duration(config.TimeoutSecond) * time.Second
	client := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	t.client = client
	t.serverURLs = parsedURLs
	t.counter = 0
	t.retryCount = max(config.RetryCount, 1)

	return nil
}

func (t *httpClientTransport) Send(action common.Action, req *common.Request) (*common.Response, error) {
	if t.client == nil {
		return nil, fmt.Errorf("http transport not initialized")
	}

	r, ok := routes[action]
	if !ok {
		return nil, fmt.Errorf("unknown action %q", action)
	}
	if req == nil {
		req = common.NewRequest()
	}

	// GET requests carry the table id as query parameter instead of a body
	var body []byte
	query := url.Values{}
	if r.method == http.MethodGet {
		if req.TableID != nil {
			query.Set("tableId", strconv.FormatUint(*req.TableID, 10))
		}
	} else {
		var err error
		if body, err = json.Marshal(req); err != nil {
			return nil, err
		}
	}

	requestID := uuid.NewString()

	// Send the request (with retries), every attempt goes to the next server
	var lastErr error
	attempts := 0
	for i := 0; i < t.retryCount; i++ {
		attempts++
		// Select the next server via round-robin
		idx := atomic.AddUint32(&t.counter, 1) % uint32(len(t.serverURLs))
		target := *t.serverURLs[idx]
		target.Path = strings.TrimSuffix(target.Path, "/") + r.path
		target.RawQuery = query.Encode()

		resp, err := t.do(r.method, target.String(), requestID, body)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		Logger.Debugf("[%s] attempt %d/%d for %s failed: %v", requestID, i+1, t.retryCount, action, err)

		// the server may already have applied a mutation
		if !transport.CanRetry(action, err) {
			break
		}
	}
	return nil, fmt.Errorf("failed to send request after %d attempts: %w", attempts, lastErr)
}

func (t *httpClientTransport) Close() error {
	if t.client != nil {
		t.client.CloseIdleConnections()
	}

	t.client = nil
	t.serverURLs = nil

	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// do performs a single request and decodes the response envelope
func (t *httpClientTransport) do(method, target, requestID string, body []byte) (*common.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	httpRequest, err := http.NewRequest(method, target, reader)
	if err != nil {
		return nil, err
	}
	httpRequest.Header.Set(requestIDHeader, requestID)
	if body != nil {
		httpRequest.Header.Set("Content-Type", "application/json")
	}

	httpResponse, err := t.client.Do(httpRequest)
	if err != nil {
		var opErr *net.OpError
		if errors.As(err, &opErr) && opErr.Op == "dial" {
			return nil, fmt.Errorf("%w: %w", transport.ErrNotSent, err)
		}
		return nil, err
	}
	defer func() {
		if err := httpResponse.Body.Close(); err != nil {
			Logger.Errorf("Failed to close response body: %v", err)
		}
	}()

	raw, err := io.ReadAll(httpResponse.Body)
	if err != nil {
		return nil, err
	}

	var resp common.Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("http error: %s", httpResponse.Status)
	}
	if resp.Status == 0 {
		resp.Status = httpResponse.StatusCode
	}
	return &resp, nil
}
