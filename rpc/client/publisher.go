package client

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ValentinKolb/dTable/lib/table"
	"github.com/ValentinKolb/dTable/rpc/common"
	"github.com/ValentinKolb/dTable/rpc/transport/ws"
	"github.com/gorilla/websocket"
)

// EventPublisher sends events to the event surface of a dTable server.
// It is safe for concurrent use, frames are written one at a time.
type EventPublisher struct {
	conn    *websocket.Conn
	mu      sync.Mutex
	timeout time.Duration
}

// NewEventPublisher connects to the event endpoint. endpoint is host:port or
// a full ws:// URL, the /events path is added when missing.
func NewEventPublisher(endpoint string, timeout time.Duration) (*EventPublisher, error) {
	url := endpoint
	if !strings.Contains(url, "://") {
		url = "ws://" + url
	}
	if !strings.HasSuffix(url, ws.Path) {
		url = strings.TrimSuffix(url, "/") + ws.Path
	}

	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = timeout
	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", url, err)
	}
	Logger.Debugf("Connected to event endpoint %s", url)

	return &EventPublisher{conn: conn, timeout: timeout}, nil
}

// Publish sends a fire-and-forget event. Only the event actions createTable,
// createColumn and createRow are accepted. A nil error only means the frame
// was written, the server does not answer.
func (p *EventPublisher) Publish(action common.Action, req *common.Request) error {
	if !action.IsEventAction() || !action.IsMutation() {
		return table.NewError(table.ErrCBadRequest, "Action %s cannot be published", action)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.write(action, req)
}

// GetTable requests a table over the event connection and waits for the answer.
// Events published before on this connection are processed first.
func (p *EventPublisher) GetTable(tableID uint64) (table.View, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.write(common.ActionGetTable, common.NewRequest().WithTable(tableID)); err != nil {
		return table.View{}, err
	}

	if p.timeout > 0 {
		if err := p.conn.SetReadDeadline(time.Now().Add(p.timeout)); err != nil {
			return table.View{}, err
		}
	}
	var resp common.Response
	if err := p.conn.ReadJSON(&resp); err != nil {
		return table.View{}, fmt.Errorf("failed to read response: %w", err)
	}

	var view table.View
	if err := resp.Decode(&view); err != nil {
		return table.View{}, err
	}
	return view, nil
}

// Close closes the connection with a normal closure
func (p *EventPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = p.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	return p.conn.Close()
}

func (p *EventPublisher) write(action common.Action, req *common.Request) error {
	if req == nil {
		req = common.NewRequest()
	}
	if p.timeout > 0 {
		if err := p.conn.SetWriteDeadline(time.Now().Add(p.timeout)); err != nil {
			return err
		}
	}
	return p.conn.WriteJSON(common.Envelope{Action: action, Data: req})
}
