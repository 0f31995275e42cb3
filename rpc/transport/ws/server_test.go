package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ValentinKolb/dTable/lib/table"
	"github.com/ValentinKolb/dTable/rpc/common"
	"github.com/gorilla/websocket"
	"gotest.tools/assert"
)

// recorder is a handler remembering every action it was called with
type recorder struct {
	mu      sync.Mutex
	actions []common.Action
}

func (r *recorder) handle(action common.Action, req *common.Request) *common.Response {
	r.mu.Lock()
	r.actions = append(r.actions, action)
	r.mu.Unlock()

	if action == common.ActionCreateRow {
		return common.NewErrorResponse(table.NewInvalidColumnError([]string{"9"}))
	}
	if action == common.ActionGetTable {
		if req.TableID == nil {
			return common.NewErrorResponse(table.NewError(table.ErrCBadRequest, "Table ID is required"))
		}
		return common.NewDataResponse("Table fetched", table.View{ID: *req.TableID})
	}
	return common.NewDataResponse("ok", nil)
}

func (r *recorder) seen() []common.Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]common.Action{}, r.actions...)
}

func dial(t *testing.T) (*websocket.Conn, *recorder) {
	t.Helper()
	rec := &recorder{}
	srv := &wsServerTransport{}
	srv.RegisterHandler(rec.handle)

	ts := httptest.NewServer(http.HandlerFunc(srv.serveEvents))
	t.Cleanup(ts.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	assert.NilError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn, rec
}

func readResponse(t *testing.T, conn *websocket.Conn) common.Response {
	t.Helper()
	assert.NilError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var resp common.Response
	assert.NilError(t, conn.ReadJSON(&resp))
	return resp
}

func TestGetTableIsAnswered(t *testing.T) {
	conn, _ := dial(t)

	assert.NilError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"action":"getTable","data":{"tableId":3}}`)))
	resp := readResponse(t, conn)
	assert.Equal(t, resp.Status, http.StatusOK, resp.Message)

	var view table.View
	assert.NilError(t, resp.Decode(&view))
	assert.Equal(t, view.ID, uint64(3))

	assert.NilError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"action":"getTable"}`)))
	resp = readResponse(t, conn)
	assert.Equal(t, resp.Status, http.StatusBadRequest, resp.Message)
}

func TestMutationsAreFireAndForget(t *testing.T) {
	conn, rec := dial(t)

	frames := []string{
		`{"action":"createTable"}`,
		`{"action":"createColumn","data":{"tableId":1,"columnName":"a"}}`,
		`{"action":"createRow","data":{"tableId":1,"rowData":{"9":"x"}}}`,
		`not json`,
		`{"action":"deleteRow","data":{"tableId":1,"rowIndex":0}}`,
		`{"action":"dropEverything"}`,
		`{"action":"getTable","data":{"tableId":1}}`,
	}
	for _, f := range frames {
		assert.NilError(t, conn.WriteMessage(websocket.TextMessage, []byte(f)))
	}

	// the only frame written back is the answer to getTable, and it comes
	// after all previous frames were processed
	resp := readResponse(t, conn)
	assert.Equal(t, resp.Message, "Table fetched")
	assert.DeepEqual(t, rec.seen(), []common.Action{
		common.ActionCreateTable,
		common.ActionCreateColumn,
		common.ActionCreateRow,
		common.ActionGetTable,
	})
}

func TestHandleFrame(t *testing.T) {
	srv := &wsServerTransport{}
	rec := &recorder{}
	srv.RegisterHandler(rec.handle)

	assert.Assert(t, srv.handleFrame([]byte(`{"action":"createTable"}`)) == nil)
	assert.Assert(t, srv.handleFrame([]byte(`{"action":"updateRow","data":{}}`)) == nil)
	assert.Assert(t, srv.handleFrame([]byte(`[]`)) == nil)
	assert.Assert(t, srv.handleFrame([]byte(`{"action":"getTable","data":{"tableId":1}}`)) != nil)
	assert.Equal(t, len(rec.seen()), 2)
}
