package base

import (
	"bytes"
	"net"
	"testing"

	"github.com/ValentinKolb/dTable/rpc/common"
	"gotest.tools/assert"
)

func TestFrameRoundTrip(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	payload := []byte(`{"action":"getTable","data":{"tableId":1}}`)
	go func() {
		_ = writeFrame(client, 42, payload)
		_ = writeFrame(client, 43, nil)
	}()

	id, data, err := readFrame(server, make([]byte, 8), 0)
	assert.NilError(t, err)
	assert.Equal(t, id, uint64(42))
	assert.Assert(t, bytes.Equal(data, payload))

	id, data, err = readFrame(server, nil, 0)
	assert.NilError(t, err)
	assert.Equal(t, id, uint64(43))
	assert.Equal(t, len(data), 0)
}

func TestFrameLimit(t *testing.T) {
	var buf bytes.Buffer
	header := []byte{0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 1, 0}
	buf.Write(header)
	buf.Write(make([]byte, 256))

	_, _, err := readFrame(&buf, nil, 100)
	assert.ErrorContains(t, err, "exceeds limit")
}

func TestRequestPayload(t *testing.T) {
	raw, err := encodeRequest(common.ActionDeleteRow, common.NewRequest().WithTable(3).WithRowIndex(0))
	assert.NilError(t, err)

	action, req, err := decodeRequest(raw)
	assert.NilError(t, err)
	assert.Equal(t, action, common.ActionDeleteRow)
	assert.Equal(t, *req.TableID, uint64(3))
	assert.Equal(t, *req.RowIndex, 0)

	action, req, err = decodeRequest([]byte(`{"action":"createTable"}`))
	assert.NilError(t, err)
	assert.Equal(t, action, common.ActionCreateTable)
	assert.Assert(t, req != nil)

	_, _, err = decodeRequest([]byte(`nope`))
	assert.Assert(t, err != nil)
}
