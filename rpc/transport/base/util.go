package base

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"net"

	"github.com/ValentinKolb/dTable/rpc/common"
)

// headerSize is 8 bytes requestID + 4 bytes payload length
const headerSize = 12

// writeFrame writes a frame to the connection with the format:
// - 8 bytes: requestID (uint64, big endian)
// - 4 bytes: data length (uint32, big endian)
// - N bytes: data payload
func writeFrame(conn net.Conn, requestID uint64, data []byte) error {
	header := make([]byte, headerSize)
	binary.BigEndian.PutUint64(header[:8], requestID)
	binary.BigEndian.PutUint32(header[8:12], uint32(len(data)))

	b := net.Buffers{header, data}
	_, err := b.WriteTo(conn)
	return err
}

// readFrame reads a frame from the connection using the provided buffer
// If the buffer is too small, it will allocate a new temporary buffer for the data
func readFrame(conn io.Reader, buf []byte, maxSize int) (uint64, []byte, error) {
	if len(buf) < headerSize {
		buf = make([]byte, headerSize)
	}

	if _, err := io.ReadFull(conn, buf[:headerSize]); err != nil {
		return 0, nil, err
	}

	requestID := binary.BigEndian.Uint64(buf[:8])
	contentLength := int(binary.BigEndian.Uint32(buf[8:12]))

	if contentLength == 0 {
		return requestID, []byte{}, nil
	}
	if maxSize > 0 && contentLength > maxSize {
		return requestID, nil, fmt.Errorf("frame of %d bytes exceeds limit of %d bytes", contentLength, maxSize)
	}

	if len(buf) < contentLength {
		buf = make([]byte, contentLength)
	}

	if _, err := io.ReadFull(conn, buf[:contentLength]); err != nil {
		return 0, nil, err
	}
	return requestID, buf[:contentLength], nil
}

// --------------------------------------------------------------------------
// Payloads
// --------------------------------------------------------------------------

// encodeRequest builds the payload of a request frame
func encodeRequest(action common.Action, req *common.Request) ([]byte, error) {
	return json.Marshal(common.Envelope{Action: action, Data: req})
}

// decodeRequest parses the payload of a request frame. A missing data field
// is an empty request.
func decodeRequest(data []byte) (common.Action, *common.Request, error) {
	var env common.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", nil, err
	}
	if env.Data == nil {
		env.Data = common.NewRequest()
	}
	return env.Action, env.Data, nil
}
