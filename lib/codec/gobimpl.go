package codec

import (
	"bytes"
	"encoding/gob"

	"github.com/ValentinKolb/dTable/lib/table"
)

func init() {
	// composite JSON values held in interface fields
	gob.Register(map[string]any{})
	gob.Register([]any{})
}

// NewGOBCodec creates a new codec using Go's binary gob format
func NewGOBCodec() ITableCodec {
	return &gobCodecImpl{}
}

// gobCodecImpl implements the ITableCodec interface using gob encoding
type gobCodecImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ITableCodec)
// --------------------------------------------------------------------------

func (g gobCodecImpl) Encode(t table.Table) ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g gobCodecImpl) Decode(b []byte) (table.Table, error) {
	var t table.Table
	dec := gob.NewDecoder(bytes.NewBuffer(b))
	if err := dec.Decode(&t); err != nil {
		return table.Table{}, err
	}
	t.Normalize()
	return t, nil
}

func (g gobCodecImpl) Name() string {
	return "gob"
}
