package codec

import (
	"encoding/json"

	"github.com/ValentinKolb/dTable/lib/table"
)

// NewJSONCodec creates a new codec using json encoding
func NewJSONCodec() ITableCodec {
	return &jsonCodecImpl{}
}

// jsonCodecImpl implements the ITableCodec interface using json encoding
type jsonCodecImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ITableCodec)
// --------------------------------------------------------------------------

func (j jsonCodecImpl) Encode(t table.Table) ([]byte, error) {
	return json.Marshal(t)
}

func (j jsonCodecImpl) Decode(b []byte) (table.Table, error) {
	var t table.Table
	if err := json.Unmarshal(b, &t); err != nil {
		return table.Table{}, err
	}
	t.Normalize()
	return t, nil
}

func (j jsonCodecImpl) Name() string {
	return "json"
}
