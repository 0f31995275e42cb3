package codec

import (
	"fmt"

	"github.com/ValentinKolb/dTable/lib/table"
)

// ITableCodec encodes tables for storage at rest
type ITableCodec interface {
	// Encode serializes a table into a byte array
	Encode(t table.Table) ([]byte, error)
	// Decode deserializes a byte array into a table. The returned table is
	// normalized (no nil slices, column id source ahead of every column).
	Decode(b []byte) (table.Table, error)
	// Name returns the name the codec is selected by
	Name() string
}

// New returns the codec with the given name ("json" or "gob")
func New(name string) (ITableCodec, error) {
	switch name {
	case "json", "":
		return NewJSONCodec(), nil
	case "gob":
		return NewGOBCodec(), nil
	default:
		return nil, fmt.Errorf("unknown codec %q (supported: json, gob)", name)
	}
}
