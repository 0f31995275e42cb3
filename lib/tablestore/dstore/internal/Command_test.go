package internal

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// TestSerializeDeserialize tests both Serialize and Deserialize methods
func TestSerializeDeserialize(t *testing.T) {
	tests := []struct {
		name    string
		command Command
	}{
		{
			name:    "Create",
			command: Command{Type: CommandTCreate},
		},
		{
			name: "Save with payload",
			command: Command{
				Type:    CommandTSave,
				TableID: 42,
				Version: 7,
				Value:   []byte(`{"id":42}`),
			},
		},
		{
			name: "Save with large ids",
			command: Command{
				Type:    CommandTSave,
				TableID: ^uint64(0),
				Version: 1 << 40,
				Value:   []byte{0},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tt.command.Serialize()
			if len(data) != tt.command.SizeBytes() {
				t.Fatalf("Serialized length = %d, want %d", len(data), tt.command.SizeBytes())
			}

			var got Command
			if err := got.Deserialize(data); err != nil {
				t.Fatalf("Deserialize failed: %v", err)
			}
			if got.Type != tt.command.Type || got.TableID != tt.command.TableID || got.Version != tt.command.Version {
				t.Errorf("Header mismatch: got %+v, want %+v", got, tt.command)
			}
			if !bytes.Equal(got.Value, tt.command.Value) {
				t.Errorf("Value mismatch: got %q, want %q", got.Value, tt.command.Value)
			}
		})
	}
}

// TestSerializeLayout tests the exact byte layout
func TestSerializeLayout(t *testing.T) {
	cmd := Command{Type: CommandTSave, TableID: 3, Version: 9, Value: []byte("v")}
	data := cmd.Serialize()

	if data[0] != byte(CommandTSave) {
		t.Errorf("Type byte = %d", data[0])
	}
	if id := binary.BigEndian.Uint64(data[1:9]); id != 3 {
		t.Errorf("TableID = %d", id)
	}
	if v := binary.BigEndian.Uint64(data[9:17]); v != 9 {
		t.Errorf("Version = %d", v)
	}
	if string(data[17:]) != "v" {
		t.Errorf("Value = %q", data[17:])
	}
}

// TestDeserializeErrors tests error handling of truncated input
func TestDeserializeErrors(t *testing.T) {
	for _, data := range [][]byte{nil, {}, make([]byte, headerSize-1)} {
		var cmd Command
		if err := cmd.Deserialize(data); err == nil {
			t.Errorf("Expected error for %d bytes", len(data))
		}
	}
}

func TestCommandTypeString(t *testing.T) {
	if CommandTSave.String() != "Save" || CommandType(99).String() != "Unknown(99)" {
		t.Errorf("Unexpected command type names")
	}
}
