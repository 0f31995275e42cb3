package internal

import (
	"encoding/binary"
	"fmt"
)

// CommandType defines the possible operations for the state machine.
type CommandType uint8

const (
	CommandTCreate CommandType = iota // Allocate a table id and store an empty table.
	CommandTSave                      // Overwrite a table if its version matches.
)

func (ct CommandType) String() string {
	switch ct {
	case CommandTCreate:
		return "Create"
	case CommandTSave:
		return "Save"
	default:
		return fmt.Sprintf("Unknown(%d)", ct)
	}
}

// headerSize is the fixed part of a serialized command: Type + TableID + Version
const headerSize = 1 + 8 + 8

// Command represents a command to be executed by the state machine (a single entry in the raft log)
type Command struct {
	Type    CommandType
	TableID uint64
	// Version is the version the proposer loaded (Save only)
	Version uint64
	// Value is the encoded table to store (Save only)
	Value []byte
}

// SizeBytes returns the exact number of bytes needed to serialize this command
func (command *Command) SizeBytes() int {
	return headerSize + len(command.Value)
}

// Serialize serializes a command into a byte array with the format:
// 1 byte for operation type,
// 8 bytes for the table id (big endian),
// 8 bytes for the expected version (big endian),
// N bytes for the encoded table (optional)
func (command *Command) Serialize() []byte {
	result := make([]byte, command.SizeBytes())
	result[0] = byte(command.Type)
	binary.BigEndian.PutUint64(result[1:9], command.TableID)
	binary.BigEndian.PutUint64(result[9:17], command.Version)
	copy(result[headerSize:], command.Value)
	return result
}

// Deserialize extracts all Command fields from a byte array.
func (command *Command) Deserialize(data []byte) error {
	if len(data) < headerSize {
		return fmt.Errorf("data too short for command")
	}

	command.Type = CommandType(data[0])
	command.TableID = binary.BigEndian.Uint64(data[1:9])
	command.Version = binary.BigEndian.Uint64(data[9:17])

	if valueLen := len(data) - headerSize; valueLen > 0 {
		command.Value = make([]byte, valueLen)
		copy(command.Value, data[headerSize:])
	} else {
		command.Value = nil
	}
	return nil
}
