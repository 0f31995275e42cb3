// Package internal provides the communication protocol structures of the
// dstore package: the Command written to the RAFT log and the Query answered
// locally by the state machine.
//
// Command Format:
//
//	- 1 byte: Command type (Create, Save)
//	- 8 bytes: Table id (uint64, big endian, unused by Create)
//	- 8 bytes: Expected version (uint64, big endian, unused by Create)
//	- N bytes: Encoded table (Save only)
//
// Queries are never serialized, they are passed to the state machine as Go
// values.
package internal
