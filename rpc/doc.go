// Package rpc provides the network layer of dTable. It connects clients to the
// table engine of a server.
//
// The package is organized into several subpackages:
//
//   - common: Core data structures and utilities used across the RPC system,
//     including the actions, the request and response envelopes, configuration
//     structures, and logging.
//
//   - transport: Network communication abstractions with pluggable implementations
//     (HTTP REST surface, WebSocket event surface, framed TCP and Unix sockets).
//
//   - client: An engine.ITableEngine implementation forwarding every operation
//     to a server, and a publisher for the event surface.
//
//   - server: Creates the table store and the engine, handles incoming requests
//     with the engine adapter and runs the transports.
package rpc
