// Package cmd implements the command-line interface of dTable. It provides a
// hierarchical command structure for running the server and for using it as
// a client.
//
// The package is organized into several subpackages:
//
//   - serve: Starts and configures the dTable server (store backend, codec, transports)
//   - tables: Client commands for tables, columns and rows, plus the perf load test
//   - event: Publishes events to the websocket event surface
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See dtable -help for a list of all commands.
package cmd
