// Package http implements the REST surface of a dTable server and the matching
// client transport. Both sides share one route table that binds every action
// to a method and a path below /dynamic-table.
//
// Key Components:
//
//   - httpServerTransport: Implements IRPCServerTransport. It decodes the JSON
//     body of a request (GET /dynamic-table also accepts ?tableId=), calls the
//     registered handler and writes the response envelope with its status as
//     HTTP status. Undecodable bodies are answered with BadRequest without
//     reaching the handler. A negative rowIndex passes through and is answered
//     with IndexOutOfRange by the engine. /metrics exposes the Prometheus metrics.
//
//   - httpClientTransport: Implements IRPCClientTransport. It selects the
//     server endpoints round-robin and retries failed attempts on the next one.
//     Mutating actions are only retried after a dial failure (see
//     transport.CanRetry).
//
// Every request carries an X-Request-Id header. The server generates one when
// the client did not send it and echoes it in the response. With log level
// debug every request is logged together with its id, status and duration.
//
// Thread Safety:
//
//	The client transport is thread-safe and can be used concurrently. It uses
//	atomic operations for the round-robin counter.
package http
