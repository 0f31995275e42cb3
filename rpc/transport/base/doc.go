// Package base provides the framed socket transport of dTable, independent of
// the underlying network (TCP, Unix sockets). It is extended with protocol
// specific connectors by the tcp and unix packages.
//
// Frame format (both directions):
//
//	+----------------+----------------+------------------+
//	| requestID (8B) | length (4B)    | payload (length) |
//	+----------------+----------------+------------------+
//
// Request payloads are JSON envelopes {"action": ..., "data": {...}} (the same
// shape the event surface uses), response payloads are JSON response
// envelopes. Responses carry the id of their request, so a connection can have
// many requests in flight and answers may arrive out of order.
//
// Key Components:
//
//   - IClientConnector/IServerConnector: Interfaces for protocol-specific operations.
//
//   - clientTransport: Manages several connections per endpoint with round-robin
//     selection, correlates responses by request id, retries with exponential
//     backoff and reconnects lost connections. A mutation whose frame was
//     written is never sent twice.
//
//   - serverTransport: Accepts connections and processes the requests of each
//     connection with a bounded number of workers (--max-workers-per-conn).
//     Read buffers are pooled with sync.Pool and frames larger than the buffer
//     size are rejected.
//
// Thread Safety:
//
//	All public methods are thread-safe. Writes to a connection are serialized
//	by a mutex, the request channels live in an xsync.MapOf.
package base
