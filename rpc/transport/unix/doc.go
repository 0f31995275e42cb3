// Package unix runs the framed socket rpc surface of dTable over Unix domain
// sockets, for clients on the same machine as the server.
//
// It only provides the connectors (socket path listener and dialer); framing,
// request correlation and retries live in the base package. An existing
// socket file is removed before listening. The default server buffer size
// and frame limit is 64 KB.
package unix
