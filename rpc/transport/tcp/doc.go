// Package tcp runs the framed socket rpc surface of dTable over TCP.
//
// It provides the connectors for the base package: the server side listens on
// the socket endpoint and optionally disables Nagle's algorithm on accepted
// connections (--tcp-nodelay), the client side dials with a timeout.
//
// The default server buffer size is 512 KB. It is also the largest request
// frame the server accepts.
package tcp
