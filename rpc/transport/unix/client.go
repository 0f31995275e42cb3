package unix

import (
	"net"
	"time"

	"github.com/ValentinKolb/dTable/rpc/transport"
	"github.com/ValentinKolb/dTable/rpc/transport/base"
)

const dialTimeout = 5 * time.Second

type clientConnector struct{}

func (c *clientConnector) GetName() string {
	return "unix"
}

func (c *clientConnector) Connect(socketPath string) (net.Conn, error) {
	return net.DialTimeout("unix", socketPath, dialTimeout)
}

// NewUnixClientTransport creates a client transport talking to a dTable
// server over a Unix domain socket
func NewUnixClientTransport() transport.IRPCClientTransport {
	return base.NewBaseClientTransport(&clientConnector{})
}
