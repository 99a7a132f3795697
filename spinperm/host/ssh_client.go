package host

import (
	"net"
	"time"

	"golang.org/x/crypto/ssh"
)

// RealSSHClient dials actual SSH connections, honoring the caller's timeout.
type RealSSHClient struct{}

func (c *RealSSHClient) Dial(network, addr string, config *ssh.ClientConfig, timeout time.Duration) (*ssh.Client, error) {
	conn, err := net.DialTimeout(network, addr, timeout)
	if err != nil {
		return nil, err
	}

	ncc, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
	if err != nil {
		conn.Close()
		return nil, err
	}

	return ssh.NewClient(ncc, chans, reqs), nil
}
