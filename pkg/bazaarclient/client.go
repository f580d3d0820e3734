// Package bazaarclient speaks the marketplace wire protocol: one command
// out, one read of at most ReadBufferSize bytes back.
package bazaarclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"Bazaar/internal/protocol"
)

// ReadBufferSize is the peer-side limit on a single reply; longer replies
// are truncated by the reader.
const ReadBufferSize = 4096

const defaultTimeout = 30 * time.Second

var ErrEmptyReply = errors.New("connection closed before reply")

type Client struct {
	Addr    string
	Timeout time.Duration
}

func New(addr string) *Client {
	return &Client{Addr: addr, Timeout: defaultTimeout}
}

func (c *Client) Dial(ctx context.Context) (*Conn, error) {
	d := net.Dialer{Timeout: c.Timeout}
	nc, err := d.DialContext(ctx, "tcp", c.Addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", c.Addr, err)
	}
	return &Conn{conn: nc, timeout: c.Timeout, buf: make([]byte, ReadBufferSize)}, nil
}

// Do opens a connection, sends one command and closes it again.
func (c *Client) Do(ctx context.Context, command string) (string, error) {
	conn, err := c.Dial(ctx)
	if err != nil {
		return "", err
	}
	defer conn.Close()
	return conn.Do(command)
}

// Conn is a single protocol session. It is not safe for concurrent use;
// requests on one connection are strictly sequential.
type Conn struct {
	conn    net.Conn
	timeout time.Duration
	buf     []byte
}

func (c *Conn) Do(command string) (string, error) {
	if c.timeout > 0 {
		_ = c.conn.SetDeadline(time.Now().Add(c.timeout))
		defer c.conn.SetDeadline(time.Time{})
	}

	if _, err := c.conn.Write([]byte(command)); err != nil {
		return "", fmt.Errorf("write command: %w", err)
	}

	n, err := c.conn.Read(c.buf)
	if n == 0 {
		if err == nil {
			err = ErrEmptyReply
		}
		return "", fmt.Errorf("read reply: %w", err)
	}
	return protocol.DecodeLossy(c.buf[:n]), nil
}

func (c *Conn) LocalAddr() net.Addr { return c.conn.LocalAddr() }

func (c *Conn) Close() error { return c.conn.Close() }
