package bazaarclient

import (
	"bufio"
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// serveOnce accepts connections and answers every line with reply(line).
func serveOnce(t *testing.T, reply func(string) string) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(conn net.Conn) {
				defer conn.Close()
				r := bufio.NewReader(conn)
				for {
					line, err := r.ReadString('\n')
					if err != nil {
						return
					}
					out := reply(line)
					if out == "" {
						return
					}
					if _, err := conn.Write([]byte(out)); err != nil {
						return
					}
				}
			}(conn)
		}
	}()

	return ln.Addr().String()
}

func TestClient_Do(t *testing.T) {
	addr := serveOnce(t, func(line string) string { return "echo " + line })

	resp, err := New(addr).Do(context.Background(), "HEAD\n")
	require.NoError(t, err)
	require.Equal(t, "echo HEAD\n", resp)
}

func TestConn_SequentialRequests(t *testing.T) {
	addr := serveOnce(t, strings.ToUpper)

	conn, err := New(addr).Dial(context.Background())
	require.NoError(t, err)
	defer conn.Close()

	for _, cmd := range []string{"list\n", "get 1\n", "head\n"} {
		resp, err := conn.Do(cmd)
		require.NoError(t, err)
		require.Equal(t, strings.ToUpper(cmd), resp)
	}
}

func TestConn_ReplyTruncatedAtBuffer(t *testing.T) {
	big := strings.Repeat("x", ReadBufferSize+500)
	addr := serveOnce(t, func(string) string { return big })

	c := New(addr)
	c.Timeout = 5 * time.Second
	conn, err := c.Dial(context.Background())
	require.NoError(t, err)
	defer conn.Close()

	resp, err := conn.Do("LIST\n")
	require.NoError(t, err)
	require.LessOrEqual(t, len(resp), ReadBufferSize)
}

func TestClient_InvalidReplyBytesReplacedPerByte(t *testing.T) {
	addr := serveOnce(t, func(string) string { return "id \xff\xfe\n" })

	resp, err := New(addr).Do(context.Background(), "GET x\n")
	require.NoError(t, err)
	require.Equal(t, "id \uFFFD\uFFFD\n", resp)
}

func TestConn_PeerClosesWithoutReply(t *testing.T) {
	addr := serveOnce(t, func(string) string { return "" })

	_, err := New(addr).Do(context.Background(), "HEAD\n")
	require.Error(t, err)
}

func TestClient_DialFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	_, err = New(addr).Do(context.Background(), "HEAD\n")
	require.Error(t, err)
}
