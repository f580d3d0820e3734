package tunnel

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"Bazaar/internal/catalog"
	"Bazaar/internal/protocol"
	"Bazaar/internal/server"
	"Bazaar/pkg/bazaarclient"
)

func startUpstream(t *testing.T) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := server.New(server.Config{}, protocol.NewDispatcher(catalog.NewStore(catalog.Bootstrap()...)), server.Deps{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return ln.Addr().String()
}

func TestRelay_ForwardsProtocol(t *testing.T) {
	upstream := startUpstream(t)
	relay := &Relay{Listen: "127.0.0.1:0", Upstream: upstream, Log: zap.NewNop()}

	ctx, cancel := context.WithCancel(context.Background())
	h, err := relay.Connect(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, h.ID)

	done := make(chan error, 1)
	go func() { done <- relay.Run(ctx, h) }()

	c := bazaarclient.New(h.Addr().String())
	c.Timeout = 5 * time.Second
	conn, err := c.Dial(context.Background())
	require.NoError(t, err)

	resp, err := conn.Do("HEAD\n")
	require.NoError(t, err)
	require.Equal(t, "OK\n", resp)

	resp, err = conn.Do("GET 2\n")
	require.NoError(t, err)
	require.Contains(t, resp, "Name: Yamaha DX7\n")
	require.NoError(t, conn.Close())

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("relay did not stop")
	}
	require.NoError(t, relay.Disconnect(h))
}

func TestRelay_ConnectBindFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	relay := &Relay{Listen: ln.Addr().String(), Upstream: "127.0.0.1:1"}
	_, err = relay.Connect(context.Background())
	require.Error(t, err)
}

func TestRelay_UpstreamDownClosesSession(t *testing.T) {
	dead, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	upstream := dead.Addr().String()
	require.NoError(t, dead.Close())

	relay := &Relay{Listen: "127.0.0.1:0", Upstream: upstream, DialTimeout: time.Second}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h, err := relay.Connect(ctx)
	require.NoError(t, err)
	go func() { _ = relay.Run(ctx, h) }()

	c := bazaarclient.New(h.Addr().String())
	c.Timeout = 5 * time.Second
	_, err = c.Do(context.Background(), "HEAD\n")
	require.Error(t, err)
}
