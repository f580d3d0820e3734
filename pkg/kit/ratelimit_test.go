package kit

import (
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIPRateLimiter_WindowPerHost(t *testing.T) {
	now := time.Unix(1000, 0)
	l := NewIPRateLimiter(2, time.Minute)
	l.now = func() time.Time { return now }

	a := &net.TCPAddr{IP: net.ParseIP("10.0.0.1"), Port: 4000}
	b := &net.TCPAddr{IP: net.ParseIP("10.0.0.2"), Port: 4000}

	require.True(t, l.AllowAddr(a))
	require.True(t, l.AllowAddr(&net.TCPAddr{IP: a.IP, Port: 5000}))
	require.False(t, l.AllowAddr(a))
	require.True(t, l.AllowAddr(b))

	now = now.Add(61 * time.Second)
	require.True(t, l.AllowAddr(a))
}

func TestIPRateLimiter_ForgetsIdleHosts(t *testing.T) {
	now := time.Unix(1000, 0)
	l := NewIPRateLimiter(2, time.Minute)
	l.now = func() time.Time { return now }

	for i := 1; i <= 50; i++ {
		require.True(t, l.Allow(fmt.Sprintf("10.0.0.%d", i)))
	}
	require.Len(t, l.hits, 50)

	now = now.Add(2 * time.Minute)
	require.True(t, l.Allow("10.0.1.1"))
	require.Len(t, l.hits, 1)
	require.Contains(t, l.hits, "10.0.1.1")
}

func TestHostOf(t *testing.T) {
	require.Equal(t, "127.0.0.1", hostOf(&net.TCPAddr{IP: net.ParseIP("127.0.0.1"), Port: 1}))
	require.Equal(t, "", hostOf(nil))
}
