package tunnel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultDialTimeout = 10 * time.Second

// Relay is a loopback Transport: it listens on Listen and pipes every
// accepted connection to Upstream byte for byte.
type Relay struct {
	Listen      string
	Upstream    string
	DialTimeout time.Duration
	Log         *zap.Logger
}

var _ Transport = (*Relay)(nil)

func (r *Relay) logger() *zap.Logger {
	if r.Log == nil {
		return zap.NewNop()
	}
	return r.Log
}

func (r *Relay) Connect(ctx context.Context) (*Handle, error) {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", r.Listen)
	if err != nil {
		return nil, fmt.Errorf("relay listen %s: %w", r.Listen, err)
	}

	h := &Handle{ID: uuid.NewString(), ln: ln}
	r.logger().Info("relay connected",
		zap.String("relay_id", h.ID),
		zap.String("listen", ln.Addr().String()),
		zap.String("upstream", r.Upstream),
	)
	return h, nil
}

// Run accepts and forwards until ctx is done. Sessions in flight when it
// returns are closed.
func (r *Relay) Run(ctx context.Context, h *Handle) error {
	log := r.logger().With(zap.String("relay_id", h.ID))

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = h.ln.Close()
		case <-stop:
		}
	}()

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		down, err := h.ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("relay accept: %w", err)
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			r.forward(ctx, log, down)
		}()
	}
}

func (r *Relay) Disconnect(h *Handle) error {
	err := h.ln.Close()
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

func (r *Relay) forward(ctx context.Context, log *zap.Logger, down net.Conn) {
	defer down.Close()

	timeout := r.DialTimeout
	if timeout <= 0 {
		timeout = defaultDialTimeout
	}
	d := net.Dialer{Timeout: timeout}
	up, err := d.DialContext(ctx, "tcp", r.Upstream)
	if err != nil {
		log.Warn("relay upstream dial failed", zap.String("upstream", r.Upstream), zap.Error(err))
		return
	}
	defer up.Close()

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = down.Close()
			_ = up.Close()
		case <-done:
		}
	}()
	defer close(done)

	errc := make(chan error, 2)
	go func() { errc <- pipe(up, down) }()
	go func() { errc <- pipe(down, up) }()

	// Each direction half-closes its destination when done, so wait for both.
	for i := 0; i < 2; i++ {
		if err := <-errc; err != nil && !errors.Is(err, net.ErrClosed) {
			log.Debug("relay session ended", zap.Error(err))
		}
	}
}

func pipe(dst, src net.Conn) error {
	_, err := io.Copy(dst, src)
	if tc, ok := dst.(*net.TCPConn); ok {
		_ = tc.CloseWrite()
	}
	return err
}
