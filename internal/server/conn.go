package server

import (
	"errors"
	"io"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"Bazaar/internal/protocol"
	"Bazaar/pkg/bazaarclient"
)

// serveConn runs the read, dispatch, write cycle until the peer closes the
// connection or an I/O error occurs. Nothing carries over between requests.
func (s *Server) serveConn(conn net.Conn) {
	defer s.release()
	defer conn.Close()

	s.metrics.ConnOpened()
	defer s.metrics.ConnClosed()

	log := s.log.With(
		zap.String("conn_id", uuid.NewString()),
		zap.String("remote", conn.RemoteAddr().String()),
	)
	log.Debug("connection opened")

	buf := make([]byte, s.cfg.BufferSize)
	for {
		if s.cfg.IdleTimeout > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(s.cfg.IdleTimeout))
		}

		n, err := conn.Read(buf)
		if n == 0 {
			logReadEnd(log, err)
			return
		}

		resp := s.dispatch(log, buf[:n])

		if _, werr := conn.Write([]byte(resp)); werr != nil {
			log.Warn("write failed", zap.Error(werr))
			return
		}
		if err != nil {
			logReadEnd(log, err)
			return
		}
	}
}

func (s *Server) dispatch(log *zap.Logger, raw []byte) string {
	start := time.Now()

	request := protocol.DecodeLossy(raw)
	cmd := protocol.Parse(request)
	resp := s.d.Dispatch(cmd)

	s.metrics.Observe(cmd.Kind.String(), start)
	log.Debug("command",
		zap.String("command", cmd.Kind.String()),
		zap.String("request", strings.TrimSpace(request)),
		zap.Int("bytes", len(resp)),
	)
	if len(resp) > bazaarclient.ReadBufferSize {
		log.Warn("response exceeds peer read buffer",
			zap.String("command", cmd.Kind.String()),
			zap.Int("bytes", len(resp)),
			zap.Int("limit", bazaarclient.ReadBufferSize),
		)
	}
	return resp
}

func logReadEnd(log *zap.Logger, err error) {
	switch {
	case err == nil, errors.Is(err, io.EOF):
		log.Debug("connection closed by peer")
	case errors.Is(err, net.ErrClosed):
		log.Debug("connection closed")
	default:
		log.Warn("read failed", zap.Error(err))
	}
}
