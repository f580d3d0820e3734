package stress

import (
	"time"

	"go.uber.org/atomic"
)

// Stats is shared by every worker and updated without locks. Latency is
// accumulated for successful requests only.
type Stats struct {
	Sent           atomic.Uint64
	Succeeded      atomic.Uint64
	Failed         atomic.Uint64
	TotalLatencyNs atomic.Uint64
}

func (s *Stats) begin() { s.Sent.Inc() }

func (s *Stats) succeed(d time.Duration) {
	s.Succeeded.Inc()
	s.TotalLatencyNs.Add(uint64(d.Nanoseconds()))
}

func (s *Stats) fail() { s.Failed.Inc() }
