package stress

import (
	"fmt"
	"strings"
	"time"
)

type Report struct {
	Sent      uint64
	Succeeded uint64
	Failed    uint64
	// Dropped is the remainder of TotalRequests that did not divide evenly
	// across workers; those requests are never issued.
	Dropped int
	Elapsed time.Duration

	SuccessRate float64 // 0..1
	MeanLatency time.Duration
	Throughput  float64 // requests per second
}

func newReport(s *Stats, dropped int, elapsed time.Duration) Report {
	r := Report{
		Sent:      s.Sent.Load(),
		Succeeded: s.Succeeded.Load(),
		Failed:    s.Failed.Load(),
		Dropped:   dropped,
		Elapsed:   elapsed,
	}
	if r.Sent > 0 {
		r.SuccessRate = float64(r.Succeeded) / float64(r.Sent)
	}
	if r.Succeeded > 0 {
		r.MeanLatency = time.Duration(s.TotalLatencyNs.Load() / r.Succeeded)
	}
	if secs := elapsed.Seconds(); secs > 0 {
		r.Throughput = float64(r.Sent) / secs
	}
	return r
}

func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Stress test completed in %s\n", r.Elapsed)
	fmt.Fprintf(&b, "Total requests: %d\n", r.Sent)
	fmt.Fprintf(&b, "Successful: %d\n", r.Succeeded)
	fmt.Fprintf(&b, "Failed: %d\n", r.Failed)
	if r.Dropped > 0 {
		fmt.Fprintf(&b, "Dropped (uneven split): %d\n", r.Dropped)
	}
	fmt.Fprintf(&b, "Success rate: %.2f%%\n", r.SuccessRate*100)
	if r.Succeeded > 0 {
		fmt.Fprintf(&b, "Average response time: %.2f ms\n", float64(r.MeanLatency)/float64(time.Millisecond))
	}
	fmt.Fprintf(&b, "Requests per second: %.2f\n", r.Throughput)
	return b.String()
}
