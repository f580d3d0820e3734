package stress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewReport(t *testing.T) {
	s := &Stats{}
	for i := 0; i < 10; i++ {
		s.begin()
	}
	for i := 0; i < 8; i++ {
		s.succeed(2 * time.Millisecond)
	}
	s.fail()
	s.fail()

	r := newReport(s, 3, 2*time.Second)
	require.EqualValues(t, 10, r.Sent)
	require.EqualValues(t, 8, r.Succeeded)
	require.EqualValues(t, 2, r.Failed)
	require.Equal(t, 3, r.Dropped)
	require.InDelta(t, 0.8, r.SuccessRate, 1e-9)
	require.Equal(t, 2*time.Millisecond, r.MeanLatency)
	require.InDelta(t, 5.0, r.Throughput, 1e-9)

	out := r.String()
	require.Contains(t, out, "Total requests: 10\n")
	require.Contains(t, out, "Success rate: 80.00%\n")
	require.Contains(t, out, "Average response time: 2.00 ms\n")
	require.Contains(t, out, "Requests per second: 5.00\n")
	require.Contains(t, out, "Dropped (uneven split): 3\n")
}

func TestNewReport_NoSuccesses(t *testing.T) {
	s := &Stats{}
	s.begin()
	s.fail()

	r := newReport(s, 0, time.Second)
	require.Zero(t, r.MeanLatency)
	require.Zero(t, r.SuccessRate)
	require.NotContains(t, r.String(), "Average response time")
}

func TestNewReport_Empty(t *testing.T) {
	r := newReport(&Stats{}, 0, 0)
	require.Zero(t, r.SuccessRate)
	require.Zero(t, r.Throughput)
}
