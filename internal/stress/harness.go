// Package stress drives load against a marketplace server: N workers each
// open a fresh connection per request, send a probe and check the reply.
//
// TotalRequests is split with integer division, so TotalRequests%Concurrency
// requests are never sent. The report carries that remainder as Dropped.
package stress

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"Bazaar/pkg/bazaarclient"
)

const (
	DefaultProbe       = "HEAD\n"
	DefaultExpected    = "OK\n"
	DefaultDialTimeout = 30 * time.Second
)

var (
	ErrNoWorkers     = errors.New("concurrency must be positive")
	ErrBadTotal      = errors.New("total requests must not be negative")
	ErrMissingTarget = errors.New("target address required")
)

type Config struct {
	Addr          string
	Concurrency   int
	TotalRequests int

	Probe       string
	Expected    string
	DialTimeout time.Duration
}

func (c Config) Validate() error {
	switch {
	case c.Addr == "":
		return ErrMissingTarget
	case c.Concurrency <= 0:
		return ErrNoWorkers
	case c.TotalRequests < 0:
		return ErrBadTotal
	}
	return nil
}

func (c Config) PerWorker() int { return c.TotalRequests / c.Concurrency }

func (c Config) Dropped() int { return c.TotalRequests % c.Concurrency }

func (c Config) withDefaults() Config {
	if c.Probe == "" {
		c.Probe = DefaultProbe
	}
	if c.Expected == "" {
		c.Expected = DefaultExpected
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = DefaultDialTimeout
	}
	return c
}

type Deps struct {
	Log *zap.Logger
	// Registerer, when set, receives a per-request latency histogram.
	Registerer prometheus.Registerer
}

type harness struct {
	cfg     Config
	client  *bazaarclient.Client
	stats   *Stats
	latency prometheus.Histogram
}

// Run issues the whole workload and blocks until every worker is done.
// Faults on individual requests are counted, never returned.
func Run(ctx context.Context, cfg Config, deps Deps) (Report, error) {
	if err := cfg.Validate(); err != nil {
		return Report{}, err
	}
	cfg = cfg.withDefaults()

	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("run_id", uuid.NewString()))

	h := &harness{
		cfg:    cfg,
		client: &bazaarclient.Client{Addr: cfg.Addr, Timeout: cfg.DialTimeout},
		stats:  &Stats{},
	}
	if deps.Registerer != nil {
		h.latency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "bazaar_stress_request_duration_seconds",
			Help:    "Open-to-reply latency of successful stress requests",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 16),
		})
		if err := deps.Registerer.Register(h.latency); err != nil {
			return Report{}, err
		}
	}

	per := cfg.PerWorker()
	log.Info("stress test starting",
		zap.String("addr", cfg.Addr),
		zap.Int("concurrency", cfg.Concurrency),
		zap.Int("total_requests", cfg.TotalRequests),
		zap.Int("per_worker", per),
		zap.Int("dropped", cfg.Dropped()),
	)

	start := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < per; j++ {
				h.request(ctx)
			}
		}()
	}
	wg.Wait()

	r := newReport(h.stats, cfg.Dropped(), time.Since(start))
	log.Info("stress test finished",
		zap.Uint64("sent", r.Sent),
		zap.Uint64("succeeded", r.Succeeded),
		zap.Uint64("failed", r.Failed),
		zap.Duration("elapsed", r.Elapsed),
		zap.Duration("mean_latency", r.MeanLatency),
		zap.Float64("throughput", r.Throughput),
	)
	return r, nil
}

func (h *harness) request(ctx context.Context) {
	h.stats.begin()
	start := time.Now()

	conn, err := h.client.Dial(ctx)
	if err != nil {
		h.stats.fail()
		return
	}
	defer conn.Close()

	resp, err := conn.Do(h.cfg.Probe)
	if err != nil || resp != h.cfg.Expected {
		h.stats.fail()
		return
	}

	elapsed := time.Since(start)
	h.stats.succeed(elapsed)
	if h.latency != nil {
		h.latency.Observe(elapsed.Seconds())
	}
}
