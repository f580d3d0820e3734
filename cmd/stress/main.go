// Command stress drives HEAD probes against a marketplace server and prints
// a latency and throughput summary.
//
// With -upstream set it first starts a local relay on -addr forwarding to
// the upstream server, then waits -warmup before sending load.
//
//	go run ./cmd/stress -addr 127.0.0.1:9050 -upstream 127.0.0.1:8000 -concurrency 10 -requests 1000
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"Bazaar/internal/stress"
	"Bazaar/internal/tunnel"
	"Bazaar/pkg/kit"
)

func main() {
	var (
		addr        = flag.String("addr", "127.0.0.1:9050", "local endpoint to send load to")
		upstream    = flag.String("upstream", "", "server address; when set a relay is started on -addr")
		concurrency = flag.Int("concurrency", 10, "number of concurrent workers")
		requests    = flag.Int("requests", 1000, "total requests, split evenly across workers")
		warmup      = flag.Duration("warmup", 2*time.Second, "wait after starting the relay")
		timeout     = flag.Duration("timeout", 30*time.Second, "per-request dial and reply timeout")
	)
	flag.Parse()

	log := kit.NewLogger("stress")
	defer func() { _ = log.Sync() }()

	ctx := context.Background()

	if *upstream != "" {
		relay := &tunnel.Relay{Listen: *addr, Upstream: *upstream, Log: log}
		h, err := relay.Connect(ctx)
		if err != nil {
			log.Fatal("transport connect failed", zap.Error(err))
		}

		rctx, cancel := context.WithCancel(ctx)
		defer cancel()
		defer func() { _ = relay.Disconnect(h) }()
		go func() {
			if err := relay.Run(rctx, h); err != nil {
				log.Error("transport stopped", zap.Error(err))
			}
		}()

		time.Sleep(*warmup)
	}

	fmt.Printf("Starting stress test with %d concurrent connections, %d total requests\n", *concurrency, *requests)

	report, err := stress.Run(ctx, stress.Config{
		Addr:          *addr,
		Concurrency:   *concurrency,
		TotalRequests: *requests,
		DialTimeout:   *timeout,
	}, stress.Deps{Log: log})
	if err != nil {
		fmt.Fprintf(os.Stderr, "stress: %v\n", err)
		os.Exit(2)
	}

	fmt.Print(report.String())
}
