package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"Bazaar/internal/catalog"
	"Bazaar/internal/ops"
	"Bazaar/internal/protocol"
	"Bazaar/internal/server"
	"Bazaar/internal/tunnel"
	"Bazaar/pkg/kit"
)

func main() {
	service := "bazaar"
	log := kit.NewLogger(service)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, pingers, closeSource, err := loadCatalog(ctx, log)
	if err != nil {
		log.Fatal("load catalog failed", zap.Error(err))
	}
	defer closeSource()
	log.Info("marketplace initialized", zap.Int("items", store.Len()))

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	cfg := server.Config{
		Addr:        getenv("BAZAAR_ADDR", "127.0.0.1:8000"),
		MaxConns:    getint(log, "MAX_CONNS", 0),
		IdleTimeout: getduration(log, "IDLE_TIMEOUT", 0),
	}
	if n := getint(log, "CONN_RATE_LIMIT", 0); n > 0 {
		cfg.Limiter = kit.NewIPRateLimiter(n, time.Minute)
	}

	srv := server.New(cfg, protocol.NewDispatcher(store), server.Deps{
		Log:     log,
		Metrics: kit.NewMetrics(reg),
	})

	if listen := os.Getenv("TUNNEL_LISTEN"); listen != "" {
		relay := &tunnel.Relay{Listen: listen, Upstream: cfg.Addr, Log: log}
		h, err := relay.Connect(ctx)
		if err != nil {
			log.Fatal("transport connect failed", zap.Error(err))
		}
		defer func() { _ = relay.Disconnect(h) }()

		go func() {
			if err := relay.Run(ctx, h); err != nil {
				log.Error("transport stopped", zap.Error(err))
			}
		}()
	}

	opsHandler := ops.NewHandler(ops.HTTPDeps{
		Log:              log,
		Registry:         reg,
		MetricsTokenHash: os.Getenv("METRICS_TOKEN_BCRYPT"),
	}, pingers...)
	go func() {
		if err := kit.RunHTTPServer(ctx, getenv("OPS_ADDR", ":9100"), opsHandler, log); err != nil {
			log.Error("ops server stopped", zap.Error(err))
		}
	}()

	if err := srv.ListenAndServe(ctx); err != nil {
		log.Fatal("protocol server stopped", zap.String("addr", cfg.Addr), zap.Error(err))
	}
	log.Info("server shutdown complete")
}

// loadCatalog builds the store from DATABASE_URL, CATALOG_FILE or the
// built-in sample set, in that order of preference.
func loadCatalog(ctx context.Context, log *zap.Logger) (*catalog.Store, []ops.Pinger, func(), error) {
	noop := func() {}

	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		db, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, nil, noop, err
		}
		src := catalog.NewPostgresSource(db)
		items, err := src.Items(ctx)
		if err != nil {
			_ = db.Close()
			return nil, nil, noop, err
		}
		log.Info("catalog loaded", zap.String("source", "postgres"), zap.Int("items", len(items)))
		store := catalog.NewStore(items...)
		return store, []ops.Pinger{store, src}, func() { _ = db.Close() }, nil
	}

	if path := os.Getenv("CATALOG_FILE"); path != "" {
		items, err := catalog.LoadFile(path)
		if err != nil {
			return nil, nil, noop, err
		}
		log.Info("catalog loaded", zap.String("source", path), zap.Int("items", len(items)))
		store := catalog.NewStore(items...)
		return store, []ops.Pinger{store}, noop, nil
	}

	store := catalog.NewStore(catalog.Bootstrap()...)
	return store, []ops.Pinger{store}, noop, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(log *zap.Logger, k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatal("invalid integer setting", zap.String("key", k), zap.String("value", v))
	}
	return n
}

func getduration(log *zap.Logger, k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatal("invalid duration setting", zap.String("key", k), zap.String("value", v))
	}
	return d
}
