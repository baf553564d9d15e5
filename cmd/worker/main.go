package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/go-commerce-core/internal/config"
	"github.com/ariefcatur/go-commerce-core/internal/events"
	"github.com/ariefcatur/go-commerce-core/internal/httpx"
	kafkax "github.com/ariefcatur/go-commerce-core/internal/kafka"
	"github.com/ariefcatur/go-commerce-core/internal/logger"
	"github.com/ariefcatur/go-commerce-core/internal/memstore"
	"github.com/ariefcatur/go-commerce-core/internal/metrics"
	"github.com/ariefcatur/go-commerce-core/internal/outbox"
	"github.com/ariefcatur/go-commerce-core/internal/payments"
	"github.com/ariefcatur/go-commerce-core/internal/persist"
	"github.com/ariefcatur/go-commerce-core/internal/postgres"
	"github.com/ariefcatur/go-commerce-core/internal/redisx"
	"github.com/ariefcatur/go-commerce-core/internal/service"
	"github.com/ariefcatur/go-commerce-core/internal/worker"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
)

type backend interface {
	persist.Store
	outbox.Source
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log, err := logger.New(cfg.LogMode, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)
	checks := map[string]httpx.Check{}

	// Store
	var store backend
	switch cfg.Store {
	case "memory":
		log.Warn("using in-memory store; state is lost on exit")
		store = memstore.New(cfg.ServiceName)
	default:
		pool, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Fatal("db connect", "err", err)
		}
		defer pool.Close()
		if err := postgres.Migrate(pool); err != nil {
			log.Fatal("db migrate", "err", err)
		}
		pg := postgres.NewStore(pool, cfg.ServiceName)
		checks["postgres"] = pg.Ping
		store = pg
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()
	if err := redisx.Ping(ctx, rdb); err != nil {
		log.Fatal("redis", "err", err)
	}
	checks["redis"] = func(ctx context.Context) error { return redisx.Ping(ctx, rdb) }

	// Services
	dispatch := events.MultiDispatcher{m, events.DispatcherFunc(func(_ context.Context, evs []events.Event) error {
		for _, e := range evs {
			log.Debug("event committed", "type", e.EventType(), "aggregate_id", e.AggregateID())
		}
		return nil
	})}
	ordering := service.NewOrdering(store, dispatch, log.With("svc", "ordering"))
	pays := service.NewPayments(store, redisx.NewIdempotencyRegistry(rdb), dispatch, log.With("svc", "payments"))

	// Kafka
	prod := kafkax.NewProducer(cfg.KafkaBrokers)
	defer prod.Close()
	relay := outbox.NewRelay(store, prod, cfg.RelayInterval, cfg.RelayBatch, log, m)

	h := &worker.Handlers{
		Ordering: ordering,
		Payments: pays,
		Dedup:    redisx.NewDedup(rdb, cfg.ConsumerGroup+"-orders"),
		Log:      log.With("component", "handlers"),
		Metrics:  m,
	}
	outcomes := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.ConsumerGroup, cfg.OutcomesTopic, cfg.ConsumerWorkers, log)
	paymentEvents := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.ConsumerGroup+"-orders", payments.AggregateType, cfg.ConsumerWorkers, log)

	// Ops HTTP
	srv := &http.Server{Addr: cfg.OpsAddr, Handler: httpx.NewRouter(reg, checks), ReadHeaderTimeout: 5 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("outbox relay started", "interval", cfg.RelayInterval, "batch", cfg.RelayBatch)
		return relay.Run(gctx)
	})
	g.Go(func() error {
		log.Info("consumer started", "topic", cfg.OutcomesTopic, "workers", cfg.ConsumerWorkers)
		return outcomes.Start(gctx, h.GatewayOutcome)
	})
	g.Go(func() error {
		log.Info("consumer started", "topic", payments.AggregateType, "workers", cfg.ConsumerWorkers)
		return paymentEvents.Start(gctx, h.PaymentEvents)
	})
	g.Go(func() error {
		log.Info("ops listening", "addr", cfg.OpsAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	if err := g.Wait(); err != nil {
		log.Error("worker stopped", "err", err)
	}
	log.Info("shutdown complete")
}
