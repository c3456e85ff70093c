package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-kit/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	rateshttp "service-rates/internal/api/http/rates"
	"service-rates/internal/cache"
	"service-rates/internal/clients/privatbank"
	"service-rates/internal/metrics"
	"service-rates/internal/models"
	ratessvc "service-rates/internal/service/rates"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the aggregate report over HTTP with a scheduled cache warm-up",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := newLogger()
	m := metrics.NewMetrics()

	client := privatbank.New()
	if cfg.BaseURL != "" {
		client.BaseURL = cfg.BaseURL
	}

	svc := ratessvc.NewLoggingService(logger, ratessvc.New(client, logger, m))
	reportCache := cache.NewMemoryCache(cfg.CacheTTL)
	handler := rateshttp.New(svc, reportCache, m, cfg.DefaultDays, cfg.DefaultCurrencies)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Handle("/metrics", promhttp.Handler())
	handler.Register(r)

	loc, err := time.LoadLocation(cfg.Location)
	if err != nil {
		return fmt.Errorf("load location %s: %w", cfg.Location, err)
	}
	scheduler := cron.New(
		cron.WithLocation(loc),
		cron.WithParser(cron.NewParser(cron.Minute|cron.Hour|cron.Dom|cron.Month|cron.Dow)),
	)

	g, gctx := errgroup.WithContext(ctx)

	// Warm the default report once on startup, then on schedule.
	warmCache(ctx, svc, reportCache, cfg, logger)

	_, err = scheduler.AddFunc(cfg.CronSpec, func() {
		warmCache(gctx, svc, reportCache, cfg, logger)
		reportCache.ClearExpired(gctx)
	})
	if err != nil {
		return fmt.Errorf("add cron func: %w", err)
	}

	g.Go(func() error {
		return runCron(gctx, scheduler)
	})

	g.Go(func() error {
		return serveHTTP(gctx, ":"+cfg.HTTPPort, r, logger)
	})

	_ = logger.Log("msg", "running, stop with Ctrl+C / SIGTERM", "port", cfg.HTTPPort)
	return g.Wait()
}

func warmCache(ctx context.Context, svc ratessvc.Reporter, c *cache.MemoryCache, cfg Config, logger log.Logger) {
	currencies := models.NewCurrencySet(cfg.DefaultCurrencies)

	report, err := svc.GetRates(ctx, cfg.DefaultDays, currencies)
	if err != nil {
		_ = logger.Log("msg", "cache warm-up failed", "err", err)
		return
	}

	c.Set(ctx, cache.Key(cfg.DefaultDays, currencies), report)
	_ = logger.Log("msg", "cache warmed", "days", cfg.DefaultDays, "entries", len(report))
}

func runCron(ctx context.Context, c *cron.Cron) error {
	c.Start()
	defer func() {
		stopCtx := c.Stop()
		<-stopCtx.Done()
	}()

	<-ctx.Done()
	return nil
}

func serveHTTP(ctx context.Context, addr string, h http.Handler, logger log.Logger) error {
	srv := &http.Server{Addr: addr, Handler: h}
	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutCtx)
	}()

	_ = logger.Log("msg", "HTTP listening", "addr", addr)
	err := srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
