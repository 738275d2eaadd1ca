package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/angelmondragon/supplynet-dashboard/api/controllers"
	"github.com/angelmondragon/supplynet-dashboard/api/routes"
	"github.com/angelmondragon/supplynet-dashboard/internal/assistant"
	"github.com/angelmondragon/supplynet-dashboard/internal/directory"
	"github.com/angelmondragon/supplynet-dashboard/internal/fleet"
	"github.com/angelmondragon/supplynet-dashboard/internal/upstream"
	"github.com/angelmondragon/supplynet-dashboard/internal/views"
	"github.com/angelmondragon/supplynet-dashboard/pkg/instance"
	"github.com/angelmondragon/supplynet-dashboard/pkg/metrics"
	"github.com/angelmondragon/supplynet-dashboard/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard HTTP API",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logg, err := bootstrap("dashboard")
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	var (
		redisClient *redis.Client
		pinger      controllers.Pinger
		cache       directory.SnapshotCache
	)
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			return err
		}
		pinger = redisClient
		snapshots, err := directory.NewRedisSnapshotCache(redisClient, cfg.Directory.SnapshotTTL, redis.ErrNotFound)
		if err != nil {
			return err
		}
		cache = snapshots
	} else {
		logg.Info(ctx, "redis not configured, directory snapshots disabled")
	}

	api, err := upstream.NewClient(cfg.Upstream.APIBaseURL, upstream.WithTimeout(cfg.Upstream.RequestTimeout))
	if err != nil {
		return err
	}

	store := directory.NewStore()
	poller, err := directory.NewPoller(directory.PollerParams{
		Logger:   logg,
		Store:    store,
		Source:   api,
		Cache:    cache,
		Metrics:  metrics.NewPollMetrics(reg),
		Interval: cfg.Directory.PollInterval,
	})
	if err != nil {
		return err
	}

	vehicles, err := fleet.Load(cfg.Fleet.File)
	if err != nil {
		return err
	}

	registry, err := views.NewRegistry(views.Params{
		API:               api,
		Dialer:            assistant.NewWSDialer(cfg.Assistant.HandshakeTimeout, cfg.Assistant.StopWriteTimeout),
		StreamURL:         cfg.Upstream.StreamURL,
		MaxIterations:     cfg.Assistant.MaxIterations,
		FulfillingStoreID: cfg.Assistant.FulfillingStoreID,
		Logger:            logg,
		Metrics:           metrics.NewAssistantMetrics(reg),
	})
	if err != nil {
		return err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
		"vehicles": len(vehicles.List()),
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:    cfg,
			Logger:    logg,
			Directory: store,
			Refresher: poller,
			Orders:    api,
			Fleet:     vehicles,
			Views:     registry,
			Redis:     pinger,
			Gatherer:  reg,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	pollerDone := make(chan struct{})
	go func() {
		defer close(pollerDone)
		_ = poller.Run(ctx)
	}()

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(logCtx, "starting dashboard server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logg.Info(logCtx, "shutdown requested")
	case err := <-serveErr:
		if err != nil {
			logg.Error(logCtx, "dashboard server stopped unexpectedly", err)
			runErr = err
		}
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		runErr = multierr.Append(runErr, err)
	}
	closed := registry.CloseAll()
	<-pollerDone
	if redisClient != nil {
		runErr = multierr.Append(runErr, redisClient.Close())
	}

	logg.Info(logg.WithField(logCtx, "views_closed", closed), "dashboard stopped")
	if runErr != nil {
		logg.Error(logCtx, "shutdown finished with errors", runErr)
	}
	return runErr
}
