package directory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/supplynet-dashboard/internal/stores"
	"github.com/angelmondragon/supplynet-dashboard/pkg/logger"
	"github.com/angelmondragon/supplynet-dashboard/pkg/metrics"
)

const (
	defaultInterval = 30 * time.Second
	pollEndpoint    = "stores"
)

// Lister is the upstream listing call the poller depends on.
type Lister interface {
	ListStores(ctx context.Context) ([]stores.StoreRecord, error)
}

// PollerParams configure the poller.
type PollerParams struct {
	Logger   *logger.Logger
	Store    *Store
	Source   Lister
	Cache    SnapshotCache
	Metrics  *metrics.PollMetrics
	Interval time.Duration
}

// Poller refreshes the directory on a fixed cadence.
type Poller struct {
	logg     *logger.Logger
	store    *Store
	source   Lister
	cache    SnapshotCache
	metrics  *metrics.PollMetrics
	interval time.Duration
}

// NewPoller builds a poller.
func NewPoller(params PollerParams) (*Poller, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("store required")
	}
	if params.Source == nil {
		return nil, fmt.Errorf("listing source required")
	}
	interval := params.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Poller{
		logg:     params.Logger,
		store:    params.Store,
		source:   params.Source,
		cache:    params.Cache,
		metrics:  params.Metrics,
		interval: interval,
	}, nil
}

// Run polls once immediately, then on every tick until ctx is canceled.
func (p *Poller) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = p.logg.WithComponent(ctx, "directory.poller")
	_ = p.Refresh(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logg.Info(ctx, "directory poller stopped")
			return ctx.Err()
		case <-ticker.C:
			_ = p.Refresh(ctx)
		}
	}
}

// Refresh performs one poll. A failure installs fallback data and is returned
// for callers that want to report it; it never stops the poller.
func (p *Poller) Refresh(ctx context.Context) error {
	start := time.Now()
	records, err := p.source.ListStores(ctx)
	duration := time.Since(start)
	p.metrics.ObserveDuration(pollEndpoint, duration)
	pollCtx := p.logg.WithField(ctx, "duration_ms", duration.Milliseconds())

	if err != nil {
		p.metrics.IncFailure(pollEndpoint)
		p.logg.Error(pollCtx, "store listing poll failed", err)
		source := p.fallback(ctx, err)
		p.metrics.IncFallback(string(source))
		return err
	}

	p.metrics.IncSuccess(pollEndpoint)
	p.store.Replace(records)
	p.logg.Debug(p.logg.WithField(pollCtx, "store_count", len(records)), "store listing refreshed")

	if p.cache != nil {
		if err := p.cache.Save(ctx, records); err != nil {
			p.logg.Warn(p.logg.WithField(ctx, "error", err.Error()), "failed to save directory snapshot")
		}
	}
	return nil
}

func (p *Poller) fallback(ctx context.Context, cause error) Source {
	if p.store.HasLive() {
		return p.store.MarkFailed(cause, nil, SourceMemory)
	}
	if p.cache != nil {
		records, err := p.cache.Load(ctx)
		switch {
		case err == nil:
			return p.store.MarkFailed(cause, records, SourceSnapshot)
		case !errors.Is(err, ErrNoSnapshot):
			p.logg.Warn(p.logg.WithField(ctx, "error", err.Error()), "failed to load directory snapshot")
		}
	}
	return p.store.MarkFailed(cause, []stores.StoreRecord{stores.Placeholder()}, SourcePlaceholder)
}
