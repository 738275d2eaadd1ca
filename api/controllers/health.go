package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/supplynet-dashboard/api/responses"
	"github.com/angelmondragon/supplynet-dashboard/pkg/config"
	pkgerrors "github.com/angelmondragon/supplynet-dashboard/pkg/errors"
	"github.com/angelmondragon/supplynet-dashboard/pkg/logger"
)

const envHeader = "X-Supplynet-Env"

// Pinger is a dependency the readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings optional dependencies. A nil pinger is skipped.
func HealthReady(cfg *config.Config, logg *logger.Logger, redis Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		checks := map[string]string{}
		if redis != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := redis.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis not ready"))
				return
			}
			checks["redis"] = "ok"
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
