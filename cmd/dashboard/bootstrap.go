package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/supplynet-dashboard/pkg/config"
	"github.com/angelmondragon/supplynet-dashboard/pkg/logger"
)

// bootstrap loads .env and the environment config, then builds the service logger.
func bootstrap(service string) (*config.Config, *logger.Logger, error) {
	logg := logger.New(logger.Options{ServiceName: service})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	logg = logger.New(logger.Options{
		ServiceName: service,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})
	return cfg, logg, nil
}
