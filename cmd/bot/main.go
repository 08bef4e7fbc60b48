package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/zarlcorp/core/pkg/zapp"

	"github.com/dmitrijs2005/steamkeeper/internal/app"
	"github.com/dmitrijs2005/steamkeeper/internal/config"
	"github.com/dmitrijs2005/steamkeeper/internal/logging"
)

func main() {
	z := zapp.New(zapp.WithName("steamkeeper"))

	ctx, cancel := zapp.SignalContext(context.Background())
	defer cancel()

	// .env values override the inherited environment
	envErr := godotenv.Overload()

	cfg := config.LoadConfig()
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	if envErr != nil {
		logger.Info(ctx, "no .env file found, using environment variables")
	}

	if err := cfg.Validate(); err != nil {
		logger.Error(ctx, "invalid configuration", "error", err)
		os.Exit(1)
	}

	a, err := app.NewApp(cfg, logger)
	if err != nil {
		logger.Error(ctx, "startup failed", "error", err)
		os.Exit(1)
	}

	if err := a.Run(ctx); err != nil {
		logger.Error(ctx, "app failed", "error", err)
		_ = z.Close()
		os.Exit(1)
	}

	if err := z.Close(); err != nil {
		logger.Error(ctx, "shutdown", "error", err)
		os.Exit(1)
	}
}
