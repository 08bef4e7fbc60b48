package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/zarlcorp/core/pkg/zapp"
	"github.com/zarlcorp/core/pkg/zfilesystem"
	"golang.org/x/term"

	"github.com/dmitrijs2005/steamkeeper/internal/app"
	"github.com/dmitrijs2005/steamkeeper/internal/config"
	"github.com/dmitrijs2005/steamkeeper/internal/console"
	"github.com/dmitrijs2005/steamkeeper/internal/export"
	"github.com/dmitrijs2005/steamkeeper/internal/logging"
)

func main() {
	z := zapp.New(zapp.WithName("steamkeeper-console"))

	ctx, cancel := zapp.SignalContext(context.Background())
	defer cancel()

	_ = godotenv.Overload()

	cfg := config.LoadConfig()
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	prompt := ""
	if term.IsTerminal(int(os.Stdin.Fd())) {
		prompt = "steamkeeper> "
	}

	c := console.New(
		app.NewAccountService(cfg, logger),
		export.NewBuilder(),
		zfilesystem.NewOSFileSystem("."),
		logger,
		os.Stdin,
		os.Stdout,
	)
	c.Run(ctx, prompt)

	if err := z.Close(); err != nil {
		logger.Error(ctx, "shutdown", "error", err)
		os.Exit(1)
	}
}
