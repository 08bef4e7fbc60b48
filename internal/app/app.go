// Package app wires the bot, the ops endpoint and the backup scheduler
// together and runs them until the context is cancelled.
package app

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/zarlcorp/core/pkg/zfilesystem"

	"github.com/dmitrijs2005/steamkeeper/internal/backup"
	"github.com/dmitrijs2005/steamkeeper/internal/bot"
	"github.com/dmitrijs2005/steamkeeper/internal/bot/handlers"
	"github.com/dmitrijs2005/steamkeeper/internal/bot/router"
	"github.com/dmitrijs2005/steamkeeper/internal/bundle"
	"github.com/dmitrijs2005/steamkeeper/internal/config"
	"github.com/dmitrijs2005/steamkeeper/internal/export"
	"github.com/dmitrijs2005/steamkeeper/internal/i18n"
	"github.com/dmitrijs2005/steamkeeper/internal/logging"
	"github.com/dmitrijs2005/steamkeeper/internal/opsapi"
	"github.com/dmitrijs2005/steamkeeper/internal/repositories/accounts"
	"github.com/dmitrijs2005/steamkeeper/internal/services"
)

const backupTimeout = 5 * time.Minute

type App struct {
	config   *config.Config
	logger   logging.Logger
	accounts services.AccountService
	exporter *export.Builder
	bot      *bot.Bot
}

// NewAccountService opens the JSON store named by the config.
func NewAccountService(c *config.Config, logger logging.Logger) services.AccountService {
	fsys := zfilesystem.NewOSFileSystem(filepath.Dir(c.StorePath))
	repo := accounts.NewJSONRepository(fsys, filepath.Base(c.StorePath), logger.With("component", "store"))
	return services.NewAccountService(repo, logger, bundle.Options{MaxMemberSize: c.MaxMemberSize})
}

func NewApp(c *config.Config, logger logging.Logger) (*App, error) {
	api, err := tgbotapi.NewBotAPI(c.BotToken)
	if err != nil {
		return nil, fmt.Errorf("telegram init error: %w", err)
	}
	logger.Info(context.Background(), "authorized on telegram", "bot", api.Self.UserName)

	return newApp(c, logger, api), nil
}

func newApp(c *config.Config, logger logging.Logger, api bot.UpdatesAPI) *App {
	as := NewAccountService(c, logger)
	texts := i18n.New(c.DefaultLanguage, logger)
	exp := export.NewBuilder()

	deps := router.Deps{
		Bot:      api,
		Files:    router.NewHTTPDownloader(api, &http.Client{Timeout: c.UpdateTimeout}, c.MaxUploadSize),
		Accounts: as,
		Export:   exp,
		Texts:    texts,
		Log:      logger,
		Cfg:      router.Config{MaxUploadSize: c.MaxUploadSize, PageSize: c.PageSize},
	}

	b := bot.New(api, router.NewRouter(handlers.Default(texts)...), router.NewMemorySessionStore(), deps, bot.Options{
		AllowedUsers:  c.AllowedUsers,
		PollTimeout:   c.PollTimeout,
		UpdateTimeout: c.UpdateTimeout,
	})

	return &App{config: c, logger: logger, accounts: as, exporter: exp, bot: b}
}

// uploaders returns the configured backup targets.
func (app *App) uploaders(ctx context.Context) ([]backup.Uploader, error) {
	var ups []backup.Uploader
	if app.config.BackupDir != "" {
		ups = append(ups, backup.NewDirUploader(zfilesystem.NewOSFileSystem(app.config.BackupDir), "."))
	}
	if app.config.S3Enabled() {
		s3u, err := backup.NewS3Uploader(ctx, backup.S3Config{
			AccessKey:    app.config.S3AccessKey,
			SecretKey:    app.config.S3SecretKey,
			Bucket:       app.config.S3Bucket,
			Region:       app.config.S3Region,
			BaseEndpoint: app.config.S3BaseEndpoint,
			Prefix:       app.config.S3Prefix,
		})
		if err != nil {
			return nil, err
		}
		ups = append(ups, s3u)
	}
	return ups, nil
}

func (app *App) startBackups(ctx context.Context) (*backup.Scheduler, error) {
	if app.config.BackupSchedule == "" {
		return nil, nil
	}
	ups, err := app.uploaders(ctx)
	if err != nil {
		return nil, fmt.Errorf("backup init error: %w", err)
	}
	if len(ups) == 0 {
		app.logger.Warn(ctx, "backup schedule set but no backup target configured")
		return nil, nil
	}

	log := app.logger.With("component", "backup")
	s := backup.NewScheduler(log, backupTimeout)
	if err := s.Start(app.config.BackupSchedule, backup.NewJob(app.accounts, app.exporter, log, ups...)); err != nil {
		return nil, err
	}
	return s, nil
}

// Run blocks until ctx is cancelled or the bot loop stops.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	scheduler, err := app.startBackups(ctx)
	if err != nil {
		return err
	}
	if scheduler != nil {
		defer scheduler.Stop()
	}

	var wg sync.WaitGroup

	if app.config.OpsAddr != "" {
		ops := opsapi.NewServer(app.accounts, app.logger.With("component", "ops"))
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := ops.Run(ctx, app.config.OpsAddr); err != nil {
				app.logger.Error(ctx, "ops endpoint failed", "error", err)
			}
		}()
	}

	err = app.bot.Run(ctx)
	cancelFunc()
	wg.Wait()

	app.logger.Info(ctx, "app stopped")
	return err
}
