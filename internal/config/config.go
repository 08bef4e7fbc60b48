// Package config builds the runtime configuration from defaults, an optional
// JSON file, the environment and command-line flags, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/steamkeeper/internal/i18n"
)

// Config holds runtime settings for the bot, the console and the backup job.
//
// Fields:
//   - BotToken: Telegram Bot API token.
//   - AllowedUsers: Telegram user ids allowed to talk to the bot. Empty denies everyone.
//   - StorePath: JSON store file.
//   - MaxUploadSize / MaxMemberSize: byte limits for uploads and archive members.
//   - PollTimeout: long-poll timeout; UpdateTimeout bounds handling of one update.
//   - OpsAddr: listen address of the ops endpoint, empty to disable it.
//   - BackupSchedule: cron spec for backups, empty to disable them.
//   - BackupDir / S3*: backup targets; each one is used when configured.
type Config struct {
	BotToken        string
	AllowedUsers    []int64
	DefaultLanguage string
	StorePath       string
	MaxUploadSize   int64
	MaxMemberSize   int64
	PageSize        int
	PollTimeout     time.Duration
	UpdateTimeout   time.Duration
	LogLevel        string
	LogFormat       string
	OpsAddr         string
	BackupSchedule  string
	BackupDir       string
	S3AccessKey     string
	S3SecretKey     string
	S3Bucket        string
	S3Region        string
	S3BaseEndpoint  string
	S3Prefix        string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.DefaultLanguage = i18n.FallbackLanguage
	c.StorePath = "data/accounts.json"
	c.MaxUploadSize = 20 << 20
	c.MaxMemberSize = 10 << 20
	c.PageSize = 10
	c.PollTimeout = 60 * time.Second
	c.UpdateTimeout = 30 * time.Second
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.S3Region = "us-east-1"
	c.S3Prefix = "backups/"
}

// Load applies defaults, then the JSON file named by -c/-config, then the
// environment as seen through lookup, then flags.
func Load(args []string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, lookup); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig loads the process configuration and panics if it is invalid.
func LoadConfig() *Config {
	cfg, err := Load(os.Args[1:], os.LookupEnv)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Validate checks settings the bot cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.BotToken == "" {
		errs = append(errs, errors.New("bot token is not set"))
	}
	if !i18n.Supported(c.DefaultLanguage) {
		errs = append(errs, fmt.Errorf("unsupported default language %q", c.DefaultLanguage))
	}
	if c.MaxUploadSize <= 0 || c.MaxMemberSize <= 0 {
		errs = append(errs, errors.New("size limits must be positive"))
	}
	if c.PageSize <= 0 {
		errs = append(errs, errors.New("page size must be positive"))
	}
	return errors.Join(errs...)
}

// S3Enabled reports whether the S3 backup target is configured.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}
