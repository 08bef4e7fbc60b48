package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/steamkeeper/internal/flagx"
	"github.com/dmitrijs2005/steamkeeper/internal/timex"
)

// JsonConfig is the shape of the JSON config file. Zero values leave the
// current setting unchanged.
type JsonConfig struct {
	BotToken        string         `json:"bot_token"`
	AllowedUsers    []int64        `json:"allowed_users"`
	DefaultLanguage string         `json:"default_language"`
	StorePath       string         `json:"store_path"`
	MaxUploadSize   int64          `json:"max_upload_size"`
	MaxMemberSize   int64          `json:"max_member_size"`
	PageSize        int            `json:"page_size"`
	PollTimeout     timex.Duration `json:"poll_timeout"`
	UpdateTimeout   timex.Duration `json:"update_timeout"`
	LogLevel        string         `json:"log_level"`
	LogFormat       string         `json:"log_format"`
	OpsAddr         string         `json:"ops_addr"`
	BackupSchedule  string         `json:"backup_schedule"`
	BackupDir       string         `json:"backup_dir"`
	S3AccessKey     string         `json:"s3_access_key"`
	S3SecretKey     string         `json:"s3_secret_key"`
	S3Bucket        string         `json:"s3_bucket"`
	S3Region        string         `json:"s3_region"`
	S3BaseEndpoint  string         `json:"s3_base_endpoint"`
	S3Prefix        string         `json:"s3_prefix"`
}

// parseJSON overlays the file named by -c or -config. Without one it does
// nothing.
func parseJSON(config *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&config.BotToken, c.BotToken)
	if c.AllowedUsers != nil {
		config.AllowedUsers = c.AllowedUsers
	}
	setString(&config.DefaultLanguage, c.DefaultLanguage)
	setString(&config.StorePath, c.StorePath)
	if c.MaxUploadSize > 0 {
		config.MaxUploadSize = c.MaxUploadSize
	}
	if c.MaxMemberSize > 0 {
		config.MaxMemberSize = c.MaxMemberSize
	}
	if c.PageSize > 0 {
		config.PageSize = c.PageSize
	}
	if c.PollTimeout.Duration > 0 {
		config.PollTimeout = c.PollTimeout.Duration
	}
	if c.UpdateTimeout.Duration > 0 {
		config.UpdateTimeout = c.UpdateTimeout.Duration
	}
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)
	setString(&config.OpsAddr, c.OpsAddr)
	setString(&config.BackupSchedule, c.BackupSchedule)
	setString(&config.BackupDir, c.BackupDir)
	setString(&config.S3AccessKey, c.S3AccessKey)
	setString(&config.S3SecretKey, c.S3SecretKey)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.S3Prefix, c.S3Prefix)
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
