package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/steamkeeper/internal/flagx"
)

// parseEnv overlays environment variables. Unset or empty variables leave the
// current setting unchanged.
//
//	BOT_TOKEN, ALLOWED_USERS (comma separated), DEFAULT_LANGUAGE, STORE_PATH,
//	MAX_UPLOAD_SIZE, MAX_MEMBER_SIZE, PAGE_SIZE, POLL_TIMEOUT, UPDATE_TIMEOUT,
//	LOG_LEVEL, LOG_FORMAT, OPS_ADDR, BACKUP_SCHEDULE, BACKUP_DIR,
//	S3_ACCESS_KEY, S3_SECRET_KEY, S3_BUCKET, S3_REGION, S3_BASE_ENDPOINT, S3_PREFIX
func parseEnv(config *Config, lookup func(string) (string, bool)) error {
	get := func(k string) (string, bool) {
		v, ok := lookup(k)
		return v, ok && v != ""
	}

	strs := map[string]*string{
		"BOT_TOKEN":        &config.BotToken,
		"DEFAULT_LANGUAGE": &config.DefaultLanguage,
		"STORE_PATH":       &config.StorePath,
		"LOG_LEVEL":        &config.LogLevel,
		"LOG_FORMAT":       &config.LogFormat,
		"OPS_ADDR":         &config.OpsAddr,
		"BACKUP_SCHEDULE":  &config.BackupSchedule,
		"BACKUP_DIR":       &config.BackupDir,
		"S3_ACCESS_KEY":    &config.S3AccessKey,
		"S3_SECRET_KEY":    &config.S3SecretKey,
		"S3_BUCKET":        &config.S3Bucket,
		"S3_REGION":        &config.S3Region,
		"S3_BASE_ENDPOINT": &config.S3BaseEndpoint,
		"S3_PREFIX":        &config.S3Prefix,
	}
	for k, dst := range strs {
		if v, ok := get(k); ok {
			*dst = v
		}
	}

	if v, ok := get("ALLOWED_USERS"); ok {
		ids, err := flagx.ParseIDList(v)
		if err != nil {
			return fmt.Errorf("ALLOWED_USERS: %w", err)
		}
		config.AllowedUsers = ids
	}

	sizes := map[string]*int64{
		"MAX_UPLOAD_SIZE": &config.MaxUploadSize,
		"MAX_MEMBER_SIZE": &config.MaxMemberSize,
	}
	for k, dst := range sizes {
		if v, ok := get(k); ok {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}
			*dst = n
		}
	}

	if v, ok := get("PAGE_SIZE"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PAGE_SIZE: %w", err)
		}
		config.PageSize = n
	}

	durations := map[string]*time.Duration{
		"POLL_TIMEOUT":   &config.PollTimeout,
		"UPDATE_TIMEOUT": &config.UpdateTimeout,
	}
	for k, dst := range durations {
		if v, ok := get(k); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}
			*dst = d
		}
	}
	return nil
}
