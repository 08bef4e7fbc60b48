package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/steamkeeper/internal/flagx"
)

// parseFlags overlays command-line flags.
//
//	-t string   bot token
//	-u ids      allowed user ids, comma separated
//	-l string   default language
//	-s string   store file path
//	-m int      max upload size, bytes
//	-p int      accounts per list page
//	-v string   log level
//	-f string   log format (text|json)
//	-o string   ops endpoint address
//	-b string   backup cron schedule
//	-d string   backup directory
//
// Other arguments, including -c/-config, are filtered out first with
// flagx.FilterArgs.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-t", "-u", "-l", "-s", "-m", "-p", "-v", "-f", "-o", "-b", "-d"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	users := flagx.IDList(config.AllowedUsers)

	fs.StringVar(&config.BotToken, "t", config.BotToken, "bot token")
	fs.Var(&users, "u", "allowed user ids")
	fs.StringVar(&config.DefaultLanguage, "l", config.DefaultLanguage, "default language")
	fs.StringVar(&config.StorePath, "s", config.StorePath, "store file path")
	fs.Int64Var(&config.MaxUploadSize, "m", config.MaxUploadSize, "max upload size in bytes")
	fs.IntVar(&config.PageSize, "p", config.PageSize, "accounts per list page")
	fs.StringVar(&config.LogLevel, "v", config.LogLevel, "log level")
	fs.StringVar(&config.LogFormat, "f", config.LogFormat, "log format")
	fs.StringVar(&config.OpsAddr, "o", config.OpsAddr, "ops endpoint address")
	fs.StringVar(&config.BackupSchedule, "b", config.BackupSchedule, "backup cron schedule")
	fs.StringVar(&config.BackupDir, "d", config.BackupDir, "backup directory")

	if err := fs.Parse(args); err != nil {
		return err
	}

	config.AllowedUsers = users
	return nil
}
