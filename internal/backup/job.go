package backup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/steamkeeper/internal/export"
	"github.com/dmitrijs2005/steamkeeper/internal/logging"
	"github.com/dmitrijs2005/steamkeeper/internal/services"
)

// Job exports every stored account and uploads the archive to each target.
type Job struct {
	accounts  services.AccountService
	export    *export.Builder
	uploaders []Uploader
	log       logging.Logger
	now       func() time.Time
}

func NewJob(accounts services.AccountService, exp *export.Builder, log logging.Logger, uploaders ...Uploader) *Job {
	return &Job{accounts: accounts, export: exp, uploaders: uploaders, log: log, now: time.Now}
}

// ArchiveName names a backup taken at t.
func ArchiveName(t time.Time) string {
	return "accounts-" + t.UTC().Format("20060102-150405") + ".zip"
}

// Run takes one backup. An empty store is skipped. A failing uploader does
// not stop the others; their errors are joined.
func (j *Job) Run(ctx context.Context) error {
	list, err := j.accounts.List(ctx)
	if err != nil {
		return fmt.Errorf("list accounts: %w", err)
	}
	if len(list) == 0 {
		j.log.Info(ctx, "backup skipped, store is empty")
		return nil
	}

	accs := services.Records(list)

	archive, err := j.export.All(accs)
	if err != nil {
		return fmt.Errorf("export accounts: %w", err)
	}

	name := ArchiveName(j.now())
	var errs []error
	for _, u := range j.uploaders {
		if err := u.Upload(ctx, name, archive.Data); err != nil {
			j.log.Error(ctx, "backup upload failed", "target", u.Name(), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", u.Name(), err))
			continue
		}
		j.log.Info(ctx, "backup uploaded", "target", u.Name(), "name", name, "accounts", len(accs), "bytes", len(archive.Data))
	}
	return errors.Join(errs...)
}
