package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dmitrijs2005/steamkeeper/internal/bundle"
	"github.com/dmitrijs2005/steamkeeper/internal/common"
	"github.com/dmitrijs2005/steamkeeper/internal/logging"
	"github.com/dmitrijs2005/steamkeeper/internal/models"
	"github.com/dmitrijs2005/steamkeeper/internal/parser"
	"github.com/dmitrijs2005/steamkeeper/internal/repositories/accounts"
)

// PreviewErrors is how many advisory errors a bundle report shows.
const PreviewErrors = 5

// StoredAccount is a record together with the key it is stored under.
type StoredAccount struct {
	Key     string
	Account models.Account
}

// Records drops the keys from a listing.
func Records(list []StoredAccount) []models.Account {
	out := make([]models.Account, len(list))
	for i, sa := range list {
		out[i] = sa.Account
	}
	return out
}

type AccountService interface {
	// Reconcile merges candidate into the matching stored record, or inserts
	// it, and returns the record as stored.
	Reconcile(ctx context.Context, candidate models.Account) (models.Account, error)

	ImportLine(ctx context.Context, line string) (models.Account, error)
	ImportMaFile(ctx context.Context, content string) (models.Account, error)
	ImportBundle(ctx context.Context, data []byte) (*ImportReport, error)

	List(ctx context.Context) ([]StoredAccount, error)
	Get(ctx context.Context, key string) (models.Account, error)
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Count(ctx context.Context) (int, error)
}

type accountService struct {
	repo   accounts.Repository
	log    logging.Logger
	bundle bundle.Options
}

func NewAccountService(repo accounts.Repository, log logging.Logger, opts bundle.Options) AccountService {
	return &accountService{repo: repo, log: log, bundle: opts}
}

func (s *accountService) Reconcile(ctx context.Context, candidate models.Account) (models.Account, error) {
	if candidate.Key() == "" {
		return models.Account{}, common.ErrNoIdentity
	}

	var result models.Account
	err := s.repo.Update(ctx, func(snap accounts.Snapshot) error {
		key, stored, ok := findMatch(snap, candidate)
		if !ok {
			key, result = candidate.Key(), candidate
			s.log.Debug(ctx, "account inserted", "key", key)
		} else {
			result = models.Merge(stored, candidate)
			s.log.Debug(ctx, "account merged", "key", key)
		}
		snap[key] = result
		return nil
	})
	if err != nil {
		return models.Account{}, fmt.Errorf("reconcile %s: %w", candidate.Key(), err)
	}
	return result, nil
}

// findMatch looks a candidate up by steam id key, then by login key, then by
// a stored record carrying the same steam id under some other key.
func findMatch(snap accounts.Snapshot, candidate models.Account) (string, models.Account, bool) {
	id, hasID := candidate.SteamID.Get()
	if hasID {
		if acc, ok := snap[id]; ok {
			return id, acc, true
		}
	}

	if login, ok := candidate.Login.Get(); ok {
		if acc, ok := snap[login]; ok {
			return login, acc, true
		}
	}

	if hasID {
		for key, acc := range snap {
			if stored, ok := acc.SteamID.Get(); ok && stored == id {
				return key, acc, true
			}
		}
	}
	return "", models.Account{}, false
}

func (s *accountService) ImportLine(ctx context.Context, line string) (models.Account, error) {
	candidate, err := parser.ParseLine(line)
	if err != nil {
		return models.Account{}, err
	}
	return s.Reconcile(ctx, candidate)
}

func (s *accountService) ImportMaFile(ctx context.Context, content string) (models.Account, error) {
	candidate, err := parser.ParseMaFile(content)
	if err != nil {
		return models.Account{}, err
	}
	return s.Reconcile(ctx, candidate)
}

func (s *accountService) ImportBundle(ctx context.Context, data []byte) (*ImportReport, error) {
	res, err := bundle.Extract(data, s.bundle)
	if err != nil {
		return nil, err
	}

	report := &ImportReport{Errors: res.Errors}

	for _, line := range res.Lines {
		if _, err := s.ImportLine(ctx, line); err != nil {
			if !IsInputError(err) {
				return nil, err
			}
			report.Errors = append(report.Errors, fmt.Sprintf("line %q: %v", line, err))
			continue
		}
		report.Accounts++
	}

	for i, content := range res.MaFiles {
		if _, err := s.ImportMaFile(ctx, content); err != nil {
			if !IsInputError(err) {
				return nil, err
			}
			report.Errors = append(report.Errors, fmt.Sprintf("credential file #%d: %v", i+1, err))
			continue
		}
		report.MaFiles++
	}

	s.log.Info(ctx, "bundle imported",
		"accounts", report.Accounts, "mafiles", report.MaFiles, "errors", len(report.Errors))
	return report, nil
}

// IsInputError reports errors caused by one bad item of a batch. Other
// errors, such as a failed store write, should abort the batch.
func IsInputError(err error) bool {
	return errors.Is(err, parser.ErrNotRecognized) ||
		errors.Is(err, parser.ErrMalformed) ||
		errors.Is(err, common.ErrNoIdentity)
}

func (s *accountService) List(ctx context.Context) ([]StoredAccount, error) {
	snap, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]StoredAccount, 0, len(snap))
	for key, acc := range snap {
		out = append(out, StoredAccount{Key: key, Account: acc})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (s *accountService) Get(ctx context.Context, key string) (models.Account, error) {
	return s.repo.Get(ctx, key)
}

func (s *accountService) Delete(ctx context.Context, key string) error {
	if err := s.repo.Delete(ctx, key); err != nil {
		return err
	}
	s.log.Info(ctx, "account deleted", "key", key)
	return nil
}

func (s *accountService) Clear(ctx context.Context) error {
	if err := s.repo.Clear(ctx); err != nil {
		return err
	}
	s.log.Info(ctx, "store cleared")
	return nil
}

func (s *accountService) Count(ctx context.Context) (int, error) {
	snap, err := s.repo.Load(ctx)
	if err != nil {
		return 0, err
	}
	return len(snap), nil
}
