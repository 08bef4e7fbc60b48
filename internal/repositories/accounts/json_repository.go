package accounts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sync"

	"github.com/zarlcorp/core/pkg/zfilesystem"

	"github.com/dmitrijs2005/steamkeeper/internal/common"
	"github.com/dmitrijs2005/steamkeeper/internal/logging"
	"github.com/dmitrijs2005/steamkeeper/internal/models"
)

const filePerm = 0o600

type JSONRepository struct {
	mu   sync.Mutex
	fs   zfilesystem.ReadWriteFileFS
	file string
	log  logging.Logger
}

func NewJSONRepository(fsys zfilesystem.ReadWriteFileFS, file string, log logging.Logger) *JSONRepository {
	return &JSONRepository{fs: fsys, file: file, log: log}
}

func (r *JSONRepository) Load(ctx context.Context) (Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.read(ctx)
}

func (r *JSONRepository) Get(ctx context.Context, key string) (models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, err := r.read(ctx)
	if err != nil {
		return models.Account{}, err
	}

	acc, ok := s[key]
	if !ok {
		return models.Account{}, common.ErrorNotFound
	}
	return acc, nil
}

func (r *JSONRepository) Update(ctx context.Context, fn func(Snapshot) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, err := r.read(ctx)
	if err != nil {
		return err
	}

	if err := fn(s); err != nil {
		return err
	}

	return r.write(s)
}

func (r *JSONRepository) Delete(ctx context.Context, key string) error {
	return r.Update(ctx, func(s Snapshot) error {
		if _, ok := s[key]; !ok {
			return common.ErrorNotFound
		}
		delete(s, key)
		return nil
	})
}

func (r *JSONRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.write(Snapshot{})
}

// read loads the store file. A missing file is created empty and an
// unparseable one is logged and reset. A single unreadable record is skipped.
func (r *JSONRepository) read(ctx context.Context) (Snapshot, error) {
	data, err := r.fs.ReadFile(r.file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s := Snapshot{}
			return s, r.write(s)
		}
		return nil, fmt.Errorf("read store %s: %w", r.file, err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		r.log.Error(ctx, "store file is corrupted, resetting", "file", r.file, "error", err)
		s := Snapshot{}
		return s, r.write(s)
	}

	s := make(Snapshot, len(raw))
	for key, rec := range raw {
		var acc models.Account
		if err := json.Unmarshal(rec, &acc); err != nil {
			r.log.Warn(ctx, "skipping unreadable record", "file", r.file, "key", key, "error", err)
			continue
		}
		s[key] = acc
	}
	return s, nil
}

func (r *JSONRepository) write(s Snapshot) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store: %w", err)
	}

	if dir := path.Dir(r.file); dir != "." {
		if err := r.fs.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create store dir: %w", err)
		}
	}

	if err := r.fs.WriteFile(r.file, data, filePerm); err != nil {
		return fmt.Errorf("write store %s: %w", r.file, err)
	}
	return nil
}
