package accounts

import (
	"context"

	"github.com/dmitrijs2005/steamkeeper/internal/models"
)

// Snapshot is the whole store: identity key to record.
type Snapshot map[string]models.Account

// Repository describes the operations on the account store.
type Repository interface {
	// Load returns a copy of every stored record.
	Load(ctx context.Context) (Snapshot, error)

	// Get returns the record stored under key, or common.ErrorNotFound.
	Get(ctx context.Context, key string) (models.Account, error)

	// Update runs fn on the current snapshot and persists it when fn returns
	// nil. No other write runs while fn executes.
	Update(ctx context.Context, fn func(Snapshot) error) error

	// Delete removes the record stored under key, or returns common.ErrorNotFound.
	Delete(ctx context.Context, key string) error

	// Clear removes every record.
	Clear(ctx context.Context) error
}
