// Package storage persists the ledger between runs.
//
// Every backend stores a full snapshot: Load rebuilds a ledger, Save replaces
// whatever was stored before with the ledger's current contents.
package storage

import (
	"context"

	"expenses/internal/ledger"
)

type Store interface {
	Load(ctx context.Context) (*ledger.Ledger, error)
	Save(ctx context.Context, l *ledger.Ledger) error
	Close() error
}
