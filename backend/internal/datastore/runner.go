package datastore

import (
	"context"
	"fmt"

	"github.com/nforum-dev/nforum/backend/internal/storage"
	"github.com/nforum-dev/nforum/shared/logger"
)

// Runner gives every logical operation its own Session and transaction.
type Runner struct {
	opener storage.Opener
	opts   []Option
}

func NewRunner(opener storage.Opener, opts ...Option) *Runner {
	return &Runner{opener: opener, opts: opts}
}

// InTransaction opens a Session, begins a transaction on it and calls fn with
// a DataStore bound to that Session. The transaction commits only when fn
// returns nil; on any error the Session is closed uncommitted, which rolls
// every write of fn back.
func (r *Runner) InTransaction(ctx context.Context, fn func(*DataStore) error) error {
	session, err := r.opener.Open(ctx)
	if err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.Log.Warn("failed to close session", "error", err)
		}
	}()

	if err := session.BeginTransaction(ctx); err != nil {
		return err
	}
	if err := fn(New(session.Repositories, r.opts...)); err != nil {
		return err
	}
	return session.Commit()
}
