package memory

import (
	"context"

	internal_errors "github.com/nforum-dev/nforum/backend/internal/errors"
)

// UnitOfWork stages writes in a private copy of the tables while a
// transaction is open and replays them onto the shared store on Commit.
// Outside a transaction every write lands on the shared store immediately.
type UnitOfWork struct {
	store   *Storage
	working *tables // non-nil while a transaction is open
	journal []func(*tables)
	closed  bool
}

func (u *UnitOfWork) BeginTransaction(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if u.closed {
		return internal_errors.UnitOfWorkClosed
	}
	if u.working != nil {
		return internal_errors.TransactionInProgress
	}

	u.store.mu.RLock()
	u.working = u.store.data.clone()
	u.store.mu.RUnlock()
	u.journal = nil
	return nil
}

func (u *UnitOfWork) Commit() error {
	if u.closed {
		return internal_errors.UnitOfWorkClosed
	}
	if u.working == nil {
		return internal_errors.NoTransaction
	}

	u.store.mu.Lock()
	for _, apply := range u.journal {
		apply(u.store.data)
	}
	u.store.mu.Unlock()

	u.working, u.journal = nil, nil
	return nil
}

// Close drops anything staged but not committed. Safe to call twice.
func (u *UnitOfWork) Close() error {
	if u.closed {
		return nil
	}
	u.working, u.journal = nil, nil
	u.closed = true
	return nil
}

func (u *UnitOfWork) view(fn func(*tables) error) error {
	if u.closed {
		return internal_errors.UnitOfWorkClosed
	}
	if u.working != nil {
		return fn(u.working)
	}
	u.store.mu.RLock()
	defer u.store.mu.RUnlock()
	return fn(u.store.data)
}

// change validates with check against the tables this unit sees, then applies.
// Inside a transaction apply is also journaled for Commit, so it must not
// depend on anything but its captured arguments.
func (u *UnitOfWork) change(check func(*tables) error, apply func(*tables)) error {
	if u.closed {
		return internal_errors.UnitOfWorkClosed
	}
	if u.working != nil {
		if check != nil {
			if err := check(u.working); err != nil {
				return err
			}
		}
		apply(u.working)
		u.journal = append(u.journal, apply)
		return nil
	}

	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	if check != nil {
		if err := check(u.store.data); err != nil {
			return err
		}
	}
	apply(u.store.data)
	return nil
}
