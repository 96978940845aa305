package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	internal_errors "github.com/nforum-dev/nforum/backend/internal/errors"
)

type UnitOfWork struct {
	conn   *sql.Conn
	tx     *sql.Tx
	closed bool
}

// BeginTransaction ties the transaction to ctx: if ctx is cancelled before
// Commit, database/sql rolls the transaction back.
func (u *UnitOfWork) BeginTransaction(ctx context.Context) error {
	if u.closed {
		return internal_errors.UnitOfWorkClosed
	}
	if u.tx != nil {
		return internal_errors.TransactionInProgress
	}
	tx, err := u.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	u.tx = tx
	return nil
}

func (u *UnitOfWork) Commit() error {
	if u.closed {
		return internal_errors.UnitOfWorkClosed
	}
	if u.tx == nil {
		return internal_errors.NoTransaction
	}
	tx := u.tx
	u.tx = nil
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Close rolls back an uncommitted transaction and returns the connection to
// the pool. Safe to call twice.
func (u *UnitOfWork) Close() error {
	if u.closed {
		return nil
	}
	u.closed = true

	var rollbackErr error
	if u.tx != nil {
		if err := u.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			rollbackErr = fmt.Errorf("failed to rollback transaction: %w", err)
		}
		u.tx = nil
	}
	return errors.Join(rollbackErr, u.conn.Close())
}

func (u *UnitOfWork) querier() (Querier, error) {
	if u.closed {
		return nil, internal_errors.UnitOfWorkClosed
	}
	if u.tx != nil {
		return u.tx, nil
	}
	return u.conn, nil
}
