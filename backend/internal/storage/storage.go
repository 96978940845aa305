// Package storage defines the persistence contract the datastore is written
// against. Implementations live in the pg and memory sub-packages.
package storage

import (
	"context"

	"github.com/nforum-dev/nforum/shared/domain"
)

// Repository is the per-entity CRUD contract. Every call runs inside the
// UnitOfWork the repository was opened with and never commits on its own.
//
// FindById, Update and DeleteById return errors.NotFound (backend/internal/errors)
// for a missing row. Update overwrites the whole row; the last writer wins.
// DeleteById removes exactly one row and leaves related rows alone.
type Repository[T any] interface {
	Create(ctx context.Context, entity T) (T, error)
	FindById(ctx context.Context, id domain.Id) (T, error)
	FindAll(ctx context.Context) ([]T, error)
	Update(ctx context.Context, entity T) (T, error)
	DeleteById(ctx context.Context, id domain.Id) error
}

// UnitOfWork is the transaction boundary shared by the repositories of one
// Session. Writes made after BeginTransaction become visible together on
// Commit. Close releases the underlying connection and rolls back anything
// not committed; it must run on every exit path.
type UnitOfWork interface {
	BeginTransaction(ctx context.Context) error
	Commit() error
	Close() error
}

type Repositories struct {
	Categories Repository[domain.Category]
	Forums     Repository[domain.Forum]
	Topics     Repository[domain.Topic]
	Replies    Repository[domain.Reply]
	Users      Repository[domain.ForumUser]
}

// Session is one UnitOfWork plus the repositories bound to it.
// A Session serves a single logical operation and is not safe for concurrent use.
type Session struct {
	UnitOfWork
	Repositories
}

// Opener hands out a fresh Session per logical operation.
type Opener interface {
	Open(ctx context.Context) (*Session, error)
}
