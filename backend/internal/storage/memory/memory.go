// Package memory is an in-process implementation of the storage contract.
// It backs the unit tests and the CLI's "memory" storage mode.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/nforum-dev/nforum/backend/internal/storage"
	"github.com/nforum-dev/nforum/shared/domain"
)

type tables struct {
	categories map[domain.Id]domain.Category
	forums     map[domain.Id]domain.Forum
	topics     map[domain.Id]domain.Topic
	replies    map[domain.Id]domain.Reply
	users      map[domain.Id]domain.ForumUser
}

func newTables() *tables {
	return &tables{
		categories: make(map[domain.Id]domain.Category),
		forums:     make(map[domain.Id]domain.Forum),
		topics:     make(map[domain.Id]domain.Topic),
		replies:    make(map[domain.Id]domain.Reply),
		users:      make(map[domain.Id]domain.ForumUser),
	}
}

func (t *tables) clone() *tables {
	return &tables{
		categories: maps.Clone(t.categories),
		forums:     maps.Clone(t.forums),
		topics:     maps.Clone(t.topics),
		replies:    maps.Clone(t.replies),
		users:      maps.Clone(t.users),
	}
}

type Storage struct {
	mu   sync.RWMutex
	data *tables
}

var _ storage.Opener = (*Storage)(nil)

func New() *Storage {
	return &Storage{data: newTables()}
}

func (s *Storage) Open(ctx context.Context) (*storage.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	uow := &UnitOfWork{store: s}
	return &storage.Session{
		UnitOfWork: uow,
		Repositories: storage.Repositories{
			Categories: newRepository[domain.Category](uow, func(t *tables) map[domain.Id]domain.Category { return t.categories }),
			Forums:     newRepository[domain.Forum](uow, func(t *tables) map[domain.Id]domain.Forum { return t.forums }),
			Topics:     newRepository[domain.Topic](uow, func(t *tables) map[domain.Id]domain.Topic { return t.topics }),
			Replies:    newRepository[domain.Reply](uow, func(t *tables) map[domain.Id]domain.Reply { return t.replies }),
			Users:      newRepository[domain.ForumUser](uow, func(t *tables) map[domain.Id]domain.ForumUser { return t.users }),
		},
	}, nil
}

// Counts reports committed row counts per table, keyed by entity name.
func (s *Storage) Counts() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]int{
		"category":  len(s.data.categories),
		"forum":     len(s.data.forums),
		"topic":     len(s.data.topics),
		"reply":     len(s.data.replies),
		"forumuser": len(s.data.users),
	}
}
