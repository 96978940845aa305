package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/nforum-dev/nforum/backend/internal/datastore"
	"github.com/nforum-dev/nforum/backend/internal/events"
	"github.com/nforum-dev/nforum/backend/internal/identity"
	"github.com/nforum-dev/nforum/backend/internal/metrics"
	"github.com/nforum-dev/nforum/backend/internal/permission"
	"github.com/nforum-dev/nforum/shared/domain"
	nferrors "github.com/nforum-dev/nforum/shared/errors"
	"github.com/nforum-dev/nforum/shared/logger"
)

// UnitOfWorkRunner runs fn inside one transaction and commits when fn
// succeeds. *datastore.Runner implements it.
type UnitOfWorkRunner interface {
	InTransaction(ctx context.Context, fn func(*datastore.DataStore) error) error
}

type UserProvider interface {
	CurrentUser(ctx context.Context) *domain.ForumUser
}

type PermissionEvaluator interface {
	Can(action permission.Action, user *domain.ForumUser) bool
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event)
}

// Collaborators are the cross-cutting dependencies shared by all services.
// Zero fields fall back to: the user carried in the context, the
// AuthenticatedOnly evaluator, no events, logger.Log and no metrics.
type Collaborators struct {
	Users       UserProvider
	Permissions PermissionEvaluator
	Events      EventPublisher
	Logger      *slog.Logger
	Metrics     *metrics.Recorder
}

func (c Collaborators) withDefaults() Collaborators {
	if c.Users == nil {
		c.Users = identity.ContextUserProvider{}
	}
	if c.Permissions == nil {
		c.Permissions = permission.AuthenticatedOnly{}
	}
	if c.Events == nil {
		c.Events = events.Discard{}
	}
	if c.Logger == nil {
		c.Logger = logger.Log
	}
	return c
}

// base carries the protocol every service call follows: resolve the acting
// user, check the action, run the store work in one transaction, then log,
// publish and record the outcome.
type base struct {
	name   string
	runner UnitOfWorkRunner
	c      Collaborators
	log    *slog.Logger
}

func newBase(name string, runner UnitOfWorkRunner, c Collaborators) base {
	c = c.withDefaults()
	return base{name: name, runner: runner, c: c, log: c.Logger.With("service", name)}
}

// authorize fails with PermissionDeniedError when a mutating action has no
// acting user or the evaluator refuses it.
func (b *base) authorize(ctx context.Context, action permission.Action) error {
	user := b.c.Users.CurrentUser(ctx)
	if (action.Mutates() && user == nil) || !b.c.Permissions.Can(action, user) {
		b.log.Debug("permission denied", "action", action, actor(user))
		return &nferrors.PermissionDeniedError{Action: string(action), User: user}
	}
	return nil
}

func (b *base) observe(operation string, start time.Time, err error) {
	b.c.Metrics.Observe(b.name, operation, start, err)
	if err != nil {
		b.log.Debug("call failed", "operation", operation, "error", err)
	}
}

func (b *base) publish(ctx context.Context, event events.Event) {
	b.c.Events.Publish(ctx, event)
}

func actor(user *domain.ForumUser) slog.Attr {
	if user == nil {
		return slog.String("user", "anonymous")
	}
	return slog.Group("user", "id", user.Id, "name", user.DisplayName())
}
