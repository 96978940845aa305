package setup

import (
	"context"
	"fmt"

	"github.com/nforum-dev/nforum/backend/internal/datastore"
	"github.com/nforum-dev/nforum/backend/internal/events"
	"github.com/nforum-dev/nforum/backend/internal/identity"
	"github.com/nforum-dev/nforum/backend/internal/metrics"
	"github.com/nforum-dev/nforum/backend/internal/permission"
	"github.com/nforum-dev/nforum/backend/internal/service"
	"github.com/nforum-dev/nforum/backend/internal/storage"
	"github.com/nforum-dev/nforum/backend/internal/storage/memory"
	"github.com/nforum-dev/nforum/backend/internal/storage/pg"
	"github.com/nforum-dev/nforum/shared/config"
	"github.com/nforum-dev/nforum/shared/domain"
	"github.com/nforum-dev/nforum/shared/logger"
	"github.com/prometheus/client_golang/prometheus"
)

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Storage  storage.Opener
	Runner   *datastore.Runner
	Tokens   *identity.Tokens
	Events   *events.Bus
	Metrics  *metrics.Recorder
	Registry *prometheus.Registry

	pg *pg.Storage // nil in memory mode
}

type Services struct {
	Categories service.CategoryService
	Forums     service.ForumService
	Topics     service.TopicService
}

// SetupDependencies initializes all dependencies required for the application.
func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	deps := &Dependencies{
		Tokens:   identity.NewTokens(cfg),
		Events:   events.NewBus(),
		Registry: prometheus.NewRegistry(),
	}
	deps.Metrics = metrics.New(deps.Registry)

	switch cfg.Public.Storage {
	case config.StoragePostgres:
		s, err := pg.New(cfg, pg.LightweightConnectionConfig())
		if err != nil {
			return nil, err
		}
		deps.pg = s
		deps.Storage = s
	case config.StorageMemory:
		logger.Log.Warn("using in-memory storage, nothing survives the process")
		deps.Storage = memory.New()
	default:
		return nil, fmt.Errorf("unknown storage %q", cfg.Public.Storage)
	}
	deps.Runner = datastore.NewRunner(deps.Storage)

	deps.Events.Subscribe(func(ctx context.Context, e events.Event) {
		logger.Log.Debug("event published", "event", e.EventName())
	})
	return deps, nil
}

// Services builds the domain services acting on behalf of users.
func (d *Dependencies) Services(users service.UserProvider) Services {
	c := service.Collaborators{
		Users:       users,
		Permissions: permission.AuthenticatedOnly{},
		Events:      d.Events,
		Logger:      logger.Log,
		Metrics:     d.Metrics,
	}
	return Services{
		Categories: service.NewCategory(d.Runner, c),
		Forums:     service.NewForum(d.Runner, c),
		Topics:     service.NewTopic(d.Runner, c),
	}
}

// TokenUsers resolves the acting user from a bearer token through the store.
func (d *Dependencies) TokenUsers(token string) identity.TokenUserProvider {
	return identity.TokenUserProvider{
		Token:  token,
		Tokens: d.Tokens,
		Lookup: func(ctx context.Context, id domain.Id) (domain.ForumUser, error) {
			var user domain.ForumUser
			err := d.Runner.InTransaction(ctx, func(ds *datastore.DataStore) error {
				var err error
				user, err = ds.FindForumUserById(ctx, id.String())
				return err
			})
			return user, err
		},
	}
}

// Migrate creates the schema. It is a no-op for in-memory storage.
func (d *Dependencies) Migrate(ctx context.Context) error {
	if d.pg == nil {
		return nil
	}
	return d.pg.Migrate(ctx)
}

func (d *Dependencies) Cleanup() error {
	if d.pg == nil {
		return nil
	}
	return d.pg.Cleanup()
}
