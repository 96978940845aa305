package service

import (
	"bytes"
	"context"

	"github.com/google/uuid"
	"github.com/nforum-dev/nforum/backend/internal/datastore"
	"github.com/nforum-dev/nforum/backend/internal/events"
	"github.com/nforum-dev/nforum/backend/internal/metrics"
	"github.com/nforum-dev/nforum/backend/internal/permission"
	"github.com/nforum-dev/nforum/backend/internal/storage/memory"
	"github.com/nforum-dev/nforum/shared/domain"
	"github.com/nforum-dev/nforum/shared/logger"
	"github.com/prometheus/client_golang/prometheus"
)

// MockUserProvider mocks the UserProvider interface.
type MockUserProvider struct {
	currentUserFunc func(ctx context.Context) *domain.ForumUser
}

func (m *MockUserProvider) CurrentUser(ctx context.Context) *domain.ForumUser {
	if m.currentUserFunc != nil {
		return m.currentUserFunc(ctx)
	}
	return nil
}

// MockPermissionEvaluator mocks the PermissionEvaluator interface. Allows by default.
type MockPermissionEvaluator struct {
	canFunc func(action permission.Action, user *domain.ForumUser) bool
}

func (m *MockPermissionEvaluator) Can(action permission.Action, user *domain.ForumUser) bool {
	if m.canFunc != nil {
		return m.canFunc(action, user)
	}
	return true
}

// MockEventPublisher records published events.
type MockEventPublisher struct {
	published []events.Event
}

func (m *MockEventPublisher) Publish(_ context.Context, event events.Event) {
	m.published = append(m.published, event)
}

func (m *MockEventPublisher) names() []string {
	out := make([]string, 0, len(m.published))
	for _, e := range m.published {
		out = append(out, e.EventName())
	}
	return out
}

// MockRunner counts transactions and delegates to a real runner.
type MockRunner struct {
	inner UnitOfWorkRunner
	calls int
}

func (m *MockRunner) InTransaction(ctx context.Context, fn func(*datastore.DataStore) error) error {
	m.calls++
	return m.inner.InTransaction(ctx, fn)
}

type testEnv struct {
	store       *memory.Storage
	runner      *MockRunner
	users       *MockUserProvider
	permissions *MockPermissionEvaluator
	events      *MockEventPublisher
	registry    *prometheus.Registry
	logs        *bytes.Buffer

	categories CategoryService
	forums     ForumService
	topics     TopicService
}

var testUser = &domain.ForumUser{Id: uuid.New(), Username: "tester"}

// newTestEnv wires all services over one in-memory store. The acting user is
// testUser until env.actAs changes it.
func newTestEnv() *testEnv {
	env := &testEnv{
		store:       memory.New(),
		permissions: &MockPermissionEvaluator{},
		events:      &MockEventPublisher{},
		registry:    prometheus.NewRegistry(),
		logs:        &bytes.Buffer{},
	}
	env.runner = &MockRunner{inner: datastore.NewRunner(env.store)}
	env.actAs(testUser)

	c := Collaborators{
		Users:       env.users,
		Permissions: env.permissions,
		Events:      env.events,
		Logger:      logger.New(env.logs, "debug", false),
		Metrics:     metrics.New(env.registry),
	}
	env.categories = NewCategory(env.runner, c)
	env.forums = NewForum(env.runner, c)
	env.topics = NewTopic(env.runner, c)
	return env
}

func (e *testEnv) actAs(user *domain.ForumUser) {
	if e.users == nil {
		e.users = &MockUserProvider{}
	}
	e.users.currentUserFunc = func(context.Context) *domain.ForumUser { return user }
}

// reset forgets recorded transactions and events.
func (e *testEnv) reset() {
	e.runner.calls = 0
	e.events.published = nil
}

// counter reads nforum_service_operations_total for one label set.
func (e *testEnv) counter(service, operation, outcome string) float64 {
	families, err := e.registry.Gather()
	if err != nil {
		return -1
	}
	for _, family := range families {
		if family.GetName() != "nforum_service_operations_total" {
			continue
		}
		for _, m := range family.GetMetric() {
			labels := map[string]string{}
			for _, l := range m.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			if labels["service"] == service && labels["operation"] == operation && labels["outcome"] == outcome {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

type runnerFunc func(ctx context.Context, fn func(*datastore.DataStore) error) error

func (f runnerFunc) InTransaction(ctx context.Context, fn func(*datastore.DataStore) error) error {
	return f(ctx, fn)
}
