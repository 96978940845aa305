// Package events describes completed mutations and delivers them to
// in-process subscribers.
package events

import (
	"context"
	"sync"

	"github.com/nforum-dev/nforum/shared/domain"
	"github.com/nforum-dev/nforum/shared/logger"
)

type Event interface {
	EventName() string
}

type CategoryCreated struct{ Category domain.Category }
type CategoryUpdated struct{ Category domain.Category }
type CategoryDeleted struct{ Id domain.Id }

type ForumCreated struct{ Forum domain.Forum }
type ForumUpdated struct{ Forum domain.Forum }
type ForumDeleted struct{ Id domain.Id }

type TopicCreated struct{ Topic domain.Topic }
type TopicUpdated struct{ Topic domain.Topic }
type TopicDeleted struct{ Id domain.Id }

type ReplyCreated struct{ Reply domain.Reply }
type ReplyDeleted struct{ Reply domain.Reply }

func (CategoryCreated) EventName() string { return "category.created" }
func (CategoryUpdated) EventName() string { return "category.updated" }
func (CategoryDeleted) EventName() string { return "category.deleted" }
func (ForumCreated) EventName() string    { return "forum.created" }
func (ForumUpdated) EventName() string    { return "forum.updated" }
func (ForumDeleted) EventName() string    { return "forum.deleted" }
func (TopicCreated) EventName() string    { return "topic.created" }
func (TopicUpdated) EventName() string    { return "topic.updated" }
func (TopicDeleted) EventName() string    { return "topic.deleted" }
func (ReplyCreated) EventName() string    { return "reply.created" }
func (ReplyDeleted) EventName() string    { return "reply.deleted" }

type Handler func(ctx context.Context, event Event)

// Bus delivers every published event to all subscribers synchronously, in
// subscription order. A panicking subscriber is logged and skipped.
type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

func (b *Bus) Publish(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := b.handlers
	b.mu.RUnlock()

	for _, h := range handlers {
		b.deliver(ctx, h, event)
	}
}

func (b *Bus) deliver(ctx context.Context, h Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.Error("event subscriber panicked", "event", event.EventName(), "panic", r)
		}
	}()
	h(ctx, event)
}

// Discard drops every event.
type Discard struct{}

func (Discard) Publish(context.Context, Event) {}
