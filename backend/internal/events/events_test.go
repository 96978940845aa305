package events

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBusDeliversInOrder(t *testing.T) {
	bus := NewBus()
	var got []string
	bus.Subscribe(func(_ context.Context, e Event) { got = append(got, "first:"+e.EventName()) })
	bus.Subscribe(func(_ context.Context, e Event) { got = append(got, "second:"+e.EventName()) })

	bus.Publish(context.Background(), ForumDeleted{Id: uuid.New()})

	assert.Equal(t, []string{"first:forum.deleted", "second:forum.deleted"}, got)
}

func TestBusRecoversFromPanics(t *testing.T) {
	bus := NewBus()
	delivered := false
	bus.Subscribe(func(context.Context, Event) { panic("subscriber bug") })
	bus.Subscribe(func(context.Context, Event) { delivered = true })

	assert.NotPanics(t, func() {
		bus.Publish(context.Background(), CategoryCreated{})
	})
	assert.True(t, delivered)
}

func TestBusWithoutSubscribers(t *testing.T) {
	assert.NotPanics(t, func() {
		NewBus().Publish(context.Background(), TopicCreated{})
		Discard{}.Publish(context.Background(), TopicCreated{})
	})
}
