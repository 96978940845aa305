package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/nforum-dev/nforum/backend/internal/events"
	"github.com/nforum-dev/nforum/backend/internal/metrics"
	"github.com/nforum-dev/nforum/shared/domain"
	nferrors "github.com/nforum-dev/nforum/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newForum(t *testing.T, env *testEnv) domain.Forum {
	t.Helper()
	ctx := context.Background()
	category, err := env.categories.Create(ctx, domain.CategoryCreationData{Name: "c"})
	require.NoError(t, err)
	forum, err := env.forums.Create(ctx, domain.ForumCreationData{CategoryId: category.Id.String(), Name: "f"})
	require.NoError(t, err)
	return forum
}

func TestTopicLifecycle(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	forum := newForum(t, env)
	env.reset()

	topic, err := env.topics.Create(ctx, domain.TopicCreationData{
		ForumId:   forum.Id.String(),
		MessageId: uuid.NewString(),
		Subject:   "<i>Hello</i> world",
		Type:      domain.TopicSticky,
	})
	require.NoError(t, err)
	assert.Equal(t, "<i>Hello</i> world", topic.Subject)
	assert.Equal(t, domain.TopicOpen, topic.State)

	updated, err := env.topics.Update(ctx, domain.TopicUpdateData{Id: topic.Id.String(), Subject: "Locked now", State: domain.TopicLocked})
	require.NoError(t, err)
	assert.Equal(t, domain.TopicLocked, updated.State)
	assert.Equal(t, forum.Id, updated.ForumId)

	byForum, err := env.topics.FindByForum(ctx, forum.Id.String())
	require.NoError(t, err)
	require.Len(t, byForum, 1)
	assert.Equal(t, updated, byForum[0])

	require.NoError(t, env.topics.Delete(ctx, topic.Id.String()))
	_, err = env.topics.FindById(ctx, topic.Id.String())
	assert.ErrorIs(t, err, nferrors.ErrReferenceNotFound)

	assert.Equal(t, []string{"topic.created", "topic.updated", "topic.deleted"}, env.events.names())
	assert.Equal(t, 1.0, env.counter("topic", "create", metrics.OutcomeOk))
	assert.Equal(t, 1.0, env.counter("topic", "find_by_id", metrics.OutcomeNotFound))
}

func TestTopicReplies(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	forum := newForum(t, env)
	topic, err := env.topics.Create(ctx, domain.TopicCreationData{ForumId: forum.Id.String(), MessageId: uuid.NewString(), Subject: "t"})
	require.NoError(t, err)
	env.reset()

	reply, err := env.topics.Reply(ctx, domain.ReplyCreationData{TopicId: topic.Id.String(), MessageId: uuid.NewString()})
	require.NoError(t, err)

	thread, err := env.topics.FindThread(ctx, topic.Id.String())
	require.NoError(t, err)
	require.Len(t, thread.Replies, 1)
	require.NotNil(t, thread.LatestReply)
	assert.Equal(t, reply.Id, thread.LatestReply.Id)
	assert.Equal(t, domain.SomeId(reply.Id), thread.LatestReplyId)

	require.NoError(t, env.topics.DeleteReply(ctx, reply.Id.String()))
	thread, err = env.topics.FindThread(ctx, topic.Id.String())
	require.NoError(t, err)
	assert.Empty(t, thread.Replies)
	assert.Nil(t, thread.LatestReply)

	assert.Equal(t, []string{"reply.created", "reply.deleted"}, env.events.names())
	deleted, ok := env.events.published[1].(events.ReplyDeleted)
	require.True(t, ok)
	assert.Equal(t, topic.Id, deleted.Reply.TopicId)

	t.Run("reply to unknown topic writes nothing", func(t *testing.T) {
		env.reset()
		_, err := env.topics.Reply(ctx, domain.ReplyCreationData{TopicId: uuid.NewString(), MessageId: uuid.NewString()})
		assert.ErrorIs(t, err, nferrors.ErrReferenceNotFound)
		assert.Empty(t, env.events.published)
		assert.Equal(t, 0, env.store.Counts()["reply"])
	})

	t.Run("missing message id", func(t *testing.T) {
		env.reset()
		_, err := env.topics.Reply(ctx, domain.ReplyCreationData{TopicId: topic.Id.String()})
		var missing *nferrors.MissingRequiredFieldError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "MessageId", missing.Field)
		assert.Zero(t, env.runner.calls)
	})
}

func TestTopicCreateUnknownForum(t *testing.T) {
	env := newTestEnv()

	_, err := env.topics.Create(context.Background(), domain.TopicCreationData{ForumId: uuid.NewString(), MessageId: uuid.NewString(), Subject: "t"})

	var notFound *nferrors.ReferenceNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "forum", notFound.Entity)
	assert.Equal(t, 0, env.store.Counts()["topic"])
	assert.Empty(t, env.events.published)
}

func TestTopicRejectsUnknownStateAndType(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	forum := newForum(t, env)
	topic, err := env.topics.Create(ctx, domain.TopicCreationData{ForumId: forum.Id.String(), MessageId: uuid.NewString(), Subject: "s"})
	require.NoError(t, err)
	env.reset()

	_, err = env.topics.Update(ctx, domain.TopicUpdateData{Id: topic.Id.String(), Subject: "s", State: domain.TopicState(42)})
	assert.ErrorIs(t, err, nferrors.ErrInvalidValue)
	_, err = env.topics.Create(ctx, domain.TopicCreationData{ForumId: forum.Id.String(), MessageId: uuid.NewString(), Subject: "s", Type: domain.TopicType(7)})
	assert.ErrorIs(t, err, nferrors.ErrInvalidValue)

	assert.Zero(t, env.runner.calls)
	assert.Empty(t, env.events.published)
	assert.Equal(t, 1.0, env.counter("topic", "update", metrics.OutcomeInvalid))
}
