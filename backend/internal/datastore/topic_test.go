package datastore

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/nforum-dev/nforum/shared/domain"
	nferrors "github.com/nforum-dev/nforum/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f fixture) topic(t *testing.T, forumId domain.Id, subject string) domain.Topic {
	t.Helper()
	topic, err := f.ds.CreateTopic(context.Background(), domain.TopicCreationData{
		ForumId:   forumId.String(),
		MessageId: uuid.NewString(),
		Subject:   subject,
	})
	require.NoError(t, err)
	return topic
}

func TestCreateTopic(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := f.category(t, "c", 0)
	forum := f.forum(t, c.Id, "f", 0)

	topic, err := f.ds.CreateTopic(ctx, domain.TopicCreationData{
		ForumId:    forum.Id.String(),
		MessageId:  uuid.NewString(),
		Subject:    "Hello",
		Type:       domain.TopicSticky,
		CustomData: "{}",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TopicOpen, topic.State)
	assert.Equal(t, domain.TopicSticky, topic.Type)
	assert.Equal(t, forum.Id, topic.ForumId)
	assert.False(t, topic.LatestReplyId.Valid)
	assert.False(t, topic.CreatedAt.IsZero())

	t.Run("unknown forum", func(t *testing.T) {
		_, err := f.ds.CreateTopic(ctx, domain.TopicCreationData{ForumId: uuid.NewString(), MessageId: uuid.NewString(), Subject: "x"})
		assert.ErrorIs(t, err, nferrors.ErrReferenceNotFound)
	})

	t.Run("invalid message id", func(t *testing.T) {
		_, err := f.ds.CreateTopic(ctx, domain.TopicCreationData{ForumId: forum.Id.String(), MessageId: "m-1", Subject: "x"})
		var invalid *nferrors.InvalidIdentifierError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "MessageId", invalid.Field)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := f.ds.CreateTopic(ctx, domain.TopicCreationData{ForumId: forum.Id.String(), MessageId: uuid.NewString(), Subject: "x", Type: domain.TopicType(9)})
		assert.ErrorIs(t, err, nferrors.ErrInvalidValue)
	})

	t.Run("unknown state on update is not stored", func(t *testing.T) {
		_, err := f.ds.UpdateTopic(ctx, domain.TopicUpdateData{Id: topic.Id.String(), Subject: "y", State: domain.TopicState(42)})
		var invalid *nferrors.InvalidValueError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "State", invalid.Field)

		found, err := f.ds.FindTopicById(ctx, topic.Id.String())
		require.NoError(t, err)
		assert.Equal(t, topic, found)
	})

	assert.Equal(t, 1, f.store.Counts()["topic"])
}

func TestUpdateAndDeleteTopic(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := f.category(t, "c", 0)
	forum := f.forum(t, c.Id, "f", 0)
	topic := f.topic(t, forum.Id, "Hello")

	updated, err := f.ds.UpdateTopic(ctx, domain.TopicUpdateData{
		Id:      topic.Id.String(),
		Subject: "Hello again",
		State:   domain.TopicLocked,
		Type:    domain.TopicAnnouncement,
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello again", updated.Subject)
	assert.Equal(t, domain.TopicLocked, updated.State)
	assert.Equal(t, topic.ForumId, updated.ForumId)
	assert.Equal(t, topic.MessageId, updated.MessageId)
	assert.Equal(t, topic.CreatedAt, updated.CreatedAt)

	_, err = f.ds.CreateReply(ctx, domain.ReplyCreationData{TopicId: topic.Id.String(), MessageId: uuid.NewString()})
	require.NoError(t, err)

	require.NoError(t, f.ds.DeleteTopic(ctx, topic.Id.String()))
	_, err = f.ds.FindTopicById(ctx, topic.Id.String())
	assert.ErrorIs(t, err, nferrors.ErrReferenceNotFound)
	assert.Equal(t, 1, f.store.Counts()["reply"], "replies are not cascaded")
}

func TestTopicsByForum(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := f.category(t, "c", 0)
	first := f.forum(t, c.Id, "first", 0)
	second := f.forum(t, c.Id, "second", 0)
	f.topic(t, first.Id, "one")
	f.topic(t, second.Id, "other")
	f.topic(t, first.Id, "two")

	topics, err := f.ds.FindTopicsByForum(ctx, first.Id.String())
	require.NoError(t, err)
	require.Len(t, topics, 2)
	assert.Equal(t, "one", topics[0].Subject)
	assert.Equal(t, "two", topics[1].Subject)

	all, err := f.ds.FindAllTopics(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = f.ds.FindTopicsByForum(ctx, uuid.NewString())
	assert.ErrorIs(t, err, nferrors.ErrReferenceNotFound)
}

func TestRepliesAndThread(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := f.category(t, "c", 0)
	forum := f.forum(t, c.Id, "f", 0)
	topic := f.topic(t, forum.Id, "Hello")

	first, err := f.ds.CreateReply(ctx, domain.ReplyCreationData{TopicId: topic.Id.String(), MessageId: uuid.NewString()})
	require.NoError(t, err)
	second, err := f.ds.CreateReply(ctx, domain.ReplyCreationData{TopicId: topic.Id.String(), MessageId: uuid.NewString()})
	require.NoError(t, err)
	assert.Equal(t, domain.ReplyVisible, second.State)

	thread, err := f.ds.FindTopicThread(ctx, topic.Id.String())
	require.NoError(t, err)
	require.Len(t, thread.Replies, 2)
	assert.Equal(t, first.Id, thread.Replies[0].Id)
	assert.Equal(t, second.Id, thread.Replies[1].Id)
	require.NotNil(t, thread.LatestReply)
	assert.Equal(t, second.Id, thread.LatestReply.Id)

	t.Run("deleting the latest reply leaves a dangling pointer", func(t *testing.T) {
		deleted, err := f.ds.DeleteReply(ctx, second.Id.String())
		require.NoError(t, err)
		assert.Equal(t, topic.Id, deleted.TopicId)

		stored, err := f.ds.FindTopicById(ctx, topic.Id.String())
		require.NoError(t, err)
		assert.Equal(t, domain.SomeId(second.Id), stored.LatestReplyId)

		thread, err := f.ds.FindTopicThread(ctx, topic.Id.String())
		require.NoError(t, err)
		assert.Len(t, thread.Replies, 1)
		assert.Nil(t, thread.LatestReply)
	})

	t.Run("reply to unknown topic", func(t *testing.T) {
		_, err := f.ds.CreateReply(ctx, domain.ReplyCreationData{TopicId: uuid.NewString(), MessageId: uuid.NewString()})
		assert.ErrorIs(t, err, nferrors.ErrReferenceNotFound)
		_, err = f.ds.DeleteReply(ctx, uuid.NewString())
		assert.ErrorIs(t, err, nferrors.ErrReferenceNotFound)
	})
}

func TestForumUsers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	user, err := f.ds.CreateForumUser(ctx, domain.ForumUserCreationData{ExternalId: "ext", Username: "alice"})
	require.NoError(t, err)

	found, err := f.ds.FindForumUserById(ctx, user.Id.String())
	require.NoError(t, err)
	assert.Equal(t, "alice", found.Username)

	_, err = f.ds.CreateForumUser(ctx, domain.ForumUserCreationData{ExternalId: "ext"})
	assert.ErrorIs(t, err, nferrors.ErrMissingRequiredField)
	_, err = f.ds.FindForumUserById(ctx, uuid.NewString())
	assert.ErrorIs(t, err, nferrors.ErrReferenceNotFound)
}
