package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/nforum-dev/nforum/backend/internal/events"
	"github.com/nforum-dev/nforum/shared/domain"
	nferrors "github.com/nforum-dev/nforum/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForumCreateAndRead(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	category, err := env.categories.Create(ctx, domain.CategoryCreationData{Name: "With child forum", Description: "meh", SortOrder: 100})
	require.NoError(t, err)
	forum, err := env.forums.Create(ctx, domain.ForumCreationData{
		CategoryId:  category.Id.String(),
		Name:        "First one?",
		Description: "bla bla",
		SortOrder:   50,
	})
	require.NoError(t, err)

	found, err := env.forums.FindById(ctx, forum.Id.String())
	require.NoError(t, err)
	assert.Equal(t, "First one?", found.Name)
	assert.Equal(t, "bla bla", found.Description)
	assert.Equal(t, 50, found.SortOrder)
	assert.Equal(t, category.Id, found.CategoryId)
	assert.Equal(t, 0, found.Level)
	assert.False(t, found.ParentForumId.Valid)

	created, ok := env.events.published[1].(events.ForumCreated)
	require.True(t, ok)
	assert.Equal(t, forum, created.Forum)
}

func TestForumUpdate(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	category, err := env.categories.Create(ctx, domain.CategoryCreationData{Name: "With child forum", Description: "meh", SortOrder: 100})
	require.NoError(t, err)
	forum, err := env.forums.Create(ctx, domain.ForumCreationData{CategoryId: category.Id.String(), Name: "First one?", Description: "bla bla", SortOrder: 50})
	require.NoError(t, err)

	updated, err := env.forums.Update(ctx, domain.ForumUpdateData{
		Id:          forum.Id.String(),
		Name:        "Actually the second",
		Description: "The second!",
		SortOrder:   20,
	})
	require.NoError(t, err)
	assert.Equal(t, "Actually the second", updated.Name)
	assert.Equal(t, "The second!", updated.Description)
	assert.Equal(t, 20, updated.SortOrder)
	assert.Equal(t, forum.Id, updated.Id)
	assert.Equal(t, forum.CategoryId, updated.CategoryId)

	found, err := env.forums.FindById(ctx, forum.Id.String())
	require.NoError(t, err)
	assert.Equal(t, updated, found)
}

func TestForumCreateInvalidCategoryId(t *testing.T) {
	env := newTestEnv()

	_, err := env.forums.Create(context.Background(), domain.ForumCreationData{CategoryId: "not-an-id", Name: "f"})

	assert.ErrorIs(t, err, nferrors.ErrInvalidIdentifier)
	assert.Equal(t, 0, env.store.Counts()["forum"])
	assert.Empty(t, env.events.published)
}

func TestForumSubForumAndTree(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	category, err := env.categories.Create(ctx, domain.CategoryCreationData{Name: "c"})
	require.NoError(t, err)
	top, err := env.forums.Create(ctx, domain.ForumCreationData{CategoryId: category.Id.String(), Name: "top"})
	require.NoError(t, err)
	child, err := env.forums.CreateSubForum(ctx, domain.SubForumCreationData{ParentForumId: top.Id.String(), Name: "child"})
	require.NoError(t, err)
	assert.Equal(t, 1, child.Level)
	assert.Equal(t, category.Id, child.CategoryId)

	tree, err := env.forums.FindTree(ctx, child.Id.String())
	require.NoError(t, err)
	assert.Equal(t, category.Id, tree.Category.Id)
	require.Len(t, tree.Ancestors, 1)
	assert.Equal(t, top.Id, tree.Ancestors[0].Id)

	all, err := env.forums.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = env.forums.CreateSubForum(ctx, domain.SubForumCreationData{ParentForumId: uuid.NewString(), Name: "x"})
	assert.ErrorIs(t, err, nferrors.ErrReferenceNotFound)
}

func TestForumDeleteRemovesTheForum(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	category, err := env.categories.Create(ctx, domain.CategoryCreationData{Name: "c"})
	require.NoError(t, err)
	forum, err := env.forums.Create(ctx, domain.ForumCreationData{CategoryId: category.Id.String(), Name: "f"})
	require.NoError(t, err)
	env.reset()

	require.NoError(t, env.forums.Delete(ctx, forum.Id.String()))

	_, err = env.forums.FindById(ctx, forum.Id.String())
	assert.ErrorIs(t, err, nferrors.ErrReferenceNotFound)
	_, err = env.categories.FindById(ctx, category.Id.String())
	assert.NoError(t, err, "the owning category is untouched")
	assert.Equal(t, []string{"forum.deleted"}, env.events.names())
}

// snapshot captures every stored entity so a denied call can be shown to
// have changed nothing.
type snapshot struct {
	counts     map[string]int
	categories []domain.Category
	forums     []domain.Forum
	topics     []domain.Topic
}

func takeSnapshot(t *testing.T, env *testEnv) snapshot {
	t.Helper()
	ctx := context.Background()
	categories, err := env.categories.FindAll(ctx)
	require.NoError(t, err)
	forums, err := env.forums.FindAll(ctx)
	require.NoError(t, err)
	topics, err := env.topics.FindAll(ctx)
	require.NoError(t, err)
	return snapshot{counts: env.store.Counts(), categories: categories, forums: forums, topics: topics}
}

func TestPermissionDenialIsSideEffectFree(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	category, err := env.categories.Create(ctx, domain.CategoryCreationData{Name: "c", SortOrder: 1})
	require.NoError(t, err)
	forum, err := env.forums.Create(ctx, domain.ForumCreationData{CategoryId: category.Id.String(), Name: "f"})
	require.NoError(t, err)
	topic, err := env.topics.Create(ctx, domain.TopicCreationData{ForumId: forum.Id.String(), MessageId: uuid.NewString(), Subject: "t"})
	require.NoError(t, err)
	reply, err := env.topics.Reply(ctx, domain.ReplyCreationData{TopicId: topic.Id.String(), MessageId: uuid.NewString()})
	require.NoError(t, err)

	before := takeSnapshot(t, env)
	env.actAs(nil)
	env.reset()

	calls := map[string]func() error{
		"category create": func() error {
			_, err := env.categories.Create(ctx, domain.CategoryCreationData{Name: "x"})
			return err
		},
		"category update": func() error {
			_, err := env.categories.Update(ctx, domain.CategoryUpdateData{Id: category.Id.String(), Name: "x"})
			return err
		},
		"category delete": func() error { return env.categories.Delete(ctx, category.Id.String()) },
		"forum create": func() error {
			_, err := env.forums.Create(ctx, domain.ForumCreationData{CategoryId: category.Id.String(), Name: "x"})
			return err
		},
		"forum sub-forum": func() error {
			_, err := env.forums.CreateSubForum(ctx, domain.SubForumCreationData{ParentForumId: forum.Id.String(), Name: "x"})
			return err
		},
		"forum update": func() error {
			_, err := env.forums.Update(ctx, domain.ForumUpdateData{Id: forum.Id.String(), Name: "x"})
			return err
		},
		"forum delete": func() error { return env.forums.Delete(ctx, forum.Id.String()) },
		"topic create": func() error {
			_, err := env.topics.Create(ctx, domain.TopicCreationData{ForumId: forum.Id.String(), MessageId: uuid.NewString(), Subject: "x"})
			return err
		},
		"topic update": func() error {
			_, err := env.topics.Update(ctx, domain.TopicUpdateData{Id: topic.Id.String(), Subject: "x"})
			return err
		},
		"topic delete": func() error { return env.topics.Delete(ctx, topic.Id.String()) },
		"reply create": func() error {
			_, err := env.topics.Reply(ctx, domain.ReplyCreationData{TopicId: topic.Id.String(), MessageId: uuid.NewString()})
			return err
		},
		"reply delete": func() error { return env.topics.DeleteReply(ctx, reply.Id.String()) },
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			err := call()
			var denied *nferrors.PermissionDeniedError
			require.ErrorAs(t, err, &denied)
			assert.Nil(t, denied.User)
			assert.NotEmpty(t, denied.Action)
		})
	}

	assert.Zero(t, env.runner.calls)
	assert.Empty(t, env.events.published)
	assert.Equal(t, before, takeSnapshot(t, env))
}
