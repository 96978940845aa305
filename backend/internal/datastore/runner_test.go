package datastore

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/nforum-dev/nforum/backend/internal/storage"
	"github.com/nforum-dev/nforum/backend/internal/storage/memory"
	"github.com/nforum-dev/nforum/shared/domain"
	nferrors "github.com/nforum-dev/nforum/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunnerCommitsOnSuccess(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	runner := NewRunner(store)

	var forum domain.Forum
	err := runner.InTransaction(ctx, func(ds *DataStore) error {
		c, err := ds.CreateCategory(ctx, domain.CategoryCreationData{Name: "With child forum", Description: "meh", SortOrder: 100})
		if err != nil {
			return err
		}
		forum, err = ds.CreateForum(ctx, domain.ForumCreationData{CategoryId: c.Id.String(), Name: "First one?", Description: "bla bla", SortOrder: 50})
		return err
	})
	require.NoError(t, err)

	err = runner.InTransaction(ctx, func(ds *DataStore) error {
		found, err := ds.FindForumById(ctx, forum.Id.String())
		require.NoError(t, err)
		assert.Equal(t, "First one?", found.Name)
		return nil
	})
	require.NoError(t, err)
}

func TestRunnerRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	runner := NewRunner(store)
	boom := errors.New("boom")

	err := runner.InTransaction(ctx, func(ds *DataStore) error {
		if _, err := ds.CreateCategory(ctx, domain.CategoryCreationData{Name: "c"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, store.Counts()["category"])

	// a failing second write undoes the first one
	err = runner.InTransaction(ctx, func(ds *DataStore) error {
		if _, err := ds.CreateCategory(ctx, domain.CategoryCreationData{Name: "c"}); err != nil {
			return err
		}
		_, err := ds.CreateForum(ctx, domain.ForumCreationData{CategoryId: uuid.NewString(), Name: "f"})
		return err
	})
	require.ErrorIs(t, err, nferrors.ErrReferenceNotFound)
	assert.Equal(t, 0, store.Counts()["category"])
}

type failingOpener struct{ err error }

func (o failingOpener) Open(context.Context) (*storage.Session, error) { return nil, o.err }

func TestRunnerOpenFailure(t *testing.T) {
	boom := errors.New("no connection")
	called := false
	err := NewRunner(failingOpener{err: boom}).InTransaction(context.Background(), func(*DataStore) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, boom)
	assert.False(t, called)
}

func TestRunnerCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewRunner(memory.New()).InTransaction(ctx, func(*DataStore) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
