package service

import (
	"context"
	"time"

	"github.com/nforum-dev/nforum/backend/internal/datastore"
	"github.com/nforum-dev/nforum/backend/internal/events"
	"github.com/nforum-dev/nforum/backend/internal/permission"
	"github.com/nforum-dev/nforum/shared/domain"
	"github.com/nforum-dev/nforum/shared/validation"
)

// to mock service in tests
type ForumService interface {
	Create(ctx context.Context, data domain.ForumCreationData) (domain.Forum, error)
	CreateSubForum(ctx context.Context, data domain.SubForumCreationData) (domain.Forum, error)
	Update(ctx context.Context, data domain.ForumUpdateData) (domain.Forum, error)
	Delete(ctx context.Context, id string) error
	FindById(ctx context.Context, id string) (domain.Forum, error)
	FindAll(ctx context.Context) ([]domain.Forum, error)
	FindTree(ctx context.Context, id string) (domain.ForumTree, error)
}

type Forum struct {
	base
}

func NewForum(runner UnitOfWorkRunner, c Collaborators) ForumService {
	return &Forum{newBase("forum", runner, c)}
}

// Create adds a top-level forum to a category.
func (s *Forum) Create(ctx context.Context, data domain.ForumCreationData) (forum domain.Forum, err error) {
	start := time.Now()
	defer func() { s.observe("create", start, err) }()

	if err := validation.Struct(data); err != nil {
		return domain.Forum{}, err
	}
	s.log.Debug("create called", "category_id", data.CategoryId, "name", data.Name, "description", data.Description, "sort_order", data.SortOrder)
	if err := s.authorize(ctx, permission.CreateForum); err != nil {
		return domain.Forum{}, err
	}

	err = s.runner.InTransaction(ctx, func(ds *datastore.DataStore) error {
		var err error
		forum, err = ds.CreateForum(ctx, data)
		return err
	})
	if err != nil {
		return domain.Forum{}, err
	}
	s.log.Info("forum created", "id", forum.Id, "category_id", forum.CategoryId)
	s.publish(ctx, events.ForumCreated{Forum: forum})
	return forum, nil
}

// CreateSubForum adds a forum below an existing one, in the parent's category.
func (s *Forum) CreateSubForum(ctx context.Context, data domain.SubForumCreationData) (forum domain.Forum, err error) {
	start := time.Now()
	defer func() { s.observe("create_sub_forum", start, err) }()

	if err := validation.Struct(data); err != nil {
		return domain.Forum{}, err
	}
	s.log.Debug("create sub-forum called", "parent_forum_id", data.ParentForumId, "name", data.Name, "description", data.Description, "sort_order", data.SortOrder)
	if err := s.authorize(ctx, permission.CreateSubForum); err != nil {
		return domain.Forum{}, err
	}

	err = s.runner.InTransaction(ctx, func(ds *datastore.DataStore) error {
		var err error
		forum, err = ds.CreateSubForum(ctx, data)
		return err
	})
	if err != nil {
		return domain.Forum{}, err
	}
	s.log.Info("sub-forum created", "id", forum.Id, "parent_forum_id", forum.ParentForumId.UUID, "level", forum.Level)
	s.publish(ctx, events.ForumCreated{Forum: forum})
	return forum, nil
}

func (s *Forum) Update(ctx context.Context, data domain.ForumUpdateData) (forum domain.Forum, err error) {
	start := time.Now()
	defer func() { s.observe("update", start, err) }()

	if err := validation.Struct(data); err != nil {
		return domain.Forum{}, err
	}
	s.log.Debug("update called", "id", data.Id, "name", data.Name, "description", data.Description, "sort_order", data.SortOrder)
	if err := s.authorize(ctx, permission.UpdateForum); err != nil {
		return domain.Forum{}, err
	}

	err = s.runner.InTransaction(ctx, func(ds *datastore.DataStore) error {
		var err error
		forum, err = ds.UpdateForum(ctx, data)
		return err
	})
	if err != nil {
		return domain.Forum{}, err
	}
	s.log.Info("forum updated", "id", forum.Id)
	s.publish(ctx, events.ForumUpdated{Forum: forum})
	return forum, nil
}

// Delete removes the forum only; sub-forums and topics are left in place.
func (s *Forum) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.observe("delete", start, err) }()

	if err := validation.NotBlank("Id", id); err != nil {
		return err
	}
	s.log.Debug("delete called", "id", id)
	if err := s.authorize(ctx, permission.DeleteForum); err != nil {
		return err
	}

	var forumId domain.Id
	err = s.runner.InTransaction(ctx, func(ds *datastore.DataStore) error {
		forum, err := ds.FindForumById(ctx, id)
		if err != nil {
			return err
		}
		forumId = forum.Id
		return ds.DeleteForum(ctx, id)
	})
	if err != nil {
		return err
	}
	s.log.Info("forum deleted", "id", forumId)
	s.publish(ctx, events.ForumDeleted{Id: forumId})
	return nil
}

func (s *Forum) FindById(ctx context.Context, id string) (forum domain.Forum, err error) {
	start := time.Now()
	defer func() { s.observe("find_by_id", start, err) }()

	if err := validation.NotBlank("Id", id); err != nil {
		return domain.Forum{}, err
	}
	s.log.Debug("find by id called", "id", id)
	if err := s.authorize(ctx, permission.Read); err != nil {
		return domain.Forum{}, err
	}
	err = s.runner.InTransaction(ctx, func(ds *datastore.DataStore) error {
		var err error
		forum, err = ds.FindForumById(ctx, id)
		return err
	})
	return forum, err
}

// FindAll returns every forum in ascending SortOrder.
func (s *Forum) FindAll(ctx context.Context) (forums []domain.Forum, err error) {
	start := time.Now()
	defer func() { s.observe("find_all", start, err) }()

	s.log.Debug("find all called")
	if err := s.authorize(ctx, permission.Read); err != nil {
		return nil, err
	}
	err = s.runner.InTransaction(ctx, func(ds *datastore.DataStore) error {
		var err error
		forums, err = ds.FindAllForums(ctx)
		return err
	})
	return forums, err
}

// FindTree returns the forum with two levels of sub-forums and its ancestors.
func (s *Forum) FindTree(ctx context.Context, id string) (tree domain.ForumTree, err error) {
	start := time.Now()
	defer func() { s.observe("find_tree", start, err) }()

	if err := validation.NotBlank("Id", id); err != nil {
		return domain.ForumTree{}, err
	}
	s.log.Debug("find tree called", "id", id)
	if err := s.authorize(ctx, permission.Read); err != nil {
		return domain.ForumTree{}, err
	}
	err = s.runner.InTransaction(ctx, func(ds *datastore.DataStore) error {
		var err error
		tree, err = ds.FindForumPlus2Levels(ctx, id)
		return err
	})
	return tree, err
}
