// Package datastore is the only place that knows how forum entities relate.
//
// It turns domain operations ("create a forum under category X") into
// repository calls on one storage.Session, validates externally supplied
// identifiers and required fields before any write, computes structural
// fields such as the forum nesting level, and assembles bounded read trees.
package datastore

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	internal_errors "github.com/nforum-dev/nforum/backend/internal/errors"
	"github.com/nforum-dev/nforum/backend/internal/storage"
	"github.com/nforum-dev/nforum/shared/domain"
	nferrors "github.com/nforum-dev/nforum/shared/errors"
	"github.com/nforum-dev/nforum/shared/validation"
)

// Entity names used in error values.
const (
	EntityCategory  = "category"
	EntityForum     = "forum"
	EntityTopic     = "topic"
	EntityReply     = "reply"
	EntityForumUser = "forumuser"
)

type Option func(*DataStore)

// WithClock replaces time.Now for CreatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(d *DataStore) { d.now = now }
}

// DataStore works on the repositories of a single Session and never commits.
// Use Runner to get one bound to a fresh transaction.
type DataStore struct {
	repos storage.Repositories
	now   func() time.Time
}

func New(repos storage.Repositories, opts ...Option) *DataStore {
	d := &DataStore{repos: repos, now: time.Now}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// timestamp is truncated to what postgres keeps so values round trip unchanged.
func (d *DataStore) timestamp() time.Time {
	return d.now().UTC().Truncate(time.Microsecond)
}

// notFound maps the storage NotFound sentinel to the caller-facing error.
func notFound(err error, entity string, id domain.Id) error {
	if errors.Is(err, internal_errors.NotFound) {
		return &nferrors.ReferenceNotFoundError{Entity: entity, Id: id}
	}
	return err
}

// inconsistent maps NotFound during tree assembly to an internal error.
func inconsistent(err error, entity string, id domain.Id, reason string) error {
	if errors.Is(err, internal_errors.NotFound) {
		return &nferrors.InternalInconsistencyError{Entity: entity, Id: id, Reason: reason}
	}
	return err
}

// Categories

func (d *DataStore) CreateCategory(ctx context.Context, data domain.CategoryCreationData) (domain.Category, error) {
	if err := validation.Struct(data); err != nil {
		return domain.Category{}, err
	}
	category, err := d.repos.Categories.Create(ctx, domain.Category{
		Name:        data.Name,
		SortOrder:   data.SortOrder,
		Description: data.Description,
	})
	if err != nil {
		return domain.Category{}, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

func (d *DataStore) UpdateCategory(ctx context.Context, data domain.CategoryUpdateData) (domain.Category, error) {
	if err := validation.Struct(data); err != nil {
		return domain.Category{}, err
	}
	id, err := validation.ParseId("Id", data.Id)
	if err != nil {
		return domain.Category{}, err
	}
	category, err := d.repos.Categories.FindById(ctx, id)
	if err != nil {
		return domain.Category{}, notFound(err, EntityCategory, id)
	}
	category.Name = data.Name
	category.SortOrder = data.SortOrder
	category.Description = data.Description
	updated, err := d.repos.Categories.Update(ctx, category)
	if err != nil {
		return domain.Category{}, notFound(err, EntityCategory, id)
	}
	return updated, nil
}

// DeleteCategory removes the category row only. Its forums stay behind.
func (d *DataStore) DeleteCategory(ctx context.Context, rawId string) error {
	id, err := validation.ParseId("Id", rawId)
	if err != nil {
		return err
	}
	return notFound(d.repos.Categories.DeleteById(ctx, id), EntityCategory, id)
}

func (d *DataStore) FindCategoryById(ctx context.Context, rawId string) (domain.Category, error) {
	id, err := validation.ParseId("Id", rawId)
	if err != nil {
		return domain.Category{}, err
	}
	category, err := d.repos.Categories.FindById(ctx, id)
	if err != nil {
		return domain.Category{}, notFound(err, EntityCategory, id)
	}
	return category, nil
}

// FindAll returns every category in ascending SortOrder.
func (d *DataStore) FindAll(ctx context.Context) ([]domain.Category, error) {
	categories, err := d.repos.Categories.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	slices.SortStableFunc(categories, func(a, b domain.Category) int {
		return cmp.Compare(a.SortOrder, b.SortOrder)
	})
	return categories, nil
}

// Forums

// CreateForum creates a top-level forum: Level 0, no parent forum.
func (d *DataStore) CreateForum(ctx context.Context, data domain.ForumCreationData) (domain.Forum, error) {
	if err := validation.Struct(data); err != nil {
		return domain.Forum{}, err
	}
	categoryId, err := validation.ParseId("CategoryId", data.CategoryId)
	if err != nil {
		return domain.Forum{}, err
	}
	if _, err := d.repos.Categories.FindById(ctx, categoryId); err != nil {
		return domain.Forum{}, notFound(err, EntityCategory, categoryId)
	}
	forum, err := d.repos.Forums.Create(ctx, domain.Forum{
		Name:          data.Name,
		SortOrder:     data.SortOrder,
		Description:   data.Description,
		CategoryId:    categoryId,
		ParentForumId: domain.NoId,
		Level:         0,
	})
	if err != nil {
		return domain.Forum{}, fmt.Errorf("failed to create forum: %w", err)
	}
	return forum, nil
}

// CreateSubForum creates a forum under an existing one. The sub-forum joins
// the parent's category one level deeper.
func (d *DataStore) CreateSubForum(ctx context.Context, data domain.SubForumCreationData) (domain.Forum, error) {
	if err := validation.Struct(data); err != nil {
		return domain.Forum{}, err
	}
	parentId, err := validation.ParseId("ParentForumId", data.ParentForumId)
	if err != nil {
		return domain.Forum{}, err
	}
	parent, err := d.repos.Forums.FindById(ctx, parentId)
	if err != nil {
		return domain.Forum{}, notFound(err, EntityForum, parentId)
	}
	forum, err := d.repos.Forums.Create(ctx, domain.Forum{
		Name:          data.Name,
		SortOrder:     data.SortOrder,
		Description:   data.Description,
		CategoryId:    parent.CategoryId,
		ParentForumId: domain.SomeId(parent.Id),
		Level:         parent.Level + 1,
	})
	if err != nil {
		return domain.Forum{}, fmt.Errorf("failed to create sub-forum: %w", err)
	}
	return forum, nil
}

// UpdateForum changes name, sort order and description. Placement
// (category, parent, level) is left untouched.
func (d *DataStore) UpdateForum(ctx context.Context, data domain.ForumUpdateData) (domain.Forum, error) {
	if err := validation.Struct(data); err != nil {
		return domain.Forum{}, err
	}
	id, err := validation.ParseId("Id", data.Id)
	if err != nil {
		return domain.Forum{}, err
	}
	forum, err := d.repos.Forums.FindById(ctx, id)
	if err != nil {
		return domain.Forum{}, notFound(err, EntityForum, id)
	}
	forum.Name = data.Name
	forum.SortOrder = data.SortOrder
	forum.Description = data.Description
	updated, err := d.repos.Forums.Update(ctx, forum)
	if err != nil {
		return domain.Forum{}, notFound(err, EntityForum, id)
	}
	return updated, nil
}

// DeleteForum removes the forum row only. Sub-forums and topics stay behind.
func (d *DataStore) DeleteForum(ctx context.Context, rawId string) error {
	id, err := validation.ParseId("Id", rawId)
	if err != nil {
		return err
	}
	return notFound(d.repos.Forums.DeleteById(ctx, id), EntityForum, id)
}

func (d *DataStore) FindForumById(ctx context.Context, rawId string) (domain.Forum, error) {
	id, err := validation.ParseId("Id", rawId)
	if err != nil {
		return domain.Forum{}, err
	}
	forum, err := d.repos.Forums.FindById(ctx, id)
	if err != nil {
		return domain.Forum{}, notFound(err, EntityForum, id)
	}
	return forum, nil
}

// FindAllForums returns every forum in ascending SortOrder.
func (d *DataStore) FindAllForums(ctx context.Context) ([]domain.Forum, error) {
	forums, err := d.repos.Forums.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list forums: %w", err)
	}
	sortForums(forums)
	return forums, nil
}
