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
type CategoryService interface {
	Create(ctx context.Context, data domain.CategoryCreationData) (domain.Category, error)
	Update(ctx context.Context, data domain.CategoryUpdateData) (domain.Category, error)
	Delete(ctx context.Context, id string) error
	FindById(ctx context.Context, id string) (domain.Category, error)
	FindAll(ctx context.Context) ([]domain.Category, error)
	FindTree(ctx context.Context, id string) (domain.CategoryTree, error)
	FindAllTrees(ctx context.Context) ([]domain.CategoryTree, error)
}

type Category struct {
	base
}

func NewCategory(runner UnitOfWorkRunner, c Collaborators) CategoryService {
	return &Category{newBase("category", runner, c)}
}

func (s *Category) Create(ctx context.Context, data domain.CategoryCreationData) (category domain.Category, err error) {
	start := time.Now()
	defer func() { s.observe("create", start, err) }()

	if err := validation.Struct(data); err != nil {
		return domain.Category{}, err
	}
	s.log.Debug("create called", "name", data.Name, "description", data.Description, "sort_order", data.SortOrder)
	if err := s.authorize(ctx, permission.CreateCategory); err != nil {
		return domain.Category{}, err
	}

	err = s.runner.InTransaction(ctx, func(ds *datastore.DataStore) error {
		var err error
		category, err = ds.CreateCategory(ctx, data)
		return err
	})
	if err != nil {
		return domain.Category{}, err
	}
	s.log.Info("category created", "id", category.Id)
	s.publish(ctx, events.CategoryCreated{Category: category})
	return category, nil
}

func (s *Category) Update(ctx context.Context, data domain.CategoryUpdateData) (category domain.Category, err error) {
	start := time.Now()
	defer func() { s.observe("update", start, err) }()

	if err := validation.Struct(data); err != nil {
		return domain.Category{}, err
	}
	s.log.Debug("update called", "id", data.Id, "name", data.Name, "description", data.Description, "sort_order", data.SortOrder)
	if err := s.authorize(ctx, permission.UpdateCategory); err != nil {
		return domain.Category{}, err
	}

	err = s.runner.InTransaction(ctx, func(ds *datastore.DataStore) error {
		var err error
		category, err = ds.UpdateCategory(ctx, data)
		return err
	})
	if err != nil {
		return domain.Category{}, err
	}
	s.log.Info("category updated", "id", category.Id)
	s.publish(ctx, events.CategoryUpdated{Category: category})
	return category, nil
}

// Delete removes the category only; its forums are left in place.
func (s *Category) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.observe("delete", start, err) }()

	if err := validation.NotBlank("Id", id); err != nil {
		return err
	}
	s.log.Debug("delete called", "id", id)
	if err := s.authorize(ctx, permission.DeleteCategory); err != nil {
		return err
	}

	var categoryId domain.Id
	err = s.runner.InTransaction(ctx, func(ds *datastore.DataStore) error {
		category, err := ds.FindCategoryById(ctx, id)
		if err != nil {
			return err
		}
		categoryId = category.Id
		return ds.DeleteCategory(ctx, id)
	})
	if err != nil {
		return err
	}
	s.log.Info("category deleted", "id", categoryId)
	s.publish(ctx, events.CategoryDeleted{Id: categoryId})
	return nil
}

func (s *Category) FindById(ctx context.Context, id string) (category domain.Category, err error) {
	start := time.Now()
	defer func() { s.observe("find_by_id", start, err) }()

	if err := validation.NotBlank("Id", id); err != nil {
		return domain.Category{}, err
	}
	s.log.Debug("find by id called", "id", id)
	if err := s.authorize(ctx, permission.Read); err != nil {
		return domain.Category{}, err
	}
	err = s.runner.InTransaction(ctx, func(ds *datastore.DataStore) error {
		var err error
		category, err = ds.FindCategoryById(ctx, id)
		return err
	})
	return category, err
}

// FindAll returns the categories in ascending SortOrder.
func (s *Category) FindAll(ctx context.Context) (categories []domain.Category, err error) {
	start := time.Now()
	defer func() { s.observe("find_all", start, err) }()

	s.log.Debug("find all called")
	if err := s.authorize(ctx, permission.Read); err != nil {
		return nil, err
	}
	err = s.runner.InTransaction(ctx, func(ds *datastore.DataStore) error {
		var err error
		categories, err = ds.FindAll(ctx)
		return err
	})
	return categories, err
}

func (s *Category) FindTree(ctx context.Context, id string) (tree domain.CategoryTree, err error) {
	start := time.Now()
	defer func() { s.observe("find_tree", start, err) }()

	if err := validation.NotBlank("Id", id); err != nil {
		return domain.CategoryTree{}, err
	}
	s.log.Debug("find tree called", "id", id)
	if err := s.authorize(ctx, permission.Read); err != nil {
		return domain.CategoryTree{}, err
	}
	err = s.runner.InTransaction(ctx, func(ds *datastore.DataStore) error {
		var err error
		tree, err = ds.FindCategoryPlus2Levels(ctx, id)
		return err
	})
	return tree, err
}

func (s *Category) FindAllTrees(ctx context.Context) (trees []domain.CategoryTree, err error) {
	start := time.Now()
	defer func() { s.observe("find_all_trees", start, err) }()

	s.log.Debug("find all trees called")
	if err := s.authorize(ctx, permission.Read); err != nil {
		return nil, err
	}
	err = s.runner.InTransaction(ctx, func(ds *datastore.DataStore) error {
		var err error
		trees, err = ds.FindCategoriesPlus2Levels(ctx)
		return err
	})
	return trees, err
}
