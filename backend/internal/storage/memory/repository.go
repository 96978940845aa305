package memory

import (
	"context"

	"github.com/google/uuid"
	internal_errors "github.com/nforum-dev/nforum/backend/internal/errors"
	"github.com/nforum-dev/nforum/shared/domain"
)

type repository[T any, P interface {
	*T
	domain.Entity
}] struct {
	uow   *UnitOfWork
	table func(*tables) map[domain.Id]T
}

func newRepository[T any, P interface {
	*T
	domain.Entity
}](uow *UnitOfWork, table func(*tables) map[domain.Id]T) *repository[T, P] {
	return &repository[T, P]{uow: uow, table: table}
}

func (r *repository[T, P]) exists(id domain.Id) func(*tables) error {
	return func(t *tables) error {
		if _, ok := r.table(t)[id]; !ok {
			return internal_errors.NotFound
		}
		return nil
	}
}

func (r *repository[T, P]) Create(ctx context.Context, entity T) (T, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, err
	}
	p := P(&entity)
	if p.GetId() == uuid.Nil {
		p.SetId(uuid.New())
	}
	id, stored := p.GetId(), entity
	err := r.uow.change(nil, func(t *tables) { r.table(t)[id] = stored })
	if err != nil {
		var zero T
		return zero, err
	}
	return entity, nil
}

func (r *repository[T, P]) FindById(ctx context.Context, id domain.Id) (T, error) {
	var found T
	if err := ctx.Err(); err != nil {
		return found, err
	}
	err := r.uow.view(func(t *tables) error {
		entity, ok := r.table(t)[id]
		if !ok {
			return internal_errors.NotFound
		}
		found = entity
		return nil
	})
	return found, err
}

func (r *repository[T, P]) FindAll(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var all []T
	err := r.uow.view(func(t *tables) error {
		all = make([]T, 0, len(r.table(t)))
		for _, entity := range r.table(t) {
			all = append(all, entity)
		}
		return nil
	})
	return all, err
}

func (r *repository[T, P]) Update(ctx context.Context, entity T) (T, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, err
	}
	id, stored := P(&entity).GetId(), entity
	if err := r.uow.change(r.exists(id), func(t *tables) { r.table(t)[id] = stored }); err != nil {
		var zero T
		return zero, err
	}
	return entity, nil
}

func (r *repository[T, P]) DeleteById(ctx context.Context, id domain.Id) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.uow.change(r.exists(id), func(t *tables) { delete(r.table(t), id) })
}
