package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	internal_errors "github.com/nforum-dev/nforum/backend/internal/errors"
	"github.com/nforum-dev/nforum/shared/domain"
)

// mapping describes how one entity type is laid out in its table.
// fields returns pointers to the entity's fields in column order; the same
// pointers serve as Scan destinations and as query arguments.
type mapping[T any] struct {
	entity  string
	columns []string // columns[0] is always "id"
	fields  func(e *T) []any
}

type repository[T any, P interface {
	*T
	domain.Entity
}] struct {
	uow   *UnitOfWork
	table string // already quoted
	m     mapping[T]

	selectSQL string
	insertSQL string
	updateSQL string
	deleteSQL string
}

func newRepository[T any, P interface {
	*T
	domain.Entity
}](uow *UnitOfWork, table string, m mapping[T]) *repository[T, P] {
	cols := strings.Join(m.columns, ", ")

	placeholders := make([]string, len(m.columns))
	assignments := make([]string, 0, len(m.columns)-1)
	for i, col := range m.columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		if i > 0 {
			assignments = append(assignments, fmt.Sprintf("%s = $%d", col, i+1))
		}
	}

	return &repository[T, P]{
		uow:       uow,
		table:     table,
		m:         m,
		selectSQL: fmt.Sprintf("SELECT %s FROM %s", cols, table),
		insertSQL: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, cols, strings.Join(placeholders, ", ")),
		updateSQL: fmt.Sprintf("UPDATE %s SET %s WHERE id = $1", table, strings.Join(assignments, ", ")),
		deleteSQL: fmt.Sprintf("DELETE FROM %s WHERE id = $1", table),
	}
}

func (r *repository[T, P]) Create(ctx context.Context, entity T) (T, error) {
	var zero T
	q, err := r.uow.querier()
	if err != nil {
		return zero, err
	}
	p := P(&entity)
	if p.GetId() == uuid.Nil {
		p.SetId(uuid.New())
	}
	if _, err := q.ExecContext(ctx, r.insertSQL, r.m.fields(&entity)...); err != nil {
		return zero, fmt.Errorf("failed to insert %s: %w", r.m.entity, err)
	}
	return entity, nil
}

func (r *repository[T, P]) FindById(ctx context.Context, id domain.Id) (T, error) {
	var entity T
	q, err := r.uow.querier()
	if err != nil {
		return entity, err
	}
	err = q.QueryRowContext(ctx, r.selectSQL+" WHERE id = $1", id).Scan(r.m.fields(&entity)...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity, internal_errors.NotFound
		}
		return entity, fmt.Errorf("failed to fetch %s: %w", r.m.entity, err)
	}
	return entity, nil
}

func (r *repository[T, P]) FindAll(ctx context.Context) ([]T, error) {
	q, err := r.uow.querier()
	if err != nil {
		return nil, err
	}
	rows, err := q.QueryContext(ctx, r.selectSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", r.m.entity, err)
	}
	defer rows.Close()

	var all []T
	for rows.Next() {
		var entity T
		if err := rows.Scan(r.m.fields(&entity)...); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", r.m.entity, err)
		}
		all = append(all, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return all, nil
}

func (r *repository[T, P]) Update(ctx context.Context, entity T) (T, error) {
	var zero T
	q, err := r.uow.querier()
	if err != nil {
		return zero, err
	}
	result, err := q.ExecContext(ctx, r.updateSQL, r.m.fields(&entity)...)
	if err != nil {
		return zero, fmt.Errorf("failed to update %s: %w", r.m.entity, err)
	}
	if affected, err := result.RowsAffected(); err != nil {
		return zero, err
	} else if affected == 0 {
		return zero, internal_errors.NotFound
	}
	return entity, nil
}

func (r *repository[T, P]) DeleteById(ctx context.Context, id domain.Id) error {
	q, err := r.uow.querier()
	if err != nil {
		return err
	}
	result, err := q.ExecContext(ctx, r.deleteSQL, id)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", r.m.entity, err)
	}
	if affected, err := result.RowsAffected(); err != nil {
		return err
	} else if affected == 0 {
		return internal_errors.NotFound
	}
	return nil
}
