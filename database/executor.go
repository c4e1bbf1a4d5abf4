package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// All executes the query and returns all matching records
func (q *QueryBuilder[T]) All(ctx context.Context) ([]T, error) {
	start := time.Now()
	var data []T

	err := q.run(ctx, func(ctx context.Context) error {
		data = nil // Reset on retry
		return q.buildBunQuery(&data).Scan(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute select query: %w (took %v)", err, time.Since(start))
	}

	if data == nil {
		data = []T{}
	}
	return data, nil
}

// AllInto runs the query against the table of T and scans the rows into R.
// Used for projections and joins whose columns do not match T.
func AllInto[R any, T any](q *QueryBuilder[T], ctx context.Context) ([]R, error) {
	start := time.Now()
	var data []R

	err := q.run(ctx, func(ctx context.Context) error {
		data = nil // Reset on retry
		return q.buildBunQuery((*T)(nil)).Scan(ctx, &data)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute select query: %w (took %v)", err, time.Since(start))
	}

	if data == nil {
		data = []R{}
	}
	return data, nil
}

// First executes the query and returns the first matching record, nil when there is none
func (q *QueryBuilder[T]) First(ctx context.Context) (*T, error) {
	start := time.Now()
	var data T

	err := q.run(ctx, func(ctx context.Context) error {
		return q.buildBunQuery(&data).Limit(1).Scan(ctx)
	})
	if err != nil {
		// Return nil for no rows instead of error
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to execute first query: %w (took %v)", err, time.Since(start))
	}

	return &data, nil
}

// Insert inserts a new record and returns it with the generated columns filled in
func (q *QueryBuilder[T]) Insert(ctx context.Context, data *T) (*T, error) {
	start := time.Now()

	err := q.run(ctx, func(ctx context.Context) error {
		_, err := q.db.NewInsert().Model(data).Returning("*").Exec(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute insert query: %w (took %v)", err, time.Since(start))
	}

	return data, nil
}

// Update updates records matching the query and returns the number of affected rows.
// data is either a column map or a *T whose non zero fields are written.
func (q *QueryBuilder[T]) Update(ctx context.Context, data any) (int, error) {
	start := time.Now()
	var rowsAffected int64

	err := q.run(ctx, func(ctx context.Context) error {
		query, err := q.buildUpdate(data)
		if err != nil {
			return err
		}
		res, err := query.Exec(ctx)
		if err != nil {
			return err
		}
		rowsAffected, _ = res.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to execute update query: %w (took %v)", err, time.Since(start))
	}

	return int(rowsAffected), nil
}

// UpdateReturning updates records and returns them
func (q *QueryBuilder[T]) UpdateReturning(ctx context.Context, data any) ([]T, error) {
	start := time.Now()
	var results []T

	err := q.run(ctx, func(ctx context.Context) error {
		results = nil // Reset on retry
		query, err := q.buildUpdate(data)
		if err != nil {
			return err
		}
		_, err = query.Returning("*").Exec(ctx, &results)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute update query: %w (took %v)", err, time.Since(start))
	}

	return results, nil
}

// Delete deletes records matching the query and returns the number of affected rows
func (q *QueryBuilder[T]) Delete(ctx context.Context) (int, error) {
	start := time.Now()
	var rowsAffected int64

	err := q.run(ctx, func(ctx context.Context) error {
		res, err := q.buildDelete().Exec(ctx)
		if err != nil {
			return err
		}
		rowsAffected, _ = res.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to execute delete query: %w (took %v)", err, time.Since(start))
	}

	return int(rowsAffected), nil
}

func (q *QueryBuilder[T]) buildUpdate(data any) (*bun.UpdateQuery, error) {
	var query *bun.UpdateQuery

	switch v := data.(type) {
	case map[string]any:
		query = q.db.NewUpdate().Model((*T)(nil))
		for key, value := range v {
			query = query.Set("? = ?", bun.Ident(key), value)
		}
	case *T:
		query = q.db.NewUpdate().Model(v).OmitZero()
	default:
		return nil, fmt.Errorf("unsupported data type for update: %T", data)
	}

	q.applyWheres(func(s string, args ...any) {
		query = query.Where(s, args...)
	})
	return query, nil
}

func (q *QueryBuilder[T]) buildDelete() *bun.DeleteQuery {
	query := q.db.NewDelete().Model((*T)(nil))
	q.applyWheres(func(s string, args ...any) {
		query = query.Where(s, args...)
	})
	return query
}
