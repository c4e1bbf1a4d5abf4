package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// JoinType represents the type of SQL JOIN operation
type JoinType int

const (
	InnerJoin JoinType = iota
	LeftJoin
)

// String returns the SQL representation of the join type
func (jt JoinType) String() string {
	switch jt {
	case LeftJoin:
		return "LEFT JOIN"
	default:
		return "INNER JOIN"
	}
}

// QueryBuilder provides a fluent, type-safe API for building database queries.
// It runs against anything implementing bun.IDB so the same builder works inside a transaction.
type QueryBuilder[T any] struct {
	db bun.IDB

	// Query clauses
	selectCols []string
	joins      []*JoinClause
	wheres     []*WhereClause
	orders     []*OrderClause

	// Options
	forUpdate bool
	retry     bool

	timeout time.Duration
}

// JoinClause represents a SQL JOIN operation
type JoinClause struct {
	Type       JoinType
	Table      string
	Alias      string
	Conditions []*JoinCondition
}

// JoinCondition represents a condition in a JOIN clause
type JoinCondition struct {
	Left     string
	Operator string
	Right    string
}

// WhereClause represents a WHERE condition
type WhereClause struct {
	Column   string
	Operator string
	Value    any
	IsRaw    bool
	RawSQL   string
	RawArgs  []any
}

// OrderClause represents an ORDER BY clause
type OrderClause struct {
	Column    string
	Direction string // "ASC" or "DESC"
	Raw       bool
}

// OrderDirection represents sort direction
type OrderDirection string

const (
	ASC  OrderDirection = "ASC"
	DESC OrderDirection = "DESC"
)

// JoinBuilder provides a fluent API for building JOIN clauses
type JoinBuilder[T any] struct {
	parent *QueryBuilder[T]
	clause *JoinClause
}

// Query creates a new QueryBuilder instance
func Query[T any](db bun.IDB) *QueryBuilder[T] {
	return &QueryBuilder[T]{db: db}
}

// Select specifies the columns to select
func (q *QueryBuilder[T]) Select(columns ...string) *QueryBuilder[T] {
	q.selectCols = append(q.selectCols, columns...)
	return q
}

// LeftJoin starts building a LEFT JOIN clause
func (q *QueryBuilder[T]) LeftJoin(table, alias string) *JoinBuilder[T] {
	return &JoinBuilder[T]{
		parent: q,
		clause: &JoinClause{Type: LeftJoin, Table: table, Alias: alias},
	}
}

// Where adds a simple WHERE condition (column = value)
func (q *QueryBuilder[T]) Where(column string, value any) *QueryBuilder[T] {
	return q.WhereOp(column, "=", value)
}

// WhereOp adds a WHERE condition with a custom operator
func (q *QueryBuilder[T]) WhereOp(column, operator string, value any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &WhereClause{
		Column:   column,
		Operator: operator,
		Value:    value,
	})
	return q
}

// WhereIf adds column = *value only when value is set. Used for typed optional filters.
func WhereIf[T any, V any](q *QueryBuilder[T], column string, value *V) *QueryBuilder[T] {
	if value == nil {
		return q
	}
	return q.Where(column, *value)
}

// WhereNull adds a WHERE IS NULL condition
func (q *QueryBuilder[T]) WhereNull(column string) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &WhereClause{
		Column:   column,
		Operator: "IS NULL",
	})
	return q
}

// WhereRaw adds a raw WHERE condition
func (q *QueryBuilder[T]) WhereRaw(sql string, args ...any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &WhereClause{
		IsRaw:   true,
		RawSQL:  sql,
		RawArgs: args,
	})
	return q
}

// OrderBy adds an ORDER BY clause
func (q *QueryBuilder[T]) OrderBy(column string, direction OrderDirection) *QueryBuilder[T] {
	q.orders = append(q.orders, &OrderClause{
		Column:    column,
		Direction: string(direction),
	})
	return q
}

// OrderByRaw adds an ORDER BY expression as is, e.g. "position ASC NULLS LAST"
func (q *QueryBuilder[T]) OrderByRaw(expr string) *QueryBuilder[T] {
	q.orders = append(q.orders, &OrderClause{Column: expr, Raw: true})
	return q
}

// ForUpdate adds FOR UPDATE clause (for row locking)
func (q *QueryBuilder[T]) ForUpdate() *QueryBuilder[T] {
	q.forUpdate = true
	return q
}

// Retry enables retrying transient failures with backoff.
// Only use it for idempotent reads outside of a transaction.
func (q *QueryBuilder[T]) Retry() *QueryBuilder[T] {
	q.retry = true
	return q
}

// Timeout sets a timeout for the query
func (q *QueryBuilder[T]) Timeout(duration time.Duration) *QueryBuilder[T] {
	q.timeout = duration
	return q
}

// JoinBuilder methods

// On adds a JOIN condition
func (j *JoinBuilder[T]) On(left, operator, right string) *JoinBuilder[T] {
	j.clause.Conditions = append(j.clause.Conditions, &JoinCondition{
		Left:     left,
		Operator: operator,
		Right:    right,
	})
	return j
}

// And is an alias for On to make chaining more readable
func (j *JoinBuilder[T]) And(left, operator, right string) *JoinBuilder[T] {
	return j.On(left, operator, right)
}

// End completes the join builder and returns to the query builder
func (j *JoinBuilder[T]) End() *QueryBuilder[T] {
	j.parent.joins = append(j.parent.joins, j.clause)
	return j.parent
}

// toSQL renders a single condition with its placeholders and arguments
func (w *WhereClause) toSQL() (string, []any) {
	if w.IsRaw {
		return w.RawSQL, w.RawArgs
	}

	switch w.Operator {
	case "IS NULL", "IS NOT NULL":
		return fmt.Sprintf("%s %s", w.Column, w.Operator), nil
	}
	return fmt.Sprintf("%s %s ?", w.Column, w.Operator), []any{w.Value}
}

// applyWheres feeds every condition to where, which is the Where method of a bun query
func (q *QueryBuilder[T]) applyWheres(where func(string, ...any)) {
	for _, w := range q.wheres {
		s, args := w.toSQL()
		where(s, args...)
	}
}

// Helper function to build JOIN SQL
func (j *JoinClause) toSQL() string {
	var sb strings.Builder

	sb.WriteString(j.Type.String())
	sb.WriteString(" ")
	sb.WriteString(j.Table)

	if j.Alias != "" {
		sb.WriteString(" AS ")
		sb.WriteString(j.Alias)
	}

	if len(j.Conditions) > 0 {
		sb.WriteString(" ON ")
		for i, cond := range j.Conditions {
			if i > 0 {
				sb.WriteString(" AND ")
			}
			sb.WriteString(cond.Left)
			sb.WriteString(" ")
			sb.WriteString(cond.Operator)
			sb.WriteString(" ")
			sb.WriteString(cond.Right)
		}
	}

	return sb.String()
}

// buildBunQuery turns the builder state into a bun select query on model.
// model is either a pointer to the destination or a typed nil when scanning elsewhere.
func (q *QueryBuilder[T]) buildBunQuery(model any) *bun.SelectQuery {
	query := q.db.NewSelect().Model(model)

	for _, col := range q.selectCols {
		query = query.ColumnExpr(col)
	}
	for _, join := range q.joins {
		query = query.Join(join.toSQL())
	}

	q.applyWheres(func(s string, args ...any) {
		query = query.Where(s, args...)
	})

	for _, order := range q.orders {
		if order.Raw {
			query = query.OrderExpr(order.Column)
			continue
		}
		query = query.OrderExpr(order.Column + " " + order.Direction)
	}
	if q.forUpdate {
		query = query.For("UPDATE")
	}

	return query
}

// run executes op with the configured timeout, retrying only when Retry was requested
func (q *QueryBuilder[T]) run(ctx context.Context, op func(ctx context.Context) error) error {
	if q.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.timeout)
		defer cancel()
	}

	if !q.retry {
		return op(ctx)
	}
	return WithRetry(ctx, func() error {
		return op(ctx)
	})
}
