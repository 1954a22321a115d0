package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dchesque/app-loja/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// ErrDuplicateKey is returned when a write violates a unique constraint.
var ErrDuplicateKey = errors.New("duplicate key")

// IsUUID reports whether id parses as a UUID, the key type of every table.
func IsUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Order sorts by a single column. Ascending unless Descending is set.
type Order struct {
	Column     string
	Descending bool
}

// Pagination is 1-indexed.
type Pagination struct {
	Page     int
	PageSize int
}

// Range returns the inclusive row range [from, to] the page covers.
func (p Pagination) Range() (from, to int) {
	from = (p.Page - 1) * p.PageSize
	to = p.Page*p.PageSize - 1
	return from, to
}

// SelectOptions narrows a Select. Every field is optional.
type SelectOptions struct {
	Columns    []string
	Filters    Filters
	Order      *Order
	Pagination *Pagination
}

// Result carries one page of rows and the total number of matches.
type Result[T any] struct {
	Data  []T
	Count int64
}

// Gateway is a thin CRUD layer over a single table. It adds no caching or
// retries; database errors are logged and handed back to the caller.
type Gateway[T any] struct {
	db     *gorm.DB
	table  string
	logger *slog.Logger
}

func NewGateway[T any](db *gorm.DB, lg *slog.Logger) *Gateway[T] {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &Gateway[T]{
		db:     db,
		table:  tableName[T](db),
		logger: lg,
	}
}

func tableName[T any](db *gorm.DB) string {
	var model T
	if t, ok := any(&model).(schema.Tabler); ok {
		return t.TableName()
	}
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(&model); err == nil && stmt.Schema != nil {
		return stmt.Schema.Table
	}
	return fmt.Sprintf("%T", model)
}

// Table returns the table name the gateway writes to.
func (g *Gateway[T]) Table() string {
	return g.table
}

func (g *Gateway[T]) query(ctx context.Context) *gorm.DB {
	return g.db.WithContext(ctx).Model(new(T))
}

// Insert persists record and returns it as stored.
func (g *Gateway[T]) Insert(ctx context.Context, record *T) ([]T, error) {
	if err := g.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, g.fail("insert", err)
	}
	return []T{*record}, nil
}

// Select returns the rows matching opts plus the total match count, which
// ignores pagination.
func (g *Gateway[T]) Select(ctx context.Context, opts SelectOptions) (Result[T], error) {
	base := g.query(ctx)
	base, err := opts.Filters.apply(base)
	if err != nil {
		return Result[T]{}, g.fail("select", err)
	}
	base = base.Session(&gorm.Session{})

	var count int64
	if err := base.Count(&count).Error; err != nil {
		return Result[T]{}, g.fail("select", err)
	}

	q := base
	if len(opts.Columns) > 0 {
		q = q.Select(opts.Columns)
	}
	if opts.Order != nil && opts.Order.Column != "" {
		q = q.Order(clause.OrderByColumn{
			Column: clause.Column{Name: opts.Order.Column},
			Desc:   opts.Order.Descending,
		})
	}
	if p := opts.Pagination; p != nil && p.Page > 0 && p.PageSize > 0 {
		from, to := p.Range()
		q = q.Offset(from).Limit(to - from + 1)
	}

	rows := make([]T, 0)
	if err := q.Find(&rows).Error; err != nil {
		return Result[T]{}, g.fail("select", err)
	}
	return Result[T]{Data: rows, Count: count}, nil
}

// FindByID is Select filtered on the primary key.
func (g *Gateway[T]) FindByID(ctx context.Context, id string) ([]T, error) {
	res, err := g.Select(ctx, SelectOptions{Filters: Filters{"id": id}})
	if err != nil {
		return nil, err
	}
	return res.Data, nil
}

// Exists reports whether any row matches filters.
func (g *Gateway[T]) Exists(ctx context.Context, filters Filters) (bool, error) {
	q, err := filters.apply(g.query(ctx))
	if err != nil {
		return false, g.fail("select", err)
	}
	var count int64
	if err := q.Limit(1).Count(&count).Error; err != nil {
		return false, g.fail("select", err)
	}
	return count > 0, nil
}

// Update applies patch to the row with the given id and returns the row
// after the change. An unknown id yields an empty slice.
func (g *Gateway[T]) Update(ctx context.Context, id string, patch map[string]any) ([]T, error) {
	if len(patch) > 0 {
		res := g.query(ctx).Where(clause.Eq{Column: clause.Column{Name: "id"}, Value: id}).Updates(patch)
		if res.Error != nil {
			return nil, g.fail("update", res.Error)
		}
		if res.RowsAffected == 0 {
			return []T{}, nil
		}
	}
	return g.FindByID(ctx, id)
}

// Delete removes the row with the given id and returns it. An unknown id
// yields an empty slice.
func (g *Gateway[T]) Delete(ctx context.Context, id string) ([]T, error) {
	rows, err := g.FindByID(ctx, id)
	if err != nil || len(rows) == 0 {
		return rows, err
	}
	if err := g.query(ctx).Where(clause.Eq{Column: clause.Column{Name: "id"}, Value: id}).Delete(new(T)).Error; err != nil {
		return nil, g.fail("delete", err)
	}
	return rows, nil
}

// Transaction runs fn against a gateway bound to a single database
// transaction. Returning an error from fn rolls everything back.
func (g *Gateway[T]) Transaction(ctx context.Context, fn func(tx *Gateway[T]) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Gateway[T]{db: tx, table: g.table, logger: g.logger})
	})
}

func (g *Gateway[T]) fail(op string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		g.logger.Warn("unique constraint violated", "op", op, "table", g.table, "error", err)
		return fmt.Errorf("%s %s: %w", op, g.table, ErrDuplicateKey)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	g.logger.Error("database operation failed", "op", op, "table", g.table, "error", err)
	return err
}
