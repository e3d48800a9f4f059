package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Scope narrows a query. Entity repositories and services compose them into
// ListOptions; the generic List never knows about concrete columns.
type Scope = func(*gorm.DB) *gorm.DB

// ListOptions drives CRUD.List.
type ListOptions struct {
	Scopes  []Scope
	Preload []string
	Order   string
	Offset  int
	Limit   int
}

// CRUD is the list/get/create/update/delete capability shared by every entity.
type CRUD[T any] interface {
	List(ctx context.Context, opts ListOptions) ([]T, int64, error)
	FindByID(ctx context.Context, id uuid.UUID, preload ...string) (*T, error)
	Create(ctx context.Context, tx *gorm.DB, v *T) error
	Update(ctx context.Context, tx *gorm.DB, v *T) error
	Delete(ctx context.Context, id uuid.UUID) error
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type crudRepo[T any] struct {
	db           *gorm.DB
	defaultOrder string
}

func newCRUD[T any](db *gorm.DB, defaultOrder string) *crudRepo[T] {
	return &crudRepo[T]{db: db, defaultOrder: defaultOrder}
}

func (r *crudRepo[T]) DB() *gorm.DB { return r.db }

// conn picks the caller's transaction when there is one.
func (r *crudRepo[T]) conn(ctx context.Context, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

func (r *crudRepo[T]) List(ctx context.Context, opts ListOptions) ([]T, int64, error) {
	var (
		items []T
		total int64
	)
	q := r.db.WithContext(ctx).Model(new(T)).Scopes(opts.Scopes...)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := opts.Order
	if order == "" {
		order = r.defaultOrder
	}
	if order != "" {
		q = q.Order(order)
	}
	q = withPreloads(q, opts.Preload)
	if opts.Limit > 0 {
		q = q.Offset(opts.Offset).Limit(opts.Limit)
	}
	err := q.Find(&items).Error
	return items, total, err
}

func (r *crudRepo[T]) FindByID(ctx context.Context, id uuid.UUID, preload ...string) (*T, error) {
	var v T
	q := withPreloads(r.db.WithContext(ctx), preload)
	if err := q.First(&v, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

// preloadOrder sorts has-many associations that keep an input position.
var preloadOrder = map[string]string{
	"Lines": "position",
}

func withPreloads(q *gorm.DB, names []string) *gorm.DB {
	for _, p := range names {
		order, ok := preloadOrder[p]
		if !ok {
			q = q.Preload(p)
			continue
		}
		q = q.Preload(p, func(db *gorm.DB) *gorm.DB { return db.Order(order) })
	}
	return q
}

// Create and Update skip associations so preloaded relations are never upserted.
func (r *crudRepo[T]) Create(ctx context.Context, tx *gorm.DB, v *T) error {
	return r.conn(ctx, tx).Omit(clause.Associations).Create(v).Error
}

func (r *crudRepo[T]) Update(ctx context.Context, tx *gorm.DB, v *T) error {
	return r.conn(ctx, tx).Omit(clause.Associations).Save(v).Error
}

func (r *crudRepo[T]) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(new(T), "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Eq matches column = value.
func Eq(column string, value interface{}) Scope {
	return func(db *gorm.DB) *gorm.DB { return db.Where(column+" = ?", value) }
}

// Search matches term case-insensitively against any of columns. An empty term matches everything.
func Search(term string, columns ...string) Scope {
	term = strings.TrimSpace(term)
	return func(db *gorm.DB) *gorm.DB {
		if term == "" || len(columns) == 0 {
			return db
		}
		like := "%" + strings.ToLower(term) + "%"
		clauses := make([]string, len(columns))
		args := make([]interface{}, len(columns))
		for i, c := range columns {
			clauses[i] = "LOWER(" + c + ") LIKE ?"
			args[i] = like
		}
		return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
}
