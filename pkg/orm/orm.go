// Package orm is a thin chainable wrapper around gorm used by the
// repository layer. It keeps query building uniform and centralizes
// pagination.
package orm

import (
	"context"
	"math"

	"gorm.io/gorm"
)

// Pagination describes one page of a listing result.
type Pagination struct {
	Page     int   `json:"page"`
	PerPage  int   `json:"per_page"`
	Total    int64 `json:"total"`
	LastPage int   `json:"last_page"`
}

// Query is a chainable query builder bound to a gorm handle.
type Query struct {
	db *gorm.DB
}

// New starts a query against db.
func New(db *gorm.DB) *Query {
	return &Query{db: db}
}

// WithCtx binds the query to a request context.
func (q *Query) WithCtx(ctx context.Context) *Query {
	return &Query{db: q.db.WithContext(ctx)}
}

func (q *Query) Model(value interface{}) *Query {
	return &Query{db: q.db.Model(value)}
}

func (q *Query) Where(query interface{}, args ...interface{}) *Query {
	return &Query{db: q.db.Where(query, args...)}
}

func (q *Query) Order(value interface{}) *Query {
	return &Query{db: q.db.Order(value)}
}

func (q *Query) Preload(name string, args ...interface{}) *Query {
	return &Query{db: q.db.Preload(name, args...)}
}

func (q *Query) Limit(n int) *Query {
	return &Query{db: q.db.Limit(n)}
}

func (q *Query) Offset(n int) *Query {
	return &Query{db: q.db.Offset(n)}
}

// First loads the first matching record into dest.
// Returns gorm.ErrRecordNotFound when nothing matches.
func (q *Query) First(dest interface{}) error {
	return q.db.First(dest).Error
}

// Get loads all matching records into dest (a slice pointer).
func (q *Query) Get(dest interface{}) error {
	return q.db.Find(dest).Error
}

// Count writes the number of matching rows into n.
func (q *Query) Count(n *int64) error {
	return q.db.Count(n).Error
}

// Create inserts value.
func (q *Query) Create(value interface{}) error {
	return q.db.Create(value).Error
}

// Save upserts value by primary key.
func (q *Query) Save(value interface{}) error {
	return q.db.Save(value).Error
}

// Updates applies a partial update to the current model scope.
func (q *Query) Updates(values interface{}) error {
	return q.db.Updates(values).Error
}

// Delete removes matching rows of the given model.
func (q *Query) Delete(value interface{}, conds ...interface{}) error {
	return q.db.Delete(value, conds...).Error
}

// GetWithPagination loads one page of results into dest and returns page
// metadata. page and perPage are normalized to sane bounds.
func (q *Query) GetWithPagination(dest interface{}, page, perPage int) (Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 15
	}
	if perPage > 100 {
		perPage = 100
	}

	var total int64
	if err := q.db.Count(&total).Error; err != nil {
		return Pagination{}, err
	}

	offset := (page - 1) * perPage
	if err := q.db.Limit(perPage).Offset(offset).Find(dest).Error; err != nil {
		return Pagination{}, err
	}

	lastPage := int(math.Ceil(float64(total) / float64(perPage)))
	if lastPage < 1 {
		lastPage = 1
	}

	return Pagination{
		Page:     page,
		PerPage:  perPage,
		Total:    total,
		LastPage: lastPage,
	}, nil
}
