// Package orm is a thin fluent wrapper over the shared gorm.DB handle.
// Repositories use it instead of touching gorm directly, which keeps the
// call sites uniform and makes the transaction boundary explicit.
package orm

import (
	"gorm.io/gorm"

	"github.com/bloomcart/bloomcart/pkg/database"
)

type Query struct {
	db *gorm.DB
}

// DB returns a query bound to the shared connection.
func DB() *Query {
	return &Query{db: database.DB}
}

// With wraps an existing gorm handle, typically a transaction.
func With(db *gorm.DB) *Query {
	return &Query{db: db}
}

func (q *Query) Model(v interface{}) *Query {
	return &Query{db: q.db.Model(v)}
}

func (q *Query) Where(query string, args ...interface{}) *Query {
	return &Query{db: q.db.Where(query, args...)}
}

func (q *Query) Order(value string) *Query {
	return &Query{db: q.db.Order(value)}
}

func (q *Query) Preload(association string, args ...interface{}) *Query {
	return &Query{db: q.db.Preload(association, args...)}
}

// Get runs the query and loads all matching rows into dest.
func (q *Query) Get(dest interface{}) error {
	return q.db.Find(dest).Error
}

// First loads the first matching row. Returns gorm.ErrRecordNotFound
// when nothing matches.
func (q *Query) First(dest interface{}) error {
	return q.db.First(dest).Error
}

// Count stores the number of matching rows in n.
func (q *Query) Count(n *int64) error {
	return q.db.Count(n).Error
}

// Create inserts value as a new row (plus any associations).
func (q *Query) Create(value interface{}) error {
	return q.db.Create(value).Error
}

// Save persists all fields of value, inserting when the key is zero.
func (q *Query) Save(value interface{}) error {
	return q.db.Save(value).Error
}

// Updates applies a partial update from a map or struct.
func (q *Query) Updates(values interface{}) error {
	return q.db.Updates(values).Error
}

// Delete removes matching rows and reports how many were affected.
func (q *Query) Delete(value interface{}) (int64, error) {
	res := q.db.Delete(value)
	return res.RowsAffected, res.Error
}

// Transaction runs fn inside a database transaction. The transaction is
// committed only when fn returns nil; any error rolls everything back.
func Transaction(fn func(tx *Query) error) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		return fn(&Query{db: tx})
	})
}
