// Package migrations contains all database migration files.
// Each migration file uses init() to call migration.Register().
// This package is imported by cmd/server/main.go so all migrations are
// registered before any command runs.
package migrations
