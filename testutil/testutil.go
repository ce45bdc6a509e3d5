// Package testutil holds helpers shared by package tests.
package testutil

import (
	"testing"

	"github.com/Aidin1998/calendars/internal/config"
	"github.com/Aidin1998/calendars/internal/database"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewSQLiteDB opens a private in-memory SQLite database that lives until the
// test ends. The pool is pinned to one connection so every statement sees the
// same memory database.
func NewSQLiteDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(config.DatabaseConfig{
		Driver:       "sqlite",
		DSN:          "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}
