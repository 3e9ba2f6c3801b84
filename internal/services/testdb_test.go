package services

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// openTestDB opens a fresh in-memory SQLite database. The named shared-cache
// DSN keeps every pooled connection on the same database, which transactions
// need; a plain ":memory:" DSN gives each connection its own empty schema.
func openTestDB() (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
}
