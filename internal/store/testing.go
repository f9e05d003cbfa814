package store

import (
	"database/sql"
	"fmt"
)

// OpenInMemory opens a migrated, empty in-memory database.
// Intended for tests in this and dependent packages.
func OpenInMemory() (*DB, error) {
	sqlDB, err := sql.Open("sqlite", dsn(":memory:"))
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}
	// Every pooled connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	return initialize(sqlDB)
}
