// Package repository implements the PostgreSQL-backed storage for
// users, clients, tasks, meetings, diagnostics and timeline events.
package repository

import (
	"context"
	"fmt"

	// Register the pgx driver for use with database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"database/sql"
)

// Storage encapsulates the database connection and implements the
// repository interfaces consumed by the services.
type Storage struct {
	DB *sql.DB
}

// New opens a connection to PostgreSQL and verifies it with a ping.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady verifies the schema was migrated.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'meetings'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table meetings missing or query error: %w", err)
	}
	return nil
}
