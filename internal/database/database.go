package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Service wraps the sqlite handle behind a small interface so tests can
// point it at a temp file.
type Service interface {
	DB() *sql.DB
	Health(ctx context.Context) error
	Close() error
}

type service struct {
	db *sql.DB
}

// New opens (or creates) the sqlite database at path.
func New(path string) (Service, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	// sqlite is single-writer; more connections just contend.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	log.Printf("Opened database: %s", path)
	return &service{db: db}, nil
}

func (s *service) DB() *sql.DB {
	return s.db
}

func (s *service) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.db.PingContext(ctx)
}

func (s *service) Close() error {
	return s.db.Close()
}
