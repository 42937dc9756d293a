package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
)

// Database holds the testimonials SQL connection pool.
type Database struct {
	*sql.DB
}

// New opens, configures and verifies a MariaDB connection pool.
// The pool is closed again when the initial ping fails.
func New(cfg MariaDbConfig) (*Database, error) {
	db, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open mariadb: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		if cErr := db.Close(); cErr != nil {
			return nil, cErr
		}
		return nil, fmt.Errorf("ping mariadb: %w", err)
	}
	return &Database{db}, nil
}
