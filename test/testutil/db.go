package testutil

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-sql-driver/mysql"
)

type TestDB struct {
	DB      *sql.DB
	Cleanup func() error
}

// SetupTestDB creates a uniquely named database on the server of
// TEST_DB_DSN, so every test migrates and seeds its own schema.
func SetupTestDB() (*TestDB, error) {
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		return nil, errors.New("TEST_DB_DSN env-var not set")
	}

	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse DSN %q: %w", dsn, err)
	}
	dbName := fmt.Sprintf("%s_%d", cfg.DBName, time.Now().UnixNano())

	cfg.DBName = ""
	rootDB, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("open root DB: %w", err)
	}
	if _, err := rootDB.Exec("CREATE DATABASE " + dbName); err != nil {
		_ = rootDB.Close()
		return nil, fmt.Errorf("create database %q: %w", dbName, err)
	}

	dropAll := func() error {
		_, dropErr := rootDB.Exec("DROP DATABASE " + dbName)
		return errors.Join(dropErr, rootDB.Close())
	}

	cfg.DBName = dbName
	cfg.MultiStatements = true
	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, errors.Join(fmt.Errorf("open test DB %q: %w", dbName, err), dropAll())
	}

	cleanup := func() error {
		return errors.Join(db.Close(), dropAll())
	}
	return &TestDB{DB: db, Cleanup: cleanup}, nil
}
