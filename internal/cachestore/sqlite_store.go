package cachestore

import (
	"fmt"
	"time"

	"crawshaw.io/sqlite"
)

// SQLiteCallCache is a CallCache backed by a single SQLite database file,
// loaded at process start and written through on every put.
type SQLiteCallCache struct {
	conn   *sqlite.Conn
	dbPath string
}

// NewSQLiteCallCache creates a new SQLiteCallCache instance.
func NewSQLiteCallCache() *SQLiteCallCache {
	return &SQLiteCallCache{}
}

// Initialize opens the database at dbPath, creating it and the cache table
// if needed.
func (s *SQLiteCallCache) Initialize(dbPath string) error {
	s.dbPath = dbPath

	conn, err := sqlite.OpenConn(dbPath, sqlite.SQLITE_OPEN_CREATE|sqlite.SQLITE_OPEN_READWRITE)
	if err != nil {
		return fmt.Errorf("failed to open SQLite database: %w", err)
	}
	s.conn = conn

	if err := s.createTable(); err != nil {
		s.conn.Close()
		return fmt.Errorf("failed to create table: %w", err)
	}

	return nil
}

// createTable creates the call_cache table if it doesn't exist.
func (s *SQLiteCallCache) createTable() error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS call_cache (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);`

	stmt, err := s.conn.Prepare(createTableSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare create table statement: %w", err)
	}
	defer stmt.Reset()

	_, err = stmt.Step()
	if err != nil {
		return fmt.Errorf("failed to execute create table statement: %w", err)
	}

	return nil
}

// Close closes the cache and releases any resources.
func (s *SQLiteCallCache) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// Get returns the cached value for key, and whether it exists.
func (s *SQLiteCallCache) Get(key string) (string, bool, error) {
	selectSQL := `SELECT value FROM call_cache WHERE key = ?;`

	stmt, err := s.conn.Prepare(selectSQL)
	if err != nil {
		return "", false, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Reset()

	stmt.BindText(1, key)

	hasRow, err := stmt.Step()
	if err != nil {
		return "", false, fmt.Errorf("failed to execute select statement: %w", err)
	}
	if !hasRow {
		return "", false, nil
	}

	return stmt.ColumnText(0), true, nil
}

// Put stores the value for key, replacing any previous entry. The row is
// written in one statement so a reader can never observe a partial entry.
func (s *SQLiteCallCache) Put(key string, value string) error {
	insertSQL := `
	INSERT OR REPLACE INTO call_cache (key, value, created_at)
	VALUES (?, ?, ?);`

	stmt, err := s.conn.Prepare(insertSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Reset()

	// Bind parameters - indices in sqlite are 1-based
	stmt.BindText(1, key)
	stmt.BindText(2, value)
	stmt.BindInt64(3, time.Now().Unix())

	_, err = stmt.Step()
	if err != nil {
		return fmt.Errorf("failed to insert cache entry: %w", err)
	}

	return nil
}

// Contains reports whether key has an entry.
func (s *SQLiteCallCache) Contains(key string) (bool, error) {
	_, ok, err := s.Get(key)
	return ok, err
}
