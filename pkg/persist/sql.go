package persist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"
)

// SQLDialect represents the SQL dialect for query generation.
type SQLDialect int

const (
	// DialectSQLite uses SQLite syntax (? placeholders).
	DialectSQLite SQLDialect = iota
	// DialectPostgreSQL uses PostgreSQL syntax ($1, $2 placeholders).
	DialectPostgreSQL
)

// SQLStore is a SQL-backed snapshot store. Migrate creates its table for
// either dialect.
type SQLStore struct {
	db        *sql.DB
	tableName string
	dialect   SQLDialect
	ownsDB    bool
	closed    atomic.Bool
}

// SQLStoreOption configures SQLStore.
type SQLStoreOption func(*SQLStore)

// WithSQLTableName sets the table name. Default: "groupkit_snapshots".
func WithSQLTableName(name string) SQLStoreOption {
	return func(s *SQLStore) {
		s.tableName = name
	}
}

// WithSQLDialect sets the SQL dialect. Default: DialectSQLite.
func WithSQLDialect(dialect SQLDialect) SQLStoreOption {
	return func(s *SQLStore) {
		s.dialect = dialect
	}
}

// WithOwnedDB makes Close also close the database.
func WithOwnedDB() SQLStoreOption {
	return func(s *SQLStore) {
		s.ownsDB = true
	}
}

// NewSQLStore creates a store over db.
func NewSQLStore(db *sql.DB, opts ...SQLStoreOption) *SQLStore {
	s := &SQLStore{
		db:        db,
		tableName: "groupkit_snapshots",
		dialect:   DialectSQLite,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// placeholder returns the placeholder syntax for the dialect.
func (s *SQLStore) placeholder(n int) string {
	if s.dialect == DialectPostgreSQL {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// Save upserts data under key.
func (s *SQLStore) Save(ctx context.Context, key string, data []byte) error {
	if s.closed.Load() {
		return ErrStoreClosed
	}

	var query string
	switch s.dialect {
	case DialectPostgreSQL:
		query = fmt.Sprintf(`
			INSERT INTO %s (name, data, updated_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (name) DO UPDATE SET
				data = EXCLUDED.data,
				updated_at = NOW()
		`, s.tableName)
	default:
		query = fmt.Sprintf(`
			INSERT OR REPLACE INTO %s (name, data, updated_at)
			VALUES (?, ?, datetime('now'))
		`, s.tableName)
	}

	_, err := s.db.ExecContext(ctx, query, key, data)
	return storeError("save", err)
}

// Load retrieves the data stored under key.
func (s *SQLStore) Load(ctx context.Context, key string) ([]byte, error) {
	if s.closed.Load() {
		return nil, ErrStoreClosed
	}

	query := fmt.Sprintf(`SELECT data FROM %s WHERE name = %s`, s.tableName, s.placeholder(1))

	var data []byte
	err := s.db.QueryRowContext(ctx, query, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError("load", err)
	}
	return data, nil
}

// Delete removes key.
func (s *SQLStore) Delete(ctx context.Context, key string) error {
	if s.closed.Load() {
		return ErrStoreClosed
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE name = %s`, s.tableName, s.placeholder(1))
	_, err := s.db.ExecContext(ctx, query, key)
	return storeError("delete", err)
}

// Close shuts down the store. The database is closed only when the store owns it.
func (s *SQLStore) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	if s.ownsDB {
		return s.db.Close()
	}
	return nil
}
