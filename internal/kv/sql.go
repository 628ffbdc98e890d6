package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/inovacc/journal/internal/encoding"
	_ "github.com/lib/pq"  // PostgreSQL driver
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

type dialect struct {
	driver string
	schema string
	get    string
	// seed, when set, inserts an empty row so lock has something to hold
	// for a key that was never written
	seed   string
	lock   string
	upsert string
}

var (
	sqliteDialect = dialect{
		driver: "sqlite",
		schema: `CREATE TABLE IF NOT EXISTS kv (
			key        TEXT PRIMARY KEY,
			value      BLOB NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		get: `SELECT value FROM kv WHERE key = ?`,
		// a single connection already serialises writers
		lock: `SELECT value FROM kv WHERE key = ?`,
		upsert: `INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
	}

	postgresDialect = dialect{
		driver: "postgres",
		schema: `CREATE TABLE IF NOT EXISTS kv (
			key        TEXT PRIMARY KEY,
			value      BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		get:  `SELECT value FROM kv WHERE key = $1`,
		seed: `INSERT INTO kv (key, value, updated_at) VALUES ($1, '', $2)
			ON CONFLICT (key) DO NOTHING`,
		lock: `SELECT value FROM kv WHERE key = $1 FOR UPDATE`,
		upsert: `INSERT INTO kv (key, value, updated_at) VALUES ($1, $2, $3)
			ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
	}
)

// SQL stores values in a single kv table of a SQL database.
type SQL struct {
	db      *sql.DB
	dialect dialect
}

// NewSQLite opens (or creates) a SQLite database file at path.
func NewSQLite(ctx context.Context, path string) (*SQL, error) {
	if path == "" {
		return nil, errors.New("sqlite: path is required")
	}

	if err := encoding.EnsureParentDir(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite doesn't handle multiple writers well
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	return newSQL(ctx, db, sqliteDialect)
}

// NewPostgres connects to PostgreSQL using dsn.
func NewPostgres(ctx context.Context, dsn string) (*SQL, error) {
	if dsn == "" {
		return nil, errors.New("postgres: dsn is required")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	return newSQL(ctx, db, postgresDialect)
}

func newSQL(ctx context.Context, db *sql.DB, d dialect) (*SQL, error) {
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to %s: %w", d.driver, err)
	}

	if _, err := db.ExecContext(ctx, d.schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating kv table: %w", err)
	}

	return &SQL{db: db, dialect: d}, nil
}

func (s *SQL) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQL) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte

	err := s.db.QueryRowContext(ctx, s.dialect.get, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", key, err)
	}

	return value, nil
}

func (s *SQL) Update(ctx context.Context, key string, fn UpdateFunc) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() { _ = tx.Rollback() }()

	if s.dialect.seed != "" {
		if _, err := tx.ExecContext(ctx, s.dialect.seed, key, time.Now().UTC()); err != nil {
			return fmt.Errorf("seeding %q: %w", key, err)
		}
	}

	var old []byte

	err = tx.QueryRowContext(ctx, s.dialect.lock, key).Scan(&old)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("reading %q: %w", key, err)
	}

	// a freshly seeded row reads back empty
	if len(old) == 0 {
		old = nil
	}

	next, err := fn(old)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, s.dialect.upsert, key, next, time.Now().UTC()); err != nil {
		return fmt.Errorf("writing %q: %w", key, err)
	}

	return tx.Commit()
}

func (s *SQL) Close() error {
	return s.db.Close()
}
