// Package store implements the repository (C6): a transactional DAO over
// a SQLite-backed relational store of days, time records, and the
// project taxonomy.
//
// Connection setup (WAL journal mode, foreign keys on, a bounded pool)
// and the WithTransaction helper follow the teacher's
// internal/database/sqlite.SQLiteDB shape; the schema itself is new,
// embedded from schema.sql per spec.md §6 instead of the teacher's
// session/work-block tables.
package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/chronotrace/timemaster/internal/logging"
	"github.com/chronotrace/timemaster/internal/xerrors"
)

//go:embed schema.sql
var schemaFS embed.FS

// DB wraps the SQLite connection the whole pipeline shares.
type DB struct {
	conn *sql.DB
	path string
	log  zerolog.Logger
}

// Config controls connection pooling; defaults mirror the teacher's
// DefaultConnectionConfig, scaled down for a single-process CLI tool
// rather than a concurrent daemon.
type Config struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultConfig returns sensible defaults for path.
func DefaultConfig(path string) Config {
	return Config{
		Path:            path,
		MaxOpenConns:    4,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Hour,
	}
}

// Open connects to the SQLite database at cfg.Path, creating its parent
// directory and applying schema.sql if needed.
func Open(cfg Config) (*DB, error) {
	const op = "store.Open"
	log := logging.New("store", "info")

	if cfg.Path == "" {
		return nil, xerrors.New(xerrors.KindConfig, op, "database path must not be empty")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, xerrors.Wrap(xerrors.KindIO, op, "create database directory", err)
	}

	dsn := cfg.Path +
		"?_foreign_keys=on" +
		"&_journal_mode=WAL" +
		"&_synchronous=NORMAL" +
		"&_timeout=5000"

	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.KindDatabase, op, "open sqlite3 connection", err)
	}
	conn.SetMaxOpenConns(cfg.MaxOpenConns)
	conn.SetMaxIdleConns(cfg.MaxIdleConns)
	conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	db := &DB{conn: conn, path: cfg.Path, log: log}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	log.Info().Str("path", cfg.Path).Msg("opened store")
	return db, nil
}

func (db *DB) migrate() error {
	const op = "store.Open"
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.conn.PingContext(ctx); err != nil {
		return xerrors.Wrap(xerrors.KindDatabase, op, "ping database", err)
	}

	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return xerrors.Wrap(xerrors.KindDatabase, op, "read embedded schema", err)
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return xerrors.Wrap(xerrors.KindDatabase, op, "begin schema transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, string(schemaSQL)); err != nil {
		return xerrors.Wrap(xerrors.KindDatabase, op, "apply schema", err)
	}
	if err := tx.Commit(); err != nil {
		return xerrors.Wrap(xerrors.KindDatabase, op, "commit schema transaction", err)
	}
	return nil
}

// IsOpen reports whether the underlying connection is usable.
func (db *DB) IsOpen() bool {
	return db.conn != nil && db.conn.PingContext(context.Background()) == nil
}

// WithTransaction runs fn inside a BEGIN/COMMIT block, rolling back on
// any error fn returns.
func (db *DB) WithTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	const op = "store.WithTransaction"
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return xerrors.Wrap(xerrors.KindDatabase, op, "begin transaction", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return xerrors.Wrap(xerrors.KindDatabase, op, "commit transaction", err)
	}
	return nil
}

// Conn exposes the raw *sql.DB for read-only query helpers that don't
// need an explicit transaction.
func (db *DB) Conn() *sql.DB { return db.conn }

// Close closes the underlying connection.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	if err := db.conn.Close(); err != nil {
		return fmt.Errorf("store: close: %w", err)
	}
	db.conn = nil
	return nil
}
