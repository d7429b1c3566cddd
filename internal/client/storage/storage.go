// Package storage opens the local key/value storage that backs the list
// history.
//
// The default driver is SQLite (pure-Go modernc.org/sqlite) with the schema
// applied by embedded goose migrations; BadgerDB is available as an
// alternative embedded store.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	"github.com/dmitrijs2005/giftswap/internal/client/migrations"
	"github.com/dmitrijs2005/giftswap/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/giftswap/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// Supported drivers.
const (
	DriverSQLite = "sqlite"
	DriverBadger = "badger"
)

// Options selects and configures the storage backend.
type Options struct {
	Driver string
	// Path is the SQLite database file or the BadgerDB directory.
	Path   string
	Logger *slog.Logger
}

// RunMigrations applies the embedded goose migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens the SQLite database at dsn and migrates it.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", dsn, err)
	}
	// One writer at a time; SQLite would serialize them anyway and this
	// avoids "database is locked" between the history transactions.
	db.SetMaxOpenConns(1)
	return db, nil
}

// Open returns the key/value repository for opts together with the closer
// that releases it.
func Open(ctx context.Context, opts Options) (metadata.Repository, io.Closer, error) {
	switch opts.Driver {
	case DriverSQLite, "":
		if _, err := filex.EnsureParentDir(opts.Path); err != nil {
			return nil, nil, err
		}
		db, err := InitDatabase(ctx, opts.Path)
		if err != nil {
			return nil, nil, err
		}
		return metadata.NewSQLiteRepository(db), db, nil

	case DriverBadger:
		repo, err := metadata.OpenBadger(metadata.BadgerConfig{
			Path:       opts.Path,
			SyncWrites: true,
			Logger:     opts.Logger,
		})
		if err != nil {
			return nil, nil, err
		}
		return repo, repo, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}
