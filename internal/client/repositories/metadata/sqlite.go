package metadata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/giftswap/internal/dbx"
)

// SQLiteRepository implements Repository over the metadata table.
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a repository bound to db (either *sql.DB or *sql.Tx).
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata[%s]: %w", key, err)
	}
	return value, nil
}

// Set upserts the row for key.
func (r *SQLiteRepository) Set(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set metadata[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM metadata WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete metadata[%s]: %w", key, err)
	}
	return nil
}

// Update runs the read-modify-write inside a transaction when the repository
// is bound to a *sql.DB. When already bound to a transaction it reuses it.
func (r *SQLiteRepository) Update(ctx context.Context, key string, fn func(old []byte) ([]byte, error)) error {
	db, ok := r.db.(*sql.DB)
	if !ok {
		return update(ctx, r, key, fn)
	}
	return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return update(ctx, NewSQLiteRepository(tx), key, fn)
	})
}

func update(ctx context.Context, r *SQLiteRepository, key string, fn func(old []byte) ([]byte, error)) error {
	old, err := r.Get(ctx, key)
	if err != nil {
		return err
	}
	value, err := fn(old)
	if err != nil {
		return err
	}
	return r.Set(ctx, key, value)
}
