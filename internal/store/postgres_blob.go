package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresBlob stores a single named value in the blobs table and updates it
// under a row lock.
type PostgresBlob struct {
	pool *pgxpool.Pool
	name string
}

// NewPostgresBlob creates a blob stored under name.
func NewPostgresBlob(pool *pgxpool.Pool, name string) *PostgresBlob {
	return &PostgresBlob{pool: pool, name: name}
}

func (b *PostgresBlob) Load(ctx context.Context) ([]byte, error) {
	var value string

	err := b.pool.QueryRow(ctx, `SELECT value FROM blobs WHERE name = $1`, b.name).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, unavailable("store.PostgresBlob.Load", err)
	}

	if value == "" {
		return nil, nil
	}

	return []byte(value), nil
}

func (b *PostgresBlob) Update(ctx context.Context, fn func(current []byte) ([]byte, error)) error {
	var fnErr error

	err := pgx.BeginFunc(ctx, b.pool, func(tx pgx.Tx) error {
		// Make sure a row exists so that FOR UPDATE has something to lock.
		_, err := tx.Exec(ctx, `INSERT INTO blobs (name, value) VALUES ($1, '') ON CONFLICT (name) DO NOTHING`, b.name)
		if err != nil {
			return err
		}

		var value string
		if err = tx.QueryRow(ctx, `SELECT value FROM blobs WHERE name = $1 FOR UPDATE`, b.name).Scan(&value); err != nil {
			return err
		}

		var current []byte
		if value != "" {
			current = []byte(value)
		}

		next, err := fn(current)
		if err != nil {
			fnErr = err

			return err
		}

		_, err = tx.Exec(ctx, `UPDATE blobs SET value = $2, updated_at = now() WHERE name = $1`, b.name, string(next))

		return err
	})
	if err != nil {
		if fnErr != nil {
			return fnErr
		}

		return unavailable("store.PostgresBlob.Update", err)
	}

	return nil
}
