package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/shortlinks/internal/shortener"
)

// PostgresStore is a PostgreSQL implementation of shortener.LinkStore.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed link store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (p *PostgresStore) Put(ctx context.Context, link shortener.Link) error {
	query := `
		INSERT INTO links (code, url)
		VALUES ($1, $2)
		ON CONFLICT (code) DO UPDATE SET url = EXCLUDED.url
	`

	if _, err := p.pool.Exec(ctx, query, string(link.Code), link.URL); err != nil {
		return unavailable("store.PostgresStore.Put", err)
	}

	return nil
}

func (p *PostgresStore) Get(ctx context.Context, code shortener.Code) (string, error) {
	query := `SELECT url FROM links WHERE code = $1`

	var url string

	err := p.pool.QueryRow(ctx, query, string(code)).Scan(&url)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", shortener.ErrNotFound
		}

		return "", unavailable("store.PostgresStore.Get", err)
	}

	return url, nil
}

func (p *PostgresStore) Exists(ctx context.Context, code shortener.Code) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM links WHERE code = $1)`

	var exists bool
	if err := p.pool.QueryRow(ctx, query, string(code)).Scan(&exists); err != nil {
		return false, unavailable("store.PostgresStore.Exists", err)
	}

	return exists, nil
}

func (p *PostgresStore) Delete(ctx context.Context, code shortener.Code) error {
	if _, err := p.pool.Exec(ctx, `DELETE FROM links WHERE code = $1`, string(code)); err != nil {
		return unavailable("store.PostgresStore.Delete", err)
	}

	return nil
}

func (p *PostgresStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := p.pool.QueryRow(ctx, `SELECT count(*) FROM links`).Scan(&n); err != nil {
		return 0, unavailable("store.PostgresStore.Count", err)
	}

	return n, nil
}

// Compile-time check.
var _ shortener.LinkStore = (*PostgresStore)(nil)
