package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresCounter stores search counts in a shared Postgres table.
type PostgresCounter struct {
	pool *pgxpool.Pool
}

// NewPostgresCounter applies pending migrations and opens a pool.
func NewPostgresCounter(ctx context.Context, databaseURL string) (*PostgresCounter, error) {
	if err := migrateUp(databaseURL); err != nil {
		return nil, fmt.Errorf("migrating search counts: %w", err)
	}

	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database url: %w", err)
	}
	cfg.MaxConns = 4
	cfg.MinConns = 1
	cfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	return &PostgresCounter{pool: pool}, nil
}

func migrationSource() (source.Driver, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("iofs: %w", err)
	}
	return src, nil
}

func migrateUp(databaseURL string) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("postgres driver: %w", err)
	}

	src, err := migrationSource()
	if err != nil {
		return err
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

const upsertSearchCount = `
INSERT INTO search_counts (term_key, search_term, count, movie_id, title, poster_url)
VALUES ($1, $2, 1, $3, $4, $5)
ON CONFLICT (term_key) DO UPDATE
SET count = search_counts.count + 1, updated_at = now()`

const selectTrending = `
SELECT term_key, search_term, count, movie_id, title, poster_url, created_at, updated_at
FROM search_counts
ORDER BY count DESC, updated_at DESC, term_key
LIMIT $1`

func (p *PostgresCounter) UpdateSearchCount(ctx context.Context, term string, movie Movie) error {
	key := TermKey(term)
	if key == "" {
		return ErrEmptyTerm
	}
	if _, err := p.pool.Exec(ctx, upsertSearchCount, key, term, movie.ID, movie.Title, movie.PosterURL); err != nil {
		return fmt.Errorf("updating search count %q: %w", key, err)
	}
	return nil
}

func (p *PostgresCounter) GetTrending(ctx context.Context, limit int) ([]TrendingEntry, error) {
	if limit <= 0 {
		return []TrendingEntry{}, nil
	}
	rows, err := p.pool.Query(ctx, selectTrending, limit)
	if err != nil {
		return nil, fmt.Errorf("querying trending: %w", err)
	}
	defer rows.Close()

	var records []SearchCount
	for rows.Next() {
		var rec SearchCount
		if err := rows.Scan(&rec.Key, &rec.SearchTerm, &rec.Count, &rec.MovieID,
			&rec.Title, &rec.PosterURL, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning trending row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// already ordered by the query; rankCounts assigns ranks
	return rankCounts(records, limit), nil
}

func (p *PostgresCounter) Close() error {
	p.pool.Close()
	return nil
}
