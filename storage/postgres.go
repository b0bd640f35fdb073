package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"library-scraper/config"
	"library-scraper/models"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresStore persists scraped books. It is optional: the CSV file is the
// primary output and the store only mirrors it for later querying.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(cfg config.Config) (*PostgresStore, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
		cfg.DBSSLMode,
	)

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}

	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	store := &PostgresStore{db: db}
	schemaCtx, schemaCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer schemaCancel()
	if err := store.ensureSchema(schemaCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// SaveBook upserts one record as it comes off the stream. Books are keyed
// by copy_id; a run over the same catalog refreshes rows in place.
func (s *PostgresStore) SaveBook(ctx context.Context, rec models.Record) error {
	if rec["copy_id"] == "" {
		return nil
	}
	newRelease, _ := strconv.ParseBool(rec["new_release"])

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO books (title, district, author, copy_id, publication_year,
			publisher, call_number, edition, new_release)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (copy_id) DO UPDATE
		SET
			title = EXCLUDED.title,
			district = EXCLUDED.district,
			author = EXCLUDED.author,
			publication_year = EXCLUDED.publication_year,
			publisher = EXCLUDED.publisher,
			call_number = EXCLUDED.call_number,
			edition = EXCLUDED.edition,
			new_release = EXCLUDED.new_release,
			updated_at = NOW()`,
		rec["title"],
		rec["district"],
		rec["author"],
		rec["copy_id"],
		rec["publication_year"],
		rec["publisher"],
		rec["call_number"],
		rec["edition"],
		newRelease,
	)
	if err != nil {
		return fmt.Errorf("insert book %q: %w", rec["title"], err)
	}
	return nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS books (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			district TEXT NOT NULL DEFAULT '',
			author TEXT NOT NULL DEFAULT '',
			copy_id TEXT NOT NULL UNIQUE,
			publication_year TEXT NOT NULL DEFAULT '',
			publisher TEXT NOT NULL DEFAULT '',
			call_number TEXT NOT NULL DEFAULT '',
			edition TEXT NOT NULL DEFAULT '',
			new_release BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_books_district ON books(district);
	`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
