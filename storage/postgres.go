package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rightscrape/models"
)

// PostgresStore mirrors extracted listings into a shared Postgres database
// for downstream consumers. Optional; the daemon runs sqlite-only when no
// DATABASE_URL is configured.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) Pool() *pgxpool.Pool {
	return s.pool
}

// UpsertListing writes the listing row and replaces its gallery in one
// transaction.
func (s *PostgresStore) UpsertListing(ctx context.Context, fingerprint string, rec *models.PropertyRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now()
	_, err = tx.Exec(ctx, `
		INSERT INTO listings (
			fingerprint, property_id, url, address, price, property_type,
			bedrooms, bathrooms, agent_name, record, first_seen_at, last_seen_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (fingerprint) DO UPDATE SET
			property_id = EXCLUDED.property_id,
			url = EXCLUDED.url,
			address = COALESCE(NULLIF(EXCLUDED.address, ''), listings.address),
			price = COALESCE(NULLIF(EXCLUDED.price, ''), listings.price),
			property_type = COALESCE(NULLIF(EXCLUDED.property_type, ''), listings.property_type),
			bedrooms = COALESCE(EXCLUDED.bedrooms, listings.bedrooms),
			bathrooms = COALESCE(EXCLUDED.bathrooms, listings.bathrooms),
			agent_name = COALESCE(NULLIF(EXCLUDED.agent_name, ''), listings.agent_name),
			record = EXCLUDED.record,
			last_seen_at = NOW()`,
		fingerprint, rec.PropertyID, rec.URL, rec.Address, rec.Price, rec.PropertyType,
		rec.Bedrooms, rec.Bathrooms, rec.AgentName, data, now, now,
	)
	if err != nil {
		return fmt.Errorf("upsert listing: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM listing_images WHERE fingerprint = $1`, fingerprint); err != nil {
		return fmt.Errorf("clear images: %w", err)
	}

	for _, img := range rec.Images {
		_, err := tx.Exec(ctx, `
			INSERT INTO listing_images (fingerprint, position, url, url_high_res, room, caption)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			fingerprint, img.ID, img.URL, img.URLHighRes, string(img.Room), img.Caption,
		)
		if err != nil {
			return fmt.Errorf("insert image: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// GetListing returns the mirrored record for a fingerprint, or nil.
func (s *PostgresStore) GetListing(ctx context.Context, fingerprint string) (*models.PropertyRecord, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT record FROM listings WHERE fingerprint = $1`, fingerprint,
	).Scan(&data)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var rec models.PropertyRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal record: %w", err)
	}
	return &rec, nil
}

// CreateRun mirrors an extraction run for cross-host reporting.
func (s *PostgresStore) CreateRun(ctx context.Context, run *models.ExtractionRun) error {
	return s.pool.QueryRow(ctx, `
		INSERT INTO extraction_runs (url, property_id, started_at, finished_at, status, images_found, error_message)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		run.URL, run.PropertyID, run.StartedAt, run.FinishedAt, string(run.Status),
		run.ImagesFound, run.ErrorMessage,
	).Scan(&run.ID)
}
