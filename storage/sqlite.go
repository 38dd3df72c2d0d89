package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"rightscrape/models"
)

// SQLiteStore is the daemon's operational store: extracted listings, their
// galleries, run history, the tracked set, and the media queue.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS listings (
		fingerprint TEXT PRIMARY KEY,
		property_id TEXT,
		url TEXT,
		address TEXT,
		price TEXT,
		property_type TEXT,
		bedrooms INTEGER,
		bathrooms INTEGER,
		agent_name TEXT,
		record JSON,
		first_seen_at DATETIME,
		last_seen_at DATETIME
	);

	CREATE TABLE IF NOT EXISTS listing_images (
		fingerprint TEXT NOT NULL,
		position INTEGER NOT NULL,
		url TEXT,
		url_high_res TEXT,
		room TEXT,
		caption TEXT,
		PRIMARY KEY (fingerprint, position),
		FOREIGN KEY (fingerprint) REFERENCES listings(fingerprint)
	);

	CREATE TABLE IF NOT EXISTS extraction_runs (
		id INTEGER PRIMARY KEY,
		url TEXT,
		property_id TEXT,
		started_at DATETIME,
		finished_at DATETIME,
		status TEXT,
		images_found INTEGER,
		error_message TEXT
	);

	CREATE TABLE IF NOT EXISTS tracked_listings (
		id INTEGER PRIMARY KEY,
		url TEXT UNIQUE NOT NULL,
		fingerprint TEXT,
		added_at DATETIME,
		last_run_at DATETIME,
		active BOOLEAN DEFAULT TRUE
	);

	CREATE TABLE IF NOT EXISTS media_queue (
		id TEXT PRIMARY KEY,
		listing_url TEXT,
		original_url TEXT UNIQUE NOT NULL,
		room TEXT,
		position INTEGER,
		s3_key TEXT,
		content_hash TEXT,
		status TEXT DEFAULT 'pending',
		attempts INTEGER DEFAULT 0,
		created_at DATETIME
	);

	CREATE INDEX IF NOT EXISTS idx_listings_property ON listings(property_id);
	CREATE INDEX IF NOT EXISTS idx_runs_status ON extraction_runs(status, started_at);
	CREATE INDEX IF NOT EXISTS idx_tracked_active ON tracked_listings(active, last_run_at);
	CREATE INDEX IF NOT EXISTS idx_media_pending ON media_queue(status, attempts) WHERE status = 'pending';
	`

	_, err := s.db.Exec(schema)
	return err
}

// UpsertListing stores a record keyed by fingerprint and replaces its
// gallery. The full serialized record rides along for anything the scalar
// columns drop.
func (s *SQLiteStore) UpsertListing(fingerprint string, rec *models.PropertyRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	now := time.Now()
	_, err = s.db.Exec(`
		INSERT INTO listings (fingerprint, property_id, url, address, price, property_type,
			bedrooms, bathrooms, agent_name, record, first_seen_at, last_seen_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(fingerprint) DO UPDATE SET
			property_id = excluded.property_id,
			url = excluded.url,
			address = excluded.address,
			price = excluded.price,
			property_type = excluded.property_type,
			bedrooms = excluded.bedrooms,
			bathrooms = excluded.bathrooms,
			agent_name = excluded.agent_name,
			record = excluded.record,
			last_seen_at = excluded.last_seen_at`,
		fingerprint, rec.PropertyID, rec.URL, rec.Address, rec.Price, rec.PropertyType,
		rec.Bedrooms, rec.Bathrooms, rec.AgentName, string(data), now, now,
	)
	if err != nil {
		return fmt.Errorf("upsert listing: %w", err)
	}

	if _, err := s.db.Exec(`DELETE FROM listing_images WHERE fingerprint = ?`, fingerprint); err != nil {
		return fmt.Errorf("clear images: %w", err)
	}
	for _, img := range rec.Images {
		_, err := s.db.Exec(`
			INSERT INTO listing_images (fingerprint, position, url, url_high_res, room, caption)
			VALUES (?, ?, ?, ?, ?, ?)`,
			fingerprint, img.ID, img.URL, img.URLHighRes, string(img.Room), img.Caption,
		)
		if err != nil {
			return fmt.Errorf("insert image: %w", err)
		}
	}

	return nil
}

// GetListing returns the stored record for a fingerprint, or nil.
func (s *SQLiteStore) GetListing(fingerprint string) (*models.PropertyRecord, error) {
	var data string
	err := s.db.QueryRow(`SELECT record FROM listings WHERE fingerprint = ?`, fingerprint).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var rec models.PropertyRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("unmarshal record: %w", err)
	}
	return &rec, nil
}

// CreateRun inserts an extraction run record and returns its ID.
func (s *SQLiteStore) CreateRun(run *models.ExtractionRun) (int64, error) {
	result, err := s.db.Exec(`
		INSERT INTO extraction_runs (url, property_id, started_at, status, images_found, error_message)
		VALUES (?, ?, ?, ?, ?, ?)`,
		run.URL, run.PropertyID, run.StartedAt, string(run.Status), run.ImagesFound, run.ErrorMessage,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (s *SQLiteStore) UpdateRun(run *models.ExtractionRun) error {
	_, err := s.db.Exec(`
		UPDATE extraction_runs
		SET property_id = ?, finished_at = ?, status = ?, images_found = ?, error_message = ?
		WHERE id = ?`,
		run.PropertyID, run.FinishedAt, string(run.Status), run.ImagesFound, run.ErrorMessage, run.ID,
	)
	return err
}

// Track adds a listing URL to the daemon's re-extraction set; already
// tracked URLs are reactivated.
func (s *SQLiteStore) Track(url string) error {
	_, err := s.db.Exec(`
		INSERT INTO tracked_listings (url, added_at, active) VALUES (?, ?, TRUE)
		ON CONFLICT(url) DO UPDATE SET active = TRUE`,
		url, time.Now(),
	)
	return err
}

func (s *SQLiteStore) GetTracked() ([]models.TrackedListing, error) {
	rows, err := s.db.Query(`
		SELECT id, url, COALESCE(fingerprint, ''), added_at, last_run_at, active
		FROM tracked_listings WHERE active = TRUE ORDER BY added_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tracked []models.TrackedListing
	for rows.Next() {
		var t models.TrackedListing
		if err := rows.Scan(&t.ID, &t.URL, &t.Fingerprint, &t.AddedAt, &t.LastRunAt, &t.Active); err != nil {
			return nil, err
		}
		tracked = append(tracked, t)
	}
	return tracked, rows.Err()
}

// TouchTracked records a completed run against a tracked listing.
func (s *SQLiteStore) TouchTracked(id int64, fingerprint string, at time.Time) error {
	_, err := s.db.Exec(`
		UPDATE tracked_listings SET fingerprint = ?, last_run_at = ? WHERE id = ?`,
		fingerprint, at, id,
	)
	return err
}

// EnqueueMedia queues a high-res image for download/upload. Dedupes on the
// original URL so re-extraction doesn't re-download a stable gallery.
func (s *SQLiteStore) EnqueueMedia(item *models.MediaItem) error {
	_, err := s.db.Exec(`
		INSERT INTO media_queue (id, listing_url, original_url, room, position, status, attempts, created_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, ?)
		ON CONFLICT(original_url) DO NOTHING`,
		item.ID, item.ListingURL, item.OriginalURL, string(item.Room), item.Position, models.MediaStatusPending, time.Now(),
	)
	return err
}

func (s *SQLiteStore) GetPendingMedia(limit int) ([]models.MediaItem, error) {
	rows, err := s.db.Query(`
		SELECT id, listing_url, original_url, room, position, s3_key, COALESCE(content_hash, ''), status, attempts, created_at
		FROM media_queue
		WHERE status = ? AND attempts < 3
		ORDER BY created_at
		LIMIT ?`, models.MediaStatusPending, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.MediaItem
	for rows.Next() {
		var m models.MediaItem
		var room string
		if err := rows.Scan(&m.ID, &m.ListingURL, &m.OriginalURL, &room, &m.Position,
			&m.S3Key, &m.ContentHash, &m.Status, &m.Attempts, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Room = models.ParseRoomType(room)
		items = append(items, m)
	}
	return items, rows.Err()
}

func (s *SQLiteStore) MarkMediaUploaded(id, s3Key, contentHash string) error {
	_, err := s.db.Exec(`
		UPDATE media_queue SET status = ?, s3_key = ?, content_hash = ? WHERE id = ?`,
		models.MediaStatusUploaded, s3Key, contentHash, id,
	)
	return err
}

func (s *SQLiteStore) MarkMediaFailed(id string, attempts int) error {
	status := models.MediaStatusPending
	if attempts >= 3 {
		status = models.MediaStatusFailed
	}
	_, err := s.db.Exec(`
		UPDATE media_queue SET status = ?, attempts = ? WHERE id = ?`,
		status, attempts, id,
	)
	return err
}
