package models

import "time"

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// ExtractionRun records one extraction pass over a listing page.
type ExtractionRun struct {
	ID          int64      `json:"id" db:"id"`
	URL         string     `json:"url" db:"url"`
	PropertyID  string     `json:"property_id" db:"property_id"`
	StartedAt   time.Time  `json:"started_at" db:"started_at"`
	FinishedAt  *time.Time `json:"finished_at" db:"finished_at"`
	Status      RunStatus  `json:"status" db:"status"`
	ImagesFound int        `json:"images_found" db:"images_found"`
	ErrorMessage string    `json:"error_message" db:"error_message"`
}

// TrackedListing is a listing URL the daemon re-extracts on a schedule.
type TrackedListing struct {
	ID          int64      `json:"id" db:"id"`
	URL         string     `json:"url" db:"url"`
	Fingerprint string     `json:"fingerprint" db:"fingerprint"`
	AddedAt     time.Time  `json:"added_at" db:"added_at"`
	LastRunAt   *time.Time `json:"last_run_at" db:"last_run_at"`
	Active      bool       `json:"active" db:"active"`
}

// Media queue status values.
const (
	MediaStatusPending  = "pending"
	MediaStatusUploaded = "uploaded"
	MediaStatusFailed   = "failed"
)

// MediaItem is a queued high-res image download/upload job.
type MediaItem struct {
	ID          string    `json:"id" db:"id"` // uuid
	ListingURL  string    `json:"listing_url" db:"listing_url"`
	OriginalURL string    `json:"original_url" db:"original_url"`
	Room        RoomType  `json:"room" db:"room"`
	Position    int       `json:"position" db:"position"`
	S3Key       *string   `json:"s3_key" db:"s3_key"`
	ContentHash string    `json:"content_hash" db:"content_hash"`
	Status      string    `json:"status" db:"status"`
	Attempts    int       `json:"attempts" db:"attempts"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
