package services

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"rightscrape/identity"
	"rightscrape/models"
	"rightscrape/storage"
)

// ListingService persists extraction results and fans the gallery out to
// the media queue.
type ListingService struct {
	store *storage.SQLiteStore
	pg    *storage.PostgresStore // optional mirror
}

func NewListingService(store *storage.SQLiteStore, pg *storage.PostgresStore) *ListingService {
	return &ListingService{store: store, pg: pg}
}

// ProcessResult contains the outcome of persisting one listing.
type ProcessResult struct {
	Fingerprint string
	MediaQueued int
}

// Process stores a record under its identity fingerprint and queues every
// high-res image (and floorplan) for the media worker. Idempotent: a stable
// gallery queues nothing new on re-extraction.
func (s *ListingService) Process(ctx context.Context, rec *models.PropertyRecord) (*ProcessResult, error) {
	result := &ProcessResult{Fingerprint: identity.Fingerprint(rec)}

	if err := s.store.UpsertListing(result.Fingerprint, rec); err != nil {
		return nil, fmt.Errorf("store listing: %w", err)
	}

	if s.pg != nil {
		if err := s.pg.UpsertListing(ctx, result.Fingerprint, rec); err != nil {
			log.Printf("Warning: postgres mirror failed for %s: %v", rec.URL, err)
		}
	}

	for _, img := range rec.Images {
		item := &models.MediaItem{
			ID:          uuid.NewString(),
			ListingURL:  rec.URL,
			OriginalURL: img.URLHighRes,
			Room:        img.Room,
			Position:    img.ID,
		}
		if err := s.store.EnqueueMedia(item); err != nil {
			log.Printf("Warning: failed to queue media %s: %v", img.URLHighRes, err)
			continue
		}
		result.MediaQueued++
	}

	for i, fp := range rec.FloorplanURLs {
		item := &models.MediaItem{
			ID:          uuid.NewString(),
			ListingURL:  rec.URL,
			OriginalURL: fp,
			Room:        models.RoomUnknown,
			Position:    len(rec.Images) + i + 1,
		}
		if err := s.store.EnqueueMedia(item); err != nil {
			log.Printf("Warning: failed to queue floorplan %s: %v", fp, err)
		}
	}

	return result, nil
}
