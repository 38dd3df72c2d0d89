package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"rightscrape/extract"
	"rightscrape/fetch"
	"rightscrape/models"
	"rightscrape/storage"
)

// TrackerService re-extracts every tracked listing: fetch, extract, persist,
// with a run record per listing for operability.
type TrackerService struct {
	store   *storage.SQLiteStore
	fetcher fetch.Fetcher
	engine  *extract.Engine
	listing *ListingService
}

func NewTrackerService(store *storage.SQLiteStore, fetcher fetch.Fetcher, engine *extract.Engine, listing *ListingService) *TrackerService {
	return &TrackerService{
		store:   store,
		fetcher: fetcher,
		engine:  engine,
		listing: listing,
	}
}

// RunAll walks the tracked set once. Per-listing failures are recorded and
// logged but don't stop the sweep.
func (t *TrackerService) RunAll(ctx context.Context) error {
	tracked, err := t.store.GetTracked()
	if err != nil {
		return fmt.Errorf("get tracked listings: %w", err)
	}

	log.Printf("Tracked sweep: %d listings", len(tracked))

	for _, item := range tracked {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := t.runOne(ctx, item); err != nil {
			log.Printf("Tracked extraction failed for %s: %v", item.URL, err)
		}
	}

	return nil
}

func (t *TrackerService) runOne(ctx context.Context, item models.TrackedListing) error {
	run := &models.ExtractionRun{
		URL:       item.URL,
		StartedAt: time.Now(),
		Status:    models.RunStatusRunning,
	}
	runID, err := t.store.CreateRun(run)
	if err != nil {
		return fmt.Errorf("create run: %w", err)
	}
	run.ID = runID

	defer func() {
		now := time.Now()
		run.FinishedAt = &now
		if err := t.store.UpdateRun(run); err != nil {
			log.Printf("Warning: failed to update run %d: %v", run.ID, err)
		}
	}()

	page, err := t.fetcher.Fetch(ctx, item.URL)
	if err != nil {
		run.Status = models.RunStatusFailed
		run.ErrorMessage = err.Error()
		return err
	}

	rec, err := t.engine.Extract(page, item.URL)
	if err != nil {
		run.Status = models.RunStatusFailed
		run.ErrorMessage = err.Error()
		return err
	}

	run.PropertyID = rec.PropertyID
	run.ImagesFound = len(rec.Images)

	result, err := t.listing.Process(ctx, rec)
	if err != nil {
		run.Status = models.RunStatusFailed
		run.ErrorMessage = err.Error()
		return err
	}

	run.Status = models.RunStatusCompleted
	if err := t.store.TouchTracked(item.ID, result.Fingerprint, time.Now()); err != nil {
		log.Printf("Warning: failed to touch tracked listing %d: %v", item.ID, err)
	}

	log.Printf("Re-extracted %s: %d images, %d media queued", item.URL, len(rec.Images), result.MediaQueued)
	return nil
}
