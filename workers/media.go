package workers

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"net/http"
	"path"
	"strings"
	"time"

	"rightscrape/models"
	"rightscrape/storage"
)

const maxMediaSize = 50 * 1024 * 1024

// Uploader stores downloaded media in S3-compatible storage.
type Uploader interface {
	Upload(ctx context.Context, key string, data io.Reader, contentType string) error
}

// NoOpUploader hashes and marks media without uploading anywhere. Used when
// no bucket is configured so the queue still drains.
type NoOpUploader struct{}

func (NoOpUploader) Upload(ctx context.Context, key string, data io.Reader, contentType string) error {
	_, err := io.Copy(io.Discard, data)
	return err
}

// MediaWorker drains the media queue: download the high-res image, hash it,
// upload under a content-addressed key, record the outcome.
type MediaWorker struct {
	store    *storage.SQLiteStore
	client   *http.Client
	uploader Uploader
}

func NewMediaWorker(store *storage.SQLiteStore, client *http.Client, uploader Uploader) *MediaWorker {
	if uploader == nil {
		uploader = NoOpUploader{}
	}
	return &MediaWorker{
		store:    store,
		client:   client,
		uploader: uploader,
	}
}

// MediaResult contains the outcome of processing one queue item.
type MediaResult struct {
	S3Key       string
	ContentHash string
	Size        int64
	Error       error
}

// Process downloads one media file, computes its hash, and uploads it.
func (w *MediaWorker) Process(ctx context.Context, item *models.MediaItem) MediaResult {
	var result MediaResult

	req, err := http.NewRequestWithContext(ctx, "GET", item.OriginalURL, nil)
	if err != nil {
		result.Error = fmt.Errorf("create request: %w", err)
		return result
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "image/*,*/*")

	resp, err := w.client.Do(req)
	if err != nil {
		result.Error = fmt.Errorf("download: %w", err)
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		result.Error = fmt.Errorf("download status: %d", resp.StatusCode)
		return result
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxMediaSize))
	if err != nil {
		result.Error = fmt.Errorf("read body: %w", err)
		return result
	}
	result.Size = int64(len(data))

	hash := sha256.Sum256(data)
	result.ContentHash = hex.EncodeToString(hash[:])

	ext := guessExtension(item.OriginalURL, resp.Header.Get("Content-Type"))
	result.S3Key = fmt.Sprintf("media/%s/%s%s", result.ContentHash[:2], result.ContentHash, ext)

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	if err := w.uploader.Upload(ctx, result.S3Key, bytes.NewReader(data), contentType); err != nil {
		result.Error = fmt.Errorf("upload: %w", err)
		return result
	}

	return result
}

// Run starts the worker loop, draining up to batchSize items per tick.
func (w *MediaWorker) Run(ctx context.Context, batchSize int, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Media worker stopping")
			return
		case <-ticker.C:
			w.processBatch(ctx, batchSize)
		}
	}
}

func (w *MediaWorker) processBatch(ctx context.Context, batchSize int) {
	items, err := w.store.GetPendingMedia(batchSize)
	if err != nil {
		log.Printf("Media worker: query error: %v", err)
		return
	}
	if len(items) == 0 {
		return
	}

	log.Printf("Media worker: processing %d items", len(items))

	var processed, failed int
	for i := range items {
		item := &items[i]

		result := w.Process(ctx, item)
		if result.Error != nil {
			log.Printf("Media worker: failed %s: %v", item.OriginalURL, result.Error)
			failed++
			if err := w.store.MarkMediaFailed(item.ID, item.Attempts+1); err != nil {
				log.Printf("Media worker: failed to record failure for %s: %v", item.ID, err)
			}
			continue
		}

		if err := w.store.MarkMediaUploaded(item.ID, result.S3Key, result.ContentHash); err != nil {
			log.Printf("Media worker: failed to update %s: %v", item.ID, err)
			failed++
			continue
		}

		processed++
		log.Printf("Media worker: uploaded %s -> %s (%d bytes)", item.ID, result.S3Key, result.Size)

		// Rate limit between downloads
		time.Sleep(200 * time.Millisecond)
	}

	if processed > 0 || failed > 0 {
		log.Printf("Media worker: processed %d, failed %d", processed, failed)
	}
}

// guessExtension determines file extension from URL or content-type.
func guessExtension(url, contentType string) string {
	ext := strings.ToLower(path.Ext(url))
	if i := strings.IndexAny(ext, "?#"); i >= 0 {
		ext = ext[:i]
	}
	if isImageExt(ext) {
		return ext
	}

	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}

func isImageExt(ext string) bool {
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp", ".tiff":
		return true
	}
	return false
}
