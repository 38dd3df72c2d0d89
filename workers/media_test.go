package workers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"rightscrape/models"
	"rightscrape/storage"
)

func newTestStore(t *testing.T) *storage.SQLiteStore {
	t.Helper()
	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestMediaWorker_Process(t *testing.T) {
	payload := []byte("not really a jpeg but good enough")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(payload)
	}))
	defer server.Close()

	worker := NewMediaWorker(newTestStore(t), server.Client(), nil)
	item := &models.MediaItem{
		ID:          "11111111-1111-1111-1111-111111111111",
		OriginalURL: server.URL + "/12k/IMG_01.jpeg",
	}

	result := worker.Process(context.Background(), item)
	if result.Error != nil {
		t.Fatalf("process failed: %v", result.Error)
	}
	if result.Size != int64(len(payload)) {
		t.Fatalf("expected size %d, got %d", len(payload), result.Size)
	}

	hash := sha256.Sum256(payload)
	wantHash := hex.EncodeToString(hash[:])
	if result.ContentHash != wantHash {
		t.Fatalf("expected hash %s, got %s", wantHash, result.ContentHash)
	}
	wantKey := "media/" + wantHash[:2] + "/" + wantHash + ".jpeg"
	if result.S3Key != wantKey {
		t.Fatalf("expected key %s, got %s", wantKey, result.S3Key)
	}
}

func TestMediaWorker_ProcessBatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/broken.jpg" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("image bytes"))
	}))
	defer server.Close()

	store := newTestStore(t)
	worker := NewMediaWorker(store, server.Client(), nil)

	good := &models.MediaItem{
		ID:          "11111111-1111-1111-1111-111111111111",
		OriginalURL: server.URL + "/good.jpg",
	}
	bad := &models.MediaItem{
		ID:          "22222222-2222-2222-2222-222222222222",
		OriginalURL: server.URL + "/broken.jpg",
	}
	for _, item := range []*models.MediaItem{good, bad} {
		if err := store.EnqueueMedia(item); err != nil {
			t.Fatalf("enqueue failed: %v", err)
		}
	}

	worker.processBatch(context.Background(), 10)

	pending, err := store.GetPendingMedia(10)
	if err != nil {
		t.Fatalf("get pending failed: %v", err)
	}
	// The good item is uploaded; the broken one stays pending for retry.
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending item, got %d", len(pending))
	}
	if pending[0].ID != bad.ID {
		t.Fatalf("wrong item left pending: %s", pending[0].ID)
	}
	if pending[0].Attempts != 1 {
		t.Fatalf("expected 1 attempt recorded, got %d", pending[0].Attempts)
	}
}

func TestGuessExtension(t *testing.T) {
	cases := []struct {
		url         string
		contentType string
		want        string
	}{
		{"https://media.rightmove.co.uk/IMG_01.jpeg", "", ".jpeg"},
		{"https://media.rightmove.co.uk/IMG_01.PNG", "", ".png"},
		{"https://media.rightmove.co.uk/image", "image/webp", ".webp"},
		{"https://media.rightmove.co.uk/image", "", ".jpg"},
		{"https://media.rightmove.co.uk/IMG_01.jpeg?v=2", "", ".jpeg"},
	}
	for _, tc := range cases {
		if got := guessExtension(tc.url, tc.contentType); got != tc.want {
			t.Fatalf("guess %q/%q: expected %q, got %q", tc.url, tc.contentType, tc.want, got)
		}
	}
}
