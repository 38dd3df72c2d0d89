package config

import (
	"os"
	"path/filepath"
	"testing"

	"rightscrape/models"
)

func TestExtractorConfig_Defaults(t *testing.T) {
	cfg := &Config{
		Site: SiteConfig{
			Marker:    "window.PAGE_MODEL = ",
			MediaHost: "https://media.rightmove.co.uk",
		},
		RoomsPath: filepath.Join(t.TempDir(), "missing.yaml"),
	}

	ecfg, err := cfg.ExtractorConfig()
	if err != nil {
		t.Fatalf("extractor config failed: %v", err)
	}
	if ecfg.Marker != "window.PAGE_MODEL = " {
		t.Fatalf("unexpected marker %q", ecfg.Marker)
	}
	if len(ecfg.Classifier.Keywords) == 0 {
		t.Fatalf("expected stock keyword table")
	}
	if len(ecfg.Classifier.Positional) == 0 {
		t.Fatalf("expected stock positional table")
	}
}

func TestExtractorConfig_RoomOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rooms.yaml")
	yaml := `keywords:
  - room: kitchen
    keywords: ["cocina"]
positional:
  - exterior
  - kitchen
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatalf("write rooms.yaml: %v", err)
	}

	cfg := &Config{RoomsPath: path}
	ecfg, err := cfg.ExtractorConfig()
	if err != nil {
		t.Fatalf("extractor config failed: %v", err)
	}
	if len(ecfg.Classifier.Keywords) != 1 {
		t.Fatalf("expected 1 keyword rule, got %d", len(ecfg.Classifier.Keywords))
	}
	if ecfg.Classifier.Keywords[0].Room != models.RoomKitchen {
		t.Fatalf("unexpected room %s", ecfg.Classifier.Keywords[0].Room)
	}
	if len(ecfg.Classifier.Positional) != 2 {
		t.Fatalf("expected 2 positional entries, got %d", len(ecfg.Classifier.Positional))
	}
}

func TestExtractorConfig_RejectsUnknownRoom(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rooms.yaml")
	yaml := `keywords:
  - room: ballroom
    keywords: ["chandelier"]
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatalf("write rooms.yaml: %v", err)
	}

	cfg := &Config{RoomsPath: path}
	if _, err := cfg.ExtractorConfig(); err == nil {
		t.Fatalf("expected error for unknown room type")
	}
}
