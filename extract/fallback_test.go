package extract

import (
	"testing"

	"rightscrape/models"
)

func TestFallbackDetails_FromMarkup(t *testing.T) {
	e := New(DefaultConfig())
	page := `<html>
<head>
  <meta property="og:title" content="2 bedroom flat for sale in Mill Road, Cambridge, CB1 | Rightmove">
</head>
<body>
<div data-testid="price">£315,000</div>
<div class="gallery">
  <img src="https://media.rightmove.co.uk/10k/9876/IMG_00.jpeg" alt="Kitchen">
</div>
</body>
</html>`

	rec, err := e.Extract(page, "https://www.rightmove.co.uk/properties/700")
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	if rec.Address != "2 bedroom flat for sale in Mill Road, Cambridge, CB1" {
		t.Fatalf("unexpected address %q", rec.Address)
	}
	if rec.Price != "£315,000" {
		t.Fatalf("unexpected price %q", rec.Price)
	}
	if len(rec.Images) != 1 {
		t.Fatalf("expected 1 image, got %d", len(rec.Images))
	}
	// The raw sweep found the URL first, so the gallery pass's alt text
	// doesn't attach and the image stays unclassified.
	if rec.Images[0].Room != models.RoomUnknown {
		t.Fatalf("unexpected room %s", rec.Images[0].Room)
	}
}

func TestFallback_Dedupe(t *testing.T) {
	e := New(DefaultConfig())
	page := `<html>
<img src="https://media.rightmove.co.uk/10k/IMG_00.jpeg">
<img src="https://media.rightmove.co.uk/10k/IMG_00.jpeg">
<script>var u = "https://media.rightmove.co.uk/10k/IMG_00.jpeg";</script>
</html>`

	rec, err := e.Extract(page, "https://www.rightmove.co.uk/properties/800")
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if len(rec.Images) != 1 {
		t.Fatalf("expected duplicates collapsed to 1 image, got %d", len(rec.Images))
	}
}

func TestFallback_CustomMediaHost(t *testing.T) {
	e := New(Config{MediaHost: "https://media.site"})
	page := `<html><img src="https://media.site/photos/house.jpg"></html>`

	rec, err := e.Extract(page, "https://www.rightmove.co.uk/properties/900")
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if len(rec.Images) != 1 {
		t.Fatalf("expected 1 image from custom host, got %d", len(rec.Images))
	}
	// Other hosts must not be swept up.
	page2 := `<html><img src="https://cdn.elsewhere.com/photos/house.jpg"></html>`
	if _, err := e.Extract(page2, "https://www.rightmove.co.uk/properties/901"); err != ErrNoImagesRecovered {
		t.Fatalf("expected ErrNoImagesRecovered for foreign host, got %v", err)
	}
}
