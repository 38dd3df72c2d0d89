package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"rightscrape/models"
)

func loadFixture(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join("testdata", name)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read fixture %s: %v", name, err)
	}
	return string(data)
}

func TestExtract_FullListing(t *testing.T) {
	e := New(DefaultConfig())
	page := loadFixture(t, "listing_full.html")

	rec, err := e.Extract(page, "https://www.rightmove.co.uk/properties/154372299")
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	if rec.PropertyID != "154372299" {
		t.Fatalf("expected property ID 154372299, got %s", rec.PropertyID)
	}
	if rec.Address != "Orchard Lane, Guildford, GU1" {
		t.Fatalf("unexpected address %q", rec.Address)
	}
	if rec.Price != "£475,000" {
		t.Fatalf("unexpected price %q", rec.Price)
	}
	if rec.PriceQualifier != "Guide Price" {
		t.Fatalf("unexpected qualifier %q", rec.PriceQualifier)
	}
	if rec.PropertyType != "Semi-Detached" {
		t.Fatalf("expected propertySubType to win, got %q", rec.PropertyType)
	}
	if rec.Bedrooms == nil || *rec.Bedrooms != 3 {
		t.Fatalf("expected 3 bedrooms, got %v", rec.Bedrooms)
	}
	// bathrooms arrives as a JSON string in this model variant
	if rec.Bathrooms == nil || *rec.Bathrooms != 2 {
		t.Fatalf("expected 2 bathrooms, got %v", rec.Bathrooms)
	}
	if rec.AgentName != "Hamptons, Guildford" {
		t.Fatalf("unexpected agent %q", rec.AgentName)
	}
	if rec.AgentPhone != "01483 000000" {
		t.Fatalf("unexpected phone %q", rec.AgentPhone)
	}
	if !strings.Contains(rec.Description, "{an extended}") {
		t.Fatalf("braces inside description were mangled: %q", rec.Description)
	}
	if len(rec.Features) != 3 {
		t.Fatalf("expected 3 key features, got %d", len(rec.Features))
	}
	if len(rec.FloorplanURLs) != 1 {
		t.Fatalf("expected 1 floorplan, got %d", len(rec.FloorplanURLs))
	}

	if len(rec.Images) != 5 {
		t.Fatalf("expected 5 images, got %d", len(rec.Images))
	}

	img := rec.Images[0]
	if img.ID != 1 {
		t.Fatalf("expected 1-based image IDs, got %d", img.ID)
	}
	if img.Room != models.RoomExterior {
		t.Fatalf("first image: expected exterior, got %s", img.Room)
	}
	if img.URLHighRes != "https://media.rightmove.co.uk/12k/11437/154372299/11437_GFD012345_IMG_00_0000.jpeg" {
		t.Fatalf("unexpected high-res URL %q", img.URLHighRes)
	}
	if img.Width == nil || *img.Width != 656 {
		t.Fatalf("expected width 656, got %v", img.Width)
	}

	if rec.Images[1].Room != models.RoomKitchen {
		t.Fatalf("second image: expected kitchen, got %s", rec.Images[1].Room)
	}
	if rec.Images[2].Room != models.RoomLiving {
		t.Fatalf("third image: expected living, got %s", rec.Images[2].Room)
	}
	// Site-relative URL absolutized against the media host.
	if !strings.HasPrefix(rec.Images[2].URL, "https://media.rightmove.co.uk/") {
		t.Fatalf("relative image URL not absolutized: %q", rec.Images[2].URL)
	}
	// Filename caption routes to the positional stage.
	if rec.Images[3].Room != models.RoomBedroom {
		t.Fatalf("fourth image: expected bedroom, got %s", rec.Images[3].Room)
	}
	// Bare string entry, no caption.
	if rec.Images[4].Caption != "" {
		t.Fatalf("fifth image: expected empty caption, got %q", rec.Images[4].Caption)
	}
}

func TestExtract_MaxTokenInFilename(t *testing.T) {
	e := New(DefaultConfig())
	page := `<html><script>window.PAGE_MODEL = {"images":[{"url":"https://media.site/img_max_300x300.jpg","caption":"Kitchen"}]};</script></html>`

	rec, err := e.Extract(page, "https://www.rightmove.co.uk/properties/100")
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if len(rec.Images) != 1 {
		t.Fatalf("expected 1 image, got %d", len(rec.Images))
	}
	if rec.Images[0].Room != models.RoomKitchen {
		t.Fatalf("expected kitchen, got %s", rec.Images[0].Room)
	}
	if rec.Images[0].URLHighRes != "https://media.site/img.jpg" {
		t.Fatalf("expected stripped high-res URL, got %q", rec.Images[0].URLHighRes)
	}
}

func TestExtract_TruncatedModelFallsBackToDOM(t *testing.T) {
	e := New(DefaultConfig())
	page := `<html>
<script>window.PAGE_MODEL = {"propertyData":{"images":[{"url":"https://media.rightmove.co.uk/broken.jpg"</script>
<div class="gallery">
  <img src="https://media.rightmove.co.uk/12k/11437/IMG_07.jpeg">
</div>
</html>`

	rec, err := e.Extract(page, "https://www.rightmove.co.uk/properties/200")
	if err != nil {
		t.Fatalf("expected fallback to recover, got %v", err)
	}
	if len(rec.Images) == 0 {
		t.Fatalf("fallback recovered no images")
	}
	if rec.Images[0].Room != models.RoomUnknown {
		t.Fatalf("DOM-recovered image: expected unknown, got %s", rec.Images[0].Room)
	}
	if rec.Images[0].Caption != "" {
		t.Fatalf("expected empty caption, got %q", rec.Images[0].Caption)
	}
}

func TestExtract_EscapedURLsInScripts(t *testing.T) {
	e := New(DefaultConfig())
	page := `<html><script>var x = "https:\/\/media.rightmove.co.uk\/12k\/IMG_09.jpeg";</script></html>`

	rec, err := e.Extract(page, "https://www.rightmove.co.uk/properties/300")
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if len(rec.Images) != 1 {
		t.Fatalf("expected 1 image, got %d", len(rec.Images))
	}
	if rec.Images[0].URL != "https://media.rightmove.co.uk/12k/IMG_09.jpeg" {
		t.Fatalf("escaped slashes not unescaped: %q", rec.Images[0].URL)
	}
}

func TestExtract_NothingRecoverable(t *testing.T) {
	e := New(DefaultConfig())
	page := `<html><body><p>This listing has been removed.</p></body></html>`

	rec, err := e.Extract(page, "https://www.rightmove.co.uk/properties/400")
	if !errors.Is(err, ErrNoImagesRecovered) {
		t.Fatalf("expected ErrNoImagesRecovered, got %v", err)
	}
	if rec == nil {
		t.Fatalf("expected partial record alongside the error")
	}
	if rec.PropertyID != "400" {
		t.Fatalf("partial record missing property ID, got %q", rec.PropertyID)
	}
	if len(rec.Images) != 0 {
		t.Fatalf("expected empty gallery, got %d images", len(rec.Images))
	}
}

func TestExtract_SkipsSearchThumbnails(t *testing.T) {
	e := New(DefaultConfig())
	page := `<html>
<img src="https://media.rightmove.co.uk/12k/related_max_135x100.jpeg">
<img src="https://media.rightmove.co.uk/12k/IMG_01.jpeg">
</html>`

	rec, err := e.Extract(page, "https://www.rightmove.co.uk/properties/500")
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if len(rec.Images) != 1 {
		t.Fatalf("expected thumbnail to be skipped, got %d images", len(rec.Images))
	}
	if !strings.HasSuffix(rec.Images[0].URL, "IMG_01.jpeg") {
		t.Fatalf("wrong image survived: %q", rec.Images[0].URL)
	}
}

func TestExtract_PositionalGallery(t *testing.T) {
	e := New(DefaultConfig())

	var entries []string
	for i := 1; i <= 10; i++ {
		entries = append(entries, fmt.Sprintf(
			`{"url":"https://media.rightmove.co.uk/12k/IMG_%02d.jpeg","caption":"_DSC%04d.jpg"}`, i, i))
	}
	page := `<html><script>window.PAGE_MODEL = {"images":[` + strings.Join(entries, ",") + `]};</script></html>`

	rec, err := e.Extract(page, "https://www.rightmove.co.uk/properties/600")
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if len(rec.Images) != 10 {
		t.Fatalf("expected 10 images, got %d", len(rec.Images))
	}
	if rec.Images[0].Room != models.RoomExterior {
		t.Fatalf("first image: expected exterior, got %s", rec.Images[0].Room)
	}
	if rec.Images[9].Room != models.RoomGarden {
		t.Fatalf("last image: expected garden, got %s", rec.Images[9].Room)
	}
}

func TestPropertyIDFromURL(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://www.rightmove.co.uk/properties/154372299", "154372299"},
		{"https://www.rightmove.co.uk/properties/154372299#/?channel=RES_BUY", "154372299"},
		{"https://www.rightmove.co.uk/property-for-sale/property-87654321.html", "87654321"},
		{"https://www.rightmove.co.uk/property-to-rent/property/12345678", "12345678"},
		{"https://www.rightmove.co.uk/viewer?propertyId=99887766", "99887766"},
		{"https://www.rightmove.co.uk/house-prices/guildford.html", ""},
	}
	for _, tc := range cases {
		if got := PropertyIDFromURL(tc.url); got != tc.want {
			t.Fatalf("url %q: expected %q, got %q", tc.url, tc.want, got)
		}
	}
}

func TestValidListingURL(t *testing.T) {
	if !ValidListingURL("https://www.rightmove.co.uk/properties/154372299", "rightmove.co.uk") {
		t.Fatalf("expected listing URL to validate")
	}
	if ValidListingURL("https://example.com/properties/154372299", "rightmove.co.uk") {
		t.Fatalf("expected foreign host to be rejected")
	}
	if ValidListingURL("::not a url::", "rightmove.co.uk") {
		t.Fatalf("expected unparseable URL to be rejected")
	}
}
