package extract

import (
	"log"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"rightscrape/models"
)

// Config fixes the site-specific constants the engine scans for. Zero-value
// fields fall back to the Rightmove defaults.
type Config struct {
	// Marker is the assignment prefix of the embedded page model.
	Marker string

	// MediaHost is the absolute prefix for site-relative image URLs and the
	// host the DOM fallback sweeps for.
	MediaHost string

	Classifier ClassifierConfig
}

// DefaultConfig returns the production Rightmove configuration.
func DefaultConfig() Config {
	return Config{
		Marker:     "window.PAGE_MODEL = ",
		MediaHost:  "https://media.rightmove.co.uk",
		Classifier: DefaultClassifierConfig(),
	}
}

// Engine turns a rendered listing page into a PropertyRecord. It holds only
// immutable configuration, performs no I/O, and is safe for concurrent use.
type Engine struct {
	cfg           Config
	classifier    *Classifier
	mediaURLRe    *regexp.Regexp
	mediaHostName string
}

func New(cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.Marker == "" {
		cfg.Marker = def.Marker
	}
	if cfg.MediaHost == "" {
		cfg.MediaHost = def.MediaHost
	}
	if len(cfg.Classifier.Keywords) == 0 && len(cfg.Classifier.Positional) == 0 {
		cfg.Classifier = def.Classifier
	}

	host := strings.TrimPrefix(strings.TrimPrefix(cfg.MediaHost, "https://"), "http://")

	return &Engine{
		cfg:           cfg,
		classifier:    NewClassifier(cfg.Classifier),
		mediaURLRe:    regexp.MustCompile(`(?i)https?://` + regexp.QuoteMeta(host) + `[^"'>\s\\]+\.(?:jpg|jpeg|png|webp)`),
		mediaHostName: host,
	}
}

// Extract runs the full pipeline over a rendered page: embedded model first,
// DOM fallback when the model is missing, unbalanced, malformed, or has an
// empty gallery. Every recovered image is classified and resolved to its
// high-res variant. Returns ErrNoImagesRecovered when both paths come up
// empty; the partially filled record is still returned for diagnostics.
func (e *Engine) Extract(page, listingURL string) (*models.PropertyRecord, error) {
	rec := &models.PropertyRecord{
		URL:           listingURL,
		PropertyID:    PropertyIDFromURL(listingURL),
		Images:        []models.ImageRecord{},
		FloorplanURLs: []string{},
	}

	var raw []models.RawImage
	fromFallback := false

	model, err := e.parseModel(page)
	if err == nil {
		e.mapDetails(model, rec)
		raw = e.mapImages(model)
	} else {
		log.Printf("primary extraction failed for %s: %v", listingURL, err)
	}

	if len(raw) == 0 {
		fromFallback = true
		doc, derr := goquery.NewDocumentFromReader(strings.NewReader(page))
		if derr != nil {
			doc = nil
		}
		raw = e.fallbackImages(page, doc)
		e.fallbackDetails(doc, rec)
		if err == nil {
			log.Printf("page model had no gallery for %s, used DOM fallback (%d images)", listingURL, len(raw))
		}
	}

	if len(raw) == 0 {
		return rec, ErrNoImagesRecovered
	}

	for _, img := range raw {
		room := e.classifier.Classify(img.Caption, img.Index, len(raw))
		if fromFallback {
			room = e.classifier.ClassifyCaption(img.Caption)
		}
		rec.Images = append(rec.Images, models.ImageRecord{
			ID:         img.Index + 1,
			URL:        img.URL,
			URLHighRes: ResolveHighRes(img.URL),
			Room:       room,
			Caption:    img.Caption,
			Width:      img.Width,
			Height:     img.Height,
		})
	}

	return rec, nil
}

var (
	propertyPathRe  = regexp.MustCompile(`/propert(?:y|ies)[/-](\d+)`)
	propertyQueryRe = regexp.MustCompile(`propertyId=(\d+)`)
)

// PropertyIDFromURL pulls the numeric listing ID out of the two URL shapes
// the site serves: /properties/154372299 and
// /property-for-sale/property-154372299.html, plus the propertyId query
// param on legacy links. Empty when none match.
func PropertyIDFromURL(listingURL string) string {
	if m := propertyPathRe.FindStringSubmatch(listingURL); m != nil {
		return m[1]
	}
	if m := propertyQueryRe.FindStringSubmatch(listingURL); m != nil {
		return m[1]
	}
	return ""
}

// ValidListingURL reports whether the URL points at the target site.
func ValidListingURL(listingURL, siteHost string) bool {
	u, err := url.Parse(listingURL)
	if err != nil {
		return false
	}
	return strings.Contains(u.Host, siteHost)
}
