package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"rightscrape/models"
)

const gallerySelector = `[data-testid*=gallery] img, [class*=gallery] img, [class*=Gallery] img`

// Search-result thumbnail sizes; these appear in related-listing markup and
// would pollute the gallery if swept up.
var thumbnailTokens = []string{"_max_135x", "_max_100x"}

var unescapeSlashes = strings.NewReplacer(`\u002F`, "/", `\/`, "/")

// fallbackImages reconstructs a minimal gallery straight from the markup
// when the page model is unusable. Strictly weaker than the primary path:
// document order only, captions usually absent.
func (e *Engine) fallbackImages(page string, doc *goquery.Document) []models.RawImage {
	var images []models.RawImage
	seen := make(map[string]bool)

	add := func(url, caption string) {
		if url == "" || seen[url] {
			return
		}
		for _, token := range thumbnailTokens {
			if strings.Contains(url, token) {
				return
			}
		}
		seen[url] = true
		images = append(images, models.RawImage{
			Index:   len(images),
			URL:     url,
			Caption: caption,
		})
	}

	// Pass 1: every media-host image URL in the raw page. Script text
	// escapes slashes, which would hide URLs from the pattern, so the page
	// is unescaped before the sweep.
	for _, url := range e.mediaURLRe.FindAllString(unescapeSlashes.Replace(page), -1) {
		add(url, "")
	}

	// Pass 2: gallery elements, which may carry captions in alt text.
	if doc != nil {
		doc.Find(gallerySelector).Each(func(_ int, s *goquery.Selection) {
			src, ok := s.Attr("src")
			if !ok || src == "" {
				src, _ = s.Attr("data-src")
			}
			if strings.Contains(src, e.mediaHostName) {
				alt, _ := s.Attr("alt")
				add(src, alt)
			}
		})
	}

	return images
}

// fallbackDetails fills scalar fields the page model could not provide from
// well-known markup: the og:title meta carries the address and the price
// node is tagged for the site's own frontend tests.
func (e *Engine) fallbackDetails(doc *goquery.Document, rec *models.PropertyRecord) {
	if doc == nil {
		return
	}

	if rec.Address == "" {
		if title, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
			rec.Address = strings.TrimSpace(strings.SplitN(title, " | ", 2)[0])
		}
	}

	if rec.Price == "" {
		for _, sel := range []string{`[data-testid=price]`, `[class*=price]`, `[class*=Price]`} {
			if text := strings.TrimSpace(doc.Find(sel).First().Text()); text != "" {
				rec.Price = text
				break
			}
		}
	}
}
