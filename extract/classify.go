package extract

import (
	"strings"

	"rightscrape/models"
)

// KeywordRule maps a set of caption keywords to a room type. Rules are
// evaluated in declaration order and the first hit wins, so earlier rules
// take priority over later ones.
type KeywordRule struct {
	Room     models.RoomType `yaml:"room"`
	Keywords []string        `yaml:"keywords"`
}

// ClassifierConfig is the immutable table set driving classification. It is
// passed in at construction so tests and site configs can substitute their
// own tables.
type ClassifierConfig struct {
	Keywords []KeywordRule `yaml:"keywords"`

	// Positional is the expected gallery ordering convention, used when a
	// caption carries no room words. Images are distributed across it
	// proportionally by index.
	Positional []models.RoomType `yaml:"positional"`
}

// DefaultClassifierConfig returns the stock tables tuned for UK listing
// galleries.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		Keywords: []KeywordRule{
			{models.RoomKitchen, []string{"kitchen", "cooking", "culinary", "breakfast"}},
			{models.RoomLiving, []string{"living", "lounge", "sitting", "reception", "drawing"}},
			{models.RoomBedroom, []string{"bedroom", "bed room", "master bed", "guest bed", "sleep"}},
			{models.RoomBathroom, []string{"bathroom", "bath room", "shower", "wc", "toilet", "en-suite", "ensuite"}},
			{models.RoomGarden, []string{"garden", "patio", "terrace", "yard", "lawn"}},
			{models.RoomExterior, []string{"exterior", "front", "outside", "facade", "entrance"}},
			{models.RoomDining, []string{"dining", "dinner", "eating"}},
			{models.RoomOffice, []string{"study", "office", "work"}},
			{models.RoomHallway, []string{"hall", "hallway", "corridor", "landing"}},
			{models.RoomUtility, []string{"utility", "laundry", "boot room"}},
			{models.RoomGarage, []string{"garage", "car port", "parking"}},
		},
		Positional: []models.RoomType{
			models.RoomExterior,
			models.RoomLiving,
			models.RoomKitchen,
			models.RoomBedroom,
			models.RoomBathroom,
			models.RoomGarden,
		},
	}
}

// Classifier assigns room types to gallery images. It is a pure function of
// (caption, index, gallery length) over its fixed tables.
type Classifier struct {
	cfg ClassifierConfig
}

func NewClassifier(cfg ClassifierConfig) *Classifier {
	return &Classifier{cfg: cfg}
}

// Classify runs the keyword stage on descriptive captions and the positional
// stage on absent/filename captions. It always terminates in a value;
// RoomUnknown is the terminal default, never an error.
func (c *Classifier) Classify(caption string, index, galleryLen int) models.RoomType {
	lower := strings.ToLower(strings.TrimSpace(caption))

	if !isFilenameCaption(lower) {
		return c.keyword(lower)
	}

	return c.positional(index, galleryLen)
}

// ClassifyCaption runs the keyword stage only. Images recovered by the DOM
// fallback go through here: their document order says nothing about gallery
// position, so the positional stage would just be noise.
func (c *Classifier) ClassifyCaption(caption string) models.RoomType {
	lower := strings.ToLower(strings.TrimSpace(caption))
	if isFilenameCaption(lower) {
		return models.RoomUnknown
	}
	return c.keyword(lower)
}

func (c *Classifier) keyword(lower string) models.RoomType {
	for _, rule := range c.cfg.Keywords {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Room
			}
		}
	}
	return models.RoomUnknown
}

// positional distributes indexes proportionally across the ordering
// convention. Index 0 is pinned to the first entry: the hero shot is nearly
// always the exterior.
func (c *Classifier) positional(index, galleryLen int) models.RoomType {
	if len(c.cfg.Positional) == 0 || index < 0 || galleryLen <= 0 || index >= galleryLen {
		return models.RoomUnknown
	}
	if index == 0 {
		return c.cfg.Positional[0]
	}

	slot := index * len(c.cfg.Positional) / galleryLen
	if slot >= len(c.cfg.Positional) {
		slot = len(c.cfg.Positional) - 1
	}
	return c.cfg.Positional[slot]
}

// isFilenameCaption reports whether a caption is a camera filename or other
// non-descriptive placeholder rather than real text. The site serves the
// literal "font" as a caption on some hero images.
func isFilenameCaption(lower string) bool {
	if len(lower) < 4 || lower == "font" {
		return true
	}
	for _, prefix := range []string{"_dsc", "dsc_", "img_", "photo"} {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	for _, suffix := range []string{".jpg", ".jpeg", ".png", ".webp"} {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}
