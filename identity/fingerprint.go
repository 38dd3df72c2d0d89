package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"rightscrape/models"
)

var (
	streetReplacements = map[string]string{
		"street":   "st",
		"avenue":   "ave",
		"drive":    "dr",
		"road":     "rd",
		"lane":     "ln",
		"close":    "cl",
		"court":    "ct",
		"place":    "pl",
		"crescent": "cres",
		"terrace":  "ter",
		"gardens":  "gdns",
		"grove":    "gr",
		"square":   "sq",
		"mews":     "mws",
		"parade":   "pde",
		"north":    "n",
		"south":    "s",
		"east":     "e",
		"west":     "w",
		"upper":    "up",
		"lower":    "lr",
		"flat":     "flat",
		"apartment": "apt",
	}
	multiSpaceRegex = regexp.MustCompile(`\s+`)
	nonAlnumRegex   = regexp.MustCompile(`[^a-z0-9\s]`)
)

// Fingerprint identifies a listing across re-extractions even when the site
// rewrites its URL. The property ID is authoritative when present; otherwise
// the normalized address plus headline attributes stand in.
func Fingerprint(rec *models.PropertyRecord) string {
	key := rec.PropertyID
	if key == "" {
		key = NormalizeAddress(rec.Address)
	}
	input := fmt.Sprintf("%s|%d|%d|%s",
		key,
		intOrZero(rec.Bedrooms),
		intOrZero(rec.Bathrooms),
		strings.ToLower(rec.PropertyType),
	)
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:16])
}

// NormalizeAddress collapses a UK display address to a comparable form.
func NormalizeAddress(addr string) string {
	addr = strings.ToLower(strings.TrimSpace(addr))
	addr = nonAlnumRegex.ReplaceAllString(addr, " ")
	for full, abbrev := range streetReplacements {
		addr = strings.ReplaceAll(addr, full, abbrev)
	}
	addr = multiSpaceRegex.ReplaceAllString(addr, " ")
	return strings.TrimSpace(addr)
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
