package extract

import "regexp"

var (
	cropSegmentRe = regexp.MustCompile(`/crop/\d+x\d+/`)
	maxSegmentRe  = regexp.MustCompile(`/_max_\d+x\d+/`)
	maxTokenRe    = regexp.MustCompile(`_max_\d+x\d+`)
)

// ResolveHighRes upgrades an image URL to its full-resolution variant by
// stripping the crop path segment and the _max_ thumbnail token; the base
// URL serves the original upload. URLs without either marker come back
// unchanged, so resolving twice is a no-op. Pure string work, no network.
func ResolveHighRes(url string) string {
	url = cropSegmentRe.ReplaceAllString(url, "/")
	url = maxSegmentRe.ReplaceAllString(url, "/")
	url = maxTokenRe.ReplaceAllString(url, "")
	return url
}
