package extract

import "errors"

// Extraction failure kinds. The first three are recovered internally by the
// DOM fallback; only ErrNoImagesRecovered reaches callers.
var (
	ErrMarkerNotFound    = errors.New("embedded model marker not found")
	ErrUnbalancedInput   = errors.New("embedded model braces never close")
	ErrMalformedModel    = errors.New("embedded model is not valid JSON")
	ErrNoImagesRecovered = errors.New("no images recovered from listing page")
)
