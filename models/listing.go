package models

// RawImage is an unclassified, unresolved image reference pulled from the
// page model or the DOM fallback. Sequence order reflects gallery order and
// feeds the positional classifier.
type RawImage struct {
	Index   int    `json:"index"`
	URL     string `json:"url"`
	Caption string `json:"caption"`
	Width   *int   `json:"width,omitempty"`
	Height  *int   `json:"height,omitempty"`
}

// ImageRecord is a finalized, classified, resolved gallery image.
type ImageRecord struct {
	ID         int      `json:"id"`
	URL        string   `json:"url"`
	URLHighRes string   `json:"url_high_res"`
	Room       RoomType `json:"room"`
	Caption    string   `json:"caption"`
	Width      *int     `json:"width,omitempty"`
	Height     *int     `json:"height,omitempty"`
}

// PropertyRecord is the engine's output for one listing page. All scalar
// fields are optional; absence is an expected state, not an error.
type PropertyRecord struct {
	URL            string        `json:"url"`
	PropertyID     string        `json:"property_id"`
	Address        string        `json:"address"`
	Price          string        `json:"price"`
	PriceQualifier string        `json:"price_qualifier,omitempty"`
	PropertyType   string        `json:"property_type"`
	Bedrooms       *int          `json:"bedrooms"`
	Bathrooms      *int          `json:"bathrooms"`
	Images         []ImageRecord `json:"images"`
	FloorplanURLs  []string      `json:"floorplan_urls"`
	AgentName      string        `json:"agent_name"`
	AgentPhone     string        `json:"agent_phone,omitempty"`
	Description    string        `json:"description,omitempty"`
	Features       []string      `json:"features,omitempty"`
}
