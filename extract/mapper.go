package extract

import (
	"strings"

	"rightscrape/models"
)

// mapDetails fills the record's scalar fields from the decoded page model.
// Any subset of keys may be absent; missing fields stay at their zero/nil
// values rather than erroring.
func (e *Engine) mapDetails(model map[string]any, rec *models.PropertyRecord) {
	prop := propertyData(model)

	switch addr := prop["address"].(type) {
	case map[string]any:
		rec.Address = asString(addr["displayAddress"])
	case string:
		rec.Address = addr
	}

	if prices := asMap(prop["prices"]); prices != nil {
		rec.Price = asString(prices["primaryPrice"])
		rec.PriceQualifier = asString(prices["priceQualifier"])
	}

	rec.PropertyType = firstString(prop, "propertySubType", "propertyType")

	if n, ok := asInt(prop["bedrooms"]); ok && n > 0 {
		rec.Bedrooms = &n
	}
	if n, ok := asInt(prop["bathrooms"]); ok && n > 0 {
		rec.Bathrooms = &n
	}

	agent := asMap(prop["customer"])
	if agent == nil {
		agent = asMap(prop["agent"])
	}
	if agent != nil {
		rec.AgentName = firstString(agent, "branchDisplayName", "name")
		rec.AgentPhone = firstString(agent, "contactTelephone", "phone")
	}

	if text := asMap(prop["text"]); text != nil {
		rec.Description = asString(text["description"])
	}

	for _, f := range asSlice(prop["keyFeatures"]) {
		if s := asString(f); s != "" {
			rec.Features = append(rec.Features, s)
		}
	}

	for _, fp := range asSlice(prop["floorplans"]) {
		if m := asMap(fp); m != nil {
			if u := asString(m["url"]); u != "" {
				rec.FloorplanURLs = append(rec.FloorplanURLs, e.absoluteURL(u))
			}
		}
	}
}

// mapImages pulls the gallery out of the page model in source order. Each
// entry is either an object with url/caption variants or a bare URL string.
func (e *Engine) mapImages(model map[string]any) []models.RawImage {
	prop := propertyData(model)

	var images []models.RawImage
	for _, entry := range asSlice(prop["images"]) {
		var url, caption string
		var width, height *int

		switch img := entry.(type) {
		case map[string]any:
			url = firstString(img, "url", "srcUrl", "src")
			caption = firstString(img, "caption", "alt")
			if n, ok := asInt(img["width"]); ok {
				width = &n
			}
			if n, ok := asInt(img["height"]); ok {
				height = &n
			}
		case string:
			url = img
		default:
			continue
		}

		if url == "" {
			continue
		}

		images = append(images, models.RawImage{
			Index:   len(images),
			URL:     e.absoluteURL(url),
			Caption: caption,
			Width:   width,
			Height:  height,
		})
	}

	return images
}

// propertyData returns the propertyData sub-object, or the root when the
// model variant keeps everything top-level.
func propertyData(model map[string]any) map[string]any {
	if prop := asMap(model["propertyData"]); prop != nil {
		return prop
	}
	return model
}

// absoluteURL upgrades protocol-less and site-relative URLs to absolute ones
// against the configured media host.
func (e *Engine) absoluteURL(url string) string {
	switch {
	case strings.HasPrefix(url, "//"):
		return "https:" + url
	case strings.HasPrefix(url, "/"):
		return e.cfg.MediaHost + url
	}
	return url
}
