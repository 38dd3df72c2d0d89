package extract

import "encoding/json"

// parseModel runs the primary path: locate the marker, cut the balanced
// span, and decode it into a generic value tree. A balanced span is not
// necessarily valid JSON (trailing commas, bare literals), so the decode can
// still fail; in that case nothing from the span is trusted.
func (e *Engine) parseModel(page string) (map[string]any, error) {
	start, err := LocateModel(page, e.cfg.Marker)
	if err != nil {
		return nil, err
	}

	end, err := BalancedSpan(page, start)
	if err != nil {
		return nil, err
	}

	var model map[string]any
	if err := json.Unmarshal([]byte(page[start:end]), &model); err != nil {
		return nil, ErrMalformedModel
	}
	return model, nil
}

// Tree-walking helpers. The page model has no schema contract, so every
// access goes through a type assertion that degrades to the zero value.

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

// asInt coerces numbers the model serves as float64 or numeric strings.
func asInt(v any) (int, bool) {
	switch val := v.(type) {
	case float64:
		return int(val), true
	case int:
		return val, true
	case string:
		result := 0
		started := false
		for _, c := range val {
			if c >= '0' && c <= '9' {
				result = result*10 + int(c-'0')
				started = true
			} else if started {
				break
			}
		}
		return result, started
	}
	return 0, false
}

// firstString returns the first non-empty string among the given keys.
func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := asString(m[k]); s != "" {
			return s
		}
	}
	return ""
}
