package extract

import "testing"

func TestLocateModel_Basic(t *testing.T) {
	page := `<script>window.PAGE_MODEL = {"propertyData":{}}</script>`
	start, err := LocateModel(page, "window.PAGE_MODEL = ")
	if err != nil {
		t.Fatalf("locate failed: %v", err)
	}
	if page[start] != '{' {
		t.Fatalf("expected offset at '{', got %q", page[start])
	}
}

func TestLocateModel_WhitespaceAfterMarker(t *testing.T) {
	page := "window.PAGE_MODEL = \n\t {\"a\":1}"
	start, err := LocateModel(page, "window.PAGE_MODEL = ")
	if err != nil {
		t.Fatalf("locate failed: %v", err)
	}
	if page[start] != '{' {
		t.Fatalf("expected offset at '{', got %q", page[start])
	}
}

func TestLocateModel_FirstOccurrenceWins(t *testing.T) {
	page := `window.PAGE_MODEL = {"first":1} window.PAGE_MODEL = {"second":2}`
	start, err := LocateModel(page, "window.PAGE_MODEL = ")
	if err != nil {
		t.Fatalf("locate failed: %v", err)
	}
	end, err := BalancedSpan(page, start)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if got := page[start:end]; got != `{"first":1}` {
		t.Fatalf("expected first occurrence, got %q", got)
	}
}

func TestLocateModel_Missing(t *testing.T) {
	if _, err := LocateModel(`<html><body>no model here</body></html>`, "window.PAGE_MODEL = "); err != ErrMarkerNotFound {
		t.Fatalf("expected ErrMarkerNotFound, got %v", err)
	}
}

func TestLocateModel_MarkerWithoutValue(t *testing.T) {
	if _, err := LocateModel(`window.PAGE_MODEL = undefined;`, "window.PAGE_MODEL = "); err != ErrMarkerNotFound {
		t.Fatalf("expected ErrMarkerNotFound, got %v", err)
	}
	if _, err := LocateModel(`window.PAGE_MODEL = `, "window.PAGE_MODEL = "); err != ErrMarkerNotFound {
		t.Fatalf("expected ErrMarkerNotFound at end of page, got %v", err)
	}
}

func TestLocateModel_ArrayValue(t *testing.T) {
	page := `window.PAGE_MODEL = [1,2,3];`
	start, err := LocateModel(page, "window.PAGE_MODEL = ")
	if err != nil {
		t.Fatalf("locate failed: %v", err)
	}
	if page[start] != '[' {
		t.Fatalf("expected offset at '[', got %q", page[start])
	}
}
