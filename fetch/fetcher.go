package fetch

import (
	"context"

	"rightscrape/httputil"
)

// Fetcher hands the engine a fully rendered listing page. Implementations
// own navigation, redirects, and any waiting for dynamic content; the engine
// only ever sees the final HTML string.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (string, error)
}

// New selects a fetcher by mode. The plain HTTP fetcher works for most
// listings since the page model is server-rendered; the browser fetcher is
// for sessions the WAF refuses to serve without a real client.
func New(mode string, clients *httputil.Clients) Fetcher {
	switch mode {
	case "browser":
		return NewBrowserFetcher()
	default:
		return NewHTTPFetcher(clients.Scraping)
	}
}
