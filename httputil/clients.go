package httputil

import (
	"crypto/tls"
	"net/http"
	"net/url"
	"time"
)

type Clients struct {
	Scraping *http.Client // target-site pages, proxied when configured
	Media    *http.Client // media downloads, longer timeout
}

// NewClients builds the two HTTP clients the daemon uses. When a proxy URL
// is set, HTTP/2 is disabled on the scraping transport: the site's WAF
// fingerprints h2 connections coming from datacenter proxies.
func NewClients(proxyURL string) *Clients {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
			transport.ForceAttemptHTTP2 = false
			transport.TLSNextProto = make(map[string]func(string, *tls.Conn) http.RoundTripper)
		}
	}

	return &Clients{
		Scraping: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		Media: &http.Client{
			Timeout:   60 * time.Second,
			Transport: transport,
		},
	}
}
