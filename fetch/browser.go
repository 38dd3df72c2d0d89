package fetch

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/playwright-community/playwright-go"
)

// BrowserFetcher renders listing pages in a real Chromium instance. Used
// when the WAF refuses the plain HTTP client; the persistent profile keeps
// its cookies between runs so the consent banner only appears once.
type BrowserFetcher struct {
	mu          sync.Mutex
	pw          *playwright.Playwright
	context     playwright.BrowserContext
	initialized bool
}

func NewBrowserFetcher() *BrowserFetcher {
	return &BrowserFetcher{}
}

func (f *BrowserFetcher) ensureBrowser() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.initialized {
		return nil
	}

	var err error
	f.pw, err = playwright.Run()
	if err != nil {
		return fmt.Errorf("start playwright: %w", err)
	}

	cwd, _ := os.Getwd()
	userDataDir := filepath.Join(cwd, "browser_data")
	f.context, err = f.pw.Chromium.LaunchPersistentContext(userDataDir, playwright.BrowserTypeLaunchPersistentContextOptions{
		Headless: playwright.Bool(true),
		Args: []string{
			"--disable-blink-features=AutomationControlled",
			"--disable-dev-shm-usage",
			"--no-sandbox",
		},
	})
	if err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}

	f.initialized = true
	return nil
}

func (f *BrowserFetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	if err := f.ensureBrowser(); err != nil {
		return "", err
	}

	page, err := f.context.NewPage()
	if err != nil {
		return "", fmt.Errorf("create page: %w", err)
	}
	defer page.Close()

	_, err = page.Goto(pageURL, playwright.PageGotoOptions{
		Timeout:   playwright.Float(60000),
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	if err != nil {
		return "", fmt.Errorf("navigate: %w", err)
	}

	f.handleConsent(page)
	f.waitForModel(page)

	content, err := page.Content()
	if err != nil {
		return "", fmt.Errorf("page content: %w", err)
	}
	return content, nil
}

// waitForModel polls until the embedded page model is defined, so Content()
// captures the final server-rendered state rather than a loading shell.
func (f *BrowserFetcher) waitForModel(page playwright.Page) {
	for i := 0; i < 20; i++ {
		result, _ := page.Evaluate(`typeof window.PAGE_MODEL !== 'undefined'`)
		if ready, ok := result.(bool); ok && ready {
			return
		}
		page.WaitForTimeout(500)
	}
	log.Println("Timeout waiting for page model, capturing page as-is")
}

func (f *BrowserFetcher) handleConsent(page playwright.Page) {
	consentSelectors := []string{
		"#onetrust-accept-btn-handler",
		"button:has-text('Accept all')",
		"button:has-text('Accept All')",
		"button:has-text('I Accept')",
		"button[id*='accept']",
		"button[class*='consent']",
	}

	for _, selector := range consentSelectors {
		btn := page.Locator(selector).First()
		if visible, _ := btn.IsVisible(); visible {
			log.Printf("Clicking consent button: %s", selector)
			btn.Click()
			page.WaitForTimeout(1000)
			break
		}
	}
}

func (f *BrowserFetcher) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.context != nil {
		f.context.Close()
	}
	if f.pw != nil {
		f.pw.Stop()
	}
	f.initialized = false
}
