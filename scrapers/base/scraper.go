package base

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/raushankrgupta/virtual-try-on/utils"
	"go.uber.org/zap"
)

// BaseScraper handles common scraping logic
type BaseScraper struct {
	Client *http.Client
	// Browser enables the headless Chrome fallback when the plain fetch is blocked or incomplete
	Browser bool
}

// NewBaseScraper creates a new BaseScraper instance
func NewBaseScraper() *BaseScraper {
	return &BaseScraper{
		Client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				ForceAttemptHTTP2:     false,
				TLSNextProto:          make(map[string]func(string, *tls.Conn) http.RoundTripper),
				MaxIdleConns:          100,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		Browser: true,
	}
}

// FetchDocument fetches the URL over HTTP and falls back to headless Chrome when the
// validator rejects what came back
func (b *BaseScraper) FetchDocument(ctx context.Context, pageURL string, validator func(*goquery.Document) bool) (*goquery.Document, error) {
	// Strategy 1: HTTP Client (Fastest)
	doc, err := b.FetchDocumentHTTP(ctx, pageURL)
	if err == nil {
		if validator(doc) {
			utils.Logger.Debug("http fetch succeeded", zap.String("url", pageURL))
			return doc, nil
		}
		utils.Logger.Info("http fetch yielded invalid content", zap.String("url", pageURL))
	} else {
		utils.Logger.Info("http fetch failed", zap.String("url", pageURL), zap.Error(err))
	}

	if !b.Browser {
		return nil, fmt.Errorf("no usable page at %s", pageURL)
	}

	// Strategy 2: ChromeDP (Headless)
	utils.Logger.Info("trying headless chrome", zap.String("url", pageURL))
	doc, err = b.FetchDocumentChromeDP(ctx, pageURL)
	if err == nil && validator(doc) {
		return doc, nil
	}
	if err != nil {
		utils.Logger.Warn("headless chrome failed", zap.String("url", pageURL), zap.Error(err))
	}

	return nil, fmt.Errorf("all strategies failed for %s", pageURL)
}

// IsValidDocument rejects bot walls and near-empty pages
func IsValidDocument(doc *goquery.Document) bool {
	title := strings.ToLower(strings.TrimSpace(doc.Find("title").Text()))
	if strings.Contains(title, "robot check") ||
		strings.Contains(title, "captcha") ||
		strings.Contains(title, "access denied") {
		return false
	}
	return doc.Find("body").Length() > 0
}

// FetchDocumentHTTP fetches the URL and returns a GoQuery document via standard HTTP.
// The document's Url is the final URL after redirects.
func (b *BaseScraper) FetchDocumentHTTP(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}

	// Common headers to mimic a real browser
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.7")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Sec-Ch-Ua", `"Not_A Brand";v="8", "Chromium";v="120", "Google Chrome";v="120"`)
	req.Header.Set("Sec-Ch-Ua-Mobile", "?0")
	req.Header.Set("Sec-Ch-Ua-Platform", `"macOS"`)
	req.Header.Set("Sec-Fetch-Dest", "document")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	req.Header.Set("Sec-Fetch-User", "?1")

	res, err := b.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status code error: %d %s", res.StatusCode, res.Status)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, err
	}
	doc.Url = res.Request.URL
	return doc, nil
}

// AbsoluteURL resolves ref against the document's URL. Empty and data: references are returned as "".
func AbsoluteURL(doc *goquery.Document, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(ref, "data:") {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if doc.Url != nil {
		u = doc.Url.ResolveReference(u)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return u.String()
}
