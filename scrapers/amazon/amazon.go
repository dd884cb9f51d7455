package amazon

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/raushankrgupta/virtual-try-on/scrapers/base"
	"github.com/raushankrgupta/virtual-try-on/scrapers/opengraph"
)

// thumbSuffix matches the sizing token in .../I/71sbtz8S+aL._AC_US40_.jpg
var thumbSuffix = regexp.MustCompile(`\._.+_\.`)

// AmazonScraper handles the HTML parsing for Amazon
type AmazonScraper struct {
	*base.BaseScraper
}

func NewAmazonScraper() *AmazonScraper {
	return &AmazonScraper{
		BaseScraper: base.NewBaseScraper(),
	}
}

func (s *AmazonScraper) CanScrape(url string) bool {
	return strings.Contains(url, "amazon") || strings.Contains(url, "amzn")
}

func (s *AmazonScraper) ProductImage(ctx context.Context, url string) (string, error) {
	doc, err := s.FetchDocument(ctx, url, func(doc *goquery.Document) bool {
		return base.IsValidDocument(doc) && ExtractImage(doc) != ""
	})
	if err != nil {
		return "", err
	}
	return ExtractImage(doc), nil
}

// ExtractImage picks the largest rendition of the landing image, then the first alt view,
// then the page's preview image
func ExtractImage(doc *goquery.Document) string {
	for _, sel := range []string{"#landingImage", "#imgBlkFront"} {
		if img := largestDynamicImage(doc.Find(sel).AttrOr("data-a-dynamic-image", "")); img != "" {
			return base.AbsoluteURL(doc, img)
		}
	}

	if img := base.AbsoluteURL(doc, doc.Find("#landingImage").AttrOr("data-old-hires", "")); img != "" {
		return img
	}

	if src := doc.Find("#altImages ul li.item img").First().AttrOr("src", ""); src != "" {
		if img := base.AbsoluteURL(doc, toHighRes(src)); img != "" {
			return img
		}
	}

	if img := base.AbsoluteURL(doc, doc.Find("#landingImage").AttrOr("src", "")); img != "" {
		return img
	}
	return opengraph.ExtractImage(doc)
}

func toHighRes(url string) string {
	return thumbSuffix.ReplaceAllString(url, ".")
}

// largestDynamicImage reads the {"url": [width, height]} map Amazon stores on the landing image
func largestDynamicImage(raw string) string {
	if raw == "" {
		return ""
	}
	var images map[string][]int
	if err := json.Unmarshal([]byte(raw), &images); err != nil {
		return ""
	}

	var best string
	bestArea := -1
	for url, dims := range images {
		area := 0
		if len(dims) == 2 {
			area = dims[0] * dims[1]
		}
		if area > bestArea || (area == bestArea && url < best) {
			best, bestArea = url, area
		}
	}
	return best
}
