package opengraph

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/raushankrgupta/virtual-try-on/scrapers/base"
)

// ErrNoImage is returned when a page advertises no product image
var ErrNoImage = errors.New("page has no product image")

// OpenGraphScraper reads the image a page advertises to link previews. Most shops set it
// to the main product photo.
type OpenGraphScraper struct {
	*base.BaseScraper
}

func NewOpenGraphScraper() *OpenGraphScraper {
	return &OpenGraphScraper{
		BaseScraper: base.NewBaseScraper(),
	}
}

func (s *OpenGraphScraper) CanScrape(url string) bool {
	return true
}

func (s *OpenGraphScraper) ProductImage(ctx context.Context, url string) (string, error) {
	doc, err := s.FetchDocument(ctx, url, func(doc *goquery.Document) bool {
		return base.IsValidDocument(doc) && ExtractImage(doc) != ""
	})
	if err != nil {
		return "", err
	}
	return ExtractImage(doc), nil
}

// ExtractImage returns the absolute URL of the page's preview image, or "" if it has none.
// Sources in order: og:image, twitter:image, link rel=image_src, JSON-LD Product image.
func ExtractImage(doc *goquery.Document) string {
	metas := []string{
		`meta[property="og:image:secure_url"]`,
		`meta[property="og:image"]`,
		`meta[name="og:image"]`,
		`meta[name="twitter:image"]`,
		`meta[property="twitter:image"]`,
	}
	for _, sel := range metas {
		if img := base.AbsoluteURL(doc, doc.Find(sel).First().AttrOr("content", "")); img != "" {
			return img
		}
	}

	if img := base.AbsoluteURL(doc, doc.Find(`link[rel="image_src"]`).First().AttrOr("href", "")); img != "" {
		return img
	}

	var found string
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(i int, sel *goquery.Selection) bool {
		var data interface{}
		if err := json.Unmarshal([]byte(sel.Text()), &data); err != nil {
			return true
		}
		found = base.AbsoluteURL(doc, ldImage(data))
		return found == ""
	})
	return found
}

// ldImage walks a JSON-LD value looking for the image of a Product node
func ldImage(v interface{}) string {
	switch node := v.(type) {
	case []interface{}:
		for _, item := range node {
			if img := ldImage(item); img != "" {
				return img
			}
		}
	case map[string]interface{}:
		if graph, ok := node["@graph"]; ok {
			if img := ldImage(graph); img != "" {
				return img
			}
		}
		if !isProduct(node["@type"]) {
			return ""
		}
		return firstImage(node["image"])
	}
	return ""
}

func isProduct(t interface{}) bool {
	switch tt := t.(type) {
	case string:
		return strings.EqualFold(tt, "Product")
	case []interface{}:
		for _, item := range tt {
			if isProduct(item) {
				return true
			}
		}
	}
	return false
}

// firstImage accepts the string, list and ImageObject forms of schema.org image
func firstImage(v interface{}) string {
	switch img := v.(type) {
	case string:
		return img
	case []interface{}:
		if len(img) > 0 {
			return firstImage(img[0])
		}
	case map[string]interface{}:
		if u, ok := img["url"].(string); ok {
			return u
		}
		if u, ok := img["contentUrl"].(string); ok {
			return u
		}
	}
	return ""
}
