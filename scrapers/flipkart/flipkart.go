package flipkart

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/raushankrgupta/virtual-try-on/scrapers/base"
	"github.com/raushankrgupta/virtual-try-on/scrapers/opengraph"
)

type FlipkartScraper struct {
	*base.BaseScraper
}

func NewFlipkartScraper() *FlipkartScraper {
	return &FlipkartScraper{
		BaseScraper: base.NewBaseScraper(),
	}
}

func (s *FlipkartScraper) CanScrape(url string) bool {
	return strings.Contains(url, "flipkart.com")
}

func (s *FlipkartScraper) ProductImage(ctx context.Context, url string) (string, error) {
	doc, err := s.FetchDocument(ctx, url, func(doc *goquery.Document) bool {
		return base.IsValidDocument(doc) && ExtractImage(doc) != ""
	})
	if err != nil {
		return "", err
	}
	return ExtractImage(doc), nil
}

// ExtractImage returns the first gallery view at full size, falling back to the main image
// and then the page's preview image
func ExtractImage(doc *goquery.Document) string {
	// URL format: https://rukminim1.flixcart.com/image/128/128/xif0q/...
	thumb := doc.Find("ul._3GnUWp li._20Gt85 img").First().AttrOr("src", "")
	if img := base.AbsoluteURL(doc, strings.Replace(thumb, "/128/128/", "/832/832/", 1)); img != "" {
		return img
	}

	if img := base.AbsoluteURL(doc, doc.Find("img._396cs4").First().AttrOr("src", "")); img != "" {
		return img
	}
	return opengraph.ExtractImage(doc)
}
