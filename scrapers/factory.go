package scrapers

import (
	"context"
	"fmt"

	"github.com/raushankrgupta/virtual-try-on/scrapers/amazon"
	"github.com/raushankrgupta/virtual-try-on/scrapers/flipkart"
	"github.com/raushankrgupta/virtual-try-on/scrapers/opengraph"
	"github.com/raushankrgupta/virtual-try-on/utils"
	"go.uber.org/zap"
)

// GetScraper returns the first registered scraper that handles url. The OpenGraph scraper
// accepts any page, so a scraper is always found.
func GetScraper(url string) Scraper {
	// Register scrapers here, most specific first
	scrapers := []Scraper{
		amazon.NewAmazonScraper(),
		flipkart.NewFlipkartScraper(),
		opengraph.NewOpenGraphScraper(),
	}

	for _, s := range scrapers {
		if s.CanScrape(url) {
			return s
		}
	}
	return opengraph.NewOpenGraphScraper()
}

// ResolveProductImage turns a product page URL into the URL of its garment image
func ResolveProductImage(ctx context.Context, pageURL string) (string, error) {
	if !utils.IsRemote(pageURL) {
		return "", fmt.Errorf("product page must be an http(s) URL: %s", pageURL)
	}
	img, err := GetScraper(pageURL).ProductImage(ctx, pageURL)
	if err != nil {
		return "", fmt.Errorf("no product image found on %s: %w", pageURL, err)
	}
	utils.Logger.Info("resolved product image", zap.String("page", pageURL), zap.String("image", img))
	return img, nil
}
