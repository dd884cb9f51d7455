// Package scrapers finds the garment image on a shop's product page.
package scrapers

import "context"

// Scraper locates the main product image of a page it recognises
type Scraper interface {
	// CanScrape checks if the scraper can handle the given URL
	CanScrape(url string) bool
	// ProductImage returns the absolute URL of the page's main product image
	ProductImage(ctx context.Context, url string) (string, error)
}
