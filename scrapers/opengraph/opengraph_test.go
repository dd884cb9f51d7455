package opengraph

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func parse(t *testing.T, page, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}
	doc.Url, _ = url.Parse(page)
	return doc
}

func TestExtractImage(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "og image",
			html: `<head><meta property="og:image" content="https://cdn.shop.test/jacket.jpg"></head>`,
			want: "https://cdn.shop.test/jacket.jpg",
		},
		{
			name: "relative og image",
			html: `<head><meta property="og:image" content="/media/jacket.jpg"></head>`,
			want: "https://shop.test/media/jacket.jpg",
		},
		{
			name: "twitter card",
			html: `<head><meta name="twitter:image" content="https://cdn.shop.test/t.jpg"></head>`,
			want: "https://cdn.shop.test/t.jpg",
		},
		{
			name: "image_src link",
			html: `<head><link rel="image_src" href="img/dress.png"></head>`,
			want: "https://shop.test/p/img/dress.png",
		},
		{
			name: "json-ld product in graph",
			html: `<script type="application/ld+json">{"@graph":[{"@type":"WebPage"},{"@type":"Product","image":[{"@type":"ImageObject","url":"https://cdn.shop.test/ld.jpg"}]}]}</script>`,
			want: "https://cdn.shop.test/ld.jpg",
		},
		{
			name: "json-ld without product",
			html: `<script type="application/ld+json">{"@type":"Organization","image":"https://cdn.shop.test/logo.png"}</script>`,
			want: "",
		},
		{
			name: "data uri ignored",
			html: `<head><meta property="og:image" content="data:image/png;base64,AAAA"></head>`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parse(t, "https://shop.test/p/item", tt.html)
			if got := ExtractImage(doc); got != tt.want {
				t.Errorf("ExtractImage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProductImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/old":
			http.Redirect(w, r, "/products/jacket", http.StatusMovedPermanently)
		case "/products/jacket":
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte(`<html><head><title>Jacket</title><meta property="og:image" content="../img/jacket.jpg"></head><body>Jacket</body></html>`))
		default:
			w.Write([]byte(`<html><head><title>Robot Check</title></head><body></body></html>`))
		}
	}))
	defer srv.Close()

	s := NewOpenGraphScraper()
	s.Browser = false

	got, err := s.ProductImage(context.Background(), srv.URL+"/old")
	if err != nil {
		t.Fatalf("ProductImage() error = %v", err)
	}
	if want := srv.URL + "/img/jacket.jpg"; got != want {
		t.Errorf("ProductImage() = %q, want %q", got, want)
	}

	if _, err := s.ProductImage(context.Background(), srv.URL+"/blocked"); err == nil {
		t.Error("Expected an error for a bot wall")
	}
}
