package flipkart

import (
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func TestExtractImage(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "thumbnail upscaled",
			html: `<ul class="_3GnUWp"><li class="_20Gt85"><img src="https://rukminim1.flixcart.com/image/128/128/xif0q/shirt.jpeg"></li></ul>`,
			want: "https://rukminim1.flixcart.com/image/832/832/xif0q/shirt.jpeg",
		},
		{
			name: "main image",
			html: `<img class="_396cs4" src="https://rukminim1.flixcart.com/image/416/416/main.jpeg">`,
			want: "https://rukminim1.flixcart.com/image/416/416/main.jpeg",
		},
		{
			name: "preview fallback",
			html: `<head><meta property="og:image" content="//rukminim1.flixcart.com/og.jpeg"></head>`,
			want: "https://rukminim1.flixcart.com/og.jpeg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := goquery.NewDocumentFromReader(strings.NewReader(tt.html))
			if err != nil {
				t.Fatal(err)
			}
			doc.Url, _ = url.Parse("https://www.flipkart.com/shirt/p/itm123")
			if got := ExtractImage(doc); got != tt.want {
				t.Errorf("ExtractImage() = %q, want %q", got, tt.want)
			}
		})
	}
}
