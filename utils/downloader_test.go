package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestFilenameFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{url: "https://cdn.example.com/img/shirt.jpg?w=400", want: "shirt.jpg"},
		{url: "http://example.com/a/b/model.png#frag", want: "model.png"},
		{url: "https://example.com/", want: "image"},
		{url: "https://example.com", want: "image"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := FilenameFromURL(tt.url, "image"); got != tt.want {
				t.Errorf("FilenameFromURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadImages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Error("download sent no User-Agent")
		}
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("jpeg"))
	}))
	defer srv.Close()

	local := filepath.Join(t.TempDir(), "person.png")
	if err := os.WriteFile(local, []byte("\x89PNG\r\n\x1a\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	files, err := LoadImages(context.Background(), []string{local, srv.URL + "/garments/cloth.jpg?size=l"})
	if err != nil {
		t.Fatalf("LoadImages() error = %v", err)
	}

	if files[0].Name != "person.png" || files[0].ContentType != "image/png" {
		t.Errorf("local file = %s (%s)", files[0].Name, files[0].ContentType)
	}
	if files[1].Name != "cloth.jpg" || files[1].ContentType != "image/jpeg" || string(files[1].Data) != "jpeg" {
		t.Errorf("remote file = %s (%s) %q", files[1].Name, files[1].ContentType, files[1].Data)
	}
}

func TestLoadImages_Failures(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	for _, src := range []string{"", filepath.Join(t.TempDir(), "missing.png"), srv.URL + "/gone.png"} {
		if _, err := LoadImages(context.Background(), []string{src}); err == nil {
			t.Errorf("Expected an error for %q", src)
		}
	}
}
