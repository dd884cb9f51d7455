package api

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/raushankrgupta/virtual-try-on/storage"
)

func TestSafeImageURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "data:image/png;base64,AAAA", want: "data:image/png;base64,AAAA"},
		{in: "DATA:IMAGE/JPEG;base64,AAAA", want: "DATA:IMAGE/JPEG;base64,AAAA"},
		{in: "https://cdn.example.com/r.png", want: "https://cdn.example.com/r.png"},
		{in: "http://localhost:8000/r.png", want: "http://localhost:8000/r.png"},
		{in: "javascript:alert(1)", want: ""},
		{in: " JavaScript:alert(1)", want: ""},
		{in: "data:text/html;base64,PHNjcmlwdD4=", want: ""},
		{in: "vbscript:msgbox", want: ""},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := string(safeImageURL(tt.in)); got != tt.want {
				t.Errorf("safeImageURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestIndexHandler_DropsScriptResultImage(t *testing.T) {
	backend := &backendStub{body: `{"image":"javascript:alert(document.cookie)","text":"Great fit!"}`}
	app := newTestApp(t, backend, storage.NewMemoryStore())
	for _, slot := range []string{"person", "cloth"} {
		app.upload(t, slot, "a.png", "image/png", pngBytes(), true).Body.Close()
	}

	resp := app.postForm(t, "/api/try-on", url.Values{}, true)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	doc := app.page(t)
	img := doc.Find(`#result img`)
	if img.Length() != 1 {
		t.Fatalf("Expected the result image element, found %d", img.Length())
	}
	if src, _ := img.Attr("src"); src != "" {
		t.Errorf("result image src = %q, want it dropped", src)
	}
	if src, _ := doc.Find(".history-item img").Attr("src"); src != "" {
		t.Errorf("history image src = %q, want it dropped", src)
	}
}
