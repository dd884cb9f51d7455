//go:build e2e

package api

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/raushankrgupta/virtual-try-on/storage"
)

func TestBrowser_UploadSubmitAndTheme(t *testing.T) {
	backend := &backendStub{body: `{"image":"data:image/png;base64,iVBORw0KGgo=","text":"Great fit!"}`}
	app := newTestApp(t, backend, storage.NewMemoryStore())

	dir := t.TempDir()
	person := filepath.Join(dir, "person.png")
	cloth := filepath.Join(dir, "cloth.png")
	for _, p := range []string{person, cloth} {
		if err := os.WriteFile(p, pngBytes(), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.NoSandbox)
	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)
	defer cancel()
	ctx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()
	ctx, cancel = context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	var heading, caption, bodyClass string
	err := chromedp.Run(ctx,
		chromedp.Navigate(app.server.URL+"/"),
		chromedp.Text("h1", &heading, chromedp.ByQuery),

		chromedp.SetUploadFiles(`#picker-person input[type="file"]`, []string{person}, chromedp.ByQuery),
		chromedp.WaitVisible(`#picker-person img`, chromedp.ByQuery),
		chromedp.SetUploadFiles(`#picker-cloth input[type="file"]`, []string{cloth}, chromedp.ByQuery),
		chromedp.WaitVisible(`#picker-cloth img`, chromedp.ByQuery),

		chromedp.SendKeys(`textarea[name="instructions"]`, "casual fit", chromedp.ByQuery),
		chromedp.Click("#submit", chromedp.ByQuery),
		chromedp.WaitVisible("#result", chromedp.ByQuery),
		chromedp.Text("#result .caption", &caption, chromedp.ByQuery),

		chromedp.Click("#theme-toggle", chromedp.ByQuery),
		chromedp.WaitVisible("body.dark", chromedp.ByQuery),
		chromedp.Reload(),
		chromedp.AttributeValue("body", "class", &bodyClass, nil, chromedp.ByQuery),
	)
	if err != nil {
		t.Fatalf("browser run failed: %v", err)
	}

	if heading != "Try-On Clothes in Seconds" {
		t.Errorf("heading = %q", heading)
	}
	if strings.TrimSpace(caption) != "Great fit!" {
		t.Errorf("caption = %q", caption)
	}
	if bodyClass != "dark" {
		t.Errorf("body class after reload = %q", bodyClass)
	}
	if backend.calls() != 1 {
		t.Errorf("Expected 1 backend call, got %d", backend.calls())
	}
	if got := backend.forms[0].Get("instructions"); got != "casual fit" {
		t.Errorf("instructions sent = %q", got)
	}
}
