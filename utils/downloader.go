package utils

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/raushankrgupta/virtual-try-on/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// downloadLimit caps how much of a remote image is read; the picker rejects anything this large anyway
const downloadLimit = 64 << 20

// LoadImages reads each source, a local path or an http(s) URL, into an ImageFile.
// Results keep the order of sources; the first failure cancels the rest and is returned.
func LoadImages(ctx context.Context, sources []string) ([]*models.ImageFile, error) {
	files := make([]*models.ImageFile, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	// Limit concurrency
	g.SetLimit(5)

	for i, src := range sources {
		g.Go(func() error {
			f, err := LoadImage(ctx, src)
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", src, err)
			}
			files[i] = f
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// LoadImage reads a single local path or http(s) URL
func LoadImage(ctx context.Context, src string) (*models.ImageFile, error) {
	if src == "" {
		return nil, fmt.Errorf("empty image source")
	}
	if IsRemote(src) {
		return downloadImage(ctx, src)
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return nil, err
	}
	return &models.ImageFile{
		Name:        filepath.Base(src),
		ContentType: detectContentType(src, "", data),
		Data:        data,
	}, nil
}

func downloadImage(ctx context.Context, url string) (*models.ImageFile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, downloadLimit))
	if err != nil {
		return nil, err
	}

	// redirects may have changed the name
	name := FilenameFromURL(resp.Request.URL.String(), "image")
	Logger.Debug("downloaded image", zap.String("url", url), zap.String("name", name), zap.Int("bytes", len(data)))

	return &models.ImageFile{
		Name:        name,
		ContentType: detectContentType(name, resp.Header.Get("Content-Type"), data),
		Data:        data,
	}, nil
}

// detectContentType prefers the declared type, then the file extension, then sniffing
func detectContentType(name, declared string, data []byte) string {
	if declared != "" {
		if mediaType, _, err := mime.ParseMediaType(declared); err == nil && mediaType != "application/octet-stream" {
			return mediaType
		}
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); byExt != "" {
		if mediaType, _, err := mime.ParseMediaType(byExt); err == nil {
			return mediaType
		}
	}
	return http.DetectContentType(data)
}
