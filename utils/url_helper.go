package utils

import (
	"path"
	"strings"
)

// IsRemote reports whether src is an http(s) URL rather than a local path
func IsRemote(src string) bool {
	lower := strings.ToLower(src)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// FilenameFromURL returns the last path element of url without its query,
// or fallback when that is empty or unreasonably long
func FilenameFromURL(url, fallback string) string {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	if i := strings.Index(url, "://"); i >= 0 {
		url = url[i+3:]
		if j := strings.Index(url, "/"); j >= 0 {
			url = url[j:]
		} else {
			url = ""
		}
	}
	filename := path.Base(url)
	if filename == "" || filename == "." || filename == "/" || len(filename) > 255 {
		return fallback
	}
	return filename
}
