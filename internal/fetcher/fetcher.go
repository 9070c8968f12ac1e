// Package fetcher downloads scraper exports and reads tabular CSV and XLSX files.
package fetcher

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
)

// Fetcher downloads remote files.
type Fetcher interface {
	// Download fetches the URL and returns the response body.
	Download(ctx context.Context, url string) (io.ReadCloser, error)
}

// IsURL reports whether src should be downloaded rather than opened.
func IsURL(src string) bool {
	s := strings.ToLower(src)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Open returns a reader for src: an http(s) URL goes through f, anything
// else is a local path.
func Open(ctx context.Context, f Fetcher, src string) (io.ReadCloser, error) {
	if IsURL(src) {
		if f == nil {
			return nil, eris.Errorf("fetcher: no downloader for %s", src)
		}
		return f.Download(ctx, src)
	}
	r, err := os.Open(src)
	if err != nil {
		return nil, eris.Wrap(err, "fetcher: open")
	}
	return r, nil
}
