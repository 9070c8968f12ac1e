package fetcher

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("https://cache.phantombuster.com/result.csv"))
	assert.True(t, IsURL("HTTP://example.com/a.csv"))
	assert.False(t, IsURL("/tmp/listings.csv"))
	assert.False(t, IsURL("listings.csv"))
}

func TestOpen_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listings.csv")
	require.NoError(t, os.WriteFile(path, []byte("title,website\n"), 0o644))

	r, err := Open(context.Background(), nil, path)
	require.NoError(t, err)
	defer r.Close() //nolint:errcheck

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "title,website\n", string(data))
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(context.Background(), nil, filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetcher: open")
}

func TestOpen_URL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("title,website\nAcme,acme.com\n"))
	}))
	defer srv.Close()

	r, err := Open(context.Background(), newTestFetcher(), srv.URL+"/result.csv")
	require.NoError(t, err)
	defer r.Close() //nolint:errcheck

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Acme")
}

func TestOpen_URLWithoutFetcher(t *testing.T) {
	_, err := Open(context.Background(), nil, "https://example.com/a.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no downloader")
}
