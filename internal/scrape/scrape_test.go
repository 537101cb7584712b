package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<!DOCTYPE html>
<html><head>
<meta property="og:image" content="https://cdn.example.com/lead.jpg">
<meta property="og:description" content="A longer summary of the story.">
</head><body><p>body</p></body></html>`

func TestExtractMeta(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer server.Close()

	e := NewExtractor(5 * time.Second)
	meta, err := e.ExtractMeta(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/lead.jpg", meta.ImageURL)
	assert.Equal(t, "A longer summary of the story.", meta.Description)
}

func TestExtractMetaFallbackSelectors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head>
<meta name="twitter:image" content="https://cdn.example.com/tw.jpg">
<meta name="description" content="Plain meta description.">
</head></html>`))
	}))
	defer server.Close()

	e := NewExtractor(5 * time.Second)
	meta, err := e.ExtractMeta(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/tw.jpg", meta.ImageURL)
	assert.Equal(t, "Plain meta description.", meta.Description)
}

func TestExtractMetaRejectsNonHTTPImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head>
<meta property="og:image" content="data:image/png;base64,xxxx">
</head></html>`))
	}))
	defer server.Close()

	e := NewExtractor(5 * time.Second)
	meta, err := e.ExtractMeta(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Empty(t, meta.ImageURL)
}

func TestExtractMetaCaches(t *testing.T) {
	var hits int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.Write([]byte(page))
	}))
	defer server.Close()

	e := NewExtractor(5 * time.Second)
	_, err := e.ExtractMeta(context.Background(), server.URL)
	require.NoError(t, err)
	_, err = e.ExtractMeta(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, int64(1), atomic.LoadInt64(&hits))
}

func TestExtractMetaHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	e := NewExtractor(5 * time.Second)
	_, err := e.ExtractMeta(context.Background(), server.URL)
	assert.Error(t, err)
}
