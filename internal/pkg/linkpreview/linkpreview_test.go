package linkpreview

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchOpenGraph(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><head>
			<title>fallback title</title>
			<meta property="og:title" content="OG Title" />
			<meta property="og:description" content="OG Description" />
			<meta property="og:image" content="https://example.com/cover.png" />
		</head><body></body></html>`))
	}))
	defer srv.Close()

	preview, err := NewFetcher().Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, srv.URL, preview.URL)
	assert.Equal(t, "OG Title", preview.Title)
	assert.Equal(t, "OG Description", preview.Description)
	assert.Equal(t, "https://example.com/cover.png", preview.ImageURL)
}

func TestFetchFallbacks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><head>
			<title> Plain Title </title>
			<meta name="description" content="plain description" />
		</head><body></body></html>`))
	}))
	defer srv.Close()

	preview, err := NewFetcher().Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Plain Title", preview.Title)
	assert.Equal(t, "plain description", preview.Description)
	assert.Empty(t, preview.ImageURL)
}

func TestFetchRejectsBadInput(t *testing.T) {
	_, err := NewFetcher().Fetch(context.Background(), "ftp://example.com/file")
	assert.Error(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err = NewFetcher().Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
}
