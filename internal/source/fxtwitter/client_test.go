package fxtwitter

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookmark_sync/internal/domain"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return New(Config{BaseURL: srv.URL}, logger)
}

func TestFetch_RegularTweet(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/jane/status/123", r.URL.Path)
		json.NewEncoder(w).Encode(apiResponse{
			Tweet: tweetData{
				Text:   "just a tweet",
				Author: authorData{Name: "Jane", ScreenName: "jane"},
			},
		})
	}))

	b, title, err := c.Fetch(context.Background(), "jane", "123", "https://x.com/jane/status/123")
	require.NoError(t, err)
	assert.Empty(t, title)
	assert.Equal(t, domain.KindRegular, b.Kind)
	assert.Equal(t, "just a tweet", b.Text)
	assert.Equal(t, "Jane (@jane)", b.AuthorDisplay())
	assert.Equal(t, "https://x.com/jane/status/123", b.URL)
}

func TestFetch_Article(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(apiResponse{
			Tweet: tweetData{
				Author: authorData{Name: "Jane", ScreenName: "jane"},
				Article: &articleData{
					Title: "My Article",
					Content: articleContent{Blocks: []articleBlock{
						{Type: "header-one", Text: "Intro"},
						{Type: "unstyled", Text: "Some prose."},
						{Type: "unordered-list-item", Text: "a point"},
						{Type: "blockquote", Text: "a quote"},
					}},
				},
			},
		})
	}))

	b, title, err := c.Fetch(context.Background(), "jane", "123", "https://x.com/jane/status/123")
	require.NoError(t, err)
	assert.Equal(t, "My Article", title)
	assert.Equal(t, domain.KindLongForm, b.Kind)
	assert.Equal(t, "# Intro\n\nSome prose.\n\n• a point\n\n> a quote", b.Text)
}

func TestFetch_ServerError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, _, err := c.Fetch(context.Background(), "jane", "123", "url")
	assert.Error(t, err)
}
