// Package fxtwitter fetches single tweets through the unauthenticated
// FXTwitter API, used by the SMS webhook where no user-context OAuth
// token is available.
package fxtwitter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"bookmark_sync/internal/domain"
)

const defaultBaseURL = "https://api.fxtwitter.com"

type Config struct {
	BaseURL string
	Timeout time.Duration
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		logger:     logger.With("source", "fxtwitter"),
	}
}

type apiResponse struct {
	Tweet tweetData `json:"tweet"`
}

type tweetData struct {
	Text    string       `json:"text"`
	Author  authorData   `json:"author"`
	Article *articleData `json:"article"`
}

type authorData struct {
	Name       string `json:"name"`
	ScreenName string `json:"screen_name"`
}

type articleData struct {
	Title   string         `json:"title"`
	Content articleContent `json:"content"`
}

type articleContent struct {
	Blocks []articleBlock `json:"blocks"`
}

type articleBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Fetch retrieves one tweet by handle and ID. The second return value
// is the article title for long-form articles, empty otherwise.
// Article block content is flattened into markdown-ish text; the
// Notion block builder understands the same conventions.
func (c *Client) Fetch(ctx context.Context, handle, tweetID, tweetURL string) (*domain.Bookmark, string, error) {
	reqURL := fmt.Sprintf("%s/%s/status/%s", c.baseURL, handle, tweetID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, "", fmt.Errorf("decode response: %w", err)
	}

	tweet := apiResp.Tweet
	b := &domain.Bookmark{
		ID:           tweetID,
		AuthorName:   orDefault(tweet.Author.Name, "Unknown"),
		AuthorHandle: orDefault(tweet.Author.ScreenName, "unknown"),
		URL:          tweetURL,
		BookmarkedAt: time.Now().UTC(),
	}

	if tweet.Article != nil {
		b.Kind = domain.KindLongForm
		b.Text = flattenArticle(tweet.Article.Content.Blocks)
		c.logger.Debug("fetched article", "id", tweetID, "title", tweet.Article.Title)
		return b, tweet.Article.Title, nil
	}

	b.Kind = domain.KindRegular
	b.Text = tweet.Text
	return b, "", nil
}

// flattenArticle renders article blocks as markdown-ish text, one
// paragraph per block.
func flattenArticle(blocks []articleBlock) string {
	parts := make([]string, 0, len(blocks))
	for _, block := range blocks {
		if block.Text == "" {
			continue
		}
		switch block.Type {
		case "header-one":
			parts = append(parts, "# "+block.Text)
		case "header-two":
			parts = append(parts, "## "+block.Text)
		case "header-three":
			parts = append(parts, "### "+block.Text)
		case "unordered-list-item", "ordered-list-item":
			parts = append(parts, "• "+block.Text)
		case "blockquote":
			parts = append(parts, "> "+block.Text)
		default:
			parts = append(parts, block.Text)
		}
	}
	return strings.TrimSpace(strings.Join(parts, "\n\n"))
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
