package twitter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"
	"unicode/utf8"

	"bookmark_sync/internal/domain"
)

const (
	defaultBaseURL = "https://api.twitter.com/2"

	// Free-tier ceiling for the bookmarks endpoint class.
	rateLimitCeiling = 180
	rateLimitWindow  = 15 * time.Minute

	// Bodies longer than this classify as long-form even without a
	// note payload.
	longFormThreshold = 280
)

// ErrAuthFailed means the OAuth 2.0 user-context token was rejected.
// Not retryable; the operator has to redo the OAuth flow.
var ErrAuthFailed = errors.New("twitter authentication failed")

// Config holds Twitter client configuration.
type Config struct {
	AccessToken string
	BaseURL     string
	PageSize    int
	Timeout     time.Duration
	MaxAttempts int
}

// Client talks to the Twitter API v2 bookmarks and search endpoints.
// It tracks rate-limit headers and blocks before a request would bust
// the window. Not safe for concurrent use; the sync loop is the single
// caller.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	token       string
	pageSize    int
	maxAttempts int
	logger      *slog.Logger

	accountID     string
	rateRemaining int
	rateReset     time.Time
}

func New(cfg Config, logger *slog.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	pageSize := cfg.PageSize
	if pageSize == 0 || pageSize > 100 {
		pageSize = 100
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts == 0 {
		maxAttempts = 3
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient:    &http.Client{Timeout: timeout},
		baseURL:       baseURL,
		token:         cfg.AccessToken,
		pageSize:      pageSize,
		maxAttempts:   maxAttempts,
		logger:        logger.With("source", "twitter"),
		rateRemaining: rateLimitCeiling,
	}
}

// AccountID resolves and caches the authenticated user's ID.
func (c *Client) AccountID(ctx context.Context) (string, error) {
	if c.accountID != "" {
		return c.accountID, nil
	}

	var resp userResponse
	if err := c.get(ctx, "/users/me", nil, &resp); err != nil {
		return "", fmt.Errorf("resolve account: %w", err)
	}

	c.accountID = resp.Data.ID
	c.logger.Info("authenticated", "account_id", c.accountID)
	return c.accountID, nil
}

// FetchPage fetches one page of bookmarks. The returned cursor is empty
// when the feed is exhausted.
func (c *Client) FetchPage(ctx context.Context, pageSize int, cursor string) ([]domain.Bookmark, string, error) {
	accountID, err := c.AccountID(ctx)
	if err != nil {
		return nil, "", err
	}

	if pageSize <= 0 || pageSize > 100 {
		pageSize = 100
	}

	params := url.Values{}
	params.Set("max_results", strconv.Itoa(pageSize))
	params.Set("tweet.fields", "author_id,created_at,text,conversation_id,referenced_tweets,note_tweet")
	params.Set("expansions", "author_id")
	params.Set("user.fields", "name,username")
	if cursor != "" {
		params.Set("pagination_token", cursor)
	}

	var resp apiResponse
	if err := c.get(ctx, "/users/"+accountID+"/bookmarks", params, &resp); err != nil {
		return nil, "", fmt.Errorf("fetch bookmarks page: %w", err)
	}

	users := usersByID(resp.Includes.Users)
	observedAt := time.Now().UTC()

	bookmarks := make([]domain.Bookmark, 0, len(resp.Data))
	for _, td := range resp.Data {
		bookmarks = append(bookmarks, c.parseTweet(td, users, observedAt))
	}

	c.logger.Info("fetched bookmarks page", "count", len(bookmarks), "has_next", resp.Meta.NextToken != "")
	return bookmarks, resp.Meta.NextToken, nil
}

// AllBookmarks lazily yields bookmarks across pages, stopping after
// limit items when limit > 0. Each call restarts pagination from the
// top of the feed; combined with the dedup set that reaches the same
// outcome as resumable cursors without trusting feed order to hold
// across runs.
func (c *Client) AllBookmarks(ctx context.Context, limit int) iter.Seq2[domain.Bookmark, error] {
	return func(yield func(domain.Bookmark, error) bool) {
		cursor := ""
		total := 0

		for {
			bookmarks, next, err := c.FetchPage(ctx, c.pageSize, cursor)
			if err != nil {
				yield(domain.Bookmark{}, err)
				return
			}

			for _, b := range bookmarks {
				if !yield(b, nil) {
					return
				}
				total++
				if limit > 0 && total >= limit {
					return
				}
			}

			if next == "" {
				return
			}
			cursor = next
		}
	}
}

// FetchThread fetches the author's tweets in a conversation, oldest
// first. Thread enrichment is best-effort: failures log and return nil.
func (c *Client) FetchThread(ctx context.Context, conversationID, authorID string) []domain.Bookmark {
	params := url.Values{}
	params.Set("query", fmt.Sprintf("conversation_id:%s from:%s", conversationID, authorID))
	params.Set("tweet.fields", "author_id,created_at,text,conversation_id")
	params.Set("expansions", "author_id")
	params.Set("user.fields", "name,username")
	params.Set("max_results", "100")

	var resp apiResponse
	if err := c.get(ctx, "/tweets/search/recent", params, &resp); err != nil {
		c.logger.Warn("failed to fetch thread", "conversation_id", conversationID, "error", err)
		return nil
	}

	users := usersByID(resp.Includes.Users)
	tweets := make([]domain.Bookmark, 0, len(resp.Data))
	for _, td := range resp.Data {
		tweets = append(tweets, c.parseTweet(td, users, time.Time{}))
	}

	sort.Slice(tweets, func(i, j int) bool {
		return tweets[i].CreatedAt.Before(tweets[j].CreatedAt)
	})

	c.logger.Debug("fetched thread", "conversation_id", conversationID, "count", len(tweets))
	return tweets
}

// EnrichWithThread would backfill sibling tweets for thread bookmarks.
// Deliberately a pass-through: automatic backfill multiplies API call
// volume, so threads are only marked, not expanded.
func (c *Client) EnrichWithThread(b domain.Bookmark) domain.Bookmark {
	if b.Kind != domain.KindThread {
		return b
	}
	c.logger.Debug("bookmark is part of a thread", "id", b.ID)
	return b
}

func (c *Client) parseTweet(td tweetData, users map[string]userData, observedAt time.Time) domain.Bookmark {
	author, ok := users[td.AuthorID]
	if !ok {
		author = userData{Name: "Unknown", Username: "unknown"}
	}

	createdAt, err := time.Parse(time.RFC3339, td.CreatedAt)
	if err != nil {
		createdAt = time.Now().UTC()
	}

	return domain.Bookmark{
		ID:           td.ID,
		Text:         td.Text,
		AuthorName:   author.Name,
		AuthorHandle: author.Username,
		URL:          fmt.Sprintf("https://twitter.com/%s/status/%s", author.Username, td.ID),
		CreatedAt:    createdAt,
		BookmarkedAt: observedAt,
		Kind:         detectKind(td),
		Truncated:    td.Truncated,
	}
}

// detectKind classifies a raw tweet, in priority order: long-form note
// payload, reply (tentatively a thread), over-length text, regular.
func detectKind(td tweetData) domain.ContentKind {
	if td.NoteTweet != nil {
		return domain.KindLongForm
	}
	for _, ref := range td.ReferencedTweets {
		if ref.Type == "replied_to" {
			return domain.KindThread
		}
	}
	if utf8.RuneCountInString(td.Text) > longFormThreshold {
		return domain.KindLongForm
	}
	return domain.KindRegular
}

func usersByID(users []userData) map[string]userData {
	m := make(map[string]userData, len(users))
	for _, u := range users {
		m[u.ID] = u
	}
	return m
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.waitForRateLimit(ctx); err != nil {
		return err
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	var lastErr error
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("execute request: %w", err)
			c.logger.Warn("request failed", "attempt", attempt+1, "error", err)
			if err := c.sleep(ctx, backoff(attempt)); err != nil {
				return err
			}
			continue
		}

		c.trackRateLimit(resp)

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			resp.Body.Close()
			wait := retryAfter(resp)
			lastErr = fmt.Errorf("rate limited")
			c.logger.Warn("rate limited, waiting", "seconds", wait.Seconds())
			if err := c.sleep(ctx, wait); err != nil {
				return err
			}
			continue

		case resp.StatusCode == http.StatusUnauthorized:
			resp.Body.Close()
			return ErrAuthFailed

		case resp.StatusCode != http.StatusOK:
			resp.Body.Close()
			lastErr = fmt.Errorf("unexpected status: %d", resp.StatusCode)
			c.logger.Warn("request failed", "attempt", attempt+1, "status", resp.StatusCode)
			if err := c.sleep(ctx, backoff(attempt)); err != nil {
				return err
			}
			continue
		}

		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}

	return fmt.Errorf("after %d attempts: %w", c.maxAttempts, lastErr)
}

// waitForRateLimit blocks until the window resets when the tracked
// remaining count is nearly exhausted.
func (c *Client) waitForRateLimit(ctx context.Context) error {
	if c.rateRemaining > 1 || c.rateReset.IsZero() {
		return nil
	}

	wait := time.Until(c.rateReset) + time.Second
	if wait <= 0 {
		return nil
	}

	c.logger.Warn("rate limit reached, waiting", "seconds", wait.Seconds())
	if err := c.sleep(ctx, wait); err != nil {
		return err
	}
	c.rateRemaining = rateLimitCeiling
	return nil
}

func (c *Client) trackRateLimit(resp *http.Response) {
	if v := resp.Header.Get("x-rate-limit-remaining"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.rateRemaining = n
		}
	}
	if v := resp.Header.Get("x-rate-limit-reset"); v != "" {
		if sec, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.rateReset = time.Unix(sec, 0)
		}
	}
}

func (c *Client) sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

func retryAfter(resp *http.Response) time.Duration {
	if v := resp.Header.Get("retry-after"); v != "" {
		if sec, err := strconv.Atoi(v); err == nil {
			return time.Duration(sec) * time.Second
		}
	}
	return time.Minute
}

func backoff(attempt int) time.Duration {
	return time.Duration(1<<attempt) * time.Second
}
