package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"bookmark_sync/internal/domain"
)

// Database property names.
const (
	PropertyTitle          = "Title"
	PropertyContent        = "Content"
	PropertyAuthor         = "Author"
	PropertyURL            = "URL"
	PropertyBookmarkedDate = "Bookmarked Date"
	PropertyTweetDate      = "Tweet Date"
	PropertyType           = "Type"
	PropertyStatus         = "Status"
	PropertyCategory       = "Category"
)

const (
	defaultBaseURL = "https://api.notion.com"
	notionVersion  = "2022-06-28"
	defaultStatus  = "Unread"
)

// requiredProperties is the minimal schema subset a usable database
// must carry.
var requiredProperties = []string{PropertyTitle, PropertyContent, PropertyURL}

type Config struct {
	Token       string
	DatabaseID  string
	BaseURL     string
	Timeout     time.Duration
	MaxAttempts int
}

// Client writes bookmarks into a Notion database.
type Client struct {
	httpClient  *http.Client
	token       string
	databaseID  string
	baseURL     string
	maxAttempts int
	logger      *slog.Logger

	// validated memoizes a positive schema check only; a failed check
	// is re-run so remediation can be picked up.
	validated bool
}

func New(cfg Config, logger *slog.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts == 0 {
		maxAttempts = 3
	}

	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		token:       cfg.Token,
		databaseID:  cfg.DatabaseID,
		baseURL:     baseURL,
		maxAttempts: maxAttempts,
		logger:      logger.With("destination", "notion"),
	}
}

// APIError is a non-2xx response from the Notion API.
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("notion api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

// AddBookmark creates one page for the bookmark and returns the page
// ID. Rate limits and transient failures are retried with exponential
// backoff; validation errors fail immediately.
func (c *Client) AddBookmark(ctx context.Context, b *domain.Bookmark) (string, error) {
	title := fmt.Sprintf("Tweet from @%s%s", b.AuthorHandle, ellipsis)
	if strings.TrimSpace(b.Text) != "" {
		title = truncateTitle(b.Text)
	}

	properties := map[string]Property{
		PropertyTitle:   titleProperty(title),
		PropertyContent: richTextProperty(chunkText(b.FullText())),
		PropertyAuthor:  richTextProperty([]RichText{newRichText(b.AuthorDisplay())}),
		PropertyURL:     urlProperty(b.URL),
		PropertyType:    selectProperty(string(b.Kind)),
		PropertyStatus:  selectProperty(defaultStatus),
	}
	if !b.CreatedAt.IsZero() {
		properties[PropertyTweetDate] = dateProperty(b.CreatedAt)
	}
	if !b.BookmarkedAt.IsZero() {
		properties[PropertyBookmarkedDate] = dateProperty(b.BookmarkedAt)
	}

	pageID, err := c.createPage(ctx, pageCreateRequest{
		Parent:     databaseParent{DatabaseID: c.databaseID},
		Properties: properties,
	})
	if err != nil {
		return "", err
	}

	c.logger.Info("added bookmark", "id", b.ID, "page_id", pageID)
	return pageID, nil
}

// Submission is a single item saved through the SMS webhook: a fetched
// tweet plus an optional title override and category.
type Submission struct {
	Bookmark *domain.Bookmark
	Title    string
	Category string
}

// AddSubmission creates a page with the tweet text as the page body,
// so long-form articles read well in Notion.
func (c *Client) AddSubmission(ctx context.Context, sub Submission) (string, error) {
	b := sub.Bookmark

	title := sub.Title
	if title == "" {
		title = "Tweet"
		if strings.TrimSpace(b.Text) != "" {
			title = truncateTitle(b.Text)
		}
	}

	properties := map[string]Property{
		PropertyTitle:          titleProperty(truncateTitle(title)),
		PropertyAuthor:         richTextProperty([]RichText{newRichText(b.AuthorDisplay())}),
		PropertyURL:            urlProperty(b.URL),
		PropertyBookmarkedDate: dateProperty(b.BookmarkedAt),
		PropertyType:           selectProperty(string(b.Kind)),
		PropertyStatus:         selectProperty(defaultStatus),
	}
	if sub.Category != "" {
		properties[PropertyCategory] = selectProperty(sub.Category)
	}

	pageID, err := c.createPage(ctx, pageCreateRequest{
		Parent:     databaseParent{DatabaseID: c.databaseID},
		Properties: properties,
		Children:   textToBlocks(b.Text),
	})
	if err != nil {
		return "", err
	}

	c.logger.Info("added submission", "url", b.URL, "page_id", pageID)
	return pageID, nil
}

func (c *Client) createPage(ctx context.Context, req pageCreateRequest) (string, error) {
	var lastErr error

	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		var resp pageResponse
		err := c.do(ctx, http.MethodPost, "/v1/pages", req, &resp)
		if err == nil {
			return resp.ID, nil
		}
		lastErr = err

		var apiErr *APIError
		if errors.As(err, &apiErr) {
			switch {
			case apiErr.StatusCode == http.StatusTooManyRequests:
				c.logger.Warn("rate limited, backing off", "attempt", attempt+1)
			case apiErr.StatusCode == http.StatusBadRequest:
				// Schema or payload problem; retrying won't help.
				return "", err
			default:
				c.logger.Warn("create page failed", "attempt", attempt+1, "error", err)
			}
		} else {
			c.logger.Warn("create page failed", "attempt", attempt+1, "error", err)
		}

		if attempt < c.maxAttempts-1 {
			if err := sleepCtx(ctx, time.Duration(1<<attempt)*time.Second); err != nil {
				return "", err
			}
		}
	}

	return "", fmt.Errorf("after %d attempts: %w", c.maxAttempts, lastErr)
}

// ValidateDatabase checks that the minimal required properties exist.
// Only a positive result is cached.
func (c *Client) ValidateDatabase(ctx context.Context) bool {
	if c.validated {
		return true
	}

	var db databaseResponse
	if err := c.do(ctx, http.MethodGet, "/v1/databases/"+c.databaseID, nil, &db); err != nil {
		c.logger.Error("failed to validate database", "error", err)
		return false
	}

	var missing []string
	for _, name := range requiredProperties {
		if _, ok := db.Properties[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		c.logger.Warn("database is missing properties", "missing", missing)
		return false
	}

	c.validated = true
	c.logger.Info("database schema validated")
	return true
}

// SetupDatabase adds any missing properties to the database schema.
// Idempotent: a second call finds nothing missing and patches nothing.
func (c *Client) SetupDatabase(ctx context.Context) error {
	var db databaseResponse
	if err := c.do(ctx, http.MethodGet, "/v1/databases/"+c.databaseID, nil, &db); err != nil {
		return fmt.Errorf("retrieve database: %w", err)
	}

	expected := map[string]PropertyConfig{
		PropertyContent:        richTextConfig(),
		PropertyAuthor:         richTextConfig(),
		PropertyURL:            urlConfig(),
		PropertyBookmarkedDate: dateConfig(),
		PropertyTweetDate:      dateConfig(),
		PropertyType: selectConfig(
			SelectOption{Name: string(domain.KindRegular), Color: "blue"},
			SelectOption{Name: string(domain.KindThread), Color: "green"},
			SelectOption{Name: string(domain.KindLongForm), Color: "purple"},
		),
		PropertyStatus: selectConfig(
			SelectOption{Name: "Unread", Color: "red"},
			SelectOption{Name: "Read", Color: "yellow"},
			SelectOption{Name: "Archived", Color: "gray"},
		),
	}

	toAdd := make(map[string]PropertyConfig)
	for name, config := range expected {
		if _, ok := db.Properties[name]; !ok {
			toAdd[name] = config
		}
	}

	if len(toAdd) > 0 {
		err := c.do(ctx, http.MethodPatch, "/v1/databases/"+c.databaseID, databaseUpdateRequest{Properties: toAdd}, nil)
		if err != nil {
			return fmt.Errorf("update database schema: %w", err)
		}
		names := make([]string, 0, len(toAdd))
		for name := range toAdd {
			names = append(names, name)
		}
		c.logger.Info("added properties to database", "properties", names)
	}

	c.validated = true
	return nil
}

// BookmarkExists queries the database for a page whose URL contains
// the tweet's canonical path fragment. Slower than the local dedup
// set; used as an independent secondary check.
func (c *Client) BookmarkExists(ctx context.Context, tweetID string) (bool, error) {
	req := queryRequest{
		Filter: &propertyFilter{
			Property: PropertyURL,
			URL:      &textCondition{Contains: "status/" + tweetID},
		},
		PageSize: 1,
	}

	var resp queryResponse
	if err := c.do(ctx, http.MethodPost, "/v1/databases/"+c.databaseID+"/query", req, &resp); err != nil {
		return false, fmt.Errorf("query database: %w", err)
	}
	return len(resp.Results) > 0, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", notionVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

