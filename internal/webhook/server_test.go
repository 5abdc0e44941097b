package webhook

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookmark_sync/internal/config"
	"bookmark_sync/internal/domain"
	"bookmark_sync/internal/notion"
)

type stubFetcher struct {
	bookmark *domain.Bookmark
	title    string
	err      error
	calls    int
}

func (f *stubFetcher) Fetch(ctx context.Context, handle, tweetID, tweetURL string) (*domain.Bookmark, string, error) {
	f.calls++
	if f.err != nil {
		return nil, "", f.err
	}
	return f.bookmark, f.title, nil
}

type stubSaver struct {
	submissions []notion.Submission
	err         error
}

func (s *stubSaver) AddSubmission(ctx context.Context, sub notion.Submission) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.submissions = append(s.submissions, sub)
	return "page-1", nil
}

func disabled() *bool {
	f := false
	return &f
}

func testConfig() config.WebhookConfig {
	return config.WebhookConfig{
		Port:              5000,
		TwilioAuthToken:   "test-token",
		ValidateSignature: disabled(),
		RateLimitRequests: 10,
		RateLimitWindow:   time.Minute,
		RequestTimeout:    5 * time.Second,
	}
}

func postSMS(t *testing.T, handler http.Handler, from, body string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"From": {from}, "Body": {body}}
	req := httptest.NewRequest(http.MethodPost, "/sms", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleSMS_SavesTweet(t *testing.T) {
	fetcher := &stubFetcher{
		bookmark: &domain.Bookmark{
			ID:           "123",
			Text:         "an interesting tweet",
			AuthorHandle: "user",
			URL:          "https://x.com/user/status/123",
			Kind:         domain.KindRegular,
		},
	}
	saver := &stubSaver{}
	srv := NewServer(testConfig(), fetcher, saver, slog.New(slog.DiscardHandler))

	rec := postSMS(t, srv.Handler(), "+15551234567", "https://x.com/user/status/123 tech")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "Saved [Tech]: an interesting tweet")

	require.Len(t, saver.submissions, 1)
	assert.Equal(t, "123", saver.submissions[0].Bookmark.ID)
	assert.Equal(t, "Tech", saver.submissions[0].Category)
	assert.Equal(t, 1, fetcher.calls)
}

func TestHandleSMS_ArticleTitleInConfirmation(t *testing.T) {
	fetcher := &stubFetcher{
		bookmark: &domain.Bookmark{ID: "9", Text: "body", Kind: domain.KindLongForm},
		title:    "A Long Article",
	}
	saver := &stubSaver{}
	srv := NewServer(testConfig(), fetcher, saver, slog.New(slog.DiscardHandler))

	rec := postSMS(t, srv.Handler(), "+15551234567", "https://x.com/a/status/9")

	assert.Contains(t, rec.Body.String(), "Saved: A Long Article")
	require.Len(t, saver.submissions, 1)
	assert.Equal(t, "A Long Article", saver.submissions[0].Title)
}

func TestHandleSMS_NoTweetURL(t *testing.T) {
	fetcher := &stubFetcher{}
	srv := NewServer(testConfig(), fetcher, &stubSaver{}, slog.New(slog.DiscardHandler))

	rec := postSMS(t, srv.Handler(), "+15551234567", "hello there")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No tweet URL found")
	assert.Equal(t, 0, fetcher.calls)
}

func TestHandleSMS_FetchFailure(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("tweet gone")}
	srv := NewServer(testConfig(), fetcher, &stubSaver{}, slog.New(slog.DiscardHandler))

	rec := postSMS(t, srv.Handler(), "+15551234567", "https://x.com/a/status/1")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Couldn't fetch that tweet")
}

func TestHandleSMS_SaveFailure(t *testing.T) {
	fetcher := &stubFetcher{bookmark: &domain.Bookmark{ID: "1", Text: "x"}}
	saver := &stubSaver{err: errors.New("api down")}
	srv := NewServer(testConfig(), fetcher, saver, slog.New(slog.DiscardHandler))

	rec := postSMS(t, srv.Handler(), "+15551234567", "https://x.com/a/status/1")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to save to Notion")
}

func TestHandleSMS_AllowList(t *testing.T) {
	cfg := testConfig()
	cfg.AllowedNumbers = []string{"+15550000000"}
	fetcher := &stubFetcher{bookmark: &domain.Bookmark{ID: "1", Text: "x"}}
	srv := NewServer(cfg, fetcher, &stubSaver{}, slog.New(slog.DiscardHandler))

	rec := postSMS(t, srv.Handler(), "+15559999999", "https://x.com/a/status/1")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, 0, fetcher.calls)

	rec = postSMS(t, srv.Handler(), "+15550000000", "https://x.com/a/status/1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, fetcher.calls)
}

func TestHandleSMS_RateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitRequests = 2
	cfg.RateLimitWindow = time.Hour
	fetcher := &stubFetcher{bookmark: &domain.Bookmark{ID: "1", Text: "x"}}
	srv := NewServer(cfg, fetcher, &stubSaver{}, slog.New(slog.DiscardHandler))

	handler := srv.Handler()
	for i := 0; i < 2; i++ {
		rec := postSMS(t, handler, "+15551234567", "https://x.com/a/status/1")
		assert.Contains(t, rec.Body.String(), "Saved")
	}

	rec := postSMS(t, handler, "+15551234567", "https://x.com/a/status/1")
	assert.Contains(t, rec.Body.String(), "too fast")

	// Another sender has its own budget.
	rec = postSMS(t, handler, "+15557654321", "https://x.com/a/status/1")
	assert.Contains(t, rec.Body.String(), "Saved")
}

func TestHandleSMS_InvalidSignatureRejected(t *testing.T) {
	cfg := testConfig()
	cfg.ValidateSignature = nil // defaults to enabled
	fetcher := &stubFetcher{bookmark: &domain.Bookmark{ID: "1", Text: "x"}}
	srv := NewServer(cfg, fetcher, &stubSaver{}, slog.New(slog.DiscardHandler))

	rec := postSMS(t, srv.Handler(), "+15551234567", "https://x.com/a/status/1")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, 0, fetcher.calls)
}

func TestHandleHealth(t *testing.T) {
	srv := NewServer(testConfig(), &stubFetcher{}, &stubSaver{}, slog.New(slog.DiscardHandler))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestHandleMetrics(t *testing.T) {
	fetcher := &stubFetcher{bookmark: &domain.Bookmark{ID: "1", Text: "x"}}
	srv := NewServer(testConfig(), fetcher, &stubSaver{}, slog.New(slog.DiscardHandler))

	handler := srv.Handler()
	postSMS(t, handler, "+15551234567", "https://x.com/a/status/1")
	postSMS(t, handler, "+15551234567", "no link here")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"messages_received":2`)
	assert.Contains(t, rec.Body.String(), `"tweets_saved":1`)
}

func TestConfirmation_TruncatesPreview(t *testing.T) {
	b := &domain.Bookmark{Text: strings.Repeat("w", 80)}
	got := confirmation(b, "", "")
	assert.Equal(t, "Saved: "+strings.Repeat("w", 50)+"...", got)
}
