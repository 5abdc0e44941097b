package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/twilio/twilio-go/client"
	"github.com/twilio/twilio-go/twiml"

	"bookmark_sync/internal/config"
	"bookmark_sync/internal/domain"
	"bookmark_sync/internal/notion"
)

const previewLength = 50

// TweetFetcher resolves a public tweet without API credentials.
type TweetFetcher interface {
	Fetch(ctx context.Context, handle, tweetID, tweetURL string) (*domain.Bookmark, string, error)
}

// Saver writes a submitted tweet to the mirror.
type Saver interface {
	AddSubmission(ctx context.Context, sub notion.Submission) (string, error)
}

// Server receives Twilio SMS webhooks carrying tweet links and saves
// each linked tweet to the mirror, replying over TwiML.
type Server struct {
	cfg       config.WebhookConfig
	fetcher   TweetFetcher
	saver     Saver
	validator client.RequestValidator
	limiter   *phoneLimiter
	logger    *slog.Logger

	received atomic.Int64
	saved    atomic.Int64
	failed   atomic.Int64
}

func NewServer(cfg config.WebhookConfig, fetcher TweetFetcher, saver Saver, logger *slog.Logger) *Server {
	return &Server{
		cfg:       cfg,
		fetcher:   fetcher,
		saver:     saver,
		validator: client.NewRequestValidator(cfg.TwilioAuthToken),
		limiter:   newPhoneLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow),
		logger:    logger,
	}
}

// Handler returns the HTTP handler with all routes registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /sms", s.handleSMS)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /metrics", s.handleMetrics)
	return mux
}

func (s *Server) handleSMS(w http.ResponseWriter, r *http.Request) {
	setSecurityHeaders(w)
	s.received.Add(1)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	if s.cfg.SignatureValidationEnabled() && !s.validateSignature(r) {
		s.logger.Warn("rejected request with invalid signature", "remote", r.RemoteAddr)
		http.Error(w, "invalid signature", http.StatusForbidden)
		return
	}

	from := r.PostFormValue("From")
	body := r.PostFormValue("Body")
	logger := s.logger.With("from", maskPhoneNumber(from))

	if !s.senderAllowed(from) {
		logger.Warn("rejected message from unauthorized number")
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	if !s.limiter.Allow(from) {
		logger.Warn("rate limit exceeded")
		s.reply(w, "You're sending too fast. Please wait a minute and try again.")
		return
	}

	parsed, category, ok := parseMessage(body)
	if !ok {
		logger.Info("message without tweet link")
		s.reply(w, "No tweet URL found in your message. Send a twitter.com or x.com link to save it.")
		return
	}

	ctx := r.Context()
	if s.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.RequestTimeout)
		defer cancel()
	}

	bookmark, articleTitle, err := s.fetcher.Fetch(ctx, parsed.Handle, parsed.ID, parsed.URL)
	if err != nil {
		s.failed.Add(1)
		logger.Error("failed to fetch tweet", "tweet_id", parsed.ID, "error", err)
		s.reply(w, "Couldn't fetch that tweet. It may be deleted or private.")
		return
	}

	_, err = s.saver.AddSubmission(ctx, notion.Submission{
		Bookmark: bookmark,
		Title:    articleTitle,
		Category: category,
	})
	if err != nil {
		s.failed.Add(1)
		logger.Error("failed to save tweet", "tweet_id", parsed.ID, "error", err)
		s.reply(w, "Failed to save to Notion. Please try again later.")
		return
	}

	s.saved.Add(1)
	logger.Info("saved submitted tweet", "tweet_id", parsed.ID, "category", category)
	s.reply(w, confirmation(bookmark, articleTitle, category))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	setSecurityHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	setSecurityHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int64{
		"messages_received": s.received.Load(),
		"tweets_saved":      s.saved.Load(),
		"failures":          s.failed.Load(),
	})
}

// validateSignature checks the X-Twilio-Signature header against the
// reconstructed request URL and POST parameters.
func (s *Server) validateSignature(r *http.Request) bool {
	scheme := r.Header.Get("X-Forwarded-Proto")
	if scheme == "" {
		scheme = "http"
		if r.TLS != nil {
			scheme = "https"
		}
	}
	url := fmt.Sprintf("%s://%s%s", scheme, r.Host, r.URL.RequestURI())

	params := make(map[string]string, len(r.PostForm))
	for key := range r.PostForm {
		params[key] = r.PostFormValue(key)
	}

	return s.validator.Validate(url, params, r.Header.Get("X-Twilio-Signature"))
}

func (s *Server) senderAllowed(from string) bool {
	if len(s.cfg.AllowedNumbers) == 0 {
		return true
	}
	for _, allowed := range s.cfg.AllowedNumbers {
		if from == allowed {
			return true
		}
	}
	return false
}

func (s *Server) reply(w http.ResponseWriter, message string) {
	doc, err := twiml.Messages([]twiml.Element{
		&twiml.MessagingMessage{Body: message},
	})
	if err != nil {
		s.logger.Error("failed to build twiml response", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/xml")
	fmt.Fprint(w, doc)
}

func confirmation(b *domain.Bookmark, title, category string) string {
	preview := title
	if preview == "" {
		preview = b.Text
	}
	runes := []rune(preview)
	if len(runes) > previewLength {
		preview = string(runes[:previewLength]) + "..."
	}

	if category != "" {
		return fmt.Sprintf("Saved [%s]: %s", category, preview)
	}
	return "Saved: " + preview
}

func setSecurityHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("X-Frame-Options", "DENY")
	h.Set("Cache-Control", "no-store")
}

// ListenAndServe runs the webhook server until the context is
// cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("webhook server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
