package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"bookmark_sync/internal/domain"
)

// ArchiveStore keeps a local copy of every mirrored bookmark, keyed by
// tweet ID. The Notion page remains the primary mirror; the archive
// survives a wiped or reorganized database.
type ArchiveStore struct {
	db *sqlx.DB
}

func NewArchiveStore(db *sqlx.DB) *ArchiveStore {
	return &ArchiveStore{db: db}
}

// Record inserts the bookmark. A tweet already archived is left
// untouched: the first mirror of an ID wins.
func (s *ArchiveStore) Record(ctx context.Context, b *domain.Bookmark, pageID string) error {
	query := `
		INSERT INTO mirrored_bookmarks (
			tweet_id, page_id, author_name, author_handle, url, kind,
			content, tweet_date, bookmarked_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
		ON CONFLICT (tweet_id) DO NOTHING`

	_, err := s.db.ExecContext(ctx, query,
		b.ID,
		pageID,
		b.AuthorName,
		b.AuthorHandle,
		b.URL,
		string(b.Kind),
		b.FullText(),
		nullTime(b.CreatedAt),
		nullTime(b.BookmarkedAt),
	)
	return err
}

// Exists reports whether a tweet ID is already archived.
func (s *ArchiveStore) Exists(ctx context.Context, tweetID string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM mirrored_bookmarks WHERE tweet_id = $1)", tweetID)
	return exists, err
}

// Count returns the number of archived bookmarks.
func (s *ArchiveStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM mirrored_bookmarks")
	return count, err
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
