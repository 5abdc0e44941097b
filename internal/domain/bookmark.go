package domain

import (
	"fmt"
	"strings"
	"time"
)

// ContentKind classifies the shape of a bookmarked tweet. The values
// double as the Notion "Type" select option names.
type ContentKind string

const (
	KindRegular  ContentKind = "Regular Tweet"
	KindThread   ContentKind = "Thread"
	KindLongForm ContentKind = "Long-form"
)

// ThreadDivider separates thread parts in FullText.
const ThreadDivider = "\n\n---\n\n"

// Bookmark is one bookmarked tweet, normalized from the API response.
type Bookmark struct {
	ID           string
	Text         string
	AuthorName   string
	AuthorHandle string
	URL          string
	CreatedAt    time.Time
	// BookmarkedAt is when this process first saw the bookmark; the API
	// does not expose the actual bookmark time.
	BookmarkedAt time.Time
	Kind         ContentKind
	// Thread holds the remaining tweets of a thread in chronological
	// order. Only populated for KindThread, and only by an explicit
	// enrichment step.
	Thread    []Bookmark
	Truncated bool
}

// FullText returns the tweet text, with thread parts appended for
// thread bookmarks.
func (b *Bookmark) FullText() string {
	if b.Kind != KindThread || len(b.Thread) == 0 {
		return b.Text
	}

	var sb strings.Builder
	sb.WriteString(b.Text)
	for i := range b.Thread {
		sb.WriteString(ThreadDivider)
		sb.WriteString(b.Thread[i].Text)
	}
	return sb.String()
}

// AuthorDisplay returns the author in "Display Name (@handle)" format.
func (b *Bookmark) AuthorDisplay() string {
	return fmt.Sprintf("%s (@%s)", b.AuthorName, b.AuthorHandle)
}
