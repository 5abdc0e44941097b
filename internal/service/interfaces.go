package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"iter"

	"bookmark_sync/internal/domain"
	"bookmark_sync/internal/state"
)

// Source yields bookmarks from the upstream account, newest first.
type Source interface {
	AllBookmarks(ctx context.Context, limit int) iter.Seq2[domain.Bookmark, error]
	EnrichWithThread(b domain.Bookmark) domain.Bookmark
}

// Destination writes bookmarks to the mirror and manages its schema.
type Destination interface {
	AddBookmark(ctx context.Context, b *domain.Bookmark) (string, error)
	ValidateDatabase(ctx context.Context) bool
	SetupDatabase(ctx context.Context) error
}

// StateStore is the durable dedup set shared across runs.
type StateStore interface {
	IsSynced(id string) bool
	MarkSynced(id string) error
	UpdateLastSyncTime() error
	Stats() state.Stats
}

// Archive keeps a local copy of every mirrored bookmark. Optional.
type Archive interface {
	Record(ctx context.Context, b *domain.Bookmark, pageID string) error
}

// Publisher emits an event for every newly mirrored bookmark. Optional.
type Publisher interface {
	Publish(ctx context.Context, b *domain.Bookmark, pageID string) error
	Close() error
}
