package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bookmark_sync/internal/config"
	"bookmark_sync/internal/domain"
	"bookmark_sync/internal/state"
)

// SyncService drives one account's bookmarks into the mirror: fetch,
// dedup against the state store, write, record.
type SyncService struct {
	source      Source
	destination Destination
	state       StateStore
	archive     Archive
	publisher   Publisher
	logger      *slog.Logger
	config      config.SyncConfig
}

func NewSyncService(
	source Source,
	destination Destination,
	stateStore StateStore,
	archive Archive,
	publisher Publisher,
	logger *slog.Logger,
	cfg config.SyncConfig,
) *SyncService {
	return &SyncService{
		source:      source,
		destination: destination,
		state:       stateStore,
		archive:     archive,
		publisher:   publisher,
		logger:      logger,
		config:      cfg,
	}
}

// Setup prepares the destination schema and verifies it is usable.
func (s *SyncService) Setup(ctx context.Context) error {
	if err := s.destination.SetupDatabase(ctx); err != nil {
		return fmt.Errorf("setup destination: %w", err)
	}
	if !s.destination.ValidateDatabase(ctx) {
		return fmt.Errorf("destination schema validation failed")
	}
	return nil
}

// RunCycle walks the whole bookmark feed and mirrors everything not
// seen before. Known bookmarks are skipped, not a stop signal: an item
// whose write failed in an earlier cycle sits behind newer synced ones
// and must still be reattempted.
func (s *SyncService) RunCycle(ctx context.Context) *domain.CycleStats {
	stats := s.run(ctx, 0)

	// The timestamp records the cycle attempt, successful or not.
	if err := s.state.UpdateLastSyncTime(); err != nil {
		s.logger.Error("failed to update last sync time", "error", err)
	}
	return stats
}

// RunBackfill is a one-shot cycle with an optional item cap.
// limit <= 0 means no limit.
func (s *SyncService) RunBackfill(ctx context.Context, limit int) *domain.CycleStats {
	return s.run(ctx, limit)
}

func (s *SyncService) run(ctx context.Context, limit int) *domain.CycleStats {
	stats := &domain.CycleStats{StartedAt: time.Now()}

	s.logger.Info("starting sync", "limit", limit)

	for b, err := range s.source.AllBookmarks(ctx, limit) {
		if err != nil {
			stats.ErrorMessage = err.Error()
			s.logger.Error("fetch failed", "error", err)
			break
		}
		stats.Fetched++

		if s.state.IsSynced(b.ID) {
			stats.Skipped++
			continue
		}

		if err := s.syncOne(ctx, &b); err != nil {
			stats.Errors++
			s.logger.Error("failed to sync bookmark", "id", b.ID, "error", err)
		} else {
			stats.Synced++
		}

		if stats.Fetched%10 == 0 {
			s.logger.Info("progress",
				"fetched", stats.Fetched,
				"synced", stats.Synced,
				"skipped", stats.Skipped,
				"errors", stats.Errors,
			)
		}

		if s.config.ItemDelay > 0 {
			select {
			case <-ctx.Done():
				stats.ErrorMessage = ctx.Err().Error()
			case <-time.After(s.config.ItemDelay):
			}
			if stats.ErrorMessage != "" {
				break
			}
		}
	}

	stats.CompletedAt = time.Now()
	stats.Duration = stats.CompletedAt.Sub(stats.StartedAt)

	s.logger.Info("sync completed",
		"fetched", stats.Fetched,
		"synced", stats.Synced,
		"skipped", stats.Skipped,
		"errors", stats.Errors,
		"duration", stats.Duration,
	)
	return stats
}

// syncOne writes a single bookmark to the destination and marks it
// synced. The bookmark is marked only after the write succeeds, so a
// failed write is retried on a later cycle.
func (s *SyncService) syncOne(ctx context.Context, b *domain.Bookmark) error {
	enriched := s.source.EnrichWithThread(*b)

	pageID, err := s.destination.AddBookmark(ctx, &enriched)
	if err != nil {
		return fmt.Errorf("add bookmark: %w", err)
	}

	if err := s.state.MarkSynced(b.ID); err != nil {
		// The page exists; dedup will catch it next cycle via the
		// merged state or the destination-side existence check.
		s.logger.Warn("failed to mark bookmark synced", "id", b.ID, "error", err)
	}

	if s.archive != nil {
		if err := s.archive.Record(ctx, &enriched, pageID); err != nil {
			s.logger.Warn("failed to archive bookmark", "id", b.ID, "error", err)
		}
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, &enriched, pageID); err != nil {
			s.logger.Warn("failed to publish event", "id", b.ID, "error", err)
		}
	}
	return nil
}

// Status reports the current state store counters.
func (s *SyncService) Status() state.Stats {
	return s.state.Stats()
}
