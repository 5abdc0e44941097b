package service

import (
	"context"
	"errors"
	"iter"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"bookmark_sync/internal/config"
	"bookmark_sync/internal/domain"
	"bookmark_sync/internal/service/mocks"
	"bookmark_sync/internal/state"
)

type SyncServiceTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	source      *mocks.MockSource
	destination *mocks.MockDestination
	stateStore  *mocks.MockStateStore
	archive     *mocks.MockArchive
	publisher   *mocks.MockPublisher

	service *SyncService
	cfg     config.SyncConfig
	logger  *slog.Logger
}

func (s *SyncServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())

	s.source = mocks.NewMockSource(s.ctrl)
	s.destination = mocks.NewMockDestination(s.ctrl)
	s.stateStore = mocks.NewMockStateStore(s.ctrl)
	s.archive = mocks.NewMockArchive(s.ctrl)
	s.publisher = mocks.NewMockPublisher(s.ctrl)

	s.cfg = config.SyncConfig{
		Interval: 10 * time.Minute,
		PageSize: 100,
	}

	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	s.service = NewSyncService(
		s.source,
		s.destination,
		s.stateStore,
		s.archive,
		s.publisher,
		s.logger,
		s.cfg,
	)
}

func (s *SyncServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestSyncServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SyncServiceTestSuite))
}

func bookmarkSeq(bookmarks []domain.Bookmark, err error) iter.Seq2[domain.Bookmark, error] {
	return func(yield func(domain.Bookmark, error) bool) {
		for _, b := range bookmarks {
			if !yield(b, nil) {
				return
			}
		}
		if err != nil {
			yield(domain.Bookmark{}, err)
		}
	}
}

func (s *SyncServiceTestSuite) TestRunCycle_NewBookmarks() {
	ctx := context.Background()
	bookmarks := []domain.Bookmark{
		{ID: "123", Text: "first", Kind: domain.KindRegular},
		{ID: "456", Text: "second", Kind: domain.KindThread},
	}

	s.source.EXPECT().AllBookmarks(ctx, 0).Return(bookmarkSeq(bookmarks, nil))
	s.stateStore.EXPECT().IsSynced("123").Return(false)
	s.stateStore.EXPECT().IsSynced("456").Return(false)

	for i := range bookmarks {
		b := bookmarks[i]
		s.source.EXPECT().EnrichWithThread(b).Return(b)
		s.destination.EXPECT().AddBookmark(ctx, &b).Return("page-"+b.ID, nil)
		s.stateStore.EXPECT().MarkSynced(b.ID).Return(nil)
		s.archive.EXPECT().Record(ctx, &b, "page-"+b.ID).Return(nil)
		s.publisher.EXPECT().Publish(ctx, &b, "page-"+b.ID).Return(nil)
	}
	s.stateStore.EXPECT().UpdateLastSyncTime().Return(nil)

	stats := s.service.RunCycle(ctx)

	s.Equal(2, stats.Fetched)
	s.Equal(2, stats.Synced)
	s.Equal(0, stats.Skipped)
	s.Equal(0, stats.Errors)
	s.False(stats.Failed())
}

func (s *SyncServiceTestSuite) TestRunCycle_SkipsKnownAndContinues() {
	ctx := context.Background()
	bookmarks := []domain.Bookmark{
		{ID: "new-1", Text: "fresh"},
		{ID: "123", Text: "seen before"},
		{ID: "old-2", Text: "behind the known one"},
	}

	s.source.EXPECT().AllBookmarks(ctx, 0).Return(bookmarkSeq(bookmarks, nil))
	s.stateStore.EXPECT().IsSynced("new-1").Return(false)
	s.stateStore.EXPECT().IsSynced("123").Return(true)
	s.stateStore.EXPECT().IsSynced("old-2").Return(false)

	for _, i := range []int{0, 2} {
		b := bookmarks[i]
		s.source.EXPECT().EnrichWithThread(b).Return(b)
		s.destination.EXPECT().AddBookmark(ctx, &b).Return("page-"+b.ID, nil)
		s.stateStore.EXPECT().MarkSynced(b.ID).Return(nil)
		s.archive.EXPECT().Record(ctx, &b, "page-"+b.ID).Return(nil)
		s.publisher.EXPECT().Publish(ctx, &b, "page-"+b.ID).Return(nil)
	}
	s.stateStore.EXPECT().UpdateLastSyncTime().Return(nil)

	stats := s.service.RunCycle(ctx)

	// A known bookmark is skipped, never a stop signal: items behind
	// it still get written.
	s.Equal(3, stats.Fetched)
	s.Equal(2, stats.Synced)
	s.Equal(1, stats.Skipped)
}

func (s *SyncServiceTestSuite) TestRunCycle_RetriesFailedWriteBehindSyncedItem() {
	ctx := context.Background()
	// "A" synced last cycle; "B"'s write failed, so it was never
	// marked and now sits behind A in the newest-first feed.
	bookmarks := []domain.Bookmark{
		{ID: "A", Text: "already mirrored"},
		{ID: "B", Text: "failed last cycle"},
	}

	s.source.EXPECT().AllBookmarks(ctx, 0).Return(bookmarkSeq(bookmarks, nil))
	s.stateStore.EXPECT().IsSynced("A").Return(true)
	s.stateStore.EXPECT().IsSynced("B").Return(false)

	s.source.EXPECT().EnrichWithThread(bookmarks[1]).Return(bookmarks[1])
	s.destination.EXPECT().AddBookmark(ctx, &bookmarks[1]).Return("page-B", nil)
	s.stateStore.EXPECT().MarkSynced("B").Return(nil)
	s.archive.EXPECT().Record(ctx, gomock.Any(), "page-B").Return(nil)
	s.publisher.EXPECT().Publish(ctx, gomock.Any(), "page-B").Return(nil)
	s.stateStore.EXPECT().UpdateLastSyncTime().Return(nil)

	stats := s.service.RunCycle(ctx)

	s.Equal(1, stats.Synced)
	s.Equal(1, stats.Skipped)
	s.Equal(0, stats.Errors)
}

func (s *SyncServiceTestSuite) TestRunCycle_SecondCycleWritesNothing() {
	ctx := context.Background()
	bookmarks := []domain.Bookmark{{ID: "123", Text: "only once"}}

	s.source.EXPECT().AllBookmarks(ctx, 0).Return(bookmarkSeq(bookmarks, nil)).Times(2)
	gomock.InOrder(
		s.stateStore.EXPECT().IsSynced("123").Return(false),
		s.stateStore.EXPECT().IsSynced("123").Return(true),
	)

	// Exactly one create for the id across both cycles.
	s.source.EXPECT().EnrichWithThread(bookmarks[0]).Return(bookmarks[0]).Times(1)
	s.destination.EXPECT().AddBookmark(ctx, gomock.Any()).Return("page-1", nil).Times(1)
	s.stateStore.EXPECT().MarkSynced("123").Return(nil).Times(1)
	s.archive.EXPECT().Record(ctx, gomock.Any(), "page-1").Return(nil).Times(1)
	s.publisher.EXPECT().Publish(ctx, gomock.Any(), "page-1").Return(nil).Times(1)
	s.stateStore.EXPECT().UpdateLastSyncTime().Return(nil).Times(2)

	first := s.service.RunCycle(ctx)
	second := s.service.RunCycle(ctx)

	s.Equal(1, first.Synced)
	s.Equal(0, second.Synced)
	s.Equal(1, second.Skipped)
}

func (s *SyncServiceTestSuite) TestRunCycle_FailedWriteNotMarked() {
	ctx := context.Background()
	bookmarks := []domain.Bookmark{{ID: "123", Text: "flaky"}}

	s.source.EXPECT().AllBookmarks(ctx, 0).Return(bookmarkSeq(bookmarks, nil))
	s.stateStore.EXPECT().IsSynced("123").Return(false)
	s.source.EXPECT().EnrichWithThread(bookmarks[0]).Return(bookmarks[0])
	s.destination.EXPECT().AddBookmark(ctx, gomock.Any()).Return("", errors.New("api down"))
	s.stateStore.EXPECT().UpdateLastSyncTime().Return(nil)

	stats := s.service.RunCycle(ctx)

	s.Equal(1, stats.Errors)
	s.Equal(0, stats.Synced)
	s.False(stats.Failed())
}

func (s *SyncServiceTestSuite) TestRunCycle_FetchErrorRecorded() {
	ctx := context.Background()

	s.source.EXPECT().AllBookmarks(ctx, 0).Return(bookmarkSeq(nil, errors.New("rate limited")))
	s.stateStore.EXPECT().UpdateLastSyncTime().Return(nil)

	stats := s.service.RunCycle(ctx)

	s.True(stats.Failed())
	s.Contains(stats.ErrorMessage, "rate limited")
	s.Equal(0, stats.Fetched)
}

func (s *SyncServiceTestSuite) TestRunBackfill_SkipsKnownAndContinues() {
	ctx := context.Background()
	bookmarks := []domain.Bookmark{
		{ID: "1", Text: "known"},
		{ID: "2", Text: "new"},
		{ID: "3", Text: "known too"},
	}

	s.source.EXPECT().AllBookmarks(ctx, 50).Return(bookmarkSeq(bookmarks, nil))
	s.stateStore.EXPECT().IsSynced("1").Return(true)
	s.stateStore.EXPECT().IsSynced("2").Return(false)
	s.stateStore.EXPECT().IsSynced("3").Return(true)

	s.source.EXPECT().EnrichWithThread(bookmarks[1]).Return(bookmarks[1])
	s.destination.EXPECT().AddBookmark(ctx, gomock.Any()).Return("page-2", nil)
	s.stateStore.EXPECT().MarkSynced("2").Return(nil)
	s.archive.EXPECT().Record(ctx, gomock.Any(), "page-2").Return(nil)
	s.publisher.EXPECT().Publish(ctx, gomock.Any(), "page-2").Return(nil)

	// No UpdateLastSyncTime expectation: the backfill is a manual
	// walk, only cycles stamp the last-sync time.
	stats := s.service.RunBackfill(ctx, 50)

	s.Equal(3, stats.Fetched)
	s.Equal(1, stats.Synced)
	s.Equal(2, stats.Skipped)
}

func (s *SyncServiceTestSuite) TestRunCycle_OptionalSinksAbsent() {
	service := NewSyncService(s.source, s.destination, s.stateStore, nil, nil, s.logger, s.cfg)

	ctx := context.Background()
	bookmarks := []domain.Bookmark{{ID: "7", Text: "solo"}}

	s.source.EXPECT().AllBookmarks(ctx, 0).Return(bookmarkSeq(bookmarks, nil))
	s.stateStore.EXPECT().IsSynced("7").Return(false)
	s.source.EXPECT().EnrichWithThread(bookmarks[0]).Return(bookmarks[0])
	s.destination.EXPECT().AddBookmark(ctx, gomock.Any()).Return("page-7", nil)
	s.stateStore.EXPECT().MarkSynced("7").Return(nil)
	s.stateStore.EXPECT().UpdateLastSyncTime().Return(nil)

	stats := service.RunCycle(ctx)
	s.Equal(1, stats.Synced)
}

func (s *SyncServiceTestSuite) TestSetup() {
	ctx := context.Background()

	s.destination.EXPECT().SetupDatabase(ctx).Return(nil)
	s.destination.EXPECT().ValidateDatabase(ctx).Return(true)
	s.NoError(s.service.Setup(ctx))

	s.destination.EXPECT().SetupDatabase(ctx).Return(errors.New("forbidden"))
	s.Error(s.service.Setup(ctx))
}

func (s *SyncServiceTestSuite) TestStatus() {
	s.stateStore.EXPECT().Stats().Return(state.Stats{TotalSynced: 5, UniqueIDs: 4, LastSync: "2024-03-01T00:00:00Z"})

	stats := s.service.Status()
	s.Equal(5, stats.TotalSynced)
	s.Equal(4, stats.UniqueIDs)
}
