package state

import "encoding/json"

// SyncState is the persisted sync bookkeeping: which tweet IDs were
// already mirrored, plus metadata about the last run.
//
// TotalSyncedCount counts mark operations, not unique set members, so
// marking the same ID twice bumps the counter twice. That matches the
// historical state files in the wild; do not "fix" it silently.
type SyncState struct {
	SyncedIDs        map[string]struct{}
	LastSyncTime     string // ISO-8601, "" when never synced
	TotalSyncedCount int
	LastCursor       string // pagination token, "" when unset
}

// NewSyncState returns an empty state.
func NewSyncState() *SyncState {
	return &SyncState{SyncedIDs: make(map[string]struct{})}
}

// stateDoc is the on-disk JSON layout. Keys match the original state
// file format so existing files keep loading.
type stateDoc struct {
	SyncedTweetIDs   []string `json:"synced_tweet_ids"`
	LastSyncTime     *string  `json:"last_sync_time"`
	TotalSyncedCount int      `json:"total_synced_count"`
	LastBookmarkID   *string  `json:"last_bookmark_id"`
}

func (s *SyncState) MarshalJSON() ([]byte, error) {
	ids := make([]string, 0, len(s.SyncedIDs))
	for id := range s.SyncedIDs {
		ids = append(ids, id)
	}

	doc := stateDoc{
		SyncedTweetIDs:   ids,
		TotalSyncedCount: s.TotalSyncedCount,
	}
	if s.LastSyncTime != "" {
		doc.LastSyncTime = &s.LastSyncTime
	}
	if s.LastCursor != "" {
		doc.LastBookmarkID = &s.LastCursor
	}
	return json.Marshal(doc)
}

func (s *SyncState) UnmarshalJSON(data []byte) error {
	var doc stateDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	s.SyncedIDs = make(map[string]struct{}, len(doc.SyncedTweetIDs))
	for _, id := range doc.SyncedTweetIDs {
		s.SyncedIDs[id] = struct{}{}
	}
	s.TotalSyncedCount = doc.TotalSyncedCount
	s.LastSyncTime = ""
	if doc.LastSyncTime != nil {
		s.LastSyncTime = *doc.LastSyncTime
	}
	s.LastCursor = ""
	if doc.LastBookmarkID != nil {
		s.LastCursor = *doc.LastBookmarkID
	}
	return nil
}

// merge folds another state's members into this one, keeping the larger
// counter and the newer metadata. Used to pick up writes persisted by
// other processes between our own mutations.
func (s *SyncState) merge(other *SyncState) {
	for id := range other.SyncedIDs {
		s.SyncedIDs[id] = struct{}{}
	}
	if other.TotalSyncedCount > s.TotalSyncedCount {
		s.TotalSyncedCount = other.TotalSyncedCount
	}
	if s.LastSyncTime == "" {
		s.LastSyncTime = other.LastSyncTime
	}
	if s.LastCursor == "" {
		s.LastCursor = other.LastCursor
	}
}
