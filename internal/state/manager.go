package state

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

// Stats summarizes the current sync state.
type Stats struct {
	TotalSynced int
	UniqueIDs   int
	LastSync    string
}

// Manager persists SyncState to a JSON file, guarded by a sibling
// .lock file so independent processes (the service plus a manual
// backfill, say) can share one state file.
//
// Mutations re-read the file under the lock and merge before writing,
// so disjoint writers don't drop each other's IDs. There is still no
// compare-and-swap: the counter is last-write-wins on ties.
type Manager struct {
	path   string
	fl     *flock.Flock
	logger *slog.Logger

	mu sync.Mutex
	st *SyncState
}

func NewManager(path string, logger *slog.Logger) *Manager {
	return &Manager{
		path:   path,
		fl:     flock.New(lockPath(path)),
		logger: logger,
	}
}

func lockPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".lock"
}

// IsSynced reports whether the ID is in the currently loaded state.
// Readers are not serialized across processes; call Reload to pick up
// other writers.
func (m *Manager) IsSynced(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.loaded().SyncedIDs[id]
	return ok
}

// MarkSynced adds the ID to the set, bumps the counter, and persists.
func (m *Manager) MarkSynced(id string) error {
	return m.mutate(func(st *SyncState) {
		st.SyncedIDs[id] = struct{}{}
		st.TotalSyncedCount++
	})
}

// MarkManySynced adds all IDs in one persist. The counter grows by
// len(ids) even when some were already members.
func (m *Manager) MarkManySynced(ids []string) error {
	return m.mutate(func(st *SyncState) {
		for _, id := range ids {
			st.SyncedIDs[id] = struct{}{}
		}
		st.TotalSyncedCount += len(ids)
	})
}

// UpdateLastSyncTime stamps the current UTC time and persists.
func (m *Manager) UpdateLastSyncTime() error {
	return m.mutate(func(st *SyncState) {
		st.LastSyncTime = time.Now().UTC().Format(time.RFC3339)
	})
}

// UpdateCursor stores a pagination continuation token and persists.
func (m *Manager) UpdateCursor(token string) error {
	return m.mutate(func(st *SyncState) {
		st.LastCursor = token
	})
}

func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := m.loaded()
	return Stats{
		TotalSynced: st.TotalSyncedCount,
		UniqueIDs:   len(st.SyncedIDs),
		LastSync:    st.LastSyncTime,
	}
}

// Clear resets to an empty state and persists. Unlike other mutations
// it does not merge what is on disk; a clear means clear.
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.st = NewSyncState()
	if err := m.save(m.st); err != nil {
		return err
	}
	m.logger.Info("state cleared")
	return nil
}

// Reload discards the in-memory state and re-reads the file, picking
// up writes from other processes.
func (m *Manager) Reload() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.st = m.load()
	return nil
}

// loaded returns the in-memory state, loading it from disk on first use.
func (m *Manager) loaded() *SyncState {
	if m.st == nil {
		m.st = m.load()
	}
	return m.st
}

func (m *Manager) mutate(fn func(*SyncState)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := m.loaded()

	if err := m.fl.Lock(); err != nil {
		return fmt.Errorf("acquire state lock: %w", err)
	}
	defer m.fl.Unlock()

	// Fold in anything another writer persisted since our last read.
	if disk, err := m.read(); err == nil {
		st.merge(disk)
	}

	fn(st)

	return m.write(st)
}

func (m *Manager) load() *SyncState {
	if err := m.ensureInitialFile(); err != nil {
		m.logger.Warn("failed to create initial state file, starting fresh", "error", err)
		return NewSyncState()
	}

	st, err := m.read()
	if err != nil {
		m.logger.Warn("failed to load state file, starting fresh", "error", err)
		return NewSyncState()
	}
	return st
}

func (m *Manager) ensureInitialFile() error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return err
	}
	if _, err := os.Stat(m.path); err == nil {
		return nil
	}

	if err := m.fl.Lock(); err != nil {
		return err
	}
	defer m.fl.Unlock()

	// Another process may have created it while we waited.
	if _, err := os.Stat(m.path); err == nil {
		return nil
	}
	return m.write(NewSyncState())
}

func (m *Manager) read() (*SyncState, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return nil, err
	}

	st := NewSyncState()
	if err := json.Unmarshal(data, st); err != nil {
		return nil, err
	}
	return st, nil
}

// save persists under the file lock without merging.
func (m *Manager) save(st *SyncState) error {
	if err := m.fl.Lock(); err != nil {
		return fmt.Errorf("acquire state lock: %w", err)
	}
	defer m.fl.Unlock()

	return m.write(st)
}

// write replaces the backing file atomically so a concurrent reader
// never observes a half-written document. Caller holds the lock.
func (m *Manager) write(st *SyncState) error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(m.path), ".state-*")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp state file: %w", err)
	}

	if err := os.Rename(tmp.Name(), m.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
