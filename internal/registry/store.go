package registry

import (
	"sync"
	"time"

	"filemodel-registry/internal/filemodel"
)

// MemoryStore keeps the full version history in memory. Events lost while no
// store was subscribed are gone; there is no replay.
type MemoryStore struct {
	mu        sync.RWMutex
	byVersion map[int64]filemodel.VersionedFileModel
	byFile    map[int64][]int64 // creation order
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byVersion: make(map[int64]filemodel.VersionedFileModel),
		byFile:    make(map[int64][]int64),
	}
}

func (s *MemoryStore) Apply(event any) error {
	switch evt := event.(type) {
	case FileModelCreated:
		s.mu.Lock()
		s.insert(evt.Value)
		s.mu.Unlock()
	case FileModelUpdated:
		// inactivation and insertion under one critical section
		s.mu.Lock()
		s.byVersion[evt.Superseded.VersionID] = evt.Superseded
		s.insert(evt.Created)
		s.mu.Unlock()
	}
	return nil
}

// insert assumes s.mu is held.
func (s *MemoryStore) insert(v filemodel.VersionedFileModel) {
	if _, exists := s.byVersion[v.VersionID]; !exists {
		s.byFile[v.FileID] = append(s.byFile[v.FileID], v.VersionID)
	}
	s.byVersion[v.VersionID] = v
}

func (s *MemoryStore) GetByVersion(versionID int64) (filemodel.VersionedFileModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.byVersion[versionID]
	if !ok {
		return filemodel.VersionedFileModel{}, ErrNotFound
	}
	return v, nil
}

func (s *MemoryStore) GetActiveAsOf(fileID int64, reconDate time.Time) (filemodel.VersionedFileModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best filemodel.VersionedFileModel
	found := false
	for _, versionID := range s.byFile[fileID] {
		v := s.byVersion[versionID]
		if v.ActiveReconDate.After(reconDate) {
			continue
		}
		if !found ||
			v.ActiveReconDate.After(best.ActiveReconDate) ||
			(v.ActiveReconDate.Equal(best.ActiveReconDate) && v.CreatedAt.After(best.CreatedAt)) {
			best = v
			found = true
		}
	}

	if !found {
		return filemodel.VersionedFileModel{}, ErrNotFound
	}
	return best, nil
}

func (s *MemoryStore) ListVersions(fileID int64) ([]filemodel.VersionedFileModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	versionIDs := s.byFile[fileID]
	out := make([]filemodel.VersionedFileModel, 0, len(versionIDs))
	for _, versionID := range versionIDs {
		out = append(out, s.byVersion[versionID])
	}
	return out, nil
}

func (s *MemoryStore) MaxVersionID() (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.byVersion) == 0 {
		return 0, ErrNotFound
	}

	var max int64
	first := true
	for versionID := range s.byVersion {
		if first || versionID > max {
			max = versionID
			first = false
		}
	}
	return max, nil
}
