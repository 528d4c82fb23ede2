package registry

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"filemodel-registry/internal/eventbus"
	"filemodel-registry/internal/filemodel"
)

// RegistryService is the sole writer of domain state. Version ids come from
// one shared monotonic counter; commands touching the same file id are
// serialized through a per-file lock so two updates cannot both supersede the
// same version.
type RegistryService struct {
	Bus   *eventbus.Bus
	Store ModelStore

	nextVersionID atomic.Int64
	fileLocks     sync.Map // fileID -> *sync.Mutex
	now           func() time.Time
}

func NewRegistryService(bus *eventbus.Bus, store ModelStore) (*RegistryService, error) {
	s := &RegistryService{
		Bus:   bus,
		Store: store,
		now:   time.Now,
	}

	max, err := store.MaxVersionID()
	switch {
	case err == nil:
		s.nextVersionID.Store(max + 1)
	case errors.Is(err, ErrNotFound):
		// empty store, counter starts at 0
	default:
		return nil, fmt.Errorf("seed version counter: %w", err)
	}

	return s, nil
}

func (s *RegistryService) fileLock(fileID int64) *sync.Mutex {
	lock, _ := s.fileLocks.LoadOrStore(fileID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// CreateFileModel validates the model before any id is consumed, then
// allocates the next version id and publishes FileModelCreated. The id is
// visible to reads as soon as this returns.
func (s *RegistryService) CreateFileModel(cmd CreateFileModel) (int64, error) {
	if cmd.Model == nil {
		return 0, &filemodel.ValidationError{Reason: "file model is required"}
	}
	if err := cmd.Model.Validate(); err != nil {
		return 0, err
	}

	lock := s.fileLock(cmd.FileID)
	lock.Lock()
	defer lock.Unlock()

	versionID := s.nextVersionID.Add(1) - 1
	vfm := filemodel.VersionedFileModel{
		FileID:          cmd.FileID,
		VersionID:       versionID,
		Active:          cmd.Active,
		ActiveReconDate: cmd.ActiveReconDate,
		CreatedAt:       s.now(),
		CreatedBy:       cmd.Username,
		Model:           cmd.Model,
	}

	s.Bus.Publish(FileModelCreated{Value: vfm})
	return versionID, nil
}

// UpdateFileModel derives a new version from the referenced one, copying
// every field not overridden by the command, and retires the original. The
// referenced version is never edited in place.
func (s *RegistryService) UpdateFileModel(cmd UpdateFileModel) (int64, error) {
	if cmd.Model != nil {
		if err := cmd.Model.Validate(); err != nil {
			return 0, err
		}
	}

	return s.supersede(cmd, cmd.VersionID, func(v filemodel.VersionedFileModel) filemodel.VersionedFileModel {
		if cmd.ActiveReconDate != nil {
			v.ActiveReconDate = *cmd.ActiveReconDate
		}
		if cmd.Active != nil {
			v.Active = *cmd.Active
		}
		if cmd.Model != nil {
			v.Model = cmd.Model
		}
		return v
	})
}

func (s *RegistryService) SetActiveReconDate(cmd SetActiveReconDate) (int64, error) {
	return s.supersede(cmd, cmd.VersionID, func(v filemodel.VersionedFileModel) filemodel.VersionedFileModel {
		v.ActiveReconDate = cmd.ActiveReconDate
		return v
	})
}

func (s *RegistryService) InactivateFileModel(cmd InactivateFileModel) (int64, error) {
	return s.supersede(cmd, cmd.VersionID, func(v filemodel.VersionedFileModel) filemodel.VersionedFileModel {
		v.Active = false
		return v
	})
}

// supersede is the shared copy-on-write path of the update-family commands.
// The derived version and the inactivation of the original go out as one
// composite event.
func (s *RegistryService) supersede(cmd Command, versionID int64, override func(filemodel.VersionedFileModel) filemodel.VersionedFileModel) (int64, error) {
	orig, err := s.Store.GetByVersion(versionID)
	if errors.Is(err, ErrNotFound) {
		return s.reject(cmd, fmt.Sprintf("file model version %d not found", versionID), ErrNotFound)
	}
	if err != nil {
		return 0, err
	}

	lock := s.fileLock(orig.FileID)
	lock.Lock()
	defer lock.Unlock()

	// re-read under the file lock: a concurrent command may have superseded
	// the referenced version in the meantime
	orig, err = s.Store.GetByVersion(versionID)
	if errors.Is(err, ErrNotFound) {
		return s.reject(cmd, fmt.Sprintf("file model version %d not found", versionID), ErrNotFound)
	}
	if err != nil {
		return 0, err
	}
	if orig.InactiveReconDate != nil {
		return s.reject(cmd, fmt.Sprintf("file model version %d already superseded", versionID), ErrConflict)
	}

	newVersionID := s.nextVersionID.Add(1) - 1

	created := override(orig)
	created.FileID = orig.FileID
	created.VersionID = newVersionID
	created.InactiveReconDate = nil
	created.CreatedAt = s.now()
	created.CreatedBy = cmd.Actor()

	cutover := created.ActiveReconDate
	superseded := orig
	superseded.Active = false
	superseded.InactiveReconDate = &cutover

	s.Bus.Publish(FileModelUpdated{Superseded: superseded, Created: created})
	return newVersionID, nil
}

func (s *RegistryService) reject(cmd Command, reason string, sentinel error) (int64, error) {
	s.Bus.Publish(CommandRejected{Command: cmd, Reason: reason})
	return 0, fmt.Errorf("%s: %w", reason, sentinel)
}

// Queries -------------------------------------------------------------------

func (s *RegistryService) GetByVersion(versionID int64) (filemodel.VersionedFileModel, error) {
	return s.Store.GetByVersion(versionID)
}

func (s *RegistryService) GetActiveAsOf(fileID int64, reconDate time.Time) (filemodel.VersionedFileModel, error) {
	return s.Store.GetActiveAsOf(fileID, reconDate)
}

func (s *RegistryService) ListVersions(fileID int64) ([]filemodel.VersionedFileModel, error) {
	return s.Store.ListVersions(fileID)
}
