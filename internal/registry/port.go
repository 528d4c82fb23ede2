package registry

import (
	"errors"
	"time"

	"filemodel-registry/internal/filemodel"
)

var (
	// ErrNotFound covers unknown version ids and file ids with no qualifying
	// version.
	ErrNotFound = errors.New("file model version not found")
	// ErrConflict rejects an update whose referenced version has already been
	// superseded.
	ErrConflict = errors.New("file model version already superseded")
)

// ModelStore is the versioned read model. Implementations subscribe Apply to
// the event bus; both the version map and the per-file index must change
// atomically with respect to concurrent readers.
type ModelStore interface {
	Apply(event any) error

	GetByVersion(versionID int64) (filemodel.VersionedFileModel, error)
	GetActiveAsOf(fileID int64, reconDate time.Time) (filemodel.VersionedFileModel, error)
	ListVersions(fileID int64) ([]filemodel.VersionedFileModel, error)

	// MaxVersionID seeds the version counter on startup; ErrNotFound when the
	// store is empty.
	MaxVersionID() (int64, error)
}

type RegistryServiceAPI interface {
	CreateFileModel(cmd CreateFileModel) (int64, error)
	UpdateFileModel(cmd UpdateFileModel) (int64, error)
	SetActiveReconDate(cmd SetActiveReconDate) (int64, error)
	InactivateFileModel(cmd InactivateFileModel) (int64, error)

	GetByVersion(versionID int64) (filemodel.VersionedFileModel, error)
	GetActiveAsOf(fileID int64, reconDate time.Time) (filemodel.VersionedFileModel, error)
	ListVersions(fileID int64) ([]filemodel.VersionedFileModel, error)
}
