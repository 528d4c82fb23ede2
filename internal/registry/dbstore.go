package registry

import (
	"errors"
	"time"

	"filemodel-registry/internal/filemodel"

	"gorm.io/gorm"
)

// DBStore backs the read model with the relational history schema. It applies
// the same events as MemoryStore, going through the row adapter in both
// directions, so the event-driven path and the relational path cannot
// diverge.
type DBStore struct {
	DB *gorm.DB
}

func NewDBStore(db *gorm.DB) *DBStore {
	return &DBStore{DB: db}
}

func (s *DBStore) Apply(event any) error {
	switch evt := event.(type) {
	case FileModelCreated:
		return s.DB.Transaction(func(tx *gorm.DB) error {
			return insertVersion(tx, evt.Value)
		})
	case FileModelUpdated:
		return s.DB.Transaction(func(tx *gorm.DB) error {
			res := tx.Model(&FileModelHistory{}).
				Where("version = ?", evt.Superseded.VersionID).
				Updates(map[string]any{
					"active":              evt.Superseded.Active,
					"inactive_recon_date": encodeGlobalDatePtr(evt.Superseded.InactiveReconDate),
				})
			if res.Error != nil {
				return res.Error
			}
			return insertVersion(tx, evt.Created)
		})
	}
	return nil
}

func insertVersion(tx *gorm.DB, v filemodel.VersionedFileModel) error {
	row, cols, err := toRows(v)
	if err != nil {
		return err
	}
	if err := tx.Create(&row).Error; err != nil {
		return err
	}
	if len(cols) > 0 {
		if err := tx.Create(&cols).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *DBStore) GetByVersion(versionID int64) (filemodel.VersionedFileModel, error) {
	var row FileModelHistory
	err := s.DB.Where("version = ?", versionID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return filemodel.VersionedFileModel{}, ErrNotFound
	}
	if err != nil {
		return filemodel.VersionedFileModel{}, err
	}

	var cols []FileModelColumn
	if err := s.DB.
		Where("file_model_version = ?", versionID).
		Order("position").
		Find(&cols).Error; err != nil {
		return filemodel.VersionedFileModel{}, err
	}

	return toVersionedFileModel(row, cols)
}

func (s *DBStore) GetActiveAsOf(fileID int64, reconDate time.Time) (filemodel.VersionedFileModel, error) {
	var versionID int64
	err := s.DB.Model(&FileModelHistory{}).
		Select("version").
		Where("useable = ?", true).
		Where("file_id = ?", fileID).
		Where("active_recon_date <= ?", encodeGlobalDate(reconDate)).
		Order("active_recon_date DESC").
		Order("created DESC").
		Limit(1).
		Scan(&versionID)
	if err.Error != nil {
		return filemodel.VersionedFileModel{}, err.Error
	}
	if err.RowsAffected == 0 {
		return filemodel.VersionedFileModel{}, ErrNotFound
	}

	return s.GetByVersion(versionID)
}

func (s *DBStore) ListVersions(fileID int64) ([]filemodel.VersionedFileModel, error) {
	var rows []FileModelHistory
	if err := s.DB.
		Where("file_id = ?", fileID).
		Order("version").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]filemodel.VersionedFileModel, 0, len(rows))
	for _, row := range rows {
		v, err := s.GetByVersion(row.Version)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *DBStore) MaxVersionID() (int64, error) {
	var row FileModelHistory
	err := s.DB.Order("version DESC").First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return row.Version, nil
}
