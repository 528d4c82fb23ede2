package registry

import (
	"time"

	"filemodel-registry/internal/filemodel"

	"github.com/google/uuid"
)

// Commands ------------------------------------------------------------------

type Command interface {
	CommandID() uuid.UUID
	CommandName() string
	Actor() string
}

type CreateFileModel struct {
	ID              uuid.UUID
	Username        string
	Note            string
	FileID          int64
	ActiveReconDate time.Time
	Active          bool
	Model           filemodel.FileModel
}

func (c CreateFileModel) CommandID() uuid.UUID { return c.ID }
func (c CreateFileModel) CommandName() string  { return "CreateFileModel" }
func (c CreateFileModel) Actor() string        { return c.Username }

// UpdateFileModel derives a new version from an existing one. Nil fields keep
// the referenced version's value.
type UpdateFileModel struct {
	ID              uuid.UUID
	Username        string
	Note            string
	VersionID       int64
	ActiveReconDate *time.Time
	Active          *bool
	Model           filemodel.FileModel
}

func (c UpdateFileModel) CommandID() uuid.UUID { return c.ID }
func (c UpdateFileModel) CommandName() string  { return "UpdateFileModel" }
func (c UpdateFileModel) Actor() string        { return c.Username }

type SetActiveReconDate struct {
	ID              uuid.UUID
	Username        string
	Note            string
	VersionID       int64
	ActiveReconDate time.Time
}

func (c SetActiveReconDate) CommandID() uuid.UUID { return c.ID }
func (c SetActiveReconDate) CommandName() string  { return "SetActiveReconDate" }
func (c SetActiveReconDate) Actor() string        { return c.Username }

type InactivateFileModel struct {
	ID        uuid.UUID
	Username  string
	Note      string
	VersionID int64
}

func (c InactivateFileModel) CommandID() uuid.UUID { return c.ID }
func (c InactivateFileModel) CommandName() string  { return "InactivateFileModel" }
func (c InactivateFileModel) Actor() string        { return c.Username }

// Events --------------------------------------------------------------------

type FileModelCreated struct {
	Value filemodel.VersionedFileModel
}

// FileModelUpdated is the composite supersession event: stores must apply the
// inactivation of Superseded and the insertion of Created as one atomic unit.
type FileModelUpdated struct {
	Superseded filemodel.VersionedFileModel
	Created    filemodel.VersionedFileModel
}

type CommandRejected struct {
	Command Command
	Reason  string
}

// Relational rows -----------------------------------------------------------

const (
	rowTypeCsv        = "CSV"
	rowTypeFixedWidth = "FIXED_WIDTH"

	dataTypeString  = "STRING"
	dataTypeInteger = "INTEGER"
	dataTypeDouble  = "DOUBLE"
	dataTypeDate    = "DATE"
)

// FileModelHistory is the header row for one version. Recon dates are stored
// as signed day offsets from the global anchor date (see dates.go).
type FileModelHistory struct {
	Version           int64     `gorm:"primaryKey;autoIncrement:false;column:version" json:"version"`
	FileID            int64     `gorm:"column:file_id;index;not null" json:"file_id"`
	ActiveReconDate   int       `gorm:"column:active_recon_date;not null" json:"active_recon_date"`
	InactiveReconDate *int      `gorm:"column:inactive_recon_date" json:"inactive_recon_date,omitempty"`
	Type              string    `gorm:"size:20;not null" json:"type"`
	Delimiter         *string   `gorm:"size:8" json:"delimiter,omitempty"`
	HeaderLines       int       `gorm:"not null" json:"header_lines"`
	FooterLines       int       `gorm:"not null" json:"footer_lines"`
	Active            bool      `gorm:"not null" json:"active"`
	Created           time.Time `gorm:"not null" json:"created"`
	CreatedBy         string    `gorm:"size:100;not null" json:"created_by"`
	Useable           bool      `gorm:"not null" json:"useable"`
}

type FileModelColumn struct {
	FileModelVersion int64   `gorm:"primaryKey;column:file_model_version" json:"file_model_version"`
	Position         int     `gorm:"primaryKey;column:position" json:"position"`
	Name             string  `gorm:"size:255;not null" json:"name"`
	Identifier       bool    `gorm:"not null" json:"identifier"`
	Nullable         bool    `gorm:"not null" json:"nullable"`
	DataType         string  `gorm:"size:20;not null" json:"data_type"`
	Length           int     `gorm:"not null" json:"length"`
	Format           *string `gorm:"size:255" json:"format,omitempty"`
}

func (FileModelHistory) TableName() string {
	return "file_model_history"
}

func (FileModelColumn) TableName() string {
	return "file_model_columns"
}
