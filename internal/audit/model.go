package audit

import (
	"time"

	"gorm.io/datatypes"
)

// AuditEntry is one row of the append-only audit trail. Payload carries the
// full event as JSON; the other columns exist for filtering.
type AuditEntry struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	EventType string         `gorm:"size:50;not null;index" json:"event_type"`
	FileID    *int64         `gorm:"index" json:"file_id,omitempty"`
	VersionID *int64         `gorm:"index" json:"version_id,omitempty"`
	Actor     string         `gorm:"size:100;not null" json:"actor"`
	Message   string         `gorm:"type:text;not null" json:"message"`
	Payload   datatypes.JSON `json:"payload"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

type AuditFilterInput struct {
	EventType *string `json:"event_type"`
	FileID    *int64  `json:"file_id"`
	Actor     *string `json:"actor"`

	StartDate *string `json:"start_date"` // "YYYY-MM-DD"
	EndDate   *string `json:"end_date"`   // "YYYY-MM-DD"

	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

func (AuditEntry) TableName() string {
	return "audit_log"
}
