package audit

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"filemodel-registry/internal/filemodel"
	"filemodel-registry/internal/registry"
	"filemodel-registry/internal/util"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AuditService struct {
	DB *gorm.DB
}

// HandleEvent is subscribed to the event bus. Events outside the known set
// are ignored so new event types do not break the trail.
func (as *AuditService) HandleEvent(event any) error {
	switch evt := event.(type) {
	case registry.FileModelCreated:
		payload, err := versionPayload(evt.Value)
		if err != nil {
			return err
		}
		return as.record(AuditEntry{
			EventType: "FileModelCreated",
			FileID:    &evt.Value.FileID,
			VersionID: &evt.Value.VersionID,
			Actor:     evt.Value.CreatedBy,
			Message:   fmt.Sprintf("file model version %d created for file %d", evt.Value.VersionID, evt.Value.FileID),
		}, payload)

	case registry.FileModelUpdated:
		superseded, err := versionPayload(evt.Superseded)
		if err != nil {
			return err
		}
		created, err := versionPayload(evt.Created)
		if err != nil {
			return err
		}
		return as.record(AuditEntry{
			EventType: "FileModelUpdated",
			FileID:    &evt.Created.FileID,
			VersionID: &evt.Created.VersionID,
			Actor:     evt.Created.CreatedBy,
			Message: fmt.Sprintf("file model version %d superseded by version %d for file %d",
				evt.Superseded.VersionID, evt.Created.VersionID, evt.Created.FileID),
		}, map[string]any{"superseded": superseded, "created": created})

	case registry.CommandRejected:
		return as.record(AuditEntry{
			EventType: "CommandRejected",
			Actor:     evt.Command.Actor(),
			Message:   fmt.Sprintf("%s rejected: %s", evt.Command.CommandName(), evt.Reason),
		}, map[string]any{
			"command_id":   evt.Command.CommandID().String(),
			"command_name": evt.Command.CommandName(),
			"reason":       evt.Reason,
		})

	default:
		return nil
	}
}

func (as *AuditService) record(entry AuditEntry, payload map[string]any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	entry.Payload = datatypes.JSON(b)
	entry.CreatedAt = time.Now()
	return as.DB.Create(&entry).Error
}

func versionPayload(v filemodel.VersionedFileModel) (map[string]any, error) {
	modelJSON, err := filemodel.MarshalFileModel(v.Model)
	if err != nil {
		return nil, err
	}

	payload := map[string]any{
		"file_id":           v.FileID,
		"version_id":        v.VersionID,
		"active":            v.Active,
		"active_recon_date": util.FormatReconDate(v.ActiveReconDate),
		"created_by":        v.CreatedBy,
		"file_model":        json.RawMessage(modelJSON),
	}
	if v.InactiveReconDate != nil {
		payload["inactive_recon_date"] = util.FormatReconDate(*v.InactiveReconDate)
	}
	return payload, nil
}

func (as *AuditService) GetEntries(input AuditFilterInput) ([]AuditEntry, int64, int, error) {
	if input.Page <= 0 {
		input.Page = 1
	}
	if input.PageSize <= 0 || input.PageSize > 100 {
		input.PageSize = 20
	}

	base := as.DB.Model(&AuditEntry{})

	if input.EventType != nil && strings.TrimSpace(*input.EventType) != "" {
		base = base.Where("event_type = ?", strings.TrimSpace(*input.EventType))
	}
	if input.FileID != nil {
		base = base.Where("file_id = ?", *input.FileID)
	}
	if input.Actor != nil && strings.TrimSpace(*input.Actor) != "" {
		base = base.Where("actor = ?", strings.TrimSpace(*input.Actor))
	}

	if input.StartDate != nil && strings.TrimSpace(*input.StartDate) != "" {
		start, err := util.ParseReconDate(*input.StartDate)
		if err != nil {
			return nil, 0, 0, err
		}
		base = base.Where("created_at >= ?", start)
	}
	if input.EndDate != nil && strings.TrimSpace(*input.EndDate) != "" {
		end, err := util.ParseReconDate(*input.EndDate)
		if err != nil {
			return nil, 0, 0, err
		}
		// inclusive end day
		base = base.Where("created_at < ?", end.AddDate(0, 0, 1))
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, 0, err
	}

	totalPages := int(math.Ceil(float64(total) / float64(input.PageSize)))
	if totalPages == 0 {
		totalPages = 1
	}

	var entries []AuditEntry
	if err := base.
		Session(&gorm.Session{}).
		Order("created_at DESC, id DESC").
		Limit(input.PageSize).
		Offset((input.Page - 1) * input.PageSize).
		Find(&entries).Error; err != nil {
		return nil, 0, 0, err
	}

	return entries, total, totalPages, nil
}
