package registry

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"filemodel-registry/internal/filemodel"
	"filemodel-registry/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RegistryController struct {
	RegistryService RegistryServiceAPI
}

type createRequest struct {
	FileID          int64           `json:"file_id" binding:"required"`
	ActiveReconDate string          `json:"active_recon_date" binding:"required"`
	Active          *bool           `json:"active"`
	FileModel       json.RawMessage `json:"file_model" binding:"required"`
	Username        string          `json:"username" binding:"required"`
	Note            string          `json:"note"`
}

type updateRequest struct {
	ActiveReconDate *string         `json:"active_recon_date"`
	Active          *bool           `json:"active"`
	FileModel       json.RawMessage `json:"file_model"`
	Username        string          `json:"username" binding:"required"`
	Note            string          `json:"note"`
}

type setReconDateRequest struct {
	ActiveReconDate string `json:"active_recon_date" binding:"required"`
	Username        string `json:"username" binding:"required"`
	Note            string `json:"note"`
}

type inactivateRequest struct {
	Username string `json:"username" binding:"required"`
	Note     string `json:"note"`
}

type versionedFileModelResponse struct {
	FileID            int64           `json:"file_id"`
	VersionID         int64           `json:"version_id"`
	Active            bool            `json:"active"`
	ActiveReconDate   string          `json:"active_recon_date"`
	InactiveReconDate *string         `json:"inactive_recon_date,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	CreatedBy         string          `json:"created_by"`
	FileModel         json.RawMessage `json:"file_model"`
}

func toResponse(v filemodel.VersionedFileModel) (versionedFileModelResponse, error) {
	modelJSON, err := filemodel.MarshalFileModel(v.Model)
	if err != nil {
		return versionedFileModelResponse{}, err
	}

	return versionedFileModelResponse{
		FileID:            v.FileID,
		VersionID:         v.VersionID,
		Active:            v.Active,
		ActiveReconDate:   util.FormatReconDate(v.ActiveReconDate),
		InactiveReconDate: util.FormatReconDatePtr(v.InactiveReconDate),
		CreatedAt:         v.CreatedAt,
		CreatedBy:         v.CreatedBy,
		FileModel:         modelJSON,
	}, nil
}

// POST /api/file-models
func (rc *RegistryController) Create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reconDate, err := util.ParseReconDate(req.ActiveReconDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid active_recon_date: " + err.Error()})
		return
	}

	model, err := filemodel.UnmarshalFileModel(req.FileModel)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file_model: " + err.Error()})
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	versionID, err := rc.RegistryService.CreateFileModel(CreateFileModel{
		ID:              uuid.New(),
		Username:        req.Username,
		Note:            req.Note,
		FileID:          req.FileID,
		ActiveReconDate: reconDate,
		Active:          active,
		Model:           model,
	})
	if err != nil {
		rc.writeCommandError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"version_id": versionID})
}

// PUT /api/file-models/:versionId
func (rc *RegistryController) Update(c *gin.Context) {
	versionID, ok := parseVersionID(c)
	if !ok {
		return
	}

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cmd := UpdateFileModel{
		ID:        uuid.New(),
		Username:  req.Username,
		Note:      req.Note,
		VersionID: versionID,
	}

	if req.ActiveReconDate != nil {
		reconDate, err := util.ParseReconDate(*req.ActiveReconDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid active_recon_date: " + err.Error()})
			return
		}
		cmd.ActiveReconDate = &reconDate
	}
	cmd.Active = req.Active
	if len(req.FileModel) > 0 {
		model, err := filemodel.UnmarshalFileModel(req.FileModel)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file_model: " + err.Error()})
			return
		}
		cmd.Model = model
	}

	newVersionID, err := rc.RegistryService.UpdateFileModel(cmd)
	if err != nil {
		rc.writeCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"version_id": newVersionID})
}

// PUT /api/file-models/:versionId/recon-date
func (rc *RegistryController) SetReconDate(c *gin.Context) {
	versionID, ok := parseVersionID(c)
	if !ok {
		return
	}

	var req setReconDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reconDate, err := util.ParseReconDate(req.ActiveReconDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid active_recon_date: " + err.Error()})
		return
	}

	newVersionID, err := rc.RegistryService.SetActiveReconDate(SetActiveReconDate{
		ID:              uuid.New(),
		Username:        req.Username,
		Note:            req.Note,
		VersionID:       versionID,
		ActiveReconDate: reconDate,
	})
	if err != nil {
		rc.writeCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"version_id": newVersionID})
}

// PUT /api/file-models/:versionId/inactivate
func (rc *RegistryController) Inactivate(c *gin.Context) {
	versionID, ok := parseVersionID(c)
	if !ok {
		return
	}

	var req inactivateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	newVersionID, err := rc.RegistryService.InactivateFileModel(InactivateFileModel{
		ID:        uuid.New(),
		Username:  req.Username,
		Note:      req.Note,
		VersionID: versionID,
	})
	if err != nil {
		rc.writeCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"version_id": newVersionID})
}

// GET /api/file-models/:versionId
func (rc *RegistryController) GetByVersion(c *gin.Context) {
	versionID, ok := parseVersionID(c)
	if !ok {
		return
	}

	vfm, err := rc.RegistryService.GetByVersion(versionID)
	if err != nil {
		rc.writeQueryError(c, err)
		return
	}

	resp, err := toResponse(vfm)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GET /api/file-models?file_id=...&recon_date=YYYY-MM-DD
func (rc *RegistryController) GetActiveAsOf(c *gin.Context) {
	fileID, err := strconv.ParseInt(strings.TrimSpace(c.Query("file_id")), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file_id is required"})
		return
	}

	reconDate, err := util.ParseReconDate(c.Query("recon_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recon_date: " + err.Error()})
		return
	}

	vfm, err := rc.RegistryService.GetActiveAsOf(fileID, reconDate)
	if err != nil {
		rc.writeQueryError(c, err)
		return
	}

	resp, err := toResponse(vfm)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GET /api/file-models/history?file_id=...
func (rc *RegistryController) ListVersions(c *gin.Context) {
	fileID, err := strconv.ParseInt(strings.TrimSpace(c.Query("file_id")), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file_id is required"})
		return
	}

	versions, err := rc.RegistryService.ListVersions(fileID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]versionedFileModelResponse, 0, len(versions))
	for _, vfm := range versions {
		resp, err := toResponse(vfm)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		out = append(out, resp)
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/file-models/:versionId/avro
func (rc *RegistryController) GetAvroSchema(c *gin.Context) {
	versionID, ok := parseVersionID(c)
	if !ok {
		return
	}

	vfm, err := rc.RegistryService.GetByVersion(versionID)
	if err != nil {
		rc.writeQueryError(c, err)
		return
	}

	schema, err := filemodel.ToAvroSchema(vfm.Model)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, schema)
}

func parseVersionID(c *gin.Context) (int64, bool) {
	versionID, err := strconv.ParseInt(c.Param("versionId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid version id"})
		return 0, false
	}
	return versionID, true
}

func (rc *RegistryController) writeCommandError(c *gin.Context, err error) {
	var vErr *filemodel.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (rc *RegistryController) writeQueryError(c *gin.Context, err error) {
	var aErr *AdaptError
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "file model not found"})
	case errors.As(err, &aErr):
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
