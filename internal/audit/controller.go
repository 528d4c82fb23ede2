package audit

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type AuditController struct {
	AuditService AuditServiceAPI
}

// GET /api/audit
func (ac *AuditController) GetEntries(c *gin.Context) {
	var input AuditFilterInput

	if v := strings.TrimSpace(c.Query("event_type")); v != "" {
		input.EventType = &v
	}
	if v := strings.TrimSpace(c.Query("actor")); v != "" {
		input.Actor = &v
	}
	if v := strings.TrimSpace(c.Query("file_id")); v != "" {
		fileID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file_id"})
			return
		}
		input.FileID = &fileID
	}
	if v := strings.TrimSpace(c.Query("start_date")); v != "" {
		input.StartDate = &v
	}
	if v := strings.TrimSpace(c.Query("end_date")); v != "" {
		input.EndDate = &v
	}
	input.Page, _ = strconv.Atoi(c.Query("page"))
	input.PageSize, _ = strconv.Atoi(c.Query("page_size"))

	entries, total, totalPages, err := ac.AuditService.GetEntries(input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries":     entries,
		"total":       total,
		"total_pages": totalPages,
	})
}
