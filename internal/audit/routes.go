package audit

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, auditService AuditServiceAPI) {
	auditController := &AuditController{AuditService: auditService}

	r.GET("/api/audit", auditController.GetEntries)
}
