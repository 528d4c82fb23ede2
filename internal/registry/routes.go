package registry

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, registryService RegistryServiceAPI) {
	registryController := &RegistryController{RegistryService: registryService}

	registryGroup := r.Group("/api/file-models")
	{
		registryGroup.POST("", registryController.Create)
		registryGroup.GET("", registryController.GetActiveAsOf)
		registryGroup.GET("/history", registryController.ListVersions)
		registryGroup.GET("/:versionId", registryController.GetByVersion)
		registryGroup.GET("/:versionId/avro", registryController.GetAvroSchema)
		registryGroup.PUT("/:versionId", registryController.Update)
		registryGroup.PUT("/:versionId/recon-date", registryController.SetReconDate)
		registryGroup.PUT("/:versionId/inactivate", registryController.Inactivate)
	}
}
