package guess

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, guessService GuessServiceAPI) {
	guessController := &GuessController{GuessService: guessService}

	r.POST("/api/file-models/guess", guessController.GuessFileModel)
}
