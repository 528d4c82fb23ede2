package guess

import (
	"encoding/json"
	"net/http"

	"filemodel-registry/internal/filemodel"

	"github.com/gin-gonic/gin"
)

type GuessController struct {
	GuessService GuessServiceAPI
}

// POST /api/file-models/guess
func (gc *GuessController) GuessFileModel(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	model, err := gc.GuessService.Guess(f, fileHeader.Filename)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	modelJSON, err := filemodel.MarshalFileModel(model)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"file_model": json.RawMessage(modelJSON)})
}
