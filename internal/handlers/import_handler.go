package handlers

import (
	"net/http"

	"github.com/applyos/applyos/internal/services"
	"github.com/gin-gonic/gin"
)

type ImportHandler struct {
	ImportService *services.ImportService
}

func NewImportHandler(i *services.ImportService) *ImportHandler {
	return &ImportHandler{ImportService: i}
}

// CSV is POST /import/csv (multipart: "file"). The report lists per-row
// errors; a 200 with errors means a partial import, which is intended.
func (h *ImportHandler) CSV(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing file: " + err.Error()})
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload: " + err.Error()})
		return
	}
	defer f.Close()

	report, err := h.ImportService.ImportCSV(f)
	if err != nil {
		// header-level problems make the whole file unusable
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}
