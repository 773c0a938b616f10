package handlers

import (
	"errors"
	"net/http"

	"github.com/applyos/applyos/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Uploads over this size are rejected before touching storage.
const maxUploadBytes = 20 << 20 // 20 MiB

type DocumentHandler struct {
	DocService *services.DocumentService
}

func NewDocumentHandler(d *services.DocumentService) *DocumentHandler {
	return &DocumentHandler{DocService: d}
}

// Upload is POST /documents (multipart: "file" plus optional "kind").
func (h *DocumentHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing file: " + err.Error()})
		return
	}
	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload: " + err.Error()})
		return
	}
	defer f.Close()

	kind := c.PostForm("kind")
	mime := fileHeader.Header.Get("Content-Type")

	doc, err := h.DocService.Upload(c.Request.Context(), fileHeader.Filename, mime, kind, fileHeader.Size, f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, doc)
}

func (h *DocumentHandler) List(c *gin.Context) {
	docs, err := h.DocService.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, docs)
}

func (h *DocumentHandler) Get(c *gin.Context) {
	doc, err := h.DocService.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, doc)
}

// DownloadURL is GET /documents/:id/url — presigned, valid for one hour.
func (h *DocumentHandler) DownloadURL(c *gin.Context) {
	url, err := h.DocService.DownloadURL(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (h *DocumentHandler) Delete(c *gin.Context) {
	if err := h.DocService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// Parse is POST /documents/:id/parse — AI extraction of the resume profile.
func (h *DocumentHandler) Parse(c *gin.Context) {
	doc, err := h.DocService.Parse(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "AI parse failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, doc)
}
