package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/applyos/applyos/internal/capture"
	"github.com/applyos/applyos/internal/dtos"
	"github.com/applyos/applyos/internal/metrics"
	"github.com/applyos/applyos/internal/services"
	"github.com/gin-gonic/gin"
)

type CaptureHandler struct {
	LLMService *services.LLMService
}

func NewCaptureHandler(llm *services.LLMService) *CaptureHandler {
	return &CaptureHandler{LLMService: llm}
}

// Capture is POST /capture, called by the browser extension with the current
// page. Heuristics run first; the LLM only sees pages they can't handle.
func (h *CaptureHandler) Capture(c *gin.Context) {
	var req dtos.CaptureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	if p := capture.Detect(req.URL, req.RawHTML); p != nil {
		metrics.CaptureDetections.WithLabelValues(p.Method).Inc()
		c.JSON(http.StatusOK, gin.H{"success": true, "data": p})
		return
	}

	raw, err := h.LLMService.ExtractPosting(c.Request.Context(), req.RawHTML)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "AI Extraction failed: " + err.Error()})
		return
	}

	var p capture.Posting
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "AI returned unparseable data"})
		return
	}
	p.Source = capture.DetectSource(req.URL)
	p.Method = capture.MethodLLM
	p.Confidence = 0.7

	metrics.CaptureDetections.WithLabelValues(capture.MethodLLM).Inc()
	c.JSON(http.StatusOK, gin.H{"success": true, "data": p})
}
