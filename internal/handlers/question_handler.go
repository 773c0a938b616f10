package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/applyos/applyos/internal/dtos"
	"github.com/applyos/applyos/internal/metrics"
	"github.com/applyos/applyos/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type QuestionHandler struct {
	QuestionService *services.QuestionService
	DocService      *services.DocumentService
	LLMService      *services.LLMService
}

func NewQuestionHandler(q *services.QuestionService, d *services.DocumentService, llm *services.LLMService) *QuestionHandler {
	return &QuestionHandler{
		QuestionService: q,
		DocService:      d,
		LLMService:      llm,
	}
}

// Extract is POST /applications/:id/questions/extract.
// AI failures deliberately come back as 200 with a generic question set; the
// user always gets something editable instead of an error page.
func (h *QuestionHandler) Extract(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req dtos.QuestionExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	questions, usedFallback, err := h.QuestionService.Extract(c.Request.Context(), id, req.RawContent)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save questions: " + err.Error()})
		return
	}

	outcome := "ok"
	if usedFallback {
		outcome = "fallback"
	}
	metrics.LLMRequests.WithLabelValues("extract_questions", outcome).Inc()

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"fallback": usedFallback,
		"data":     questions,
	})
}

func (h *QuestionHandler) Create(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req dtos.QuestionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	q, err := h.QuestionService.Create(id, &req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create question: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, q)
}

func (h *QuestionHandler) ListForApplication(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	qs, err := h.QuestionService.ListForApplication(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, qs)
}

func (h *QuestionHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.QuestionService.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// Answer is POST /questions/:id/answer.
func (h *QuestionHandler) Answer(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req dtos.AnswerGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	profile := h.DocService.ProfileFor(req.DocumentID)
	q, err := h.QuestionService.Answer(c.Request.Context(), id, profile, req.Tone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
			return
		}
		metrics.LLMRequests.WithLabelValues("answer", "error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "AI answer generation failed: " + err.Error()})
		return
	}
	metrics.LLMRequests.WithLabelValues("answer", "ok").Inc()
	c.JSON(http.StatusOK, q)
}

// CoverLetter is POST /applications/:id/cover-letter.
func (h *QuestionHandler) CoverLetter(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req dtos.CoverLetterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	profile := h.DocService.ProfileFor(req.DocumentID)
	letter, err := h.QuestionService.CoverLetter(c.Request.Context(), id, profile, req.Tone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
			return
		}
		metrics.LLMRequests.WithLabelValues("cover_letter", "error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "AI cover letter generation failed: " + err.Error()})
		return
	}
	metrics.LLMRequests.WithLabelValues("cover_letter", "ok").Inc()
	c.JSON(http.StatusOK, gin.H{"cover_letter": letter})
}

// fallbackAnalysis is returned when the model fails; the endpoint never
// propagates AI errors as HTTP errors.
var fallbackAnalysis = map[string]interface{}{
	"match_score":    0,
	"matched_skills": []string{},
	"missing_skills": []string{},
	"summary":        "Automatic analysis is temporarily unavailable. Try again in a few minutes.",
	"recommendation": "",
}

// Analyze is POST /analyze: resume text (or a parsed document) vs a job
// description.
func (h *QuestionHandler) Analyze(c *gin.Context) {
	var req dtos.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	resume := req.ResumeText
	if resume == "" && req.DocumentID != "" {
		resume = h.DocService.ProfileFor(req.DocumentID)
	}
	if resume == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Provide resume_text or a parsed document_id"})
		return
	}

	raw, err := h.LLMService.AnalyzeResume(c.Request.Context(), resume, req.JobDescription)
	if err != nil || !json.Valid([]byte(raw)) {
		metrics.LLMRequests.WithLabelValues("analyze", "fallback").Inc()
		c.JSON(http.StatusOK, gin.H{"success": true, "fallback": true, "data": fallbackAnalysis})
		return
	}

	metrics.LLMRequests.WithLabelValues("analyze", "ok").Inc()
	// json.RawMessage prevents Go from escaping the inner JSON string
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"fallback": false,
		"data":     json.RawMessage(raw),
	})
}
