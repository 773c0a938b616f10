package handlers

import (
	"github.com/gin-gonic/gin"
)

// Handlers bundles everything the router needs. main builds one of these;
// tests build theirs over sqlite and a stub model.
type Handlers struct {
	Applications  *ApplicationHandler
	Questions     *QuestionHandler
	Documents     *DocumentHandler
	Analytics     *AnalyticsHandler
	Import        *ImportHandler
	Capture       *CaptureHandler
	Notifications *NotificationHandler
}

// RegisterRoutes mounts the API under /api/v1. The liveness probe lives at
// the root so load balancers don't need the API prefix.
func RegisterRoutes(r *gin.Engine, h *Handlers) {
	r.GET("/healthz", HealthCheck)

	api := r.Group("/api/v1")
	{
		api.GET("/health", HealthCheck)

		// Application Routes
		api.POST("/applications", h.Applications.Create)
		api.GET("/applications", h.Applications.List)
		api.GET("/applications/:id", h.Applications.Get)
		api.PATCH("/applications/:id", h.Applications.Update)
		api.DELETE("/applications/:id", h.Applications.Delete)
		api.POST("/applications/:id/status", h.Applications.ChangeStatus)
		api.GET("/applications/:id/history", h.Applications.History)

		// Question Routes
		api.POST("/applications/:id/questions/extract", h.Questions.Extract)
		api.POST("/applications/:id/questions", h.Questions.Create)
		api.GET("/applications/:id/questions", h.Questions.ListForApplication)
		api.DELETE("/questions/:id", h.Questions.Delete)
		api.POST("/questions/:id/answer", h.Questions.Answer)
		api.POST("/applications/:id/cover-letter", h.Questions.CoverLetter)

		// Document Routes
		api.POST("/documents", h.Documents.Upload)
		api.GET("/documents", h.Documents.List)
		api.GET("/documents/:id", h.Documents.Get)
		api.GET("/documents/:id/url", h.Documents.DownloadURL)
		api.DELETE("/documents/:id", h.Documents.Delete)
		api.POST("/documents/:id/parse", h.Documents.Parse)

		// Analysis
		api.POST("/analyze", h.Questions.Analyze)

		// Analytics
		api.GET("/analytics/flow", h.Analytics.Flow)
		api.GET("/analytics/metrics", h.Analytics.Metrics)
		api.GET("/analytics/funnel", h.Analytics.Funnel)
		api.GET("/analytics/timeline", h.Analytics.Timeline)

		// Import
		api.POST("/import/csv", h.Import.CSV)

		// Quick-capture (browser extension)
		api.POST("/capture", h.Capture.Capture)

		// Notifications
		api.GET("/notifications", h.Notifications.List)
		api.POST("/notifications/:id/read", h.Notifications.MarkRead)
	}
}
