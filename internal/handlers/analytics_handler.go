package handlers

import (
	"net/http"

	"github.com/applyos/applyos/internal/services"
	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	Analytics *services.AnalyticsService
}

func NewAnalyticsHandler(a *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{Analytics: a}
}

// Flow is GET /analytics/flow — the Sankey nodes+links payload.
func (h *AnalyticsHandler) Flow(c *gin.Context) {
	flow, err := h.Analytics.StatusFlowData()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, flow)
}

func (h *AnalyticsHandler) Metrics(c *gin.Context) {
	m, err := h.Analytics.ApplicationMetrics()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *AnalyticsHandler) Funnel(c *gin.Context) {
	f, err := h.Analytics.Funnel()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, f)
}

func (h *AnalyticsHandler) Timeline(c *gin.Context) {
	t, err := h.Analytics.Timeline()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, t)
}
