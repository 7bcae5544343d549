package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler checks the health status of the service
// @Summary      Health check
// @Description  Check the health status of all services (chat log, AI service, SQL Server)
// @Tags         Health
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "Service health status"
// @Router       /health [get]
func (h *Handlers) HealthHandler(c *gin.Context) {
	status := gin.H{
		"status":     "healthy",
		"db":         "connected",
		"ai_service": "not_configured",
		"sql_server": "not_configured",
		"datasets":   h.ingestion.DatasetCount(),
	}

	if h.aiService != nil && h.aiService.Configured() {
		status["ai_service"] = "ready"
	}
	if h.sqlService != nil {
		status["sql_server"] = "disconnected"
		if h.sqlService.IsConnected() {
			status["sql_server"] = "connected"
		}
	}

	c.JSON(http.StatusOK, status)
}
