package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nycnighthawk/otel-app-sample/internal/models"
)

// HealthCheck returns server status
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{OK: true})
}
