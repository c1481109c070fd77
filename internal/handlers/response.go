package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nycnighthawk/otel-app-sample/internal/models"
)

const internalErrorMessage = "internal server error"

// writeError maps validation failures to 400 and everything else to a
// generic 500. The detailed error only goes to the log.
func writeError(c *gin.Context, op string, err error) {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: verr.Message, Allowed: verr.Allowed})
		return
	}

	log.Printf("❌ %s: %v", op, err)
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: internalErrorMessage})
}

// param reads a form field, falling back to the query string.
func param(c *gin.Context, key string) string {
	if v, ok := c.GetPostForm(key); ok {
		return v
	}
	return c.Query(key)
}
