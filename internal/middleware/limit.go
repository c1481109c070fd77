package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"
)

// ConcurrencyLimit bounds the number of requests handled at once. Requests
// beyond the bound wait for a slot; a client that goes away while waiting
// is dropped with 503.
func ConcurrencyLimit(n int) gin.HandlerFunc {
	sem := semaphore.NewWeighted(int64(max(n, 1)))

	return func(c *gin.Context) {
		if err := sem.Acquire(c.Request.Context(), 1); err != nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "server busy"})
			return
		}
		defer sem.Release(1)

		c.Next()
	}
}
