package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestConcurrencyLimit_BoundsInFlight(t *testing.T) {
	gin.SetMode(gin.TestMode)

	const limit = 3
	var inFlight, peak int64

	r := gin.New()
	r.Use(ConcurrencyLimit(limit))
	r.GET("/work", func(c *gin.Context) {
		n := atomic.AddInt64(&inFlight, 1)
		for {
			p := atomic.LoadInt64(&peak)
			if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt64(&inFlight, -1)
		c.Status(http.StatusOK)
	})

	var wg sync.WaitGroup
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/work", nil))
			assert.Equal(t, http.StatusOK, w.Code)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt64(&peak), int64(limit))
	assert.Positive(t, atomic.LoadInt64(&peak))
}

func TestConcurrencyLimit_CancelledWhileWaiting(t *testing.T) {
	gin.SetMode(gin.TestMode)

	release := make(chan struct{})
	started := make(chan struct{})

	r := gin.New()
	r.Use(ConcurrencyLimit(1))
	r.GET("/work", func(c *gin.Context) {
		close(started)
		<-release
		c.Status(http.StatusOK)
	})

	go func() {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/work", nil))
	}()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/work", nil).WithContext(ctx))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	close(release)
}
