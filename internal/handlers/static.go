package handlers

import (
	"io/fs"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nycnighthawk/otel-app-sample/internal/models"
)

const indexFile = "index.html"

// StaticHandler serves the single-page front end.
type StaticHandler struct {
	files fs.FS
}

func NewStaticHandler(files fs.FS) *StaticHandler {
	return &StaticHandler{files: files}
}

// Index serves index.html, or 500 when it is missing
func (h *StaticHandler) Index(c *gin.Context) {
	h.serveIndex(c, http.StatusOK, http.StatusInternalServerError)
}

// NotFound answers unmatched routes: JSON 404 under /api/, a plain 404 for
// missing assets, the SPA otherwise
func (h *StaticHandler) NotFound(c *gin.Context) {
	path := c.Request.URL.Path
	if strings.HasPrefix(path, "/api/") {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "not_found"})
		return
	}
	if strings.HasPrefix(path, "/assets/") {
		c.Data(http.StatusNotFound, "text/plain; charset=utf-8", []byte("404 page not found"))
		return
	}
	h.serveIndex(c, http.StatusOK, http.StatusNotFound)
}

// Assets exposes the assets/ directory, if any.
func (h *StaticHandler) Assets() http.FileSystem {
	sub, err := fs.Sub(h.files, "assets")
	if err != nil {
		return http.FS(h.files)
	}
	return http.FS(sub)
}

func (h *StaticHandler) serveIndex(c *gin.Context, okStatus, missingStatus int) {
	html, err := fs.ReadFile(h.files, indexFile)
	if err != nil {
		log.Printf("❌ %s missing: %v", indexFile, err)
		c.Data(missingStatus, "text/plain; charset=utf-8", []byte(indexFile+" missing"))
		return
	}
	c.Data(okStatus, "text/html; charset=utf-8", html)
}
