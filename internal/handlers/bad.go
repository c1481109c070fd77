package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nycnighthawk/otel-app-sample/internal/badmode"
	"github.com/nycnighthawk/otel-app-sample/internal/models"
)

type BadQueryRunner interface {
	Run(ctx context.Context, mode string) (*models.BadQueryResult, error)
}

// RunJournal keeps a history of executed bad queries.
type RunJournal interface {
	Record(ctx context.Context, rec models.RunRecord) error
	Recent(ctx context.Context, n int) ([]models.RunRecord, error)
	Capacity() int
}

type BadQueryHandler struct {
	runner  BadQueryRunner
	modes   *badmode.Controller
	journal RunJournal
}

func NewBadQueryHandler(runner BadQueryRunner, modes *badmode.Controller, journal RunJournal) *BadQueryHandler {
	return &BadQueryHandler{
		runner:  runner,
		modes:   modes,
		journal: journal,
	}
}

// RunBadQuery executes the expensive query for the requested or current mode
func (h *BadQueryHandler) RunBadQuery(c *gin.Context) {
	mode := h.modes.Resolve(c.Query("mode"))

	start := time.Now()
	result, err := h.runner.Run(c.Request.Context(), mode)
	if err != nil {
		writeError(c, "run bad query "+mode, err)
		return
	}
	elapsed := time.Since(start)

	rec := models.RunRecord{
		Mode:       result.Mode,
		Rows:       result.Rows,
		DurationMS: elapsed.Milliseconds(),
		At:         start.UTC(),
	}
	if err := h.journal.Record(c.Request.Context(), rec); err != nil {
		log.Printf("⚠️ Failed to record bad query run: %v", err)
	}

	log.Printf("🐢 Bad query %s returned %d rows in %s", result.Mode, result.Rows, elapsed)
	c.JSON(http.StatusOK, result)
}

// GetMode reports the current, default and allowed modes
func (h *BadQueryHandler) GetMode(c *gin.Context) {
	c.JSON(http.StatusOK, models.BadModeResponse{
		BadQueryMode: h.modes.Current(),
		Default:      h.modes.Default(),
		Allowed:      h.modes.Allowed(),
	})
}

// SetMode switches the mode used by /api/bad when no override is given
func (h *BadQueryHandler) SetMode(c *gin.Context) {
	mode, err := h.modes.Set(param(c, "mode"))
	if err != nil {
		writeError(c, "set bad query mode", err)
		return
	}

	log.Printf("🔧 Bad query mode set to %s", mode)
	c.JSON(http.StatusOK, models.BadModeSetResponse{OK: true, BadQueryMode: mode})
}

// ListRuns returns the most recent bad query runs
func (h *BadQueryHandler) ListRuns(c *gin.Context) {
	limit := models.Clamp(
		models.ParseInt(c.Query("limit"), models.DefaultRunLimit),
		1, h.journal.Capacity(),
	)

	runs, err := h.journal.Recent(c.Request.Context(), limit)
	if err != nil {
		writeError(c, "list bad query runs", err)
		return
	}

	c.JSON(http.StatusOK, models.RunsResponse{Items: runs})
}
