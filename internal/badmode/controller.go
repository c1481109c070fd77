// Package badmode holds the process-wide bad-query mode.
package badmode

import (
	"sort"
	"sync/atomic"

	"github.com/nycnighthawk/otel-app-sample/internal/models"
)

// Controller owns the current bad-query mode. It is safe for concurrent use;
// writes replace the whole value atomically.
type Controller struct {
	def     string
	current atomic.Pointer[string]
}

// NewController starts at def, which must already be an allowed mode.
func NewController(def string) *Controller {
	def = models.NormalizeMode(def)
	if !IsAllowed(def) {
		def = models.BadModeLike
	}
	c := &Controller{def: def}
	c.current.Store(&def)
	return c
}

func (c *Controller) Current() string {
	return *c.current.Load()
}

func (c *Controller) Default() string {
	return c.def
}

// Allowed returns the modes in display order.
func (c *Controller) Allowed() []string {
	return models.BadModes()
}

// Set replaces the current mode. Unknown modes are rejected with a
// ValidationError listing the allowed modes sorted, and the state is kept.
func (c *Controller) Set(mode string) (string, error) {
	mode = models.NormalizeMode(mode)
	if !IsAllowed(mode) {
		return "", &models.ValidationError{Message: "invalid mode", Allowed: SortedAllowed()}
	}
	c.current.Store(&mode)
	return mode, nil
}

// Resolve picks the mode for one request: a non-blank override wins,
// otherwise the current mode.
func (c *Controller) Resolve(override string) string {
	if mode := models.NormalizeMode(override); mode != "" {
		return mode
	}
	return c.Current()
}

func IsAllowed(mode string) bool {
	for _, m := range models.BadModes() {
		if m == mode {
			return true
		}
	}
	return false
}

func SortedAllowed() []string {
	allowed := models.BadModes()
	sort.Strings(allowed)
	return allowed
}
