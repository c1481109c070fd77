package runlog

import (
	"context"

	"github.com/nycnighthawk/otel-app-sample/internal/models"
)

// Nop is used when no Redis is configured: records are dropped.
type Nop struct{}

func (Nop) Record(context.Context, models.RunRecord) error { return nil }

func (Nop) Recent(context.Context, int) ([]models.RunRecord, error) {
	return []models.RunRecord{}, nil
}

func (Nop) Capacity() int { return models.DefaultRunLimit }
