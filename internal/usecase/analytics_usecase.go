package usecase

import (
	"context"

	"portal/internal/domain/entity"
)

// ExportOutput describes a stored CSV export.
type ExportOutput struct {
	Key  string `json:"key"`
	Size int64  `json:"size"`
	CSV  []byte `json:"-"`
}

// AnalyticsUsecase produces dashboard metrics.
type AnalyticsUsecase interface {
	// Data returns one metric per day for the last days days, oldest first.
	Data(ctx context.Context, days int) ([]entity.DailyMetric, error)

	// Summary aggregates a series.
	Summary(data []entity.DailyMetric) entity.SummaryStats

	// ExportCSV renders the series as CSV and stores it under filename.
	ExportCSV(ctx context.Context, data []entity.DailyMetric, filename string) (*ExportOutput, error)
}
