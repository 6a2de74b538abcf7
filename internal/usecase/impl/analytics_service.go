package impl

import (
	"bytes"
	"context"
	"encoding/csv"
	"log/slog"
	"math"
	"math/rand/v2"
	"path"
	"strconv"
	"strings"
	"time"

	deliverycontext "portal/internal/delivery/context"
	"portal/internal/domain/entity"
	domainerrors "portal/internal/domain/errors"
	"portal/internal/domain/service"
	"portal/internal/errors"
	"portal/internal/usecase"
	"portal/internal/util"
)

const (
	defaultAnalyticsDays = 30
	maxAnalyticsDays     = 366
	defaultExportName    = "analytics.csv"
	exportPrefix         = "analytics/"
	csvContentType       = "text/csv;charset=utf-8"
)

var csvHeader = []string{"date", "visits", "policies", "claims", "revenue"}

type analyticsService struct {
	storage service.ExportStorage
	logger  *slog.Logger
	now     func() time.Time
	intn    func(n int) int
}

// NewAnalyticsService creates the dashboard analytics service. Data is generated, not collected.
func NewAnalyticsService(storage service.ExportStorage, logger *slog.Logger) usecase.AnalyticsUsecase {
	return &analyticsService{
		storage: storage,
		logger:  logger,
		now:     time.Now,
		intn:    rand.IntN,
	}
}

func (srv *analyticsService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Data returns one entry per day ending today, oldest first.
func (srv *analyticsService) Data(ctx context.Context, days int) ([]entity.DailyMetric, error) {
	if days <= 0 {
		days = defaultAnalyticsDays
	}
	if days > maxAnalyticsDays {
		return nil, domainerrors.ErrValidationFailed.WithDetails("days must not exceed " + strconv.Itoa(maxAnalyticsDays))
	}

	today := srv.now().UTC()
	data := make([]entity.DailyMetric, 0, days)
	for i := days - 1; i >= 0; i-- {
		data = append(data, entity.DailyMetric{
			Date:     today.AddDate(0, 0, -i).Format(time.DateOnly),
			Visits:   srv.intn(100),
			Policies: srv.intn(10),
			Claims:   srv.intn(5),
			Revenue:  srv.intn(10000),
		})
	}

	return data, nil
}

func (srv *analyticsService) Summary(data []entity.DailyMetric) entity.SummaryStats {
	var stats entity.SummaryStats
	if len(data) == 0 {
		return stats
	}

	for _, d := range data {
		stats.TotalVisits += d.Visits
		stats.TotalPolicies += d.Policies
		stats.TotalClaims += d.Claims
		stats.TotalRevenue += d.Revenue
	}

	n := float64(len(data))
	stats.AvgDailyVisits = int(math.Round(float64(stats.TotalVisits) / n))
	stats.AvgDailyPolicies = math.Round(float64(stats.TotalPolicies)/n*10) / 10
	stats.AvgDailyClaims = math.Round(float64(stats.TotalClaims)/n*10) / 10
	stats.AvgDailyRevenue = int(math.Round(float64(stats.TotalRevenue) / n))

	return stats
}

// ExportCSV stores the rendered file under analytics/<filename>.
func (srv *analyticsService) ExportCSV(ctx context.Context, data []entity.DailyMetric, filename string) (*usecase.ExportOutput, error) {
	if len(data) == 0 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("nothing to export")
	}

	content, err := renderCSV(data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to render csv")
	}

	key := exportPrefix + exportName(filename)
	size, err := srv.storage.Write(ctx, key, csvContentType, content)
	if err != nil {
		return nil, errors.Wrap(err, "failed to store export")
	}

	srv.log(ctx).Info("Analytics exported",
		slog.String("key", key),
		slog.String("size", util.FormatBytes(size)),
		slog.String("checksum", util.Checksum(content)),
	)

	return &usecase.ExportOutput{Key: key, Size: size, CSV: content}, nil
}

func renderCSV(data []entity.DailyMetric) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, d := range data {
		row := []string{
			d.Date,
			strconv.Itoa(d.Visits),
			strconv.Itoa(d.Policies),
			strconv.Itoa(d.Claims),
			strconv.Itoa(d.Revenue),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()

	return buf.Bytes(), w.Error()
}

// exportName keeps only the base name so callers cannot escape the export prefix.
func exportName(filename string) string {
	name := path.Base(strings.ReplaceAll(strings.TrimSpace(filename), "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return defaultExportName
	}
	if !strings.HasSuffix(strings.ToLower(name), ".csv") {
		name += ".csv"
	}

	return name
}
