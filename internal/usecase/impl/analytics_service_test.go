package impl

import (
	"context"
	"strings"
	"testing"
	"time"

	"portal/internal/domain/entity"
	domainerrors "portal/internal/domain/errors"
	"portal/internal/domain/service"
	"portal/internal/infra/export"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"
)

func createTestAnalyticsService(t *testing.T) (*analyticsService, service.ExportStorage) {
	t.Helper()

	bucket := memblob.OpenBucket(nil)
	t.Cleanup(func() { _ = bucket.Close() })

	storage := export.NewBucketStorage(bucket)
	svc := NewAnalyticsService(storage, newDiscardLogger()).(*analyticsService)
	svc.now = func() time.Time { return time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC) }

	return svc, storage
}

func TestAnalyticsService_DataIsOldestFirstWithinRanges(t *testing.T) {
	svc, _ := createTestAnalyticsService(t)

	data, err := svc.Data(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, data, 7)

	assert.Equal(t, "2024-03-04", data[0].Date)
	assert.Equal(t, "2024-03-10", data[6].Date)
	for _, d := range data {
		assert.GreaterOrEqual(t, d.Visits, 0)
		assert.Less(t, d.Visits, 100)
		assert.Less(t, d.Policies, 10)
		assert.Less(t, d.Claims, 5)
		assert.Less(t, d.Revenue, 10000)
	}
}

func TestAnalyticsService_DataDefaultsAndLimits(t *testing.T) {
	svc, _ := createTestAnalyticsService(t)
	ctx := context.Background()

	data, err := svc.Data(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, data, 30)

	_, err = svc.Data(ctx, 1000)
	require.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestAnalyticsService_Summary(t *testing.T) {
	svc, _ := createTestAnalyticsService(t)

	stats := svc.Summary([]entity.DailyMetric{
		{Date: "2024-03-01", Visits: 10, Policies: 1, Claims: 1, Revenue: 1000},
		{Date: "2024-03-02", Visits: 11, Policies: 2, Claims: 0, Revenue: 1001},
		{Date: "2024-03-03", Visits: 12, Policies: 2, Claims: 0, Revenue: 1003},
	})

	assert.Equal(t, entity.SummaryStats{
		TotalVisits:      33,
		TotalPolicies:    5,
		TotalClaims:      1,
		TotalRevenue:     3004,
		AvgDailyVisits:   11,
		AvgDailyPolicies: 1.7,
		AvgDailyClaims:   0.3,
		AvgDailyRevenue:  1001,
	}, stats)

	assert.Equal(t, entity.SummaryStats{}, svc.Summary(nil))
}

func TestAnalyticsService_ExportCSV(t *testing.T) {
	svc, storage := createTestAnalyticsService(t)
	ctx := context.Background()

	data := []entity.DailyMetric{
		{Date: "2024-03-01", Visits: 10, Policies: 1, Claims: 0, Revenue: 1500},
		{Date: "2024-03-02", Visits: 20, Policies: 2, Claims: 1, Revenue: 2500},
	}

	out, err := svc.ExportCSV(ctx, data, "march")
	require.NoError(t, err)

	want := "date,visits,policies,claims,revenue\n2024-03-01,10,1,0,1500\n2024-03-02,20,2,1,2500\n"
	assert.Equal(t, "analytics/march.csv", out.Key)
	assert.Equal(t, want, string(out.CSV))
	assert.Equal(t, int64(len(want)), out.Size)

	stored, err := storage.Read(ctx, out.Key)
	require.NoError(t, err)
	assert.Equal(t, want, string(stored))
}

func TestAnalyticsService_ExportCSVNames(t *testing.T) {
	svc, _ := createTestAnalyticsService(t)
	ctx := context.Background()
	data := []entity.DailyMetric{{Date: "2024-03-01"}}

	for filename, key := range map[string]string{
		"":                  "analytics/analytics.csv",
		"../../etc/passwd":  "analytics/passwd.csv",
		"report.CSV":        "analytics/report.CSV",
		`C:\exports\q1.csv`: "analytics/q1.csv",
	} {
		out, err := svc.ExportCSV(ctx, data, filename)
		require.NoError(t, err)
		assert.Equal(t, key, out.Key, "filename %q", filename)
	}
}

func TestAnalyticsService_ExportCSVRejectsEmpty(t *testing.T) {
	svc, _ := createTestAnalyticsService(t)

	_, err := svc.ExportCSV(context.Background(), nil, "empty.csv")
	require.ErrorIs(t, err, domainerrors.ErrValidationFailed)
	assert.True(t, strings.Contains(err.Error(), "Input validation failed"))
}
