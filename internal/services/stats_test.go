package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"route-insight-service/internal/domain"
)

func datePtr(t *testing.T, value string) *time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return &parsed
}

func coordPtr(lat, lon float64) *domain.Coordinates {
	return &domain.Coordinates{Lat: lat, Lon: lon}
}

func TestUniqueDatesSortedAndDeduplicated(t *testing.T) {
	records := []domain.VisitRecord{
		{Date: datePtr(t, "2026-03-02")},
		{Date: nil},
		{Date: datePtr(t, "2026-03-01")},
		{Date: datePtr(t, "2026-03-02")},
	}

	assert.Equal(t, []string{"2026-03-01", "2026-03-02"}, UniqueDates(records))
}

func TestFilterByDate(t *testing.T) {
	records := []domain.VisitRecord{
		{ID: "a", Date: datePtr(t, "2026-03-01")},
		{ID: "b", Date: datePtr(t, "2026-03-02")},
		{ID: "c", Date: nil},
	}

	filtered := FilterByDate(records, "2026-03-01")
	require.Len(t, filtered, 1)
	assert.Equal(t, "a", filtered[0].ID)

	assert.Equal(t, records, FilterByDate(records, ""))
}

func TestComputeDailyStatsRequiresTwoGeocodedRecords(t *testing.T) {
	records := []domain.VisitRecord{
		// One geocoded record only: no stats entry for this date.
		{Date: datePtr(t, "2026-03-01"), Coordinates: coordPtr(52.37, 4.90), RequiredHours: 1},
		{Date: datePtr(t, "2026-03-01"), RequiredHours: 2},
	}

	assert.Empty(t, ComputeDailyStats(records))
	assert.Equal(t, []string{"2026-03-01"}, UniqueDates(records))
}

func TestComputeDailyStatsAggregatesFullDay(t *testing.T) {
	records := []domain.VisitRecord{
		{Date: datePtr(t, "2026-03-01"), Coordinates: coordPtr(52.3676, 4.9041), RequiredHours: 2.5},
		{Date: datePtr(t, "2026-03-01"), Coordinates: coordPtr(52.0907, 5.1214), RequiredHours: 3},
		// No coordinates: excluded from distance, counted for time/count.
		{Date: datePtr(t, "2026-03-01"), RequiredHours: 1},
		{Date: datePtr(t, "2026-03-02"), Coordinates: coordPtr(51.92, 4.47), RequiredHours: 4},
	}

	stats := ComputeDailyStats(records)
	require.Len(t, stats, 1)

	day := stats[0]
	assert.Equal(t, "2026-03-01", day.Date)
	assert.Equal(t, 3, day.LocationCount)
	assert.InDelta(t, 6.5, day.TotalTimeHours, 1e-9)
	assert.InDelta(t, 34.2, day.DistanceKm, 1.0)
}

func TestComputeDailyStatsOnePerDate(t *testing.T) {
	records := []domain.VisitRecord{
		{Date: datePtr(t, "2026-03-01"), Coordinates: coordPtr(52.37, 4.90)},
		{Date: datePtr(t, "2026-03-01"), Coordinates: coordPtr(52.09, 5.12)},
		{Date: datePtr(t, "2026-03-02"), Coordinates: coordPtr(51.92, 4.47)},
		{Date: datePtr(t, "2026-03-02"), Coordinates: coordPtr(51.58, 4.77)},
	}

	stats := ComputeDailyStats(records)
	require.Len(t, stats, 2)
	assert.Equal(t, "2026-03-01", stats[0].Date)
	assert.Equal(t, "2026-03-02", stats[1].Date)
}
