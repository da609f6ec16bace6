package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"route-insight-service/internal/domain"
)

func TestCompareRoutes(t *testing.T) {
	original := &domain.RouteDataset{DailyStats: []domain.DailyStats{
		{Date: "2026-03-01", DistanceKm: 120},
		{Date: "2026-03-02", DistanceKm: 80},
	}}
	optimized := &domain.RouteDataset{DailyStats: []domain.DailyStats{
		{Date: "2026-03-01", DistanceKm: 90},
		{Date: "2026-03-02", DistanceKm: 60},
	}}

	stats := CompareRoutes(original, optimized)

	assert.InDelta(t, 200, stats.OriginalDistanceKm, 1e-9)
	assert.InDelta(t, 150, stats.OptimizedDistanceKm, 1e-9)
	assert.InDelta(t, 50, stats.SavedDistanceKm, 1e-9)
	assert.InDelta(t, 25, stats.SavedPercent, 1e-9)
}

func TestCompareRoutesZeroOriginal(t *testing.T) {
	stats := CompareRoutes(&domain.RouteDataset{}, &domain.RouteDataset{})
	assert.Zero(t, stats.SavedPercent)
}

func TestFilterDataset(t *testing.T) {
	ds := &domain.RouteDataset{
		Records: []domain.VisitRecord{
			{ID: "a", Date: datePtr(t, "2026-03-01")},
			{ID: "b", Date: datePtr(t, "2026-03-02")},
		},
		DailyStats: []domain.DailyStats{
			{Date: "2026-03-01", DistanceKm: 10},
			{Date: "2026-03-02", DistanceKm: 20},
		},
		UniqueDates: []string{"2026-03-01", "2026-03-02"},
	}

	assert.Same(t, ds, FilterDataset(ds, "all"))
	assert.Same(t, ds, FilterDataset(ds, ""))

	filtered := FilterDataset(ds, "2026-03-02")
	require.Len(t, filtered.Records, 1)
	assert.Equal(t, "b", filtered.Records[0].ID)
	require.Len(t, filtered.DailyStats, 1)
	assert.InDelta(t, 20, filtered.DailyStats[0].DistanceKm, 1e-9)
	// Unique dates keep the unfiltered view.
	assert.Equal(t, ds.UniqueDates, filtered.UniqueDates)
}
