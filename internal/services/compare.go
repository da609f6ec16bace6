package services

import "route-insight-service/internal/domain"

// Totals for an original-versus-optimized route comparison.
type ComparisonStats struct {
	OriginalDistanceKm  float64
	OptimizedDistanceKm float64
	SavedDistanceKm     float64
	SavedPercent        float64
}

// CompareRoutes sums the daily distances of both datasets and reports the
// absolute and relative saving of the optimized route.
func CompareRoutes(original, optimized *domain.RouteDataset) ComparisonStats {
	originalDistance := totalDistance(original)
	optimizedDistance := totalDistance(optimized)

	saved := originalDistance - optimizedDistance
	percent := 0.0
	if originalDistance > 0 {
		percent = saved / originalDistance * 100
	}

	return ComparisonStats{
		OriginalDistanceKm:  originalDistance,
		OptimizedDistanceKm: optimizedDistance,
		SavedDistanceKm:     saved,
		SavedPercent:        percent,
	}
}

func totalDistance(ds *domain.RouteDataset) float64 {
	if ds == nil {
		return 0
	}

	total := 0.0
	for _, s := range ds.DailyStats {
		total += s.DistanceKm
	}
	return total
}

// FilterDataset returns a date-scoped view of a dataset. An empty date or
// "all" passes the dataset through unchanged.
func FilterDataset(ds *domain.RouteDataset, date string) *domain.RouteDataset {
	if ds == nil || date == "" || date == "all" {
		return ds
	}

	filtered := &domain.RouteDataset{
		Records:         FilterByDate(ds.Records, date),
		DailyStats:      make([]domain.DailyStats, 0, 1),
		UniqueDates:     ds.UniqueDates,
		FailedAddresses: ds.FailedAddresses,
	}
	for _, s := range ds.DailyStats {
		if s.Date == date {
			filtered.DailyStats = append(filtered.DailyStats, s)
		}
	}

	return filtered
}
