package services

import (
	"math"
	"sort"

	"route-insight-service/internal/domain"
)

// UniqueDates returns the sorted distinct calendar dates present in the
// records. Records without a date are excluded.
func UniqueDates(records []domain.VisitRecord) []string {
	seen := make(map[string]struct{})
	dates := make([]string, 0)

	for _, rec := range records {
		key := rec.DateKey()
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		dates = append(dates, key)
	}

	sort.Strings(dates)
	return dates
}

// FilterByDate returns the records whose calendar date matches. An empty
// date returns the input unchanged.
func FilterByDate(records []domain.VisitRecord, date string) []domain.VisitRecord {
	if date == "" {
		return records
	}

	out := make([]domain.VisitRecord, 0, len(records))
	for _, rec := range records {
		if rec.DateKey() == date {
			out = append(out, rec)
		}
	}
	return out
}

// ComputeDailyStats aggregates per-date route metrics. A date qualifies
// only when at least two of its records carry coordinates; distance is
// computed over the geocoded records in sequence order, while time and
// count cover every record on that date.
func ComputeDailyStats(records []domain.VisitRecord) []domain.DailyStats {
	stats := make([]domain.DailyStats, 0)

	for _, date := range UniqueDates(records) {
		dayRecords := FilterByDate(records, date)

		coords := make([]domain.Coordinates, 0, len(dayRecords))
		for _, rec := range dayRecords {
			if rec.Coordinates != nil {
				coords = append(coords, *rec.Coordinates)
			}
		}

		if len(coords) < 2 {
			continue
		}

		totalTime := 0.0
		for _, rec := range dayRecords {
			totalTime += rec.RequiredHours
		}

		stats = append(stats, domain.DailyStats{
			Date:           date,
			DistanceKm:     round2(domain.RouteDistance(coords)),
			TotalTimeHours: round2(totalTime),
			LocationCount:  len(dayRecords),
		})
	}

	return stats
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
