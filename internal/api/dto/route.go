package dto

import (
	"time"

	"route-insight-service/internal/domain"
	"route-insight-service/internal/services"
)

type CoordinatesResponse struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type VisitResponse struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	Address       string               `json:"address"`
	Notes         string               `json:"notes,omitempty"`
	Coordinates   *CoordinatesResponse `json:"coordinates"`
	RequiredHours float64              `json:"required_hours"`
	Date          *time.Time           `json:"date,omitempty"`
	StartTime     *time.Time           `json:"start_time,omitempty"`
	EndTime       *time.Time           `json:"end_time,omitempty"`
	AssignedTo    string               `json:"assigned_to,omitempty"`
	VisitType     string               `json:"visit_type,omitempty"`
}

type DailyStatsResponse struct {
	Date           string  `json:"date"`
	DistanceKm     float64 `json:"distance_km"`
	TotalTimeHours float64 `json:"total_time_hours"`
	LocationCount  int     `json:"location_count"`
}

type RouteDatasetResponse struct {
	Records         []VisitResponse      `json:"records"`
	DailyStats      []DailyStatsResponse `json:"daily_stats"`
	UniqueDates     []string             `json:"unique_dates"`
	FailedAddresses []string             `json:"failed_addresses"`
}

func FromDataset(ds *domain.RouteDataset) RouteDatasetResponse {
	res := RouteDatasetResponse{
		Records:         make([]VisitResponse, 0, len(ds.Records)),
		DailyStats:      make([]DailyStatsResponse, 0, len(ds.DailyStats)),
		UniqueDates:     ds.UniqueDates,
		FailedAddresses: ds.FailedAddresses,
	}

	for _, rec := range ds.Records {
		var coords *CoordinatesResponse
		if rec.Coordinates != nil {
			coords = &CoordinatesResponse{Lat: rec.Coordinates.Lat, Lon: rec.Coordinates.Lon}
		}

		res.Records = append(res.Records, VisitResponse{
			ID:            rec.ID,
			Name:          rec.Name,
			Address:       rec.Address,
			Notes:         rec.Notes,
			Coordinates:   coords,
			RequiredHours: rec.RequiredHours,
			Date:          rec.Date,
			StartTime:     rec.StartTime,
			EndTime:       rec.EndTime,
			AssignedTo:    rec.AssignedTo,
			VisitType:     rec.VisitType,
		})
	}

	for _, s := range ds.DailyStats {
		res.DailyStats = append(res.DailyStats, DailyStatsResponse{
			Date:           s.Date,
			DistanceKm:     s.DistanceKm,
			TotalTimeHours: s.TotalTimeHours,
			LocationCount:  s.LocationCount,
		})
	}

	return res
}

type ComparisonResponse struct {
	OriginalDistanceKm  float64 `json:"original_distance_km"`
	OptimizedDistanceKm float64 `json:"optimized_distance_km"`
	SavedDistanceKm     float64 `json:"saved_distance_km"`
	SavedPercent        float64 `json:"saved_percent"`
}

func FromComparison(c services.ComparisonStats) ComparisonResponse {
	return ComparisonResponse{
		OriginalDistanceKm:  c.OriginalDistanceKm,
		OptimizedDistanceKm: c.OptimizedDistanceKm,
		SavedDistanceKm:     c.SavedDistanceKm,
		SavedPercent:        c.SavedPercent,
	}
}
