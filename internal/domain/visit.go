package domain

import "time"

// Represents a single scheduled stop parsed from a route export.
// Coordinates is nil while the address is unresolved; the parsing flow
// resolves every record through the geocoder fallback chain before it
// reaches a RouteDataset.
type VisitRecord struct {
	ID            string
	Name          string
	Address       string
	Notes         string
	Coordinates   *Coordinates
	RequiredHours float64
	Date          *time.Time
	StartTime     *time.Time
	EndTime       *time.Time
	AssignedTo    string
	VisitType     string
}

// DateKey returns the calendar-date grouping key (date portion only),
// or "" when the record has no date.
func (v VisitRecord) DateKey() string {
	if v.Date == nil {
		return ""
	}
	return v.Date.Format("2006-01-02")
}

// Aggregate over all VisitRecords sharing one calendar date. A date only
// produces stats when at least two of its records carry coordinates.
type DailyStats struct {
	Date           string
	DistanceKm     float64
	TotalTimeHours float64
	LocationCount  int
}

// RouteDataset is the pipeline output for one processed CSV document.
//
// FailedAddresses lists addresses the geocoder could not resolve at any
// tier. The current fallback chain ends in an unconditional default, so
// the list stays empty unless that contract changes.
type RouteDataset struct {
	Records         []VisitRecord
	DailyStats      []DailyStats
	UniqueDates     []string
	FailedAddresses []string
}
