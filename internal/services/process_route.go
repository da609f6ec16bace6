package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jszwec/csvutil"
	"github.com/rs/zerolog"

	"route-insight-service/internal/adapters/geocode"
	"route-insight-service/internal/domain"
	"route-insight-service/internal/ports"
)

// visitRow mirrors one line of the schedule export. Header names follow
// the source planning tool.
type visitRow struct {
	Name          string `csv:"Abonnement"`
	Address       string `csv:"Abonnement/Afleveradres"`
	ExternalID    string `csv:"Externe ID"`
	BeginDateTime string `csv:"Begin datum-tijd"`
	StartDate     string `csv:"Startdatum"`
	EndDateTime   string `csv:"Eind datum-tijd"`
	RequiredHours string `csv:"Benodigde tijd (uren)"`
	AssignedTo    string `csv:"Toegewezen aan"`
	Notes         string `csv:"Notities"`
	VisitType     string `csv:"Soort bezoek"`
}

// Timestamp layouts the exporter is known to emit.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"02-01-2006 15:04",
	"2006-01-02",
	"02-01-2006",
}

// ProcessRoute runs the full pipeline over one CSV document: decode rows,
// resolve coordinates, order records chronologically, and aggregate
// per-day statistics.
//
// Rows are geocoded one at a time; the address cache serializes its own
// writes, but no row-level parallelism is attempted here to avoid
// duplicate external lookups for overlapping addresses.
//
// Rows missing the name or address field are skipped and logged. Only a
// structurally malformed document fails the call.
func ProcessRoute(ctx context.Context, r io.Reader, geocoder ports.Geocoder, log zerolog.Logger) (*domain.RouteDataset, error) {
	csvReader := csv.NewReader(r)
	csvReader.Comma = ';'

	dec, err := csvutil.NewDecoder(csvReader)
	if err != nil {
		return nil, fmt.Errorf("process route: read csv header: %w", err)
	}

	records := make([]domain.VisitRecord, 0, 64)
	failed := make([]string, 0)

	for {
		var row visitRow
		if err := dec.Decode(&row); err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("process route: decode csv row: %w", err)
		}

		if strings.TrimSpace(row.Name) == "" || strings.TrimSpace(row.Address) == "" {
			log.Warn().Str("name", row.Name).Msg("skipping row with missing required fields")
			continue
		}

		address := geocode.ExtractAddress(row.Address)

		coords, ok := geocoder.Resolve(ctx, address)
		if !ok {
			// Unreachable while the resolver keeps its unconditional
			// default tier; kept so genuine failures stay observable if
			// that contract changes.
			failed = append(failed, row.Address)
			log.Error().Str("address", row.Address).Msg("failed to geocode address")
			continue
		}

		var date, startTime, endTime *time.Time
		if t, ok := parseTimestamp(row.BeginDateTime); ok {
			startTime = t
			date = t
		} else if t, ok := parseTimestamp(row.StartDate); ok {
			date = t
		}
		if t, ok := parseTimestamp(row.EndDateTime); ok {
			endTime = t
		}

		id := strings.TrimSpace(row.ExternalID)
		if id == "" {
			id = fmt.Sprintf("loc_%d", len(records))
		}

		c := coords
		records = append(records, domain.VisitRecord{
			ID:            id,
			Name:          row.Name,
			Address:       row.Address,
			Notes:         row.Notes,
			Coordinates:   &c,
			RequiredHours: parseHours(row.RequiredHours),
			Date:          date,
			StartTime:     startTime,
			EndTime:       endTime,
			AssignedTo:    row.AssignedTo,
			VisitType:     row.VisitType,
		})
	}

	if len(failed) > 0 {
		log.Error().Int("count", len(failed)).Strs("addresses", failed).Msg("geocoding failures")
	}

	// Records without a date sort to the front.
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Date == nil {
			return records[j].Date != nil
		}
		if records[j].Date == nil {
			return false
		}
		return records[i].Date.Before(*records[j].Date)
	})

	ds := &domain.RouteDataset{
		Records:         records,
		DailyStats:      ComputeDailyStats(records),
		UniqueDates:     UniqueDates(records),
		FailedAddresses: failed,
	}

	log.Info().
		Int("records", len(records)).
		Int("dates", len(ds.UniqueDates)).
		Msg("route processed")

	return ds, nil
}

// parseTimestamp tries the known exporter layouts; blank or unparseable
// values are treated as absent.
func parseTimestamp(s string) (*time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, true
		}
	}

	return nil, false
}

// parseHours reads the required-hours cell, accepting a decimal comma.
// Absent or unparseable values default to 0.
func parseHours(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
