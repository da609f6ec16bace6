package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"route-insight-service/internal/api/dto"
	"route-insight-service/internal/domain"
	"route-insight-service/internal/ports"
	"route-insight-service/internal/services"
)

const maxUploadBytes = 16 << 20

// RouteHandler exposes the CSV processing pipeline over HTTP.
type RouteHandler struct {
	Geocoder ports.Geocoder
	Log      zerolog.Logger
}

// Process parses one uploaded schedule CSV and returns the full route
// dataset. The document is read from the multipart "file" field when
// present, otherwise from the raw request body. An optional "date" query
// parameter (YYYY-MM-DD, or "all") scopes the response to a single day.
func (h *RouteHandler) Process(w http.ResponseWriter, r *http.Request) {
	body, err := csvPart(r, "file")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	defer body.Close()

	ds, err := services.ProcessRoute(r.Context(), body, h.Geocoder, h.Log)
	if err != nil {
		h.Log.Error().Err(err).Msg("process route failed")
		writeError(w, r, http.StatusUnprocessableEntity, "malformed csv document")
		return
	}

	ds = services.FilterDataset(ds, r.URL.Query().Get("date"))

	writeJSON(w, r, http.StatusOK, dto.FromDataset(ds))
}

// Compare processes two uploaded CSVs (multipart fields "original" and
// "optimized") and returns the distance savings of the optimized route.
func (h *RouteHandler) Compare(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, r, http.StatusBadRequest, "expected multipart form with original and optimized files")
		return
	}

	var datasets [2]*domain.RouteDataset
	for i, field := range []string{"original", "optimized"} {
		f, _, err := r.FormFile(field)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, fmt.Sprintf("missing %s file", field))
			return
		}

		ds, perr := services.ProcessRoute(r.Context(), f, h.Geocoder, h.Log)
		f.Close()
		if perr != nil {
			h.Log.Error().Err(perr).Str("field", field).Msg("process route failed")
			writeError(w, r, http.StatusUnprocessableEntity, fmt.Sprintf("malformed csv document in %s", field))
			return
		}
		datasets[i] = ds
	}

	stats := services.CompareRoutes(datasets[0], datasets[1])
	writeJSON(w, r, http.StatusOK, dto.FromComparison(stats))
}

// csvPart returns the named multipart file when the request is multipart,
// otherwise the raw request body.
func csvPart(r *http.Request, field string) (io.ReadCloser, error) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return nil, errors.New("invalid multipart form")
		}

		f, _, err := r.FormFile(field)
		if err != nil {
			return nil, fmt.Errorf("missing %s file", field)
		}
		return f, nil
	}

	return r.Body, nil
}
