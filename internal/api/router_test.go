package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"route-insight-service/internal/adapters/cache"
	"route-insight-service/internal/domain"
)

type fixedGeocoder struct {
	coords map[string]domain.Coordinates
}

func (g fixedGeocoder) Resolve(_ context.Context, address string) (domain.Coordinates, bool) {
	if c, ok := g.coords[address]; ok {
		return c, true
	}
	return domain.Coordinates{Lat: 52.1, Lon: 5.3}, true
}

const csvHeader = "Abonnement;Abonnement/Afleveradres;Externe ID;Begin datum-tijd;Startdatum;Eind datum-tijd;Benodigde tijd (uren);Toegewezen aan;Notities;Soort bezoek"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	addressCache := cache.NewAddressCache(nil, zerolog.Nop())
	require.NoError(t, addressCache.Load(context.Background()))

	geocoder := fixedGeocoder{coords: map[string]domain.Coordinates{
		"Damstraat 1, Amsterdam, Netherlands":  {Lat: 52.3725, Lon: 4.8937},
		"Oudegracht 158, Utrecht, Netherlands": {Lat: 52.0894, Lon: 5.1187},
	}}

	srv := httptest.NewServer(NewRouter(geocoder, addressCache, zerolog.Nop()))
	t.Cleanup(srv.Close)
	return srv
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	res, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.NotEmpty(t, res.Header.Get("X-Request-Id"))

	var body map[string]string
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestProcessRouteWithRawBody(t *testing.T) {
	srv := newTestServer(t)

	doc := strings.Join([]string{
		csvHeader,
		"Acme BV;Acme BV, Amsterdam, Damstraat 1;ext-1;2024-03-11 09:00:00;;2024-03-11 10:00:00;1,5;Jan;;Onderhoud",
		"Brouwerij Dom;Brouwerij Dom, Utrecht, Oudegracht 158;ext-2;2024-03-11 11:00:00;;;2;Jan;;",
	}, "\n")

	res, err := http.Post(srv.URL+"/routes", "text/csv", strings.NewReader(doc))
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)

	var body struct {
		Records []struct {
			ID          string `json:"id"`
			Coordinates *struct {
				Lat float64 `json:"lat"`
				Lon float64 `json:"lon"`
			} `json:"coordinates"`
		} `json:"records"`
		UniqueDates []string `json:"unique_dates"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))

	require.Len(t, body.Records, 2)
	assert.Equal(t, "ext-1", body.Records[0].ID)
	require.NotNil(t, body.Records[0].Coordinates)
	assert.InDelta(t, 52.3725, body.Records[0].Coordinates.Lat, 1e-9)
	assert.Equal(t, []string{"2024-03-11"}, body.UniqueDates)
}

func TestProcessRouteDateFilter(t *testing.T) {
	srv := newTestServer(t)

	doc := strings.Join([]string{
		csvHeader,
		"Acme BV;Acme BV, Amsterdam, Damstraat 1;a;2024-03-11 09:00:00;;;1;;;",
		"Brouwerij Dom;Brouwerij Dom, Utrecht, Oudegracht 158;b;2024-03-12 09:00:00;;;1;;;",
	}, "\n")

	res, err := http.Post(srv.URL+"/routes?date=2024-03-12", "text/csv", strings.NewReader(doc))
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)

	var body struct {
		Records []struct {
			ID string `json:"id"`
		} `json:"records"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	require.Len(t, body.Records, 1)
	assert.Equal(t, "b", body.Records[0].ID)
}

func TestProcessRouteRejectsMalformedDocument(t *testing.T) {
	srv := newTestServer(t)

	doc := csvHeader + "\nAcme BV;only;two;fields"

	res, err := http.Post(srv.URL+"/routes", "text/csv", strings.NewReader(doc))
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
}

func TestCompareRoutes(t *testing.T) {
	srv := newTestServer(t)

	original := strings.Join([]string{
		csvHeader,
		"Acme BV;Acme BV, Amsterdam, Damstraat 1;a;2024-03-11 09:00:00;;;1;;;",
		"Brouwerij Dom;Brouwerij Dom, Utrecht, Oudegracht 158;b;2024-03-11 11:00:00;;;1;;;",
		"Acme BV;Acme BV, Amsterdam, Damstraat 1;c;2024-03-11 13:00:00;;;1;;;",
	}, "\n")
	optimized := strings.Join([]string{
		csvHeader,
		"Acme BV;Acme BV, Amsterdam, Damstraat 1;a;2024-03-11 09:00:00;;;1;;;",
		"Acme BV;Acme BV, Amsterdam, Damstraat 1;c;2024-03-11 11:00:00;;;1;;;",
		"Brouwerij Dom;Brouwerij Dom, Utrecht, Oudegracht 158;b;2024-03-11 13:00:00;;;1;;;",
	}, "\n")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for field, doc := range map[string]string{"original": original, "optimized": optimized} {
		part, err := mw.CreateFormFile(field, field+".csv")
		require.NoError(t, err)
		_, err = part.Write([]byte(doc))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	res, err := http.Post(srv.URL+"/routes/compare", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)

	var body struct {
		OriginalDistanceKm  float64 `json:"original_distance_km"`
		OptimizedDistanceKm float64 `json:"optimized_distance_km"`
		SavedDistanceKm     float64 `json:"saved_distance_km"`
		SavedPercent        float64 `json:"saved_percent"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))

	// Original bounces A-B-A, optimized visits A-A-B: half the distance.
	assert.Greater(t, body.OriginalDistanceKm, body.OptimizedDistanceKm)
	assert.InDelta(t, body.OriginalDistanceKm-body.OptimizedDistanceKm, body.SavedDistanceKm, 0.01)
	assert.Greater(t, body.SavedPercent, 0.0)
}

func TestCompareRoutesMissingFile(t *testing.T) {
	srv := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("original", "original.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(csvHeader))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	res, err := http.Post(srv.URL+"/routes/compare", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestCacheExport(t *testing.T) {
	srv := newTestServer(t)

	res, err := http.Get(srv.URL + "/cache/export")
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/json", res.Header.Get("Content-Type"))

	var mapping map[string][2]float64
	require.NoError(t, json.NewDecoder(res.Body).Decode(&mapping))
	assert.NotEmpty(t, mapping)
}
