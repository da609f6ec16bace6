package geocode

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"route-insight-service/internal/adapters/cache"
	"route-insight-service/internal/domain"
	"route-insight-service/internal/ports"
)

// Default reference point near the centre of the Netherlands, used when
// every lookup tier fails.
var defaultReference = domain.Coordinates{Lat: 52.1326, Lon: 5.2913}

// Resolver is the tiered geocoder. Resolution order, first success wins:
// exact cache hit, partial cache hit, external lookup of the full
// normalized address, external lookup of the city segment with a small
// jitter, and a fixed regional default with a random offset. The final
// tier is unconditional, so Resolve always produces a coordinate.
//
// Every freshly resolved address is written back to the cache.
type Resolver struct {
	cache  *cache.AddressCache
	lookup ports.LookupService
	rng    *rand.Rand
	log    zerolog.Logger
}

func NewResolver(addressCache *cache.AddressCache, lookup ports.LookupService, log zerolog.Logger) *Resolver {
	return &Resolver{
		cache:  addressCache,
		lookup: lookup,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		log:    log,
	}
}

// WithRand replaces the jitter source. Tests supply a fixed seed for
// deterministic fallback coordinates.
func (r *Resolver) WithRand(rng *rand.Rand) *Resolver {
	r.rng = rng
	return r
}

func (r *Resolver) Resolve(ctx context.Context, address string) (domain.Coordinates, bool) {
	if coords, ok := r.cache.Get(address); ok {
		return coords, true
	}

	if coords, ok := r.cache.FindPartial(address); ok {
		r.log.Debug().Str("address", address).Msg("partial cache match")
		return coords, true
	}

	coords, err := r.lookup.Search(ctx, address)
	if err == nil {
		r.cache.Put(ctx, address, coords)
		return coords, true
	}
	r.log.Debug().Err(err).Str("address", address).Msg("full-address lookup failed")

	if city := citySegment(address); city != "" {
		cityCoords, cityErr := r.lookup.Search(ctx, city+", Netherlands")
		if cityErr == nil {
			// Spread same-city stops apart so they do not collapse onto
			// a single point.
			jittered := domain.Coordinates{
				Lat: cityCoords.Lat + r.jitter(),
				Lon: cityCoords.Lon + r.jitter(),
			}
			r.cache.Put(ctx, address, jittered)
			r.log.Info().Str("address", address).Str("city", city).Msg("resolved via city fallback")
			return jittered, true
		}
		r.log.Debug().Err(cityErr).Str("city", city).Msg("city fallback lookup failed")
	}

	r.log.Warn().Str("address", address).Msg("no geocode results at any tier, using regional default")
	fallback := domain.Coordinates{
		Lat: defaultReference.Lat + r.rng.Float64()*0.1,
		Lon: defaultReference.Lon + r.rng.Float64()*0.1,
	}
	r.cache.Put(ctx, address, fallback)
	return fallback, true
}

// jitter returns an independent uniform offset in [-0.005, 0.005).
func (r *Resolver) jitter() float64 {
	return (r.rng.Float64() - 0.5) * 0.01
}

// citySegment extracts the second comma-segment of a normalized address.
func citySegment(address string) string {
	parts := strings.Split(address, ",")
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
