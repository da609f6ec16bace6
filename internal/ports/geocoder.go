package ports

import (
	"context"

	"route-insight-service/internal/domain"
)

// Port: resolves a normalized address string to coordinates.
//
// The boolean reports whether any tier produced a coordinate. Resolvers
// that end their fallback chain in an unconditional default always return
// true; callers still check it so genuine failures stay observable if
// that contract ever changes.
type Geocoder interface {
	Resolve(ctx context.Context, address string) (domain.Coordinates, bool)
}
