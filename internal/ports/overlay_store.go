package ports

import (
	"context"

	"route-insight-service/internal/domain"
)

// Port: persistent storage for the address cache overlay.
type OverlayStore interface {
	// Retrieve the persisted overlay; an empty map when nothing is stored.
	LoadAll(ctx context.Context) (map[string]domain.Coordinates, error)
	// Overwrite the stored overlay with the full current mapping.
	SaveAll(ctx context.Context, entries map[string]domain.Coordinates) error
}
