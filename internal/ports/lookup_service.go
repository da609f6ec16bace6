package ports

import (
	"context"

	"route-insight-service/internal/domain"
)

// Port: one external geocoding lookup returning the top-ranked match.
// An empty result list is reported as an error.
type LookupService interface {
	Search(ctx context.Context, query string) (domain.Coordinates, error)
}
