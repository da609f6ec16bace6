package obs

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

// Time logs the duration of an operation when the returned func runs,
// tagged with the request ID when one is present in the context.
//
// Usage: defer obs.Time(ctx, "nominatim.Search")(&err)
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	reqID, _ := ctx.Value(RequestIDKey).(string)
	logger := zerolog.Ctx(ctx)

	return func(errp *error) {
		evt := logger.Debug().Str("op", name).Dur("dur", time.Since(start))
		if reqID != "" {
			evt = evt.Str("req_id", reqID)
		}
		if errp != nil && *errp != nil {
			evt = evt.Err(*errp)
		}
		evt.Msg("op finished")
	}
}
