package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"route-insight-service/internal/adapters/cache"
)

// CacheHandler exposes the address cache snapshot for operator inspection
// and manual promotion into the bundled dataset.
type CacheHandler struct {
	Cache *cache.AddressCache
	Log   zerolog.Logger
}

// Export returns the full current address mapping as pretty-printed JSON.
// Read-only: no side effects on the cache.
func (h *CacheHandler) Export(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.Cache.Snapshot()
	if err != nil {
		h.Log.Error().Err(err).Msg("cache snapshot failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(snapshot); err != nil {
		h.Log.Warn().Err(err).Msg("write snapshot response failed")
	}
}
