package cache

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"route-insight-service/internal/domain"
)

// Default address dataset shipped with the binary. Entries resolved at
// runtime can be promoted here from an exported snapshot.
//
//go:embed data/addresses.json
var bundledDataset []byte

func bundledEntries() (map[string]domain.Coordinates, error) {
	var raw map[string][]float64
	if err := json.Unmarshal(bundledDataset, &raw); err != nil {
		return nil, fmt.Errorf("decode bundled dataset: %w", err)
	}

	out := make(map[string]domain.Coordinates, len(raw))
	for addr, pair := range raw {
		if len(pair) < 2 {
			continue
		}
		out[addr] = domain.Coordinates{Lat: pair[0], Lon: pair[1]}
	}

	return out, nil
}
