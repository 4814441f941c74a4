package courtportal

import (
	"context"
	"maps"
	"strings"

	"github.com/charmbracelet/log"
)

// CourtDiscoverer finds the portal's current court IDs, returning a mapping
// from the label shown on the portal to the ID it submits. The mapping may be
// partial or empty.
type CourtDiscoverer interface {
	Discover(ctx context.Context) (map[string]string, error)
}

// MatchCourtKey maps a court label from the portal to a key of Courts.
func MatchCourtKey(label string) (string, bool) {
	name := strings.ToLower(label)

	switch {
	case strings.Contains(name, "civil") && strings.Contains(name, "appeals"):
		return "civil", true
	case strings.Contains(name, "criminal") && strings.Contains(name, "appeals"):
		return "criminal", true
	case strings.Contains(name, "supreme"):
		return "supreme", true
	}

	return "", false
}

// ResolveCourtIDs returns court IDs keyed by court key. It starts from the
// fallback table and overrides each entry the discoverer can find. A nil
// discoverer or a failed discovery leaves the fallback table as it is.
func ResolveCourtIDs(ctx context.Context, discoverer CourtDiscoverer, fallback map[string]string) map[string]string {
	ids := maps.Clone(fallback)
	if ids == nil {
		ids = make(map[string]string)
	}

	if discoverer == nil {
		return ids
	}

	discovered, err := discoverer.Discover(ctx)
	if err != nil {
		log.Warn("Court ID discovery failed, using configured IDs", "err", err)
		return ids
	}

	found := 0
	for label, id := range discovered {
		key, ok := MatchCourtKey(label)
		if !ok || id == "" {
			continue
		}
		ids[key] = id
		found++
	}

	if found == 0 {
		log.Warn("No court IDs found on portal, using configured IDs")
	}
	for _, key := range CourtKeys() {
		log.Debug("Court ID", "court", key, "id", ids[key])
	}

	return ids
}
