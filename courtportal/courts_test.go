package courtportal

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeDiscoverer struct {
	courts map[string]string
	err    error
}

func (f fakeDiscoverer) Discover(context.Context) (map[string]string, error) {
	return f.courts, f.err
}

var testFallbackIDs = map[string]string{"civil": civilCourtID}

// TestMatchCourtKey verifies portal labels map to court keys
func TestMatchCourtKey(t *testing.T) {
	tests := []struct {
		label string
		key   string
		ok    bool
	}{
		{"Alabama Civil Court of Appeals", "civil", true},
		{"Court of Criminal Appeals", "criminal", true},
		{"SUPREME COURT", "supreme", true},
		{"Civil Division", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		key, ok := MatchCourtKey(tt.label)
		assert.Equal(t, tt.ok, ok, tt.label)
		assert.Equal(t, tt.key, key, tt.label)
	}
}

// TestResolveCourtIDs_Discovered verifies discovered IDs override fallback
func TestResolveCourtIDs_Discovered(t *testing.T) {
	discoverer := fakeDiscoverer{courts: map[string]string{
		"Alabama Civil Court of Appeals":    "civil-new",
		"Alabama Court of Criminal Appeals": "criminal-id",
		"Select a court":                    "",
		"Municipal Court":                   "ignored",
	}}

	ids := ResolveCourtIDs(context.Background(), discoverer, testFallbackIDs)

	assert.Equal(t, map[string]string{"civil": "civil-new", "criminal": "criminal-id"}, ids)
	assert.Equal(t, civilCourtID, testFallbackIDs["civil"], "fallback table should not be modified")
}

// TestResolveCourtIDs_Partial verifies fallback IDs survive partial results
func TestResolveCourtIDs_Partial(t *testing.T) {
	discoverer := fakeDiscoverer{courts: map[string]string{"Supreme Court": "sc-id"}}

	ids := ResolveCourtIDs(context.Background(), discoverer, testFallbackIDs)

	assert.Equal(t, map[string]string{"civil": civilCourtID, "supreme": "sc-id"}, ids)
}

// TestResolveCourtIDs_Failure verifies discovery errors keep the fallback
func TestResolveCourtIDs_Failure(t *testing.T) {
	discoverer := fakeDiscoverer{err: errors.New("selector not found")}

	ids := ResolveCourtIDs(context.Background(), discoverer, testFallbackIDs)

	assert.Equal(t, testFallbackIDs, ids)
}

// TestResolveCourtIDs_NoDiscoverer verifies nil inputs are handled
func TestResolveCourtIDs_NoDiscoverer(t *testing.T) {
	assert.Equal(t, testFallbackIDs, ResolveCourtIDs(context.Background(), nil, testFallbackIDs))
	assert.Empty(t, ResolveCourtIDs(context.Background(), nil, nil))
}
