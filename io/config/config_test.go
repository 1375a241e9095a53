package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	Load()

	assert.Equal(t, 12, DefaultZoom())
	assert.Equal(t, 600*time.Millisecond, PanDuration())
	assert.Equal(t, 1500*time.Millisecond, BounceDuration())
	assert.Equal(t, "https://tile.googleapis.com", Endpoint())
	assert.Equal(t, 256, CacheTiles())
	assert.Equal(t, "info", LogLevel())

	w, h := WindowSize()
	assert.Equal(t, float32(1000), w)
	assert.Equal(t, float32(700), h)
}

func TestAPIKeyFromEnv(t *testing.T) {
	t.Setenv("GOOGLE_MAPS_API_KEY", "abc123")
	assert.Equal(t, "abc123", APIKey())

	t.Setenv("GOOGLE_MAPS_API_KEY", "")
	assert.Empty(t, APIKey())
}

func TestUserLocationsKeepsDeclarationOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locations.json")
	body := `{
		"zanzibar": {"name": "Zanzibar", "lat": -6.1659, "lng": 39.2026},
		"alta": {"name": "Alta", "lat": 69.9689, "lng": 23.2716},
		"mumbai": {"name": "Mumbai", "lat": 19.0760, "lng": 72.8777}
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	locs, err := UserLocations(path)
	require.NoError(t, err)
	require.Len(t, locs, 3)

	// JSON object order must survive, not sort order.
	assert.Equal(t, "Zanzibar", locs[0].Name)
	assert.Equal(t, "Alta", locs[1].Name)
	assert.Equal(t, "Mumbai", locs[2].Name)
	assert.Equal(t, "zanzibar", locs[0].Key)
	assert.InDelta(t, -6.1659, locs[0].Lat, 1e-9)
	assert.InDelta(t, 39.2026, locs[0].Lng, 1e-9)
}

func TestUserLocationsNameFallsBackToKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locations.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"oslo": {"lat": 59.9139, "lng": 10.7522}}`), 0644))

	locs, err := UserLocations(path)
	require.NoError(t, err)
	require.Len(t, locs, 1)
	assert.Equal(t, "oslo", locs[0].Name)
}

func TestUserLocationsErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		body string
	}{
		{"not json", "hello"},
		{"entry not object", `{"oslo": 3}`},
		{"missing lat", `{"oslo": {"name": "Oslo", "lng": 10.7522}}`},
		{"lat not number", `{"oslo": {"name": "Oslo", "lat": "north", "lng": 10.7522}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "bad.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0644))
			_, err := UserLocations(path)
			assert.Error(t, err)
		})
	}

	_, err := UserLocations(filepath.Join(dir, "does-not-exist.json"))
	assert.True(t, os.IsNotExist(err))
}
