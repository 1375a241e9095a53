package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"worldmap_viewer/models/consts"
)

func TestProjectOrigin(t *testing.T) {
	// (0, 0) sits in the middle of the world plane at every zoom.
	for zoom := 0; zoom <= 16; zoom += 4 {
		px, py := Project(0, 0, zoom)
		world := float64(TileSize) * math.Exp2(float64(zoom))
		assert.InDelta(t, world/2, px, 1e-6, "zoom %d", zoom)
		assert.InDelta(t, world/2, py, 1e-6, "zoom %d", zoom)
	}
}

func TestProjectRoundTrip(t *testing.T) {
	for _, loc := range consts.Locations {
		px, py := Project(loc.Lat, loc.Lng, 12)
		lat, lng := Unproject(px, py, 12)
		assert.InDelta(t, loc.Lat, lat, 1e-6, loc.Name)
		assert.InDelta(t, loc.Lng, lng, 1e-6, loc.Name)
	}
}

func TestProjectNorthIsUp(t *testing.T) {
	_, tokyoY := Project(35.6762, 139.6503, 12)
	_, sydneyY := Project(-33.8688, 151.2093, 12)
	assert.Less(t, tokyoY, sydneyY, "northern latitudes project to smaller y")

	londonX, _ := Project(51.5074, -0.1278, 12)
	nycX, _ := Project(40.7128, -74.0060, 12)
	assert.Less(t, nycX, londonX, "western longitudes project to smaller x")
}

func TestProjectClampsPolarLatitudes(t *testing.T) {
	_, top := Project(90, 0, 4)
	_, bottom := Project(-90, 0, 4)
	assert.InDelta(t, 0, top, 1e-3)
	assert.InDelta(t, float64(TileSize)*math.Exp2(4), bottom, 1e-3)
}
