package engine

import (
	"math"

	"github.com/wroge/wgs84"
)

// Half the extent of the WebMercator plane in meters.
const originShift = 20037508.342789244

// Mercator breaks down at the poles; clamp latitudes like the vendor
// engine does.
const maxLatitude = 85.05112878

// Project converts a lat/lng pair to world pixel coordinates at the
// given zoom: EPSG:4326 -> EPSG:3857, then scaled so the world is
// TileSize*2^zoom pixels on a side with the origin at the north-west
// corner.
func Project(lat, lng float64, zoom int) (px, py float64) {
	lat = clampLat(lat)
	f := wgs84.EPSG().Transform(4326, 3857)
	x, y, _ := f(lng, lat, 0)
	world := worldSize(zoom)
	px = (x + originShift) / (2 * originShift) * world
	py = (originShift - y) / (2 * originShift) * world
	return px, py
}

// Unproject is the inverse of Project.
func Unproject(px, py float64, zoom int) (lat, lng float64) {
	world := worldSize(zoom)
	x := px/world*(2*originShift) - originShift
	y := originShift - py/world*(2*originShift)
	f := wgs84.EPSG().Transform(3857, 4326)
	lng, lat, _ = f(x, y, 0)
	return lat, lng
}

func worldSize(zoom int) float64 {
	return float64(TileSize) * math.Exp2(float64(zoom))
}

func clampLat(lat float64) float64 {
	if lat > maxLatitude {
		return maxLatitude
	}
	if lat < -maxLatitude {
		return -maxLatitude
	}
	return lat
}
