package overlay

import (
	"math"

	"geooverlay/internal/geo"
)

// ComputeBounds returns the padded rectangle, in layer pixels, the renderer
// surface must cover. center is the layer point at the middle of the map
// view. Only the final rectangle is rounded.
func ComputeBounds(mapSize, center geo.Point, padding float64) geo.Bounds {
	if padding < 0 || math.IsNaN(padding) {
		padding = 0
	}
	lo := center.Sub(mapSize.Mul(0.5 + padding)).Round(geo.RoundNearest)
	size := mapSize.Mul(1 + 2*padding).Round(geo.RoundNearest)
	// never smaller than the view itself
	size.X = math.Max(size.X, math.Ceil(mapSize.X))
	size.Y = math.Max(size.Y, math.Ceil(mapSize.Y))
	return geo.Bounds{Min: lo, Max: lo.Add(size)}
}

// State is the last committed view.
type State struct {
	Center geo.LatLng
	Zoom   float64
	Bounds geo.Bounds
}
