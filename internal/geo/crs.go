package geo

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

// MaxLatitude is the latitude at which the spherical mercator square ends.
const MaxLatitude = 85.0511287798

// TileSize is the pixel size of the world at zoom 0.
const TileSize = 256

var ErrInvalidZoom = errors.New("geo: invalid zoom")

// transformation maps mercator meters into the unit square.
var transformation = 0.5 / (math.Pi * orb.EarthRadius)

// Mercator is the EPSG:3857 CRS used by slippy maps.
type Mercator struct{}

// Scale returns the world size in pixels at zoom.
func (Mercator) Scale(zoom float64) float64 { return TileSize * math.Exp2(zoom) }

// Zoom is the inverse of Scale.
func (Mercator) Zoom(scale float64) float64 { return math.Log2(scale / TileSize) }

// Project converts ll into pixel coordinates at zoom, without rounding.
func (c Mercator) Project(ll LatLng, zoom float64) (Point, error) {
	if err := CheckZoom(zoom); err != nil {
		return Point{}, err
	}
	lat := math.Max(math.Min(MaxLatitude, ll.Lat), -MaxLatitude)
	m := project.WGS84.ToMercator(orb.Point{ll.Lng, lat})
	s := c.Scale(zoom)
	return Point{
		X: s * (transformation*m.X() + 0.5),
		Y: s * (-transformation*m.Y() + 0.5),
	}, nil
}

// Unproject converts pixel coordinates at zoom back into a LatLng.
func (c Mercator) Unproject(p Point, zoom float64) (LatLng, error) {
	if err := CheckZoom(zoom); err != nil {
		return LatLng{}, err
	}
	s := c.Scale(zoom)
	m := orb.Point{
		(p.X/s - 0.5) / transformation,
		(p.Y/s - 0.5) / -transformation,
	}
	g := project.Mercator.ToWGS84(m)
	return LatLng{Lat: g.Lat(), Lng: g.Lon()}, nil
}

// ZoomScale is the ratio of map scale between toZoom and fromZoom.
func (c Mercator) ZoomScale(toZoom, fromZoom float64) float64 {
	return c.Scale(toZoom) / c.Scale(fromZoom)
}

func CheckZoom(zoom float64) error {
	if math.IsNaN(zoom) || math.IsInf(zoom, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidZoom, zoom)
	}
	return nil
}
