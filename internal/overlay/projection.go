package overlay

import "geooverlay/internal/geo"

// Projection adapts the host's projection. It holds no state of its own.
type Projection struct {
	host Host
}

func NewProjection(h Host) Projection { return Projection{host: h} }

// ToPixel projects ll into map pixels at zoom.
func (p Projection) ToPixel(ll geo.LatLng, zoom float64, mode geo.RoundingMode) (geo.Point, error) {
	pt, err := p.host.Project(ll, zoom)
	if err != nil {
		return geo.Point{}, err
	}
	return pt.Round(mode), nil
}

// ToGeo unprojects map pixels at zoom.
func (p Projection) ToGeo(pt geo.Point, zoom float64) (geo.LatLng, error) {
	return p.host.Unproject(pt, zoom)
}

// ScaleFactor is the ratio of map scale at zoomA to the scale at zoomB.
func (p Projection) ScaleFactor(zoomA, zoomB float64) float64 {
	return p.host.ZoomScale(zoomA, zoomB)
}

// ToLayer projects ll at zoom and makes it relative to the host pixel origin.
func (p Projection) ToLayer(ll geo.LatLng, zoom float64, mode geo.RoundingMode) (geo.Point, error) {
	pt, err := p.host.Project(ll, zoom)
	if err != nil {
		return geo.Point{}, err
	}
	return pt.Sub(p.host.PixelOrigin()).Round(mode), nil
}

// ProjectionContext pins renderer-local coordinates to a fixed zoom.
type ProjectionContext struct {
	ReferenceZoom float64
	OriginGeo     geo.LatLng
	// OriginPixel is OriginGeo projected at ReferenceZoom.
	OriginPixel geo.Point
}

func newProjectionContext(p Projection, refZoom float64) (ProjectionContext, error) {
	origin := geo.LatLng{}
	px, err := p.ToPixel(origin, refZoom, geo.RoundNone)
	if err != nil {
		return ProjectionContext{}, err
	}
	return ProjectionContext{ReferenceZoom: refZoom, OriginGeo: origin, OriginPixel: px}, nil
}
