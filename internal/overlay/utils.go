package overlay

import "geooverlay/internal/geo"

// Utils is passed to the draw callback. Local coordinates are map pixels at
// the reference zoom unless a zoom is given explicitly.
type Utils struct {
	o *Overlay
	// host is the map the overlay was ready on. It outlives a Detach.
	host Host
}

// ToLocal projects ll into renderer-local coordinates.
func (u *Utils) ToLocal(ll geo.LatLng) geo.Point {
	p, err := u.ToLocalAt(ll, u.o.pctx.ReferenceZoom)
	if err != nil {
		Logger().Warn("overlay: ToLocal", "err", err)
	}
	return p
}

// ToLocalAt projects ll at zoom.
func (u *Utils) ToLocalAt(ll geo.LatLng, zoom float64) (geo.Point, error) {
	return u.o.proj.ToPixel(ll, zoom, geo.RoundNone)
}

// ToGeo is the inverse of ToLocal.
func (u *Utils) ToGeo(p geo.Point) geo.LatLng {
	ll, err := u.ToGeoAt(p, u.o.pctx.ReferenceZoom)
	if err != nil {
		Logger().Warn("overlay: ToGeo", "err", err)
	}
	return ll
}

func (u *Utils) ToGeoAt(p geo.Point, zoom float64) (geo.LatLng, error) {
	return u.o.proj.ToGeo(p, zoom)
}

// Scale is the factor between the live map zoom and the reference zoom.
func (u *Utils) Scale() float64 {
	return u.ScaleAt(u.host.Zoom())
}

func (u *Utils) ScaleAt(zoom float64) float64 {
	return u.o.proj.ScaleFactor(zoom, u.o.pctx.ReferenceZoom)
}

// Renderer returns the surface being drawn into by this call.
func (u *Utils) Renderer() Renderer {
	if s := u.o.lc.frontSurface(); s != nil {
		return s.r
	}
	return nil
}

// Container returns the scene root with its transform already set.
func (u *Utils) Container() *Container { return u.o.root }

func (u *Utils) Host() Host { return u.host }

// ReferenceZoom is the zoom local coordinates are expressed at.
func (u *Utils) ReferenceZoom() float64 { return u.o.pctx.ReferenceZoom }

// ResetRendererState resets device state for renderers that need it.
// Failures are logged and never abort the redraw.
func (u *Utils) ResetRendererState() {
	rs, ok := u.Renderer().(StateResetter)
	if !ok {
		Logger().Warn("overlay: renderer state reset unsupported")
		return
	}
	if err := rs.ResetState(); err != nil {
		Logger().Warn("overlay: renderer state reset failed", "err", err)
	}
}
