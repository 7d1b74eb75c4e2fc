package overlay

import "geooverlay/internal/geo"

// syncTransform repositions and rescales the container for a map heading to
// (center, zoom), relative to the last committed state. Surface content and
// bounds are left alone; the next full update resynchronizes them.
func (o *Overlay) syncTransform(center geo.LatLng, zoom float64) {
	if !o.hasState || o.host == nil {
		return
	}
	h := o.host
	scale := o.proj.ScaleFactor(zoom, o.state.Zoom)
	viewHalf := h.Size().Mul(0.5 + o.opts.Padding)
	committed, err := o.proj.ToPixel(o.state.Center, zoom, geo.RoundNone)
	if err != nil {
		Logger().Warn("overlay: transform sync skipped", "err", err)
		return
	}
	offset := viewHalf.Mul(-scale).Add(committed).Sub(h.PixelOriginFor(center, zoom))
	o.transform = ContainerTransform{Offset: offset, Scale: scale}
}
