package features

import (
	"github.com/gogpu/gg"
	"github.com/paulmach/orb"

	"geooverlay/internal/geo"
	"geooverlay/internal/overlay"
	"geooverlay/internal/render"
)

// Layers toggles what the painter draws.
type Layers struct {
	Points   bool
	Lines    bool
	Polygons bool
}

func AllLayers() Layers { return Layers{Points: true, Lines: true, Polygons: true} }

// Style sizes are in screen pixels and stay constant across zooms.
type Style struct {
	Point       gg.RGBA
	Line        gg.RGBA
	Fill        gg.RGBA
	Outline     gg.RGBA
	PointRadius float64
	LineWidth   float64
}

func DefaultStyle() Style {
	return Style{
		Point:       gg.Hex("#FFA500"),
		Line:        gg.Hex("#38BDF8"),
		Fill:        gg.RGBA2(0.49, 0.23, 0.93, 0.45),
		Outline:     gg.Hex("#A78BFA"),
		PointRadius: 1.5,
		LineWidth:   1,
	}
}

// local is a dataset projected once into renderer-local coordinates.
type local struct {
	zoom     float64
	points   []geo.Point
	lines    [][]geo.Point
	polygons [][][]geo.Point
}

// Painter is an overlay draw function for a Data set. Geometry is projected
// at the reference zoom once and reused for every redraw.
type Painter struct {
	Layers Layers
	Style  Style

	data  *Data
	cache *local
	draws int
}

func NewPainter(d *Data) *Painter {
	return &Painter{Layers: AllLayers(), Style: DefaultStyle(), data: d}
}

func (p *Painter) Data() *Data { return p.data }

func (p *Painter) SetData(d *Data) {
	p.data = d
	p.cache = nil
}

// Draws counts completed draw calls.
func (p *Painter) Draws() int { return p.draws }

// Draw matches overlay.DrawFunc. A Redraw carrying a *Data replaces the
// dataset first.
func (p *Painter) Draw(u *overlay.Utils, ev overlay.Event) {
	if d, ok := ev.Data.(*Data); ok && ev.Kind == overlay.EventRedraw {
		p.SetData(d)
	}
	s, ok := render.AsSurface(u.Renderer())
	if !ok {
		overlay.Logger().Warn("features: renderer is not a gg surface")
		return
	}
	u.ResetRendererState()
	root := u.Container()
	dc := s.Begin(root)
	p.draws++
	if p.data == nil {
		return
	}
	if p.cache == nil || p.cache.zoom != u.ReferenceZoom() {
		p.cache = project(u, p.data)
	}
	inv := 1 / root.Scale
	if p.Layers.Polygons {
		p.fillPolygons(dc, inv)
	}
	if p.Layers.Lines {
		p.strokeLines(dc, inv)
	}
	if p.Layers.Points {
		p.drawPoints(dc, inv)
	}
}

func project(u *overlay.Utils, d *Data) *local {
	c := &local{zoom: u.ReferenceZoom()}
	path := func(pts []orb.Point) []geo.Point {
		out := make([]geo.Point, len(pts))
		for i, q := range pts {
			out[i] = u.ToLocal(LatLng(q))
		}
		return out
	}
	c.points = path(d.Points)
	for _, ls := range d.Lines {
		c.lines = append(c.lines, path(ls))
	}
	for _, poly := range d.Polygons {
		rings := make([][]geo.Point, 0, len(poly))
		for _, r := range poly {
			rings = append(rings, path(r))
		}
		c.polygons = append(c.polygons, rings)
	}
	return c
}

func tracePath(dc *gg.Context, pts []geo.Point, closed bool) {
	for i, q := range pts {
		if i == 0 {
			dc.MoveTo(q.X, q.Y)
			continue
		}
		dc.LineTo(q.X, q.Y)
	}
	if closed {
		dc.ClosePath()
	}
}

func (p *Painter) fillPolygons(dc *gg.Context, inv float64) {
	dc.SetFillRule(gg.FillRuleEvenOdd)
	dc.SetLineWidth(p.Style.LineWidth * inv)
	for _, poly := range p.cache.polygons {
		for _, r := range poly {
			tracePath(dc, r, true)
		}
		dc.SetColor(p.Style.Fill.Color())
		if err := dc.FillPreserve(); err != nil {
			overlay.Logger().Warn("features: polygon fill", "err", err)
		}
		dc.SetColor(p.Style.Outline.Color())
		if err := dc.Stroke(); err != nil {
			overlay.Logger().Warn("features: polygon outline", "err", err)
		}
	}
	dc.SetFillRule(gg.FillRuleNonZero)
}

func (p *Painter) strokeLines(dc *gg.Context, inv float64) {
	if len(p.cache.lines) == 0 {
		return
	}
	dc.SetLineWidth(p.Style.LineWidth * inv)
	dc.SetColor(p.Style.Line.Color())
	for _, ls := range p.cache.lines {
		tracePath(dc, ls, false)
	}
	if err := dc.Stroke(); err != nil {
		overlay.Logger().Warn("features: line stroke", "err", err)
	}
}

func (p *Painter) drawPoints(dc *gg.Context, inv float64) {
	if len(p.cache.points) == 0 {
		return
	}
	r := p.Style.PointRadius * inv
	dc.SetColor(p.Style.Point.Color())
	for _, q := range p.cache.points {
		dc.DrawCircle(q.X, q.Y, r)
	}
	if err := dc.Fill(); err != nil {
		overlay.Logger().Warn("features: point fill", "err", err)
	}
}
