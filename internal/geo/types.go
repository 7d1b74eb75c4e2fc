package geo

import (
	"fmt"
	"math"
)

// LatLng is a geographic coordinate in degrees.
type LatLng struct {
	Lat float64
	Lng float64
}

func (ll LatLng) String() string { return fmt.Sprintf("LatLng(%.6f, %.6f)", ll.Lat, ll.Lng) }

// Point is a position in some pixel space. Which one depends on the caller:
// map pixels at a zoom, layer pixels, or renderer-local pixels.
type Point struct {
	X float64
	Y float64
}

func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) Add(q Point) Point          { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point          { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Mul(s float64) Point        { return Point{p.X * s, p.Y * s} }
func (p Point) Div(s float64) Point        { return Point{p.X / s, p.Y / s} }
func (p Point) Eq(q Point) bool            { return p.X == q.X && p.Y == q.Y }
func (p Point) String() string             { return fmt.Sprintf("Point(%g, %g)", p.X, p.Y) }
func (p Point) Round(m RoundingMode) Point { return m.apply(p) }

// RoundingMode selects how pixel coordinates are snapped after a projection.
type RoundingMode int

const (
	// RoundNone keeps sub-pixel precision.
	RoundNone RoundingMode = iota
	// RoundNearest snaps to the nearest integer pixel.
	RoundNearest
)

func (m RoundingMode) apply(p Point) Point {
	if m == RoundNearest {
		return Point{math.Round(p.X), math.Round(p.Y)}
	}
	return p
}

func (m RoundingMode) String() string {
	switch m {
	case RoundNone:
		return "none"
	case RoundNearest:
		return "nearest"
	}
	return fmt.Sprintf("RoundingMode(%d)", int(m))
}

// Bounds is an axis aligned pixel rectangle.
type Bounds struct {
	Min Point
	Max Point
}

func (b Bounds) Size() Point { return b.Max.Sub(b.Min) }

func (b Bounds) Center() Point { return b.Min.Add(b.Max).Div(2) }

// Empty reports whether the bounds were never set.
func (b Bounds) Empty() bool { return b.Min.Eq(Point{}) && b.Max.Eq(Point{}) }

func (b Bounds) Contains(p Point) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// BBox is a lon/lat extent of a dataset.
type BBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// Valid reports whether the box spans a non-zero area.
func (b BBox) Valid() bool { return b.MaxX > b.MinX && b.MaxY > b.MinY }

// Extend grows the box to include lon/lat. The first call on a zero box seeds it.
func (b *BBox) Extend(lon, lat float64, first bool) {
	if first {
		*b = BBox{MinX: lon, MinY: lat, MaxX: lon, MaxY: lat}
		return
	}
	b.MinX = math.Min(b.MinX, lon)
	b.MinY = math.Min(b.MinY, lat)
	b.MaxX = math.Max(b.MaxX, lon)
	b.MaxY = math.Max(b.MaxY, lat)
}

func (b BBox) Center() LatLng {
	return LatLng{Lat: (b.MinY + b.MaxY) / 2, Lng: (b.MinX + b.MaxX) / 2}
}
