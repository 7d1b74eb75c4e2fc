// Package features loads vector data for the overlay and paints it.
package features

import (
	"errors"
	"math"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"

	"geooverlay/internal/geo"
)

var ErrEmpty = errors.New("features: no geometries found")

// Data is a flattened geometry set ready for rendering, plus the attribute
// table of its source when it has one.
type Data struct {
	Points   []orb.Point
	Lines    []orb.LineString
	Polygons []orb.Polygon
	BBox     geo.BBox

	Columns []string
	Rows    [][]string

	seeded bool
}

func (d *Data) Empty() bool {
	return len(d.Points) == 0 && len(d.Lines) == 0 && len(d.Polygons) == 0
}

func (d *Data) extend(p orb.Point) {
	d.BBox.Extend(p.Lon(), p.Lat(), !d.seeded)
	d.seeded = true
}

// Add flattens g into the set. Collections and multi geometries are split.
func (d *Data) Add(g orb.Geometry) {
	switch g := g.(type) {
	case orb.Point:
		d.extend(g)
		d.Points = append(d.Points, g)
	case orb.MultiPoint:
		for _, p := range g {
			d.Add(p)
		}
	case orb.LineString:
		if len(g) == 0 {
			return
		}
		for _, p := range g {
			d.extend(p)
		}
		d.Lines = append(d.Lines, g)
	case orb.MultiLineString:
		for _, ls := range g {
			d.Add(ls)
		}
	case orb.Ring:
		d.Add(orb.Polygon{g})
	case orb.Polygon:
		if len(g) == 0 || len(g[0]) == 0 {
			return
		}
		for _, r := range g {
			for _, p := range r {
				d.extend(p)
			}
		}
		d.Polygons = append(d.Polygons, g)
	case orb.MultiPolygon:
		for _, p := range g {
			d.Add(p)
		}
	case orb.Collection:
		for _, c := range g {
			d.Add(c)
		}
	case orb.Bound:
		d.Add(g.ToPolygon())
	}
}

// Counts returns the number of points, lines and polygons.
func (d *Data) Counts() (int, int, int) {
	return len(d.Points), len(d.Lines), len(d.Polygons)
}

// Nearest returns the vertex closest to p on the sphere.
func (d *Data) Nearest(p orb.Point) (orb.Point, float64, bool) {
	best, dist := orb.Point{}, math.Inf(1)
	visit := func(q orb.Point) {
		if m := orbgeo.Distance(p, q); m < dist {
			best, dist = q, m
		}
	}
	for _, q := range d.Points {
		visit(q)
	}
	for _, ls := range d.Lines {
		for _, q := range ls {
			visit(q)
		}
	}
	for _, poly := range d.Polygons {
		for _, r := range poly {
			for _, q := range r {
				visit(q)
			}
		}
	}
	return best, dist, !math.IsInf(dist, 1)
}

// LatLng converts an orb point (lon, lat) into a geo.LatLng.
func LatLng(p orb.Point) geo.LatLng { return geo.LatLng{Lat: p.Lat(), Lng: p.Lon()} }
