package features

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

type kmlCoords struct {
	Coordinates string `xml:"coordinates"`
}

type kmlBoundary struct {
	Ring kmlCoords `xml:"LinearRing"`
}

type kmlPolygon struct {
	Outer kmlBoundary   `xml:"outerBoundaryIs"`
	Inner []kmlBoundary `xml:"innerBoundaryIs"`
}

type kmlGeometry struct {
	Points   []kmlCoords   `xml:"Point"`
	Lines    []kmlCoords   `xml:"LineString"`
	Polygons []kmlPolygon  `xml:"Polygon"`
	Multi    []kmlGeometry `xml:"MultiGeometry"`
}

type kmlPlacemark struct {
	Name        string `xml:"name"`
	Description string `xml:"description"`
	kmlGeometry
}

// LoadKML reads Placemarks at any depth of a KML document. Points, line
// strings, polygons and multi geometries are supported; altitude is dropped.
func LoadKML(path string) (*Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseKML(f)
}

func ParseKML(r io.Reader) (*Data, error) {
	dec := xml.NewDecoder(r)
	d := &Data{Columns: []string{"name", "description"}}
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("kml: %w", err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "Placemark" {
			continue
		}
		var pm kmlPlacemark
		if err := dec.DecodeElement(&pm, &se); err != nil {
			return nil, fmt.Errorf("kml: %w", err)
		}
		if pm.add(d) {
			d.Rows = append(d.Rows, []string{strings.TrimSpace(pm.Name), strings.TrimSpace(pm.Description)})
		}
	}
	if d.Empty() {
		return nil, errors.New("kml: no geometries found")
	}
	return d, nil
}

func (g kmlGeometry) add(d *Data) bool {
	added := false
	for _, p := range g.Points {
		if pts := parseKMLCoords(p.Coordinates); len(pts) > 0 {
			d.Add(pts[0])
			added = true
		}
	}
	for _, l := range g.Lines {
		if ls := parseKMLCoords(l.Coordinates); len(ls) > 1 {
			d.Add(orb.LineString(ls))
			added = true
		}
	}
	for _, p := range g.Polygons {
		outer := parseKMLCoords(p.Outer.Ring.Coordinates)
		if len(outer) < 3 {
			continue
		}
		poly := orb.Polygon{orb.Ring(outer)}
		for _, in := range p.Inner {
			if r := parseKMLCoords(in.Ring.Coordinates); len(r) >= 3 {
				poly = append(poly, orb.Ring(r))
			}
		}
		d.Add(poly)
		added = true
	}
	for _, m := range g.Multi {
		if m.add(d) {
			added = true
		}
	}
	return added
}

// parseKMLCoords reads whitespace separated "lon,lat[,alt]" tuples.
func parseKMLCoords(s string) []orb.Point {
	var pts []orb.Point
	for _, tuple := range strings.Fields(s) {
		vals := strings.Split(tuple, ",")
		if len(vals) < 2 {
			continue
		}
		lon, err1 := strconv.ParseFloat(strings.TrimSpace(vals[0]), 64)
		lat, err2 := strconv.ParseFloat(strings.TrimSpace(vals[1]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		pts = append(pts, orb.Point{lon, lat})
	}
	return pts
}
