package features

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/paulmach/orb/geojson"
)

// LoadGeoJSON reads a FeatureCollection, a single Feature or a bare
// geometry. Feature properties become the attribute table.
func LoadGeoJSON(path string) (*Data, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseGeoJSON(b)
}

func ParseGeoJSON(b []byte) (*Data, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(b, &head); err != nil {
		return nil, fmt.Errorf("geojson: %w", err)
	}

	var fs []*geojson.Feature
	switch head.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(b)
		if err != nil {
			return nil, fmt.Errorf("geojson: %w", err)
		}
		fs = fc.Features
	case "Feature":
		f, err := geojson.UnmarshalFeature(b)
		if err != nil {
			return nil, fmt.Errorf("geojson: %w", err)
		}
		fs = []*geojson.Feature{f}
	case "":
		return nil, fmt.Errorf("geojson: missing type")
	default:
		g, err := geojson.UnmarshalGeometry(b)
		if err != nil {
			return nil, fmt.Errorf("geojson: %w", err)
		}
		d := &Data{}
		d.Add(g.Geometry())
		if d.Empty() {
			return nil, ErrEmpty
		}
		return d, nil
	}

	d := &Data{}
	for _, f := range fs {
		if f.Geometry != nil {
			d.Add(f.Geometry)
		}
	}
	if d.Empty() {
		return nil, ErrEmpty
	}
	d.Columns, d.Rows = propertyTable(fs)
	return d, nil
}

// propertyTable unions the property keys of every feature.
func propertyTable(fs []*geojson.Feature) ([]string, [][]string) {
	seen := map[string]bool{}
	var cols []string
	for _, f := range fs {
		for k := range f.Properties {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	if len(cols) == 0 {
		return nil, nil
	}
	sort.Strings(cols)
	rows := make([][]string, 0, len(fs))
	for _, f := range fs {
		vals := make([]string, len(cols))
		for i, k := range cols {
			vals[i] = formatValue(f.Properties[k])
		}
		rows = append(rows, vals)
	}
	return cols, rows
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return fmt.Sprintf("%g", t)
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		bs, _ := json.Marshal(t)
		return string(bs)
	}
}
