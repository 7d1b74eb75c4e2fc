package features

import (
	"fmt"
	"path/filepath"
	"strings"
)

var loaders = map[string]func(string) (*Data, error){
	".geojson": LoadGeoJSON,
	".json":    LoadGeoJSON,
	".csv":     LoadCSV,
	".kml":     LoadKML,
	".wkt":     LoadWKT,
}

// Supported reports whether Load understands the file extension.
func Supported(path string) bool {
	_, ok := loaders[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Load picks a loader by file extension.
func Load(path string) (*Data, error) {
	ext := strings.ToLower(filepath.Ext(path))
	load, ok := loaders[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported file: %q", ext)
	}
	d, err := load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}
	return d, nil
}
