package features

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
)

// ParseWKT parses one geometry per non-empty line. When the lines do not
// parse on their own the input is read as a single geometry spanning them.
func ParseWKT(s string) (*Data, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("wkt: empty input")
	}
	gs, err := parseLines(s)
	if err != nil {
		g, whole := wkt.Unmarshal(s)
		if whole != nil {
			return nil, err
		}
		gs = []orb.Geometry{g}
	}
	d := &Data{}
	for _, g := range gs {
		d.Add(g)
	}
	if d.Empty() {
		return nil, ErrEmpty
	}
	return d, nil
}

func parseLines(s string) ([]orb.Geometry, error) {
	var gs []orb.Geometry
	sc := bufio.NewScanner(strings.NewReader(s))
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		g, err := wkt.Unmarshal(line)
		if err != nil {
			return nil, fmt.Errorf("wkt: line %d: %w", n, err)
		}
		gs = append(gs, g)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("wkt: %w", err)
	}
	return gs, nil
}

func LoadWKT(path string) (*Data, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseWKT(string(b))
}
