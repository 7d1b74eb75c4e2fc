// Package config reads the viewer configuration from an optional YAML file
// and command line flags. Flags given on the command line win over the file.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"geooverlay/internal/geo"
	"geooverlay/internal/overlay"
	"geooverlay/internal/render"
	"geooverlay/internal/slippy"
)

type Config struct {
	Padding            float64       `yaml:"padding"`
	ForceSoftware      bool          `yaml:"force_software"`
	DoubleBuffering    bool          `yaml:"double_buffering"`
	Resolution         float64       `yaml:"resolution"`
	PreserveDrawBuffer bool          `yaml:"preserve_draw_buffer"`
	ClearBeforeRender  bool          `yaml:"clear_before_render"`
	AsyncInit          bool          `yaml:"async_init"`
	AsyncDelay         time.Duration `yaml:"async_delay"`
	MaxBufferSize      int           `yaml:"max_buffer_size"`
	Accelerated        bool          `yaml:"accelerated"`
	RedrawOnMove       bool          `yaml:"redraw_on_move"`

	MinZoom       float64 `yaml:"min_zoom"`
	MaxZoom       float64 `yaml:"max_zoom"`
	Center        string  `yaml:"center"`
	Zoom          float64 `yaml:"zoom"`
	ZoomAnimation bool    `yaml:"zoom_animation"`

	Debug   bool   `yaml:"debug"`
	LogFile string `yaml:"log_file"`

	// Files are the positional arguments: feature files to open.
	Files []string `yaml:"-"`
}

func Default() Config {
	ov := overlay.DefaultOptions()
	m := slippy.DefaultOptions()
	return Config{
		Padding:           ov.Padding,
		Resolution:        max(ov.Resolution, defaultResolution()),
		ClearBeforeRender: ov.ClearBeforeRender,
		DoubleBuffering:   true,
		AsyncDelay:        150 * time.Millisecond,
		MinZoom:           m.MinZoom,
		MaxZoom:           m.MaxZoom,
		Center:            formatLatLng(m.Center),
		Zoom:              m.Zoom,
		ZoomAnimation:     m.ZoomAnimation,
		LogFile:           "debug.log",
	}
}

// Load overlays the YAML file at path onto c. Keys missing from the file keep
// their current values.
func (c *Config) Load(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	return nil
}

// FlagSet binds every setting to a flag whose default is the current value.
func (c *Config) FlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("geooverlay", pflag.ContinueOnError)
	fs.String("config", "", "YAML config file")
	fs.Float64Var(&c.Padding, "padding", c.Padding, "surface padding around the view, as a fraction of its size")
	fs.BoolVar(&c.ForceSoftware, "force-software", c.ForceSoftware, "never use accelerated surfaces")
	fs.BoolVar(&c.DoubleBuffering, "double-buffering", c.DoubleBuffering, "alternate two surfaces when accelerated")
	fs.Float64Var(&c.Resolution, "resolution", c.Resolution, "surface pixel ratio")
	fs.BoolVar(&c.PreserveDrawBuffer, "preserve-draw-buffer", c.PreserveDrawBuffer, "keep surface content across resizes")
	fs.BoolVar(&c.ClearBeforeRender, "clear-before-render", c.ClearBeforeRender, "clear the surface before each redraw")
	fs.BoolVar(&c.AsyncInit, "async-init", c.AsyncInit, "build surfaces in the background")
	fs.DurationVar(&c.AsyncDelay, "async-delay", c.AsyncDelay, "simulated surface acquisition time with --async-init")
	fs.IntVar(&c.MaxBufferSize, "max-buffer-size", c.MaxBufferSize, "cap on either surface buffer dimension (0 = none)")
	fs.BoolVar(&c.Accelerated, "accelerated", c.Accelerated, "treat surfaces as accelerated")
	fs.BoolVar(&c.RedrawOnMove, "redraw-on-move", c.RedrawOnMove, "redraw on every pan step, not only when it ends")
	fs.Float64Var(&c.MinZoom, "min-zoom", c.MinZoom, "minimum map zoom")
	fs.Float64Var(&c.MaxZoom, "max-zoom", c.MaxZoom, "maximum map zoom (inf for none)")
	fs.StringVar(&c.Center, "center", c.Center, "initial center as lat,lng")
	fs.Float64Var(&c.Zoom, "zoom", c.Zoom, "initial zoom")
	fs.BoolVar(&c.ZoomAnimation, "zoom-animation", c.ZoomAnimation, "animate zoom changes")
	fs.BoolVarP(&c.Debug, "debug", "d", c.Debug, "write a debug log")
	fs.StringVar(&c.LogFile, "log-file", c.LogFile, "debug log path")
	return fs
}

// Parse builds the configuration from defaults, the --config file and args,
// in that order.
func Parse(args []string) (Config, error) {
	c := Default()
	if path := configPath(args); path != "" {
		if err := c.Load(path); err != nil {
			return c, err
		}
	}
	fs := c.FlagSet()
	if err := fs.Parse(args); err != nil {
		return c, err
	}
	c.Files = fs.Args()
	return c, c.Validate()
}

// configPath picks --config out of args ahead of the real parse.
func configPath(args []string) string {
	fs := pflag.NewFlagSet("config", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.Usage = func() {}
	path := fs.String("config", "", "")
	_ = fs.Parse(args)
	return *path
}

func (c Config) Validate() error {
	var errs []error
	if c.Padding < 0 || math.IsNaN(c.Padding) {
		errs = append(errs, fmt.Errorf("padding %v: must not be negative", c.Padding))
	}
	if c.Resolution <= 0 || math.IsNaN(c.Resolution) {
		errs = append(errs, fmt.Errorf("resolution %v: must be positive", c.Resolution))
	}
	if c.MaxBufferSize < 0 {
		errs = append(errs, fmt.Errorf("max buffer size %d: must not be negative", c.MaxBufferSize))
	}
	if c.MinZoom > c.MaxZoom {
		errs = append(errs, fmt.Errorf("zoom range [%v, %v] is empty", c.MinZoom, c.MaxZoom))
	}
	if _, err := c.CenterLatLng(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// CenterLatLng parses Center.
func (c Config) CenterLatLng() (geo.LatLng, error) {
	return ParseLatLng(c.Center)
}

// ParseLatLng reads "lat,lng".
func ParseLatLng(s string) (geo.LatLng, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return geo.LatLng{}, fmt.Errorf("center %q: want lat,lng", s)
	}
	lat, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lng, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return geo.LatLng{}, fmt.Errorf("center %q: want lat,lng", s)
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return geo.LatLng{}, fmt.Errorf("center %q: out of range", s)
	}
	return geo.LatLng{Lat: lat, Lng: lng}, nil
}

func formatLatLng(ll geo.LatLng) string {
	return strconv.FormatFloat(ll.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(ll.Lng, 'f', -1, 64)
}

// OverlayOptions converts the overlay settings. A background build gets a
// synchronous factory as fallback.
func (c Config) OverlayOptions() []overlay.Option {
	opts := []overlay.Option{
		overlay.WithPadding(c.Padding),
		overlay.WithForceSoftware(c.ForceSoftware),
		overlay.WithDoubleBuffering(c.DoubleBuffering),
		overlay.WithResolution(c.Resolution),
		overlay.WithPreserveDrawBuffer(c.PreserveDrawBuffer),
		overlay.WithClearBeforeRender(c.ClearBeforeRender),
	}
	if c.RedrawOnMove {
		opts = append(opts, overlay.WithShouldRedrawOnMove(func(overlay.Event) bool { return true }))
	}
	if c.AsyncInit {
		fb := c.RenderOptions()
		fb.Async = false
		opts = append(opts, overlay.WithFallback(render.NewFactory(fb)))
	}
	return opts
}

func (c Config) RenderOptions() render.Options {
	return render.Options{
		Async:         c.AsyncInit,
		AsyncDelay:    c.AsyncDelay,
		MaxBufferSize: c.MaxBufferSize,
		Accelerated:   c.Accelerated,
	}
}

// MapOptions converts the map settings for a view of size pixels.
func (c Config) MapOptions(size geo.Point) slippy.Options {
	m := slippy.DefaultOptions()
	m.Size = size
	if ll, err := c.CenterLatLng(); err == nil {
		m.Center = ll
	}
	m.Zoom = c.Zoom
	m.MinZoom = c.MinZoom
	m.MaxZoom = c.MaxZoom
	m.ZoomAnimation = c.ZoomAnimation
	return m
}
