package overlay

import (
	"fmt"

	"geooverlay/internal/geo"
)

// Host is the map widget the overlay is attached to. All methods are called
// from the host's own loop; the overlay never calls them concurrently.
//
// Layer points are pixels at the live zoom, relative to PixelOrigin.
// Container points are pixels relative to the top-left of the map viewport.
type Host interface {
	Size() geo.Point
	Center() geo.LatLng
	Zoom() float64
	MinZoom() float64
	// MaxZoom returns +Inf when the map has no upper zoom bound.
	MaxZoom() float64

	// Project and Unproject never round.
	Project(ll geo.LatLng, zoom float64) (geo.Point, error)
	Unproject(p geo.Point, zoom float64) (geo.LatLng, error)
	ZoomScale(toZoom, fromZoom float64) float64

	PixelOrigin() geo.Point
	// PixelOriginFor is the pixel origin the map would have when centered on
	// center at zoom, given the current pane offset.
	PixelOriginFor(center geo.LatLng, zoom float64) geo.Point
	ContainerToLayer(p geo.Point) geo.Point

	AnimatingZoom() bool
	// ZoomAnimated reports whether the host emits ZoomAnim frames at all.
	ZoomAnimated() bool

	// Post runs fn on the host loop. It may be called from any goroutine.
	Post(fn func())
	// RequestFrame runs fn before the next display refresh.
	RequestFrame(fn func())
}

// EventKind is a map notification the overlay reacts to.
type EventKind int

const (
	EventAdd EventKind = iota
	EventMoveStart
	EventMove
	EventMoveEnd
	EventZoom
	EventZoomAnim
	EventRedraw
)

var eventNames = [...]string{"add", "movestart", "move", "moveend", "zoom", "zoomanim", "redraw"}

func (k EventKind) String() string {
	if int(k) < len(eventNames) {
		return eventNames[k]
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event is handed to the draw callback and to OnHostEvent.
type Event struct {
	Kind EventKind
	// Center and Zoom are the interpolated values of a ZoomAnim frame.
	Center geo.LatLng
	Zoom   float64
	// Data is the caller payload passed to Redraw.
	Data any
}
