package overlay

import "errors"

var (
	// ErrUnsupportedBackend means no drawing surface can be created on this
	// device. Attach fails and leaves nothing behind.
	ErrUnsupportedBackend = errors.New("overlay: no usable renderer backend")

	// ErrRendererInitFailed wraps the error of a renderer construction that
	// was rejected.
	ErrRendererInitFailed = errors.New("overlay: renderer initialization failed")

	// ErrResizeInconsistency is logged when the device drawing buffer does not
	// match the requested size. It is recovered locally.
	ErrResizeInconsistency = errors.New("overlay: drawing buffer size mismatch")

	// ErrStateNotReady is returned by Redraw before the first committed update.
	ErrStateNotReady = errors.New("overlay: not ready")

	// ErrDetached rejects an attachment that was detached before the renderer
	// became ready.
	ErrDetached = errors.New("overlay: detached")

	// ErrDestroyed is returned when attaching a destroyed overlay.
	ErrDestroyed = errors.New("overlay: destroyed")

	// ErrFlushUnsupported may be returned by Flusher implementations that
	// cannot wait for queued commands.
	ErrFlushUnsupported = errors.New("overlay: renderer flush unsupported")
)
