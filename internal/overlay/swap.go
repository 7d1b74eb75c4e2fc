package overlay

// swapper tracks the display frame a double-buffered redraw waits for. At
// most one frame is requested; a newer job replaces a pending one.
type swapper struct {
	pending   *redrawJob
	requested bool
}

// scheduleSwap flips the buffers and defers the visible swap to the next
// frame. If a swap is already pending the front surface is still hidden, so
// the job is replaced without flipping again.
func (o *Overlay) scheduleSwap(job redrawJob) {
	flipped := o.swap.pending == nil
	if flipped {
		o.lc.flip()
	}
	if err := o.resizeFront(job.bounds); err != nil {
		Logger().Error("overlay: resize failed", "err", err)
		if flipped {
			o.lc.flip()
		}
		return
	}
	if _, ok := o.lc.frontSurface().r.(Flusher); !ok {
		Logger().Warn("overlay: renderer cannot flush, swapping immediately", "err", ErrFlushUnsupported)
		o.swap.pending = nil
		o.presentSwap(job)
		return
	}
	o.swap.pending = &job
	if o.swap.requested {
		Logger().Debug("overlay: pending swap superseded")
		return
	}
	o.swap.requested = true
	o.host.RequestFrame(o.runSwap)
}

func (o *Overlay) runSwap() {
	o.swap.requested = false
	job := o.swap.pending
	o.swap.pending = nil
	if job == nil || o.host == nil || !o.lc.ready() {
		return
	}
	o.presentSwap(*job)
}

// presentSwap draws into the front surface, flushes it when the renderer
// can, then shows it and hides the back surface in the same step.
func (o *Overlay) presentSwap(job redrawJob) {
	o.redraw(job)
	if f, ok := o.lc.frontSurface().r.(Flusher); ok {
		if err := f.Flush(); err != nil {
			Logger().Warn("overlay: flush failed", "err", err)
		}
	}
	o.showFront()
	o.transform = ContainerTransform{Offset: job.bounds.Min, Scale: 1}
}

// showFront makes the front surface the only visible one.
func (o *Overlay) showFront() {
	front := o.lc.frontSurface()
	front.visible = true
	if back := o.lc.backSurface(); back != nil {
		back.visible = false
	}
}

// dropPendingSwap forgets a swap that has not run yet and flips back, so the
// front surface is the visible one again.
func (o *Overlay) dropPendingSwap() {
	o.swap.requested = false
	if o.swap.pending == nil {
		return
	}
	o.swap.pending = nil
	o.lc.flip()
}
