package bloomfield

// InjectPress queues a primary press at the given device pixel. Each queued
// event is consumed by one Poll, in order, in place of the device reading.
func (in *PointerInput) InjectPress(x, y float64) {
	in.inject(pointerSample{x: x, y: y, pressed: true, button: MouseButtonLeft})
}

// InjectPressButton queues a press with a specific button.
func (in *PointerInput) InjectPressButton(x, y float64, button MouseButton) {
	in.inject(pointerSample{x: x, y: y, pressed: true, button: button})
}

// InjectMove queues a move to the given device pixel with the button held.
// Use it between InjectPress and InjectRelease to simulate a stroke.
func (in *PointerInput) InjectMove(x, y float64) {
	in.inject(pointerSample{x: x, y: y, pressed: true, button: MouseButtonLeft})
}

// InjectRelease queues a release at the given device pixel.
func (in *PointerInput) InjectRelease(x, y float64) {
	in.inject(pointerSample{x: x, y: y, button: MouseButtonLeft})
}

// InjectClick queues a press followed by a release at the same point.
// Consumes two frames.
func (in *PointerInput) InjectClick(x, y float64) {
	in.InjectPress(x, y)
	in.InjectRelease(x, y)
}

// InjectDoubleClick queues two clicks at the same point. The frames are
// consumed back to back, well inside any sensible double click window.
func (in *PointerInput) InjectDoubleClick(x, y float64) {
	in.InjectClick(x, y)
	in.InjectClick(x, y)
}

// InjectDrag queues a full stroke: press at (fromX, fromY), linearly
// interpolated moves over frames-2 intermediate frames, and release at
// (toX, toY). The sequence consumes frames frames; the minimum is 2.
func (in *PointerInput) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	in.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		x := fromX + (toX-fromX)*t
		y := fromY + (toY-fromY)*t
		in.InjectMove(x, y)
	}
	in.InjectRelease(toX, toY)
}

// InjectResize queues a viewport resize event.
func (in *PointerInput) InjectResize(w, h float64) {
	in.injectQueue = append(in.injectQueue, injected{resize: true, w: w, h: h})
}

// Pending returns the number of queued synthetic events.
func (in *PointerInput) Pending() int { return len(in.injectQueue) }

func (in *PointerInput) inject(s pointerSample) {
	in.injectQueue = append(in.injectQueue, injected{sample: s})
}
