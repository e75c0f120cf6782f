package bloomfield

// PointerState is the drawing state of a PointerTracker.
type PointerState uint8

const (
	PointerIdle    PointerState = iota // no stroke in progress
	PointerDrawing                     // primary button held
)

// String returns the state name.
func (s PointerState) String() string {
	if s == PointerDrawing {
		return "drawing"
	}
	return "idle"
}

// PointerTracker runs the drawing state machine for one pointer. Distances
// are measured in device pixels so the throttle behaves the same in every
// coordinate space.
type PointerTracker struct {
	cfg    PointerConfig
	state  PointerState
	last   Vec2
	button MouseButton // button captured at press time
}

// NewPointerTracker creates an idle tracker.
func NewPointerTracker(cfg PointerConfig) *PointerTracker {
	return &PointerTracker{cfg: cfg}
}

// State returns the current state.
func (t *PointerTracker) State() PointerState { return t.state }

// Drawing reports whether a stroke is in progress.
func (t *PointerTracker) Drawing() bool { return t.state == PointerDrawing }

// Last returns the reference point of the current stroke.
func (t *PointerTracker) Last() (Vec2, bool) {
	if t.state != PointerDrawing {
		return Vec2{}, false
	}
	return t.last, true
}

// Down starts a stroke at p. Only the primary button starts drawing; the
// return value reports whether the caller should place the initial bloom
// (with DownScaleHint). A second press while drawing re-anchors the stroke.
func (t *PointerTracker) Down(p Vec2, button MouseButton) bool {
	if button != MouseButtonLeft {
		return false
	}
	t.state = PointerDrawing
	t.button = button
	t.last = p
	return true
}

// DownScaleHint is the scale hint for the bloom placed on press.
func (t *PointerTracker) DownScaleHint() float64 { return t.cfg.DownScaleHint }

// Move reports whether p has travelled past the throttle distance from the
// reference point, and the scale hint for a bloom there. Move does not change
// the reference point; call Advance once the bloom is actually placed.
func (t *PointerTracker) Move(p Vec2) (hint float64, ok bool) {
	if t.state != PointerDrawing {
		return 0, false
	}
	d := t.last.Dist(p)
	if d <= t.cfg.Threshold {
		return 0, false
	}
	return clamp(d/t.cfg.Divisor, 0, t.cfg.HintCap), true
}

// Advance moves the reference point to p.
func (t *PointerTracker) Advance(p Vec2) {
	if t.state == PointerDrawing {
		t.last = p
	}
}

// Up ends the stroke. Leaving the surface counts as a release.
func (t *PointerTracker) Up() {
	t.state = PointerIdle
	t.last = Vec2{}
}

// Cancel aborts any stroke, as on double click.
func (t *PointerTracker) Cancel() { t.Up() }
