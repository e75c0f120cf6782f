package bloomfield

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// --- Pointer event source ---

// pointerSample is one frame's reading of the active pointer.
type pointerSample struct {
	x, y    float64
	pressed bool
	button  MouseButton
}

// PointerInput turns per-frame mouse and touch readings into InputEvents in
// device pixels. The mouse and the first active touch share one logical
// pointer; while a touch is active it takes precedence.
//
// Synthetic events queued with the Inject methods replace the device reading
// for one frame each, so scripted input runs through exactly the same state
// machine as real input.
type PointerInput struct {
	cfg PointerConfig

	down     bool
	button   MouseButton
	lastX    float64
	lastY    float64
	hasLast  bool
	suppress bool // pointer left the surface while held

	// Double click detection over primary presses.
	pressAt  float64
	pressPos Vec2
	hasPress bool

	touchIDs []ebiten.TouchID
	touch    ebiten.TouchID
	touching bool

	injectQueue []injected
	events      []InputEvent
}

// injected is one queued synthetic event. Resize events bypass the pointer
// state machine.
type injected struct {
	sample pointerSample
	resize bool
	w, h   float64
}

// NewPointerInput creates an input source using the double click window and
// slop from cfg.
func NewPointerInput(cfg PointerConfig) *PointerInput {
	return &PointerInput{cfg: cfg}
}

// Poll reads the device (or one pending injected event) and returns the
// events for this frame. now is the elapsed time in seconds; w and h bound
// the surface, and leaving it while pressed ends the stroke. The returned
// slice is reused by the next call.
func (in *PointerInput) Poll(now, w, h float64) []InputEvent {
	in.events = in.events[:0]
	if len(in.injectQueue) > 0 {
		ev := in.injectQueue[0]
		copy(in.injectQueue, in.injectQueue[1:])
		in.injectQueue[len(in.injectQueue)-1] = injected{}
		in.injectQueue = in.injectQueue[:len(in.injectQueue)-1]
		if ev.resize {
			in.events = append(in.events, InputEvent{Type: EventResize, Width: ev.w, Height: ev.h})
			return in.events
		}
		in.feed(now, ev.sample, w, h)
		return in.events
	}
	in.feed(now, in.readDevice(), w, h)
	return in.events
}

// readDevice samples the first active touch, falling back to the mouse.
func (in *PointerInput) readDevice() pointerSample {
	in.touchIDs = ebiten.AppendTouchIDs(in.touchIDs[:0])
	if in.touching {
		for _, id := range in.touchIDs {
			if id == in.touch {
				tx, ty := ebiten.TouchPosition(id)
				return pointerSample{x: float64(tx), y: float64(ty), pressed: true, button: MouseButtonLeft}
			}
		}
		// Touch lifted: report a release at the last position.
		in.touching = false
		return pointerSample{x: in.lastX, y: in.lastY}
	}
	if len(in.touchIDs) > 0 {
		in.touch = in.touchIDs[0]
		in.touching = true
		tx, ty := ebiten.TouchPosition(in.touch)
		return pointerSample{x: float64(tx), y: float64(ty), pressed: true, button: MouseButtonLeft}
	}

	mx, my := ebiten.CursorPosition()
	s := pointerSample{x: float64(mx), y: float64(my)}
	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	right := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	middle := ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle)
	if left || right || middle {
		s.pressed = true
		switch {
		case left:
			s.button = MouseButtonLeft
		case right:
			s.button = MouseButtonRight
		default:
			s.button = MouseButtonMiddle
		}
	}
	return s
}

// feed runs the pointer state machine for one sample.
func (in *PointerInput) feed(now float64, s pointerSample, w, h float64) {
	moved := !in.hasLast || s.x != in.lastX || s.y != in.lastY
	in.lastX, in.lastY, in.hasLast = s.x, s.y, true
	inside := s.x >= 0 && s.y >= 0 && s.x < w && s.y < h

	switch {
	case s.pressed && !in.down:
		if in.suppress {
			return
		}
		in.down = true
		in.button = s.button
		in.emit(InputEvent{Type: EventPointerDown, X: s.x, Y: s.y, Button: s.button})
		if s.button == MouseButtonLeft {
			in.detectDoubleClick(now, Vec2{s.x, s.y})
		}

	case s.pressed && in.down:
		if !inside {
			in.down = false
			in.suppress = true
			in.emit(InputEvent{Type: EventPointerUp, X: s.x, Y: s.y, Button: in.button})
			return
		}
		if moved {
			in.emit(InputEvent{Type: EventPointerMove, X: s.x, Y: s.y, Button: in.button})
		}

	case !s.pressed && in.down:
		in.down = false
		in.emit(InputEvent{Type: EventPointerUp, X: s.x, Y: s.y, Button: in.button})

	default:
		in.suppress = false
		if moved && inside {
			in.emit(InputEvent{Type: EventPointerMove, X: s.x, Y: s.y})
		}
	}
}

// detectDoubleClick emits EventDoubleClick when this primary press follows
// the previous one within the configured window and slop. A detected pair
// is consumed so a third press starts a new pair.
func (in *PointerInput) detectDoubleClick(now float64, p Vec2) {
	window := in.cfg.DoubleClickWindow.Seconds()
	if in.hasPress && now-in.pressAt <= window && in.pressPos.Dist(p) <= in.cfg.DoubleClickSlop {
		in.hasPress = false
		in.emit(InputEvent{Type: EventDoubleClick, X: p.X, Y: p.Y, Button: MouseButtonLeft})
		return
	}
	in.pressAt = now
	in.pressPos = p
	in.hasPress = true
}

func (in *PointerInput) emit(ev InputEvent) {
	in.events = append(in.events, ev)
}

// Down reports whether the logical pointer is held.
func (in *PointerInput) Down() bool { return in.down }
