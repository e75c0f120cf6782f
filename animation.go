package bloomfield

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Tween animates a single float64 from one value to another. Call Update(dt)
// each frame; Value holds the latest result.
//
// There is no global animation manager; owners drive their tweens.
type Tween struct {
	tw    *gween.Tween
	Value float64
	Done  bool
}

// NewTween creates a tween from -> to over duration seconds.
func NewTween(from, to float64, duration float32, fn ease.TweenFunc) *Tween {
	return &Tween{tw: gween.New(float32(from), float32(to), duration, fn), Value: from}
}

// Update advances the tween by dt seconds and returns the new value.
func (t *Tween) Update(dt float32) float64 {
	if t.Done {
		return t.Value
	}
	val, finished := t.tw.Update(dt)
	t.Value = float64(val)
	t.Done = finished
	return t.Value
}

// Pulse oscillates between two values forever, easing both ways. The
// greeting title breathes with it.
type Pulse struct {
	lo, hi   float32
	duration float32
	fn       ease.TweenFunc
	tw       *gween.Tween
	rising   bool
	Value    float64
}

// NewPulse creates a pulse starting at lo that takes half seconds per leg.
func NewPulse(lo, hi float64, half float32, fn ease.TweenFunc) *Pulse {
	p := &Pulse{lo: float32(lo), hi: float32(hi), duration: half, fn: fn, rising: true, Value: lo}
	p.tw = gween.New(p.lo, p.hi, half, fn)
	return p
}

// Update advances the pulse by dt seconds and returns the new value.
func (p *Pulse) Update(dt float32) float64 {
	val, finished := p.tw.Update(dt)
	p.Value = float64(val)
	if finished {
		p.rising = !p.rising
		if p.rising {
			p.tw = gween.New(p.lo, p.hi, p.duration, p.fn)
		} else {
			p.tw = gween.New(p.hi, p.lo, p.duration, p.fn)
		}
	}
	return p.Value
}

// entranceTween is the grow-in used when a glyph first appears.
func entranceTween(duration float32) *Tween {
	return NewTween(0, 1, duration, ease.OutBack)
}
