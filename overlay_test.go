package bloomfield

import "testing"

func TestOverlayButtonLayout(t *testing.T) {
	o, err := NewOverlay(MessageConfig{Title: "Hello", Lines: []string{"a", "b"}})
	if err != nil {
		t.Fatalf("NewOverlay: %v", err)
	}
	if o.HitButton(10, 10) {
		t.Error("button hit before the first layout")
	}

	o.Update(1.0/60, 1024, 768, "Play Music")
	b := o.Button()
	if b.Width <= 2*buttonPadX || b.Height <= 2*buttonPadY {
		t.Fatalf("button %+v too small for its label", b)
	}
	if !approxEqual(b.X+b.Width, 1024-buttonMargin, 1e-9) || !approxEqual(b.Y+b.Height, 768-buttonMargin, 1e-9) {
		t.Errorf("button %+v not anchored bottom-right", b)
	}
	if !o.HitButton(b.X+b.Width/2, b.Y+b.Height/2) {
		t.Error("center of the button missed")
	}
	if o.HitButton(10, 10) {
		t.Error("top-left corner hit the button")
	}

	// The button follows the window.
	o.Update(1.0/60, 640, 480, "Pause Music")
	if nb := o.Button(); nb.X >= b.X || nb.Y >= b.Y {
		t.Errorf("button did not move with the smaller window: %+v", nb)
	}
}

func TestOverlayTitlePulses(t *testing.T) {
	o, err := NewOverlay(MessageConfig{Title: "Hello"})
	if err != nil {
		t.Fatal(err)
	}
	peak := 0.0
	for i := 0; i < 120; i++ {
		o.Update(1.0/60, 800, 600, "Play Music")
		peak = max(peak, o.pulse.Value)
	}
	if peak <= 1.01 || peak > 1.06+1e-6 {
		t.Errorf("title scale peaked at %f, want in (1.01, 1.06]", peak)
	}
}
