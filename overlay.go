package bloomfield

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/tanema/gween/ease"
	"golang.org/x/image/font/gofont/goregular"
)

// --- TTF fonts ---

// ttfFont wraps Ebitengine's text/v2 face with its cached line height.
type ttfFont struct {
	face *text.GoTextFace
	lh   float64
}

func newTTFFont(source *text.GoTextFaceSource, size float64) *ttfFont {
	face := &text.GoTextFace{Source: source, Size: size}
	m := face.Metrics()
	return &ttfFont{face: face, lh: m.HAscent + m.HDescent + m.HLineGap}
}

// measure returns the width and height of the rendered text.
func (f *ttfFont) measure(s string) (float64, float64) {
	return text.Measure(s, f.face, f.lh)
}

// --- Overlay ---

var (
	titleColor  = Color{R: 0.745, G: 0.094, B: 0.365, A: 1} // #be185d
	lineColor   = Color{R: 0.294, G: 0.114, B: 0.259, A: 0.9}
	buttonFill  = Color{R: 1, G: 1, B: 1, A: 0.75}
	buttonLabel = Color{R: 0.745, G: 0.094, B: 0.365, A: 1}
)

const (
	buttonPadX   = 14.0
	buttonPadY   = 8.0
	buttonMargin = 16.0
)

// Overlay draws the greeting text and the music toggle button on top of the
// field. The title breathes with a gween pulse.
type Overlay struct {
	msg    MessageConfig
	title  *ttfFont
	body   *ttfFont
	small  *ttfFont
	pulse  *Pulse
	button Rect
	label  string
	w, h   float64
	pixel  *ebiten.Image
}

// NewOverlay parses the built-in Go Regular font and prepares the overlay
// for msg.
func NewOverlay(msg MessageConfig) (*Overlay, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("overlay font: %w", err)
	}
	return &Overlay{
		msg:   msg,
		title: newTTFFont(source, 34),
		body:  newTTFFont(source, 18),
		small: newTTFFont(source, 14),
		pulse: NewPulse(1, 1.06, 1.5, ease.InOutSine),
		label: "Play Music",
	}, nil
}

// Update advances the title pulse and lays out the button for a w x h
// screen with the given label.
func (o *Overlay) Update(dt float64, w, h float64, label string) {
	o.pulse.Update(float32(dt))
	o.w, o.h = w, h
	o.label = label
	lw, lh := o.small.measure(label)
	bw, bh := lw+2*buttonPadX, lh+2*buttonPadY
	o.button = Rect{X: w - bw - buttonMargin, Y: h - bh - buttonMargin, Width: bw, Height: bh}
}

// HitButton reports whether device pixel (x, y) is on the music button.
func (o *Overlay) HitButton(x, y float64) bool {
	return o.button.Width > 0 && o.button.Contains(x, y)
}

// Button returns the music button rectangle of the last Update.
func (o *Overlay) Button() Rect { return o.button }

// Draw renders the overlay.
func (o *Overlay) Draw(screen *ebiten.Image) {
	cx := o.w / 2
	y := o.h * 0.12

	// Title, scaled about its center.
	tw, th := o.title.measure(o.msg.Title)
	s := o.pulse.Value
	op := &text.DrawOptions{}
	op.GeoM.Translate(-tw/2, -th/2)
	op.GeoM.Scale(s, s)
	op.GeoM.Translate(cx, y+th/2)
	op.ColorScale.ScaleWithColor(titleColor.toRGBA())
	text.Draw(screen, o.msg.Title, o.title.face, op)
	y += th + 12

	for _, line := range o.msg.Lines {
		lop := &text.DrawOptions{}
		lop.PrimaryAlign = text.AlignCenter
		lop.GeoM.Translate(cx, y)
		lop.ColorScale.ScaleWithColor(lineColor.toRGBA())
		text.Draw(screen, line, o.body.face, lop)
		y += o.body.lh
	}

	o.drawButton(screen)
}

func (o *Overlay) drawButton(screen *ebiten.Image) {
	if o.button.Width <= 0 {
		return
	}
	if o.pixel == nil {
		o.pixel = ebiten.NewImage(1, 1)
		o.pixel.Fill(color.White)
	}
	b := o.button
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(b.Width, b.Height)
	op.GeoM.Translate(b.X, b.Y)
	op.ColorScale.ScaleWithColor(buttonFill.toRGBA())
	screen.DrawImage(o.pixel, op)

	lop := &text.DrawOptions{}
	lop.PrimaryAlign = text.AlignCenter
	lop.SecondaryAlign = text.AlignCenter
	lop.GeoM.Translate(b.X+b.Width/2, b.Y+b.Height/2)
	lop.ColorScale.ScaleWithColor(buttonLabel.toRGBA())
	text.Draw(screen, o.label, o.small.face, lop)
}
