package bloomfield

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Tone is one named palette entry in hex notation.
type Tone struct {
	Name string `yaml:"name"`
	Hex  string `yaml:"hex"`
}

// PaletteColor is a resolved palette member. Index is its position in the
// palette it was drawn from; blooms never carry a color outside it.
type PaletteColor struct {
	Index int
	Name  string
	Color Color
}

// Palette is a closed list of resolved tones.
type Palette struct {
	name   string
	colors []PaletteColor
}

// BlushTones is the soft pink palette of the pixel-space card.
var BlushTones = []Tone{
	{"dark pink", "#ba3763"},
	{"medium pink", "#d34076"},
	{"light pink", "#dbb0cc"},
	{"very light pink", "#fddafa"},
	{"white pink", "#fef2fe"},
	{"pastel pink", "#eec0db"},
	{"dusty pink", "#ca809a"},
	{"light lavender", "#e9d8e8"},
	{"bright pink", "#ff94c2"},
	{"hot pink", "#ff6699"},
	{"baby pink", "#ffe6f2"},
	{"rose pink", "#c95d8b"},
}

// NeonTones is the saturated palette of the world-space card.
var NeonTones = []Tone{
	{"radical red", "#ff3366"},
	{"hot pink", "#ff66b2"},
	{"carnation", "#ff99cc"},
	{"tickle pink", "#ff80bf"},
	{"rose", "#ff1a75"},
	{"folly", "#ff0066"},
	{"lavender rose", "#ff99ff"},
	{"pink flamingo", "#ff66ff"},
	{"razzle dazzle", "#ff33ff"},
	{"magenta", "#ff00ff"},
	{"deep magenta", "#cc00cc"},
	{"wild strawberry", "#ff3399"},
}

// NewPalette resolves the given tones. It fails on an empty list or on a
// malformed hex value.
func NewPalette(name string, tones []Tone) (Palette, error) {
	if len(tones) == 0 {
		return Palette{}, fmt.Errorf("palette %q: no tones", name)
	}
	p := Palette{name: name, colors: make([]PaletteColor, len(tones))}
	for i, t := range tones {
		c, err := colorful.Hex(t.Hex)
		if err != nil {
			return Palette{}, fmt.Errorf("palette %q: tone %q: %w", name, t.Name, err)
		}
		p.colors[i] = PaletteColor{
			Index: i,
			Name:  t.Name,
			Color: Color{R: c.R, G: c.G, B: c.B, A: 1},
		}
	}
	return p, nil
}

// MustPalette is like NewPalette but panics on error. Intended for the
// built-in tone lists.
func MustPalette(name string, tones []Tone) Palette {
	p, err := NewPalette(name, tones)
	if err != nil {
		panic(err)
	}
	return p
}

// Name returns the palette name.
func (p Palette) Name() string { return p.name }

// Len returns the number of tones.
func (p Palette) Len() int { return len(p.colors) }

// At returns the i-th tone.
func (p Palette) At(i int) PaletteColor { return p.colors[i] }

// Pick returns a uniformly chosen tone.
func (p Palette) Pick(rng Rand) PaletteColor {
	return p.colors[rng.IntN(len(p.colors))]
}

// Contains reports whether c is a member of the palette.
func (p Palette) Contains(c PaletteColor) bool {
	if c.Index < 0 || c.Index >= len(p.colors) {
		return false
	}
	return p.colors[c.Index] == c
}

// Glow returns c brightened by amount on every channel, clamped to [0, 1].
func Glow(c Color, amount float64) Color {
	g := colorful.Color{R: c.R + amount, G: c.G + amount, B: c.B + amount}.Clamped()
	return Color{R: g.R, G: g.G, B: g.B, A: c.A}
}
