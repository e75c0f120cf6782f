package bloomfield

import (
	"fmt"
	"math"
)

// Rand is the random source consumed by the generator and the factory.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// BloomID is a bloom's stable identity: a per-factory sequence number plus a
// random salt, so IDs from different sessions do not collide either.
type BloomID struct {
	Seq  uint64
	Salt uint32
}

// String renders the ID as "bloom-<seq>-<salt>".
func (id BloomID) String() string {
	return fmt.Sprintf("bloom-%d-%08x", id.Seq, id.Salt)
}

// Bloom describes one flower glyph. It is a plain value; renderers keep any
// animation state of their own.
type Bloom struct {
	ID       BloomID
	Position Vec3
	Petals   int
	Scale    float64
	Rotation float64 // radians, [0, 2π)
	Color    PaletteColor
	Opacity  float64
	// Layer is the pattern layer the bloom was seeded from; pointer-drawn
	// blooms use 0.
	Layer float64
}

// BloomFactory synthesizes blooms with bounded randomization. It is not safe
// for concurrent use; Session serializes access.
type BloomFactory struct {
	cfg     BloomConfig
	palette Palette
	rng     Rand
	seq     uint64
}

// NewBloomFactory creates a factory drawing colors from palette.
func NewBloomFactory(cfg BloomConfig, palette Palette, rng Rand) *BloomFactory {
	return &BloomFactory{cfg: cfg, palette: palette, rng: rng}
}

// Create returns a bloom at pos. A positive scaleHint sets the size
// (times SizeFactor); otherwise the size is drawn from FreeScale.
func (f *BloomFactory) Create(pos Vec3, scaleHint float64) Bloom {
	var scale float64
	if scaleHint > 0 {
		scale = scaleHint * f.cfg.SizeFactor
	} else {
		scale = f.cfg.FreeScale.Lerp(f.rng.Float64()) * f.cfg.SizeFactor
	}
	b := f.cosmetics()
	b.Position = pos
	b.Scale = scale
	return b
}

// seeded returns a bloom for a pattern point, with the layer falloff applied.
// layers is the number of skeleton layers the point came from.
func (f *BloomFactory) seeded(pos Vec3, layer float64, layers int) Bloom {
	b := f.cosmetics()
	b.Position = pos
	b.Layer = layer
	b.Scale = f.cfg.SeedScale.Lerp(f.rng.Float64()) * f.layerFactor(layer, layers) * f.cfg.SeedScaleFactor
	return b
}

// layerFactor shrinks blooms in outer layers: (layers+1-layer) * falloff, so
// with three layers the innermost gets 3x and the outermost 1x. Layer 0 marks
// a point with no layer and uses the interior falloff.
func (f *BloomFactory) layerFactor(layer float64, layers int) float64 {
	if layer <= 0 {
		return f.cfg.InteriorFalloff
	}
	return math.Max(float64(layers)+1-layer, 1) * f.cfg.LayerFalloff
}

// cosmetics fills the fields shared by seeded and drawn blooms.
func (f *BloomFactory) cosmetics() Bloom {
	f.seq++
	span := f.cfg.MaxPetals - f.cfg.MinPetals + 1
	return Bloom{
		ID:       BloomID{Seq: f.seq, Salt: uint32(f.rng.Float64() * math.MaxUint32)},
		Petals:   f.cfg.MinPetals + f.rng.IntN(span),
		Rotation: f.rng.Float64() * 2 * math.Pi,
		Color:    f.palette.Pick(f.rng),
		Opacity:  f.cfg.Opacity.Lerp(f.rng.Float64()),
	}
}
