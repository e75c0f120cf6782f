package bloomfield

import "math"

// PatternPoint is one skeleton point of the seed pattern.
type PatternPoint struct {
	Position Vec3
	Angle    float64
	// Layer is 1..Layers for ring points; interior points carry a fractional
	// layer in (0, Layers).
	Layer float64
}

// PatternGenerator lays out the initial bloom field: concentric soft polygons
// whose geometry depends only on the viewport and the config, decorated with
// random cosmetics.
type PatternGenerator struct {
	cfg     PatternConfig
	factory *BloomFactory
	planeZ  float64
}

// NewPatternGenerator creates a generator that synthesizes blooms through
// factory. planeZ is the depth given to every generated position.
func NewPatternGenerator(cfg PatternConfig, factory *BloomFactory, planeZ float64) *PatternGenerator {
	return &PatternGenerator{cfg: cfg, factory: factory, planeZ: planeZ}
}

// Radius returns the base radius R for a viewport.
func (g *PatternGenerator) Radius(w, h float64) float64 {
	return g.cfg.RadiusFraction * math.Min(w, h)
}

// origin returns the skeleton center for a viewport.
func (g *PatternGenerator) origin(w, h float64) Vec2 {
	if g.cfg.Origin == OriginCenter {
		return Vec2{w / 2, h / 2}
	}
	return Vec2{}
}

// Skeleton returns the deterministic ring points for a viewport, before
// clipping. Layer k (1-based) is sampled every AngleStep/k radians, so outer
// layers are denser. Each radius is warped through the inscribed-polygon
// formula for Gon sides, giving a soft polygon outline.
func (g *PatternGenerator) Skeleton(w, h float64) []PatternPoint {
	if w <= 0 || h <= 0 {
		return nil
	}
	R := g.Radius(w, h)
	o := g.origin(w, h)
	gon := float64(g.cfg.Gon)
	sector := 2 * math.Pi / gon
	inscribed := math.Cos(math.Pi / gon)

	var pts []PatternPoint
	for layer := 1; layer <= g.cfg.Layers; layer++ {
		layerRadius := R * float64(layer) * g.cfg.LayerSpacing
		step := g.cfg.AngleStep / float64(layer)
		for i := 0; ; i++ {
			a := float64(i) * step
			if a >= 2*math.Pi {
				break
			}
			variation := math.Sin(a*g.cfg.WobbleLobes) * g.cfg.Wobble * R
			r := (layerRadius + variation) * inscribed / math.Cos(math.Mod(a, sector)-math.Pi/gon)
			sin, cos := math.Sincos(a)
			pts = append(pts, PatternPoint{
				Position: Vec3{X: o.X + r*cos, Y: o.Y + r*sin, Z: g.planeZ},
				Angle:    a,
				Layer:    float64(layer),
			})
		}
	}
	return pts
}

// points returns the skeleton, clipped to the viewport when configured,
// followed by the random interior points. Interior points are added after
// clipping and are never dropped.
func (g *PatternGenerator) points(w, h float64, rng Rand) []PatternPoint {
	pts := g.Skeleton(w, h)
	if pts == nil {
		return nil
	}
	if g.cfg.ClipToViewport {
		bounds := Rect{Width: w, Height: h}
		kept := pts[:0]
		for _, p := range pts {
			if bounds.Contains(p.Position.X, p.Position.Y) {
				kept = append(kept, p)
			}
		}
		pts = kept
	}

	R := g.Radius(w, h)
	o := g.origin(w, h)
	spread := R * g.cfg.InteriorSpread
	layers := float64(g.cfg.Layers)
	for i := 0; i < g.cfg.InteriorPoints; i++ {
		x := o.X + (rng.Float64()-0.5)*spread
		y := o.Y + (rng.Float64()-0.5)*spread
		// Strictly inside (0, layers) so the point never reads as "no layer".
		layer := math.Max(rng.Float64()*layers, math.SmallestNonzeroFloat64)
		pts = append(pts, PatternPoint{
			Position: Vec3{X: x, Y: y, Z: g.planeZ},
			Angle:    math.Atan2(y-o.Y, x-o.X),
			Layer:    layer,
		})
	}
	return pts
}

// Generate returns up to count blooms for a w x h viewport, oldest first.
// The point set is shuffled with Fisher-Yates before the first count points
// are taken, so every run picks a different subset of the same outline.
func (g *PatternGenerator) Generate(w, h float64, count int, rng Rand) []Bloom {
	if count <= 0 {
		return nil
	}
	pts := g.points(w, h, rng)
	shufflePoints(pts, rng)
	if len(pts) > count {
		pts = pts[:count]
	}
	blooms := make([]Bloom, len(pts))
	for i, p := range pts {
		blooms[i] = g.factory.seeded(p.Position, p.Layer, g.cfg.Layers)
	}
	return blooms
}

// shufflePoints is an unbiased in-place Fisher-Yates shuffle.
func shufflePoints(pts []PatternPoint, rng Rand) {
	for i := len(pts) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		pts[i], pts[j] = pts[j], pts[i]
	}
}
