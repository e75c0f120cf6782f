package bloomfield

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Filter renders src into dst with an effect applied.
type Filter interface {
	Apply(src, dst *ebiten.Image)
	// Submissions is the number of draw submissions one Apply makes.
	Submissions() int
}

// Ebitengine uses premultiplied alpha; the shader un-premultiplies before
// measuring luminance and re-premultiplies its output.
const brightPassShaderSrc = `//kage:unit pixels
package main

var Threshold float
var Smoothing float

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := imageSrc0At(src)
	if c.a == 0 {
		return vec4(0)
	}
	c.rgb /= c.a
	lum := dot(c.rgb, vec3(0.2126, 0.7152, 0.0722))
	k := smoothstep(Threshold, Threshold+Smoothing, lum)
	a := c.a * k
	return vec4(c.rgb*a, a)
}
`

// Compiled on first use; the game loop is single-threaded.
var brightPassShader *ebiten.Shader

func ensureBrightPassShader() *ebiten.Shader {
	if brightPassShader == nil {
		s, err := ebiten.NewShader([]byte(brightPassShaderSrc))
		if err != nil {
			panic("bloomfield: bright-pass shader: " + err.Error())
		}
		brightPassShader = s
	}
	return brightPassShader
}

// --- brightPassFilter ---

// brightPassFilter keeps the pixels whose luminance clears Threshold,
// ramping in over Smoothing.
type brightPassFilter struct {
	Threshold float64
	Smoothing float64
	uniforms  map[string]any
	shaderOp  ebiten.DrawRectShaderOptions
}

func newBrightPassFilter(threshold, smoothing float64) *brightPassFilter {
	return &brightPassFilter{
		Threshold: threshold,
		Smoothing: smoothing,
		uniforms:  make(map[string]any, 2),
	}
}

// Apply implements Filter.
func (f *brightPassFilter) Apply(src, dst *ebiten.Image) {
	f.uniforms["Threshold"] = float32(f.Threshold)
	f.uniforms["Smoothing"] = float32(math.Max(f.Smoothing, 1e-4))
	b := src.Bounds()
	f.shaderOp.Images[0] = src
	f.shaderOp.Uniforms = f.uniforms
	dst.DrawRectShader(b.Dx(), b.Dy(), ensureBrightPassShader(), &f.shaderOp)
}

// Submissions implements Filter.
func (f *brightPassFilter) Submissions() int { return 1 }

// --- blurFilter ---

// blurFilter is a Kawase blur: repeated half-size downscales and upscales,
// with bilinear filtering doing the averaging.
type blurFilter struct {
	Radius int
	temps  []*ebiten.Image
	imgOp  ebiten.DrawImageOptions
}

func newBlurFilter(radius int) *blurFilter {
	return &blurFilter{Radius: max(radius, 0)}
}

// passes is the number of downscale steps, log2(radius) and at least 1.
func (f *blurFilter) passes() int {
	return max(int(math.Ceil(math.Log2(float64(f.Radius)))), 1)
}

// Submissions implements Filter.
func (f *blurFilter) Submissions() int {
	if f.Radius <= 0 {
		return 1
	}
	// passes downscales, passes-1 upscales, one final upscale.
	return 2 * f.passes()
}

// Apply implements Filter.
func (f *blurFilter) Apply(src, dst *ebiten.Image) {
	op := &f.imgOp
	if f.Radius <= 0 {
		op.GeoM.Reset()
		op.ColorScale.Reset()
		op.Filter = ebiten.FilterNearest
		dst.DrawImage(src, op)
		return
	}

	passes := f.passes()
	for len(f.temps) < passes {
		f.temps = append(f.temps, nil)
	}
	for i := passes; i < len(f.temps); i++ {
		if f.temps[i] != nil {
			f.temps[i].Deallocate()
			f.temps[i] = nil
		}
	}
	f.temps = f.temps[:passes]

	sb := src.Bounds()
	w, h := sb.Dx(), sb.Dy()
	current := src
	for i := 0; i < passes; i++ {
		w = max(w/2, 1)
		h = max(h/2, 1)
		if t := f.temps[i]; t == nil || t.Bounds().Dx() != w || t.Bounds().Dy() != h {
			if t != nil {
				t.Deallocate()
			}
			f.temps[i] = ebiten.NewImage(w, h)
		} else {
			t.Clear()
		}
		f.scaleInto(f.temps[i], current)
		current = f.temps[i]
	}
	for i := passes - 2; i >= 0; i-- {
		f.temps[i].Clear()
		f.scaleInto(f.temps[i], current)
		current = f.temps[i]
	}
	f.scaleInto(dst, current)
}

// scaleInto draws src stretched over dst with bilinear filtering.
func (f *blurFilter) scaleInto(dst, src *ebiten.Image) {
	op := &f.imgOp
	op.GeoM.Reset()
	op.ColorScale.Reset()
	sb, db := src.Bounds(), dst.Bounds()
	op.GeoM.Scale(float64(db.Dx())/float64(sb.Dx()), float64(db.Dy())/float64(sb.Dy()))
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(src, op)
}

// --- glowPass ---

// glowPass renders the glyph layer offscreen, composites it, and adds its
// blurred highlights back with additive blending. Headless draws (nil
// screen) count the submissions a real frame would make without touching
// the GPU, like triBatch.flush.
type glowPass struct {
	cfg       GlowConfig
	filters   []Filter
	pool      renderTexturePool
	layer     *ebiten.Image
	op        ebiten.DrawImageOptions
	drawCalls int
}

func newGlowPass(cfg GlowConfig) *glowPass {
	return &glowPass{
		cfg: cfg,
		filters: []Filter{
			newBrightPassFilter(cfg.Threshold, cfg.Smoothing),
			newBlurFilter(cfg.Radius),
		},
	}
}

// submissions is the per-frame draw count: layer composite, the filter
// chain, and the additive composite.
func (g *glowPass) submissions() int {
	n := 2
	for _, f := range g.filters {
		n += f.Submissions()
	}
	return n
}

// begin returns the cleared offscreen the glyph layer is drawn into, or nil
// for a headless draw.
func (g *glowPass) begin(screen *ebiten.Image) *ebiten.Image {
	g.drawCalls = 0
	if screen == nil {
		return nil
	}
	b := screen.Bounds()
	g.layer = g.pool.Acquire(b.Dx(), b.Dy())
	return g.layer
}

// finish composites the glyph layer onto screen and adds the glow. An
// empty layer is dropped without any submission.
func (g *glowPass) finish(screen *ebiten.Image, empty bool) {
	layer := g.layer
	g.layer = nil
	if layer != nil {
		defer g.pool.Release(layer)
	}
	if empty {
		return
	}
	g.drawCalls += g.submissions()
	if screen == nil || layer == nil {
		return
	}

	op := &g.op
	op.GeoM.Reset()
	op.ColorScale.Reset()
	op.Blend = ebiten.BlendSourceOver
	screen.DrawImage(layer, op)

	glow := g.applyFilters(layer)
	op.ColorScale.Reset()
	i := float32(g.cfg.Intensity)
	op.ColorScale.Scale(i, i, i, i)
	op.Blend = ebiten.BlendLighter
	screen.DrawImage(glow, op)
	if glow != layer {
		g.pool.Release(glow)
	}
}

// applyFilters runs the chain on src, ping-ponging between two pooled
// images, and returns the image holding the result. The other scratch
// image is released before returning.
func (g *glowPass) applyFilters(src *ebiten.Image) *ebiten.Image {
	b := src.Bounds()
	current := src
	var scratch *ebiten.Image
	for _, f := range g.filters {
		if scratch == nil || scratch == src {
			scratch = g.pool.Acquire(b.Dx(), b.Dy())
		} else {
			scratch.Clear()
		}
		f.Apply(current, scratch)
		current, scratch = scratch, current
	}
	if scratch != nil && scratch != src {
		g.pool.Release(scratch)
	}
	return current
}
