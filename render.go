package bloomfield

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Renderer draws a population snapshot. Sync advances the renderer's own
// presentation state (entrance animations) and must be called once per tick
// with the latest snapshot; Draw only reads. Neither ever changes the
// population.
type Renderer interface {
	Sync(blooms []Entry, epoch uint64, dt float64)
	Draw(screen *ebiten.Image, blooms []Entry, elapsed float64)
	// DrawCalls reports the DrawTriangles submissions of the last Draw.
	DrawCalls() int
}

var (
	centerColor = Color{R: 1, G: 0.922, B: 0.231, A: 0.9} // #ffeb3b
	centerGlow  = Color{R: 1, G: 0.596, B: 0, A: 0.3}     // #ff9800
)

// --- Presentation state ---

// glyphState is the local presentation of one bloom. progress runs 0..1 as
// the glyph grows in; it never feeds back into the Bloom.
type glyphState struct {
	started  bool
	progress float64
	velocity float64
	tween    *Tween
	seen     uint64
}

// presentation tracks per-handle glyph state across frames. A new epoch
// (the field was replaced) drops every state and cancels pending entrances,
// so the new field replays its entrance from zero.
type presentation struct {
	cfg    RenderConfig
	states map[Handle]*glyphState
	queue  *DeferQueue
	epoch  uint64
	synced bool
	frame  uint64

	start   func(st *glyphState)
	advance func(st *glyphState, dt float64)
}

func newPresentation(cfg RenderConfig, start func(*glyphState), advance func(*glyphState, float64)) *presentation {
	p := &presentation{
		cfg:     cfg,
		states:  make(map[Handle]*glyphState),
		start:   start,
		advance: advance,
	}
	p.queue = NewDeferQueue(func(h Handle) bool {
		_, ok := p.states[h]
		return ok
	})
	return p
}

// entranceDelay is the start delay of the k-th glyph of a fresh field.
// Glyphs are released BatchPerFrame at a time, one batch per 60 Hz frame.
func (p *presentation) entranceDelay(k int) float64 {
	d := p.cfg.EntranceDelay.Seconds()
	if p.cfg.BatchPerFrame > 0 {
		d += float64(k/p.cfg.BatchPerFrame) / 60
	}
	return d
}

func (p *presentation) sync(blooms []Entry, epoch uint64, dt float64) {
	p.frame++
	fresh := !p.synced || epoch != p.epoch
	if fresh {
		p.queue.Cancel()
		clear(p.states)
		p.epoch = epoch
		p.synced = true
	}

	k := 0
	for _, e := range blooms {
		st, ok := p.states[e.Handle]
		if !ok {
			st = &glyphState{}
			p.states[e.Handle] = st
			delay := 0.0
			if fresh {
				delay = p.entranceDelay(k)
				k++
			}
			p.queue.After(e.Handle, delay, func() {
				st.started = true
				p.start(st)
			})
		}
		st.seen = p.frame
	}
	// Evicted blooms lose their state; their pending entrances go with it.
	for h, st := range p.states {
		if st.seen != p.frame {
			delete(p.states, h)
		}
	}

	p.queue.Advance(dt)
	for _, st := range p.states {
		if st.started {
			p.advance(st, dt)
		}
	}
}

// progress returns the entrance progress of h, 0 when it has not started.
func (p *presentation) progress(h Handle) float64 {
	st, ok := p.states[h]
	if !ok || !st.started {
		return 0
	}
	return st.progress
}

// --- Glyph drawing ---

// glyphPainter turns blooms into triangles. Petal outlines are sampled once.
type glyphPainter struct {
	batch  triBatch
	glow   *glowPass // nil when the glow is off
	glyphs int       // glyphs appended this frame
	petals [2][]Vec2 // [0] regular, [1] dense (more than 3 petals)
	top    Color
	bottom Color
}

func newGlyphPainter(cfg RenderConfig) *glyphPainter {
	g := &glyphPainter{
		petals: [2][]Vec2{
			petalOutline(petalWidth, petalHeight, petalSegments),
			petalOutline(petalWidth, petalHeightDense, petalSegments),
		},
		top:    hexColor(cfg.BackgroundTop),
		bottom: hexColor(cfg.BackgroundBottom),
	}
	if cfg.Glow.Enabled {
		g.glow = newGlowPass(cfg.Glow)
	}
	return g
}

// begin starts a frame: it paints the background and returns the image
// glyphs go into. With the glow on that is an offscreen layer, and the
// background is flushed first so it stays out of the bright pass.
func (g *glyphPainter) begin(screen *ebiten.Image) *ebiten.Image {
	g.batch.reset()
	g.glyphs = 0
	if screen != nil {
		b := screen.Bounds()
		g.background(screen, float64(b.Dx()), float64(b.Dy()))
	}
	if g.glow == nil {
		return screen
	}
	g.batch.flush(screen)
	return g.glow.begin(screen)
}

// end flushes the glyphs into layer and runs the glow.
func (g *glyphPainter) end(screen, layer *ebiten.Image) {
	g.batch.flush(layer)
	if g.glow != nil {
		g.glow.finish(screen, g.glyphs == 0)
	}
}

// drawCalls counts every submission of the last frame.
func (g *glyphPainter) drawCalls() int {
	n := g.batch.drawCalls
	if g.glow != nil {
		n += g.glow.drawCalls
	}
	return n
}

// hexColor parses a validated hex color; invalid input yields white.
func hexColor(hex string) Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return ColorWhite
	}
	return Color{R: c.R, G: c.G, B: c.B, A: 1}
}

// breathing is the slow per-glyph size oscillation. i is the glyph's index
// in the snapshot so neighbours drift out of phase.
func breathing(t, x, y float64, i int) float64 {
	phase := 0.1 * float64(i)
	return 0.95 + 0.03*math.Sin(0.5*t+2*x+phase) + 0.03*math.Cos(0.5*t+2*y+phase)
}

// glyph appends one bloom centered on (cx, cy). unit is the pixel length of
// one glyph unit after scale, breathing and entrance are applied.
func (g *glyphPainter) glyph(dst *ebiten.Image, b Bloom, cx, cy, unit, t float64) {
	if unit <= 0 || b.Petals <= 0 {
		return
	}
	g.glyphs++
	outline := g.petals[0]
	if b.Petals > 3 {
		outline = g.petals[1]
	}
	hub := Vec2{0, petalHeight * petalStretchY / 2}
	if b.Petals > 3 {
		hub.Y = petalHeightDense * petalStretchY / 2
	}

	step := 2 * math.Pi / float64(b.Petals)
	base := b.Color.Color
	body := base.WithAlpha(0.9 * b.Opacity)
	tint := Glow(base, 0.2).WithAlpha(0.4 * b.Opacity)

	for i := 0; i < b.Petals; i++ {
		m := glyphTransform(cx, cy, unit, float64(i)*step+b.Rotation)
		g.batch.fan(dst, hub, outline, m, body)
	}

	// Overlay petals sit between the main ones and sway slightly.
	sway := math.Sin(t*0.5) * 0.02
	overlay := unit * (0.65 + math.Sin(t)*0.05)
	for i := 0; i < b.Petals; i++ {
		a := float64(i)*step + b.Rotation + math.Pi/float64(b.Petals) + sway
		m := glyphTransform(cx, cy, overlay, a)
		g.batch.fan(dst, hub, outline, m, tint)
	}

	g.batch.disc(dst, cx, cy, 0.08*1.3*unit, base.WithAlpha(0.1*b.Opacity))
	g.batch.disc(dst, cx, cy, 0.1*unit, centerColor.WithAlpha(b.Opacity))
	g.batch.disc(dst, cx, cy, 0.06*unit, centerGlow.WithAlpha(b.Opacity))
}

func (g *glyphPainter) background(dst *ebiten.Image, w, h float64) {
	g.batch.gradient(dst, w, h, g.top, g.bottom)
}

// --- Pixel renderer ---

// PixelRenderer draws blooms whose positions are device pixels (through an
// optional 2D camera). Glyphs grow in with an eased tween; a fresh field is
// released a few glyphs per frame.
type PixelRenderer struct {
	cfg     RenderConfig
	mapper  CoordinateMapper
	pres    *presentation
	painter *glyphPainter
}

// NewPixelRenderer creates a pixel-space renderer.
func NewPixelRenderer(cfg RenderConfig, mapper CoordinateMapper) *PixelRenderer {
	r := &PixelRenderer{cfg: cfg, mapper: mapper, painter: newGlyphPainter(cfg)}
	r.pres = newPresentation(cfg,
		func(st *glyphState) { st.tween = entranceTween(cfg.EntranceDuration) },
		func(st *glyphState, dt float64) {
			if st.tween != nil {
				st.progress = math.Max(st.tween.Update(float32(dt)), 0)
			}
		},
	)
	return r
}

// Sync implements Renderer.
func (r *PixelRenderer) Sync(blooms []Entry, epoch uint64, dt float64) {
	r.pres.sync(blooms, epoch, dt)
}

// Progress returns the entrance progress of h.
func (r *PixelRenderer) Progress(h Handle) float64 { return r.pres.progress(h) }

// Draw implements Renderer.
func (r *PixelRenderer) Draw(screen *ebiten.Image, blooms []Entry, elapsed float64) {
	p := r.painter
	dst := p.begin(screen)
	for i, e := range blooms {
		prog := r.pres.progress(e.Handle)
		if prog <= 0 {
			continue
		}
		sx, sy, ok := r.mapper.ToScreen(e.Bloom.Position)
		if !ok {
			continue
		}
		unit := e.Bloom.Scale * r.cfg.GlyphSize * prog * breathing(elapsed, sx/100, sy/100, i)
		p.glyph(dst, e.Bloom, sx, sy, unit, elapsed)
	}
	p.end(screen, dst)
}

// DrawCalls implements Renderer.
func (r *PixelRenderer) DrawCalls() int { return r.painter.drawCalls() }
