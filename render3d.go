package bloomfield

import (
	"github.com/charmbracelet/harmonica"
	"github.com/hajimehoshi/ebiten/v2"
)

// Spring settings for the world entrance: a critically damped pull from 0
// to full size.
const (
	bloomSpringFrequency = 4.0
	bloomSpringDamping   = 1.0
)

// WorldRenderer draws blooms lying on the z = PlaneZ plane through a
// perspective camera. Each glyph's bloom progress is driven by a spring and
// kept locally, keyed by handle.
type WorldRenderer struct {
	cfg      RenderConfig
	camera   *Camera3D
	mapper   CoordinateMapper
	viewport ViewportInfo
	spring   harmonica.Spring
	springDT float64 // time step the spring coefficients were built for
	pres     *presentation
	painter  *glyphPainter
}

// NewWorldRenderer creates a world-space renderer.
func NewWorldRenderer(cfg RenderConfig, camera *Camera3D, mapper CoordinateMapper, viewport ViewportInfo) *WorldRenderer {
	r := &WorldRenderer{
		cfg:      cfg,
		camera:   camera,
		mapper:   mapper,
		viewport: viewport,
		painter:  newGlyphPainter(cfg),
	}
	r.stepFor(harmonica.FPS(ebiten.TPS()))
	r.pres = newPresentation(cfg,
		func(st *glyphState) { st.progress, st.velocity = 0, 0 },
		func(st *glyphState, dt float64) {
			if dt <= 0 {
				return
			}
			r.stepFor(dt)
			st.progress, st.velocity = r.spring.Update(st.progress, st.velocity, 1)
			if st.progress < 0 {
				st.progress = 0
			}
		},
	)
	return r
}

// stepFor rebuilds the spring coefficients when the tick length changes.
func (r *WorldRenderer) stepFor(dt float64) {
	if dt == r.springDT {
		return
	}
	r.spring = harmonica.NewSpring(dt, bloomSpringFrequency, bloomSpringDamping)
	r.springDT = dt
}

// Sync implements Renderer.
func (r *WorldRenderer) Sync(blooms []Entry, epoch uint64, dt float64) {
	r.pres.sync(blooms, epoch, dt)
}

// Progress returns the bloom progress of h.
func (r *WorldRenderer) Progress(h Handle) float64 { return r.pres.progress(h) }

// Draw implements Renderer.
func (r *WorldRenderer) Draw(screen *ebiten.Image, blooms []Entry, elapsed float64) {
	p := r.painter
	dst := p.begin(screen)
	_, vh := r.viewport.Size()
	for i, e := range blooms {
		prog := r.pres.progress(e.Handle)
		if prog <= 0 {
			continue
		}
		pos := e.Bloom.Position
		sx, sy, ok := r.mapper.ToScreen(pos)
		if !ok {
			continue
		}
		ppu := r.camera.PixelsPerUnit(pos, vh)
		unit := e.Bloom.Scale * r.cfg.GlyphSize * ppu * prog * breathing(elapsed, pos.X, pos.Y, i)
		p.glyph(dst, e.Bloom, sx, sy, unit, elapsed)
	}
	p.end(screen, dst)
}

// DrawCalls implements Renderer.
func (r *WorldRenderer) DrawCalls() int { return r.painter.drawCalls() }
