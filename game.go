package bloomfield

import (
	"errors"
	"math/rand/v2"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Options are host settings that are not part of the card configuration.
type Options struct {
	// Seed fixes the random source. Zero picks a time-based seed.
	Seed uint64
	// Script drives the card with injected input when non-nil.
	Script *TestRunner
	// ExitAfterScript ends the game once Script is done.
	ExitAfterScript bool
	// AppName names the gdata storage for preferences. Empty disables
	// persistence.
	AppName string
	// ScreenshotDir receives F12 and scripted screenshots.
	ScreenshotDir string
	// ExportDir receives F9 population dumps.
	ExportDir string
}

// Game is the ebiten.Game hosting one card: it polls input into the
// session, debounces window resizes, and draws the field with the overlay.
type Game struct {
	cfg      Config
	opts     Options
	session  *Session
	renderer Renderer
	input    *PointerInput
	overlay  *Overlay
	music    *Music
	prefs    *PreferenceStore
	fps      *fpsWidget
	shots    *screenshots
	runner   *TestRunner

	elapsed  float64
	frame    uint64
	snapshot []Entry
	epoch    uint64

	w, h          int
	resizePending bool
	resizeAt      float64

	stats debugStats
}

// NewGame builds a card for cfg. The field is seeded for the configured
// window size right away.
func NewGame(cfg Config, opts Options) (*Game, error) {
	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	w, h := cfg.Window.Width, cfg.Window.Height
	session, err := NewSession(cfg, float64(w), float64(h), nil, rng)
	if err != nil {
		return nil, err
	}
	overlay, err := NewOverlay(cfg.Message)
	if err != nil {
		return nil, err
	}

	g := &Game{
		cfg:      cfg,
		opts:     opts,
		session:  session,
		renderer: newRenderer(cfg, session),
		input:    NewPointerInput(cfg.Pointer),
		overlay:  overlay,
		shots:    newScreenshots(opts.ScreenshotDir),
		runner:   opts.Script,
		w:        w,
		h:        h,
	}
	if cfg.Debug {
		g.fps = newFPSWidget()
	}

	music, err := LoadMusic(cfg.Audio)
	if err != nil {
		logf("music: %v (continuing without music)", err)
	}
	g.music = music

	if opts.AppName != "" {
		g.prefs = OpenPreferenceStore(opts.AppName)
	} else {
		g.prefs, _ = NewPreferenceStore(nil)
	}
	g.music.SetEnabled(g.prefs.Get().MusicEnabled && g.music.HasTrack())

	session.Seed()
	return g, nil
}

// newRenderer picks the renderer for the session's variant.
func newRenderer(cfg Config, s *Session) Renderer {
	if wm, ok := s.Mapper().(WorldMapper); ok {
		return NewWorldRenderer(cfg.Render, wm.Camera, wm, s.Viewport())
	}
	return NewPixelRenderer(cfg.Render, s.Mapper())
}

// Session returns the interaction session.
func (g *Game) Session() *Session { return g.session }

// Input implements ScriptHost.
func (g *Game) Input() *PointerInput { return g.input }

// Screenshot implements ScriptHost. The capture happens after the current
// frame is drawn.
func (g *Game) Screenshot(label string) { g.shots.add(label) }

// Update implements ebiten.Game.
func (g *Game) Update() error {
	dt := 1.0 / float64(ebiten.TPS())
	g.elapsed += dt
	g.frame++

	if g.runner != nil {
		g.runner.Step(g)
		if g.opts.ExitAfterScript && g.runner.Done() {
			return ebiten.Termination
		}
	}
	g.handleKeys()

	w, h := float64(g.w), float64(g.h)
	for _, ev := range g.input.Poll(g.elapsed, w, h) {
		g.dispatch(ev)
	}
	g.applyResize()

	start := time.Now()
	g.snapshot, g.epoch = g.session.Snapshot(g.snapshot[:0])
	g.stats.snapshotTime = time.Since(start)

	start = time.Now()
	g.renderer.Sync(g.snapshot, g.epoch, dt)
	g.stats.syncTime = time.Since(start)

	g.overlay.Update(dt, w, h, g.music.Label())
	if g.fps != nil {
		g.fps.update(dt)
	}
	return nil
}

func (g *Game) handleKeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		g.toggleMusic()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		g.Screenshot("manual")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF9) {
		g.exportCSV()
	}
}

// dispatch routes one input event. Presses on the music button toggle
// music and never reach the field.
func (g *Game) dispatch(ev InputEvent) {
	switch ev.Type {
	case EventPointerDown, EventDoubleClick:
		if g.overlay.HitButton(ev.X, ev.Y) {
			if ev.Type == EventPointerDown {
				g.toggleMusic()
			}
			return
		}
	case EventResize:
		g.w, g.h = int(ev.Width), int(ev.Height)
		ebiten.SetWindowSize(g.w, g.h)
		g.scheduleResize()
		return
	}
	g.session.HandleEvent(ev)
}

func (g *Game) toggleMusic() {
	on := g.music.Toggle()
	if err := g.prefs.SetMusicEnabled(on); err != nil {
		logf("preferences: %v", err)
	}
}

func (g *Game) exportCSV() {
	path, err := ExportCSV(g.opts.ExportDir, EntryBlooms(g.snapshot), time.Now())
	if err != nil {
		logf("%v", err)
		return
	}
	logf("exported %d blooms to %s", len(g.snapshot), path)
}

// --- Resize debounce ---

func (g *Game) scheduleResize() {
	g.resizePending = true
	g.resizeAt = g.elapsed + g.cfg.Window.ResizeDebounce.Seconds()
}

// applyResize hands a settled size to the session. A resize during a
// stroke leaves the field as it is.
func (g *Game) applyResize() {
	if !g.resizePending || g.elapsed < g.resizeAt {
		return
	}
	g.resizePending = false
	if !g.session.Resize(float64(g.w), float64(g.h)) && g.cfg.Debug {
		logf("resize to %dx%d while drawing: field kept", g.w, g.h)
	}
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	g.renderer.Draw(screen, g.snapshot, g.elapsed)
	g.stats.drawTime = time.Since(start)
	g.stats.drawCalls = g.renderer.DrawCalls()

	g.overlay.Draw(screen)

	if g.cfg.Debug {
		g.stats.session = g.session.Stats()
		g.fps.draw(screen)
		ebitenutil.DebugPrintAt(screen, g.stats.String(), 4, 36)
		debugLog(g.frame, g.stats)
	}
	for _, p := range g.shots.flush(screen) {
		logf("screenshot: %s", p)
	}
}

// Layout implements ebiten.Game. The screen follows the window; a size
// change is applied to the field once it has settled.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.w || outsideHeight != g.h {
		g.w, g.h = outsideWidth, outsideHeight
		g.scheduleResize()
	}
	return outsideWidth, outsideHeight
}

// Run opens a resizable window and runs the card until it is closed.
func Run(cfg Config, opts Options) error {
	g, err := NewGame(cfg, opts)
	if err != nil {
		return err
	}
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
