package bloomfield

import (
	"fmt"
	"sync"
)

// Session owns one interactive bloom field: the population, the pointer
// tracker, the factory and generator, and the mapping from device pixels to
// scene space. Every method takes the session lock, so the game loop,
// scripted input and tests share one serialized mutation path.
type Session struct {
	mu sync.Mutex

	cfg      Config
	pop      *Population
	tracker  *PointerTracker
	factory  *BloomFactory
	gen      *PatternGenerator
	mapper   CoordinateMapper
	viewport *Viewport
	rng      Rand

	// epoch counts wholesale replacements of the population. Renderers
	// compare it between frames to restart their entrance animations.
	epoch uint64
	added uint64
}

// SessionStats is a point-in-time summary used by the debug overlay.
type SessionStats struct {
	Len     int
	Cap     int
	Drawing bool
	Epoch   uint64
	Added   uint64
}

// NewMapper returns the coordinate mapper a variant uses: a 2D camera
// sized to the viewport for pixel scenes, a perspective ray cast for world
// scenes.
func NewMapper(cfg Config, viewport ViewportInfo) CoordinateMapper {
	if cfg.Variant == VariantWorld {
		return WorldMapper{
			Camera:   NewCamera3D(cfg.Camera),
			Viewport: viewport,
			PlaneZ:   cfg.Camera.PlaneZ,
		}
	}
	w, h := viewport.Size()
	return PixelMapper{Camera: NewCamera2D(Rect{Width: w, Height: h})}
}

// NewSession creates a session for cfg on a viewport of w x h device
// pixels. A nil mapper selects NewMapper. The field starts empty; call Seed
// to lay out the initial pattern.
func NewSession(cfg Config, w, h float64, mapper CoordinateMapper, rng Rand) (*Session, error) {
	tones, err := cfg.PaletteTones()
	if err != nil {
		return nil, err
	}
	palette, err := NewPalette(cfg.Palette, tones)
	if err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}
	vp := &Viewport{W: w, H: h}
	if mapper == nil {
		mapper = NewMapper(cfg, vp)
	}
	factory := NewBloomFactory(cfg.Bloom, palette, rng)
	return &Session{
		cfg:      cfg,
		pop:      NewPopulation(cfg.Field.MaxBlooms),
		tracker:  NewPointerTracker(cfg.Pointer),
		factory:  factory,
		gen:      NewPatternGenerator(cfg.Pattern, factory, cfg.Camera.PlaneZ),
		mapper:   mapper,
		viewport: vp,
		rng:      rng,
	}, nil
}

// Config returns the session configuration.
func (s *Session) Config() Config { return s.cfg }

// Viewport returns the viewport the session maps through. Its size is
// updated by Resize.
func (s *Session) Viewport() ViewportInfo { return s.viewport }

// Mapper returns the coordinate mapper.
func (s *Session) Mapper() CoordinateMapper { return s.mapper }

// --- Field lifecycle ---

// Seed replaces the population with a freshly generated pattern for the
// current viewport and returns the new handles, oldest first.
func (s *Session) Seed() []Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reseed()
}

func (s *Session) reseed() []Handle {
	blooms := s.gen.Generate(s.viewport.W, s.viewport.H, s.cfg.Field.SeedCount, s.rng)
	s.epoch++
	return s.pop.Reset(blooms)
}

// Clear empties the population without reseeding.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pop.Clear()
	s.epoch++
}

// DoubleClick ends any stroke, then clears and reseeds the field.
func (s *Session) DoubleClick() []Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracker.Cancel()
	return s.reseed()
}

// Resize records the new viewport size. While idle the field is regenerated
// for it and Resize returns true; during a stroke the population is left
// alone.
func (s *Session) Resize(w, h float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewport.W, s.viewport.H = w, h
	if r, ok := s.mapper.(interface{ Resize(w, h float64) }); ok {
		r.Resize(w, h)
	}
	if s.tracker.Drawing() {
		return false
	}
	s.reseed()
	return true
}

// --- Pointer ---

// PointerDown starts a stroke at device pixel (x, y) and places a bloom
// there. Non-primary buttons are ignored. The returned handle is zero when
// no bloom was placed.
func (s *Session) PointerDown(x, y float64, button MouseButton) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.tracker.Down(Vec2{x, y}, button) {
		return Handle{}
	}
	h, _ := s.place(x, y, s.tracker.DownScaleHint())
	return h
}

// PointerMove places a bloom once the pointer has travelled past the
// throttle distance, sized by that distance. Moves that fail to map to the
// scene are dropped and the reference point stays where it was.
func (s *Session) PointerMove(x, y float64) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := Vec2{x, y}
	hint, ok := s.tracker.Move(p)
	if !ok {
		return Handle{}
	}
	h, ok := s.place(x, y, hint)
	if !ok {
		return Handle{}
	}
	s.tracker.Advance(p)
	return h
}

// PointerUp ends the stroke. Leaving the surface is reported the same way.
func (s *Session) PointerUp() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracker.Up()
}

// place maps (x, y) and appends one bloom. ok is false when the pixel has no
// scene point; the population is then untouched.
func (s *Session) place(x, y, hint float64) (Handle, bool) {
	pos, ok := s.mapper.ToScene(x, y)
	if !ok {
		return Handle{}, false
	}
	h, ok := s.pop.Append(s.factory.Create(pos, hint))
	if ok {
		s.added++
	}
	// A zero-capacity field still counts as mapped so the stroke advances.
	return h, true
}

// HandleEvent dispatches one input event.
func (s *Session) HandleEvent(ev InputEvent) {
	switch ev.Type {
	case EventPointerDown:
		s.PointerDown(ev.X, ev.Y, ev.Button)
	case EventPointerMove:
		s.PointerMove(ev.X, ev.Y)
	case EventPointerUp:
		s.PointerUp()
	case EventDoubleClick:
		s.DoubleClick()
	case EventResize:
		s.Resize(ev.Width, ev.Height)
	}
}

// --- Queries ---

// Snapshot appends every live entry to dst, oldest first, and returns it
// with the current epoch.
func (s *Session) Snapshot(dst []Entry) ([]Entry, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pop.AppendSnapshot(dst), s.epoch
}

// Live reports whether h still names a member of the field.
func (s *Session) Live(h Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pop.Live(h)
}

// Len returns the population size.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pop.Len()
}

// Drawing reports whether a stroke is in progress.
func (s *Session) Drawing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker.Drawing()
}

// Stats returns a summary of the session state.
func (s *Session) Stats() SessionStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionStats{
		Len:     s.pop.Len(),
		Cap:     s.pop.Cap(),
		Drawing: s.tracker.Drawing(),
		Epoch:   s.epoch,
		Added:   s.added,
	}
}
