package bloomfield

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func mustConfig(t testing.TB, v Variant) Config {
	t.Helper()
	cfg, err := DefaultConfig(v)
	if err != nil {
		t.Fatalf("DefaultConfig(%q): %v", v, err)
	}
	return cfg
}

func TestDefaultConfigPresets(t *testing.T) {
	tests := []struct {
		variant   Variant
		max       int
		seed      int
		threshold float64
		divisor   float64
		cap       float64
		radius    float64
		origin    Origin
		palette   string
	}{
		{VariantPixel, 300, 100, 10, 20, 3, 0.4, OriginCenter, "blush"},
		{VariantWorld, 500, 200, 6, 30, 2, 0.02, OriginZero, "neon"},
	}
	for _, tt := range tests {
		t.Run(string(tt.variant), func(t *testing.T) {
			cfg := mustConfig(t, tt.variant)
			if err := cfg.Validate(); err != nil {
				t.Fatalf("preset does not validate: %v", err)
			}
			if cfg.Variant != tt.variant {
				t.Errorf("Variant = %q", cfg.Variant)
			}
			if cfg.Field.MaxBlooms != tt.max || cfg.Field.SeedCount != tt.seed {
				t.Errorf("Field = %+v", cfg.Field)
			}
			p := cfg.Pointer
			if p.Threshold != tt.threshold || p.Divisor != tt.divisor || p.HintCap != tt.cap {
				t.Errorf("Pointer = %+v", p)
			}
			if p.DownScaleHint != 1.5 || p.DoubleClickWindow != 300*time.Millisecond {
				t.Errorf("Pointer = %+v", p)
			}
			if cfg.Pattern.RadiusFraction != tt.radius || cfg.Pattern.Origin != tt.origin {
				t.Errorf("Pattern = %+v", cfg.Pattern)
			}
			if cfg.Pattern.Gon != 7 || cfg.Pattern.Layers != 3 || cfg.Pattern.InteriorPoints != 20 {
				t.Errorf("Pattern = %+v", cfg.Pattern)
			}
			if cfg.Bloom.MinPetals != 2 || cfg.Bloom.MaxPetals != 5 {
				t.Errorf("petals = [%d,%d], want [2,5]", cfg.Bloom.MinPetals, cfg.Bloom.MaxPetals)
			}
			if cfg.Palette != tt.palette {
				t.Errorf("Palette = %q, want %q", cfg.Palette, tt.palette)
			}
			if cfg.Window.ResizeDebounce != 250*time.Millisecond {
				t.Errorf("ResizeDebounce = %v", cfg.Window.ResizeDebounce)
			}
		})
	}
}

func TestDefaultConfigUnknownVariant(t *testing.T) {
	_, err := DefaultConfig("sepia")
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestLoadConfigOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "card.yaml")
	data := []byte("field:\n  max_blooms: 42\n  seed_count: 10\npointer:\n  threshold: 4\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path, VariantPixel)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Field.MaxBlooms != 42 || cfg.Field.SeedCount != 10 {
		t.Errorf("Field = %+v, want overlay values", cfg.Field)
	}
	if cfg.Pointer.Threshold != 4 {
		t.Errorf("Threshold = %v, want 4", cfg.Pointer.Threshold)
	}
	// Untouched keys keep the preset.
	if cfg.Pointer.Divisor != 20 || cfg.Pattern.Gon != 7 {
		t.Errorf("preset values lost: %+v %+v", cfg.Pointer, cfg.Pattern)
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	cfg, err := LoadConfig("", VariantWorld)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Field.MaxBlooms != 500 {
		t.Errorf("MaxBlooms = %d, want 500", cfg.Field.MaxBlooms)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), VariantPixel)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want wrapped ErrNotExist", err)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	data := []byte("bloom:\n  min_petals: 6\n  max_petals: 3\npointer:\n  divisor: 0\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadConfig(path, VariantPixel)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := mustConfig(t, VariantPixel)
	cfg.Field.MaxBlooms = -1
	cfg.Pattern.Gon = 2
	cfg.Palette = "plaid"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() = nil")
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		t.Fatalf("Validate() error %T does not join", err)
	}
	// max_blooms < 0 also breaks seed_count <= max_blooms.
	if n := len(joined.Unwrap()); n < 4 {
		t.Errorf("got %d problems, want at least 4: %v", n, err)
	}
}

func TestPaletteTones(t *testing.T) {
	cfg := mustConfig(t, VariantPixel)
	for name, want := range map[string]int{"": len(BlushTones), "blush": len(BlushTones), "neon": len(NeonTones)} {
		cfg.Palette = name
		tones, err := cfg.PaletteTones()
		if err != nil || len(tones) != want {
			t.Errorf("PaletteTones(%q) = %d tones, %v", name, len(tones), err)
		}
	}
}

func TestGlowPresets(t *testing.T) {
	if g := mustConfig(t, VariantPixel).Render.Glow; g.Enabled {
		t.Errorf("pixel glow = %+v, want disabled", g)
	}
	g := mustConfig(t, VariantWorld).Render.Glow
	if !g.Enabled || g.Threshold != 0.2 || g.Smoothing != 0.9 || g.Intensity != 2 || g.Radius != 8 {
		t.Errorf("world glow = %+v", g)
	}
}

func TestValidateGlow(t *testing.T) {
	tests := []struct {
		name string
		edit func(*GlowConfig)
		ok   bool
	}{
		{"preset", func(*GlowConfig) {}, true},
		{"threshold at one", func(g *GlowConfig) { g.Threshold = 1 }, false},
		{"negative smoothing", func(g *GlowConfig) { g.Smoothing = -0.1 }, false},
		{"zero intensity", func(g *GlowConfig) { g.Intensity = 0 }, false},
		{"zero radius", func(g *GlowConfig) { g.Radius = 0 }, false},
		{"disabled ignores values", func(g *GlowConfig) { g.Enabled, g.Radius = false, 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := mustConfig(t, VariantWorld)
			tt.edit(&cfg.Render.Glow)
			err := cfg.Validate()
			if (err == nil) != tt.ok {
				t.Errorf("Validate() = %v, want ok=%v", err, tt.ok)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("err = %v, want ErrInvalidConfig", err)
			}
		})
	}
}
