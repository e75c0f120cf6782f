package bloomfield

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var presetsYAML []byte

// ErrInvalidConfig wraps every validation failure returned by Config.Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Variant selects the coordinate space and rendering style of a card.
type Variant string

const (
	// VariantPixel places blooms in device pixels and draws them flat.
	VariantPixel Variant = "pixel"
	// VariantWorld places blooms on a world-space plane seen through a
	// perspective camera.
	VariantWorld Variant = "world"
)

// Origin selects where the pattern skeleton is centered.
type Origin string

const (
	OriginCenter Origin = "center" // viewport center, pixel space
	OriginZero   Origin = "zero"   // scene origin, world space
)

// Config holds every tunable of a card. Load it with LoadConfig or take a
// preset with DefaultConfig.
type Config struct {
	Variant Variant       `yaml:"variant"`
	Window  WindowConfig  `yaml:"window"`
	Field   FieldConfig   `yaml:"field"`
	Pattern PatternConfig `yaml:"pattern"`
	Bloom   BloomConfig   `yaml:"bloom"`
	Pointer PointerConfig `yaml:"pointer"`
	Camera  CameraConfig  `yaml:"camera"`
	Render  RenderConfig  `yaml:"render"`
	Audio   AudioConfig   `yaml:"audio"`
	Palette string        `yaml:"palette"` // "blush" or "neon"
	Message MessageConfig `yaml:"message"`
	Debug   bool          `yaml:"debug"`
}

// WindowConfig holds window settings.
type WindowConfig struct {
	Title          string        `yaml:"title"`
	Width          int           `yaml:"width"`
	Height         int           `yaml:"height"`
	ResizeDebounce time.Duration `yaml:"resize_debounce"`
}

// FieldConfig bounds the population.
type FieldConfig struct {
	MaxBlooms int `yaml:"max_blooms"`
	SeedCount int `yaml:"seed_count"`
}

// PatternConfig shapes the layered polygon skeleton.
type PatternConfig struct {
	RadiusFraction float64 `yaml:"radius_fraction"` // of min(width, height)
	Gon            int     `yaml:"gon"`             // polygon side count
	Layers         int     `yaml:"layers"`
	LayerSpacing   float64 `yaml:"layer_spacing"` // layer radius = R * layer * spacing
	AngleStep      float64 `yaml:"angle_step"`    // divided by the layer index
	Wobble         float64 `yaml:"wobble"`        // radial perturbation, fraction of R
	WobbleLobes    float64 `yaml:"wobble_lobes"`
	InteriorPoints int     `yaml:"interior_points"`
	InteriorSpread float64 `yaml:"interior_spread"`
	ClipToViewport bool    `yaml:"clip_to_viewport"`
	Origin         Origin  `yaml:"origin"`
}

// BloomConfig bounds every randomized bloom parameter.
type BloomConfig struct {
	MinPetals       int     `yaml:"min_petals"`
	MaxPetals       int     `yaml:"max_petals"`
	SeedScale       Range   `yaml:"seed_scale"`
	SeedScaleFactor float64 `yaml:"seed_scale_factor"`
	LayerFalloff    float64 `yaml:"layer_falloff"`
	InteriorFalloff float64 `yaml:"interior_falloff"`
	FreeScale       Range   `yaml:"free_scale"` // used when no scale hint is given
	SizeFactor      float64 `yaml:"size_factor"`
	Opacity         Range   `yaml:"opacity"`
}

// PointerConfig tunes the drawing throttle and the double click detector.
type PointerConfig struct {
	Threshold         float64       `yaml:"threshold"` // device pixels
	Divisor           float64       `yaml:"divisor"`
	HintCap           float64       `yaml:"hint_cap"`
	DownScaleHint     float64       `yaml:"down_scale_hint"`
	DoubleClickWindow time.Duration `yaml:"double_click_window"`
	DoubleClickSlop   float64       `yaml:"double_click_slop"`
}

// CameraConfig describes the world-space perspective camera. Ignored by the
// pixel variant.
type CameraConfig struct {
	Position Vec3    `yaml:"position"`
	FOV      float64 `yaml:"fov"` // vertical, degrees
	Near     float64 `yaml:"near"`
	Far      float64 `yaml:"far"`
	PlaneZ   float64 `yaml:"plane_z"`
}

// RenderConfig holds presentation-only settings.
type RenderConfig struct {
	GlyphSize        float64       `yaml:"glyph_size"`
	EntranceDelay    time.Duration `yaml:"entrance_delay"`
	EntranceDuration float32       `yaml:"entrance_duration"` // seconds
	BatchPerFrame    int           `yaml:"batch_per_frame"`   // 0 = no staggering
	BackgroundTop    string        `yaml:"background_top"`
	BackgroundBottom string        `yaml:"background_bottom"`
	Glow             GlowConfig    `yaml:"glow"`
}

// GlowConfig is the bloom post-process: bright parts of the glyph layer are
// extracted, blurred, and added back over the frame.
type GlowConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Threshold float64 `yaml:"threshold"` // luminance where the glow starts
	Smoothing float64 `yaml:"smoothing"` // width of the threshold ramp
	Intensity float64 `yaml:"intensity"`
	Radius    int     `yaml:"radius"` // blur radius, pixels
}

// AudioConfig holds background music settings.
type AudioConfig struct {
	Track      string  `yaml:"track"` // .mp3 or .ogg; empty = silent
	Volume     float64 `yaml:"volume"`
	SampleRate int     `yaml:"sample_rate"`
}

// MessageConfig is the static greeting overlay.
type MessageConfig struct {
	Title string   `yaml:"title"`
	Lines []string `yaml:"lines"`
}

// DefaultConfig returns the built-in preset for the variant.
func DefaultConfig(v Variant) (Config, error) {
	var presets map[Variant]Config
	if err := yaml.Unmarshal(presetsYAML, &presets); err != nil {
		return Config{}, fmt.Errorf("parse presets: %w", err)
	}
	cfg, ok := presets[v]
	if !ok {
		return Config{}, fmt.Errorf("%w: unknown variant %q", ErrInvalidConfig, v)
	}
	return cfg, nil
}

// LoadConfig starts from the preset for v and decodes the YAML file at path
// on top of it. An empty path returns the validated preset.
func LoadConfig(path string, v Variant) (Config, error) {
	cfg, err := DefaultConfig(v)
	if err != nil {
		return Config{}, err
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("load config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("load config %s: %w", path, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every out-of-range setting at once.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
		}
	}

	check(c.Variant == VariantPixel || c.Variant == VariantWorld, "variant %q", c.Variant)
	check(c.Field.MaxBlooms >= 0, "field.max_blooms %d < 0", c.Field.MaxBlooms)
	check(c.Field.SeedCount >= 0, "field.seed_count %d < 0", c.Field.SeedCount)
	check(c.Field.SeedCount <= c.Field.MaxBlooms, "field.seed_count %d exceeds max_blooms %d",
		c.Field.SeedCount, c.Field.MaxBlooms)

	check(c.Pattern.RadiusFraction > 0, "pattern.radius_fraction must be positive")
	check(c.Pattern.Gon >= 3, "pattern.gon %d < 3", c.Pattern.Gon)
	check(c.Pattern.Layers >= 1, "pattern.layers %d < 1", c.Pattern.Layers)
	check(c.Pattern.AngleStep > 0, "pattern.angle_step must be positive")
	check(c.Pattern.InteriorPoints >= 0, "pattern.interior_points %d < 0", c.Pattern.InteriorPoints)
	check(c.Pattern.Origin == OriginCenter || c.Pattern.Origin == OriginZero, "pattern.origin %q", c.Pattern.Origin)

	check(c.Bloom.MinPetals >= 1, "bloom.min_petals %d < 1", c.Bloom.MinPetals)
	check(c.Bloom.MaxPetals >= c.Bloom.MinPetals, "bloom.max_petals %d < min_petals %d",
		c.Bloom.MaxPetals, c.Bloom.MinPetals)
	check(c.Bloom.SeedScale.Min > 0 && c.Bloom.SeedScale.Max >= c.Bloom.SeedScale.Min, "bloom.seed_scale %v", c.Bloom.SeedScale)
	check(c.Bloom.FreeScale.Min > 0 && c.Bloom.FreeScale.Max >= c.Bloom.FreeScale.Min, "bloom.free_scale %v", c.Bloom.FreeScale)
	check(c.Bloom.SeedScaleFactor > 0, "bloom.seed_scale_factor must be positive")
	check(c.Bloom.LayerFalloff > 0, "bloom.layer_falloff must be positive")
	check(c.Bloom.InteriorFalloff > 0, "bloom.interior_falloff must be positive")
	check(c.Bloom.SizeFactor > 0, "bloom.size_factor must be positive")
	check(c.Bloom.Opacity.Min > 0 && c.Bloom.Opacity.Max <= 1 && c.Bloom.Opacity.Max >= c.Bloom.Opacity.Min,
		"bloom.opacity %v", c.Bloom.Opacity)

	check(c.Pointer.Threshold >= 0, "pointer.threshold must not be negative")
	check(c.Pointer.Divisor > 0, "pointer.divisor must be positive")
	check(c.Pointer.HintCap > 0, "pointer.hint_cap must be positive")
	check(c.Pointer.DownScaleHint > 0, "pointer.down_scale_hint must be positive")

	if c.Variant == VariantWorld {
		check(c.Camera.FOV > 0 && c.Camera.FOV < 180, "camera.fov %v", c.Camera.FOV)
		check(c.Camera.Near > 0 && c.Camera.Far > c.Camera.Near, "camera near/far %v/%v", c.Camera.Near, c.Camera.Far)
	}

	check(c.Render.GlyphSize > 0, "render.glyph_size must be positive")
	for _, hex := range []string{c.Render.BackgroundTop, c.Render.BackgroundBottom} {
		_, err := colorful.Hex(hex)
		check(err == nil, "render background %q", hex)
	}
	if g := c.Render.Glow; g.Enabled {
		check(g.Threshold >= 0 && g.Threshold < 1, "render.glow.threshold %v", g.Threshold)
		check(g.Smoothing >= 0, "render.glow.smoothing must not be negative")
		check(g.Intensity > 0, "render.glow.intensity must be positive")
		check(g.Radius >= 1, "render.glow.radius %d < 1", g.Radius)
	}
	check(c.Audio.Volume >= 0 && c.Audio.Volume <= 1, "audio.volume %v", c.Audio.Volume)
	_, err := c.PaletteTones()
	check(err == nil, "palette %q", c.Palette)

	return errors.Join(errs...)
}

// PaletteTones returns the tone list named by c.Palette.
func (c Config) PaletteTones() ([]Tone, error) {
	switch c.Palette {
	case "blush", "":
		return BlushTones, nil
	case "neon":
		return NeonTones, nil
	default:
		return nil, fmt.Errorf("%w: unknown palette %q", ErrInvalidConfig, c.Palette)
	}
}
