// Package bloomfield is an interactive flower-field greeting card for
// [Ebitengine].
//
// A card opens with a field of blooms laid out along three soft polygon
// rings. Dragging the pointer paints new blooms whose size follows the
// pointer speed; the oldest blooms give way once the field is full. A double
// click or tap clears the field and lays out a fresh pattern, as does
// resizing the window while no stroke is in progress.
//
// # Quick start
//
// The simplest way to get started is [Run], which opens a window and runs
// the card:
//
//	cfg, err := bloomfield.LoadConfig("", bloomfield.VariantPixel)
//	if err != nil {
//		log.Fatal(err)
//	}
//	bloomfield.Run(cfg, bloomfield.Options{AppName: "bloomfield"})
//
// For full control, build a [Game] with [NewGame] and pass it to
// ebiten.RunGame yourself, or drive a [Session] directly.
//
// # Session
//
// [Session] owns the field. Every mutation goes through it and is
// serialized by its lock:
//
//	s, _ := bloomfield.NewSession(cfg, 1024, 768, nil, rng)
//	s.Seed()
//	s.PointerDown(100, 100, bloomfield.MouseButtonLeft)
//	s.PointerMove(140, 100) // far enough: one more bloom
//	s.PointerUp()
//
// Renderers only read [Session.Snapshot]. Each snapshot entry carries a
// [Handle]; handles go stale when their bloom is evicted or the field is
// replaced, so presentation work keyed by a handle can never touch the
// wrong bloom.
//
// # Variants
//
// Two presets ship embedded: "pixel" places blooms in device pixels and
// draws them flat; "world" places them on a plane in front of a perspective
// camera and maps the pointer onto it with a ray cast. A YAML file passed to
// [LoadConfig] is decoded over the chosen preset. The world preset also
// turns on render.glow, a post-process that blurs the bright parts of the
// field and adds them back over the frame.
//
// # Automated runs
//
// [LoadTestScript] reads a JSON list of press, move, release, click, drag,
// dblclick, resize, wait and screenshot steps. Attached through
// [Options].Script, the runner injects one event per frame through the
// same path as real input.
//
// [Ebitengine]: https://ebitengine.org
package bloomfield
