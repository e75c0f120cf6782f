package bloomfield

import (
	"math"
	"testing"
)

func testGenerator(t *testing.T, v Variant, seed uint64) (*PatternGenerator, Config) {
	t.Helper()
	f, cfg := testFactory(t, v, seed)
	return NewPatternGenerator(cfg.Pattern, f, cfg.Camera.PlaneZ), cfg
}

func TestSkeletonIsDeterministic(t *testing.T) {
	a, _ := testGenerator(t, VariantPixel, 1)
	b, _ := testGenerator(t, VariantPixel, 99)
	pa := a.Skeleton(1024, 768)
	pb := b.Skeleton(1024, 768)
	if len(pa) == 0 || len(pa) != len(pb) {
		t.Fatalf("skeleton sizes %d and %d", len(pa), len(pb))
	}
	for i := range pa {
		if pa[i] != pb[i] {
			t.Fatalf("point %d differs: %+v vs %+v", i, pa[i], pb[i])
		}
	}
}

func TestSkeletonOuterLayersAreDenser(t *testing.T) {
	g, cfg := testGenerator(t, VariantPixel, 1)
	counts := make([]int, cfg.Pattern.Layers+1)
	for _, p := range g.Skeleton(1024, 768) {
		counts[int(p.Layer)]++
	}
	for k := 2; k <= cfg.Pattern.Layers; k++ {
		if counts[k] <= counts[k-1] {
			t.Errorf("layer %d has %d points, layer %d has %d", k, counts[k], k-1, counts[k-1])
		}
	}
	// Layer k is sampled every AngleStep/k, so it holds about 2πk/AngleStep points.
	want := 2 * math.Pi / cfg.Pattern.AngleStep
	if math.Abs(float64(counts[1])-want) > 1 {
		t.Errorf("layer 1 has %d points, want about %f", counts[1], want)
	}
}

func TestSkeletonCenteredAndSized(t *testing.T) {
	g, cfg := testGenerator(t, VariantPixel, 1)
	w, h := 1024.0, 768.0
	R := g.Radius(w, h)
	if !approxEqual(R, 0.4*768, epsilon) {
		t.Fatalf("Radius = %f", R)
	}
	pc := cfg.Pattern
	for _, p := range g.Skeleton(w, h) {
		d := math.Hypot(p.Position.X-w/2, p.Position.Y-h/2)
		base := R * p.Layer * pc.LayerSpacing
		// The polygon warp stretches by at most 1/cos(π/gon).
		lo := (base - pc.Wobble*R) * math.Cos(math.Pi/float64(pc.Gon))
		hi := (base + pc.Wobble*R) / math.Cos(math.Pi/float64(pc.Gon))
		if d < lo-1e-6 || d > hi+1e-6 {
			t.Fatalf("point %+v at distance %f, want in [%f,%f]", p, d, lo, hi)
		}
	}
}

func TestSkeletonWorldOrigin(t *testing.T) {
	g, _ := testGenerator(t, VariantWorld, 1)
	var sx, sy float64
	pts := g.Skeleton(1024, 768)
	for _, p := range pts {
		sx += p.Position.X
		sy += p.Position.Y
		if p.Position.Z != 0 {
			t.Fatalf("point off the plane: %+v", p)
		}
	}
	n := float64(len(pts))
	// Radius in world units is tiny next to the pixel size of the viewport.
	if math.Abs(sx/n) > 2 || math.Abs(sy/n) > 2 {
		t.Errorf("centroid = (%f,%f), want near the origin", sx/n, sy/n)
	}
}

func TestSkeletonDegenerateViewport(t *testing.T) {
	g, _ := testGenerator(t, VariantPixel, 1)
	for _, size := range [][2]float64{{0, 768}, {1024, 0}, {-5, -5}} {
		if pts := g.Skeleton(size[0], size[1]); pts != nil {
			t.Errorf("Skeleton(%v) = %d points, want none", size, len(pts))
		}
		if bl := g.Generate(size[0], size[1], 100, newTestRand(1)); len(bl) != 0 {
			t.Errorf("Generate(%v) = %d blooms, want none", size, len(bl))
		}
	}
}

func TestGenerateCount(t *testing.T) {
	tests := []struct {
		name  string
		count int
		want  int
	}{
		{"zero", 0, 0},
		{"negative", -3, 0},
		{"some", 50, 50},
		{"preset", 100, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := testGenerator(t, VariantPixel, 7)
			if got := len(g.Generate(1024, 768, tt.count, newTestRand(7))); got != tt.want {
				t.Errorf("Generate(%d) = %d blooms, want %d", tt.count, got, tt.want)
			}
		})
	}
}

func TestGenerateCappedByPointCount(t *testing.T) {
	g, cfg := testGenerator(t, VariantWorld, 7)
	avail := len(g.Skeleton(1024, 768)) + cfg.Pattern.InteriorPoints
	got := len(g.Generate(1024, 768, avail+1000, newTestRand(7)))
	if got != avail {
		t.Errorf("Generate(huge) = %d blooms, want all %d points", got, avail)
	}
}

func TestGenerateClipsToViewport(t *testing.T) {
	g, _ := testGenerator(t, VariantPixel, 3)
	// A wide, short viewport pushes outer rings off the top and bottom.
	w, h := 2000.0, 300.0
	bounds := Rect{Width: w, Height: h}
	for _, b := range g.Generate(w, h, 10000, newTestRand(3)) {
		if !bounds.Contains(b.Position.X, b.Position.Y) {
			t.Fatalf("bloom at %+v outside the viewport", b.Position)
		}
	}
}

func TestGenerateDiffersBetweenSeeds(t *testing.T) {
	const count = 200
	ga, _ := testGenerator(t, VariantWorld, 1)
	gb, _ := testGenerator(t, VariantWorld, 2)
	a := ga.Generate(1024, 768, count, newTestRand(1))
	b := gb.Generate(1024, 768, count, newTestRand(2))
	if len(a) != count || len(b) != count {
		t.Fatalf("len = %d, %d, want %d each", len(a), len(b), count)
	}
	var samePos, sameScale, sameRot, sameColor int
	for i := range a {
		if a[i].Position == b[i].Position {
			samePos++
		}
		if a[i].Scale == b[i].Scale {
			sameScale++
		}
		if a[i].Rotation == b[i].Rotation {
			sameRot++
		}
		if a[i].Color == b[i].Color {
			sameColor++
		}
	}
	if samePos == count {
		t.Error("two seeds produced the same layout")
	}
	if sameScale == count || sameRot == count || sameColor == count {
		t.Errorf("cosmetics match across seeds: scale %d, rotation %d, color %d of %d",
			sameScale, sameRot, sameColor, count)
	}
}

func TestInteriorPointsSurviveClipping(t *testing.T) {
	g, cfg := testGenerator(t, VariantPixel, 4)
	// Spread the interior far past a short viewport.
	cfg.Pattern.InteriorSpread = 10
	g = NewPatternGenerator(cfg.Pattern, g.factory, 0)

	w, h := 2000.0, 300.0
	bounds := Rect{Width: w, Height: h}
	rings := 0
	for _, p := range g.Skeleton(w, h) {
		if bounds.Contains(p.Position.X, p.Position.Y) {
			rings++
		}
	}
	pts := g.points(w, h, newTestRand(4))
	if want := rings + cfg.Pattern.InteriorPoints; len(pts) != want {
		t.Fatalf("points = %d, want %d ring points plus %d interior", len(pts), rings, cfg.Pattern.InteriorPoints)
	}
	outside := 0
	for _, p := range pts[rings:] {
		if !bounds.Contains(p.Position.X, p.Position.Y) {
			outside++
		}
	}
	if outside == 0 {
		t.Error("no interior point fell outside the viewport; the spread is too small to test")
	}
}

func TestGenerateSeededBloomsCarryLayer(t *testing.T) {
	g, cfg := testGenerator(t, VariantPixel, 11)
	for _, b := range g.Generate(1024, 768, 100, newTestRand(11)) {
		if b.Layer <= 0 || b.Layer > float64(cfg.Pattern.Layers) {
			t.Fatalf("seeded bloom layer = %v", b.Layer)
		}
		checkCosmetics(t, b, cfg.Bloom, g.factory.palette)
	}
}

func TestShufflePointsIsPermutation(t *testing.T) {
	pts := make([]PatternPoint, 50)
	for i := range pts {
		pts[i].Angle = float64(i)
	}
	shufflePoints(pts, newTestRand(5))
	seen := map[float64]bool{}
	moved := false
	for i, p := range pts {
		seen[p.Angle] = true
		if p.Angle != float64(i) {
			moved = true
		}
	}
	if len(seen) != 50 || !moved {
		t.Errorf("shuffle lost points or did nothing: %d unique, moved=%v", len(seen), moved)
	}
}
