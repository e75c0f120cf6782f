package bloomfield

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Petal geometry in glyph units. A petal is a leaf of two mirrored cubic
// Bézier arcs from the base (0, 0) to the tip (0, height).
const (
	petalWidth       = 0.5
	petalHeight      = 1.8
	petalHeightDense = 1.5 // used when a bloom has more than 3 petals
	petalStretchX    = 0.7
	petalStretchY    = 1.3
	petalSegments    = 12
	discSegments     = 16
	maxBatchVertices = math.MaxUint16 - 64
)

// petalOutline samples the closed leaf outline, base first, stretched by
// the slender petal factors.
func petalOutline(width, height float64, segs int) []Vec2 {
	if segs < 1 {
		segs = 1
	}
	right := [4]Vec2{{0, 0}, {width, height / 3}, {width, height * 2 / 3}, {0, height}}
	left := [4]Vec2{{0, height}, {-width, height * 2 / 3}, {-width, height / 3}, {0, 0}}

	pts := make([]Vec2, 0, 2*segs)
	pts = appendCubic(pts, right, segs)
	pts = appendCubic(pts, left, segs)
	// The final point repeats the base.
	pts = pts[:len(pts)-1]
	for i := range pts {
		pts[i].X *= petalStretchX
		pts[i].Y *= petalStretchY
	}
	return pts
}

// appendCubic samples a cubic Bézier at segs+1 points, skipping t=0 when dst
// already ends at the start point.
func appendCubic(dst []Vec2, c [4]Vec2, segs int) []Vec2 {
	a, c1, c2, b := c[0], c[1], c[2], c[3]
	start := 0
	if len(dst) > 0 {
		start = 1
	}
	for i := start; i <= segs; i++ {
		t := float64(i) / float64(segs)
		u := 1 - t
		u2 := u * u
		t2 := t * t
		dst = append(dst, Vec2{
			X: u2*u*a.X + 3*u2*t*c1.X + 3*u*t2*c2.X + t2*t*b.X,
			Y: u2*u*a.Y + 3*u2*t*c1.Y + 3*u*t2*c2.Y + t2*t*b.Y,
		})
	}
	return dst
}

// --- White pixel singleton (the game loop is single-threaded) ---

var whitePixelImage *ebiten.Image

// ensureWhitePixel returns a lazily-initialized 1x1 white pixel image used
// as the source for untextured triangles.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return whitePixelImage
}

// triBatch accumulates untextured triangles and submits them with as few
// DrawTriangles calls as the 16-bit index range allows. Buffers grow to a
// high-water mark and are reused across frames.
type triBatch struct {
	verts     []ebiten.Vertex
	inds      []uint16
	drawCalls int
}

func vertex(x, y float64, c Color) ebiten.Vertex {
	return ebiten.Vertex{
		DstX:   float32(x),
		DstY:   float32(y),
		SrcX:   0.5,
		SrcY:   0.5,
		ColorR: float32(c.R * c.A),
		ColorG: float32(c.G * c.A),
		ColorB: float32(c.B * c.A),
		ColorA: float32(c.A),
	}
}

// reserve flushes first when n more vertices would overflow the index type.
func (b *triBatch) reserve(dst *ebiten.Image, n int) {
	if len(b.verts)+n > maxBatchVertices {
		b.flush(dst)
	}
}

// fan appends a fan-triangulated polygon around hub, transformed by m.
func (b *triBatch) fan(dst *ebiten.Image, hub Vec2, outline []Vec2, m affine, c Color) {
	n := len(outline)
	if n < 2 {
		return
	}
	b.reserve(dst, n+1)
	base := uint16(len(b.verts))
	hx, hy := m.apply(hub.X, hub.Y)
	b.verts = append(b.verts, vertex(hx, hy, c))
	for _, p := range outline {
		x, y := m.apply(p.X, p.Y)
		b.verts = append(b.verts, vertex(x, y, c))
	}
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		b.inds = append(b.inds, base, base+1+uint16(i), base+1+uint16(j))
	}
}

// disc appends a filled circle.
func (b *triBatch) disc(dst *ebiten.Image, cx, cy, r float64, c Color) {
	if r <= 0 {
		return
	}
	var ring [discSegments]Vec2
	for i := range ring {
		sin, cos := math.Sincos(2 * math.Pi * float64(i) / discSegments)
		ring[i] = Vec2{cos, sin}
	}
	b.fan(dst, Vec2{}, ring[:], affine{r, 0, 0, r, cx, cy}, c)
}

// gradient appends a full-rect quad shading from top to bottom.
func (b *triBatch) gradient(dst *ebiten.Image, w, h float64, top, bottom Color) {
	b.reserve(dst, 4)
	base := uint16(len(b.verts))
	b.verts = append(b.verts,
		vertex(0, 0, top), vertex(w, 0, top),
		vertex(w, h, bottom), vertex(0, h, bottom),
	)
	b.inds = append(b.inds, base, base+1, base+2, base, base+2, base+3)
}

// flush submits the pending triangles.
func (b *triBatch) flush(dst *ebiten.Image) {
	if len(b.inds) == 0 {
		return
	}
	if dst != nil {
		dst.DrawTriangles(b.verts, b.inds, ensureWhitePixel(), &ebiten.DrawTrianglesOptions{})
	}
	b.drawCalls++
	b.verts = b.verts[:0]
	b.inds = b.inds[:0]
}

// reset clears the per-frame counters.
func (b *triBatch) reset() {
	b.verts = b.verts[:0]
	b.inds = b.inds[:0]
	b.drawCalls = 0
}
