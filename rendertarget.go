package bloomfield

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// renderTexturePool manages reusable offscreen images keyed by power-of-two
// dimensions. Callers get a sub-image of the exact size they asked for;
// Release takes that sub-image back.
type renderTexturePool struct {
	buckets map[uint64][]*ebiten.Image
	parents map[*ebiten.Image]*ebiten.Image
}

// poolKey packs power-of-two width and height into a single uint64.
func poolKey(w, h int) uint64 {
	return uint64(w)<<32 | uint64(h)
}

// Acquire returns a cleared w x h offscreen image backed by a pooled
// power-of-two texture.
func (p *renderTexturePool) Acquire(w, h int) *ebiten.Image {
	pw := nextPowerOfTwo(w)
	ph := nextPowerOfTwo(h)
	key := poolKey(pw, ph)

	var parent *ebiten.Image
	if stack := p.buckets[key]; len(stack) > 0 {
		parent = stack[len(stack)-1]
		p.buckets[key] = stack[:len(stack)-1]
		parent.Clear()
	} else {
		parent = ebiten.NewImageWithOptions(
			image.Rect(0, 0, pw, ph),
			&ebiten.NewImageOptions{Unmanaged: true},
		)
	}
	img := parent.SubImage(image.Rect(0, 0, w, h)).(*ebiten.Image)
	if p.parents == nil {
		p.parents = make(map[*ebiten.Image]*ebiten.Image)
	}
	p.parents[img] = parent
	return img
}

// Release returns an image from Acquire to the pool. The texture is cleared
// on the next Acquire, not here.
func (p *renderTexturePool) Release(img *ebiten.Image) {
	parent, ok := p.parents[img]
	if !ok {
		return
	}
	delete(p.parents, img)
	b := parent.Bounds()
	key := poolKey(b.Dx(), b.Dy())
	if p.buckets == nil {
		p.buckets = make(map[uint64][]*ebiten.Image)
	}
	p.buckets[key] = append(p.buckets[key], parent)
}

// nextPowerOfTwo returns the smallest power of two >= n (minimum 1).
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << int(math.Ceil(math.Log2(float64(n))))
}
