package bloomfield

import "math"

// Camera2D maps between device pixels and pixel-space scene coordinates:
// position, zoom, and rotation around the viewport center. The view matrix
// is rebuilt on every call, so fields can be changed freely between calls.
type Camera2D struct {
	// X and Y are the scene position shown at the viewport center.
	X, Y float64
	// Zoom is the scale factor (1.0 = no zoom, >1 = zoom in, <1 = zoom out).
	Zoom float64
	// Rotation is the camera rotation in radians (clockwise).
	Rotation float64
	// Viewport is the screen-space rectangle this camera renders into.
	Viewport Rect
}

// NewCamera2D returns a camera whose view matrix is the identity for the
// given viewport: scene coordinates equal device pixels.
func NewCamera2D(viewport Rect) *Camera2D {
	return &Camera2D{
		X:        viewport.X + viewport.Width/2,
		Y:        viewport.Y + viewport.Height/2,
		Zoom:     1.0,
		Viewport: viewport,
	}
}

// Resize keeps the identity mapping for a new viewport size.
func (c *Camera2D) Resize(w, h float64) {
	c.Viewport.Width, c.Viewport.Height = w, h
	c.X = c.Viewport.X + w/2
	c.Y = c.Viewport.Y + h/2
}

// viewMatrix computes
//
//	Translate(cx, cy) * Scale(zoom) * Rotate(-rotation) * Translate(-X, -Y)
//
// where cx, cy = viewport center.
func (c *Camera2D) viewMatrix() affine {
	cx := c.Viewport.X + c.Viewport.Width/2
	cy := c.Viewport.Y + c.Viewport.Height/2

	sin, cos := math.Sincos(-c.Rotation)
	z := c.Zoom

	a := z * cos
	b := -z * sin
	cc := z * sin
	d := z * cos
	tx := cx + z*(-cos*c.X+sin*c.Y)
	ty := cy + z*(-sin*c.X-cos*c.Y)

	return affine{a, cc, b, d, tx, ty}
}

// WorldToScreen converts scene coordinates to device pixels.
func (c *Camera2D) WorldToScreen(wx, wy float64) (sx, sy float64) {
	return c.viewMatrix().apply(wx, wy)
}

// ScreenToWorld converts device pixels to scene coordinates. ok is false
// when the camera is degenerate (zero zoom).
func (c *Camera2D) ScreenToWorld(sx, sy float64) (wx, wy float64, ok bool) {
	inv, ok := invertAffine(c.viewMatrix())
	if !ok {
		return 0, 0, false
	}
	wx, wy = inv.apply(sx, sy)
	return wx, wy, true
}
