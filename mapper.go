package bloomfield

import "math"

// ViewportInfo reports the current viewport size in device pixels. It is
// queried on every mapping call.
type ViewportInfo interface {
	Size() (w, h float64)
}

// Viewport is a mutable ViewportInfo.
type Viewport struct {
	W, H float64
}

// Size implements ViewportInfo.
func (v *Viewport) Size() (float64, float64) { return v.W, v.H }

// CoordinateMapper converts device pixels to the scene space blooms live in,
// and back. Implementations read the current camera on every call.
type CoordinateMapper interface {
	// ToScene maps a device pixel. ok is false when the pixel has no scene
	// point (degenerate camera); the caller must skip the event.
	ToScene(sx, sy float64) (p Vec3, ok bool)
	// ToScreen maps a scene point back to device pixels.
	ToScreen(p Vec3) (sx, sy float64, ok bool)
}

// PixelMapper maps through an optional 2D camera. With a nil camera device
// pixels are scene coordinates.
type PixelMapper struct {
	Camera *Camera2D
}

// ToScene implements CoordinateMapper.
func (m PixelMapper) ToScene(sx, sy float64) (Vec3, bool) {
	if m.Camera == nil {
		return Vec3{X: sx, Y: sy}, true
	}
	wx, wy, ok := m.Camera.ScreenToWorld(sx, sy)
	if !ok {
		return Vec3{}, false
	}
	return Vec3{X: wx, Y: wy}, true
}

// ToScreen implements CoordinateMapper.
func (m PixelMapper) ToScreen(p Vec3) (float64, float64, bool) {
	if m.Camera == nil {
		return p.X, p.Y, true
	}
	sx, sy := m.Camera.WorldToScreen(p.X, p.Y)
	return sx, sy, true
}

// Resize keeps the camera's identity mapping for a new viewport size.
func (m PixelMapper) Resize(w, h float64) {
	if m.Camera != nil {
		m.Camera.Resize(w, h)
	}
}

// WorldMapper casts a ray through the perspective camera and intersects it
// with the bloom plane z = PlaneZ.
type WorldMapper struct {
	Camera   *Camera3D
	Viewport ViewportInfo
	PlaneZ   float64
}

// ToScene implements CoordinateMapper. Rays parallel to the plane or
// hitting it behind the camera report no intersection.
func (m WorldMapper) ToScene(sx, sy float64) (Vec3, bool) {
	w, h := m.Viewport.Size()
	origin, dir, ok := m.Camera.Ray(sx, sy, w, h)
	if !ok || math.Abs(dir.Z) < 1e-9 {
		return Vec3{}, false
	}
	t := (m.PlaneZ - origin.Z) / dir.Z
	if t < 0 {
		return Vec3{}, false
	}
	p := origin.Add(dir.Mul(t))
	p.Z = m.PlaneZ
	return p, true
}

// ToScreen implements CoordinateMapper.
func (m WorldMapper) ToScreen(p Vec3) (float64, float64, bool) {
	w, h := m.Viewport.Size()
	return m.Camera.Project(p, w, h)
}
