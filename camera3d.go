package bloomfield

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Camera3D is a perspective camera looking at Target from Position. The
// matrices are built from the current fields on every call; nothing is cached.
type Camera3D struct {
	Position Vec3
	Target   Vec3
	Up       Vec3
	FOV      float64 // vertical field of view, degrees
	Near     float64
	Far      float64
}

// NewCamera3D returns a camera at cfg.Position looking at the origin with +Y
// up.
func NewCamera3D(cfg CameraConfig) *Camera3D {
	return &Camera3D{
		Position: cfg.Position,
		Up:       Vec3{Y: 1},
		FOV:      cfg.FOV,
		Near:     cfg.Near,
		Far:      cfg.Far,
	}
}

// projection returns the OpenGL-style perspective matrix for aspect w/h.
func (c *Camera3D) projection(aspect float64) *mat.Dense {
	f := 1.0 / math.Tan(c.FOV*math.Pi/180/2)
	n, fr := c.Near, c.Far
	return mat.NewDense(4, 4, []float64{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (fr + n) / (n - fr), 2 * fr * n / (n - fr),
		0, 0, -1, 0,
	})
}

// view returns the look-at matrix.
func (c *Camera3D) view() *mat.Dense {
	z := c.Position.Sub(c.Target).Normalize()
	x := c.Up.Cross(z).Normalize()
	y := z.Cross(x)
	e := c.Position
	return mat.NewDense(4, 4, []float64{
		x.X, x.Y, x.Z, -x.Dot(e),
		y.X, y.Y, y.Z, -y.Dot(e),
		z.X, z.Y, z.Z, -z.Dot(e),
		0, 0, 0, 1,
	})
}

// valid reports whether the camera describes a usable perspective: a
// positive field of view below 180°, ordered clip planes, a look direction,
// and an up vector not parallel to it.
func (c *Camera3D) valid() bool {
	if !(c.FOV > 0 && c.FOV < 180) || !(c.Near > 0 && c.Far > c.Near) {
		return false
	}
	look := c.Target.Sub(c.Position)
	if look.Len() < 1e-12 {
		return false
	}
	return c.Up.Cross(look.Normalize()).Len() > 1e-12
}

// ViewProjection returns projection * view for a viewport of w x h.
func (c *Camera3D) ViewProjection(w, h float64) *mat.Dense {
	var vp mat.Dense
	vp.Mul(c.projection(w/h), c.view())
	return &vp
}

// transformHomogeneous applies m to (p, 1) and returns the result before the
// perspective divide.
func transformHomogeneous(m mat.Matrix, p Vec3) (Vec3, float64) {
	in := mat.NewVecDense(4, []float64{p.X, p.Y, p.Z, 1})
	var out mat.VecDense
	out.MulVec(m, in)
	return Vec3{out.AtVec(0), out.AtVec(1), out.AtVec(2)}, out.AtVec(3)
}

// Ray returns the world-space ray through device pixel (sx, sy) on a w x h
// viewport. ok is false when the view-projection matrix cannot be inverted.
func (c *Camera3D) Ray(sx, sy, w, h float64) (origin, dir Vec3, ok bool) {
	if w <= 0 || h <= 0 || !c.valid() {
		return Vec3{}, Vec3{}, false
	}
	var inv mat.Dense
	if err := inv.Inverse(c.ViewProjection(w, h)); err != nil {
		return Vec3{}, Vec3{}, false
	}
	// Screen Y grows downward, NDC Y upward.
	nx := sx/w*2 - 1
	ny := -(sy/h*2 - 1)

	near, nw := transformHomogeneous(&inv, Vec3{nx, ny, -1})
	far, fw := transformHomogeneous(&inv, Vec3{nx, ny, 1})
	if math.Abs(nw) < 1e-12 || math.Abs(fw) < 1e-12 {
		return Vec3{}, Vec3{}, false
	}
	near = near.Mul(1 / nw)
	far = far.Mul(1 / fw)
	dir = far.Sub(near).Normalize()
	if !finite(near) || !finite(dir) || dir.Len() == 0 {
		return Vec3{}, Vec3{}, false
	}
	return near, dir, true
}

// Project maps a world point to device pixels. ok is false for points at or
// behind the camera plane.
func (c *Camera3D) Project(p Vec3, w, h float64) (sx, sy float64, ok bool) {
	if w <= 0 || h <= 0 || !c.valid() {
		return 0, 0, false
	}
	clip, cw := transformHomogeneous(c.ViewProjection(w, h), p)
	if cw <= 1e-12 {
		return 0, 0, false
	}
	nx, ny := clip.X/cw, clip.Y/cw
	return (nx + 1) / 2 * w, (1 - ny) / 2 * h, true
}

// PixelsPerUnit returns how many device pixels one world unit spans at
// depth p on a viewport of height h.
func (c *Camera3D) PixelsPerUnit(p Vec3, h float64) float64 {
	d := c.Position.Sub(p).Len()
	if d == 0 {
		return 0
	}
	visible := 2 * d * math.Tan(c.FOV*math.Pi/180/2)
	return h / visible
}

func finite(v Vec3) bool {
	for _, f := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
