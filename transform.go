package bloomfield

import "math"

// affine is a 2D affine matrix [a, b, c, d, tx, ty]:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
type affine [6]float64

// identityAffine is the identity affine matrix.
var identityAffine = affine{1, 0, 0, 1, 0, 0}

// glyphTransform composes Scale -> Rotate -> Translate(x, y), the placement
// of one glyph centered on its bloom position.
func glyphTransform(x, y, scale, rotation float64) affine {
	sin, cos := math.Sincos(rotation)
	return affine{cos * scale, sin * scale, -sin * scale, cos * scale, x, y}
}

// invertAffine computes the inverse of a 2D affine matrix. ok is false when
// the matrix is singular (determinant ≈ 0).
func invertAffine(m affine) (inv affine, ok bool) {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityAffine, false
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return affine{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}, true
}

// apply transforms a point.
func (m affine) apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}
