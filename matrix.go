package easel

import (
	"fmt"
	"math"
)

// Matrix is a 2D affine transform that also carries a multiplicative alpha
// and a shadow. The two accumulators ride along with the geometry so that a
// single walk up the parent chain yields everything needed to draw a node; they
// take no part in point transformation.
//
//	| A  C  Tx |
//	| B  D  Ty |
//	| 0  0   1 |
//
// Methods mutate the receiver. The zero value is not the identity; use
// NewMatrix or call Identity first.
type Matrix struct {
	A, B, C, D, Tx, Ty float64

	Alpha  float64
	Shadow *Shadow
}

// NewMatrix returns an identity matrix with alpha 1 and no shadow.
func NewMatrix() *Matrix {
	m := &Matrix{}
	m.Identity()
	return m
}

// Identity resets the matrix to the identity transform and clears the
// accumulators.
func (m *Matrix) Identity() *Matrix {
	m.A, m.B, m.C, m.D, m.Tx, m.Ty = 1, 0, 0, 1, 0, 0
	m.Alpha = 1
	m.Shadow = nil
	return m
}

// Prepend applies the given transform after the current one, so that
// points are mapped by m first and then by (a, b, c, d, tx, ty).
func (m *Matrix) Prepend(a, b, c, d, tx, ty float64) *Matrix {
	a1, b1, c1, d1, tx1, ty1 := m.A, m.B, m.C, m.D, m.Tx, m.Ty
	m.A = a*a1 + c*b1
	m.B = b*a1 + d*b1
	m.C = a*c1 + c*d1
	m.D = b*c1 + d*d1
	m.Tx = a*tx1 + c*ty1 + tx
	m.Ty = b*tx1 + d*ty1 + ty
	return m
}

// Append applies the given transform before the current one, so that
// points are mapped by (a, b, c, d, tx, ty) first and then by m.
func (m *Matrix) Append(a, b, c, d, tx, ty float64) *Matrix {
	a1, b1, c1, d1 := m.A, m.B, m.C, m.D
	m.A = a1*a + c1*b
	m.B = b1*a + d1*b
	m.C = a1*c + c1*d
	m.D = b1*c + d1*d
	m.Tx = a1*tx + c1*ty + m.Tx
	m.Ty = b1*tx + d1*ty + m.Ty
	return m
}

// PrependMatrix prepends the coefficients of o and its properties.
func (m *Matrix) PrependMatrix(o *Matrix) *Matrix {
	m.Prepend(o.A, o.B, o.C, o.D, o.Tx, o.Ty)
	return m.PrependProperties(o.Alpha, o.Shadow)
}

// AppendMatrix appends the coefficients of o and its properties.
func (m *Matrix) AppendMatrix(o *Matrix) *Matrix {
	m.Append(o.A, o.B, o.C, o.D, o.Tx, o.Ty)
	return m.AppendProperties(o.Alpha, o.Shadow)
}

// PrependTransform prepends the display transform
// T(x, y) · R(rotation) · S(scaleX, scaleY) · T(-regX, -regY).
// Rotation is in degrees. Walking from a node to the root and prepending each
// ancestor's transform yields the node's local-to-root matrix.
func (m *Matrix) PrependTransform(x, y, scaleX, scaleY, rotation, regX, regY float64) *Matrix {
	a, b, c, d, tx, ty := localTransform(x, y, scaleX, scaleY, rotation, regX, regY)
	return m.Prepend(a, b, c, d, tx, ty)
}

// AppendTransform appends the same display transform as PrependTransform.
func (m *Matrix) AppendTransform(x, y, scaleX, scaleY, rotation, regX, regY float64) *Matrix {
	a, b, c, d, tx, ty := localTransform(x, y, scaleX, scaleY, rotation, regX, regY)
	return m.Append(a, b, c, d, tx, ty)
}

// PrependProperties multiplies alpha in and adopts shadow only if no shadow
// has been recorded yet, so the shadow nearest the starting node wins.
func (m *Matrix) PrependProperties(alpha float64, shadow *Shadow) *Matrix {
	m.Alpha *= alpha
	if m.Shadow == nil {
		m.Shadow = shadow
	}
	return m
}

// AppendProperties multiplies alpha in and replaces the shadow when shadow
// is non-nil.
func (m *Matrix) AppendProperties(alpha float64, shadow *Shadow) *Matrix {
	m.Alpha *= alpha
	if shadow != nil {
		m.Shadow = shadow
	}
	return m
}

// Invert replaces m with its inverse. A singular matrix is left untouched and
// ErrSingularMatrix is returned.
func (m *Matrix) Invert() error {
	det := m.A*m.D - m.B*m.C
	if det == 0 || math.IsNaN(det) {
		return ErrSingularMatrix
	}
	a1, b1, c1, d1, tx1, ty1 := m.A, m.B, m.C, m.D, m.Tx, m.Ty
	m.A = d1 / det
	m.B = -b1 / det
	m.C = -c1 / det
	m.D = a1 / det
	m.Tx = (c1*ty1 - d1*tx1) / det
	m.Ty = -(a1*ty1 - b1*tx1) / det
	return nil
}

// TransformPoint maps (x, y) through the matrix.
func (m *Matrix) TransformPoint(x, y float64) Point {
	return Point{
		X: m.A*x + m.C*y + m.Tx,
		Y: m.B*x + m.D*y + m.Ty,
	}
}

// IsIdentity reports whether the coefficients are the identity. The
// accumulators are not considered.
func (m *Matrix) IsIdentity() bool {
	return m.A == 1 && m.B == 0 && m.C == 0 && m.D == 1 && m.Tx == 0 && m.Ty == 0
}

// Clone returns a copy of m.
func (m *Matrix) Clone() *Matrix {
	c := *m
	return &c
}

// CopyFrom overwrites m with o, accumulators included.
func (m *Matrix) CopyFrom(o *Matrix) *Matrix {
	*m = *o
	return m
}

func (m *Matrix) String() string {
	return fmt.Sprintf("[Matrix (a=%g b=%g c=%g d=%g tx=%g ty=%g alpha=%g)]",
		m.A, m.B, m.C, m.D, m.Tx, m.Ty, m.Alpha)
}

// localTransform computes T(x, y) · R(rotation) · S(scaleX, scaleY) · T(-regX, -regY).
func localTransform(x, y, scaleX, scaleY, rotation, regX, regY float64) (a, b, c, d, tx, ty float64) {
	sin, cos := sincosDeg(rotation)
	a = cos * scaleX
	b = sin * scaleX
	c = -sin * scaleY
	d = cos * scaleY
	tx = x - (a*regX + c*regY)
	ty = y - (b*regX + d*regY)
	return
}

// sincosDeg returns exact values for quarter turns so that axis-aligned
// content stays pixel aligned.
func sincosDeg(deg float64) (sin, cos float64) {
	r := math.Mod(deg, 360)
	if r < 0 {
		r += 360
	}
	switch r {
	case 0:
		return 0, 1
	case 90:
		return 1, 0
	case 180:
		return 0, -1
	case 270:
		return -1, 0
	}
	return math.Sincos(deg * math.Pi / 180)
}
