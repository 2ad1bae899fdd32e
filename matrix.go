package arbor

import (
	"errors"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// ErrDegenerateMatrix is returned by Invert and ApplyInverse when the
// matrix determinant is zero (for example after Scale(0, 0)). The matrix
// is left unchanged; callers that cannot recover should treat the node's
// coordinate space as collapsed.
var ErrDegenerateMatrix = errors.New("arbor: degenerate matrix (zero determinant)")

// Matrix is a 2D affine transform stored as six scalars:
//
//	| A  C  TX |
//	| B  D  TY |
//	| 0  0   1 |
//
// mapping [x', y'] = [A·x + C·y + TX, B·x + D·y + TY]. Matrices are plain
// value types; a Transform owns exactly two (local and world) for its whole
// lifetime and mutates them in place to keep the per-frame path
// allocation-free.
type Matrix struct {
	A, B, C, D, TX, TY float64
}

// IdentityMatrix returns the identity transform.
func IdentityMatrix() Matrix {
	return Matrix{A: 1, D: 1}
}

// Identity resets this matrix to the identity transform.
func (m *Matrix) Identity() {
	*m = Matrix{A: 1, D: 1}
}

// IsIdentity reports whether this matrix is exactly the identity.
func (m *Matrix) IsIdentity() bool {
	return m.A == 1 && m.B == 0 && m.C == 0 && m.D == 1 && m.TX == 0 && m.TY == 0
}

// Clone returns a copy of this matrix.
func (m *Matrix) Clone() Matrix {
	return *m
}

// CopyFrom assigns this matrix's fields from other.
func (m *Matrix) CopyFrom(other *Matrix) {
	*m = *other
}

// CopyTo writes this matrix's fields into other.
func (m *Matrix) CopyTo(other *Matrix) {
	*other = *m
}

// Apply transforms a point by this matrix.
func (m *Matrix) Apply(p Point) Point {
	return Point{
		X: m.A*p.X + m.C*p.Y + m.TX,
		Y: m.B*p.X + m.D*p.Y + m.TY,
	}
}

// ApplyInverse transforms a point by the inverse of this matrix without
// mutating it. Returns ErrDegenerateMatrix when the determinant is zero.
func (m *Matrix) ApplyInverse(p Point) (Point, error) {
	n := m.A*m.D - m.B*m.C
	if n == 0 {
		return Point{}, ErrDegenerateMatrix
	}
	id := 1 / n
	return Point{
		X: m.D*id*p.X - m.C*id*p.Y + (m.TY*m.C-m.TX*m.D)*id,
		Y: m.A*id*p.Y - m.B*id*p.X + (m.TX*m.B-m.TY*m.A)*id,
	}, nil
}

// Translate adds an offset to the translation components. In place.
func (m *Matrix) Translate(x, y float64) {
	m.TX += x
	m.TY += y
}

// Scale multiplies every column by the given factors, including the
// translation column. This scales about the origin with whatever
// translation the matrix already carries; it is a field-wise operation,
// not a general post-multiplication.
func (m *Matrix) Scale(x, y float64) {
	m.A *= x
	m.B *= y
	m.C *= x
	m.D *= y
	m.TX *= x
	m.TY *= y
}

// Rotate composes a rotation by angle (radians) onto this matrix.
// All six fields update simultaneously from their pre-rotation values.
func (m *Matrix) Rotate(angle float64) {
	sin, cos := math.Sincos(angle)

	a1 := m.A
	c1 := m.C
	tx1 := m.TX

	m.A = a1*cos - m.B*sin
	m.B = a1*sin + m.B*cos
	m.C = c1*cos - m.D*sin
	m.D = c1*sin + m.D*cos
	m.TX = tx1*cos - m.TY*sin
	m.TY = tx1*sin + m.TY*cos
}

// Append composes other onto this matrix as the inner transform: other
// applies to points first, this matrix's existing transform second
// (this = this · other). Folding a child's local matrix onto a parent's
// world matrix is therefore
//
//	wt.CopyFrom(parentWorld)
//	wt.Append(local)
//
// which is exactly the composition UpdateTransform inlines.
func (m *Matrix) Append(other *Matrix) {
	a1 := m.A
	b1 := m.B
	c1 := m.C
	d1 := m.D

	m.A = other.A*a1 + other.B*c1
	m.B = other.A*b1 + other.B*d1
	m.C = other.C*a1 + other.D*c1
	m.D = other.C*b1 + other.D*d1
	m.TX = other.TX*a1 + other.TY*c1 + m.TX
	m.TY = other.TX*b1 + other.TY*d1 + m.TY
}

// Prepend composes other onto this matrix as the outer transform: this
// matrix's existing transform applies first, other second
// (this = other · this). Typical use is folding a projection or view
// matrix onto an already-computed world matrix. The linear part is only
// touched when other's linear part is not identity; the translation
// always updates.
func (m *Matrix) Prepend(other *Matrix) {
	tx1 := m.TX

	if other.A != 1 || other.B != 0 || other.C != 0 || other.D != 1 {
		a1 := m.A
		c1 := m.C
		m.A = a1*other.A + m.B*other.C
		m.B = a1*other.B + m.B*other.D
		m.C = c1*other.A + m.D*other.C
		m.D = c1*other.B + m.D*other.D
	}

	m.TX = tx1*other.A + m.TY*other.C + other.TX
	m.TY = tx1*other.B + m.TY*other.D + other.TY
}

// SetTransform builds the matrix from decomposed parameters: the pivot
// point (in local space) maps to (x, y) after rotation, skew, and scale.
// This is the inverse of Decompose.
func (m *Matrix) SetTransform(x, y, pivotX, pivotY, scaleX, scaleY, rotation, skewX, skewY float64) {
	m.A = math.Cos(rotation+skewY) * scaleX
	m.B = math.Sin(rotation+skewY) * scaleX
	m.C = -math.Sin(rotation-skewX) * scaleY
	m.D = math.Cos(rotation-skewX) * scaleY

	m.TX = x - (pivotX*m.A + pivotY*m.C)
	m.TY = y - (pivotX*m.B + pivotY*m.D)
}

// skewEpsilon is the branch threshold Decompose uses to decide whether a
// matrix carries independent skew. Changing it changes which rotation/skew
// split observers see for near-threshold matrices.
const skewEpsilon = 1e-5

// Decompose recovers position, rotation, skew, and scale from this matrix
// and writes them into t's fields. The split is inherently ambiguous: when
// skewX and skewY cancel (within skewEpsilon of 0 or 2π) the matrix is
// treated as purely rotated and both skew components are zeroed; otherwise
// rotation is zeroed and the skew components carry the full angles.
// Recovered scales are always non-negative — reflection is absorbed into
// the rotation/skew branch. The pivot is left untouched.
func (m *Matrix) Decompose(t *Transform) {
	skewX := -math.Atan2(-m.C, m.D)
	skewY := math.Atan2(m.B, m.A)

	delta := math.Abs(skewX + skewY)

	if delta < skewEpsilon || math.Abs(2*math.Pi-delta) < skewEpsilon {
		rotation := skewY
		if m.A < 0 && m.D >= 0 {
			if rotation <= 0 {
				rotation += math.Pi
			} else {
				rotation -= math.Pi
			}
		}
		t.SetRotation(rotation)
		t.Skew.Set(0, 0)
	} else {
		t.SetRotation(0)
		t.Skew.Set(skewX, skewY)
	}

	t.Scale.Set(
		math.Sqrt(m.A*m.A+m.B*m.B),
		math.Sqrt(m.C*m.C+m.D*m.D),
	)
	t.Position.Set(m.TX, m.TY)
}

// Invert replaces this matrix with its inverse. Returns
// ErrDegenerateMatrix (leaving the matrix unchanged) when the determinant
// is zero.
func (m *Matrix) Invert() error {
	a1 := m.A
	b1 := m.B
	c1 := m.C
	d1 := m.D
	tx1 := m.TX
	n := a1*d1 - b1*c1
	if n == 0 {
		return ErrDegenerateMatrix
	}

	m.A = d1 / n
	m.B = -b1 / n
	m.C = -c1 / n
	m.D = a1 / n
	m.TX = (c1*m.TY - d1*tx1) / n
	m.TY = -(a1*m.TY - b1*tx1) / n
	return nil
}

// ToArray writes the 3x3 homogeneous form of this matrix into a 9-element
// float32 slice for GPU uniform upload. With transpose false the layout is
// row-major [A C TX / B D TY / 0 0 1]; with transpose true it is
// column-major. When out is non-nil it must have at least 9 elements and
// is written in place (reuse a scratch slice to keep uniform upload
// allocation-free); when nil a fresh slice is allocated.
func (m *Matrix) ToArray(transpose bool, out []float32) []float32 {
	if out == nil {
		out = make([]float32, 9)
	} else if len(out) < 9 {
		panic("arbor: Matrix.ToArray out buffer needs at least 9 elements")
	}

	if transpose {
		out[0] = float32(m.A)
		out[1] = float32(m.B)
		out[2] = 0
		out[3] = float32(m.C)
		out[4] = float32(m.D)
		out[5] = 0
		out[6] = float32(m.TX)
		out[7] = float32(m.TY)
		out[8] = 1
	} else {
		out[0] = float32(m.A)
		out[1] = float32(m.C)
		out[2] = float32(m.TX)
		out[3] = float32(m.B)
		out[4] = float32(m.D)
		out[5] = float32(m.TY)
		out[6] = 0
		out[7] = 0
		out[8] = 1
	}
	return out
}

// GeoM converts this matrix to an ebiten.GeoM for DrawImage submission.
func (m *Matrix) GeoM() ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m.A)
	g.SetElement(0, 1, m.C)
	g.SetElement(0, 2, m.TX)
	g.SetElement(1, 0, m.B)
	g.SetElement(1, 1, m.D)
	g.SetElement(1, 2, m.TY)
	return g
}
