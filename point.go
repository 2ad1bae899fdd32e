package arbor

// Point is a 2D coordinate pair with value semantics. Two points are equal
// when both components match; compare with ==.
type Point struct {
	X, Y float64
}

// Set assigns both components.
func (p *Point) Set(x, y float64) {
	p.X = x
	p.Y = y
}

// CopyFrom assigns this point's components from other.
func (p *Point) CopyFrom(other Point) {
	p.X = other.X
	p.Y = other.Y
}

// CopyTo writes this point's components into other.
func (p Point) CopyTo(other *Point) {
	other.X = p.X
	other.Y = p.Y
}

// ObservablePoint is a mutable 2D coordinate pair that notifies its owner
// when its value actually changes. A Transform uses one for each of
// position, scale, pivot, and skew; the callback bumps the Transform's
// local version counter.
//
// The callback fires at most once per mutating call, and only when at
// least one component differs from its previous value. Writes that leave
// the point unchanged never fire, so redundant assignments (a tween
// emitting the same value twice, a layout pass re-applying a position)
// cost nothing downstream.
type ObservablePoint struct {
	x, y     float64
	onChange func()
}

// NewObservablePoint creates an ObservablePoint with the given change
// callback and initial coordinates. Panics if onChange is nil: an
// unobserved ObservablePoint is a caller bug, use Point instead.
func NewObservablePoint(onChange func(), x, y float64) *ObservablePoint {
	if onChange == nil {
		panic("arbor: ObservablePoint requires a non-nil onChange callback")
	}
	return &ObservablePoint{x: x, y: y, onChange: onChange}
}

// X returns the x component.
func (p *ObservablePoint) X() float64 {
	return p.x
}

// Y returns the y component.
func (p *ObservablePoint) Y() float64 {
	return p.y
}

// Point returns the current value as a plain Point.
func (p *ObservablePoint) Point() Point {
	return Point{p.x, p.y}
}

// Set assigns both components, firing the callback once if either changed.
func (p *ObservablePoint) Set(x, y float64) {
	if p.x == x && p.y == y {
		return
	}
	p.x = x
	p.y = y
	p.onChange()
}

// SetScalar assigns v to both components. Equivalent to Set(v, v); handy
// for uniform scale.
func (p *ObservablePoint) SetScalar(v float64) {
	p.Set(v, v)
}

// SetX assigns the x component, firing the callback if it changed.
func (p *ObservablePoint) SetX(x float64) {
	if p.x == x {
		return
	}
	p.x = x
	p.onChange()
}

// SetY assigns the y component, firing the callback if it changed.
func (p *ObservablePoint) SetY(y float64) {
	if p.y == y {
		return
	}
	p.y = y
	p.onChange()
}

// CopyFrom assigns this point's components from a plain Point, with the
// same change-suppression rule as Set.
func (p *ObservablePoint) CopyFrom(other Point) {
	p.Set(other.X, other.Y)
}

// CopyTo writes the current value into a plain Point.
func (p *ObservablePoint) CopyTo(other *Point) {
	other.X = p.x
	other.Y = p.y
}
