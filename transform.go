package arbor

import "math"

// Transform converts position, scale, pivot, skew, and rotation into a
// local affine matrix, and composes that with a parent's world matrix into
// a world affine matrix. Both matrices are cached and only recomputed when
// an input actually changed.
//
// Staleness is tracked with monotonically increasing version counters
// instead of dirty booleans: every input mutation bumps localID, every
// world recompute bumps worldID, and UpdateTransform compares counters to
// decide what (if anything) needs recomputing. Comparing two integers per
// node per frame is the entire bookkeeping cost for an unchanged subtree;
// there is no descendant-marking walk on mutation.
type Transform struct {
	// Position is the coordinate of the pivot point in the parent's space.
	Position *ObservablePoint
	// Scale is the per-axis scale factor.
	Scale *ObservablePoint
	// Pivot is the point, in local space, about which rotation and scale
	// apply before translating to Position.
	Pivot *ObservablePoint
	// Skew is the per-axis skew angle in radians.
	Skew *ObservablePoint

	rotation float64

	// Cached trig of rotation±skew. Recomputed only when rotation or skew
	// changes, not on every matrix rebuild.
	cx, sx, cy, sy float64

	// Owned matrix slots, mutated in place for the node's whole lifetime.
	localMatrix Matrix
	worldMatrix Matrix

	localID        int // bumped by any input mutation
	currentLocalID int // localID as of the last local-matrix recompute
	parentID       int // parent's worldID as of the last world-matrix recompute
	worldID        int // bumped every time the world matrix is recomputed
}

// IdentityTransform is the parent supplied when updating a root node. It
// is shared process-wide and must never be mutated; its worldID stays 0
// forever, which is exactly what makes settled root updates free.
var IdentityTransform = NewTransform()

// NewTransform creates a Transform with identity defaults: position and
// skew at (0, 0), scale at (1, 1), rotation 0.
func NewTransform() *Transform {
	t := &Transform{
		cx: 1,
		sy: 1,
		// Impossible parent version so the first UpdateTransform always
		// computes a world matrix, even against a parent whose worldID is 0.
		parentID:    -1,
		localMatrix: IdentityMatrix(),
		worldMatrix: IdentityMatrix(),
	}
	t.Position = NewObservablePoint(t.onChange, 0, 0)
	t.Scale = NewObservablePoint(t.onChange, 1, 1)
	t.Pivot = NewObservablePoint(t.onChange, 0, 0)
	t.Skew = NewObservablePoint(t.updateSkew, 0, 0)
	return t
}

// onChange is the shared callback for Position, Scale, and Pivot.
func (t *Transform) onChange() {
	t.localID++
}

// updateSkew refreshes the cached trig scalars from rotation and skew and
// marks the local matrix stale. Callback for the Skew observable and for
// SetRotation.
func (t *Transform) updateSkew() {
	t.cx = math.Cos(t.rotation + t.Skew.y)
	t.sx = math.Sin(t.rotation + t.Skew.y)
	t.cy = -math.Sin(t.rotation - t.Skew.x)
	t.sy = math.Cos(t.rotation - t.Skew.x)
	t.localID++
}

// Rotation returns the rotation in radians.
func (t *Transform) Rotation() float64 {
	return t.rotation
}

// SetRotation sets the rotation in radians. A no-op write does not mark
// anything stale.
func (t *Transform) SetRotation(r float64) {
	if t.rotation == r {
		return
	}
	t.rotation = r
	t.updateSkew()
}

// LocalMatrix returns the owned local matrix slot. It is only guaranteed
// current immediately after UpdateTransform.
func (t *Transform) LocalMatrix() *Matrix {
	return &t.localMatrix
}

// WorldMatrix returns the owned world matrix slot. Renderers read its
// fields directly after the frame's UpdateTransform pass; the pointer is
// stable for the Transform's lifetime, so it can be captured once.
func (t *Transform) WorldMatrix() *Matrix {
	return &t.worldMatrix
}

// WorldID returns the world matrix version. It changes exactly when the
// world matrix is recomputed, so consumers can cache derived data keyed by
// WorldID and rebuild on mismatch, the same way child transforms do.
func (t *Transform) WorldID() int {
	return t.worldID
}

// MarkParentDirty forces the next UpdateTransform to recompute the world
// matrix regardless of the parent's worldID. Required after reparenting:
// a version cached against the old parent could coincidentally equal the
// new parent's current worldID.
func (t *Transform) MarkParentDirty() {
	t.parentID = -1
}

// UpdateTransform refreshes the local matrix (if any input changed) and
// the world matrix (if the local matrix or the parent's world matrix
// changed). The scene walker must call this parent-before-children once
// per frame; roots update against IdentityTransform. When nothing
// changed, the call compares two integers and returns.
//
// Passing a nil parent is a caller bug, not a root case, and panics.
func (t *Transform) UpdateTransform(parent *Transform) {
	if parent == nil {
		panic("arbor: UpdateTransform requires a parent (roots update against IdentityTransform)")
	}

	lt := &t.localMatrix

	if t.localID != t.currentLocalID {
		lt.A = t.cx * t.Scale.x
		lt.B = t.sx * t.Scale.x
		lt.C = t.cy * t.Scale.y
		lt.D = t.sy * t.Scale.y

		lt.TX = t.Position.x - (t.Pivot.x*lt.A + t.Pivot.y*lt.C)
		lt.TY = t.Position.y - (t.Pivot.x*lt.B + t.Pivot.y*lt.D)

		t.currentLocalID = t.localID
		// Force the world recompute below: the parent's worldID may not
		// have moved this frame, but our local matrix did.
		t.parentID = -1
	}

	if t.parentID != parent.worldID {
		pt := &parent.worldMatrix
		wt := &t.worldMatrix

		wt.A = lt.A*pt.A + lt.B*pt.C
		wt.B = lt.A*pt.B + lt.B*pt.D
		wt.C = lt.C*pt.A + lt.D*pt.C
		wt.D = lt.C*pt.B + lt.D*pt.D
		wt.TX = lt.TX*pt.A + lt.TY*pt.C + pt.TX
		wt.TY = lt.TX*pt.B + lt.TY*pt.D + pt.TY

		t.parentID = parent.worldID
		t.worldID++
	}
}

// SetFromMatrix overwrites position, rotation, skew, and scale from a raw
// affine matrix via Matrix.Decompose, then forces a local recompute on the
// next update. The bump is unconditional: decomposition can land on field
// values that compare equal to the current ones while still having chosen
// a different rotation/skew split.
func (t *Transform) SetFromMatrix(m *Matrix) {
	m.Decompose(t)
	t.localID++
}
