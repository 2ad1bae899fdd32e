package arbor

import (
	"math"
	"testing"
)

// --- Local matrix ---

func TestTransformDefaultsToIdentity(t *testing.T) {
	tr := NewTransform()
	tr.UpdateTransform(IdentityTransform)
	assertMatrix(t, "local", *tr.LocalMatrix(), IdentityMatrix())
	assertMatrix(t, "world", *tr.WorldMatrix(), IdentityMatrix())
}

func TestLocalMatrixTranslation(t *testing.T) {
	tr := NewTransform()
	tr.Position.Set(10, 20)
	tr.UpdateTransform(IdentityTransform)
	assertMatrix(t, "translation", *tr.LocalMatrix(), Matrix{A: 1, D: 1, TX: 10, TY: 20})
}

func TestLocalMatrixScaleAndPosition(t *testing.T) {
	tr := NewTransform()
	tr.Position.Set(100, 50)
	tr.Scale.Set(2, 2)
	tr.UpdateTransform(IdentityTransform)
	assertMatrix(t, "world", *tr.WorldMatrix(), Matrix{A: 2, D: 2, TX: 100, TY: 50})
}

func TestLocalMatrixRotation90(t *testing.T) {
	tr := NewTransform()
	tr.SetRotation(math.Pi / 2)
	tr.UpdateTransform(IdentityTransform)
	assertMatrix(t, "rot90", *tr.LocalMatrix(), Matrix{A: 0, B: 1, C: -1, D: 0})
}

func TestLocalMatrixPivot(t *testing.T) {
	tr := NewTransform()
	tr.Position.Set(100, 200)
	tr.Pivot.Set(16, 16)
	tr.UpdateTransform(IdentityTransform)
	assertMatrix(t, "pivot", *tr.LocalMatrix(), Matrix{A: 1, D: 1, TX: 84, TY: 184})
}

func TestLocalMatrixMatchesSetTransform(t *testing.T) {
	// The transform's local recompute and Matrix.SetTransform are the same
	// parameterization; they must agree for any input.
	tr := NewTransform()
	tr.Position.Set(40, -15)
	tr.Pivot.Set(3, 8)
	tr.Scale.Set(2, 0.5)
	tr.Skew.Set(0.1, -0.3)
	tr.SetRotation(0.7)
	tr.UpdateTransform(IdentityTransform)

	var want Matrix
	want.SetTransform(40, -15, 3, 8, 2, 0.5, 0.7, 0.1, -0.3)
	assertMatrix(t, "local vs SetTransform", *tr.LocalMatrix(), want)
}

// --- Version counters ---

func TestUpdateSkipsWhenClean(t *testing.T) {
	tr := NewTransform()
	tr.Position.Set(5, 5)
	tr.UpdateTransform(IdentityTransform)

	world := tr.WorldID()
	local := tr.currentLocalID

	tr.UpdateTransform(IdentityTransform)
	if tr.WorldID() != world {
		t.Errorf("worldID advanced on a clean update: %d -> %d", world, tr.WorldID())
	}
	if tr.currentLocalID != local {
		t.Errorf("local matrix recomputed on a clean update")
	}
}

func TestNoopWritesStayClean(t *testing.T) {
	tr := NewTransform()
	tr.Position.Set(5, 5)
	tr.SetRotation(1)
	tr.UpdateTransform(IdentityTransform)

	world := tr.WorldID()
	tr.Position.Set(5, 5)
	tr.Scale.Set(1, 1)
	tr.SetRotation(1)
	tr.Skew.Set(0, 0)

	tr.UpdateTransform(IdentityTransform)
	if tr.WorldID() != world {
		t.Error("no-op writes forced a recompute")
	}
}

func TestLocalMutationForcesWorldRecompute(t *testing.T) {
	// The parent's worldID does not move between the two updates; the
	// forced parentID reset must still refresh the world matrix.
	parent := NewTransform()
	parent.UpdateTransform(IdentityTransform)

	child := NewTransform()
	child.UpdateTransform(parent)
	world := child.WorldID()

	child.Position.Set(7, 0)
	parent.UpdateTransform(IdentityTransform) // no change, worldID stays
	child.UpdateTransform(parent)

	if child.WorldID() == world {
		t.Fatal("world matrix not refreshed after local mutation")
	}
	assertNear(t, "world.TX", child.WorldMatrix().TX, 7)
}

func TestAncestorMoveSkipsChildLocalRecompute(t *testing.T) {
	parent := NewTransform()
	child := NewTransform()
	child.Position.Set(10, 0)

	parent.UpdateTransform(IdentityTransform)
	child.UpdateTransform(parent)

	childLocal := tr2local(child)
	childWorld := child.WorldID()

	parent.Position.Set(100, 0)
	parent.UpdateTransform(IdentityTransform)
	child.UpdateTransform(parent)

	if tr2local(child) != childLocal {
		t.Error("child local matrix recomputed although only the parent moved")
	}
	if child.WorldID() == childWorld {
		t.Error("child world matrix not refreshed although the parent moved")
	}
	assertNear(t, "child world TX", child.WorldMatrix().TX, 110)
}

// tr2local reads the local recompute generation for staleness assertions.
func tr2local(tr *Transform) int {
	return tr.currentLocalID
}

func TestThreeNodeChain(t *testing.T) {
	// root -> a -> b with root fixed at identity. Moving a repositions b's
	// world matrix; a second pass with no changes recomputes nothing.
	root := NewTransform()
	a := NewTransform()
	b := NewTransform()
	b.Position.Set(5, 0)

	update := func() {
		root.UpdateTransform(IdentityTransform)
		a.UpdateTransform(root)
		b.UpdateTransform(a)
	}

	a.Position.Set(30, 40)
	update()
	assertNear(t, "b world TX", b.WorldMatrix().TX, 35)
	assertNear(t, "b world TY", b.WorldMatrix().TY, 40)

	rootW, aW, bW := root.WorldID(), a.WorldID(), b.WorldID()
	update()
	if root.WorldID() != rootW || a.WorldID() != aW || b.WorldID() != bW {
		t.Errorf("worldIDs advanced on an unchanged pass: (%d,%d,%d) -> (%d,%d,%d)",
			rootW, aW, bW, root.WorldID(), a.WorldID(), b.WorldID())
	}
}

func TestSiblingNotRecomputed(t *testing.T) {
	parent := NewTransform()
	moved := NewTransform()
	sibling := NewTransform()

	update := func() {
		parent.UpdateTransform(IdentityTransform)
		moved.UpdateTransform(parent)
		sibling.UpdateTransform(parent)
	}

	update()
	siblingW := sibling.WorldID()

	moved.Position.Set(50, 0)
	update()

	if sibling.WorldID() != siblingW {
		t.Error("sibling recomputed although only its sibling moved")
	}
	assertNear(t, "moved world TX", moved.WorldMatrix().TX, 50)
}

func TestIdentityTransformStaysFrozen(t *testing.T) {
	before := IdentityTransform.WorldID()

	tr := NewTransform()
	tr.Position.Set(1, 2)
	tr.UpdateTransform(IdentityTransform)
	tr.UpdateTransform(IdentityTransform)

	if IdentityTransform.WorldID() != before {
		t.Error("IdentityTransform.worldID moved; the shared parent must never be written")
	}
	assertMatrix(t, "identity world", *IdentityTransform.WorldMatrix(), IdentityMatrix())
}

func TestUpdateTransformNilParentPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for nil parent")
		}
	}()
	NewTransform().UpdateTransform(nil)
}

// --- Rotation and skew ---

func TestRotationRefreshesTrigCache(t *testing.T) {
	tr := NewTransform()
	tr.SetRotation(math.Pi / 2)
	tr.UpdateTransform(IdentityTransform)

	p := tr.WorldMatrix().Apply(Point{1, 0})
	assertPoint(t, "rotated", p, Point{0, 1})

	tr.SetRotation(math.Pi)
	tr.UpdateTransform(IdentityTransform)
	p = tr.WorldMatrix().Apply(Point{1, 0})
	assertPoint(t, "rotated again", p, Point{-1, 0})
}

func TestSkewMutationMarksStale(t *testing.T) {
	tr := NewTransform()
	tr.UpdateTransform(IdentityTransform)
	world := tr.WorldID()

	tr.Skew.Set(0.3, 0)
	tr.UpdateTransform(IdentityTransform)

	if tr.WorldID() == world {
		t.Fatal("skew mutation did not refresh the world matrix")
	}

	var want Matrix
	want.SetTransform(0, 0, 0, 0, 1, 1, 0, 0.3, 0)
	assertMatrix(t, "skewed", *tr.WorldMatrix(), want)
}

// --- SetFromMatrix ---

func TestSetFromMatrixRoundtrip(t *testing.T) {
	var m Matrix
	m.SetTransform(10, 20, 0, 0, 2, 3, 0.5, 0, 0)

	tr := NewTransform()
	tr.SetFromMatrix(&m)
	tr.UpdateTransform(IdentityTransform)

	assertMatrix(t, "roundtrip", *tr.WorldMatrix(), m)
}

func TestSetFromMatrixAlwaysForcesRecompute(t *testing.T) {
	tr := NewTransform()
	tr.UpdateTransform(IdentityTransform)
	world := tr.WorldID()

	// Decomposing identity writes back the values the transform already
	// has; the recompute must be forced regardless.
	id := IdentityMatrix()
	tr.SetFromMatrix(&id)

	if tr.localID == tr.currentLocalID {
		t.Error("SetFromMatrix did not mark the local matrix stale")
	}
	tr.UpdateTransform(IdentityTransform)
	if tr.WorldID() == world {
		t.Error("SetFromMatrix did not force a world recompute")
	}
}

// --- MarkParentDirty ---

func TestMarkParentDirtyForcesRecompute(t *testing.T) {
	parent := NewTransform()
	parent.UpdateTransform(IdentityTransform)

	child := NewTransform()
	child.UpdateTransform(parent)
	world := child.WorldID()

	child.UpdateTransform(parent)
	if child.WorldID() != world {
		t.Fatal("expected a clean no-op before MarkParentDirty")
	}

	child.MarkParentDirty()
	child.UpdateTransform(parent)
	if child.WorldID() == world {
		t.Error("MarkParentDirty did not force a world recompute")
	}
}

// --- Benchmarks ---

func BenchmarkUpdateTransformDirty(b *testing.B) {
	tr := NewTransform()
	tr.Scale.Set(2, 3)
	tr.SetRotation(0.5)
	tr.Pivot.Set(16, 16)
	x := 0.0
	b.ReportAllocs()
	for b.Loop() {
		x++
		tr.Position.Set(x, x)
		tr.UpdateTransform(IdentityTransform)
	}
}

func BenchmarkUpdateTransformClean(b *testing.B) {
	tr := NewTransform()
	tr.Position.Set(100, 200)
	tr.UpdateTransform(IdentityTransform)
	b.ReportAllocs()
	for b.Loop() {
		tr.UpdateTransform(IdentityTransform)
	}
}

func BenchmarkMatrixAppend(b *testing.B) {
	m := Matrix{A: 2, B: 0.1, C: 0.3, D: 3, TX: 100, TY: 200}
	other := Matrix{A: 1.5, B: 0.2, C: 0.1, D: 2.5, TX: 50, TY: 30}
	b.ReportAllocs()
	for b.Loop() {
		mm := m
		mm.Append(&other)
	}
}
