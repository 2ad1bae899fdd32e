package arbor

import (
	"errors"
	"testing"
)

func TestSceneUpdateRefreshesWorldMatrices(t *testing.T) {
	scene := NewScene()
	container := NewContainer("group")
	sprite := NewSprite("box", nil)
	scene.Root().AddChild(container)
	container.AddChild(sprite)

	container.SetPosition(100, 0)
	sprite.SetPosition(10, 5)

	if err := scene.Update(); err != nil {
		t.Fatal(err)
	}

	wt := sprite.Transform.WorldMatrix()
	assertNear(t, "sprite world TX", wt.TX, 110)
	assertNear(t, "sprite world TY", wt.TY, 5)
}

func TestSceneSecondUpdateIsQuiescent(t *testing.T) {
	scene := NewScene()
	container := NewContainer("group")
	sprite := NewSprite("box", nil)
	scene.Root().AddChild(container)
	container.AddChild(sprite)
	container.SetPosition(100, 0)

	if err := scene.Update(); err != nil {
		t.Fatal(err)
	}
	rootW := scene.Root().Transform.WorldID()
	containerW := container.Transform.WorldID()
	spriteW := sprite.Transform.WorldID()

	if err := scene.Update(); err != nil {
		t.Fatal(err)
	}
	if scene.Root().Transform.WorldID() != rootW ||
		container.Transform.WorldID() != containerW ||
		sprite.Transform.WorldID() != spriteW {
		t.Error("worldIDs advanced on an unchanged frame")
	}
}

func TestWorldAlphaPropagation(t *testing.T) {
	scene := NewScene()
	parent := NewContainer("parent")
	child := NewContainer("child")
	scene.Root().AddChild(parent)
	parent.AddChild(child)

	parent.SetAlpha(0.5)
	child.SetAlpha(0.5)

	if err := scene.Update(); err != nil {
		t.Fatal(err)
	}

	assertNear(t, "parent.worldAlpha", parent.WorldAlpha(), 0.5)
	assertNear(t, "child.worldAlpha", child.WorldAlpha(), 0.25)
}

func TestOnUpdateRunsBeforeTransformWalk(t *testing.T) {
	scene := NewScene()
	n := NewContainer("n")
	scene.Root().AddChild(n)

	n.OnUpdate = func(dt float64) {
		n.SetPosition(42, 0)
	}

	if err := scene.Update(); err != nil {
		t.Fatal(err)
	}
	// The hook's mutation must land in this frame's world matrix.
	assertNear(t, "world TX", n.Transform.WorldMatrix().TX, 42)
}

func TestSetUpdateFuncErrorAborts(t *testing.T) {
	scene := NewScene()
	want := errors.New("boom")
	scene.SetUpdateFunc(func() error { return want })

	if err := scene.Update(); !errors.Is(err, want) {
		t.Errorf("Update err = %v, want %v", err, want)
	}
}

func TestDrawOrderSortsByZIndex(t *testing.T) {
	parent := NewContainer("parent")
	low := NewContainer("low")
	high := NewContainer("high")
	mid := NewContainer("mid")

	high.ZIndex = 10
	mid.ZIndex = 5

	parent.AddChild(high)
	parent.AddChild(low) // ZIndex 0
	parent.AddChild(mid)

	order := parent.drawOrder()
	if order[0] != low || order[1] != mid || order[2] != high {
		t.Errorf("draw order = [%s %s %s], want [low mid high]",
			order[0].Name, order[1].Name, order[2].Name)
	}
}

func TestDrawOrderStableForEqualZIndex(t *testing.T) {
	parent := NewContainer("parent")
	a := NewContainer("a")
	b := NewContainer("b")
	parent.AddChild(a)
	parent.AddChild(b)

	order := parent.drawOrder()
	if order[0] != a || order[1] != b {
		t.Error("equal ZIndex must preserve insertion order")
	}
}

func TestDrawOrderRefreshesAfterSetZIndex(t *testing.T) {
	parent := NewContainer("parent")
	a := NewContainer("a")
	b := NewContainer("b")
	parent.AddChild(a)
	parent.AddChild(b)

	_ = parent.drawOrder() // warm the cache
	a.SetZIndex(10)

	order := parent.drawOrder()
	if order[0] != b || order[1] != a {
		t.Error("SetZIndex did not invalidate the cached draw order")
	}
}

func TestSceneCameras(t *testing.T) {
	scene := NewScene()
	cam := scene.NewCamera(Rect{Width: 640, Height: 480})

	if len(scene.Cameras()) != 1 || scene.Cameras()[0] != cam {
		t.Fatal("camera not registered")
	}

	scene.RemoveCamera(cam)
	if len(scene.Cameras()) != 0 {
		t.Error("camera not removed")
	}
}
