package arbor

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 scalar channels on a Node simultaneously.
// Create one via the convenience constructors (TweenPosition, TweenScale,
// TweenRotation, ...) and call Update(dt) each frame. Values are written
// through the node's Transform observables, so a frame where the eased
// value lands on the previous one costs nothing downstream — the
// observable suppresses the no-op write. If the target node is disposed,
// the group stops immediately.
//
// There is no global animation manager — users call Update themselves.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	apply  func(vals [4]float64)
	target *Node
	Done   bool
}

// Update advances all tweens by dt seconds and applies the values to the
// target. If the target node has been disposed, Done is set to true and no
// writes occur.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}

	if g.target != nil && g.target.IsDisposed() {
		g.Done = true
		return
	}

	var vals [4]float64
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		vals[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone

	g.apply(vals)
}

// TweenPosition creates a TweenGroup that animates the node's position to
// the given target coordinates over the specified duration using the easing function.
func TweenPosition(node *Node, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 2, target: node}
	pos := node.Transform.Position
	g.tweens[0] = gween.New(float32(pos.X()), float32(toX), duration, fn)
	g.tweens[1] = gween.New(float32(pos.Y()), float32(toY), duration, fn)
	g.apply = func(vals [4]float64) {
		pos.Set(vals[0], vals[1])
	}
	return g
}

// TweenScale creates a TweenGroup that animates the node's scale factors to
// the given target values over the specified duration using the easing function.
func TweenScale(node *Node, toSX, toSY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 2, target: node}
	scale := node.Transform.Scale
	g.tweens[0] = gween.New(float32(scale.X()), float32(toSX), duration, fn)
	g.tweens[1] = gween.New(float32(scale.Y()), float32(toSY), duration, fn)
	g.apply = func(vals [4]float64) {
		scale.Set(vals[0], vals[1])
	}
	return g
}

// TweenRotation creates a TweenGroup that animates the node's rotation to
// the target angle (radians) over the specified duration.
func TweenRotation(node *Node, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1, target: node}
	g.tweens[0] = gween.New(float32(node.Transform.Rotation()), float32(to), duration, fn)
	g.apply = func(vals [4]float64) {
		node.Transform.SetRotation(vals[0])
	}
	return g
}

// TweenSkew creates a TweenGroup that animates the node's skew angles to
// the target values over the specified duration.
func TweenSkew(node *Node, toSX, toSY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 2, target: node}
	skew := node.Transform.Skew
	g.tweens[0] = gween.New(float32(skew.X()), float32(toSX), duration, fn)
	g.tweens[1] = gween.New(float32(skew.Y()), float32(toSY), duration, fn)
	g.apply = func(vals [4]float64) {
		skew.Set(vals[0], vals[1])
	}
	return g
}

// TweenPivot creates a TweenGroup that animates the node's pivot point to
// the target coordinates over the specified duration.
func TweenPivot(node *Node, toPX, toPY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 2, target: node}
	pivot := node.Transform.Pivot
	g.tweens[0] = gween.New(float32(pivot.X()), float32(toPX), duration, fn)
	g.tweens[1] = gween.New(float32(pivot.Y()), float32(toPY), duration, fn)
	g.apply = func(vals [4]float64) {
		pivot.Set(vals[0], vals[1])
	}
	return g
}

// TweenAlpha creates a TweenGroup that animates node.Alpha to the target
// value over the specified duration using the easing function.
func TweenAlpha(node *Node, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1, target: node}
	g.tweens[0] = gween.New(float32(node.Alpha), float32(to), duration, fn)
	g.apply = func(vals [4]float64) {
		node.Alpha = vals[0]
	}
	return g
}
