package arbor

import (
	"image/color"
	"sort"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// toRGBA converts a Color to a premultiplied-alpha color.RGBA.
func (c Color) toRGBA() color.RGBA {
	clamp := func(v float64) float64 {
		if v < 0 {
			return 0
		}
		if v > 1 {
			return 1
		}
		return v
	}
	a := clamp(c.A)
	return color.RGBA{
		R: uint8(clamp(c.R) * a * 255),
		G: uint8(clamp(c.G) * a * 255),
		B: uint8(clamp(c.B) * a * 255),
		A: uint8(a * 255),
	}
}

// drawWithCamera renders the node tree to target from a camera's
// perspective. If cam is nil, an identity view is used.
func (s *Scene) drawWithCamera(target *ebiten.Image, cam *Camera) {
	view := IdentityTransform.WorldMatrix()
	if cam != nil {
		view = cam.ViewMatrix()
	}

	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	drawCalls := drawNode(target, s.root, view)

	if s.debug {
		s.logDraw(time.Since(t0), drawCalls)
	}
}

// drawNode draws a node and its children in painter's order (parents
// behind children, siblings by ZIndex) and returns the number of draw
// calls submitted. The world matrices are current here — Scene.Update ran
// the transform walk earlier this frame — so drawing only composes the
// camera view onto each world matrix.
func drawNode(target *ebiten.Image, n *Node, view *Matrix) int {
	if !n.Visible {
		return 0
	}

	drawCalls := 0
	if n.Renderable && n.Type == NodeTypeSprite && n.worldAlpha > 0 {
		drawSprite(target, n, view)
		drawCalls++
	}

	for _, child := range n.drawOrder() {
		drawCalls += drawNode(target, child, view)
	}
	return drawCalls
}

// drawSprite submits one DrawImage call for a sprite node, composing the
// camera view onto the node's world matrix.
func drawSprite(target *ebiten.Image, n *Node, view *Matrix) {
	// Screen = view ∘ world: the world matrix applies first, the camera
	// view second.
	m := view.Clone()
	m.Append(n.Transform.WorldMatrix())

	var opts ebiten.DrawImageOptions
	opts.GeoM = m.GeoM()
	opts.Blend = n.BlendMode.EbitenBlend()

	// Ebiten expects premultiplied color scales.
	a := n.Color.A * n.worldAlpha
	opts.ColorScale.Scale(
		float32(n.Color.R*a),
		float32(n.Color.G*a),
		float32(n.Color.B*a),
		float32(a),
	)

	img := n.Image
	if img == nil {
		img = WhitePixel
	}
	target.DrawImage(img, &opts)
}

// drawOrder returns this node's children sorted by ZIndex (stable, so
// insertion order breaks ties). The sorted slice is cached and only
// rebuilt after a ZIndex or child-list change.
func (n *Node) drawOrder() []*Node {
	if n.childrenSorted && len(n.sortedChildren) == len(n.children) {
		return n.sortedChildren
	}

	n.sortedChildren = n.sortedChildren[:0]
	n.sortedChildren = append(n.sortedChildren, n.children...)
	sort.SliceStable(n.sortedChildren, func(i, j int) bool {
		return n.sortedChildren[i].ZIndex < n.sortedChildren[j].ZIndex
	})
	n.childrenSorted = true
	return n.sortedChildren
}

// UniformMatrix writes the view-composed world matrix of a node into a
// 9-element float32 buffer suitable for a Kage shader uniform. Pass nil to
// allocate, or reuse a scratch slice across frames. Column-major when
// transpose is true.
func UniformMatrix(n *Node, view *Matrix, transpose bool, out []float32) []float32 {
	m := n.Transform.WorldMatrix().Clone()
	if view != nil {
		m.Prepend(view)
	}
	return m.ToArray(transpose, out)
}
