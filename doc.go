// Package arbor is a retained-mode 2D scene graph core for [Ebitengine],
// built around lazily recomputed transform hierarchies.
//
// Every node in the tree owns a [Transform]: position, scale, pivot, skew,
// and rotation, plus a cached local matrix (this node relative to its
// parent) and a cached world matrix (this node relative to the root). The
// caches are versioned, not flagged — mutating an input bumps an integer
// counter, and the per-frame update walk recomputes a matrix only when its
// counter no longer matches. An unchanged subtree costs two integer
// comparisons per node per frame, with no allocation and no
// mark-descendants-dirty walk.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	scene := arbor.NewScene()
//	// ... add nodes ...
//	arbor.Run(scene, arbor.RunConfig{
//		Title: "My Game", Width: 640, Height: 480,
//	})
//
// For full control, implement [ebiten.Game] yourself and call
// [Scene.Update] and [Scene.Draw] directly.
//
// # Scene graph
//
// Every visual element is a [Node]. Nodes form a tree rooted at
// [Scene.Root]. Children inherit their parent's transform and alpha.
//
//	container := arbor.NewContainer("ui")
//	scene.Root().AddChild(container)
//
//	sprite := arbor.NewSprite("hero", heroImage)
//	sprite.SetPosition(100, 50)
//	container.AddChild(sprite)
//
// For solid-color rectangles, pass a nil image to [NewSprite] and set
// [Node.Color] and the transform's scale:
//
//	box := arbor.NewSprite("box", nil)
//	box.SetScale(80, 40)
//	box.Color = arbor.Color{R: 0.3, G: 0.7, B: 1, A: 1}
//
// # Transforms
//
// Mutate a node through its Transform's observable fields or the Set*
// conveniences; there is no MarkDirty to remember. [Matrix] is the
// underlying 2D affine value type, with composition, inversion,
// decomposition, and a GPU-upload form via [Matrix.ToArray]. The library
// also includes cameras with follow/scroll-to/zoom and tweens
// (via [gween]).
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package arbor
