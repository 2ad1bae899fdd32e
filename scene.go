package arbor

import (
	"image"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Scene is the top-level object that owns the node tree and cameras, and
// drives the once-per-frame transform update walk.
type Scene struct {
	root  *Node
	debug bool

	// ClearColor fills the screen before drawing. Alpha 0 skips the fill.
	ClearColor Color

	cameras []*Camera

	updateFunc func() error
}

// NewScene creates a new scene with a pre-created root container.
func NewScene() *Scene {
	return &Scene{root: NewContainer("root")}
}

// Root returns the scene's root container node.
func (s *Scene) Root() *Node {
	return s.root
}

// SetUpdateFunc registers a per-frame callback, run from Update before the
// transform walk. Returning an error aborts Run.
func (s *Scene) SetUpdateFunc(fn func() error) {
	s.updateFunc = fn
}

// Update runs OnUpdate hooks and the registered update func, then refreshes
// every node's world matrix with a strict parent-before-children walk. The
// walk is the scene-graph side of the transform contract: a child's
// UpdateTransform reads its parent's already-updated world matrix, and the
// root updates against IdentityTransform.
func (s *Scene) Update() error {
	dt := 1.0 / float64(ebiten.TPS())

	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	runUpdateHooks(s.root, dt)
	if s.updateFunc != nil {
		if err := s.updateFunc(); err != nil {
			return err
		}
	}

	// Refresh world transforms before camera follow so targets have
	// accurate positions this frame.
	updateTransforms(s.root, IdentityTransform, 1.0)

	for _, cam := range s.cameras {
		cam.update(float32(dt))
	}

	if s.debug {
		s.logUpdate(time.Since(t0), countNodes(s.root))
	}
	return nil
}

// runUpdateHooks fires OnUpdate callbacks depth-first. Hooks run before the
// transform walk so any mutation they make lands in this frame's matrices.
func runUpdateHooks(n *Node, dt float64) {
	if n.OnUpdate != nil {
		n.OnUpdate(dt)
	}
	for _, child := range n.children {
		runUpdateHooks(child, dt)
	}
}

// updateTransforms is the depth-first walker: parent strictly before
// children, so each UpdateTransform reads a current parent world matrix.
// Invisible nodes still update — cameras may follow them and they can
// become visible without another mutation.
func updateTransforms(n *Node, parent *Transform, parentAlpha float64) {
	n.Transform.UpdateTransform(parent)
	n.worldAlpha = parentAlpha * n.Alpha
	for _, child := range n.children {
		updateTransforms(child, n.Transform, n.worldAlpha)
	}
}

// countNodes returns the size of the subtree rooted at n (debug stats only).
func countNodes(n *Node) int {
	count := 1
	for _, child := range n.children {
		count += countNodes(child)
	}
	return count
}

// Draw renders the scene to the given screen image, once per camera
// viewport, or once with an implicit identity camera when no cameras exist.
func (s *Scene) Draw(screen *ebiten.Image) {
	if s.ClearColor.A > 0 {
		screen.Fill(s.ClearColor.toRGBA())
	}

	if len(s.cameras) == 0 {
		s.drawWithCamera(screen, nil)
		return
	}

	for _, cam := range s.cameras {
		vp := cam.Viewport
		viewportImg := screen.SubImage(image.Rect(
			int(vp.X), int(vp.Y),
			int(vp.X+vp.Width), int(vp.Y+vp.Height),
		)).(*ebiten.Image)
		s.drawWithCamera(viewportImg, cam)
	}
}

// NewCamera creates a camera with the given viewport and adds it to the scene.
func (s *Scene) NewCamera(viewport Rect) *Camera {
	cam := newCamera(viewport)
	s.cameras = append(s.cameras, cam)
	return cam
}

// RemoveCamera removes a camera from the scene.
func (s *Scene) RemoveCamera(cam *Camera) {
	for i, c := range s.cameras {
		if c == cam {
			s.cameras = append(s.cameras[:i], s.cameras[i+1:]...)
			return
		}
	}
}

// Cameras returns the scene's camera list. The returned slice MUST NOT be mutated.
func (s *Scene) Cameras() []*Camera {
	return s.cameras
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics, tree depth and child count warnings are printed, and
// per-frame timing stats are logged to stderr.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

// globalDebug mirrors the most recently set Scene debug flag so that node
// operations (which lack a Scene pointer) can check it cheaply. Only valid
// with a single Scene; multiple Scenes with differing debug modes will
// reflect whichever called SetDebugMode last.
var globalDebug bool

// --- Game loop ---

// RunConfig configures the window and loop created by Run.
type RunConfig struct {
	Title         string
	Width, Height int
	Resizable     bool
	ShowFPS       bool
}

// Run creates a window and game loop for the scene and blocks until the
// window closes or the scene's update func returns an error. For full
// control, implement ebiten.Game yourself and call Scene.Update and
// Scene.Draw directly.
func Run(scene *Scene, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 640
	}
	if cfg.Height <= 0 {
		cfg.Height = 480
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	if cfg.ShowFPS {
		scene.Root().AddChild(NewFPSWidget())
	}
	return ebiten.RunGame(&game{scene: scene, width: cfg.Width, height: cfg.Height})
}

// game adapts a Scene to the ebiten.Game interface for Run.
type game struct {
	scene         *Scene
	width, height int
}

func (g *game) Update() error {
	return g.scene.Update()
}

func (g *game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
}

func (g *game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}
