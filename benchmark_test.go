package arbor

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// setupBenchScene creates a Scene with n untextured sprite nodes laid out in
// a grid, all direct children of the root.
func setupBenchScene(n int) *Scene {
	s := NewScene()
	root := s.Root()
	for i := 0; i < n; i++ {
		sp := NewSprite("sp", nil)
		sp.SetScale(32, 32)
		sp.SetPosition(float64(i%100)*40, float64(i/100)*40)
		root.AddChild(sp)
	}
	return s
}

// --- Sprite Rendering Benchmarks ---

func BenchmarkDraw_10000Sprites_Static(b *testing.B) {
	s := setupBenchScene(10000)
	screen := ebiten.NewImage(1280, 720)

	// Warm up: first update computes every world matrix, first draw
	// populates the sorted-children caches.
	_ = s.Update()
	s.Draw(screen)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		s.Draw(screen)
	}
}

func BenchmarkDraw_10000Sprites_Rotating(b *testing.B) {
	s := setupBenchScene(10000)
	screen := ebiten.NewImage(1280, 720)
	children := s.Root().Children()

	_ = s.Update()
	s.Draw(screen)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		for _, child := range children {
			child.SetRotation(child.Transform.Rotation() + 0.01)
		}
		_ = s.Update()
		s.Draw(screen)
	}
}

// --- Transform Walk Benchmarks ---

func BenchmarkTransformWalk_10000Dirty(b *testing.B) {
	s := setupBenchScene(10000)
	children := s.Root().Children()
	updateTransforms(s.Root(), IdentityTransform, 1.0)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		for _, child := range children {
			child.Transform.Position.Set(float64(i), 0)
		}
		updateTransforms(s.Root(), IdentityTransform, 1.0)
	}
}

func BenchmarkTransformWalk_10000Clean(b *testing.B) {
	s := setupBenchScene(10000)
	// Pre-compute so every local and world matrix is current.
	updateTransforms(s.Root(), IdentityTransform, 1.0)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		updateTransforms(s.Root(), IdentityTransform, 1.0)
	}
}

func BenchmarkTransformWalk_DeepChain(b *testing.B) {
	// A 100-deep parent chain with only the root moving: every descendant
	// skips its local recompute but re-composes against the moving ancestor.
	s := setupBenchScene(0)
	parent := s.Root()
	for i := 0; i < 100; i++ {
		n := NewContainer("link")
		n.SetPosition(1, 1)
		parent.AddChild(n)
		parent = n
	}
	top := s.Root().ChildAt(0)
	updateTransforms(s.Root(), IdentityTransform, 1.0)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		top.Transform.Position.Set(float64(i), 0)
		updateTransforms(s.Root(), IdentityTransform, 1.0)
	}
}

// --- Scene Update Benchmark ---

func BenchmarkSceneUpdate_10000(b *testing.B) {
	s := setupBenchScene(10000)
	_ = s.Update()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = s.Update()
	}
}
