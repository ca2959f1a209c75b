package easel

import (
	"fmt"
	"image/color"
	"testing"
)

// setupBenchStage creates a stage with n 32x32 bitmaps laid out in rows of
// 100.
func setupBenchStage(b *testing.B, n int) *Stage {
	b.Helper()
	s := NewStage(NewCanvas(1280, 720))
	b.Cleanup(s.Close)
	img := solidImage(32, 32, color.RGBA{R: 255, B: 255, A: 255})
	for i := 0; i < n; i++ {
		bm := NewBitmap("bm", img)
		bm.X = float64(i%100) * 40
		bm.Y = float64(i/100) * 40
		s.AddChild(bm)
	}
	return s
}

// --- Render ---

func BenchmarkRender_1000Bitmaps_Static(b *testing.B) {
	s := setupBenchStage(b, 1000)
	s.Render() // warmup

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		s.Render()
	}
}

func BenchmarkRender_1000Bitmaps_Rotating(b *testing.B) {
	s := setupBenchStage(b, 1000)
	children := s.Children()
	s.Render()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		for _, child := range children {
			NodeOf(child).Rotation += 1
		}
		s.Render()
	}
}

func BenchmarkRender_1000Bitmaps_AlphaVarying(b *testing.B) {
	s := setupBenchStage(b, 1000)
	children := s.Children()
	for i, child := range children {
		NodeOf(child).Alpha = 0.2 + float64(i%8)*0.1
	}
	s.Render()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		s.Render()
	}
}

func BenchmarkRender_CachedContainer(b *testing.B) {
	s := NewStage(NewCanvas(1280, 720))
	b.Cleanup(s.Close)
	group := NewContainer("group")
	img := solidImage(32, 32, color.RGBA{G: 255, A: 255})
	for i := 0; i < 1000; i++ {
		bm := NewBitmap("bm", img)
		bm.X = float64(i%40) * 32
		bm.Y = float64(i/40) * 28
		group.AddChild(bm)
	}
	s.AddChild(group)
	if err := group.Cache(0, 0, 1280, 720); err != nil {
		b.Fatal(err)
	}
	s.Render()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		s.Render()
	}
}

func BenchmarkRender_Shapes(b *testing.B) {
	s := NewStage(NewCanvas(640, 480))
	b.Cleanup(s.Close)
	for i := 0; i < 100; i++ {
		sh := NewShape("dot", NewGraphics().Fill(color.RGBA{R: 200, A: 255}).Circle(0, 0, 12))
		sh.X = float64(i%10)*60 + 20
		sh.Y = float64(i/10)*45 + 20
		s.AddChild(sh)
	}
	s.Render()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		s.Render()
	}
}

// BenchmarkDrawVector_SmallCircle draws one 8px circle; its cost should not
// depend on the canvas size.
func BenchmarkDrawVector_SmallCircle(b *testing.B) {
	for _, size := range []int{64, 1280} {
		b.Run(fmt.Sprintf("canvas=%d", size), func(b *testing.B) {
			c := NewCanvas(size, size)
			sh := NewShape("dot", NewGraphics().Fill(color.RGBA{R: 200, A: 255}).Circle(0, 0, 4))
			c.Translate(float64(size)/2, float64(size)/2)
			sh.Draw(c, true)

			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				sh.Draw(c, true)
			}
		})
	}
}

// --- Transform ---

func BenchmarkConcatenatedMatrix_Depth16(b *testing.B) {
	s := NewStage(NewCanvas(10, 10))
	b.Cleanup(s.Close)
	parent := &s.Container
	for i := 0; i < 16; i++ {
		next := NewContainer("level")
		next.X, next.Rotation, next.ScaleX = 1, 5, 1.01
		parent.AddChild(next)
		parent = next
	}
	leaf := NewBitmap("leaf", nil)
	parent.AddChild(leaf)
	var m Matrix

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		leaf.GetConcatenatedMatrix(&m)
	}
}

// --- Hit testing ---

func BenchmarkObjectUnderPoint_1000Bitmaps(b *testing.B) {
	s := setupBenchStage(b, 1000)
	s.ObjectUnderPoint(5, 5) // allocate the hit canvas

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		s.ObjectUnderPoint(float64(i%1280), float64(i%400))
	}
}

func BenchmarkObjectsUnderPoint_Overlapping(b *testing.B) {
	s := NewStage(NewCanvas(200, 200))
	b.Cleanup(s.Close)
	img := solidImage(100, 100, color.RGBA{B: 255, A: 255})
	for i := 0; i < 50; i++ {
		bm := NewBitmap("layer", img)
		bm.X, bm.Y = float64(i), float64(i)
		s.AddChild(bm)
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		s.ObjectsUnderPoint(60, 60)
	}
}
