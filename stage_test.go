package easel

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

func newTestStage(t *testing.T, w, h int) *Stage {
	t.Helper()
	s := NewStage(NewCanvas(w, h))
	t.Cleanup(s.Close)
	return s
}

// --- Render ---

func TestRenderDrawsChildren(t *testing.T) {
	s := newTestStage(t, 20, 20)
	b := NewBitmap("b", solidImage(4, 4, red))
	b.X, b.Y = 5, 6
	s.AddChild(b)
	s.Render()
	c := s.Canvas()
	assertPixel(t, c, 5, 6, red)
	assertPixel(t, c, 8, 9, red)
	assertTransparent(t, c, 4, 6)
	if c.SaveDepth() != 0 {
		t.Errorf("SaveDepth after Render = %d, want 0", c.SaveDepth())
	}
}

func TestRenderPaintersOrder(t *testing.T) {
	s := newTestStage(t, 10, 10)
	s.AddChild(NewBitmap("bottom", solidImage(10, 10, red)))
	s.AddChild(NewBitmap("top", solidImage(5, 5, green)))
	s.Render()
	assertPixel(t, s.Canvas(), 2, 2, green)
	assertPixel(t, s.Canvas(), 7, 7, red)
}

func TestRenderAppliesStageTransform(t *testing.T) {
	s := newTestStage(t, 20, 20)
	s.X, s.Y = 10, 10
	s.AddChild(NewBitmap("b", solidImage(2, 2, red)))
	s.Render()
	assertPixel(t, s.Canvas(), 10, 10, red)
	assertTransparent(t, s.Canvas(), 0, 0)
}

func TestRenderSkipsInvisible(t *testing.T) {
	tests := []struct {
		name string
		mod  func(n *Node)
	}{
		{"hidden", func(n *Node) { n.Visible = false }},
		{"alpha zero", func(n *Node) { n.Alpha = 0 }},
		{"scaleX zero", func(n *Node) { n.ScaleX = 0 }},
		{"scaleY zero", func(n *Node) { n.ScaleY = 0 }},
	}
	for _, tt := range tests {
		s := newTestStage(t, 4, 4)
		b := NewBitmap("b", solidImage(4, 4, red))
		tt.mod(&b.Node)
		s.AddChild(b)
		s.Render()
		if got := s.Canvas().At(1, 1); got.A != 0 {
			t.Errorf("%s: pixel = %v, want transparent", tt.name, got)
		}
	}
}

func TestRenderAlphaMultiplies(t *testing.T) {
	s := newTestStage(t, 4, 4)
	ct := NewContainer("ct")
	ct.Alpha = 0.5
	b := NewBitmap("b", solidImage(4, 4, red))
	b.Alpha = 0.5
	ct.AddChild(b)
	s.AddChild(ct)
	s.Render()
	got := s.Canvas().At(1, 1)
	if got.A < 62 || got.A > 66 {
		t.Errorf("alpha = %d, want about 64", got.A)
	}
}

func TestRenderAutoClear(t *testing.T) {
	s := newTestStage(t, 10, 10)
	b := NewBitmap("b", solidImage(2, 2, red))
	s.AddChild(b)
	s.Render()
	b.X = 5
	s.Render()
	assertTransparent(t, s.Canvas(), 0, 0)
	assertPixel(t, s.Canvas(), 5, 0, red)

	s.AutoClear = false
	b.X = 0
	s.Render()
	assertPixel(t, s.Canvas(), 0, 0, red)
	assertPixel(t, s.Canvas(), 5, 0, red)
}

func TestRenderWithoutCanvas(t *testing.T) {
	s := NewStage(nil)
	defer s.Close()
	s.AddChild(NewBitmap("b", solidImage(2, 2, red)))
	s.Render()
	s.Clear()
}

func TestRenderReentrantPanics(t *testing.T) {
	s := newTestStage(t, 4, 4)
	s.rendering = true
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on re-entrant Render")
		}
	}()
	s.Render()
}

func TestRenderRestoresAfterPanic(t *testing.T) {
	s := newTestStage(t, 4, 4)
	s.AddChild(NewContainer("wrapper"))
	s.ChildAt(0).(*Container).AddChild(NewBitmap("bad", panicImage{}))
	func() {
		defer func() { _ = recover() }()
		s.Render()
	}()
	if s.rendering {
		t.Error("rendering flag left set after panic")
	}
	if d := s.Canvas().SaveDepth(); d != 0 {
		t.Errorf("SaveDepth after panic = %d, want 0", d)
	}
}

type panicImage struct{}

func (panicImage) ColorModel() color.Model { return color.RGBAModel }
func (panicImage) Bounds() image.Rectangle { panic("bounds") }
func (panicImage) At(x, y int) color.Color { return color.Transparent }

func TestStageClear(t *testing.T) {
	s := newTestStage(t, 4, 4)
	s.X = 100
	s.Canvas().FillRect(0, 0, 4, 4, red)
	s.Clear()
	assertTransparent(t, s.Canvas(), 2, 2)
}

func TestSetCanvas(t *testing.T) {
	s := NewStage(nil)
	defer s.Close()
	c := NewCanvas(3, 3)
	s.SetCanvas(c)
	if s.Canvas() != c {
		t.Error("Canvas() did not return the bound canvas")
	}
	s.SetCanvas(nil)
	if s.Canvas() != nil {
		t.Error("SetCanvas(nil) did not unbind")
	}
}

// --- Export ---

func decodeDataURL(t *testing.T, url, mime string) []byte {
	t.Helper()
	prefix := "data:" + mime + ";base64,"
	if !strings.HasPrefix(url, prefix) {
		t.Fatalf("data URL %.40q does not start with %q", url, prefix)
	}
	raw, err := base64.StdEncoding.DecodeString(url[len(prefix):])
	if err != nil {
		t.Fatalf("decode base64: %v", err)
	}
	return raw
}

func TestToImageNonDestructive(t *testing.T) {
	s := newTestStage(t, 8, 8)
	b := NewBitmap("b", solidImage(4, 4, red))
	s.AddChild(b)
	s.Render()
	before := append([]byte(nil), s.Canvas().Image().Pix...)

	for _, mime := range []string{"", MimeJPEG, MimeBMP, MimeTIFF} {
		if _, err := s.ToImage(mime, "#00ff00"); err != nil {
			t.Fatalf("ToImage(%q): %v", mime, err)
		}
	}
	if !bytes.Equal(before, s.Canvas().Image().Pix) {
		t.Error("ToImage modified the canvas")
	}
}

func TestToImageBackground(t *testing.T) {
	s := newTestStage(t, 4, 4)
	s.AddChild(NewBitmap("b", solidImage(2, 2, red)))
	s.Render()

	url, err := s.ToImage("", "blue")
	if err != nil {
		t.Fatalf("ToImage: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(decodeDataURL(t, url, MimePNG)))
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if r, g, b, a := img.At(0, 0).RGBA(); r != 0xffff || g != 0 || b != 0 || a != 0xffff {
		t.Errorf("drawn pixel = %v, want red", img.At(0, 0))
	}
	if r, g, b, a := img.At(3, 3).RGBA(); r != 0 || g != 0 || b != 0xffff || a != 0xffff {
		t.Errorf("background pixel = %v, want blue", img.At(3, 3))
	}
}

func TestToImageFallsBackToPNG(t *testing.T) {
	s := newTestStage(t, 2, 2)
	url, err := s.ToImage("image/webp", "")
	if err != nil {
		t.Fatalf("ToImage: %v", err)
	}
	decodeDataURL(t, url, MimePNG)
}

func TestToImageMimeAliases(t *testing.T) {
	s := newTestStage(t, 2, 2)
	url, err := s.ToImage("IMAGE/JPG", "")
	if err != nil {
		t.Fatalf("ToImage: %v", err)
	}
	decodeDataURL(t, url, MimeJPEG)
}

func TestToImageErrors(t *testing.T) {
	s := NewStage(nil)
	defer s.Close()
	if _, err := s.ToImage("", ""); !errors.Is(err, ErrNoCanvas) {
		t.Errorf("ToImage without canvas error = %v, want ErrNoCanvas", err)
	}
	s.SetCanvas(NewCanvas(2, 2))
	if _, err := s.ToImage("", "not-a-color"); !errors.Is(err, ErrUnsupportedColor) {
		t.Errorf("ToImage bad color error = %v, want ErrUnsupportedColor", err)
	}
}

func TestWriteImage(t *testing.T) {
	s := newTestStage(t, 4, 4)
	s.AddChild(NewBitmap("b", solidImage(2, 2, red)))
	s.Render()

	var buf bytes.Buffer
	mime, err := s.WriteImage(&buf, "image/bmp", "white")
	if err != nil {
		t.Fatalf("WriteImage: %v", err)
	}
	if mime != MimeBMP {
		t.Errorf("mime = %q, want %q", mime, MimeBMP)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("BM")) {
		t.Error("output is not a BMP file")
	}
	assertTransparent(t, s.Canvas(), 3, 3)
}

func TestMimeForExtension(t *testing.T) {
	tests := []struct {
		ext, want string
	}{
		{".png", MimePNG},
		{".JPG", MimeJPEG},
		{".jpeg", MimeJPEG},
		{".bmp", MimeBMP},
		{".tif", MimeTIFF},
		{".tiff", MimeTIFF},
		{".webp", MimePNG},
		{"", MimePNG},
	}
	for _, tt := range tests {
		if got := MimeForExtension(tt.ext); got != tt.want {
			t.Errorf("MimeForExtension(%q) = %q, want %q", tt.ext, got, tt.want)
		}
	}
}

func TestCanvasDataURL(t *testing.T) {
	c := NewCanvas(3, 3)
	c.FillRect(0, 0, 3, 3, green)
	url, err := c.DataURL("")
	if err != nil {
		t.Fatalf("DataURL: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(decodeDataURL(t, url, MimePNG)))
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 3, 3) {
		t.Errorf("bounds = %v, want 3x3", img.Bounds())
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#f00", color.NRGBA{255, 0, 0, 255}},
		{"#00ff0080", color.NRGBA{0, 255, 0, 128}},
		{"#ABCDEF", color.NRGBA{0xab, 0xcd, 0xef, 255}},
		{"#0f08", color.NRGBA{0, 255, 0, 0x88}},
		{"white", color.NRGBA{255, 255, 255, 255}},
		{" CornflowerBlue ", color.NRGBA{100, 149, 237, 255}},
		{"transparent", color.NRGBA{}},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if err != nil {
			t.Errorf("ParseColor(%q): %v", tt.in, err)
			continue
		}
		if n := color.NRGBAModel.Convert(got).(color.NRGBA); n != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, n, tt.want)
		}
	}
	for _, bad := range []string{"", "#", "#12", "#12345", "#gggggg", "nocolor"} {
		if _, err := ParseColor(bad); !errors.Is(err, ErrUnsupportedColor) {
			t.Errorf("ParseColor(%q) error = %v, want ErrUnsupportedColor", bad, err)
		}
	}
}
