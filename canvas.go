package easel

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/gogpu/gg"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/vector"
)

// canvasState is the part of a Canvas saved by Save and restored by Restore.
// The matrix accumulators double as the global alpha and the active shadow.
type canvasState struct {
	m    Matrix
	clip image.Rectangle
}

// Canvas is a CPU raster surface with a 2D immediate-mode drawing context:
// a current transform, global alpha, shadow and clip, all saved and restored
// as a stack. Pixels are premultiplied RGBA.
//
// Stages draw into a Canvas, nodes cache into one, and hit testing renders
// candidates into an offscreen one.
type Canvas struct {
	img   *image.RGBA
	state canvasState
	stack []canvasState
	hit   bool

	// Scratch buffers, allocated on first use.
	layer   *image.RGBA
	raster  *vector.Rasterizer
	vec     *gg.Context
	vecView *image.RGBA
}

// NewCanvas creates a transparent canvas. Negative sizes are treated as zero.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{img: image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))}
	c.resetState()
	return c
}

// NewCanvasFromImage creates a canvas holding a copy of img, positioned at the
// origin.
func NewCanvasFromImage(img image.Image) *Canvas {
	b := img.Bounds()
	c := NewCanvas(b.Dx(), b.Dy())
	draw.Draw(c.img, c.img.Bounds(), img, b.Min, draw.Src)
	return c
}

func (c *Canvas) resetState() {
	c.state.m.Identity()
	c.state.clip = c.img.Bounds()
	c.stack = c.stack[:0]
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int { return c.img.Rect.Dx() }

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int { return c.img.Rect.Dy() }

// Bounds returns the pixel bounds of the canvas.
func (c *Canvas) Bounds() image.Rectangle { return c.img.Rect }

// Image returns the backing image. It is live: later drawing changes it.
func (c *Canvas) Image() *image.RGBA { return c.img }

// Resize reallocates the canvas when the dimensions change, clearing its
// pixels and drawing state. It is a no-op for identical dimensions.
func (c *Canvas) Resize(width, height int) {
	if width == c.Width() && height == c.Height() {
		return
	}
	c.img = image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))
	c.layer = nil
	c.resetState()
}

// --- State stack ---

// Save pushes the current transform, alpha, shadow and clip.
func (c *Canvas) Save() {
	c.stack = append(c.stack, c.state)
}

// Restore pops the state pushed by the matching Save. Unbalanced calls are
// ignored.
func (c *Canvas) Restore() {
	if len(c.stack) == 0 {
		return
	}
	c.state = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
}

// restoreTo pops states until depth remain.
func (c *Canvas) restoreTo(depth int) {
	for len(c.stack) > depth {
		c.Restore()
	}
}

// SaveDepth returns the number of states currently pushed.
func (c *Canvas) SaveDepth() int {
	return len(c.stack)
}

// --- Transform ---

// Translate moves the origin of subsequent drawing.
func (c *Canvas) Translate(x, y float64) {
	c.state.m.Append(1, 0, 0, 1, x, y)
}

// Scale scales subsequent drawing.
func (c *Canvas) Scale(sx, sy float64) {
	c.state.m.Append(sx, 0, 0, sy, 0, 0)
}

// Rotate rotates subsequent drawing clockwise by deg degrees.
func (c *Canvas) Rotate(deg float64) {
	sin, cos := sincosDeg(deg)
	c.state.m.Append(cos, sin, -sin, cos, 0, 0)
}

// Transform multiplies the current transform by the given one; the new
// transform applies to coordinates before the current one does.
func (c *Canvas) Transform(a, b, cc, d, tx, ty float64) {
	c.state.m.Append(a, b, cc, d, tx, ty)
}

// SetTransform replaces the current transform.
func (c *Canvas) SetTransform(a, b, cc, d, tx, ty float64) {
	m := &c.state.m
	m.A, m.B, m.C, m.D, m.Tx, m.Ty = a, b, cc, d, tx, ty
}

// ResetTransform sets the current transform to the identity.
func (c *Canvas) ResetTransform() {
	c.SetTransform(1, 0, 0, 1, 0, 0)
}

// CurrentTransform returns a copy of the current transform. Its Alpha and
// Shadow reflect the current global alpha and shadow.
func (c *Canvas) CurrentTransform() Matrix {
	return c.state.m
}

// --- Compositing state ---

// GlobalAlpha returns the alpha applied to everything drawn.
func (c *Canvas) GlobalAlpha() float64 { return c.state.m.Alpha }

// SetGlobalAlpha sets the alpha applied to everything drawn.
func (c *Canvas) SetGlobalAlpha(a float64) { c.state.m.Alpha = a }

// Shadow returns the active shadow, or nil.
func (c *Canvas) Shadow() *Shadow { return c.state.m.Shadow }

// SetShadow sets the shadow drawn beneath subsequent drawing. Pass nil to
// disable shadows.
func (c *Canvas) SetShadow(s *Shadow) { c.state.m.Shadow = s }

// Clip restricts subsequent drawing to r, in pixel coordinates, intersected
// with the current clip.
func (c *Canvas) Clip(r image.Rectangle) {
	c.state.clip = c.state.clip.Intersect(r)
}

// HitTestMode reports whether the canvas renders for hit testing.
func (c *Canvas) HitTestMode() bool { return c.hit }

// SetHitTestMode toggles hit-test rendering: global alpha is treated as 1
// and shadows are not drawn, so only a node's own opaque footprint lands on
// the canvas. The flag is not part of the saved state.
func (c *Canvas) SetHitTestMode(on bool) { c.hit = on }

// --- Pixel access ---

// Clear makes every pixel transparent, ignoring transform and clip.
func (c *Canvas) Clear() {
	draw.Draw(c.img, c.img.Rect, image.Transparent, image.Point{}, draw.Src)
}

// ClearRect makes the given pixel rectangle transparent, ignoring transform
// and clip.
func (c *Canvas) ClearRect(x, y, width, height int) {
	r := image.Rect(x, y, x+width, y+height).Intersect(c.img.Rect)
	draw.Draw(c.img, r, image.Transparent, image.Point{}, draw.Src)
}

// At returns the premultiplied pixel at (x, y); transparent outside the
// canvas.
func (c *Canvas) At(x, y int) color.RGBA {
	return c.img.RGBAAt(x, y)
}

// ImageData returns a copy of the pixels in r. Areas outside the canvas are
// transparent.
func (c *Canvas) ImageData(r image.Rectangle) *image.RGBA {
	out := image.NewRGBA(r)
	draw.Draw(out, r, c.img, r.Min, draw.Src)
	return out
}

// PutImageData writes src with its top-left corner at (x, y), replacing the
// destination pixels. Transform, alpha and clip are ignored.
func (c *Canvas) PutImageData(src *image.RGBA, x, y int) {
	sb := src.Bounds()
	dr := image.Rect(x, y, x+sb.Dx(), y+sb.Dy())
	draw.Draw(c.img, dr, src, sb.Min, draw.Src)
}

// --- Drawing ---

// DrawImage draws src with its top-left corner at local (x, y).
func (c *Canvas) DrawImage(src image.Image, x, y float64) {
	sb := src.Bounds()
	if sb.Empty() {
		return
	}
	m := c.state.m
	if m.A*m.D-m.B*m.C == 0 {
		return
	}
	dr := deviceBounds(&m, x, y, float64(sb.Dx()), float64(sb.Dy()))
	c.paint(dr, func(dst *image.RGBA, r image.Rectangle) {
		sub := dst.SubImage(r).(*image.RGBA)
		if ox, oy, ok := integerOffset(&m, x, y); ok {
			draw.Draw(sub, image.Rect(ox, oy, ox+sb.Dx(), oy+sb.Dy()), src, sb.Min, draw.Over)
			return
		}
		lx := x - float64(sb.Min.X)
		ly := y - float64(sb.Min.Y)
		s2d := f64.Aff3{
			m.A, m.C, m.A*lx + m.C*ly + m.Tx,
			m.B, m.D, m.B*lx + m.D*ly + m.Ty,
		}
		xdraw.BiLinear.Transform(sub, s2d, src, sb, xdraw.Over, nil)
	})
}

// FillRect fills the local rectangle (x, y, width, height) with col.
func (c *Canvas) FillRect(x, y, width, height float64, col color.Color) {
	if width == 0 || height == 0 {
		return
	}
	m := c.state.m
	dr := deviceBounds(&m, x, y, width, height)
	src := image.NewUniform(col)
	c.paint(dr, func(dst *image.RGBA, r image.Rectangle) {
		if pr, ok := pixelAlignedRect(&m, x, y, width, height); ok {
			draw.Draw(dst.SubImage(r).(*image.RGBA), pr, src, image.Point{}, draw.Over)
			return
		}
		z := c.rasterizer(r.Dx(), r.Dy())
		ox, oy := float64(r.Min.X), float64(r.Min.Y)
		p0 := m.TransformPoint(x, y)
		p1 := m.TransformPoint(x+width, y)
		p2 := m.TransformPoint(x+width, y+height)
		p3 := m.TransformPoint(x, y+height)
		z.MoveTo(float32(p0.X-ox), float32(p0.Y-oy))
		z.LineTo(float32(p1.X-ox), float32(p1.Y-oy))
		z.LineTo(float32(p2.X-ox), float32(p2.Y-oy))
		z.LineTo(float32(p3.X-ox), float32(p3.Y-oy))
		z.ClosePath()
		z.Draw(dst, r, src, image.Point{})
	})
}

// DrawVector runs fn against a gg drawing context whose transform matches the
// canvas transform, then composites the result with the current alpha,
// shadow and clip. Paths must be filled or stroked inside fn, and must stay
// inside the local rectangle bounds; anything outside it may be lost.
func (c *Canvas) DrawVector(bounds Rect, fn func(dc *gg.Context)) {
	m := c.state.m
	if m.A*m.D-m.B*m.C == 0 || bounds.Width <= 0 || bounds.Height <= 0 {
		return
	}
	full := deviceBounds(&m, bounds.X, bounds.Y, bounds.Width, bounds.Height).Inset(-1)
	c.paint(full, func(dst *image.RGBA, r image.Rectangle) {
		dc, view := c.vectorContext(r.Dx(), r.Dy())
		dc.ClearPath()
		dc.SetTransform(gg.Matrix{
			A: m.A, B: m.C, C: m.Tx - float64(r.Min.X),
			D: m.B, E: m.D, F: m.Ty - float64(r.Min.Y),
		})
		fn(dc)
		draw.Draw(dst, r, view, image.Point{}, draw.Over)
		// The parts of full clipped away from r were drawn too.
		dirty := full.Sub(r.Min).Intersect(view.Rect)
		draw.Draw(view, dirty, image.Transparent, image.Point{}, draw.Src)
	})
}

// paint composites one drawing operation covering device rectangle dr.
// fn draws into dst restricted to r. Without shadow and with full alpha fn
// draws straight into the canvas; otherwise it draws into a scratch layer
// that is then composited, shadow first.
func (c *Canvas) paint(dr image.Rectangle, fn func(dst *image.RGBA, r image.Rectangle)) {
	alpha := c.state.m.Alpha
	shadow := c.state.m.Shadow
	if c.hit {
		alpha = 1
		shadow = nil
	}
	if alpha <= 0 {
		return
	}
	if shadow != nil && shadow.Color == nil {
		shadow = nil
	}
	dr = dr.Intersect(c.img.Rect)
	if dr.Empty() {
		return
	}
	clip := c.state.clip

	if shadow == nil && alpha >= 1 {
		r := dr.Intersect(clip)
		if r.Empty() {
			return
		}
		fn(c.img, r)
		return
	}

	layer := c.layerFor(dr)
	fn(layer, dr)

	if shadow != nil {
		off := image.Pt(int(math.Round(shadow.OffsetX)), int(math.Round(shadow.OffsetY)))
		sr := dr.Add(off).Intersect(clip)
		if !sr.Empty() {
			sc := image.NewUniform(scaleAlpha(shadow.Color, math.Min(alpha, 1)))
			draw.DrawMask(c.img, sr, sc, image.Point{}, layer, sr.Min.Sub(off), draw.Over)
		}
	}

	r := dr.Intersect(clip)
	if r.Empty() {
		return
	}
	if alpha >= 1 {
		draw.Draw(c.img, r, layer, r.Min, draw.Over)
		return
	}
	mask := image.NewUniform(color.Alpha16{A: uint16(alpha * 0xffff)})
	draw.DrawMask(c.img, r, layer, r.Min, mask, image.Point{}, draw.Over)
}

// layerFor returns the scratch layer with dr cleared.
func (c *Canvas) layerFor(dr image.Rectangle) *image.RGBA {
	if c.layer == nil || c.layer.Rect != c.img.Rect {
		c.layer = image.NewRGBA(c.img.Rect)
	} else {
		draw.Draw(c.layer, dr, image.Transparent, image.Point{}, draw.Src)
	}
	return c.layer
}

func (c *Canvas) rasterizer(w, h int) *vector.Rasterizer {
	if c.raster == nil {
		c.raster = vector.NewRasterizer(w, h)
	} else {
		c.raster.Reset(w, h)
	}
	c.raster.DrawOp = draw.Over
	return c.raster
}

// vectorContext returns the scratch gg context, at least w×h, and an RGBA
// view of its pixels. The context only grows and is kept transparent between
// draws.
func (c *Canvas) vectorContext(w, h int) (*gg.Context, *image.RGBA) {
	if c.vec != nil && c.vec.Width() >= w && c.vec.Height() >= h {
		return c.vec, c.vecView
	}
	if c.vec != nil {
		w, h = max(w, c.vec.Width()), max(h, c.vec.Height())
	}
	c.vec = gg.NewContext(w, h)
	pm := c.vec.ResizeTarget()
	c.vecView = &image.RGBA{Pix: pm.Data(), Stride: 4 * pm.Width(), Rect: image.Rect(0, 0, pm.Width(), pm.Height())}
	return c.vec, c.vecView
}

// deviceBounds returns the pixel rectangle covering the local rectangle
// (x, y, w, h) under m.
func deviceBounds(m *Matrix, x, y, w, h float64) image.Rectangle {
	p0 := m.TransformPoint(x, y)
	p1 := m.TransformPoint(x+w, y)
	p2 := m.TransformPoint(x+w, y+h)
	p3 := m.TransformPoint(x, y+h)
	minX := math.Min(math.Min(p0.X, p1.X), math.Min(p2.X, p3.X))
	minY := math.Min(math.Min(p0.Y, p1.Y), math.Min(p2.Y, p3.Y))
	maxX := math.Max(math.Max(p0.X, p1.X), math.Max(p2.X, p3.X))
	maxY := math.Max(math.Max(p0.Y, p1.Y), math.Max(p2.Y, p3.Y))
	if math.IsNaN(minX+minY+maxX+maxY) || math.IsInf(minX+minY+maxX+maxY, 0) {
		return image.Rectangle{}
	}
	return image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX)), int(math.Ceil(maxY)))
}

// integerOffset reports whether m is a whole-pixel translation once the local
// offset (x, y) is applied, returning the device position of (x, y).
func integerOffset(m *Matrix, x, y float64) (int, int, bool) {
	if m.A != 1 || m.B != 0 || m.C != 0 || m.D != 1 {
		return 0, 0, false
	}
	ox, oy := x+m.Tx, y+m.Ty
	if ox != math.Trunc(ox) || oy != math.Trunc(oy) {
		return 0, 0, false
	}
	return int(ox), int(oy), true
}

// pixelAlignedRect reports whether the local rectangle maps to whole pixels
// under an axis-aligned m.
func pixelAlignedRect(m *Matrix, x, y, w, h float64) (image.Rectangle, bool) {
	if m.B != 0 || m.C != 0 {
		return image.Rectangle{}, false
	}
	p0 := m.TransformPoint(x, y)
	p1 := m.TransformPoint(x+w, y+h)
	for _, v := range [...]float64{p0.X, p0.Y, p1.X, p1.Y} {
		if v != math.Trunc(v) {
			return image.Rectangle{}, false
		}
	}
	return image.Rect(int(p0.X), int(p0.Y), int(p1.X), int(p1.Y)), true
}

// scaleAlpha multiplies every premultiplied component of col by a.
func scaleAlpha(col color.Color, a float64) color.Color {
	r, g, b, al := col.RGBA()
	return color.RGBA64{
		R: uint16(float64(r) * a),
		G: uint16(float64(g) * a),
		B: uint16(float64(b) * a),
		A: uint16(float64(al) * a),
	}
}
