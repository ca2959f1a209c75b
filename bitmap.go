package easel

import "image"

// Bitmap draws an image with its top-left corner at the local origin.
type Bitmap struct {
	Node

	// Image is the source image. A nil Image draws nothing.
	Image image.Image

	// SourceRect selects a region of Image to draw. The zero rectangle
	// draws the whole image.
	SourceRect image.Rectangle
}

// NewBitmap creates a bitmap for img.
func NewBitmap(name string, img image.Image) *Bitmap {
	b := &Bitmap{Image: img}
	b.init(b, name)
	return b
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// Draw draws the image, or the cache when there is one.
func (b *Bitmap) Draw(c *Canvas, ignoreCache bool) bool {
	if b.drawCache(c, ignoreCache) {
		return true
	}
	img := b.Image
	if img == nil {
		return true
	}
	if !b.SourceRect.Empty() {
		si, ok := img.(subImager)
		if !ok {
			return true
		}
		img = si.SubImage(b.SourceRect)
	}
	c.DrawImage(img, 0, 0)
	return true
}

// Bounds returns the local rectangle covered by the bitmap.
func (b *Bitmap) Bounds() Rect {
	r := b.SourceRect
	if r.Empty() {
		if b.Image == nil {
			return Rect{}
		}
		r = b.Image.Bounds()
	}
	return Rect{Width: float64(r.Dx()), Height: float64(r.Dy())}
}

func (b *Bitmap) String() string {
	return b.describe("Bitmap")
}

// Clone returns a copy sharing the same image, with a new ID and no parent.
func (b *Bitmap) Clone() *Bitmap {
	o := NewBitmap(b.Name, b.Image)
	o.copyNodeFrom(&b.Node)
	o.SourceRect = b.SourceRect
	return o
}
