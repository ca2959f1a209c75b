package easel

import (
	"image"
	"math"
)

// ObjectsUnderPoint returns every mouse-enabled, visible display object that
// draws an opaque pixel at (x, y) in canvas coordinates, topmost first.
// Containers are descended unless their MouseChildren is false, in which case
// the container itself is reported.
//
// Each candidate is rendered offscreen, so this is expensive; call it at most
// once per tick. Without a canvas the result is empty.
func (s *Stage) ObjectsUnderPoint(x, y float64) []DisplayObject {
	return s.objectsUnderPoint(x, y, true)
}

// ObjectUnderPoint returns the topmost display object at (x, y), or nil. See
// ObjectsUnderPoint.
func (s *Stage) ObjectUnderPoint(x, y float64) DisplayObject {
	hits := s.objectsUnderPoint(x, y, false)
	if len(hits) == 0 {
		return nil
	}
	return hits[0]
}

func (s *Stage) objectsUnderPoint(x, y float64, all bool) []DisplayObject {
	if s.canvas == nil {
		return nil
	}
	if s.hitTesting {
		panic("easel: hit test started during another hit test")
	}
	s.hitTesting = true
	defer func() { s.hitTesting = false }()

	hc := s.hitCanvas()
	px, py := int(math.Floor(x)), int(math.Floor(y))
	pt := image.Rect(px, py, px+1, py+1)
	if !pt.In(hc.Bounds()) {
		return nil
	}

	hc.SetHitTestMode(true)
	hc.Save()
	hc.Clip(pt)
	defer func() {
		hc.Restore()
		hc.SetHitTestMode(false)
	}()

	h := hitQuery{canvas: hc, px: px, py: py, all: all}
	h.descend(&s.Container)
	return h.hits
}

// hitCanvas returns the offscreen canvas, sized to the stage canvas.
func (s *Stage) hitCanvas() *Canvas {
	w, h := s.canvas.Width(), s.canvas.Height()
	if s.hit == nil {
		s.hit = NewCanvas(w, h)
		Logger().Debug("hit canvas allocated", "stage", s.ID, "width", w, "height", h)
	} else if s.hit.Width() != w || s.hit.Height() != h {
		s.hit.Resize(w, h)
		Logger().Debug("hit canvas resized", "stage", s.ID, "width", w, "height", h)
	}
	return s.hit
}

type hitQuery struct {
	canvas *Canvas
	px, py int
	all    bool
	hits   []DisplayObject
	m      Matrix
}

// descend tests the children of ct front to back. It reports true once a
// hit ends the query.
func (h *hitQuery) descend(ct *Container) bool {
	for i := len(ct.children) - 1; i >= 0; i-- {
		child := ct.children[i]
		cn := child.base()
		if !cn.IsVisible() || !cn.MouseEnabled {
			continue
		}
		if sub, ok := child.(*Container); ok && sub.MouseChildren {
			if h.descend(sub) {
				return true
			}
			continue
		}
		if h.test(child) {
			h.hits = append(h.hits, child)
			if !h.all {
				return true
			}
		}
	}
	return false
}

// test renders d alone at its stage transform and samples the query pixel.
func (h *hitQuery) test(d DisplayObject) bool {
	m := d.base().GetConcatenatedMatrix(&h.m)
	if m == nil {
		return false
	}
	c := h.canvas
	c.ClearRect(h.px, h.py, 1, 1)
	c.Save()
	c.SetTransform(m.A, m.B, m.C, m.D, m.Tx, m.Ty)
	d.Draw(c, true)
	c.Restore()
	return c.At(h.px, h.py).A > 0
}
