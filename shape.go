package easel

import (
	"image/color"
	"math"

	"github.com/gogpu/gg"
)

// Shape draws vector graphics described by a Graphics list.
type Shape struct {
	Node

	// Graphics holds the drawing instructions. A nil value draws nothing.
	Graphics *Graphics
}

// NewShape creates a shape drawing g. Pass nil to start with an empty
// Graphics.
func NewShape(name string, g *Graphics) *Shape {
	if g == nil {
		g = NewGraphics()
	}
	s := &Shape{Graphics: g}
	s.init(s, name)
	return s
}

// Draw replays the graphics, or draws the cache when there is one.
func (s *Shape) Draw(c *Canvas, ignoreCache bool) bool {
	if s.drawCache(c, ignoreCache) {
		return true
	}
	if s.Graphics == nil || s.Graphics.IsEmpty() {
		return true
	}
	if b, ok := s.Graphics.Bounds(); ok {
		c.DrawVector(b, s.Graphics.Draw)
	}
	return true
}

func (s *Shape) String() string {
	return s.describe("Shape")
}

// Clone returns a copy sharing the same Graphics, with a new ID and no
// parent.
func (s *Shape) Clone() *Shape {
	o := NewShape(s.Name, s.Graphics)
	o.copyNodeFrom(&s.Node)
	return o
}

// --- Graphics ---

type graphicsOp uint8

const (
	opFill graphicsOp = iota
	opStroke
	opRect
	opRoundRect
	opCircle
	opEllipse
	opMoveTo
	opLineTo
	opClosePath
)

type graphicsCmd struct {
	op   graphicsOp
	args [5]float64
	col  color.Color
}

// Graphics is a recorded list of vector drawing instructions. Shapes added
// after a Fill or Stroke call are painted with that style; a nil color turns
// the style off. Methods return the receiver so calls can be chained:
//
//	g := easel.NewGraphics().Fill(color.White).Rect(0, 0, 40, 20)
type Graphics struct {
	cmds []graphicsCmd
}

// NewGraphics returns an empty instruction list.
func NewGraphics() *Graphics {
	return &Graphics{}
}

func (g *Graphics) add(op graphicsOp, col color.Color, args ...float64) *Graphics {
	cmd := graphicsCmd{op: op, col: col}
	copy(cmd.args[:], args)
	g.cmds = append(g.cmds, cmd)
	return g
}

// Fill sets the fill color for subsequent shapes.
func (g *Graphics) Fill(col color.Color) *Graphics { return g.add(opFill, col) }

// Stroke sets the stroke color and width for subsequent shapes.
func (g *Graphics) Stroke(col color.Color, width float64) *Graphics {
	return g.add(opStroke, col, width)
}

// Rect adds a rectangle.
func (g *Graphics) Rect(x, y, w, h float64) *Graphics { return g.add(opRect, nil, x, y, w, h) }

// RoundRect adds a rectangle with corners of radius r.
func (g *Graphics) RoundRect(x, y, w, h, r float64) *Graphics {
	return g.add(opRoundRect, nil, x, y, w, h, r)
}

// Circle adds a circle centered at (x, y).
func (g *Graphics) Circle(x, y, r float64) *Graphics { return g.add(opCircle, nil, x, y, r) }

// Ellipse adds the ellipse inscribed in the rectangle (x, y, w, h).
func (g *Graphics) Ellipse(x, y, w, h float64) *Graphics { return g.add(opEllipse, nil, x, y, w, h) }

// MoveTo starts a new subpath at (x, y).
func (g *Graphics) MoveTo(x, y float64) *Graphics { return g.add(opMoveTo, nil, x, y) }

// LineTo adds a line from the current point to (x, y).
func (g *Graphics) LineTo(x, y float64) *Graphics { return g.add(opLineTo, nil, x, y) }

// ClosePath closes the current subpath.
func (g *Graphics) ClosePath() *Graphics { return g.add(opClosePath, nil) }

// Clear removes every instruction.
func (g *Graphics) Clear() *Graphics {
	g.cmds = g.cmds[:0]
	return g
}

// IsEmpty reports whether there are no instructions.
func (g *Graphics) IsEmpty() bool {
	return len(g.cmds) == 0
}

// strokeMiterLimit matches the gg default; a mitered join reaches at most
// half of it times the line width past its vertex.
const strokeMiterLimit = 10

// Bounds returns the local rectangle covering every path and stroke. It
// reports false when there is no geometry.
func (g *Graphics) Bounds() (Rect, bool) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	add := func(x0, y0, x1, y1 float64) {
		minX, maxX = math.Min(minX, math.Min(x0, x1)), math.Max(maxX, math.Max(x0, x1))
		minY, maxY = math.Min(minY, math.Min(y0, y1)), math.Max(maxY, math.Max(y0, y1))
	}
	stroke := 0.0
	lines := false
	for i := range g.cmds {
		cmd := &g.cmds[i]
		a := cmd.args
		switch cmd.op {
		case opStroke:
			if cmd.col != nil {
				stroke = math.Max(stroke, a[0])
			}
		case opRect, opRoundRect, opEllipse:
			add(a[0], a[1], a[0]+a[2], a[1]+a[3])
		case opCircle:
			r := math.Abs(a[2])
			add(a[0]-r, a[1]-r, a[0]+r, a[1]+r)
		case opMoveTo, opLineTo:
			add(a[0], a[1], a[0], a[1])
			lines = true
		}
	}
	if minX > maxX || minY > maxY {
		return Rect{}, false
	}
	pad := stroke * math.Sqrt2 / 2
	if lines {
		pad = stroke * strokeMiterLimit / 2
	}
	return Rect{X: minX - pad, Y: minY - pad, Width: maxX - minX + 2*pad, Height: maxY - minY + 2*pad}, true
}

// Draw replays the instructions into dc. The pending path is painted
// whenever the style changes and once at the end.
func (g *Graphics) Draw(dc *gg.Context) {
	var fill, stroke color.Color
	lineWidth := 1.0
	pending := false

	flush := func() {
		if !pending {
			return
		}
		if fill != nil {
			dc.SetColor(fill)
			if err := dc.FillPreserve(); err != nil {
				Logger().Debug("graphics fill failed", "error", err)
			}
		}
		if stroke != nil && lineWidth > 0 {
			dc.SetColor(stroke)
			dc.SetLineWidth(lineWidth)
			if err := dc.StrokePreserve(); err != nil {
				Logger().Debug("graphics stroke failed", "error", err)
			}
		}
		dc.ClearPath()
		pending = false
	}

	for i := range g.cmds {
		cmd := &g.cmds[i]
		a := cmd.args
		switch cmd.op {
		case opFill:
			flush()
			fill = cmd.col
		case opStroke:
			flush()
			stroke = cmd.col
			lineWidth = a[0]
		case opRect:
			dc.DrawRectangle(a[0], a[1], a[2], a[3])
			pending = true
		case opRoundRect:
			dc.DrawRoundedRectangle(a[0], a[1], a[2], a[3], a[4])
			pending = true
		case opCircle:
			dc.DrawCircle(a[0], a[1], a[2])
			pending = true
		case opEllipse:
			dc.DrawEllipse(a[0]+a[2]/2, a[1]+a[3]/2, a[2]/2, a[3]/2)
			pending = true
		case opMoveTo:
			dc.MoveTo(a[0], a[1])
			pending = true
		case opLineTo:
			dc.LineTo(a[0], a[1])
			pending = true
		case opClosePath:
			dc.ClosePath()
		}
	}
	flush()
}
