package easel

import (
	"errors"
	"fmt"
	"image/color"
)

// Point is a 2D position. Coordinate conversion methods return Points.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Shadow is a drop shadow applied to everything drawn while it is active.
// Shadows are opaque values: the engine never mutates one it is handed.
type Shadow struct {
	Color   color.Color
	OffsetX float64
	OffsetY float64
}

// NewShadow returns a shadow with the given color and offset.
func NewShadow(c color.Color, offsetX, offsetY float64) *Shadow {
	return &Shadow{Color: c, OffsetX: offsetX, OffsetY: offsetY}
}

func (s *Shadow) String() string {
	if s == nil {
		return "<nil shadow>"
	}
	return fmt.Sprintf("[Shadow %v (%g, %g)]", s.Color, s.OffsetX, s.OffsetY)
}

// PointerKind identifies a kind of pointer event.
type PointerKind uint8

const (
	PointerMove PointerKind = iota // fires when the pointer moves over the canvas
	PointerDown                    // fires when a pointer button is pressed on the canvas
	PointerUp                      // fires when a pointer button is released anywhere
)

func (k PointerKind) String() string {
	switch k {
	case PointerMove:
		return "move"
	case PointerDown:
		return "down"
	case PointerUp:
		return "up"
	default:
		return "unknown"
	}
}

// PointerEvent is handed to pointer callbacks. X and Y are canvas-relative.
// InBounds is false when the stage has no canvas (X and Y are then zero) or
// the pointer lies outside the canvas.
type PointerEvent struct {
	Kind     PointerKind
	X, Y     float64
	InBounds bool
}

var (
	// ErrSingularMatrix is returned by Matrix.Invert for a zero determinant.
	ErrSingularMatrix = errors.New("easel: singular matrix")
	// ErrInvalidCacheSize is returned by Cache for a non-positive width or height.
	ErrInvalidCacheSize = errors.New("easel: cache size must be positive")
	// ErrNoCanvas is returned by export operations on a stage without a canvas.
	ErrNoCanvas = errors.New("easel: no canvas bound")
	// ErrUnsupportedColor is returned when a color string cannot be parsed.
	ErrUnsupportedColor = errors.New("easel: unsupported color")
)
