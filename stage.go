package easel

import (
	"time"
)

// Stage is the root of a display list. It is bound to a Canvas, renders the
// whole tree into it on Render, answers hit-test queries, and receives
// pointer input from the host.
//
// The pointer callbacks inherited from Node (OnPointerMove, OnPointerDown,
// OnPointerUp) receive every pointer event the stage handles.
type Stage struct {
	Container

	// AutoClear clears the canvas at the start of each Render. Default true.
	AutoClear bool

	// Offset is the canvas position in page coordinates. It is subtracted
	// from pointer positions passed to the Handle methods.
	Offset Point

	// Active is the node that receives pointer callbacks after the stage.
	// The engine never sets it.
	Active DisplayObject

	canvas     *Canvas
	hit        *Canvas
	rendering  bool
	hitTesting bool
	debug      bool

	mouse         Point
	mouseKnown    bool
	mouseInBounds bool
}

// NewStage creates a stage drawing into canvas, which may be nil and bound
// later with SetCanvas. The stage receives global pointer releases until
// Close is called, and the release registry keeps it and its whole tree
// reachable until then.
func NewStage(canvas *Canvas) *Stage {
	s := &Stage{AutoClear: true, canvas: canvas}
	s.MouseChildren = true
	s.init(s, "stage")
	registerReleaseListener(s)
	return s
}

// Canvas returns the bound canvas, or nil.
func (s *Stage) Canvas() *Canvas {
	return s.canvas
}

// SetCanvas binds the stage to c. Pass nil to unbind.
func (s *Stage) SetCanvas(c *Canvas) {
	s.canvas = c
}

// Render draws the display list into the canvas. It is a no-op without a
// canvas and panics if called from inside another Render on the same stage.
func (s *Stage) Render() {
	c := s.canvas
	if c == nil {
		return
	}
	if s.rendering {
		panic("easel: Render called during Render")
	}
	s.rendering = true
	defer func() { s.rendering = false }()

	var start time.Time
	if s.debug {
		start = time.Now()
	}

	if s.AutoClear {
		c.Clear()
	}
	depth := c.SaveDepth()
	c.Save()
	defer c.restoreTo(depth)
	s.applyContext(c)
	s.Draw(c, false)

	if s.debug {
		s.debugLog(time.Since(start))
	}
}

// Clear makes the whole canvas transparent, regardless of the current
// transform. No-op without a canvas.
func (s *Stage) Clear() {
	if s.canvas == nil {
		return
	}
	s.canvas.Clear()
}

// Close stops the stage from receiving global pointer releases.
func (s *Stage) Close() {
	unregisterReleaseListener(s)
}

// SetDebugMode enables or disables debug mode. When enabled, Render logs its
// timing and node count, and tree operations warn about excessive depth and
// child counts.
func (s *Stage) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

// globalDebug mirrors the most recently set Stage debug flag so that tree
// operations (which lack a Stage pointer) can check it cheaply. Only valid
// with a single Stage; multiple Stages with differing debug modes will
// reflect whichever called SetDebugMode last.
var globalDebug bool

func (s *Stage) String() string {
	return s.describe("Stage")
}
