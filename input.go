package easel

import (
	"slices"
	"sync"
)

// --- Global release listeners ---

// releaseListeners holds every open stage. A pointer release anywhere in the
// page must reach each of them so that a press started on a canvas can end
// outside it.
var releaseListeners struct {
	sync.Mutex
	stages []*Stage
}

func registerReleaseListener(s *Stage) {
	releaseListeners.Lock()
	defer releaseListeners.Unlock()
	releaseListeners.stages = append(releaseListeners.stages, s)
}

func unregisterReleaseListener(s *Stage) {
	releaseListeners.Lock()
	defer releaseListeners.Unlock()
	releaseListeners.stages = slices.DeleteFunc(releaseListeners.stages, func(o *Stage) bool {
		return o == s
	})
}

// HandleGlobalPointerUp delivers a pointer release at page coordinates to
// every stage that has not been closed. Hosts call it for releases anywhere,
// not just over a canvas.
func HandleGlobalPointerUp(pageX, pageY float64) {
	releaseListeners.Lock()
	stages := slices.Clone(releaseListeners.stages)
	releaseListeners.Unlock()
	for _, s := range stages {
		s.HandlePointerUp(pageX, pageY)
	}
}

// --- Pointer capture ---

// HandlePointerMove records a pointer move at page coordinates and notifies
// the stage and its Active node.
func (s *Stage) HandlePointerMove(pageX, pageY float64) {
	s.handlePointer(PointerMove, pageX, pageY)
}

// HandlePointerDown records a pointer press at page coordinates and notifies
// the stage and its Active node.
func (s *Stage) HandlePointerDown(pageX, pageY float64) {
	s.handlePointer(PointerDown, pageX, pageY)
}

// HandlePointerUp records a pointer release at page coordinates and notifies
// the stage and its Active node.
func (s *Stage) HandlePointerUp(pageX, pageY float64) {
	s.handlePointer(PointerUp, pageX, pageY)
}

// Mouse returns the last pointer position that fell inside the canvas. It
// reports false when no such position is known or the stage has no canvas.
func (s *Stage) Mouse() (Point, bool) {
	return s.mouse, s.mouseKnown
}

// MouseInBounds reports whether the most recent pointer event fell inside
// the canvas.
func (s *Stage) MouseInBounds() bool {
	return s.mouseInBounds
}

func (s *Stage) handlePointer(kind PointerKind, pageX, pageY float64) {
	e := s.updatePointer(kind, pageX, pageY)

	var fn func(PointerEvent)
	switch kind {
	case PointerMove:
		fn = s.OnPointerMove
	case PointerDown:
		fn = s.OnPointerDown
	case PointerUp:
		fn = s.OnPointerUp
	}
	if fn != nil {
		fn(e)
	}

	if s.Active == nil || s.Active == DisplayObject(s) {
		return
	}
	a := s.Active.base()
	switch kind {
	case PointerMove:
		fn = a.OnPointerMove
	case PointerDown:
		fn = a.OnPointerDown
	case PointerUp:
		fn = a.OnPointerUp
	}
	if fn != nil {
		fn(e)
	}
}

// updatePointer converts page coordinates to canvas coordinates and updates
// the recorded mouse state.
func (s *Stage) updatePointer(kind PointerKind, pageX, pageY float64) PointerEvent {
	e := PointerEvent{Kind: kind}
	if s.canvas == nil {
		s.mouseKnown = false
		s.mouseInBounds = false
		return e
	}
	e.X = pageX - s.Offset.X
	e.Y = pageY - s.Offset.Y
	w, h := float64(s.canvas.Width()), float64(s.canvas.Height())
	e.InBounds = e.X >= 0 && e.Y >= 0 && e.X < w && e.Y < h
	s.mouseInBounds = e.InBounds
	if e.InBounds {
		s.mouse = Point{X: e.X, Y: e.Y}
		s.mouseKnown = true
	}
	return e
}
