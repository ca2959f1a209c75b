package host

import (
	"encoding/json"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/easel"
)

// Stepper is a Pointer that advances itself once per tick, before the pointer
// is polled. A non-nil error from Step ends the loop; ebiten.Termination ends
// it cleanly.
type Stepper interface {
	Pointer
	Step(stage *easel.Stage) error
}

// ScriptStep is a single action in a pointer script.
type ScriptStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

type scriptFile struct {
	Steps []ScriptStep `json:"steps"`
}

type scriptEvent struct {
	x, y float64
	kind easel.PointerKind
}

// Script is a Pointer that replays scripted input, consuming one queued
// pointer event per tick. Actions are "press", "move", "release", "click",
// "drag" (press, interpolated moves, release over Frames ticks), "wait"
// (Frames ticks) and "screenshot" (saves the stage canvas to Dir).
type Script struct {
	// Dir receives screenshots. Empty means "screenshots".
	Dir string
	// ExitWhenDone ends the loop once every step has run.
	ExitWhenDone bool

	steps  []ScriptStep
	cursor int
	wait   int
	queue  []scriptEvent

	x, y              int
	pressed, released bool
}

// LoadScript parses a JSON pointer script:
//
//	{"steps": [{"action": "click", "x": 10, "y": 20}, {"action": "screenshot", "label": "after"}]}
func LoadScript(data []byte) (*Script, error) {
	var f scriptFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range f.Steps {
		switch st.Action {
		case "press", "move", "release", "click", "drag", "wait", "screenshot":
		default:
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &Script{steps: f.Steps}, nil
}

func (s *Script) Position() (int, int) { return s.x, s.y }
func (s *Script) JustPressed() bool    { return s.pressed }
func (s *Script) JustReleased() bool   { return s.released }

// Done reports whether every step has run and every queued event has been
// delivered.
func (s *Script) Done() bool {
	return s.cursor >= len(s.steps) && s.wait == 0 && len(s.queue) == 0
}

// Step runs the next action when nothing is pending and then exposes one
// queued event to the poller. With ExitWhenDone it returns
// ebiten.Termination on the tick after the last event.
func (s *Script) Step(stage *easel.Stage) error {
	s.pressed, s.released = false, false
	if s.ExitWhenDone && s.Done() {
		return ebiten.Termination
	}
	if len(s.queue) == 0 {
		if err := s.advance(stage); err != nil {
			return err
		}
	}
	if len(s.queue) > 0 {
		ev := s.queue[0]
		s.queue = s.queue[1:]
		s.x, s.y = int(ev.x), int(ev.y)
		s.pressed = ev.kind == easel.PointerDown
		s.released = ev.kind == easel.PointerUp
	}
	return nil
}

func (s *Script) advance(stage *easel.Stage) error {
	if s.wait > 0 {
		s.wait--
		return nil
	}
	if s.cursor >= len(s.steps) {
		return nil
	}
	st := s.steps[s.cursor]
	s.cursor++

	switch st.Action {
	case "press":
		s.push(st.X, st.Y, easel.PointerDown)
	case "move":
		s.push(st.X, st.Y, easel.PointerMove)
	case "release":
		s.push(st.X, st.Y, easel.PointerUp)
	case "click":
		s.push(st.X, st.Y, easel.PointerDown)
		s.push(st.X, st.Y, easel.PointerUp)
	case "drag":
		frames := max(st.Frames, 2)
		s.push(st.FromX, st.FromY, easel.PointerDown)
		steps := frames - 2
		for i := 1; i <= steps; i++ {
			t := float64(i) / float64(steps+1)
			s.push(st.FromX+(st.ToX-st.FromX)*t, st.FromY+(st.ToY-st.FromY)*t, easel.PointerMove)
		}
		s.push(st.ToX, st.ToY, easel.PointerUp)
	case "wait":
		if st.Frames > 0 {
			s.wait = st.Frames - 1 // this tick counts as one
		}
	case "screenshot":
		dir := s.Dir
		if dir == "" {
			dir = "screenshots"
		}
		path, err := stage.Screenshot(dir, st.Label)
		if err != nil {
			return fmt.Errorf("script screenshot %q: %w", st.Label, err)
		}
		easel.Logger().Info("screenshot saved", "path", path)
	}
	return nil
}

func (s *Script) push(x, y float64, kind easel.PointerKind) {
	s.queue = append(s.queue, scriptEvent{x: x, y: y, kind: kind})
}
