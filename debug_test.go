package easel

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// captureLog routes the package logger into a buffer for the duration of
// the test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { SetLogger(nil) })
	return &buf
}

func TestDebugRenderStats(t *testing.T) {
	buf := captureLog(t)
	s := newTestStage(t, 4, 4)
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)

	group := NewContainer("group")
	group.AddChild(NewBitmap("a", nil))
	group.AddChild(NewBitmap("b", nil))
	s.AddChild(group)
	s.Render()

	out := buf.String()
	if !strings.Contains(out, "msg=render") {
		t.Fatalf("log = %q, want a render record", out)
	}
	if !strings.Contains(out, "nodes=4") || !strings.Contains(out, "depth=3") {
		t.Errorf("log = %q, want nodes=4 depth=3", out)
	}
}

func TestDebugOffIsSilent(t *testing.T) {
	buf := captureLog(t)
	s := newTestStage(t, 4, 4)
	s.Render()
	if strings.Contains(buf.String(), "msg=render") {
		t.Errorf("render logged with debug mode off: %q", buf.String())
	}
}

func TestDebugCheckTreeDepth(t *testing.T) {
	buf := captureLog(t)
	root := NewContainer("root")
	cur := root
	for i := 0; i < debugMaxTreeDepth+1; i++ {
		next := NewContainer("deep")
		cur.AddChild(next)
		cur = next
	}
	debugCheckTreeDepth(&cur.Node)
	if !strings.Contains(buf.String(), "tree depth exceeds threshold") {
		t.Errorf("log = %q, want depth warning", buf.String())
	}
}

func TestDebugCheckChildCount(t *testing.T) {
	buf := captureLog(t)
	p := NewContainer("wide")
	for i := 0; i <= debugMaxChildCount; i++ {
		p.AddChild(NewBitmap("", nil))
	}
	debugCheckChildCount(p)
	if !strings.Contains(buf.String(), "child count exceeds threshold") {
		t.Errorf("log = %q, want child count warning", buf.String())
	}
}

func TestCountNodes(t *testing.T) {
	s := newTestStage(t, 1, 1)
	if n, d := countNodes(&s.Container, 1); n != 1 || d != 1 {
		t.Errorf("empty stage = (%d, %d), want (1, 1)", n, d)
	}
	s.AddChild(NewShape("", nil))
	if n, d := countNodes(&s.Container, 1); n != 2 || d != 2 {
		t.Errorf("one child = (%d, %d), want (2, 2)", n, d)
	}
}

func TestSetLoggerNilRestoresSilence(t *testing.T) {
	SetLogger(slog.Default())
	SetLogger(nil)
	if Logger().Enabled(t.Context(), slog.LevelError) {
		t.Error("default logger is enabled")
	}
}
