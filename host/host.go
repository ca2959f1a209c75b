// Package host runs an easel stage inside an ebiten window.
//
// The stage renders into its own software canvas; the host polls the mouse,
// forwards pointer input to the stage, calls the tick callback, renders, and
// uploads the canvas pixels to the screen each frame.
//
//	stage := easel.NewStage(easel.NewCanvas(640, 480))
//	// ... add nodes ...
//	host.Run(stage, host.RunConfig{Title: "Demo"})
package host

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/easel"
)

const (
	defaultWidth  = 640
	defaultHeight = 480
)

// RunConfig configures the window and loop created by [Run].
type RunConfig struct {
	Title         string
	Width, Height int
	// TPS is the tick rate. Zero uses ebiten's default of 60.
	TPS int
	// ClearColor fills the screen behind the canvas. Nil leaves it black.
	ClearColor color.Color
	// ShowFPS draws the frame and tick rates over the canvas.
	ShowFPS bool
	// OnTick is called once per tick, after input and before Render, with
	// the tick duration in seconds.
	OnTick func(dt float64)
	// Pointer overrides the mouse as the input source. A Stepper is
	// stepped at the start of every tick.
	Pointer Pointer
}

// Pointer is a polled pointer device.
type Pointer interface {
	Position() (x, y int)
	JustPressed() bool
	JustReleased() bool
}

// Mouse is the left mouse button of the ebiten window.
type Mouse struct{}

func (Mouse) Position() (x, y int) { return ebiten.CursorPosition() }

func (Mouse) JustPressed() bool {
	return inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
}

func (Mouse) JustReleased() bool {
	return inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)
}

// Run opens a window sized to the stage canvas and drives the stage until the
// window closes. A stage without a canvas gets one of the configured size.
func Run(stage *easel.Stage, cfg RunConfig) error {
	g := newGame(stage, cfg)
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(g.width, g.height)
	ebiten.SetTPS(g.tps)
	return ebiten.RunGame(g)
}

// game implements ebiten.Game around a stage.
type game struct {
	stage   *easel.Stage
	cfg     RunConfig
	pointer Pointer
	tps     int

	width, height int
	frame         *ebiten.Image

	lastX, lastY int
	seen         bool
}

func newGame(stage *easel.Stage, cfg RunConfig) *game {
	g := &game{stage: stage, cfg: cfg, pointer: cfg.Pointer, tps: cfg.TPS}
	if g.pointer == nil {
		g.pointer = Mouse{}
	}
	if g.tps <= 0 {
		g.tps = ebiten.DefaultTPS
	}

	c := stage.Canvas()
	switch {
	case cfg.Width > 0 && cfg.Height > 0:
		g.width, g.height = cfg.Width, cfg.Height
	case c != nil:
		g.width, g.height = c.Width(), c.Height()
	default:
		g.width, g.height = defaultWidth, defaultHeight
	}
	if c == nil {
		stage.SetCanvas(easel.NewCanvas(g.width, g.height))
	}
	return g
}

func (g *game) Update() error {
	if st, ok := g.pointer.(Stepper); ok {
		if err := st.Step(g.stage); err != nil {
			return err
		}
	}
	g.pollPointer()
	if g.cfg.OnTick != nil {
		g.cfg.OnTick(1 / float64(g.tps))
	}
	g.stage.Render()
	return nil
}

// pollPointer turns the polled pointer state into stage events. Moves are
// reported only when the position changes; releases go to every stage so a
// drag that ends elsewhere still completes.
func (g *game) pollPointer() {
	x, y := g.pointer.Position()
	fx, fy := float64(x), float64(y)
	if !g.seen || x != g.lastX || y != g.lastY {
		g.lastX, g.lastY, g.seen = x, y, true
		g.stage.HandlePointerMove(fx, fy)
	}
	if g.pointer.JustPressed() {
		g.stage.HandlePointerDown(fx, fy)
	}
	if g.pointer.JustReleased() {
		easel.HandleGlobalPointerUp(fx, fy)
	}
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.cfg.ClearColor != nil {
		screen.Fill(g.cfg.ClearColor)
	}
	c := g.stage.Canvas()
	if c == nil || c.Width() == 0 || c.Height() == 0 {
		return
	}
	if g.frame == nil || g.frame.Bounds() != c.Bounds() {
		if g.frame != nil {
			g.frame.Deallocate()
		}
		g.frame = ebiten.NewImage(c.Width(), c.Height())
	}
	g.frame.WritePixels(c.Image().Pix)
	screen.DrawImage(g.frame, nil)
	if g.cfg.ShowFPS {
		ebitenutil.DebugPrint(screen, fpsText())
	}
}

func fpsText() string {
	return fmt.Sprintf("FPS: %.1f  TPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS())
}

func (g *game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}
