package easel

import "fmt"

// DisplayObject is anything that can be placed in the display list. The set
// of implementations is closed: [*Bitmap], [*Shape], [*Container] and
// [*Stage].
type DisplayObject interface {
	// Draw renders the object into c using the transform, alpha and shadow
	// already applied to c. When ignoreCache is false and the object is
	// cached, the cache is drawn instead. It reports whether the object
	// was handled.
	Draw(c *Canvas, ignoreCache bool) bool
	String() string

	base() *Node
}

// Node holds the state shared by every display object: identity, local
// transform, visibility, parent link, cache and pointer callbacks. It is
// embedded in each concrete type and is never used on its own.
type Node struct {
	// Identity
	ID   uint32
	Name string

	// Transform (local). Rotation is in degrees, clockwise.
	X, Y     float64
	ScaleX   float64
	ScaleY   float64
	Rotation float64
	RegX     float64
	RegY     float64

	// Visibility & interaction
	Alpha        float64
	Visible      bool
	Shadow       *Shadow
	MouseEnabled bool

	// Per-node callbacks, invoked by the stage while this node is its
	// Active target.
	OnPointerDown func(PointerEvent)
	OnPointerUp   func(PointerEvent)
	OnPointerMove func(PointerEvent)

	parent *Container
	self   DisplayObject

	cache        *Canvas
	cacheOffsetX float64
	cacheOffsetY float64
}

// init sets the common defaults shared by all constructors.
func (n *Node) init(self DisplayObject, name string) {
	n.ID = NextUID()
	n.Name = name
	n.ScaleX = 1
	n.ScaleY = 1
	n.Alpha = 1
	n.Visible = true
	n.MouseEnabled = true
	n.self = self
}

func (n *Node) base() *Node { return n }

// NodeOf returns the Node embedded in d, or nil for a nil d.
func NodeOf(d DisplayObject) *Node {
	if d == nil {
		return nil
	}
	return d.base()
}

// display returns the concrete object that embeds n.
func (n *Node) display() DisplayObject {
	if n.self == nil {
		panic("easel: node used without a constructor")
	}
	return n.self
}

// Parent returns the container holding this node, or nil.
func (n *Node) Parent() *Container {
	return n.parent
}

// parentNode returns the parent's embedded Node, or nil at the top.
func (n *Node) parentNode() *Node {
	if n.parent == nil {
		return nil
	}
	return &n.parent.Node
}

// Stage returns the stage at the top of this node's parent chain, or nil when
// the node is not on a stage.
func (n *Node) Stage() *Stage {
	top := n
	for p := n.parentNode(); p != nil; p = p.parentNode() {
		top = p
	}
	s, _ := top.self.(*Stage)
	return s
}

// IsVisible reports whether the node would draw anything: it is Visible, its
// Alpha is positive, and neither scale factor is zero.
func (n *Node) IsVisible() bool {
	return n.Visible && n.Alpha > 0 && n.ScaleX != 0 && n.ScaleY != 0
}

// SetTransform sets the common transform fields in one call.
func (n *Node) SetTransform(x, y, scaleX, scaleY, rotation, regX, regY float64) {
	n.X, n.Y = x, y
	n.ScaleX, n.ScaleY = scaleX, scaleY
	n.Rotation = rotation
	n.RegX, n.RegY = regX, regY
}

// applyContext pushes this node's local transform, alpha and shadow onto c.
func (n *Node) applyContext(c *Canvas) {
	c.Transform(localTransform(n.X, n.Y, n.ScaleX, n.ScaleY, n.Rotation, n.RegX, n.RegY))
	c.SetGlobalAlpha(c.GlobalAlpha() * n.Alpha)
	if n.Shadow != nil {
		c.SetShadow(n.Shadow)
	}
}

// copyNodeFrom copies the public properties of o into n. Identity, parent,
// cache and callbacks are not copied.
func (n *Node) copyNodeFrom(o *Node) {
	n.Name = o.Name
	n.X, n.Y = o.X, o.Y
	n.ScaleX, n.ScaleY = o.ScaleX, o.ScaleY
	n.Rotation = o.Rotation
	n.RegX, n.RegY = o.RegX, o.RegY
	n.Alpha = o.Alpha
	n.Visible = o.Visible
	n.Shadow = o.Shadow
	n.MouseEnabled = o.MouseEnabled
}

// describe formats the String output shared by all variants.
func (n *Node) describe(kind string) string {
	if n.Name == "" {
		return fmt.Sprintf("[%s (id=%d)]", kind, n.ID)
	}
	return fmt.Sprintf("[%s %q (id=%d)]", kind, n.Name, n.ID)
}

// --- Local hit test ---

// hitCanvas is the 1×1 surface shared by Node.HitTest calls. A call made
// while another one is drawing gets a canvas of its own.
var (
	hitCanvas     = NewCanvas(1, 1)
	hitCanvasBusy bool
)

// HitTest reports whether the node draws an opaque pixel at the local point
// (x, y). Alpha, shadow and any cache are ignored; the node's own transform
// is not applied.
//
// HitTest is not safe for concurrent use: calls share one package-level
// canvas. Nested calls on the same goroutine are fine.
func (n *Node) HitTest(x, y float64) bool {
	c := hitCanvas
	if hitCanvasBusy {
		c = NewCanvas(1, 1)
	} else {
		hitCanvasBusy = true
		defer func() { hitCanvasBusy = false }()
	}
	c.Clear()
	c.SetHitTestMode(true)
	depth := c.SaveDepth()
	defer func() {
		c.restoreTo(depth)
		c.SetHitTestMode(false)
	}()
	c.Save()
	c.SetTransform(1, 0, 0, 1, -x, -y)
	n.display().Draw(c, true)
	return c.At(0, 0).A > 0
}
