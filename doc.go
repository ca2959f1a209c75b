// Package easel is a retained-mode 2D scene graph rendered on the CPU.
//
// Easel keeps a tree of display objects, composes their transforms, renders
// them into a raster [Canvas], finds which objects lie under a pointer by
// pixel picking, and caches subtrees as bitmaps.
//
// # Quick start
//
// Create a [Stage] bound to a canvas, add objects, and call [Stage.Render]
// once per tick from whatever drives your program:
//
//	stage := easel.NewStage(easel.NewCanvas(640, 480))
//
//	box := easel.NewShape("box", easel.NewGraphics().
//		Fill(color.RGBA{0x33, 0x99, 0xff, 0xff}).
//		Rect(0, 0, 80, 40))
//	box.X, box.Y = 100, 50
//	stage.AddChild(box)
//
//	stage.Render()
//
// The host package opens an [Ebitengine] window around a stage and feeds it
// pointer input.
//
// # Display list
//
// Every object embeds a [Node] holding its local transform (X, Y, ScaleX,
// ScaleY, Rotation in degrees, RegX, RegY), Alpha, Visible and Shadow.
// [Container] groups objects; children are drawn in order and inherit the
// container's transform, alpha and shadow. [Bitmap] draws an image and
// [Shape] draws vector [Graphics] through [gg].
//
// # Coordinates
//
// [Node.LocalToGlobal], [Node.GlobalToLocal] and [Node.LocalToLocal]
// convert points between a node's space and the stage's. They report false
// when the node is not on a stage.
//
// # Caching
//
// [Node.Cache] renders a node into its own canvas once; later renders blit
// that canvas. The cache is never refreshed automatically: call Cache again
// after changing the node, or [Node.Uncache] to draw live.
//
// # Hit testing
//
// [Stage.ObjectsUnderPoint] and [Stage.ObjectUnderPoint] render each
// candidate into an offscreen canvas and sample one pixel, so results
// follow the drawn shape rather than a bounding box. Nodes with
// MouseEnabled false are ignored, and a container with MouseChildren false
// is reported in place of its children.
//
// # Pointer input
//
// Hosts call [Stage.HandlePointerMove], [Stage.HandlePointerDown] and
// [HandleGlobalPointerUp]. The stage's callbacks run first, then those of
// [Stage.Active].
//
// # Export
//
// [Stage.ToImage] encodes the canvas as a data URL in PNG, JPEG, BMP or
// TIFF, optionally over a background color.
//
// [Ebitengine]: https://ebitengine.org
// [gg]: https://github.com/gogpu/gg
package easel
