// Package scenefile loads YAML scene descriptions and builds easel stages
// from them.
//
// A scene file looks like:
//
//	width: 200
//	height: 120
//	background: "#202020"
//	nodes:
//	  - kind: rect
//	    name: panel
//	    x: 10
//	    y: 10
//	    width: 80
//	    height: 40
//	    fill: steelblue
//	  - kind: container
//	    name: group
//	    x: 100
//	    mouseChildren: false
//	    children:
//	      - kind: ellipse
//	        width: 30
//	        height: 30
//	        fill: "#ff000080"
package scenefile

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	"gopkg.in/yaml.v3"

	"github.com/phanxgames/easel"
)

// Node kinds.
const (
	KindRect      = "rect"
	KindEllipse   = "ellipse"
	KindImage     = "image"
	KindContainer = "container"
)

// Scene is the top-level structure of a scene file.
type Scene struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// Background is the export background color. Empty means transparent.
	Background string `yaml:"background,omitempty"`

	Nodes []Node `yaml:"nodes"`

	// dir resolves relative image paths.
	dir string
}

// Node describes one display object. Pointer fields distinguish "absent"
// from a zero value so the engine defaults survive.
type Node struct {
	Kind string `yaml:"kind"`
	Name string `yaml:"name,omitempty"`

	X        float64  `yaml:"x,omitempty"`
	Y        float64  `yaml:"y,omitempty"`
	ScaleX   *float64 `yaml:"scaleX,omitempty"`
	ScaleY   *float64 `yaml:"scaleY,omitempty"`
	Rotation float64  `yaml:"rotation,omitempty"`
	RegX     float64  `yaml:"regX,omitempty"`
	RegY     float64  `yaml:"regY,omitempty"`

	Alpha         *float64 `yaml:"alpha,omitempty"`
	Visible       *bool    `yaml:"visible,omitempty"`
	MouseEnabled  *bool    `yaml:"mouseEnabled,omitempty"`
	MouseChildren *bool    `yaml:"mouseChildren,omitempty"`

	// Shape geometry (rect, ellipse) and image size.
	Width  float64 `yaml:"width,omitempty"`
	Height float64 `yaml:"height,omitempty"`
	Radius float64 `yaml:"radius,omitempty"`

	Fill        string  `yaml:"fill,omitempty"`
	Stroke      string  `yaml:"stroke,omitempty"`
	StrokeWidth float64 `yaml:"strokeWidth,omitempty"`

	// Src is an image file path, relative to the scene file.
	Src string `yaml:"src,omitempty"`

	Shadow *Shadow    `yaml:"shadow,omitempty"`
	Cache  *CacheRect `yaml:"cache,omitempty"`

	Children []Node `yaml:"children,omitempty"`
}

// Shadow is a drop shadow description.
type Shadow struct {
	Color   string  `yaml:"color"`
	OffsetX float64 `yaml:"offsetX,omitempty"`
	OffsetY float64 `yaml:"offsetY,omitempty"`
}

// CacheRect is the local-space region a node caches after it is built.
type CacheRect struct {
	X      float64 `yaml:"x,omitempty"`
	Y      float64 `yaml:"y,omitempty"`
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
}

var (
	// ErrInvalidScene is wrapped by every validation failure.
	ErrInvalidScene = errors.New("invalid scene")
)

// Load reads and parses a scene file. Unknown fields are rejected so typos
// surface as errors.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}
	return Parse(data, filepath.Dir(path))
}

// Parse parses scene YAML. dir resolves relative image paths.
func Parse(data []byte, dir string) (*Scene, error) {
	var scene Scene
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scene); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	scene.dir = dir
	if err := scene.Validate(); err != nil {
		return nil, err
	}
	return &scene, nil
}

// Validate checks the scene dimensions and every node.
func (s *Scene) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d must be positive", ErrInvalidScene, s.Width, s.Height)
	}
	if s.Background != "" {
		if _, err := easel.ParseColor(s.Background); err != nil {
			return fmt.Errorf("%w: background: %w", ErrInvalidScene, err)
		}
	}
	for i := range s.Nodes {
		if err := s.Nodes[i].validate(fmt.Sprintf("nodes[%d]", i)); err != nil {
			return err
		}
	}
	return nil
}

func (n *Node) validate(path string) error {
	switch n.Kind {
	case KindRect, KindEllipse:
		if n.Width <= 0 || n.Height <= 0 {
			return fmt.Errorf("%w: %s: %s needs a positive width and height", ErrInvalidScene, path, n.Kind)
		}
	case KindImage:
		if n.Src == "" {
			return fmt.Errorf("%w: %s: image needs src", ErrInvalidScene, path)
		}
	case KindContainer:
	case "":
		return fmt.Errorf("%w: %s: missing kind", ErrInvalidScene, path)
	default:
		return fmt.Errorf("%w: %s: unknown kind %q", ErrInvalidScene, path, n.Kind)
	}
	if n.Kind != KindContainer && len(n.Children) > 0 {
		return fmt.Errorf("%w: %s: only containers have children", ErrInvalidScene, path)
	}
	if n.Kind == KindContainer && (n.Fill != "" || n.Stroke != "") {
		return fmt.Errorf("%w: %s: containers have no fill or stroke", ErrInvalidScene, path)
	}
	for _, c := range []string{n.Fill, n.Stroke} {
		if c == "" {
			continue
		}
		if _, err := easel.ParseColor(c); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidScene, path, err)
		}
	}
	if n.Shadow != nil {
		if _, err := easel.ParseColor(n.Shadow.Color); err != nil {
			return fmt.Errorf("%w: %s: shadow: %w", ErrInvalidScene, path, err)
		}
	}
	if n.Cache != nil && (n.Cache.Width <= 0 || n.Cache.Height <= 0) {
		return fmt.Errorf("%w: %s: cache size must be positive", ErrInvalidScene, path)
	}
	for i := range n.Children {
		if err := n.Children[i].validate(fmt.Sprintf("%s.children[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}

// Build creates a stage with a fresh canvas of the scene size and populates
// it. Caches are filled after the whole tree is built. The caller owns the
// stage and should Close it.
func (s *Scene) Build() (*easel.Stage, error) {
	stage := easel.NewStage(easel.NewCanvas(s.Width, s.Height))
	var cached []cacheJob
	for i := range s.Nodes {
		d, err := s.build(&s.Nodes[i], &cached)
		if err != nil {
			stage.Close()
			return nil, err
		}
		stage.AddChild(d)
	}
	for _, job := range cached {
		r := job.rect
		if err := job.node.Cache(r.X, r.Y, r.Width, r.Height); err != nil {
			stage.Close()
			return nil, fmt.Errorf("cache %q: %w", job.node.Name, err)
		}
	}
	return stage, nil
}

type cacheJob struct {
	node *easel.Node
	rect *CacheRect
}

func (s *Scene) build(n *Node, cached *[]cacheJob) (easel.DisplayObject, error) {
	var d easel.DisplayObject
	switch n.Kind {
	case KindRect, KindEllipse:
		g, err := n.graphics()
		if err != nil {
			return nil, err
		}
		d = easel.NewShape(n.Name, g)
	case KindImage:
		img, err := s.loadImage(n.Src)
		if err != nil {
			return nil, err
		}
		b := easel.NewBitmap(n.Name, img)
		if n.Width > 0 && n.Height > 0 {
			b.SourceRect = image.Rect(0, 0, int(n.Width), int(n.Height)).Add(img.Bounds().Min)
		}
		d = b
	case KindContainer:
		ct := easel.NewContainer(n.Name)
		if n.MouseChildren != nil {
			ct.MouseChildren = *n.MouseChildren
		}
		for i := range n.Children {
			child, err := s.build(&n.Children[i], cached)
			if err != nil {
				return nil, err
			}
			ct.AddChild(child)
		}
		d = ct
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidScene, n.Kind)
	}

	node := easel.NodeOf(d)
	if err := n.apply(node); err != nil {
		return nil, err
	}
	if n.Cache != nil {
		*cached = append(*cached, cacheJob{node: node, rect: n.Cache})
	}
	return d, nil
}

func (n *Node) graphics() (*easel.Graphics, error) {
	g := easel.NewGraphics()
	if n.Fill != "" {
		col, err := easel.ParseColor(n.Fill)
		if err != nil {
			return nil, err
		}
		g.Fill(col)
	}
	if n.Stroke != "" {
		col, err := easel.ParseColor(n.Stroke)
		if err != nil {
			return nil, err
		}
		width := n.StrokeWidth
		if width <= 0 {
			width = 1
		}
		g.Stroke(col, width)
	}
	switch {
	case n.Kind == KindEllipse:
		g.Ellipse(0, 0, n.Width, n.Height)
	case n.Radius > 0:
		g.RoundRect(0, 0, n.Width, n.Height, n.Radius)
	default:
		g.Rect(0, 0, n.Width, n.Height)
	}
	return g, nil
}

func (n *Node) apply(node *easel.Node) error {
	node.X, node.Y = n.X, n.Y
	node.Rotation = n.Rotation
	node.RegX, node.RegY = n.RegX, n.RegY
	if n.ScaleX != nil {
		node.ScaleX = *n.ScaleX
	}
	if n.ScaleY != nil {
		node.ScaleY = *n.ScaleY
	}
	if n.Alpha != nil {
		node.Alpha = *n.Alpha
	}
	if n.Visible != nil {
		node.Visible = *n.Visible
	}
	if n.MouseEnabled != nil {
		node.MouseEnabled = *n.MouseEnabled
	}
	if n.Shadow != nil {
		col, err := easel.ParseColor(n.Shadow.Color)
		if err != nil {
			return err
		}
		node.Shadow = easel.NewShadow(col, n.Shadow.OffsetX, n.Shadow.OffsetY)
	}
	return nil
}

func (s *Scene) loadImage(src string) (image.Image, error) {
	path := src
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.dir, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", src, err)
	}
	return img, nil
}
