package easel

// GetConcatenatedMatrix composes the transforms, alpha and shadow of this node
// and all its ancestors, so that the result maps local coordinates to stage
// canvas coordinates. Alpha is the product along the chain; the shadow is the
// one nearest this node.
//
// If out is non-nil it is reset and filled in; otherwise a new Matrix is
// allocated. The result is nil when the chain does not end at a Stage.
func (n *Node) GetConcatenatedMatrix(out *Matrix) *Matrix {
	if out == nil {
		out = NewMatrix()
	} else {
		out.Identity()
	}
	top := n
	for o := n; o != nil; o = o.parentNode() {
		out.PrependTransform(o.X, o.Y, o.ScaleX, o.ScaleY, o.Rotation, o.RegX, o.RegY)
		out.PrependProperties(o.Alpha, o.Shadow)
		top = o
	}
	if _, ok := top.self.(*Stage); !ok {
		return nil
	}
	return out
}

// LocalToGlobal converts a point in this node's coordinate space to the
// stage's. It returns false when the node is not on a stage.
func (n *Node) LocalToGlobal(x, y float64) (Point, bool) {
	var m Matrix
	if n.GetConcatenatedMatrix(&m) == nil {
		return Point{}, false
	}
	return m.TransformPoint(x, y), true
}

// GlobalToLocal converts a stage point to this node's coordinate space. It
// returns false when the node is not on a stage or its transform is singular.
func (n *Node) GlobalToLocal(x, y float64) (Point, bool) {
	var m Matrix
	if n.GetConcatenatedMatrix(&m) == nil {
		return Point{}, false
	}
	if err := m.Invert(); err != nil {
		return Point{}, false
	}
	return m.TransformPoint(x, y), true
}

// LocalToLocal converts a point in this node's coordinate space to target's.
// Both must be on a stage.
func (n *Node) LocalToLocal(x, y float64, target DisplayObject) (Point, bool) {
	p, ok := n.LocalToGlobal(x, y)
	if !ok {
		return Point{}, false
	}
	return target.base().GlobalToLocal(p.X, p.Y)
}
