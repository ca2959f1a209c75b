package easel

// Container groups display objects. Children are drawn in list order, so the
// last child is on top, and inherit the container's transform, alpha and
// shadow.
type Container struct {
	Node

	// MouseChildren controls whether hit tests descend into the children.
	// When false the container is reported in place of any of them.
	MouseChildren bool

	children []DisplayObject
}

// NewContainer creates an empty container.
func NewContainer(name string) *Container {
	c := &Container{MouseChildren: true}
	c.init(c, name)
	return c
}

// Draw renders every visible child back to front, each inside its own saved
// canvas state.
func (ct *Container) Draw(c *Canvas, ignoreCache bool) bool {
	if ct.drawCache(c, ignoreCache) {
		return true
	}
	for _, child := range ct.children {
		cn := child.base()
		if !cn.IsVisible() {
			continue
		}
		c.Save()
		cn.applyContext(c)
		child.Draw(c, false)
		c.Restore()
	}
	return true
}

func (ct *Container) String() string {
	return ct.describe("Container")
}

// Clone returns a copy of the container with a new ID and no parent. When
// recursive is true the children are cloned too; otherwise the copy is
// empty. Caches and callbacks are not copied.
func (ct *Container) Clone(recursive bool) *Container {
	o := NewContainer(ct.Name)
	o.copyNodeFrom(&ct.Node)
	o.MouseChildren = ct.MouseChildren
	if recursive {
		for _, child := range ct.children {
			o.AddChild(cloneDisplayObject(child))
		}
	}
	return o
}

func cloneDisplayObject(d DisplayObject) DisplayObject {
	switch v := d.(type) {
	case *Bitmap:
		return v.Clone()
	case *Shape:
		return v.Clone()
	case *Container:
		return v.Clone(true)
	}
	panic("easel: cannot clone " + d.String())
}

// --- Tree manipulation ---

// AddChild appends child on top of the existing children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil, is a Stage, or is an ancestor of this container.
func (ct *Container) AddChild(child DisplayObject) {
	ct.checkAdd(child)
	cn := child.base()
	if cn.parent != nil {
		cn.parent.removeChildByPtr(child)
	}
	cn.parent = ct
	ct.children = append(ct.children, child)
	if globalDebug {
		debugCheckTreeDepth(cn)
		debugCheckChildCount(ct)
	}
}

// AddChildAt inserts child at the given index.
// Same reparenting and cycle-check behavior as AddChild.
func (ct *Container) AddChildAt(child DisplayObject, index int) {
	ct.checkAdd(child)
	if index < 0 || index > len(ct.children) {
		panic("easel: child index out of range")
	}
	cn := child.base()
	if cn.parent != nil {
		cn.parent.removeChildByPtr(child)
	}
	index = min(index, len(ct.children))
	cn.parent = ct
	ct.children = append(ct.children, nil)
	copy(ct.children[index+1:], ct.children[index:])
	ct.children[index] = child
	if globalDebug {
		debugCheckTreeDepth(cn)
		debugCheckChildCount(ct)
	}
}

func (ct *Container) checkAdd(child DisplayObject) {
	if child == nil {
		panic("easel: cannot add nil child")
	}
	if _, ok := child.(*Stage); ok {
		panic("easel: a stage cannot be added as a child")
	}
	if isAncestor(child.base(), &ct.Node) {
		panic("easel: adding child would create a cycle")
	}
}

// RemoveChild detaches child from this container.
// Panics if child's parent is not this container.
func (ct *Container) RemoveChild(child DisplayObject) {
	cn := child.base()
	if cn.parent != ct {
		panic("easel: child's parent is not this container")
	}
	ct.removeChildByPtr(child)
	cn.parent = nil
}

// RemoveChildAt removes and returns the child at the given index.
func (ct *Container) RemoveChildAt(index int) DisplayObject {
	if index < 0 || index >= len(ct.children) {
		panic("easel: child index out of range")
	}
	child := ct.children[index]
	copy(ct.children[index:], ct.children[index+1:])
	ct.children[len(ct.children)-1] = nil
	ct.children = ct.children[:len(ct.children)-1]
	child.base().parent = nil
	return child
}

// RemoveAllChildren detaches every child.
func (ct *Container) RemoveAllChildren() {
	for i, child := range ct.children {
		child.base().parent = nil
		ct.children[i] = nil
	}
	ct.children = ct.children[:0]
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.parent == nil {
		return
	}
	n.parent.RemoveChild(n.display())
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (ct *Container) Children() []DisplayObject {
	return ct.children
}

// NumChildren returns the number of children.
func (ct *Container) NumChildren() int {
	return len(ct.children)
}

// ChildAt returns the child at the given index.
func (ct *Container) ChildAt(index int) DisplayObject {
	return ct.children[index]
}

// GetChildIndex returns the index of child, or -1 if it is not a child of
// this container.
func (ct *Container) GetChildIndex(child DisplayObject) int {
	for i, c := range ct.children {
		if c == child {
			return i
		}
	}
	return -1
}

// SetChildIndex moves child to a new index among its siblings.
func (ct *Container) SetChildIndex(child DisplayObject, index int) {
	if child.base().parent != ct {
		panic("easel: child's parent is not this container")
	}
	if index < 0 || index >= len(ct.children) {
		panic("easel: child index out of range")
	}
	oldIndex := ct.GetChildIndex(child)
	if oldIndex == index {
		return
	}
	// Shift elements to fill the gap and open the target slot.
	if oldIndex < index {
		copy(ct.children[oldIndex:], ct.children[oldIndex+1:index+1])
	} else {
		copy(ct.children[index+1:], ct.children[index:oldIndex])
	}
	ct.children[index] = child
}

// Contains reports whether d is this container or one of its descendants.
func (ct *Container) Contains(d DisplayObject) bool {
	if d == nil {
		return false
	}
	return isAncestor(&ct.Node, d.base())
}

// --- Helpers ---

// isAncestor reports whether candidate is node or one of its ancestors.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.parentNode() {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from ct.children without clearing its parent.
func (ct *Container) removeChildByPtr(child DisplayObject) {
	for i, c := range ct.children {
		if c == child {
			copy(ct.children[i:], ct.children[i+1:])
			ct.children[len(ct.children)-1] = nil
			ct.children = ct.children[:len(ct.children)-1]
			return
		}
	}
}
