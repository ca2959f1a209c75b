package easel

// Cache draws the node into an offscreen canvas covering the local rectangle
// (x, y, width, height). Subsequent draws blit that canvas instead of
// rendering the node live, until Uncache is called. The cache is a snapshot:
// changes to the node or its children are not picked up until Cache is
// called again.
//
// The cache canvas is reused when its size matches. Drawing happens
// synchronously, with the node's own transform, alpha and shadow left out.
func (n *Node) Cache(x, y float64, width, height int) error {
	if width <= 0 || height <= 0 {
		return ErrInvalidCacheSize
	}
	self := n.display()
	if n.cache == nil || n.cache.Width() != width || n.cache.Height() != height {
		n.cache = NewCanvas(width, height)
		Logger().Debug("cache allocated", "node", n.Name, "id", n.ID, "width", width, "height", height)
	} else {
		n.cache.Clear()
	}
	c := n.cache
	c.Save()
	c.Translate(-x, -y)
	self.Draw(c, true)
	c.Restore()
	n.cacheOffsetX = x
	n.cacheOffsetY = y
	return nil
}

// Uncache releases the cache canvas. The node draws live again.
func (n *Node) Uncache() {
	n.cache = nil
	n.cacheOffsetX, n.cacheOffsetY = 0, 0
}

// IsCached reports whether the node draws from a cache canvas.
func (n *Node) IsCached() bool {
	return n.cache != nil
}

// CacheCanvas returns the cache canvas, or nil when the node is not cached.
func (n *Node) CacheCanvas() *Canvas {
	return n.cache
}

// drawCache blits the cache into c at the recorded offset. It reports false,
// drawing nothing, when ignoreCache is set or there is no cache.
func (n *Node) drawCache(c *Canvas, ignoreCache bool) bool {
	if ignoreCache || n.cache == nil {
		return false
	}
	c.DrawImage(n.cache.Image(), n.cacheOffsetX, n.cacheOffsetY)
	return true
}
