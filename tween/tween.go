// Package tween animates easel node properties with gween easing curves.
//
// Tweens live outside the stage: a loop advances each Group with the frame
// time and then calls Stage.Render, so the engine only ever sees plain field
// values.
package tween

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/phanxgames/easel"
)

// Group animates up to 4 float64 fields on a Node simultaneously. Create one
// via the constructors (Position, Scale, Registration, Alpha, Rotation) and
// call Update(dt) each frame. If the target node is removed from its parent
// while the group runs, the group stops without writing.
type Group struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	target *easel.Node
	parent *easel.Container
	Done   bool
}

func newGroup(node *easel.Node, duration float32, fn ease.TweenFunc, to []float64, fields ...*float64) *Group {
	g := &Group{count: len(fields), target: node, parent: node.Parent()}
	for i, f := range fields {
		g.tweens[i] = gween.New(float32(*f), float32(to[i]), duration, fn)
		g.fields[i] = f
	}
	return g
}

// Update advances all tweens by dt seconds and writes values to the target
// fields.
func (g *Group) Update(dt float32) {
	if g.Done {
		return
	}
	if g.parent != nil && g.target.Parent() != g.parent {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

// Stop ends the group, leaving the fields at their current values.
func (g *Group) Stop() { g.Done = true }

// Position animates node.X and node.Y to the given coordinates.
func Position(node *easel.Node, toX, toY float64, duration float32, fn ease.TweenFunc) *Group {
	return newGroup(node, duration, fn, []float64{toX, toY}, &node.X, &node.Y)
}

// Scale animates node.ScaleX and node.ScaleY.
func Scale(node *easel.Node, toSX, toSY float64, duration float32, fn ease.TweenFunc) *Group {
	return newGroup(node, duration, fn, []float64{toSX, toSY}, &node.ScaleX, &node.ScaleY)
}

// Registration animates the registration point node.RegX and node.RegY.
func Registration(node *easel.Node, toX, toY float64, duration float32, fn ease.TweenFunc) *Group {
	return newGroup(node, duration, fn, []float64{toX, toY}, &node.RegX, &node.RegY)
}

// Alpha animates node.Alpha.
func Alpha(node *easel.Node, to float64, duration float32, fn ease.TweenFunc) *Group {
	return newGroup(node, duration, fn, []float64{to}, &node.Alpha)
}

// Rotation animates node.Rotation, in degrees.
func Rotation(node *easel.Node, to float64, duration float32, fn ease.TweenFunc) *Group {
	return newGroup(node, duration, fn, []float64{to}, &node.Rotation)
}

// Set advances a batch of groups together and drops the finished ones.
type Set struct {
	groups []*Group
}

// Add schedules g.
func (s *Set) Add(g ...*Group) { s.groups = append(s.groups, g...) }

// Len returns the number of running groups.
func (s *Set) Len() int { return len(s.groups) }

// Update advances every running group by dt seconds.
func (s *Set) Update(dt float32) {
	live := s.groups[:0]
	for _, g := range s.groups {
		g.Update(dt)
		if !g.Done {
			live = append(live, g)
		}
	}
	clear(s.groups[len(live):])
	s.groups = live
}
