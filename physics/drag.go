package physics

import (
	"math"

	"github.com/jakecoffman/cp"
)

// DragConstraint pulls a body towards a movable target point.
type DragConstraint struct {
	anchor  *cp.Body
	joint   *cp.Constraint
	body    *Body
	removed bool
}

// CreateDragConstraint pins body at target through a pivot joint to a
// kinematic anchor. maxForce caps how hard the joint may pull.
func (w *World) CreateDragConstraint(b *Body, target Vec, maxForce float64) *DragConstraint {
	cb := b.live()

	anchor := cp.NewKinematicBody()
	anchor.SetPosition(target)
	w.space.AddBody(anchor)

	joint := cp.NewPivotJoint2(anchor, cb, cp.Vector{}, cb.WorldToLocal(target))
	joint.SetMaxForce(maxForce)
	joint.SetErrorBias(math.Pow(1-0.15, 60))
	w.space.AddConstraint(joint)

	d := &DragConstraint{anchor: anchor, joint: joint, body: b}
	w.drags[d] = struct{}{}
	return d
}

// SetTarget moves the point the body is dragged towards. No-op once removed.
func (d *DragConstraint) SetTarget(target Vec) {
	if d.removed {
		return
	}
	d.anchor.SetPosition(target)
	d.body.live().Activate()
}

// Removed reports whether the constraint is gone, either explicitly or
// because its body was destroyed.
func (d *DragConstraint) Removed() bool { return d.removed }

// DestroyConstraint removes a drag constraint. Safe to call twice.
func (w *World) DestroyConstraint(d *DragConstraint) {
	if d.removed {
		return
	}
	w.space.RemoveConstraint(d.joint)
	w.space.RemoveBody(d.anchor)
	delete(w.drags, d)
	d.removed = true
}
