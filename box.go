package gantry

import "github.com/cloudcmds/gantry/interp"

// ValueBox owns one rooted reference to a runtime value, keeping it alive
// and stable while it is referenced from outside the runtime's object
// graph. Boxes rooting the same value are independent: each holds its own
// root, and freeing one does not disturb the others.
//
// Free releases the box's root; after the last box rooting a value is
// freed, the value may be collected and must not be used. Freeing a box
// twice is a caller error and panics.
type ValueBox struct {
	in    *interp.Interp
	value interp.Value
	freed bool
}

// NewBox roots v and returns the owning box.
func (g *Gate) NewBox(v interp.Value) *ValueBox {
	g.in.Pin(v)
	return &ValueBox{in: g.in, value: v}
}

// Dup creates an independent box rooting the same value.
func (b *ValueBox) Dup() *ValueBox {
	if b.freed {
		panic("gantry: Dup of freed ValueBox")
	}
	b.in.Pin(b.value)
	return &ValueBox{in: b.in, value: b.value}
}

// Value returns the boxed value.
func (b *ValueBox) Value() interp.Value {
	if b.freed {
		panic("gantry: Value of freed ValueBox")
	}
	return b.value
}

// Free releases this box's root.
func (b *ValueBox) Free() {
	if b.freed {
		panic("gantry: double free of ValueBox")
	}
	b.freed = true
	b.in.Unpin(b.value)
}
