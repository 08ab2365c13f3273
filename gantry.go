// Package gantry is a safety and translation boundary around the interp
// runtime. The runtime signals errors by unwinding with a tagged jump;
// code on the caller's side of the gate has no notion of such unwinding
// and must never observe one. The gate provides three contracts:
//
//   - Protected calls: every runtime entry point that can raise is wrapped
//     so the jump is absorbed at the boundary and reported through an
//     out-of-band Status value instead.
//
//   - Callback dispatch: when the runtime needs caller-supplied logic
//     (block invocation, method dispatch, global-variable access, object
//     allocation), it calls the single registered handler for that kind.
//     The handler returns a tagged ReturnInstruction describing the
//     desired control flow; the gate realizes it on the runtime's terms,
//     so caller logic itself never jumps.
//
//   - Lifetime management: a ValueBox roots a runtime value against
//     collection while it is referenced from outside the runtime's object
//     graph, and the binding registry associates native objects with
//     runtime instances for their whole collected lifetime.
//
// A gate, like the runtime under it, is single-threaded: calls may nest
// through callbacks, but only one goroutine may be inside the boundary at
// a time.
package gantry

import (
	"github.com/cloudcmds/gantry/interp"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog"
)

// Gate is the boundary for one interpreter.
type Gate struct {
	in  *interp.Interp
	log zerolog.Logger
	reg registry

	// lastJump is the most recently absorbed non-local transfer,
	// re-initiated when a handler returns ReturnJump.
	lastJump *interp.Jump

	binding bindingState
}

// Option configures a Gate.
type Option func(*Gate)

// WithLogger supplies a logger used for debug traces of absorbed jumps
// and callback dispatch. The default logger discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(g *Gate) {
		g.log = log
	}
}

// New builds a gate over an interpreter and installs the runtime hooks
// the gate's binding registry needs.
func New(in *interp.Interp, opts ...Option) *Gate {
	g := &Gate{
		in:  in,
		log: zerolog.Nop(),
		binding: bindingState{
			objects: map[interp.Value]boundObject{},
		},
	}
	for _, opt := range opts {
		opt(g)
	}
	in.SetHooks(interp.Hooks{
		BindAllocate: g.bindAllocate,
		BindFree:     g.bindFree,
	})
	return g
}

// Interp returns the interpreter under the gate.
func (g *Gate) Interp() *interp.Interp { return g.in }

// LastException returns the pending exception after a protected call
// reported Failed, or Nil when none is pending.
func (g *Gate) LastException() interp.Value {
	return g.in.Errinfo()
}

// ClearLastException discards the pending exception.
func (g *Gate) ClearLastException() {
	g.in.ClearErrinfo()
}

type bindingState struct {
	gen     uuid.UUID
	alloc   BindAllocHandler
	free    BindFreeHandler
	objects map[interp.Value]boundObject
}

type boundObject struct {
	gen   uuid.UUID
	class string
	obj   any
}
