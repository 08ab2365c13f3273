package gantry

import "github.com/cloudcmds/gantry/interp"

type instrKind int

const (
	instrValue instrKind = iota
	instrRaise
	instrBreak
	instrBreakValue
	instrJump
)

func (k instrKind) String() string {
	switch k {
	case instrValue:
		return "value"
	case instrRaise:
		return "raise"
	case instrBreak:
		return "break"
	case instrBreakValue:
		return "break_value"
	case instrJump:
		return "jump"
	default:
		return "unknown"
	}
}

// ReturnInstruction is what a callback handler hands back to the gate to
// describe the control-flow outcome it wants, without performing any
// non-local transfer itself. The gate realizes the instruction at a single
// point per callback kind, on the runtime's terms.
//
// Instructions are constructed fresh per callback invocation, consumed
// synchronously, and never stored.
type ReturnInstruction struct {
	kind  instrKind
	value interp.Value
}

// ReturnValue completes the callback normally: the runtime receives v as
// the result of the call.
func ReturnValue(v interp.Value) ReturnInstruction {
	return ReturnInstruction{kind: instrValue, value: v}
}

// ReturnRaise asks the gate to raise exc inside the runtime, as if the
// exception originated in the runtime call itself.
func ReturnRaise(exc interp.Value) ReturnInstruction {
	return ReturnInstruction{kind: instrRaise, value: exc}
}

// ReturnBreak asks the gate to terminate the enclosing iteration, the way
// a break inside a block does.
func ReturnBreak() ReturnInstruction {
	return ReturnInstruction{kind: instrBreak}
}

// ReturnBreakValue is ReturnBreak carrying the iteration's result value.
func ReturnBreakValue(v interp.Value) ReturnInstruction {
	return ReturnInstruction{kind: instrBreakValue, value: v}
}

// ReturnJump asks the gate to let the most recently intercepted non-local
// transfer continue propagating, instead of swallowing it. Handlers use
// this when a protected call they issued themselves reported Failed and
// the failure should pass through.
func ReturnJump() ReturnInstruction {
	return ReturnInstruction{kind: instrJump}
}

// realize performs the control-flow action a handler asked for. This is
// the only point where the gate re-enters the runtime's unwind machinery.
// block is the break target, or nil when the callback kind has no
// enclosing iteration.
func (g *Gate) realize(instr ReturnInstruction, block *interp.Block) interp.Value {
	switch instr.kind {
	case instrValue:
		return instr.value
	case instrRaise:
		g.in.Raise(instr.value)
	case instrBreak:
		g.in.Break(block, interp.Nil)
	case instrBreakValue:
		g.in.Break(block, instr.value)
	case instrJump:
		if g.lastJump == nil {
			g.in.RaiseError(g.in.RuntimeErrorClass(), "no jump in flight")
		}
		g.in.Rethrow(g.lastJump)
	}
	return interp.Undef
}
