package interp

import "fmt"

// JumpKind discriminates the non-local transfers the runtime performs.
type JumpKind int

const (
	// JumpRaise unwinds with a pending exception.
	JumpRaise JumpKind = iota
	// JumpBreak terminates the call that supplied the target block.
	JumpBreak
)

func (k JumpKind) String() string {
	switch k {
	case JumpRaise:
		return "raise"
	case JumpBreak:
		return "break"
	default:
		return "jump"
	}
}

// Jump is the panic payload for every non-local transfer the runtime
// initiates. Any other panic crossing an interpreter frame is a bug and is
// left alone.
type Jump struct {
	Kind JumpKind
	// Val is the exception being raised or the value break yields.
	Val Value
	// tag identifies the block a break targets.
	tag *Block
}

// Raise unwinds with exc as the pending exception. exc may be an exception
// instance, or an exception class which is instantiated with its own name
// as the message. Anything else raises TypeError instead.
func (in *Interp) Raise(exc Value) {
	switch {
	case in.KindOf(exc) == KindException:
	case in.KindOf(exc) == KindClass && in.isExceptionClass(exc):
		exc = in.NewException(exc, "%s", in.className(exc))
	default:
		exc = in.NewException(in.classType, "exception class/object expected, got %s", in.typeName(exc))
	}
	in.errinfo = exc
	in.log.Debug().
		Str("class", in.className(in.slotOf(exc).class)).
		Str("message", in.ExceptionMessage(exc)).
		Msg("raise")
	panic(&Jump{Kind: JumpRaise, Val: exc})
}

// RaiseError raises a fresh exception of the given class with a formatted
// message.
func (in *Interp) RaiseError(class Value, format string, args ...any) {
	in.Raise(in.NewException(class, format, args...))
}

// Break unwinds the call that was given block, yielding val as that call's
// result. A nil block has no enclosing iteration and raises LocalJumpError.
func (in *Interp) Break(block *Block, val Value) {
	if block == nil {
		in.RaiseError(in.classLocal, "break from proc-closure")
	}
	panic(&Jump{Kind: JumpBreak, Val: val, tag: block})
}

// Rethrow resumes a previously intercepted jump. For a raise the pending
// exception is reinstated first.
func (in *Interp) Rethrow(j *Jump) {
	if j.Kind == JumpRaise {
		in.errinfo = j.Val
	}
	panic(j)
}

// Errinfo returns the pending exception, or Nil when none is pending.
func (in *Interp) Errinfo() Value {
	return in.errinfo
}

// ClearErrinfo discards the pending exception.
func (in *Interp) ClearErrinfo() {
	in.errinfo = Nil
}

// FormatException renders an exception as "message (ClassName)", the shape
// used in diagnostics and the demo tooling.
func (in *Interp) FormatException(exc Value) string {
	if in.KindOf(exc) != KindException {
		return in.typeName(exc)
	}
	return fmt.Sprintf("%s (%s)", in.ExceptionMessage(exc), in.className(in.slotOf(exc).class))
}
