package gantry

// Status is the out-of-band success signal of a protected call. The
// caller initializes it before the call; the gate writes it on every
// path. When a call reports Failed its result value is the undef sentinel
// (or the zero native value) and must not be used; the intercepted
// exception is available from Gate.LastException.
type Status int

const (
	// OK means the underlying runtime action completed.
	OK Status = iota
	// Failed means the action raised and the jump was absorbed at the
	// boundary.
	Failed
)

func (s Status) String() string {
	if s == OK {
		return "ok"
	}
	return "failed"
}
