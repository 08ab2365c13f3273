package interp

// Value is an opaque handle to an object owned by the interpreter's managed
// heap. Handles are fixed-width integers, never reused, and are only
// meaningful when passed back into interpreter operations. A handle is not
// guaranteed to survive a collection cycle unless it is rooted (see Pin).
type Value uint64

// Immediate handles. These never appear in the heap table.
const (
	// Undef is the sentinel returned by failed protected operations. It is
	// not a legal argument to any interpreter operation.
	Undef Value = 0
	// Nil is the interpreter's nil.
	Nil Value = 1
	// False is the interpreter's false.
	False Value = 2
	// True is the interpreter's true.
	True Value = 3

	firstHandle Value = 8
)

// ID is an interned-name handle denoting a method, variable, or constant
// name. IDs are produced only by Intern and are valid for the lifetime of
// the interpreter.
type ID uint32

// NoID is the zero ID, never returned by Intern.
const NoID ID = 0

// Kind describes the representation of a heap object.
type Kind uint8

const (
	KindNone Kind = iota
	KindInt
	KindFloat
	KindString
	KindArray
	KindHash
	KindClass
	KindInstance
	KindProc
	KindException
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "Integer"
	case KindFloat:
		return "Float"
	case KindString:
		return "String"
	case KindArray:
		return "Array"
	case KindHash:
		return "Hash"
	case KindClass:
		return "Class"
	case KindInstance:
		return "Object"
	case KindProc:
		return "Proc"
	case KindException:
		return "Exception"
	default:
		return "none"
	}
}

// payload is the heap representation of one object.
type payload interface {
	kind() Kind
	trace(mark func(Value))
}

type intVal struct {
	v int64
}

func (p *intVal) kind() Kind             { return KindInt }
func (p *intVal) trace(mark func(Value)) {}

type floatVal struct {
	v float64
}

func (p *floatVal) kind() Kind             { return KindFloat }
func (p *floatVal) trace(mark func(Value)) {}

type strVal struct {
	v string
}

func (p *strVal) kind() Kind             { return KindString }
func (p *strVal) trace(mark func(Value)) {}

type arrayVal struct {
	elems []Value
}

func (p *arrayVal) kind() Kind { return KindArray }

func (p *arrayVal) trace(mark func(Value)) {
	for _, e := range p.elems {
		mark(e)
	}
}

type hashEntry struct {
	key Value
	val Value
}

// hashVal keeps insertion order. Lookup is linear; boundary traffic only
// ever sees small hashes (keyword-style trailing arguments).
type hashVal struct {
	entries []hashEntry
}

func (p *hashVal) kind() Kind { return KindHash }

func (p *hashVal) trace(mark func(Value)) {
	for _, e := range p.entries {
		mark(e.key)
		mark(e.val)
	}
}

type classVal struct {
	name      string
	super     Value
	methods   map[ID]*methodEntry
	consts    map[ID]Value
	cvars     map[ID]Value
	includes  []Value
	prepends  []Value
	module    bool
	singleton bool
	attached  Value
	bound     bool
}

func (p *classVal) kind() Kind { return KindClass }

func (p *classVal) trace(mark func(Value)) {
	mark(p.super)
	mark(p.attached)
	for _, v := range p.consts {
		mark(v)
	}
	for _, v := range p.cvars {
		mark(v)
	}
	for _, m := range p.includes {
		mark(m)
	}
	for _, m := range p.prepends {
		mark(m)
	}
	for _, e := range p.methods {
		mark(e.owner)
	}
}

type instanceVal struct {
	ivars map[ID]Value
	bound bool
}

func (p *instanceVal) kind() Kind { return KindInstance }

func (p *instanceVal) trace(mark func(Value)) {
	for _, v := range p.ivars {
		mark(v)
	}
}

type procVal struct {
	block *Block
}

func (p *procVal) kind() Kind { return KindProc }

func (p *procVal) trace(mark func(Value)) {
	for _, r := range p.block.refs {
		mark(r)
	}
}

type excVal struct {
	message string
}

func (p *excVal) kind() Kind             { return KindException }
func (p *excVal) trace(mark func(Value)) {}
