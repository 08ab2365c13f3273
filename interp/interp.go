// Package interp implements a small embeddable dynamic object runtime: a
// handle-based managed heap with a mark/sweep collector, an interned name
// table, a class model with inheritance and module injection, and method
// dispatch that signals errors by unwinding with a tagged jump.
//
// Everything that can fail inside the runtime fails by raising: the
// operation panics with a *Jump carrying an exception value. Code embedding
// the interpreter is expected to confine every entry point behind a
// recover boundary (see the root gantry package) rather than let a jump
// escape into foreign frames.
//
// The interpreter is single-threaded and re-entrant: an operation may
// synchronously call back out through a Block or method function, and that
// code may issue further interpreter operations, but no two goroutines may
// use one Interp concurrently.
package interp

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Version of the runtime.
const Version = "0.4.1"

// Hooks are the slots the embedding layer installs so the runtime can
// notify it about the lifecycle of natively bound instances. Both slots
// are optional; a nil slot disables the notification.
type Hooks struct {
	// BindAllocate runs when an instance of a bound class is constructed,
	// before its initialize method. It may raise.
	BindAllocate func(className string, instance Value)
	// BindFree runs when the collector reclaims a bound instance.
	BindFree func(instance Value)
}

// Option configures an Interp.
type Option func(*Interp)

// WithLogger supplies a logger used for debug traces of raises and
// collection cycles. The default logger discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(in *Interp) {
		in.log = log
	}
}

type slot struct {
	class  Value
	data   payload
	marked bool
}

type gvarEntry struct {
	value Value
	get   func(ID) Value
	set   func(ID, Value)
}

// Interp is one interpreter instance: heap, name table, class graph,
// global variables, source units, and the active call stack.
type Interp struct {
	heap map[Value]*slot
	next Value
	pins map[Value]int

	names   map[string]ID
	symbols []string

	singletons map[Value]Value

	classObject   Value
	classModule   Value
	classClass    Value
	classNil      Value
	classTrue     Value
	classFalse    Value
	classInt      Value
	classFloat    Value
	classString   Value
	classArray    Value
	classHash     Value
	classProc     Value
	classExc      Value
	classStandard Value
	classRuntime  Value
	classType     Value
	classArg      Value
	classRange    Value
	classZeroDiv  Value
	classNameErr  Value
	classNoMethod Value
	classLocal    Value
	classLoad     Value
	classFrozen   Value

	gvars map[ID]*gvarEntry

	frames []*Frame

	units  map[string]SourceUnit
	loaded map[string]bool

	errinfo Value

	hooks Hooks
	log   zerolog.Logger
}

// New creates and boots an interpreter.
func New(opts ...Option) *Interp {
	in := &Interp{
		heap:       map[Value]*slot{},
		next:       firstHandle,
		pins:       map[Value]int{},
		names:      map[string]ID{},
		symbols:    []string{""},
		singletons: map[Value]Value{},
		gvars:      map[ID]*gvarEntry{},
		units:      map[string]SourceUnit{},
		loaded:     map[string]bool{},
		errinfo:    Nil,
		log:        zerolog.Nop(),
	}
	in.boot()
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// SetHooks installs the binding lifecycle hooks. Intended to be called
// once by the embedding layer during setup.
func (in *Interp) SetHooks(h Hooks) {
	in.hooks = h
}

// Description returns a human-readable description of the runtime.
func (in *Interp) Description() string {
	return fmt.Sprintf("gantry interp %s (handle heap, mark/sweep)", Version)
}

// Intern returns the ID for a name, creating it on first use. Interned
// names are never collected.
func (in *Interp) Intern(name string) ID {
	if name == "" {
		in.RaiseError(in.classArg, "empty name")
	}
	if id, ok := in.names[name]; ok {
		return id
	}
	id := ID(len(in.symbols))
	in.symbols = append(in.symbols, name)
	in.names[name] = id
	return id
}

// NameOf returns the string for an interned ID, or "" for an unknown ID.
func (in *Interp) NameOf(id ID) string {
	if int(id) <= 0 || int(id) >= len(in.symbols) {
		return ""
	}
	return in.symbols[id]
}

func (in *Interp) alloc(class Value, data payload) Value {
	v := in.next
	in.next++
	in.heap[v] = &slot{class: class, data: data}
	return v
}

func (in *Interp) slotOf(v Value) *slot {
	s, ok := in.heap[v]
	if !ok {
		in.RaiseError(in.classRange, "stale or invalid value handle %d", uint64(v))
	}
	return s
}

// KindOf reports the representation kind of a value. Immediates report
// KindNone.
func (in *Interp) KindOf(v Value) Kind {
	if v < firstHandle {
		return KindNone
	}
	return in.slotOf(v).data.kind()
}

// ClassOf returns the class used for method dispatch on v: the singleton
// class when one exists, the value's own class otherwise.
func (in *Interp) ClassOf(v Value) Value {
	if sc, ok := in.singletons[v]; ok {
		return sc
	}
	switch v {
	case Nil, Undef:
		return in.classNil
	case True:
		return in.classTrue
	case False:
		return in.classFalse
	}
	return in.slotOf(v).class
}

// ObjectClass returns the root class of the class graph; top-level
// constants live on it.
func (in *Interp) ObjectClass() Value { return in.classObject }

// Core exception classes, for embedders that raise on the runtime's
// behalf.
func (in *Interp) ExceptionClass() Value      { return in.classExc }
func (in *Interp) StandardErrorClass() Value  { return in.classStandard }
func (in *Interp) RuntimeErrorClass() Value   { return in.classRuntime }
func (in *Interp) TypeErrorClass() Value      { return in.classType }
func (in *Interp) ArgumentErrorClass() Value  { return in.classArg }
func (in *Interp) RangeErrorClass() Value     { return in.classRange }
func (in *Interp) NameErrorClass() Value      { return in.classNameErr }
func (in *Interp) NoMethodErrorClass() Value  { return in.classNoMethod }
func (in *Interp) LocalJumpErrorClass() Value { return in.classLocal }
func (in *Interp) LoadErrorClass() Value      { return in.classLoad }

// NewInt allocates an integer object.
func (in *Interp) NewInt(v int64) Value {
	return in.alloc(in.classInt, &intVal{v: v})
}

// NewFloat allocates a float object.
func (in *Interp) NewFloat(v float64) Value {
	return in.alloc(in.classFloat, &floatVal{v: v})
}

// NewString allocates a string object.
func (in *Interp) NewString(v string) Value {
	return in.alloc(in.classString, &strVal{v: v})
}

// NewArray allocates an array object holding the given elements.
func (in *Interp) NewArray(elems ...Value) Value {
	return in.alloc(in.classArray, &arrayVal{elems: append([]Value(nil), elems...)})
}

// NewHash allocates an empty hash object.
func (in *Interp) NewHash() Value {
	return in.alloc(in.classHash, &hashVal{})
}

// NewException allocates an exception instance of the given class with a
// message. The class must descend from Exception.
func (in *Interp) NewException(class Value, format string, args ...any) Value {
	if !in.isExceptionClass(class) {
		in.RaiseError(in.classType, "exception class expected, got %s", in.typeName(class))
	}
	return in.alloc(class, &excVal{message: fmt.Sprintf(format, args...)})
}

// AsInt returns the native value of an integer object.
func (in *Interp) AsInt(v Value) (int64, bool) {
	if in.KindOf(v) != KindInt {
		return 0, false
	}
	return in.slotOf(v).data.(*intVal).v, true
}

// AsFloat returns the native value of a float object.
func (in *Interp) AsFloat(v Value) (float64, bool) {
	if in.KindOf(v) != KindFloat {
		return 0, false
	}
	return in.slotOf(v).data.(*floatVal).v, true
}

// AsString returns the native value of a string object.
func (in *Interp) AsString(v Value) (string, bool) {
	if in.KindOf(v) != KindString {
		return "", false
	}
	return in.slotOf(v).data.(*strVal).v, true
}

// ArrayElems returns a copy of an array object's elements.
func (in *Interp) ArrayElems(v Value) []Value {
	if in.KindOf(v) != KindArray {
		in.RaiseError(in.classType, "Array expected, got %s", in.typeName(v))
	}
	p := in.slotOf(v).data.(*arrayVal)
	return append([]Value(nil), p.elems...)
}

// ArrayAppend pushes an element onto an array object.
func (in *Interp) ArrayAppend(v Value, elem Value) {
	if in.KindOf(v) != KindArray {
		in.RaiseError(in.classType, "Array expected, got %s", in.typeName(v))
	}
	p := in.slotOf(v).data.(*arrayVal)
	p.elems = append(p.elems, elem)
}

// HashGet looks up a key in a hash object, returning Nil when absent.
func (in *Interp) HashGet(h Value, key Value) Value {
	if in.KindOf(h) != KindHash {
		in.RaiseError(in.classType, "Hash expected, got %s", in.typeName(h))
	}
	p := in.slotOf(h).data.(*hashVal)
	for _, e := range p.entries {
		if in.keyEqual(e.key, key) {
			return e.val
		}
	}
	return Nil
}

// HashSet stores a key/value pair in a hash object.
func (in *Interp) HashSet(h Value, key, val Value) {
	if in.KindOf(h) != KindHash {
		in.RaiseError(in.classType, "Hash expected, got %s", in.typeName(h))
	}
	p := in.slotOf(h).data.(*hashVal)
	for i, e := range p.entries {
		if in.keyEqual(e.key, key) {
			p.entries[i].val = val
			return
		}
	}
	p.entries = append(p.entries, hashEntry{key: key, val: val})
}

// HashLen returns the number of entries in a hash object.
func (in *Interp) HashLen(h Value) int {
	if in.KindOf(h) != KindHash {
		in.RaiseError(in.classType, "Hash expected, got %s", in.typeName(h))
	}
	return len(in.slotOf(h).data.(*hashVal).entries)
}

// keyEqual compares two values the way hash keys compare: by native value
// for primitives, by identity otherwise.
func (in *Interp) keyEqual(a, b Value) bool {
	if a == b {
		return true
	}
	if a < firstHandle || b < firstHandle {
		return false
	}
	pa, pb := in.slotOf(a).data, in.slotOf(b).data
	switch x := pa.(type) {
	case *intVal:
		y, ok := pb.(*intVal)
		return ok && x.v == y.v
	case *floatVal:
		y, ok := pb.(*floatVal)
		return ok && x.v == y.v
	case *strVal:
		y, ok := pb.(*strVal)
		return ok && x.v == y.v
	}
	return false
}

// Truthy reports the runtime's truthiness: everything except nil and
// false.
func (in *Interp) Truthy(v Value) bool {
	return v != Nil && v != False && v != Undef
}

// ExceptionMessage returns the message carried by an exception value.
func (in *Interp) ExceptionMessage(v Value) string {
	if in.KindOf(v) != KindException {
		return ""
	}
	return in.slotOf(v).data.(*excVal).message
}

// typeName names a value's type for diagnostics.
func (in *Interp) typeName(v Value) string {
	switch v {
	case Nil, Undef:
		return "nil"
	case True:
		return "true"
	case False:
		return "false"
	}
	s := in.slotOf(v)
	if cd, ok := s.data.(*classVal); ok {
		if cd.module {
			return "Module"
		}
		return "Class"
	}
	return in.className(s.class)
}
