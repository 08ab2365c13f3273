package interp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefineClassTopLevel(t *testing.T) {
	in := New()
	c := in.DefineClass("Gadget", Undef, Undef)
	require.Equal(t, "Gadget", in.ClassName(c))
	require.Equal(t, c, in.ConstGet(in.ObjectClass(), in.Intern("Gadget")))

	// Re-opening with the same superclass returns the same class.
	require.Equal(t, c, in.DefineClass("Gadget", Undef, Undef))
}

func TestDefineClassSuperclassMismatchRaises(t *testing.T) {
	in := New()
	in.DefineClass("Gadget", Undef, Undef)
	other := in.DefineClass("Other", Undef, Undef)
	mustRaise(t, in, in.classType, func() {
		in.DefineClass("Gadget", Undef, other)
	})
}

func TestDefineClassUnderNamespace(t *testing.T) {
	in := New()
	ns := in.DefineModule("Acme", Undef)
	c := in.DefineClass("Gadget", ns, Undef)
	require.Equal(t, "Acme::Gadget", in.ClassName(c))

	require.Equal(t, c, in.ConstGetAt(ns, in.Intern("Gadget")))
	mustRaise(t, in, in.classNameErr, func() {
		in.ConstGetAt(in.ObjectClass(), in.Intern("Gadget"))
	})
}

func TestDefineModuleRejectsClassClash(t *testing.T) {
	in := New()
	in.DefineClass("Thing", Undef, Undef)
	mustRaise(t, in, in.classType, func() {
		in.DefineModule("Thing", Undef)
	})
}

func TestConstGetFallsBackToTopLevel(t *testing.T) {
	in := New()
	c := in.DefineClass("Gadget", Undef, Undef)
	ns := in.DefineModule("Acme", Undef)
	require.Equal(t, c, in.ConstGet(ns, in.Intern("Gadget")))
}

func TestConstSetAndGet(t *testing.T) {
	in := New()
	c := in.DefineClass("Config", Undef, Undef)
	in.ConstSet(c, in.Intern("LIMIT"), in.NewInt(10))
	n, _ := in.AsInt(in.ConstGet(c, in.Intern("LIMIT")))
	require.Equal(t, int64(10), n)

	mustRaise(t, in, in.classNameErr, func() {
		in.ConstGet(c, in.Intern("MISSING"))
	})
}

func TestConstResolvesThroughInheritance(t *testing.T) {
	in := New()
	base := in.DefineClass("Base", Undef, Undef)
	in.ConstSet(base, in.Intern("KIND"), in.NewString("b"))
	sub := in.DefineClass("Sub", Undef, base)
	s, _ := in.AsString(in.ConstGet(sub, in.Intern("KIND")))
	require.Equal(t, "b", s)
}

func TestCvarGetWalksSuperChain(t *testing.T) {
	in := New()
	base := in.DefineClass("Base", Undef, Undef)
	in.CvarSet(base, in.Intern("@@count"), in.NewInt(3))
	sub := in.DefineClass("Sub", Undef, base)
	n, _ := in.AsInt(in.CvarGet(sub, in.Intern("@@count")))
	require.Equal(t, int64(3), n)

	mustRaise(t, in, in.classNameErr, func() {
		in.CvarGet(sub, in.Intern("@@missing"))
	})
}

func TestIncludeAddsMethodsAfterClass(t *testing.T) {
	in := New()
	m := in.DefineModule("Talkative", Undef)
	in.DefineMethod(m, "greet", func(f *Frame) Value {
		return f.in.NewString("module greet")
	})
	c := in.DefineClass("Person", Undef, Undef)
	in.InjectModule(c, m, InjectInclude)

	obj := in.Call(c, in.Intern("new"), nil, false, nil)
	s, _ := in.AsString(in.Call(obj, in.Intern("greet"), nil, false, nil))
	require.Equal(t, "module greet", s)
}

func TestIncludeDoesNotOverrideClassMethod(t *testing.T) {
	in := New()
	m := in.DefineModule("Talkative", Undef)
	in.DefineMethod(m, "greet", func(f *Frame) Value {
		return f.in.NewString("module greet")
	})
	c := in.DefineClass("Person", Undef, Undef)
	in.DefineMethod(c, "greet", func(f *Frame) Value {
		return f.in.NewString("class greet")
	})
	in.InjectModule(c, m, InjectInclude)

	obj := in.Call(c, in.Intern("new"), nil, false, nil)
	s, _ := in.AsString(in.Call(obj, in.Intern("greet"), nil, false, nil))
	require.Equal(t, "class greet", s)
}

func TestPrependOverridesClassMethod(t *testing.T) {
	in := New()
	m := in.DefineModule("Loud", Undef)
	in.DefineMethod(m, "greet", func(f *Frame) Value {
		up := f.in.CallSuper(nil, false)
		s, _ := f.in.AsString(up)
		return f.in.NewString(s + "!")
	})
	c := in.DefineClass("Person", Undef, Undef)
	in.DefineMethod(c, "greet", func(f *Frame) Value {
		return f.in.NewString("hi")
	})
	in.InjectModule(c, m, InjectPrepend)

	obj := in.Call(c, in.Intern("new"), nil, false, nil)
	s, _ := in.AsString(in.Call(obj, in.Intern("greet"), nil, false, nil))
	require.Equal(t, "hi!", s)
}

func TestExtendAddsSingletonMethods(t *testing.T) {
	in := New()
	m := in.DefineModule("Countable", Undef)
	in.DefineMethod(m, "count", func(f *Frame) Value {
		return f.in.NewInt(1)
	})
	c := in.DefineClass("Registry", Undef, Undef)
	in.InjectModule(c, m, InjectExtend)

	// The method is on the class object itself, not on instances.
	n, _ := in.AsInt(in.Call(c, in.Intern("count"), nil, false, nil))
	require.Equal(t, int64(1), n)

	obj := in.Call(c, in.Intern("new"), nil, false, nil)
	mustRaise(t, in, in.classNoMethod, func() {
		in.Call(obj, in.Intern("count"), nil, false, nil)
	})
}

func TestInjectRejectsNonModule(t *testing.T) {
	in := New()
	c := in.DefineClass("Person", Undef, Undef)
	other := in.DefineClass("NotAModule", Undef, Undef)
	mustRaise(t, in, in.classType, func() {
		in.InjectModule(c, other, InjectInclude)
	})
}

func TestInstanceOfModuleRaises(t *testing.T) {
	in := New()
	m := in.DefineModule("Pure", Undef)
	mustRaise(t, in, in.classNoMethod, func() {
		in.Call(m, in.Intern("new"), nil, false, nil)
	})
}

func TestExceptionInstantiation(t *testing.T) {
	in := New()
	exc := in.Call(in.classRuntime, in.Intern("new"), []Value{in.NewString("bad")}, false, nil)
	require.Equal(t, KindException, in.KindOf(exc))
	require.Equal(t, "bad", in.ExceptionMessage(exc))

	s, _ := in.AsString(in.Call(exc, in.Intern("message"), nil, false, nil))
	require.Equal(t, "bad", s)
}

func TestRaiseWithClassInstantiates(t *testing.T) {
	in := New()
	exc := mustRaise(t, in, in.classRuntime, func() {
		in.Raise(in.classRuntime)
	})
	require.Equal(t, "RuntimeError", in.ExceptionMessage(exc))
}

func TestRaiseRejectsNonException(t *testing.T) {
	in := New()
	mustRaise(t, in, in.classType, func() {
		in.Raise(in.NewInt(3))
	})
}

func TestGlobalRaiseFunction(t *testing.T) {
	in := New()
	exc := mustRaise(t, in, in.classArg, func() {
		in.Call(in.NewInt(1), in.Intern("raise"), []Value{in.classArg, in.NewString("nope")}, false, nil)
	})
	require.Equal(t, "nope", in.ExceptionMessage(exc))
}
