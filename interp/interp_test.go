package interp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// mustRaise runs fn expecting a raise and returns the exception value.
func mustRaise(t *testing.T, in *Interp, class Value, fn func()) Value {
	t.Helper()
	var exc Value
	func() {
		defer func() {
			r := recover()
			require.NotNil(t, r, "expected a raise")
			j, ok := r.(*Jump)
			require.True(t, ok, "panic was not a runtime jump: %v", r)
			require.Equal(t, JumpRaise, j.Kind)
			exc = j.Val
		}()
		fn()
	}()
	if class != Undef {
		require.Equal(t, in.className(class), in.className(in.RealClassOf(exc)))
	}
	require.Equal(t, exc, in.Errinfo())
	return exc
}

func TestInternStability(t *testing.T) {
	in := New()
	foo := in.Intern("foo")
	require.Equal(t, foo, in.Intern("foo"))
	require.NotEqual(t, foo, in.Intern("bar"))
	require.Equal(t, "foo", in.NameOf(foo))
	require.Equal(t, "", in.NameOf(NoID))
}

func TestInternEmptyNameRaises(t *testing.T) {
	in := New()
	mustRaise(t, in, in.classArg, func() {
		in.Intern("")
	})
}

func TestBootClassGraph(t *testing.T) {
	in := New()
	for _, name := range []string{
		"Object", "Module", "Class", "Integer", "Float", "String",
		"Array", "Hash", "Proc", "Exception", "StandardError",
		"RuntimeError", "TypeError", "ArgumentError", "RangeError",
		"NameError", "NoMethodError", "LocalJumpError", "LoadError",
	} {
		c := in.ConstGet(in.ObjectClass(), in.Intern(name))
		require.Equal(t, KindClass, in.KindOf(c), name)
		require.Equal(t, name, in.ClassName(c))
	}

	v := in.ConstGet(in.ObjectClass(), in.Intern("RUNTIME_VERSION"))
	s, ok := in.AsString(v)
	require.True(t, ok)
	require.Equal(t, Version, s)
}

func TestValueAccessors(t *testing.T) {
	in := New()

	n, ok := in.AsInt(in.NewInt(42))
	require.True(t, ok)
	require.Equal(t, int64(42), n)

	f, ok := in.AsFloat(in.NewFloat(2.5))
	require.True(t, ok)
	require.Equal(t, 2.5, f)

	s, ok := in.AsString(in.NewString("hi"))
	require.True(t, ok)
	require.Equal(t, "hi", s)

	_, ok = in.AsInt(in.NewString("hi"))
	require.False(t, ok)

	arr := in.NewArray(in.NewInt(1), in.NewInt(2))
	require.Len(t, in.ArrayElems(arr), 2)
	in.ArrayAppend(arr, in.NewInt(3))
	require.Len(t, in.ArrayElems(arr), 3)
}

func TestHashSemantics(t *testing.T) {
	in := New()
	h := in.NewHash()
	k := in.NewString("name")
	in.HashSet(h, k, in.NewInt(1))

	// Lookup by an equal-but-distinct key object.
	got := in.HashGet(h, in.NewString("name"))
	n, ok := in.AsInt(got)
	require.True(t, ok)
	require.Equal(t, int64(1), n)

	in.HashSet(h, in.NewString("name"), in.NewInt(2))
	require.Equal(t, 1, in.HashLen(h))

	require.Equal(t, Nil, in.HashGet(h, in.NewString("other")))
}

func TestTruthiness(t *testing.T) {
	in := New()
	require.False(t, in.Truthy(Nil))
	require.False(t, in.Truthy(False))
	require.True(t, in.Truthy(True))
	require.True(t, in.Truthy(in.NewInt(0)))
	require.True(t, in.Truthy(in.NewString("")))
}

func TestStaleHandleRaises(t *testing.T) {
	in := New()
	v := in.NewInt(7)
	in.GC() // v is unrooted
	mustRaise(t, in, in.classRange, func() {
		in.KindOf(v)
	})
}
