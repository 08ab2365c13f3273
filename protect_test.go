package gantry

import (
	"testing"

	"github.com/cloudcmds/gantry/interp"
	"github.com/stretchr/testify/require"
)

func newGate(t *testing.T) *Gate {
	t.Helper()
	return New(interp.New())
}

func TestInternReportsOK(t *testing.T) {
	g := newGate(t)
	var st Status
	id := g.Intern("foo", &st)
	require.Equal(t, OK, st)
	require.Equal(t, "foo", g.Interp().NameOf(id))
}

func TestInternFailure(t *testing.T) {
	g := newGate(t)
	var st Status
	g.Intern("", &st)
	require.Equal(t, Failed, st)
	require.NotEqual(t, interp.Nil, g.LastException())
}

func TestStatusIsAlwaysWritten(t *testing.T) {
	g := newGate(t)

	st := Failed
	g.Intern("ok_path", &st)
	require.Equal(t, OK, st)

	st = OK
	g.Intern("", &st)
	require.Equal(t, Failed, st)
}

func TestConstGetTopLevel(t *testing.T) {
	g := newGate(t)
	in := g.Interp()
	var st Status

	id := g.Intern("Integer", &st)
	c := g.ConstGet(in.ObjectClass(), id, &st)
	require.Equal(t, OK, st)
	require.Equal(t, "Integer", in.ClassName(c))

	missing := g.Intern("NoSuchConst", &st)
	v := g.ConstGet(in.ObjectClass(), missing, &st)
	require.Equal(t, Failed, st)
	require.Equal(t, interp.Undef, v)
	require.Equal(t, "NameError", in.ClassName(in.RealClassOf(g.LastException())))
}

func TestConstSetAndGetAt(t *testing.T) {
	g := newGate(t)
	in := g.Interp()
	var st Status

	ns := g.DefineModule("Settings", interp.Undef, &st)
	require.Equal(t, OK, st)

	id := g.Intern("LIMIT", &st)
	g.ConstSet(ns, id, in.NewInt(64), &st)
	require.Equal(t, OK, st)

	v := g.ConstGetAt(ns, id, &st)
	require.Equal(t, OK, st)
	n, _ := in.AsInt(v)
	require.Equal(t, int64(64), n)
}

func TestCallReportsResult(t *testing.T) {
	g := newGate(t)
	in := g.Interp()
	var st Status

	plus := g.Intern("+", &st)
	r := g.Call(in.NewInt(20), plus, []interp.Value{in.NewInt(22)}, false, &st)
	require.Equal(t, OK, st)
	n, _ := in.AsInt(r)
	require.Equal(t, int64(42), n)
}

func TestCallFailureLeavesException(t *testing.T) {
	g := newGate(t)
	in := g.Interp()
	var st Status

	div := g.Intern("/", &st)
	v := g.Call(in.NewInt(1), div, []interp.Value{in.NewInt(0)}, false, &st)
	require.Equal(t, Failed, st)
	require.Equal(t, interp.Undef, v)
	exc := g.LastException()
	require.Equal(t, "ZeroDivisionError", in.ClassName(in.RealClassOf(exc)))

	g.ClearLastException()
	require.Equal(t, interp.Nil, g.LastException())
}

func TestStringifyHonorsUserToS(t *testing.T) {
	g := newGate(t)
	in := g.Interp()
	var st Status

	c := g.DefineClass("Pretty", interp.Undef, interp.Undef, &st)
	in.DefineMethod(c, "to_s", func(f *interp.Frame) interp.Value {
		return f.Interp().NewString("pretty!")
	})
	newID := g.Intern("new", &st)
	obj := g.Call(c, newID, nil, false, &st)
	require.Equal(t, OK, st)

	s := g.Stringify(obj, &st)
	require.Equal(t, OK, st)
	str, _ := in.AsString(s)
	require.Equal(t, "pretty!", str)
}

func TestInspect(t *testing.T) {
	g := newGate(t)
	in := g.Interp()
	var st Status
	s := g.Inspect(in.NewString("x"), &st)
	require.Equal(t, OK, st)
	str, _ := in.AsString(s)
	require.Equal(t, `"x"`, str)
}

func TestNumericConversions(t *testing.T) {
	g := newGate(t)
	in := g.Interp()
	var st Status

	require.Equal(t, uint64(7), g.Uint(in.NewInt(7), &st))
	require.Equal(t, OK, st)

	g.Uint(in.NewInt(-7), &st)
	require.Equal(t, Failed, st)

	require.Equal(t, int64(-7), g.Int(in.NewInt(-7), &st))
	require.Equal(t, OK, st)

	g.Int(in.NewFloat(1.5), &st)
	require.Equal(t, Failed, st)

	require.Equal(t, 2.5, g.Float(in.NewFloat(2.5), &st))
	require.Equal(t, OK, st)
}

func TestCollectionCoercions(t *testing.T) {
	g := newGate(t)
	in := g.Interp()
	var st Status

	arr := g.Array(in.NewInt(1), &st)
	require.Equal(t, OK, st)
	require.Len(t, in.ArrayElems(arr), 1)

	h := g.Hash(interp.Nil, &st)
	require.Equal(t, OK, st)
	require.Equal(t, 0, in.HashLen(h))

	g.Hash(in.NewInt(1), &st)
	require.Equal(t, Failed, st)
}

func TestCheckArityRanges(t *testing.T) {
	g := newGate(t)
	var st Status

	for _, tc := range []struct {
		argc, min, max int
		want           Status
	}{
		{2, 2, 2, OK},
		{3, 1, 5, OK},
		{5, 5, -1, OK},
		{9, 2, -1, OK},
		{1, 2, 2, Failed},
		{3, 0, 2, Failed},
		{0, 1, -1, Failed},
	} {
		g.CheckArity(tc.argc, tc.min, tc.max, &st)
		require.Equal(t, tc.want, st, "argc=%d min=%d max=%d", tc.argc, tc.min, tc.max)
	}
}

func TestScanArgHashGate(t *testing.T) {
	g := newGate(t)
	in := g.Interp()
	var st Status

	opts := in.NewHash()
	in.HashSet(opts, in.NewString("deep"), interp.True)
	isHash, isOpts := g.ScanArgHash(opts, &st)
	require.Equal(t, OK, st)
	require.True(t, isHash)
	require.True(t, isOpts)

	isHash, isOpts = g.ScanArgHash(in.NewInt(3), &st)
	require.Equal(t, OK, st)
	require.False(t, isHash)
	require.False(t, isOpts)
}

func TestLoadAndRequire(t *testing.T) {
	g := newGate(t)
	in := g.Interp()
	var st Status

	runs := 0
	in.RegisterUnit("app", func(in *interp.Interp, ns interp.Value) {
		runs++
	})

	g.Load("app", false, &st)
	require.Equal(t, OK, st)
	require.Equal(t, 1, runs)

	require.True(t, g.Require("app", &st))
	require.Equal(t, OK, st)
	require.Equal(t, 2, runs)
	require.False(t, g.Require("app", &st))
	require.Equal(t, OK, st)

	g.Load("ghost", false, &st)
	require.Equal(t, Failed, st)
	require.Equal(t, "LoadError", in.ClassName(in.RealClassOf(g.LastException())))
}

func TestDefineClassAndInject(t *testing.T) {
	g := newGate(t)
	in := g.Interp()
	var st Status

	ns := g.DefineModule("Acme", interp.Undef, &st)
	require.Equal(t, OK, st)

	base := g.DefineClass("Base", interp.Undef, interp.Undef, &st)
	require.Equal(t, OK, st)

	c := g.DefineClass("Gadget", ns, base, &st)
	require.Equal(t, OK, st)
	require.Equal(t, "Acme::Gadget", in.ClassName(c))

	m := g.DefineModule("Mixin", interp.Undef, &st)
	require.Equal(t, OK, st)
	g.InjectModule(c, m, interp.InjectInclude, &st)
	require.Equal(t, OK, st)

	// Injecting a class is a type error surfaced through status.
	g.InjectModule(c, base, interp.InjectPrepend, &st)
	require.Equal(t, Failed, st)
}

func TestCallSuperThroughGate(t *testing.T) {
	g := newGate(t)
	in := g.Interp()
	var st Status

	base := g.DefineClass("Animal", interp.Undef, interp.Undef, &st)
	in.DefineMethod(base, "speak", func(f *interp.Frame) interp.Value {
		return f.Interp().NewString("...")
	})
	sub := g.DefineClass("Dog", interp.Undef, base, &st)
	in.DefineMethod(sub, "speak", func(f *interp.Frame) interp.Value {
		var inner Status
		up := g.CallSuper(nil, false, &inner)
		s, _ := f.Interp().AsString(up)
		if inner != OK {
			s = "?"
		}
		return f.Interp().NewString(s + " woof")
	})

	dog := g.Call(sub, g.Intern("new", &st), nil, false, &st)
	r := g.Call(dog, g.Intern("speak", &st), nil, false, &st)
	require.Equal(t, OK, st)
	s, _ := in.AsString(r)
	require.Equal(t, "... woof", s)
}

func TestFailedResultIsUndefSentinel(t *testing.T) {
	g := newGate(t)
	in := g.Interp()
	var st Status

	v := g.Call(in.NewInt(1), g.Intern("nope", &st), nil, false, &st)
	require.Equal(t, Failed, st)
	require.Equal(t, interp.Undef, v)
	require.False(t, in.IsLive(v))
}
