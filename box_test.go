package gantry

import (
	"testing"

	"github.com/cloudcmds/gantry/interp"
	"github.com/stretchr/testify/require"
)

func TestBoxKeepsValueAlive(t *testing.T) {
	g := newGate(t)
	in := g.Interp()

	v := in.NewString("held")
	b := g.NewBox(v)
	in.GC()
	require.True(t, in.IsLive(v))
	s, _ := in.AsString(b.Value())
	require.Equal(t, "held", s)

	b.Free()
	in.GC()
	require.False(t, in.IsLive(v))
}

func TestBoxDupIsIndependent(t *testing.T) {
	g := newGate(t)
	in := g.Interp()

	v := in.NewArray(in.NewInt(1))
	b1 := g.NewBox(v)
	b2 := b1.Dup()
	require.Equal(t, v, b2.Value())

	b1.Free()
	in.GC()
	require.True(t, in.IsLive(v))

	b2.Free()
	in.GC()
	require.False(t, in.IsLive(v))
}

func TestTwoBoxesSameValue(t *testing.T) {
	g := newGate(t)
	in := g.Interp()

	v := in.NewString("shared")
	b1 := g.NewBox(v)
	b2 := g.NewBox(v)

	b2.Free()
	in.GC()
	require.True(t, in.IsLive(v))

	b1.Free()
	in.GC()
	require.False(t, in.IsLive(v))
}

func TestBoxImmediates(t *testing.T) {
	g := newGate(t)

	b := g.NewBox(interp.True)
	require.Equal(t, interp.True, b.Value())
	b.Free()
}

func TestBoxUseAfterFreePanics(t *testing.T) {
	g := newGate(t)
	in := g.Interp()

	b := g.NewBox(in.NewString("x"))
	b.Free()
	require.Panics(t, func() { b.Value() })
	require.Panics(t, func() { b.Dup() })
	require.Panics(t, func() { b.Free() })
}
