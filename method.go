package gantry

import "github.com/cloudcmds/gantry/interp"

// MethodID identifies one gate-defined method: the interned method name
// plus the target it was defined on. The runtime allows no per-method
// context on dispatch, so a single method handler serves every defined
// method and dispatches internally on this pair. Target is the defining
// class for a regular method, the attached object for a singleton method,
// and Undef for a global function.
type MethodID struct {
	Name   interp.ID
	Target interp.Value
}

// methodTrampoline builds the runtime method body that routes invocation
// to the registered method handler and realizes its instruction. Break is
// meaningless in a method body, so the realization point has no break
// target.
func (g *Gate) methodTrampoline(mid MethodID) interp.MethodFunc {
	return func(f *interp.Frame) interp.Value {
		h := g.reg.method
		if h == nil {
			g.in.RaiseError(g.in.RuntimeErrorClass(), "no method handler registered")
		}
		g.log.Debug().
			Str("method", g.in.NameOf(mid.Name)).
			Int("argc", len(f.Args())).
			Msg("dispatch method callback")
		return g.realize(h(mid, f.Self(), f.Args(), f.KwArgs()), nil)
	}
}

// DefineGlobalFunction defines a function callable from everywhere,
// dispatched through the method handler.
func (g *Gate) DefineGlobalFunction(name string) MethodID {
	mid := MethodID{Name: g.in.Intern(name), Target: interp.Undef}
	g.in.DefineGlobalFunction(name, g.methodTrampoline(mid))
	return mid
}

// DefineMethod defines an instance method on a class, dispatched through
// the method handler.
func (g *Gate) DefineMethod(class interp.Value, name string) MethodID {
	mid := MethodID{Name: g.in.Intern(name), Target: class}
	g.in.DefineMethod(class, name, g.methodTrampoline(mid))
	return mid
}

// DefineSingletonMethod defines a method on one object only, dispatched
// through the method handler.
func (g *Gate) DefineSingletonMethod(obj interp.Value, name string) MethodID {
	mid := MethodID{Name: g.in.Intern(name), Target: obj}
	g.in.DefineSingletonMethod(obj, name, g.methodTrampoline(mid))
	return mid
}
