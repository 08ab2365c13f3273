package gantry

import "github.com/cloudcmds/gantry/interp"

// CreateVirtualGlobal binds a named global variable to the registered
// global get/set handlers and returns its identifier. A readonly global
// rejects assignment with NameError before the set handler is consulted.
//
// Reads go through the get handler, which has no failure channel; writes
// go through the set handler, whose instruction may Raise, surfacing as
// Failed from GlobalSet.
func (g *Gate) CreateVirtualGlobal(name string, readonly bool) interp.ID {
	get := func(id interp.ID) interp.Value {
		h := g.reg.gvarGet
		if h == nil {
			return interp.Nil
		}
		return h(id)
	}
	var set func(interp.ID, interp.Value)
	if !readonly {
		set = func(id interp.ID, v interp.Value) {
			h := g.reg.gvarSet
			if h == nil {
				g.in.RaiseError(g.in.RuntimeErrorClass(), "no global set handler registered")
			}
			g.log.Debug().Str("gvar", g.in.NameOf(id)).Msg("dispatch global set callback")
			g.realize(h(id, v), nil)
		}
	}
	return g.in.DefineVirtualGvar(name, get, set)
}
