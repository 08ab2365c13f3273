package gantry

import "github.com/cloudcmds/gantry/interp"

// blockVoidTrampoline builds the runtime block that routes invocations to
// the registered opaque-context handler and realizes its instruction.
// The block pointer itself is the break target.
func (g *Gate) blockVoidTrampoline(context any) *interp.Block {
	var block *interp.Block
	block = interp.NewBlock(func(args []interp.Value, blockArg interp.Value) interp.Value {
		h := g.reg.blockVoid
		if h == nil {
			g.in.RaiseError(g.in.RuntimeErrorClass(), "no block handler registered")
		}
		g.log.Debug().Int("argc", len(args)).Msg("dispatch block callback")
		return g.realize(h(context, args, blockArg), block)
	})
	return block
}

func (g *Gate) blockValueTrampoline(context interp.Value) *interp.Block {
	var block *interp.Block
	block = interp.NewBlock(func(args []interp.Value, blockArg interp.Value) interp.Value {
		h := g.reg.blockValue
		if h == nil {
			g.in.RaiseError(g.in.RuntimeErrorClass(), "no value block handler registered")
		}
		g.log.Debug().Int("argc", len(args)).Msg("dispatch value block callback")
		return g.realize(h(context, args, blockArg), block)
	}, context)
	return block
}

// BlockCall invokes a method with a block attached; whenever the runtime
// yields to the block, the registered opaque-context block handler runs
// with the given context.
func (g *Gate) BlockCall(recv interp.Value, name interp.ID, args []interp.Value, kwArgs bool, context any, status *Status) interp.Value {
	return protect(g, status, "block_call", func() interp.Value {
		return g.in.Call(recv, name, args, kwArgs, g.blockVoidTrampoline(context))
	})
}

// BlockCallValue is BlockCall routed through the value-context block
// handler.
func (g *Gate) BlockCallValue(recv interp.Value, name interp.ID, args []interp.Value, kwArgs bool, context interp.Value, status *Status) interp.Value {
	return protect(g, status, "block_call_value", func() interp.Value {
		return g.in.Call(recv, name, args, kwArgs, g.blockValueTrampoline(context))
	})
}

// NewProc wraps an opaque context as a runtime Proc whose invocations go
// through the registered opaque-context block handler.
func (g *Gate) NewProc(context any, status *Status) interp.Value {
	return protect(g, status, "new_proc", func() interp.Value {
		return g.in.NewProc(g.blockVoidTrampoline(context))
	})
}

// ProcCallWithBlock invokes a Proc, forwarding blockArg as the nested
// block argument the proc's logic receives.
func (g *Gate) ProcCallWithBlock(proc interp.Value, args []interp.Value, blockArg interp.Value, status *Status) interp.Value {
	return protect(g, status, "proc_call", func() interp.Value {
		return g.in.ProcCall(proc, args, blockArg)
	})
}
