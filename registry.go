package gantry

import (
	"fmt"

	"github.com/cloudcmds/gantry/interp"
	"github.com/hashicorp/go-multierror"
)

// BlockHandler runs caller logic for a block attached with an opaque
// context. args are the yielded values and blockArg is a nested block
// passed through, or Nil.
type BlockHandler func(context any, args []interp.Value, blockArg interp.Value) ReturnInstruction

// ValueBlockHandler is BlockHandler for blocks whose context is a runtime
// value.
type ValueBlockHandler func(context interp.Value, args []interp.Value, blockArg interp.Value) ReturnInstruction

// MethodHandler runs caller logic for every gate-defined method. The
// MethodID identifies which registered method is being invoked; the
// handler dispatches on it internally.
type MethodHandler func(method MethodID, self interp.Value, args []interp.Value, kwArgs bool) ReturnInstruction

// GlobalGetHandler produces the value of a virtual global variable. Get
// has no failure channel: if that is insufficient, encode the failure in
// the returned value.
type GlobalGetHandler func(name interp.ID) interp.Value

// GlobalSetHandler runs on assignment to a virtual global variable and
// may reject the assignment by returning a Raise instruction.
type GlobalSetHandler func(name interp.ID, v interp.Value) ReturnInstruction

// BindAllocHandler produces the native object for a new instance of a
// bound class. It must not return nil.
type BindAllocHandler func(className string) any

// BindFreeHandler releases the native object when the runtime reclaims
// the instance it was bound to.
type BindFreeHandler func(className string, obj any)

// registry holds the single live handler per callback kind. Registration
// is last-writer-wins and belongs to the setup phase; once calls are
// flowing the registry is only read. Re-registering mid-flight is not
// detected and not supported.
type registry struct {
	blockVoid  BlockHandler
	blockValue ValueBlockHandler
	method     MethodHandler
	gvarGet    GlobalGetHandler
	gvarSet    GlobalSetHandler
}

// RegisterBlockHandler sets the handler for opaque-context block calls.
func (g *Gate) RegisterBlockHandler(h BlockHandler) {
	g.reg.blockVoid = h
}

// RegisterValueBlockHandler sets the handler for value-context block
// calls.
func (g *Gate) RegisterValueBlockHandler(h ValueBlockHandler) {
	g.reg.blockValue = h
}

// RegisterMethodHandler sets the handler all gate-defined methods go
// through.
func (g *Gate) RegisterMethodHandler(h MethodHandler) {
	g.reg.method = h
}

// RegisterGlobalHandlers sets the pair of handlers virtual global
// variables go through.
func (g *Gate) RegisterGlobalHandlers(get GlobalGetHandler, set GlobalSetHandler) {
	g.reg.gvarGet = get
	g.reg.gvarSet = set
}

// Validate reports every callback kind that still has no handler, as one
// aggregated error. Call it at the end of the setup phase; a gate used
// without the handlers its callbacks need will raise at dispatch time
// instead.
func (g *Gate) Validate() error {
	var result *multierror.Error
	missing := func(name string) {
		result = multierror.Append(result, fmt.Errorf("no %s handler registered", name))
	}
	if g.reg.blockVoid == nil {
		missing("block")
	}
	if g.reg.blockValue == nil {
		missing("value block")
	}
	if g.reg.method == nil {
		missing("method")
	}
	if g.reg.gvarGet == nil {
		missing("global get")
	}
	if g.reg.gvarSet == nil {
		missing("global set")
	}
	if g.binding.alloc == nil {
		missing("binding allocate")
	}
	if g.binding.free == nil {
		missing("binding free")
	}
	return result.ErrorOrNil()
}
