package gantry

import (
	"github.com/cloudcmds/gantry/interp"
	"github.com/gofrs/uuid"
)

// RegisterObjectBindingCallbacks installs the pair of handlers invoked
// when the runtime instantiates or reclaims instances of a bound class.
// Each registration opens a new registry generation: instances bound
// under an earlier generation still get their free callback on
// collection, but no longer resolve through GetBoundObject.
func (g *Gate) RegisterObjectBindingCallbacks(alloc BindAllocHandler, free BindFreeHandler) {
	g.binding.gen = uuid.Must(uuid.NewV4())
	g.binding.alloc = alloc
	g.binding.free = free
}

// BindClass marks a runtime class as native-backed: every instance of it
// and of its subclasses triggers the allocate callback on construction
// and the free callback on reclamation.
func (g *Gate) BindClass(class interp.Value) {
	g.in.BindClass(class)
}

// GetBoundObject returns the native object associated with an instance of
// a bound class, or nil when the instance was never bound, was bound
// under a different registry generation, or has already been freed. A nil
// result is an expected steady-state outcome, not an error.
func (g *Gate) GetBoundObject(instance interp.Value) any {
	e, ok := g.binding.objects[instance]
	if !ok || e.gen != g.binding.gen {
		return nil
	}
	return e.obj
}

// bindAllocate is the runtime hook run when an instance of a bound class
// is constructed. The allocate handler must produce a non-nil native
// object, which becomes associated 1:1 with the instance.
func (g *Gate) bindAllocate(className string, instance interp.Value) {
	if g.binding.alloc == nil {
		g.in.RaiseError(g.in.RuntimeErrorClass(), "no binding allocate handler registered")
	}
	obj := g.binding.alloc(className)
	if obj == nil {
		g.in.RaiseError(g.in.RuntimeErrorClass(), "binding allocate handler returned nil for %s", className)
	}
	g.binding.objects[instance] = boundObject{
		gen:   g.binding.gen,
		class: className,
		obj:   obj,
	}
	g.log.Debug().Str("class", className).Msg("bound native object")
}

// bindFree is the runtime hook run when the collector reclaims a bound
// instance. The free callback runs exactly once per instance.
func (g *Gate) bindFree(instance interp.Value) {
	e, ok := g.binding.objects[instance]
	if !ok {
		return
	}
	delete(g.binding.objects, instance)
	if g.binding.free != nil {
		g.binding.free(e.class, e.obj)
	}
	g.log.Debug().Str("class", e.class).Msg("freed native object")
}
