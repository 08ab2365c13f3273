package gantry

import "github.com/cloudcmds/gantry/interp"

// protect runs one runtime action behind the recover boundary. Any jump
// the action raises is absorbed and recorded, status becomes Failed, and
// the zero result is returned. Non-jump panics are foreign bugs and pass
// through untouched.
func protect[T any](g *Gate, status *Status, op string, fn func() T) (result T) {
	*status = Failed
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		j, ok := r.(*interp.Jump)
		if !ok {
			panic(r)
		}
		g.lastJump = j
		g.log.Debug().
			Str("op", op).
			Stringer("jump", j.Kind).
			Msg("protected call failed")
	}()
	result = fn()
	*status = OK
	return
}

// Load runs a registered source unit. With wrap set, the unit executes in
// an anonymous namespace.
func (g *Gate) Load(name string, wrap bool, status *Status) {
	protect(g, status, "load", func() struct{} {
		g.in.Load(name, wrap)
		return struct{}{}
	})
}

// Require loads a source unit at most once, reporting whether this call
// loaded it.
func (g *Gate) Require(name string, status *Status) bool {
	return protect(g, status, "require", func() bool {
		return g.in.Require(name)
	})
}

// Intern produces the identifier for a name.
func (g *Gate) Intern(name string, status *Status) interp.ID {
	return protect(g, status, "intern", func() interp.ID {
		return g.in.Intern(name)
	})
}

// ConstGet resolves a constant from a class or module, falling back to
// the top level. Pass g.Interp().ObjectClass() for a plain top-level
// lookup.
func (g *Gate) ConstGet(from interp.Value, name interp.ID, status *Status) interp.Value {
	return protect(g, status, "const_get", func() interp.Value {
		return g.in.ConstGet(from, name)
	})
}

// ConstGetAt resolves a constant in exactly one namespace.
func (g *Gate) ConstGetAt(from interp.Value, name interp.ID, status *Status) interp.Value {
	return protect(g, status, "const_get_at", func() interp.Value {
		return g.in.ConstGetAt(from, name)
	})
}

// ConstSet defines a constant on a class or module.
func (g *Gate) ConstSet(class interp.Value, name interp.ID, v interp.Value, status *Status) {
	protect(g, status, "const_set", func() struct{} {
		g.in.ConstSet(class, name, v)
		return struct{}{}
	})
}

// Inspect returns the value's inspect string, honoring a user-defined
// inspect method.
func (g *Gate) Inspect(v interp.Value, status *Status) interp.Value {
	return protect(g, status, "inspect", func() interp.Value {
		return g.in.Inspect(v)
	})
}

// Stringify coerces a value to a String through the runtime's to_s
// protocol, so caller-defined stringification is honored.
func (g *Gate) Stringify(v interp.Value, status *Status) interp.Value {
	return protect(g, status, "stringify", func() interp.Value {
		return g.in.ToString(v)
	})
}

// Call invokes a method by identifier with an argument list. kwArgs marks
// the trailing argument as a keyword-style hash.
func (g *Gate) Call(recv interp.Value, name interp.ID, args []interp.Value, kwArgs bool, status *Status) interp.Value {
	return protect(g, status, "call", func() interp.Value {
		return g.in.Call(recv, name, args, kwArgs, nil)
	})
}

// Yield yields values to the block of the innermost active call.
func (g *Gate) Yield(args []interp.Value, kwArgs bool, status *Status) interp.Value {
	return protect(g, status, "yield", func() interp.Value {
		return g.in.YieldValues(args, kwArgs)
	})
}

// CallSuper invokes the next implementation of the method the innermost
// frame is running.
func (g *Gate) CallSuper(args []interp.Value, kwArgs bool, status *Status) interp.Value {
	return protect(g, status, "call_super", func() interp.Value {
		return g.in.CallSuper(args, kwArgs)
	})
}

// CvarGet reads a class variable from a class.
func (g *Gate) CvarGet(class interp.Value, name interp.ID, status *Status) interp.Value {
	return protect(g, status, "cvar_get", func() interp.Value {
		return g.in.CvarGet(class, name)
	})
}

// Uint converts a value to an unsigned integer, rejecting negative,
// fractional, and out-of-range inputs.
func (g *Gate) Uint(v interp.Value, status *Status) uint64 {
	return protect(g, status, "uint", func() uint64 {
		return g.in.ToUint(v)
	})
}

// Int converts a value to a signed integer, rejecting fractional and
// out-of-range inputs.
func (g *Gate) Int(v interp.Value, status *Status) int64 {
	return protect(g, status, "int", func() int64 {
		return g.in.ToInt(v)
	})
}

// Float converts a value to a float through the runtime's numeric
// protocols.
func (g *Gate) Float(v interp.Value, status *Status) float64 {
	return protect(g, status, "float", func() float64 {
		return g.in.ToFloat(v)
	})
}

// Array coerces a value toward Array.
func (g *Gate) Array(v interp.Value, status *Status) interp.Value {
	return protect(g, status, "array", func() interp.Value {
		return g.in.ToArray(v)
	})
}

// Hash coerces a value toward Hash.
func (g *Gate) Hash(v interp.Value, status *Status) interp.Value {
	return protect(g, status, "hash", func() interp.Value {
		return g.in.ToHash(v)
	})
}

// CheckArity validates a call's argument count against a declared
// [min, max] range; max < 0 means unbounded.
func (g *Gate) CheckArity(argc, min, max int, status *Status) {
	protect(g, status, "check_arity", func() struct{} {
		g.in.CheckArity(argc, min, max)
		return struct{}{}
	})
}

// ScanArgHash classifies a trailing argument as a hash and/or a
// keyword-style options hash.
func (g *Gate) ScanArgHash(last interp.Value, status *Status) (isHash, isOpts bool) {
	type result struct{ hash, opts bool }
	r := protect(g, status, "scan_arg_hash", func() result {
		h, o := g.in.ScanArgHash(last)
		return result{hash: h, opts: o}
	})
	return r.hash, r.opts
}

// DefineClass finds or creates a class under a namespace with the given
// superclass. Undef for either selects the top level / root class.
func (g *Gate) DefineClass(name string, under, super interp.Value, status *Status) interp.Value {
	return protect(g, status, "define_class", func() interp.Value {
		return g.in.DefineClass(name, under, super)
	})
}

// DefineModule finds or creates a module under a namespace.
func (g *Gate) DefineModule(name string, under interp.Value, status *Status) interp.Value {
	return protect(g, status, "define_module", func() interp.Value {
		return g.in.DefineModule(name, under)
	})
}

// InjectModule includes, prepends, or extends a module into a target.
func (g *Gate) InjectModule(into, module interp.Value, how interp.InjectType, status *Status) {
	protect(g, status, "inject_module", func() struct{} {
		g.in.InjectModule(into, module, how)
		return struct{}{}
	})
}

// GlobalSet assigns a global variable. Virtual globals may reject the
// assignment by raising, which reports as Failed.
func (g *Gate) GlobalSet(name interp.ID, v interp.Value, status *Status) {
	protect(g, status, "global_set", func() struct{} {
		g.in.GvarSet(name, v)
		return struct{}{}
	})
}

// GlobalGet reads a global variable. Reads have no failure channel: a
// virtual global's get handler cannot raise, so no status is reported.
func (g *Gate) GlobalGet(name interp.ID) interp.Value {
	return g.in.GvarGet(name)
}
