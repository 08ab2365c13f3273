package interp

// Pin roots a value so the collector will not reclaim it. Pins are
// counted: a value stays rooted until Unpin has been called once per Pin.
// Pinning an immediate is a no-op.
func (in *Interp) Pin(v Value) {
	if v < firstHandle {
		return
	}
	in.slotOf(v) // validate
	in.pins[v]++
}

// Unpin releases one root for a value.
func (in *Interp) Unpin(v Value) {
	if v < firstHandle {
		return
	}
	if in.pins[v] <= 1 {
		delete(in.pins, v)
		return
	}
	in.pins[v]--
}

// Pinned reports the current pin count for a value.
func (in *Interp) Pinned(v Value) int {
	return in.pins[v]
}

// GC runs one mark/sweep cycle and returns the number of reclaimed
// objects. Roots are the class graph, pinned values, global variables,
// the pending exception, and every active frame. Reclaiming a bound
// instance invokes the BindFree hook exactly once.
//
// Collection only happens here; there are no implicit safepoints. Any
// unrooted handle held outside the interpreter is invalid after GC
// returns.
func (in *Interp) GC() int {
	var visit func(Value)
	visit = func(v Value) {
		if v < firstHandle {
			return
		}
		s, ok := in.heap[v]
		if !ok || s.marked {
			return
		}
		s.marked = true
		visit(s.class)
		s.data.trace(visit)
	}

	visit(in.classObject)
	visit(in.errinfo)
	for v := range in.pins {
		visit(v)
	}
	for _, g := range in.gvars {
		if g.value != Undef {
			visit(g.value)
		}
	}
	for _, f := range in.frames {
		visit(f.self)
		visit(f.owner)
		for _, a := range f.args {
			visit(a)
		}
		if f.block != nil {
			for _, r := range f.block.refs {
				visit(r)
			}
		}
	}

	// A singleton class is live iff its attached object is. Attachments
	// can chain, so iterate to a fixed point.
	for changed := true; changed; {
		changed = false
		for obj, sc := range in.singletons {
			s, ok := in.heap[obj]
			if ok && s.marked {
				if ss := in.heap[sc]; ss != nil && !ss.marked {
					visit(sc)
					changed = true
				}
			}
		}
	}

	swept := 0
	for v, s := range in.heap {
		if s.marked {
			s.marked = false
			continue
		}
		if inst, ok := s.data.(*instanceVal); ok && inst.bound && in.hooks.BindFree != nil {
			in.hooks.BindFree(v)
		}
		delete(in.heap, v)
		delete(in.singletons, v)
		swept++
	}
	in.log.Debug().Int("swept", swept).Int("live", len(in.heap)).Msg("gc cycle")
	return swept
}

// Live returns the number of objects currently on the heap.
func (in *Interp) Live() int {
	return len(in.heap)
}

// IsLive reports whether a handle still refers to a heap object.
// Immediates are always live.
func (in *Interp) IsLive(v Value) bool {
	if v < firstHandle {
		return v != Undef
	}
	_, ok := in.heap[v]
	return ok
}
