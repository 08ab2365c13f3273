package interp

// GvarGet reads a global variable. A plain unset global reads as Nil; a
// virtual global dispatches its get hook.
func (in *Interp) GvarGet(name ID) Value {
	g, ok := in.gvars[name]
	if !ok {
		return Nil
	}
	if g.get != nil {
		return g.get(name)
	}
	return g.value
}

// GvarSet writes a global variable. A virtual global dispatches its set
// hook, which may raise; a read-only virtual global raises NameError.
func (in *Interp) GvarSet(name ID, v Value) {
	g, ok := in.gvars[name]
	if !ok {
		in.gvars[name] = &gvarEntry{value: v}
		return
	}
	if g.get != nil {
		if g.set == nil {
			in.RaiseError(in.classNameErr, "%s is a read-only variable", in.NameOf(name))
		}
		g.set(name, v)
		return
	}
	g.value = v
}

// DefineVirtualGvar registers a hook-backed global variable and returns
// its interned name. A nil set hook makes the variable read-only.
// Re-defining an existing virtual global replaces its hooks.
func (in *Interp) DefineVirtualGvar(name string, get func(ID) Value, set func(ID, Value)) ID {
	id := in.Intern(name)
	in.gvars[id] = &gvarEntry{value: Undef, get: get, set: set}
	return id
}
