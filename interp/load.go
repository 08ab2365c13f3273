package interp

// SourceUnit is a precompiled, loadable unit of runtime code: a native
// function run against a namespace. Top-level definitions made by the
// unit belong on ns, which is the root class for a plain load and a fresh
// anonymous module for a wrapped one.
type SourceUnit func(in *Interp, ns Value)

// RegisterUnit makes a source unit available to Load and Require under a
// name. Registering the same name again replaces the unit.
func (in *Interp) RegisterUnit(name string, unit SourceUnit) {
	in.units[name] = unit
}

// Load runs a registered source unit. With wrap set the unit executes
// against an anonymous module so its top-level constants do not leak into
// the root namespace. An unknown name raises LoadError; anything the unit
// raises propagates.
func (in *Interp) Load(name string, wrap bool) {
	unit, ok := in.units[name]
	if !ok {
		in.RaiseError(in.classLoad, "cannot load such unit -- %s", name)
	}
	ns := in.classObject
	if wrap {
		ns = in.newClass("", Undef, true)
	}
	unit(in, ns)
	in.log.Debug().Str("unit", name).Bool("wrap", wrap).Msg("loaded unit")
}

// Require loads a unit at most once, reporting whether this call loaded
// it. Like Load it raises LoadError for an unknown name.
func (in *Interp) Require(name string) bool {
	if in.loaded[name] {
		return false
	}
	in.Load(name, false)
	in.loaded[name] = true
	return true
}
