package interp

// MethodFunc is the native implementation of one method. It runs inside a
// frame and returns the method's result, or unwinds by raising.
type MethodFunc func(f *Frame) Value

type methodEntry struct {
	name  ID
	owner Value
	fn    MethodFunc
}

// InjectType selects how a module is injected into a target.
type InjectType int

const (
	// InjectInclude appends the module after the target in its ancestry.
	InjectInclude InjectType = iota
	// InjectPrepend places the module before the target in its ancestry.
	InjectPrepend
	// InjectExtend includes the module into the target's singleton class.
	InjectExtend
)

func (in *Interp) newClass(name string, super Value, module bool) Value {
	cd := &classVal{
		name:    name,
		super:   super,
		methods: map[ID]*methodEntry{},
		consts:  map[ID]Value{},
		cvars:   map[ID]Value{},
		module:  module,
	}
	class := in.classClass
	if module {
		class = in.classModule
	}
	return in.alloc(class, cd)
}

func (in *Interp) classData(v Value) *classVal {
	cd, ok := in.slotOf(v).data.(*classVal)
	if !ok {
		in.RaiseError(in.classType, "class or module expected, got %s", in.typeName(v))
	}
	return cd
}

func (in *Interp) className(v Value) string {
	if in.KindOf(v) != KindClass {
		return in.typeName(v)
	}
	cd := in.slotOf(v).data.(*classVal)
	if cd.name == "" {
		return "#<Module>"
	}
	return cd.name
}

// ClassName returns the name of a class or module value.
func (in *Interp) ClassName(v Value) string {
	return in.className(v)
}

func (in *Interp) isExceptionClass(v Value) bool {
	if in.KindOf(v) != KindClass {
		return false
	}
	for c := v; c != Undef; c = in.classData(c).super {
		if c == in.classExc {
			return true
		}
	}
	return false
}

// appendModule adds a module and, recursively, the modules it includes.
func (in *Interp) appendModule(out []Value, m Value, seen map[Value]bool) []Value {
	if seen[m] {
		return out
	}
	seen[m] = true
	md := in.classData(m)
	for i := len(md.prepends) - 1; i >= 0; i-- {
		out = in.appendModule(out, md.prepends[i], seen)
	}
	out = append(out, m)
	for i := len(md.includes) - 1; i >= 0; i-- {
		out = in.appendModule(out, md.includes[i], seen)
	}
	return out
}

// ancestors returns the method resolution order for a class: for each link
// of the superclass chain, prepends first, then the class, then includes.
func (in *Interp) ancestors(class Value) []Value {
	var out []Value
	seen := map[Value]bool{}
	for c := class; c != Undef; c = in.classData(c).super {
		cd := in.classData(c)
		for i := len(cd.prepends) - 1; i >= 0; i-- {
			out = in.appendModule(out, cd.prepends[i], seen)
		}
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
		for i := len(cd.includes) - 1; i >= 0; i-- {
			out = in.appendModule(out, cd.includes[i], seen)
		}
	}
	return out
}

func (in *Interp) lookupMethod(class Value, name ID) *methodEntry {
	for _, c := range in.ancestors(class) {
		if e, ok := in.classData(c).methods[name]; ok {
			return e
		}
	}
	return nil
}

// singletonClassOf returns the per-object class for v, creating it on
// demand. Immediates share their regular class instead.
func (in *Interp) singletonClassOf(v Value) Value {
	if v < firstHandle {
		return in.ClassOf(v)
	}
	if sc, ok := in.singletons[v]; ok {
		return sc
	}
	sc := in.newClass("", in.slotOf(v).class, false)
	scd := in.classData(sc)
	scd.singleton = true
	scd.attached = v
	in.singletons[v] = sc
	return sc
}

// DefineMethod installs a native instance method on a class or module and
// returns the interned method name.
func (in *Interp) DefineMethod(class Value, name string, fn MethodFunc) ID {
	cd := in.classData(class)
	id := in.Intern(name)
	cd.methods[id] = &methodEntry{name: id, owner: class, fn: fn}
	return id
}

// DefineSingletonMethod installs a native method on one object only.
func (in *Interp) DefineSingletonMethod(obj Value, name string, fn MethodFunc) ID {
	return in.DefineMethod(in.singletonClassOf(obj), name, fn)
}

// DefineGlobalFunction installs a native method on the root class so it is
// callable from everywhere.
func (in *Interp) DefineGlobalFunction(name string, fn MethodFunc) ID {
	return in.DefineMethod(in.classObject, name, fn)
}

// DefineClass finds or creates a class named name under a namespace.
// A nil/undef namespace means top level; an undef superclass means the
// root class. Re-opening an existing class with a different superclass
// raises TypeError, matching the runtime's constant semantics.
func (in *Interp) DefineClass(name string, under Value, super Value) Value {
	if under == Undef || under == Nil {
		under = in.classObject
	}
	if super == Undef || super == Nil {
		super = in.classObject
	}
	if in.KindOf(super) != KindClass || in.classData(super).module {
		in.RaiseError(in.classType, "superclass must be a Class (%s given)", in.typeName(super))
	}
	id := in.Intern(name)
	ud := in.classData(under)
	if existing, ok := ud.consts[id]; ok {
		if in.KindOf(existing) != KindClass || in.classData(existing).module {
			in.RaiseError(in.classType, "%s is not a class", name)
		}
		if in.classData(existing).super != super {
			in.RaiseError(in.classType, "superclass mismatch for class %s", name)
		}
		return existing
	}
	c := in.newClass(in.qualifiedName(under, name), super, false)
	ud.consts[id] = c
	return c
}

// DefineModule finds or creates a module named name under a namespace.
func (in *Interp) DefineModule(name string, under Value) Value {
	if under == Undef || under == Nil {
		under = in.classObject
	}
	id := in.Intern(name)
	ud := in.classData(under)
	if existing, ok := ud.consts[id]; ok {
		if in.KindOf(existing) != KindClass || !in.classData(existing).module {
			in.RaiseError(in.classType, "%s is not a module", name)
		}
		return existing
	}
	m := in.newClass(in.qualifiedName(under, name), Undef, true)
	ud.consts[id] = m
	return m
}

func (in *Interp) qualifiedName(under Value, name string) string {
	if under == in.classObject {
		return name
	}
	return in.className(under) + "::" + name
}

// InjectModule includes, prepends, or extends one module into a target.
// The module argument must be a module; include/prepend targets must be a
// class or module, extend works on any object.
func (in *Interp) InjectModule(into Value, module Value, how InjectType) {
	if in.KindOf(module) != KindClass || !in.classData(module).module {
		in.RaiseError(in.classType, "wrong argument type %s (expected Module)", in.typeName(module))
	}
	switch how {
	case InjectInclude:
		cd := in.classData(into)
		cd.includes = append(cd.includes, module)
	case InjectPrepend:
		cd := in.classData(into)
		cd.prepends = append(cd.prepends, module)
	case InjectExtend:
		scd := in.classData(in.singletonClassOf(into))
		scd.includes = append(scd.includes, module)
	default:
		in.RaiseError(in.classArg, "unknown inject type %d", int(how))
	}
}

// ConstGet resolves a constant starting from a class or module, walking
// its ancestry and finally the top level. Raises NameError when the
// constant is not defined anywhere on that path.
func (in *Interp) ConstGet(from Value, name ID) Value {
	for _, c := range in.ancestors(from) {
		if v, ok := in.classData(c).consts[name]; ok {
			return v
		}
	}
	if from != in.classObject {
		if v, ok := in.classData(in.classObject).consts[name]; ok {
			return v
		}
	}
	in.RaiseError(in.classNameErr, "uninitialized constant %s", in.NameOf(name))
	return Undef
}

// ConstGetAt resolves a constant in exactly one namespace, without
// falling back to the top level.
func (in *Interp) ConstGetAt(from Value, name ID) Value {
	if v, ok := in.classData(from).consts[name]; ok {
		return v
	}
	in.RaiseError(in.classNameErr, "uninitialized constant %s::%s", in.className(from), in.NameOf(name))
	return Undef
}

// ConstSet defines or replaces a constant on a class or module.
func (in *Interp) ConstSet(class Value, name ID, v Value) {
	in.classData(class).consts[name] = v
}

// CvarGet reads a class variable, walking the superclass chain. Raises
// NameError when unset.
func (in *Interp) CvarGet(class Value, name ID) Value {
	for c := class; c != Undef; c = in.classData(c).super {
		if v, ok := in.classData(c).cvars[name]; ok {
			return v
		}
	}
	in.RaiseError(in.classNameErr, "uninitialized class variable %s in %s", in.NameOf(name), in.className(class))
	return Undef
}

// CvarSet writes a class variable on a class.
func (in *Interp) CvarSet(class Value, name ID, v Value) {
	in.classData(class).cvars[name] = v
}

// BindClass marks a class as native-backed: constructing an instance of it
// or of a subclass triggers the BindAllocate hook, and reclaiming such an
// instance triggers BindFree.
func (in *Interp) BindClass(class Value) {
	in.classData(class).bound = true
}

func (in *Interp) classBound(class Value) bool {
	for c := class; c != Undef; c = in.classData(c).super {
		if in.classData(c).bound {
			return true
		}
	}
	return false
}
