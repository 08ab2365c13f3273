package interp

import (
	"fmt"
	"strings"
)

// boot builds the class graph and installs the core library.
func (in *Interp) boot() {
	// The first three classes exist before their own metaclass does, so
	// their class links are patched once Class is allocated.
	in.classObject = in.newClass("Object", Undef, false)
	in.classModule = in.newClass("Module", in.classObject, false)
	in.classClass = in.newClass("Class", in.classModule, false)
	in.heap[in.classObject].class = in.classClass
	in.heap[in.classModule].class = in.classClass
	in.heap[in.classClass].class = in.classClass

	rootConsts := in.classData(in.classObject).consts
	rootConsts[in.Intern("Object")] = in.classObject
	rootConsts[in.Intern("Module")] = in.classModule
	rootConsts[in.Intern("Class")] = in.classClass

	def := func(name string, super Value) Value {
		c := in.newClass(name, super, false)
		rootConsts[in.Intern(name)] = c
		return c
	}

	in.classNil = def("NilClass", in.classObject)
	in.classTrue = def("TrueClass", in.classObject)
	in.classFalse = def("FalseClass", in.classObject)
	in.classInt = def("Integer", in.classObject)
	in.classFloat = def("Float", in.classObject)
	in.classString = def("String", in.classObject)
	in.classArray = def("Array", in.classObject)
	in.classHash = def("Hash", in.classObject)
	in.classProc = def("Proc", in.classObject)

	in.classExc = def("Exception", in.classObject)
	in.classStandard = def("StandardError", in.classExc)
	in.classRuntime = def("RuntimeError", in.classStandard)
	in.classType = def("TypeError", in.classStandard)
	in.classArg = def("ArgumentError", in.classStandard)
	in.classRange = def("RangeError", in.classStandard)
	in.classZeroDiv = def("ZeroDivisionError", in.classStandard)
	in.classNameErr = def("NameError", in.classStandard)
	in.classNoMethod = def("NoMethodError", in.classNameErr)
	in.classLocal = def("LocalJumpError", in.classStandard)
	in.classFrozen = def("FrozenError", in.classRuntime)
	in.classLoad = def("LoadError", in.classExc)

	rootConsts[in.Intern("RUNTIME_VERSION")] = in.NewString(Version)

	in.installCore()
}

// RealClassOf returns the value's own class, skipping any singleton.
func (in *Interp) RealClassOf(v Value) Value {
	switch v {
	case Nil, Undef:
		return in.classNil
	case True:
		return in.classTrue
	case False:
		return in.classFalse
	}
	return in.slotOf(v).class
}

func boolValue(b bool) Value {
	if b {
		return True
	}
	return False
}

func (in *Interp) installCore() {
	in.DefineMethod(in.classObject, "class", func(f *Frame) Value {
		return f.in.RealClassOf(f.Self())
	})
	in.DefineMethod(in.classObject, "initialize", func(f *Frame) Value {
		return Nil
	})
	in.DefineMethod(in.classObject, "inspect", func(f *Frame) Value {
		return f.in.NewString(fmt.Sprintf("#<%s>", f.in.className(f.in.RealClassOf(f.Self()))))
	})
	in.DefineMethod(in.classObject, "to_s", func(f *Frame) Value {
		return f.in.NewString(fmt.Sprintf("#<%s>", f.in.className(f.in.RealClassOf(f.Self()))))
	})
	in.DefineMethod(in.classObject, "==", func(f *Frame) Value {
		return boolValue(f.in.keyEqual(f.Self(), f.Arg(0)))
	})
	in.DefineMethod(in.classObject, "equal?", func(f *Frame) Value {
		return boolValue(f.Self() == f.Arg(0))
	})
	in.DefineMethod(in.classObject, "nil?", func(f *Frame) Value {
		return boolValue(f.Self() == Nil)
	})
	in.DefineMethod(in.classObject, "respond_to?", func(f *Frame) Value {
		name, ok := f.in.AsString(f.Arg(0))
		if !ok {
			f.in.RaiseError(f.in.classType, "method name must be a String")
		}
		id, known := f.in.names[name]
		return boolValue(known && f.in.lookupMethod(f.in.ClassOf(f.Self()), id) != nil)
	})

	in.DefineGlobalFunction("raise", func(f *Frame) Value {
		f.in.CheckArity(len(f.Args()), 1, 2)
		exc := f.Arg(0)
		if len(f.Args()) == 2 {
			msg, _ := f.in.AsString(f.in.ToString(f.Arg(1)))
			exc = f.in.NewException(exc, "%s", msg)
		}
		f.in.Raise(exc)
		return Undef
	})

	in.DefineMethod(in.classNil, "to_s", func(f *Frame) Value { return f.in.NewString("") })
	in.DefineMethod(in.classNil, "inspect", func(f *Frame) Value { return f.in.NewString("nil") })
	in.DefineMethod(in.classNil, "nil?", func(f *Frame) Value { return True })
	in.DefineMethod(in.classTrue, "to_s", func(f *Frame) Value { return f.in.NewString("true") })
	in.DefineMethod(in.classTrue, "inspect", func(f *Frame) Value { return f.in.NewString("true") })
	in.DefineMethod(in.classFalse, "to_s", func(f *Frame) Value { return f.in.NewString("false") })
	in.DefineMethod(in.classFalse, "inspect", func(f *Frame) Value { return f.in.NewString("false") })

	in.installNumeric()
	in.installString()
	in.installCollections()
	in.installClassCore()
}

func (in *Interp) installNumeric() {
	intOf := func(f *Frame, v Value) int64 {
		n, ok := f.in.AsInt(v)
		if !ok {
			f.in.RaiseError(f.in.classType, "Integer expected, got %s", f.in.typeName(v))
		}
		return n
	}
	in.DefineMethod(in.classInt, "to_s", func(f *Frame) Value {
		return f.in.NewString(fmt.Sprintf("%d", intOf(f, f.Self())))
	})
	in.DefineMethod(in.classInt, "inspect", func(f *Frame) Value {
		return f.in.NewString(fmt.Sprintf("%d", intOf(f, f.Self())))
	})
	in.DefineMethod(in.classInt, "to_int", func(f *Frame) Value { return f.Self() })
	in.DefineMethod(in.classInt, "to_f", func(f *Frame) Value {
		return f.in.NewFloat(float64(intOf(f, f.Self())))
	})
	in.DefineMethod(in.classInt, "+", func(f *Frame) Value {
		return f.in.NewInt(intOf(f, f.Self()) + intOf(f, f.Arg(0)))
	})
	in.DefineMethod(in.classInt, "-", func(f *Frame) Value {
		return f.in.NewInt(intOf(f, f.Self()) - intOf(f, f.Arg(0)))
	})
	in.DefineMethod(in.classInt, "*", func(f *Frame) Value {
		return f.in.NewInt(intOf(f, f.Self()) * intOf(f, f.Arg(0)))
	})
	in.DefineMethod(in.classInt, "/", func(f *Frame) Value {
		d := intOf(f, f.Arg(0))
		if d == 0 {
			f.in.RaiseError(f.in.classZeroDiv, "divided by 0")
		}
		return f.in.NewInt(intOf(f, f.Self()) / d)
	})
	in.DefineMethod(in.classInt, "<", func(f *Frame) Value {
		return boolValue(intOf(f, f.Self()) < intOf(f, f.Arg(0)))
	})
	in.DefineMethod(in.classInt, ">", func(f *Frame) Value {
		return boolValue(intOf(f, f.Self()) > intOf(f, f.Arg(0)))
	})
	in.DefineMethod(in.classInt, "zero?", func(f *Frame) Value {
		return boolValue(intOf(f, f.Self()) == 0)
	})
	in.DefineMethod(in.classInt, "times", func(f *Frame) Value {
		n := intOf(f, f.Self())
		for i := int64(0); i < n; i++ {
			f.Yield([]Value{f.in.NewInt(i)})
		}
		return f.Self()
	})

	floatOf := func(f *Frame, v Value) float64 {
		x, ok := f.in.AsFloat(v)
		if !ok {
			f.in.RaiseError(f.in.classType, "Float expected, got %s", f.in.typeName(v))
		}
		return x
	}
	in.DefineMethod(in.classFloat, "to_s", func(f *Frame) Value {
		return f.in.NewString(fmt.Sprintf("%g", floatOf(f, f.Self())))
	})
	in.DefineMethod(in.classFloat, "inspect", func(f *Frame) Value {
		return f.in.NewString(fmt.Sprintf("%g", floatOf(f, f.Self())))
	})
	in.DefineMethod(in.classFloat, "to_f", func(f *Frame) Value { return f.Self() })
	in.DefineMethod(in.classFloat, "+", func(f *Frame) Value {
		return f.in.NewFloat(floatOf(f, f.Self()) + f.in.ToFloat(f.Arg(0)))
	})
	in.DefineMethod(in.classFloat, "*", func(f *Frame) Value {
		return f.in.NewFloat(floatOf(f, f.Self()) * f.in.ToFloat(f.Arg(0)))
	})
}

func (in *Interp) installString() {
	strOf := func(f *Frame, v Value) string {
		s, ok := f.in.AsString(v)
		if !ok {
			f.in.RaiseError(f.in.classType, "String expected, got %s", f.in.typeName(v))
		}
		return s
	}
	in.DefineMethod(in.classString, "to_s", func(f *Frame) Value { return f.Self() })
	in.DefineMethod(in.classString, "to_str", func(f *Frame) Value { return f.Self() })
	in.DefineMethod(in.classString, "inspect", func(f *Frame) Value {
		return f.in.NewString(fmt.Sprintf("%q", strOf(f, f.Self())))
	})
	in.DefineMethod(in.classString, "length", func(f *Frame) Value {
		return f.in.NewInt(int64(len(strOf(f, f.Self()))))
	})
	in.DefineMethod(in.classString, "+", func(f *Frame) Value {
		return f.in.NewString(strOf(f, f.Self()) + strOf(f, f.Arg(0)))
	})
	in.DefineMethod(in.classString, "upcase", func(f *Frame) Value {
		return f.in.NewString(strings.ToUpper(strOf(f, f.Self())))
	})
	in.DefineMethod(in.classString, "include?", func(f *Frame) Value {
		return boolValue(strings.Contains(strOf(f, f.Self()), strOf(f, f.Arg(0))))
	})
}

func (in *Interp) installCollections() {
	in.DefineMethod(in.classArray, "to_a", func(f *Frame) Value { return f.Self() })
	in.DefineMethod(in.classArray, "to_ary", func(f *Frame) Value { return f.Self() })
	in.DefineMethod(in.classArray, "length", func(f *Frame) Value {
		return f.in.NewInt(int64(len(f.in.ArrayElems(f.Self()))))
	})
	in.DefineMethod(in.classArray, "size", func(f *Frame) Value {
		return f.in.NewInt(int64(len(f.in.ArrayElems(f.Self()))))
	})
	in.DefineMethod(in.classArray, "push", func(f *Frame) Value {
		for _, a := range f.Args() {
			f.in.ArrayAppend(f.Self(), a)
		}
		return f.Self()
	})
	in.DefineMethod(in.classArray, "[]", func(f *Frame) Value {
		elems := f.in.ArrayElems(f.Self())
		i := f.in.ToInt(f.Arg(0))
		if i < 0 {
			i += int64(len(elems))
		}
		if i < 0 || i >= int64(len(elems)) {
			return Nil
		}
		return elems[i]
	})
	in.DefineMethod(in.classArray, "first", func(f *Frame) Value {
		elems := f.in.ArrayElems(f.Self())
		if len(elems) == 0 {
			return Nil
		}
		return elems[0]
	})
	in.DefineMethod(in.classArray, "each", func(f *Frame) Value {
		for _, e := range f.in.ArrayElems(f.Self()) {
			f.Yield([]Value{e})
		}
		return f.Self()
	})
	in.DefineMethod(in.classArray, "map", func(f *Frame) Value {
		out := f.in.NewArray()
		for _, e := range f.in.ArrayElems(f.Self()) {
			f.in.ArrayAppend(out, f.Yield([]Value{e}))
		}
		return out
	})

	in.DefineMethod(in.classHash, "to_hash", func(f *Frame) Value { return f.Self() })
	in.DefineMethod(in.classHash, "[]", func(f *Frame) Value {
		return f.in.HashGet(f.Self(), f.Arg(0))
	})
	in.DefineMethod(in.classHash, "[]=", func(f *Frame) Value {
		f.in.HashSet(f.Self(), f.Arg(0), f.Arg(1))
		return f.Arg(1)
	})
	in.DefineMethod(in.classHash, "size", func(f *Frame) Value {
		return f.in.NewInt(int64(f.in.HashLen(f.Self())))
	})
	in.DefineMethod(in.classHash, "keys", func(f *Frame) Value {
		out := f.in.NewArray()
		for _, e := range f.in.slotOf(f.Self()).data.(*hashVal).entries {
			f.in.ArrayAppend(out, e.key)
		}
		return out
	})
	in.DefineMethod(in.classHash, "each", func(f *Frame) Value {
		for _, e := range f.in.slotOf(f.Self()).data.(*hashVal).entries {
			f.Yield([]Value{e.key, e.val})
		}
		return f.Self()
	})

	in.DefineMethod(in.classProc, "call", func(f *Frame) Value {
		return f.in.ProcCall(f.Self(), f.Args(), Nil)
	})
}

func (in *Interp) installClassCore() {
	in.DefineMethod(in.classModule, "name", func(f *Frame) Value {
		return f.in.NewString(f.in.className(f.Self()))
	})
	in.DefineMethod(in.classClass, "superclass", func(f *Frame) Value {
		super := f.in.classData(f.Self()).super
		if super == Undef {
			return Nil
		}
		return super
	})
	in.DefineMethod(in.classClass, "new", func(f *Frame) Value {
		return f.in.newInstance(f.Self(), f.Args(), f.KwArgs(), f.block)
	})

	in.DefineMethod(in.classExc, "message", func(f *Frame) Value {
		return f.in.NewString(f.in.ExceptionMessage(f.Self()))
	})
	in.DefineMethod(in.classExc, "to_s", func(f *Frame) Value {
		return f.in.NewString(f.in.ExceptionMessage(f.Self()))
	})
	in.DefineMethod(in.classExc, "inspect", func(f *Frame) Value {
		return f.in.NewString(fmt.Sprintf("#<%s: %s>",
			f.in.className(f.in.RealClassOf(f.Self())), f.in.ExceptionMessage(f.Self())))
	})
}

// newInstance constructs an instance of class, running the binding
// allocate hook for bound classes and then the initialize method.
func (in *Interp) newInstance(class Value, args []Value, kwArgs bool, block *Block) Value {
	cd := in.classData(class)
	if cd.module || cd.singleton {
		in.RaiseError(in.classType, "can't create instance of %s", in.typeName(class))
	}
	var inst Value
	if in.isExceptionClass(class) {
		msg := in.className(class)
		if len(args) > 0 {
			if s, ok := in.AsString(args[0]); ok {
				msg = s
			}
		}
		inst = in.alloc(class, &excVal{message: msg})
	} else {
		inst = in.alloc(class, &instanceVal{ivars: map[ID]Value{}})
	}
	if iv, ok := in.slotOf(inst).data.(*instanceVal); ok && in.classBound(class) {
		if in.hooks.BindAllocate != nil {
			in.hooks.BindAllocate(cd.name, inst)
		}
		iv.bound = true
	}
	idInit := in.Intern("initialize")
	if init := in.lookupMethod(class, idInit); init != nil {
		in.invoke(init, inst, idInit, args, kwArgs, block)
	}
	return inst
}

// IvarGet reads an instance variable, Nil when unset.
func (in *Interp) IvarGet(obj Value, name ID) Value {
	iv, ok := in.slotOf(obj).data.(*instanceVal)
	if !ok {
		return Nil
	}
	if v, ok := iv.ivars[name]; ok {
		return v
	}
	return Nil
}

// IvarSet writes an instance variable.
func (in *Interp) IvarSet(obj Value, name ID, v Value) {
	iv, ok := in.slotOf(obj).data.(*instanceVal)
	if !ok {
		in.RaiseError(in.classType, "can't set instance variable on %s", in.typeName(obj))
	}
	iv.ivars[name] = v
}
