package interp

// BlockFunc is the native implementation of a block. args are the values
// yielded to the block and blockArg is a nested block passed through, or
// Nil. The function returns the block's result, or unwinds by raising or
// breaking.
type BlockFunc func(args []Value, blockArg Value) Value

// Block is caller logic attached to one call. The Block pointer itself is
// the break target: a break raised with this tag unwinds exactly to the
// call the block was given to.
type Block struct {
	fn   BlockFunc
	refs []Value
}

// NewBlock wraps a native function as a block. refs are values the
// function's closure captures; listing them keeps the collector aware of
// references it cannot see inside the closure.
func NewBlock(fn BlockFunc, refs ...Value) *Block {
	return &Block{fn: fn, refs: refs}
}

// Frame is one activation of a method call.
type Frame struct {
	in     *Interp
	self   Value
	name   ID
	args   []Value
	kwArgs bool
	block  *Block
	owner  Value
}

// Interp returns the interpreter the frame runs in.
func (f *Frame) Interp() *Interp { return f.in }

// Self returns the receiver.
func (f *Frame) Self() Value { return f.self }

// Name returns the interned name the method was invoked under.
func (f *Frame) Name() ID { return f.name }

// Args returns the argument list. The slice is shared, not copied.
func (f *Frame) Args() []Value { return f.args }

// Arg returns argument i, or Nil when fewer arguments were supplied.
func (f *Frame) Arg(i int) Value {
	if i < 0 || i >= len(f.args) {
		return Nil
	}
	return f.args[i]
}

// KwArgs reports whether the trailing argument is a keyword-style hash.
func (f *Frame) KwArgs() bool { return f.kwArgs }

// HasBlock reports whether the call carries a block.
func (f *Frame) HasBlock() bool { return f.block != nil }

// Yield invokes the frame's block with the given arguments. Raises
// LocalJumpError when the call carries no block.
func (f *Frame) Yield(args []Value) Value {
	if f.block == nil {
		f.in.RaiseError(f.in.classLocal, "no block given (yield)")
	}
	return f.block.fn(args, Nil)
}

// BlockProc materializes the frame's block as a Proc value, or Nil when
// the call carries no block.
func (f *Frame) BlockProc() Value {
	if f.block == nil {
		return Nil
	}
	return f.in.NewProc(f.block)
}

// Call invokes the method name on recv. kwArgs marks the trailing argument
// as a keyword-style hash; when set it must coerce to Hash. block may be
// nil. An unknown method raises NoMethodError; any raise from the method
// body propagates. A break targeting block terminates the call and
// becomes its result.
func (in *Interp) Call(recv Value, name ID, args []Value, kwArgs bool, block *Block) (result Value) {
	entry := in.lookupMethod(in.ClassOf(recv), name)
	if entry == nil {
		in.RaiseError(in.classNoMethod, "undefined method '%s' for %s", in.NameOf(name), in.typeName(recv))
	}
	return in.invoke(entry, recv, name, args, kwArgs, block)
}

func (in *Interp) invoke(entry *methodEntry, recv Value, name ID, args []Value, kwArgs bool, block *Block) (result Value) {
	if kwArgs && len(args) > 0 {
		in.checkKwHash(args[len(args)-1])
	}
	f := &Frame{
		in:     in,
		self:   recv,
		name:   name,
		args:   args,
		kwArgs: kwArgs,
		block:  block,
		owner:  entry.owner,
	}
	in.frames = append(in.frames, f)
	defer func() {
		in.frames = in.frames[:len(in.frames)-1]
		if block == nil {
			return
		}
		if r := recover(); r != nil {
			j, ok := r.(*Jump)
			if !ok || j.Kind != JumpBreak || j.tag != block {
				panic(r)
			}
			result = j.Val
		}
	}()
	return entry.fn(f)
}

// checkKwHash validates the keyword-argument marker: the trailing argument
// must already be a Hash or coerce to one.
func (in *Interp) checkKwHash(last Value) {
	if in.KindOf(last) == KindHash {
		return
	}
	in.RaiseError(in.classArg, "keyword arguments expected a Hash, got %s", in.typeName(last))
}

// YieldValues yields to the block of the innermost active call. Raises
// LocalJumpError outside any call or when that call has no block.
func (in *Interp) YieldValues(args []Value, kwArgs bool) Value {
	f := in.currentFrame()
	if f == nil {
		in.RaiseError(in.classLocal, "no block given (yield)")
	}
	if kwArgs && len(args) > 0 {
		in.checkKwHash(args[len(args)-1])
	}
	return f.Yield(args)
}

// CallSuper invokes the next implementation of the method the innermost
// frame is running, on the same receiver. The frame's block, if any, is
// passed along.
func (in *Interp) CallSuper(args []Value, kwArgs bool) Value {
	f := in.currentFrame()
	if f == nil {
		in.RaiseError(in.classRuntime, "super called outside of method")
	}
	chain := in.ancestors(in.ClassOf(f.self))
	idx := -1
	for i, c := range chain {
		if c == f.owner {
			idx = i
			break
		}
	}
	var entry *methodEntry
	for i := idx + 1; idx >= 0 && i < len(chain); i++ {
		if e, ok := in.classData(chain[i]).methods[f.name]; ok {
			entry = e
			break
		}
	}
	if entry == nil {
		in.RaiseError(in.classNoMethod, "super: no superclass method '%s' for %s", in.NameOf(f.name), in.typeName(f.self))
	}
	return in.invoke(entry, f.self, f.name, args, kwArgs, f.block)
}

func (in *Interp) currentFrame() *Frame {
	if len(in.frames) == 0 {
		return nil
	}
	return in.frames[len(in.frames)-1]
}

// NewProc wraps a block as a Proc value.
func (in *Interp) NewProc(b *Block) Value {
	return in.alloc(in.classProc, &procVal{block: b})
}

// ProcCall invokes a Proc with arguments and an explicit block argument
// forwarded to the underlying block function.
func (in *Interp) ProcCall(proc Value, args []Value, blockArg Value) Value {
	p, ok := in.slotOf(proc).data.(*procVal)
	if !ok {
		in.RaiseError(in.classType, "Proc expected, got %s", in.typeName(proc))
	}
	return p.block.fn(args, blockArg)
}
