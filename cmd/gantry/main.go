// Command gantry wires a small host environment to the runtime through a
// gate and walks the core surface: protected calls, gate-defined methods,
// block callbacks, virtual globals, and native object binding.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/cloudcmds/gantry"
	"github.com/cloudcmds/gantry/interp"
)

var (
	red   = color.New(color.FgRed).SprintFunc()
	green = color.New(color.FgGreen).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
)

func fatal(msg interface{}) {
	var s string
	switch msg := msg.(type) {
	case string:
		s = msg
	case error:
		s = msg.Error()
	default:
		s = fmt.Sprintf("%v", msg)
	}
	fmt.Fprintf(os.Stderr, "%s\n", red(s))
	os.Exit(1)
}

type counter struct {
	n int64
}

func main() {
	if os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}

	in := interp.New()
	g := gantry.New(in)

	var midIncr, midValue gantry.MethodID

	g.RegisterMethodHandler(func(method gantry.MethodID, self interp.Value, args []interp.Value, kwArgs bool) gantry.ReturnInstruction {
		c, _ := g.GetBoundObject(self).(*counter)
		if c == nil {
			return gantry.ReturnRaise(in.NewException(in.RuntimeErrorClass(), "counter not bound"))
		}
		switch method {
		case midIncr:
			var st gantry.Status
			n := g.Int(args[0], &st)
			if st != gantry.OK {
				return gantry.ReturnJump()
			}
			c.n += n
			return gantry.ReturnValue(self)
		case midValue:
			return gantry.ReturnValue(in.NewInt(c.n))
		}
		return gantry.ReturnRaise(in.NewException(in.RuntimeErrorClass(), "unhandled method"))
	})

	g.RegisterBlockHandler(func(context any, args []interp.Value, blockArg interp.Value) gantry.ReturnInstruction {
		sum := context.(*int64)
		if n, ok := in.AsInt(args[0]); ok {
			*sum += n
		}
		return gantry.ReturnValue(interp.Nil)
	})

	g.RegisterGlobalHandlers(
		func(name interp.ID) interp.Value {
			return in.NewString(interp.Version)
		},
		func(name interp.ID, v interp.Value) gantry.ReturnInstruction {
			return gantry.ReturnValue(v)
		},
	)

	g.RegisterObjectBindingCallbacks(
		func(className string) any {
			fmt.Printf("  allocate %s\n", bold(className))
			return &counter{}
		},
		func(className string, obj any) {
			fmt.Printf("  release %s (final value %d)\n", bold(className), obj.(*counter).n)
		},
	)

	var st gantry.Status

	fmt.Println(bold("defining Counter"))
	cls := g.DefineClass("Counter", interp.Undef, interp.Undef, &st)
	if st != gantry.OK {
		fatal(in.FormatException(g.LastException()))
	}
	g.BindClass(cls)
	midIncr = g.DefineMethod(cls, "incr")
	midValue = g.DefineMethod(cls, "value")

	obj := g.Call(cls, g.Intern("new", &st), nil, false, &st)
	if st != gantry.OK {
		fatal(in.FormatException(g.LastException()))
	}
	box := g.NewBox(obj)

	g.Call(obj, g.Intern("incr", &st), []interp.Value{in.NewInt(40)}, false, &st)
	g.Call(obj, g.Intern("incr", &st), []interp.Value{in.NewInt(2)}, false, &st)
	v := g.Call(obj, g.Intern("value", &st), nil, false, &st)
	if st != gantry.OK {
		fatal(in.FormatException(g.LastException()))
	}
	n, _ := in.AsInt(v)
	fmt.Printf("counter value: %s\n", green(fmt.Sprintf("%d", n)))

	// Raising path: incr rejects a non-integer argument.
	g.Call(obj, g.Intern("incr", &st), []interp.Value{in.NewString("oops")}, false, &st)
	if st == gantry.Failed {
		fmt.Printf("rejected bad argument: %s\n", red(in.FormatException(g.LastException())))
		g.ClearLastException()
	}

	// Block callback: sum 0..4 by yielding into the host.
	var sum int64
	g.BlockCall(in.NewInt(5), g.Intern("times", &st), nil, false, &sum, &st)
	if st != gantry.OK {
		fatal(in.FormatException(g.LastException()))
	}
	fmt.Printf("block sum: %s\n", green(fmt.Sprintf("%d", sum)))

	// Virtual global backed by the get handler.
	vid := g.CreateVirtualGlobal("$gantry_version", true)
	ver, _ := in.AsString(g.GlobalGet(vid))
	fmt.Printf("runtime version: %s\n", green(ver))

	fmt.Println(bold("collecting"))
	box.Free()
	in.GC()
}
