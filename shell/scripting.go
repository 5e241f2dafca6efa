package shell

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"fortio.org/log"
	lua "github.com/yuin/gopher-lua"

	"github.com/vegasq/tapps/frame"
	"github.com/vegasq/tapps/output"
)

// ScriptPrompt is shown for each line of the scripting shell
const ScriptPrompt = "lua> "

// handleScriptShell runs a Lua shell over the interpreter input until exit,
// quit or the end of input. Scripts see the session through read-only
// accessor functions; file, module and host access is not available.
func (in *Interpreter) handleScriptShell() error {
	if in.input == nil {
		return errorf(CodeNoScripting, "scripting shell needs an input stream")
	}

	L := in.newScriptState()
	defer L.Close()

	fmt.Fprintln(in.out, "Lua scripting shell. Type exit or quit to return.")
	for {
		line, err := in.input.ReadLine(ScriptPrompt)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return errorf(CodeIO, "reading script input: %v", err)
		}
		line = strings.TrimSpace(line)
		switch strings.ToLower(line) {
		case "":
			continue
		case "exit", "quit", "exit()", "quit()":
			return nil
		}
		if err := L.DoString(line); err != nil {
			fmt.Fprintf(in.errOut, "LuaError: %v\n", err)
		}
	}
}

// newScriptState creates a sandboxed Lua state with the session accessors
func (in *Interpreter) newScriptState() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.open))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}

	api := map[string]lua.LGFunction{
		"print":       in.luaPrint,
		"frames":      in.luaFrames,
		"series":      in.luaSeries,
		"labels":      in.luaLabels,
		"value":       in.luaValue,
		"parameters":  in.luaParameters,
		"parameter":   in.luaParameter,
		"environment": in.luaEnvironment,
	}
	for name, fn := range api {
		L.SetGlobal(name, L.NewFunction(fn))
	}
	log.LogVf("scripting shell ready")
	return L
}

func (in *Interpreter) luaPrint(L *lua.LState) int {
	parts := make([]string, 0, L.GetTop())
	for i := 1; i <= L.GetTop(); i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	fmt.Fprintln(in.out, strings.Join(parts, "\t"))
	return 0
}

func stringList(L *lua.LState, items []string) *lua.LTable {
	t := L.NewTable()
	for _, item := range items {
		t.Append(lua.LString(item))
	}
	return t
}

func (in *Interpreter) luaFrames(L *lua.LState) int {
	L.Push(stringList(L, in.session.Frames.Names()))
	return 1
}

// scriptFrame returns the frame named by argument n, raising a Lua error
// when it is missing
func (in *Interpreter) scriptFrame(L *lua.LState, n int) *frame.Dataframe {
	name := L.CheckString(n)
	df, ok := in.session.Frames.Get(name)
	if !ok {
		L.RaiseError("%s", notFound(CodeDataframeNotFound, "dataframe", name, in.session.Frames.Names()).Error())
	}
	return df
}

func (in *Interpreter) luaSeries(L *lua.LState) int {
	L.Push(stringList(L, in.scriptFrame(L, 1).SeriesNames()))
	return 1
}

func (in *Interpreter) luaLabels(L *lua.LState) int {
	L.Push(stringList(L, in.scriptFrame(L, 1).Labels()))
	return 1
}

func (in *Interpreter) luaValue(L *lua.LState) int {
	df := in.scriptFrame(L, 1)
	label, series := L.CheckString(2), L.CheckString(3)
	v, err := df.Value(label, series)
	if err != nil {
		L.RaiseError("%v", err)
	}
	L.Push(toLua(v))
	return 1
}

func toLua(v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case string:
		return lua.LString(val)
	case float64:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case bool:
		return lua.LBool(val)
	default:
		return lua.LString(output.FormatValue(val))
	}
}

func (in *Interpreter) luaParameters(L *lua.LState) int {
	L.Push(stringList(L, in.session.ParameterNames()))
	return 1
}

func (in *Interpreter) luaParameter(L *lua.LState) int {
	name, key := L.CheckString(1), L.CheckString(2)
	p, ok := in.session.Parameters[name]
	if !ok {
		L.RaiseError("%s", notFound(CodeParameterNotFound, "parameter set", name, in.session.ParameterNames()).Error())
	}
	v, ok := p.Get(key)
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(v))
	return 1
}

func (in *Interpreter) luaEnvironment(L *lua.LState) int {
	v, ok := in.session.Env.Get(L.CheckString(1))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(v))
	return 1
}
