package lua

import (
	lua "github.com/yuin/gopher-lua"
)

// newState builds a fresh, capability-stripped Lua state for a single
// invocation.
//
// Only the base, string, table, and math libraries are opened. The
// loader functions (dofile, loadfile, load, loadstring) are removed so
// a script cannot pull code from disk or construct new chunks, and io,
// os, debug, and package are never opened at all. The helper surface
// installed by installHelpers is the only way a script can do anything
// beyond pure computation on its argument.
func newState() *lua.LState {
	L := lua.NewState(lua.Options{
		SkipOpenLibs: true,
	})

	lua.OpenBase(L)
	lua.OpenString(L)
	lua.OpenTable(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "collectgarbage"} {
		L.SetGlobal(name, lua.LNil)
	}

	installHelpers(L)

	return L
}
