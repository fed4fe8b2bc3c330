package lua

import (
	"context"
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// Metadata is the structured value a script's describe() must return.
type Metadata struct {
	Bindings    []string
	Description string
	Example     string
}

// Inspect executes source in a fresh sandbox and extracts its
// metadata. It verifies both contracted entry points: describe() must
// return a table with a non-empty list of unique string bindings plus
// description and example strings, and process must be defined as a
// function. Any deviation is an error; the caller is expected to skip
// the script and move on.
func Inspect(source string) (Metadata, error) {
	L := newState()
	defer L.Close()

	if err := safeDo(L, source); err != nil {
		return Metadata{}, err
	}

	if L.GetGlobal("process").Type() != lua.LTFunction {
		return Metadata{}, ErrNoProcess
	}

	describe := L.GetGlobal("describe")
	if describe.Type() != lua.LTFunction {
		return Metadata{}, ErrNoDescribe
	}

	ret, err := safeCall(L, describe)
	if err != nil {
		return Metadata{}, fmt.Errorf("describe(): %w", err)
	}

	return metadataFromValue(ret)
}

// Process executes source in a fresh sandbox and calls
// process(fullArgs), returning its string result.
//
// If ctx carries a deadline it bounds the script's running time; an
// expired deadline surfaces as an ordinary execution error. Every
// other failure mode — raised error, missing function, non-string
// return, interpreter panic — is likewise returned as an error and
// never escapes as a crash.
func Process(ctx context.Context, source, fullArgs string) (string, error) {
	L := newState()
	defer L.Close()

	if ctx != nil {
		if _, ok := ctx.Deadline(); ok {
			L.SetContext(ctx)
		}
	}

	if err := safeDo(L, source); err != nil {
		return "", err
	}

	process := L.GetGlobal("process")
	if process.Type() != lua.LTFunction {
		return "", ErrNoProcess
	}

	ret, err := safeCall(L, process, lua.LString(fullArgs))
	if err != nil {
		return "", fmt.Errorf("process(): %w", err)
	}

	s, ok := ret.(lua.LString)
	if !ok {
		return "", ErrNonStringResult
	}
	return string(s), nil
}

// safeDo runs a chunk with panic recovery.
func safeDo(L *lua.LState, source string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return L.DoString(source)
}

// safeCall invokes fn expecting a single return value.
func safeCall(L *lua.LState, fn lua.LValue, args ...lua.LValue) (ret lua.LValue, err error) {
	defer func() {
		if r := recover(); r != nil {
			ret, err = nil, fmt.Errorf("lua panic: %v", r)
		}
	}()

	L.Push(fn)
	for _, arg := range args {
		L.Push(arg)
	}
	if err := L.PCall(len(args), 1, nil); err != nil {
		return nil, err
	}
	ret = L.Get(-1)
	L.Pop(1)
	return ret, nil
}

// metadataFromValue validates the table shape returned by describe().
func metadataFromValue(v lua.LValue) (Metadata, error) {
	tbl, ok := v.(*lua.LTable)
	if !ok {
		return Metadata{}, ErrBadMetadata
	}

	bindingsVal, ok := tbl.RawGetString("bindings").(*lua.LTable)
	if !ok {
		return Metadata{}, ErrNoBindings
	}

	var md Metadata
	seen := make(map[string]bool)
	for i := 1; ; i++ {
		item := bindingsVal.RawGetInt(i)
		if item == lua.LNil {
			break
		}
		s, ok := item.(lua.LString)
		if !ok || s == "" {
			return Metadata{}, ErrBadMetadata
		}
		if seen[string(s)] {
			return Metadata{}, ErrDuplicateBinding
		}
		seen[string(s)] = true
		md.Bindings = append(md.Bindings, string(s))
	}
	if len(md.Bindings) == 0 {
		return Metadata{}, ErrNoBindings
	}

	desc, ok := tbl.RawGetString("description").(lua.LString)
	if !ok {
		return Metadata{}, ErrBadMetadata
	}
	example, ok := tbl.RawGetString("example").(lua.LString)
	if !ok {
		return Metadata{}, ErrBadMetadata
	}

	md.Description = string(desc)
	md.Example = string(example)
	return md, nil
}
