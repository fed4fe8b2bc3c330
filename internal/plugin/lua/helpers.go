package lua

import (
	"strings"
	"unicode"

	lua "github.com/yuin/gopher-lua"
)

const hexDigits = "0123456789ABCDEF"

// pathReserved is the narrower reserved set used by url_encode_path.
// Control bytes and non-ASCII bytes are always encoded on top of it.
const pathReserved = " \"#<>?`{}"

// URLEncode percent-encodes every byte that is not an ASCII letter or
// digit. It backs the url_encode helper and is shared with the
// fallback URL builder so plugins and fallback produce identical
// encodings.
func URLEncode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hexDigits[c>>4])
		b.WriteByte(hexDigits[c&0x0f])
	}
	return b.String()
}

// encodePath percent-encodes control bytes, non-ASCII bytes, and the
// pathReserved set, leaving slashes and most punctuation intact so the
// result stays usable as a URL path.
func encodePath(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 0x20 || c >= 0x7f || strings.IndexByte(pathReserved, c) >= 0 {
			b.WriteByte('%')
			b.WriteByte(hexDigits[c>>4])
			b.WriteByte(hexDigits[c&0x0f])
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// installHelpers registers the fixed helper surface as globals.
//
// All helpers are pure string functions. None perform I/O and none
// retain state between calls; this is the whole capability set a
// script gets.
func installHelpers(L *lua.LState) {
	L.SetGlobal("url_encode", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(URLEncode(L.CheckString(1))))
		return 1
	}))

	L.SetGlobal("url_encode_path", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(encodePath(L.CheckString(1))))
		return 1
	}))

	// get_args strips the binding token and any whitespace after it
	// from the full input line.
	L.SetGlobal("get_args", L.NewFunction(func(L *lua.LState) int {
		full := L.CheckString(1)
		binding := L.CheckString(2)
		args := strings.TrimPrefix(full, binding)
		L.Push(lua.LString(strings.TrimLeftFunc(args, unicode.IsSpace)))
		return 1
	}))

	L.SetGlobal("trim", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(strings.TrimSpace(L.CheckString(1))))
		return 1
	}))

	L.SetGlobal("split", L.NewFunction(func(L *lua.LState) int {
		s := L.CheckString(1)
		delim := L.CheckString(2)
		parts := L.NewTable()
		for _, p := range strings.Split(s, delim) {
			parts.Append(lua.LString(p))
		}
		L.Push(parts)
		return 1
	}))

	L.SetGlobal("starts_with", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LBool(strings.HasPrefix(L.CheckString(1), L.CheckString(2))))
		return 1
	}))

	L.SetGlobal("ends_with", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LBool(strings.HasSuffix(L.CheckString(1), L.CheckString(2))))
		return 1
	}))

	L.SetGlobal("contains", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LBool(strings.Contains(L.CheckString(1), L.CheckString(2))))
		return 1
	}))

	L.SetGlobal("upper", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(strings.ToUpper(L.CheckString(1))))
		return 1
	}))

	L.SetGlobal("lower", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(strings.ToLower(L.CheckString(1))))
		return 1
	}))
}
