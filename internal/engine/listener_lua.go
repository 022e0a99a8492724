package engine

import (
	lua "github.com/yuin/gopher-lua"
)

// LuaListener adapts a *lua.LState to the Listener interface,
// invoking whichever of on_content_loaded, on_text_inserted and
// on_text_deleted the script registered as a global function. A script
// that registers none of them is a valid, silent listener.
type LuaListener struct {
	L *lua.LState
}

// NewLuaListener wraps L. The caller owns L's lifecycle.
func NewLuaListener(L *lua.LState) *LuaListener {
	return &LuaListener{L: L}
}

func (l *LuaListener) callIfDefined(name string, args ...lua.LValue) {
	fn := l.L.GetGlobal(name)
	if fn.Type() != lua.LTFunction {
		return
	}
	l.L.Push(fn)
	for _, a := range args {
		l.L.Push(a)
	}
	// Listener calls happen synchronously inside the engine's mutation
	// path; a scripting error there must not bring the engine down.
	defer func() { recover() }()
	_ = l.L.PCall(len(args), 0, nil)
}

func (l *LuaListener) OnContentLoaded() {
	l.callIfDefined("on_content_loaded")
}

func (l *LuaListener) OnTextInserted(start int64, text string) {
	l.callIfDefined("on_text_inserted", lua.LNumber(start), lua.LString(text))
}

func (l *LuaListener) OnTextDeleted(start, end int64) {
	l.callIfDefined("on_text_deleted", lua.LNumber(start), lua.LNumber(end))
}
