// Package plugin runs Lua scripts against a markstyle editor.
//
// A Host owns one sandboxed Lua state with the markdown, buffer, cursor
// and editor modules installed (see package api). Scripts drive the same
// dispatcher as key bindings:
//
//	cursor.set(1, 7)
//	cursor.add(2, 3)
//	markdown.toggle("bold")
//	if buffer.line(1) == "Hello **world**" then
//	  editor.undo()
//	end
//
// Each run is bounded by the execution timeout. Lua errors, including
// the ones raised by failing commands, are returned wrapped in
// ErrScriptFailed.
package plugin
