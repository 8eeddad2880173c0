// Package api provides the Lua modules a markstyle script can call.
//
// Four global tables are registered:
//
//	markdown.toggle(style)          -- "bold", "italic", "code", "strikethrough"
//	markdown.heading(dir)           -- "up" or "down"
//	markdown.styles()               -- list of style names
//	buffer.text()                   -- full document text
//	buffer.line(n)                  -- text of line n
//	buffer.line_count()
//	cursor.set(line, col)           -- single caret
//	cursor.add(line, col)           -- additional caret
//	cursor.select(l1, c1, l2, c2)   -- single selection, anchor then active
//	cursor.get_all()                -- list of {line, col, anchor_line, anchor_col}
//	editor.undo() / editor.redo()   -- true when a step was taken
//	editor.run(action [, count])    -- dispatch any action by name
//
// Lines and columns are 1-based, columns counted in characters.
// Commands are dispatched as plugin-sourced actions, so they run through
// the same hooks as key bindings. A failing command raises a Lua error.
package api
