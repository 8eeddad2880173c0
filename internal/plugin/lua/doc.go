// Package lua wraps gopher-lua with a sandboxed state for running
// markstyle scripts.
//
// Only the base, table, string and math libraries are opened. The file
// loaders (dofile, loadfile, load, loadstring) and require are removed, so
// a script can reach the editor only through the modules the host
// registers. print writes to a configurable writer instead of stdout.
//
// gopher-lua's LState is not goroutine-safe; State serializes access
// with a mutex.
package lua
