// Package dispatcher routes actions to handlers and coordinates execution.
//
// Actions arrive from the keymap, from Lua plugins and from the command
// line, all as input.Action values named "namespace.action". The
// dispatcher finds a handler, builds an ExecutionContext around the
// editor and the toggle coordinator, and runs the handler.
//
// # Routing
//
//  1. Namespace Router: "markdown.toggleBold" is routed to the handler
//     registered for the "markdown" namespace.
//  2. Handler Registry: exact action names, several handlers per name
//     sorted by priority.
//
// # Handler Execution
//
// When an action is dispatched:
//
//  1. The ExecutionContext is built; the action count is clamped
//  2. Pre-dispatch hooks run and may cancel the action
//  3. The router (then the registry) finds the handler
//  4. The handler runs under the configured timeout, with panic recovery
//  5. Post-dispatch hooks run
//  6. Metrics are recorded (if enabled)
//
// A dry run (Plan) builds the same context with DryRun set. Handlers
// report the edits they would make without applying them.
package dispatcher
