// Package engine orchestrates the editing pipeline around the pure
// core: build the index, resolve the effective occurrence, plan the
// edits, patch the affected files, and write them back atomically.
//
// The pipeline is a function of the file contents at invocation time.
// Nothing is cached between runs and no shared state is mutated, so two
// sequential invocations never depend on in-memory results of prior
// runs. Writes are whole-file temp-and-rename replacements; a write
// failure after some files were already replaced leaves the tree
// partially edited, which the caller reconciles by re-running the same
// request — the planner emits no operations for work already done.
package engine
