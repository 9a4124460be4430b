// Package index builds the flattened, ordered view of an sshd_config
// include graph.
//
// OpenSSH reads configuration sequentially: the main file's directives,
// with each Include splicing the included file's directives in at that
// point, depth-first, in declaration order. The first obtained value for
// a parameter wins. The index models exactly that: one ordered list of
// directive occurrences across all files, each tagged with its file,
// line, and enclosing scope.
//
// Inclusion is positional. A file included from two places contributes
// its directives twice, under whatever scope is active at each inclusion
// point, while keeping a single FileID for write purposes. A Match
// header rebinds the active scope until the next header or the end of
// the file it appears in; returning from an include restores the
// includer's scope.
//
// The index is a read-only snapshot rebuilt on every invocation, so
// edits made by previous runs or other tools are always observed.
package index
