// Package sshparse tokenizes sshd_config files.
//
// Each line becomes exactly one Token carrying the raw text and, for
// directives, the byte span of the value within the line. Spans are what
// make structure-preserving edits possible: an update rewrites only the
// value span and every other byte of the file survives untouched.
//
// Tokenization follows OpenSSH's reader: the keyword ends at whitespace
// or '=', the separator may contain one '=', values may be quoted
// (Match User "bob smith"), and an unquoted '#' preceded by whitespace
// starts a trailing comment that is not part of the value.
//
// IncludeTargets resolves Include operands: literal paths are contained
// beneath the root configuration directory, glob patterns expand in
// lexical order the way sshd's glob(3) call does.
package sshparse
