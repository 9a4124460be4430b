// Package plan turns a resolution into the minimal set of text edits:
// update the winning value in place, comment out shadowed duplicates,
// or insert a new line into the right scope.
package plan

import (
	"github.com/aursu/sshdconf/internal/config"
	"github.com/aursu/sshdconf/internal/index"
	"github.com/aursu/sshdconf/internal/resolve"
)

// OpKind discriminates file-level edit operations.
type OpKind int

const (
	// OpUpdateValue rewrites the value span of an existing directive line.
	OpUpdateValue OpKind = iota
	// OpInsertAfter inserts new lines immediately after an anchor line.
	OpInsertAfter
	// OpCommentOut neutralizes a directive line without deleting it.
	OpCommentOut
)

func (k OpKind) String() string {
	switch k {
	case OpUpdateValue:
		return "update"
	case OpInsertAfter:
		return "insert"
	case OpCommentOut:
		return "comment-out"
	}
	return "unknown"
}

// Op is one file-level edit operation. Operations are position-stable:
// updates rewrite in place and inserts/comments never invalidate the
// line numbers of operations emitted after them.
type Op struct {
	Kind OpKind
	File index.FileID

	// Line is the 1-based target line for updates and comment-outs, and
	// the anchor line for inserts. Anchor 0 inserts at the top of the
	// file (used for empty files and inserts before the first line).
	Line int

	// Value span within the target line, for updates.
	ValStart int
	ValEnd   int

	// NewValue is the replacement value text, for updates.
	NewValue string

	// Lines are the fully formed lines to insert, without terminator.
	// When CopyAnchorIndent is set the applier prefixes each line with
	// the anchor line's indentation.
	Lines            []string
	CopyAnchorIndent bool

	// BlankBefore separates the insertion from a non-blank anchor line,
	// used when a new Match block is appended to a file.
	BlankBefore bool
}

// Action is the desired end state for the target option.
type Action struct {
	Unset bool
	Value string
}

// Set returns the action that makes the option's effective value v.
func Set(v string) Action { return Action{Value: v} }

// Unset returns the action that removes every in-scope occurrence.
func Unset() Action { return Action{Unset: true} }

// Plan turns a resolution into the ordered edit operations that make the
// effective occurrence of (key, scope) reflect the action and neutralize
// every shadow. Operations come out in ascending index order, so applying
// them per file in any grouping yields the same result.
func Plan(idx *index.Index, res resolve.Resolution, key string, scope index.Scope, action Action, settings *config.Settings) []Op {
	if action.Unset {
		return planUnset(res)
	}
	if res.Found() {
		return planUpdate(res, action.Value)
	}
	return planInsert(idx, key, scope, action.Value, settings)
}

// lineRef identifies a physical line. A file included at two inclusion
// points indexes the same line once per point, so distinct occurrences
// in a resolution can share a lineRef.
type lineRef struct {
	File index.FileID
	Line int
}

// planUnset comments out the effective occurrence and every shadow.
// Partial removal would just promote a shadow to effective, so removal
// is always total. Each physical line is commented at most once. No
// occurrence means nothing to do.
func planUnset(res resolve.Resolution) []Op {
	if !res.Found() {
		return nil
	}
	ops := []Op{commentOut(*res.Effective)}
	seen := map[lineRef]bool{{res.Effective.File, res.Effective.Line}: true}
	for _, shadow := range res.Shadows {
		ref := lineRef{shadow.File, shadow.Line}
		if seen[ref] {
			continue
		}
		seen[ref] = true
		ops = append(ops, commentOut(shadow))
	}
	return ops
}

// planUpdate rewrites the effective occurrence in place when its value
// differs, and comments out every shadow so no live duplicate remains.
// A shadow sharing the effective occurrence's physical line is the same
// text the update already rewrites, so it never gets a comment-out.
func planUpdate(res resolve.Resolution, value string) []Op {
	var ops []Op
	eff := res.Effective
	if eff.Value != value {
		ops = append(ops, Op{
			Kind:     OpUpdateValue,
			File:     eff.File,
			Line:     eff.Line,
			ValStart: eff.ValStart,
			ValEnd:   eff.ValEnd,
			NewValue: value,
		})
	}
	seen := map[lineRef]bool{{eff.File, eff.Line}: true}
	for _, shadow := range res.Shadows {
		ref := lineRef{shadow.File, shadow.Line}
		if seen[ref] {
			continue
		}
		seen[ref] = true
		ops = append(ops, commentOut(shadow))
	}
	return ops
}

// planInsert places a new directive where a future resolution will find
// it first: after the last directive of the target scope in its home
// file. A missing Match block is created at the end of the root file.
func planInsert(idx *index.Index, key string, scope index.Scope, value string, settings *config.Settings) []Op {
	text := key + " " + value

	if scope.Global() {
		root := idx.Root
		if anchor := idx.LastScopeDirectiveLine(root, scope); anchor > 0 {
			return []Op{{
				Kind:             OpInsertAfter,
				File:             root,
				Line:             anchor,
				Lines:            []string{text},
				CopyAnchorIndent: true,
			}}
		}
		// No global directive in the root file: insert before the first
		// Match block so the directive stays in global scope, or at the
		// end when the file has no blocks at all.
		anchor := idx.RootFile().LineCount()
		if first := idx.FirstHeaderLine(root); first > 0 {
			anchor = first - 1
		}
		return []Op{{
			Kind:  OpInsertAfter,
			File:  root,
			Line:  anchor,
			Lines: []string{text},
		}}
	}

	if h := idx.FirstMatchHeader(scope); h != nil {
		if last := idx.BlockLastDirectiveLine(h); last > 0 {
			return []Op{{
				Kind:             OpInsertAfter,
				File:             h.File,
				Line:             last,
				Lines:            []string{text},
				CopyAnchorIndent: true,
			}}
		}
		// Empty block: insert right after the header with the
		// configured body indentation.
		return []Op{{
			Kind:  OpInsertAfter,
			File:  h.File,
			Line:  h.Line,
			Lines: []string{settings.Indent + text},
		}}
	}

	// The block does not exist anywhere in the graph: append it to the
	// root file.
	root := idx.RootFile()
	return []Op{{
		Kind:        OpInsertAfter,
		File:        root.ID,
		Line:        root.LineCount(),
		Lines:       []string{"Match " + scope.String(), settings.Indent + text},
		BlankBefore: true,
	}}
}

func commentOut(d index.Directive) Op {
	return Op{
		Kind: OpCommentOut,
		File: d.File,
		Line: d.Line,
	}
}
