// Package patch applies planned edit operations to a single file's text.
//
// It is a pure text transform: input text plus operations in, output
// text out, no file-system access. Every byte not covered by an
// operation's span appears unchanged and in order in the output, and an
// empty operation list returns byte-identical text.
package patch

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aursu/sshdconf/internal/config"
	"github.com/aursu/sshdconf/internal/plan"
)

// Apply rewrites text with the operations planned for this file.
func Apply(text string, ops []plan.Op, settings *config.Settings) (string, error) {
	if len(ops) == 0 {
		return text, nil
	}

	lines, trailing := splitLines(text)

	// Process bottom-up so inserts do not shift the lines that later
	// operations target.
	sorted := make([]plan.Op, len(ops))
	copy(sorted, ops)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Line > sorted[j].Line
	})

	for _, op := range sorted {
		var err error
		switch op.Kind {
		case plan.OpUpdateValue:
			lines, err = updateValue(lines, op)
		case plan.OpCommentOut:
			lines, err = commentOut(lines, op, settings)
		case plan.OpInsertAfter:
			lines, err = insertAfter(lines, op)
		default:
			err = fmt.Errorf("unknown operation kind %d", op.Kind)
		}
		if err != nil {
			return "", err
		}
	}

	out := strings.Join(lines, "\n")
	if trailing && len(lines) > 0 {
		out += "\n"
	}
	return out, nil
}

// updateValue replaces only the value span of the target line. The key,
// separator style, and any trailing comment survive untouched.
func updateValue(lines []string, op plan.Op) ([]string, error) {
	i, err := lineIndex(lines, op.Line)
	if err != nil {
		return nil, err
	}
	line := lines[i]
	if op.ValStart > len(line) || op.ValEnd > len(line) || op.ValStart > op.ValEnd {
		return nil, fmt.Errorf("value span [%d:%d] out of range for line %d", op.ValStart, op.ValEnd, op.Line)
	}
	lines[i] = line[:op.ValStart] + op.NewValue + line[op.ValEnd:]
	return lines, nil
}

// commentOut prefixes the line with the comment marker and appends the
// audit tag. The line is never deleted, keeping removals reviewable.
func commentOut(lines []string, op plan.Op, settings *config.Settings) ([]string, error) {
	i, err := lineIndex(lines, op.Line)
	if err != nil {
		return nil, err
	}
	body, eol := splitEOL(lines[i])
	line := settings.CommentMarker + " " + body
	if settings.CommentTag != "" {
		line += " " + settings.CommentMarker + " " + settings.CommentTag
	}
	lines[i] = line + eol
	return lines, nil
}

// insertAfter splices the operation's lines in right after the anchor.
func insertAfter(lines []string, op plan.Op) ([]string, error) {
	if op.Line < 0 || op.Line > len(lines) {
		return nil, fmt.Errorf("insert anchor %d out of range (%d lines)", op.Line, len(lines))
	}

	indent := ""
	if op.CopyAnchorIndent && op.Line > 0 {
		indent = leadingWhitespace(lines[op.Line-1])
	}

	// New lines take the terminator style of the nearest existing line.
	eol := ""
	if op.Line > 0 {
		_, eol = splitEOL(lines[op.Line-1])
	} else if len(lines) > 0 {
		_, eol = splitEOL(lines[0])
	}

	var insertion []string
	if op.BlankBefore && op.Line > 0 && strings.TrimSpace(lines[op.Line-1]) != "" {
		insertion = append(insertion, eol)
	}
	for _, l := range op.Lines {
		if l == "" {
			insertion = append(insertion, eol)
			continue
		}
		insertion = append(insertion, indent+l+eol)
	}

	out := make([]string, 0, len(lines)+len(insertion))
	out = append(out, lines[:op.Line]...)
	out = append(out, insertion...)
	out = append(out, lines[op.Line:]...)
	return out, nil
}

func lineIndex(lines []string, line int) (int, error) {
	if line < 1 || line > len(lines) {
		return 0, fmt.Errorf("line %d out of range (%d lines)", line, len(lines))
	}
	return line - 1, nil
}

func leadingWhitespace(s string) string {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return s[:i]
}

// splitLines breaks text on "\n", each line keeping its own "\r" if it
// had one. Splitting matches the tokenizer exactly, so line numbers stay
// aligned even when a file mixes terminators, and carrying the "\r" per
// line makes the join round-trip byte-for-byte.
func splitLines(text string) (lines []string, trailing bool) {
	if text == "" {
		return nil, true
	}
	lines = strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
		trailing = true
	}
	return lines, trailing
}

// splitEOL separates a line's content from its trailing "\r", if any.
func splitEOL(line string) (body, eol string) {
	if strings.HasSuffix(line, "\r") {
		return line[:len(line)-1], "\r"
	}
	return line, ""
}
