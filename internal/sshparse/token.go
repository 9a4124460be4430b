package sshparse

import (
	"strings"

	shellquote "github.com/kballard/go-shellquote"
)

// Kind classifies a single line of an sshd_config file.
type Kind int

const (
	KindBlank Kind = iota
	KindComment
	KindDirective
	KindMatch
	KindInclude
)

func (k Kind) String() string {
	switch k {
	case KindBlank:
		return "blank"
	case KindComment:
		return "comment"
	case KindDirective:
		return "directive"
	case KindMatch:
		return "match"
	case KindInclude:
		return "include"
	}
	return "unknown"
}

// Token is one parsed line. Raw holds the line exactly as read (without
// terminator) so callers can rewrite files byte-for-byte; ValStart/ValEnd
// delimit the value span within Raw for in-place value updates.
type Token struct {
	Kind   Kind
	Key    string   // directive keyword as written ("" for blank/comment)
	Value  string   // raw value text, Raw[ValStart:ValEnd]
	Args   []string // shell-split value operands
	Line   int      // 1-based line number within the file
	Raw    string
	Indent string // leading whitespace of the line

	ValStart int
	ValEnd   int
}

// keyEnd returns the index just past the directive keyword, which starts
// at the first non-whitespace byte. OpenSSH terminates the keyword at
// whitespace or '='.
func keyEnd(raw string, start int) int {
	i := start
	for i < len(raw) && raw[i] != ' ' && raw[i] != '\t' && raw[i] != '=' {
		i++
	}
	return i
}

// valueSpan finds the value region after the keyword: skip the separator
// (whitespace with at most one '='), then extend to the end of line,
// stopping before an unquoted trailing comment and trimming trailing
// whitespace.
func valueSpan(raw string, afterKey int) (int, int) {
	i := afterKey
	seenEq := false
	for i < len(raw) {
		c := raw[i]
		if c == ' ' || c == '\t' {
			i++
			continue
		}
		if c == '=' && !seenEq {
			seenEq = true
			i++
			continue
		}
		break
	}
	start := i

	end := len(raw)
	inQuote := byte(0)
	for j := start; j < len(raw); j++ {
		c := raw[j]
		switch {
		case inQuote != 0:
			if c == inQuote {
				inQuote = 0
			}
		case c == '"' || c == '\'':
			inQuote = c
		case c == '#':
			// Comment only when preceded by whitespace (or empty value).
			if j == start || raw[j-1] == ' ' || raw[j-1] == '\t' {
				end = j
			}
		}
		if end != len(raw) {
			break
		}
	}

	for end > start && (raw[end-1] == ' ' || raw[end-1] == '\t') {
		end--
	}
	if end < start {
		end = start
	}
	return start, end
}

// ParseLine parses one line (without terminator) into a Token.
// The returned error is a plain tokenization error; callers attach
// file/line context.
func ParseLine(raw string, line int) (Token, error) {
	indentLen := 0
	for indentLen < len(raw) && (raw[indentLen] == ' ' || raw[indentLen] == '\t') {
		indentLen++
	}
	indent := raw[:indentLen]

	tok := Token{Line: line, Raw: raw, Indent: indent}

	rest := raw[indentLen:]
	if rest == "" {
		tok.Kind = KindBlank
		return tok, nil
	}
	if rest[0] == '#' {
		tok.Kind = KindComment
		return tok, nil
	}

	ke := keyEnd(raw, indentLen)
	tok.Key = raw[indentLen:ke]
	tok.ValStart, tok.ValEnd = valueSpan(raw, ke)
	tok.Value = raw[tok.ValStart:tok.ValEnd]

	if tok.Value != "" {
		args, err := shellquote.Split(tok.Value)
		if err != nil {
			return tok, err
		}
		tok.Args = args
	}

	switch strings.ToLower(tok.Key) {
	case "match":
		tok.Kind = KindMatch
	case "include":
		tok.Kind = KindInclude
	default:
		tok.Kind = KindDirective
	}
	return tok, nil
}
