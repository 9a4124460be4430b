package sshparse

import (
	"os"
	"strings"

	"github.com/aursu/sshdconf/internal/errors"
)

// ParseText tokenizes configuration text line by line. name is used for
// error reporting only. The final line is parsed whether or not the text
// ends with a terminator; a trailing terminator does not produce an
// empty extra token.
func ParseText(name, text string) ([]Token, error) {
	if text == "" {
		return nil, nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	tokens := make([]Token, 0, len(lines))
	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		tok, err := ParseLine(line, i+1)
		if err != nil {
			return nil, errors.ParseFailure(name, i+1, err)
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

// ParseFile reads and tokenizes one configuration file.
func ParseFile(path string) ([]Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.IOFailure("read", path, err)
	}
	return ParseText(path, string(data))
}
