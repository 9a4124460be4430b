package sshparse

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	securejoin "github.com/cyphar/filepath-securejoin"

	"github.com/aursu/sshdconf/internal/errors"
)

// hasGlobMeta reports whether an include operand is a glob pattern
// rather than a literal path.
func hasGlobMeta(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}

// IncludeTargets resolves the operands of an Include token to concrete
// file paths in declaration order. Relative operands are taken relative
// to rootDir (the directory of the root configuration file, matching
// sshd's treatment of paths relative to /etc/ssh) and are contained
// within it. Glob operands expand in lexical order; a glob with no
// matches contributes nothing, while a literal operand naming a missing
// file is a parse failure.
func IncludeTargets(tok Token, rootDir string) ([]string, error) {
	var targets []string
	for _, op := range tok.Args {
		if hasGlobMeta(op) {
			pattern := op
			if !filepath.IsAbs(pattern) {
				pattern = filepath.Join(rootDir, pattern)
			}
			matches, err := doublestar.FilepathGlob(pattern)
			if err != nil {
				return nil, errors.ParseFailure(pattern, 0, err)
			}
			sort.Strings(matches)
			targets = append(targets, matches...)
			continue
		}

		path := op
		if !filepath.IsAbs(path) {
			joined, err := securejoin.SecureJoin(rootDir, path)
			if err != nil {
				return nil, errors.ParseFailure(op, 0, err)
			}
			path = joined
		}
		if _, err := os.Stat(path); err != nil {
			return nil, errors.IncludeUnreadable(path, err)
		}
		targets = append(targets, path)
	}
	return targets, nil
}
