package index

import (
	"fmt"
	"strings"

	shellquote "github.com/kballard/go-shellquote"

	"github.com/aursu/sshdconf/internal/config"
	"github.com/aursu/sshdconf/internal/errors"
)

// Scope identifies the evaluation context of a directive. The zero value
// is the global scope. Two Match scopes are the same iff their normalized
// predicates are identical; Display keeps the predicate as the author
// wrote it for rendering and block creation.
type Scope struct {
	Predicate string
	Display   string
}

// Global reports whether the scope is the unconditional context.
func (s Scope) Global() bool {
	return s.Predicate == ""
}

// Equal reports whether two scopes select the same evaluation context.
func (s Scope) Equal(other Scope) bool {
	return s.Predicate == other.Predicate
}

func (s Scope) String() string {
	if s.Global() {
		return "global"
	}
	if s.Display != "" {
		return s.Display
	}
	return s.Predicate
}

// normalizePredicate canonicalizes Match operands into the identity
// string used for scope comparison: criteria are lowercased, and each
// argument is lowercased or kept verbatim per the criterion's case rule.
// An "all" predicate normalizes to the empty string, the global scope.
func normalizePredicate(args []string, settings *config.Settings) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("empty match condition")
	}

	var parts []string
	sawAll := false
	for i := 0; i < len(args); {
		crit := strings.ToLower(args[i])
		rule, ok := settings.CriterionRule(crit)
		if !ok {
			return "", fmt.Errorf("unknown match criterion %q", args[i])
		}
		if rule.NoArgument {
			if crit == "all" {
				sawAll = true
			}
			parts = append(parts, crit)
			i++
			continue
		}
		if i+1 >= len(args) {
			return "", fmt.Errorf("match criterion %q requires an argument", args[i])
		}
		arg := args[i+1]
		if !rule.CaseSensitive {
			arg = strings.ToLower(arg)
		}
		parts = append(parts, crit, arg)
		i += 2
	}

	if sawAll {
		if len(parts) != 1 {
			return "", fmt.Errorf(`"all" cannot be combined with other criteria`)
		}
		return "", nil
	}
	return strings.Join(parts, " "), nil
}

// ParseCondition turns a caller-supplied condition string into a Scope.
// "global" (or an empty string, or "all") selects the global scope;
// anything else must parse under the Match predicate grammar or the
// call fails with AmbiguousScope.
func ParseCondition(condition string, settings *config.Settings) (Scope, error) {
	trimmed := strings.TrimSpace(condition)
	if trimmed == "" || strings.EqualFold(trimmed, "global") {
		return Scope{}, nil
	}

	args, err := shellquote.Split(trimmed)
	if err != nil {
		return Scope{}, errors.AmbiguousScope(condition)
	}

	predicate, err := normalizePredicate(args, settings)
	if err != nil {
		return Scope{}, errors.AmbiguousScope(condition)
	}
	if predicate == "" {
		return Scope{}, nil
	}
	return Scope{Predicate: predicate, Display: trimmed}, nil
}

// headerScope derives the active scope opened by a Match header token.
// Unlike ParseCondition, a malformed header is a parse failure of the
// file, not an ambiguous query.
func headerScope(args []string, display string, settings *config.Settings) (Scope, error) {
	predicate, err := normalizePredicate(args, settings)
	if err != nil {
		return Scope{}, err
	}
	if predicate == "" {
		return Scope{}, nil
	}
	return Scope{Predicate: predicate, Display: display}, nil
}
