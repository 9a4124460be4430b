// Package resolve finds the effective occurrence of an option under
// OpenSSH's first-match-wins evaluation.
//
// sshd uses the first value obtained for a parameter and silently
// ignores later ones. Evaluation order is read order across the include
// graph, not scope priority, so the effective occurrence for a query is
// simply the first in-scope directive in the flattened index; every
// in-scope directive after it is shadowed.
package resolve

import (
	"strings"

	"github.com/aursu/sshdconf/internal/index"
)

// Resolution is the outcome of one (key, scope) query. Effective is nil
// when the option is not set anywhere for that scope, which is not an
// error: the OpenSSH default applies. Shadows lists every later in-scope
// occurrence in read order.
type Resolution struct {
	Effective *index.Directive
	Shadows   []index.Directive
}

// Found reports whether any occurrence matched.
func (r Resolution) Found() bool {
	return r.Effective != nil
}

// Resolve scans the index in read order for directives whose key matches
// case-insensitively and whose scope is compatible with the query: a
// global query matches only global-scope directives, a Match query
// matches only directives under an identical predicate.
func Resolve(idx *index.Index, key string, scope index.Scope) Resolution {
	var res Resolution
	for i := range idx.Directives {
		d := &idx.Directives[i]
		if !strings.EqualFold(d.Key, key) {
			continue
		}
		if !d.Scope.Equal(scope) {
			continue
		}
		if res.Effective == nil {
			res.Effective = d
		} else {
			res.Shadows = append(res.Shadows, *d)
		}
	}
	return res
}
