// Package query implements the lookup collaborator: translating a
// shell-glob identifier pattern (`*`/`?`) into a SQL LIKE pattern and
// applying the --defs/--decls/--refs sub-kind filters, independently
// combinable per the supplemented CLI-lookup feature.
package query

import "strings"

// Filter selects which of the three id_sub_kind tables a lookup searches.
// The zero value (all false) means "search all three" — the CLI's default.
type Filter struct {
	Defs, Decls, Refs bool
}

// Any reports whether at least one of Defs/Decls/Refs was explicitly set.
func (f Filter) Any() bool { return f.Defs || f.Decls || f.Refs }

// LikePattern translates a shell-glob identifier pattern into a SQL LIKE
// pattern: `*` becomes `%`, `?` becomes `_`, and literal `%`, `_`, and `\`
// in the input are escaped so they match themselves rather than acting as
// LIKE wildcards.
func LikePattern(glob string) string {
	var b strings.Builder
	b.Grow(len(glob) + 4)
	for _, r := range glob {
		switch r {
		case '*':
			b.WriteByte('%')
		case '?':
			b.WriteByte('_')
		case '%', '_', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
