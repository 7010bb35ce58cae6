package event

import (
	"regexp"
	"slices"
	"strings"
)

// IsWildcard reports whether name is a wildcard pattern.
func IsWildcard(name string) bool {
	return strings.Contains(name, "*")
}

// CompilePattern translates a glob pattern into an anchored regexp.
// "*" matches zero or more of any character; everything else is literal.
func CompilePattern(pattern string) (*regexp.Regexp, error) {
	quoted := regexp.QuoteMeta(pattern)
	return regexp.Compile("^" + strings.ReplaceAll(quoted, `\*`, ".*") + "$")
}

// MatchPattern reports whether name matches the glob pattern.
func MatchPattern(pattern, name string) bool {
	if !IsWildcard(pattern) {
		return pattern == name
	}
	re, err := CompilePattern(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(name)
}

type wildcard struct {
	re      *regexp.Regexp
	entries []*entry
}

// wildcardsFor returns the patterns matching name, memoized per name.
// Callers hold d.mu for writing.
func (d *DefaultDispatcher) wildcardsFor(name string) []string {
	if patterns, ok := d.matches[name]; ok {
		return patterns
	}

	patterns := make([]string, 0)
	for pattern, w := range d.wildcards {
		if w.re.MatchString(name) {
			patterns = append(patterns, pattern)
		}
	}
	slices.Sort(patterns)
	d.matches[name] = patterns
	return patterns
}
