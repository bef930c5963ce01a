// Package textpatch applies ordered string replacement rules to a text
// document such as a build configuration file.
package textpatch

import (
	"regexp"
	"strings"
)

// Rule is a single replacement. A rule with a Pattern replaces regex
// matches, otherwise every occurrence of Old is replaced.
type Rule struct {
	Name    string
	Old     string
	New     string
	Pattern *regexp.Regexp
	// Unless skips the rule when the document already contains it.
	Unless string
}

// Literal builds a plain substring rule.
func Literal(name, old, replacement string) Rule {
	return Rule{Name: name, Old: old, New: replacement}
}

// Regexp builds a regex rule. The expression must compile.
func Regexp(name, expr, repl string) Rule {
	return Rule{Name: name, Pattern: regexp.MustCompile(expr), New: repl}
}

// Guard returns a copy of the rule that is skipped once marker is present.
func (r Rule) Guard(marker string) Rule {
	r.Unless = marker
	return r
}

// Applies reports whether the rule would modify content.
func (r Rule) Applies(content string) bool {
	if r.Unless != "" && strings.Contains(content, r.Unless) {
		return false
	}
	if r.Pattern != nil {
		return r.Pattern.MatchString(content)
	}
	return r.Old != "" && strings.Contains(content, r.Old)
}

func (r Rule) apply(content string) string {
	if !r.Applies(content) {
		return content
	}
	if r.Pattern != nil {
		return r.Pattern.ReplaceAllString(content, r.New)
	}
	return strings.ReplaceAll(content, r.Old, r.New)
}

// Apply runs rules in order and reports whether the result differs from
// content. Rules whose replacement reproduces the input count as unchanged.
func Apply(content string, rules []Rule) (string, bool) {
	updated := content
	for _, r := range rules {
		updated = r.apply(updated)
	}
	return updated, updated != content
}

// Applied lists the names of the rules that would modify content when run in
// order.
func Applied(content string, rules []Rule) []string {
	var names []string
	for _, r := range rules {
		next := r.apply(content)
		if next != content {
			names = append(names, r.Name)
		}
		content = next
	}
	return names
}
