// Package rewrite turns monolithic icon-library imports into one import per icon.
//
// A statement such as
//
//	import { FaPlay, FaStop as Stop } from 'react-icons/fa';
//
// becomes
//
//	import FaPlay from "@react-icons/all-files/fa/FaPlay";
//	import Stop from "@react-icons/all-files/fa/FaStop";
//
// Matching is line oriented: a statement is rewritten only when it occupies a
// whole line. Anything else is passed through byte for byte.
package rewrite

import (
	"fmt"
	"regexp"
	"strings"
)

// Symbol is one name pulled from an import statement.
type Symbol struct {
	Name     string // exported name in the source package
	Local    string // local binding, equal to Name unless aliased
	TypeOnly bool   // inline "type" qualifier inside the braces
}

// Match is a single import statement recognised by the Rewriter.
type Match struct {
	Line     string // the matched line, without its line terminator
	Pack     string // sub-path after the source package, e.g. "md"
	TypeOnly bool   // statement-level "import type"
	Comment  string // trailing line comment, including the leading //
	Symbols  []Symbol
}

// Rewriter rewrites named imports from source/<pack> into per-symbol default
// imports from replacement/<pack>/<Name>.
type Rewriter struct {
	source      string
	replacement string
	pattern     *regexp.Regexp
}

// capture groups of the statement pattern
const (
	groupType = iota + 1
	groupNames
	groupPack
	groupComment
	groupEOL
)

// New returns a Rewriter for the given source and replacement packages.
func New(source, replacement string) *Rewriter {
	expr := `(?m)^import(?:[ \t]+(type))?[ \t]*\{([^}\r\n]+)\}[ \t]*from[ \t]*['"]` +
		regexp.QuoteMeta(source) +
		`/([^'"\r\n]+)['"][ \t]*;?[ \t]*(//[^\r\n]*)?(\r?)$`
	return &Rewriter{
		source:      source,
		replacement: strings.TrimSuffix(replacement, "/"),
		pattern:     regexp.MustCompile(expr),
	}
}

// Source returns the package whose imports are rewritten.
func (r *Rewriter) Source() string { return r.source }

// Replacement returns the package imports are redirected to.
func (r *Rewriter) Replacement() string { return r.replacement }

// Find returns every rewritable statement in content, in document order.
// Statements whose name list holds no symbols are not reported.
func (r *Rewriter) Find(content string) []Match {
	var matches []Match
	for _, groups := range r.pattern.FindAllStringSubmatch(content, -1) {
		if m, ok := r.parse(groups); ok {
			matches = append(matches, m)
		}
	}
	return matches
}

// Rewrite replaces every matching statement in content and reports whether
// the result differs from the input.
func (r *Rewriter) Rewrite(content string) (string, bool) {
	updated := r.pattern.ReplaceAllStringFunc(content, func(stmt string) string {
		groups := r.pattern.FindStringSubmatch(stmt)
		m, ok := r.parse(groups)
		if !ok {
			return stmt
		}
		return r.render(m, groups[groupEOL])
	})
	return updated, updated != content
}

func (r *Rewriter) parse(groups []string) (Match, bool) {
	if groups == nil {
		return Match{}, false
	}
	m := Match{
		Line:     strings.TrimSuffix(groups[0], "\r"),
		Pack:     strings.TrimSpace(groups[groupPack]),
		TypeOnly: groups[groupType] != "",
		Comment:  strings.TrimSpace(groups[groupComment]),
		Symbols:  parseSymbols(groups[groupNames]),
	}
	if len(m.Symbols) == 0 || m.Pack == "" {
		return Match{}, false
	}
	return m, true
}

func parseSymbols(list string) []Symbol {
	var symbols []Symbol
	for _, entry := range strings.Split(list, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		var sym Symbol
		// "type as T" imports a symbol named type; it is not a qualifier.
		if rest, ok := strings.CutPrefix(entry, "type "); ok && !strings.HasPrefix(strings.TrimSpace(rest), "as ") {
			sym.TypeOnly = true
			entry = strings.TrimSpace(rest)
		}
		sym.Name, sym.Local = entry, entry
		if name, alias, ok := strings.Cut(entry, " as "); ok {
			sym.Name = strings.TrimSpace(name)
			sym.Local = strings.TrimSpace(alias)
		}
		if sym.Name == "" || sym.Local == "" {
			continue
		}
		symbols = append(symbols, sym)
	}
	return symbols
}

func (r *Rewriter) render(m Match, eol string) string {
	lines := make([]string, 0, len(m.Symbols))
	for i, sym := range m.Symbols {
		keyword := "import"
		if m.TypeOnly || sym.TypeOnly {
			keyword = "import type"
		}
		line := fmt.Sprintf(`%s %s from "%s/%s/%s";`, keyword, sym.Local, r.replacement, m.Pack, sym.Name)
		if i == 0 && m.Comment != "" {
			line += " " + m.Comment
		}
		lines = append(lines, line+eol)
	}
	return strings.Join(lines, "\n")
}
