package scope

import (
	"bufio"
	"fmt"
	"os"
	"path"
	"strings"
)

// rule represents a single scope rule (inclusion or exclusion).
type rule struct {
	pattern string // e.g. "src/**", "*.d.ts", "src/main/index.ts"
	exclude bool   // true if this is an exclusion rule (prefixed with -)
}

// Scope decides which files of a source tree may be rewritten.
// Paths are slash separated and relative to the tree root.
//
// Format:
//
//	src/**                 # everything below src/
//	-src/**/*.d.ts         # except declaration files
//	-*.test.tsx            # and tests, wherever they live
//	src/main/index.ts      # exact file
//
// With no inclusion rules every path is included.
type Scope struct {
	includes []rule
	excludes []rule
}

// All returns a Scope that includes every path.
func All() *Scope {
	return &Scope{}
}

// New builds a Scope from a list of rules.
func New(rules []string) *Scope {
	s := &Scope{}
	for _, line := range rules {
		processLine(s, line)
	}
	return s
}

// Load parses a scope definition which can be a file path or a direct string (comma-separated rules).
func Load(input string) (*Scope, error) {
	s := &Scope{}

	info, err := os.Stat(input)
	isFile := err == nil && !info.IsDir()

	if isFile {
		f, err := os.Open(input)
		if err != nil {
			return nil, fmt.Errorf("could not open scope file: %w", err)
		}
		defer f.Close()

		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			processLine(s, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("error reading scope file: %w", err)
		}
	} else {
		for _, part := range strings.Split(input, ",") {
			processLine(s, part)
		}
	}

	if len(s.includes) == 0 && len(s.excludes) == 0 {
		return nil, fmt.Errorf("scope contains no rules")
	}

	return s, nil
}

func processLine(s *Scope, line string) {
	line = strings.TrimSpace(line)

	// Skip empty lines and comments
	if line == "" || strings.HasPrefix(line, "#") {
		return
	}

	// Strip inline comments
	if idx := strings.Index(line, " #"); idx != -1 {
		line = strings.TrimSpace(line[:idx])
	}

	exclude := false
	pattern := line
	if strings.HasPrefix(line, "-") {
		exclude = true
		pattern = strings.TrimSpace(strings.TrimPrefix(line, "-"))
	}
	pattern = strings.TrimPrefix(path.Clean("/"+pattern), "/")
	if pattern == "" {
		return
	}

	r := rule{pattern: pattern, exclude: exclude}
	if exclude {
		s.excludes = append(s.excludes, r)
	} else {
		s.includes = append(s.includes, r)
	}
}

// IsInScope checks whether a relative path is within scope.
// Exclusions always take priority over inclusions.
func (s *Scope) IsInScope(rel string) bool {
	rel = normalize(rel)
	if rel == "" {
		return false
	}

	for _, r := range s.excludes {
		if matchPattern(r.pattern, rel) {
			return false
		}
	}

	if len(s.includes) == 0 {
		return true
	}
	for _, r := range s.includes {
		if matchPattern(r.pattern, rel) {
			return true
		}
	}

	return false
}

// Filter returns only the paths that are in scope.
func (s *Scope) Filter(paths []string) []string {
	var filtered []string
	for _, p := range paths {
		if s.IsInScope(p) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// Empty reports whether the scope has no rules at all.
func (s *Scope) Empty() bool {
	return len(s.includes) == 0 && len(s.excludes) == 0
}

// String returns a human-readable representation of the scope.
func (s *Scope) String() string {
	var sb strings.Builder
	sb.WriteString("Scope:\n")
	sb.WriteString("  Includes:\n")
	if len(s.includes) == 0 {
		sb.WriteString("    + ** (all)\n")
	}
	for _, r := range s.includes {
		sb.WriteString(fmt.Sprintf("    + %s\n", r.pattern))
	}
	if len(s.excludes) > 0 {
		sb.WriteString("  Excludes:\n")
		for _, r := range s.excludes {
			sb.WriteString(fmt.Sprintf("    - %s\n", r.pattern))
		}
	}
	return sb.String()
}

func normalize(rel string) string {
	rel = strings.ReplaceAll(strings.TrimSpace(rel), "\\", "/")
	return strings.TrimPrefix(path.Clean("/"+rel), "/")
}

// matchPattern checks if a relative path matches a pattern.
// Supports:
//   - Exact match: "src/index.ts" matches "src/index.ts"
//   - Directory prefix: "src/**" matches everything below "src/"
//   - Inner wildcard: "src/**/*.d.ts" matches "*.d.ts" at any depth below "src/",
//     and "src/**/icons/*.tsx" matches "icons/*.tsx" at any depth below "src/"
//   - Glob: "src/*.ts" matches via path.Match; a pattern without a slash
//     is also tried against the base name
func matchPattern(pattern, rel string) bool {
	if pattern == rel {
		return true
	}

	if pattern == "**" {
		return true
	}

	if prefix, rest, ok := strings.Cut(pattern, "/**"); ok {
		if prefix != "" && rel != prefix && !strings.HasPrefix(rel, prefix+"/") {
			return false
		}
		rest = strings.TrimPrefix(rest, "/")
		if rel == prefix {
			return false
		}
		if rest == "" {
			return true
		}
		if prefix != "" {
			rel = strings.TrimPrefix(rel, prefix+"/")
		}
		return matchTail(rest, rel)
	}

	if strings.HasPrefix(pattern, "**/") {
		return matchTail(strings.TrimPrefix(pattern, "**/"), rel)
	}

	if ok, _ := path.Match(pattern, rel); ok {
		return true
	}

	if !strings.Contains(pattern, "/") {
		ok, _ := path.Match(pattern, path.Base(rel))
		return ok
	}

	return false
}

// matchTail reports whether pattern matches rel or any trailing part of it
// that starts at a path segment.
func matchTail(pattern, rel string) bool {
	for {
		if matchPattern(pattern, rel) {
			return true
		}
		_, next, ok := strings.Cut(rel, "/")
		if !ok {
			return false
		}
		rel = next
	}
}
