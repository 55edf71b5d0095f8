package workspace

import (
	"os"
	"strings"
)

// Larger documents are never searched by content
const maxContentSize = 10 * 1024 * 1024

type termKind int

const (
	termName termKind = iota
	termPath
	termExt
	termContents
)

type term struct {
	kind  termKind
	value string // Lowercased
}

// Filter selects workspace documents for the find bar.
//
// A query is a list of space separated terms, all of which must match:
//   - "todo"           name contains "todo" (* wildcards allowed)
//   - "path:notes/*"   relative path glob
//   - "ext:md"         file extension
//   - "contents:hello" document text contains "hello"
//
// Values may be quoted to include spaces.
type Filter struct {
	Raw   string
	terms []term
	read  func(path string) ([]byte, error)
}

// ParseFilter parses a find bar query.
func ParseFilter(input string) *Filter {
	f := &Filter{Raw: input, read: os.ReadFile}
	for _, part := range splitQuoted(strings.TrimSpace(input)) {
		f.terms = append(f.terms, parseTerm(part))
	}
	return f
}

// IsEmpty reports whether the filter matches everything.
func (f *Filter) IsEmpty() bool {
	return len(f.terms) == 0
}

// ReadsContents reports whether matching opens documents.
func (f *Filter) ReadsContents() bool {
	for _, t := range f.terms {
		if t.kind == termContents {
			return true
		}
	}
	return false
}

// Apply returns the documents matching every term, in their original order.
func (f *Filter) Apply(docs []Document) []Document {
	if f.IsEmpty() {
		return docs
	}
	var out []Document
	for _, d := range docs {
		if f.Match(d) {
			out = append(out, d)
		}
	}
	return out
}

// Match reports whether d satisfies every term.
func (f *Filter) Match(d Document) bool {
	for _, t := range f.terms {
		if !f.matchTerm(t, d) {
			return false
		}
	}
	return true
}

func (f *Filter) matchTerm(t term, d Document) bool {
	switch t.kind {
	case termPath:
		return matchGlob(strings.ToLower(d.Rel), t.value)
	case termExt:
		return strings.HasSuffix(strings.ToLower(d.Name), t.value)
	case termContents:
		info, err := os.Stat(d.Path)
		if err != nil || info.IsDir() || info.Size() > maxContentSize {
			return false
		}
		data, err := f.read(d.Path)
		if err != nil {
			return false
		}
		return strings.Contains(strings.ToLower(string(data)), t.value)
	default:
		return matchGlob(strings.ToLower(d.Name), t.value)
	}
}

func parseTerm(s string) term {
	if idx := strings.Index(s, ":"); idx > 0 {
		value := strings.ToLower(strings.Trim(s[idx+1:], "\"'"))
		switch strings.ToLower(s[:idx]) {
		case "name", "filename":
			return term{kind: termName, value: value}
		case "path":
			return term{kind: termPath, value: value}
		case "ext", "extension":
			if !strings.HasPrefix(value, ".") {
				value = "." + value
			}
			return term{kind: termExt, value: value}
		case "contents", "content", "text":
			return term{kind: termContents, value: value}
		}
	}
	return term{kind: termName, value: strings.ToLower(s)}
}

func splitQuoted(s string) []string {
	var parts []string
	var current strings.Builder
	var quote rune

	for _, r := range s {
		switch {
		case (r == '"' || r == '\'') && quote == 0:
			quote = r
		case r == quote:
			quote = 0
		case r == ' ' && quote == 0:
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}

// matchGlob matches * wildcards; a pattern without one is a substring test.
func matchGlob(name, pattern string) bool {
	if !strings.Contains(pattern, "*") {
		return strings.Contains(name, pattern)
	}

	parts := strings.Split(pattern, "*")
	if !strings.HasPrefix(name, parts[0]) {
		return false
	}
	last := parts[len(parts)-1]
	if !strings.HasSuffix(name, last) {
		return false
	}

	pos := len(parts[0])
	for _, part := range parts[1 : len(parts)-1] {
		if part == "" {
			continue
		}
		idx := strings.Index(name[pos:], part)
		if idx < 0 {
			return false
		}
		pos += idx + len(part)
	}
	return pos <= len(name)-len(last)
}
