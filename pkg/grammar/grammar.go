// Package grammar implements the line-oriented PEG-style parser that
// turns configuration text into a flat, ordered sequence of ParseItems.
// It handles comments, conditional directives, identifiers, numbers,
// strings, category and special-category markers, and "source"
// directives. It does not resolve variables, expressions, or handler
// dispatch ambiguity -- those are the binder's job.
package grammar

import (
	"regexp"
	"strings"

	"github.com/hyprlang-go/hyprlang/pkg/types"
)

// ItemKind identifies the production a ParseItem was recognized as.
type ItemKind int

const (
	KindAssignVar ItemKind = iota
	KindAssign
	KindOpenCat
	KindOpenSpecial
	KindCloseCat
	KindSource
	KindIfDirective
	KindEndIf
	KindNoError
)

// ParseItem is one top-level production recognized in source order.
// Right-hand sides are captured raw (comment-stripped, whitespace
// trimmed, quotes resolved) -- variable and expression resolution happen
// later in the binder.
type ParseItem struct {
	Kind ItemKind
	Loc  types.Location

	Name   string   // AssignVar name; OpenCat/OpenSpecial category name
	Key    *string  // OpenSpecial: explicit instance key, nil if omitted
	Segs   []string // Assign: dotted key segments
	RawRHS string   // AssignVar/Assign: raw right-hand side text
	Path   string   // Source: raw (pre-expansion) path text
	Cond   string   // IfDirective: raw condition text
}

var (
	reOpenCat  = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_\-]*)(?:\[([^\]]*)\])?\s*\{$`)
	reAssign   = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_\-]*(?:\.[A-Za-z_][A-Za-z0-9_\-]*)*)\s*=\s*(.*)$`)
	reVarAssig = regexp.MustCompile(`^\$([A-Za-z_][A-Za-z0-9_\-]*)\s*=\s*(.*)$`)
)

// Parse tokenizes and parses source text (labeled by sourceLabel, used in
// Locations and errors) into an ordered slice of ParseItems.
func Parse(source, sourceLabel string) ([]ParseItem, error) {
	var items []ParseItem
	lines := strings.Split(source, "\n")

	for i, line := range lines {
		loc := types.Location{Source: sourceLabel, Line: i + 1}
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, "#") {
			item, ok, err := parseDirective(trimmed, loc)
			if err != nil {
				return nil, err
			}
			if ok {
				items = append(items, item)
			}
			continue // plain comments (including "##" doc comments) are dropped
		}

		code, _ := stripTrailingComment(trimmed)
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}

		if code == "}" {
			items = append(items, ParseItem{Kind: KindCloseCat, Loc: loc})
			continue
		}

		if m := reVarAssig.FindStringSubmatch(code); m != nil {
			items = append(items, ParseItem{
				Kind: KindAssignVar, Loc: loc,
				Name: m[1], RawRHS: unquote(m[2]),
			})
			continue
		}

		if m := reOpenCat.FindStringSubmatch(code); m != nil {
			name := m[1]
			if m[2] != "" {
				key := m[2]
				items = append(items, ParseItem{Kind: KindOpenSpecial, Loc: loc, Name: name, Key: &key})
			} else if strings.Contains(code, "[]") {
				items = append(items, ParseItem{Kind: KindOpenSpecial, Loc: loc, Name: name, Key: nil})
			} else {
				items = append(items, ParseItem{Kind: KindOpenCat, Loc: loc, Name: name})
			}
			continue
		}

		if m := reAssign.FindStringSubmatch(code); m != nil {
			segs := strings.Split(m[1], ".")
			rhs := strings.TrimSpace(m[2])
			if len(segs) == 1 && segs[0] == "source" {
				items = append(items, ParseItem{Kind: KindSource, Loc: loc, Path: unquote(rhs)})
				continue
			}
			items = append(items, ParseItem{Kind: KindAssign, Loc: loc, Segs: segs, RawRHS: unquote(rhs)})
			continue
		}

		return nil, types.NewParseError(loc, "unrecognized line: "+code)
	}

	return items, nil
}

func parseDirective(trimmed string, loc types.Location) (ParseItem, bool, error) {
	if !strings.HasPrefix(trimmed, "# hyprlang") {
		return ParseItem{}, false, nil
	}
	rest := strings.TrimSpace(trimmed[len("# hyprlang"):])
	switch {
	case strings.HasPrefix(rest, "if "):
		return ParseItem{Kind: KindIfDirective, Loc: loc, Cond: strings.TrimSpace(rest[3:])}, true, nil
	case rest == "endif":
		return ParseItem{Kind: KindEndIf, Loc: loc}, true, nil
	case rest == "noerror":
		return ParseItem{Kind: KindNoError, Loc: loc}, true, nil
	default:
		return ParseItem{}, false, types.NewParseError(loc, "unknown directive: "+rest)
	}
}

// stripTrailingComment removes a "#" comment that starts outside any
// double-quoted span, and outside a "{{ ... }}" expression span.
func stripTrailingComment(s string) (string, bool) {
	inQuote := false
	braceDepth := 0
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch {
		case ch == '"' && (i == 0 || runes[i-1] != '\\'):
			inQuote = !inQuote
		case !inQuote && ch == '{' && i+1 < len(runes) && runes[i+1] == '{':
			braceDepth++
			i++
		case !inQuote && ch == '}' && i+1 < len(runes) && runes[i+1] == '}' && braceDepth > 0:
			braceDepth--
			i++
		case !inQuote && braceDepth == 0 && ch == '#':
			return string(runes[:i]), true
		}
	}
	return s, false
}

// unquote strips a surrounding pair of double quotes and resolves
// \" \\ \n escapes; bare (unquoted) text passes through trimmed.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		inner := s[1 : len(s)-1]
		var sb strings.Builder
		for i := 0; i < len(inner); i++ {
			if inner[i] == '\\' && i+1 < len(inner) {
				i++
				switch inner[i] {
				case 'n':
					sb.WriteByte('\n')
				case '"':
					sb.WriteByte('"')
				case '\\':
					sb.WriteByte('\\')
				default:
					sb.WriteByte(inner[i])
				}
				continue
			}
			sb.WriteByte(inner[i])
		}
		return sb.String()
	}
	return s
}
