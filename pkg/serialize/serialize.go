// Package serialize emits a canonical textual form of a bound store and
// variable table, suitable for round-tripping back through pkg/grammar
// and pkg/binder.
package serialize

import (
	"sort"
	"strings"

	"github.com/hyprlang-go/hyprlang/pkg/store"
	"github.com/hyprlang-go/hyprlang/pkg/types"
	"github.com/hyprlang-go/hyprlang/pkg/variables"
)

const indentUnit = "    "

// rootCall is a root-level (unqualified) handler's recorded invocations.
type rootCall struct {
	name string
	rhs  []string
}

// catCall is one category-scoped handler keyword's recorded invocations,
// to be emitted inside its owning "cat { }" block.
type catCall struct {
	keyword string
	rhs     []string
}

// Write renders vars and st to canonical text: variables first in
// insertion order, then keys grouped by their longest common category
// prefix with nested "cat { }" blocks (category-scoped handler calls
// nested into the matching block), then root-level handler calls at
// depth 0. Handlers are emitted in name order; each handler's own calls
// keep their original order.
func Write(vars *variables.Table, st *store.Store) string {
	var b strings.Builder

	for _, v := range vars.All() {
		b.WriteString("$")
		b.WriteString(v.Name)
		b.WriteString(" = ")
		b.WriteString(v.Value)
		b.WriteByte('\n')
	}

	rootCalls, catCalls := splitHandlerCalls(st)

	keys := st.Keys()
	sort.Strings(keys)
	writeKeyTree(&b, st, keys, nil, 0, catCalls)

	// Categories whose only content was handler calls (no plain keys)
	// never appear in the key tree above; emit them as their own blocks.
	for _, head := range sortedCatHeads(catCalls) {
		writeIndent(&b, 0)
		b.WriteString(head)
		b.WriteString(" {\n")
		writeCatCalls(&b, catCalls[head], 1)
		writeIndent(&b, 0)
		b.WriteString("}\n")
	}

	for _, rc := range rootCalls {
		for _, rhs := range rc.rhs {
			writeIndent(&b, 0)
			b.WriteString(rc.name)
			b.WriteString(" = ")
			b.WriteString(rhs)
			b.WriteByte('\n')
		}
	}

	return b.String()
}

// splitHandlerCalls partitions recorded handler calls into root-level
// calls (bare keyword) and category-scoped calls (binder.go composes
// these as "cat:keyword", cat always the single immediate enclosing
// category name, never a full nested path).
func splitHandlerCalls(st *store.Store) ([]rootCall, map[string][]catCall) {
	catCalls := make(map[string][]catCall)
	var roots []rootCall

	for _, name := range handlerNamesInOrder(st) {
		rhs := st.HandlerCalls(name)
		if idx := strings.Index(name, ":"); idx != -1 {
			cat, keyword := name[:idx], name[idx+1:]
			catCalls[cat] = append(catCalls[cat], catCall{keyword: keyword, rhs: rhs})
			continue
		}
		roots = append(roots, rootCall{name: name, rhs: rhs})
	}

	return roots, catCalls
}

func sortedCatHeads(catCalls map[string][]catCall) []string {
	heads := make([]string, 0, len(catCalls))
	for head := range catCalls {
		heads = append(heads, head)
	}
	sort.Strings(heads)
	return heads
}

func writeCatCalls(b *strings.Builder, calls []catCall, depth int) {
	for _, cc := range calls {
		for _, rhs := range cc.rhs {
			writeIndent(b, depth)
			b.WriteString(cc.keyword)
			b.WriteString(" = ")
			b.WriteString(rhs)
			b.WriteByte('\n')
		}
	}
}

// writeKeyTree groups colon-joined keys sharing prefix (the category path
// already opened) into nested category blocks. Any category-scoped
// handler calls owned by a block being written are nested inside it and
// removed from catCalls so they are not emitted twice.
func writeKeyTree(b *strings.Builder, st *store.Store, keys []string, prefix []string, depth int, catCalls map[string][]catCall) {
	groups := make(map[string][]string)
	var order []string
	var leaves []string

	for _, k := range keys {
		segs := strings.Split(k, ":")
		rest := segs[len(prefix):]
		if len(rest) == 1 {
			leaves = append(leaves, k)
			continue
		}
		head := rest[0]
		if _, seen := groups[head]; !seen {
			order = append(order, head)
		}
		groups[head] = append(groups[head], k)
	}

	for _, k := range leaves {
		segs := strings.Split(k, ":")
		leaf := segs[len(segs)-1]
		v, _ := st.Get(k)
		writeIndent(b, depth)
		b.WriteString(leaf)
		b.WriteString(" = ")
		b.WriteString(formatValue(v))
		b.WriteByte('\n')
	}

	for _, head := range order {
		writeIndent(b, depth)
		b.WriteString(head)
		b.WriteString(" {\n")
		if calls, ok := catCalls[head]; ok {
			writeCatCalls(b, calls, depth+1)
			delete(catCalls, head)
		}
		writeKeyTree(b, st, groups[head], append(append([]string{}, prefix...), head), depth+1, catCalls)
		writeIndent(b, depth)
		b.WriteString("}\n")
	}
}

func handlerNamesInOrder(st *store.Store) []string {
	all := st.AllHandlerCalls()
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func writeIndent(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString(indentUnit)
	}
}

// formatValue renders a Value per kind: Int decimal, Float shortest form
// with at least one fractional digit, Color as rgba(RRGGBBAA), Vec2 as
// "x, y", Str bare unless it needs quoting.
func formatValue(v types.Value) string {
	switch v.Type() {
	case types.TypeStr:
		return formatStr(v.String())
	default:
		return v.String()
	}
}

func formatStr(s string) string {
	if s != "" && !needsQuoting(s) {
		return s
	}
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func needsQuoting(s string) bool {
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '#' || r == '{' || r == '}' || r == '"' {
			return true
		}
	}
	return false
}
