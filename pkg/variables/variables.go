// Package variables implements the VariableTable: a name-to-text map with
// environment-variable fallback and cycle-safe expansion of "$name"
// references inside raw right-hand-side text.
package variables

import (
	"os"
	"strings"
	"sync"

	"github.com/hyprlang-go/hyprlang/pkg/types"
)

// Table holds user-defined variables, insertion-ordered for the
// serializer, and falls back to the process environment on lookup miss.
type Table struct {
	mu     sync.RWMutex
	names  []string
	values map[string]string
}

func New() *Table {
	return &Table{values: make(map[string]string)}
}

// Set assigns a variable, preserving first-insertion order for iteration.
func (t *Table) Set(name, value string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.values[name]; !exists {
		t.names = append(t.names, name)
	}
	t.values[name] = value
}

// Get returns the raw (unexpanded) value assigned to name, if any.
func (t *Table) Get(name string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.values[name]
	return v, ok
}

// All returns a snapshot of user-defined variables in insertion order.
func (t *Table) All() []struct{ Name, Value string } {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]struct{ Name, Value string }, len(t.names))
	for i, n := range t.names {
		out[i] = struct{ Name, Value string }{n, t.values[n]}
	}
	return out
}

// Expand performs greedy "$name" substitution in input, following
// variable-to-variable chains to a fixpoint. A name re-entered along the
// active expansion chain surfaces VarCycle before recursing infinitely.
// A name resolved by neither the table nor the environment is reported
// via UnknownVar; when probe is set it is instead left unexpanded.
func (t *Table) Expand(input string, probe bool) (string, error) {
	return t.expandChain(input, nil, probe)
}

func (t *Table) expandChain(input string, chain []string, probe bool) (string, error) {
	var out strings.Builder
	runes := []rune(input)
	i := 0
	for i < len(runes) {
		ch := runes[i]
		if ch != '$' {
			out.WriteRune(ch)
			i++
			continue
		}
		j := i + 1
		for j < len(runes) && isIdentRune(runes[j]) {
			j++
		}
		name := string(runes[i+1 : j])
		if name == "" {
			out.WriteRune('$')
			i++
			continue
		}
		for _, seen := range chain {
			if seen == name {
				return "", types.NewVarCycle(append(append([]string{}, chain...), name))
			}
		}

		if raw, ok := t.Get(name); ok {
			expanded, err := t.expandChain(raw, append(chain, name), probe)
			if err != nil {
				return "", err
			}
			out.WriteString(expanded)
		} else if env, ok := os.LookupEnv(name); ok {
			out.WriteString(env)
		} else if probe {
			out.WriteRune('$')
			out.WriteString(name)
		} else {
			return "", types.NewUnknownVar(name)
		}
		i = j
	}
	return out.String(), nil
}

func isIdentRune(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
