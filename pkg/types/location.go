package types

import "fmt"

// Location identifies a position within a parsed configuration source,
// propagated from parse items into errors.
type Location struct {
	Source string // source label: file path, or "<string>" for in-memory input
	Line   int    // 1-based line number
}

func (l Location) String() string {
	if l.Source == "" {
		return fmt.Sprintf("line %d", l.Line)
	}
	return fmt.Sprintf("%s:%d", l.Source, l.Line)
}
