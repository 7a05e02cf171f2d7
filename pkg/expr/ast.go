package expr

// Node is the interface implemented by every AST node.
type Node interface {
	nodeType() string
}

// NumberNode is an integer or float literal.
type NumberNode struct {
	IntVal int64
	FltVal float64
	IsFlt  bool
}

func (n *NumberNode) nodeType() string { return "Number" }

// StringNode is a quoted string literal, used as either operand of
// string-equality comparisons in conditional directives.
type StringNode struct {
	Val string
}

func (n *StringNode) nodeType() string { return "String" }

// IdentNode is a bare identifier: by the time the parser sees it, any
// "$name" variable reference has already been substituted as text by the
// VariableTable, so an identifier here is non-numeric text compared for
// string equality (e.g. in "# hyprlang if $mode == desktop").
type IdentNode struct {
	Name string
}

func (n *IdentNode) nodeType() string { return "Ident" }

// BinaryNode is a binary arithmetic or comparison operation.
type BinaryNode struct {
	Op    TokenType
	Left  Node
	Right Node
}

func (n *BinaryNode) nodeType() string { return "Binary" }

// UnaryNode is a unary negation.
type UnaryNode struct {
	Operand Node
}

func (n *UnaryNode) nodeType() string { return "Unary" }
