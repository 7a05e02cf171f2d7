package expr

import (
	"fmt"

	"github.com/hyprlang-go/hyprlang/pkg/types"
)

// num is an internal numeric accumulator that tracks whether it is still
// representable as an integer; widening to float happens the moment any
// operand involved is a float, per the evaluator's widest-operand rule.
type num struct {
	i       int64
	f       float64
	isFloat bool
}

func numFromValue(v types.Value) num {
	if v.Type() == types.TypeFloat {
		return num{f: v.AsFloat(), isFloat: true}
	}
	return num{i: v.AsInt()}
}

func (n num) toValue() types.Value {
	if n.isFloat {
		return types.NewFloat(n.f)
	}
	return types.NewInt(n.i)
}

func (n num) asFloat() float64 {
	if n.isFloat {
		return n.f
	}
	return float64(n.i)
}

// EvalArith evaluates a parsed arithmetic AST (the grammar inside
// "{{ ... }}") to a numeric Value. Integer operands stay integers unless
// any operand is a float, in which case the whole expression widens;
// integer division truncates toward zero; division by zero reports
// EvalError(DivByZero).
func EvalArith(n Node, loc types.Location) (types.Value, error) {
	v, err := evalNum(n, loc)
	if err != nil {
		return types.Value{}, err
	}
	return v.toValue(), nil
}

func evalNum(n Node, loc types.Location) (num, error) {
	switch node := n.(type) {
	case *NumberNode:
		if node.IsFlt {
			return num{f: node.FltVal, isFloat: true}, nil
		}
		return num{i: node.IntVal}, nil
	case *IdentNode:
		// A bare identifier inside an arithmetic span means variable
		// expansion left non-numeric text behind (the raw text was
		// substituted before this parse, so anything here is not a
		// value the VariableTable produced).
		return num{}, types.NewEvalError(types.EvalNonNumeric, loc, fmt.Sprintf("%q is not numeric", node.Name))
	case *UnaryNode:
		v, err := evalNum(node.Operand, loc)
		if err != nil {
			return num{}, err
		}
		if v.isFloat {
			return num{f: -v.f, isFloat: true}, nil
		}
		return num{i: -v.i}, nil
	case *BinaryNode:
		left, err := evalNum(node.Left, loc)
		if err != nil {
			return num{}, err
		}
		right, err := evalNum(node.Right, loc)
		if err != nil {
			return num{}, err
		}
		return evalBinaryNum(node.Op, left, right, loc)
	}
	return num{}, types.NewEvalError(types.EvalUnexpectedToken, loc, "unsupported expression node")
}

func evalBinaryNum(op TokenType, left, right num, loc types.Location) (num, error) {
	widen := left.isFloat || right.isFloat
	switch op {
	case TokenPlus:
		if widen {
			return num{f: left.asFloat() + right.asFloat(), isFloat: true}, nil
		}
		return num{i: left.i + right.i}, nil
	case TokenMinus:
		if widen {
			return num{f: left.asFloat() - right.asFloat(), isFloat: true}, nil
		}
		return num{i: left.i - right.i}, nil
	case TokenStar:
		if widen {
			return num{f: left.asFloat() * right.asFloat(), isFloat: true}, nil
		}
		return num{i: left.i * right.i}, nil
	case TokenSlash:
		if widen {
			if right.asFloat() == 0 {
				return num{}, types.NewEvalError(types.EvalDivByZero, loc, "division by zero")
			}
			return num{f: left.asFloat() / right.asFloat(), isFloat: true}, nil
		}
		if right.i == 0 {
			return num{}, types.NewEvalError(types.EvalDivByZero, loc, "division by zero")
		}
		return num{i: left.i / right.i}, nil // Go's int division already truncates toward zero
	}
	return num{}, types.NewEvalError(types.EvalUnexpectedToken, loc, fmt.Sprintf("unsupported operator %s", op))
}

// EvalCondition evaluates a parsed condition AST (the grammar used by
// "# hyprlang if <cond>"): numeric comparisons and string equality over
// already variable-expanded text, or a bare numeric expression where
// non-zero is true.
func EvalCondition(n Node, loc types.Location) (bool, error) {
	if bn, ok := n.(*BinaryNode); ok {
		switch bn.Op {
		case TokenEq, TokenNeq:
			return evalEquality(bn, loc)
		case TokenLt, TokenGt, TokenLte, TokenGte:
			left, err := evalNum(bn.Left, loc)
			if err != nil {
				return false, err
			}
			right, err := evalNum(bn.Right, loc)
			if err != nil {
				return false, err
			}
			return compareNum(bn.Op, left, right), nil
		}
	}
	v, err := evalNum(n, loc)
	if err != nil {
		return false, err
	}
	return v.asFloat() != 0, nil
}

func evalEquality(bn *BinaryNode, loc types.Location) (bool, error) {
	ls, lok := nodeText(bn.Left)
	rs, rok := nodeText(bn.Right)
	if lok && rok {
		eq := ls == rs
		if bn.Op == TokenNeq {
			return !eq, nil
		}
		return eq, nil
	}
	left, err := evalNum(bn.Left, loc)
	if err != nil {
		return false, err
	}
	right, err := evalNum(bn.Right, loc)
	if err != nil {
		return false, err
	}
	eq := left.asFloat() == right.asFloat()
	if bn.Op == TokenNeq {
		return !eq, nil
	}
	return eq, nil
}

// nodeText returns the literal string form of a node if it is a String or
// Ident leaf (i.e. not numeric), for "==" comparisons like
// "$mode == desktop".
func nodeText(n Node) (string, bool) {
	switch node := n.(type) {
	case *StringNode:
		return node.Val, true
	case *IdentNode:
		return node.Name, true
	}
	return "", false
}

func compareNum(op TokenType, left, right num) bool {
	l, r := left.asFloat(), right.asFloat()
	switch op {
	case TokenLt:
		return l < r
	case TokenGt:
		return l > r
	case TokenLte:
		return l <= r
	case TokenGte:
		return l >= r
	}
	return false
}
