package expr

import (
	"testing"

	"github.com/hyprlang-go/hyprlang/pkg/types"
)

func evalArithText(t *testing.T, src string) types.Value {
	t.Helper()
	p, err := NewParser(src)
	if err != nil {
		t.Fatalf("NewParser(%q): %v", src, err)
	}
	n, err := p.ParseExpr()
	if err != nil {
		t.Fatalf("ParseExpr(%q): %v", src, err)
	}
	v, err := EvalArith(n, types.Location{})
	if err != nil {
		t.Fatalf("EvalArith(%q): %v", src, err)
	}
	return v
}

func TestEvalArithInt(t *testing.T) {
	tests := []struct {
		src  string
		want int64
	}{
		{"10 * 2", 20},
		{"1 + 2 * 3", 7},
		{"(1 + 2) * 3", 9},
		{"-5 + 10", 5},
		{"7 / 2", 3},
		{"-7 / 2", -3},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			v := evalArithText(t, tt.src)
			if v.Type() != types.TypeInt {
				t.Fatalf("expected Int, got %s", v.Type())
			}
			if v.AsInt() != tt.want {
				t.Errorf("got %d, want %d", v.AsInt(), tt.want)
			}
		})
	}
}

func TestEvalArithWidensToFloat(t *testing.T) {
	v := evalArithText(t, "5 / 2.0")
	if v.Type() != types.TypeFloat {
		t.Fatalf("expected Float, got %s", v.Type())
	}
	if v.AsFloat() != 2.5 {
		t.Errorf("got %v, want 2.5", v.AsFloat())
	}
}

func TestEvalArithDivByZero(t *testing.T) {
	p, err := NewParser("1 / 0")
	if err != nil {
		t.Fatal(err)
	}
	n, err := p.ParseExpr()
	if err != nil {
		t.Fatal(err)
	}
	_, err = EvalArith(n, types.Location{})
	if err == nil {
		t.Fatal("expected division-by-zero error")
	}
	ce, ok := err.(*types.ConfigError)
	if !ok || !ce.HasTag(types.TagEvalError) || ce.EvalKind != types.EvalDivByZero {
		t.Fatalf("expected EvalError(DivByZero), got %v", err)
	}
}

func TestEvalConditionComparisons(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"1 < 2", true},
		{"2 <= 2", true},
		{"3 > 4", false},
		{"desktop == desktop", true},
		{"desktop == laptop", false},
		{"1 != 2", true},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			p, err := NewParser(tt.src)
			if err != nil {
				t.Fatal(err)
			}
			n, err := p.ParseCondition()
			if err != nil {
				t.Fatal(err)
			}
			got, err := EvalCondition(n, types.Location{})
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
