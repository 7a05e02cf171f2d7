package hyprlang

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hyprlang-go/hyprlang/pkg/types"
)

func TestS1VariablesAndExpression(t *testing.T) {
	c := New()
	if err := c.Parse("$base = 10\ndouble = {{$base * 2}}\n"); err != nil {
		t.Fatal(err)
	}
	got, err := c.GetInt("double")
	if err != nil {
		t.Fatal(err)
	}
	if got != 20 {
		t.Errorf("got %d, want 20", got)
	}
}

func TestS2NestedCategory(t *testing.T) {
	c := New()
	src := "general {\n    border_size = 2\n    gaps {\n        inner = 5\n    }\n}\n"
	if err := c.Parse(src); err != nil {
		t.Fatal(err)
	}
	if v, err := c.GetInt("general:border_size"); err != nil || v != 2 {
		t.Fatalf("border_size: %v %v", v, err)
	}
	if v, err := c.GetInt("general:gaps:inner"); err != nil || v != 5 {
		t.Fatalf("gaps:inner: %v %v", v, err)
	}
}

func TestS3HandlerOrdering(t *testing.T) {
	c := New()
	c.RegisterHandlerFn("bind", nil)
	if err := c.Parse("bind = A\nbind = B\nbind = C\n"); err != nil {
		t.Fatal(err)
	}
	calls := c.GetHandlerCalls("bind")
	want := []string{"A", "B", "C"}
	if len(calls) != len(want) {
		t.Fatalf("got %v", calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("index %d: got %q want %q", i, calls[i], want[i])
		}
	}
}

func TestS4ColorEquivalence(t *testing.T) {
	c := New()
	if err := c.Parse("c1 = rgba(33ccffee)\nc2 = 0xee33ccff\n"); err != nil {
		t.Fatal(err)
	}
	c1, err := c.GetColor("c1")
	if err != nil {
		t.Fatal(err)
	}
	c2, err := c.GetColor("c2")
	if err != nil {
		t.Fatal(err)
	}
	want := types.Color{R: 0x33, G: 0xcc, B: 0xff, A: 0xee}
	if c1 != want || c2 != want {
		t.Fatalf("got c1=%v c2=%v want %v", c1, c2, want)
	}
}

func TestS5SpecialKeyedCategory(t *testing.T) {
	c := New()
	if err := c.RegisterSpecialCategory("device", Keyed); err != nil {
		t.Fatal(err)
	}
	src := "device[mouse] {\n    sensitivity = 0.5\n}\ndevice[kb] {\n    repeat_rate = 50\n}\n"
	if err := c.Parse(src); err != nil {
		t.Fatal(err)
	}
	inst, ok := c.GetSpecialCategory("device", "mouse")
	if !ok {
		t.Fatal("expected mouse instance")
	}
	v, ok := inst.Get("sensitivity")
	if !ok || v.AsFloat() != 0.5 {
		t.Fatalf("got %v ok=%v", v, ok)
	}
}

func TestS6CycleDetection(t *testing.T) {
	c := New()
	err := c.Parse("$a = $b\n$b = $a\nx = $a\n")
	if err == nil {
		t.Fatal("expected VarCycle error")
	}
	ce, ok := err.(*types.ConfigError)
	if !ok || !ce.HasTag(types.TagVarCycle) {
		t.Fatalf("got %v", err)
	}
}

func TestEmptyInputNoError(t *testing.T) {
	c := New()
	if err := c.Parse(""); err != nil {
		t.Fatal(err)
	}
	if len(c.Keys()) != 0 {
		t.Errorf("expected empty store, got %v", c.Keys())
	}
}

func TestUnmatchedCloseErrors(t *testing.T) {
	c := New()
	if err := c.Parse("}\n"); err == nil {
		t.Fatal("expected UnmatchedClose")
	}
}

func TestSourceCycleDetected(t *testing.T) {
	dir := t.TempDir()
	aPath := filepath.Join(dir, "a.conf")
	bPath := filepath.Join(dir, "b.conf")
	if err := os.WriteFile(aPath, []byte("source = b.conf\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bPath, []byte("source = a.conf\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := WithOptions(ConfigOptions{BaseDir: dir})
	err := c.ParseFile("a.conf")
	if err == nil {
		t.Fatal("expected SourceCycle error")
	}
	ce, ok := err.(*types.ConfigError)
	if !ok || !ce.HasTag(types.TagSourceCycle) {
		t.Fatalf("got %v", err)
	}
}

func TestSourceIncludesFile(t *testing.T) {
	dir := t.TempDir()
	childPath := filepath.Join(dir, "child.conf")
	if err := os.WriteFile(childPath, []byte("gaps_in = 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	rootPath := filepath.Join(dir, "root.conf")
	if err := os.WriteFile(rootPath, []byte("source = child.conf\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := WithOptions(ConfigOptions{BaseDir: dir})
	if err := c.ParseFile("root.conf"); err != nil {
		t.Fatal(err)
	}
	if v, err := c.GetInt("gaps_in"); err != nil || v != 7 {
		t.Fatalf("got %v %v", v, err)
	}
}

func TestNoErrorSuppressesNextLine(t *testing.T) {
	c := New()
	err := c.Parse("# hyprlang noerror\nx = $undefined\ny = 1\n")
	if err != nil {
		t.Fatal(err)
	}
	v, err := c.GetInt("y")
	if err != nil || v != 1 {
		t.Fatalf("got %v %v", v, err)
	}
}

func TestThrowAllErrorsAccumulates(t *testing.T) {
	c := WithOptions(ConfigOptions{ThrowAllErrors: true})
	err := c.Parse("x = $undefined1\ny = $undefined2\nz = 3\n")
	if err == nil {
		t.Fatal("expected accumulated error")
	}
	ce, ok := err.(*types.ConfigError)
	if !ok || ce.Tag != types.TagMultiple || len(ce.Errors) != 2 {
		t.Fatalf("got %v", err)
	}
	if v, err := c.GetInt("z"); err != nil || v != 3 {
		t.Fatalf("expected later valid line still applied: %v %v", v, err)
	}
}

func TestRoundTripSerialize(t *testing.T) {
	c := New()
	src := "general {\n    gaps_in = 5\n}\nlayout = dwindle\n"
	if err := c.Parse(src); err != nil {
		t.Fatal(err)
	}
	out := c.Serialize()

	c2 := New()
	if err := c2.Parse(out); err != nil {
		t.Fatalf("round-trip reparse failed: %v\ntext:\n%s", err, out)
	}
	if v, err := c2.GetInt("general:gaps_in"); err != nil || v != 5 {
		t.Fatalf("got %v %v", v, err)
	}
	if v, err := c2.GetString("layout"); err != nil || v != "dwindle" {
		t.Fatalf("got %v %v", v, err)
	}
}

func TestRoundTripSerializeWithCategoryHandler(t *testing.T) {
	c := New()
	c.RegisterCategoryHandlerFn("windowrulev2", "rule", nil)
	src := "windowrulev2 {\n    rule = float, class:^(foo)$\n}\n"
	if err := c.Parse(src); err != nil {
		t.Fatal(err)
	}
	out := c.Serialize()

	c2 := New()
	c2.RegisterCategoryHandlerFn("windowrulev2", "rule", nil)
	if err := c2.Parse(out); err != nil {
		t.Fatalf("round-trip reparse failed: %v\ntext:\n%s", err, out)
	}
	calls := c2.GetHandlerCalls("windowrulev2:rule")
	if len(calls) != 1 || calls[0] != "float, class:^(foo)$" {
		t.Fatalf("got %v", calls)
	}
}
