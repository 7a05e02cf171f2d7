package grammar

import "testing"

func TestParseAssignVar(t *testing.T) {
	items, err := Parse("$foo = bar baz\n", "<test>")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].Kind != KindAssignVar || items[0].Name != "foo" || items[0].RawRHS != "bar baz" {
		t.Fatalf("got %+v", items)
	}
}

func TestParseCategoryOpenClose(t *testing.T) {
	items, err := Parse("general {\n    gaps_in = 5\n}\n", "<test>")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 3 {
		t.Fatalf("got %d items: %+v", len(items), items)
	}
	if items[0].Kind != KindOpenCat || items[0].Name != "general" {
		t.Fatalf("item0 %+v", items[0])
	}
	if items[1].Kind != KindAssign || items[1].Segs[0] != "gaps_in" || items[1].RawRHS != "5" {
		t.Fatalf("item1 %+v", items[1])
	}
	if items[2].Kind != KindCloseCat {
		t.Fatalf("item2 %+v", items[2])
	}
}

func TestParseDottedAssign(t *testing.T) {
	items, err := Parse("decoration.blur.size = 8\n", "<test>")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].Kind != KindAssign {
		t.Fatalf("got %+v", items)
	}
	want := []string{"decoration", "blur", "size"}
	for i, s := range want {
		if items[0].Segs[i] != s {
			t.Errorf("seg %d: got %q want %q", i, items[0].Segs[i], s)
		}
	}
}

func TestParseOpenSpecialWithKey(t *testing.T) {
	items, err := Parse("device[my-mouse] {\n}\n", "<test>")
	if err != nil {
		t.Fatal(err)
	}
	if items[0].Kind != KindOpenSpecial || items[0].Name != "device" || items[0].Key == nil || *items[0].Key != "my-mouse" {
		t.Fatalf("got %+v", items[0])
	}
}

func TestParseOpenSpecialAnonymous(t *testing.T) {
	items, err := Parse("windowrule[] {\n}\n", "<test>")
	if err != nil {
		t.Fatal(err)
	}
	if items[0].Kind != KindOpenSpecial || items[0].Key != nil {
		t.Fatalf("got %+v", items[0])
	}
}

func TestParseSource(t *testing.T) {
	items, err := Parse(`source = "./other.conf"`+"\n", "<test>")
	if err != nil {
		t.Fatal(err)
	}
	if items[0].Kind != KindSource || items[0].Path != "./other.conf" {
		t.Fatalf("got %+v", items[0])
	}
}

func TestParseIfEndifNoError(t *testing.T) {
	src := "# hyprlang if $mode == desktop\nfoo = 1\n# hyprlang noerror\nbar = 2\n# hyprlang endif\n"
	items, err := Parse(src, "<test>")
	if err != nil {
		t.Fatal(err)
	}
	if items[0].Kind != KindIfDirective || items[0].Cond != "$mode == desktop" {
		t.Fatalf("item0 %+v", items[0])
	}
	if items[2].Kind != KindNoError {
		t.Fatalf("item2 %+v", items[2])
	}
	if items[4].Kind != KindEndIf {
		t.Fatalf("item4 %+v", items[4])
	}
}

func TestParseStripsTrailingComment(t *testing.T) {
	items, err := Parse("gaps_in = 5 # a comment\n", "<test>")
	if err != nil {
		t.Fatal(err)
	}
	if items[0].RawRHS != "5" {
		t.Errorf("got %q", items[0].RawRHS)
	}
}

func TestParseCommentInsideExpressionSpanSurvives(t *testing.T) {
	items, err := Parse("size = {{ 2 # 4 }} # trailing comment\n", "<test>")
	if err != nil {
		t.Fatal(err)
	}
	if items[0].RawRHS != "{{ 2 # 4 }}" {
		t.Errorf("got %q", items[0].RawRHS)
	}
}

func TestParseIgnoresDocComments(t *testing.T) {
	items, err := Parse("## this documents the next line\ngaps_in = 5\n", "<test>")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].Kind != KindAssign {
		t.Fatalf("got %+v", items)
	}
}
