package dom

import (
	"strings"
	"testing"
)

func TestParseHTMLFragment(t *testing.T) {
	body, err := ParseHTMLString(`<ul id="left" class="list tasks">
		<li id="a" class="card">alpha</li>
		<li id="b">beta</li>
	</ul>`)
	if err != nil {
		t.Fatalf("ParseHTMLString error: %v", err)
	}

	if body.Tag() != "body" {
		t.Fatalf("root tag = %q, want body", body.Tag())
	}
	if body.ChildCount() != 1 {
		t.Fatalf("body ChildCount = %d, want 1", body.ChildCount())
	}

	ul := body.ChildAt(0)
	if ul.Tag() != "ul" || ul.ID() != "left" {
		t.Errorf("list = <%s id=%q>, want <ul id=left>", ul.Tag(), ul.ID())
	}
	if !ul.HasClass("list") || !ul.HasClass("tasks") {
		t.Errorf("list classes = %v", ul.Classes())
	}
	if ul.ChildCount() != 2 {
		t.Fatalf("list ChildCount = %d, want 2", ul.ChildCount())
	}
	if got := ul.ChildAt(0).Text(); got != "alpha" {
		t.Errorf("first item text = %q, want alpha", got)
	}
	if got := ul.ChildAt(1).ID(); got != "b" {
		t.Errorf("second item id = %q, want b", got)
	}
}

func TestParseHTMLDropsWhitespace(t *testing.T) {
	body := MustParseHTML("<div>\n\t  \n</div>")
	if got := body.ChildAt(0).Text(); got != "" {
		t.Errorf("whitespace-only text = %q, want empty", got)
	}
}

func TestRenderHTMLRoundTrip(t *testing.T) {
	body := MustParseHTML(`<ul id="l"><li id="a" class="card chosen">alpha</li></ul>`)

	out, err := RenderHTMLString(body)
	if err != nil {
		t.Fatalf("RenderHTMLString error: %v", err)
	}

	for _, want := range []string{`<ul id="l">`, `id="a"`, `class="card chosen"`, `alpha`} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered output missing %q:\n%s", want, out)
		}
	}

	// Re-parsing the render reproduces the same structure.
	again, err := ParseHTMLString(out)
	if err != nil {
		t.Fatalf("re-parse error: %v", err)
	}
	li := FindByID(again, "a")
	if li == nil || li.Text() != "alpha" || !li.HasClass("chosen") {
		t.Errorf("round trip lost item state: %v", li)
	}
}

func TestRenderHTMLDeterministicAttrs(t *testing.T) {
	e := NewElement("li")
	e.SetAttr("data-b", "2")
	e.SetAttr("data-a", "1")
	e.SetID("x")

	first, err := RenderHTMLString(e)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	for i := 0; i < 10; i++ {
		out, err := RenderHTMLString(e)
		if err != nil {
			t.Fatalf("render error: %v", err)
		}
		if out != first {
			t.Fatalf("nondeterministic render:\n%s\nvs\n%s", first, out)
		}
	}
	if !strings.Contains(first, `data-a="1" data-b="2"`) {
		t.Errorf("attributes not sorted: %s", first)
	}
}

func TestParseHTMLEmpty(t *testing.T) {
	body, err := ParseHTMLString("")
	if err != nil {
		t.Fatalf("ParseHTMLString(empty) error: %v", err)
	}
	if body.ChildCount() != 0 {
		t.Errorf("empty parse ChildCount = %d, want 0", body.ChildCount())
	}
}
