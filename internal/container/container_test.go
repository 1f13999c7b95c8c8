package container

import (
	"strings"
	"testing"

	"github.com/dshills/dragflow/internal/dom"
)

// makeList builds a ul with one li per id.
func makeList(ids ...string) (*Model, map[string]*dom.Element) {
	ul := dom.NewElement("ul")
	byID := make(map[string]*dom.Element, len(ids))
	for _, id := range ids {
		li := dom.NewElement("li").SetID(id)
		ul.AppendChild(li)
		byID[id] = li
	}
	return New(ul), byID
}

func order(m *Model) string {
	items := m.Items()
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID()
	}
	return strings.Join(ids, "")
}

func TestMoveToIndexInvariant(t *testing.T) {
	tests := []struct {
		name   string
		item   string
		target int
		want   string
	}{
		{"to front", "d", 0, "dabce"},
		{"to back", "b", 4, "acdeb"},
		{"upward", "d", 1, "adbce"},
		{"downward", "b", 3, "acdbe"},
		{"same spot", "c", 2, "abcde"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, byID := makeList("a", "b", "c", "d", "e")
			m.MoveTo(byID[tt.item], tt.target)
			if got := order(m); got != tt.want {
				t.Errorf("order = %q, want %q", got, tt.want)
			}
			if tt.want != "abcde" {
				if got := m.IndexOf(byID[tt.item]); got != tt.target {
					t.Errorf("IndexOf(%s) = %d, want %d", tt.item, got, tt.target)
				}
			}
		})
	}
}

func TestMoveToClamps(t *testing.T) {
	m, byID := makeList("a", "b", "c")

	m.MoveTo(byID["a"], 99)
	if got := order(m); got != "bca" {
		t.Errorf("over-range order = %q, want %q", got, "bca")
	}

	m.MoveTo(byID["a"], -5)
	if got := order(m); got != "abc" {
		t.Errorf("under-range order = %q, want %q", got, "abc")
	}
}

func TestMoveToForeignItemIsNoop(t *testing.T) {
	m, _ := makeList("a", "b")
	stranger := dom.NewElement("li").SetID("x")

	if m.MoveTo(stranger, 0) {
		t.Error("MoveTo(foreign) reported a change")
	}
	if got := order(m); got != "ab" {
		t.Errorf("order = %q, want %q", got, "ab")
	}
}

func TestMoveToInPlaceIsNoop(t *testing.T) {
	m, byID := makeList("a", "b", "c")
	if m.MoveTo(byID["b"], 1) {
		t.Error("in-place MoveTo reported a change")
	}
}

func TestMoveManyToRelativeOrder(t *testing.T) {
	// [1,2,3,4,5], move items 0 and 2 to index 2 -> [2,4,1,3,5].
	m, byID := makeList("1", "2", "3", "4", "5")
	moved := []*dom.Element{byID["1"], byID["3"]}

	if !m.MoveManyTo(moved, 2) {
		t.Fatal("MoveManyTo reported no change")
	}
	if got := order(m); got != "24135" {
		t.Errorf("order = %q, want %q", got, "24135")
	}
}

func TestMoveManyTo(t *testing.T) {
	tests := []struct {
		name   string
		items  []string
		target int
		want   string
	}{
		{"to front", []string{"c", "e"}, 0, "ceabd"},
		{"to back", []string{"a", "b"}, 3, "cdeab"},
		{"non-contiguous set keeps input order", []string{"d", "b"}, 1, "adbce"},
		{"whole list", []string{"a", "b", "c", "d", "e"}, 0, "abcde"},
		{"over-range clamps", []string{"a"}, 99, "bcdea"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, byID := makeList("a", "b", "c", "d", "e")
			set := make([]*dom.Element, len(tt.items))
			for i, id := range tt.items {
				set[i] = byID[id]
			}
			m.MoveManyTo(set, tt.target)
			if got := order(m); got != tt.want {
				t.Errorf("order = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMoveManyToEmptyIsNoop(t *testing.T) {
	m, _ := makeList("a", "b")
	if m.MoveManyTo(nil, 0) {
		t.Error("empty MoveManyTo reported a change")
	}
	if m.MoveManyTo([]*dom.Element{dom.NewElement("li")}, 0) {
		t.Error("fully-foreign MoveManyTo reported a change")
	}
}

func TestEligibleIndexesIgnoreDecorativeNodes(t *testing.T) {
	ul := dom.NewElement("ul")
	header := dom.NewElement("div").AddClass("header")
	a := dom.NewElement("li").SetID("a").AddClass("item")
	sep := dom.NewElement("div").AddClass("sep")
	b := dom.NewElement("li").SetID("b").AddClass("item")
	c := dom.NewElement("li").SetID("c").AddClass("item")
	for _, e := range []*dom.Element{header, a, sep, b, c} {
		ul.AppendChild(e)
	}

	m := New(ul, WithEligible(dom.MustSelector(".item")))
	if got := m.Len(); got != 3 {
		t.Fatalf("Len() = %d, want 3", got)
	}
	if got := m.IndexOf(b); got != 1 {
		t.Errorf("IndexOf(b) = %d, want 1", got)
	}

	m.MoveTo(c, 0)
	if got := m.IndexOf(c); got != 0 {
		t.Errorf("after MoveTo, IndexOf(c) = %d, want 0", got)
	}
	// Decorative nodes stay in the raw child list.
	if ul.IndexOfChild(header) < 0 || ul.IndexOfChild(sep) < 0 {
		t.Error("decorative nodes were displaced by the move")
	}
}

func TestInsertAdoptsForeignItem(t *testing.T) {
	src, srcItems := makeList("a", "b")
	dst, _ := makeList("x", "y")

	if !dst.Insert(srcItems["a"], 1) {
		t.Fatal("Insert reported no change")
	}
	if got := order(dst); got != "xay" {
		t.Errorf("target order = %q, want %q", got, "xay")
	}
	if got := order(src); got != "b" {
		t.Errorf("source order = %q, want %q", got, "b")
	}
}

func TestRestoreOrder(t *testing.T) {
	m, byID := makeList("a", "b", "c", "d")
	want := m.Items()

	m.MoveTo(byID["d"], 0)
	m.MoveTo(byID["a"], 3)
	m.RestoreOrder(want)

	if got := order(m); got != "abcd" {
		t.Errorf("order = %q, want %q", got, "abcd")
	}
}

func TestInsertionIndex(t *testing.T) {
	m, byID := makeList("a", "b", "c", "d")

	tests := []struct {
		name    string
		dragged string
		hovered string
		after   bool
		want    int
	}{
		{"downward after", "a", "c", true, 2},
		{"downward before", "a", "c", false, 1},
		{"upward before", "d", "b", false, 1},
		{"upward after", "d", "b", true, 2},
		{"hovered not an item", "a", "", false, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hovered := byID[tt.hovered]
			if tt.hovered == "" {
				hovered = dom.NewElement("li")
			}
			got := m.InsertionIndex(byID[tt.dragged], hovered, tt.after)
			if got != tt.want {
				t.Errorf("InsertionIndex = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestInsertionIndexCrossContainer(t *testing.T) {
	m, byID := makeList("a", "b", "c")
	foreign := dom.NewElement("li").SetID("x")

	if got := m.InsertionIndex(foreign, byID["b"], false); got != 1 {
		t.Errorf("before = %d, want 1", got)
	}
	if got := m.InsertionIndex(foreign, byID["b"], true); got != 2 {
		t.Errorf("after = %d, want 2", got)
	}
}
