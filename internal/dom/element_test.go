package dom

import (
	"testing"

	"github.com/dshills/dragflow/internal/geom"
)

func makeList(ids ...string) (*Element, []*Element) {
	ul := NewElement("ul")
	items := make([]*Element, 0, len(ids))
	for _, id := range ids {
		li := NewElement("li").SetID(id)
		ul.AppendChild(li)
		items = append(items, li)
	}
	return ul, items
}

func childIDs(e *Element) []string {
	out := make([]string, 0, e.ChildCount())
	for _, c := range e.Children() {
		out = append(out, c.ID())
	}
	return out
}

func equalIDs(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestAppendAndIndexOfChild(t *testing.T) {
	ul, items := makeList("a", "b", "c")

	if ul.ChildCount() != 3 {
		t.Fatalf("ChildCount() = %d, want 3", ul.ChildCount())
	}
	for i, it := range items {
		if got := ul.IndexOfChild(it); got != i {
			t.Errorf("IndexOfChild(%s) = %d, want %d", it.ID(), got, i)
		}
		if it.Parent() != ul {
			t.Errorf("item %s parent not set", it.ID())
		}
	}
	if got := ul.IndexOfChild(NewElement("li")); got != -1 {
		t.Errorf("IndexOfChild(foreign) = %d, want -1", got)
	}
}

func TestInsertChildAtClamps(t *testing.T) {
	ul, _ := makeList("a", "b")

	x := NewElement("li").SetID("x")
	ul.InsertChildAt(-5, x)
	if got := childIDs(ul); !equalIDs(got, []string{"x", "a", "b"}) {
		t.Errorf("after negative insert: %v", got)
	}

	y := NewElement("li").SetID("y")
	ul.InsertChildAt(99, y)
	if got := childIDs(ul); !equalIDs(got, []string{"x", "a", "b", "y"}) {
		t.Errorf("after overflow insert: %v", got)
	}
}

func TestInsertReparents(t *testing.T) {
	left, items := makeList("a", "b")
	right, _ := makeList("p", "q")

	right.InsertChildAt(1, items[0])
	if got := childIDs(left); !equalIDs(got, []string{"b"}) {
		t.Errorf("origin after reparent: %v", got)
	}
	if got := childIDs(right); !equalIDs(got, []string{"p", "a", "q"}) {
		t.Errorf("target after reparent: %v", got)
	}
	if items[0].Parent() != right {
		t.Error("reparented item has wrong parent")
	}
}

func TestInsertBeforeSameParentShift(t *testing.T) {
	// Moving an earlier sibling before a later one must account for the
	// index shift caused by its own removal.
	ul, items := makeList("a", "b", "c", "d")

	ul.InsertBefore(items[0], items[2]) // a before c
	if got := childIDs(ul); !equalIDs(got, []string{"b", "a", "c", "d"}) {
		t.Errorf("InsertBefore result: %v", got)
	}
}

func TestInsertAfterSameParentShift(t *testing.T) {
	ul, items := makeList("a", "b", "c", "d")

	ul.InsertAfter(items[0], items[2]) // a after c
	if got := childIDs(ul); !equalIDs(got, []string{"b", "c", "a", "d"}) {
		t.Errorf("InsertAfter result: %v", got)
	}
}

func TestInsertBeforeNilAppends(t *testing.T) {
	ul, _ := makeList("a")
	x := NewElement("li").SetID("x")
	ul.InsertBefore(x, nil)
	if got := childIDs(ul); !equalIDs(got, []string{"a", "x"}) {
		t.Errorf("InsertBefore(nil) result: %v", got)
	}
}

func TestRemoveChildAndDetach(t *testing.T) {
	ul, items := makeList("a", "b", "c")

	if !ul.RemoveChild(items[1]) {
		t.Fatal("RemoveChild returned false for own child")
	}
	if items[1].Parent() != nil {
		t.Error("removed child still has parent")
	}
	if ul.RemoveChild(items[1]) {
		t.Error("RemoveChild returned true for non-child")
	}

	items[2].Detach()
	if got := childIDs(ul); !equalIDs(got, []string{"a"}) {
		t.Errorf("after detach: %v", got)
	}
}

func TestClasses(t *testing.T) {
	e := NewElement("li")
	e.AddClass("chosen", "ghost", "chosen", "")

	if got := e.Classes(); !equalIDs(got, []string{"chosen", "ghost"}) {
		t.Errorf("Classes() = %v", got)
	}
	if !e.HasClass("ghost") {
		t.Error("HasClass(ghost) = false")
	}

	e.RemoveClass("chosen")
	if e.HasClass("chosen") {
		t.Error("class survived removal")
	}
	e.RemoveClass("never-there")
}

func TestContainsAndRoot(t *testing.T) {
	ul, items := makeList("a", "b")
	span := NewElement("span")
	items[0].AppendChild(span)

	if !ul.Contains(span) {
		t.Error("Contains(grandchild) = false")
	}
	if !ul.Contains(ul) {
		t.Error("Contains(self) = false")
	}
	if items[1].Contains(span) {
		t.Error("sibling Contains = true")
	}
	if span.Root() != ul {
		t.Error("Root() did not reach list")
	}
}

func TestCloneDeepCopy(t *testing.T) {
	ul, items := makeList("a", "b")
	items[0].AddClass("chosen").SetText("alpha").SetAttr("data-kind", "card")

	cp := ul.Clone()
	if cp.Parent() != nil {
		t.Error("clone should be detached")
	}
	if cp.ChildCount() != 2 {
		t.Fatalf("clone ChildCount = %d, want 2", cp.ChildCount())
	}
	if cp.ChildAt(0) == items[0] {
		t.Error("clone shares child pointer with source")
	}
	if cp.ChildAt(0).ID() != "a" || !cp.ChildAt(0).HasClass("chosen") {
		t.Error("clone lost child attributes")
	}

	// Mutating the clone must not touch the source.
	cp.ChildAt(0).SetID("zzz")
	if items[0].ID() != "a" {
		t.Error("source mutated through clone")
	}
}

func TestCloneForDragStripsIdentity(t *testing.T) {
	li := NewElement("li").SetID("card-1").SetText("alpha")
	li.AddClass("card", "chosen", "drag-active")
	inner := NewElement("span").SetID("inner").SetText("x")
	inner.AddClass("ghost")
	li.AppendChild(inner)

	cp := li.CloneForDrag([]string{"chosen", "ghost", "drag-active"})

	if cp.ID() != "" {
		t.Errorf("clone kept id %q", cp.ID())
	}
	if cp.HasClass("chosen") || cp.HasClass("drag-active") {
		t.Errorf("clone kept transient classes: %v", cp.Classes())
	}
	if !cp.HasClass("card") {
		t.Error("clone lost non-transient class")
	}
	if cp.ChildAt(0).ID() != "" || cp.ChildAt(0).HasClass("ghost") {
		t.Error("descendant identity not stripped")
	}

	// Original untouched.
	if li.ID() != "card-1" || !li.HasClass("chosen") {
		t.Error("original mutated by CloneForDrag")
	}
	if inner.ID() != "inner" {
		t.Error("original descendant mutated by CloneForDrag")
	}
}

func TestWalkStops(t *testing.T) {
	ul, _ := makeList("a", "b", "c")
	visited := 0
	ul.Walk(func(e *Element) bool {
		visited++
		return visited < 2
	})
	if visited != 2 {
		t.Errorf("Walk visited %d nodes after stop, want 2", visited)
	}
}

func TestBounds(t *testing.T) {
	e := NewElement("li").SetBounds(geom.Rect{X: 1, Y: 2, W: 3, H: 4})
	if got := e.Bounds(); got != (geom.Rect{X: 1, Y: 2, W: 3, H: 4}) {
		t.Errorf("Bounds() = %+v", got)
	}
}
