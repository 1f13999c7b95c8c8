package keynav

import (
	"testing"

	"github.com/dshills/dragflow/internal/announce"
	"github.com/dshills/dragflow/internal/container"
	"github.com/dshills/dragflow/internal/dom"
	"github.com/dshills/dragflow/internal/event"
	"github.com/dshills/dragflow/internal/geom"
	"github.com/dshills/dragflow/internal/group"
	"github.com/dshills/dragflow/internal/selection"
	"github.com/dshills/dragflow/internal/session"
)

type fixture struct {
	reg   *session.Registry
	one   session.Controller
	two   session.Controller
	store *selection.Store
	byID  map[string]*dom.Element
	ann   *announce.Recorder
	a     *Adapter
}

func makeFixture(t *testing.T, ids ...string) *fixture {
	t.Helper()
	f := &fixture{
		reg:  session.NewRegistry(),
		byID: make(map[string]*dom.Element),
		ann:  &announce.Recorder{},
	}

	build := func(name string, x float64, itemIDs ...string) session.Controller {
		ul := dom.NewElement("ul").SetID(name).SetBounds(geom.Rect{X: x, W: 100, H: 400})
		for i, id := range itemIDs {
			li := dom.NewElement("li").SetID(id).
				SetBounds(geom.Rect{X: x, Y: float64(i) * 40, W: 100, H: 40})
			ul.AppendChild(li)
			f.byID[id] = li
		}
		model := container.New(ul, container.WithID(name), container.WithGroup(group.New("g")))
		ctrl := session.NewController(model, event.NewSink(name))
		if err := f.reg.Register(ctrl); err != nil {
			t.Fatalf("register: %v", err)
		}
		return ctrl
	}

	f.one = build("one", 0, ids...)
	f.two = build("two", 100, "x", "y")
	f.store = selection.NewStore(f.one.Model(), f.one.Sink())
	f.a = New(f.reg, DefaultConfig(), WithAnnouncer(f.ann))
	f.a.SetActive(f.one, f.store)
	return f
}

func (f *fixture) order(c session.Controller) string {
	out := ""
	for _, it := range c.Model().Items() {
		out += it.ID()
	}
	return out
}

func TestIdleArrowsMoveFocus(t *testing.T) {
	f := makeFixture(t, "a", "b", "c")

	f.a.HandleKey(KeyDown, false)
	if f.store.Focused() != f.byID["a"] {
		t.Fatal("first key should land focus on the first item")
	}
	f.a.HandleKey(KeyDown, false)
	if f.store.Focused() != f.byID["b"] {
		t.Error("focus did not advance")
	}
	f.a.HandleKey(KeyUp, false)
	if f.store.Focused() != f.byID["a"] {
		t.Error("focus did not retreat")
	}
	// Clamped at the edge.
	f.a.HandleKey(KeyUp, false)
	if f.store.Focused() != f.byID["a"] {
		t.Error("focus ran off the front")
	}
	if f.store.Count() != 0 {
		t.Error("plain arrows changed the selection")
	}
}

func TestHomeEndJumpFocus(t *testing.T) {
	f := makeFixture(t, "a", "b", "c")

	f.a.HandleKey(KeyEnd, false)
	if f.store.Focused() != f.byID["c"] {
		t.Error("End did not focus the last item")
	}
	f.a.HandleKey(KeyHome, false)
	if f.store.Focused() != f.byID["a"] {
		t.Error("Home did not focus the first item")
	}
}

func TestSpaceTogglesSelection(t *testing.T) {
	f := makeFixture(t, "a", "b")

	f.a.HandleKey(KeyDown, false)
	f.a.HandleKey(KeySpace, false)
	if !f.store.IsSelected(f.byID["a"]) {
		t.Fatal("space did not select the focused item")
	}
	f.a.HandleKey(KeySpace, false)
	if f.store.IsSelected(f.byID["a"]) {
		t.Error("second space did not deselect")
	}
}

func TestShiftArrowsRangeSelect(t *testing.T) {
	f := makeFixture(t, "a", "b", "c", "d")

	f.a.HandleKey(KeyDown, false)
	f.a.HandleKey(KeySpace, false)
	f.a.HandleKey(KeyDown, true)
	f.a.HandleKey(KeyDown, true)

	want := []*dom.Element{f.byID["a"], f.byID["b"], f.byID["c"]}
	got := f.store.Selected()
	if len(got) != len(want) {
		t.Fatalf("selected %d items, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("selected[%d] = %s, want %s", i, got[i].ID(), want[i].ID())
		}
	}
}

func TestSelectAllKey(t *testing.T) {
	f := makeFixture(t, "a", "b", "c")
	f.a.HandleKey(KeySelectAll, false)
	if f.store.Count() != 3 {
		t.Errorf("selected = %d, want 3", f.store.Count())
	}
}

func TestGrabMoveDrop(t *testing.T) {
	f := makeFixture(t, "a", "b", "c")

	f.a.HandleKey(KeyDown, false) // focus a
	f.a.HandleKey(KeyEnter, false)
	if !f.a.Grabbing() {
		t.Fatal("Enter on a focused item did not grab")
	}
	if v, _ := f.byID["a"].Attr("aria-grabbed"); v != "true" {
		t.Error("aria-grabbed not set")
	}

	f.a.HandleKey(KeyDown, false)
	f.a.HandleKey(KeyDown, false)
	if got := f.order(f.one); got != "bca" {
		t.Errorf("order = %q, want %q", got, "bca")
	}

	f.a.HandleKey(KeyEnter, false)
	if f.a.Grabbing() {
		t.Error("drop left the adapter grabbing")
	}
	if f.reg.HasSession(session.KeyboardID) {
		t.Error("session survived the drop")
	}
	if v, _ := f.byID["a"].Attr("aria-grabbed"); v != "false" {
		t.Error("aria-grabbed not cleared")
	}
	if got := f.ann.Last(); got != "dropped at item 3 of 3" {
		t.Errorf("announcement = %q", got)
	}
}

// Grab two non-adjacent items, move them up, then Escape: the exact
// pre-grab order comes back.
func TestEscapeRestoresMultiItemGrab(t *testing.T) {
	f := makeFixture(t, "a", "b", "c", "d", "e")

	f.store.Select(f.byID["b"], false)
	f.store.Select(f.byID["d"], true)
	f.a.HandleKey(KeyEnter, false)
	if !f.a.Grabbing() {
		t.Fatal("grab failed")
	}

	f.a.HandleKey(KeyUp, false)
	f.a.HandleKey(KeyUp, false)
	if got := f.order(f.one); got == "abcde" {
		t.Fatal("moves did not change the order")
	}

	f.a.HandleKey(KeyEscape, false)
	if got := f.order(f.one); got != "abcde" {
		t.Errorf("order = %q, want restored %q", got, "abcde")
	}
	if f.a.Grabbing() || f.reg.HasSession(session.KeyboardID) {
		t.Error("cancel left grab state behind")
	}
	if got := f.ann.Last(); got != "drag cancelled, order restored" {
		t.Errorf("announcement = %q", got)
	}
}

func TestGrabbedSetMovesTogether(t *testing.T) {
	f := makeFixture(t, "a", "b", "c", "d")

	f.store.Select(f.byID["a"], false)
	f.store.Select(f.byID["c"], true)
	f.a.HandleKey(KeyEnter, false)

	f.a.HandleKey(KeyDown, false)
	if got := f.order(f.one); got != "bacd" {
		t.Errorf("order = %q, want %q", got, "bacd")
	}
}

func TestCrossAxisArrowTransfers(t *testing.T) {
	f := makeFixture(t, "a", "b", "c")

	f.a.HandleKey(KeyDown, false) // focus a
	f.a.HandleKey(KeyEnter, false)
	f.a.HandleKey(KeyRight, false)

	if got := f.order(f.two); got != "axy" {
		t.Errorf("neighbor order = %q, want %q", got, "axy")
	}
	if got := f.order(f.one); got != "bc" {
		t.Errorf("origin order = %q, want %q", got, "bc")
	}
	if v, _ := f.two.Model().Element().Attr("aria-dropeffect"); v != "move" {
		t.Error("aria-dropeffect did not follow the transfer")
	}

	// Dropping settles the cross-container move.
	f.a.HandleKey(KeyEnter, false)
	if f.reg.HasSession(session.KeyboardID) {
		t.Error("session survived the drop")
	}
	if got := f.order(f.two); got != "axy" {
		t.Errorf("order after drop = %q, want %q", got, "axy")
	}
}

func TestTransferWithoutNeighborIsNoop(t *testing.T) {
	f := makeFixture(t, "a", "b")

	f.a.HandleKey(KeyDown, false)
	f.a.HandleKey(KeyEnter, false)
	// No container sits to the left of list one.
	f.a.HandleKey(KeyLeft, false)

	if got := f.order(f.one); got != "ab" {
		t.Errorf("order = %q, want %q", got, "ab")
	}
	if !f.a.Grabbing() {
		t.Error("failed transfer dropped the grab")
	}
}

func TestEscapeAfterTransferRestoresOrigin(t *testing.T) {
	f := makeFixture(t, "a", "b", "c")

	f.a.HandleKey(KeyDown, false)
	f.a.HandleKey(KeyEnter, false)
	f.a.HandleKey(KeyRight, false)
	f.a.HandleKey(KeyEscape, false)

	if got := f.order(f.one); got != "abc" {
		t.Errorf("origin order = %q, want %q", got, "abc")
	}
	if got := f.order(f.two); got != "xy" {
		t.Errorf("neighbor order = %q, want %q", got, "xy")
	}
}

func TestGrabWithoutFocusOrSelection(t *testing.T) {
	f := makeFixture(t, "a")
	if f.a.HandleKey(KeyEnter, false) {
		t.Error("Enter with nothing focused was consumed")
	}
	if f.a.Grabbing() {
		t.Error("grab with no items")
	}
}

func TestSetActiveIgnoredMidGrab(t *testing.T) {
	f := makeFixture(t, "a", "b")

	f.a.HandleKey(KeyDown, false)
	f.a.HandleKey(KeyEnter, false)
	f.a.SetActive(f.two, nil)

	// The grab still finishes against list one.
	f.a.HandleKey(KeyDown, false)
	if got := f.order(f.one); got != "ba" {
		t.Errorf("order = %q, want %q", got, "ba")
	}
}

func TestDisabledAdapterIgnoresKeys(t *testing.T) {
	f := makeFixture(t, "a")
	cfg := DefaultConfig()
	cfg.Enabled = false
	a := New(f.reg, cfg)
	a.SetActive(f.one, f.store)

	if a.HandleKey(KeyDown, false) {
		t.Error("disabled adapter consumed a key")
	}
}

func TestGrabbedClassLifecycle(t *testing.T) {
	f := makeFixture(t, "a", "b")
	cfg := DefaultConfig()
	cfg.GrabbedClass = "grabbed"
	a := New(f.reg, cfg, WithAnnouncer(f.ann))
	a.SetActive(f.one, f.store)

	a.HandleKey(KeyDown, false)
	a.HandleKey(KeyEnter, false)
	if !f.byID["a"].HasClass("grabbed") {
		t.Fatal("grabbed class missing")
	}
	a.HandleKey(KeyEnter, false)
	if f.byID["a"].HasClass("grabbed") {
		t.Error("grabbed class survived the drop")
	}
}
