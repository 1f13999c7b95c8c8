// Package dom provides the in-memory element tree dragflow coordinates
// over: ordered children, attributes, class lists, layout rects, and the
// clone semantics cross-container drags rely on.
//
// Elements are not goroutine-safe; a tree belongs to the event loop that
// feeds the input adapters, matching the engine's synchronous model.
package dom

import "github.com/dshills/dragflow/internal/geom"

// AttrID is the identifying attribute stripped from drag clones.
const AttrID = "id"

// Element is one node in the tree.
type Element struct {
	tag      string
	text     string
	attrs    map[string]string
	classes  []string
	parent   *Element
	children []*Element
	bounds   geom.Rect
}

// NewElement creates a detached element with the given tag.
func NewElement(tag string) *Element {
	return &Element{tag: tag}
}

// Tag returns the element's tag name.
func (e *Element) Tag() string { return e.tag }

// ID returns the value of the id attribute, or "".
func (e *Element) ID() string {
	v, _ := e.Attr(AttrID)
	return v
}

// SetID sets the id attribute.
func (e *Element) SetID(id string) *Element {
	e.SetAttr(AttrID, id)
	return e
}

// Text returns the element's direct text content.
func (e *Element) Text() string { return e.text }

// SetText sets the element's direct text content.
func (e *Element) SetText(s string) *Element {
	e.text = s
	return e
}

// Attr returns an attribute value and whether it is present.
func (e *Element) Attr(key string) (string, bool) {
	if e.attrs == nil {
		return "", false
	}
	v, ok := e.attrs[key]
	return v, ok
}

// SetAttr sets an attribute.
func (e *Element) SetAttr(key, value string) *Element {
	if e.attrs == nil {
		e.attrs = make(map[string]string)
	}
	e.attrs[key] = value
	return e
}

// RemoveAttr removes an attribute if present.
func (e *Element) RemoveAttr(key string) {
	delete(e.attrs, key)
}

// Attrs returns a copy of the attribute map.
func (e *Element) Attrs() map[string]string {
	out := make(map[string]string, len(e.attrs))
	for k, v := range e.attrs {
		out[k] = v
	}
	return out
}

// HasClass reports whether the class is present.
func (e *Element) HasClass(name string) bool {
	for _, c := range e.classes {
		if c == name {
			return true
		}
	}
	return false
}

// AddClass adds classes, ignoring duplicates and empty names.
func (e *Element) AddClass(names ...string) *Element {
	for _, n := range names {
		if n == "" || e.HasClass(n) {
			continue
		}
		e.classes = append(e.classes, n)
	}
	return e
}

// RemoveClass removes classes if present.
func (e *Element) RemoveClass(names ...string) {
	for _, n := range names {
		for i, c := range e.classes {
			if c == n {
				e.classes = append(e.classes[:i], e.classes[i+1:]...)
				break
			}
		}
	}
}

// Classes returns a copy of the class list.
func (e *Element) Classes() []string {
	out := make([]string, len(e.classes))
	copy(out, e.classes)
	return out
}

// Bounds returns the element's layout rect in document coordinates.
// Layout is owned by the host; the engine only reads it.
func (e *Element) Bounds() geom.Rect { return e.bounds }

// SetBounds records the element's layout rect.
func (e *Element) SetBounds(r geom.Rect) *Element {
	e.bounds = r
	return e
}

// Parent returns the parent element, or nil for a detached root.
func (e *Element) Parent() *Element { return e.parent }

// Children returns a copy of the child slice.
func (e *Element) Children() []*Element {
	out := make([]*Element, len(e.children))
	copy(out, e.children)
	return out
}

// ChildCount returns the number of children.
func (e *Element) ChildCount() int { return len(e.children) }

// ChildAt returns the child at index i, or nil when out of range.
func (e *Element) ChildAt(i int) *Element {
	if i < 0 || i >= len(e.children) {
		return nil
	}
	return e.children[i]
}

// IndexOfChild returns the raw child index of c, or -1.
func (e *Element) IndexOfChild(c *Element) int {
	for i, ch := range e.children {
		if ch == c {
			return i
		}
	}
	return -1
}

// AppendChild detaches c from its current parent and appends it.
func (e *Element) AppendChild(c *Element) *Element {
	e.InsertChildAt(len(e.children), c)
	return e
}

// InsertChildAt detaches c from its current parent and inserts it so that
// it occupies raw child index i, clamped into [0, ChildCount].
func (e *Element) InsertChildAt(i int, c *Element) {
	if c == nil || c == e {
		return
	}
	c.Detach()
	if i < 0 {
		i = 0
	}
	if i > len(e.children) {
		i = len(e.children)
	}
	e.children = append(e.children, nil)
	copy(e.children[i+1:], e.children[i:])
	e.children[i] = c
	c.parent = e
}

// InsertBefore inserts c immediately before ref. When ref is nil or not a
// child, c is appended.
func (e *Element) InsertBefore(c, ref *Element) {
	idx := e.IndexOfChild(ref)
	if idx < 0 {
		e.AppendChild(c)
		return
	}
	// Removing c first can shift ref's index.
	if c.parent == e {
		ci := e.IndexOfChild(c)
		if ci >= 0 && ci < idx {
			idx--
		}
	}
	c.Detach()
	e.InsertChildAt(idx, c)
}

// InsertAfter inserts c immediately after ref. When ref is nil or not a
// child, c is appended.
func (e *Element) InsertAfter(c, ref *Element) {
	idx := e.IndexOfChild(ref)
	if idx < 0 {
		e.AppendChild(c)
		return
	}
	if c.parent == e {
		ci := e.IndexOfChild(c)
		if ci >= 0 && ci < idx {
			idx--
		}
	}
	c.Detach()
	e.InsertChildAt(idx+1, c)
}

// RemoveChild removes c from this element's children. Reports whether c
// was a child.
func (e *Element) RemoveChild(c *Element) bool {
	idx := e.IndexOfChild(c)
	if idx < 0 {
		return false
	}
	e.children = append(e.children[:idx], e.children[idx+1:]...)
	c.parent = nil
	return true
}

// Detach removes the element from its parent, if any.
func (e *Element) Detach() {
	if e.parent != nil {
		e.parent.RemoveChild(e)
	}
}

// Contains reports whether other is e or a descendant of e.
func (e *Element) Contains(other *Element) bool {
	for n := other; n != nil; n = n.parent {
		if n == e {
			return true
		}
	}
	return false
}

// Root returns the topmost ancestor.
func (e *Element) Root() *Element {
	n := e
	for n.parent != nil {
		n = n.parent
	}
	return n
}

// Walk visits e and its descendants depth-first in document order.
// Returning false from fn stops the walk.
func (e *Element) Walk(fn func(*Element) bool) bool {
	if !fn(e) {
		return false
	}
	for _, c := range e.children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// Clone returns a detached deep copy of the element, including its id.
// Bounds are copied as-is; the host relayouts clones it materializes.
func (e *Element) Clone() *Element {
	out := &Element{
		tag:    e.tag,
		text:   e.text,
		bounds: e.bounds,
	}
	if len(e.attrs) > 0 {
		out.attrs = make(map[string]string, len(e.attrs))
		for k, v := range e.attrs {
			out.attrs[k] = v
		}
	}
	if len(e.classes) > 0 {
		out.classes = make([]string, len(e.classes))
		copy(out.classes, e.classes)
	}
	for _, c := range e.children {
		cc := c.Clone()
		cc.parent = out
		out.children = append(out.children, cc)
	}
	return out
}

// CloneForDrag returns a deep copy suitable for clone-mode drags: the id
// attribute and every listed drag-transient class are stripped from the
// copy and all of its descendants. The source element is left untouched.
func (e *Element) CloneForDrag(stripClasses []string) *Element {
	out := e.Clone()
	out.Walk(func(n *Element) bool {
		n.RemoveAttr(AttrID)
		n.RemoveClass(stripClasses...)
		return true
	})
	return out
}
