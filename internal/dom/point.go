package dom

import "github.com/dshills/dragflow/internal/geom"

// ElementFromPoint returns the deepest element under the point, scanning
// children in reverse order so the last-painted sibling wins, the same way
// a renderer resolves overlapping nodes. Elements with zero-size bounds
// are transparent to hit testing but their children are not skipped.
// Returns nil when nothing under root contains the point.
func ElementFromPoint(root *Element, p geom.Point) *Element {
	if root == nil {
		return nil
	}
	return hitTest(root, p)
}

func hitTest(e *Element, p geom.Point) *Element {
	for i := len(e.children) - 1; i >= 0; i-- {
		if hit := hitTest(e.children[i], p); hit != nil {
			return hit
		}
	}
	if !e.bounds.IsZero() && e.bounds.Contains(p) {
		return e
	}
	return nil
}
