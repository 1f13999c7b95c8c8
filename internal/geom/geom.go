// Package geom provides the geometric primitives used by drag coordination:
// points, rectangles, sort-axis handling, and swap-zone resolution.
package geom

import "math"

// Point is a position in document coordinates.
type Point struct {
	X float64
	Y float64
}

// Distance returns the Manhattan distance to another point.
// Sufficient for threshold checks without sqrt overhead.
func (p Point) Distance(other Point) float64 {
	return math.Abs(p.X-other.X) + math.Abs(p.Y-other.Y)
}

// Rect is an axis-aligned rectangle in document coordinates.
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

// Right returns the right edge coordinate.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the bottom edge coordinate.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Center returns the center point.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Normalize returns an equivalent rect with non-negative width and height.
// A rect constructed with negative dimensions extends left/up from its
// origin, mirroring how DOMRect treats them.
func (r Rect) Normalize() Rect {
	if r.W < 0 {
		r.X += r.W
		r.W = -r.W
	}
	if r.H < 0 {
		r.Y += r.H
		r.H = -r.H
	}
	return r
}

// Contains reports whether the point lies inside the rect.
// Edges are inclusive on the top/left and exclusive on the bottom/right.
func (r Rect) Contains(p Point) bool {
	n := r.Normalize()
	return p.X >= n.X && p.X < n.Right() && p.Y >= n.Y && p.Y < n.Bottom()
}

// IsZero reports whether the rect is the zero value.
func (r Rect) IsZero() bool {
	return r.X == 0 && r.Y == 0 && r.W == 0 && r.H == 0
}

// Axis is the direction items flow in a sortable container.
type Axis int

const (
	// AxisAuto defers axis detection to item geometry.
	AxisAuto Axis = iota
	// AxisVertical sorts top to bottom.
	AxisVertical
	// AxisHorizontal sorts left to right.
	AxisHorizontal
)

// String returns the axis name.
func (a Axis) String() string {
	switch a {
	case AxisAuto:
		return "auto"
	case AxisVertical:
		return "vertical"
	case AxisHorizontal:
		return "horizontal"
	default:
		return "unknown"
	}
}

// ParseAxis parses an axis name. Unknown names resolve to AxisAuto.
func ParseAxis(s string) Axis {
	switch s {
	case "vertical":
		return AxisVertical
	case "horizontal":
		return AxisHorizontal
	default:
		return AxisAuto
	}
}

// DetectAxis resolves AxisAuto from the layout of two consecutive item
// rects: items that advance vertically more than horizontally flow on the
// vertical axis. With fewer than two items the container shape decides.
func DetectAxis(first, second Rect, container Rect) Axis {
	if !second.IsZero() {
		dx := math.Abs(second.X - first.X)
		dy := math.Abs(second.Y - first.Y)
		if dy >= dx {
			return AxisVertical
		}
		return AxisHorizontal
	}
	if container.H >= container.W {
		return AxisVertical
	}
	return AxisHorizontal
}

// Along returns the point's coordinate on the given axis.
func (p Point) Along(a Axis) float64 {
	if a == AxisHorizontal {
		return p.X
	}
	return p.Y
}

// Span returns the rect's start coordinate and length on the given axis.
func (r Rect) Span(a Axis) (start, length float64) {
	n := r.Normalize()
	if a == AxisHorizontal {
		return n.X, n.W
	}
	return n.Y, n.H
}
