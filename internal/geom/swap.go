package geom

// SwapDecision is the outcome of evaluating a hover position against a
// candidate item's swap zones.
type SwapDecision int

const (
	// NoSwap keeps the current order.
	NoSwap SwapDecision = iota
	// SwapBefore inserts the dragged item before the hovered item.
	SwapBefore
	// SwapAfter inserts the dragged item after the hovered item.
	SwapAfter
)

// String returns the decision name.
func (d SwapDecision) String() string {
	switch d {
	case NoSwap:
		return "none"
	case SwapBefore:
		return "before"
	case SwapAfter:
		return "after"
	default:
		return "unknown"
	}
}

// SwapConfig controls how much of a hovered item commits a reorder.
type SwapConfig struct {
	// Threshold is the fraction (0..1] of the hovered item that acts as
	// the swap zone. 1 means the whole item commits.
	Threshold float64

	// Invert moves the swap zones to the item's edges instead of its
	// middle, for dense grids where mid-item swaps feel jumpy.
	Invert bool

	// InvertedThreshold is the edge-zone fraction used when Invert is
	// set. Zero falls back to Threshold.
	InvertedThreshold float64
}

// DefaultSwapConfig returns the permissive default: the entire hovered
// item is the swap zone.
func DefaultSwapConfig() SwapConfig {
	return SwapConfig{Threshold: 1}
}

// normalized clamps the config into usable ranges.
func (c SwapConfig) normalized() SwapConfig {
	if c.Threshold <= 0 || c.Threshold > 1 {
		c.Threshold = 1
	}
	if c.InvertedThreshold <= 0 || c.InvertedThreshold > 1 {
		c.InvertedThreshold = c.Threshold
	}
	return c
}

// Evaluate resolves whether hovering at the given point over the target
// rect commits a swap, and on which side of the target the dragged item
// lands.
//
// In normal mode the swap zone is the middle Threshold fraction of the
// target along the axis; a pointer inside the zone commits toward the
// half it occupies, a pointer in the remaining edge bands leaves the
// order alone. In inverted mode the zones sit at the two edges (each
// InvertedThreshold/2 long) and the middle is inert.
func (c SwapConfig) Evaluate(p Point, target Rect, axis Axis) SwapDecision {
	cfg := c.normalized()
	start, length := target.Span(axis)
	if length <= 0 {
		return NoSwap
	}

	d := (p.Along(axis) - start) / length
	if d < 0 {
		d = 0
	} else if d > 1 {
		d = 1
	}

	if cfg.Invert {
		band := cfg.InvertedThreshold / 2
		switch {
		case d < band:
			return SwapBefore
		case d > 1-band:
			return SwapAfter
		default:
			return NoSwap
		}
	}

	margin := (1 - cfg.Threshold) / 2
	if d < margin || d > 1-margin {
		return NoSwap
	}
	if d >= 0.5 {
		return SwapAfter
	}
	return SwapBefore
}
