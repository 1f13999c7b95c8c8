// Package options is the declarative configuration surface for the drag
// engine: the recognized option set, validation, format loaders
// (JSON/TOML/YAML), and a live-reload watcher. Options feed the adapters
// and models at wiring time; the engine core never reads them directly.
package options

import (
	"errors"
	"fmt"
	"time"

	"github.com/dshills/dragflow/internal/dom"
	"github.com/dshills/dragflow/internal/geom"
	"github.com/dshills/dragflow/internal/group"
)

// ErrInvalidOption is the sentinel wrapped by every validation failure.
var ErrInvalidOption = errors.New("options: invalid option")

// Options is the full recognized option set for one container.
type Options struct {
	// Group feeds the compatibility resolver. Nil means an anonymous
	// permissive group.
	Group *group.Group

	// Draggable is the eligibility selector for container items.
	Draggable string

	// Handle restricts the drag-initiation point within an item.
	Handle string

	// Filter excludes matching sub-elements from initiating a drag.
	Filter string

	// Delay is the press-and-hold time before a pointer drag starts.
	Delay time.Duration

	// DelayOnTouchOnly applies Delay to touch pointers only.
	DelayOnTouchOnly bool

	// TouchStartThreshold is the movement that cancels a pending
	// delayed start.
	TouchStartThreshold float64

	// SwapThreshold is the fraction of a hovered item that commits a
	// swap.
	SwapThreshold float64

	// InvertSwap moves the swap zones to the hovered item's edges.
	InvertSwap bool

	// InvertedSwapThreshold is the edge-zone fraction when inverted.
	InvertedSwapThreshold float64

	// Direction is the sort axis: auto, vertical, or horizontal.
	Direction string

	// MultiDrag lets a drag starting on a selected item carry the
	// whole selection.
	MultiDrag bool

	// SelectedClass styles selected items.
	SelectedClass string

	// ChosenClass styles the picked-up item.
	ChosenClass string

	// GhostClass styles the drop placeholder.
	GhostClass string

	// DragClass styles the dragged mirror.
	DragClass string

	// EnableAccessibility turns on the keyboard adapter and its ARIA
	// bookkeeping.
	EnableAccessibility bool

	// RevertOnCancel restores the origin order on pointer
	// cancellation.
	RevertOnCancel bool
}

// Default returns the stock option set.
func Default() Options {
	return Options{
		Draggable:           "*",
		TouchStartThreshold: 1,
		SwapThreshold:       1,
		Direction:           "auto",
		SelectedClass:       "sortable-selected",
		ChosenClass:         "sortable-chosen",
		GhostClass:          "sortable-ghost",
		DragClass:           "sortable-drag",
		EnableAccessibility: true,
		RevertOnCancel:      true,
	}
}

// Validate checks ranges and compiles every selector once.
func (o *Options) Validate() error {
	if o.Delay < 0 {
		return fmt.Errorf("%w: delay %v is negative", ErrInvalidOption, o.Delay)
	}
	if o.TouchStartThreshold < 0 {
		return fmt.Errorf("%w: touchStartThreshold %v is negative", ErrInvalidOption, o.TouchStartThreshold)
	}
	if o.SwapThreshold <= 0 || o.SwapThreshold > 1 {
		return fmt.Errorf("%w: swapThreshold %v outside (0,1]", ErrInvalidOption, o.SwapThreshold)
	}
	if o.InvertedSwapThreshold < 0 || o.InvertedSwapThreshold > 1 {
		return fmt.Errorf("%w: invertedSwapThreshold %v outside [0,1]", ErrInvalidOption, o.InvertedSwapThreshold)
	}
	switch o.Direction {
	case "", "auto", "vertical", "horizontal":
	default:
		return fmt.Errorf("%w: direction %q", ErrInvalidOption, o.Direction)
	}
	for name, sel := range map[string]string{
		"draggable": o.Draggable,
		"handle":    o.Handle,
		"filter":    o.Filter,
	} {
		if _, err := dom.ParseSelector(sel); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidOption, name, err)
		}
	}
	if o.Group != nil {
		if err := o.Group.Validate(); err != nil {
			return fmt.Errorf("%w: group: %v", ErrInvalidOption, err)
		}
	}
	return nil
}

// DraggableSelector compiles the eligibility selector.
func (o *Options) DraggableSelector() (dom.Selector, error) {
	return dom.ParseSelector(o.Draggable)
}

// HandleSelector compiles the handle selector. The zero selector means
// no handle restriction.
func (o *Options) HandleSelector() (dom.Selector, error) {
	if o.Handle == "" {
		return dom.Selector{}, nil
	}
	return dom.ParseSelector(o.Handle)
}

// FilterSelector compiles the filter selector. The zero selector means
// no filtering.
func (o *Options) FilterSelector() (dom.Selector, error) {
	if o.Filter == "" {
		return dom.Selector{}, nil
	}
	return dom.ParseSelector(o.Filter)
}

// Swap returns the swap-zone gating config.
func (o *Options) Swap() geom.SwapConfig {
	return geom.SwapConfig{
		Threshold:         o.SwapThreshold,
		Invert:            o.InvertSwap,
		InvertedThreshold: o.InvertedSwapThreshold,
	}
}

// Axis returns the configured sort axis.
func (o *Options) Axis() geom.Axis {
	return geom.ParseAxis(o.Direction)
}

// EffectiveGroup returns the configured group, or an anonymous
// permissive one.
func (o *Options) EffectiveGroup() *group.Group {
	if o.Group != nil {
		return o.Group
	}
	return group.New("")
}

// TransientClasses returns the drag-transient class names stripped from
// clones, empties omitted.
func (o *Options) TransientClasses() []string {
	out := make([]string, 0, 3)
	for _, c := range []string{o.ChosenClass, o.GhostClass, o.DragClass} {
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}
