// Package group implements the named compatibility domains that decide
// whether items may leave one container (pull) and enter another (put),
// and whether a cross-container transfer moves or clones.
package group

import (
	"errors"
	"fmt"
)

// Errors.
var (
	// ErrIncompatiblePull is returned when resolving the pull mode for a
	// pair the group cannot pull into. Callers must gate on CanPullTo.
	ErrIncompatiblePull = errors.New("group: pull mode requested for incompatible target")

	// ErrInvalidRule is returned by Validate for malformed rules.
	ErrInvalidRule = errors.New("group: invalid rule")
)

// Mode is how items cross containers.
type Mode string

const (
	// ModeMove relocates the original items.
	ModeMove Mode = "move"

	// ModeClone leaves the originals and transfers duplicates.
	ModeClone Mode = "clone"
)

// RuleKind classifies a pull or put rule.
type RuleKind int

const (
	// RuleAlways permits any counterpart group.
	RuleAlways RuleKind = iota

	// RuleNever permits nothing.
	RuleNever

	// RuleClone permits any counterpart, transferring duplicates.
	// Only meaningful for pull rules.
	RuleClone

	// RuleList permits the named groups only.
	RuleList
)

// String returns the rule kind name.
func (k RuleKind) String() string {
	switch k {
	case RuleAlways:
		return "yes"
	case RuleNever:
		return "no"
	case RuleClone:
		return "clone"
	case RuleList:
		return "list"
	default:
		return "unknown"
	}
}

// PullRule controls dragging items out of a group's containers.
type PullRule struct {
	Kind  RuleKind
	Allow []string
}

// PutRule controls dragging items into a group's containers.
type PutRule struct {
	Kind  RuleKind
	Allow []string
}

// PullYes permits pulling to any group.
func PullYes() PullRule { return PullRule{Kind: RuleAlways} }

// PullNo forbids pulling out.
func PullNo() PullRule { return PullRule{Kind: RuleNever} }

// PullClone permits pulling to any group as duplicates.
func PullClone() PullRule { return PullRule{Kind: RuleClone} }

// PullTo permits pulling only to the named groups.
func PullTo(names ...string) PullRule { return PullRule{Kind: RuleList, Allow: names} }

// PutYes permits putting from any group.
func PutYes() PutRule { return PutRule{Kind: RuleAlways} }

// PutNo forbids putting in.
func PutNo() PutRule { return PutRule{Kind: RuleNever} }

// PutFrom permits putting only from the named groups.
func PutFrom(names ...string) PutRule { return PutRule{Kind: RuleList, Allow: names} }

// Group is an immutable compatibility domain. One per container.
type Group struct {
	// Name identifies the domain. Same-name groups are always compatible.
	Name string

	// Pull governs drag-out.
	Pull PullRule

	// Put governs drag-in.
	Put PutRule

	// RevertClone restores the origin order when a clone-mode drag ends
	// without a cross-container drop.
	RevertClone bool
}

// New creates a group with permissive defaults: pull yes, put yes.
func New(name string) *Group {
	return &Group{Name: name, Pull: PullYes(), Put: PutYes()}
}

// Validate checks rule consistency.
func (g *Group) Validate() error {
	if g.Put.Kind == RuleClone {
		return fmt.Errorf("%w: put cannot be clone", ErrInvalidRule)
	}
	if g.Pull.Kind == RuleList && g.Pull.Allow == nil {
		return fmt.Errorf("%w: pull list without names", ErrInvalidRule)
	}
	if g.Put.Kind == RuleList && g.Put.Allow == nil {
		return fmt.Errorf("%w: put list without names", ErrInvalidRule)
	}
	return nil
}

// CanPullTo reports whether items may be dragged out of this group into
// the named target group.
func (g *Group) CanPullTo(targetName string) bool {
	switch g.Pull.Kind {
	case RuleNever:
		return false
	case RuleAlways, RuleClone:
		return true
	case RuleList:
		return contains(g.Pull.Allow, targetName)
	default:
		return false
	}
}

// PullModeTo resolves whether a permitted pull into targetName moves or
// clones. Calling it for an incompatible target is a contract violation
// and returns ErrIncompatiblePull.
func (g *Group) PullModeTo(targetName string) (Mode, error) {
	if !g.CanPullTo(targetName) {
		return "", fmt.Errorf("%w: %s -> %s", ErrIncompatiblePull, g.Name, targetName)
	}
	if g.Pull.Kind == RuleClone {
		return ModeClone, nil
	}
	return ModeMove, nil
}

// CanPutFrom reports whether items from the named source group may be
// dropped into this group's containers.
func (g *Group) CanPutFrom(sourceName string) bool {
	switch g.Put.Kind {
	case RuleNever:
		return false
	case RuleAlways:
		return true
	case RuleList:
		return contains(g.Put.Allow, sourceName)
	default:
		return false
	}
}

// Compatible reports whether a drag from source may drop into target.
// Same-name pairs are always compatible; otherwise both directions must
// hold: source pulls to target AND target puts from source. Nil groups
// are never compatible.
func Compatible(source, target *Group) bool {
	if source == nil || target == nil {
		return false
	}
	if source.Name == target.Name {
		return true
	}
	return source.CanPullTo(target.Name) && target.CanPutFrom(source.Name)
}

// String returns a debug representation.
func (g *Group) String() string {
	return fmt.Sprintf("group(%s pull=%s put=%s revertClone=%t)",
		g.Name, g.Pull.Kind, g.Put.Kind, g.RevertClone)
}

func contains(list []string, name string) bool {
	for _, n := range list {
		if n == name {
			return true
		}
	}
	return false
}
