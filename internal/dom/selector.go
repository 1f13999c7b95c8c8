package dom

import (
	"fmt"
	"strings"
)

// Selector is a compiled element matcher covering the subset the options
// surface needs: tag names, "*", "#id", ".class", "[attr]", "[attr=value]",
// compounds of those, and comma-separated alternatives. No combinators.
type Selector struct {
	raw  string
	alts []simpleSelector
}

type simpleSelector struct {
	tag     string
	id      string
	classes []string
	attrs   []attrMatch
}

type attrMatch struct {
	key      string
	value    string
	hasValue bool
}

// MatchAll is the selector that matches every element.
var MatchAll = Selector{raw: "*", alts: []simpleSelector{{}}}

// ParseSelector compiles a selector string. The empty string compiles to
// MatchAll so option defaults stay permissive.
func ParseSelector(s string) (Selector, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "*" {
		return MatchAll, nil
	}

	sel := Selector{raw: s}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return Selector{}, fmt.Errorf("selector %q: empty alternative", s)
		}
		simple, err := parseSimple(part)
		if err != nil {
			return Selector{}, fmt.Errorf("selector %q: %w", s, err)
		}
		sel.alts = append(sel.alts, simple)
	}
	return sel, nil
}

// MustSelector compiles a selector and panics on error. For literals.
func MustSelector(s string) Selector {
	sel, err := ParseSelector(s)
	if err != nil {
		panic(err)
	}
	return sel
}

func parseSimple(s string) (simpleSelector, error) {
	var out simpleSelector
	i := 0

	// Leading tag or wildcard.
	if i < len(s) && s[i] != '.' && s[i] != '#' && s[i] != '[' {
		j := i
		for j < len(s) && s[j] != '.' && s[j] != '#' && s[j] != '[' {
			j++
		}
		tag := s[i:j]
		if tag != "*" {
			out.tag = strings.ToLower(tag)
		}
		i = j
	}

	for i < len(s) {
		switch s[i] {
		case '.':
			j := i + 1
			for j < len(s) && s[j] != '.' && s[j] != '#' && s[j] != '[' {
				j++
			}
			if j == i+1 {
				return out, fmt.Errorf("empty class name at %d", i)
			}
			out.classes = append(out.classes, s[i+1:j])
			i = j
		case '#':
			j := i + 1
			for j < len(s) && s[j] != '.' && s[j] != '#' && s[j] != '[' {
				j++
			}
			if j == i+1 {
				return out, fmt.Errorf("empty id at %d", i)
			}
			out.id = s[i+1 : j]
			i = j
		case '[':
			j := strings.IndexByte(s[i:], ']')
			if j < 0 {
				return out, fmt.Errorf("unclosed attribute selector at %d", i)
			}
			body := s[i+1 : i+j]
			if body == "" {
				return out, fmt.Errorf("empty attribute selector at %d", i)
			}
			var m attrMatch
			if eq := strings.IndexByte(body, '='); eq >= 0 {
				m.key = strings.TrimSpace(body[:eq])
				m.value = strings.Trim(strings.TrimSpace(body[eq+1:]), `"'`)
				m.hasValue = true
			} else {
				m.key = strings.TrimSpace(body)
			}
			if m.key == "" {
				return out, fmt.Errorf("attribute selector missing key at %d", i)
			}
			out.attrs = append(out.attrs, m)
			i += j + 1
		default:
			return out, fmt.Errorf("unexpected %q at %d", s[i], i)
		}
	}
	return out, nil
}

// String returns the original selector text.
func (s Selector) String() string { return s.raw }

// IsZero reports whether the selector is the uncompiled zero value.
func (s Selector) IsZero() bool { return s.alts == nil }

// Matches reports whether the element satisfies any alternative.
// The zero-value Selector matches nothing; use MatchAll for "everything".
func (s Selector) Matches(e *Element) bool {
	if e == nil {
		return false
	}
	for _, alt := range s.alts {
		if alt.matches(e) {
			return true
		}
	}
	return false
}

func (ss simpleSelector) matches(e *Element) bool {
	if ss.tag != "" && !strings.EqualFold(e.tag, ss.tag) {
		return false
	}
	if ss.id != "" && e.ID() != ss.id {
		return false
	}
	for _, c := range ss.classes {
		if !e.HasClass(c) {
			return false
		}
	}
	for _, a := range ss.attrs {
		v, ok := e.Attr(a.key)
		if !ok {
			return false
		}
		if a.hasValue && v != a.value {
			return false
		}
	}
	return true
}

// Closest returns the nearest ancestor of e (including e itself) matching
// the selector, stopping at and including limit. Nil when nothing matches.
func Closest(e *Element, sel Selector, limit *Element) *Element {
	for n := e; n != nil; n = n.parent {
		if sel.Matches(n) {
			return n
		}
		if n == limit {
			break
		}
	}
	return nil
}

// FindAll returns every descendant of root (excluding root) matching the
// selector, in document order.
func FindAll(root *Element, sel Selector) []*Element {
	var out []*Element
	for _, c := range root.children {
		c.Walk(func(n *Element) bool {
			if sel.Matches(n) {
				out = append(out, n)
			}
			return true
		})
	}
	return out
}

// FindByID returns the first element in the tree (including root) whose id
// attribute equals id, or nil.
func FindByID(root *Element, id string) *Element {
	var found *Element
	root.Walk(func(n *Element) bool {
		if n.ID() == id {
			found = n
			return false
		}
		return true
	})
	return found
}
