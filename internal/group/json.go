package group

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// ErrInvalidJSON is returned when the group option cannot be parsed.
var ErrInvalidJSON = errors.New("group: invalid json")

// ParseJSON parses the polymorphic group option. Accepted forms:
//
//	"shared"
//	{"name": "tasks"}
//	{"name": "tasks", "pull": "clone", "put": false, "revertClone": true}
//	{"name": "tasks", "pull": ["done", "archive"], "put": ["backlog"]}
//
// pull is true, false, "clone", or a name list; put is true, false, or a
// name list. Omitted rules default to permissive.
func ParseJSON(data string) (*Group, error) {
	if !gjson.Valid(data) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidJSON, data)
	}
	return FromResult(gjson.Parse(data))
}

// FromResult builds a group from an already-parsed gjson value, so the
// options loader can hand over a sub-document.
func FromResult(v gjson.Result) (*Group, error) {
	switch v.Type {
	case gjson.String:
		return New(v.String()), nil
	case gjson.JSON:
		if !v.IsObject() {
			return nil, fmt.Errorf("%w: group must be a name or an object", ErrInvalidJSON)
		}
	default:
		return nil, fmt.Errorf("%w: group must be a name or an object", ErrInvalidJSON)
	}

	g := New(v.Get("name").String())

	if pull := v.Get("pull"); pull.Exists() {
		rule, err := parsePull(pull)
		if err != nil {
			return nil, err
		}
		g.Pull = rule
	}
	if put := v.Get("put"); put.Exists() {
		rule, err := parsePut(put)
		if err != nil {
			return nil, err
		}
		g.Put = rule
	}
	if rc := v.Get("revertClone"); rc.Exists() {
		g.RevertClone = rc.Bool()
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func parsePull(v gjson.Result) (PullRule, error) {
	switch {
	case v.Type == gjson.True:
		return PullYes(), nil
	case v.Type == gjson.False:
		return PullNo(), nil
	case v.Type == gjson.String:
		if v.String() == string(ModeClone) {
			return PullClone(), nil
		}
		return PullRule{}, fmt.Errorf("%w: pull %q", ErrInvalidJSON, v.String())
	case v.IsArray():
		return PullTo(names(v)...), nil
	default:
		return PullRule{}, fmt.Errorf("%w: pull %s", ErrInvalidJSON, v.Raw)
	}
}

func parsePut(v gjson.Result) (PutRule, error) {
	switch {
	case v.Type == gjson.True:
		return PutYes(), nil
	case v.Type == gjson.False:
		return PutNo(), nil
	case v.IsArray():
		return PutFrom(names(v)...), nil
	default:
		return PutRule{}, fmt.Errorf("%w: put %s", ErrInvalidJSON, v.Raw)
	}
}

func names(v gjson.Result) []string {
	out := make([]string, 0, 4)
	v.ForEach(func(_, item gjson.Result) bool {
		out = append(out, item.String())
		return true
	})
	return out
}
