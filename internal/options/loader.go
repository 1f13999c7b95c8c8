package options

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/dshills/dragflow/internal/group"
)

// Loader errors.
var (
	// ErrUnknownFormat is returned for file extensions without a loader.
	ErrUnknownFormat = errors.New("options: unknown file format")

	// ErrParse wraps format-level parse failures.
	ErrParse = errors.New("options: parse failed")
)

// LoadFile loads options from a file, picking the loader from the
// extension: .json, .toml, .yaml/.yml.
func LoadFile(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return LoadJSON(data)
	case ".toml":
		return LoadTOML(data)
	case ".yaml", ".yml":
		return LoadYAML(data)
	default:
		return Options{}, fmt.Errorf("%w: %s", ErrUnknownFormat, filepath.Ext(path))
	}
}

// LoadJSON loads options from a JSON document. Absent fields keep their
// defaults; delay is in milliseconds; group accepts the polymorphic form
// (bare name or object).
func LoadJSON(data []byte) (Options, error) {
	if !gjson.ValidBytes(data) {
		return Options{}, fmt.Errorf("%w: invalid json", ErrParse)
	}
	o := Default()
	doc := gjson.ParseBytes(data)

	if v := doc.Get("group"); v.Exists() {
		g, err := group.FromResult(v)
		if err != nil {
			return Options{}, fmt.Errorf("%w: %v", ErrParse, err)
		}
		o.Group = g
	}
	setString(doc, "draggable", &o.Draggable)
	setString(doc, "handle", &o.Handle)
	setString(doc, "filter", &o.Filter)
	setString(doc, "direction", &o.Direction)
	setString(doc, "selectedClass", &o.SelectedClass)
	setString(doc, "chosenClass", &o.ChosenClass)
	setString(doc, "ghostClass", &o.GhostClass)
	setString(doc, "dragClass", &o.DragClass)
	setBool(doc, "delayOnTouchOnly", &o.DelayOnTouchOnly)
	setBool(doc, "invertSwap", &o.InvertSwap)
	setBool(doc, "multiDrag", &o.MultiDrag)
	setBool(doc, "enableAccessibility", &o.EnableAccessibility)
	setBool(doc, "revertOnCancel", &o.RevertOnCancel)
	setFloat(doc, "touchStartThreshold", &o.TouchStartThreshold)
	setFloat(doc, "swapThreshold", &o.SwapThreshold)
	setFloat(doc, "invertedSwapThreshold", &o.InvertedSwapThreshold)
	if v := doc.Get("delay"); v.Exists() {
		o.Delay = time.Duration(v.Int()) * time.Millisecond
	}

	if err := o.Validate(); err != nil {
		return Options{}, err
	}
	return o, nil
}

// LoadTOML loads options from a TOML document.
func LoadTOML(data []byte) (Options, error) {
	var raw fileOptions
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Options{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return raw.apply()
}

// LoadYAML loads options from a YAML document.
func LoadYAML(data []byte) (Options, error) {
	var raw fileOptions
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Options{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return raw.apply()
}

// fileOptions is the TOML/YAML decoding shape. Pointer fields
// distinguish "absent" from zero; group is polymorphic (name string or
// table).
type fileOptions struct {
	Group                 any      `toml:"group" yaml:"group"`
	Draggable             *string  `toml:"draggable" yaml:"draggable"`
	Handle                *string  `toml:"handle" yaml:"handle"`
	Filter                *string  `toml:"filter" yaml:"filter"`
	Delay                 *int64   `toml:"delay" yaml:"delay"`
	DelayOnTouchOnly      *bool    `toml:"delayOnTouchOnly" yaml:"delayOnTouchOnly"`
	TouchStartThreshold   *float64 `toml:"touchStartThreshold" yaml:"touchStartThreshold"`
	SwapThreshold         *float64 `toml:"swapThreshold" yaml:"swapThreshold"`
	InvertSwap            *bool    `toml:"invertSwap" yaml:"invertSwap"`
	InvertedSwapThreshold *float64 `toml:"invertedSwapThreshold" yaml:"invertedSwapThreshold"`
	Direction             *string  `toml:"direction" yaml:"direction"`
	MultiDrag             *bool    `toml:"multiDrag" yaml:"multiDrag"`
	SelectedClass         *string  `toml:"selectedClass" yaml:"selectedClass"`
	ChosenClass           *string  `toml:"chosenClass" yaml:"chosenClass"`
	GhostClass            *string  `toml:"ghostClass" yaml:"ghostClass"`
	DragClass             *string  `toml:"dragClass" yaml:"dragClass"`
	EnableAccessibility   *bool    `toml:"enableAccessibility" yaml:"enableAccessibility"`
	RevertOnCancel        *bool    `toml:"revertOnCancel" yaml:"revertOnCancel"`
}

func (raw fileOptions) apply() (Options, error) {
	o := Default()

	if raw.Group != nil {
		g, err := groupFromAny(raw.Group)
		if err != nil {
			return Options{}, err
		}
		o.Group = g
	}
	applyString(raw.Draggable, &o.Draggable)
	applyString(raw.Handle, &o.Handle)
	applyString(raw.Filter, &o.Filter)
	applyString(raw.Direction, &o.Direction)
	applyString(raw.SelectedClass, &o.SelectedClass)
	applyString(raw.ChosenClass, &o.ChosenClass)
	applyString(raw.GhostClass, &o.GhostClass)
	applyString(raw.DragClass, &o.DragClass)
	applyBool(raw.DelayOnTouchOnly, &o.DelayOnTouchOnly)
	applyBool(raw.InvertSwap, &o.InvertSwap)
	applyBool(raw.MultiDrag, &o.MultiDrag)
	applyBool(raw.EnableAccessibility, &o.EnableAccessibility)
	applyBool(raw.RevertOnCancel, &o.RevertOnCancel)
	applyFloat(raw.TouchStartThreshold, &o.TouchStartThreshold)
	applyFloat(raw.SwapThreshold, &o.SwapThreshold)
	applyFloat(raw.InvertedSwapThreshold, &o.InvertedSwapThreshold)
	if raw.Delay != nil {
		o.Delay = time.Duration(*raw.Delay) * time.Millisecond
	}

	if err := o.Validate(); err != nil {
		return Options{}, err
	}
	return o, nil
}

// groupFromAny converts the decoded polymorphic group value: a bare name
// string, or a map with name/pull/put/revertClone where pull is bool,
// "clone", or a name list and put is bool or a name list.
func groupFromAny(v any) (*group.Group, error) {
	switch g := v.(type) {
	case string:
		return group.New(g), nil
	case map[string]any:
		return groupFromMap(g)
	default:
		return nil, fmt.Errorf("%w: group must be a name or a table, got %T", ErrParse, v)
	}
}

func groupFromMap(m map[string]any) (*group.Group, error) {
	name, _ := m["name"].(string)
	g := group.New(name)

	if pull, ok := m["pull"]; ok {
		switch p := pull.(type) {
		case bool:
			if p {
				g.Pull = group.PullYes()
			} else {
				g.Pull = group.PullNo()
			}
		case string:
			if p != string(group.ModeClone) {
				return nil, fmt.Errorf("%w: pull %q", ErrParse, p)
			}
			g.Pull = group.PullClone()
		case []any:
			names, err := stringList(p)
			if err != nil {
				return nil, fmt.Errorf("%w: pull: %v", ErrParse, err)
			}
			g.Pull = group.PullTo(names...)
		default:
			return nil, fmt.Errorf("%w: pull %T", ErrParse, pull)
		}
	}
	if put, ok := m["put"]; ok {
		switch p := put.(type) {
		case bool:
			if p {
				g.Put = group.PutYes()
			} else {
				g.Put = group.PutNo()
			}
		case []any:
			names, err := stringList(p)
			if err != nil {
				return nil, fmt.Errorf("%w: put: %v", ErrParse, err)
			}
			g.Put = group.PutFrom(names...)
		default:
			return nil, fmt.Errorf("%w: put %T", ErrParse, put)
		}
	}
	if rc, ok := m["revertClone"].(bool); ok {
		g.RevertClone = rc
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func stringList(list []any) ([]string, error) {
	out := make([]string, 0, len(list))
	for _, v := range list {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("list element %T is not a string", v)
		}
		out = append(out, s)
	}
	return out, nil
}

func setString(doc gjson.Result, key string, dst *string) {
	if v := doc.Get(key); v.Exists() {
		*dst = v.String()
	}
}

func setBool(doc gjson.Result, key string, dst *bool) {
	if v := doc.Get(key); v.Exists() {
		*dst = v.Bool()
	}
}

func setFloat(doc gjson.Result, key string, dst *float64) {
	if v := doc.Get(key); v.Exists() {
		*dst = v.Float()
	}
}

func applyString(src *string, dst *string) {
	if src != nil {
		*dst = *src
	}
}

func applyBool(src *bool, dst *bool) {
	if src != nil {
		*dst = *src
	}
}

func applyFloat(src *float64, dst *float64) {
	if src != nil {
		*dst = *src
	}
}
