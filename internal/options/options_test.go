package options

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/dragflow/internal/geom"
	"github.com/dshills/dragflow/internal/group"
)

func TestDefaultValidates(t *testing.T) {
	o := Default()
	if err := o.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{"negative delay", func(o *Options) { o.Delay = -time.Second }},
		{"negative touch threshold", func(o *Options) { o.TouchStartThreshold = -1 }},
		{"zero swap threshold", func(o *Options) { o.SwapThreshold = 0 }},
		{"swap threshold above one", func(o *Options) { o.SwapThreshold = 1.5 }},
		{"inverted threshold above one", func(o *Options) { o.InvertedSwapThreshold = 2 }},
		{"bad direction", func(o *Options) { o.Direction = "diagonal" }},
		{"bad draggable selector", func(o *Options) { o.Draggable = "li..x" }},
		{"invalid group rule", func(o *Options) {
			g := group.New("g")
			g.Put = group.PutRule{Kind: group.RuleClone}
			o.Group = g
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := Default()
			tt.mutate(&o)
			if err := o.Validate(); !errors.Is(err, ErrInvalidOption) {
				t.Errorf("Validate() = %v, want ErrInvalidOption", err)
			}
		})
	}
}

func TestSwapAndAxisAccessors(t *testing.T) {
	o := Default()
	o.SwapThreshold = 0.5
	o.InvertSwap = true
	o.InvertedSwapThreshold = 0.25
	o.Direction = "horizontal"

	sw := o.Swap()
	if sw.Threshold != 0.5 || !sw.Invert || sw.InvertedThreshold != 0.25 {
		t.Errorf("Swap() = %+v", sw)
	}
	if o.Axis() != geom.AxisHorizontal {
		t.Errorf("Axis() = %v, want horizontal", o.Axis())
	}
}

func TestTransientClasses(t *testing.T) {
	o := Default()
	o.GhostClass = ""
	got := o.TransientClasses()
	if len(got) != 2 || got[0] != "sortable-chosen" || got[1] != "sortable-drag" {
		t.Errorf("TransientClasses() = %v", got)
	}
}

func TestLoadJSON(t *testing.T) {
	data := []byte(`{
		"group": {"name": "boards", "pull": "clone", "put": ["boards", "trash"], "revertClone": true},
		"draggable": ".card",
		"handle": ".grip",
		"delay": 150,
		"delayOnTouchOnly": true,
		"swapThreshold": 0.65,
		"invertSwap": true,
		"direction": "horizontal",
		"multiDrag": true,
		"chosenClass": "picked"
	}`)

	o, err := LoadJSON(data)
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	if o.Group == nil || o.Group.Name != "boards" {
		t.Fatalf("group = %+v", o.Group)
	}
	if o.Group.Pull.Kind != group.RuleClone {
		t.Errorf("pull kind = %v, want clone", o.Group.Pull.Kind)
	}
	if o.Group.Put.Kind != group.RuleList || len(o.Group.Put.Allow) != 2 {
		t.Errorf("put = %+v", o.Group.Put)
	}
	if !o.Group.RevertClone {
		t.Error("revertClone not set")
	}
	if o.Draggable != ".card" || o.Handle != ".grip" {
		t.Errorf("selectors = %q %q", o.Draggable, o.Handle)
	}
	if o.Delay != 150*time.Millisecond {
		t.Errorf("delay = %v, want 150ms", o.Delay)
	}
	if !o.DelayOnTouchOnly || !o.InvertSwap || !o.MultiDrag {
		t.Error("bool fields not applied")
	}
	if o.SwapThreshold != 0.65 {
		t.Errorf("swapThreshold = %v", o.SwapThreshold)
	}
	if o.ChosenClass != "picked" {
		t.Errorf("chosenClass = %q", o.ChosenClass)
	}
	// Untouched fields keep their defaults.
	if o.GhostClass != "sortable-ghost" || !o.RevertOnCancel {
		t.Error("absent fields lost their defaults")
	}
}

func TestLoadJSONBareGroupName(t *testing.T) {
	o, err := LoadJSON([]byte(`{"group": "shared"}`))
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	if o.Group == nil || o.Group.Name != "shared" {
		t.Fatalf("group = %+v", o.Group)
	}
	// A bare name keeps the permissive defaults.
	if o.Group.Pull.Kind != group.RuleAlways || o.Group.Put.Kind != group.RuleAlways {
		t.Errorf("bare-name group rules = %+v", o.Group)
	}
}

func TestLoadJSONRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed", `{"group":`},
		{"bad pull word", `{"group": {"name": "g", "pull": "sometimes"}}`},
		{"bad delay range", `{"delay": -5}`},
		{"bad swap threshold", `{"swapThreshold": 3}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadJSON([]byte(tt.data)); err == nil {
				t.Error("LoadJSON accepted invalid input")
			}
		})
	}
}

func TestLoadTOML(t *testing.T) {
	data := []byte(`
draggable = ".card"
delay = 200
multiDrag = true
swapThreshold = 0.5

[group]
name = "boards"
pull = ["boards"]
put = false
`)
	o, err := LoadTOML(data)
	if err != nil {
		t.Fatalf("LoadTOML: %v", err)
	}
	if o.Group == nil || o.Group.Name != "boards" {
		t.Fatalf("group = %+v", o.Group)
	}
	if o.Group.Pull.Kind != group.RuleList || o.Group.Pull.Allow[0] != "boards" {
		t.Errorf("pull = %+v", o.Group.Pull)
	}
	if o.Group.Put.Kind != group.RuleNever {
		t.Errorf("put kind = %v, want never", o.Group.Put.Kind)
	}
	if o.Delay != 200*time.Millisecond || !o.MultiDrag || o.SwapThreshold != 0.5 {
		t.Errorf("fields = %+v", o)
	}
}

func TestLoadYAML(t *testing.T) {
	data := []byte(`
group:
  name: shelf
  pull: true
  put:
    - shelf
    - archive
draggable: "li"
direction: vertical
revertOnCancel: false
`)
	o, err := LoadYAML(data)
	if err != nil {
		t.Fatalf("LoadYAML: %v", err)
	}
	if o.Group == nil || o.Group.Name != "shelf" {
		t.Fatalf("group = %+v", o.Group)
	}
	if o.Group.Pull.Kind != group.RuleAlways {
		t.Errorf("pull kind = %v, want always", o.Group.Pull.Kind)
	}
	if o.Group.Put.Kind != group.RuleList || len(o.Group.Put.Allow) != 2 {
		t.Errorf("put = %+v", o.Group.Put)
	}
	if o.Direction != "vertical" || o.RevertOnCancel {
		t.Errorf("fields = %+v", o)
	}
}

func TestLoadFilePicksFormatByExtension(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"opts.json": `{"draggable": ".a"}`,
		"opts.toml": `draggable = ".b"`,
		"opts.yaml": `draggable: ".c"`,
	}
	want := map[string]string{
		"opts.json": ".a",
		"opts.toml": ".b",
		"opts.yaml": ".c",
	}
	for name, body := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		o, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile(%s): %v", name, err)
		}
		if o.Draggable != want[name] {
			t.Errorf("%s: draggable = %q, want %q", name, o.Draggable, want[name])
		}
	}

	ini := filepath.Join(dir, "opts.ini")
	if err := os.WriteFile(ini, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(ini); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("LoadFile(.ini) = %v, want ErrUnknownFormat", err)
	}
}
