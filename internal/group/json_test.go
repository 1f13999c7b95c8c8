package group

import (
	"errors"
	"testing"
)

func TestParseJSONBareName(t *testing.T) {
	g, err := ParseJSON(`"shared"`)
	if err != nil {
		t.Fatalf("ParseJSON error: %v", err)
	}
	if g.Name != "shared" {
		t.Errorf("Name = %q, want shared", g.Name)
	}
	if g.Pull.Kind != RuleAlways || g.Put.Kind != RuleAlways {
		t.Errorf("defaults not permissive: pull=%v put=%v", g.Pull.Kind, g.Put.Kind)
	}
}

func TestParseJSONObject(t *testing.T) {
	tests := []struct {
		name     string
		json     string
		wantPull RuleKind
		wantPut  RuleKind
		revert   bool
	}{
		{
			"full object",
			`{"name":"tasks","pull":"clone","put":false,"revertClone":true}`,
			RuleClone, RuleNever, true,
		},
		{
			"boolean rules",
			`{"name":"tasks","pull":true,"put":true}`,
			RuleAlways, RuleAlways, false,
		},
		{
			"pull false",
			`{"name":"tasks","pull":false}`,
			RuleNever, RuleAlways, false,
		},
		{
			"list rules",
			`{"name":"tasks","pull":["done","archive"],"put":["backlog"]}`,
			RuleList, RuleList, false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := ParseJSON(tt.json)
			if err != nil {
				t.Fatalf("ParseJSON error: %v", err)
			}
			if g.Name != "tasks" {
				t.Errorf("Name = %q, want tasks", g.Name)
			}
			if g.Pull.Kind != tt.wantPull {
				t.Errorf("Pull.Kind = %v, want %v", g.Pull.Kind, tt.wantPull)
			}
			if g.Put.Kind != tt.wantPut {
				t.Errorf("Put.Kind = %v, want %v", g.Put.Kind, tt.wantPut)
			}
			if g.RevertClone != tt.revert {
				t.Errorf("RevertClone = %v, want %v", g.RevertClone, tt.revert)
			}
		})
	}
}

func TestParseJSONListMembers(t *testing.T) {
	g, err := ParseJSON(`{"name":"tasks","pull":["done","archive"]}`)
	if err != nil {
		t.Fatalf("ParseJSON error: %v", err)
	}
	if !g.CanPullTo("archive") {
		t.Error("CanPullTo(archive) = false for listed target")
	}
	if g.CanPullTo("elsewhere") {
		t.Error("CanPullTo(elsewhere) = true for unlisted target")
	}
}

func TestParseJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"not json", `{{{`},
		{"number group", `42`},
		{"array group", `["a"]`},
		{"bad pull string", `{"name":"x","pull":"sometimes"}`},
		{"bad pull number", `{"name":"x","pull":3}`},
		{"bad put string", `{"name":"x","put":"clone"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseJSON(tt.json); err == nil {
				t.Errorf("ParseJSON(%q) succeeded, want error", tt.json)
			}
		})
	}
}

func TestParseJSONInvalidIsTyped(t *testing.T) {
	_, err := ParseJSON(`{{{`)
	if !errors.Is(err, ErrInvalidJSON) {
		t.Errorf("err = %v, want ErrInvalidJSON", err)
	}
}
