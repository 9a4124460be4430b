package render

import (
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/aursu/sshdconf/internal/config"
	"github.com/aursu/sshdconf/internal/index"
	"github.com/aursu/sshdconf/internal/testutil"
)

func build(t *testing.T, rootPath string) *index.Index {
	t.Helper()
	idx, err := index.Build(rootPath, config.DefaultSettings())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return idx
}

func fixtureIndex(t *testing.T) *index.Index {
	t.Helper()
	env := testutil.NewEnv(t)
	env.WriteConfig("conf.d/a.conf", "PasswordAuthentication no\n")
	root := env.WriteConfig("sshd_config", `Port 22
Include conf.d/a.conf
Port 2022
PasswordAuthentication yes

Match User bob
    X11Forwarding no
    X11Forwarding yes
`)
	return build(t, root)
}

func TestBuildDump_FirstWins(t *testing.T) {
	doc := BuildDump(fixtureIndex(t))

	wantGlobal := []Option{
		{Key: "Port", Value: "22"},
		{Key: "PasswordAuthentication", Value: "no"},
	}
	if len(doc.Global) != len(wantGlobal) {
		t.Fatalf("Global = %+v, want %+v", doc.Global, wantGlobal)
	}
	for i, want := range wantGlobal {
		if doc.Global[i] != want {
			t.Errorf("Global[%d] = %+v, want %+v", i, doc.Global[i], want)
		}
	}

	if len(doc.Match) != 1 {
		t.Fatalf("len(Match) = %d, want 1", len(doc.Match))
	}
	block := doc.Match[0]
	if block.Condition != "User bob" {
		t.Errorf("Condition = %q, want %q", block.Condition, "User bob")
	}
	if len(block.Options) != 1 || block.Options[0].Value != "no" {
		t.Errorf("block options = %+v, want first X11Forwarding to win", block.Options)
	}
}

func TestFormatDump_Text(t *testing.T) {
	out, err := FormatDump(BuildDump(fixtureIndex(t)), "text")
	if err != nil {
		t.Fatalf("FormatDump() error: %v", err)
	}
	if !strings.Contains(out, "Port 22\n") {
		t.Errorf("text dump missing winning Port:\n%s", out)
	}
	if strings.Contains(out, "2022") {
		t.Errorf("text dump contains a shadowed value:\n%s", out)
	}
	if !strings.Contains(out, "Match User bob\n") {
		t.Errorf("text dump missing match block:\n%s", out)
	}
}

func TestFormatDump_JSON(t *testing.T) {
	out, err := FormatDump(BuildDump(fixtureIndex(t)), "json")
	if err != nil {
		t.Fatalf("FormatDump() error: %v", err)
	}

	var doc Doc
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("json dump does not round-trip: %v", err)
	}
	if len(doc.Global) != 2 {
		t.Errorf("round-tripped Global = %+v", doc.Global)
	}
}

func TestFormatDump_YAML(t *testing.T) {
	out, err := FormatDump(BuildDump(fixtureIndex(t)), "yaml")
	if err != nil {
		t.Fatalf("FormatDump() error: %v", err)
	}

	var doc Doc
	if err := yaml.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("yaml dump does not round-trip: %v", err)
	}
	if len(doc.Match) != 1 || doc.Match[0].Condition != "User bob" {
		t.Errorf("round-tripped Match = %+v", doc.Match)
	}
}

func TestFormatDump_UnknownFormat(t *testing.T) {
	_, err := FormatDump(&Doc{}, "toml")
	if err == nil {
		t.Error("unknown format should be rejected")
	}
}
