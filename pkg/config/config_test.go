package config

import (
	"testing"

	"idlc/pkg/ast"
	"idlc/pkg/modifiers"
)

func TestIsLikelyJSON(t *testing.T) {
	cases := map[string]bool{
		`{"a":1}`:       true,
		`  [1,2,3]`:     true,
		"aliases:\n  a": false,
		"":               false,
	}
	for input, want := range cases {
		if got := IsLikelyJSON([]byte(input)); got != want {
			t.Errorf("IsLikelyJSON(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestReadConfigJSON(t *testing.T) {
	doc, err := ReadConfig([]byte(`{"aliases":{"U64":"unsigned long long"},"sources":["a.idl"]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Aliases["U64"] != "unsigned long long" {
		t.Fatalf("expected alias to decode, got %v", doc.Aliases)
	}
	if len(doc.Sources) != 1 || doc.Sources[0] != "a.idl" {
		t.Fatalf("expected sources to decode, got %v", doc.Sources)
	}
}

func TestReadConfigYAML(t *testing.T) {
	yamlDoc := "aliases:\n  U64: unsigned long long\ndefinedExclusives:\n  - foo\n"
	doc, err := ReadConfig([]byte(yamlDoc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Aliases["U64"] != "unsigned long long" {
		t.Fatalf("expected alias to decode, got %v", doc.Aliases)
	}
	if len(doc.DefinedExclusives) != 1 || doc.DefinedExclusives[0] != "foo" {
		t.Fatalf("expected defined exclusives to decode, got %v", doc.DefinedExclusives)
	}
}

func TestApplyMergesOntoProjectAndCatalog(t *testing.T) {
	project := ast.NewProject()
	catalog := modifiers.NewCatalog()
	doc := &Document{
		Aliases:           map[string]string{"U64": "unsigned long long"},
		DefinedExclusives: []string{"foo"},
		Modifiers:         map[string]int{"experimental": 0},
	}
	Apply(project, doc, catalog)

	if project.Aliases["U64"] != "unsigned long long" {
		t.Fatal("expected alias applied to project")
	}
	if !project.DefinedExclusives["foo"] {
		t.Fatal("expected defined exclusive applied to project")
	}
	if _, ok := project.Basics["int"]; !ok {
		t.Fatal("expected Apply to bootstrap predefined basic types")
	}
	if arity, ok := catalog.ToModifier("experimental"); !ok || arity != 0 {
		t.Fatalf("expected experimental modifier registered, got %v %v", arity, ok)
	}
}

func TestSourceListOrdering(t *testing.T) {
	doc := &Document{Includes: []string{"i.idl"}, Sources: []string{"s.idl"}}
	got := SourceList(doc, []string{"cli.idl"})
	want := []string{"i.idl", "cli.idl", "s.idl"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
