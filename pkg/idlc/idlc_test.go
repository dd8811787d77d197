package idlc

import (
	"os"
	"path/filepath"
	"testing"

	"idlc/pkg/config"
)

func writeTempFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write fixture %s: %v", path, err)
	}
	return path
}

func TestProcessDeduplicatesIdenticalFileContent(t *testing.T) {
	dir := t.TempDir()
	a := writeTempFile(t, dir, "a.idl", "struct S {};")
	b := writeTempFile(t, dir, "b.idl", "struct S {};")

	c := Create(&config.Document{}, nil)
	if err := c.Process([]string{a, b}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := c.Project.Global.Structs["S"]; !ok {
		t.Fatal("expected struct S to be present once")
	}
	if len(c.Duplicates) != 1 || c.Duplicates[0] != b {
		t.Fatalf("expected b.idl to be recorded as a duplicate, got %v", c.Duplicates)
	}
}

func TestProcessOrdersIncludesFilesThenSources(t *testing.T) {
	dir := t.TempDir()
	// Each file's typedef refers to the previous file's, so any other
	// processing order fails with an unresolved type name.
	include := writeTempFile(t, dir, "include.idl", "namespace inc {}; typedef int A;")
	cliFile := writeTempFile(t, dir, "cli.idl", "namespace cli {}; typedef A B;")
	source := writeTempFile(t, dir, "source.idl", "namespace src {}; typedef B C;")

	doc := &config.Document{Includes: []string{include}, Sources: []string{source}}
	c := Create(doc, nil)
	if err := c.Process([]string{cliFile}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, name := range []string{"inc", "cli", "src"} {
		if _, ok := c.Project.Global.Namespaces[name]; !ok {
			t.Fatalf("expected namespace %s to be parsed", name)
		}
	}
}

func TestCreateAppliesConfigAliasesAndExclusives(t *testing.T) {
	doc := &config.Document{
		Aliases:           map[string]string{"U64": "unsigned long long"},
		DefinedExclusives: []string{"foo"},
	}
	c := Create(doc, nil)
	if c.Project.Aliases["U64"] != "unsigned long long" {
		t.Fatal("expected alias U64 to be applied to the project")
	}
	if !c.Project.DefinedExclusives["foo"] {
		t.Fatal("expected foo to be a defined exclusive")
	}
}
