// Package config loads a project's configuration document (spec 6:
// readConfig/isLikelyJSON, spec "Project::create"/"project.parse") and
// applies it onto an ast.Project. The struct-with-tags/yaml.Unmarshal
// shape is grounded on the teacher's own `cmd/llm.go` DoxyllmConfig
// (yaml.Unmarshal into a tagged struct read via os.ReadFile), generalized
// to also accept JSON documents the way original_source's Project::parse
// accepts either JSON or its native XML.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"

	"idlc/pkg/ast"
	"idlc/pkg/modifiers"

	"gopkg.in/yaml.v2"
)

// Document is the structured shape of a project configuration file,
// whichever encoding it arrives in.
type Document struct {
	Aliases           map[string]string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
	DefinedExclusives []string          `yaml:"definedExclusives,omitempty" json:"definedExclusives,omitempty"`
	Modifiers         map[string]int    `yaml:"modifiers,omitempty" json:"modifiers,omitempty"`
	Includes          []string          `yaml:"includes,omitempty" json:"includes,omitempty"`
	Sources           []string          `yaml:"sources,omitempty" json:"sources,omitempty"`
}

// IsLikelyJSON applies the same "sniff the first non-whitespace byte"
// heuristic original_source uses to decide between its JSON and XML
// config readers: a document is JSON-like if its first meaningful byte
// opens an object or array.
func IsLikelyJSON(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return false
	}
	return trimmed[0] == '{' || trimmed[0] == '['
}

// ReadConfig decodes data as JSON or YAML depending on IsLikelyJSON.
func ReadConfig(data []byte) (*Document, error) {
	var doc Document
	if IsLikelyJSON(data) {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("config: failed to parse JSON configuration: %w", err)
		}
		return &doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("config: failed to parse YAML configuration: %w", err)
	}
	return &doc, nil
}

// Apply folds a decoded Document onto project: aliases, defined
// exclusives, and any project-declared modifier arities are merged in;
// bootstrap predefined types are ensured present.
func Apply(project *ast.Project, doc *Document, catalog *modifiers.Catalog) {
	project.Bootstrap()
	for k, v := range doc.Aliases {
		project.Aliases[k] = v
	}
	for _, id := range doc.DefinedExclusives {
		project.DefinedExclusives[id] = true
	}
	for name, arity := range doc.Modifiers {
		catalog.Register(name, modifiers.Arity(arity))
	}
}

// SourceList returns the files this project should compile, in the
// order spec 5 mandates: configuration-declared includes first, then
// CLI-supplied files, then configuration-declared sources.
func SourceList(doc *Document, cliFiles []string) []string {
	var out []string
	out = append(out, doc.Includes...)
	out = append(out, cliFiles...)
	out = append(out, doc.Sources...)
	return out
}
