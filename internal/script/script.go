// Package script runs non-interactive sequences of task operations.
//
// A script is a YAML (or JSON) document:
//
//	version: 1
//	steps:
//	  - {op: add, title: Buy groceries}
//	  - {op: complete, id: 1}
//	  - {op: get, id: 99, expect: not_found}
//
// Every step runs against the same service. A step passes when its outcome
// matches expect (default ok).
package script

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Op names a task operation.
type Op string

const (
	OpAdd        Op = "add"
	OpList       Op = "list"
	OpGet        Op = "get"
	OpUpdate     Op = "update"
	OpDelete     Op = "delete"
	OpComplete   Op = "complete"
	OpIncomplete Op = "incomplete"
	OpStats      Op = "stats"
	OpReset      Op = "reset"
)

// Outcome classifies how a step ended.
type Outcome string

const (
	OutcomeOK         Outcome = "ok"
	OutcomeValidation Outcome = "validation"
	OutcomeNotFound   Outcome = "not_found"
)

// Script is a parsed script document.
type Script struct {
	Version int    `yaml:"version"`
	Name    string `yaml:"name,omitempty"`
	Steps   []Step `yaml:"steps"`
}

// Step is one operation. Title and Description are pointers so update can
// tell "not given" from an empty string.
type Step struct {
	Op          Op      `yaml:"op"`
	ID          int     `yaml:"id,omitempty"`
	Title       *string `yaml:"title,omitempty"`
	Description *string `yaml:"description,omitempty"`
	Expect      Outcome `yaml:"expect,omitempty"`
	ExpectID    int     `yaml:"expect_id,omitempty"`
	Note        string  `yaml:"note,omitempty"`
}

// Expected returns the outcome the step must produce.
func (s Step) Expected() Outcome {
	if s.Expect == "" {
		return OutcomeOK
	}
	return s.Expect
}

// Load reads and parses the script at path.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a script and validates it against the script schema.
func Parse(data []byte) (*Script, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("parse script: document is empty")
	}
	if err := validateDocument(doc); err != nil {
		return nil, err
	}

	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}
	if s.Version == 0 {
		s.Version = 1
	}
	return &s, nil
}
