package types

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// RuleSyntax is the structured definition of a detection rule.
// Pattern is the part that determines the rule's structural identity;
// the remaining fields are descriptive metadata.
type RuleSyntax struct {
	Pattern          string   `json:"pattern" yaml:"pattern"`
	Description      string   `json:"description,omitempty" yaml:"description,omitempty"`
	Examples         []string `json:"examples,omitempty" yaml:"examples,omitempty"`
	NegativeExamples []string `json:"negative_examples,omitempty" yaml:"negative_examples,omitempty"`
	References       []string `json:"references,omitempty" yaml:"references,omitempty"`
	Categories       []string `json:"categories,omitempty" yaml:"categories,omitempty"`
	Keywords         []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
}

// Rule is a detection rule: a display name, a human-chosen stable text ID,
// and a structured syntax whose pattern determines the structural ID.
type Rule struct {
	Name   string     `json:"name" yaml:"name"`
	TextID string     `json:"id" yaml:"id"`
	Syntax RuleSyntax `json:"syntax" yaml:"syntax"`
}

// StructuralID computes the content-derived rule identity:
// SHA-1 of the pattern. Two rules with byte-identical patterns collapse
// to the same identity even if their names or text IDs differ.
func (r *Rule) StructuralID() string {
	h := sha1.New()
	h.Write([]byte(r.Syntax.Pattern))
	return hex.EncodeToString(h.Sum(nil))
}

// SyntaxJSON returns the canonical JSON encoding of the rule syntax,
// as persisted in the rule store.
func (r *Rule) SyntaxJSON() ([]byte, error) {
	data, err := json.Marshal(r.Syntax)
	if err != nil {
		return nil, fmt.Errorf("marshaling rule syntax: %w", err)
	}
	return data, nil
}
