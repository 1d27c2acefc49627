package rule

import (
	"fmt"
	"regexp"

	"github.com/nightjar-sec/nightjar/pkg/types"
)

// ValidateRule checks rule consistency and required fields.
func ValidateRule(r *types.Rule) error {
	if r == nil {
		return fmt.Errorf("rule is nil")
	}

	if r.TextID == "" {
		return fmt.Errorf("rule text ID is required")
	}
	if r.Name == "" {
		return fmt.Errorf("rule name is required")
	}
	if r.Syntax.Pattern == "" {
		return fmt.Errorf("rule pattern is required")
	}

	if _, err := regexp.Compile(r.Syntax.Pattern); err != nil {
		return fmt.Errorf("invalid pattern regex for rule %s: %w", r.TextID, err)
	}

	return nil
}

// ValidateRules checks a batch of rules, also rejecting duplicate text IDs
// and duplicate patterns under different text IDs within the batch.
func ValidateRules(rules []*types.Rule) error {
	seenTextIDs := make(map[string]bool)
	seenStructural := make(map[string]string) // structural id -> text id

	for _, r := range rules {
		if err := ValidateRule(r); err != nil {
			return err
		}

		if seenTextIDs[r.TextID] {
			return fmt.Errorf("duplicate rule text ID: %s", r.TextID)
		}
		seenTextIDs[r.TextID] = true

		structuralID := r.StructuralID()
		if other, ok := seenStructural[structuralID]; ok {
			return fmt.Errorf("rules %s and %s have identical patterns", other, r.TextID)
		}
		seenStructural[structuralID] = r.TextID
	}
	return nil
}
