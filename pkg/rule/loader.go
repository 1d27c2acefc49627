package rule

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/nightjar-sec/nightjar/pkg/types"
)

// yamlRulesFile is the on-disk format: a file holding one or more rules.
type yamlRulesFile struct {
	Rules []yamlRule `yaml:"rules"`
}

type yamlRule struct {
	ID               string   `yaml:"id"`
	Name             string   `yaml:"name"`
	Pattern          string   `yaml:"pattern"`
	Description      string   `yaml:"description"`
	Examples         []string `yaml:"examples"`
	NegativeExamples []string `yaml:"negative_examples"`
	References       []string `yaml:"references"`
	Categories       []string `yaml:"categories"`
	Keywords         []string `yaml:"keywords"`
}

// LoadRules parses rules from YAML bytes.
func LoadRules(data []byte) ([]*types.Rule, error) {
	var yamlFile yamlRulesFile
	if err := yaml.Unmarshal(data, &yamlFile); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(yamlFile.Rules) == 0 {
		return nil, fmt.Errorf("no rules found in YAML")
	}

	rules := make([]*types.Rule, 0, len(yamlFile.Rules))
	for _, yr := range yamlFile.Rules {
		rules = append(rules, convertYAMLRule(yr))
	}
	return rules, nil
}

// LoadRuleFile loads rules from a YAML file path.
func LoadRuleFile(path string) ([]*types.Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	rules, err := LoadRules(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rules, nil
}

// LoadRuleDirectory loads rules from every .yml file under a directory tree.
func LoadRuleDirectory(root string) ([]*types.Rule, error) {
	var rules []*types.Rule

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || (filepath.Ext(path) != ".yml" && filepath.Ext(path) != ".yaml") {
			return nil
		}

		fileRules, err := LoadRuleFile(path)
		if err != nil {
			return err
		}
		rules = append(rules, fileRules...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return rules, nil
}

func convertYAMLRule(yr yamlRule) *types.Rule {
	return &types.Rule{
		Name:   yr.Name,
		TextID: yr.ID,
		Syntax: types.RuleSyntax{
			Pattern:          yr.Pattern,
			Description:      yr.Description,
			Examples:         yr.Examples,
			NegativeExamples: yr.NegativeExamples,
			References:       yr.References,
			Categories:       yr.Categories,
			Keywords:         yr.Keywords,
		},
	}
}
