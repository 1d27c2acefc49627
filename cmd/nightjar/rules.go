package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nightjar-sec/nightjar/pkg/rule"
	"github.com/nightjar-sec/nightjar/pkg/types"
)

var (
	rulesDatastore string
	rulesPath      string
	rulesFormat    string
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage detection rules",
	Long:  "Commands for listing rule files and importing them into a datastore",
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List rules from a file or directory",
	Long:  "Display detection rules with their text IDs, names, and structural IDs",
	RunE:  runRulesList,
}

var rulesImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import rules into a datastore",
	Long:  "Validate rules from a file or directory and record them in a datastore",
	RunE:  runRulesImport,
}

func init() {
	rulesCmd.AddCommand(rulesListCmd)
	rulesCmd.AddCommand(rulesImportCmd)

	rulesListCmd.Flags().StringVar(&rulesPath, "rules", "", "Path to rules file or directory (required)")
	rulesListCmd.Flags().StringVar(&rulesFormat, "format", "table", "Output format: table, json")
	rulesImportCmd.Flags().StringVar(&rulesPath, "rules", "", "Path to rules file or directory (required)")
	rulesImportCmd.Flags().StringVar(&rulesDatastore, "datastore", "nightjar.ds", "Path to datastore directory or file")
}

// loadRulesPath loads rules from a file or directory path.
func loadRulesPath(path string) ([]*types.Rule, error) {
	if path == "" {
		return nil, fmt.Errorf("--rules is required")
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("rules path not found: %s", path)
	}

	var rules []*types.Rule
	if info.IsDir() {
		rules, err = rule.LoadRuleDirectory(path)
	} else {
		rules, err = rule.LoadRuleFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("loading rules from %s: %w", path, err)
	}
	return rules, nil
}

func runRulesList(cmd *cobra.Command, args []string) error {
	rules, err := loadRulesPath(rulesPath)
	if err != nil {
		return err
	}

	switch rulesFormat {
	case "json":
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(rules)
	case "table":
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		defer w.Flush()

		fmt.Fprintf(w, "ID\tName\tStructural ID\n")
		fmt.Fprintf(w, "--\t----\t-------------\n")
		for _, r := range rules {
			fmt.Fprintf(w, "%s\t%s\t%s\n", r.TextID, r.Name, r.StructuralID())
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", rulesFormat)
	}
}

func runRulesImport(cmd *cobra.Command, args []string) error {
	rules, err := loadRulesPath(rulesPath)
	if err != nil {
		return err
	}

	if err := rule.ValidateRules(rules); err != nil {
		return fmt.Errorf("validating rules: %w", err)
	}

	s, err := openStore(rulesDatastore)
	if err != nil {
		return err
	}
	defer s.Close()

	for _, r := range rules {
		if _, err := s.UpsertRule(r); err != nil {
			return fmt.Errorf("recording rule %s: %w", r.TextID, err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d rules into %s\n", len(rules), rulesDatastore)
	return nil
}
