package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	summarizeDatastore string
	summarizeFormat    string
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Summarize findings per rule",
	Long:  "Display per-rule counts of distinct findings and total matches",
	RunE:  runSummarize,
}

func init() {
	summarizeCmd.Flags().StringVar(&summarizeDatastore, "datastore", "nightjar.ds", "Path to datastore directory or file")
	summarizeCmd.Flags().StringVar(&summarizeFormat, "format", "table", "Output format: table, json")
}

func runSummarize(cmd *cobra.Command, args []string) error {
	s, err := openStore(summarizeDatastore)
	if err != nil {
		return err
	}
	defer s.Close()

	summaries, err := s.RuleSummaries()
	if err != nil {
		return fmt.Errorf("retrieving rule summaries: %w", err)
	}

	switch summarizeFormat {
	case "json":
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(summaries)
	case "table":
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		defer w.Flush()

		fmt.Fprintf(w, "Rule\tFindings\tMatches\n")
		fmt.Fprintf(w, "----\t--------\t-------\n")
		for _, sum := range summaries {
			fmt.Fprintf(w, "%s\t%d\t%d\n", sum.RuleName, sum.DistinctFindings, sum.TotalMatches)
		}

		counts, err := s.Counts()
		if err != nil {
			return fmt.Errorf("retrieving counts: %w", err)
		}
		fmt.Fprintf(w, "\nTotal\t%d\t%d\n", counts.Findings, counts.Matches)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", summarizeFormat)
	}
}
