package main

import (
	"fmt"
	"math"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nightjar-sec/nightjar/pkg/types"
)

var (
	annotateDatastore string
	annotateFinding   bool
)

var annotateCmd = &cobra.Command{
	Use:   "annotate",
	Short: "Record triage annotations",
	Long: `Attach mutable triage annotations to matches and findings.

Matches are addressed by their structural ID and findings by their finding
ID, both as printed by the report command. Annotations are last-write-wins
and never alter the underlying scan results.`,
}

var annotateStatusCmd = &cobra.Command{
	Use:   "status <match-id> <accept|reject>",
	Short: "Set the accept/reject status of a match",
	Args:  cobra.ExactArgs(2),
	RunE:  runAnnotateStatus,
}

var annotateCommentCmd = &cobra.Command{
	Use:   "comment <id> <comment>",
	Short: "Set the comment on a match or finding",
	Args:  cobra.ExactArgs(2),
	RunE:  runAnnotateComment,
}

var annotateScoreCmd = &cobra.Command{
	Use:   "score <match-id> <score>",
	Short: "Set the confidence score of a match (0 to 1)",
	Args:  cobra.ExactArgs(2),
	RunE:  runAnnotateScore,
}

func init() {
	annotateCmd.AddCommand(annotateStatusCmd)
	annotateCmd.AddCommand(annotateCommentCmd)
	annotateCmd.AddCommand(annotateScoreCmd)

	annotateCmd.PersistentFlags().StringVar(&annotateDatastore, "datastore", "nightjar.ds", "Path to datastore directory or file")
	annotateCommentCmd.Flags().BoolVar(&annotateFinding, "finding", false, "Treat <id> as a finding ID instead of a match ID")
}

func runAnnotateStatus(cmd *cobra.Command, args []string) error {
	status, err := types.ParseStatus(args[1])
	if err != nil {
		return err
	}

	s, err := openStore(annotateDatastore)
	if err != nil {
		return err
	}
	defer s.Close()

	m, err := s.MatchByStructuralID(args[0])
	if err != nil {
		return fmt.Errorf("looking up match %s: %w", args[0], err)
	}
	if err := s.SetMatchStatus(m, status); err != nil {
		return fmt.Errorf("setting status: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Match %s: status = %s\n", args[0], status)
	return nil
}

func runAnnotateComment(cmd *cobra.Command, args []string) error {
	s, err := openStore(annotateDatastore)
	if err != nil {
		return err
	}
	defer s.Close()

	if annotateFinding {
		f, err := s.FindingByID(args[0])
		if err != nil {
			return fmt.Errorf("looking up finding %s: %w", args[0], err)
		}
		if err := s.SetFindingComment(f, args[1]); err != nil {
			return fmt.Errorf("setting comment: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Finding %s: comment set\n", args[0])
		return nil
	}

	m, err := s.MatchByStructuralID(args[0])
	if err != nil {
		return fmt.Errorf("looking up match %s: %w", args[0], err)
	}
	if err := s.SetMatchComment(m, args[1]); err != nil {
		return fmt.Errorf("setting comment: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Match %s: comment set\n", args[0])
	return nil
}

func runAnnotateScore(cmd *cobra.Command, args []string) error {
	score, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid score %q: %w", args[1], err)
	}
	if math.IsNaN(score) {
		return fmt.Errorf("invalid score %q: not a number", args[1])
	}

	s, err := openStore(annotateDatastore)
	if err != nil {
		return err
	}
	defer s.Close()

	m, err := s.MatchByStructuralID(args[0])
	if err != nil {
		return fmt.Errorf("looking up match %s: %w", args[0], err)
	}
	if err := s.SetMatchScore(m, score); err != nil {
		return fmt.Errorf("setting score: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Match %s: score = %g\n", args[0], score)
	return nil
}
