package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/nightjar-sec/nightjar/pkg/store"
)

var (
	reportDatastore  string
	reportFormat     string
	reportColor      string
	reportMaxMatches int
)

// styles holds color formatters matching NoseyParker color scheme
type styles struct {
	findingHeading *color.Color
	id             *color.Color
	ruleName       *color.Color
	heading        *color.Color
	match          *color.Color
	metadata       *color.Color
}

// newStyles creates color formatters for report output
// enabled=false respects --color=never and the NO_COLOR env var
func newStyles(enabled bool) *styles {
	s := &styles{
		findingHeading: color.New(color.Bold, color.FgHiWhite),
		id:             color.New(color.FgHiGreen),
		ruleName:       color.New(color.Bold, color.FgHiBlue),
		heading:        color.New(color.Bold),
		match:          color.New(color.FgYellow),
		metadata:       color.New(color.FgHiBlue),
	}

	if !enabled {
		// Disable colors on all formatters
		s.findingHeading.DisableColor()
		s.id.DisableColor()
		s.ruleName.DisableColor()
		s.heading.DisableColor()
		s.match.DisableColor()
		s.metadata.DisableColor()
	}

	return s
}

// snippetParts holds separated snippet components for colored output
type snippetParts struct {
	prefix   string // "..." if truncated at start
	before   string
	matching string
	after    string
	suffix   string // "..." if truncated at end
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Report findings from a datastore",
	Long:  "Read findings and their matches from a datastore and output a report",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportDatastore, "datastore", "nightjar.ds", "Path to datastore directory or file")
	reportCmd.Flags().StringVar(&reportFormat, "format", "human", "Output format: human, json")
	reportCmd.Flags().StringVar(&reportColor, "color", "auto", "Color output: auto, always, never")
	reportCmd.Flags().IntVar(&reportMaxMatches, "max-matches", 3, "Maximum matches to show per finding (0 for all)")
}

// reportedFinding is one finding with its matches, as serialized by
// report --format=json.
type reportedFinding struct {
	*store.FindingRollup
	Matches []*store.MatchDetail `json:"matches"`
}

func runReport(cmd *cobra.Command, args []string) error {
	s, err := openStore(reportDatastore)
	if err != nil {
		return err
	}
	defer s.Close()

	rollups, err := s.FindingRollups()
	if err != nil {
		return fmt.Errorf("retrieving findings: %w", err)
	}

	details, err := s.MatchDetails()
	if err != nil {
		return fmt.Errorf("retrieving matches: %w", err)
	}

	// Group matches under their findings
	byFinding := make(map[string][]*store.MatchDetail)
	for _, d := range details {
		byFinding[d.FindingID] = append(byFinding[d.FindingID], d)
	}

	findings := make([]*reportedFinding, 0, len(rollups))
	for _, r := range rollups {
		findings = append(findings, &reportedFinding{
			FindingRollup: r,
			Matches:       byFinding[r.FindingID],
		})
	}

	switch reportFormat {
	case "json":
		return outputReportJSON(cmd, findings)
	case "human":
		return outputReportHuman(cmd, findings)
	default:
		return fmt.Errorf("unknown output format: %s", reportFormat)
	}
}

func outputReportJSON(cmd *cobra.Command, findings []*reportedFinding) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(findings)
}

func outputReportHuman(cmd *cobra.Command, findings []*reportedFinding) error {
	out := cmd.OutOrStdout()

	// Determine if colors should be enabled based on --color flag
	switch reportColor {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	default: // "auto"
		// Check if stdout is a TTY and NO_COLOR is not set
		if !term.IsTerminal(int(os.Stdout.Fd())) || os.Getenv("NO_COLOR") != "" {
			color.NoColor = true
		} else {
			color.NoColor = false
		}
	}
	s := newStyles(!color.NoColor)

	totalFindings := len(findings)

	for i, f := range findings {
		// Finding header - "Finding N/M" in findingHeading style, id in id style
		fmt.Fprintf(out, "%s (%s %s)\n",
			s.findingHeading.Sprintf("Finding %d/%d", i+1, totalFindings),
			s.heading.Sprint("id"),
			s.id.Sprint(f.FindingID))

		fmt.Fprintf(out, "%s %s\n", s.heading.Sprint("Rule:"), s.ruleName.Sprint(f.RuleName))

		// Capture groups - "Group N:" in heading style, value in match style
		for j, group := range f.Groups {
			fmt.Fprintf(out, "%s %s\n",
				s.heading.Sprintf("Group %d:", j+1),
				s.match.Sprint(string(group)))
		}

		// Triage overlay, when present
		if len(f.Statuses) > 0 {
			fmt.Fprintf(out, "%s", s.heading.Sprint("Status:"))
			for _, st := range f.Statuses {
				fmt.Fprintf(out, " %s", s.metadata.Sprint(string(st)))
			}
			fmt.Fprintf(out, "\n")
		}
		if f.MeanScore != nil {
			fmt.Fprintf(out, "%s %.3f\n", s.heading.Sprint("Mean score:"), *f.MeanScore)
		}
		if f.Comment != nil {
			fmt.Fprintf(out, "%s %s\n", s.heading.Sprint("Comment:"), *f.Comment)
		}

		// Matches for this finding
		matches := f.Matches
		if reportMaxMatches > 0 && len(matches) > reportMaxMatches {
			fmt.Fprintf(out, "Showing %d/%d matches:\n", reportMaxMatches, len(matches))
			matches = matches[:reportMaxMatches]
		}

		for k, m := range matches {
			fmt.Fprintf(out, "\n    %s (%s %s)\n",
				s.heading.Sprintf("Match %d/%d", k+1, len(f.Matches)),
				s.heading.Sprint("id"),
				s.id.Sprint(m.StructuralID))

			fmt.Fprintf(out, "    %s %s\n",
				s.heading.Sprint("Blob:"),
				s.metadata.Sprint(m.BlobID.Hex()))

			if m.Location.Source.Start.Line > 0 {
				fmt.Fprintf(out, "    %s %d:%d-%d:%d\n",
					s.heading.Sprint("Lines:"),
					m.Location.Source.Start.Line, m.Location.Source.Start.Column,
					m.Location.Source.End.Line, m.Location.Source.End.Column)
			}

			if m.Status != nil {
				fmt.Fprintf(out, "    %s %s\n", s.heading.Sprint("Status:"), s.metadata.Sprint(string(*m.Status)))
			}
			if m.Score != nil {
				fmt.Fprintf(out, "    %s %.3f\n", s.heading.Sprint("Score:"), *m.Score)
			}
			if m.Comment != nil {
				fmt.Fprintf(out, "    %s %s\n", s.heading.Sprint("Comment:"), *m.Comment)
			}

			// Context snippet with colored matching portion
			parts := formatSnippetWithParts(m.Snippet.Before, m.Snippet.Matching, m.Snippet.After, 500)
			if parts.prefix != "" || parts.before != "" || parts.matching != "" || parts.after != "" || parts.suffix != "" {
				fmt.Fprintf(out, "\n        %s%s%s%s%s\n",
					parts.prefix,
					parts.before,
					s.match.Sprint(parts.matching),
					parts.after,
					parts.suffix)
			}
		}

		fmt.Fprintf(out, "\n\n")
	}

	return nil
}

// formatSnippetWithParts separates a snippet into parts for colored output,
// truncating to maxLen chars centered around the matched text.
func formatSnippetWithParts(before, matching, after []byte, maxLen int) snippetParts {
	full := string(before) + string(matching) + string(after)

	// Short snippet - no truncation needed
	if len(full) <= maxLen {
		return snippetParts{
			before:   string(before),
			matching: string(matching),
			after:    string(after),
		}
	}

	// Find where the match sits in the combined string
	matchStart := len(before)
	matchEnd := matchStart + len(matching)
	matchLen := len(matching)

	// If match itself exceeds maxLen, show truncated match
	if matchLen >= maxLen {
		return snippetParts{
			prefix:   "...",
			matching: string(matching[:maxLen-6]),
			suffix:   "...",
		}
	}

	// Calculate how much context we can show around the match
	availableContext := maxLen - matchLen - 6 // reserve 6 for potential "..." on each side
	halfContext := availableContext / 2

	start := matchStart - halfContext
	end := matchEnd + halfContext

	// Adjust if we're near boundaries
	if start < 0 {
		end -= start // shift end right by the amount we're short on left
		start = 0
	}
	if end > len(full) {
		start -= (end - len(full)) // shift start left by amount we're over on right
		if start < 0 {
			start = 0
		}
		end = len(full)
	}

	parts := snippetParts{}
	if start > 0 {
		parts.prefix = "..."
	}
	if matchStart > start {
		parts.before = full[start:matchStart]
	}
	parts.matching = full[matchStart:matchEnd]
	if matchEnd < end {
		parts.after = full[matchEnd:end]
	}
	if end < len(full) {
		parts.suffix = "..."
	}

	return parts
}
