package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/devfingerprint/internal/config"
	"github.com/nao1215/devfingerprint/internal/database"
	"github.com/nao1215/devfingerprint/internal/model"
)

// shortDigestLen is the number of digest characters shown in listings.
const shortDigestLen = 12

// NewCompareCmd creates the compare command.
// This command compares stored reports of the same entry point.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [entry]",
		Short: "Compare a report with earlier runs",
		Long: `Compare displays the differences between the latest report of an entry
point and an earlier one stored in the history database.

Sections are matched by collector and title. For every changed section the
added and removed lines are shown.

Examples:
  # Compare the latest two comprehensive reports
  devfingerprint compare

  # List the stored network reports
  devfingerprint compare --list network

  # Compare the latest kernel report with report 5
  devfingerprint compare --with-id 5 kernel

  # List all entries that have stored reports
  devfingerprint compare --list-entries`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCompareCmd,
	}

	cmd.Flags().BoolP("list", "l", false,
		"List report history for the entry")
	cmd.Flags().BoolP("list-entries", "L", false,
		"List all entries that have stored reports")
	cmd.Flags().Int64P("with-id", "i", 0,
		"Compare with a specific report by ID (use --list to see available IDs)")
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	entry := config.DefaultEntry
	if len(args) == 1 {
		var err error
		entry, err = model.ParseEntry(args[0])
		if err != nil {
			return err
		}
	}

	listEntries, err := cmd.Flags().GetBool("list-entries")
	if err != nil {
		return err
	}
	listHistory, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	withID, err := cmd.Flags().GetInt64("with-id")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	db, err := database.Open(config.XDGDataDir(), database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return fmt.Errorf("failed to open database (run 'devfingerprint collect' first): %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	out := cmd.OutOrStdout()

	switch {
	case listEntries:
		return listStoredEntries(ctx, out, db)
	case listHistory:
		return listReportHistory(ctx, out, db, entry)
	default:
		return runComparison(ctx, out, db, entry, withID, jsonOutput)
	}
}

// listStoredEntries lists all entry points that have reports in the database.
func listStoredEntries(ctx context.Context, out io.Writer, db *database.ReportDB) error {
	entries, err := db.ListEntries(ctx)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "No reports found in the database.")
		fmt.Fprintln(out, "\nUse 'devfingerprint collect' to collect a report.")
		return nil
	}

	fmt.Fprintf(out, "Stored entries (%d):\n\n", len(entries))
	for _, entry := range entries {
		fmt.Fprintf(out, "  • %s\n", entry)
	}
	fmt.Fprintln(out, "\nUse 'devfingerprint compare --list <entry>' to see the history of an entry.")

	return nil
}

// listReportHistory lists all stored reports for an entry point.
func listReportHistory(ctx context.Context, out io.Writer, db *database.ReportDB, entry model.Entry) error {
	history, err := db.GetReportHistory(ctx, entry)
	if err != nil {
		return err
	}

	if len(history) == 0 {
		fmt.Fprintf(out, "No report history found for %s\n", entry)
		fmt.Fprintln(out, "\nUse 'devfingerprint collect' to collect a report.")
		return nil
	}

	fmt.Fprintf(out, "Report history for %s (%d reports):\n\n", entry, len(history))
	fmt.Fprintf(out, "  %-6s  %-20s  %-12s  %-8s  %-6s  %s\n", "ID", "Date", "Digest", "Sections", "Errors", "Host")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 72))

	for _, meta := range history {
		fmt.Fprintf(out, "  %-6d  %-20s  %-12s  %-8d  %-6d  %s\n",
			meta.ID,
			meta.CollectedAt.Local().Format("2006-01-02 15:04:05"),
			shortDigest(meta.Digest),
			meta.SectionCount,
			meta.ErrorCount,
			meta.Hostname,
		)
	}

	fmt.Fprintln(out, "\nUse 'devfingerprint compare <entry>' to compare the latest two reports.")
	fmt.Fprintln(out, "Use 'devfingerprint compare --with-id <id> <entry>' to compare with a specific report.")

	return nil
}

// runComparison compares the latest report of entry with the previous one,
// or with the report given by withID.
func runComparison(ctx context.Context, out io.Writer, db *database.ReportDB, entry model.Entry, withID int64, jsonOutput bool) error {
	history, err := db.GetReportHistory(ctx, entry)
	if err != nil {
		return err
	}

	if len(history) == 0 {
		return fmt.Errorf("no report history found for %s", entry)
	}
	if len(history) < 2 && withID == 0 {
		return fmt.Errorf("at least 2 reports are required for comparison (found %d)", len(history))
	}

	current, err := db.GetReportByID(ctx, history[0].ID)
	if err != nil {
		return err
	}
	if current == nil {
		return errors.New("latest report disappeared from the database")
	}

	var previous *model.Report
	if withID > 0 {
		previous, err = db.GetReportByID(ctx, withID)
		if err != nil {
			return fmt.Errorf("failed to get report with ID %d: %w", withID, err)
		}
		if previous == nil {
			return fmt.Errorf("report with ID %d not found", withID)
		}
		if previous.Entry != entry {
			return fmt.Errorf("report ID %d belongs to %s, not %s", withID, previous.Entry, entry)
		}
	} else {
		previous, err = db.GetPreviousReport(ctx, entry, history[0].ID)
		if err != nil {
			return err
		}
		if previous == nil {
			return fmt.Errorf("no earlier report found for %s", entry)
		}
	}

	diff := database.Compare(previous, current)

	if jsonOutput {
		return outputComparisonJSON(out, diff)
	}
	return outputComparisonText(out, diff)
}

// outputComparisonJSON outputs the comparison result in JSON format.
func outputComparisonJSON(out io.Writer, diff *database.Diff) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(diff)
}

// outputComparisonText outputs the comparison result in human-readable text format.
func outputComparisonText(out io.Writer, diff *database.Diff) error {
	fmt.Fprintf(out, "Report Comparison: %s\n", diff.Entry)
	fmt.Fprintln(out, strings.Repeat("=", 60))

	fmt.Fprintf(out, "\nPrevious report: %s  %s\n",
		diff.Previous.CollectedAt.Local().Format("2006-01-02 15:04:05"), shortDigest(diff.Previous.Digest))
	fmt.Fprintf(out, "Current report:  %s  %s\n",
		diff.Current.CollectedAt.Local().Format("2006-01-02 15:04:05"), shortDigest(diff.Current.Digest))

	if !diff.HasChanges() {
		fmt.Fprintf(out, "\nStatus: UNCHANGED (%d sections identical)\n", diff.Unchanged)
		return nil
	}
	fmt.Fprintln(out, "\nStatus: CHANGED")

	if len(diff.Added) > 0 {
		fmt.Fprintf(out, "\nAdded Sections (%d):\n", len(diff.Added))
		for _, key := range diff.Added {
			fmt.Fprintf(out, "  [+] %s\n", key)
		}
	}

	if len(diff.Removed) > 0 {
		fmt.Fprintf(out, "\nRemoved Sections (%d):\n", len(diff.Removed))
		for _, key := range diff.Removed {
			fmt.Fprintf(out, "  [-] %s\n", key)
		}
	}

	if len(diff.Changed) > 0 {
		fmt.Fprintf(out, "\nChanged Sections (%d):\n", len(diff.Changed))
		for _, c := range diff.Changed {
			fmt.Fprintf(out, "  [~] %s\n", c.Key)
			for _, l := range c.RemovedLines {
				fmt.Fprintf(out, "      - %s\n", l)
			}
			for _, l := range c.AddedLines {
				fmt.Fprintf(out, "      + %s\n", l)
			}
		}
	}

	if diff.Unchanged > 0 {
		fmt.Fprintf(out, "\nUnchanged: %d sections\n", diff.Unchanged)
	}

	return nil
}

// shortDigest abbreviates a digest for display.
func shortDigest(d string) string {
	if len(d) > shortDigestLen {
		return d[:shortDigestLen]
	}
	return d
}
