package rename

import (
	"fmt"
	"io"
	"os"

	"github.com/olekukonko/tablewriter"
)

const (
	noRepositoriesMessageConstant        = "No repositories with default branch %q found for %s; nothing to do.\n"
	processedRepositoriesMessageConstant = "Processed %d repositories: %d renamed to %q, %d rename failures, %d deletion failures.\n"
	dryRunCompletedMessageConstant       = "Dry run: no remote changes were made. Re-run with --force to apply.\n"
	failedRenamesHeadingConstant         = "\nThe following repositories could not be renamed and need manual intervention:\n"
	failedDeletionsHeadingConstant       = "\nThe rename succeeded for the following repositories, but the old branch %q could not be deleted:\n"
	externalConfigReminderConstant       = "\nRemember to update anything that references the old branch name by hand: CI configuration, webhooks, badges, and open clone checkouts.\n"
	repositoryColumnHeaderConstant       = "REPOSITORY"
	stepColumnHeaderConstant             = "FAILED STEP"
	categoryColumnHeaderConstant         = "CATEGORY"
)

// Reporter emits formatted progress and summary text to an underlying sink.
type Reporter interface {
	Printf(format string, args ...any)
}

type writerReporter struct {
	writer io.Writer
}

// NewWriterReporter constructs a Reporter that writes to the provided io.Writer.
func NewWriterReporter(writer io.Writer) Reporter {
	if writer == nil || writer == io.Discard {
		writer = os.Stdout
	}
	return writerReporter{writer: writer}
}

func (reporter writerReporter) Printf(format string, args ...any) {
	if reporter.writer == nil {
		return
	}
	fmt.Fprintf(reporter.writer, format, args...)
}

// RunSummary aggregates the per-repository outcomes of one rename run.
type RunSummary struct {
	Owner     string
	OldBranch string
	NewBranch string
	DryRun    bool
	Outcomes  []MigrationOutcome
}

// SummaryWriter renders the end-of-run report.
type SummaryWriter struct {
	destination io.Writer
	reporter    Reporter
}

// NewSummaryWriter constructs a summary writer targeting the provided sink.
func NewSummaryWriter(destination io.Writer) *SummaryWriter {
	if destination == nil {
		destination = os.Stdout
	}
	return &SummaryWriter{destination: destination, reporter: NewWriterReporter(destination)}
}

// WriteSummary prints the processed count, the failure tables, and the closing
// reminder about branch-name-dependent external configuration. A run with zero
// collected repositories prints an informational message instead.
func (writer *SummaryWriter) WriteSummary(summary RunSummary) {
	if len(summary.Outcomes) == 0 {
		writer.reporter.Printf(noRepositoriesMessageConstant, summary.OldBranch, summary.Owner)
		return
	}

	succeededCount := 0
	var failedRenames []MigrationOutcome
	var failedDeletions []MigrationOutcome
	for _, outcome := range summary.Outcomes {
		switch outcome.Classification {
		case MigrationSucceeded:
			succeededCount++
		case MigrationFailedRename:
			failedRenames = append(failedRenames, outcome)
		case MigrationFailedDeletion:
			failedDeletions = append(failedDeletions, outcome)
		}
	}

	writer.reporter.Printf(
		processedRepositoriesMessageConstant,
		len(summary.Outcomes),
		succeededCount+len(failedDeletions),
		summary.NewBranch,
		len(failedRenames),
		len(failedDeletions),
	)
	if summary.DryRun {
		writer.reporter.Printf(dryRunCompletedMessageConstant)
	}

	if len(failedRenames) > 0 {
		writer.reporter.Printf(failedRenamesHeadingConstant)
		writer.renderOutcomeTable(failedRenames)
	}

	if len(failedDeletions) > 0 {
		writer.reporter.Printf(failedDeletionsHeadingConstant, summary.OldBranch)
		writer.renderOutcomeTable(failedDeletions)
	}

	writer.reporter.Printf(externalConfigReminderConstant)
}

func (writer *SummaryWriter) renderOutcomeTable(outcomes []MigrationOutcome) {
	table := tablewriter.NewWriter(writer.destination)
	table.SetHeader([]string{repositoryColumnHeaderConstant, stepColumnHeaderConstant, categoryColumnHeaderConstant})
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, outcome := range outcomes {
		table.Append([]string{outcome.Repository, string(outcome.FailedStep), string(outcome.Category)})
	}
	table.Render()
}
