package printer

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/samudraneel05/TDSProject1/internal/app/distribute"
	"github.com/samudraneel05/TDSProject1/internal/app/evaluate"
	"github.com/samudraneel05/TDSProject1/internal/model"
	"github.com/samudraneel05/TDSProject1/internal/notify"
)

// TablePrinter prints grader information in a table format.
type TablePrinter struct {
	writer io.Writer
}

// NewTablePrinter creates a new table printer.
func NewTablePrinter(w io.Writer) *TablePrinter {
	return &TablePrinter{writer: w}
}

func (t *TablePrinter) tab() *tabwriter.Writer {
	return tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
}

// PrintSubmissions prints submissions in a table format.
func (t *TablePrinter) PrintSubmissions(subs []model.Submission) error {
	if len(subs) == 0 {
		return nil
	}

	tw := t.tab()
	defer tw.Flush()

	fmt.Fprintln(tw, "EMAIL\tTASK\tROUND\tCOMMIT\tREPO\tUPDATED")
	for _, s := range subs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n", s.Identity, s.TaskID, s.Round, shortSHA(s.CommitSHA), s.RepoURL, TimeAgo(s.UpdatedAt))
	}

	return nil
}

// PrintResults prints check results in a table format.
func (t *TablePrinter) PrintResults(results []model.Result) error {
	if len(results) == 0 {
		return nil
	}

	tw := t.tab()
	defer tw.Flush()

	fmt.Fprintln(tw, "EMAIL\tTASK\tROUND\tCHECK\tSCORE\tREASON\tEVALUATED AT")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%d\t%s\t%s\n", r.Identity, r.TaskID, r.Round, r.Check, r.Score, r.Reason, FormatTimestamp(r.CreatedAt))
	}

	return nil
}

// PrintGeneratedTask prints a generated task.
func (t *TablePrinter) PrintGeneratedTask(taskID string, task model.GeneratedTask) error {
	fmt.Fprintf(t.writer, "Task:      %s\n", taskID)
	fmt.Fprintf(t.writer, "Template:  %s\n", task.TemplateID)
	fmt.Fprintf(t.writer, "Brief:     %s\n", task.Brief)

	fmt.Fprintln(t.writer, "Checks:")
	for _, c := range task.Checks {
		fmt.Fprintf(t.writer, "  - [%s] %s\n", c.Kind, c.Text)
	}

	if len(task.Attachments) > 0 {
		fmt.Fprintln(t.writer, "Attachments:")
		for _, a := range task.Attachments {
			mime, content, err := model.DecodeDataURI(a.URL)
			if err != nil {
				fmt.Fprintf(t.writer, "  - %s (undecodable: %s)\n", a.Name, err)
				continue
			}
			fmt.Fprintf(t.writer, "  - %s (%s, %s)\n", a.Name, mime, FormatBytes(int64(len(content))))
		}
	}

	return nil
}

// PrintDistribution prints the outcome of a task distribution.
func (t *TablePrinter) PrintDistribution(report distribute.Report) error {
	fmt.Fprintf(t.writer, "Round %d: %d delivered, %d skipped, %d failed\n",
		report.Round, len(report.Deliveries), len(report.Skipped), len(report.Failed))

	if len(report.Deliveries) > 0 {
		tw := t.tab()
		fmt.Fprintln(tw, "EMAIL\tTASK\tNONCE\tSTATUS")
		for _, d := range report.Deliveries {
			status := fmt.Sprintf("%d", d.StatusCode)
			if d.StatusCode == 0 {
				status = "unreachable"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.Identity, d.TaskID, d.Nonce, status)
		}
		tw.Flush()
	}

	for _, f := range report.Failed {
		fmt.Fprintf(t.writer, "Failed %s: %s\n", f.Identity, f.Reason)
	}
	if len(report.Skipped) > 0 {
		fmt.Fprintf(t.writer, "Skipped: %s\n", strings.Join(report.Skipped, ", "))
	}

	return nil
}

// PrintEvaluation prints the outcome of an evaluation run.
func (t *TablePrinter) PrintEvaluation(report evaluate.Report) error {
	fmt.Fprintf(t.writer, "Evaluated:     %d\n", report.Evaluated)
	fmt.Fprintf(t.writer, "Skipped:       %d\n", report.Skipped)
	fmt.Fprintf(t.writer, "Missing task:  %d\n", report.MissingTask)
	return nil
}

// PrintNotification prints the outcome of a notification.
func (t *TablePrinter) PrintNotification(outcome notify.Outcome) error {
	if outcome.Success {
		fmt.Fprintf(t.writer, "Notified (status %d, attempt %d)\n", outcome.StatusCode, outcome.Attempt)
		return nil
	}
	fmt.Fprintf(t.writer, "Notification failed after %d attempts\n", outcome.Attempts)
	return nil
}

// PrintMessage prints a simple text message.
func (t *TablePrinter) PrintMessage(msg string) error {
	fmt.Fprintln(t.writer, msg)
	return nil
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
