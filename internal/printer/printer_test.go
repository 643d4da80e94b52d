package printer_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samudraneel05/TDSProject1/internal/app/distribute"
	"github.com/samudraneel05/TDSProject1/internal/app/evaluate"
	"github.com/samudraneel05/TDSProject1/internal/model"
	"github.com/samudraneel05/TDSProject1/internal/notify"
	"github.com/samudraneel05/TDSProject1/internal/printer"
)

var (
	_ printer.Printer = (*printer.TablePrinter)(nil)
	_ printer.Printer = (*printer.JSONPrinter)(nil)
)

func resultFixture() model.Result {
	return model.Result{
		ID:        "01JABC",
		Identity:  "a@example.com",
		TaskID:    "sum-of-sales-1a2b3",
		Round:     1,
		RepoURL:   "https://github.com/a/app",
		CommitSHA: "abc1234567",
		PagesURL:  "https://a.github.io/app/",
		Family:    model.CheckFamilyLicense,
		Check:     "MIT License",
		Score:     1,
		Reason:    "MIT license found",
		CreatedAt: time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC),
	}
}

func distributionFixture() distribute.Report {
	return distribute.Report{
		Round: 1,
		Deliveries: []distribute.Delivery{
			{Identity: "a@example.com", TaskID: "sum-of-sales-1a2b3", Nonce: "n-1", StatusCode: 200},
			{Identity: "b@example.com", TaskID: "sum-of-sales-9f8e7", Nonce: "n-2", StatusCode: 0},
		},
		Skipped: []string{"c@example.com"},
		Failed:  []distribute.Failure{{Identity: "d@example.com", Reason: "endpoint is required"}},
	}
}

func TestTablePrinterPrintResults(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewTablePrinter(&buf)

	require.NoError(t, p.PrintResults([]model.Result{resultFixture()}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "EMAIL"))
	assert.Contains(t, lines[1], "MIT License")
	assert.Contains(t, lines[1], "MIT license found")
	assert.Contains(t, lines[1], "2025-10-01 12:00:00 UTC")
}

func TestTablePrinterPrintSubmissions(t *testing.T) {
	tests := map[string]struct {
		subs   []model.Submission
		expOut []string
	}{
		"No submissions should print nothing.": {},
		"Submissions should show a short commit.": {
			subs: []model.Submission{{
				Identity:  "a@example.com",
				TaskID:    "sum-of-sales-1a2b3",
				Round:     2,
				CommitSHA: "abc1234567",
				RepoURL:   "https://github.com/a/app",
				UpdatedAt: time.Now(),
			}},
			expOut: []string{"EMAIL", "abc1234 ", "https://github.com/a/app"},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			p := printer.NewTablePrinter(&buf)

			require.NoError(t, p.PrintSubmissions(test.subs))
			if len(test.expOut) == 0 {
				assert.Empty(t, buf.String())
			}
			for _, exp := range test.expOut {
				assert.Contains(t, buf.String(), exp)
			}
		})
	}
}

func TestTablePrinterPrintDistribution(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewTablePrinter(&buf)

	require.NoError(t, p.PrintDistribution(distributionFixture()))

	out := buf.String()
	assert.Contains(t, out, "Round 1: 2 delivered, 1 skipped, 1 failed")
	assert.Contains(t, out, "unreachable")
	assert.Contains(t, out, "Failed d@example.com: endpoint is required")
	assert.Contains(t, out, "Skipped: c@example.com")
}

func TestTablePrinterPrintGeneratedTask(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewTablePrinter(&buf)

	err := p.PrintGeneratedTask("sum-of-sales-1a2b3", model.GeneratedTask{
		TemplateID:  "sum-of-sales",
		Brief:       "Sum the sales.",
		Checks:      []model.Check{{Text: "Page has title", Kind: model.CheckKindTitle}},
		Attachments: []model.Attachment{{Name: "data.csv", URL: model.EncodeDataURI("text/csv", []byte(strings.Repeat("x", 2048)))}},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Task:      sum-of-sales-1a2b3")
	assert.Contains(t, out, "  - [title] Page has title")
	assert.Contains(t, out, "  - data.csv (text/csv, 2.0 KB)")
}

func TestTablePrinterPrintNotification(t *testing.T) {
	tests := map[string]struct {
		outcome notify.Outcome
		exp     string
	}{
		"A successful notification should show the attempt.": {
			outcome: notify.Outcome{Success: true, StatusCode: 200, Attempt: 2},
			exp:     "Notified (status 200, attempt 2)",
		},
		"A failed notification should show the attempts.": {
			outcome: notify.Outcome{Attempts: 5},
			exp:     "Notification failed after 5 attempts",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			p := printer.NewTablePrinter(&buf)

			require.NoError(t, p.PrintNotification(test.outcome))
			assert.Equal(t, test.exp, strings.TrimSpace(buf.String()))
		})
	}
}

func TestJSONPrinterPrintResults(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewJSONPrinter(&buf)

	require.NoError(t, p.PrintResults([]model.Result{resultFixture()}))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "a@example.com", got[0]["email"])
	assert.Equal(t, "license", got[0]["family"])
	assert.Equal(t, float64(1), got[0]["score"])
	assert.Equal(t, "2025-10-01T12:00:00Z", got[0]["created_at"])
}

func TestJSONPrinterEmptyListsAreArrays(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewJSONPrinter(&buf)

	require.NoError(t, p.PrintSubmissions(nil))
	require.NoError(t, p.PrintDistribution(distribute.Report{Round: 2}))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "[]"))
	assert.Contains(t, out, `"deliveries": []`)
	assert.Contains(t, out, `"skipped": []`)
}

func TestJSONPrinterPrintEvaluation(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewJSONPrinter(&buf)

	require.NoError(t, p.PrintEvaluation(evaluate.Report{Evaluated: 3, Skipped: 1, MissingTask: 2}))

	assert.JSONEq(t, `{"evaluated":3,"skipped":1,"missing_task":2}`, buf.String())
}

func TestTablePrinterPrintMessage(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewTablePrinter(&buf)

	err := p.PrintMessage("ok")
	require.NoError(t, err)
	assert.Equal(t, "ok", strings.TrimSpace(buf.String()))
}
