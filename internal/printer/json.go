package printer

import (
	"encoding/json"
	"io"
	"time"

	"github.com/samudraneel05/TDSProject1/internal/app/distribute"
	"github.com/samudraneel05/TDSProject1/internal/app/evaluate"
	"github.com/samudraneel05/TDSProject1/internal/model"
	"github.com/samudraneel05/TDSProject1/internal/notify"
)

// JSONPrinter prints grader information in JSON format.
type JSONPrinter struct {
	writer io.Writer
}

// NewJSONPrinter creates a new JSON printer.
func NewJSONPrinter(w io.Writer) *JSONPrinter {
	return &JSONPrinter{writer: w}
}

type submissionOutput struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Task      string    `json:"task"`
	Round     int       `json:"round"`
	Nonce     string    `json:"nonce"`
	RepoURL   string    `json:"repo_url"`
	CommitSHA string    `json:"commit_sha"`
	PagesURL  string    `json:"pages_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type resultOutput struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Task      string    `json:"task"`
	Round     int       `json:"round"`
	RepoURL   string    `json:"repo_url"`
	CommitSHA string    `json:"commit_sha"`
	PagesURL  string    `json:"pages_url"`
	Family    string    `json:"family"`
	Check     string    `json:"check"`
	Score     int       `json:"score"`
	Reason    string    `json:"reason"`
	Logs      string    `json:"logs"`
	CreatedAt time.Time `json:"created_at"`
}

type checkOutput struct {
	Text   string `json:"text"`
	Kind   string `json:"kind"`
	Target string `json:"target,omitempty"`
}

type attachmentOutput struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type generatedTaskOutput struct {
	Task        string             `json:"task"`
	Template    string             `json:"template"`
	Brief       string             `json:"brief"`
	Checks      []checkOutput      `json:"checks"`
	Attachments []attachmentOutput `json:"attachments"`
}

type deliveryOutput struct {
	Email      string `json:"email"`
	Task       string `json:"task"`
	Nonce      string `json:"nonce"`
	StatusCode int    `json:"status_code"`
}

type failureOutput struct {
	Email  string `json:"email"`
	Reason string `json:"reason"`
}

type distributionOutput struct {
	Round      int              `json:"round"`
	Deliveries []deliveryOutput `json:"deliveries"`
	Skipped    []string         `json:"skipped"`
	Failed     []failureOutput  `json:"failed"`
}

type evaluationOutput struct {
	Evaluated   int `json:"evaluated"`
	Skipped     int `json:"skipped"`
	MissingTask int `json:"missing_task"`
}

type messageOutput struct {
	Message string `json:"message"`
}

func (j *JSONPrinter) encode(v any) error {
	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// PrintSubmissions prints submissions in JSON format.
func (j *JSONPrinter) PrintSubmissions(subs []model.Submission) error {
	items := make([]submissionOutput, 0, len(subs))
	for _, s := range subs {
		items = append(items, submissionOutput{
			ID:        s.ID,
			Email:     s.Identity,
			Task:      s.TaskID,
			Round:     s.Round,
			Nonce:     s.Nonce,
			RepoURL:   s.RepoURL,
			CommitSHA: s.CommitSHA,
			PagesURL:  s.PagesURL,
			CreatedAt: s.CreatedAt.UTC(),
			UpdatedAt: s.UpdatedAt.UTC(),
		})
	}
	return j.encode(items)
}

// PrintResults prints check results in JSON format.
func (j *JSONPrinter) PrintResults(results []model.Result) error {
	items := make([]resultOutput, 0, len(results))
	for _, r := range results {
		items = append(items, resultOutput{
			ID:        r.ID,
			Email:     r.Identity,
			Task:      r.TaskID,
			Round:     r.Round,
			RepoURL:   r.RepoURL,
			CommitSHA: r.CommitSHA,
			PagesURL:  r.PagesURL,
			Family:    string(r.Family),
			Check:     r.Check,
			Score:     r.Score,
			Reason:    r.Reason,
			Logs:      r.Logs,
			CreatedAt: r.CreatedAt.UTC(),
		})
	}
	return j.encode(items)
}

// PrintGeneratedTask prints a generated task in JSON format.
func (j *JSONPrinter) PrintGeneratedTask(taskID string, task model.GeneratedTask) error {
	out := generatedTaskOutput{
		Task:        taskID,
		Template:    task.TemplateID,
		Brief:       task.Brief,
		Checks:      make([]checkOutput, 0, len(task.Checks)),
		Attachments: make([]attachmentOutput, 0, len(task.Attachments)),
	}
	for _, c := range task.Checks {
		out.Checks = append(out.Checks, checkOutput{Text: c.Text, Kind: string(c.Kind), Target: c.Target})
	}
	for _, a := range task.Attachments {
		out.Attachments = append(out.Attachments, attachmentOutput{Name: a.Name, URL: a.URL})
	}
	return j.encode(out)
}

// PrintDistribution prints the outcome of a task distribution in JSON format.
func (j *JSONPrinter) PrintDistribution(report distribute.Report) error {
	out := distributionOutput{
		Round:      report.Round,
		Deliveries: make([]deliveryOutput, 0, len(report.Deliveries)),
		Skipped:    append([]string{}, report.Skipped...),
		Failed:     make([]failureOutput, 0, len(report.Failed)),
	}
	for _, d := range report.Deliveries {
		out.Deliveries = append(out.Deliveries, deliveryOutput{Email: d.Identity, Task: d.TaskID, Nonce: d.Nonce, StatusCode: d.StatusCode})
	}
	for _, f := range report.Failed {
		out.Failed = append(out.Failed, failureOutput{Email: f.Identity, Reason: f.Reason})
	}
	return j.encode(out)
}

// PrintEvaluation prints the outcome of an evaluation run in JSON format.
func (j *JSONPrinter) PrintEvaluation(report evaluate.Report) error {
	return j.encode(evaluationOutput{
		Evaluated:   report.Evaluated,
		Skipped:     report.Skipped,
		MissingTask: report.MissingTask,
	})
}

// PrintNotification prints the outcome of a notification in JSON format.
func (j *JSONPrinter) PrintNotification(outcome notify.Outcome) error {
	return j.encode(outcome)
}

// PrintMessage prints a simple message in JSON format.
func (j *JSONPrinter) PrintMessage(msg string) error {
	return j.encode(messageOutput{Message: msg})
}
