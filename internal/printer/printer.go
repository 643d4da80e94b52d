package printer

import (
	"github.com/samudraneel05/TDSProject1/internal/app/distribute"
	"github.com/samudraneel05/TDSProject1/internal/app/evaluate"
	"github.com/samudraneel05/TDSProject1/internal/model"
	"github.com/samudraneel05/TDSProject1/internal/notify"
)

// Printer knows how to print grader information in different formats.
type Printer interface {
	PrintSubmissions(subs []model.Submission) error
	PrintResults(results []model.Result) error
	PrintGeneratedTask(taskID string, task model.GeneratedTask) error
	PrintDistribution(report distribute.Report) error
	PrintEvaluation(report evaluate.Report) error
	PrintNotification(outcome notify.Outcome) error
	PrintMessage(msg string) error
}
