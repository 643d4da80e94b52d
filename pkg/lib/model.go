package lib

import (
	"errors"
	"time"

	"github.com/samudraneel05/TDSProject1/internal/app/distribute"
	"github.com/samudraneel05/TDSProject1/internal/model"
)

var (
	// ErrNotFound is returned when a resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a resource already exists.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotValid is returned on invalid input.
	ErrNotValid = errors.New("not valid")
)

// Participant is a roster entry that can receive tasks.
type Participant struct {
	// Email identifies the participant.
	Email string
	// Endpoint is the URL tasks are delivered to.
	Endpoint string
	// Secret is sent back to the participant with every task.
	Secret string
}

// Check is a requirement of a task.
type Check struct {
	// Text is the human readable requirement sent to participants.
	Text string
	// Kind is how the check is evaluated (title, script, element, delegated, generic).
	Kind string
	// Target is the value the check looks for, if any.
	Target string
}

// Attachment is a file shipped with a task as a data URI.
type Attachment struct {
	Name string
	URL  string
}

// GeneratedTask is the task a seed produces.
type GeneratedTask struct {
	TaskID      string
	TemplateID  string
	Brief       string
	Checks      []Check
	Attachments []Attachment
}

// Delivery is a task that was sent to a participant.
type Delivery struct {
	Email  string
	TaskID string
	Nonce  string
	// StatusCode is the participant endpoint response status, 0 when unreachable.
	StatusCode int
}

// DeliveryFailure is a participant that could not get a task.
type DeliveryFailure struct {
	Email  string
	Reason string
}

// DistributionReport is the outcome of distributing a round.
type DistributionReport struct {
	Round      int
	Deliveries []Delivery
	// Skipped are the participants that already had a task for the round.
	Skipped []string
	Failed  []DeliveryFailure
}

// Submission is the artifact location a participant reported for a task.
type Submission struct {
	ID        string
	Email     string
	TaskID    string
	Round     int
	Nonce     string
	RepoURL   string
	CommitSHA string
	PagesURL  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SubmitStatus tells if a submission was new or replaced an earlier one.
type SubmitStatus string

const (
	// SubmitStatusReceived is a first submission for a task.
	SubmitStatusReceived SubmitStatus = "received"
	// SubmitStatusUpdated replaced an earlier submission for the same task.
	SubmitStatusUpdated SubmitStatus = "updated"
)

// Result is the score of a single check of a submission.
type Result struct {
	ID        string
	Email     string
	TaskID    string
	Round     int
	RepoURL   string
	CommitSHA string
	PagesURL  string
	Family    string
	Check     string
	// Score is 1 when the check passed and 0 otherwise.
	Score     int
	Reason    string
	Logs      string
	CreatedAt time.Time
}

// --- Conversion helpers ---

func toInternalParticipants(ps []Participant) []model.Participant {
	result := make([]model.Participant, len(ps))
	for i, p := range ps {
		result[i] = model.Participant{Identity: p.Email, Endpoint: p.Endpoint, Secret: p.Secret}
	}
	return result
}

func fromInternalGeneratedTask(taskID string, t model.GeneratedTask) GeneratedTask {
	g := GeneratedTask{
		TaskID:      taskID,
		TemplateID:  t.TemplateID,
		Brief:       t.Brief,
		Checks:      make([]Check, len(t.Checks)),
		Attachments: make([]Attachment, len(t.Attachments)),
	}
	for i, c := range t.Checks {
		g.Checks[i] = Check{Text: c.Text, Kind: string(c.Kind), Target: c.Target}
	}
	for i, a := range t.Attachments {
		g.Attachments[i] = Attachment{Name: a.Name, URL: a.URL}
	}
	return g
}

func fromInternalDistributionReport(r distribute.Report) DistributionReport {
	report := DistributionReport{
		Round:      r.Round,
		Deliveries: make([]Delivery, len(r.Deliveries)),
		Skipped:    append([]string{}, r.Skipped...),
		Failed:     make([]DeliveryFailure, len(r.Failed)),
	}
	for i, d := range r.Deliveries {
		report.Deliveries[i] = Delivery{Email: d.Identity, TaskID: d.TaskID, Nonce: d.Nonce, StatusCode: d.StatusCode}
	}
	for i, f := range r.Failed {
		report.Failed[i] = DeliveryFailure{Email: f.Identity, Reason: f.Reason}
	}
	return report
}

func fromInternalSubmissionList(ss []model.Submission) []Submission {
	result := make([]Submission, len(ss))
	for i, s := range ss {
		result[i] = Submission{
			ID:        s.ID,
			Email:     s.Identity,
			TaskID:    s.TaskID,
			Round:     s.Round,
			Nonce:     s.Nonce,
			RepoURL:   s.RepoURL,
			CommitSHA: s.CommitSHA,
			PagesURL:  s.PagesURL,
			CreatedAt: s.CreatedAt,
			UpdatedAt: s.UpdatedAt,
		}
	}
	return result
}

func fromInternalResultList(rs []model.Result) []Result {
	result := make([]Result, len(rs))
	for i, r := range rs {
		result[i] = Result{
			ID:        r.ID,
			Email:     r.Identity,
			TaskID:    r.TaskID,
			Round:     r.Round,
			RepoURL:   r.RepoURL,
			CommitSHA: r.CommitSHA,
			PagesURL:  r.PagesURL,
			Family:    string(r.Family),
			Check:     r.Check,
			Score:     r.Score,
			Reason:    r.Reason,
			Logs:      r.Logs,
			CreatedAt: r.CreatedAt,
		}
	}
	return result
}

func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, model.ErrNotFound):
		return joinErrors(err, ErrNotFound)
	case errors.Is(err, model.ErrAlreadyExists):
		return joinErrors(err, ErrAlreadyExists)
	case errors.Is(err, model.ErrNotValid), errors.Is(err, model.ErrConfiguration), errors.Is(err, model.ErrGeneration):
		return joinErrors(err, ErrNotValid)
	default:
		return err
	}
}

func joinErrors(original, sentinel error) error {
	return &mappedError{original: original, sentinel: sentinel}
}

type mappedError struct {
	original error
	sentinel error
}

func (e *mappedError) Error() string { return e.original.Error() }

func (e *mappedError) Is(target error) bool {
	return target == e.sentinel
}

func (e *mappedError) Unwrap() error { return e.original }
