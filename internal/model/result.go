package model

import "time"

// CheckFamily groups the results produced by one evaluation step.
type CheckFamily string

const (
	CheckFamilyLicense  CheckFamily = "license"
	CheckFamilyReadme   CheckFamily = "readme"
	CheckFamilyCode     CheckFamily = "code"
	CheckFamilyBehavior CheckFamily = "behavior"
)

// Result is the outcome of a single check for a submission. Results are append-only.
type Result struct {
	ID        string
	Identity  string
	TaskID    string
	Round     int
	RepoURL   string
	CommitSHA string
	PagesURL  string
	Family    CheckFamily
	Check     string
	Score     int
	Reason    string
	Logs      string
	CreatedAt time.Time
}

// CheckOutcome is what a check produces before being bound to a submission.
type CheckOutcome struct {
	Check  string
	Score  int
	Reason string
	Logs   string
}

// NewResult binds a check outcome to the submission it grades.
func NewResult(s Submission, family CheckFamily, o CheckOutcome) Result {
	return Result{
		Identity:  s.Identity,
		TaskID:    s.TaskID,
		Round:     s.Round,
		RepoURL:   s.RepoURL,
		CommitSHA: s.CommitSHA,
		PagesURL:  s.PagesURL,
		Family:    family,
		Check:     o.Check,
		Score:     o.Score,
		Reason:    o.Reason,
		Logs:      o.Logs,
	}
}
