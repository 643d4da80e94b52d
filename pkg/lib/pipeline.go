package lib

import (
	"context"
	"fmt"

	"github.com/samudraneel05/TDSProject1/internal/app/distribute"
	"github.com/samudraneel05/TDSProject1/internal/app/intake"
	"github.com/samudraneel05/TDSProject1/internal/taskgen"
)

// GenerateTask returns the task a seed generates for a round. Nothing is stored.
//
// Family selects the template family on rounds after the first, it is ignored
// on the first round.
func (c *Client) GenerateTask(seed string, round int, family string) (*GeneratedTask, error) {
	task, err := c.generator.Generate(seed, round, family)
	if err != nil {
		return nil, mapError(fmt.Errorf("could not generate task: %w", err))
	}

	g := fromInternalGeneratedTask(taskgen.TaskID(task.TemplateID, task.Brief, task.Attachments), *task)
	return &g, nil
}

// DistributeOpts configures a round distribution.
type DistributeOpts struct {
	// Round is the round to distribute, starting at 1.
	Round int
	// Participants receive the first round. Later rounds go to the participants
	// that submitted the previous one.
	Participants []Participant
	// CallbackURL is where participants submit their work.
	CallbackURL string
}

// Distribute generates, stores and delivers the tasks of a round. Participants that
// already have a task for the round are skipped.
func (c *Client) Distribute(ctx context.Context, opts DistributeOpts) (*DistributionReport, error) {
	svc, err := distribute.NewService(distribute.ServiceConfig{
		Generator:   c.generator,
		Repository:  c.repo,
		CallbackURL: opts.CallbackURL,
		Logger:      c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid distribution options: %w: %w", ErrNotValid, err)
	}

	report, err := svc.Run(ctx, distribute.Request{
		Round:        opts.Round,
		Participants: toInternalParticipants(opts.Participants),
	})
	if err != nil {
		return nil, mapError(err)
	}

	r := fromInternalDistributionReport(*report)
	return &r, nil
}

// Submit accepts a submission for an issued task.
//
// Returns [ErrNotValid] when fields are missing or no issued task matches the
// email, task, round and nonce.
func (c *Client) Submit(ctx context.Context, s Submission) (SubmitStatus, error) {
	svc, err := intake.NewService(intake.ServiceConfig{
		Repository: c.repo,
		Logger:     c.logger,
	})
	if err != nil {
		return "", err
	}

	res, err := svc.Submit(ctx, intake.SubmitRequest{
		Email:     s.Email,
		Task:      s.TaskID,
		Round:     s.Round,
		Nonce:     s.Nonce,
		RepoURL:   s.RepoURL,
		CommitSHA: s.CommitSHA,
		PagesURL:  s.PagesURL,
	})
	if err != nil {
		return "", mapError(err)
	}

	return SubmitStatus(res.Status), nil
}

// Submissions returns every submission, most recently updated first.
func (c *Client) Submissions(ctx context.Context) ([]Submission, error) {
	subs, err := c.repo.ListSubmissions(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return fromInternalSubmissionList(subs), nil
}

// Results returns every evaluation result, most recent first.
func (c *Client) Results(ctx context.Context) ([]Result, error) {
	results, err := c.repo.ListResults(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return fromInternalResultList(results), nil
}
