package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/samudraneel05/TDSProject1/internal/hosting"
	"github.com/samudraneel05/TDSProject1/internal/notify"
)

// NotifyCommand reports a finished submission to an evaluation URL, retrying with backoff.
type NotifyCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	url        string
	payload    notify.Payload
	maxRetries int
	format     string
}

// NewNotifyCommand returns the notify command.
func NewNotifyCommand(rootCmd *RootCommand, app *kingpin.Application) *NotifyCommand {
	c := &NotifyCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("notify", "Notify an evaluation URL about a submission.")
	c.Cmd.Flag("url", "Evaluation URL.").Required().StringVar(&c.url)
	c.Cmd.Flag("email", "Participant email.").Required().StringVar(&c.payload.Email)
	c.Cmd.Flag("task", "Task ID.").Required().StringVar(&c.payload.Task)
	c.Cmd.Flag("round", "Round.").Required().IntVar(&c.payload.Round)
	c.Cmd.Flag("nonce", "Task nonce.").Required().StringVar(&c.payload.Nonce)
	c.Cmd.Flag("repo-url", "Repository URL.").Required().StringVar(&c.payload.RepoURL)
	c.Cmd.Flag("commit-sha", "Commit SHA.").Required().StringVar(&c.payload.CommitSHA)
	c.Cmd.Flag("pages-url", "Published site URL, derived from the repository URL when empty.").StringVar(&c.payload.PagesURL)
	c.Cmd.Flag("max-retries", "Total number of delivery attempts.").Default("5").IntVar(&c.maxRetries)
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

func (c NotifyCommand) Name() string { return c.Cmd.FullCommand() }

func (c NotifyCommand) Run(ctx context.Context) error {
	if c.payload.PagesURL == "" {
		host, err := hosting.NewGitHub(hosting.GitHubConfig{Logger: c.rootCmd.Logger})
		if err != nil {
			return fmt.Errorf("could not create hosting client: %w", err)
		}
		pagesURL, err := host.PagesURL(c.payload.RepoURL)
		if err != nil {
			return fmt.Errorf("could not derive pages URL: %w", err)
		}
		c.payload.PagesURL = pagesURL
	}

	dispatcher, err := notify.NewDispatcher(notify.DispatcherConfig{
		MaxRetries: c.maxRetries,
		Logger:     c.rootCmd.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create dispatcher: %w", err)
	}

	outcome := dispatcher.Notify(ctx, c.url, c.payload)
	if err := c.rootCmd.printer(c.format).PrintNotification(outcome); err != nil {
		return fmt.Errorf("could not print outcome: %w", err)
	}

	if !outcome.Success {
		return fmt.Errorf("notification not delivered after %d attempts", outcome.Attempts)
	}

	return nil
}
