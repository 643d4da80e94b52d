package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"
)

// SubmissionsCommand lists the received submissions.
type SubmissionsCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	format string
}

// NewSubmissionsCommand returns the submissions command.
func NewSubmissionsCommand(rootCmd *RootCommand, app *kingpin.Application) *SubmissionsCommand {
	c := &SubmissionsCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("submissions", "List the received submissions, most recent first.")
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

func (c SubmissionsCommand) Name() string { return c.Cmd.FullCommand() }

func (c SubmissionsCommand) Run(ctx context.Context) error {
	repo, err := c.rootCmd.openRepository(ctx)
	if err != nil {
		return err
	}
	defer repo.Close()

	subs, err := repo.ListSubmissions(ctx)
	if err != nil {
		return fmt.Errorf("could not list submissions: %w", err)
	}

	if err := c.rootCmd.printer(c.format).PrintSubmissions(subs); err != nil {
		return fmt.Errorf("could not print submissions: %w", err)
	}

	return nil
}

// ResultsCommand lists the evaluation results.
type ResultsCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	format string
}

// NewResultsCommand returns the results command.
func NewResultsCommand(rootCmd *RootCommand, app *kingpin.Application) *ResultsCommand {
	c := &ResultsCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("results", "List the evaluation results, most recent first.")
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

func (c ResultsCommand) Name() string { return c.Cmd.FullCommand() }

func (c ResultsCommand) Run(ctx context.Context) error {
	repo, err := c.rootCmd.openRepository(ctx)
	if err != nil {
		return err
	}
	defer repo.Close()

	results, err := repo.ListResults(ctx)
	if err != nil {
		return fmt.Errorf("could not list results: %w", err)
	}

	if err := c.rootCmd.printer(c.format).PrintResults(results); err != nil {
		return fmt.Errorf("could not print results: %w", err)
	}

	return nil
}
