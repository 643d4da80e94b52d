package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/samudraneel05/TDSProject1/internal/app/distribute"
	"github.com/samudraneel05/TDSProject1/internal/model"
)

// DistributeCommand generates and delivers the tasks of a round.
type DistributeCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	round         int
	rosterFile    string
	templatesFile string
	callbackURL   string
	format        string
}

// NewDistributeCommand returns the distribute command.
func NewDistributeCommand(rootCmd *RootCommand, app *kingpin.Application) *DistributeCommand {
	c := &DistributeCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("distribute", "Generate and deliver the tasks of a round.")
	c.Cmd.Flag("round", "Round to distribute.").Default("1").IntVar(&c.round)
	c.Cmd.Flag("roster", "Participants file (YAML or CSV), required on the first round.").StringVar(&c.rosterFile)
	c.Cmd.Flag("templates", "Template registry YAML file, the built-in one when empty.").StringVar(&c.templatesFile)
	c.Cmd.Flag("callback-url", "Submission URL sent to participants.").Envar("GRADER_CALLBACK_URL").Required().StringVar(&c.callbackURL)
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

func (c DistributeCommand) Name() string { return c.Cmd.FullCommand() }

func (c DistributeCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	var participants []model.Participant
	if c.round == 1 {
		p, err := c.rootCmd.loadRoster(ctx, c.rosterFile)
		if err != nil {
			return err
		}
		participants = p
	}

	gen, err := c.rootCmd.newGenerator(ctx, c.templatesFile)
	if err != nil {
		return err
	}

	repo, err := c.rootCmd.openRepository(ctx)
	if err != nil {
		return err
	}
	defer repo.Close()

	svc, err := distribute.NewService(distribute.ServiceConfig{
		Generator:   gen,
		Repository:  repo,
		CallbackURL: c.callbackURL,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	report, err := svc.Run(ctx, distribute.Request{
		Round:        c.round,
		Participants: participants,
	})
	if err != nil {
		return fmt.Errorf("could not distribute round %d: %w", c.round, err)
	}

	if err := c.rootCmd.printer(c.format).PrintDistribution(*report); err != nil {
		return fmt.Errorf("could not print report: %w", err)
	}

	return nil
}
