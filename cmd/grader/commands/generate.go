package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/samudraneel05/TDSProject1/internal/taskgen"
)

// GenerateCommand previews the task a seed generates, nothing is stored or sent.
type GenerateCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	seed          string
	round         int
	family        string
	templatesFile string
	format        string
}

// NewGenerateCommand returns the generate command.
func NewGenerateCommand(rootCmd *RootCommand, app *kingpin.Application) *GenerateCommand {
	c := &GenerateCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("generate", "Preview the task generated for a seed.")
	c.Cmd.Flag("seed", "Generation seed.").Required().StringVar(&c.seed)
	c.Cmd.Flag("round", "Round to generate the task for.").Default("1").IntVar(&c.round)
	c.Cmd.Flag("family", "Template family, used on rounds after the first.").StringVar(&c.family)
	c.Cmd.Flag("templates", "Template registry YAML file, the built-in one when empty.").StringVar(&c.templatesFile)
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

func (c GenerateCommand) Name() string { return c.Cmd.FullCommand() }

func (c GenerateCommand) Run(ctx context.Context) error {
	gen, err := c.rootCmd.newGenerator(ctx, c.templatesFile)
	if err != nil {
		return err
	}

	task, err := gen.Generate(c.seed, c.round, c.family)
	if err != nil {
		return fmt.Errorf("could not generate task: %w", err)
	}

	taskID := taskgen.TaskID(task.TemplateID, task.Brief, task.Attachments)
	if err := c.rootCmd.printer(c.format).PrintGeneratedTask(taskID, *task); err != nil {
		return fmt.Errorf("could not print task: %w", err)
	}

	return nil
}
