package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alecthomas/kingpin/v2"
	"k8s.io/client-go/util/homedir"

	"github.com/samudraneel05/TDSProject1/internal/conventions"
	"github.com/samudraneel05/TDSProject1/internal/log"
	"github.com/samudraneel05/TDSProject1/internal/model"
	"github.com/samudraneel05/TDSProject1/internal/printer"
	storageio "github.com/samudraneel05/TDSProject1/internal/storage/io"
	"github.com/samudraneel05/TDSProject1/internal/storage/sqlite"
	"github.com/samudraneel05/TDSProject1/internal/taskgen"
)

const (
	// LoggerTypeDefault is the logger default type.
	LoggerTypeDefault = "default"
	// LoggerTypeJSON is the logger json type.
	LoggerTypeJSON = "json"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

// Command represents an application command, all commands that want to be executed
// should implement and setup on main.
type Command interface {
	Name() string
	Run(ctx context.Context) error
}

// RootCommand represents the root command configuration and global configuration
// for all the commands.
type RootCommand struct {
	// Global flags.
	Debug      bool
	NoLog      bool
	NoColor    bool
	LoggerType string
	DBPath     string

	// Global instances.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger log.Logger
}

// NewRootCommand initializes the main root configuration.
func NewRootCommand(app *kingpin.Application) *RootCommand {
	c := &RootCommand{}

	app.Flag("debug", "Enable debug mode.").BoolVar(&c.Debug)
	app.Flag("no-log", "Disable logger.").BoolVar(&c.NoLog)
	app.Flag("no-color", "Disable logger color.").BoolVar(&c.NoColor)
	app.Flag("logger", "Selects the logger type.").Default(LoggerTypeDefault).EnumVar(&c.LoggerType, LoggerTypeDefault, LoggerTypeJSON)

	defaultDBPath := conventions.DefaultDBPath(homedir.HomeDir())
	app.Flag("db-path", "Path to the SQLite database file.").Envar("GRADER_DB_PATH").Default(defaultDBPath).StringVar(&c.DBPath)

	return c
}

func (r *RootCommand) openRepository(ctx context.Context) (*sqlite.Repository, error) {
	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
		DBPath: r.DBPath,
		Logger: r.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create repository: %w", err)
	}
	return repo, nil
}

func (r *RootCommand) printer(format string) printer.Printer {
	if format == formatJSON {
		return printer.NewJSONPrinter(r.Stdout)
	}
	return printer.NewTablePrinter(r.Stdout)
}

func (r *RootCommand) newGenerator(ctx context.Context, templatesFile string) (*taskgen.Generator, error) {
	path, err := rootFSPath(templatesFile)
	if err != nil {
		return nil, fmt.Errorf("could not resolve templates path: %w", err)
	}

	templates, err := storageio.NewTemplateYAMLRepository(os.DirFS("/")).GetTemplates(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("could not load templates: %w", err)
	}

	gen, err := taskgen.NewGenerator(taskgen.GeneratorConfig{
		Templates: templates,
		Logger:    r.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create task generator: %w", err)
	}
	return gen, nil
}

func (r *RootCommand) loadRoster(ctx context.Context, rosterFile string) ([]model.Participant, error) {
	if rosterFile == "" {
		return nil, fmt.Errorf("a roster file is required: %w", model.ErrConfiguration)
	}

	path, err := rootFSPath(rosterFile)
	if err != nil {
		return nil, fmt.Errorf("could not resolve roster path: %w", err)
	}

	participants, err := storageio.NewRosterRepository(os.DirFS("/")).GetParticipants(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("could not load roster: %w", err)
	}
	return participants, nil
}

// rootFSPath returns the path of a file relative to the filesystem root, ready to be
// used on an `os.DirFS("/")`. Empty paths are kept empty.
func rootFSPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(abs)[1:], nil
}
