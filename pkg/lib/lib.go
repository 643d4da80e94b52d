package lib

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/samudraneel05/TDSProject1/internal/conventions"
	"github.com/samudraneel05/TDSProject1/internal/log"
	"github.com/samudraneel05/TDSProject1/internal/storage"
	storageio "github.com/samudraneel05/TDSProject1/internal/storage/io"
	"github.com/samudraneel05/TDSProject1/internal/storage/memory"
	"github.com/samudraneel05/TDSProject1/internal/storage/sqlite"
	"github.com/samudraneel05/TDSProject1/internal/taskgen"
)

// StorageType identifies where the client keeps tasks, submissions and results.
type StorageType string

const (
	// StorageSQLite uses a SQLite database file.
	StorageSQLite StorageType = "sqlite"
	// StorageMemory keeps everything in memory, it is lost on Close.
	StorageMemory StorageType = "memory"
)

// Config configures the SDK client.
//
// All fields are optional. An empty Config{} uses ~/.grader/grader.db and the
// built-in template registry.
type Config struct {
	// DBPath is the SQLite database path.
	// Default: ~/.grader/grader.db.
	DBPath string

	// Storage selects the storage type.
	// Default: [StorageSQLite].
	Storage StorageType

	// TemplatesFile is a template registry YAML file.
	// Default: the built-in registry.
	TemplatesFile string

	// Logger receives structured log output from the SDK.
	// Default: noop (silent). See the log sub-package for the interface.
	Logger log.Logger
}

func (c *Config) defaults() error {
	if c.Storage == "" {
		c.Storage = StorageSQLite
	}

	if c.Storage == StorageSQLite && c.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("could not get user home dir: %w", err)
		}
		c.DBPath = conventions.DefaultDBPath(home)
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	return nil
}

// Client is the main SDK entry point.
//
// Create a Client with [New] and release its resources with [Client.Close].
type Client struct {
	repo      storage.Repository
	generator *taskgen.Generator
	logger    log.Logger
	closeFn   func() error
}

// New creates a new SDK client.
//
// The caller must call [Client.Close] when done to release the storage.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	generator, err := newGenerator(ctx, cfg)
	if err != nil {
		return nil, mapError(err)
	}

	c := &Client{
		generator: generator,
		logger:    cfg.Logger,
	}

	switch cfg.Storage {
	case StorageMemory:
		repo, err := memory.NewRepository(memory.RepositoryConfig{Logger: cfg.Logger})
		if err != nil {
			return nil, fmt.Errorf("could not create repository: %w", err)
		}
		c.repo = repo
	case StorageSQLite:
		repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
			DBPath: cfg.DBPath,
			Logger: cfg.Logger,
		})
		if err != nil {
			return nil, fmt.Errorf("could not create repository: %w", err)
		}
		c.repo = repo
		c.closeFn = repo.Close
	default:
		return nil, fmt.Errorf("unsupported storage type %q: %w", cfg.Storage, ErrNotValid)
	}

	return c, nil
}

// Close releases resources held by the client.
// After Close returns, the client must not be used.
func (c *Client) Close() error {
	if c.closeFn != nil {
		return c.closeFn()
	}
	return nil
}

func newGenerator(ctx context.Context, cfg Config) (*taskgen.Generator, error) {
	repo := storageio.NewTemplateYAMLRepository(os.DirFS("/"))
	path := ""
	if cfg.TemplatesFile != "" {
		abs, err := filepath.Abs(cfg.TemplatesFile)
		if err != nil {
			return nil, fmt.Errorf("could not resolve templates path: %w", err)
		}
		repo = storageio.NewTemplateYAMLRepository(os.DirFS(filepath.Dir(abs)))
		path = filepath.Base(abs)
	}

	templates, err := repo.GetTemplates(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("could not load templates: %w", err)
	}

	return taskgen.NewGenerator(taskgen.GeneratorConfig{
		Templates: templates,
		Logger:    cfg.Logger,
	})
}
