package grader

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/samudraneel05/TDSProject1/test/integration/testutils"
)

// Config holds integration test configuration loaded from environment variables.
type Config struct {
	Binary string
}

func (c *Config) defaults() error {
	if c.Binary == "" {
		return fmt.Errorf("grader binary path is required (GRADER_INTEGRATION_BINARY)")
	}

	// go test changes the CWD to the package directory, relative paths would be wrong.
	if !filepath.IsAbs(c.Binary) {
		return fmt.Errorf("GRADER_INTEGRATION_BINARY must be an absolute path, got %q", c.Binary)
	}
	if _, err := os.Stat(c.Binary); err != nil {
		return fmt.Errorf("grader binary not found at %q: %w", c.Binary, err)
	}

	return nil
}

// NewConfig loads integration test configuration from environment variables.
// If the config is invalid or the activation env var is not set, the test is skipped.
func NewConfig(t *testing.T) Config {
	t.Helper()

	const (
		envActivation = "GRADER_INTEGRATION"
		envBinary     = "GRADER_INTEGRATION_BINARY"
	)

	if os.Getenv(envActivation) != "true" {
		t.Skipf("Skipping integration test: %s is not set to 'true'", envActivation)
	}

	c := Config{Binary: os.Getenv(envBinary)}
	if err := c.defaults(); err != nil {
		t.Skipf("Skipping due to invalid config: %s", err)
	}

	return c
}

// RunGraderCmd runs a grader command against a specific db path with logging disabled.
func RunGraderCmd(ctx context.Context, config Config, dbPath, cmdArgs string) (stdout, stderr []byte, err error) {
	args := fmt.Sprintf("--no-log --db-path %s %s", dbPath, cmdArgs)
	return testutils.RunGrader(ctx, nil, config.Binary, args, true)
}

// RunGenerate previews the task of a seed in JSON format.
func RunGenerate(ctx context.Context, config Config, dbPath, seed string, round int, family string) (stdout, stderr []byte, err error) {
	args := fmt.Sprintf("generate --format json --seed %s --round %d", seed, round)
	if family != "" {
		args += " --family " + family
	}
	return RunGraderCmd(ctx, config, dbPath, args)
}

// RunDistribute distributes a round in JSON format.
func RunDistribute(ctx context.Context, config Config, dbPath string, round int, rosterPath, callbackURL string) (stdout, stderr []byte, err error) {
	args := fmt.Sprintf("distribute --format json --round %d --callback-url %s", round, callbackURL)
	if rosterPath != "" {
		args += " --roster " + rosterPath
	}
	return RunGraderCmd(ctx, config, dbPath, args)
}

// RunSubmissions lists submissions in JSON format.
func RunSubmissions(ctx context.Context, config Config, dbPath string) (stdout, stderr []byte, err error) {
	return RunGraderCmd(ctx, config, dbPath, "submissions --format json")
}

// StartServe starts the intake API in the background, it is stopped with the context.
func StartServe(ctx context.Context, config Config, dbPath, listenAddr string) (*exec.Cmd, error) {
	args := strings.Fields(fmt.Sprintf("--no-log --db-path %s serve --listen %s", dbPath, listenAddr))
	cmd := testutils.GraderCmd(ctx, nil, config.Binary, args, true)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("could not start serve: %w", err)
	}
	return cmd, nil
}
