package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kingpin/v2"

	"github.com/samudraneel05/TDSProject1/internal/app/evaluate"
	"github.com/samudraneel05/TDSProject1/internal/browser"
	browserchromedp "github.com/samudraneel05/TDSProject1/internal/browser/chromedp"
	"github.com/samudraneel05/TDSProject1/internal/browser/static"
	"github.com/samudraneel05/TDSProject1/internal/hosting"
	"github.com/samudraneel05/TDSProject1/internal/llm"
)

const (
	browserChromedp = "chromedp"
	browserStatic   = "static"
)

// EvaluateCommand grades the submissions that have no results yet.
type EvaluateCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	round           int
	browserType     string
	chromePath      string
	chromeNoSandbox bool
	llmAPIKey       string
	llmBaseURL      string
	llmModel        string
	llmTimeout      time.Duration
	rawBaseURL      string
	format          string
}

// NewEvaluateCommand returns the evaluate command.
func NewEvaluateCommand(rootCmd *RootCommand, app *kingpin.Application) *EvaluateCommand {
	c := &EvaluateCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("evaluate", "Grade the submissions that have not been evaluated yet.")
	c.Cmd.Flag("round", "Only evaluate this round, 0 evaluates every round.").Default("0").IntVar(&c.round)
	c.Cmd.Flag("browser", "Browser used for behavioral checks (chromedp, static).").Default(browserChromedp).EnumVar(&c.browserType, browserChromedp, browserStatic)
	c.Cmd.Flag("chrome-path", "Chrome binary, looked up on the PATH when empty.").StringVar(&c.chromePath)
	c.Cmd.Flag("chrome-no-sandbox", "Disable the Chrome sandbox (needed as root in containers).").BoolVar(&c.chromeNoSandbox)
	c.Cmd.Flag("llm-api-key", "LLM API key, OPENAI_API_KEY is used when empty.").Envar("GRADER_LLM_API_KEY").StringVar(&c.llmAPIKey)
	c.Cmd.Flag("llm-base-url", "OpenAI compatible API base URL.").Default(llm.DefaultBaseURL).StringVar(&c.llmBaseURL)
	c.Cmd.Flag("llm-model", "LLM model used for the rubrics.").Default(llm.DefaultModel).StringVar(&c.llmModel)
	c.Cmd.Flag("llm-timeout", "LLM request timeout.").Default("120s").DurationVar(&c.llmTimeout)
	c.Cmd.Flag("raw-base-url", "Raw repository content base URL.").Default(hosting.DefaultRawBaseURL).StringVar(&c.rawBaseURL)
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

func (c EvaluateCommand) Name() string { return c.Cmd.FullCommand() }

func (c EvaluateCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	apiKey := c.llmAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	llmClient, err := llm.NewOpenAIClient(llm.OpenAIClientConfig{
		BaseURL: c.llmBaseURL,
		APIKey:  apiKey,
		Model:   c.llmModel,
		Timeout: c.llmTimeout,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("could not create LLM client: %w", err)
	}

	host, err := hosting.NewGitHub(hosting.GitHubConfig{
		RawBaseURL: c.rawBaseURL,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create hosting client: %w", err)
	}

	repo, err := c.rootCmd.openRepository(ctx)
	if err != nil {
		return err
	}
	defer repo.Close()

	var b browser.Browser
	switch c.browserType {
	case browserStatic:
		b, err = static.NewBrowser(static.BrowserConfig{Logger: logger})
		if err != nil {
			return fmt.Errorf("could not create browser: %w", err)
		}
	default:
		chrome, err := browserchromedp.NewBrowser(ctx, browserchromedp.BrowserConfig{
			ExecPath:  c.chromePath,
			NoSandbox: c.chromeNoSandbox,
			Logger:    logger,
		})
		if err != nil {
			logger.Errorf("Could not start Chrome, behavioral checks will fail: %s", err)
			b = browser.Unavailable(err)
			break
		}
		defer chrome.Close()
		b = chrome
	}

	svc, err := evaluate.NewService(evaluate.ServiceConfig{
		Repository: repo,
		Host:       host,
		LLM:        llmClient,
		Browser:    b,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	report, err := svc.Run(ctx, evaluate.Request{Round: c.round})
	if err != nil {
		return fmt.Errorf("could not evaluate submissions: %w", err)
	}

	if err := c.rootCmd.printer(c.format).PrintEvaluation(*report); err != nil {
		return fmt.Errorf("could not print report: %w", err)
	}

	return nil
}
