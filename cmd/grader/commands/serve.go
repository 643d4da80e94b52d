package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/oklog/run"

	"github.com/samudraneel05/TDSProject1/internal/app/intake"
	"github.com/samudraneel05/TDSProject1/internal/conventions"
	"github.com/samudraneel05/TDSProject1/internal/httpapi"
)

// ServeCommand serves the submission intake HTTP API.
type ServeCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	listenAddr      string
	shutdownTimeout time.Duration
}

// NewServeCommand returns the serve command.
func NewServeCommand(rootCmd *RootCommand, app *kingpin.Application) *ServeCommand {
	c := &ServeCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("serve", "Serve the submission intake HTTP API.")
	c.Cmd.Flag("listen", "HTTP listen address.").Default(conventions.DefaultListenAddr).StringVar(&c.listenAddr)
	c.Cmd.Flag("shutdown-timeout", "Time to wait for in flight requests on shutdown.").Default("10s").DurationVar(&c.shutdownTimeout)

	return c
}

func (c ServeCommand) Name() string { return c.Cmd.FullCommand() }

func (c ServeCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	repo, err := c.rootCmd.openRepository(ctx)
	if err != nil {
		return err
	}
	defer repo.Close()

	svc, err := intake.NewService(intake.ServiceConfig{
		Repository: repo,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	handler, err := httpapi.NewHandler(httpapi.HandlerConfig{
		Service: svc,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("could not create http handler: %w", err)
	}

	var g run.Group

	// HTTP server.
	{
		server := &http.Server{
			Addr:              c.listenAddr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		g.Add(
			func() error {
				logger.Infof("Listening on %s", c.listenAddr)
				err := server.ListenAndServe()
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("http server failed: %w", err)
				}
				return nil
			},
			func(_ error) {
				ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.shutdownTimeout)
				defer cancel()
				if err := server.Shutdown(ctx); err != nil {
					logger.Errorf("Could not shut down http server: %s", err)
				}
			},
		)
	}

	// Command context.
	{
		ctx, cancel := context.WithCancel(ctx)
		g.Add(
			func() error {
				<-ctx.Done()
				return nil
			},
			func(_ error) {
				cancel()
			},
		)
	}

	return g.Run()
}
