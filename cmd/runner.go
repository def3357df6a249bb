package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mylist/internal/repositories"
	"github.com/desertthunder/mylist/internal/services"
	"github.com/desertthunder/mylist/internal/shared"
	"github.com/urfave/cli/v3"
)

const defaultConfigPath = "config.toml"

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	api        services.ListAPI
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	palette    *palette
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	API        services.ListAPI
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		api:        opts.API,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		palette:    newPalette(opts.Output),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, setupCommand, migrateCommand, entriesCommand, pingCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// resolveConfig loads the file named by --config (or the runner's default path) with environment
// overrides applied, and sets the log level from it.
//
// Without a path the runner's current config is used as is.
func (r *Runner) resolveConfig(cmd *cli.Command) (*shared.Config, error) {
	path := r.configPath
	if cmd.IsSet("config") {
		path = cmd.String("config")
	}
	if path == "" {
		return r.config, nil
	}

	config, err := shared.ResolveConfig(path)
	if err != nil {
		return nil, err
	}

	if err := shared.ConfigureLogLevel(r.logger, config.Log.Level); err != nil {
		return nil, err
	}

	r.config = config
	return config, nil
}

// listAPI returns the [services.ListAPI] a command operates on.
//
// An injected API wins, then --remote (a running server), then a store opened from config.
// The returned close function releases whatever was opened.
func (r *Runner) listAPI(ctx context.Context, cmd *cli.Command) (services.ListAPI, func() error, error) {
	noop := func() error { return nil }

	if r.api != nil {
		return r.api, noop, nil
	}

	if remote := cmd.String("remote"); remote != "" {
		r.logger.Debug("using remote server", "url", remote)
		return services.NewAPIService(remote, r.httpClient), noop, nil
	}

	config, err := r.resolveConfig(cmd)
	if err != nil {
		return nil, noop, err
	}

	store, err := repositories.Open(ctx, config.Database)
	if err != nil {
		return nil, noop, fmt.Errorf("failed to open %s store: %w", config.Database.Driver, err)
	}

	api := services.NewListService(services.ListServiceOpts{
		Store:       store,
		Logger:      r.logger,
		MaxPageSize: config.Server.MaxPageSize,
	})
	return api, store.Close, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
