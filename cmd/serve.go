package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/mylist/internal/repositories"
	"github.com/desertthunder/mylist/internal/server"
	"github.com/desertthunder/mylist/internal/services"
	"github.com/desertthunder/mylist/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve opens the configured store and serves the list endpoints until SIGINT or SIGTERM.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config, err := r.resolveConfig(cmd)
	if err != nil {
		return err
	}

	if driver := cmd.String("driver"); driver != "" {
		config.Database.Driver = driver
		if err := config.Validate(); err != nil {
			return err
		}
	}

	store, err := repositories.Open(ctx, config.Database)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", config.Database.Driver, err)
	}
	defer store.Close()

	r.logger.Info("store ready", "driver", config.Database.Driver, "path", config.Database.Path)

	api := services.NewListService(services.ListServiceOpts{
		Store:       store,
		Logger:      r.logger,
		MaxPageSize: config.Server.MaxPageSize,
	})

	srv := server.NewHTTPServer(config.Server, server.NewRouter(api, config.Server, r.logger))
	if addr := cmd.String("addr"); addr != "" {
		srv.Addr = addr
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", srv.Addr, err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Serve(ctx, srv, ln, shared.WithLogger(r.logger, "component", "server"))
}
