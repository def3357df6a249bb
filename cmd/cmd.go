// submodule cmd contains command definitions
package main

import (
	"strings"

	"github.com/desertthunder/mylist/internal/formatter"
	"github.com/desertthunder/mylist/internal/services"
	"github.com/urfave/cli/v3"
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   defaultConfigPath,
	}
}

func remoteFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "remote",
		Aliases: []string{"r"},
		Usage:   "Base URL of a running mylist server; operates on the local store when empty",
	}
}

func keyFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "user",
			Aliases:  []string{"u"},
			Usage:    "User ID owning the entry",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "content",
			Usage:    "Content ID",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "type",
			Aliases:  []string{"t"},
			Usage:    "Content type (e.g. movie, show)",
			Required: true,
		},
	}
}

// serveCommand runs the HTTP server
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the list HTTP server",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "driver",
				Usage: "Storage driver override (sqlite, bolt or memory)",
			},
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address override (host:port)",
			},
		},
		Action: r.Serve,
	}
}

// setupCommand handles setup operations for configuration and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Write the example configuration file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Path for the new configuration file",
						Value:   defaultConfigPath,
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// migrateCommand manages schema migrations for the sqlite store.
func migrateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Manage database migrations",
		Commands: []*cli.Command{
			{
				Name:   "up",
				Usage:  "Apply pending migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.MigrateUp,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recent migration",
				Flags:  []cli.Flag{configFlag()},
				Action: r.MigrateRollback,
			},
			{
				Name:   "status",
				Usage:  "Show applied and pending migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.MigrateStatus,
			},
		},
	}
}

// entriesCommand operates on list entries, locally or against a running server.
func entriesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "entries",
		Aliases: []string{"list"},
		Usage:   "Add, show and remove list entries",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Add an entry to a user's list",
				Flags: append(keyFlags(),
					configFlag(),
					remoteFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				),
				Action: r.EntriesAdd,
			},
			{
				Name:  "show",
				Usage: "Show one page of a user's list",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "user",
						Aliases:  []string{"u"},
						Usage:    "User ID",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "page",
						Usage: "1-indexed page number",
						Value: services.DefaultPage,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Entries per page",
						Value: services.DefaultLimit,
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format (" + strings.Join(formatter.Formats, ", ") + ")",
						Value:   formatter.FormatText,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write the page to a file instead of stdout",
					},
					&cli.BoolFlag{
						Name:  "save",
						Usage: "Write the page to {user}_list.{ext}",
					},
					configFlag(),
					remoteFlag(),
				},
				Action: r.EntriesShow,
			},
			{
				Name:  "export",
				Usage: "Export complete lists for many users concurrently",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:     "users",
						Usage:    "User IDs to export (repeat or comma separate)",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format (" + strings.Join(formatter.Formats, ", ") + ")",
						Value:   formatter.FormatJSON,
					},
					&cli.StringFlag{
						Name:    "output-dir",
						Aliases: []string{"o"},
						Usage:   "Output directory (default: mylist_export_{epoch})",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent file writers",
						Value: 5,
					},
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "List fetches per second",
						Value: 5,
					},
					configFlag(),
					remoteFlag(),
				},
				Action: r.EntriesExport,
			},
			{
				Name:  "remove",
				Usage: "Remove every entry matching user, content and type",
				Flags: append(keyFlags(),
					configFlag(),
					remoteFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				),
				Action: r.EntriesRemove,
			},
		},
	}
}

// pingCommand checks a running server's health endpoint.
func pingCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "ping",
		Usage: "Check that a running server answers its health check",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "remote",
				Aliases: []string{"r"},
				Usage:   "Base URL of the server",
				Value:   "http://127.0.0.1:3000",
			},
		},
		Action: r.Ping,
	}
}
