package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/mylist/internal/formatter"
	"github.com/desertthunder/mylist/internal/models"
	"github.com/desertthunder/mylist/internal/services"
	"github.com/desertthunder/mylist/internal/tasks"
	"github.com/urfave/cli/v3"
)

func keyFrom(cmd *cli.Command) models.EntryKey {
	return models.EntryKey{
		UserID:      cmd.String("user"),
		ContentID:   cmd.String("content"),
		ContentType: cmd.String("type"),
	}
}

// EntriesAdd adds one entry and prints the inserted row.
func (r *Runner) EntriesAdd(ctx context.Context, cmd *cli.Command) (err error) {
	api, closeFn, err := r.listAPI(ctx, cmd)
	if err != nil {
		return err
	}
	defer closeErr(closeFn, &err)

	rows, err := api.Add(ctx, keyFrom(cmd))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(services.Rows(rows), false)
	}

	for _, row := range rows {
		if err := r.writeOK("added %s (%s) for %s [%s]", row.ContentID, row.ContentType, row.UserID, row.ID); err != nil {
			return err
		}
	}
	return nil
}

// EntriesShow prints one page of a user's list in the requested format.
func (r *Runner) EntriesShow(ctx context.Context, cmd *cli.Command) (err error) {
	format := cmd.String("format")
	user := cmd.String("user")

	api, closeFn, err := r.listAPI(ctx, cmd)
	if err != nil {
		return err
	}
	defer closeErr(closeFn, &err)

	page, err := api.List(ctx, services.ListQuery{
		UserID: user,
		Page:   cmd.Int("page"),
		Limit:  cmd.Int("limit"),
	})
	if err != nil {
		return err
	}

	if output := cmd.String("output"); output != "" || cmd.Bool("save") {
		path, err := formatter.WriteExport(page, format, user, output)
		if err != nil {
			return err
		}
		r.logger.Info("page exported", "path", path, "format", format)
		return r.writeOK("wrote %d of %d entries to %s", len(page.Entries), page.Count, path)
	}

	data, err := formatter.Render(page, format, user)
	if err != nil {
		return err
	}

	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		return r.writePlain("\n")
	}
	return nil
}

// EntriesRemove removes every entry matching the key and prints what was deleted.
func (r *Runner) EntriesRemove(ctx context.Context, cmd *cli.Command) (err error) {
	api, closeFn, err := r.listAPI(ctx, cmd)
	if err != nil {
		return err
	}
	defer closeErr(closeFn, &err)

	key := keyFrom(cmd)
	rows, err := api.Remove(ctx, key)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(services.Rows(rows), false)
	}

	if len(rows) == 0 {
		return r.writePlain("no entries matched %s (%s) for %s\n", key.ContentID, key.ContentType, key.UserID)
	}
	return r.writeOK("removed %d entries", len(rows))
}

// Ping checks the health endpoint of the server at --remote.
func (r *Runner) Ping(ctx context.Context, cmd *cli.Command) error {
	remote := cmd.String("remote")
	if err := services.NewAPIService(remote, r.httpClient).Health(ctx); err != nil {
		return fmt.Errorf("server at %s is not healthy: %w", remote, err)
	}
	return r.writeOK("%s is healthy", remote)
}

func closeErr(closeFn func() error, err *error) {
	if cerr := closeFn(); cerr != nil && *err == nil {
		*err = fmt.Errorf("failed to close store: %w", cerr)
	}
}

// EntriesExport writes every listed user's complete list to its own file and prints progress.
func (r *Runner) EntriesExport(ctx context.Context, cmd *cli.Command) (err error) {
	api, closeFn, err := r.listAPI(ctx, cmd)
	if err != nil {
		return err
	}
	defer closeErr(closeFn, &err)

	engine := tasks.NewExportEngine(api, r.config.Server.MaxPageSize)
	progress := make(chan tasks.ProgressUpdate, 16)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Info(update.Message, "phase", update.Phase.String())
		}
	}()

	result, err := engine.BulkExport(ctx, progress, cmd.StringSlice("users"), tasks.BulkExportOpts{
		Format:     cmd.String("format"),
		OutputDir:  cmd.String("output-dir"),
		NumWorkers: cmd.Int("workers"),
		RateLimit:  cmd.Float("rate"),
	})
	close(progress)
	<-done

	if err != nil {
		return err
	}

	if err := r.writeTitle(fmt.Sprintf("Exported %d of %d users to %s", result.SuccessfulExports, result.TotalUsers, result.OutputDirectory)); err != nil {
		return err
	}
	for _, res := range result.Results {
		if res.Success {
			if err := r.writeOK("%s: %d entries", res.UserID, res.Entries); err != nil {
				return err
			}
			continue
		}
		if err := r.writeFailed("%s: %v", res.UserID, res.Error); err != nil {
			return err
		}
	}
	return r.writePlain("Manifest: %s\n", result.ManifestPath)
}
