package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/desertthunder/mylist/internal/formatter"
	"github.com/desertthunder/mylist/internal/models"
	"github.com/desertthunder/mylist/internal/shared"
	"golang.org/x/time/rate"
)

// BulkExportOpts contains configuration for bulk list exports.
type BulkExportOpts struct {
	Format     string  // Export format: text, csv, markdown, json
	OutputDir  string  // Base output directory (default: mylist_export_{epoch})
	NumWorkers int     // Concurrent writers (default: 5, max: 10)
	RateLimit  float64 // List fetches per second (default: 5)
}

// UserExportResult is the outcome of exporting one user's list.
type UserExportResult struct {
	UserID  string
	Entries int
	Success bool
	Files   []string
	Error   error
}

// BulkExportResult summarizes a [ExportEngine.BulkExport] run. Results are sorted by user ID.
type BulkExportResult struct {
	TotalUsers        int
	SuccessfulExports int
	FailedExports     int
	Results           []UserExportResult
	OutputDirectory   string
	ManifestPath      string
}

type exportJob struct {
	userID string
	page   *models.ListPage
	err    error
}

// BulkExport exports the complete lists of users concurrently with rate limiting and progress tracking.
//
// A single producer fetches lists under the rate limiter and hands them to a pool of writers.
// Only workers send on the results channel; fetch failures travel to them with the job.
// Failures are recorded per user and do not stop the run. A manifest summarizing the results is
// written to OutputDir.
func (e *ExportEngine) BulkExport(ctx context.Context, prog chan<- ProgressUpdate, users []string, opts BulkExportOpts) (*BulkExportResult, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("%w: at least one user is required", shared.ErrMissingArgument)
	}

	if opts.Format == "" {
		opts.Format = formatter.FormatJSON
	}
	if _, err := formatter.Render(&models.ListPage{}, opts.Format, ""); err != nil {
		return nil, err
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("mylist_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkExportResult{
		TotalUsers:      len(users),
		OutputDirectory: opts.OutputDir,
		Results:         make([]UserExportResult, 0, len(users)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan exportJob, len(users))
	results := make(chan UserExportResult, len(users))

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		defer close(jobs)
		for i, userID := range users {
			if err := limiter.Wait(ctx); err != nil {
				return
			}

			e.sendProgress(prog, fetchingEntriesUpdate(i+1, len(users), userID))

			page, err := e.FetchAll(ctx, userID)
			jobs <- exportJob{userID: userID, page: page, err: err}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			e.sendProgress(prog, exportCompletedUpdate(completed, len(users), res))
		} else {
			result.FailedExports++
			e.sendProgress(prog, exportFailedUpdate(completed, len(users), res))
		}
	}

	sort.Slice(result.Results, func(i, j int) bool {
		return result.Results[i].UserID < result.Results[j].UserID
	})

	if err := ctx.Err(); err != nil {
		return result, err
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := writeManifest(result, opts.Format, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	e.sendProgress(prog, manifestUpdate(manifestPath))

	return result, nil
}

// exportWorker writes lists from the jobs channel until it is closed or ctx is done.
func (e *ExportEngine) exportWorker(ctx context.Context, wg *sync.WaitGroup, jobs <-chan exportJob, results chan<- UserExportResult, opts BulkExportOpts) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results <- exportUser(job, opts)
	}
}

func exportUser(j exportJob, opts BulkExportOpts) UserExportResult {
	if j.err != nil {
		return UserExportResult{UserID: j.userID, Error: j.err}
	}

	res := UserExportResult{UserID: j.userID, Entries: len(j.page.Entries), Files: []string{}}

	target := filepath.Join(opts.OutputDir, formatter.DefaultFilename(j.userID, opts.Format))
	if _, err := formatter.WriteExport(j.page, opts.Format, j.userID, target); err != nil {
		res.Error = fmt.Errorf("%s export failed: %w", opts.Format, err)
		return res
	}

	res.Files = []string{target}
	res.Success = true
	return res
}

type manifestEntry struct {
	UserID  string   `json:"user_id"`
	Status  string   `json:"status"`
	Entries int      `json:"entries"`
	Files   []string `json:"files,omitempty"`
	Error   string   `json:"error,omitempty"`
}

type manifest struct {
	Format            string          `json:"format"`
	ExportedAt        time.Time       `json:"exported_at"`
	TotalUsers        int             `json:"total_users"`
	SuccessfulExports int             `json:"successful_exports"`
	FailedExports     int             `json:"failed_exports"`
	Users             []manifestEntry `json:"users"`
}

func writeManifest(result *BulkExportResult, format, path string) error {
	m := manifest{
		Format:            format,
		ExportedAt:        time.Now().UTC(),
		TotalUsers:        result.TotalUsers,
		SuccessfulExports: result.SuccessfulExports,
		FailedExports:     result.FailedExports,
		Users:             make([]manifestEntry, 0, len(result.Results)),
	}

	for _, res := range result.Results {
		entry := manifestEntry{UserID: res.UserID, Status: "success", Entries: res.Entries, Files: res.Files}
		if !res.Success {
			entry.Status = "failed"
			if res.Error != nil {
				entry.Error = res.Error.Error()
			}
		}
		m.Users = append(m.Users, entry)
	}

	data, err := shared.MarshalJSON(m, true)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
