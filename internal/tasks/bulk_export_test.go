package tasks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/mylist/internal/formatter"
	"github.com/desertthunder/mylist/internal/models"
	"github.com/desertthunder/mylist/internal/repositories"
	"github.com/desertthunder/mylist/internal/services"
	"github.com/desertthunder/mylist/internal/shared"
	tu "github.com/desertthunder/mylist/internal/testing"
)

// flakyAPI fails List for one user and delegates the rest.
type flakyAPI struct {
	services.ListAPI
	failUser string
}

func (f *flakyAPI) List(ctx context.Context, q services.ListQuery) (*models.ListPage, error) {
	if q.UserID == f.failUser {
		return nil, services.NewError(services.KindStorage, tu.ErrStoreDown)
	}
	return f.ListAPI.List(ctx, q)
}

// cancelingAPI serves a large list for "big", cancels the run while fetching "last",
// and answers every other user with a single entry.
type cancelingAPI struct {
	services.ListAPI
	cancel context.CancelFunc
	big    []models.ListEntry
}

func (c *cancelingAPI) List(ctx context.Context, q services.ListQuery) (*models.ListPage, error) {
	switch q.UserID {
	case "big":
		return &models.ListPage{Entries: c.big, Count: len(c.big)}, nil
	case "last":
		c.cancel()
		time.Sleep(200 * time.Millisecond)
		return nil, services.NewError(services.KindStorage, tu.ErrStoreDown)
	default:
		e := models.ListEntry{ID: q.UserID + "-1", UserID: q.UserID, ContentID: "c1", ContentType: "movie"}
		return &models.ListPage{Entries: []models.ListEntry{e}, Count: 1}, nil
	}
}

func TestBulkExport_SuccessfulExport(t *testing.T) {
	tests := []struct {
		name   string
		format string
		ext    string
		check  string
	}{
		{name: "json export", format: formatter.FormatJSON, ext: "json", check: `"count": 3`},
		{name: "csv export", format: formatter.FormatCSV, ext: "csv", check: "ID,User,Content,Type,Created"},
		{name: "markdown export", format: formatter.FormatMarkdown, ext: "md", check: "# My List: u1"},
		{name: "text export", format: formatter.FormatText, ext: "txt", check: "Entries: 3 of 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()
			api := seededAPI(t, repositories.NewMemoryListRepository(), map[string]int{"u1": 3, "u2": 1})
			engine := NewExportEngine(api, 2)

			result, err := engine.BulkExport(context.Background(), nil, []string{"u2", "u1"}, BulkExportOpts{
				Format:    tt.format,
				OutputDir: tempDir,
				RateLimit: 1000,
			})
			if err != nil {
				t.Fatalf("BulkExport failed: %v", err)
			}

			if result.TotalUsers != 2 || result.SuccessfulExports != 2 || result.FailedExports != 0 {
				t.Errorf("unexpected totals: %+v", result)
			}
			if result.Results[0].UserID != "u1" || result.Results[1].UserID != "u2" {
				t.Errorf("expected results sorted by user, got %s, %s", result.Results[0].UserID, result.Results[1].UserID)
			}
			if result.Results[0].Entries != 3 {
				t.Errorf("expected 3 entries for u1, got %d", result.Results[0].Entries)
			}

			path := filepath.Join(tempDir, "u1_list."+tt.ext)
			tu.AssertFileExists(t, path)
			if content := tu.MustReadFile(t, path); !strings.Contains(content, tt.check) {
				t.Errorf("expected %q in %s, got:\n%s", tt.check, path, content)
			}

			if result.ManifestPath != filepath.Join(tempDir, "export_manifest.json") {
				t.Errorf("unexpected manifest path %s", result.ManifestPath)
			}
			manifest := tu.MustReadFile(t, result.ManifestPath)
			for _, want := range []string{`"format": "` + tt.format + `"`, `"total_users": 2`, `"status": "success"`} {
				if !strings.Contains(manifest, want) {
					t.Errorf("manifest missing %s:\n%s", want, manifest)
				}
			}
		})
	}
}

func TestBulkExport_PartialFailures(t *testing.T) {
	tempDir := t.TempDir()
	api := &flakyAPI{
		ListAPI:  seededAPI(t, repositories.NewMemoryListRepository(), map[string]int{"u1": 1, "u2": 1}),
		failUser: "u2",
	}

	progress := make(chan ProgressUpdate, 32)
	result, err := NewExportEngine(api, 10).BulkExport(context.Background(), progress, []string{"u1", "u2"}, BulkExportOpts{
		Format:    formatter.FormatCSV,
		OutputDir: tempDir,
		RateLimit: 1000,
	})
	if err != nil {
		t.Fatalf("BulkExport failed: %v", err)
	}
	close(progress)

	if result.SuccessfulExports != 1 || result.FailedExports != 1 {
		t.Errorf("expected 1 success and 1 failure, got %+v", result)
	}
	if failed := result.Results[1]; failed.Success || !errors.Is(failed.Error, tu.ErrStoreDown) {
		t.Errorf("expected u2 to fail with store error, got %+v", failed)
	}

	manifest := tu.MustReadFile(t, result.ManifestPath)
	if !strings.Contains(manifest, `"status": "failed"`) || !strings.Contains(manifest, tu.ErrStoreDown.Error()) {
		t.Errorf("manifest missing failure:\n%s", manifest)
	}

	var phases []Phase
	for u := range progress {
		phases = append(phases, u.Phase)
	}
	if len(phases) == 0 || phases[len(phases)-1] != WriteManifest {
		t.Errorf("expected progress to end with manifest update, got %v", phases)
	}
}

func TestBulkExport_InvalidOptions(t *testing.T) {
	engine := NewExportEngine(seededAPI(t, repositories.NewMemoryListRepository(), nil), 0)

	t.Run("no users", func(t *testing.T) {
		_, err := engine.BulkExport(context.Background(), nil, nil, BulkExportOpts{OutputDir: t.TempDir()})
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := engine.BulkExport(context.Background(), nil, []string{"u1"}, BulkExportOpts{Format: "xml", OutputDir: t.TempDir()})
		if !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})

	t.Run("invalid output directory", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}

		_, err := engine.BulkExport(context.Background(), nil, []string{"u1"}, BulkExportOpts{OutputDir: filepath.Join(file, "sub")})
		if err == nil || !strings.Contains(err.Error(), "failed to create output directory") {
			t.Errorf("expected directory error, got %v", err)
		}
	})
}

func TestBulkExport_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	api := seededAPI(t, repositories.NewMemoryListRepository(), map[string]int{"u1": 1})
	result, err := NewExportEngine(api, 0).BulkExport(ctx, nil, []string{"u1", "u2", "u3"}, BulkExportOpts{
		OutputDir: t.TempDir(),
		RateLimit: 1000,
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if result == nil || result.ManifestPath != "" {
		t.Errorf("expected partial result without manifest, got %+v", result)
	}
}

func TestBulkExport_CancelDuringFetch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	big := make([]models.ListEntry, 50000)
	for i := range big {
		big[i] = models.ListEntry{ID: fmt.Sprintf("e%d", i), UserID: "big", ContentID: fmt.Sprintf("c%d", i), ContentType: "movie"}
	}
	api := &cancelingAPI{cancel: cancel, big: big}

	result, err := NewExportEngine(api, 0).BulkExport(ctx, nil, []string{"big", "small", "last"}, BulkExportOpts{
		OutputDir:  t.TempDir(),
		NumWorkers: 1,
		RateLimit:  1000,
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if result == nil || result.ManifestPath != "" {
		t.Fatalf("expected partial result without manifest, got %+v", result)
	}
	if len(result.Results) > 3 {
		t.Errorf("expected at most 3 results, got %d", len(result.Results))
	}

	// let the producer finish its last fetch before the test returns
	time.Sleep(300 * time.Millisecond)
}

func TestBulkExport_DefaultOptions(t *testing.T) {
	t.Chdir(t.TempDir())

	api := seededAPI(t, repositories.NewMemoryListRepository(), map[string]int{"u1": 1})
	result, err := NewExportEngine(api, 0).BulkExport(context.Background(), nil, []string{"u1"}, BulkExportOpts{NumWorkers: 50})
	if err != nil {
		t.Fatalf("BulkExport failed: %v", err)
	}

	if !strings.HasPrefix(result.OutputDirectory, "mylist_export_") {
		t.Errorf("expected default output directory, got %s", result.OutputDirectory)
	}
	tu.AssertFileExists(t, filepath.Join(result.OutputDirectory, "u1_list.json"))
}
