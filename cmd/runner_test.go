package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/mylist/internal/repositories"
	"github.com/desertthunder/mylist/internal/services"
	"github.com/desertthunder/mylist/internal/shared"
	tu "github.com/desertthunder/mylist/internal/testing"
	"github.com/urfave/cli/v3"
)

// writeConfig writes a config file for driver whose database lives in a temp directory.
func writeConfig(t *testing.T, driver string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := fmt.Sprintf("[database]\ndriver = %q\npath = %q\n\n[log]\nlevel = \"debug\"\n", driver, filepath.Join(dir, "mylist.db"))
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

// run executes the CLI with args against r and returns what it printed.
func run(t *testing.T, r *Runner, args ...string) (string, error) {
	t.Helper()

	out, ok := r.output.(*bytes.Buffer)
	if !ok {
		t.Fatal("runner output must be a *bytes.Buffer")
	}
	out.Reset()

	err := newApp(r).Run(context.Background(), append([]string{"mylist"}, args...))
	return out.String(), err
}

func memoryAPI() services.ListAPI {
	return services.NewListService(services.ListServiceOpts{
		Store:  repositories.NewMemoryListRepository(),
		Logger: shared.NewLogger(&bytes.Buffer{}),
	})
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			api := memoryAPI()

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "/test/path/config.toml",
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				API:        api,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.api != api {
				t.Error("expected api to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil httpClient uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{HTTPClient: nil})

			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil || !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			if err := runner.writePlain("test"); err == nil {
				t.Error("expected error from failing writer")
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		want := []string{"serve", "setup", "migrate", "entries", "ping"}
		if len(commands) != len(want) {
			t.Fatalf("expected %d commands, got %d", len(want), len(commands))
		}
		for i, name := range want {
			if commands[i].Name != name {
				t.Errorf("expected command %d to be %s, got %s", i, name, commands[i].Name)
			}
		}
	})
}

func TestResolveConfig(t *testing.T) {
	configCmd := func(r *Runner, args ...string) error {
		app := &cli.Command{
			Name:  "mylist",
			Flags: []cli.Flag{configFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				_, err := r.resolveConfig(cmd)
				return err
			},
		}
		return app.Run(context.Background(), append([]string{"mylist"}, args...))
	}

	t.Run("loads --config", func(t *testing.T) {
		path := writeConfig(t, shared.DriverBolt)
		runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}, Logger: shared.NewLogger(&bytes.Buffer{})})

		if err := configCmd(runner, "--config", path); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if runner.config.Database.Driver != shared.DriverBolt {
			t.Errorf("expected bolt driver, got %s", runner.config.Database.Driver)
		}
	})

	t.Run("keeps injected config without a path", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Database.Driver = shared.DriverMemory
		runner := NewRunner(RunnerOpts{Config: config, Output: &bytes.Buffer{}})

		if err := configCmd(runner); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if runner.config != config {
			t.Error("expected injected config to be kept")
		}
	})

	t.Run("rejects invalid config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte("[database]\ndriver = \"mongo\"\n"), 0644); err != nil {
			t.Fatal(err)
		}
		runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}, Logger: shared.NewLogger(&bytes.Buffer{})})

		err := configCmd(runner, "--config", path)
		if !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestPalette(t *testing.T) {
	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{Output: output})

	if err := runner.writeOK("added %s", "c1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := runner.writeFailed("missing %s", "c2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := runner.writeTitle("Summary"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := "✓ added c1\n✗ missing c2\nSummary\n"
	if output.String() != expected {
		t.Errorf("expected plain text for non-terminal output, got %q", output.String())
	}
}
