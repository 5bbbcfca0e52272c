package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/analysis"
	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/repositories"
	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/shared"
	tu "github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/testing"
	"github.com/urfave/cli/v3"
)

const (
	idA  = "AAAAAAAAAAAAAAAAAAAAAA"
	idB  = "BBBBBBBBBBBBBBBBBBBBBB"
	refA = "https://open.spotify.com/playlist/" + idA
	refB = "spotify:playlist:" + idB
)

func newService() *tu.MockService {
	return tu.NewMockService().
		Add(refA, tu.NewSnapshot(idA, "Morning",
			tu.NewTrack("Yellow", "Coldplay", "permanent wave pop", "2024-01-01", 80),
			tu.NewTrack("Clocks", "Coldplay", "permanent wave pop", "2024-01-01", 75),
			tu.NewTrack("Creep", "Radiohead", "alternative rock", "2024-03-05", 85),
		)).
		Add(refB, tu.NewSnapshot(idB, "Evening",
			tu.NewTrack("Yellow", "Coldplay", "permanent wave pop", "2024-02-02", 80),
			tu.NewTrack("Creep", "Radiohead", "alternative rock", "2024-03-05", 85),
		))
}

func newHistory(t *testing.T) *repositories.ReportRepository {
	t.Helper()

	db, err := shared.OpenHistory(shared.DatabaseConfig{Path: ":memory:"})
	if err != nil {
		t.Fatalf("failed to open history: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return repositories.NewReportRepository(db)
}

// run executes args against a root command built like main's.
func run(runner *Runner, args ...string) error {
	app := &cli.Command{
		Name: "spa",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level"},
			&cli.StringFlag{Name: "env-file"},
		},
		Commands: runner.register(),
	}
	return app.Run(context.Background(), append([]string{"spa"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			svc := newService()
			history := newHistory(t)

			runner := NewRunner(RunnerOpts{
				Config:  config,
				Logger:  logger,
				Output:  output,
				Service: svc,
				History: history,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.service != svc {
				t.Error("expected service to be set")
			}
			if runner.history != history {
				t.Error("expected history to be set")
			}
			if runner.spinner {
				t.Error("expected spinner to stay off for a custom writer")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Logger: nil,
			})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Output: nil,
			})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
			if !runner.spinner {
				t.Error("expected spinner on for stdout")
			}
		})

		t.Run("Close without a database", func(t *testing.T) {
			if err := NewRunner(RunnerOpts{}).Close(); err != nil {
				t.Errorf("expected nil, got %v", err)
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, true)

			if err != nil {
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

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			expected := `{"key":"value"}` + "\n"
			if result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			// channels cannot be marshaled to JSON
			data := make(chan int)
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			data := map[string]string{"key": "value"}
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writePlain("hello %s", "world")

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if result != "hello world" {
				t.Errorf("expected 'hello world', got %q", result)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			err := runner.writePlain("test")

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) == 0 {
			t.Error("expected at least one command to be registered")
		}

		for i, cmd := range commands {
			if cmd == nil {
				t.Errorf("command at index %d is nil", i)
			}
		}
	})
}

func TestAnalyse(t *testing.T) {
	newRunner := func(t *testing.T, output *bytes.Buffer) *Runner {
		return NewRunner(RunnerOpts{
			Config:  shared.DefaultConfig(),
			Service: newService(),
			Logger:  shared.NewLogger(&bytes.Buffer{}),
			Output:  output,
		})
	}

	t.Run("prints a plain text report", func(t *testing.T) {
		output := &bytes.Buffer{}
		if err := run(newRunner(t, output), "analyse", refA, refB); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		for _, want := range []string{"Playlist A: Morning (3 tracks)", "Playlist B: Evening (2 tracks)", "Similarity:", "Creep"} {
			if !strings.Contains(output.String(), want) {
				t.Errorf("output missing %q:\n%s", want, output.String())
			}
		}
	})

	t.Run("prints JSON", func(t *testing.T) {
		output := &bytes.Buffer{}
		if err := run(newRunner(t, output), "analyse", "--json", "--vocabulary", "directional", refA, refB); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var report analysis.Report
		if err := json.Unmarshal(output.Bytes(), &report); err != nil {
			t.Fatalf("expected valid JSON, got %v\n%s", err, output.String())
		}
		if report.PlaylistA.Name != "Morning" || report.PlaylistB.Name != "Evening" {
			t.Errorf("unexpected playlists %q / %q", report.PlaylistA.Name, report.PlaylistB.Name)
		}
		if report.Vocabulary != analysis.VocabularyDirectional {
			t.Errorf("expected directional vocabulary, got %s", report.Vocabulary)
		}
		if report.Similarity < 0 || report.Similarity > 100 {
			t.Errorf("similarity out of range: %v", report.Similarity)
		}
	})

	t.Run("prints styled tables", func(t *testing.T) {
		output := &bytes.Buffer{}
		if err := run(newRunner(t, output), "analyse", "--pretty", "--tracks", refA, refB); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		for _, want := range []string{"Morning (3 tracks)", "Common songs", "Tracks added per day"} {
			if !strings.Contains(output.String(), want) {
				t.Errorf("output missing %q:\n%s", want, output.String())
			}
		}
	})

	t.Run("exports markdown", func(t *testing.T) {
		dir := t.TempDir()
		output := &bytes.Buffer{}
		if err := run(newRunner(t, output), "analyse", "--export", dir, "--format", "md", refA, refB); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		path := filepath.Join(dir, "morning-vs-evening.md")
		tu.AssertFileExists(t, path)
		if content := tu.MustReadFile(t, path); !strings.Contains(content, "# Morning vs Evening") {
			t.Errorf("unexpected markdown:\n%s", content)
		}
	})

	t.Run("saves to history", func(t *testing.T) {
		history := newHistory(t)
		runner := NewRunner(RunnerOpts{
			Config:  shared.DefaultConfig(),
			Service: newService(),
			History: history,
			Logger:  shared.NewLogger(&bytes.Buffer{}),
			Output:  &bytes.Buffer{},
		})

		if err := run(runner, "analyse", "--save", refA, refB); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		records, err := history.List(nil)
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if len(records) != 1 || records[0].Meta().PlaylistAName != "Morning" {
			t.Errorf("expected one saved report, got %d", len(records))
		}
	})

	t.Run("errors", func(t *testing.T) {
		tc := []struct {
			name string
			args []string
			want error
		}{
			{name: "missing playlist", args: []string{"analyse", refA}, want: shared.ErrMissingArgument},
			{name: "invalid reference", args: []string{"analyse", "not-a-playlist", refB}, want: shared.ErrInvalidPlaylistReference},
			{name: "unknown vocabulary", args: []string{"analyse", "--vocabulary", "tfidf", refA, refB}, want: shared.ErrInvalidArgument},
			{name: "unknown format", args: []string{"analyse", "--export", "out", "--format", "xml", refA, refB}, want: shared.ErrInvalidArgument},
			{name: "save without history", args: []string{"analyse", "--save", refA, refB}, want: shared.ErrHistoryDisabled},
			{name: "missing playlist upstream", args: []string{"analyse", refA, "spotify:playlist:CCCCCCCCCCCCCCCCCCCCCC"}, want: shared.ErrPlaylistNotFound},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				err := run(newRunner(t, &bytes.Buffer{}), tt.args...)
				if !errors.Is(err, tt.want) {
					t.Errorf("expected %v, got %v", tt.want, err)
				}
			})
		}
	})

	t.Run("missing credentials", func(t *testing.T) {
		t.Setenv(shared.EnvClientID, "")
		t.Setenv(shared.EnvClientSecret, "")

		runner := NewRunner(RunnerOpts{
			Config: shared.DefaultConfig(),
			Logger: shared.NewLogger(&bytes.Buffer{}),
			Output: &bytes.Buffer{},
		})

		err := run(runner, "analyse", refA, refB)
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})
}

func TestHistory(t *testing.T) {
	setup := func(t *testing.T) (*Runner, *bytes.Buffer, string) {
		t.Helper()

		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{
			Config:  shared.DefaultConfig(),
			Service: newService(),
			History: newHistory(t),
			Logger:  shared.NewLogger(&bytes.Buffer{}),
			Output:  output,
		})

		if err := run(runner, "analyse", "--json", "--save", refA, refB); err != nil {
			t.Fatalf("failed to save report: %v", err)
		}

		var report analysis.Report
		if err := json.Unmarshal(output.Bytes(), &report); err != nil {
			t.Fatalf("failed to decode report: %v", err)
		}
		if report.ID == "" {
			t.Fatal("expected saved report to carry an ID")
		}

		output.Reset()
		return runner, output, report.ID
	}

	t.Run("list", func(t *testing.T) {
		runner, output, id := setup(t)

		if err := run(runner, "history", "list"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		for _, want := range []string{"Saved reports (1)", "Morning vs Evening", id} {
			if !strings.Contains(output.String(), want) {
				t.Errorf("output missing %q:\n%s", want, output.String())
			}
		}
	})

	t.Run("list as JSON", func(t *testing.T) {
		runner, output, id := setup(t)

		if err := run(runner, "history", "list", "--json", "--playlist", idA); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var entries []historyEntry
		if err := json.Unmarshal(output.Bytes(), &entries); err != nil {
			t.Fatalf("expected valid JSON, got %v", err)
		}
		if len(entries) != 1 || entries[0].ID != id || entries[0].Sequence != 1 {
			t.Errorf("unexpected entries %+v", entries)
		}
	})

	t.Run("show", func(t *testing.T) {
		runner, output, id := setup(t)

		if err := run(runner, "history", "show", id); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "Playlist A: Morning (3 tracks)") {
			t.Errorf("unexpected output:\n%s", output.String())
		}
	})

	t.Run("delete", func(t *testing.T) {
		runner, output, id := setup(t)

		if err := run(runner, "history", "delete", id); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "Deleted report "+id) {
			t.Errorf("unexpected output:\n%s", output.String())
		}

		if err := run(runner, "history", "show", id); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
		if err := run(runner, "history", "delete", id); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound on second delete, got %v", err)
		}
	})

	t.Run("missing id", func(t *testing.T) {
		runner, _, _ := setup(t)
		if err := run(runner, "history", "show"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("disabled", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{
			Config: shared.DefaultConfig(),
			Logger: shared.NewLogger(&bytes.Buffer{}),
			Output: &bytes.Buffer{},
		})

		if err := run(runner, "history", "list"); !errors.Is(err, shared.ErrHistoryDisabled) {
			t.Errorf("expected ErrHistoryDisabled, got %v", err)
		}
	})
}

func TestSetup(t *testing.T) {
	t.Run("config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(&bytes.Buffer{}), Output: output})

		if err := run(runner, "setup", "config", "--config", path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		tu.AssertFileExists(t, path)

		if _, err := shared.LoadConfig(path); err != nil {
			t.Errorf("expected written config to load, got %v", err)
		}

		if err := run(runner, "setup", "config", "--config", path); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected error for existing file, got %v", err)
		}
	})

	t.Run("database", func(t *testing.T) {
		dir := t.TempDir()
		config := shared.DefaultConfig()
		config.Database.Path = filepath.Join(dir, "spa.db")

		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Config: config, Logger: shared.NewLogger(&bytes.Buffer{}), Output: output})

		if err := run(runner, "setup", "database", "--config", filepath.Join(dir, "config.toml")); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		tu.AssertFileExists(t, config.Database.Path)
		if !strings.Contains(output.String(), "Database ready") {
			t.Errorf("unexpected output:\n%s", output.String())
		}
	})
}
