package main

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/analysis"
	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/models"
	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/repositories"
	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/services"
	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/shared"
	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/tasks"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
)

// HistoryStore is the report history used by the history commands and the engine.
type HistoryStore = models.Repository[*models.ReportRecord]

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Dependencies left nil are built lazily from the configuration named by the --config flag.
type Runner struct {
	config  *shared.Config
	service services.Service
	engine  *tasks.AnalysisEngine
	history HistoryStore
	db      *sql.DB
	logger  *log.Logger
	output  io.Writer
	spinner bool
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	Service services.Service
	History HistoryStore
	Logger  *log.Logger
	Output  io.Writer
	Spinner bool // show the "Analysing..." spinner; defaults on when writing to stdout
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
		opts.Spinner = true
	}

	return &Runner{
		config:  opts.Config,
		service: opts.Service,
		history: opts.History,
		logger:  opts.Logger,
		output:  opts.Output,
		spinner: opts.Spinner,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		analyseCommand, serveCommand, tuiCommand, historyCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Close releases the history database, if one was opened.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// loadConfig reads the file named by --config once and applies the log level.
//
// --log-level takes precedence over [log] level.
func (r *Runner) loadConfig(cmd *cli.Command) (*shared.Config, error) {
	if r.config == nil {
		config, err := shared.LoadConfigOrDefault(cmd.String("config"))
		if err != nil {
			return nil, err
		}
		r.config = config
	}

	level := cmd.String("log-level")
	if level == "" {
		level = r.config.Log.Level
	}
	if err := shared.SetLogLevel(r.logger, level); err != nil {
		return nil, fmt.Errorf("%w: log level %q: %v", shared.ErrInvalidArgument, level, err)
	}

	return r.config, nil
}

// playlistService returns the injected service or connects to Spotify with resolved credentials.
func (r *Runner) playlistService(cmd *cli.Command) (services.Service, error) {
	if r.service != nil {
		return r.service, nil
	}

	config, err := r.loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	creds, err := shared.ResolveCredentials(config, cmd.String("env-file"))
	if err != nil {
		return nil, err
	}

	opts := append(services.SettingsOptions(config.Spotify), services.WithLogger(shared.WithLogger(r.logger, "service", "spotify")))
	svc, err := services.NewSpotifyService(creds, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Spotify service: %w", err)
	}

	r.service = svc
	return svc, nil
}

// analysisEngine builds the engine once, attaching history when it is enabled.
func (r *Runner) analysisEngine(cmd *cli.Command) (*tasks.AnalysisEngine, error) {
	if r.engine != nil {
		return r.engine, nil
	}

	config, err := r.loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	vocabulary, err := analysis.ParseVocabulary(config.Analysis.Vocabulary)
	if err != nil {
		return nil, err
	}

	svc, err := r.playlistService(cmd)
	if err != nil {
		return nil, err
	}

	engine := tasks.NewAnalysisEngine(svc, vocabulary, shared.WithLogger(r.logger, "component", "engine"))

	history, err := r.historyStore(cmd)
	switch {
	case err == nil:
		engine.SetReportSaver(history)
	case !errors.Is(err, shared.ErrHistoryDisabled):
		return nil, err
	}

	r.engine = engine
	return engine, nil
}

// historyStore returns the injected store or opens the configured database.
//
// It fails with [shared.ErrHistoryDisabled] unless [history] enabled is set.
func (r *Runner) historyStore(cmd *cli.Command) (HistoryStore, error) {
	if r.history != nil {
		return r.history, nil
	}

	config, err := r.loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if !config.History.Enabled {
		return nil, shared.ErrHistoryDisabled
	}

	db, err := shared.OpenHistory(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	r.logger.Debug("opened history database", "path", config.Database.Path)

	r.db = db
	r.history = repositories.NewReportRepository(db)
	return r.history, nil
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

	return r.writeBytes(output)
}

// writeBytes writes data followed by a newline.
func (r *Runner) writeBytes(data []byte) error {
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if len(data) > 0 && data[len(data)-1] == '\n' {
		return nil
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

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
