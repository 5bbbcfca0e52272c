package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/analysis"
	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/formatter"
	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/shared"
	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/tasks"
	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/ui"
	"github.com/charmbracelet/huh/spinner"
	"github.com/urfave/cli/v3"
)

// Analyse fetches two playlists, prints the report and optionally saves or exports it.
func (r *Runner) Analyse(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 2 {
		return fmt.Errorf("%w: expected <playlist-a> <playlist-b>, got %d argument(s)", shared.ErrMissingArgument, cmd.Args().Len())
	}

	req := tasks.Request{
		PlaylistA: cmd.Args().Get(0),
		PlaylistB: cmd.Args().Get(1),
		Save:      cmd.Bool("save"),
	}

	if v := strings.TrimSpace(cmd.String("vocabulary")); v != "" {
		mode, err := analysis.ParseVocabulary(v)
		if err != nil {
			return err
		}
		req.Vocabulary = mode
	}

	var format formatter.Format
	exportDir := cmd.String("export")
	if exportDir != "" {
		f, err := formatter.ParseFormat(cmd.String("format"))
		if err != nil {
			return err
		}
		format = f
	}

	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	engine, err := r.analysisEngine(cmd)
	if err != nil {
		return err
	}

	if req.Save && !engine.HistoryEnabled() {
		return fmt.Errorf("%w: set [history] enabled = true to use --save", shared.ErrHistoryDisabled)
	}

	ctx, cancel := context.WithTimeout(ctx, config.Spotify.Timeout())
	defer cancel()

	report, err := r.runAnalysis(ctx, engine, req, !cmd.Bool("json"))
	if err != nil {
		return err
	}

	for _, w := range report.Warnings {
		r.logger.Warn(w)
	}

	if err := r.printReport(report, cmd.Bool("json"), cmd.Bool("pretty"), cmd.Bool("tracks")); err != nil {
		return err
	}

	if report.ID != "" {
		r.logger.Info("report saved", "id", report.ID)
	}

	if exportDir != "" {
		result, err := formatter.WriteReport(report, exportDir, format)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		for _, path := range result.Files {
			r.logger.Info("exported", "format", format, "path", path)
		}
	}

	return nil
}

// runAnalysis runs the engine behind the "Analysing..." spinner when the output is a terminal.
func (r *Runner) runAnalysis(ctx context.Context, engine tasks.Analyser, req tasks.Request, interactive bool) (*analysis.Report, error) {
	if !r.spinner || !interactive {
		return engine.Analyse(ctx, nil, req)
	}

	var report *analysis.Report
	action := func(ctx context.Context) error {
		var err error
		report, err = engine.Analyse(ctx, nil, req)
		return err
	}

	if err := spinner.New().Title("Analysing...").Context(ctx).ActionWithErr(action).Run(); err != nil {
		return nil, err
	}
	return report, nil
}

// printReport writes the report as JSON, styled tables or plain text.
func (r *Runner) printReport(report *analysis.Report, asJSON, pretty, tracks bool) error {
	switch {
	case asJSON:
		data, err := formatter.ReportToJSON(report, pretty)
		if err != nil {
			return err
		}
		return r.writeBytes(data)
	case pretty:
		return r.writePlain("%s", ui.RenderReport(report, ui.RenderOptions{Tracks: tracks}))
	default:
		data, err := formatter.ReportToText(report)
		if err != nil {
			return err
		}
		return r.writeBytes(data)
	}
}
