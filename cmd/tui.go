package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/shared"
	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for playlist analysis.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, closer, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	defer closer.Close()
	r.logger = fileLogger

	engine, err := r.analysisEngine(cmd)
	if err != nil {
		return err
	}

	var history ui.HistoryStore
	if store, err := r.historyStore(cmd); err == nil {
		history = store
	} else if !errors.Is(err, shared.ErrHistoryDisabled) {
		return err
	}

	model := ui.NewModel(ctx, engine, history, engine.Vocabulary())
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
