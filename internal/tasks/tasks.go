// package tasks implements the two-playlist analysis.
//
// The core abstraction is Analyser, which fetches both playlists and computes the report.
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/analysis"
	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/models"
	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/services"
	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/shared"
	"github.com/charmbracelet/log"
)

// Request names the two playlists to compare.
type Request struct {
	PlaylistA  string              // URL, URI or ID of the first playlist
	PlaylistB  string              // URL, URI or ID of the second playlist
	Vocabulary analysis.Vocabulary // Empty selects the engine default
	Save       bool                // Store the report through the [ReportSaver]
}

// Analyser defines the analysis operation shared by the CLI, TUI and web handlers.
type Analyser interface {
	// Analyse fetches both playlists and computes the full report.
	Analyse(ctx context.Context, progress chan<- ProgressUpdate, req Request) (*analysis.Report, error)
}

// ReportSaver persists finished reports.
type ReportSaver interface {
	Create(record *models.ReportRecord) error
}

// AnalysisEngine implements Analyser on top of a [services.Service].
type AnalysisEngine struct {
	service    services.Service
	saver      ReportSaver
	vocabulary analysis.Vocabulary
	logger     *log.Logger
}

// NewAnalysisEngine creates an engine that scores with vocabulary unless a request overrides it.
func NewAnalysisEngine(service services.Service, vocabulary analysis.Vocabulary, logger *log.Logger) *AnalysisEngine {
	if vocabulary == "" {
		vocabulary = analysis.VocabularyUnion
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &AnalysisEngine{
		service:    service,
		vocabulary: vocabulary,
		logger:     logger,
	}
}

// SetReportSaver enables report history. Passing nil disables it.
func (e *AnalysisEngine) SetReportSaver(s ReportSaver) {
	e.saver = s
}

// HistoryEnabled reports whether a [ReportSaver] is configured.
func (e *AnalysisEngine) HistoryEnabled() bool {
	return e.saver != nil
}

// Vocabulary returns the default vocabulary mode.
func (e *AnalysisEngine) Vocabulary() analysis.Vocabulary {
	return e.vocabulary
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *AnalysisEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Analyse fetches playlist A then playlist B and computes the report.
//
// Both references are validated before the first request. Empty playlists do not fail the analysis.
func (e *AnalysisEngine) Analyse(ctx context.Context, progress chan<- ProgressUpdate, req Request) (*analysis.Report, error) {
	if e.service == nil {
		return nil, fmt.Errorf("%w: playlist service not initialized", shared.ErrServiceUnavailable)
	}

	refs := []string{strings.TrimSpace(req.PlaylistA), strings.TrimSpace(req.PlaylistB)}

	e.sendProgress(progress, validateUpdate())
	for i, ref := range refs {
		if ref == "" {
			return nil, fmt.Errorf("%w: playlist %c", shared.ErrMissingArgument, 'A'+i)
		}
		if _, err := services.ParsePlaylistRef(ref); err != nil {
			return nil, fmt.Errorf("playlist %c: %w", 'A'+i, err)
		}
	}

	mode := req.Vocabulary
	if mode == "" {
		mode = e.vocabulary
	}

	snapshots := make([]*models.Snapshot, len(refs))
	for i, ref := range refs {
		e.sendProgress(progress, fetchingPlaylistUpdate(i+1, len(refs), ref))

		s, err := e.service.FetchSnapshot(ctx, ref)
		if err != nil {
			e.logger.Error("failed to fetch playlist", "ref", ref, "error", err)
			return nil, fmt.Errorf("playlist %c: %w", 'A'+i, err)
		}
		snapshots[i] = s

		e.logger.Info("fetched playlist", "id", s.ID, "name", s.Name, "tracks", s.Len())
		e.sendProgress(progress, fetchedPlaylistUpdate(i+1, len(refs), s))
	}

	e.sendProgress(progress, analysingUpdate())
	report := analysis.Analyse(snapshots[0], snapshots[1], mode)
	e.logger.Info("analysis complete", "similarity", report.Similarity, "vocabulary", mode, "common", len(report.Common.Rows))

	if req.Save {
		if err := e.save(progress, report); err != nil {
			e.logger.Error("failed to save report", "error", err)
			report.Warnings = append(report.Warnings, shared.UserMessage(err))
		}
	}

	return report, nil
}

func (e *AnalysisEngine) save(progress chan<- ProgressUpdate, report *analysis.Report) error {
	if e.saver == nil {
		return shared.ErrHistoryDisabled
	}

	e.sendProgress(progress, savingReportUpdate())

	record, err := report.Record()
	if err != nil {
		return err
	}
	if err := e.saver.Create(record); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	report.ID = record.ID()
	e.sendProgress(progress, savedReportUpdate(report.ID))
	return nil
}
