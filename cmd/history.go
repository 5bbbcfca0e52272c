package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/analysis"
	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/models"
	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/shared"
	"github.com/urfave/cli/v3"
)

// historyEntry is the listing shape of a saved report.
type historyEntry struct {
	ID          string    `json:"id"`
	Sequence    int       `json:"sequence"`
	PlaylistA   string    `json:"playlist_a"`
	PlaylistB   string    `json:"playlist_b"`
	Similarity  float64   `json:"similarity"`
	Vocabulary  string    `json:"vocabulary"`
	TracksA     int       `json:"tracks_a"`
	TracksB     int       `json:"tracks_b"`
	CommonCount int       `json:"common_count"`
	CreatedAt   time.Time `json:"created_at"`
}

func newHistoryEntry(rec *models.ReportRecord) historyEntry {
	meta := rec.Meta()
	return historyEntry{
		ID:          rec.ID(),
		Sequence:    rec.Sequence(),
		PlaylistA:   meta.PlaylistAName,
		PlaylistB:   meta.PlaylistBName,
		Similarity:  meta.Similarity,
		Vocabulary:  meta.Vocabulary,
		TracksA:     meta.TracksA,
		TracksB:     meta.TracksB,
		CommonCount: meta.CommonCount,
		CreatedAt:   rec.CreatedAt(),
	}
}

// HistoryList prints saved reports, newest first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	history, err := r.historyStore(cmd)
	if err != nil {
		return err
	}

	criteria := map[string]any{"limit": int(cmd.Int("limit"))}
	if id := strings.TrimSpace(cmd.String("playlist")); id != "" {
		criteria["playlist_id"] = id
	}

	records, err := history.List(criteria)
	if err != nil {
		return fmt.Errorf("failed to list reports: %w", err)
	}

	entries := make([]historyEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, newHistoryEntry(rec))
	}

	if cmd.Bool("json") {
		return r.writeJSON(entries, cmd.Bool("pretty"))
	}

	if len(entries) == 0 {
		return r.writePlain("No saved reports yet.\n")
	}

	r.writePlainHeader(fmt.Sprintf("Saved reports (%d)", len(entries)))
	for _, e := range entries {
		r.writePlain("#%-4d %s  %6.2f%%  %s vs %s\n", e.Sequence, e.CreatedAt.Local().Format("2006-01-02 15:04"), e.Similarity, e.PlaylistA, e.PlaylistB)
		r.writePlain("      id: %s  tracks: %d / %d  common: %d  vocabulary: %s\n", e.ID, e.TracksA, e.TracksB, e.CommonCount, e.Vocabulary)
	}
	return nil
}

// HistoryShow prints a saved report in the same formats as analyse.
func (r *Runner) HistoryShow(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd)
	if err != nil {
		return err
	}

	history, err := r.historyStore(cmd)
	if err != nil {
		return err
	}

	record, err := history.Get(id)
	if err != nil {
		return err
	}

	report, err := analysis.FromRecord(record)
	if err != nil {
		return err
	}

	return r.printReport(report, cmd.Bool("json"), cmd.Bool("pretty"), cmd.Bool("tracks"))
}

// HistoryDelete soft-deletes a saved report.
func (r *Runner) HistoryDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd)
	if err != nil {
		return err
	}

	history, err := r.historyStore(cmd)
	if err != nil {
		return err
	}

	if err := history.Delete(id); err != nil {
		return err
	}

	r.logger.Info("deleted report", "id", id)
	return r.writePlain("✓ Deleted report %s\n", id)
}

func idArg(cmd *cli.Command) (string, error) {
	id := strings.TrimSpace(cmd.Args().First())
	if id == "" {
		return "", fmt.Errorf("%w: report id", shared.ErrMissingArgument)
	}
	return id, nil
}
