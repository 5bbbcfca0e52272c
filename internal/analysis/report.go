package analysis

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/models"
	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/shared"
)

// Report is everything shown after one analysis of two playlists.
type Report struct {
	ID         string           `json:"id,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	PlaylistA  *models.Snapshot `json:"playlist_a"`
	PlaylistB  *models.Snapshot `json:"playlist_b"`
	Similarity float64          `json:"similarity"`
	Vocabulary Vocabulary       `json:"vocabulary"`
	SummaryA   Summary          `json:"summary_a"`
	SummaryB   Summary          `json:"summary_b"`
	Common     CommonTracks     `json:"common"`
	Histogram  Histogram        `json:"histogram"`
	Warnings   []string         `json:"warnings,omitempty"`
}

// Analyse computes the full report for a and b.
//
// Empty playlists do not fail the analysis: they score 0 and add a warning to the report.
func Analyse(a, b *models.Snapshot, mode Vocabulary) *Report {
	r := &Report{
		CreatedAt:  time.Now().UTC(),
		PlaylistA:  a,
		PlaylistB:  b,
		Vocabulary: mode,
		Similarity: Score(a, b, mode),
		SummaryA:   Summarize(a),
		SummaryB:   Summarize(b),
		Common:     Common(a, b),
		Histogram:  BuildHistogram(a, b),
	}

	for _, s := range []*models.Snapshot{a, b} {
		if s.IsEmpty() {
			r.Warnings = append(r.Warnings, fmt.Sprintf("%s: %s", s.Label(), shared.UserMessage(shared.ErrEmptyPlaylist)))
		}
	}

	return r
}

// Record converts the report into a history record carrying the report as JSON.
func (r *Report) Record() (*models.ReportRecord, error) {
	payload, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}

	meta := models.ReportMeta{
		Similarity:  r.Similarity,
		Vocabulary:  string(r.Vocabulary),
		TracksA:     r.PlaylistA.Len(),
		TracksB:     r.PlaylistB.Len(),
		CommonCount: len(r.Common.Rows),
	}
	if r.PlaylistA != nil {
		meta.PlaylistAID, meta.PlaylistAName = r.PlaylistA.ID, r.PlaylistA.Name
	}
	if r.PlaylistB != nil {
		meta.PlaylistBID, meta.PlaylistBName = r.PlaylistB.ID, r.PlaylistB.Name
	}

	return models.NewReportRecord(meta, payload), nil
}

// FromRecord restores a report stored with [Report.Record].
func FromRecord(rec *models.ReportRecord) (*Report, error) {
	var r Report
	if err := json.Unmarshal(rec.Payload(), &r); err != nil {
		return nil, fmt.Errorf("failed to decode stored report %s: %w", rec.ID(), err)
	}
	r.ID = rec.ID()
	return &r, nil
}
