// package formatter provides functions to export snapshots and analysis reports to various formats (CSV, Markdown, JSON, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/analysis"
	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/models"
	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/shared"
	"github.com/gosimple/slug"
)

// Format selects the file type written by [WriteReport].
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ParseFormat maps a flag value to a [Format]. "md" is accepted for Markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown export format %q (want csv, markdown or json)", shared.ErrInvalidArgument, s)
	}
}

// CSVHeaders are the track record columns, in order.
var CSVHeaders = []string{
	"uri", "track_name", "track_popularity", "added_at",
	"artist_id", "artist_name", "artist_popularity", "genre", "artist_url",
}

// SnapshotToCSV converts a snapshot to CSV with one row per track record and the [CSVHeaders] columns.
func SnapshotToCSV(s *models.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(CSVHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	if s != nil {
		for _, track := range s.Tracks {
			record := []string{
				track.URI,
				track.Name,
				strconv.Itoa(track.Popularity),
				track.AddedAt.String(),
				track.ArtistID,
				track.ArtistName,
				strconv.Itoa(track.ArtistPopularity),
				track.Genre,
				track.ArtistURL,
			}
			if err := writer.Write(record); err != nil {
				return nil, fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// CommonToCSV converts the common-songs join to CSV, one row per matching pair.
func CommonToCSV(c analysis.CommonTracks) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"track_name", "artist_a", "added_at_a", "artist_b", "added_at_b"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, row := range c.Rows {
		record := []string{row.Name, row.A.ArtistName, row.A.AddedAt.String(), row.B.ArtistName, row.B.AddedAt.String()}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ReportToJSON marshals the report, indented when pretty is set.
func ReportToJSON(r *analysis.Report, pretty bool) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(r, "", "  ")
	} else {
		data, err = json.Marshal(r)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	return data, nil
}

// ReportToMarkdown renders the report as a Markdown document with the same sections as the browser page.
func ReportToMarkdown(r *analysis.Report) ([]byte, error) {
	var buf bytes.Buffer

	nameA, nameB := r.PlaylistA.Label(), r.PlaylistB.Label()

	fmt.Fprintf(&buf, "# %s vs %s\n\n", nameA, nameB)
	fmt.Fprintf(&buf, "**Similarity**: %.2f%% (%s vocabulary)\n\n", r.Similarity, r.Vocabulary)

	for _, w := range r.Warnings {
		fmt.Fprintf(&buf, "> **Warning**: %s\n\n", w)
	}

	for _, side := range []struct {
		snapshot *models.Snapshot
		summary  analysis.Summary
	}{{r.PlaylistA, r.SummaryA}, {r.PlaylistB, r.SummaryB}} {
		fmt.Fprintf(&buf, "## %s\n\n", side.snapshot.Label())
		if side.snapshot != nil && side.snapshot.URL != "" {
			fmt.Fprintf(&buf, "**Link**: %s\n", side.snapshot.URL)
		}
		fmt.Fprintf(&buf, "**Tracks**: %d\n\n", side.snapshot.Len())

		buf.WriteString("| Statistic | Value |\n|---|---|\n")
		for _, row := range side.summary.Rows() {
			fmt.Fprintf(&buf, "| %s | %s |\n", cell(row.Label), cell(row.Value))
		}
		buf.WriteString("\n")
	}

	buf.WriteString("## Common songs\n\n")
	if r.Common.Found() {
		fmt.Fprintf(&buf, "| Song | Artist (%s) | Added (%s) | Artist (%s) | Added (%s) |\n|---|---|---|---|---|\n",
			cell(nameA), cell(nameA), cell(nameB), cell(nameB))
		for _, row := range r.Common.Rows {
			fmt.Fprintf(&buf, "| %s | %s | %s | %s | %s |\n",
				cell(row.Name), cell(row.A.ArtistName), row.A.AddedAt.String(), cell(row.B.ArtistName), row.B.AddedAt.String())
		}
	} else {
		buf.WriteString("_No common songs found._\n")
	}
	buf.WriteString("\n")

	if len(r.Histogram) > 0 {
		buf.WriteString("## Tracks added per day\n\n")
		fmt.Fprintf(&buf, "| Date | %s | %s |\n|---|---|---|\n", cell(nameA), cell(nameB))
		for _, dc := range r.Histogram {
			fmt.Fprintf(&buf, "| %s | %d | %d |\n", dc.Date.String(), dc.A, dc.B)
		}
		buf.WriteString("\n")
	}

	for _, s := range []*models.Snapshot{r.PlaylistA, r.PlaylistB} {
		fmt.Fprintf(&buf, "## Tracks: %s\n\n", s.Label())
		if s.IsEmpty() {
			buf.WriteString("_No tracks._\n\n")
			continue
		}
		buf.WriteString("| # | Track | Artist | Genre | Added | Popularity |\n|---|---|---|---|---|---|\n")
		for i, t := range s.Tracks {
			fmt.Fprintf(&buf, "| %d | %s | %s | %s | %s | %d |\n",
				i+1, cell(t.Name), cell(t.ArtistName), cell(t.Genre), t.AddedAt.String(), t.Popularity)
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ReportToText renders a short plain text summary for terminals without styling.
func ReportToText(r *analysis.Report) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Playlist A: %s (%d tracks)\n", r.PlaylistA.Label(), r.PlaylistA.Len())
	fmt.Fprintf(&buf, "Playlist B: %s (%d tracks)\n", r.PlaylistB.Label(), r.PlaylistB.Len())
	fmt.Fprintf(&buf, "Similarity: %.2f%%\n", r.Similarity)

	for _, w := range r.Warnings {
		fmt.Fprintf(&buf, "Warning: %s\n", w)
	}

	for _, side := range []struct {
		name    string
		summary analysis.Summary
	}{{r.PlaylistA.Label(), r.SummaryA}, {r.PlaylistB.Label(), r.SummaryB}} {
		fmt.Fprintf(&buf, "\n%s\n", side.name)
		for _, row := range side.summary.Rows() {
			fmt.Fprintf(&buf, "  %-20s %s\n", row.Label+":", row.Value)
		}
	}

	buf.WriteString("\nCommon songs\n")
	if r.Common.Found() {
		for _, row := range r.Common.Rows {
			fmt.Fprintf(&buf, "  %s (%s / %s)\n", row.Name, row.A.ArtistName, row.B.ArtistName)
		}
	} else {
		buf.WriteString("  No common songs found.\n")
	}

	return buf.Bytes(), nil
}

// cell escapes text for a Markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

// ExportResult contains the paths of files created by [WriteReport]
type ExportResult struct {
	Directory string
	Files     []string
}

// BaseName returns the slugified "<a>-vs-<b>" file stem for a report.
func BaseName(r *analysis.Report) string {
	return slug.Make(r.PlaylistA.Label()) + "-vs-" + slug.Make(r.PlaylistB.Label())
}

// WriteReport exports a report to dir, creating it when missing.
//
// CSV writes one file per playlist plus the common songs ({slug}_tracks.csv, {base}_common.csv);
// Markdown and JSON write a single {base}.md or {base}.json.
func WriteReport(r *analysis.Report, dir string, format Format) (*ExportResult, error) {
	if dir == "" {
		dir = "."
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &ExportResult{Directory: dir}
	base := BaseName(r)

	write := func(name string, data []byte) error {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		result.Files = append(result.Files, path)
		return nil
	}

	switch format {
	case FormatCSV:
		for i, s := range []*models.Snapshot{r.PlaylistA, r.PlaylistB} {
			data, err := SnapshotToCSV(s)
			if err != nil {
				return nil, fmt.Errorf("failed to generate CSV: %w", err)
			}
			name := fmt.Sprintf("%s_tracks.csv", slug.Make(s.Label()))
			if i == 1 && r.PlaylistA.Label() == r.PlaylistB.Label() {
				name = fmt.Sprintf("%s_b_tracks.csv", slug.Make(s.Label()))
			}
			if err := write(name, data); err != nil {
				return nil, err
			}
		}

		data, err := CommonToCSV(r.Common)
		if err != nil {
			return nil, fmt.Errorf("failed to generate CSV: %w", err)
		}
		if err := write(base+"_common.csv", data); err != nil {
			return nil, err
		}
	case FormatMarkdown:
		data, err := ReportToMarkdown(r)
		if err != nil {
			return nil, fmt.Errorf("failed to generate Markdown: %w", err)
		}
		if err := write(base+".md", data); err != nil {
			return nil, err
		}
	case FormatJSON:
		data, err := ReportToJSON(r, true)
		if err != nil {
			return nil, err
		}
		if err := write(base+".json", data); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, format)
	}

	return result, nil
}
