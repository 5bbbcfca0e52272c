package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/analysis"
	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/models"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// chartWidth is the number of cells used by the longest histogram bar.
const chartWidth = 30

// RenderOptions controls which report sections are drawn.
type RenderOptions struct {
	Tracks bool // include the full track tables
}

// RenderReport draws a report for the terminal in the same order as the browser page.
func RenderReport(r *analysis.Report, opts RenderOptions) string {
	var sections []string

	nameA, nameB := r.PlaylistA.Label(), r.PlaylistB.Label()

	if opts.Tracks {
		sections = append(sections,
			renderTracks(r.PlaylistA, seriesA),
			renderTracks(r.PlaylistB, seriesB),
		)
	}

	similarity := fmt.Sprintf("%s %s",
		styles.title.UnsetMarginBottom().Render("Similarity"),
		styles.ok.Render(strconv.FormatFloat(r.Similarity, 'f', 2, 64)+"%"),
	)
	sections = append(sections, similarity+styles.help.Render(fmt.Sprintf("  %s vs %s (%s vocabulary)", nameA, nameB, r.Vocabulary)))

	for _, w := range r.Warnings {
		sections = append(sections, styles.warn.Render("! "+w))
	}

	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top,
		renderSummary(nameA, r.SummaryA, seriesA),
		"  ",
		renderSummary(nameB, r.SummaryB, seriesB),
	))

	sections = append(sections, renderHistogram(r.Histogram, nameA, nameB))
	sections = append(sections, renderCommon(r.Common, nameA, nameB))

	return strings.Join(sections, "\n\n") + "\n"
}

func newTable() *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styles.border).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.header
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

func renderSummary(name string, s analysis.Summary, heading lipgloss.Style) string {
	t := newTable().Headers("Statistic", "Value")
	for _, row := range s.Rows() {
		t.Row(row.Label, row.Value)
	}
	return lipgloss.JoinVertical(lipgloss.Left, heading.Render(name), t.Render())
}

func renderTracks(s *models.Snapshot, heading lipgloss.Style) string {
	title := heading.Render(fmt.Sprintf("%s (%d tracks)", s.Label(), s.Len()))
	if s.IsEmpty() {
		return title + "\n" + styles.help.Render("No tracks.")
	}

	t := newTable().Headers("#", "Track", "Artist", "Genre", "Added", "Popularity")
	for i, track := range s.Tracks {
		t.Row(strconv.Itoa(i+1), track.Name, track.ArtistName, track.Genre, dateLabel(track.AddedAt), strconv.Itoa(track.Popularity))
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, t.Render())
}

func renderCommon(c analysis.CommonTracks, nameA, nameB string) string {
	title := styles.title.UnsetMarginBottom().Render("Common songs")
	if !c.Found() {
		return title + "\n" + styles.warn.Render("No common songs found.")
	}

	t := newTable().Headers("Song", "Artist ("+nameA+")", "Added ("+nameA+")", "Artist ("+nameB+")", "Added ("+nameB+")")
	for _, row := range c.Rows {
		t.Row(row.Name, row.A.ArtistName, dateLabel(row.A.AddedAt), row.B.ArtistName, dateLabel(row.B.AddedAt))
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, t.Render())
}

// renderHistogram draws one pair of horizontal bars per date.
func renderHistogram(h analysis.Histogram, nameA, nameB string) string {
	title := styles.title.UnsetMarginBottom().Render("Tracks added per day")
	if len(h) == 0 {
		return title + "\n" + styles.help.Render("No dated tracks to chart.")
	}

	top := h.Max()
	bar := func(n int, style lipgloss.Style) string {
		cells := n * chartWidth / top
		if n > 0 && cells == 0 {
			cells = 1
		}
		return style.Render(strings.Repeat("█", cells)) + " " + strconv.Itoa(n)
	}

	lines := []string{
		title,
		seriesA.Render("█ "+nameA) + "  " + seriesB.Render("█ "+nameB),
	}
	for _, dc := range h {
		date := dc.Date.String()
		lines = append(lines,
			fmt.Sprintf("%s %s", date, bar(dc.A, seriesA)),
			fmt.Sprintf("%s %s", strings.Repeat(" ", len(date)), bar(dc.B, seriesB)),
		)
	}
	return strings.Join(lines, "\n")
}

func dateLabel(d models.Date) string {
	if d.IsZero() {
		return "unknown"
	}
	return d.String()
}
