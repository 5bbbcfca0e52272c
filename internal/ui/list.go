package ui

import (
	"fmt"

	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/models"
	"github.com/charmbracelet/bubbles/list"
)

var (
	_ list.Item = reportItem{}
)

// reportItem wraps [models.ReportRecord] to implement [list.Item].
type reportItem struct {
	record *models.ReportRecord
}

func (i reportItem) FilterValue() string {
	meta := i.record.Meta()
	return meta.PlaylistAName + " " + meta.PlaylistBName
}

func (i reportItem) Title() string {
	meta := i.record.Meta()
	return fmt.Sprintf("%s vs %s", meta.PlaylistAName, meta.PlaylistBName)
}

func (i reportItem) Description() string {
	meta := i.record.Meta()
	return fmt.Sprintf("#%d • %.2f%% • %d common • %s",
		i.record.Sequence(), meta.Similarity, meta.CommonCount, i.record.CreatedAt().Format("2006-01-02 15:04"))
}
