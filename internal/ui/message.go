package ui

import (
	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/analysis"
	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/models"
	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/tasks"
	tea "github.com/charmbracelet/bubbletea"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgProgressUpdate MsgKind = iota
	MsgAnalysisComplete
	MsgHistoryLoaded
	MsgReportLoaded
)

type reportResult struct {
	report *analysis.Report
	err    error
}

type historyResult struct {
	records []*models.ReportRecord
	err     error
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// analysisCompleteMsg is the constructor for [MsgAnalysisComplete]
func analysisCompleteMsg(report *analysis.Report, err error) Msg {
	return Msg{kind: MsgAnalysisComplete, data: reportResult{report, err}}
}

// historyLoadedMsg is the constructor for [MsgHistoryLoaded]
func historyLoadedMsg(records []*models.ReportRecord, err error) Msg {
	return Msg{kind: MsgHistoryLoaded, data: historyResult{records, err}}
}

// reportLoadedMsg is the constructor for [MsgReportLoaded]
func reportLoadedMsg(report *analysis.Report, err error) Msg {
	return Msg{kind: MsgReportLoaded, data: reportResult{report, err}}
}
