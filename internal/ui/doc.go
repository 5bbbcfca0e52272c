// Package ui implements the terminal interfaces of the analyser.
//
// [RenderReport] draws a finished report with lipgloss tables and is shared by `spa analyse --pretty`
// and the interactive TUI.
//
// The TUI ([Model]) uses bubbletea's Elm architecture with four views:
//  1. [InputView] : two playlist inputs, vocabulary and save toggles
//  2. [AnalysingView] : spinner and live progress from the analysis engine
//  3. [ReportView] : the rendered report in a scrollable viewport
//  4. [HistoryView] : saved reports, when history is enabled
//
// Progress updates flow through a channel from the AnalysisEngine, providing non-blocking status reporting
// while playlists are fetched. Messages are carried by the [Msg] union type.
package ui
