package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/analysis"
	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/models"
	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/shared"
	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/tasks"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	InputView ViewState = iota
	AnalysingView
	ReportView
	HistoryView
)

// HistoryStore is the read side of the report history used by [HistoryView].
type HistoryStore interface {
	Get(id string) (*models.ReportRecord, error)
	List(criteria map[string]any) ([]*models.ReportRecord, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	analyser     tasks.Analyser
	history      HistoryStore
	width        int
	height       int
	inputs       []textinput.Model
	focus        int
	vocabulary   analysis.Vocabulary
	save         bool
	spinner      spinner.Model
	viewport     viewport.Model
	historyList  list.Model
	progressChan chan tasks.ProgressUpdate
	done         chan reportResult
	progress     tasks.ProgressUpdate
	report       *analysis.Report
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model. history may be nil when report history is disabled.
func NewModel(ctx context.Context, analyser tasks.Analyser, history HistoryStore, vocabulary analysis.Vocabulary) *Model {
	if vocabulary == "" {
		vocabulary = analysis.VocabularyUnion
	}

	inputs := make([]textinput.Model, 2)
	for i, label := range []string{"Playlist A", "Playlist B"} {
		in := textinput.New()
		in.Prompt = fmt.Sprintf("%s: ", label)
		in.Placeholder = "https://open.spotify.com/playlist/..."
		in.CharLimit = 256
		in.Width = 60
		inputs[i] = in
	}
	inputs[0].Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.ok

	return &Model{
		ctx:        ctx,
		view:       InputView,
		analyser:   analyser,
		history:    history,
		inputs:     inputs,
		vocabulary: vocabulary,
		spinner:    s,
		viewport:   viewport.New(80, 20),
		help:       help.New(),
		keys:       newKeyMap(),
	}
}

// Init starts the text input cursor blinking.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-4, 1)
		if m.historyList.Width() > 0 {
			m.historyList.SetSize(msg.Width-4, msg.Height-4)
		}
		if m.report != nil {
			m.viewport.SetContent(RenderReport(m.report, RenderOptions{Tracks: true}))
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
		switch m.view {
		case InputView:
			return m.handleInputKeys(msg)
		case ReportView:
			return m.handleReportKeys(msg)
		case HistoryView:
			return m.handleHistoryKeys(msg)
		}
		return m, nil

	case spinner.TickMsg:
		if m.view != AnalysingView {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		return m.handleMsg(msg)
	}

	return m, nil
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		return m, m.waitForProgress()

	case MsgAnalysisComplete, MsgReportLoaded:
		res := msg.data.(reportResult)
		m.progressChan, m.done = nil, nil
		if res.err != nil {
			m.err = res.err
			m.view = InputView
			return m, m.inputs[m.focus].Focus()
		}
		m.showReport(res.report)
		return m, nil

	case MsgHistoryLoaded:
		res := msg.data.(historyResult)
		if res.err != nil {
			m.err = res.err
			m.view = InputView
			return m, nil
		}
		items := make([]list.Item, len(res.records))
		for i, rec := range res.records {
			items[i] = reportItem{record: rec}
		}
		m.historyList = list.New(items, list.NewDefaultDelegate(), max(m.width-4, 20), max(m.height-4, 10))
		m.historyList.Title = "Saved reports"
		m.view = HistoryView
		return m, nil
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case InputView:
		return m.renderInput()
	case AnalysingView:
		return m.renderAnalysing()
	case ReportView:
		return m.renderReport()
	case HistoryView:
		return m.renderHistory()
	default:
		return ""
	}
}

func (m *Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.next):
		return m, m.setFocus(m.focus + 1)
	case key.Matches(msg, m.keys.prev):
		return m, m.setFocus(m.focus - 1)
	case key.Matches(msg, m.keys.vocabulary):
		if m.vocabulary == analysis.VocabularyUnion {
			m.vocabulary = analysis.VocabularyDirectional
		} else {
			m.vocabulary = analysis.VocabularyUnion
		}
		return m, nil
	case key.Matches(msg, m.keys.save):
		m.save = !m.save
		return m, nil
	case key.Matches(msg, m.keys.history):
		if m.history == nil {
			m.err = shared.ErrHistoryDisabled
			return m, nil
		}
		m.err = nil
		return m, m.loadHistory()
	case key.Matches(msg, m.keys.enter):
		if m.focus == 0 && strings.TrimSpace(m.inputs[1].Value()) == "" {
			return m, m.setFocus(1)
		}
		return m, m.startAnalysis()
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) handleReportKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.view = InputView
		m.report = nil
		return m, m.inputs[m.focus].Focus()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) handleHistoryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.historyList.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, m.keys.back):
			m.view = InputView
			return m, m.inputs[m.focus].Focus()
		case key.Matches(msg, m.keys.enter):
			if item, ok := m.historyList.SelectedItem().(reportItem); ok {
				return m, m.loadReport(item.record.ID())
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.historyList, cmd = m.historyList.Update(msg)
	return m, cmd
}

// setFocus moves the cursor to input i, wrapping around.
func (m *Model) setFocus(i int) tea.Cmd {
	n := len(m.inputs)
	m.focus = ((i % n) + n) % n
	for j := range m.inputs {
		m.inputs[j].Blur()
	}
	return m.inputs[m.focus].Focus()
}

func (m *Model) showReport(r *analysis.Report) {
	m.report = r
	m.err = nil
	m.viewport.SetContent(RenderReport(r, RenderOptions{Tracks: true}))
	m.viewport.GotoTop()
	m.view = ReportView
}

// request builds the analysis request from the current form state.
func (m *Model) request() tasks.Request {
	return tasks.Request{
		PlaylistA:  m.inputs[0].Value(),
		PlaylistB:  m.inputs[1].Value(),
		Vocabulary: m.vocabulary,
		Save:       m.save,
	}
}

func (m *Model) startAnalysis() tea.Cmd {
	m.err = nil
	m.view = AnalysingView
	m.progress = tasks.ProgressUpdate{Message: "Starting..."}

	m.progressChan = make(chan tasks.ProgressUpdate, 16)
	m.done = make(chan reportResult, 1)

	progress, done, req := m.progressChan, m.done, m.request()
	go func() {
		report, err := m.analyser.Analyse(m.ctx, progress, req)
		close(progress)
		done <- reportResult{report, err}
	}()

	return tea.Batch(m.spinner.Tick, m.waitForProgress())
}

// waitForProgress yields the next progress update, then the result once the progress channel closes.
func (m *Model) waitForProgress() tea.Cmd {
	progress, done := m.progressChan, m.done
	return func() tea.Msg {
		if progress == nil {
			return nil
		}
		if update, ok := <-progress; ok {
			return progressUpdateMsg(update)
		}
		res := <-done
		return analysisCompleteMsg(res.report, res.err)
	}
}

func (m *Model) loadHistory() tea.Cmd {
	return func() tea.Msg {
		records, err := m.history.List(map[string]any{})
		return historyLoadedMsg(records, err)
	}
}

func (m *Model) loadReport(id string) tea.Cmd {
	return func() tea.Msg {
		record, err := m.history.Get(id)
		if err != nil {
			return reportLoadedMsg(nil, err)
		}
		report, err := analysis.FromRecord(record)
		return reportLoadedMsg(report, err)
	}
}

func (m *Model) renderInput() string {
	var b strings.Builder

	b.WriteString(styles.title.Render("Spotify Playlist Analyser"))
	b.WriteString("\n")
	for _, in := range m.inputs {
		b.WriteString(in.View())
		b.WriteString("\n")
	}

	save := "off"
	if m.save {
		save = "on"
	}
	b.WriteString("\n")
	b.WriteString(styles.help.Render(fmt.Sprintf("vocabulary: %s • save to history: %s", m.vocabulary, save)))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(styles.err.Render(shared.UserMessage(m.err)))
		b.WriteString("\n")
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.next, m.keys.vocabulary, m.keys.save}
	if m.history != nil {
		helpKeys = append(helpKeys, m.keys.history)
	}
	helpKeys = append(helpKeys, m.keys.quit)
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(helpKeys))
	return b.String()
}

func (m *Model) renderAnalysing() string {
	title := styles.title.Render("Analysing Playlists")

	var phase string
	switch m.progress.Phase {
	case tasks.ValidateInput:
		phase = "Checking links..."
	case tasks.FetchPlaylists:
		phase = fmt.Sprintf("Fetching playlists (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.Compare:
		phase = "Comparing..."
	case tasks.SaveReport:
		phase = "Saving report..."
	}

	return fmt.Sprintf("%s\n\n%s %s\n%s", title, m.spinner.View(), phase, styles.help.Render(m.progress.Message))
}

func (m *Model) renderReport() string {
	scrollKey := key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "scroll"))
	backKey := key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("esc", "new comparison"))
	helpView := m.help.ShortHelpView([]key.Binding{scrollKey, backKey, m.keys.quit})
	return fmt.Sprintf("%s\n%s", m.viewport.View(), helpView)
}

func (m *Model) renderHistory() string {
	openKey := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open"))
	helpView := m.help.ShortHelpView([]key.Binding{openKey, m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s\n\n%s", m.historyList.View(), helpView)
}
