package web

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/analysis"
	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/models"
	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/server"
	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/shared"
	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/tasks"
	"github.com/charmbracelet/log"
)

//go:embed templates/*.html
var templateFS embed.FS

// DefaultTimeout bounds one analysis when none is configured.
const DefaultTimeout = 2 * time.Minute

// HistoryStore is the read side of the report history.
type HistoryStore interface {
	Get(id string) (*models.ReportRecord, error)
	List(criteria map[string]any) ([]*models.ReportRecord, error)
}

// App serves the browser pages and the JSON API.
type App struct {
	analyser  tasks.Analyser
	history   HistoryStore
	logger    *log.Logger
	timeout   time.Duration
	templates *template.Template
}

// Option configures an [App].
type Option func(*App)

// WithHistory enables the history pages.
func WithHistory(h HistoryStore) Option {
	return func(a *App) { a.history = h }
}

// WithTimeout bounds each analysis request.
func WithTimeout(d time.Duration) Option {
	return func(a *App) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithLogger sets the logger used by handlers and middleware.
func WithLogger(l *log.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewApp parses the embedded templates and returns an App backed by analyser.
func NewApp(analyser tasks.Analyser, opts ...Option) (*App, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"pct":  func(f float64) string { return strconv.FormatFloat(f, 'f', 2, 64) },
		"date": formatDate,
		"inc":  func(i int) int { return i + 1 },
		"add":  func(a, b int) int { return a + b },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	a := &App{
		analyser:  analyser,
		logger:    log.New(io.Discard),
		timeout:   DefaultTimeout,
		templates: tmpl,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Register adds every route to r.
func (a *App) Register(r server.Router) {
	r.Handle(http.MethodGet, "/{$}", http.HandlerFunc(a.index))
	r.Handle(http.MethodPost, "/analyse", http.HandlerFunc(a.analyse))
	r.Handle(http.MethodGet, "/api/analyse", http.HandlerFunc(a.apiAnalyse))
	r.Handle(http.MethodGet, "/history", http.HandlerFunc(a.historyList))
	r.Handle(http.MethodGet, "/history/{id}", http.HandlerFunc(a.historyShow))
	r.Handle(http.MethodGet, "/healthz", http.HandlerFunc(a.healthz))
}

// Handler returns a router with recovery and request logging around every route.
func (a *App) Handler() http.Handler {
	r := server.NewBasicRouter()
	r.Use(server.Recover(a.logger), server.Logging(a.logger))
	a.Register(r)
	return r
}

// page carries the fields the shared layout reads.
type page struct {
	Title          string
	Error          string
	Notices        []string
	HistoryEnabled bool
}

type indexPage struct {
	page
	PlaylistA  string
	PlaylistB  string
	Vocabulary string
}

type reportPage struct {
	page
	Report *analysis.Report
	Chart  chartView
}

type historyPage struct {
	page
	Records []*models.ReportRecord
}

func (a *App) newPage(title string) page {
	return page{Title: title, HistoryEnabled: a.history != nil}
}

func (a *App) index(w http.ResponseWriter, r *http.Request) {
	a.render(w, http.StatusOK, "index", indexPage{page: a.newPage("Compare playlists"), Vocabulary: string(analysis.VocabularyUnion)})
}

func (a *App) analyse(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		a.renderIndexError(w, indexPage{page: a.newPage("Compare playlists")}, fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err))
		return
	}

	form := indexPage{
		page:       a.newPage("Compare playlists"),
		PlaylistA:  r.PostForm.Get("playlist_a"),
		PlaylistB:  r.PostForm.Get("playlist_b"),
		Vocabulary: r.PostForm.Get("vocabulary"),
	}

	req, err := a.request(form.PlaylistA, form.PlaylistB, form.Vocabulary, r.PostForm.Get("save"))
	if err != nil {
		a.renderIndexError(w, form, err)
		return
	}

	report, err := a.run(r.Context(), req)
	if err != nil {
		a.renderIndexError(w, form, err)
		return
	}

	p := reportPage{
		page:   a.newPage(report.PlaylistA.Label() + " vs " + report.PlaylistB.Label()),
		Report: report,
		Chart:  buildChart(report.Histogram, report.PlaylistA.Label(), report.PlaylistB.Label()),
	}
	p.Notices = report.Warnings
	a.render(w, http.StatusOK, "report", p)
}

func (a *App) apiAnalyse(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	req, err := a.request(q.Get("a"), q.Get("b"), q.Get("vocabulary"), q.Get("save"))
	if err != nil {
		a.writeJSONError(w, err)
		return
	}

	report, err := a.run(r.Context(), req)
	if err != nil {
		a.writeJSONError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, report)
}

func (a *App) historyList(w http.ResponseWriter, r *http.Request) {
	if a.history == nil {
		a.renderError(w, shared.ErrHistoryDisabled)
		return
	}

	criteria := map[string]any{}
	if id := strings.TrimSpace(r.URL.Query().Get("playlist")); id != "" {
		criteria["playlist_id"] = id
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit > 0 {
		criteria["limit"] = limit
	}

	records, err := a.history.List(criteria)
	if err != nil {
		a.logger.Error("failed to list reports", "error", err)
		a.renderError(w, err)
		return
	}

	a.render(w, http.StatusOK, "history", historyPage{page: a.newPage("History"), Records: records})
}

func (a *App) historyShow(w http.ResponseWriter, r *http.Request) {
	if a.history == nil {
		a.renderError(w, shared.ErrHistoryDisabled)
		return
	}

	record, err := a.history.Get(r.PathValue("id"))
	if err != nil {
		a.renderError(w, err)
		return
	}

	report, err := analysis.FromRecord(record)
	if err != nil {
		a.logger.Error("failed to restore report", "id", record.ID(), "error", err)
		a.renderError(w, err)
		return
	}

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		a.writeJSON(w, http.StatusOK, report)
		return
	}

	p := reportPage{
		page:   a.newPage(report.PlaylistA.Label() + " vs " + report.PlaylistB.Label()),
		Report: report,
		Chart:  buildChart(report.Histogram, report.PlaylistA.Label(), report.PlaylistB.Label()),
	}
	p.Notices = report.Warnings
	a.render(w, http.StatusOK, "report", p)
}

func (a *App) healthz(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "history": a.history != nil})
}

// request builds a [tasks.Request] from form or query values.
func (a *App) request(refA, refB, vocabulary, save string) (tasks.Request, error) {
	var mode analysis.Vocabulary
	if strings.TrimSpace(vocabulary) != "" {
		m, err := analysis.ParseVocabulary(vocabulary)
		if err != nil {
			return tasks.Request{}, err
		}
		mode = m
	}
	return tasks.Request{
		PlaylistA:  refA,
		PlaylistB:  refB,
		Vocabulary: mode,
		Save:       save == "1" || strings.EqualFold(save, "true") || strings.EqualFold(save, "on"),
	}, nil
}

func (a *App) run(ctx context.Context, req tasks.Request) (*analysis.Report, error) {
	if a.analyser == nil {
		return nil, fmt.Errorf("%w: analyser not configured", shared.ErrServiceUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	report, err := a.analyser.Analyse(ctx, nil, req)
	if err != nil {
		a.logger.Warn("analysis failed", "a", req.PlaylistA, "b", req.PlaylistB, "error", err)
		return nil, err
	}
	return report, nil
}

func (a *App) renderIndexError(w http.ResponseWriter, form indexPage, err error) {
	if form.Vocabulary == "" {
		form.Vocabulary = string(analysis.VocabularyUnion)
	}
	form.Error = shared.UserMessage(err)
	a.render(w, StatusFor(err), "index", form)
}

func (a *App) renderError(w http.ResponseWriter, err error) {
	p := a.newPage("Error")
	p.Error = shared.UserMessage(err)
	a.render(w, StatusFor(err), "error", p)
}

// render executes a named template into a buffer so a template failure never leaves a half-written page.
func (a *App) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := a.templates.ExecuteTemplate(&buf, name, data); err != nil {
		a.logger.Error("failed to render template", "template", name, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (a *App) writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		a.logger.Error("failed to encode response", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

func (a *App) writeJSONError(w http.ResponseWriter, err error) {
	a.writeJSON(w, StatusFor(err), map[string]string{"error": shared.UserMessage(err)})
}

// StatusFor maps an error to the HTTP status the browser and API return for it.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, shared.ErrInvalidPlaylistReference),
		errors.Is(err, shared.ErrMissingArgument),
		errors.Is(err, shared.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrPlaylistNotFound), errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrUpstreamUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, shared.ErrMissingCredentials),
		errors.Is(err, shared.ErrServiceUnavailable),
		errors.Is(err, shared.ErrHistoryDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func formatDate(d models.Date) string {
	if d.IsZero() {
		return "unknown"
	}
	return d.String()
}
