package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/analysis"
	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/repositories"
	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/shared"
	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/tasks"
	tu "github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/testing"
)

const (
	idA  = "AAAAAAAAAAAAAAAAAAAAAA"
	idB  = "BBBBBBBBBBBBBBBBBBBBBB"
	refA = "https://open.spotify.com/playlist/" + idA
	refB = "spotify:playlist:" + idB
)

func newService() *tu.MockService {
	return tu.NewMockService().
		Add(refA, tu.NewSnapshot(idA, "Morning",
			tu.NewTrack("Yellow", "Coldplay", "permanent wave pop", "2024-01-01", 80),
			tu.NewTrack("Clocks", "Coldplay", "permanent wave pop", "2024-01-01", 75),
			tu.NewTrack("Creep", "Radiohead", "alternative rock", "2024-03-05", 85),
		)).
		Add(refB, tu.NewSnapshot(idB, "Evening <3",
			tu.NewTrack("Yellow", "Coldplay", "permanent wave pop", "2024-02-02", 80),
			tu.NewTrack("Creep", "Radiohead", "alternative rock", "2024-03-05", 85),
		))
}

// newTestApp wires the real engine to a mock service and, when withHistory is set, an in-memory history.
func newTestApp(t *testing.T, svc *tu.MockService, withHistory bool) (*App, *repositories.ReportRepository) {
	t.Helper()

	engine := tasks.NewAnalysisEngine(svc, "", nil)
	opts := []Option{WithTimeout(5 * time.Second)}

	var repo *repositories.ReportRepository
	if withHistory {
		db, err := shared.OpenHistory(shared.DatabaseConfig{Path: ":memory:"})
		if err != nil {
			t.Fatalf("failed to open history: %v", err)
		}
		t.Cleanup(func() { db.Close() })

		repo = repositories.NewReportRepository(db)
		engine.SetReportSaver(repo)
		opts = append(opts, WithHistory(repo))
	}

	app, err := NewApp(engine, opts...)
	if err != nil {
		t.Fatalf("failed to create app: %v", err)
	}
	return app, repo
}

func do(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func postForm(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/analyse", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestIndex(t *testing.T) {
	app, _ := newTestApp(t, newService(), false)
	h := app.Handler()

	rec := do(t, h, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := rec.Body.String()
	for _, want := range []string{`name="playlist_a"`, `name="playlist_b"`, "Analyse Playlists"} {
		if !strings.Contains(body, want) {
			t.Errorf("index missing %q", want)
		}
	}
	if strings.Contains(body, `href="/history"`) {
		t.Error("history link should be hidden when history is disabled")
	}

	if rec := do(t, h, httptest.NewRequest(http.MethodGet, "/nope", nil)); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown path, got %d", rec.Code)
	}
}

func TestAnalysePage(t *testing.T) {
	t.Run("renders the report", func(t *testing.T) {
		app, _ := newTestApp(t, newService(), false)

		rec := do(t, app.Handler(), postForm(url.Values{"playlist_a": {refA}, "playlist_b": {refB}}))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		body := rec.Body.String()
		expected := []string{
			"Morning (3 tracks)",
			"Evening &lt;3 (2 tracks)",
			`class="similarity"`,
			"most added artist",
			"Coldplay (2)",
			"<svg",
			`class="bar-a"`,
			"2024-03-05",
			"<td>Yellow</td>",
		}
		for _, want := range expected {
			if !strings.Contains(body, want) {
				t.Errorf("report missing %q", want)
			}
		}
		if strings.Contains(body, "Evening <3") {
			t.Error("playlist name was not escaped")
		}
		if strings.Contains(body, "No common songs found") {
			t.Error("did not expect the no common songs notice")
		}
	})

	t.Run("no common songs notice", func(t *testing.T) {
		svc := newService().Add("CCCCCCCCCCCCCCCCCCCCCC", tu.NewSnapshot("CCCCCCCCCCCCCCCCCCCCCC", "Other",
			tu.NewTrack("Something Else", "Nobody", "jazz", "2024-05-05", 10),
		))
		app, _ := newTestApp(t, svc, false)

		rec := do(t, app.Handler(), postForm(url.Values{"playlist_a": {refA}, "playlist_b": {"CCCCCCCCCCCCCCCCCCCCCC"}}))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "No common songs found.") {
			t.Error("expected the no common songs notice")
		}
	})

	t.Run("empty playlist warning", func(t *testing.T) {
		svc := newService().Add("EEEEEEEEEEEEEEEEEEEEEE", tu.NewSnapshot("EEEEEEEEEEEEEEEEEEEEEE", "Empty"))
		app, _ := newTestApp(t, svc, false)

		rec := do(t, app.Handler(), postForm(url.Values{"playlist_a": {refA}, "playlist_b": {"EEEEEEEEEEEEEEEEEEEEEE"}}))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		body := rec.Body.String()
		if !strings.Contains(body, `<div class="notice">Empty: `) {
			t.Errorf("expected empty playlist warning notice")
		}
		if !strings.Contains(body, "0.00%") {
			t.Error("expected 0.00% similarity")
		}
	})

	t.Run("errors re-render the form", func(t *testing.T) {
		tests := []struct {
			name   string
			svc    *tu.MockService
			form   url.Values
			status int
			msg    string
		}{
			{
				name:   "invalid reference",
				svc:    newService(),
				form:   url.Values{"playlist_a": {"hello"}, "playlist_b": {refB}},
				status: http.StatusBadRequest,
				msg:    "doesn&#39;t look like a Spotify playlist link",
			},
			{
				name:   "missing playlist",
				svc:    newService(),
				form:   url.Values{"playlist_a": {refA}},
				status: http.StatusBadRequest,
				msg:    "missing required argument",
			},
			{
				name:   "not found",
				svc:    newService(),
				form:   url.Values{"playlist_a": {"ZZZZZZZZZZZZZZZZZZZZZZ"}, "playlist_b": {refB}},
				status: http.StatusNotFound,
				msg:    "couldn&#39;t find that playlist",
			},
			{
				name:   "upstream",
				svc:    newService().Fail(refB, shared.ErrUpstreamUnavailable),
				form:   url.Values{"playlist_a": {refA}, "playlist_b": {refB}},
				status: http.StatusBadGateway,
				msg:    "Spotify is unavailable",
			},
			{
				name:   "bad vocabulary",
				svc:    newService(),
				form:   url.Values{"playlist_a": {refA}, "playlist_b": {refB}, "vocabulary": {"sideways"}},
				status: http.StatusBadRequest,
				msg:    "unknown vocabulary",
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				app, _ := newTestApp(t, tt.svc, false)

				rec := do(t, app.Handler(), postForm(tt.form))
				if rec.Code != tt.status {
					t.Errorf("expected %d, got %d", tt.status, rec.Code)
				}

				body := rec.Body.String()
				if !strings.Contains(body, `class="notice error"`) || !strings.Contains(body, tt.msg) {
					t.Errorf("expected error notice containing %q, got:\n%s", tt.msg, body)
				}
				if !strings.Contains(body, `name="playlist_a"`) {
					t.Error("expected the form to be shown again")
				}
			})
		}
	})

	t.Run("GET is not allowed", func(t *testing.T) {
		app, _ := newTestApp(t, newService(), false)
		if rec := do(t, app.Handler(), httptest.NewRequest(http.MethodGet, "/analyse", nil)); rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})
}

func TestAPIAnalyse(t *testing.T) {
	t.Run("returns the report as JSON", func(t *testing.T) {
		app, _ := newTestApp(t, newService(), false)

		q := url.Values{"a": {refA}, "b": {refB}, "vocabulary": {"directional"}}
		rec := do(t, app.Handler(), httptest.NewRequest(http.MethodGet, "/api/analyse?"+q.Encode(), nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON content type, got %s", ct)
		}

		var report analysis.Report
		if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if report.Vocabulary != analysis.VocabularyDirectional {
			t.Errorf("expected directional vocabulary, got %s", report.Vocabulary)
		}
		if report.PlaylistA.Name != "Morning" || len(report.Common.Rows) != 2 {
			t.Errorf("unexpected report: %+v", report)
		}
		if len(report.Histogram) != 3 {
			t.Errorf("expected 3 histogram dates, got %d", len(report.Histogram))
		}
	})

	t.Run("errors are JSON", func(t *testing.T) {
		app, _ := newTestApp(t, newService(), false)

		rec := do(t, app.Handler(), httptest.NewRequest(http.MethodGet, "/api/analyse?a=bad&b=bad", nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}

		var body map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if body["error"] != shared.UserMessage(shared.ErrInvalidPlaylistReference) {
			t.Errorf("unexpected error message %q", body["error"])
		}
	})
}

func TestHistory(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		app, _ := newTestApp(t, newService(), false)

		for _, path := range []string{"/history", "/history/abc"} {
			rec := do(t, app.Handler(), httptest.NewRequest(http.MethodGet, path, nil))
			if rec.Code != http.StatusServiceUnavailable {
				t.Errorf("%s: expected 503, got %d", path, rec.Code)
			}
		}
	})

	t.Run("save, list and show", func(t *testing.T) {
		app, repo := newTestApp(t, newService(), true)
		h := app.Handler()

		rec := do(t, h, postForm(url.Values{"playlist_a": {refA}, "playlist_b": {refB}, "save": {"1"}}))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		records, err := repo.List(map[string]any{})
		if err != nil || len(records) != 1 {
			t.Fatalf("expected one saved report, got %d (%v)", len(records), err)
		}
		id := records[0].ID()

		if !strings.Contains(rec.Body.String(), "/history/"+id) {
			t.Error("expected the report page to link to the saved report")
		}

		rec = do(t, h, httptest.NewRequest(http.MethodGet, "/history", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "/history/"+id) || !strings.Contains(rec.Body.String(), "Morning (3)") {
			t.Errorf("history list missing the report:\n%s", rec.Body.String())
		}

		rec = do(t, h, httptest.NewRequest(http.MethodGet, "/history/"+id, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "<svg") {
			t.Error("expected the stored report to render with its chart")
		}

		req := httptest.NewRequest(http.MethodGet, "/history/"+id, nil)
		req.Header.Set("Accept", "application/json")
		rec = do(t, h, req)

		var report analysis.Report
		if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if report.ID != id {
			t.Errorf("expected report ID %s, got %s", id, report.ID)
		}
	})

	t.Run("unknown report", func(t *testing.T) {
		app, _ := newTestApp(t, newService(), true)

		rec := do(t, app.Handler(), httptest.NewRequest(http.MethodGet, "/history/missing", nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})
}

func TestHealthz(t *testing.T) {
	app, _ := newTestApp(t, newService(), true)

	rec := do(t, app.Handler(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{shared.ErrInvalidPlaylistReference, http.StatusBadRequest},
		{shared.ErrMissingArgument, http.StatusBadRequest},
		{shared.ErrPlaylistNotFound, http.StatusNotFound},
		{shared.ErrNotFound, http.StatusNotFound},
		{shared.ErrUpstreamUnavailable, http.StatusBadGateway},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{shared.ErrMissingCredentials, http.StatusServiceUnavailable},
		{shared.ErrHistoryDisabled, http.StatusServiceUnavailable},
		{context.Canceled, http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := StatusFor(c.err); got != c.want {
			t.Errorf("StatusFor(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

func TestBuildChart(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		if c := buildChart(nil, "A", "B"); !c.Empty {
			t.Error("expected empty chart")
		}
	})

	t.Run("bars scale to the largest count", func(t *testing.T) {
		a := tu.NewSnapshot("a", "A",
			tu.NewTrack("1", "x", "", "2024-01-01", 0),
			tu.NewTrack("2", "x", "", "2024-01-01", 0),
			tu.NewTrack("3", "x", "", "2024-03-05", 0),
		)
		b := tu.NewSnapshot("b", "B", tu.NewTrack("4", "y", "", "2024-03-05", 0))

		c := buildChart(analysis.BuildHistogram(a, b), "A", "B")

		if len(c.Bars) != 4 || len(c.Labels) != 2 {
			t.Fatalf("expected 4 bars and 2 labels, got %d and %d", len(c.Bars), len(c.Labels))
		}
		if c.Bars[0].Height != chartPlotHeight {
			t.Errorf("expected tallest bar at full height, got %d", c.Bars[0].Height)
		}
		if c.Bars[1].Height != 0 || c.Bars[1].Y != c.Baseline {
			t.Errorf("expected zero bar on the baseline, got %+v", c.Bars[1])
		}
		if c.Bars[2].Height != chartPlotHeight/2 {
			t.Errorf("expected half height bar, got %d", c.Bars[2].Height)
		}
		if c.Labels[0].Label != "2024-01-01" || c.Labels[1].Label != "2024-03-05" {
			t.Errorf("unexpected labels %+v", c.Labels)
		}
		if c.Bars[0].X >= c.Bars[1].X || c.Bars[1].X >= c.Bars[2].X {
			t.Error("expected bars laid out left to right")
		}
		if first, last := c.Ticks[0], c.Ticks[len(c.Ticks)-1]; first.Label != "0" || last.Label != "2" {
			t.Errorf("unexpected ticks %+v", c.Ticks)
		}
	})
}
