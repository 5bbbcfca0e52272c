// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/models"
	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/shared"
)

// MockService is a test double for [services.Service] that serves snapshots keyed by the reference passed in.
type MockService struct {
	mu        sync.Mutex
	snapshots map[string]*models.Snapshot
	errs      map[string]error
	calls     []string
}

// NewMockService creates a MockService with no playlists.
func NewMockService() *MockService {
	return &MockService{
		snapshots: make(map[string]*models.Snapshot),
		errs:      make(map[string]error),
	}
}

// Add registers a snapshot under ref.
func (m *MockService) Add(ref string, s *models.Snapshot) *MockService {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[ref] = s
	return m
}

// Fail makes every fetch of ref return err.
func (m *MockService) Fail(ref string, err error) *MockService {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[ref] = err
	return m
}

// Calls returns the references fetched so far, in order.
func (m *MockService) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *MockService) FetchSnapshot(ctx context.Context, ref string) (*models.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, ref)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := m.errs[ref]; ok {
		return nil, err
	}
	if s, ok := m.snapshots[ref]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, ref)
}

func (m *MockService) Name() string { return "mock" }

// NewTrack builds a track record. added may be empty for an unknown date.
func NewTrack(name, artist, genre, added string, popularity int) models.Track {
	t := models.Track{
		URI:              "spotify:track:" + name,
		Name:             name,
		Popularity:       popularity,
		ArtistID:         artist,
		ArtistName:       artist,
		ArtistPopularity: popularity,
		Genre:            genre,
		ArtistURL:        "https://open.spotify.com/artist/" + artist,
	}
	if added != "" {
		d, err := models.ParseDate(added)
		if err != nil {
			panic(err)
		}
		t.AddedAt = d
	}
	return t
}

// NewSnapshot builds a snapshot named after id.
func NewSnapshot(id, name string, tracks ...models.Track) *models.Snapshot {
	return &models.Snapshot{
		ID:        id,
		Name:      name,
		Owner:     "tester",
		URL:       "https://open.spotify.com/playlist/" + id,
		FetchedAt: time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC),
		Tracks:    tracks,
	}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
