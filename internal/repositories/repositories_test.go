package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/models"
	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func newRecord(a, b string, similarity float64) *models.ReportRecord {
	meta := models.ReportMeta{
		PlaylistAID:   a,
		PlaylistAName: "Playlist " + a,
		PlaylistBID:   b,
		PlaylistBName: "Playlist " + b,
		Similarity:    similarity,
		Vocabulary:    "union",
		TracksA:       3,
		TracksB:       2,
		CommonCount:   1,
	}
	return models.NewReportRecord(meta, []byte(`{"similarity":1}`))
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)

	for want := 1; want <= 3; want++ {
		got, err := NextSequence(context.Background(), db, "reports")
		if err != nil {
			t.Fatalf("failed to get sequence: %v", err)
		}
		if got != want {
			t.Errorf("expected sequence %d, got %d", want, got)
		}
	}

	if _, err := NextSequence(context.Background(), db, "reports; DROP TABLE reports"); err == nil {
		t.Error("expected unknown table to be rejected")
	}
}

func TestReportRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		repo := NewReportRepository(setupTestDB(t))
		record := newRecord("a", "b", 42.5)

		if err := repo.Create(record); err != nil {
			t.Fatalf("failed to create report: %v", err)
		}

		if record.ID() == "" {
			t.Error("report ID should be set after creation")
		}
		if record.Sequence() != 1 {
			t.Errorf("expected sequence 1, got %d", record.Sequence())
		}
	})

	t.Run("Create rejects invalid records", func(t *testing.T) {
		repo := NewReportRepository(setupTestDB(t))

		err := repo.Create(newRecord("a", "", 10))
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}

		err = repo.Create(newRecord("a", "b", 101))
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument for out of range similarity, got %v", err)
		}
	})

	t.Run("Get", func(t *testing.T) {
		repo := NewReportRepository(setupTestDB(t))
		record := newRecord("a", "b", 42.5)
		if err := repo.Create(record); err != nil {
			t.Fatalf("failed to create report: %v", err)
		}

		retrieved, err := repo.Get(record.ID())
		if err != nil {
			t.Fatalf("failed to get report: %v", err)
		}

		if retrieved.ID() != record.ID() {
			t.Errorf("expected ID %s, got %s", record.ID(), retrieved.ID())
		}
		if retrieved.Meta() != record.Meta() {
			t.Errorf("expected meta %+v, got %+v", record.Meta(), retrieved.Meta())
		}
		if string(retrieved.Payload()) != string(record.Payload()) {
			t.Errorf("expected payload %s, got %s", record.Payload(), retrieved.Payload())
		}
		if !retrieved.CreatedAt().Equal(record.CreatedAt()) {
			t.Errorf("expected created_at %v, got %v", record.CreatedAt(), retrieved.CreatedAt())
		}
		if retrieved.DeletedAt() != nil {
			t.Error("expected deleted_at to be nil")
		}
	})

	t.Run("Get missing", func(t *testing.T) {
		repo := NewReportRepository(setupTestDB(t))

		if _, err := repo.Get("missing"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		repo := NewReportRepository(setupTestDB(t))
		record := newRecord("a", "b", 10)
		if err := repo.Create(record); err != nil {
			t.Fatalf("failed to create report: %v", err)
		}

		if err := repo.Delete(record.ID()); err != nil {
			t.Fatalf("failed to delete report: %v", err)
		}

		if _, err := repo.Get(record.ID()); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected deleted report to be hidden, got %v", err)
		}

		if err := repo.Delete(record.ID()); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected second delete to fail with ErrNotFound, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		repo := NewReportRepository(setupTestDB(t))

		pairs := [][2]string{{"a", "b"}, {"c", "d"}, {"b", "e"}, {"f", "g"}}
		var records []*models.ReportRecord
		for _, p := range pairs {
			r := newRecord(p[0], p[1], 50)
			if err := repo.Create(r); err != nil {
				t.Fatalf("failed to create report: %v", err)
			}
			records = append(records, r)
		}

		if err := repo.Delete(records[3].ID()); err != nil {
			t.Fatalf("failed to delete report: %v", err)
		}

		all, err := repo.List(map[string]any{})
		if err != nil {
			t.Fatalf("failed to list reports: %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("expected 3 reports, got %d", len(all))
		}
		if all[0].ID() != records[2].ID() {
			t.Errorf("expected newest report first, got sequence %d", all[0].Sequence())
		}

		limited, err := repo.List(map[string]any{"limit": 1})
		if err != nil {
			t.Fatalf("failed to list reports: %v", err)
		}
		if len(limited) != 1 {
			t.Errorf("expected 1 report, got %d", len(limited))
		}

		byPlaylist, err := repo.List(map[string]any{"playlist_id": "b"})
		if err != nil {
			t.Fatalf("failed to list reports: %v", err)
		}
		if len(byPlaylist) != 2 {
			t.Errorf("expected 2 reports involving playlist b, got %d", len(byPlaylist))
		}

		none, err := repo.List(map[string]any{"playlist_id": "zzz"})
		if err != nil {
			t.Fatalf("failed to list reports: %v", err)
		}
		if len(none) != 0 {
			t.Errorf("expected no reports, got %d", len(none))
		}
	})
}
