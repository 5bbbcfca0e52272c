package shared

import (
	"path/filepath"
	"testing"
)

func TestMigrationRunner(t *testing.T) {
	t.Run("parseMigrationName", func(t *testing.T) {
		tc := []struct {
			name      string
			file      string
			version   int
			label     string
			direction string
			ok        bool
		}{
			{name: "up file", file: "0001_create_reports_up.sql", version: 1, label: "create_reports", direction: "up", ok: true},
			{name: "down file", file: "0012_add_index_down.sql", version: 12, label: "add_index", direction: "down", ok: true},
			{name: "not sql", file: "0001_create_reports_up.txt"},
			{name: "no direction", file: "0001_create_reports.sql"},
			{name: "bad version", file: "abc_create_up.sql"},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				version, label, direction, ok := parseMigrationName(tt.file)
				if ok != tt.ok {
					t.Fatalf("parseMigrationName(%q) ok = %v, want %v", tt.file, ok, tt.ok)
				}
				if !ok {
					return
				}
				if version != tt.version || label != tt.label || direction != tt.direction {
					t.Errorf("parseMigrationName(%q) = (%d, %q, %q), want (%d, %q, %q)",
						tt.file, version, label, direction, tt.version, tt.label, tt.direction)
				}
			})
		}
	})

	t.Run("loadMigrations", func(t *testing.T) {
		migrations, err := loadMigrations()
		if err != nil {
			t.Fatalf("failed to load migrations: %v", err)
		}

		if len(migrations) == 0 {
			t.Fatal("expected at least one migration")
		}

		for i := 1; i < len(migrations); i++ {
			if migrations[i].Version <= migrations[i-1].Version {
				t.Errorf("migrations not sorted: version %d comes after %d", migrations[i].Version, migrations[i-1].Version)
			}
		}

		for _, m := range migrations {
			if m.Up == "" {
				t.Errorf("migration version %d missing up SQL", m.Version)
			}
			if m.Down == "" {
				t.Errorf("migration version %d missing down SQL", m.Version)
			}
		}
	})

	t.Run("splitStatements", func(t *testing.T) {
		script := "-- header\nCREATE TABLE a (id INTEGER); -- trailing\n\n;INSERT INTO a VALUES (1);"
		stmts := splitStatements(script)
		if len(stmts) != 2 {
			t.Fatalf("expected 2 statements, got %d: %q", len(stmts), stmts)
		}
		if stmts[0] != "CREATE TABLE a (id INTEGER)" {
			t.Errorf("unexpected first statement %q", stmts[0])
		}
	})

	t.Run("RunMigrations And Rollback", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}

		version, err := CurrentVersion(db)
		if err != nil {
			t.Fatalf("failed to read version: %v", err)
		}
		if version == 0 {
			t.Error("expected at least one migration to be applied")
		}

		if _, err := db.Exec("SELECT 1 FROM reports LIMIT 1"); err != nil {
			t.Errorf("reports table should exist after migrations: %v", err)
		}

		if err := RunMigrations(db); err != nil {
			t.Fatalf("running migrations twice should be a no-op: %v", err)
		}

		if err := RollbackMigration(db); err != nil {
			t.Fatalf("failed to rollback migration: %v", err)
		}

		if _, err := db.Exec("SELECT 1 FROM reports LIMIT 1"); err == nil {
			t.Error("reports table should be gone after rollback")
		}

		if err := RollbackMigration(db); err == nil {
			t.Error("expected error when nothing is left to roll back")
		}
	})

	t.Run("OpenHistory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "history.db")
		db, err := OpenHistory(DatabaseConfig{Path: path, MaxOpenConns: 1, MaxIdleConns: 1})
		if err != nil {
			t.Fatalf("failed to open history: %v", err)
		}
		defer db.Close()

		var count int
		if err := db.QueryRow("SELECT value FROM reports_sequence WHERE id = 1").Scan(&count); err != nil {
			t.Fatalf("expected sequence row, got %v", err)
		}
		if count != 0 {
			t.Errorf("expected fresh sequence, got %d", count)
		}
	})
}
