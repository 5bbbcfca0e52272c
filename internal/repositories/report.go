package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/models"
	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/shared"
)

// DefaultListLimit caps List when no limit criterion is given.
const DefaultListLimit = 50

const reportColumns = `id, sequence, playlist_a_id, playlist_a_name, playlist_b_id, playlist_b_name,
		similarity, vocabulary, tracks_a, tracks_b, common_count, payload, created_at, updated_at, deleted_at`

// ReportRepository implements models.Repository[*models.ReportRecord] for the report history.
type ReportRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.ReportRecord] = (*ReportRepository)(nil)

// NewReportRepository creates a new ReportRepository with the given database connection
func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create inserts a new report with a generated ID and sequence
func (r *ReportRepository) Create(report *models.ReportRecord) error {
	sequence, err := NextSequence(context.Background(), r.db, "reports")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	report.SetID(shared.GenerateID())
	report.SetSequence(sequence)

	if err := report.Validate(); err != nil {
		return fmt.Errorf("%w: validation failed: %v", shared.ErrInvalidArgument, err)
	}

	meta := report.Meta()
	query := `
		INSERT INTO reports (id, sequence, playlist_a_id, playlist_a_name, playlist_b_id, playlist_b_name,
			similarity, vocabulary, tracks_a, tracks_b, common_count, payload, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		report.ID(),
		sequence,
		meta.PlaylistAID,
		meta.PlaylistAName,
		meta.PlaylistBID,
		meta.PlaylistBName,
		meta.Similarity,
		meta.Vocabulary,
		meta.TracksA,
		meta.TracksB,
		meta.CommonCount,
		string(report.Payload()),
		report.CreatedAt(),
		report.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}

	return nil
}

// Get retrieves a report by ID, excluding soft-deleted reports
func (r *ReportRepository) Get(id string) (*models.ReportRecord, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id = ? AND deleted_at IS NULL`

	report, err := scanReport(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: report %s", shared.ErrNotFound, id)
	}
	return report, err
}

// Delete soft-deletes a report by ID
func (r *ReportRepository) Delete(id string) error {
	result, err := r.db.Exec(`UPDATE reports SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: report %s not found or already deleted", shared.ErrNotFound, id)
	}

	return nil
}

// List retrieves reports newest first, excluding soft-deleted reports.
//
// Criteria:
//   - "playlist_id" (string): reports where either side is this playlist
//   - "limit" (int): maximum number of rows, [DefaultListLimit] when absent
func (r *ReportRepository) List(criteria map[string]any) ([]*models.ReportRecord, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE deleted_at IS NULL`
	args := []any{}

	if playlistID, ok := criteria["playlist_id"].(string); ok && playlistID != "" {
		query += " AND (playlist_a_id = ? OR playlist_b_id = ?)"
		args = append(args, playlistID, playlistID)
	}

	limit := DefaultListLimit
	if l, ok := criteria["limit"].(int); ok && l > 0 {
		limit = l
	}
	query += " ORDER BY sequence DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	var reports []*models.ReportRecord
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return reports, nil
}

// scanner is satisfied by both [sql.Row] and [sql.Rows].
type scanner interface {
	Scan(dest ...any) error
}

// scanReport scans one row selected with reportColumns into a [models.ReportRecord]
func scanReport(row scanner) (*models.ReportRecord, error) {
	var (
		id        string
		sequence  int
		meta      models.ReportMeta
		payload   string
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := row.Scan(
		&id, &sequence,
		&meta.PlaylistAID, &meta.PlaylistAName, &meta.PlaylistBID, &meta.PlaylistBName,
		&meta.Similarity, &meta.Vocabulary, &meta.TracksA, &meta.TracksB, &meta.CommonCount,
		&payload, &createdAt, &updatedAt, &deletedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan report: %w", err)
	}

	var deleted *time.Time
	if deletedAt.Valid {
		deleted = &deletedAt.Time
	}

	return models.RestoreReportRecord(id, sequence, meta, []byte(payload), createdAt, updatedAt, deleted), nil
}
