package models

import (
	"fmt"
	"time"
)

// ReportMeta holds the searchable columns of a stored report.
type ReportMeta struct {
	PlaylistAID   string
	PlaylistAName string
	PlaylistBID   string
	PlaylistBName string
	Similarity    float64
	Vocabulary    string
	TracksA       int
	TracksB       int
	CommonCount   int
}

// ReportRecord is a finished analysis stored in the history database.
//
// The full report travels in payload as JSON; meta duplicates the fields needed for listing.
type ReportRecord struct {
	id        string
	sequence  int
	meta      ReportMeta
	payload   []byte
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewReportRecord creates an unsaved record. The repository assigns the ID and sequence.
func NewReportRecord(meta ReportMeta, payload []byte) *ReportRecord {
	now := time.Now().UTC()
	return &ReportRecord{
		meta:      meta,
		payload:   payload,
		createdAt: now,
		updatedAt: now,
	}
}

// RestoreReportRecord rebuilds a record read from storage.
func RestoreReportRecord(id string, sequence int, meta ReportMeta, payload []byte, createdAt, updatedAt time.Time, deletedAt *time.Time) *ReportRecord {
	return &ReportRecord{
		id:        id,
		sequence:  sequence,
		meta:      meta,
		payload:   payload,
		createdAt: createdAt,
		updatedAt: updatedAt,
		deletedAt: deletedAt,
	}
}

func (r *ReportRecord) ID() string            { return r.id }
func (r *ReportRecord) Sequence() int         { return r.sequence }
func (r *ReportRecord) Meta() ReportMeta      { return r.meta }
func (r *ReportRecord) Payload() []byte       { return r.payload }
func (r *ReportRecord) CreatedAt() time.Time  { return r.createdAt }
func (r *ReportRecord) UpdatedAt() time.Time  { return r.updatedAt }
func (r *ReportRecord) DeletedAt() *time.Time { return r.deletedAt }

func (r *ReportRecord) SetID(id string)          { r.id = id }
func (r *ReportRecord) SetSequence(sequence int) { r.sequence = sequence }

// Validate checks the invariants the reports table relies on.
func (r *ReportRecord) Validate() error {
	if r.id == "" {
		return fmt.Errorf("report id is required")
	}
	if r.meta.PlaylistAID == "" || r.meta.PlaylistBID == "" {
		return fmt.Errorf("both playlist ids are required")
	}
	if r.meta.Similarity < 0 || r.meta.Similarity > 100 {
		return fmt.Errorf("similarity %.2f out of range [0, 100]", r.meta.Similarity)
	}
	if len(r.payload) == 0 {
		return fmt.Errorf("report payload is required")
	}
	return nil
}
