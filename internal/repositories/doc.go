// Package repositories implements SQLite persistence for finished analysis reports.
//
// [ReportRepository] stores one row per report: the searchable metadata (playlist IDs and names, similarity,
// vocabulary mode, track counts) in columns, and the full report as a JSON payload.
// Rows are soft-deleted via deleted_at timestamps and excluded from queries by default.
//
// Sequence numbers provide stable, human-readable ordering (e.g., report #42) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
