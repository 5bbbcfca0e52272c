// Package models defines domain entities and persistence interfaces for the playlist analyser.
//
// The package contains two categories of types:
//
// 1. Snapshot types: immutable values produced by one fetch of a playlist
//   - [Track] : one track record (track, primary artist, genres, add date)
//   - [Snapshot] : the ordered tracks of one playlist at fetch time
//   - [Date] : calendar date used for added_at
//
// 2. Persistent Entities: database-backed models with full lifecycle management
//   - [ReportRecord] : a finished analysis stored in the optional history
//
// Persistent entities implement the [Model] interface providing ID, timestamps and validation.
// The [Repository] interface defines standard CRUD operations for database access.
//
// Snapshots are never persisted on their own and never shared between analyses.
package models
