// Package tasks orchestrates a playlist analysis with real-time progress reporting.
//
// # Core Operation
//
// [AnalysisEngine.Analyse] runs one comparison end to end:
//
//  1. Validate both playlist references before any request is made
//  2. Fetch playlist A, then playlist B, from the [services.Service]
//  3. Score, summarise, join and histogram the snapshots (package analysis)
//  4. Optionally store the finished report through a [ReportSaver]
//
// Playlists are fetched one after the other. Nothing is cached between runs: every call fetches fresh snapshots.
//
// # Progress Reporting
//
// # All operations use non-blocking channels for progress updates
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Report History
//
// The optional [ReportSaver] interface is satisfied by repositories.ReportRepository.
// A failed save does not fail the analysis; the report carries a warning instead.
package tasks
