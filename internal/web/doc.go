// Package web implements the browser interface of the playlist analyser.
//
// Pages are rendered server-side with html/template from templates embedded in the binary.
// Every route runs on the [server.BasicRouter] with recovery and request logging middleware.
//
// Routes
//
//	GET  /                  → comparison form with two playlist inputs
//	POST /analyse           → runs the analysis and renders the report page
//	GET  /api/analyse?a=&b= → same report as JSON
//	GET  /history           → saved reports, newest first (history enabled only)
//	GET  /history/{id}      → one saved report, as HTML or JSON by Accept header
//	GET  /healthz           → liveness
//
// The report page shows the two track tables, the similarity percentage, the two summary tables,
// a grouped bar chart of tracks added per day drawn as inline SVG, and the common songs or a
// "no common songs" notice. Errors and warnings are shown as notices using [shared.UserMessage].
package web
