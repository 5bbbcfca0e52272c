// Package server provides HTTP routing, middleware and the server lifecycle for the browser interface.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with per-path method dispatch:
// several methods may share a path, HEAD is served by the GET handler, and other methods get a 405 with an Allow header.
// Paths may use ServeMux wildcards such as "/history/{id}"; handlers read them with [http.Request.PathValue].
//
// # Middleware
//
//   - [Logging] writes one structured line per request through charmbracelet/log
//   - [Recover] turns handler panics into 500 responses
//
// # Lifecycle
//
// [Server] owns an [http.Server] and shuts it down gracefully when its context is cancelled.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
