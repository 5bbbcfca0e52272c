package server

import (
	"net/http"
	"slices"
	"strings"
)

// BasicRouter is a simple HTTP router implementing the [Router] interface.
//
// Uses [http.ServeMux] internally for path matching, so patterns such as "/{$}" and
// "/history/{id}" work. Several methods may share a path; HEAD falls back to GET.
type BasicRouter struct {
	mux         *http.ServeMux
	middlewares []Middleware
	routes      map[string]*methodSet
}

// methodSet dispatches one path by request method.
type methodSet struct {
	handlers map[string]http.Handler
}

func (m *methodSet) allowed() string {
	methods := make([]string, 0, len(m.handlers)+1)
	for method := range m.handlers {
		methods = append(methods, method)
	}
	if _, ok := m.handlers[http.MethodGet]; ok {
		if _, ok := m.handlers[http.MethodHead]; !ok {
			methods = append(methods, http.MethodHead)
		}
	}
	slices.Sort(methods)
	return strings.Join(methods, ", ")
}

func (m *methodSet) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	method := strings.ToUpper(req.Method)
	h, ok := m.handlers[method]
	if !ok && method == http.MethodHead {
		h, ok = m.handlers[http.MethodGet]
	}
	if !ok {
		w.Header().Set("Allow", m.allowed())
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.ServeHTTP(w, req)
}

// NewBasicRouter creates a new [BasicRouter] instance.
func NewBasicRouter() *BasicRouter {
	return &BasicRouter{
		mux:         http.NewServeMux(),
		middlewares: []Middleware{},
		routes:      map[string]*methodSet{},
	}
}

// Use adds [Middleware] to the [Router] instance's middleware stack, applied in the order it's added.
//
// Only routes registered after the call are wrapped.
func (r *BasicRouter) Use(middleware ...Middleware) {
	r.middlewares = append(r.middlewares, middleware...)
}

// Handle registers a handler for the specified HTTP method and path.
//
// The handler is wrapped with all registered middleware. Registering the same method and path twice replaces the first handler.
func (r *BasicRouter) Handle(method, path string, handler http.Handler) {
	set, ok := r.routes[path]
	if !ok {
		set = &methodSet{handlers: map[string]http.Handler{}}
		r.routes[path] = set
		r.mux.Handle(path, set)
	}
	set.handlers[strings.ToUpper(method)] = r.Apply(handler)
}

// Handler registers a custom Handler implementation.
//
// All routes returned by [Handler.Routes] are registered with this handler for every method.
func (r *BasicRouter) Handler(handler Handler) {
	wrapped := r.Apply(handler)

	for _, route := range handler.Routes() {
		r.mux.Handle(route, wrapped)
	}
}

// ServeHTTP implements [http.Handler] for the entire router.
func (r *BasicRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Apply wraps a handler with all registered middleware.
//
// Middleware is applied in reverse order (last added wraps first).
func (r *BasicRouter) Apply(handler http.Handler) http.Handler {
	wrapped := handler

	for i := len(r.middlewares) - 1; i >= 0; i-- {
		wrapped = r.middlewares[i](wrapped)
	}

	return wrapped
}
