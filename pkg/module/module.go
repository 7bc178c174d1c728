// Package module mounts prefixed sub-routers, each with its own middleware
// stack, under a top-level router with a native ServeMux fallback.
package module

import (
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/JaimeStill/stance/pkg/middleware"
)

// Module serves an inner router beneath a path prefix. The prefix is
// stripped before the inner router sees the request.
type Module struct {
	prefix     string
	router     http.Handler
	middleware middleware.Chain
}

// New creates a Module for prefix (e.g. "/api" or "/stance/api").
// Panics if the prefix is empty, lacks a leading slash, or ends with one.
func New(prefix string, router http.Handler) *Module {
	if err := validatePrefix(prefix); err != nil {
		panic(err)
	}
	return &Module{
		prefix: prefix,
		router: router,
	}
}

// Prefix returns the module's path prefix.
func (m *Module) Prefix() string {
	return m.prefix
}

// Use adds middleware to the module's stack.
func (m *Module) Use(mw middleware.Func) {
	m.middleware.Use(mw)
}

// ServeHTTP strips the prefix and dispatches through the middleware stack.
func (m *Module) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	path := strings.TrimPrefix(req.URL.Path, m.prefix)
	if path == "" {
		path = "/"
	}
	m.middleware.Then(m.router).ServeHTTP(w, withPath(req, path))
}

// matches reports whether path is the prefix itself or lies beneath it.
func (m *Module) matches(path string) bool {
	return path == m.prefix || strings.HasPrefix(path, m.prefix+"/")
}

// Router dispatches to the mounted module with the longest matching prefix
// and falls back to a native ServeMux.
type Router struct {
	modules []*Module
	native  *http.ServeMux
}

// NewRouter creates a Router with no modules and an empty native mux.
func NewRouter() *Router {
	return &Router{native: http.NewServeMux()}
}

// HandleNative registers a handler on the native fallback mux.
func (r *Router) HandleNative(pattern string, handler http.HandlerFunc) {
	r.native.HandleFunc(pattern, handler)
}

// Mount registers a module. Panics if its prefix is already mounted.
func (r *Router) Mount(m *Module) {
	for _, existing := range r.modules {
		if existing.prefix == m.prefix {
			panic(fmt.Errorf("module prefix already mounted: %s", m.prefix))
		}
	}
	r.modules = append(r.modules, m)
	slices.SortStableFunc(r.modules, func(a, b *Module) int {
		return len(b.prefix) - len(a.prefix)
	})
}

// ServeHTTP dispatches to the matching module or falls back to the native mux.
// A single trailing slash is ignored when matching.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	path := req.URL.Path
	if len(path) > 1 && strings.HasSuffix(path, "/") {
		path = strings.TrimSuffix(path, "/")
		req = withPath(req, path)
	}

	for _, m := range r.modules {
		if m.matches(path) {
			m.ServeHTTP(w, req)
			return
		}
	}

	r.native.ServeHTTP(w, req)
}

func withPath(req *http.Request, path string) *http.Request {
	clone := new(http.Request)
	*clone = *req
	clone.URL = new(url.URL)
	*clone.URL = *req.URL
	clone.URL.Path = path
	clone.URL.RawPath = ""
	return clone
}

func validatePrefix(prefix string) error {
	if prefix == "" {
		return fmt.Errorf("module prefix cannot be empty")
	}
	if !strings.HasPrefix(prefix, "/") {
		return fmt.Errorf("module prefix must start with /: %s", prefix)
	}
	if prefix == "/" || strings.HasSuffix(prefix, "/") {
		return fmt.Errorf("module prefix must not end with /: %s", prefix)
	}
	return nil
}
