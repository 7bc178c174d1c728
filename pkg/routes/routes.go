// Package routes declares HTTP routes as data and registers them on a ServeMux.
package routes

import (
	"net/http"

	"github.com/JaimeStill/stance/pkg/openapi"
)

// Route binds an HTTP method and pattern to a handler. OpenAPI is optional
// documentation for the route.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
	OpenAPI *openapi.Operation
}

// Group organizes routes under a common prefix with shared tags. Child
// groups nest their prefix under the parent's.
type Group struct {
	Prefix   string
	Tags     []string
	Schemas  map[string]*openapi.Schema
	Routes   []Route
	Children []Group
}

// Register adds all routes from the given groups to the mux using
// method-qualified patterns such as "POST /tables/classify".
func Register(mux *http.ServeMux, groups ...Group) {
	for _, group := range groups {
		register(mux, "", group)
	}
}

func register(mux *http.ServeMux, parent string, group Group) {
	prefix := parent + group.Prefix
	for _, route := range group.Routes {
		mux.HandleFunc(route.Method+" "+prefix+route.Pattern, route.Handler)
	}
	for _, child := range group.Children {
		register(mux, prefix, child)
	}
}

// Document adds every route carrying OpenAPI metadata to spec, with paths
// rooted at basePath. Group tags apply to operations that declare none.
func Document(spec *openapi.Spec, basePath string, groups ...Group) error {
	for _, group := range groups {
		if err := document(spec, basePath, group); err != nil {
			return err
		}
	}
	return nil
}

func document(spec *openapi.Spec, parent string, group Group) error {
	prefix := parent + group.Prefix
	if group.Schemas != nil {
		spec.Components.AddSchemas(group.Schemas)
	}
	for _, route := range group.Routes {
		if route.OpenAPI == nil {
			continue
		}
		op := *route.OpenAPI
		if len(op.Tags) == 0 {
			op.Tags = group.Tags
		}
		if err := spec.AddOperation(route.Method, prefix+route.Pattern, &op); err != nil {
			return err
		}
	}
	for _, child := range group.Children {
		if err := document(spec, prefix, child); err != nil {
			return err
		}
	}
	return nil
}
