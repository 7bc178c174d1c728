package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/stance/internal/config"
	"github.com/JaimeStill/stance/pkg/openapi"
	"github.com/JaimeStill/stance/pkg/routes"
)

// registerSpec serves the OpenAPI document for groups at GET /openapi.json.
// Paths are relative to the API base path, which is the document's server.
// Route metadata is static, so a documentation error is a programming error.
func registerSpec(mux *http.ServeMux, cfg *config.Config, groups []routes.Group) {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)

	if err := routes.Document(spec, "", groups...); err != nil {
		panic(fmt.Sprintf("api: document routes: %v", err))
	}

	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		panic(fmt.Sprintf("api: marshal openapi: %v", err))
	}

	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(data))
}
