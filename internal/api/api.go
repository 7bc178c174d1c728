// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/JaimeStill/stance/internal/comments"
	"github.com/JaimeStill/stance/internal/config"
	"github.com/JaimeStill/stance/internal/infrastructure"
	"github.com/JaimeStill/stance/pkg/middleware"
	"github.com/JaimeStill/stance/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) *module.Module {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	groups := registerRoutes(mux, domain, runtime)
	registerSpec(mux, cfg, groups)

	cors := cfg.API.CORS
	if len(cors.ExposedHeaders) == 0 {
		cors.ExposedHeaders = comments.ExposedHeaders
	}

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(middleware.CORS(&cors))

	return m
}
