package api

import (
	"net/http"

	"github.com/JaimeStill/stance/internal/classifier"
	"github.com/JaimeStill/stance/internal/comments"
	"github.com/JaimeStill/stance/pkg/routes"
)

// The fallback token is read from configuration once; requests may
// override it with their own bearer token.
func registerRoutes(mux *http.ServeMux, domain *Domain, runtime *Runtime) []routes.Group {
	token := runtime.CompletionConfig.Token

	classifierHandler := classifier.NewHandler(domain.Classifier, token, runtime.Logger)

	commentsHandler := comments.NewHandler(
		domain.Runner,
		runtime.Storage,
		comments.HandlerConfig{
			MaxUploadSize: runtime.MaxUploadSize,
			PreviewRows:   runtime.Batch.PreviewRows,
			Token:         token,
		},
		runtime.Logger,
	)

	groups := []routes.Group{
		classifierHandler.Routes(),
		commentsHandler.Routes(),
	}

	routes.Register(mux, groups...)
	return groups
}
