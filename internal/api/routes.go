package api

import (
	"net/http"

	"github.com/JaimeStill/lading/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	runtime *Runtime,
) []routes.Group {
	archive := newArchiveHandler(runtime.Storage, runtime.Logger, runtime.MaxListSize)

	groups := []routes.Group{
		domain.Documents.Handler(runtime.MaxUploadSize).Routes(),
		domain.Extractions.Handler().Routes(),
		domain.Knowledge.Handler().Routes(),
		domain.Prompts.Handler().Routes(),
		archive.routes(),
	}

	routes.Register(mux, groups...)
	return groups
}
