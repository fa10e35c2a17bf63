// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/lading/internal/config"
	"github.com/JaimeStill/lading/internal/infrastructure"
	"github.com/JaimeStill/lading/pkg/middleware"
	"github.com/JaimeStill/lading/pkg/module"
	"github.com/JaimeStill/lading/pkg/openapi"
	"github.com/JaimeStill/lading/pkg/routes"
)

// NewModule creates the API module with all domain handlers and middleware.
// Unless disabled, the module also serves an OpenAPI document describing
// its routes at /openapi.json.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	groups := registerRoutes(mux, domain, runtime)

	if !cfg.API.OpenAPI.Disabled {
		spec, err := buildSpec(cfg, groups)
		if err != nil {
			return nil, err
		}
		mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(spec))
	}

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))

	return m, nil
}

func buildSpec(cfg *config.Config, groups []routes.Group) ([]byte, error) {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)

	routes.Describe(spec, groups...)

	data, err := openapi.Encode(spec)
	if err != nil {
		return nil, fmt.Errorf("marshal openapi spec: %w", err)
	}
	return data, nil
}
