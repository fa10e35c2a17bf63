package main

import (
	"encoding/json"
	"net/http"

	"github.com/JaimeStill/lading/internal/api"
	"github.com/JaimeStill/lading/internal/config"
	"github.com/JaimeStill/lading/internal/infrastructure"
	"github.com/JaimeStill/lading/pkg/middleware"
	"github.com/JaimeStill/lading/pkg/module"
	"github.com/JaimeStill/lading/web/docs"
)

// Modules holds the mounted HTTP modules. Docs is nil when the OpenAPI
// document is disabled.
type Modules struct {
	API  *module.Module
	Docs *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	modules := &Modules{API: apiModule}
	if cfg.API.OpenAPI.Disabled {
		return modules, nil
	}

	docsModule, err := docs.NewModule("/docs", cfg.API.OpenAPI.Title, cfg.API.BasePath+"/openapi.json")
	if err != nil {
		return nil, err
	}
	docsModule.Use(middleware.Logger(infra.Logger))
	modules.Docs = docsModule

	return modules, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
	if m.Docs != nil {
		router.Mount(m.Docs)
	}
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()
	router.Use(middleware.Recover(infra.Logger))

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if pending := infra.Lifecycle.Pending(); !infra.Lifecycle.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]any{
				"status":  "not ready",
				"pending": pending,
			})
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
	})

	return router
}
