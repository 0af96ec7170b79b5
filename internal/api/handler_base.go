// File: internal/api/handler_base.go
package api

import (
	"github.com/joaolucasdevmath/maip-campaign-builder/internal/backendclient"
	"github.com/joaolucasdevmath/maip-campaign-builder/internal/config"
	"github.com/joaolucasdevmath/maip-campaign-builder/internal/fields"
	"github.com/joaolucasdevmath/maip-campaign-builder/internal/orchestrator"
	"github.com/joaolucasdevmath/maip-campaign-builder/internal/wizard"
)

// APIHandler holds shared dependencies for API handlers: configuration, the
// session registry, the field loader, the generation orchestrator, and the
// backend client for archive/template passthrough.
type APIHandler struct {
	Config       *config.AppConfig
	Sessions     *wizard.Registry
	FieldLoader  *fields.Loader
	Orchestrator *orchestrator.Orchestrator
	Backend      *backendclient.Client
}

// NewAPIHandler creates a new APIHandler with dependencies.
func NewAPIHandler(cfg *config.AppConfig, sessions *wizard.Registry, loader *fields.Loader, orch *orchestrator.Orchestrator, backend *backendclient.Client) *APIHandler {
	return &APIHandler{
		Config:       cfg,
		Sessions:     sessions,
		FieldLoader:  loader,
		Orchestrator: orch,
		Backend:      backend,
	}
}
