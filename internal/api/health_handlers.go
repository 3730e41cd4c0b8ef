package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-health",
		Method:      http.MethodGet,
		Path:        "/api/v1/health",
		Summary:     "Server health",
		Description: "Liveness plus catalogue readiness. The catalogue is ready once the first load has completed.",
		Tags:        []string{"System"},
	}, s.handleGetHealth)
}

// HealthOutput reports server and catalogue status.
type HealthOutput struct {
	Body struct {
		Status         string `json:"status" doc:"Always ok when the server responds"`
		CatalogueReady bool   `json:"catalogue_ready" doc:"Whether the first catalogue load has completed"`
		Books          int    `json:"books" doc:"Loaded book count, 0 before the first load"`
		Clients        int    `json:"clients" doc:"Connected event-stream clients"`
	}
}

func (s *Server) handleGetHealth(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	out := &HealthOutput{}
	out.Body.Status = "ok"
	out.Body.CatalogueReady = s.services.Catalogue.Ready()
	out.Body.Books = s.services.Catalogue.Len()
	if s.sseHandler != nil {
		out.Body.Clients = s.sseHandler.Manager().ClientCount()
	}
	return out, nil
}
