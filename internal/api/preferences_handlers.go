package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/librisapp/libris-server/internal/domain"
)

func (s *Server) registerPreferenceRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-preferences",
		Method:      http.MethodGet,
		Path:        "/api/v1/preferences",
		Summary:     "Get display preferences",
		Description: "Returns defaults when nothing has been stored yet.",
		Tags:        []string{"Preferences"},
	}, s.handleGetPreferences)

	huma.Register(s.api, huma.Operation{
		OperationID: "update-preferences",
		Method:      http.MethodPut,
		Path:        "/api/v1/preferences",
		Summary:     "Update display preferences",
		Tags:        []string{"Preferences"},
	}, s.handleUpdatePreferences)
}

// PreferencesOutput wraps the stored display preferences.
type PreferencesOutput struct {
	Body domain.Preferences
}

// UpdatePreferencesInput carries the full preference set. Partial updates
// are not supported: the page always knows all three values.
type UpdatePreferencesInput struct {
	Body struct {
		ViewMode string `json:"view_mode" validate:"required,viewmode" doc:"Catalogue view mode"`
		Theme    string `json:"theme" validate:"required,theme" doc:"Colour theme"`
		Sort     string `json:"sort" validate:"required,sortpref" doc:"Default sort column"`
	}
}

func (s *Server) handleGetPreferences(ctx context.Context, _ *struct{}) (*PreferencesOutput, error) {
	prefs, err := s.services.Preferences.Get(ctx)
	if err != nil {
		return nil, err
	}
	return &PreferencesOutput{Body: prefs}, nil
}

func (s *Server) handleUpdatePreferences(ctx context.Context, input *UpdatePreferencesInput) (*PreferencesOutput, error) {
	if err := s.validate.Validate(input); err != nil {
		return nil, err
	}

	prefs, err := s.services.Preferences.Update(ctx, domain.Preferences{
		ViewMode: input.Body.ViewMode,
		Theme:    input.Body.Theme,
		Sort:     input.Body.Sort,
	})
	if err != nil {
		return nil, err
	}
	return &PreferencesOutput{Body: prefs}, nil
}
