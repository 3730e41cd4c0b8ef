package validation_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/librisapp/libris-server/internal/errors"
	"github.com/librisapp/libris-server/internal/validation"
)

type savedSearchRequest struct {
	Name  string `json:"name" validate:"required,max=120"`
	Query string `json:"query" validate:"max=500"`
}

type preferencesRequest struct {
	ViewMode string `json:"view_mode" validate:"required,viewmode"`
	Theme    string `json:"theme" validate:"required,theme"`
	Sort     string `json:"sort" validate:"required,sortpref"`
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	err := v.Validate(savedSearchRequest{Name: "Reformation era", Query: "calvin"})
	assert.NoError(t, err)
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name       string
		req        any
		wantErrMsg string
	}{
		{
			name:       "missing required field",
			req:        savedSearchRequest{Query: "calvin"},
			wantErrMsg: "validation failed",
		},
		{
			name:       "name too long",
			req:        savedSearchRequest{Name: string(make([]byte, 121))},
			wantErrMsg: "validation failed",
		},
		{
			name:       "unknown view mode",
			req:        preferencesRequest{ViewMode: "hologram", Theme: "dark", Sort: "title"},
			wantErrMsg: "validation failed",
		},
		{
			name:       "unknown theme",
			req:        preferencesRequest{ViewMode: "table", Theme: "sepia", Sort: "title"},
			wantErrMsg: "validation failed",
		},
		{
			name:       "unknown sort",
			req:        preferencesRequest{ViewMode: "table", Theme: "dark", Sort: "shelf"},
			wantErrMsg: "validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			require.Error(t, err)

			var domainErr *domainerrors.Error
			require.True(t, errors.As(err, &domainErr))
			assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus())
			assert.Contains(t, domainErr.Message, tt.wantErrMsg)
		})
	}
}

func TestValidator_CustomTagsAcceptValidValues(t *testing.T) {
	v := validation.New()

	err := v.Validate(preferencesRequest{ViewMode: "card", Theme: "light", Sort: "year"})
	assert.NoError(t, err)
}

func TestValidator_JSONFieldNames(t *testing.T) {
	v := validation.New()

	err := v.Validate(preferencesRequest{ViewMode: "bad", Theme: "light", Sort: "year"})
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.True(t, errors.As(err, &domainErr))

	details, ok := domainErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details, "view_mode")
	assert.NotContains(t, details, "ViewMode")
}
