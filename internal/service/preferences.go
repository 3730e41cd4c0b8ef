package service

import (
	"context"
	"log/slog"

	"github.com/librisapp/libris-server/internal/domain"
	apperrors "github.com/librisapp/libris-server/internal/errors"
	"github.com/librisapp/libris-server/internal/sse"
	"github.com/librisapp/libris-server/internal/store"
)

// PreferencesService manages the user's display preferences.
type PreferencesService struct {
	store  *store.Store
	events *sse.Manager
	logger *slog.Logger
}

// NewPreferencesService creates a preferences service.
func NewPreferencesService(store *store.Store, events *sse.Manager, logger *slog.Logger) *PreferencesService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &PreferencesService{
		store:  store,
		events: events,
		logger: logger,
	}
}

// Get returns the stored preferences, falling back to defaults when
// nothing has been saved or a stored field no longer validates.
func (s *PreferencesService) Get(ctx context.Context) (domain.Preferences, error) {
	return s.store.GetPreferences(ctx)
}

// Update validates and stores new preferences.
func (s *PreferencesService) Update(ctx context.Context, prefs domain.Preferences) (domain.Preferences, error) {
	if !domain.ValidViewMode(prefs.ViewMode) {
		return domain.Preferences{}, apperrors.Validationf("invalid view mode %q", prefs.ViewMode)
	}
	if !domain.ValidTheme(prefs.Theme) {
		return domain.Preferences{}, apperrors.Validationf("invalid theme %q", prefs.Theme)
	}
	if !domain.ValidSort(prefs.Sort) {
		return domain.Preferences{}, apperrors.Validationf("invalid sort preference %q", prefs.Sort)
	}

	if err := s.store.SetPreferences(ctx, prefs); err != nil {
		return domain.Preferences{}, err
	}

	if s.events != nil {
		s.events.Emit(sse.NewChangeEvent(sse.EventPreferencesUpdated, "display", "set"))
	}
	return prefs, nil
}
