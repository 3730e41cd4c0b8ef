package store

import (
	"context"
	"errors"

	"github.com/librisapp/libris-server/internal/domain"
	apperrors "github.com/librisapp/libris-server/internal/errors"
)

// GetPreferences returns the stored display preferences. Absent or
// unreadable preferences fall back to the defaults rather than failing.
func (s *Store) GetPreferences(ctx context.Context) (domain.Preferences, error) {
	if err := ctx.Err(); err != nil {
		return domain.Preferences{}, err
	}
	var prefs domain.Preferences
	if err := s.get(prefsKey, &prefs); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.DefaultPreferences(), nil
		}
		return domain.Preferences{}, err
	}
	// Individual fields may hold values from an older build; sanitize
	// each one independently instead of discarding the whole record.
	defaults := domain.DefaultPreferences()
	if !domain.ValidViewMode(prefs.ViewMode) {
		prefs.ViewMode = defaults.ViewMode
	}
	if !domain.ValidTheme(prefs.Theme) {
		prefs.Theme = defaults.Theme
	}
	if !domain.ValidSort(prefs.Sort) {
		prefs.Sort = defaults.Sort
	}
	return prefs, nil
}

// SetPreferences stores the display preferences.
func (s *Store) SetPreferences(ctx context.Context, prefs domain.Preferences) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.set(prefsKey, &prefs)
}
