package domain

// View modes supported by the catalogue UI.
const (
	ViewTable = "table"
	ViewCard  = "card"
	ViewList  = "list"
)

// Themes supported by the catalogue UI.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Sort preferences. Sorting is a display concern and never changes the
// output of the filter engine itself.
const (
	SortTitle  = "title"
	SortAuthor = "author"
	SortYear   = "year"
)

// Preferences are the user's persisted display settings.
type Preferences struct {
	ViewMode string `json:"view_mode"`
	Theme    string `json:"theme"`
	Sort     string `json:"sort"`
}

// DefaultPreferences mirrors the defaults the original page applies when
// nothing has been stored yet.
func DefaultPreferences() Preferences {
	return Preferences{
		ViewMode: ViewTable,
		Theme:    ThemeLight,
		Sort:     SortTitle,
	}
}

// ValidViewMode reports whether v is a recognized view mode.
func ValidViewMode(v string) bool {
	return v == ViewTable || v == ViewCard || v == ViewList
}

// ValidTheme reports whether t is a recognized theme.
func ValidTheme(t string) bool {
	return t == ThemeLight || t == ThemeDark
}

// ValidSort reports whether s is a recognized sort preference.
func ValidSort(s string) bool {
	return s == SortTitle || s == SortAuthor || s == SortYear
}
