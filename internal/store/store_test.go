package store

import (
	"context"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/librisapp/libris-server/internal/domain"
	apperrors "github.com/librisapp/libris-server/internal/errors"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testBook(id, title, author string) domain.Book {
	return domain.Book{
		ID:         id,
		Title:      title,
		Author:     author,
		CallNumber: "BT75",
		Year:       1950,
	}
}

func TestFavorites(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	ok, err := s.IsFavorite(ctx, "b1")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.GetFavorite(ctx, "b1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	base := time.Now()
	require.NoError(t, s.SetFavorite(ctx, &domain.Favorite{
		BookID:  "b2",
		Book:    testBook("b2", "Church Dogmatics", "Barth, Karl"),
		AddedAt: base.Add(time.Minute),
	}))
	require.NoError(t, s.SetFavorite(ctx, &domain.Favorite{
		BookID:  "b1",
		Book:    testBook("b1", "Systematic Theology", "Berkhof, Louis"),
		AddedAt: base,
	}))

	ok, err = s.IsFavorite(ctx, "b1")
	require.NoError(t, err)
	assert.True(t, ok)

	fav, err := s.GetFavorite(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, "Systematic Theology", fav.Book.Title)

	// Ordered by AddedAt, not by key.
	favs, err := s.ListFavorites(ctx)
	require.NoError(t, err)
	require.Len(t, favs, 2)
	assert.Equal(t, "b1", favs[0].BookID)
	assert.Equal(t, "b2", favs[1].BookID)

	require.NoError(t, s.RemoveFavorite(ctx, "b1"))
	ok, err = s.IsFavorite(ctx, "b1")
	require.NoError(t, err)
	assert.False(t, ok)

	// Removing a favorite that was never set is not an error.
	assert.NoError(t, s.RemoveFavorite(ctx, "missing"))
}

func TestReadingLists(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	list := &domain.ReadingList{
		ID:        "rl_1",
		Name:      "Reformation",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.True(t, list.AddEntry(testBook("b1", "Institutes", "Calvin, John")))
	require.NoError(t, s.CreateReadingList(ctx, list))

	got, err := s.GetReadingList(ctx, "rl_1")
	require.NoError(t, err)
	assert.Equal(t, "Reformation", got.Name)
	require.Len(t, got.Entries, 1)
	assert.Equal(t, "b1", got.Entries[0].BookID)

	got.AddEntry(testBook("b2", "Commentary on Galatians", "Calvin, John"))
	require.NoError(t, s.UpdateReadingList(ctx, got))

	got, err = s.GetReadingList(ctx, "rl_1")
	require.NoError(t, err)
	assert.Len(t, got.Entries, 2)

	second := &domain.ReadingList{
		ID:        "rl_2",
		Name:      "Modern",
		CreatedAt: list.CreatedAt.Add(time.Hour),
	}
	require.NoError(t, s.CreateReadingList(ctx, second))

	lists, err := s.ListReadingLists(ctx)
	require.NoError(t, err)
	require.Len(t, lists, 2)
	assert.Equal(t, "rl_1", lists[0].ID)
	assert.Equal(t, "rl_2", lists[1].ID)

	require.NoError(t, s.DeleteReadingList(ctx, "rl_1"))
	_, err = s.GetReadingList(ctx, "rl_1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestNotes(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetNote(ctx, &domain.Note{
		BookID:    "b1",
		Text:      "spine damaged",
		UpdatedAt: time.Now(),
	}))

	note, err := s.GetNote(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, "spine damaged", note.Text)

	// Setting again replaces the text.
	require.NoError(t, s.SetNote(ctx, &domain.Note{
		BookID:    "b1",
		Text:      "rebound 2024",
		UpdatedAt: time.Now(),
	}))
	note, err = s.GetNote(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, "rebound 2024", note.Text)

	notes, err := s.ListNotes(ctx)
	require.NoError(t, err)
	assert.Len(t, notes, 1)

	require.NoError(t, s.DeleteNote(ctx, "b1"))
	_, err = s.GetNote(ctx, "b1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSavedSearches(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	base := time.Now()
	require.NoError(t, s.CreateSavedSearch(ctx, &domain.SavedSearch{
		ID:        "ss_b",
		Name:      "Calvin on the letters",
		Query:     "galatians",
		Selection: domain.SelectionSnapshot{Authors: []string{"Calvin, John"}},
		CreatedAt: base.Add(time.Minute),
	}))
	require.NoError(t, s.CreateSavedSearch(ctx, &domain.SavedSearch{
		ID:        "ss_a",
		Name:      "Dogmatics",
		Query:     "dogmatics",
		CreatedAt: base,
	}))

	got, err := s.GetSavedSearch(ctx, "ss_b")
	require.NoError(t, err)
	assert.Equal(t, "galatians", got.Query)
	assert.Equal(t, []string{"Calvin, John"}, got.Selection.Authors)

	searches, err := s.ListSavedSearches(ctx)
	require.NoError(t, err)
	require.Len(t, searches, 2)
	assert.Equal(t, "ss_a", searches[0].ID)
	assert.Equal(t, "ss_b", searches[1].ID)

	require.NoError(t, s.DeleteSavedSearch(ctx, "ss_b"))
	_, err = s.GetSavedSearch(ctx, "ss_b")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestPreferences(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	// Nothing stored yet: defaults.
	prefs, err := s.GetPreferences(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultPreferences(), prefs)

	prefs.ViewMode = domain.ViewCard
	prefs.Theme = domain.ThemeDark
	require.NoError(t, s.SetPreferences(ctx, prefs))

	got, err := s.GetPreferences(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ViewCard, got.ViewMode)
	assert.Equal(t, domain.ThemeDark, got.Theme)
	assert.Equal(t, domain.SortTitle, got.Sort)
}

func TestPreferencesSanitizesUnknownValues(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetPreferences(ctx, domain.Preferences{
		ViewMode: "hologram",
		Theme:    domain.ThemeDark,
		Sort:     "shelf-order",
	}))

	got, err := s.GetPreferences(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ViewTable, got.ViewMode)
	assert.Equal(t, domain.ThemeDark, got.Theme)
	assert.Equal(t, domain.SortTitle, got.Sort)
}

func TestCorruptValueResetsToAbsent(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	// Write bytes that are not valid JSON under a collection key.
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(notePrefix+"b9"), []byte("{not json"))
	})
	require.NoError(t, err)

	// The corrupt record reads as absent and is purged.
	_, err = s.GetNote(ctx, "b9")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	err = s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(notePrefix + "b9"))
		return err
	})
	assert.ErrorIs(t, err, badger.ErrKeyNotFound)
}

func TestCorruptEntrySkippedInList(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetNote(ctx, &domain.Note{BookID: "good", Text: "fine"}))
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(notePrefix+"bad"), []byte("????"))
	})
	require.NoError(t, err)

	notes, err := s.ListNotes(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "good", notes[0].BookID)
}

func TestCancelledContext(t *testing.T) {
	s := setupTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.SetNote(ctx, &domain.Note{BookID: "b1"})
	assert.ErrorIs(t, err, context.Canceled)
	_, err = s.ListFavorites(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
