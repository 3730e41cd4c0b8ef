package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerFavoriteRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-favorites",
		Method:      http.MethodGet,
		Path:        "/api/v1/favorites",
		Summary:     "List favorites",
		Tags:        []string{"Favorites"},
	}, s.handleListFavorites)

	huma.Register(s.api, huma.Operation{
		OperationID: "add-favorite",
		Method:      http.MethodPut,
		Path:        "/api/v1/favorites/{bookID}",
		Summary:     "Mark a book as favorite",
		Description: "Idempotent: marking an existing favorite keeps its original added-at time.",
		Tags:        []string{"Favorites"},
	}, s.handleAddFavorite)

	huma.Register(s.api, huma.Operation{
		OperationID:   "remove-favorite",
		Method:        http.MethodDelete,
		Path:          "/api/v1/favorites/{bookID}",
		Summary:       "Unmark a favorite",
		Tags:          []string{"Favorites"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleRemoveFavorite)

	huma.Register(s.api, huma.Operation{
		OperationID: "toggle-favorite",
		Method:      http.MethodPost,
		Path:        "/api/v1/favorites/{bookID}/toggle",
		Summary:     "Toggle favorite state",
		Tags:        []string{"Favorites"},
	}, s.handleToggleFavorite)
}

// FavoriteResult is one favorite with its denormalized book record.
type FavoriteResult struct {
	BookID  string     `json:"book_id"`
	Book    BookResult `json:"book"`
	AddedAt time.Time  `json:"added_at"`
}

// FavoritesOutput wraps the favorites list.
type FavoritesOutput struct {
	Body struct {
		Favorites []FavoriteResult `json:"favorites"`
	}
}

// FavoriteOutput wraps a single favorite.
type FavoriteOutput struct {
	Body FavoriteResult
}

// ToggleFavoriteOutput reports the state after a toggle.
type ToggleFavoriteOutput struct {
	Body struct {
		BookID   string `json:"book_id"`
		Favorite bool   `json:"favorite" doc:"State after the toggle"`
	}
}

// bookIDInput is the shared path parameter for per-book operations.
type bookIDInput struct {
	BookID string `path:"bookID" validate:"required,max=100" doc:"Record ID"`
}

func (s *Server) handleListFavorites(ctx context.Context, _ *struct{}) (*FavoritesOutput, error) {
	favorites, err := s.services.Favorites.List(ctx)
	if err != nil {
		return nil, err
	}

	meta := s.metadataOrNil(ctx)

	out := &FavoritesOutput{}
	out.Body.Favorites = make([]FavoriteResult, 0, len(favorites))
	for _, fav := range favorites {
		out.Body.Favorites = append(out.Body.Favorites, FavoriteResult{
			BookID:  fav.BookID,
			Book:    toBookResult(fav.Book, meta),
			AddedAt: fav.AddedAt,
		})
	}
	return out, nil
}

func (s *Server) handleAddFavorite(ctx context.Context, input *bookIDInput) (*FavoriteOutput, error) {
	fav, err := s.services.Favorites.Add(ctx, input.BookID)
	if err != nil {
		return nil, err
	}

	meta := s.metadataOrNil(ctx)

	return &FavoriteOutput{Body: FavoriteResult{
		BookID:  fav.BookID,
		Book:    toBookResult(fav.Book, meta),
		AddedAt: fav.AddedAt,
	}}, nil
}

func (s *Server) handleRemoveFavorite(ctx context.Context, input *bookIDInput) (*struct{}, error) {
	if err := s.services.Favorites.Remove(ctx, input.BookID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

func (s *Server) handleToggleFavorite(ctx context.Context, input *bookIDInput) (*ToggleFavoriteOutput, error) {
	state, err := s.services.Favorites.Toggle(ctx, input.BookID)
	if err != nil {
		return nil, err
	}
	out := &ToggleFavoriteOutput{}
	out.Body.BookID = input.BookID
	out.Body.Favorite = state
	return out, nil
}
