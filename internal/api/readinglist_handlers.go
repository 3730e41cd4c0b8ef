package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/librisapp/libris-server/internal/catalog"
	"github.com/librisapp/libris-server/internal/domain"
)

func (s *Server) registerReadingListRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-reading-lists",
		Method:      http.MethodGet,
		Path:        "/api/v1/reading-lists",
		Summary:     "List reading lists",
		Tags:        []string{"Reading Lists"},
	}, s.handleListReadingLists)

	huma.Register(s.api, huma.Operation{
		OperationID:   "create-reading-list",
		Method:        http.MethodPost,
		Path:          "/api/v1/reading-lists",
		Summary:       "Create a reading list",
		Tags:          []string{"Reading Lists"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateReadingList)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-reading-list",
		Method:      http.MethodGet,
		Path:        "/api/v1/reading-lists/{id}",
		Summary:     "Get a reading list",
		Tags:        []string{"Reading Lists"},
	}, s.handleGetReadingList)

	huma.Register(s.api, huma.Operation{
		OperationID: "rename-reading-list",
		Method:      http.MethodPut,
		Path:        "/api/v1/reading-lists/{id}",
		Summary:     "Rename a reading list",
		Tags:        []string{"Reading Lists"},
	}, s.handleRenameReadingList)

	huma.Register(s.api, huma.Operation{
		OperationID:   "delete-reading-list",
		Method:        http.MethodDelete,
		Path:          "/api/v1/reading-lists/{id}",
		Summary:       "Delete a reading list",
		Tags:          []string{"Reading Lists"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteReadingList)

	huma.Register(s.api, huma.Operation{
		OperationID: "add-reading-list-book",
		Method:      http.MethodPut,
		Path:        "/api/v1/reading-lists/{id}/books/{bookID}",
		Summary:     "Add a book to a list",
		Description: "Adding a book that is already on the list is a conflict.",
		Tags:        []string{"Reading Lists"},
	}, s.handleAddReadingListBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "remove-reading-list-book",
		Method:      http.MethodDelete,
		Path:        "/api/v1/reading-lists/{id}/books/{bookID}",
		Summary:     "Remove a book from a list",
		Tags:        []string{"Reading Lists"},
	}, s.handleRemoveReadingListBook)
}

// ReadingListEntryResult is one book on a reading list.
type ReadingListEntryResult struct {
	BookID  string     `json:"book_id"`
	Book    BookResult `json:"book"`
	AddedAt time.Time  `json:"added_at"`
}

// ReadingListResult is a reading list with its entries.
type ReadingListResult struct {
	ID        string                   `json:"id"`
	Name      string                   `json:"name"`
	Entries   []ReadingListEntryResult `json:"entries"`
	CreatedAt time.Time                `json:"created_at"`
	UpdatedAt time.Time                `json:"updated_at"`
}

// ReadingListOutput wraps a single list.
type ReadingListOutput struct {
	Body ReadingListResult
}

// ReadingListsOutput wraps the list collection.
type ReadingListsOutput struct {
	Body struct {
		ReadingLists []ReadingListResult `json:"reading_lists"`
	}
}

// ReadingListNameInput carries the list name for create and rename.
type ReadingListNameInput struct {
	Body struct {
		Name string `json:"name" validate:"required,max=120" doc:"Display name"`
	}
}

// RenameReadingListInput carries the list ID plus the new name.
type RenameReadingListInput struct {
	ID   string `path:"id" validate:"required,max=100" doc:"List ID"`
	Body struct {
		Name string `json:"name" validate:"required,max=120" doc:"New display name"`
	}
}

// listIDInput is the shared path parameter for list operations.
type listIDInput struct {
	ID string `path:"id" validate:"required,max=100" doc:"List ID"`
}

// listBookInput addresses one book on one list.
type listBookInput struct {
	ID     string `path:"id" validate:"required,max=100" doc:"List ID"`
	BookID string `path:"bookID" validate:"required,max=100" doc:"Record ID"`
}

func (s *Server) handleListReadingLists(ctx context.Context, _ *struct{}) (*ReadingListsOutput, error) {
	lists, err := s.services.ReadingLists.List(ctx)
	if err != nil {
		return nil, err
	}

	meta := s.metadataOrNil(ctx)

	out := &ReadingListsOutput{}
	out.Body.ReadingLists = make([]ReadingListResult, 0, len(lists))
	for _, list := range lists {
		out.Body.ReadingLists = append(out.Body.ReadingLists, toReadingListResult(list, meta))
	}
	return out, nil
}

func (s *Server) handleCreateReadingList(ctx context.Context, input *ReadingListNameInput) (*ReadingListOutput, error) {
	if err := s.validate.Validate(input); err != nil {
		return nil, err
	}

	list, err := s.services.ReadingLists.Create(ctx, input.Body.Name)
	if err != nil {
		return nil, err
	}
	return &ReadingListOutput{Body: toReadingListResult(list, s.metadataOrNil(ctx))}, nil
}

func (s *Server) handleGetReadingList(ctx context.Context, input *listIDInput) (*ReadingListOutput, error) {
	list, err := s.services.ReadingLists.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &ReadingListOutput{Body: toReadingListResult(list, s.metadataOrNil(ctx))}, nil
}

func (s *Server) handleRenameReadingList(ctx context.Context, input *RenameReadingListInput) (*ReadingListOutput, error) {
	if err := s.validate.Validate(input); err != nil {
		return nil, err
	}

	list, err := s.services.ReadingLists.Rename(ctx, input.ID, input.Body.Name)
	if err != nil {
		return nil, err
	}
	return &ReadingListOutput{Body: toReadingListResult(list, s.metadataOrNil(ctx))}, nil
}

func (s *Server) handleDeleteReadingList(ctx context.Context, input *listIDInput) (*struct{}, error) {
	if err := s.services.ReadingLists.Delete(ctx, input.ID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

func (s *Server) handleAddReadingListBook(ctx context.Context, input *listBookInput) (*ReadingListOutput, error) {
	list, err := s.services.ReadingLists.AddBook(ctx, input.ID, input.BookID)
	if err != nil {
		return nil, err
	}
	return &ReadingListOutput{Body: toReadingListResult(list, s.metadataOrNil(ctx))}, nil
}

func (s *Server) handleRemoveReadingListBook(ctx context.Context, input *listBookInput) (*ReadingListOutput, error) {
	list, err := s.services.ReadingLists.RemoveBook(ctx, input.ID, input.BookID)
	if err != nil {
		return nil, err
	}
	return &ReadingListOutput{Body: toReadingListResult(list, s.metadataOrNil(ctx))}, nil
}

// metadataOrNil fetches catalogue metadata for DTO enrichment. User-data
// endpoints still work before the first catalogue load, so an unavailable
// catalogue degrades to books without ebook and biography flags.
func (s *Server) metadataOrNil(ctx context.Context) *catalog.MetadataSet {
	meta, err := s.services.Catalogue.Metadata(ctx)
	if err != nil {
		return nil
	}
	return meta
}

func toReadingListResult(list *domain.ReadingList, meta *catalog.MetadataSet) ReadingListResult {
	result := ReadingListResult{
		ID:        list.ID,
		Name:      list.Name,
		Entries:   make([]ReadingListEntryResult, 0, len(list.Entries)),
		CreatedAt: list.CreatedAt,
		UpdatedAt: list.UpdatedAt,
	}
	for _, entry := range list.Entries {
		result.Entries = append(result.Entries, ReadingListEntryResult{
			BookID:  entry.BookID,
			Book:    toBookResult(entry.Book, meta),
			AddedAt: entry.AddedAt,
		})
	}
	return result
}
