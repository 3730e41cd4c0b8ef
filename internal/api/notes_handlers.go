package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerNoteRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-notes",
		Method:      http.MethodGet,
		Path:        "/api/v1/notes",
		Summary:     "List all notes",
		Tags:        []string{"Notes"},
	}, s.handleListNotes)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-note",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{bookID}/note",
		Summary:     "Get the note for a book",
		Tags:        []string{"Notes"},
	}, s.handleGetNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "set-note",
		Method:      http.MethodPut,
		Path:        "/api/v1/books/{bookID}/note",
		Summary:     "Set the note for a book",
		Description: "One note per book. Setting whitespace-only text deletes the note.",
		Tags:        []string{"Notes"},
	}, s.handleSetNote)

	huma.Register(s.api, huma.Operation{
		OperationID:   "delete-note",
		Method:        http.MethodDelete,
		Path:          "/api/v1/books/{bookID}/note",
		Summary:       "Delete the note for a book",
		Tags:          []string{"Notes"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteNote)
}

// NoteResult is one free-text note attached to a book.
type NoteResult struct {
	BookID    string    `json:"book_id"`
	Text      string    `json:"text"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NoteOutput wraps a single note.
type NoteOutput struct {
	Body NoteResult
}

// NotesOutput wraps the notes list.
type NotesOutput struct {
	Body struct {
		Notes []NoteResult `json:"notes"`
	}
}

// SetNoteInput carries the note text.
type SetNoteInput struct {
	BookID string `path:"bookID" validate:"required,max=100" doc:"Record ID"`
	Body   struct {
		Text string `json:"text" validate:"max=10000" doc:"Note text, whitespace-only deletes"`
	}
}

func (s *Server) handleListNotes(ctx context.Context, _ *struct{}) (*NotesOutput, error) {
	notes, err := s.services.Notes.List(ctx)
	if err != nil {
		return nil, err
	}
	out := &NotesOutput{}
	out.Body.Notes = make([]NoteResult, 0, len(notes))
	for _, note := range notes {
		out.Body.Notes = append(out.Body.Notes, NoteResult{
			BookID:    note.BookID,
			Text:      note.Text,
			UpdatedAt: note.UpdatedAt,
		})
	}
	return out, nil
}

func (s *Server) handleGetNote(ctx context.Context, input *bookIDInput) (*NoteOutput, error) {
	note, err := s.services.Notes.Get(ctx, input.BookID)
	if err != nil {
		return nil, err
	}
	return &NoteOutput{Body: NoteResult{
		BookID:    note.BookID,
		Text:      note.Text,
		UpdatedAt: note.UpdatedAt,
	}}, nil
}

func (s *Server) handleSetNote(ctx context.Context, input *SetNoteInput) (*NoteOutput, error) {
	if err := s.validate.Validate(input); err != nil {
		return nil, err
	}

	note, err := s.services.Notes.Set(ctx, input.BookID, input.Body.Text)
	if err != nil {
		return nil, err
	}
	out := &NoteOutput{}
	out.Body.BookID = input.BookID
	if note != nil {
		out.Body.Text = note.Text
		out.Body.UpdatedAt = note.UpdatedAt
	}
	return out, nil
}

func (s *Server) handleDeleteNote(ctx context.Context, input *bookIDInput) (*struct{}, error) {
	if err := s.services.Notes.Delete(ctx, input.BookID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}
