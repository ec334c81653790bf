package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/ideawall/ideawall/internal/core/domain"
	"github.com/ideawall/ideawall/internal/core/ports"
)

type stubIdeaService struct {
	createFn func(ctx context.Context, input ports.CreateIdeaInput) (*domain.Idea, error)
	updateFn func(ctx context.Context, input ports.UpdateIdeaInput) (*domain.Idea, error)
	deleteFn func(ctx context.Context, author, id string) (*domain.Idea, error)
}

func (s *stubIdeaService) Create(ctx context.Context, input ports.CreateIdeaInput) (*domain.Idea, error) {
	return s.createFn(ctx, input)
}

func (s *stubIdeaService) Update(ctx context.Context, input ports.UpdateIdeaInput) (*domain.Idea, error) {
	return s.updateFn(ctx, input)
}

func (s *stubIdeaService) Delete(ctx context.Context, author, id string) (*domain.Idea, error) {
	return s.deleteFn(ctx, author, id)
}

func TestIdeaHandler_Create_Success(t *testing.T) {
	stub := &stubIdeaService{
		createFn: func(ctx context.Context, input ports.CreateIdeaInput) (*domain.Idea, error) {
			if input.Author != "alice" || input.Text != "hello" || input.Visibility != "protected" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &domain.Idea{
				ID: "idea-1", Author: input.Author, Text: input.Text,
				Visibility: domain.VisibilityProtected, CreatedAt: time.Now().UTC(),
			}, nil
		},
	}
	h := NewIdeaHandler(stub)

	c, rec := newJSONContext(http.MethodPost, "/v1/ideas",
		`{"text":"hello","visibility":"protected"}`)
	asUser(c, "alice")

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != "idea-1" || resp["visibility"] != "protected" {
		t.Fatalf("unexpected payload: %v", resp)
	}
}

func TestIdeaHandler_Create_OverlongTextRejectedByValidator(t *testing.T) {
	stub := &stubIdeaService{
		createFn: func(ctx context.Context, input ports.CreateIdeaInput) (*domain.Idea, error) {
			t.Fatal("should not be called")
			return nil, nil
		},
	}
	h := NewIdeaHandler(stub)

	long := make([]byte, 151)
	for i := range long {
		long[i] = 'a'
	}
	c, _ := newJSONContext(http.MethodPost, "/v1/ideas", `{"text":"`+string(long)+`"}`)
	asUser(c, "alice")

	assertHTTPErrorCode(t, h.Create(c), http.StatusUnprocessableEntity)
}

func TestIdeaHandler_Update_ForwardsPartialEdit(t *testing.T) {
	stub := &stubIdeaService{
		updateFn: func(ctx context.Context, input ports.UpdateIdeaInput) (*domain.Idea, error) {
			if input.Author != "alice" || input.ID != "idea-1" {
				t.Fatalf("unexpected input: %+v", input)
			}
			if input.Text != nil {
				t.Fatalf("text must be nil for a visibility-only edit")
			}
			if input.Visibility == nil || *input.Visibility != "private" {
				t.Fatalf("expected visibility=private, got %+v", input.Visibility)
			}
			return &domain.Idea{ID: input.ID, Author: input.Author, Visibility: domain.VisibilityPrivate}, nil
		},
	}
	h := NewIdeaHandler(stub)

	c, rec := newJSONContext(http.MethodPatch, "/v1/ideas/idea-1", `{"visibility":"private"}`)
	c.SetParamNames("id")
	c.SetParamValues("idea-1")
	asUser(c, "alice")

	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestIdeaHandler_Update_NotFoundPropagates(t *testing.T) {
	stub := &stubIdeaService{
		updateFn: func(ctx context.Context, input ports.UpdateIdeaInput) (*domain.Idea, error) {
			return nil, domain.ErrIdeaNotFound
		},
	}
	h := NewIdeaHandler(stub)

	c, _ := newJSONContext(http.MethodPatch, "/v1/ideas/idea-9", `{"visibility":"private"}`)
	c.SetParamNames("id")
	c.SetParamValues("idea-9")
	asUser(c, "mallory")

	if err := h.Update(c); !errors.Is(err, domain.ErrIdeaNotFound) {
		t.Fatalf("expected ErrIdeaNotFound, got %v", err)
	}
}

func TestIdeaHandler_Delete_Success(t *testing.T) {
	stub := &stubIdeaService{
		deleteFn: func(ctx context.Context, author, id string) (*domain.Idea, error) {
			if author != "alice" || id != "idea-1" {
				t.Fatalf("unexpected args: %s %s", author, id)
			}
			return &domain.Idea{ID: id, Author: author}, nil
		},
	}
	h := NewIdeaHandler(stub)

	c, rec := newJSONContext(http.MethodDelete, "/v1/ideas/idea-1", "")
	c.SetParamNames("id")
	c.SetParamValues("idea-1")
	asUser(c, "alice")

	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
