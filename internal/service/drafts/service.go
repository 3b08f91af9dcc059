package drafts

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sessionscribe/scribe/internal/editor"
)

// ErrDraftNotFound is returned for unknown draft ids.
var ErrDraftNotFound = errors.New("draft not found")

// Draft is a notes buffer being composed on the server.
type Draft struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Service keeps drafts in memory. Each draft is edited through the bullet
// editor rules.
type Service struct {
	mu     sync.RWMutex
	drafts map[string]Draft
}

// NewService returns an empty draft service.
func NewService() *Service {
	return &Service{drafts: make(map[string]Draft)}
}

// Create starts a draft holding a single empty bullet.
func (s *Service) Create(_ context.Context) Draft {
	draft := Draft{
		ID:        uuid.NewString(),
		Text:      editor.Initial,
		UpdatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.drafts[draft.ID] = draft
	s.mu.Unlock()

	return draft
}

// Get returns the draft with the given id.
func (s *Service) Get(_ context.Context, id string) (Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	draft, ok := s.drafts[id]
	if !ok {
		return Draft{}, ErrDraftNotFound
	}
	return draft, nil
}

// Edit applies an input event to the draft and returns its new state.
func (s *Service) Edit(_ context.Context, id string, e editor.Edit) (Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft, ok := s.drafts[id]
	if !ok {
		return Draft{}, ErrDraftNotFound
	}

	draft.Text = editor.Apply(draft.Text, e.Input, e.Caret)
	draft.UpdatedAt = time.Now().UTC()
	s.drafts[id] = draft
	return draft, nil
}

// Reset puts the draft back to a single empty bullet.
func (s *Service) Reset(_ context.Context, id string) (Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft, ok := s.drafts[id]
	if !ok {
		return Draft{}, ErrDraftNotFound
	}

	draft.Text = editor.Initial
	draft.UpdatedAt = time.Now().UTC()
	s.drafts[id] = draft
	return draft, nil
}

// Delete discards the draft.
func (s *Service) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.drafts[id]; !ok {
		return ErrDraftNotFound
	}
	delete(s.drafts, id)
	return nil
}
