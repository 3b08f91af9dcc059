package notes

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/sessionscribe/scribe/internal/model/note"
)

// ErrDuplicate mirrors note.ErrDuplicate for callers of the service.
var ErrDuplicate = note.ErrDuplicate

// Service applies the save and listing rules on top of a note store.
type Service struct {
	store note.Store
	now   func() time.Time
}

// NewService wraps store.
func NewService(store note.Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Save persists a note for the patient and date. Saving the same patient and
// date twice fails with ErrDuplicate.
func (s *Service) Save(ctx context.Context, name, date, notes string) (note.Note, error) {
	n := note.Note{
		ID:        uuid.NewString(),
		Name:      name,
		Date:      date,
		Notes:     notes,
		CreatedAt: s.now().UTC(),
	}

	if err := s.store.Save(ctx, n); err != nil {
		if errors.Is(err, note.ErrDuplicate) {
			return note.Note{}, err
		}
		return note.Note{}, fmt.Errorf("save note: %w", err)
	}

	log.Printf("[notes] saved note id=%s", n.ID)
	return n, nil
}

// List returns every saved note. Ordering and filtering are left to callers.
func (s *Service) List(ctx context.Context) ([]note.Note, error) {
	notes, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	if notes == nil {
		notes = []note.Note{}
	}
	return notes, nil
}
