package form

import (
	"context"
	"log"
	"sync"

	"github.com/sessionscribe/scribe/internal/model/note"
)

// EmptyMessage is shown when no note matches the name filter.
const EmptyMessage = "No notes found for the specified patient name."

// MsgFetchFailed is reported when the notes list cannot be loaded.
const MsgFetchFailed = "Failed to fetch notes."

// Lister fetches saved notes.
type Lister interface {
	List(ctx context.Context) ([]note.Note, error)
}

// NoteList is the read view over saved notes: latest first, filtered by
// patient name on the client.
type NoteList struct {
	api      Lister
	reporter Reporter

	mu    sync.RWMutex
	notes []note.Note
	query string
}

// NewNoteList returns an empty list view.
func NewNoteList(api Lister, reporter Reporter) *NoteList {
	return &NoteList{api: api, reporter: reporter}
}

// Load fetches the notes and orders them by date, newest first. On failure the
// previous contents are kept.
func (l *NoteList) Load(ctx context.Context) error {
	notes, err := l.api.List(ctx)
	if err != nil {
		log.Printf("[form] fetch notes failed: %v", err)
		l.reporter.ReportFailure(MsgFetchFailed)
		return err
	}

	note.SortByDateDesc(notes)

	l.mu.Lock()
	l.notes = notes
	l.mu.Unlock()
	return nil
}

// SetQuery updates the patient name filter.
func (l *NoteList) SetQuery(q string) {
	l.mu.Lock()
	l.query = q
	l.mu.Unlock()
}

// Visible returns the notes matching the current filter.
func (l *NoteList) Visible() []note.Note {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return note.FilterByName(l.notes, l.query)
}
