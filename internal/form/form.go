// Package form holds the view-independent state behind the session note form
// and the saved notes list.
package form

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/sessionscribe/scribe/internal/client"
	"github.com/sessionscribe/scribe/internal/editor"
	"github.com/sessionscribe/scribe/internal/model/note"
)

// User-facing messages.
const (
	MsgMissingSessionFields = "Please fill out patient name and date."
	MsgMissingSaveFields    = "Please fill out patient name, date, and notes."
	MsgGenerateFailed       = "Failed to generate notes."
	MsgSaveFailed           = "Failed to save notes."
)

// ErrBusy is returned when a generation request is already outstanding.
var ErrBusy = errors.New("generation already in progress")

// ErrIncomplete is returned when required fields are missing.
var ErrIncomplete = errors.New("required fields missing")

// Reporter shows failures to the user.
type Reporter interface {
	ReportFailure(message string)
}

// API is the backend used by the form and the notes list.
type API interface {
	Generate(ctx context.Context, req client.GenerateRequest) (string, error)
	Save(ctx context.Context, req client.SaveRequest) error
	List(ctx context.Context) ([]note.Note, error)
}

// SaveStatus is the outcome of the last save attempt.
type SaveStatus int

const (
	SaveNone SaveStatus = iota
	SaveSucceeded
	SaveFailed
)

func (s SaveStatus) String() string {
	switch s {
	case SaveSucceeded:
		return "success"
	case SaveFailed:
		return "failure"
	default:
		return ""
	}
}

// State is a snapshot of the form for rendering.
type State struct {
	PatientName   string
	Date          string
	Duration      string
	SessionType   string
	Notes         string
	Loading       bool
	Response      string
	EditableNotes string
	SaveStatus    SaveStatus
}

// SessionForm owns the state of one note-taking flow. Methods are safe for
// concurrent use; the lock is never held across network calls.
type SessionForm struct {
	api      API
	reporter Reporter

	mu            sync.Mutex
	patientName   string
	date          string
	duration      string
	sessionType   string
	notes         *editor.Buffer
	loading       bool
	response      string
	editableNotes string
	saveStatus    SaveStatus
}

// NewSessionForm returns an empty form.
func NewSessionForm(api API, reporter Reporter) *SessionForm {
	return &SessionForm{api: api, reporter: reporter, notes: editor.NewBuffer()}
}

func (f *SessionForm) SetPatientName(v string) { f.set(&f.patientName, v) }
func (f *SessionForm) SetDate(v string)        { f.set(&f.date, v) }
func (f *SessionForm) SetDuration(v string)    { f.set(&f.duration, v) }
func (f *SessionForm) SetSessionType(v string) { f.set(&f.sessionType, v) }

// SetEditableNotes replaces the generated text being reviewed.
func (f *SessionForm) SetEditableNotes(v string) { f.set(&f.editableNotes, v) }

func (f *SessionForm) set(field *string, v string) {
	f.mu.Lock()
	*field = v
	f.mu.Unlock()
}

// EditNotes feeds an input event from the notes field through the bullet
// editor and returns the text the field should now display.
func (f *SessionForm) EditNotes(input string, caret int) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.notes.Apply(editor.Edit{Input: input, Caret: caret})
}

// State returns a snapshot for rendering.
func (f *SessionForm) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return State{
		PatientName:   f.patientName,
		Date:          f.date,
		Duration:      f.duration,
		SessionType:   f.sessionType,
		Notes:         f.notes.Text(),
		Loading:       f.loading,
		Response:      f.response,
		EditableNotes: f.editableNotes,
		SaveStatus:    f.saveStatus,
	}
}

// Submit sends the notes for generation. Patient name and date are required.
// On success the result becomes the editable notes; on failure the response
// shows a generic message and the failure is reported.
func (f *SessionForm) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.loading {
		f.mu.Unlock()
		return ErrBusy
	}
	if blank(f.patientName) || blank(f.date) {
		f.mu.Unlock()
		f.reporter.ReportFailure(MsgMissingSessionFields)
		return ErrIncomplete
	}
	req := client.GenerateRequest{
		SessionType: f.sessionType,
		Duration:    f.duration,
		Notes:       f.notes.Text(),
	}
	f.loading = true
	f.response = ""
	f.mu.Unlock()

	result, err := f.api.Generate(ctx, req)

	f.mu.Lock()
	f.loading = false
	if err != nil {
		f.response = MsgGenerateFailed
		f.mu.Unlock()
		log.Printf("[form] generate notes failed: %v", err)
		f.reporter.ReportFailure(MsgGenerateFailed)
		return err
	}
	f.response = result
	f.editableNotes = result
	f.mu.Unlock()
	return nil
}

// Save persists the reviewed notes. It reports whether the save succeeded.
// Missing fields are reported without contacting the backend.
func (f *SessionForm) Save(ctx context.Context) bool {
	f.mu.Lock()
	req := client.SaveRequest{Name: f.patientName, Date: f.date, Notes: f.editableNotes}
	f.mu.Unlock()

	if blank(req.Name) || blank(req.Date) || blank(req.Notes) {
		f.reporter.ReportFailure(MsgMissingSaveFields)
		return false
	}

	err := f.api.Save(ctx, req)

	f.mu.Lock()
	if err != nil {
		f.saveStatus = SaveFailed
	} else {
		f.saveStatus = SaveSucceeded
	}
	f.mu.Unlock()

	if err != nil {
		log.Printf("[form] save notes failed: %v", err)
		f.reporter.ReportFailure(saveFailureMessage(err))
		return false
	}
	return true
}

// Restart clears the form for a new session.
func (f *SessionForm) Restart() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.patientName = ""
	f.date = ""
	f.duration = ""
	f.sessionType = ""
	f.notes.Reset()
	f.response = ""
	f.editableNotes = ""
	f.saveStatus = SaveNone
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func saveFailureMessage(err error) string {
	var remote *client.Error
	if errors.As(err, &remote) && remote.Message != "" && remote.Message != client.MsgSaveFailed {
		return remote.Message
	}
	return MsgSaveFailed
}
