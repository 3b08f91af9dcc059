package form

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/sessionscribe/scribe/internal/client"
	"github.com/sessionscribe/scribe/internal/editor"
	"github.com/sessionscribe/scribe/internal/model/note"
)

type fakeAPI struct {
	generateResult string
	generateErr    error
	saveErr        error
	listResult     []note.Note
	listErr        error

	generateCalls []client.GenerateRequest
	saveCalls     []client.SaveRequest
	listCalls     int

	// during runs inside Generate, while the form is loading.
	during func()
}

func (f *fakeAPI) Generate(_ context.Context, req client.GenerateRequest) (string, error) {
	f.generateCalls = append(f.generateCalls, req)
	if f.during != nil {
		f.during()
	}
	return f.generateResult, f.generateErr
}

func (f *fakeAPI) Save(_ context.Context, req client.SaveRequest) error {
	f.saveCalls = append(f.saveCalls, req)
	return f.saveErr
}

func (f *fakeAPI) List(_ context.Context) ([]note.Note, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]note.Note(nil), f.listResult...), nil
}

type recordingReporter struct {
	messages []string
}

func (r *recordingReporter) ReportFailure(message string) {
	r.messages = append(r.messages, message)
}

func filledForm(api API, rep Reporter) *SessionForm {
	f := NewSessionForm(api, rep)
	f.SetPatientName("Jane Doe")
	f.SetDate("2024-03-05")
	f.SetDuration("45")
	f.SetSessionType("Speech Therapy")
	return f
}

func TestSessionFormStartsWithBullet(t *testing.T) {
	f := NewSessionForm(&fakeAPI{}, &recordingReporter{})
	if got := f.State().Notes; got != editor.Initial {
		t.Fatalf("expected %q, got %q", editor.Initial, got)
	}
}

func TestSessionFormEditNotes(t *testing.T) {
	f := NewSessionForm(&fakeAPI{}, &recordingReporter{})

	f.EditNotes("• first", 7)
	if got := f.EditNotes("• first\n", 8); got != "• first\n• " {
		t.Fatalf("unexpected notes %q", got)
	}
	if got := f.EditNotes("• first\n•", 9); got != "• first" {
		t.Fatalf("unexpected notes %q", got)
	}
}

func TestSessionFormSubmitSuccess(t *testing.T) {
	api := &fakeAPI{generateResult: "Client engaged well."}
	rep := &recordingReporter{}
	f := filledForm(api, rep)
	f.EditNotes("• engaged", 9)

	if err := f.Submit(context.Background()); err != nil {
		t.Fatalf("Submit err: %v", err)
	}

	if len(api.generateCalls) != 1 {
		t.Fatalf("expected one generate call, got %d", len(api.generateCalls))
	}
	got := api.generateCalls[0]
	if got.SessionType != "Speech Therapy" || got.Duration != "45" || got.Notes != "• engaged" {
		t.Fatalf("unexpected request %+v", got)
	}

	state := f.State()
	if state.Loading {
		t.Fatal("expected loading cleared")
	}
	if state.Response != "Client engaged well." || state.EditableNotes != "Client engaged well." {
		t.Fatalf("unexpected state %+v", state)
	}
	if len(rep.messages) != 0 {
		t.Fatalf("unexpected reports %v", rep.messages)
	}
}

func TestSessionFormSubmitFailure(t *testing.T) {
	api := &fakeAPI{generateErr: &client.Error{Message: client.MsgGenerateFailed}}
	rep := &recordingReporter{}
	f := filledForm(api, rep)

	if err := f.Submit(context.Background()); err == nil {
		t.Fatal("expected error")
	}

	state := f.State()
	if state.Response != MsgGenerateFailed || state.EditableNotes != "" || state.Loading {
		t.Fatalf("unexpected state %+v", state)
	}
	if len(rep.messages) != 1 || rep.messages[0] != MsgGenerateFailed {
		t.Fatalf("unexpected reports %v", rep.messages)
	}
}

func TestSessionFormSubmitRequiresNameAndDate(t *testing.T) {
	api := &fakeAPI{}
	rep := &recordingReporter{}
	f := NewSessionForm(api, rep)
	f.SetDate("2024-03-05")

	if err := f.Submit(context.Background()); !errors.Is(err, ErrIncomplete) {
		t.Fatalf("expected ErrIncomplete, got %v", err)
	}
	if len(api.generateCalls) != 0 {
		t.Fatal("expected no generate call")
	}
	if len(rep.messages) != 1 || rep.messages[0] != MsgMissingSessionFields {
		t.Fatalf("unexpected reports %v", rep.messages)
	}
}

func TestSessionFormSubmitWhileLoading(t *testing.T) {
	api := &fakeAPI{generateResult: "done"}
	f := filledForm(api, &recordingReporter{})

	var nested error
	api.during = func() {
		if !f.State().Loading {
			t.Error("expected loading during generation")
		}
		nested = f.Submit(context.Background())
	}

	if err := f.Submit(context.Background()); err != nil {
		t.Fatalf("Submit err: %v", err)
	}
	if !errors.Is(nested, ErrBusy) {
		t.Fatalf("expected ErrBusy for nested submit, got %v", nested)
	}
	if len(api.generateCalls) != 1 {
		t.Fatalf("expected a single generate call, got %d", len(api.generateCalls))
	}
}

func TestSessionFormSaveRequiresFields(t *testing.T) {
	api := &fakeAPI{}
	rep := &recordingReporter{}
	f := NewSessionForm(api, rep)
	f.SetDate("2024-03-05")
	f.SetEditableNotes("Client engaged well.")

	if f.Save(context.Background()) {
		t.Fatal("expected save to fail with empty patient name")
	}
	if len(api.saveCalls) != 0 {
		t.Fatal("expected no network call")
	}
	if len(rep.messages) != 1 || rep.messages[0] != MsgMissingSaveFields {
		t.Fatalf("unexpected reports %v", rep.messages)
	}
	if f.State().SaveStatus != SaveNone {
		t.Fatalf("expected save status untouched, got %v", f.State().SaveStatus)
	}
}

func TestSessionFormSaveRejectsWhitespaceFields(t *testing.T) {
	cases := map[string]func(f *SessionForm){
		"name":  func(f *SessionForm) { f.SetPatientName("   ") },
		"date":  func(f *SessionForm) { f.SetDate("\t") },
		"notes": func(f *SessionForm) { f.SetEditableNotes(" \n ") },
	}

	for field, blankOut := range cases {
		api := &fakeAPI{}
		rep := &recordingReporter{}
		f := filledForm(api, rep)
		f.SetEditableNotes("Client engaged well.")
		blankOut(f)

		if f.Save(context.Background()) {
			t.Fatalf("%s: expected save to fail", field)
		}
		if len(api.saveCalls) != 0 {
			t.Fatalf("%s: expected no network call", field)
		}
		if len(rep.messages) != 1 || rep.messages[0] != MsgMissingSaveFields {
			t.Fatalf("%s: unexpected reports %v", field, rep.messages)
		}
	}
}

func TestSessionFormSaveSuccess(t *testing.T) {
	api := &fakeAPI{}
	rep := &recordingReporter{}
	f := filledForm(api, rep)
	f.SetEditableNotes("Client engaged well.")

	if !f.Save(context.Background()) {
		t.Fatal("expected save to succeed")
	}
	if len(api.saveCalls) != 1 {
		t.Fatalf("expected one save call, got %d", len(api.saveCalls))
	}
	want := client.SaveRequest{Name: "Jane Doe", Date: "2024-03-05", Notes: "Client engaged well."}
	if api.saveCalls[0] != want {
		t.Fatalf("unexpected save request %+v", api.saveCalls[0])
	}
	if f.State().SaveStatus != SaveSucceeded {
		t.Fatalf("expected success status, got %v", f.State().SaveStatus)
	}
}

func TestSessionFormSaveFailureUsesDetail(t *testing.T) {
	api := &fakeAPI{saveErr: &client.Error{StatusCode: http.StatusBadRequest, Message: "A note with this name and date already exists."}}
	rep := &recordingReporter{}
	f := filledForm(api, rep)
	f.SetEditableNotes("x")

	if f.Save(context.Background()) {
		t.Fatal("expected save failure")
	}
	if f.State().SaveStatus != SaveFailed {
		t.Fatalf("expected failure status, got %v", f.State().SaveStatus)
	}
	if len(rep.messages) != 1 || rep.messages[0] != "A note with this name and date already exists." {
		t.Fatalf("unexpected reports %v", rep.messages)
	}
}

func TestSessionFormSaveFailureGeneric(t *testing.T) {
	api := &fakeAPI{saveErr: errors.New("connection refused")}
	rep := &recordingReporter{}
	f := filledForm(api, rep)
	f.SetEditableNotes("x")

	f.Save(context.Background())
	if len(rep.messages) != 1 || rep.messages[0] != MsgSaveFailed {
		t.Fatalf("unexpected reports %v", rep.messages)
	}
}

func TestSessionFormRestart(t *testing.T) {
	api := &fakeAPI{generateResult: "summary"}
	f := filledForm(api, &recordingReporter{})
	f.EditNotes("• typed", 7)
	if err := f.Submit(context.Background()); err != nil {
		t.Fatalf("Submit err: %v", err)
	}
	f.Save(context.Background())

	f.Restart()

	want := State{Notes: editor.Initial}
	if got := f.State(); got != want {
		t.Fatalf("expected cleared state, got %+v", got)
	}
}
