package drafts

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/sessionscribe/scribe/internal/editor"
	draftService "github.com/sessionscribe/scribe/internal/service/drafts"
)

func setupRouter() *chi.Mux {
	r := chi.NewRouter()
	New(draftService.NewService()).RegisterRoutes(r)
	return r
}

func createDraft(t *testing.T, r http.Handler) draftService.Draft {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/drafts", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
	var draft draftService.Draft
	if err := json.NewDecoder(resp.Body).Decode(&draft); err != nil {
		t.Fatalf("decode draft: %v", err)
	}
	return draft
}

func postEdit(t *testing.T, r http.Handler, id string, edit editor.Edit) *httptest.ResponseRecorder {
	t.Helper()
	payload, _ := json.Marshal(edit)
	req := httptest.NewRequest(http.MethodPost, "/drafts/"+id+"/edits", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestDraftEditsOverHTTP(t *testing.T) {
	r := setupRouter()
	draft := createDraft(t, r)
	if draft.Text != editor.Initial {
		t.Fatalf("unexpected initial text %q", draft.Text)
	}

	postEdit(t, r, draft.ID, editor.Edit{Input: "• first", Caret: 7})
	resp := postEdit(t, r, draft.ID, editor.Edit{Input: "• first\n", Caret: 8})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var got draftService.Draft
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Text != "• first\n• " {
		t.Fatalf("unexpected text %q", got.Text)
	}

	req := httptest.NewRequest(http.MethodPost, "/drafts/"+draft.ID+"/reset", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"text":"• "`) {
		t.Fatalf("unexpected reset response %d %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodDelete, "/drafts/"+draft.ID, nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/drafts/"+draft.ID, nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestDraftEditUnknownDraft(t *testing.T) {
	r := setupRouter()

	resp := postEdit(t, r, "missing", editor.Edit{Input: "x"})
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestDraftEditInvalidBody(t *testing.T) {
	r := setupRouter()
	draft := createDraft(t, r)

	req := httptest.NewRequest(http.MethodPost, "/drafts/"+draft.ID+"/edits", strings.NewReader("nope"))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.Code)
	}
}

func TestDraftWebSocket(t *testing.T) {
	r := setupRouter()
	draft := createDraft(t, r)

	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/drafts/" + draft.ID + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	readDraft := func() string {
		t.Helper()
		var msg struct {
			Type string            `json:"type"`
			Data draftService.Draft `json:"data"`
		}
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read: %v", err)
		}
		if msg.Type != "draft" {
			t.Fatalf("expected draft frame, got %q", msg.Type)
		}
		return msg.Data.Text
	}

	if got := readDraft(); got != editor.Initial {
		t.Fatalf("unexpected greeting text %q", got)
	}

	send := func(msgType string, edit *editor.Edit) {
		t.Helper()
		frame := map[string]any{"type": msgType}
		if edit != nil {
			frame["data"] = edit
		}
		if err := conn.WriteJSON(frame); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	send("edit", &editor.Edit{Input: "• first", Caret: 7})
	if got := readDraft(); got != "• first" {
		t.Fatalf("unexpected text %q", got)
	}

	send("edit", &editor.Edit{Input: "• first\n", Caret: 8})
	if got := readDraft(); got != "• first\n• " {
		t.Fatalf("unexpected text %q", got)
	}

	send("edit", &editor.Edit{Input: "• first\n•", Caret: 9})
	if got := readDraft(); got != "• first" {
		t.Fatalf("unexpected text %q", got)
	}

	send("reset", nil)
	var info struct {
		Type string            `json:"type"`
		Data map[string]string `json:"data"`
	}
	if err := conn.ReadJSON(&info); err != nil {
		t.Fatalf("read: %v", err)
	}
	if info.Type != "info" || info.Data["message"] != "draft reset" {
		t.Fatalf("expected reset info frame, got %+v", info)
	}
	if got := readDraft(); got != editor.Initial {
		t.Fatalf("unexpected text after reset %q", got)
	}

	send("bogus", nil)
	var errFrame OutgoingMessage
	if err := conn.ReadJSON(&errFrame); err != nil {
		t.Fatalf("read: %v", err)
	}
	if errFrame.Type != "error" {
		t.Fatalf("expected error frame, got %q", errFrame.Type)
	}
}

func TestDraftWebSocketUnknownDraft(t *testing.T) {
	srv := httptest.NewServer(setupRouter())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/drafts/missing/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("expected dial to fail for unknown draft")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 handshake response, got %v", resp)
	}
}
