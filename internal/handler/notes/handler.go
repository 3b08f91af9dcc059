package notes

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/go-chi/chi/v5"

	"github.com/sessionscribe/scribe/internal/model/note"
	"github.com/sessionscribe/scribe/internal/model/session"
	"github.com/sessionscribe/scribe/internal/service/ai"
	notesService "github.com/sessionscribe/scribe/internal/service/notes"
	"github.com/sessionscribe/scribe/pkg/utils"
)

// DuplicateDetail is the message returned when a note already exists.
const DuplicateDetail = "A note with this name and date already exists."

// Generator produces clinical summaries from raw notes.
type Generator interface {
	Generate(ctx context.Context, req ai.Request) (string, error)
	Stream(ctx context.Context, req ai.Request) (*schema.StreamReader[*schema.Message], error)
}

// Handler serves the generate, save and list endpoints.
type Handler struct {
	generator    Generator
	notes        *notesService.Service
	sessionTypes session.Store
}

// New creates the notes handler. generator may be nil when no model is
// configured; generation endpoints then answer 503. A non-empty session type
// must be listed in sessionTypes.
func New(generator Generator, notes *notesService.Service, sessionTypes session.Store) *Handler {
	return &Handler{generator: generator, notes: notes, sessionTypes: sessionTypes}
}

// RegisterRoutes mounts the note endpoints on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/generate-notes", h.handleGenerate)
	r.Post("/generate-notes/stream", h.handleGenerateStream)
	r.Post("/save-notes", h.handleSave)
	r.Get("/get-notes", h.handleList)
}

type generateResponse struct {
	Result string `json:"result"`
}

type saveRequest struct {
	Name  string `json:"name"`
	Date  string `json:"date"`
	Notes string `json:"notes"`
}

// StreamEvent is a single SSE frame of a streamed generation.
type StreamEvent struct {
	Event    string `json:"event"`
	Content  string `json:"content,omitempty"`
	Finished bool   `json:"finished,omitempty"`
	Error    string `json:"error,omitempty"`
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeGenerateRequest(w, r)
	if !ok {
		return
	}
	if h.generator == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "note generation unavailable")
		return
	}

	result, err := h.generator.Generate(r.Context(), req)
	if err != nil {
		log.Printf("[notes] generation failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "note generation error: "+err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, generateResponse{Result: result})
}

func (h *Handler) handleGenerateStream(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeGenerateRequest(w, r)
	if !ok {
		return
	}
	if h.generator == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "note generation unavailable")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	stream, err := h.generator.Stream(r.Context(), req)
	if err != nil {
		log.Printf("[notes] generation stream failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "note generation error: "+err.Error())
		return
	}
	defer stream.Close()

	utils.SetupSSEHeaders(w)
	w.WriteHeader(http.StatusOK)

	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			utils.SendSSEChunk(w, flusher, StreamEvent{Event: "done", Finished: true})
			return
		}
		if err != nil {
			log.Printf("[notes] generation stream interrupted: %v", err)
			utils.SendSSEChunk(w, flusher, StreamEvent{Event: "error", Error: err.Error(), Finished: true})
			return
		}
		if chunk == nil || chunk.Content == "" {
			continue
		}
		utils.SendSSEChunk(w, flusher, StreamEvent{Event: "chunk", Content: chunk.Content})
	}
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	var payload saveRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}
	if strings.TrimSpace(payload.Name) == "" || strings.TrimSpace(payload.Date) == "" {
		utils.RespondError(w, http.StatusUnprocessableEntity, "name and date are required")
		return
	}

	saved, err := h.notes.Save(r.Context(), payload.Name, payload.Date, payload.Notes)
	if err != nil {
		if errors.Is(err, note.ErrDuplicate) {
			utils.RespondError(w, http.StatusBadRequest, DuplicateDetail)
			return
		}
		log.Printf("[notes] save failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to save note")
		return
	}

	utils.RespondJSON(w, http.StatusOK, saved)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.notes.List(r.Context())
	if err != nil {
		log.Printf("[notes] list failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to list notes")
		return
	}
	utils.RespondJSON(w, http.StatusOK, list)
}

func (h *Handler) decodeGenerateRequest(w http.ResponseWriter, r *http.Request) (ai.Request, bool) {
	var req ai.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusUnprocessableEntity, "invalid request body")
		return ai.Request{}, false
	}
	if req.SessionType != "" {
		if _, ok := h.sessionTypes.Find(req.SessionType); !ok {
			utils.RespondError(w, http.StatusUnprocessableEntity, "unknown session type: "+req.SessionType)
			return ai.Request{}, false
		}
	}
	return req, true
}
