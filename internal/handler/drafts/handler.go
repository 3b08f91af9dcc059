package drafts

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sessionscribe/scribe/internal/editor"
	draftService "github.com/sessionscribe/scribe/internal/service/drafts"
	"github.com/sessionscribe/scribe/pkg/utils"
)

// Handler serves server-side drafts of the notes field.
type Handler struct {
	drafts *draftService.Service
	ws     *WebSocketHandler
}

// New creates the drafts handler.
func New(drafts *draftService.Service) *Handler {
	return &Handler{drafts: drafts, ws: NewWebSocketHandler(drafts)}
}

// RegisterRoutes mounts the draft endpoints on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/drafts", func(dr chi.Router) {
		dr.Post("/", h.handleCreate)
		dr.Get("/{draftID}", h.handleGet)
		dr.Delete("/{draftID}", h.handleDelete)
		dr.Post("/{draftID}/edits", h.handleEdit)
		dr.Post("/{draftID}/reset", h.handleReset)
		h.ws.RegisterWebSocketRoutes(dr)
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	draft := h.drafts.Create(r.Context())
	log.Printf("[drafts] created draft id=%s", draft.ID)
	utils.RespondJSON(w, http.StatusCreated, draft)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	draft, err := h.drafts.Get(r.Context(), chi.URLParam(r, "draftID"))
	if err != nil {
		respondDraftError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, draft)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.drafts.Delete(r.Context(), chi.URLParam(r, "draftID")); err != nil {
		respondDraftError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleEdit(w http.ResponseWriter, r *http.Request) {
	var edit editor.Edit
	if err := json.NewDecoder(r.Body).Decode(&edit); err != nil {
		utils.RespondError(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}

	draft, err := h.drafts.Edit(r.Context(), chi.URLParam(r, "draftID"), edit)
	if err != nil {
		respondDraftError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, draft)
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	draft, err := h.drafts.Reset(r.Context(), chi.URLParam(r, "draftID"))
	if err != nil {
		respondDraftError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, draft)
}

func respondDraftError(w http.ResponseWriter, err error) {
	if errors.Is(err, draftService.ErrDraftNotFound) {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	log.Printf("[drafts] request failed: %v", err)
	utils.RespondError(w, http.StatusInternalServerError, "draft operation failed")
}
