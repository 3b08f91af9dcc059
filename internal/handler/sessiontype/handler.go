package sessiontype

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sessionscribe/scribe/internal/model/session"
	"github.com/sessionscribe/scribe/pkg/utils"
)

// Handler exposes the session type catalogue.
type Handler struct {
	types session.Store
}

// New creates the session type handler.
func New(types session.Store) *Handler {
	return &Handler{types: types}
}

// RegisterRoutes mounts the catalogue endpoint on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/session-types", h.handleList)
}

func (h *Handler) handleList(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.types.List())
}
