package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sessionscribe/scribe/internal/handler/drafts"
	"github.com/sessionscribe/scribe/internal/handler/notes"
	"github.com/sessionscribe/scribe/internal/handler/sessiontype"
	middlewarePkg "github.com/sessionscribe/scribe/internal/middleware"
	"github.com/sessionscribe/scribe/internal/model/session"
	draftService "github.com/sessionscribe/scribe/internal/service/drafts"
	notesService "github.com/sessionscribe/scribe/internal/service/notes"
	"github.com/sessionscribe/scribe/pkg/utils"
)

// Deps bundles the services the router exposes. Generator may be nil when no
// chat model is configured.
type Deps struct {
	Generator      notes.Generator
	Notes          *notesService.Service
	Drafts         *draftService.Service
	SessionTypes   session.Store
	AllowedOrigins []string
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(deps.AllowedOrigins))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	notes.New(deps.Generator, deps.Notes, deps.SessionTypes).RegisterRoutes(r)
	sessiontype.New(deps.SessionTypes).RegisterRoutes(r)
	drafts.New(deps.Drafts).RegisterRoutes(r)

	return r
}
