package v1

import (
	"github.com/go-chi/chi/v5"

	"github.com/olafwrieden/azurechat-v3/interfaces/http/rest/handlers"
)

// NewRouter creates the v1 API router
func NewRouter(threadHandler *handlers.ThreadHandler) chi.Router {
	router := chi.NewRouter()

	router.Route("/threads", func(r chi.Router) {
		r.Post("/", threadHandler.CreateThread)
		r.Get("/", threadHandler.ListThreads)
		r.Get("/{threadID}", threadHandler.GetThread)
		r.Patch("/{threadID}", threadHandler.RenameThread)
		r.Delete("/{threadID}", threadHandler.DeleteThread)
		r.Post("/{threadID}/bookmark", threadHandler.ToggleBookmark)
	})

	return router
}
