package transport

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
)

type NameHandlers struct {
	GenerateName stdhttp.HandlerFunc
}

// GET and POST share one handler; the POST body is ignored.
func registerNameRoutes(api chi.Router, handlers NameHandlers) {
	generate := mustHandler("generate-name", handlers.GenerateName)
	api.Get("/generate-name", generate)
	api.Post("/generate-name", generate)
}
