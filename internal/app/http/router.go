package transport

import (
	"encoding/json"
	"fmt"
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mf-rl/bot-name-generator/internal/domain"
	"github.com/mf-rl/bot-name-generator/internal/observability"
)

type PublicHandlers struct {
	Health stdhttp.HandlerFunc
}

type Handlers struct {
	Public PublicHandlers
	Names  NameHandlers
}

func NewRouter(handlers Handlers) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(observability.RequestID)
	r.Use(observability.Logging)
	r.Use(middleware.Recoverer)
	r.Use(cors)

	r.NotFound(func(w stdhttp.ResponseWriter, _ *stdhttp.Request) {
		writeErr(w, stdhttp.StatusNotFound, "not_found", "route not found")
	})
	r.MethodNotAllowed(func(w stdhttp.ResponseWriter, _ *stdhttp.Request) {
		writeErr(w, stdhttp.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	r.Route("/api", func(api chi.Router) {
		registerPublicRoutes(api, handlers.Public)
		registerNameRoutes(api, handlers.Names)
	})

	return r
}

func registerPublicRoutes(r chi.Router, handlers PublicHandlers) {
	r.Get("/health", mustHandler("health", handlers.Health))
}

func cors(next stdhttp.Handler) stdhttp.Handler {
	return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type,X-Request-Id")
		if r.Method == stdhttp.MethodOptions {
			w.WriteHeader(stdhttp.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeErr(w stdhttp.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(domain.APIErrorBody{Error: domain.APIError{Code: errCode, Message: message}})
}

func mustHandler(name string, handler stdhttp.HandlerFunc) stdhttp.HandlerFunc {
	if handler != nil {
		return handler
	}
	panic(fmt.Sprintf("transport router missing handler: %s", name))
}
