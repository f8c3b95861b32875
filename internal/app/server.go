package app

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	transport "github.com/mf-rl/bot-name-generator/internal/app/http"
	"github.com/mf-rl/bot-name-generator/internal/config"
	"github.com/mf-rl/bot-name-generator/internal/domain"
	"github.com/mf-rl/bot-name-generator/internal/namegen"
)

const (
	shutdownTimeout = 5 * time.Second

	errGenerateName = "Failed to generate name"
)

type NameGenerator interface {
	Generate(ctx context.Context) domain.GeneratedName
	GenerateLocal() domain.GeneratedName
}

type Server struct {
	cfg   config.Config
	names NameGenerator
}

func NewServer(cfg config.Config) (*Server, error) {
	return NewServerWithGenerator(cfg, namegen.NewServiceFromConfig(cfg.NameGenerator))
}

func NewServerWithGenerator(cfg config.Config, names NameGenerator) (*Server, error) {
	if names == nil {
		return nil, errors.New("name generator is required")
	}
	return &Server{cfg: cfg, names: names}, nil
}

func (s *Server) Handler() http.Handler {
	return transport.NewRouter(transport.Handlers{
		Public: transport.PublicHandlers{
			Health: s.handleHealth,
		},
		Names: transport.NameHandlers{
			GenerateName: s.generateName,
		},
	})
}

// ListenAndServe binds the configured address and serves until ctx is done,
// then drains in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.API.Addr())
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpSrv := &http.Server{Handler: s.Handler()}
	addr := ln.Addr().String()
	log.Printf("name generation server running at http://%s", addr)
	log.Printf("ai provider: %s", s.cfg.NameGenerator.AIProvider)
	log.Printf("health check: http://%s/api/health", addr)
	log.Printf("generate name: http://%s/api/generate-name", addr)

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, domain.HealthStatus{Status: "ok", Provider: s.cfg.NameGenerator.AIProvider})
}

func (s *Server) generateName(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("error generating name: %v", rec)
			fallback := s.names.GenerateLocal()
			writeJSON(w, http.StatusInternalServerError, domain.NameErrorBody{
				Error:    errGenerateName,
				Name:     fallback.Name,
				Provider: domain.ProviderLocal,
			})
		}
	}()
	writeJSON(w, http.StatusOK, s.names.Generate(r.Context()))
}

func writeJSON(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}
