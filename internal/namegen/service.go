// Package namegen produces bot display names, preferring the Groq API when it
// is selected and keyed, and composing them locally otherwise.
package namegen

import (
	"context"

	"github.com/mf-rl/bot-name-generator/internal/config"
	"github.com/mf-rl/bot-name-generator/internal/domain"
	"github.com/mf-rl/bot-name-generator/internal/provider"
)

type RemoteGenerator interface {
	Configured() bool
	Generate(ctx context.Context) (string, bool)
}

type LocalGenerator interface {
	Generate() string
}

type Dependencies struct {
	ProviderID string
	Remote     RemoteGenerator
	Local      LocalGenerator
}

type Service struct {
	deps Dependencies
}

func NewService(deps Dependencies) *Service {
	return &Service{deps: deps}
}

func NewServiceFromConfig(cfg config.NameGeneratorConfig) *Service {
	return NewService(Dependencies{
		ProviderID: cfg.AIProvider,
		Remote: NewRemote(RemoteConfig{
			APIKey:    cfg.GroqAPIKey,
			Model:     cfg.GroqModel,
			BaseURL:   cfg.GroqBaseURL,
			TimeoutMS: cfg.TimeoutMS,
		}),
		Local: NewLocal(cfg.Adjectives, cfg.Nouns),
	})
}

// Generate returns a remote name when the configured provider is remote and
// keyed, and a local one in every other case.
func (s *Service) Generate(ctx context.Context) domain.GeneratedName {
	if s.remoteEnabled() {
		if name, ok := s.deps.Remote.Generate(ctx); ok {
			return domain.GeneratedName{Name: name, Provider: domain.ProviderGroq}
		}
	}
	return s.GenerateLocal()
}

func (s *Service) GenerateLocal() domain.GeneratedName {
	return domain.GeneratedName{Name: s.deps.Local.Generate(), Provider: domain.ProviderLocal}
}

func (s *Service) remoteEnabled() bool {
	return s.deps.Remote != nil && provider.IsRemote(s.deps.ProviderID) && s.deps.Remote.Configured()
}
