package namegen

import (
	"context"
	"log"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/mf-rl/bot-name-generator/internal/domain"
	"github.com/mf-rl/bot-name-generator/internal/runner"
)

const (
	namePrompt = "Generate a single cool, unique Minecraft bot name in the format: AdjectiveNoun#### " +
		"(e.g., SwiftWolf1234, IronFalcon5678). Adjetive and Noun can be ocasionaly in leetspeak. " +
		"Only respond with the name, nothing else."

	// maxRemoteNameLen is measured in characters, not bytes.
	maxRemoteNameLen = 30
)

var nameSampling = runner.SamplingParams{
	Temperature:         1.0,
	TopP:                1,
	MaxCompletionTokens: 8192,
	ReasoningEffort:     "medium",
}

// ReplyGenerator is the slice of *runner.Runner the remote provider needs.
type ReplyGenerator interface {
	GenerateReply(ctx context.Context, prompt string, cfg runner.GenerateConfig, params runner.SamplingParams) (string, error)
}

type RemoteConfig struct {
	APIKey    string
	Model     string
	BaseURL   string
	TimeoutMS int
}

// Remote asks the Groq chat-completions API for a name. It never returns an
// error: every failure is logged and reported as no result.
type Remote struct {
	cfg       RemoteConfig
	newClient func() ReplyGenerator

	once   sync.Once
	client ReplyGenerator
}

func NewRemote(cfg RemoteConfig) *Remote {
	return NewRemoteWithClient(cfg, func() ReplyGenerator { return runner.New() })
}

// NewRemoteWithClient defers calling newClient until the first request that
// has an api key.
func NewRemoteWithClient(cfg RemoteConfig, newClient func() ReplyGenerator) *Remote {
	return &Remote{cfg: cfg, newClient: newClient}
}

func (r *Remote) Configured() bool {
	return strings.TrimSpace(r.cfg.APIKey) != ""
}

func (r *Remote) Generate(ctx context.Context) (string, bool) {
	if !r.Configured() {
		log.Printf("skipping groq: no api key configured")
		return "", false
	}

	reply, err := r.getClient().GenerateReply(ctx, namePrompt, runner.GenerateConfig{
		ProviderID: domain.ProviderGroq,
		Model:      r.cfg.Model,
		APIKey:     r.cfg.APIKey,
		BaseURL:    r.cfg.BaseURL,
		TimeoutMS:  r.cfg.TimeoutMS,
	}, nameSampling)
	if err != nil {
		log.Printf("groq name generation failed: %v", err)
		return "", false
	}

	name := strings.TrimSpace(reply)
	length := utf8.RuneCountInString(name)
	if length == 0 || length >= maxRemoteNameLen {
		log.Printf("groq reply rejected: length=%d", length)
		return "", false
	}
	log.Printf("generated groq name: %s", name)
	return name, true
}

func (r *Remote) getClient() ReplyGenerator {
	r.once.Do(func() {
		r.client = r.newClient()
	})
	return r.client
}
