package provider

import (
	"strings"

	"github.com/mf-rl/bot-name-generator/internal/domain"
)

const (
	AdapterLocal            = "local"
	AdapterOpenAICompatible = "openai-compatible"
)

type ProviderSpec struct {
	ID             string
	DefaultBaseURL string
	DefaultModel   string
	Adapter        string
}

var builtinProviders = map[string]ProviderSpec{
	domain.ProviderGroq: {
		ID:             domain.ProviderGroq,
		DefaultBaseURL: "https://api.groq.com/openai/v1",
		DefaultModel:   "openai/gpt-oss-120b",
		Adapter:        AdapterOpenAICompatible,
	},
	domain.ProviderLocal: {
		ID:      domain.ProviderLocal,
		Adapter: AdapterLocal,
	},
}

// ResolveProvider returns the builtin spec for providerID. Unknown ids resolve
// to a local spec carrying the normalized id, so they never reach the network.
func ResolveProvider(providerID string) ProviderSpec {
	id := normalizeProviderID(providerID)
	if spec, ok := builtinProviders[id]; ok {
		return spec
	}
	return ProviderSpec{
		ID:      id,
		Adapter: AdapterLocal,
	}
}

// IsRemote reports whether providerID selects a network provider. The id must
// match a builtin id exactly; "Groq" or " groq " select local generation.
func IsRemote(providerID string) bool {
	spec, ok := builtinProviders[providerID]
	return ok && spec.Adapter == AdapterOpenAICompatible
}

func normalizeProviderID(providerID string) string {
	return strings.ToLower(strings.TrimSpace(providerID))
}
