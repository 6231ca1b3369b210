package llm

import "strings"

// fallbackOrder lists every provider, cheapest and fastest first. The
// configured primary is tried before any of these.
var fallbackOrder = []string{"gemini", "openai", "anthropic"}

// NewChain builds the ordered provider list used for fallback: the
// configured primary first, then the remaining providers in preference
// order. Unavailable providers stay in the chain; the orchestrator skips
// them so availability is evaluated per request.
func NewChain(cfg Config) []Client {
	clients := map[string]Client{
		"gemini":    newGeminiClient(cfg),
		"openai":    newOpenAIClient(cfg),
		"anthropic": newAnthropicClient(cfg),
	}

	primary := strings.ToLower(cfg.Provider)

	chain := make([]Client, 0, len(clients))
	if client, ok := clients[primary]; ok {
		chain = append(chain, client)
	}
	for _, name := range fallbackOrder {
		if name == primary {
			continue
		}
		chain = append(chain, clients[name])
	}

	return chain
}
