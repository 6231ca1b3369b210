package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chainNames(chain []Client) []string {
	names := make([]string, len(chain))
	for i, c := range chain {
		names[i] = c.Name()
	}
	return names
}

func TestNewChain_DefaultOrder(t *testing.T) {
	chain := NewChain(Config{})
	assert.Equal(t, []string{"gemini", "openai", "anthropic"}, chainNames(chain))
}

func TestNewChain_PrimaryFirst(t *testing.T) {
	chain := NewChain(Config{Provider: "anthropic"})
	assert.Equal(t, []string{"anthropic", "gemini", "openai"}, chainNames(chain))

	chain = NewChain(Config{Provider: "OpenAI"})
	assert.Equal(t, []string{"openai", "gemini", "anthropic"}, chainNames(chain))
}

func TestNewChain_UnknownPrimaryIgnored(t *testing.T) {
	chain := NewChain(Config{Provider: "bard"})
	assert.Equal(t, []string{"gemini", "openai", "anthropic"}, chainNames(chain))
}

func TestNewChain_AvailabilityTracksKeys(t *testing.T) {
	chain := NewChain(Config{OpenAIAPIKey: "sk-test"})
	require.Len(t, chain, 3)

	byName := make(map[string]Client)
	for _, c := range chain {
		byName[c.Name()] = c
	}

	assert.True(t, byName["openai"].Available())
	assert.False(t, byName["gemini"].Available())
	assert.False(t, byName["anthropic"].Available())
}
