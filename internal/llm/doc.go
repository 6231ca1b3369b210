// Package llm provides vision and language model access for title extraction
// and batch match scoring. It supports multiple providers (Gemini, OpenAI,
// Anthropic) behind a single capability interface, with sequential fallback
// across providers, best-effort JSON repair of provider output, and
// deterministic library sampling for cache-stable prompts.
package llm
