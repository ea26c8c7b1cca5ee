// Package llm provides the chat completion client consumed by the story
// memory engine. Callers pick a named sampling profile per call type; the
// provider implementations translate profiles into provider-native options.
package llm

import "context"

// Client is a chat completion service.
type Client interface {
	// Invoke sends a single prompt and returns the completion text.
	Invoke(ctx context.Context, prompt string, profile Profile) (string, error)

	// Close releases any resources held by the client.
	Close() error
}

// Profile names a sampling configuration tuned for one call type.
type Profile string

const (
	// ProfileDialogue is the normal storytelling profile: higher
	// temperature and penalties tuned for variety.
	ProfileDialogue Profile = "dialogue"

	// ProfileSummarization is a low-temperature, short-output profile.
	ProfileSummarization Profile = "summarization"

	// ProfileExtraction is a near-deterministic profile for the structured
	// extraction fallback.
	ProfileExtraction Profile = "extraction"
)

// SamplingConfig holds provider-agnostic generation parameters.
type SamplingConfig struct {
	Temperature      float32
	TopP             float32
	MaxTokens        int
	FrequencyPenalty float32
	PresencePenalty  float32
}

// profiles is the authoritative profile table.
var profiles = map[Profile]SamplingConfig{
	ProfileDialogue: {
		Temperature:      0.9,
		TopP:             0.95,
		MaxTokens:        1024,
		FrequencyPenalty: 0.4,
		PresencePenalty:  0.4,
	},
	ProfileSummarization: {
		Temperature: 0.2,
		TopP:        0.9,
		MaxTokens:   128,
	},
	ProfileExtraction: {
		Temperature: 0.1,
		TopP:        0.9,
		MaxTokens:   512,
	},
}

// Sampling returns the SamplingConfig for a profile. Unknown profiles fall
// back to the dialogue profile so callers never receive a zero config.
func Sampling(p Profile) SamplingConfig {
	if cfg, ok := profiles[p]; ok {
		return cfg
	}
	return profiles[ProfileDialogue]
}
