package memory

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/inkloomco/inkloom/pkg/interaction"
	"github.com/inkloomco/inkloom/pkg/llm"
	"github.com/inkloomco/inkloom/pkg/prompt"
)

// summarizeInstruction is the fixed instruction template behind Summarize.
// It is intentionally a constant rather than a file in the template
// directory: summaries are an internal pipeline concern, not a user-tunable
// surface.
const summarizeInstruction = `Summarize the following story interaction in one or two sentences.
Keep character names and concrete events; drop filler.

Player action: {player_action}
Scene: {scene_description}
Character responses:
{character_responses}

Summary:`

// Summarizer produces short digests of interaction records. LLM failures
// degrade to a deterministic sentence rather than failing the pipeline.
type Summarizer struct {
	client llm.Client
	logger *zap.Logger
}

// NewSummarizer creates a summarizer. A nil client skips the LLM and always
// produces the deterministic fallback.
func NewSummarizer(client llm.Client, logger *zap.Logger) *Summarizer {
	return &Summarizer{
		client: client,
		logger: logger,
	}
}

// Summarize returns a short natural-language digest of the record. It never
// returns an error: any LLM failure falls back to FallbackSummary.
func (s *Summarizer) Summarize(ctx context.Context, rec *interaction.Record) string {
	if s.client == nil {
		return FallbackSummary(rec)
	}

	text := prompt.Render(summarizeInstruction, map[string]string{
		"player_action":       rec.PlayerAction,
		"scene_description":   rec.SceneDescription,
		"character_responses": flattenResponses(rec.CharacterResponses),
	})

	summary, err := s.client.Invoke(ctx, text, llm.ProfileSummarization)
	if err != nil {
		s.logger.Warn("summary generation failed, using fallback", zap.Error(err))
		return FallbackSummary(rec)
	}

	summary = strings.TrimSpace(summary)
	if summary == "" {
		return FallbackSummary(rec)
	}

	return summary
}

// FallbackSummary is the deterministic digest used when the LLM is
// unavailable. It is total: empty character lists and locations still yield
// a valid sentence.
func FallbackSummary(rec *interaction.Record) string {
	characters := strings.Join(rec.Characters(), ", ")
	location := rec.Location
	if location == "" {
		location = "an unknown location"
	}
	return fmt.Sprintf("Interaction involving %s at %s.", characters, location)
}

// flattenResponses renders character responses one per line in
// "Name: dialogue (action)" form.
func flattenResponses(responses []interaction.CharacterResponse) string {
	var b strings.Builder
	for _, resp := range responses {
		b.WriteString(resp.CharacterName)
		b.WriteString(": ")
		b.WriteString(resp.Dialogue)
		if resp.Action != "" {
			b.WriteString(" (")
			b.WriteString(resp.Action)
			b.WriteString(")")
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
