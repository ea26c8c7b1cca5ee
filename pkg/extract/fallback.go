package extract

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/inkloomco/inkloom/pkg/interaction"
	"github.com/inkloomco/inkloom/pkg/llm"
	"github.com/inkloomco/inkloom/pkg/prompt"
)

// fallbackInstruction is the fixed instruction template for the
// model-assisted pass. The constrained label:value layout keeps the re-parse
// to simple per-field patterns.
const fallbackInstruction = `You are a story analyst. Extract structured fields from the story response below.
Respond with ONLY labeled lines in this layout, one per line. Omit a line if the value is unknown.

SCENE: one or two sentences describing the scene
LOCATION: where the scene takes place
CHARACTER: Name | DIALOGUE: what they said | ACTION: what they did | EMOTION: how they feel
PLOT: one plot development
RELATIONSHIP: Character1 | Character2 | change | reason

Repeat CHARACTER, PLOT, and RELATIONSHIP lines as needed.

Player action: {player_action}

Story response:
{response}`

// fallback issues one extraction request to the LLM and re-parses the
// constrained layout. Fallback results only fill fields still empty after
// the rule pass; rule-based results are never overwritten. Any failure is
// logged and swallowed — the caller's record stays usable either way.
func (e *Extractor) fallback(ctx context.Context, text string, rec *interaction.Record) {
	if e.llm == nil {
		return
	}

	instruction := prompt.Render(fallbackInstruction, map[string]string{
		"player_action": rec.PlayerAction,
		"response":      text,
	})

	out, err := e.llm.Invoke(ctx, instruction, llm.ProfileExtraction)
	if err != nil {
		e.logger.Warn("model-assisted extraction failed", zap.Error(err))
		return
	}

	parsed := parseConstrained(out)
	mergeFallback(rec, parsed)
}

// mergeFallback fills only the still-empty fields of rec from the parsed
// fallback record.
func mergeFallback(rec *interaction.Record, parsed interaction.Record) {
	if rec.SceneDescription == "" {
		rec.SceneDescription = parsed.SceneDescription
	}
	if len(rec.CharacterResponses) == 0 {
		rec.CharacterResponses = parsed.CharacterResponses
	}
	if rec.Location == "" {
		rec.Location = parsed.Location
	}
	if len(rec.PlotDevelopments) == 0 {
		rec.PlotDevelopments = parsed.PlotDevelopments
	}
	if len(rec.RelationshipChanges) == 0 {
		rec.RelationshipChanges = parsed.RelationshipChanges
	}
	if rec.NarrativeProgression == "" {
		rec.NarrativeProgression = parsed.NarrativeProgression
	}
}

// parseConstrained re-parses the label:value layout produced by the fallback
// instruction.
func parseConstrained(out string) interaction.Record {
	rec := interaction.Record{}

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(line, "SCENE:"):
			if rec.SceneDescription == "" {
				rec.SceneDescription = strings.TrimSpace(strings.TrimPrefix(line, "SCENE:"))
			}

		case strings.HasPrefix(line, "LOCATION:"):
			if rec.Location == "" {
				rec.Location = strings.TrimSpace(strings.TrimPrefix(line, "LOCATION:"))
			}

		case strings.HasPrefix(line, "CHARACTER:"):
			if resp, ok := parseCharacterLine(strings.TrimPrefix(line, "CHARACTER:")); ok {
				rec.CharacterResponses = append(rec.CharacterResponses, resp)
			}

		case strings.HasPrefix(line, "PLOT:"):
			if plot := strings.TrimSpace(strings.TrimPrefix(line, "PLOT:")); plot != "" {
				rec.PlotDevelopments = append(rec.PlotDevelopments, plot)
			}

		case strings.HasPrefix(line, "RELATIONSHIP:"):
			if change, ok := parseRelationshipLine(strings.TrimPrefix(line, "RELATIONSHIP:")); ok {
				rec.RelationshipChanges = append(rec.RelationshipChanges, change)
			}
		}
	}

	return rec
}

// parseCharacterLine parses "Name | DIALOGUE: ... | ACTION: ... | EMOTION: ...".
func parseCharacterLine(line string) (interaction.CharacterResponse, bool) {
	parts := strings.Split(line, "|")
	if len(parts) == 0 {
		return interaction.CharacterResponse{}, false
	}

	resp := interaction.CharacterResponse{
		CharacterName: strings.TrimSpace(parts[0]),
	}
	if resp.CharacterName == "" {
		return interaction.CharacterResponse{}, false
	}

	for _, part := range parts[1:] {
		part = strings.TrimSpace(part)
		switch {
		case strings.HasPrefix(part, "DIALOGUE:"):
			resp.Dialogue = strings.TrimSpace(strings.TrimPrefix(part, "DIALOGUE:"))
		case strings.HasPrefix(part, "ACTION:"):
			resp.Action = strings.TrimSpace(strings.TrimPrefix(part, "ACTION:"))
		case strings.HasPrefix(part, "EMOTION:"):
			resp.Emotion = strings.TrimSpace(strings.TrimPrefix(part, "EMOTION:"))
		}
	}

	return resp, true
}

// parseRelationshipLine parses "Character1 | Character2 | change | reason".
func parseRelationshipLine(line string) (interaction.RelationshipChange, bool) {
	parts := strings.Split(line, "|")
	if len(parts) < 3 {
		return interaction.RelationshipChange{}, false
	}

	change := interaction.RelationshipChange{
		Character1: strings.TrimSpace(parts[0]),
		Character2: strings.TrimSpace(parts[1]),
		Change:     strings.TrimSpace(parts[2]),
	}
	if len(parts) > 3 {
		change.Reason = strings.TrimSpace(strings.Join(parts[3:], "|"))
	}

	if change.Character1 == "" || change.Character2 == "" {
		return interaction.RelationshipChange{}, false
	}

	return change, true
}
