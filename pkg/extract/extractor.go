// Package extract turns free-text or JSON-ish AI story responses into
// structured interaction records.
//
// Extraction is a two-stage pipeline: a deterministic rule pass built from
// composable pattern matchers, then a model-assisted pass that runs only when
// the rule pass comes up empty (no scene description or no dialogue). The
// extractor never fails its caller — total extraction failure degrades to a
// record carrying the raw text as its scene description.
package extract

import (
	"context"

	"go.uber.org/zap"

	"github.com/inkloomco/inkloom/pkg/interaction"
	"github.com/inkloomco/inkloom/pkg/llm"
)

// Extractor converts raw AI responses into interaction records.
type Extractor struct {
	llm    llm.Client
	logger *zap.Logger
}

// NewExtractor creates an extractor. The llm client powers the fallback pass
// and may be nil, in which case only the rule pass runs.
func NewExtractor(client llm.Client, logger *zap.Logger) *Extractor {
	return &Extractor{
		llm:    client,
		logger: logger,
	}
}

// Extract parses rawText into an interaction record. It never returns an
// error: whatever the rule and fallback passes cannot fill stays empty, and
// if no scene was recovered at all the raw text becomes the scene
// description so downstream components always receive a usable value.
func (e *Extractor) Extract(ctx context.Context, rawText, playerAction string) interaction.Record {
	text := NormalizeRaw(rawText)

	rec := interaction.Record{
		PlayerAction:         playerAction,
		SceneDescription:     matchSceneDescription(text),
		CharacterResponses:   matchCharacterResponses(text),
		Location:             matchLocation(text),
		PlotDevelopments:     matchPlotDevelopments(text),
		RelationshipChanges:  matchRelationshipChanges(text),
		NarrativeProgression: matchNarrativeProgression(text),
	}

	if rec.SceneDescription == "" || len(rec.CharacterResponses) == 0 {
		e.fallback(ctx, text, &rec)
	}

	// Degenerate but usable: the raw response stands in for the scene.
	if rec.SceneDescription == "" {
		rec.SceneDescription = rawText
	}

	return rec
}
