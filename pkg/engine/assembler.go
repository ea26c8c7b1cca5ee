// Package engine drives story turns: it assembles grounded prompts from
// memories and story configuration, calls the model, extracts the structured
// interaction, and hands persistence to a background worker pool.
package engine

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/inkloomco/inkloom/pkg/memory"
	"github.com/inkloomco/inkloom/pkg/prompt"
	"github.com/inkloomco/inkloom/pkg/story"
)

// Assembler composes retrieved memories, recent history, and story
// configuration into the final prompt text via template substitution.
type Assembler struct {
	retriever     *memory.Retriever
	templates     *prompt.Repository
	story         *story.Config
	retrieveLimit int
	recentWindow  int
	logger        *zap.Logger
}

// NewAssembler creates a prompt assembler. Non-positive limits fall back to
// the memory package defaults.
func NewAssembler(
	retriever *memory.Retriever,
	templates *prompt.Repository,
	storyCfg *story.Config,
	retrieveLimit, recentWindow int,
	logger *zap.Logger,
) *Assembler {
	if retrieveLimit <= 0 {
		retrieveLimit = memory.DefaultRetrieveLimit
	}
	if recentWindow <= 0 {
		recentWindow = 3
	}

	return &Assembler{
		retriever:     retriever,
		templates:     templates,
		story:         storyCfg,
		retrieveLimit: retrieveLimit,
		recentWindow:  recentWindow,
		logger:        logger,
	}
}

// BuildPrompt assembles the storytelling prompt for a player action.
// Retrieval failures and missing templates are hard errors: a prompt silently
// missing its memories would quietly derail the story.
func (a *Assembler) BuildPrompt(ctx context.Context, playerAction string) (string, error) {
	relevant, err := a.retriever.RetrieveRelevant(ctx, playerAction, memory.RetrieveOptions{
		Limit: a.retrieveLimit,
	})
	if err != nil {
		return "", fmt.Errorf("retrieving relevant memories: %w", err)
	}

	recent, err := a.retriever.RetrieveRecent(ctx, a.recentWindow)
	if err != nil {
		return "", err
	}

	tmpl, err := a.templates.Get(prompt.TemplateStorytelling)
	if err != nil {
		return "", err
	}

	vars := a.storyVars()
	vars["player_action"] = playerAction
	vars["relevant_memories"] = formatRelevant(relevant)
	vars["recent_history"] = formatRecent(recent)
	vars["current_location"] = a.currentLocation(recent)

	a.logger.Debug("prompt assembled",
		zap.Int("relevant", len(relevant)),
		zap.Int("recent", len(recent)),
	)

	return prompt.Render(tmpl.Text, vars), nil
}

// BuildOpening assembles the opening-scene prompt from story configuration
// alone.
func (a *Assembler) BuildOpening() (string, error) {
	tmpl, err := a.templates.Get(prompt.TemplateOpening)
	if err != nil {
		return "", err
	}
	return prompt.Render(tmpl.Text, a.storyVars()), nil
}

// storyVars builds the substitution variables every template shares.
func (a *Assembler) storyVars() map[string]string {
	player := a.story.PlayerCharacter()
	return map[string]string{
		"title":             a.story.Title,
		"setting":           a.story.Setting,
		"genre":             a.story.Genre,
		"characters":        a.story.Roster(),
		"player_name":       player.Name,
		"player_background": player.Background,
	}
}

// currentLocation is the location of the latest recent memory, falling back
// to the story setting when there are no memories or the latest one carries
// no location.
func (a *Assembler) currentLocation(recent []*memory.MemoryRecord) string {
	if n := len(recent); n > 0 {
		if loc := recent[n-1].Interaction.Location; loc != "" {
			return loc
		}
	}
	return a.story.Setting
}

// formatRelevant renders retrieved memories as prompt lines, oldest first, so
// the model reads them in story order.
func formatRelevant(results []memory.SearchResult) string {
	if len(results) == 0 {
		return "None yet."
	}

	ordered := make([]*memory.MemoryRecord, 0, len(results))
	for _, res := range results {
		ordered = append(ordered, res.Record)
	}
	ordered = memory.SelectRecent(ordered, len(ordered))

	var b strings.Builder
	for _, record := range ordered {
		b.WriteString("- ")
		b.WriteString(record.Summary)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatRecent renders the recent history window as alternating player/story
// lines in chronological order.
func formatRecent(records []*memory.MemoryRecord) string {
	if len(records) == 0 {
		return "The story is just beginning."
	}

	var b strings.Builder
	for _, record := range records {
		if action := record.Interaction.PlayerAction; action != "" {
			b.WriteString("Player: ")
			b.WriteString(action)
			b.WriteString("\n")
		}
		b.WriteString(record.Summary)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
