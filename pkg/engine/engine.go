package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/inkloomco/inkloom/pkg/extract"
	"github.com/inkloomco/inkloom/pkg/llm"
)

// BeginAction is the sentinel player action recorded for the opening scene,
// so the opening turn produces a memory record like any other.
const BeginAction = "Begin the story"

// Engine runs the story loop. Each turn assembles a grounded prompt, calls
// the model, extracts the structured interaction synchronously, and enqueues
// persistence in the background.
type Engine struct {
	client      llm.Client
	extractor   *extract.Extractor
	assembler   *Assembler
	pool        *Pool
	synchronous bool
	logger      *zap.Logger
}

// Config holds the engine's collaborators.
type Config struct {
	Client    llm.Client
	Extractor *extract.Extractor
	Assembler *Assembler
	Pool      *Pool

	// Synchronous waits for persistence to drain before each turn returns,
	// trading latency for read-after-write consistency on the next turn.
	Synchronous bool

	Logger *zap.Logger
}

// New creates a story engine.
func New(c Config) *Engine {
	return &Engine{
		client:      c.Client,
		extractor:   c.Extractor,
		assembler:   c.Assembler,
		pool:        c.Pool,
		synchronous: c.Synchronous,
		logger:      c.Logger,
	}
}

// Begin generates the opening scene and persists it as the first memory.
func (e *Engine) Begin(ctx context.Context) (string, error) {
	text, err := e.assembler.BuildOpening()
	if err != nil {
		return "", err
	}
	return e.run(ctx, text, BeginAction)
}

// Turn runs one player turn and returns the narrative response. The memory
// write happens in the background: by default the new record becomes visible
// to retrieval eventually, typically before the player types the next action.
func (e *Engine) Turn(ctx context.Context, playerAction string) (string, error) {
	text, err := e.assembler.BuildPrompt(ctx, playerAction)
	if err != nil {
		return "", err
	}
	return e.run(ctx, text, playerAction)
}

// Flush blocks until all enqueued memory writes have completed.
func (e *Engine) Flush() {
	e.pool.Flush()
}

// Close drains the persistence pool.
func (e *Engine) Close() {
	e.pool.Close()
}

// run invokes the model, extracts the interaction, and enqueues persistence.
func (e *Engine) run(ctx context.Context, promptText, playerAction string) (string, error) {
	narrative, err := e.client.Invoke(ctx, promptText, llm.ProfileDialogue)
	if err != nil {
		return "", fmt.Errorf("generating narrative: %w", err)
	}

	// Extraction runs synchronously so the enqueued job carries the final
	// structured record; only the slow I/O (embed, store) goes async.
	rec := e.extractor.Extract(ctx, narrative, playerAction)

	e.pool.Enqueue(Job{RawText: narrative, Interaction: rec})

	if e.synchronous {
		e.pool.Flush()
	}

	e.logger.Debug("turn completed",
		zap.String("player_action", playerAction),
		zap.Int("characters", len(rec.CharacterResponses)),
	)

	return narrative, nil
}
