package engine_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/inkloomco/inkloom/pkg/engine"
	"github.com/inkloomco/inkloom/pkg/interaction"
	"github.com/inkloomco/inkloom/pkg/memory"
	"github.com/inkloomco/inkloom/pkg/memory/inmemory"
	"github.com/inkloomco/inkloom/pkg/prompt"
	"github.com/inkloomco/inkloom/pkg/story"
	testutils "github.com/inkloomco/inkloom/pkg/utils/test"
)

func testStory() *story.Config {
	return &story.Config{
		Title:   "The Ashcombe Letters",
		Setting: "a rain-soaked manor",
		Genre:   "gothic mystery",
		Characters: []story.Character{
			{Name: "You", Background: "a clerk sent from London.", IsPlayerCharacter: true},
			{Name: "Morgan", Personality: "guarded.", Motivation: "protect the family name."},
			{Name: "Eleanor", Personality: "sharp-tongued."},
		},
	}
}

var _ = Describe("Assembler", func() {
	var (
		store     *inmemory.Store
		embedder  *testutils.MockEmbedder
		templates *prompt.Repository
		assembler *engine.Assembler
		ctx       context.Context
	)

	putMemory := func(id uint64, summary, location, action string) {
		Expect(store.Upsert(ctx, &memory.MemoryRecord{
			ID:        id,
			CreatedAt: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(id) * time.Second),
			Summary:   summary,
			Embedding: []float32{0.1, 0.2, 0.3},
			Interaction: interaction.Record{
				PlayerAction: action,
				Location:     location,
			},
		})).To(Succeed())
	}

	BeforeEach(func() {
		ctx = context.Background()
		store = inmemory.NewStore(zap.NewNop())
		embedder = testutils.NewMockEmbedder()
		templates = prompt.NewRepository(zap.NewNop())
		templates.Put(prompt.Template{
			Name: prompt.TemplateStorytelling,
			Text: "Player: {player_name} ({player_background})\nSetting: {setting}\nLocation: {current_location}\nMemories:\n{relevant_memories}\nRecent:\n{recent_history}\nAction: {player_action}",
		})
		templates.Put(prompt.Template{
			Name: prompt.TemplateOpening,
			Text: "Begin {title}, a {genre} set in {setting}. Player: {player_name} ({player_background}). Cast:\n{characters}",
		})

		retriever := memory.NewRetriever(store, embedder, zap.NewNop())
		assembler = engine.NewAssembler(retriever, templates, testStory(), 5, 3, zap.NewNop())
	})

	It("substitutes story configuration and the player action", func() {
		out, err := assembler.BuildPrompt(ctx, "search the desk")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("Setting: a rain-soaked manor"))
		Expect(out).To(ContainSubstring("Action: search the desk"))
	})

	It("substitutes the player's name and background", func() {
		out, err := assembler.BuildPrompt(ctx, "look around")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("Player: You (a clerk sent from London.)"))
	})

	It("marks empty memory sections instead of leaving them blank", func() {
		out, err := assembler.BuildPrompt(ctx, "look around")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("Memories:\nNone yet."))
		Expect(out).To(ContainSubstring("Recent:\nThe story is just beginning."))
	})

	It("falls back to the story setting before any memory has a location", func() {
		out, err := assembler.BuildPrompt(ctx, "look around")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("Location: a rain-soaked manor"))
	})

	It("uses the latest remembered location", func() {
		putMemory(1, "The player entered the study.", "the study", "enter")
		putMemory(2, "Morgan refused to talk.", "the cellar", "descend")

		out, err := assembler.BuildPrompt(ctx, "listen")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("Location: the cellar"))
	})

	It("falls back to the setting when the latest memory has no location", func() {
		putMemory(1, "The player entered the study.", "the study", "enter")
		putMemory(2, "A door slammed somewhere above.", "", "listen")

		out, err := assembler.BuildPrompt(ctx, "wait")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("Location: a rain-soaked manor"))
	})

	It("renders recent history oldest first with player actions", func() {
		putMemory(1, "The player entered the study.", "the study", "enter")
		putMemory(2, "Morgan refused to talk.", "the study", "ask Morgan")

		out, err := assembler.BuildPrompt(ctx, "press harder")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring(
			"Player: enter\nThe player entered the study.\nPlayer: ask Morgan\nMorgan refused to talk."))
	})

	It("propagates embedding failures", func() {
		embedder.FailOn = "search the desk"

		_, err := assembler.BuildPrompt(ctx, "search the desk")
		Expect(err).To(HaveOccurred())
	})

	It("fails hard when the storytelling template is missing", func() {
		bare := prompt.NewRepository(zap.NewNop())
		retriever := memory.NewRetriever(store, embedder, zap.NewNop())
		a := engine.NewAssembler(retriever, bare, testStory(), 5, 3, zap.NewNop())

		_, err := a.BuildPrompt(ctx, "look around")
		Expect(err).To(MatchError(prompt.ErrTemplateNotFound))
	})

	It("builds the opening prompt from story configuration alone", func() {
		out, err := assembler.BuildOpening()
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("Begin The Ashcombe Letters, a gothic mystery"))
		Expect(out).To(ContainSubstring("Player: You (a clerk sent from London.)"))
		Expect(out).To(ContainSubstring("- Morgan: guarded. Motivation: protect the family name."))
		Expect(out).NotTo(ContainSubstring("- You"))
	})
})
