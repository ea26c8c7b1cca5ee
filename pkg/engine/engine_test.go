package engine_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/inkloomco/inkloom/pkg/engine"
	"github.com/inkloomco/inkloom/pkg/eventstream"
	"github.com/inkloomco/inkloom/pkg/extract"
	"github.com/inkloomco/inkloom/pkg/memory"
	"github.com/inkloomco/inkloom/pkg/memory/inmemory"
	"github.com/inkloomco/inkloom/pkg/prompt"
	testutils "github.com/inkloomco/inkloom/pkg/utils/test"
)

var errContrived = errors.New("model unavailable")

var _ = Describe("Engine", func() {
	var (
		store  *inmemory.Store
		client *testutils.MockLLM
		eng    *engine.Engine
		ctx    context.Context
	)

	newEngine := func(narrative string) *engine.Engine {
		logger := zap.NewNop()
		store = inmemory.NewStore(logger)
		client = testutils.NewMockLLM(narrative)
		embedder := testutils.NewMockEmbedder()

		templates := prompt.NewRepository(logger)
		templates.Put(prompt.Template{
			Name: prompt.TemplateStorytelling,
			Text: "{recent_history}\n\nPlayer: {player_action}",
		})
		templates.Put(prompt.Template{
			Name: prompt.TemplateOpening,
			Text: "Open the story set in {setting}.",
		})

		retriever := memory.NewRetriever(store, embedder, logger)
		assembler := engine.NewAssembler(retriever, templates, testStory(), 5, 3, logger)

		pipeline := memory.NewPipeline(
			store, embedder,
			memory.NewSummarizer(nil, logger),
			nil, eventstream.EventSource{}, logger,
		)
		pool, err := engine.NewPool(&engine.PoolConfig{
			Pipeline: pipeline,
			Logger:   logger,
		})
		Expect(err).NotTo(HaveOccurred())

		return engine.New(engine.Config{
			Client:      client,
			Extractor:   extract.NewExtractor(nil, logger),
			Assembler:   assembler,
			Pool:        pool,
			Synchronous: true,
			Logger:      logger,
		})
	}

	BeforeEach(func() {
		ctx = context.Background()
		eng = newEngine("The room was quiet.\n\nMorgan: I don't believe you. (crosses arms)")
	})

	AfterEach(func() {
		eng.Close()
	})

	It("returns the model narrative for a turn", func() {
		out, err := eng.Turn(ctx, "confront Morgan")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("Morgan: I don't believe you."))
	})

	It("persists a memory record for every turn", func() {
		_, err := eng.Turn(ctx, "confront Morgan")
		Expect(err).NotTo(HaveOccurred())

		records, err := store.Recent(ctx, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(HaveLen(1))
		Expect(records[0].Interaction.PlayerAction).To(Equal("confront Morgan"))
		Expect(records[0].CharactersInvolved).To(Equal([]string{"Morgan"}))
	})

	It("records the opening scene under the sentinel action", func() {
		_, err := eng.Begin(ctx)
		Expect(err).NotTo(HaveOccurred())

		records, err := store.Recent(ctx, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(HaveLen(1))
		Expect(records[0].Interaction.PlayerAction).To(Equal(engine.BeginAction))
	})

	It("feeds prior turns back into the next prompt", func() {
		_, err := eng.Turn(ctx, "confront Morgan")
		Expect(err).NotTo(HaveOccurred())

		_, err = eng.Turn(ctx, "press harder")
		Expect(err).NotTo(HaveOccurred())

		Expect(client.Prompts).To(HaveLen(2))
		Expect(client.Prompts[1]).To(ContainSubstring("Player: confront Morgan"))
	})

	It("fails the turn when the model fails", func() {
		failing := newEngine("")
		defer failing.Close()
		client.Err = errContrived

		_, err := failing.Turn(ctx, "confront Morgan")
		Expect(err).To(HaveOccurred())

		records, err := store.Recent(ctx, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(BeEmpty())
	})
})
