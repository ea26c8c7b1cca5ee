package memory_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/inkloomco/inkloom/pkg/interaction"
	"github.com/inkloomco/inkloom/pkg/llm"
	"github.com/inkloomco/inkloom/pkg/memory"
	testutils "github.com/inkloomco/inkloom/pkg/utils/test"
)

var _ = Describe("Summarizer", func() {
	var rec *interaction.Record

	BeforeEach(func() {
		rec = &interaction.Record{
			PlayerAction:     "confront Morgan",
			SceneDescription: "The room was quiet.",
			Location:         "the study",
			CharacterResponses: []interaction.CharacterResponse{
				{CharacterName: "Morgan", Dialogue: "I don't believe you.", Action: "crosses arms"},
				{CharacterName: "Eleanor", Dialogue: "You must."},
			},
		}
	})

	It("returns the model's summary on success", func() {
		client := testutils.NewMockLLM("Morgan refused to believe the player.")
		s := memory.NewSummarizer(client, zap.NewNop())

		Expect(s.Summarize(context.Background(), rec)).To(Equal("Morgan refused to believe the player."))
		Expect(client.Profiles).To(Equal([]llm.Profile{llm.ProfileSummarization}))
	})

	It("substitutes flattened character responses into the instruction", func() {
		client := testutils.NewMockLLM("ok")
		s := memory.NewSummarizer(client, zap.NewNop())

		s.Summarize(context.Background(), rec)

		Expect(client.Prompts).To(HaveLen(1))
		Expect(client.Prompts[0]).To(ContainSubstring("Morgan: I don't believe you. (crosses arms)"))
		Expect(client.Prompts[0]).To(ContainSubstring("Eleanor: You must."))
		Expect(client.Prompts[0]).To(ContainSubstring("confront Morgan"))
	})

	It("falls back to a deterministic sentence when the model fails", func() {
		s := memory.NewSummarizer(testutils.FailingLLM(), zap.NewNop())

		summary := s.Summarize(context.Background(), rec)

		Expect(summary).To(Equal("Interaction involving Morgan, Eleanor at the study."))
	})

	It("falls back when the model returns an empty completion", func() {
		s := memory.NewSummarizer(testutils.NewMockLLM("  \n"), zap.NewNop())

		summary := s.Summarize(context.Background(), rec)

		Expect(summary).To(Equal("Interaction involving Morgan, Eleanor at the study."))
	})

	It("uses the fallback without a client", func() {
		s := memory.NewSummarizer(nil, zap.NewNop())

		summary := s.Summarize(context.Background(), rec)

		Expect(summary).To(Equal("Interaction involving Morgan, Eleanor at the study."))
	})
})

var _ = Describe("FallbackSummary", func() {
	It("produces a valid sentence for an empty record", func() {
		summary := memory.FallbackSummary(&interaction.Record{})
		Expect(summary).To(Equal("Interaction involving  at an unknown location."))
	})
})
