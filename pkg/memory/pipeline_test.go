package memory_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/inkloomco/inkloom/pkg/eventstream"
	"github.com/inkloomco/inkloom/pkg/interaction"
	"github.com/inkloomco/inkloom/pkg/memory"
	testutils "github.com/inkloomco/inkloom/pkg/utils/test"
)

var _ = Describe("Pipeline", func() {
	var (
		store     *testutils.MockStore
		embedder  *testutils.MockEmbedder
		publisher *testutils.MockPublisher
		pipeline  *memory.Pipeline
		rec       interaction.Record
	)

	BeforeEach(func() {
		store = testutils.NewMockStore()
		embedder = testutils.NewMockEmbedder()
		publisher = testutils.NewMockPublisher()

		summarizer := memory.NewSummarizer(nil, zap.NewNop())
		pipeline = memory.NewPipeline(
			store, embedder, summarizer, publisher,
			eventstream.EventSource{Story: "test"},
			zap.NewNop(),
		)

		rec = interaction.Record{
			PlayerAction: "confront Morgan",
			Location:     "the study",
			CharacterResponses: []interaction.CharacterResponse{
				{CharacterName: "Morgan", Dialogue: "I don't believe you."},
			},
			PlotDevelopments: []string{"the letter is a forgery"},
		}
	})

	It("persists a scored, summarized, embedded record", func() {
		record, err := pipeline.Persist(context.Background(), "raw response", rec)
		Expect(err).NotTo(HaveOccurred())

		Expect(record.Content).To(Equal("raw response"))
		Expect(record.Importance).To(BeNumerically("~", 0.75, 1e-9)) // 0.5 + 0.1 + 0.15
		Expect(record.Summary).To(Equal("Interaction involving Morgan at the study."))
		Expect(record.Embedding).To(Equal([]float32{0.1, 0.2, 0.3}))
		Expect(store.Upserted).To(HaveLen(1))
	})

	It("assigns increasing IDs across turns", func() {
		first, err := pipeline.Persist(context.Background(), "one", rec)
		Expect(err).NotTo(HaveOccurred())
		second, err := pipeline.Persist(context.Background(), "two", rec)
		Expect(err).NotTo(HaveOccurred())

		Expect(second.ID).To(BeNumerically(">", first.ID))
	})

	It("fails hard when embedding fails", func() {
		embedder.FailOn = "raw response"

		_, err := pipeline.Persist(context.Background(), "raw response", rec)
		Expect(err).To(HaveOccurred())
		Expect(store.Upserted).To(BeEmpty())
		Expect(publisher.Events).To(BeEmpty())
	})

	It("fails hard when the store rejects the record", func() {
		store.FailUpsert = true

		_, err := pipeline.Persist(context.Background(), "raw response", rec)
		Expect(err).To(HaveOccurred())
		Expect(publisher.Events).To(BeEmpty())
	})

	It("emits a persisted event after the write", func() {
		record, err := pipeline.Persist(context.Background(), "raw response", rec)
		Expect(err).NotTo(HaveOccurred())

		Expect(publisher.Events).To(HaveLen(1))
		event := publisher.Events[0]
		Expect(event.SchemaVersion).To(Equal(eventstream.SchemaVersionV1))
		Expect(event.EventType).To(Equal(eventstream.EventTypeMemoryPersisted))
		Expect(event.EventID).NotTo(BeEmpty())
		Expect(event.MemoryID).To(Equal(record.ID))
		Expect(event.Source.Story).To(Equal("test"))
		Expect(event.Characters).To(Equal([]string{"Morgan"}))
	})

	It("treats publish failures as non-fatal", func() {
		publisher.Fail = true

		_, err := pipeline.Persist(context.Background(), "raw response", rec)
		Expect(err).NotTo(HaveOccurred())
		Expect(store.Upserted).To(HaveLen(1))
	})
})
