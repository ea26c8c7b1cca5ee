package engine_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/inkloomco/inkloom/pkg/engine"
	"github.com/inkloomco/inkloom/pkg/eventstream"
	"github.com/inkloomco/inkloom/pkg/interaction"
	"github.com/inkloomco/inkloom/pkg/memory"
	"github.com/inkloomco/inkloom/pkg/memory/inmemory"
	testutils "github.com/inkloomco/inkloom/pkg/utils/test"
)

var _ = Describe("Pool", func() {
	var (
		store *inmemory.Store
		pool  *engine.Pool
	)

	BeforeEach(func() {
		logger := zap.NewNop()
		store = inmemory.NewStore(logger)
		pipeline := memory.NewPipeline(
			store, testutils.NewMockEmbedder(),
			memory.NewSummarizer(nil, logger),
			nil, eventstream.EventSource{}, logger,
		)

		var err error
		pool, err = engine.NewPool(&engine.PoolConfig{
			Pipeline: pipeline,
			Logger:   logger,
		})
		Expect(err).NotTo(HaveOccurred())
	})

	It("persists enqueued jobs before Flush returns", func() {
		ok := pool.Enqueue(engine.Job{
			RawText:     "The room was quiet.",
			Interaction: interaction.Record{PlayerAction: "wait"},
		})
		Expect(ok).To(BeTrue())

		pool.Flush()

		records, err := store.Recent(context.Background(), 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(HaveLen(1))
		Expect(records[0].Content).To(Equal("The room was quiet."))

		pool.Close()
	})

	It("drains in-flight jobs on Close", func() {
		for i := 0; i < 10; i++ {
			Expect(pool.Enqueue(engine.Job{
				RawText:     "turn",
				Interaction: interaction.Record{PlayerAction: "act"},
			})).To(BeTrue())
		}

		pool.Close()

		records, err := store.Recent(context.Background(), 100)
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(HaveLen(10))
	})
})
