package memory_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/inkloomco/inkloom/pkg/memory"
	testutils "github.com/inkloomco/inkloom/pkg/utils/test"
)

var _ = Describe("Retriever", func() {
	var (
		store    *testutils.MockStore
		embedder *testutils.MockEmbedder
		ret      *memory.Retriever
	)

	BeforeEach(func() {
		store = testutils.NewMockStore()
		embedder = testutils.NewMockEmbedder()
		ret = memory.NewRetriever(store, embedder, zap.NewNop())

		store.SearchResults = []memory.SearchResult{
			{Record: &memory.MemoryRecord{ID: 1, CharactersInvolved: []string{"Morgan"}}, Score: 0.9},
			{Record: &memory.MemoryRecord{ID: 2, CharactersInvolved: []string{"Eleanor"}}, Score: 0.8},
		}
	})

	It("embeds the query text before searching", func() {
		_, err := ret.RetrieveRelevant(context.Background(), "the letter", memory.RetrieveOptions{})
		Expect(err).NotTo(HaveOccurred())
		Expect(embedder.Calls).To(Equal([]string{"the letter"}))
		Expect(store.SearchVectors).To(HaveLen(1))
	})

	It("never returns a record excluded by a character filter", func() {
		results, err := ret.RetrieveRelevant(context.Background(), "the letter", memory.RetrieveOptions{
			Character: "Morgan",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(1))
		Expect(results[0].Record.ID).To(Equal(uint64(1)))
	})

	It("propagates embedding failures", func() {
		embedder.FailOn = "the letter"

		_, err := ret.RetrieveRelevant(context.Background(), "the letter", memory.RetrieveOptions{})
		Expect(err).To(HaveOccurred())
	})

	It("propagates store failures", func() {
		store.FailSearch = true

		_, err := ret.RetrieveRelevant(context.Background(), "the letter", memory.RetrieveOptions{})
		Expect(err).To(HaveOccurred())
	})

	It("returns recent records oldest first", func() {
		for i := 1; i <= 5; i++ {
			rec := &memory.MemoryRecord{ID: uint64(i)}
			Expect(store.Upsert(context.Background(), rec)).To(Succeed())
		}

		records, err := ret.RetrieveRecent(context.Background(), 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(HaveLen(3))
		Expect(records[0].ID).To(Equal(uint64(3)))
		Expect(records[2].ID).To(Equal(uint64(5)))
	})
})
