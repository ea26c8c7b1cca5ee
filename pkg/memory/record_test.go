package memory_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/inkloomco/inkloom/pkg/interaction"
	"github.com/inkloomco/inkloom/pkg/memory"
)

var _ = Describe("IDGenerator", func() {
	It("produces strictly increasing IDs", func() {
		gen := memory.NewIDGenerator()

		last := uint64(0)
		for i := 0; i < 100; i++ {
			id := gen.Next()
			Expect(id).To(BeNumerically(">", last))
			last = id
		}
	})

	It("derives IDs from the current time in milliseconds", func() {
		gen := memory.NewIDGenerator()
		before := uint64(time.Now().UnixMilli())
		id := gen.Next()
		Expect(id).To(BeNumerically(">=", before))
	})
})

var _ = Describe("NewRecord", func() {
	It("derives filter sets from the interaction", func() {
		rec := interaction.Record{
			PlayerAction: "ask about the letter",
			Location:     "the study",
			CharacterResponses: []interaction.CharacterResponse{
				{CharacterName: "Morgan", Dialogue: "I don't believe you."},
				{CharacterName: "Eleanor", Dialogue: "You must."},
			},
			PlotDevelopments: []string{"the letter is a forgery"},
		}

		record := memory.NewRecord(42, "raw text", time.Now(), rec)

		Expect(record.ID).To(Equal(uint64(42)))
		Expect(record.Content).To(Equal("raw text"))
		Expect(record.CharactersInvolved).To(Equal([]string{"Morgan", "Eleanor"}))
		Expect(record.LocationsInvolved).To(Equal([]string{"the study"}))
		Expect(record.PlotElements).To(Equal([]string{"the letter is a forgery"}))
	})

	It("truncates the creation time to seconds", func() {
		now := time.Date(2026, 3, 14, 15, 9, 26, 535_000_000, time.UTC)
		record := memory.NewRecord(1, "", now, interaction.Record{})
		Expect(record.CreatedAt).To(Equal(time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)))
	})
})
