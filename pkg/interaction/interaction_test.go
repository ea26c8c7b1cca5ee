package interaction_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/inkloomco/inkloom/pkg/interaction"
)

func TestInteraction(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Interaction Suite")
}

var _ = Describe("Score", func() {
	It("returns the 0.5 baseline for an empty record", func() {
		Expect(interaction.Score(0, 0, 0)).To(Equal(0.5))
	})

	It("saturates at 1.0 for busy records", func() {
		Expect(interaction.Score(10, 10, 10)).To(Equal(1.0))
	})

	It("adds 0.1 per character up to 0.3", func() {
		Expect(interaction.Score(1, 0, 0)).To(BeNumerically("~", 0.6, 1e-9))
		Expect(interaction.Score(2, 0, 0)).To(BeNumerically("~", 0.7, 1e-9))
		Expect(interaction.Score(3, 0, 0)).To(BeNumerically("~", 0.8, 1e-9))
		Expect(interaction.Score(7, 0, 0)).To(BeNumerically("~", 0.8, 1e-9))
	})

	It("adds 0.15 per plot element up to 0.3", func() {
		Expect(interaction.Score(0, 1, 0)).To(BeNumerically("~", 0.65, 1e-9))
		Expect(interaction.Score(0, 2, 0)).To(BeNumerically("~", 0.8, 1e-9))
		Expect(interaction.Score(0, 5, 0)).To(BeNumerically("~", 0.8, 1e-9))
	})

	It("adds 0.2 per relationship change up to 0.4", func() {
		Expect(interaction.Score(0, 0, 1)).To(BeNumerically("~", 0.7, 1e-9))
		Expect(interaction.Score(0, 0, 2)).To(BeNumerically("~", 0.9, 1e-9))
		Expect(interaction.Score(0, 0, 9)).To(BeNumerically("~", 0.9, 1e-9))
	})

	It("is deterministic", func() {
		a := interaction.Score(2, 1, 1)
		b := interaction.Score(2, 1, 1)
		Expect(a).To(Equal(b))
	})
})

var _ = Describe("Record", func() {
	It("derives the character set from responses and relationship changes", func() {
		rec := &interaction.Record{
			CharacterResponses: []interaction.CharacterResponse{
				{CharacterName: "Morgan", Dialogue: "Hello."},
				{CharacterName: "Eleanor", Dialogue: "Welcome."},
				{CharacterName: "Morgan", Dialogue: "Again."},
			},
			RelationshipChanges: []interaction.RelationshipChange{
				{Character1: "Morgan", Character2: "Silas", Change: "suspicion"},
			},
		}

		Expect(rec.Characters()).To(Equal([]string{"Morgan", "Eleanor", "Silas"}))
	})

	It("ignores blank names", func() {
		rec := &interaction.Record{
			CharacterResponses: []interaction.CharacterResponse{
				{CharacterName: "  ", Dialogue: "..."},
			},
		}
		Expect(rec.Characters()).To(BeEmpty())
	})

	It("derives locations only when present", func() {
		Expect((&interaction.Record{}).Locations()).To(BeEmpty())
		Expect((&interaction.Record{Location: "the study"}).Locations()).To(Equal([]string{"the study"}))
	})

	It("scores a record from its derived sets", func() {
		rec := &interaction.Record{
			CharacterResponses: []interaction.CharacterResponse{
				{CharacterName: "Morgan"},
				{CharacterName: "Eleanor"},
			},
			PlotDevelopments: []string{"the ledger is missing"},
			RelationshipChanges: []interaction.RelationshipChange{
				{Character1: "Morgan", Character2: "Eleanor"},
			},
		}

		// 0.5 + 0.2 (two chars) + 0.15 (one plot) + 0.2 (one change) = 1.05, clamped
		Expect(interaction.ScoreRecord(rec)).To(Equal(1.0))
	})
})
