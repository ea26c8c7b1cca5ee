package memory_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/inkloomco/inkloom/pkg/memory"
)

var _ = Describe("MatchesFilter", func() {
	record := &memory.MemoryRecord{
		CharactersInvolved: []string{"Morgan", "Eleanor"},
		LocationsInvolved:  []string{"the study"},
	}

	It("matches everything with a nil filter", func() {
		Expect(memory.MatchesFilter(record, nil)).To(BeTrue())
	})

	It("matches everything with an empty filter", func() {
		Expect(memory.MatchesFilter(record, &memory.Filter{})).To(BeTrue())
	})

	It("matches a present character", func() {
		f := &memory.Filter{Characters: []string{"Morgan"}}
		Expect(memory.MatchesFilter(record, f)).To(BeTrue())
	})

	It("rejects a missing character", func() {
		f := &memory.Filter{Characters: []string{"Silas"}}
		Expect(memory.MatchesFilter(record, f)).To(BeFalse())
	})

	It("requires every listed entry to match", func() {
		f := &memory.Filter{
			Characters: []string{"Morgan"},
			Locations:  []string{"the cellar"},
		}
		Expect(memory.MatchesFilter(record, f)).To(BeFalse())
	})

	It("matches conjunctions across fields", func() {
		f := &memory.Filter{
			Characters: []string{"Morgan", "Eleanor"},
			Locations:  []string{"the study"},
		}
		Expect(memory.MatchesFilter(record, f)).To(BeTrue())
	})
})

var _ = Describe("SelectRecent", func() {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	makeRecords := func(n int) []*memory.MemoryRecord {
		records := make([]*memory.MemoryRecord, n)
		for i := 0; i < n; i++ {
			records[i] = &memory.MemoryRecord{
				ID:        uint64(i + 1),
				CreatedAt: base.Add(time.Duration(i) * time.Minute),
			}
		}
		return records
	}

	It("returns the n newest records in ascending timestamp order", func() {
		records := makeRecords(5)

		recent := memory.SelectRecent(records, 3)

		Expect(recent).To(HaveLen(3))
		Expect(recent[0].ID).To(Equal(uint64(3)))
		Expect(recent[1].ID).To(Equal(uint64(4)))
		Expect(recent[2].ID).To(Equal(uint64(5)))
	})

	It("returns everything in order when n exceeds the candidate count", func() {
		records := makeRecords(2)

		recent := memory.SelectRecent(records, 10)

		Expect(recent).To(HaveLen(2))
		Expect(recent[0].ID).To(Equal(uint64(1)))
		Expect(recent[1].ID).To(Equal(uint64(2)))
	})

	It("breaks same-second ties by ID", func() {
		records := []*memory.MemoryRecord{
			{ID: 2, CreatedAt: base},
			{ID: 1, CreatedAt: base},
			{ID: 3, CreatedAt: base},
		}

		recent := memory.SelectRecent(records, 2)

		Expect(recent[0].ID).To(Equal(uint64(2)))
		Expect(recent[1].ID).To(Equal(uint64(3)))
	})

	It("returns nil for a non-positive count", func() {
		Expect(memory.SelectRecent(makeRecords(3), 0)).To(BeNil())
	})

	It("does not mutate the candidate slice", func() {
		records := makeRecords(4)

		memory.SelectRecent(records, 2)

		for i, rec := range records {
			Expect(rec.ID).To(Equal(uint64(i + 1)))
		}
	})
})
