package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"cinebook/internal/model"
	"cinebook/internal/pricing"
)

func TestOverlaps(t *testing.T) {
	at := func(h int) time.Time { return time.Date(2026, 3, 1, h, 0, 0, 0, time.UTC) }

	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd time.Time
		want                       bool
	}{
		{"identical intervals", at(10), at(12), at(10), at(12), true},
		{"partial overlap", at(10), at(12), at(11), at(13), true},
		{"contained interval", at(10), at(14), at(11), at(12), true},
		{"disjoint before", at(8), at(9), at(10), at(12), false},
		{"disjoint after", at(13), at(15), at(10), at(12), false},
		{"touching boundary does not conflict", at(10), at(12), at(12), at(14), false},
		{"touching boundary reversed", at(12), at(14), at(10), at(12), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd))
		})
	}
}

func TestMaterializePricesEachSeatType(t *testing.T) {
	seats := []model.Seat{
		{ID: 1, SeatNumber: 1, SeatType: model.SeatTypeSimple},
		{ID: 2, SeatNumber: 2, SeatType: model.SeatTypeVIP},
		{ID: 3, SeatNumber: 3, SeatType: model.SeatTypeSuperVIP},
	}

	rows := materialize(42, 1000, seats, pricing.NewEngine(nil))

	assert.Len(t, rows, 3)
	for i, row := range rows {
		assert.Equal(t, uint64(42), row.ShowID)
		assert.Equal(t, seats[i].ID, row.SeatID)
		assert.Equal(t, model.SeatFree, row.Status)
	}
	assert.Equal(t, uint32(1000), rows[0].PriceCents)
	assert.Equal(t, uint32(1500), rows[1].PriceCents)
	assert.Equal(t, uint32(2000), rows[2].PriceCents)
}
