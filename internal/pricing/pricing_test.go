package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cinebook/internal/model"
)

func TestPriceDefaultPremiums(t *testing.T) {
	e := NewEngine(nil)

	tests := []struct {
		name     string
		base     uint32
		seatType model.SeatType
		want     uint32
	}{
		{"simple at base", 1000, model.SeatTypeSimple, 1000},
		{"vip adds half", 1000, model.SeatTypeVIP, 1500},
		{"super vip doubles", 1000, model.SeatTypeSuperVIP, 2000},
		{"truncates toward zero", 99, model.SeatTypeVIP, 148},
		{"zero base stays zero", 0, model.SeatTypeSuperVIP, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, e.Price(tc.base, tc.seatType))
		})
	}
}

func TestPriceCustomPremiums(t *testing.T) {
	e := NewEngine(map[model.SeatType]uint32{
		model.SeatTypeVIP: 25,
	})

	assert.Equal(t, uint32(1250), e.Price(1000, model.SeatTypeVIP))
	// Types missing from the table price at the base rate.
	assert.Equal(t, uint32(1000), e.Price(1000, model.SeatTypeSuperVIP))
}

func TestPriceLargeBaseDoesNotOverflow(t *testing.T) {
	e := NewEngine(nil)
	// base * 200 exceeds uint32 mid-computation; the result must not wrap.
	assert.Equal(t, uint32(4_000_000_000), e.Price(2_000_000_000, model.SeatTypeSuperVIP))
}
