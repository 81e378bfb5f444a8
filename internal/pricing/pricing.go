// Package pricing computes per-seat prices for a show.  The engine
// is a pure function of the show's base price and the seat type:
// price = base * (100 + premium%) / 100, integer cents, truncated.
package pricing

import "cinebook/internal/model"

// DefaultPremiums are the seat-type premium percentages used when no
// configuration is supplied: simple seats at base price, VIP +50%,
// super-VIP +100%.
var DefaultPremiums = map[model.SeatType]uint32{
	model.SeatTypeSimple:   0,
	model.SeatTypeVIP:      50,
	model.SeatTypeSuperVIP: 100,
}

// Engine holds the premium table.  It has no other state and is safe
// for concurrent use.
type Engine struct {
	premiums map[model.SeatType]uint32
}

// NewEngine builds an Engine from a premium table expressed in whole
// percent per seat type.  Seat types missing from the table price at
// the base rate.  A nil table selects DefaultPremiums.
func NewEngine(premiums map[model.SeatType]uint32) *Engine {
	if premiums == nil {
		premiums = DefaultPremiums
	}
	return &Engine{premiums: premiums}
}

// Price returns the price in cents for one seat of the given type at
// the given base price.  Deterministic, no side effects.
func (e *Engine) Price(basePriceCents uint32, seatType model.SeatType) uint32 {
	pct := e.premiums[seatType]
	return uint32(uint64(basePriceCents) * uint64(100+pct) / 100)
}
