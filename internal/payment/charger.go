// Package payment models the external payment collaborator and the
// recovery path around it.  The gateway protocol itself is out of
// scope: a Charger returns success with an external transaction id,
// or failure with a reason, and nothing else about it is assumed.
package payment

import (
	"context"

	"github.com/google/uuid"
)

// Result is the outcome reported by the payment collaborator for one
// charge attempt.
type Result struct {
	Success       bool   `json:"success"`
	ExternalTrxID string `json:"external_trx_id,omitempty"`
	Reason        string `json:"reason,omitempty"`
	Method        string `json:"method,omitempty"`
	DiscountCents uint32 `json:"discount_cents,omitempty"`
}

// Charger is the external payment collaborator.  It may be called
// more than once for the same booking; the booking workflow is
// idempotent against duplicate confirmations.
type Charger interface {
	Charge(ctx context.Context, amountCents uint32, method string) (Result, error)
}

// SimulatedCharger approves every charge and mints a random
// transaction id.  It backs the dev environment where no real
// gateway is configured.
type SimulatedCharger struct{}

// Charge implements Charger.
func (SimulatedCharger) Charge(ctx context.Context, amountCents uint32, method string) (Result, error) {
	return Result{
		Success:       true,
		ExternalTrxID: uuid.NewString(),
		Method:        method,
	}, nil
}
