package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/advancehq/payback-engine/pkg/money"
)

const (
	PaybackStatusScheduled = "SCHEDULED"
	PaybackStatusCompleted = "COMPLETED"
	PaybackStatusFailed    = "FAILED"
)

// Payback is one materialized installment of a plan. Paybacks are
// created only by the plan service during generation, in sequence
// order, and never mutated afterwards except for status transitions
// owned by payment processing.
type Payback struct {
	ID            uuid.UUID   `json:"id" db:"id"`
	PlanID        uuid.UUID   `json:"plan_id" db:"plan_id"`
	SequenceIndex int         `json:"sequence_index" db:"sequence_index"`
	Date          time.Time   `json:"date" db:"due_date"`
	Amount        money.Cents `json:"amount_cents" db:"amount_cents"`
	Status        string      `json:"status" db:"status"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
}
