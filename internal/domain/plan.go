package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/advancehq/payback-engine/pkg/money"
)

const (
	PlanStatusActive    = "ACTIVE"
	PlanStatusCompleted = "COMPLETED"
	PlanStatusClosed    = "CLOSED"
)

// Frequency is the cadence rule governing installment spacing.
type Frequency string

const (
	FrequencyDaily       Frequency = "DAILY"
	FrequencyWeekly      Frequency = "WEEKLY"
	FrequencyBiweekly    Frequency = "BIWEEKLY"
	FrequencySemiMonthly Frequency = "SEMI_MONTHLY"
	FrequencyMonthly     Frequency = "MONTHLY"
)

// DistributionPriority controls which installments absorb the leftover
// cents from integer division.
type DistributionPriority string

const (
	DistributionFirst DistributionPriority = "FIRST"
	DistributionLast  DistributionPriority = "LAST"
)

// ScheduleSpec is the immutable part of a payback plan. Once any payback
// has been generated the spec must never change, so that the full
// schedule stays deterministic.
type ScheduleSpec struct {
	TotalAmount  money.Cents          `json:"total_amount_cents" db:"total_amount_cents"`
	PaybackCount int                  `json:"payback_count" db:"payback_count"`
	StartDate    time.Time            `json:"start_date" db:"start_date"`
	Frequency    Frequency            `json:"frequency" db:"frequency"`
	PaydayList   pq.Int64Array        `json:"payday_list" db:"payday_list"`
	AvoidHoliday bool                 `json:"avoid_holiday" db:"avoid_holiday"`
	Priority     DistributionPriority `json:"distribution_priority" db:"distribution_priority"`
}

// Validate rejects specs that cannot produce a well-formed schedule.
func (s ScheduleSpec) Validate() error {
	if s.TotalAmount <= 0 {
		return fmt.Errorf("total_amount must be greater than zero")
	}
	if s.PaybackCount < 1 {
		return fmt.Errorf("payback_count must be at least 1")
	}
	if money.Cents(s.PaybackCount) > s.TotalAmount {
		return fmt.Errorf("payback_count %d exceeds total amount of %d cents", s.PaybackCount, s.TotalAmount)
	}
	if s.StartDate.IsZero() {
		return fmt.Errorf("start_date is required")
	}
	switch s.Priority {
	case DistributionFirst, DistributionLast:
	default:
		return fmt.Errorf("distribution_priority must be FIRST or LAST")
	}

	for _, day := range s.PaydayList {
		if day < 1 || day > 31 {
			return fmt.Errorf("payday %d out of range 1-31", day)
		}
	}

	switch s.Frequency {
	case FrequencyDaily, FrequencyWeekly, FrequencyBiweekly:
		// Paydays are ignored for interval frequencies.
	case FrequencySemiMonthly:
		if len(s.PaydayList) != 2 {
			return fmt.Errorf("SEMI_MONTHLY requires exactly two paydays, got %d", len(s.PaydayList))
		}
		if s.PaydayList[0] == s.PaydayList[1] {
			return fmt.Errorf("SEMI_MONTHLY paydays must be distinct")
		}
	case FrequencyMonthly:
		if len(s.PaydayList) > 1 {
			return fmt.Errorf("MONTHLY accepts at most one payday, got %d", len(s.PaydayList))
		}
	default:
		return fmt.Errorf("unknown frequency %q", s.Frequency)
	}

	return nil
}

// PaybackPlan is the persisted schedule specification plus the
// materialization cursor tracking how far generation has advanced.
type PaybackPlan struct {
	ID         uuid.UUID `json:"id" db:"id"`
	FundingID  uuid.UUID `json:"funding_id" db:"funding_id"`
	FunderID   uuid.UUID `json:"funder_id" db:"funder_id"`
	LenderID   uuid.UUID `json:"lender_id" db:"lender_id"`
	MerchantID uuid.UUID `json:"merchant_id" db:"merchant_id"`

	ScheduleSpec

	NextPaybackDate *time.Time `json:"next_payback_date" db:"next_payback_date"`
	GeneratedCount  int        `json:"generated_count" db:"generated_count"`
	EndDate         time.Time  `json:"end_date" db:"end_date"`
	Status          string     `json:"status" db:"status"`
	Version         int        `json:"-" db:"version"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

// Exhausted reports whether every installment has been materialized.
func (p *PaybackPlan) Exhausted() bool {
	return p.GeneratedCount >= p.PaybackCount
}

// DTOs for requests and responses

type CreatePlanRequest struct {
	FundingID    string          `json:"funding_id" validate:"required,uuid4"`
	FunderID     string          `json:"funder_id" validate:"required,uuid4"`
	LenderID     string          `json:"lender_id" validate:"required,uuid4"`
	MerchantID   string          `json:"merchant_id" validate:"required,uuid4"`
	TotalAmount  decimal.Decimal `json:"total_amount" validate:"required"`
	PaybackCount int             `json:"payback_count" validate:"required,gte=1"`
	StartDate    string          `json:"start_date" validate:"required,datetime=2006-01-02"`
	Frequency    string          `json:"frequency" validate:"required,oneof=DAILY WEEKLY BIWEEKLY SEMI_MONTHLY MONTHLY"`
	PaydayList   []int           `json:"payday_list" validate:"omitempty,dive,gte=1,lte=31"`
	AvoidHoliday bool            `json:"avoid_holiday"`
	Priority     string          `json:"distribution_priority" validate:"required,oneof=FIRST LAST"`
}

type PreviewRequest struct {
	TotalAmount     decimal.Decimal `json:"total_amount" validate:"required"`
	PaybackCount    int             `json:"payback_count" validate:"required,gte=1"`
	StartDate       string          `json:"start_date" validate:"required,datetime=2006-01-02"`
	NextPaybackDate string          `json:"next_payback_date" validate:"omitempty,datetime=2006-01-02"`
	Frequency       string          `json:"frequency" validate:"omitempty,oneof=DAILY WEEKLY BIWEEKLY SEMI_MONTHLY MONTHLY"`
	PaydayList      []int           `json:"payday_list" validate:"omitempty,dive,gte=1,lte=31"`
	AvoidHoliday    bool            `json:"avoid_holiday"`
	Priority        string          `json:"distribution_priority" validate:"required,oneof=FIRST LAST"`
}

type GeneratePaybacksRequest struct {
	Count int `json:"count" validate:"omitempty,gte=1"`
}

type InstallmentResponse struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

type PaybackResponse struct {
	ID            uuid.UUID       `json:"id"`
	SequenceIndex int             `json:"sequence_index"`
	Date          string          `json:"date"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
}

type PlanResponse struct {
	ID              uuid.UUID       `json:"id"`
	FundingID       uuid.UUID       `json:"funding_id"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	PaybackCount    int             `json:"payback_count"`
	StartDate       string          `json:"start_date"`
	EndDate         string          `json:"end_date"`
	Frequency       Frequency       `json:"frequency"`
	PaydayList      []int64         `json:"payday_list,omitempty"`
	AvoidHoliday    bool            `json:"avoid_holiday"`
	Priority        string          `json:"distribution_priority"`
	NextPaybackDate string          `json:"next_payback_date,omitempty"`
	GeneratedCount  int             `json:"generated_count"`
	Status          string          `json:"status"`
}

type PlanDetailResponse struct {
	Plan     *PlanResponse      `json:"plan"`
	Paybacks []*PaybackResponse `json:"paybacks"`
}
