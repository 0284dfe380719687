package schedule

import (
	"time"

	"github.com/advancehq/payback-engine/internal/domain"
	"github.com/advancehq/payback-engine/pkg/money"
)

// Installment is one dated amount in a theoretical schedule.
type Installment struct {
	Date   time.Time
	Amount money.Cents
}

// Generate maps a schedule spec to its full ordered installment list.
// It is pure and deterministic: the same spec and holiday set always
// produce the identical schedule, which is what lets the plan service
// re-derive the schedule on every call instead of storing it.
//
// Amounts: every installment gets floor(total/count). With priority
// FIRST the leftover cents land one apiece on the leading
// installments; with LAST the whole leftover lands on the final
// installment.
//
// Invariants: len == spec.PaybackCount, amounts sum to
// spec.TotalAmount exactly, dates strictly increase.
func Generate(spec domain.ScheduleSpec, holidays HolidaySet) ([]Installment, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	dates := theoreticalDates(spec, spec.StartDate, spec.PaybackCount)
	dates = adjustDates(dates, spec.AvoidHoliday, holidays)

	base, remainder := money.Split(spec.TotalAmount, spec.PaybackCount)

	installments := make([]Installment, spec.PaybackCount)
	for i := range installments {
		amount := base
		switch spec.Priority {
		case domain.DistributionFirst:
			if i < remainder {
				amount++
			}
		case domain.DistributionLast:
			if i == spec.PaybackCount-1 {
				amount += money.Cents(remainder)
			}
		}
		installments[i] = Installment{Date: dates[i], Amount: amount}
	}

	return installments, nil
}
