package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/advancehq/payback-engine/internal/domain"
	"github.com/advancehq/payback-engine/pkg/money"
)

func weeklySpec(total money.Cents, count int) domain.ScheduleSpec {
	return domain.ScheduleSpec{
		TotalAmount:  total,
		PaybackCount: count,
		StartDate:    date(2024, time.January, 1),
		Frequency:    domain.FrequencyWeekly,
		Priority:     domain.DistributionFirst,
	}
}

func TestGenerate_SumAndCountInvariants(t *testing.T) {
	specs := []domain.ScheduleSpec{
		weeklySpec(1000000, 10),
		weeklySpec(1001, 3),
		weeklySpec(999999, 7),
		{
			TotalAmount:  123457,
			PaybackCount: 11,
			StartDate:    date(2024, time.June, 3),
			Frequency:    domain.FrequencyMonthly,
			PaydayList:   []int64{31},
			AvoidHoliday: true,
			Priority:     domain.DistributionLast,
		},
		{
			TotalAmount:  50000,
			PaybackCount: 6,
			StartDate:    date(2024, time.January, 10),
			Frequency:    domain.FrequencySemiMonthly,
			PaydayList:   []int64{15, 31},
			AvoidHoliday: true,
			Priority:     domain.DistributionLast,
		},
	}

	for _, spec := range specs {
		installments, err := Generate(spec, NewHolidaySet(nil))
		require.NoError(t, err)
		require.Len(t, installments, spec.PaybackCount)

		var sum money.Cents
		for _, inst := range installments {
			assert.Greater(t, int64(inst.Amount), int64(0))
			sum += inst.Amount
		}
		assert.Equal(t, spec.TotalAmount, sum)
	}
}

func TestGenerate_Monotonicity(t *testing.T) {
	spec := domain.ScheduleSpec{
		TotalAmount:  100000,
		PaybackCount: 30,
		StartDate:    date(2024, time.January, 5),
		Frequency:    domain.FrequencyDaily,
		AvoidHoliday: true,
		Priority:     domain.DistributionFirst,
	}

	installments, err := Generate(spec, NewHolidaySet([]string{"01-15"}))
	require.NoError(t, err)

	for i := 1; i < len(installments); i++ {
		assert.True(t, installments[i].Date.After(installments[i-1].Date),
			"installment %d (%s) not after %s", i, installments[i].Date, installments[i-1].Date)
	}
}

func TestGenerate_Determinism(t *testing.T) {
	spec := domain.ScheduleSpec{
		TotalAmount:  777777,
		PaybackCount: 13,
		StartDate:    date(2024, time.February, 14),
		Frequency:    domain.FrequencyBiweekly,
		AvoidHoliday: true,
		Priority:     domain.DistributionLast,
	}
	holidays := NewHolidaySet([]string{"07-04", "12-25"})

	first, err := Generate(spec, holidays)
	require.NoError(t, err)
	second, err := Generate(spec, holidays)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGenerate_RemainderPlacement(t *testing.T) {
	tests := []struct {
		name     string
		priority domain.DistributionPriority
		want     []money.Cents
	}{
		{name: "last gets remainder", priority: domain.DistributionLast, want: []money.Cents{333, 333, 335}},
		{name: "first gets remainder", priority: domain.DistributionFirst, want: []money.Cents{334, 334, 333}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := weeklySpec(1001, 3)
			spec.Priority = tt.priority

			installments, err := Generate(spec, NewHolidaySet(nil))
			require.NoError(t, err)

			got := make([]money.Cents, len(installments))
			for i, inst := range installments {
				got[i] = inst.Amount
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerate_EvenSplit(t *testing.T) {
	installments, err := Generate(weeklySpec(1000000, 10), NewHolidaySet(nil))
	require.NoError(t, err)

	for _, inst := range installments {
		assert.Equal(t, money.Cents(100000), inst.Amount)
	}
}

func TestGenerate_SingleInstallment(t *testing.T) {
	spec := weeklySpec(12345, 1)

	installments, err := Generate(spec, NewHolidaySet(nil))
	require.NoError(t, err)

	require.Len(t, installments, 1)
	assert.Equal(t, money.Cents(12345), installments[0].Amount)
	assert.Equal(t, spec.StartDate, installments[0].Date)
}

func TestGenerate_MonthlyClamp(t *testing.T) {
	spec := domain.ScheduleSpec{
		TotalAmount:  20000,
		PaybackCount: 2,
		StartDate:    date(2025, time.January, 31),
		Frequency:    domain.FrequencyMonthly,
		PaydayList:   []int64{31},
		Priority:     domain.DistributionFirst,
	}

	installments, err := Generate(spec, NewHolidaySet(nil))
	require.NoError(t, err)

	assert.Equal(t, date(2025, time.February, 28), installments[1].Date)
}

func TestGenerate_WeeklyEndToEnd(t *testing.T) {
	// $10,000.00 over 10 weekly installments from 2024-01-01:
	// $1,000.00 each, every 7 days, ending 2024-03-04.
	spec := domain.ScheduleSpec{
		TotalAmount:  1000000,
		PaybackCount: 10,
		StartDate:    date(2024, time.January, 1),
		Frequency:    domain.FrequencyWeekly,
		Priority:     domain.DistributionFirst,
	}

	installments, err := Generate(spec, NewHolidaySet(nil))
	require.NoError(t, err)
	require.Len(t, installments, 10)

	for i, inst := range installments {
		assert.Equal(t, money.Cents(100000), inst.Amount)
		assert.Equal(t, date(2024, time.January, 1).AddDate(0, 0, 7*i), inst.Date)
	}
	assert.Equal(t, date(2024, time.March, 4), installments[9].Date)
}

func TestGenerate_InvalidSpecs(t *testing.T) {
	base := weeklySpec(1000, 4)

	tests := []struct {
		name   string
		mutate func(*domain.ScheduleSpec)
	}{
		{name: "zero amount", mutate: func(s *domain.ScheduleSpec) { s.TotalAmount = 0 }},
		{name: "negative amount", mutate: func(s *domain.ScheduleSpec) { s.TotalAmount = -100 }},
		{name: "zero count", mutate: func(s *domain.ScheduleSpec) { s.PaybackCount = 0 }},
		{name: "count exceeds cents", mutate: func(s *domain.ScheduleSpec) { s.PaybackCount = 1001 }},
		{name: "unknown frequency", mutate: func(s *domain.ScheduleSpec) { s.Frequency = "FORTNIGHTLY" }},
		{name: "missing priority", mutate: func(s *domain.ScheduleSpec) { s.Priority = "" }},
		{name: "payday out of range", mutate: func(s *domain.ScheduleSpec) {
			s.Frequency = domain.FrequencyMonthly
			s.PaydayList = []int64{32}
		}},
		{name: "semi-monthly needs two paydays", mutate: func(s *domain.ScheduleSpec) {
			s.Frequency = domain.FrequencySemiMonthly
			s.PaydayList = []int64{15}
		}},
		{name: "semi-monthly duplicate paydays", mutate: func(s *domain.ScheduleSpec) {
			s.Frequency = domain.FrequencySemiMonthly
			s.PaydayList = []int64{15, 15}
		}},
		{name: "monthly with two paydays", mutate: func(s *domain.ScheduleSpec) {
			s.Frequency = domain.FrequencyMonthly
			s.PaydayList = []int64{1, 15}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := base
			tt.mutate(&spec)

			_, err := Generate(spec, NewHolidaySet(nil))
			assert.Error(t, err)
		})
	}
}
