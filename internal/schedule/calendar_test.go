package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/advancehq/payback-engine/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestHolidaySet_IsBusinessDay(t *testing.T) {
	holidays := NewHolidaySet([]string{"01-01", "12-25", "bogus"})

	assert.False(t, holidays.IsBusinessDay(date(2024, time.January, 6)))  // Saturday
	assert.False(t, holidays.IsBusinessDay(date(2024, time.January, 7)))  // Sunday
	assert.False(t, holidays.IsBusinessDay(date(2024, time.January, 1)))  // holiday
	assert.False(t, holidays.IsBusinessDay(date(2024, time.December, 25)))
	assert.True(t, holidays.IsBusinessDay(date(2024, time.January, 2)))
}

func TestHolidaySet_PrevBusinessDay(t *testing.T) {
	holidays := NewHolidaySet([]string{"01-01"})

	// Saturday shifts to the preceding Friday.
	assert.Equal(t, date(2024, time.January, 5), holidays.PrevBusinessDay(date(2024, time.January, 6)))

	// Jan 2 steps over the Jan 1 holiday and the New Year weekend
	// down to Friday Dec 29.
	assert.Equal(t, date(2023, time.December, 29), holidays.PrevBusinessDay(date(2024, time.January, 2)))
}

func TestHolidaySet_NextBusinessDay(t *testing.T) {
	holidays := NewHolidaySet(nil)

	assert.Equal(t, date(2024, time.January, 8), holidays.NextBusinessDay(date(2024, time.January, 5)))
}

func TestTheoreticalDates_Intervals(t *testing.T) {
	tests := []struct {
		name      string
		frequency domain.Frequency
		start     time.Time
		count     int
		want      []time.Time
	}{
		{
			name:      "daily",
			frequency: domain.FrequencyDaily,
			start:     date(2024, time.March, 1),
			count:     3,
			want:      []time.Time{date(2024, time.March, 1), date(2024, time.March, 2), date(2024, time.March, 3)},
		},
		{
			name:      "weekly",
			frequency: domain.FrequencyWeekly,
			start:     date(2024, time.January, 1),
			count:     3,
			want:      []time.Time{date(2024, time.January, 1), date(2024, time.January, 8), date(2024, time.January, 15)},
		},
		{
			name:      "biweekly",
			frequency: domain.FrequencyBiweekly,
			start:     date(2024, time.January, 1),
			count:     3,
			want:      []time.Time{date(2024, time.January, 1), date(2024, time.January, 15), date(2024, time.January, 29)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := domain.ScheduleSpec{Frequency: tt.frequency}
			got := theoreticalDates(spec, tt.start, tt.count)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTheoreticalDates_MonthlyClamp(t *testing.T) {
	spec := domain.ScheduleSpec{Frequency: domain.FrequencyMonthly, PaydayList: []int64{31}}

	got := theoreticalDates(spec, date(2025, time.January, 31), 3)

	// Day 31 clamps to each month's last day, not to early March.
	assert.Equal(t, []time.Time{
		date(2025, time.January, 31),
		date(2025, time.February, 28),
		date(2025, time.March, 31),
	}, got)
}

func TestTheoreticalDates_MonthlyClampLeapYear(t *testing.T) {
	spec := domain.ScheduleSpec{Frequency: domain.FrequencyMonthly, PaydayList: []int64{31}}

	got := theoreticalDates(spec, date(2024, time.January, 31), 2)

	assert.Equal(t, date(2024, time.February, 29), got[1])
}

func TestTheoreticalDates_MonthlyAnchorAfterStart(t *testing.T) {
	// Start on the 20th with payday 15: the first occurrence of the
	// anchor day on or after the start is next month.
	spec := domain.ScheduleSpec{Frequency: domain.FrequencyMonthly, PaydayList: []int64{15}}

	got := theoreticalDates(spec, date(2024, time.March, 20), 2)

	assert.Equal(t, []time.Time{date(2024, time.April, 15), date(2024, time.May, 15)}, got)
}

func TestTheoreticalDates_MonthlyDefaultsToStartDay(t *testing.T) {
	spec := domain.ScheduleSpec{Frequency: domain.FrequencyMonthly}

	got := theoreticalDates(spec, date(2024, time.March, 10), 2)

	assert.Equal(t, []time.Time{date(2024, time.March, 10), date(2024, time.April, 10)}, got)
}

func TestTheoreticalDates_SemiMonthly(t *testing.T) {
	spec := domain.ScheduleSpec{Frequency: domain.FrequencySemiMonthly, PaydayList: []int64{15, 31}}

	got := theoreticalDates(spec, date(2024, time.January, 10), 5)

	assert.Equal(t, []time.Time{
		date(2024, time.January, 15),
		date(2024, time.January, 31),
		date(2024, time.February, 15),
		date(2024, time.February, 29), // day 31 clamped in a leap February
		date(2024, time.March, 15),
	}, got)
}

func TestTheoreticalDates_SemiMonthlyRollsToNextMonth(t *testing.T) {
	// Start past both paydays: first installment is the first payday
	// of the following month.
	spec := domain.ScheduleSpec{Frequency: domain.FrequencySemiMonthly, PaydayList: []int64{1, 15}}

	got := theoreticalDates(spec, date(2024, time.January, 20), 2)

	assert.Equal(t, []time.Time{date(2024, time.February, 1), date(2024, time.February, 15)}, got)
}

func TestAdjustDates_WeekendShiftsBackward(t *testing.T) {
	holidays := NewHolidaySet(nil)
	dates := []time.Time{
		date(2024, time.January, 6),  // Saturday
		date(2024, time.January, 13), // Saturday
	}

	got := adjustDates(dates, true, holidays)

	assert.Equal(t, []time.Time{
		date(2024, time.January, 5),  // preceding Friday
		date(2024, time.January, 12), // preceding Friday
	}, got)
}

func TestAdjustDates_CollisionFlipsForward(t *testing.T) {
	holidays := NewHolidaySet(nil)

	// Friday then Saturday: the Saturday shifts back onto the Friday,
	// which would collide, so it flips forward past the weekend.
	dates := []time.Time{
		date(2024, time.January, 5), // Friday
		date(2024, time.January, 6), // Saturday
	}

	got := adjustDates(dates, true, holidays)

	assert.Equal(t, date(2024, time.January, 5), got[0])
	assert.Equal(t, date(2024, time.January, 8), got[1]) // Monday
}

func TestAdjustDates_DailyStaysStrictlyIncreasing(t *testing.T) {
	holidays := NewHolidaySet(nil)
	spec := domain.ScheduleSpec{Frequency: domain.FrequencyDaily}

	dates := theoreticalDates(spec, date(2024, time.January, 5), 6)
	got := adjustDates(dates, true, holidays)

	for i := 1; i < len(got); i++ {
		assert.True(t, got[i].After(got[i-1]), "date %d (%s) not after %s", i, got[i], got[i-1])
	}
	for _, d := range got {
		assert.True(t, holidays.IsBusinessDay(d), "%s is not a business day", d)
	}
}

func TestAdjustDates_ClampCollisionWithoutHolidayAvoidance(t *testing.T) {
	// Semi-monthly paydays 30 and 31 both clamp to Feb 29; the second
	// installment is pushed to the next day to keep order.
	dates := []time.Time{
		date(2024, time.February, 29),
		date(2024, time.February, 29),
	}

	got := adjustDates(dates, false, nil)

	assert.Equal(t, date(2024, time.February, 29), got[0])
	assert.Equal(t, date(2024, time.March, 1), got[1])
}
