package schedule

import (
	"sort"
	"time"

	"github.com/advancehq/payback-engine/internal/domain"
)

// HolidaySet holds recurring fixed-date holidays keyed by "MM-DD".
// Weekends are always non-business days regardless of the set.
type HolidaySet map[string]struct{}

// NewHolidaySet builds a set from "MM-DD" entries. Unparseable entries
// are ignored.
func NewHolidaySet(days []string) HolidaySet {
	set := make(HolidaySet, len(days))
	for _, d := range days {
		if _, err := time.Parse("01-02", d); err != nil {
			continue
		}
		set[d] = struct{}{}
	}
	return set
}

// IsBusinessDay reports whether d is neither a weekend nor a holiday.
func (h HolidaySet) IsBusinessDay(d time.Time) bool {
	if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false
	}
	_, holiday := h[d.Format("01-02")]
	return !holiday
}

// PrevBusinessDay returns the closest business day strictly before d.
func (h HolidaySet) PrevBusinessDay(d time.Time) time.Time {
	for {
		d = d.AddDate(0, 0, -1)
		if h.IsBusinessDay(d) {
			return d
		}
	}
}

// NextBusinessDay returns the closest business day strictly after d.
func (h HolidaySet) NextBusinessDay(d time.Time) time.Time {
	for {
		d = d.AddDate(0, 0, 1)
		if h.IsBusinessDay(d) {
			return d
		}
	}
}

// dateOnly truncates to midnight UTC so date comparisons are exact.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// clampedDate builds a date in the given month, clamping day to the
// month's length (day 31 in February becomes Feb 28/29).
func clampedDate(year int, month time.Month, day int) time.Time {
	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// theoreticalDates computes count pre-adjustment dates for the spec's
// frequency, anchored at start.
func theoreticalDates(spec domain.ScheduleSpec, start time.Time, count int) []time.Time {
	start = dateOnly(start)
	dates := make([]time.Time, 0, count)

	switch spec.Frequency {
	case domain.FrequencyDaily:
		for i := 0; i < count; i++ {
			dates = append(dates, start.AddDate(0, 0, i))
		}

	case domain.FrequencyWeekly:
		for i := 0; i < count; i++ {
			dates = append(dates, start.AddDate(0, 0, 7*i))
		}

	case domain.FrequencyBiweekly:
		for i := 0; i < count; i++ {
			dates = append(dates, start.AddDate(0, 0, 14*i))
		}

	case domain.FrequencyMonthly:
		anchorDay := start.Day()
		if len(spec.PaydayList) == 1 {
			anchorDay = int(spec.PaydayList[0])
		}
		year, month := start.Year(), start.Month()
		first := clampedDate(year, month, anchorDay)
		if first.Before(start) {
			month++
		}
		for i := 0; i < count; i++ {
			dates = append(dates, clampedDate(year, month+time.Month(i), anchorDay))
		}

	case domain.FrequencySemiMonthly:
		paydays := []int{int(spec.PaydayList[0]), int(spec.PaydayList[1])}
		sort.Ints(paydays)
		year, month := start.Year(), start.Month()
		for len(dates) < count {
			for _, day := range paydays {
				d := clampedDate(year, month, day)
				if d.Before(start) {
					continue
				}
				dates = append(dates, d)
				if len(dates) == count {
					break
				}
			}
			month++
		}
	}

	return dates
}

// adjustDates applies holiday avoidance and enforces strictly
// increasing dates. The shift direction is backward: a date on a
// weekend or holiday moves to the preceding business day. When a shift
// (or month-length clamping) would land an installment on or before
// its predecessor, that installment flips forward to the first valid
// day strictly after the predecessor, since shifting further backward
// would reorder the plan.
func adjustDates(dates []time.Time, avoid bool, holidays HolidaySet) []time.Time {
	out := make([]time.Time, 0, len(dates))
	var prev time.Time

	for i, d := range dates {
		adj := d
		if avoid && !holidays.IsBusinessDay(adj) {
			adj = holidays.PrevBusinessDay(adj)
		}
		if i > 0 && !adj.After(prev) {
			adj = prev.AddDate(0, 0, 1)
			if avoid && !holidays.IsBusinessDay(adj) {
				adj = holidays.NextBusinessDay(adj)
			}
		}
		out = append(out, adj)
		prev = adj
	}

	return out
}
