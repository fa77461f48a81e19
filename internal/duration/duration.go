// Package duration computes how many entitlement days an absence consumes
// given a weekly work schedule, half-day parts and bank holidays. It is pure:
// no clocks, no storage, no side effects. Every caller that needs a day count
// (validation, allowance consumption, display) goes through Calculate so the
// figures always agree.
package duration

import (
	"errors"
	"fmt"
	"time"
)

// Days is a fixed-point day count in half-day units. Integer arithmetic keeps
// 0.5-day granularity exact; floats never enter the sum.
type Days int

const (
	Zero Days = 0
	Half Days = 1
	Full Days = 2
)

func (d Days) Add(other Days) Days { return d + other }

func (d Days) Float64() float64 { return float64(d) / 2 }

func (d Days) String() string {
	if d%2 == 0 {
		return fmt.Sprintf("%d", int(d)/2)
	}
	return fmt.Sprintf("%.1f", d.Float64())
}

// FromFloat converts a day figure to halves, rounding to the nearest half-day.
func FromFloat(v float64) Days {
	if v >= 0 {
		return Days(v*2 + 0.5)
	}
	return Days(v*2 - 0.5)
}

// DayPart marks which part of a boundary day an absence covers.
type DayPart string

const (
	DayPartAll       DayPart = "ALL"
	DayPartMorning   DayPart = "MORNING"
	DayPartAfternoon DayPart = "AFTERNOON"
)

func ParseDayPart(s string) (DayPart, error) {
	switch DayPart(s) {
	case DayPartAll, DayPartMorning, DayPartAfternoon:
		return DayPart(s), nil
	default:
		return "", fmt.Errorf("unknown day part %q", s)
	}
}

// WorkdayCode is the per-weekday schedule value.
type WorkdayCode int

const (
	CodeWorking       WorkdayCode = 1
	CodeNonWorking    WorkdayCode = 2
	CodeMorningOnly   WorkdayCode = 3
	CodeAfternoonOnly WorkdayCode = 4
)

// WeekSchedule holds one workday code per weekday, Monday first.
type WeekSchedule [7]WorkdayCode

// CodeFor maps time.Weekday (Sunday=0) onto the Monday-first layout.
func (ws WeekSchedule) CodeFor(d time.Weekday) WorkdayCode {
	idx := (int(d) + 6) % 7
	return ws[idx]
}

// DefaultWeek is the Monday-to-Friday working week used when neither the
// employee nor the company has a schedule configured.
func DefaultWeek() WeekSchedule {
	return WeekSchedule{
		CodeWorking, CodeWorking, CodeWorking, CodeWorking, CodeWorking,
		CodeNonWorking, CodeNonWorking,
	}
}

const dateKeyLayout = "2006-01-02"

// HolidaySet is a set of calendar dates compared at day granularity.
type HolidaySet map[string]struct{}

func NewHolidaySet(dates ...time.Time) HolidaySet {
	s := make(HolidaySet, len(dates))
	for _, d := range dates {
		s[d.Format(dateKeyLayout)] = struct{}{}
	}
	return s
}

func (s HolidaySet) Add(date time.Time) {
	s[date.Format(dateKeyLayout)] = struct{}{}
}

func (s HolidaySet) Contains(date time.Time) bool {
	_, ok := s[date.Format(dateKeyLayout)]
	return ok
}

var ErrEndBeforeStart = errors.New("end date is before start date")

// Calculate returns the fractional day count for the inclusive range
// [start, end]. Contributions per calendar day:
//
//   - non-working day or bank holiday: 0, regardless of day parts
//   - full working day: 1.0, halved when it is the first day with a non-ALL
//     start part or the last day with a non-ALL end part
//   - morning-only / afternoon-only day: 0.5, never more at boundaries
//
// A single-day request with two non-ALL parts contributes at most 0.5 total.
func Calculate(
	start, end time.Time,
	partStart, partEnd DayPart,
	schedule WeekSchedule,
	holidays HolidaySet,
) (Days, error) {
	startDay := truncateToDay(start)
	endDay := truncateToDay(end)

	if endDay.Before(startDay) {
		return Zero, ErrEndBeforeStart
	}

	total := Zero
	for day := startDay; !day.After(endDay); day = day.AddDate(0, 0, 1) {
		total += dayContribution(
			day, schedule, holidays,
			day.Equal(startDay) && partStart != DayPartAll,
			day.Equal(endDay) && partEnd != DayPartAll,
		)
	}

	return total, nil
}

func dayContribution(
	day time.Time,
	schedule WeekSchedule,
	holidays HolidaySet,
	halvedByStart, halvedByEnd bool,
) Days {
	if holidays.Contains(day) {
		return Zero
	}

	var c Days
	switch schedule.CodeFor(day.Weekday()) {
	case CodeNonWorking:
		return Zero
	case CodeMorningOnly, CodeAfternoonOnly:
		c = Half
	default:
		c = Full
	}

	// Half-scheduled boundary days never exceed 0.5; a same-day range with
	// two half parts still contributes a single half.
	if halvedByStart && c > Half {
		c = Half
	}
	if halvedByEnd && c > Half {
		c = Half
	}
	return c
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
