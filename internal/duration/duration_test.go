package duration_test

import (
	"testing"
	"time"

	"go-leaveflow/internal/duration"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func allWorkingWeek() duration.WeekSchedule {
	return duration.WeekSchedule{
		duration.CodeWorking, duration.CodeWorking, duration.CodeWorking,
		duration.CodeWorking, duration.CodeWorking, duration.CodeWorking,
		duration.CodeWorking,
	}
}

func TestCalculate_FullWeekEqualsCalendarDays(t *testing.T) {
	// Every weekday working, no holidays: duration == calendar day count.
	cases := []struct {
		name       string
		start, end time.Time
		want       float64
	}{
		{"single day", date(2026, time.March, 2), date(2026, time.March, 2), 1},
		{"one week", date(2026, time.March, 2), date(2026, time.March, 8), 7},
		{"across month", date(2026, time.February, 27), date(2026, time.March, 2), 4},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := duration.Calculate(
				tc.start, tc.end,
				duration.DayPartAll, duration.DayPartAll,
				allWorkingWeek(), duration.HolidaySet{},
			)
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got.Float64())
		})
	}
}

func TestCalculate_SingleFullDay(t *testing.T) {
	got, err := duration.Calculate(
		date(2026, time.March, 4), date(2026, time.March, 4),
		duration.DayPartAll, duration.DayPartAll,
		duration.DefaultWeek(), duration.HolidaySet{},
	)
	assert.NoError(t, err)
	assert.Equal(t, 1.0, got.Float64())
}

func TestCalculate_NonWorkingAndHolidayContributeZero(t *testing.T) {
	// 2026-03-07/08 is a weekend in the default week.
	got, err := duration.Calculate(
		date(2026, time.March, 7), date(2026, time.March, 8),
		duration.DayPartAll, duration.DayPartAll,
		duration.DefaultWeek(), duration.HolidaySet{},
	)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, got.Float64())

	// A holiday on a working day contributes zero, even with half parts.
	holidays := duration.NewHolidaySet(date(2026, time.March, 4))
	got, err = duration.Calculate(
		date(2026, time.March, 4), date(2026, time.March, 4),
		duration.DayPartMorning, duration.DayPartMorning,
		duration.DefaultWeek(), holidays,
	)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, got.Float64())
}

func TestCalculate_HalfDayBoundaries(t *testing.T) {
	mon := date(2026, time.March, 2)
	tue := date(2026, time.March, 3)

	cases := []struct {
		name                 string
		start, end           time.Time
		partStart, partEnd   duration.DayPart
		want                 float64
	}{
		{"morning then all", mon, tue, duration.DayPartMorning, duration.DayPartAll, 1.5},
		{"all then afternoon", mon, tue, duration.DayPartAll, duration.DayPartAfternoon, 1.5},
		{"same day morning only", mon, mon, duration.DayPartMorning, duration.DayPartMorning, 0.5},
		{"same day morning to afternoon", mon, mon, duration.DayPartMorning, duration.DayPartAfternoon, 0.5},
		{"both halves across two days", mon, tue, duration.DayPartAfternoon, duration.DayPartMorning, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := duration.Calculate(
				tc.start, tc.end, tc.partStart, tc.partEnd,
				duration.DefaultWeek(), duration.HolidaySet{},
			)
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got.Float64())
		})
	}
}

func TestCalculate_HalfScheduledDays(t *testing.T) {
	week := duration.DefaultWeek()
	week[0] = duration.CodeMorningOnly   // Monday
	week[1] = duration.CodeAfternoonOnly // Tuesday

	mon := date(2026, time.March, 2)
	wed := date(2026, time.March, 4)

	// Mon 0.5 + Tue 0.5 + Wed 1.0
	got, err := duration.Calculate(
		mon, wed,
		duration.DayPartAll, duration.DayPartAll,
		week, duration.HolidaySet{},
	)
	assert.NoError(t, err)
	assert.Equal(t, 2.0, got.Float64())

	// A half-scheduled boundary day with a non-ALL part stays at 0.5.
	got, err = duration.Calculate(
		mon, wed,
		duration.DayPartAfternoon, duration.DayPartAll,
		week, duration.HolidaySet{},
	)
	assert.NoError(t, err)
	assert.Equal(t, 2.0, got.Float64())
}

func TestCalculate_EndBeforeStart(t *testing.T) {
	_, err := duration.Calculate(
		date(2026, time.March, 3), date(2026, time.March, 2),
		duration.DayPartAll, duration.DayPartAll,
		duration.DefaultWeek(), duration.HolidaySet{},
	)
	assert.ErrorIs(t, err, duration.ErrEndBeforeStart)
}

func TestParseDayPart(t *testing.T) {
	for _, valid := range []string{"ALL", "MORNING", "AFTERNOON"} {
		p, err := duration.ParseDayPart(valid)
		assert.NoError(t, err)
		assert.Equal(t, valid, string(p))
	}

	_, err := duration.ParseDayPart("EVENING")
	assert.Error(t, err)
}

func TestDaysFixedPoint(t *testing.T) {
	assert.Equal(t, "1.5", (duration.Full + duration.Half).String())
	assert.Equal(t, "2", (duration.Full + duration.Full).String())
	assert.Equal(t, duration.Days(3), duration.FromFloat(1.5))
	assert.Equal(t, duration.Days(-1), duration.FromFloat(-0.5))
	assert.Equal(t, duration.Days(40), duration.FromFloat(20))
}
