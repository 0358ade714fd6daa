package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func datePtr(s string) *time.Time {
	t := date(s)
	return &t
}

func TestAddCalendarMonths(t *testing.T) {
	tests := []struct {
		name string
		from string
		n    int
		want string
	}{
		{"same day next month", "2024-01-12", 1, "2024-02-12"},
		{"zero", "2024-05-31", 0, "2024-05-31"},
		{"jan 31 into leap february", "2024-01-31", 1, "2024-02-29"},
		{"jan 31 into plain february", "2023-01-31", 1, "2023-02-28"},
		{"jan 31 plus two keeps the 31st", "2023-01-31", 2, "2023-03-31"},
		{"leap day plus a year", "2024-02-29", 12, "2025-02-28"},
		{"year rollover", "2024-11-30", 3, "2025-02-28"},
		{"negative", "2024-03-31", -1, "2024-02-29"},
		{"negative across years", "2024-01-15", -13, "2022-12-15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, date(tt.want), AddCalendarMonths(date(tt.from), tt.n))
		})
	}
}

func TestMonthsElapsed(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		now  string
		want int
	}{
		{"same day", "2024-01-12", "2024-01-12", 0},
		{"one day short", "2024-01-12", "2024-02-11", 0},
		{"exactly one month", "2024-01-12", "2024-02-12", 1},
		{"exactly two months", "2024-01-12", "2024-03-12", 2},
		{"jan 31 anchor in leap year", "2024-01-31", "2024-02-29", 1},
		{"jan 31 anchor non-leap", "2023-01-31", "2023-02-28", 1},
		{"jan 31 anchor before month end", "2023-01-31", "2023-02-27", 0},
		{"jan 31 anchor on mar 30", "2023-01-31", "2023-03-30", 1},
		{"across years", "2023-06-15", "2024-06-14", 11},
		{"future reference", "2024-05-01", "2024-04-01", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MonthsElapsed(date(tt.ref), date(tt.now)))
		})
	}
}

func TestMonthsElapsed_IgnoresTimeOfDay(t *testing.T) {
	ref := time.Date(2024, 1, 12, 23, 59, 0, 0, time.UTC)
	now := time.Date(2024, 2, 12, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, 1, MonthsElapsed(ref, now))
	assert.Equal(t, 31, DaysSince(ref, now))
}

func TestCivilDate_UsesUTCDate(t *testing.T) {
	eastern := time.FixedZone("UTC-5", -5*60*60)
	late := time.Date(2024, 3, 12, 23, 30, 0, 0, eastern)
	assert.Equal(t, date("2024-03-13"), CivilDate(late))

	india := time.FixedZone("IST", 5*60*60+30*60)
	early := time.Date(2024, 3, 12, 2, 0, 0, 0, india)
	assert.Equal(t, date("2024-03-11"), CivilDate(early))

	assert.Equal(t, date("2024-03-12"), CivilDate(time.Date(2024, 3, 12, 18, 0, 0, 0, time.UTC)))
}

func TestDaysSince(t *testing.T) {
	assert.Equal(t, 0, DaysSince(date("2024-03-01"), date("2024-03-01")))
	assert.Equal(t, 29, DaysSince(date("2024-02-01"), date("2024-03-01")))
	assert.Equal(t, 0, DaysSince(date("2024-03-10"), date("2024-03-01")))
}

func TestComputeDue_ResidualScenario(t *testing.T) {
	in := DueInput{
		JoinDate:     date("2023-10-01"),
		LastPaidDate: datePtr("2024-01-12"),
		RentAmount:   7000,
		DueAmount:    2000,
	}

	tests := []struct {
		now        string
		wantMonths int
		wantDue    int
		wantLate   bool
	}{
		{"2024-02-11", 0, 2000, false},
		{"2024-02-12", 1, 9000, true},
		{"2024-03-12", 2, 16000, true},
	}

	for _, tt := range tests {
		t.Run(tt.now, func(t *testing.T) {
			got := ComputeDue(in, date(tt.now))
			assert.Equal(t, tt.wantMonths, got.MonthsElapsed)
			assert.Equal(t, tt.wantDue, got.CurrentDue)
			assert.Equal(t, tt.wantLate, got.IsOverdue)
		})
	}
}

func TestComputeDue_NeverPaid(t *testing.T) {
	in := DueInput{JoinDate: date("2024-01-01"), RentAmount: 5000}

	got := ComputeDue(in, date("2024-01-01"))
	assert.Equal(t, DueSummary{MonthsElapsed: 0, DaysSinceLastPayment: 0, IsOverdue: true, CurrentDue: 5000}, got)

	got = ComputeDue(in, date("2024-03-15"))
	assert.Equal(t, 2, got.MonthsElapsed)
	assert.Equal(t, 74, got.DaysSinceLastPayment)
	assert.True(t, got.IsOverdue)
	assert.Equal(t, 15000, got.CurrentDue)
}

func TestComputeDue_NeverPaidAlwaysOverdue(t *testing.T) {
	join := date("2024-01-31")
	for i := 0; i < 400; i += 7 {
		now := join.AddDate(0, 0, i)
		in := DueInput{JoinDate: join, RentAmount: 4500, DueAmount: -300}
		got := ComputeDue(in, now)
		assert.True(t, got.IsOverdue, now)
		assert.Equal(t, -300+(got.MonthsElapsed+1)*4500, got.CurrentDue, now)
	}
}

func TestComputeDue_PaidToday(t *testing.T) {
	in := DueInput{
		JoinDate:     date("2023-01-01"),
		LastPaidDate: datePtr("2024-06-30"),
		RentAmount:   8000,
		DueAmount:    1200,
	}
	got := ComputeDue(in, date("2024-06-30"))
	assert.Equal(t, 0, got.MonthsElapsed)
	assert.Equal(t, 1200, got.CurrentDue)
	assert.False(t, got.IsOverdue)
}

func TestComputeDue_ZeroRentAndCredit(t *testing.T) {
	in := DueInput{
		JoinDate:     date("2023-01-01"),
		LastPaidDate: datePtr("2023-01-01"),
		RentAmount:   0,
		DueAmount:    -2500,
	}
	got := ComputeDue(in, date("2024-01-01"))
	assert.Equal(t, 12, got.MonthsElapsed)
	assert.Equal(t, -2500, got.CurrentDue)
}

func TestComputeDue_FuturePayment(t *testing.T) {
	in := DueInput{
		JoinDate:     date("2024-01-01"),
		LastPaidDate: datePtr("2024-05-01"),
		RentAmount:   6000,
		DueAmount:    100,
	}
	got := ComputeDue(in, date("2024-04-01"))
	assert.Equal(t, 0, got.MonthsElapsed)
	assert.Equal(t, 0, got.DaysSinceLastPayment)
	assert.Equal(t, 100, got.CurrentDue)
}

func TestComputeDue_PureAndMonotonic(t *testing.T) {
	in := DueInput{
		JoinDate:     date("2023-08-31"),
		LastPaidDate: datePtr("2023-08-31"),
		RentAmount:   6500,
		DueAmount:    750,
	}
	now := date("2024-02-29")
	assert.Equal(t, ComputeDue(in, now), ComputeDue(in, now))

	prev := ComputeDue(in, in.JoinDate).CurrentDue
	for day := in.JoinDate; day.Before(date("2025-12-31")); day = day.AddDate(0, 0, 1) {
		cur := ComputeDue(in, day).CurrentDue
		if !assert.GreaterOrEqual(t, cur, prev, day) {
			return
		}
		prev = cur
	}
}

func TestTenantDue_UsesStoredDates(t *testing.T) {
	tenant := Tenant{
		JoinDate:     NewDate(date("2024-01-01")),
		LastPaidDate: DatePtr(date("2024-01-12")),
		RentAmount:   7000,
		DueAmount:    2000,
	}
	got := tenant.Due(time.Date(2024, 3, 12, 18, 30, 0, 0, time.UTC))
	assert.Equal(t, 2, got.MonthsElapsed)
	assert.Equal(t, 16000, got.CurrentDue)

	tenant.LastPaidDate = nil
	got = tenant.Due(date("2024-01-01"))
	assert.Equal(t, 7000+2000, got.CurrentDue)
}
