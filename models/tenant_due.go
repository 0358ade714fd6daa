package models

import "time"

type DueInput struct {
	JoinDate     time.Time
	LastPaidDate *time.Time // nil: never paid
	RentAmount   int
	DueAmount    int
}

type DueSummary struct {
	MonthsElapsed        int  `json:"monthsElapsed"`
	DaysSinceLastPayment int  `json:"daysSinceLastPayment"`
	IsOverdue            bool `json:"isOverdue"`
	CurrentDue           int  `json:"currentDue"`
}

// CivilDate returns the UTC calendar date of t as midnight UTC. An instant
// given with an offset lands on the date it has in UTC.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddCalendarMonths adds n months to date. When the day does not exist in the
// target month it is clamped to the month's last day, so Jan 31 + 1 month is
// Feb 28 (Feb 29 in leap years) while Jan 31 + 2 months is still Mar 31.
// time.AddDate is not used because it rolls Jan 31 + 1 month over into March.
func AddCalendarMonths(date time.Time, n int) time.Time {
	d := CivilDate(date)
	year, month, day := d.Date()

	idx := int(month) - 1 + n
	yearShift := idx / 12
	idx %= 12
	if idx < 0 {
		idx += 12
		yearShift--
	}
	year += yearShift
	month = time.Month(idx + 1)

	if last := daysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// MonthsElapsed is the largest m >= 0 with AddCalendarMonths(ref, m) <= now.
func MonthsElapsed(ref, now time.Time) int {
	ref, now = CivilDate(ref), CivilDate(now)
	if now.Before(ref) {
		return 0
	}

	ry, rm, _ := ref.Date()
	ny, nm, _ := now.Date()
	m := (ny-ry)*12 + int(nm) - int(rm)
	// m months lands in now's month; step back once if that day is still ahead
	for m > 0 && AddCalendarMonths(ref, m).After(now) {
		m--
	}
	return m
}

// DaysSince counts whole calendar days from ref to now, never below zero.
func DaysSince(ref, now time.Time) int {
	days := int(CivilDate(now).Sub(CivilDate(ref)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// ComputeDue derives the due summary for in as of now. It has no side effects
// and accepts any rent or residual, including zero rent and negative residuals.
func ComputeDue(in DueInput, now time.Time) DueSummary {
	ref := in.JoinDate
	if in.LastPaidDate != nil {
		ref = *in.LastPaidDate
	}

	months := MonthsElapsed(ref, now)
	summary := DueSummary{
		MonthsElapsed:        months,
		DaysSinceLastPayment: DaysSince(ref, now),
		IsOverdue:            in.LastPaidDate == nil || months > 0,
	}

	if in.LastPaidDate == nil {
		// nothing paid yet: the first month is due on the join date itself
		summary.CurrentDue = in.DueAmount + (months+1)*in.RentAmount
	} else {
		summary.CurrentDue = in.DueAmount + months*in.RentAmount
	}
	return summary
}
