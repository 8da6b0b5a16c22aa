// Package recurrence computes due dates for monthly recurring definitions.
// It is a pure function of its inputs so cadence logic can be tested without
// any database state.
package recurrence

import (
	"time"

	"github.com/fincast/fincast/internal/core/domain"
)

// OccurrenceOn returns the due date of a day-of-month cadence within the given
// month, clamping to the last day when the month is shorter than dueDay
// (e.g. due day 31 falls on Feb 28 in a non-leap year).
func OccurrenceOn(year int, month time.Month, dueDay int) domain.Date {
	first := domain.NewDate(year, month, 1)
	day := dueDay
	if last := first.DaysInMonth(); day > last {
		day = last
	}
	return domain.NewDate(year, month, day)
}

// Between enumerates every occurrence of def strictly after `from` and up to
// and including `to`, in ascending order. A zero `from` means the definition
// has never been processed, in which case enumeration starts at the first
// occurrence on or before `to` that falls after the zero date — practically,
// the first due day not after `to`.
//
// The (from, to] window is what makes scheduler processing idempotent: a date
// covered by last-processed is never enumerated again.
func Between(def domain.RecurringDefinition, from, to domain.Date) []domain.Date {
	if to.IsZero() || (!from.IsZero() && !from.Before(to)) {
		return nil
	}

	var out []domain.Date
	year, month := startMonth(from, to)
	for {
		occ := OccurrenceOn(year, month, def.DueDay)
		if occ.After(to) {
			break
		}
		if from.IsZero() || occ.After(from) {
			out = append(out, occ)
		}
		year, month = nextMonth(year, month)
	}
	return out
}

func startMonth(from, to domain.Date) (int, time.Month) {
	if from.IsZero() {
		return to.Year, to.Month
	}
	return from.Year, from.Month
}

func nextMonth(year int, month time.Month) (int, time.Month) {
	if month == time.December {
		return year + 1, time.January
	}
	return year, month + 1
}
