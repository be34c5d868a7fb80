package core

import "sort"

// Totals is a derived snapshot of the loaded donation list. It is
// recomputed from the full list on every render, never stored.
type Totals struct {
	All   Money
	Today Money
}

// Total sums every record's amount, regardless of list order.
func Total(donations []Donation) Money {
	var sum int64
	for _, d := range donations {
		sum += d.Amount.Satang
	}
	return Money{Satang: sum}
}

// TotalOn sums amounts whose donation date falls on the given calendar
// day. A record dated yesterday or tomorrow contributes nothing.
func TotalOn(donations []Donation, day Date) Money {
	var sum int64
	for _, d := range donations {
		if d.Date.SameDay(day) {
			sum += d.Amount.Satang
		}
	}
	return Money{Satang: sum}
}

// Summarize computes the all-time and today's totals in one pass.
func Summarize(donations []Donation, today Date) Totals {
	return Totals{All: Total(donations), Today: TotalOn(donations, today)}
}

// SortByDateDesc sorts donations by date descending, in place. The sort is
// stable, so same-day records keep their relative order.
func SortByDateDesc(donations []Donation) {
	sort.SliceStable(donations, func(i, j int) bool {
		return donations[i].Date.After(donations[j].Date.Time)
	})
}

// Recent returns up to n donations from the front of the list. Callers
// sort first when they need the newest records.
func Recent(donations []Donation, n int) []Donation {
	if len(donations) <= n {
		return donations
	}
	return donations[:n]
}
