// Package forecast groups ledger records by calendar month and predicts the
// next month's total with a random-forest regressor.
package forecast

import (
	"sort"

	"finassist/internal/core"
)

type monthKey struct {
	year  int
	month int
}

// Aggregate sums records per (year, month) and returns the totals sorted
// ascending. An empty input yields an empty, non-nil slice. Any record with
// an unparseable date fails the whole call with core.ErrMalformedRecord.
func Aggregate(records []core.Transaction) ([]core.MonthlyTotal, error) {
	sums := make(map[monthKey]int64, len(records))
	for _, r := range records {
		d, err := r.Time()
		if err != nil {
			return nil, err
		}
		sums[monthKey{year: d.Year(), month: int(d.Month())}] += r.Amount.Cents
	}

	out := make([]core.MonthlyTotal, 0, len(sums))
	for k, cents := range sums {
		out = append(out, core.MonthlyTotal{Year: k.year, Month: k.month, Total: core.Money{Cents: cents}})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out, nil
}
