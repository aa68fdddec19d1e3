package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"finassist/internal/core"
	"finassist/internal/forecast"
	"finassist/internal/log"
	"finassist/internal/records"
)

const (
	RecReduceExpenses = "Reduce expenses by focusing on your largest spending categories"
	RecSaveMore       = "Try to save at least 20% of your income"
	RecNearBudget     = "You're approaching your budget limit - monitor spending carefully"
	RecHealthy        = "Your financial habits look healthy - keep it up!"
)

const recentPerKind = 5

type dated struct {
	tx   core.Transaction
	date time.Time
}

// Dashboard summarises the ledger as of now. Records with malformed dates
// are left out of the metrics; forecasts still see them and fall back to 0.
func (s *LedgerService) Dashboard(ctx context.Context, now time.Time) (core.Dashboard, error) {
	month := core.FormatMonth(now)
	d := core.Dashboard{Month: month}

	expenses, err := s.ListTransactions(ctx, core.KindExpense)
	if err != nil {
		return d, err
	}
	income, err := s.ListTransactions(ctx, core.KindIncome)
	if err != nil {
		return d, err
	}

	validExp := s.parseDates(ctx, expenses)
	validInc := s.parseDates(ctx, income)
	d.ExpenseCount, d.IncomeCount = len(expenses), len(income)

	for _, r := range validExp {
		d.TotalExpenses = d.TotalExpenses.Add(r.tx.Amount)
		if core.FormatMonth(r.date) == month {
			d.MonthlyExpenses = d.MonthlyExpenses.Add(r.tx.Amount)
		}
	}
	for _, r := range validInc {
		d.TotalIncome = d.TotalIncome.Add(r.tx.Amount)
		if core.FormatMonth(r.date) == month {
			d.MonthlyIncome = d.MonthlyIncome.Add(r.tx.Amount)
		}
	}
	d.NetWorth = d.TotalIncome.Sub(d.TotalExpenses)
	d.MonthlySavings = d.MonthlyIncome.Sub(d.MonthlyExpenses)

	budget, err := s.store.GetBudget(ctx, month)
	switch {
	case err == nil:
		usage := budgetUsage(budget, d.MonthlyExpenses)
		d.Budget = &usage
	case errors.Is(err, records.ErrNotFound):
	default:
		return d, fmt.Errorf("get budget: %w", err)
	}

	d.PredictedSpend = decimal.NewFromFloat(s.ForecastNextMonth(ctx, core.KindExpense, now)).Round(2)
	d.PredictedIncome = decimal.NewFromFloat(s.ForecastNextMonth(ctx, core.KindIncome, now)).Round(2)
	d.PredictedSavings = d.PredictedIncome.Sub(d.PredictedSpend)

	d.Recommendations = Recommendations(d.MonthlyIncome, d.MonthlyExpenses, d.Budget)
	d.Recent = recent(validExp, validInc)
	d.ByCategory = byTag(validExp)
	d.BySource = byTag(validInc)

	onlyTx := make([]core.Transaction, len(validExp))
	for i, r := range validExp {
		onlyTx[i] = r.tx
	}
	if trend, err := forecast.Aggregate(onlyTx); err == nil {
		d.MonthlyTrend = trend
	}

	goals, err := s.ListGoals(ctx, now)
	if err != nil {
		return d, err
	}
	d.Goals = goals
	return d, nil
}

func (s *LedgerService) parseDates(ctx context.Context, txs []core.Transaction) []dated {
	out := make([]dated, 0, len(txs))
	for _, tx := range txs {
		t, err := tx.Time()
		if err != nil {
			s.logger.WarnContext(ctx, "Skipping record with malformed date",
				log.FieldKind, tx.Kind, log.FieldRecordID, tx.ID, log.FieldError, err)
			continue
		}
		out = append(out, dated{tx: tx, date: t})
	}
	return out
}

// BudgetStatusFor classifies the used share of a budget in percent.
func BudgetStatusFor(usedPercent float64) core.BudgetStatus {
	switch {
	case usedPercent <= 80:
		return core.BudgetOnTrack
	case usedPercent > 100:
		return core.BudgetOverBudget
	default:
		return core.BudgetCloseToLimit
	}
}

func budgetUsage(b core.Budget, spent core.Money) core.BudgetUsage {
	var used float64
	if b.Limit.IsPositive() {
		used, _ = spent.Decimal().Div(b.Limit.Decimal()).Mul(decimal.NewFromInt(100)).Float64()
	}
	return core.BudgetUsage{
		Month:       b.Month,
		Limit:       b.Limit,
		UsedPercent: used,
		Remaining:   b.Limit.Sub(spent),
		Status:      BudgetStatusFor(used),
	}
}

// Recommendations returns the advice lines for the month, in order.
func Recommendations(monthlyIncome, monthlyExpenses core.Money, budget *core.BudgetUsage) []string {
	var recs []string
	savings := monthlyIncome.Sub(monthlyExpenses)
	if monthlyExpenses.Cents > monthlyIncome.Cents {
		recs = append(recs, RecReduceExpenses)
	}
	// savings < 20% of income, compared in cents*5 to stay in integers
	if savings.Cents*5 < monthlyIncome.Cents {
		recs = append(recs, RecSaveMore)
	}
	if budget != nil && budget.Limit.IsPositive() && monthlyExpenses.Cents*10 > budget.Limit.Cents*8 {
		recs = append(recs, RecNearBudget)
	}
	if len(recs) == 0 {
		recs = append(recs, RecHealthy)
	}
	return recs
}

// recent takes the last few recorded entries of each kind and orders them
// by date, newest first.
func recent(expenses, income []dated) []core.Transaction {
	tail := func(in []dated) []dated {
		if len(in) > recentPerKind {
			return in[len(in)-recentPerKind:]
		}
		return in
	}
	merged := append(append([]dated(nil), tail(expenses)...), tail(income)...)
	sort.SliceStable(merged, func(i, j int) bool { return merged[i].date.After(merged[j].date) })

	out := make([]core.Transaction, len(merged))
	for i, r := range merged {
		out[i] = r.tx
	}
	return out
}

// byTag sums amounts per tag, largest first.
func byTag(in []dated) []core.TagAmount {
	sums := map[string]int64{}
	for _, r := range in {
		sums[r.tx.Tag] += r.tx.Amount.Cents
	}
	out := make([]core.TagAmount, 0, len(sums))
	for tag, cents := range sums {
		out = append(out, core.TagAmount{Tag: tag, Amount: core.Money{Cents: cents}})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount.Cents != out[j].Amount.Cents {
			return out[i].Amount.Cents > out[j].Amount.Cents
		}
		return out[i].Tag < out[j].Tag
	})
	return out
}
