package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"finassist/internal/amqp"
	"finassist/internal/core"
	"finassist/internal/log"
	"finassist/internal/records"
)

// Ledger is the read side of the record store the watcher needs.
type Ledger interface {
	ListTransactions(ctx context.Context, kind core.Kind) ([]core.Transaction, error)
	GetBudget(ctx context.Context, month string) (core.Budget, error)
}

// AlertLevel grades how much of a month's budget has been spent.
type AlertLevel int

const (
	AlertNone AlertLevel = iota
	AlertWarn
	AlertOver
)

func (l AlertLevel) String() string {
	switch l {
	case AlertWarn:
		return "warn"
	case AlertOver:
		return "over_budget"
	default:
		return "none"
	}
}

// BudgetCheck is the outcome of comparing one month's spending with its budget.
type BudgetCheck struct {
	Month     string
	Spent     core.Money
	Limit     core.Money
	HasBudget bool
	Ratio     float64
	Level     AlertLevel
}

// BudgetWatcher reacts to recorded expenses by checking the month's budget.
type BudgetWatcher struct {
	ledger    Ledger
	warnRatio float64
	logger    *log.Logger
}

func NewBudgetWatcher(ledger Ledger, warnRatio float64, logger *log.Logger) *BudgetWatcher {
	if logger == nil {
		logger = log.Wrap(nil, log.ComponentWorker)
	}
	return &BudgetWatcher{
		ledger:    ledger,
		warnRatio: warnRatio,
		logger:    logger.WithComponent(log.ComponentWorker),
	}
}

// HandleTransactionRecorded is the AMQP handler. Income events are ignored.
// Store errors are returned so the message is requeued.
func (w *BudgetWatcher) HandleTransactionRecorded(ctx context.Context, msg *amqp.TransactionRecordedMessage) error {
	w.logger.DebugContext(ctx, "Processing transaction event",
		log.FieldMessageID, msg.MessageID, log.FieldKind, msg.Kind, log.FieldRecordID, msg.ID)

	if msg.Kind != core.KindExpense {
		return nil
	}

	month, err := msg.Month()
	if err != nil {
		// Redelivery cannot fix a bad date.
		w.logger.WarnContext(ctx, "Dropping event with malformed date",
			log.FieldMessageID, msg.MessageID, log.FieldDate, msg.Date, log.FieldError, err)
		return nil
	}

	if _, err := w.Check(ctx, month); err != nil {
		return fmt.Errorf("check budget %s: %w", month, err)
	}
	return nil
}

// StartupCheck runs the check for the month containing now, so an existing
// overrun is reported even before the first event arrives.
func (w *BudgetWatcher) StartupCheck(ctx context.Context, now time.Time) error {
	_, err := w.Check(ctx, core.FormatMonth(now))
	return err
}

// Check sums the month's expenses and logs an alert when they cross the warn
// ratio or the limit itself. Months without a budget, or with a zero limit,
// never alert.
func (w *BudgetWatcher) Check(ctx context.Context, month string) (BudgetCheck, error) {
	res := BudgetCheck{Month: month}

	budget, err := w.ledger.GetBudget(ctx, month)
	switch {
	case errors.Is(err, records.ErrNotFound):
		w.logger.DebugContext(ctx, "No budget for month", log.FieldMonth, month)
		return res, nil
	case err != nil:
		return res, fmt.Errorf("get budget: %w", err)
	}
	res.HasBudget = true
	res.Limit = budget.Limit

	expenses, err := w.ledger.ListTransactions(ctx, core.KindExpense)
	if err != nil {
		return res, fmt.Errorf("list expenses: %w", err)
	}
	for _, tx := range expenses {
		t, err := tx.Time()
		if err != nil {
			continue
		}
		if core.FormatMonth(t) == month {
			res.Spent = res.Spent.Add(tx.Amount)
		}
	}

	if !budget.Limit.IsPositive() {
		return res, nil
	}
	res.Ratio, _ = res.Spent.Decimal().Div(budget.Limit.Decimal()).Float64()
	res.Level = w.level(res.Ratio)

	if res.Level == AlertNone {
		return res, nil
	}
	lvl := slog.LevelWarn
	msg := "Budget nearly spent"
	if res.Level == AlertOver {
		lvl = slog.LevelError
		msg = "Budget exceeded"
	}
	w.logger.Log(ctx, lvl, msg,
		log.FieldMonth, month,
		log.FieldAmountCents, res.Spent.Cents,
		"limit_cents", budget.Limit.Cents,
		log.FieldRatio, decimal.NewFromFloat(res.Ratio).StringFixed(2))
	return res, nil
}

func (w *BudgetWatcher) level(ratio float64) AlertLevel {
	switch {
	case ratio > 1:
		return AlertOver
	case ratio > w.warnRatio:
		return AlertWarn
	default:
		return AlertNone
	}
}
