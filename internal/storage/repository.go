package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"finassist/internal/core"
	"finassist/internal/records"

	_ "modernc.org/sqlite"
)

// SQLiteRepository implements records.Store on a local SQLite file.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One writer; avoids SQLITE_BUSY between pooled connections.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// DB exposes the underlying handle for fixtures and maintenance.
func (r *SQLiteRepository) DB() *sql.DB {
	return r.db
}

// AppendTransaction implements records.TransactionWriter
func (r *SQLiteRepository) AppendTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	switch tx.Kind {
	case core.KindExpense:
		row, err := r.queries.CreateExpense(ctx, CreateExpenseParams{
			Date:        tx.Date,
			AmountCents: tx.Amount.Cents,
			Category:    tx.Tag,
		})
		if err != nil {
			return core.Transaction{}, fmt.Errorf("create expense: %w", err)
		}
		tx.ID = row.ID
	case core.KindIncome:
		row, err := r.queries.CreateIncome(ctx, CreateIncomeParams{
			Date:        tx.Date,
			AmountCents: tx.Amount.Cents,
			Source:      tx.Tag,
		})
		if err != nil {
			return core.Transaction{}, fmt.Errorf("create income: %w", err)
		}
		tx.ID = row.ID
	}

	slog.DebugContext(ctx, "Transaction saved to SQLite",
		"kind", tx.Kind,
		"id", tx.ID,
		"amount_cents", tx.Amount.Cents,
		"date", tx.Date)

	return tx, nil
}

// ListTransactions implements records.TransactionLister
func (r *SQLiteRepository) ListTransactions(ctx context.Context, kind core.Kind) ([]core.Transaction, error) {
	switch kind {
	case core.KindExpense:
		rows, err := r.queries.ListExpenses(ctx)
		if err != nil {
			return nil, fmt.Errorf("list expenses: %w", err)
		}
		out := make([]core.Transaction, len(rows))
		for i, e := range rows {
			out[i] = core.Transaction{ID: e.ID, Kind: kind, Date: e.Date, Amount: core.Money{Cents: e.AmountCents}, Tag: e.Category}
		}
		return out, nil
	case core.KindIncome:
		rows, err := r.queries.ListIncome(ctx)
		if err != nil {
			return nil, fmt.Errorf("list income: %w", err)
		}
		out := make([]core.Transaction, len(rows))
		for i, e := range rows {
			out[i] = core.Transaction{ID: e.ID, Kind: kind, Date: e.Date, Amount: core.Money{Cents: e.AmountCents}, Tag: e.Source}
		}
		return out, nil
	}
	return nil, kind.Validate()
}

// SetBudget implements records.BudgetStore
func (r *SQLiteRepository) SetBudget(ctx context.Context, b core.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if err := r.queries.UpsertBudget(ctx, UpsertBudgetParams{Month: b.Month, BudgetLimitCents: b.Limit.Cents}); err != nil {
		return fmt.Errorf("upsert budget: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetBudget(ctx context.Context, month string) (core.Budget, error) {
	row, err := r.queries.GetBudget(ctx, month)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, fmt.Errorf("budget %s: %w", month, records.ErrNotFound)
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("get budget: %w", err)
	}
	return core.Budget{Month: row.Month, Limit: core.Money{Cents: row.BudgetLimitCents}}, nil
}

// CreateGoal implements records.GoalStore
func (r *SQLiteRepository) CreateGoal(ctx context.Context, g core.SavingsGoal) (core.SavingsGoal, error) {
	if err := g.Validate(); err != nil {
		return core.SavingsGoal{}, err
	}
	row, err := r.queries.CreateSavingsGoal(ctx, CreateSavingsGoalParams{
		GoalName:           strings.TrimSpace(g.Name),
		TargetAmountCents:  g.Target.Cents,
		CurrentAmountCents: g.Current.Cents,
		TargetDate:         g.TargetDate,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return core.SavingsGoal{}, fmt.Errorf("goal %q: %w", g.Name, records.ErrDuplicate)
		}
		return core.SavingsGoal{}, fmt.Errorf("create savings goal: %w", err)
	}
	return goalFromRow(row), nil
}

func (r *SQLiteRepository) AddToGoal(ctx context.Context, name string, amount core.Money) (core.SavingsGoal, error) {
	if !amount.IsPositive() {
		return core.SavingsGoal{}, core.ErrInvalidAmount
	}
	row, err := r.queries.AddToSavingsGoal(ctx, AddToSavingsGoalParams{AmountCents: amount.Cents, GoalName: name})
	if errors.Is(err, sql.ErrNoRows) {
		return core.SavingsGoal{}, fmt.Errorf("goal %q: %w", name, records.ErrNotFound)
	}
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("update savings goal: %w", err)
	}
	return goalFromRow(row), nil
}

func (r *SQLiteRepository) ListGoals(ctx context.Context) ([]core.SavingsGoal, error) {
	rows, err := r.queries.ListSavingsGoals(ctx)
	if err != nil {
		return nil, fmt.Errorf("list savings goals: %w", err)
	}
	out := make([]core.SavingsGoal, len(rows))
	for i, g := range rows {
		out[i] = goalFromRow(g)
	}
	return out, nil
}

// AppendSentiment implements records.SentimentStore
func (r *SQLiteRepository) AppendSentiment(ctx context.Context, e core.SentimentEntry) (core.SentimentEntry, error) {
	row, err := r.queries.CreateSentiment(ctx, CreateSentimentParams{Date: e.Date, SentimentScore: e.Score, Source: e.Source})
	if err != nil {
		return core.SentimentEntry{}, fmt.Errorf("create sentiment: %w", err)
	}
	e.ID = row.ID
	return e, nil
}

func (r *SQLiteRepository) ListSentiment(ctx context.Context) ([]core.SentimentEntry, error) {
	rows, err := r.queries.ListSentiment(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sentiment: %w", err)
	}
	out := make([]core.SentimentEntry, len(rows))
	for i, s := range rows {
		out[i] = core.SentimentEntry{ID: s.ID, Date: s.Date, Score: s.SentimentScore, Source: s.Source}
	}
	return out, nil
}

// ListTaxonomy implements records.TaxonomyReader from the seeded categories table.
func (r *SQLiteRepository) ListTaxonomy(ctx context.Context) ([]string, []string, error) {
	cats, err := r.queries.ListCategoriesByKind(ctx, string(core.KindExpense))
	if err != nil {
		return nil, nil, fmt.Errorf("list expense categories: %w", err)
	}
	srcs, err := r.queries.ListCategoriesByKind(ctx, string(core.KindIncome))
	if err != nil {
		return nil, nil, fmt.Errorf("list income sources: %w", err)
	}
	return cats, srcs, nil
}

func goalFromRow(g SavingsGoal) core.SavingsGoal {
	return core.SavingsGoal{
		ID:         g.ID,
		Name:       g.GoalName,
		Target:     core.Money{Cents: g.TargetAmountCents},
		Current:    core.Money{Cents: g.CurrentAmountCents},
		TargetDate: g.TargetDate,
	}
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

var _ records.Store = (*SQLiteRepository)(nil)
