package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"finassist/internal/core"
	"finassist/internal/records"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "nested", "finance.db"))
	if err != nil {
		t.Fatalf("open repo: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestMigrationsApplyOnFreshFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finance.db")
	if err := RunMigrations(path); err != nil {
		t.Fatalf("first run: %v", err)
	}
	// Second run is a no-op.
	if err := RunMigrations(path); err != nil {
		t.Fatalf("second run: %v", err)
	}
}

func TestRepositoryTransactions(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	e, err := repo.AppendTransaction(ctx, core.Transaction{Kind: core.KindExpense, Date: "2024-01-15", Amount: core.Money{Cents: 10000}, Tag: "Groceries"})
	if err != nil || e.ID == 0 {
		t.Fatalf("append expense: %+v err=%v", e, err)
	}
	if _, err := repo.AppendTransaction(ctx, core.Transaction{Kind: core.KindExpense, Date: "2024-01-20", Amount: core.Money{Cents: 5000}, Tag: "Dining"}); err != nil {
		t.Fatalf("append expense: %v", err)
	}
	if _, err := repo.AppendTransaction(ctx, core.Transaction{Kind: core.KindIncome, Date: "2024-01-01", Amount: core.Money{Cents: 300000}, Tag: "Salary"}); err != nil {
		t.Fatalf("append income: %v", err)
	}

	exp, err := repo.ListTransactions(ctx, core.KindExpense)
	if err != nil || len(exp) != 2 {
		t.Fatalf("list expenses: %v err=%v", exp, err)
	}
	if exp[0].Tag != "Groceries" || exp[1].Amount.Cents != 5000 || exp[0].Kind != core.KindExpense {
		t.Fatalf("unexpected expenses: %+v", exp)
	}
	inc, err := repo.ListTransactions(ctx, core.KindIncome)
	if err != nil || len(inc) != 1 || inc[0].Tag != "Salary" {
		t.Fatalf("list income: %v err=%v", inc, err)
	}

	if _, err := repo.AppendTransaction(ctx, core.Transaction{Kind: core.KindExpense, Date: "2024-01-01", Amount: core.Money{Cents: 1}, Tag: ""}); !errors.Is(err, core.ErrEmptyTag) {
		t.Fatalf("expected ErrEmptyTag, got %v", err)
	}
}

func TestRepositoryKeepsMalformedStoredDates(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	if _, err := repo.DB().ExecContext(ctx, `INSERT INTO expenses (date, amount_cents, category) VALUES ('not-a-date', 100, 'Other')`); err != nil {
		t.Fatalf("insert fixture: %v", err)
	}
	got, err := repo.ListTransactions(ctx, core.KindExpense)
	if err != nil || len(got) != 1 || got[0].Date != "not-a-date" {
		t.Fatalf("unexpected list: %v err=%v", got, err)
	}
	if _, err := got[0].Time(); !errors.Is(err, core.ErrMalformedRecord) {
		t.Fatalf("expected ErrMalformedRecord, got %v", err)
	}
}

func TestRepositoryBudgetUpsert(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.GetBudget(ctx, "2024-02"); !errors.Is(err, records.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.SetBudget(ctx, core.Budget{Month: "2024-02", Limit: core.Money{Cents: 100000}}); err != nil {
		t.Fatalf("set budget: %v", err)
	}
	if err := repo.SetBudget(ctx, core.Budget{Month: "2024-02", Limit: core.Money{Cents: 50000}}); err != nil {
		t.Fatalf("replace budget: %v", err)
	}
	b, err := repo.GetBudget(ctx, "2024-02")
	if err != nil || b.Limit.Cents != 50000 {
		t.Fatalf("expected replaced limit, got %+v err=%v", b, err)
	}

	var rows int
	if err := repo.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM budget`).Scan(&rows); err != nil || rows != 1 {
		t.Fatalf("expected one budget row, got %d err=%v", rows, err)
	}
}

func TestRepositoryGoals(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	g := core.SavingsGoal{Name: "Emergency Fund", Target: core.Money{Cents: 500000}, TargetDate: "2025-12-31"}
	created, err := repo.CreateGoal(ctx, g)
	if err != nil || created.ID == 0 || created.Current.Cents != 0 {
		t.Fatalf("create goal: %+v err=%v", created, err)
	}
	if _, err := repo.CreateGoal(ctx, g); !errors.Is(err, records.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	if _, err := repo.AddToGoal(ctx, "Emergency Fund", core.Money{Cents: 10000}); err != nil {
		t.Fatalf("contribute: %v", err)
	}
	updated, err := repo.AddToGoal(ctx, "Emergency Fund", core.Money{Cents: 2500})
	if err != nil || updated.Current.Cents != 12500 {
		t.Fatalf("expected accumulated 12500, got %+v err=%v", updated, err)
	}
	if _, err := repo.AddToGoal(ctx, "Vacation", core.Money{Cents: 1}); !errors.Is(err, records.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	goals, err := repo.ListGoals(ctx)
	if err != nil || len(goals) != 1 || goals[0].Name != "Emergency Fund" {
		t.Fatalf("list goals: %v err=%v", goals, err)
	}
}

func TestRepositorySentimentAndTaxonomy(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.AppendSentiment(ctx, core.SentimentEntry{Date: "2024-03-01", Score: -0.4, Source: "user"}); err != nil {
		t.Fatalf("append sentiment: %v", err)
	}
	entries, err := repo.ListSentiment(ctx)
	if err != nil || len(entries) != 1 || entries[0].Score != -0.4 {
		t.Fatalf("list sentiment: %v err=%v", entries, err)
	}

	cats, srcs, err := repo.ListTaxonomy(ctx)
	if err != nil {
		t.Fatalf("taxonomy: %v", err)
	}
	if len(cats) != 12 || cats[0] != "Groceries" || len(srcs) != 8 || srcs[0] != "Salary" {
		t.Fatalf("unexpected taxonomy: %v %v", cats, srcs)
	}

	if err := repo.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
}
