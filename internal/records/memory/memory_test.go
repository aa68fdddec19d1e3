package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"finassist/internal/core"
	"finassist/internal/records"
)

func TestMemoryStoreAppendAndList(t *testing.T) {
	s := New()
	ctx := context.Background()

	got, err := s.AppendTransaction(ctx, core.Transaction{Kind: core.KindExpense, Date: "2024-01-15", Amount: core.Money{Cents: 123}, Tag: "Dining"})
	if err != nil || got.ID != 1 {
		t.Fatalf("unexpected append: %+v err=%v", got, err)
	}
	if _, err := s.AppendTransaction(ctx, core.Transaction{Kind: core.KindIncome, Date: "2024-01-16", Amount: core.Money{Cents: 500}, Tag: "Salary"}); err != nil {
		t.Fatalf("append income: %v", err)
	}

	exp, _ := s.ListTransactions(ctx, core.KindExpense)
	inc, _ := s.ListTransactions(ctx, core.KindIncome)
	if len(exp) != 1 || len(inc) != 1 || inc[0].Tag != "Salary" {
		t.Fatalf("unexpected lists: exp=%v inc=%v", exp, inc)
	}

	// Returned slices are copies.
	exp[0].Tag = "mutated"
	again, _ := s.ListTransactions(ctx, core.KindExpense)
	if again[0].Tag != "Dining" {
		t.Fatalf("store leaked internal slice")
	}

	if _, err := s.AppendTransaction(ctx, core.Transaction{Kind: core.KindExpense, Date: "bad", Amount: core.Money{Cents: 1}, Tag: "x"}); !errors.Is(err, core.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestMemoryStoreBudgetUpsert(t *testing.T) {
	s := New()
	ctx := context.Background()
	if _, err := s.GetBudget(ctx, "2024-01"); !errors.Is(err, records.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	_ = s.SetBudget(ctx, core.Budget{Month: "2024-01", Limit: core.Money{Cents: 1000}})
	_ = s.SetBudget(ctx, core.Budget{Month: "2024-01", Limit: core.Money{Cents: 2000}})
	b, err := s.GetBudget(ctx, "2024-01")
	if err != nil || b.Limit.Cents != 2000 {
		t.Fatalf("expected replaced limit, got %+v err=%v", b, err)
	}
}

func TestMemoryStoreGoals(t *testing.T) {
	s := New()
	ctx := context.Background()
	g := core.SavingsGoal{Name: "Trip", Target: core.Money{Cents: 10000}, TargetDate: "2025-06-01"}
	if _, err := s.CreateGoal(ctx, g); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.CreateGoal(ctx, g); !errors.Is(err, records.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	_, _ = s.AddToGoal(ctx, "Trip", core.Money{Cents: 1500})
	got, err := s.AddToGoal(ctx, "Trip", core.Money{Cents: 500})
	if err != nil || got.Current.Cents != 2000 {
		t.Fatalf("expected accumulated 2000, got %+v err=%v", got, err)
	}
	if _, err := s.AddToGoal(ctx, "Car", core.Money{Cents: 1}); !errors.Is(err, records.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreClose(t *testing.T) {
	s := New()
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
	_ = s.Close()
	if err := s.Ping(context.Background()); err == nil {
		t.Fatalf("expected error after close")
	}
	if _, err := s.ListTransactions(context.Background(), core.KindExpense); err == nil {
		t.Fatalf("expected error after close")
	}
}

func TestSeedKeepsMalformedRecords(t *testing.T) {
	s := New()
	s.Seed(core.Transaction{Kind: core.KindExpense, Date: "not-a-date", Amount: core.Money{Cents: 1}, Tag: "x"})
	got, _ := s.ListTransactions(context.Background(), core.KindExpense)
	if len(got) != 1 || got[0].Date != "not-a-date" {
		t.Fatalf("unexpected seeded records: %v", got)
	}
}

func TestNewTaxonomyFromFilesSeedsAndDedupe(t *testing.T) {
	dir := t.TempDir()
	// No files -> defaults
	tx := NewTaxonomyFromFiles(dir)
	cats, srcs, _ := tx.ListTaxonomy(context.Background())
	if len(cats) != len(defaultCategories) || len(srcs) != len(defaultSources) {
		t.Fatalf("expected defaults when files missing")
	}

	mustWrite := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	mustWrite("seed_categories.txt", "# header\nGroceries\nRent\nGroceries\n\n")
	mustWrite("seed_sources.txt", "# header\nSalary\nSalary\nGift\n\n")

	tx = NewTaxonomyFromFiles(dir)
	cats, srcs, _ = tx.ListTaxonomy(context.Background())
	if len(cats) != 2 || cats[0] != "Groceries" || cats[1] != "Rent" {
		t.Fatalf("unexpected cats: %v", cats)
	}
	if len(srcs) != 2 || srcs[0] != "Salary" || srcs[1] != "Gift" {
		t.Fatalf("unexpected sources: %v", srcs)
	}
}
