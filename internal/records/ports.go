// Package records defines the record store ports consumed by the ledger.
package records

import (
	"context"
	"errors"

	"finassist/internal/core"
)

var (
	// ErrNotFound is returned when a budget month or goal does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when creating a goal whose name is taken.
	ErrDuplicate = errors.New("already exists")
)

// Ports for outbound adapters.
type (
	TransactionWriter interface {
		// AppendTransaction stores tx and returns it with its assigned ID.
		AppendTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error)
	}

	// TransactionLister returns every record of a kind, ordered by ID.
	TransactionLister interface {
		ListTransactions(ctx context.Context, kind core.Kind) ([]core.Transaction, error)
	}

	BudgetStore interface {
		// SetBudget replaces any existing limit for the month.
		SetBudget(ctx context.Context, b core.Budget) error
		GetBudget(ctx context.Context, month string) (core.Budget, error)
	}

	GoalStore interface {
		CreateGoal(ctx context.Context, g core.SavingsGoal) (core.SavingsGoal, error)
		// AddToGoal increments the goal's current amount.
		AddToGoal(ctx context.Context, name string, amount core.Money) (core.SavingsGoal, error)
		ListGoals(ctx context.Context) ([]core.SavingsGoal, error)
	}

	SentimentStore interface {
		AppendSentiment(ctx context.Context, e core.SentimentEntry) (core.SentimentEntry, error)
		ListSentiment(ctx context.Context) ([]core.SentimentEntry, error)
	}

	// TaxonomyReader lists the selectable expense categories and income sources.
	TaxonomyReader interface {
		ListTaxonomy(ctx context.Context) (categories []string, sources []string, err error)
	}

	// Store is the full record store with an explicit lifecycle.
	Store interface {
		TransactionWriter
		TransactionLister
		BudgetStore
		GoalStore
		SentimentStore
		Ping(ctx context.Context) error
		Close() error
	}
)
