package memory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"finassist/internal/core"
	"finassist/internal/records"
)

var errClosed = errors.New("memory store closed")

// Store keeps every record in process memory.
type Store struct {
	mu        sync.Mutex
	closed    bool
	nextID    int64
	expenses  []core.Transaction
	income    []core.Transaction
	budgets   map[string]core.Budget
	goals     []core.SavingsGoal
	sentiment []core.SentimentEntry
}

func New() *Store {
	return &Store{budgets: map[string]core.Budget{}}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// AppendTransaction stores the record in the ledger of its kind.
func (s *Store) AppendTransaction(_ context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return core.Transaction{}, errClosed
	}
	tx.ID = s.id()
	switch tx.Kind {
	case core.KindExpense:
		s.expenses = append(s.expenses, tx)
	case core.KindIncome:
		s.income = append(s.income, tx)
	}
	return tx, nil
}

func (s *Store) ListTransactions(_ context.Context, kind core.Kind) ([]core.Transaction, error) {
	if err := kind.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, errClosed
	}
	src := s.expenses
	if kind == core.KindIncome {
		src = s.income
	}
	return append([]core.Transaction(nil), src...), nil
}

// Seed appends records as is, skipping validation. Used to load fixtures,
// including ones with malformed dates.
func (s *Store) Seed(txs ...core.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tx := range txs {
		tx.ID = s.id()
		if tx.Kind == core.KindIncome {
			s.income = append(s.income, tx)
		} else {
			s.expenses = append(s.expenses, tx)
		}
	}
}

func (s *Store) SetBudget(_ context.Context, b core.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}
	s.budgets[b.Month] = b
	return nil
}

func (s *Store) GetBudget(_ context.Context, month string) (core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return core.Budget{}, errClosed
	}
	b, ok := s.budgets[month]
	if !ok {
		return core.Budget{}, fmt.Errorf("budget %s: %w", month, records.ErrNotFound)
	}
	return b, nil
}

func (s *Store) CreateGoal(_ context.Context, g core.SavingsGoal) (core.SavingsGoal, error) {
	if err := g.Validate(); err != nil {
		return core.SavingsGoal{}, err
	}
	g.Name = strings.TrimSpace(g.Name)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return core.SavingsGoal{}, errClosed
	}
	for _, existing := range s.goals {
		if existing.Name == g.Name {
			return core.SavingsGoal{}, fmt.Errorf("goal %q: %w", g.Name, records.ErrDuplicate)
		}
	}
	g.ID = s.id()
	s.goals = append(s.goals, g)
	return g, nil
}

func (s *Store) AddToGoal(_ context.Context, name string, amount core.Money) (core.SavingsGoal, error) {
	if !amount.IsPositive() {
		return core.SavingsGoal{}, core.ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return core.SavingsGoal{}, errClosed
	}
	for i := range s.goals {
		if s.goals[i].Name == name {
			s.goals[i].Current = s.goals[i].Current.Add(amount)
			return s.goals[i], nil
		}
	}
	return core.SavingsGoal{}, fmt.Errorf("goal %q: %w", name, records.ErrNotFound)
}

func (s *Store) ListGoals(_ context.Context) ([]core.SavingsGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, errClosed
	}
	return append([]core.SavingsGoal(nil), s.goals...), nil
}

func (s *Store) AppendSentiment(_ context.Context, e core.SentimentEntry) (core.SentimentEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return core.SentimentEntry{}, errClosed
	}
	e.ID = s.id()
	s.sentiment = append(s.sentiment, e)
	return e, nil
}

func (s *Store) ListSentiment(_ context.Context) ([]core.SentimentEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, errClosed
	}
	return append([]core.SentimentEntry(nil), s.sentiment...), nil
}

func (s *Store) Ping(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

var _ records.Store = (*Store)(nil)
