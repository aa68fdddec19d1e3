// Package services provides the ledger, budget, goal and dashboard operations
// on top of the record store.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"finassist/internal/amqp"
	"finassist/internal/core"
	"finassist/internal/forecast"
	"finassist/internal/log"
	"finassist/internal/records"
	"finassist/internal/sentiment"
)

// EventPublisher announces stored transactions to other processes.
type EventPublisher interface {
	PublishTransactionRecorded(ctx context.Context, msg *amqp.TransactionRecordedMessage) error
	Close() error
}

// LedgerService orchestrates ledger operations over the record store, the
// forecaster and the optional event publisher.
type LedgerService struct {
	store      records.Store
	publisher  EventPublisher
	forecaster *forecast.Forecaster
	logger     *log.Logger
}

type Option func(*LedgerService)

// WithPublisher enables change events. A nil publisher leaves them disabled.
func WithPublisher(p EventPublisher) Option {
	return func(s *LedgerService) { s.publisher = p }
}

func WithForecaster(f *forecast.Forecaster) Option {
	return func(s *LedgerService) {
		if f != nil {
			s.forecaster = f
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *LedgerService) {
		if l != nil {
			s.logger = l.WithComponent(log.ComponentLedger)
		}
	}
}

func NewLedgerService(store records.Store, opts ...Option) *LedgerService {
	s := &LedgerService{
		store:      store,
		forecaster: forecast.New(),
		logger:     log.Wrap(nil, log.ComponentLedger),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// RecordTransaction validates and stores tx under kind, then publishes a
// transaction.recorded event. Publishing problems are logged only.
func (s *LedgerService) RecordTransaction(ctx context.Context, kind core.Kind, tx core.Transaction) (core.Transaction, error) {
	tx.Kind = kind
	tx.Tag = strings.TrimSpace(tx.Tag)
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	saved, err := s.store.AppendTransaction(ctx, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save %s: %w", kind, err)
	}

	log.NewStructuredLogger(s.logger).LogTransactionRecorded(ctx, kind.String(), saved.ID, saved.Date, saved.Amount.Cents, saved.Tag)

	if err := s.publish(ctx, saved); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish transaction event",
			log.FieldKind, kind, log.FieldRecordID, saved.ID, log.FieldError, err)
	}
	return saved, nil
}

func (s *LedgerService) publish(ctx context.Context, tx core.Transaction) error {
	if s.publisher == nil {
		s.logger.DebugContext(ctx, "AMQP publisher not configured, skipping event")
		return nil
	}
	return s.publisher.PublishTransactionRecorded(ctx, amqp.NewTransactionRecordedMessage(tx))
}

func (s *LedgerService) ListTransactions(ctx context.Context, kind core.Kind) ([]core.Transaction, error) {
	if err := kind.Validate(); err != nil {
		return nil, err
	}
	txs, err := s.store.ListTransactions(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	return txs, nil
}

// Forecast reads every record of kind and predicts the month after now.
func (s *LedgerService) Forecast(ctx context.Context, kind core.Kind, now time.Time) (core.ForecastResult, error) {
	txs, err := s.ListTransactions(ctx, kind)
	if err != nil {
		year, month := forecast.NextMonth(now)
		return core.ForecastResult{TargetYear: year, TargetMonth: month}, err
	}
	return s.forecaster.ForecastRecords(txs, now)
}

// ForecastNextMonth is Forecast for display: it never fails and reports 0
// whenever the forecast cannot be produced.
func (s *LedgerService) ForecastNextMonth(ctx context.Context, kind core.Kind, now time.Time) float64 {
	res, err := s.Forecast(ctx, kind, now)
	if err != nil {
		s.logger.WarnContext(ctx, "Forecast unavailable, reporting zero",
			log.NewFields().WithOperation(log.OpForecast).WithError(err).ToSlice()...)
		return 0
	}
	s.logger.DebugContext(ctx, "Forecast computed",
		log.NewFields().WithForecast(kind.String(), res.TargetYear, res.TargetMonth, res.PredictedTotal.StringFixed(2)).ToSlice()...)
	return res.PredictedTotal.InexactFloat64()
}

// SetBudget replaces the limit for b.Month.
func (s *LedgerService) SetBudget(ctx context.Context, b core.Budget) error {
	b.Month = strings.TrimSpace(b.Month)
	if err := b.Validate(); err != nil {
		return err
	}
	if err := s.store.SetBudget(ctx, b); err != nil {
		return fmt.Errorf("set budget: %w", err)
	}
	s.logger.InfoContext(ctx, "Budget set", log.FieldMonth, b.Month, log.FieldAmountCents, b.Limit.Cents)
	return nil
}

// GetBudget returns records.ErrNotFound when no budget exists for month.
func (s *LedgerService) GetBudget(ctx context.Context, month string) (core.Budget, error) {
	if _, err := core.ParseMonth(month); err != nil {
		return core.Budget{}, err
	}
	return s.store.GetBudget(ctx, month)
}

// AddSavingsGoal creates a goal starting from zero.
func (s *LedgerService) AddSavingsGoal(ctx context.Context, g core.SavingsGoal) (core.SavingsGoal, error) {
	g.Name = strings.TrimSpace(g.Name)
	g.Current = core.Money{}
	if err := g.Validate(); err != nil {
		return core.SavingsGoal{}, err
	}
	created, err := s.store.CreateGoal(ctx, g)
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("create goal: %w", err)
	}
	s.logger.InfoContext(ctx, "Savings goal created", log.FieldGoal, created.Name, log.FieldAmountCents, created.Target.Cents)
	return created, nil
}

// ContributeToGoal adds amount to the named goal. Unknown names return
// records.ErrNotFound.
func (s *LedgerService) ContributeToGoal(ctx context.Context, name string, amount core.Money) (core.SavingsGoal, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.SavingsGoal{}, core.ErrEmptyGoalName
	}
	if !amount.IsPositive() {
		return core.SavingsGoal{}, core.ErrInvalidAmount
	}
	g, err := s.store.AddToGoal(ctx, name, amount)
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("contribute to goal: %w", err)
	}
	return g, nil
}

// ListGoals returns every goal with its progress as of now.
func (s *LedgerService) ListGoals(ctx context.Context, now time.Time) ([]core.GoalProgress, error) {
	goals, err := s.store.ListGoals(ctx)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	out := make([]core.GoalProgress, len(goals))
	for i, g := range goals {
		out[i] = core.GoalProgress{Goal: g, Percent: g.Progress(), DaysRemaining: g.DaysRemaining(now)}
	}
	return out, nil
}

// LogSentiment scores text and stores the result dated now.
func (s *LedgerService) LogSentiment(ctx context.Context, text string, now time.Time) (core.SentimentEntry, sentiment.Band, error) {
	if strings.TrimSpace(text) == "" {
		return core.SentimentEntry{}, "", sentiment.ErrEmptyText
	}
	score := sentiment.Score(text)
	entry, err := s.store.AppendSentiment(ctx, core.SentimentEntry{
		Date:   now.Format(core.DateLayout),
		Score:  score,
		Source: "user",
	})
	if err != nil {
		return core.SentimentEntry{}, "", fmt.Errorf("save sentiment: %w", err)
	}
	return entry, sentiment.Classify(score), nil
}

// ListSentiment returns every stored mood entry, oldest first.
func (s *LedgerService) ListSentiment(ctx context.Context) ([]core.SentimentEntry, error) {
	entries, err := s.store.ListSentiment(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sentiment: %w", err)
	}
	return entries, nil
}

// Ping checks the record store.
func (s *LedgerService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// Close closes the store and the publisher.
func (s *LedgerService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %w", errors.Join(errs...))
	}
	return nil
}
