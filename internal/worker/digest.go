package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"

	"finassist/internal/core"
	"finassist/internal/forecast"
	"finassist/internal/log"
)

// NextMonthForecaster predicts next month's total and never fails.
type NextMonthForecaster interface {
	ForecastNextMonth(ctx context.Context, kind core.Kind, now time.Time) float64
}

type DigestReport struct {
	TargetYear  int
	TargetMonth int
	Spend       decimal.Decimal
	Income      decimal.Decimal
	Savings     decimal.Decimal
}

// Digest logs the forecast for the coming month on a schedule.
type Digest struct {
	forecaster NextMonthForecaster
	logger     *log.Logger
	now        func() time.Time
}

func NewDigest(f NextMonthForecaster, logger *log.Logger) *Digest {
	if logger == nil {
		logger = log.Wrap(nil, log.ComponentDigest)
	}
	return &Digest{
		forecaster: f,
		logger:     logger.WithComponent(log.ComponentDigest),
		now:        time.Now,
	}
}

// Run computes and logs one digest.
func (d *Digest) Run(ctx context.Context) DigestReport {
	now := d.now()
	year, month := forecast.NextMonth(now)
	spend := decimal.NewFromFloat(d.forecaster.ForecastNextMonth(ctx, core.KindExpense, now)).Round(2)
	income := decimal.NewFromFloat(d.forecaster.ForecastNextMonth(ctx, core.KindIncome, now)).Round(2)
	r := DigestReport{
		TargetYear:  year,
		TargetMonth: month,
		Spend:       spend,
		Income:      income,
		Savings:     income.Sub(spend),
	}
	d.logger.InfoContext(ctx, "Forecast digest",
		log.FieldYear, r.TargetYear,
		log.FieldMonth, r.TargetMonth,
		"predicted_spend", r.Spend.StringFixed(2),
		"predicted_income", r.Income.StringFixed(2),
		"predicted_savings", r.Savings.StringFixed(2))
	return r
}

// Schedule runs the digest on spec until ctx is done, then waits for a
// running digest to finish.
func (d *Digest) Schedule(ctx context.Context, spec string) error {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() { d.Run(ctx) }); err != nil {
		return fmt.Errorf("schedule digest %q: %w", spec, err)
	}
	c.Start()
	d.logger.InfoContext(ctx, "Forecast digest scheduled", "schedule", spec)

	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}
