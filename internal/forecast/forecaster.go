package forecast

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"finassist/internal/core"
)

const (
	DefaultTrees = 100
	DefaultSeed  = 42
)

// Forecaster fits a fresh model on every call and keeps no state between
// calls. The zero value is not usable; construct with New.
type Forecaster struct {
	trees int
	seed  int64
}

type Option func(*Forecaster)

// WithTrees sets the ensemble size. Values below 1 are ignored.
func WithTrees(n int) Option {
	return func(f *Forecaster) {
		if n >= 1 {
			f.trees = n
		}
	}
}

func WithSeed(seed int64) Option {
	return func(f *Forecaster) { f.seed = seed }
}

func New(opts ...Option) *Forecaster {
	f := &Forecaster{trees: DefaultTrees, seed: DefaultSeed}
	for _, o := range opts {
		o(f)
	}
	return f
}

// NextMonth returns the month after now. December wraps to January of the
// same year; callers rely on this and tests pin it.
func NextMonth(now time.Time) (year, month int) {
	return now.Year(), int(now.Month())%12 + 1
}

// Forecast predicts the total for the month after now. Empty totals predict
// zero. Predictions are rounded to two decimal places.
func (f *Forecaster) Forecast(totals []core.MonthlyTotal, now time.Time) (core.ForecastResult, error) {
	year, month := NextMonth(now)
	res := core.ForecastResult{TargetYear: year, TargetMonth: month, PredictedTotal: decimal.Zero}
	if len(totals) == 0 {
		return res, nil
	}

	xs := make([][numFeatures]float64, len(totals))
	ys := make([]float64, len(totals))
	for i, mt := range totals {
		if mt.Month < 1 || mt.Month > 12 {
			return res, fmt.Errorf("%w: month %d out of range", core.ErrForecastUnavailable, mt.Month)
		}
		xs[i] = [numFeatures]float64{float64(mt.Year), float64(mt.Month)}
		ys[i] = float64(mt.Total.Cents)
	}

	model := fitForest(xs, ys, f.trees, f.seed)
	cents := model.predict([numFeatures]float64{float64(year), float64(month)})
	if math.IsNaN(cents) || math.IsInf(cents, 0) {
		return res, fmt.Errorf("%w: non-finite prediction", core.ErrForecastUnavailable)
	}
	res.PredictedTotal = decimal.NewFromFloat(cents).Shift(-2).Round(2)
	return res, nil
}

// ForecastRecords aggregates records and forecasts the following month.
func (f *Forecaster) ForecastRecords(records []core.Transaction, now time.Time) (core.ForecastResult, error) {
	totals, err := Aggregate(records)
	if err != nil {
		year, month := NextMonth(now)
		return core.ForecastResult{TargetYear: year, TargetMonth: month, PredictedTotal: decimal.Zero}, err
	}
	return f.Forecast(totals, now)
}
