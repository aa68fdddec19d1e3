package core

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	KindExpense Kind = "expense"
	KindIncome  Kind = "income"
)

// DateLayout is the canonical storage format for record dates.
const DateLayout = "2006-01-02"

// MonthLayout is the canonical format for budget months.
const MonthLayout = "2006-01"

// MaxNameLength bounds tags and goal names, in bytes.
const MaxNameLength = 100

type (
	// Kind selects the expense or income ledger.
	Kind string

	Money struct {
		Cents int64
	}

	// Transaction is a single dated, amount-bearing entry. Date holds the
	// stored text so that malformed values surface when the record is used.
	Transaction struct {
		ID     int64
		Kind   Kind
		Date   string
		Amount Money
		Tag    string // category for expenses, source for income
	}

	Budget struct {
		Month string // YYYY-MM
		Limit Money
	}

	SavingsGoal struct {
		ID         int64
		Name       string
		Target     Money
		Current    Money
		TargetDate string
	}

	SentimentEntry struct {
		ID     int64
		Date   string
		Score  float64
		Source string
	}
)

var (
	ErrMalformedRecord     = errors.New("malformed record")
	ErrForecastUnavailable = errors.New("forecast unavailable")

	ErrInvalidKind     = errors.New("invalid kind")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidMonth    = errors.New("invalid month")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrEmptyTag        = errors.New("empty tag")
	ErrTagTooLong      = errors.New("tag too long")
	ErrEmptyGoalName   = errors.New("empty goal name")
	ErrGoalNameTooLong = errors.New("goal name too long")
	ErrInvalidGoalDate = errors.New("invalid goal target date")
)

var dateLayouts = []string{
	DateLayout,
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParseKind accepts "expense", "expenses" and "income" case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "expense", "expenses":
		return KindExpense, nil
	case "income", "incomes":
		return KindIncome, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
}

func (k Kind) Validate() error {
	if k != KindExpense && k != KindIncome {
		return fmt.Errorf("%w: %q", ErrInvalidKind, string(k))
	}
	return nil
}

func (k Kind) String() string {
	return string(k)
}

// ParseDate parses a record date in any of the accepted layouts.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// ParseMonth parses a YYYY-MM budget month.
func ParseMonth(s string) (time.Time, error) {
	t, err := time.Parse(MonthLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	return t, nil
}

// FormatMonth renders the YYYY-MM key of t.
func FormatMonth(t time.Time) string {
	return t.Format(MonthLayout)
}

// Time parses the record's date.
func (t Transaction) Time() (time.Time, error) {
	d, err := ParseDate(t.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: transaction %d: %v", ErrMalformedRecord, t.ID, err)
	}
	return d, nil
}

// Validate rejects negative amounts. Zero is a valid record amount.
func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (m Money) IsPositive() bool {
	return m.Cents > 0
}

func (t Transaction) Validate() error {
	if err := t.Kind.Validate(); err != nil {
		return err
	}
	if _, err := ParseDate(t.Date); err != nil {
		return err
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Tag) == "" {
		return ErrEmptyTag
	}
	if len(t.Tag) > MaxNameLength {
		return fmt.Errorf("%w (max %d characters)", ErrTagTooLong, MaxNameLength)
	}
	return nil
}

func (b Budget) Validate() error {
	if _, err := ParseMonth(b.Month); err != nil {
		return err
	}
	// A zero limit is allowed; usage is reported as 0%.
	return b.Limit.Validate()
}

func (g SavingsGoal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyGoalName
	}
	if len(g.Name) > MaxNameLength {
		return fmt.Errorf("%w (max %d characters)", ErrGoalNameTooLong, MaxNameLength)
	}
	if !g.Target.IsPositive() {
		return ErrInvalidAmount
	}
	if _, err := ParseDate(g.TargetDate); err != nil {
		return ErrInvalidGoalDate
	}
	return nil
}

// Progress returns completion in percent, capped at 100.
func (g SavingsGoal) Progress() float64 {
	if g.Target.Cents <= 0 {
		return 0
	}
	p := float64(g.Current.Cents) / float64(g.Target.Cents)
	if p > 1 {
		p = 1
	}
	return p * 100
}

// DaysRemaining counts whole days from now until the target date.
// Unparseable target dates report 0.
func (g SavingsGoal) DaysRemaining(now time.Time) int {
	target, err := ParseDate(g.TargetDate)
	if err != nil {
		return 0
	}
	return int(math.Floor(target.Sub(now).Hours() / 24))
}
