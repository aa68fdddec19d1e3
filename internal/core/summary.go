package core

import "github.com/shopspring/decimal"

// MonthlyTotal is the sum of amounts for one calendar year+month.
type MonthlyTotal struct {
	Year  int
	Month int // 1-12
	Total Money
}

// ForecastResult is a predicted total for a target month. Never persisted.
type ForecastResult struct {
	TargetYear     int
	TargetMonth    int
	PredictedTotal decimal.Decimal
}

// TagAmount represents an amount aggregated by category or source.
type TagAmount struct {
	Tag    string
	Amount Money
}

// BudgetStatus classifies how much of a monthly budget is consumed.
type BudgetStatus string

const (
	BudgetOnTrack      BudgetStatus = "on_track"
	BudgetCloseToLimit BudgetStatus = "close_to_limit"
	BudgetOverBudget   BudgetStatus = "over_budget"
)

// BudgetUsage summarises the current month against its budget.
type BudgetUsage struct {
	Month       string
	Limit       Money
	UsedPercent float64
	Remaining   Money
	Status      BudgetStatus
}

// GoalProgress is a savings goal with derived progress figures.
type GoalProgress struct {
	Goal          SavingsGoal
	Percent       float64
	DaysRemaining int
}

// Dashboard is a compact summary of the ledger as of a given day.
type Dashboard struct {
	Month            string // YYYY-MM of the reference day
	MonthlyIncome    Money
	MonthlyExpenses  Money
	MonthlySavings   Money
	TotalIncome      Money
	TotalExpenses    Money
	NetWorth         Money
	Budget           *BudgetUsage
	PredictedSpend   decimal.Decimal
	PredictedIncome  decimal.Decimal
	PredictedSavings decimal.Decimal
	ExpenseCount     int
	IncomeCount      int
	ByCategory       []TagAmount
	BySource         []TagAmount
	MonthlyTrend     []MonthlyTotal
	Recent           []Transaction
	Goals            []GoalProgress
	Recommendations  []string
}
