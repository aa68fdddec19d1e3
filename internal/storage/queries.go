package storage

import "context"

const createExpense = `
INSERT INTO expenses (date, amount_cents, category)
VALUES (?, ?, ?)
RETURNING id, date, amount_cents, category
`

type CreateExpenseParams struct {
	Date        string
	AmountCents int64
	Category    string
}

func (q *Queries) CreateExpense(ctx context.Context, arg CreateExpenseParams) (Expense, error) {
	row := q.db.QueryRowContext(ctx, createExpense, arg.Date, arg.AmountCents, arg.Category)
	var i Expense
	err := row.Scan(&i.ID, &i.Date, &i.AmountCents, &i.Category)
	return i, err
}

const listExpenses = `
SELECT id, date, amount_cents, category FROM expenses ORDER BY id
`

func (q *Queries) ListExpenses(ctx context.Context) ([]Expense, error) {
	rows, err := q.db.QueryContext(ctx, listExpenses)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Expense
	for rows.Next() {
		var i Expense
		if err := rows.Scan(&i.ID, &i.Date, &i.AmountCents, &i.Category); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createIncome = `
INSERT INTO income (date, amount_cents, source)
VALUES (?, ?, ?)
RETURNING id, date, amount_cents, source
`

type CreateIncomeParams struct {
	Date        string
	AmountCents int64
	Source      string
}

func (q *Queries) CreateIncome(ctx context.Context, arg CreateIncomeParams) (Income, error) {
	row := q.db.QueryRowContext(ctx, createIncome, arg.Date, arg.AmountCents, arg.Source)
	var i Income
	err := row.Scan(&i.ID, &i.Date, &i.AmountCents, &i.Source)
	return i, err
}

const listIncome = `
SELECT id, date, amount_cents, source FROM income ORDER BY id
`

func (q *Queries) ListIncome(ctx context.Context) ([]Income, error) {
	rows, err := q.db.QueryContext(ctx, listIncome)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Income
	for rows.Next() {
		var i Income
		if err := rows.Scan(&i.ID, &i.Date, &i.AmountCents, &i.Source); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const upsertBudget = `
INSERT INTO budget (month, budget_limit_cents)
VALUES (?, ?)
ON CONFLICT (month) DO UPDATE SET budget_limit_cents = excluded.budget_limit_cents
`

type UpsertBudgetParams struct {
	Month            string
	BudgetLimitCents int64
}

func (q *Queries) UpsertBudget(ctx context.Context, arg UpsertBudgetParams) error {
	_, err := q.db.ExecContext(ctx, upsertBudget, arg.Month, arg.BudgetLimitCents)
	return err
}

const getBudget = `
SELECT id, month, budget_limit_cents FROM budget WHERE month = ?
`

func (q *Queries) GetBudget(ctx context.Context, month string) (Budget, error) {
	row := q.db.QueryRowContext(ctx, getBudget, month)
	var i Budget
	err := row.Scan(&i.ID, &i.Month, &i.BudgetLimitCents)
	return i, err
}

const createSavingsGoal = `
INSERT INTO savings_goals (goal_name, target_amount_cents, current_amount_cents, target_date)
VALUES (?, ?, ?, ?)
RETURNING id, goal_name, target_amount_cents, current_amount_cents, target_date
`

type CreateSavingsGoalParams struct {
	GoalName           string
	TargetAmountCents  int64
	CurrentAmountCents int64
	TargetDate         string
}

func (q *Queries) CreateSavingsGoal(ctx context.Context, arg CreateSavingsGoalParams) (SavingsGoal, error) {
	row := q.db.QueryRowContext(ctx, createSavingsGoal,
		arg.GoalName, arg.TargetAmountCents, arg.CurrentAmountCents, arg.TargetDate)
	var i SavingsGoal
	err := row.Scan(&i.ID, &i.GoalName, &i.TargetAmountCents, &i.CurrentAmountCents, &i.TargetDate)
	return i, err
}

const addToSavingsGoal = `
UPDATE savings_goals
SET current_amount_cents = current_amount_cents + ?
WHERE goal_name = ?
RETURNING id, goal_name, target_amount_cents, current_amount_cents, target_date
`

type AddToSavingsGoalParams struct {
	AmountCents int64
	GoalName    string
}

func (q *Queries) AddToSavingsGoal(ctx context.Context, arg AddToSavingsGoalParams) (SavingsGoal, error) {
	row := q.db.QueryRowContext(ctx, addToSavingsGoal, arg.AmountCents, arg.GoalName)
	var i SavingsGoal
	err := row.Scan(&i.ID, &i.GoalName, &i.TargetAmountCents, &i.CurrentAmountCents, &i.TargetDate)
	return i, err
}

const listSavingsGoals = `
SELECT id, goal_name, target_amount_cents, current_amount_cents, target_date
FROM savings_goals ORDER BY id
`

func (q *Queries) ListSavingsGoals(ctx context.Context) ([]SavingsGoal, error) {
	rows, err := q.db.QueryContext(ctx, listSavingsGoals)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SavingsGoal
	for rows.Next() {
		var i SavingsGoal
		if err := rows.Scan(&i.ID, &i.GoalName, &i.TargetAmountCents, &i.CurrentAmountCents, &i.TargetDate); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createSentiment = `
INSERT INTO sentiment (date, sentiment_score, source)
VALUES (?, ?, ?)
RETURNING id, date, sentiment_score, source
`

type CreateSentimentParams struct {
	Date           string
	SentimentScore float64
	Source         string
}

func (q *Queries) CreateSentiment(ctx context.Context, arg CreateSentimentParams) (Sentiment, error) {
	row := q.db.QueryRowContext(ctx, createSentiment, arg.Date, arg.SentimentScore, arg.Source)
	var i Sentiment
	err := row.Scan(&i.ID, &i.Date, &i.SentimentScore, &i.Source)
	return i, err
}

const listSentiment = `
SELECT id, date, sentiment_score, source FROM sentiment ORDER BY id
`

func (q *Queries) ListSentiment(ctx context.Context) ([]Sentiment, error) {
	rows, err := q.db.QueryContext(ctx, listSentiment)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Sentiment
	for rows.Next() {
		var i Sentiment
		if err := rows.Scan(&i.ID, &i.Date, &i.SentimentScore, &i.Source); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listCategoriesByKind = `
SELECT name FROM categories WHERE kind = ? ORDER BY sort_order, name
`

func (q *Queries) ListCategoriesByKind(ctx context.Context, kind string) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listCategoriesByKind, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		items = append(items, name)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
