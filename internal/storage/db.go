package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	PrepareContext(context.Context, string) (*sql.Stmt, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// Row types mirror the tables in migrations/.
type (
	Expense struct {
		ID          int64
		Date        string
		AmountCents int64
		Category    string
	}

	Income struct {
		ID          int64
		Date        string
		AmountCents int64
		Source      string
	}

	Budget struct {
		ID               int64
		Month            string
		BudgetLimitCents int64
	}

	SavingsGoal struct {
		ID                 int64
		GoalName           string
		TargetAmountCents  int64
		CurrentAmountCents int64
		TargetDate         string
	}

	Sentiment struct {
		ID             int64
		Date           string
		SentimentScore float64
		Source         string
	}
)
