package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	"finassist/internal/core"
	"finassist/internal/forecast"
	"finassist/internal/log"
	"finassist/internal/sentiment"
)

type sentimentJSON struct {
	ID     int64   `json:"id"`
	Date   string  `json:"date"`
	Score  float64 `json:"score"`
	Source string  `json:"source"`
	Band   string  `json:"band"`
	Advice string  `json:"advice"`
}

type forecastJSON struct {
	Kind           string  `json:"kind"`
	TargetYear     int     `json:"target_year"`
	TargetMonth    int     `json:"target_month"`
	PredictedTotal float64 `json:"predicted_total"`
}

type tagAmountJSON struct {
	Tag    string `json:"tag"`
	Amount string `json:"amount"`
}

type monthlyTotalJSON struct {
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Total string `json:"total"`
}

type budgetUsageJSON struct {
	Month       string  `json:"month"`
	Limit       string  `json:"limit"`
	UsedPercent float64 `json:"used_percent"`
	Remaining   string  `json:"remaining"`
	Status      string  `json:"status"`
}

type dashboardJSON struct {
	Month            string             `json:"month"`
	MonthlyIncome    string             `json:"monthly_income"`
	MonthlyExpenses  string             `json:"monthly_expenses"`
	MonthlySavings   string             `json:"monthly_savings"`
	TotalIncome      string             `json:"total_income"`
	TotalExpenses    string             `json:"total_expenses"`
	NetWorth         string             `json:"net_worth"`
	Budget           *budgetUsageJSON   `json:"budget"`
	PredictedSpend   string             `json:"predicted_spending"`
	PredictedIncome  string             `json:"predicted_income"`
	PredictedSavings string             `json:"predicted_savings"`
	ExpenseCount     int                `json:"expense_count"`
	IncomeCount      int                `json:"income_count"`
	ByCategory       []tagAmountJSON    `json:"by_category"`
	BySource         []tagAmountJSON    `json:"by_source"`
	MonthlyTrend     []monthlyTotalJSON `json:"monthly_trend"`
	Recent           []transactionJSON  `json:"recent_transactions"`
	Goals            []goalJSON         `json:"goals"`
	Recommendations  []string           `json:"recommendations"`
}

func fixed(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func toTagAmountsJSON(in []core.TagAmount) []tagAmountJSON {
	out := make([]tagAmountJSON, 0, len(in))
	for _, t := range in {
		out = append(out, tagAmountJSON{Tag: t.Tag, Amount: t.Amount.String()})
	}
	return out
}

func toDashboardJSON(d core.Dashboard) dashboardJSON {
	out := dashboardJSON{
		Month:            d.Month,
		MonthlyIncome:    d.MonthlyIncome.String(),
		MonthlyExpenses:  d.MonthlyExpenses.String(),
		MonthlySavings:   d.MonthlySavings.String(),
		TotalIncome:      d.TotalIncome.String(),
		TotalExpenses:    d.TotalExpenses.String(),
		NetWorth:         d.NetWorth.String(),
		PredictedSpend:   fixed(d.PredictedSpend),
		PredictedIncome:  fixed(d.PredictedIncome),
		PredictedSavings: fixed(d.PredictedSavings),
		ExpenseCount:     d.ExpenseCount,
		IncomeCount:      d.IncomeCount,
		ByCategory:       toTagAmountsJSON(d.ByCategory),
		BySource:         toTagAmountsJSON(d.BySource),
		MonthlyTrend:     make([]monthlyTotalJSON, 0, len(d.MonthlyTrend)),
		Recent:           toTransactionsJSON(d.Recent),
		Goals:            make([]goalJSON, 0, len(d.Goals)),
		Recommendations:  d.Recommendations,
	}
	if d.Budget != nil {
		out.Budget = &budgetUsageJSON{
			Month:       d.Budget.Month,
			Limit:       d.Budget.Limit.String(),
			UsedPercent: d.Budget.UsedPercent,
			Remaining:   d.Budget.Remaining.String(),
			Status:      string(d.Budget.Status),
		}
	}
	for _, m := range d.MonthlyTrend {
		out.MonthlyTrend = append(out.MonthlyTrend, monthlyTotalJSON{Year: m.Year, Month: m.Month, Total: m.Total.String()})
	}
	for _, gp := range d.Goals {
		g := toGoalJSON(gp.Goal)
		g.ProgressPercent = gp.Percent
		days := gp.DaysRemaining
		g.DaysRemaining = &days
		out.Goals = append(out.Goals, g)
	}
	if out.Recommendations == nil {
		out.Recommendations = []string{}
	}
	return out
}

func (s *Server) handleSentiment(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listSentiment(w, r)
	case http.MethodPost:
		s.logSentiment(w, r)
	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}

func (s *Server) listSentiment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withStoreTimeout(r.Context())
	defer cancel()

	entries, err := s.ledger.ListSentiment(ctx)
	if err != nil {
		serviceError(r, err, log.OpList).Write(w)
		return
	}
	out := make([]sentimentJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, toSentimentJSON(e, sentiment.Classify(e.Score)))
	}
	NewJSONResponse().Body(out).Write(w)
}

func (s *Server) logSentiment(w http.ResponseWriter, r *http.Request) {
	var req sentimentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	ctx, cancel := withStoreTimeout(r.Context())
	defer cancel()
	entry, band, err := s.ledger.LogSentiment(ctx, sanitizeInput(req.Text), s.now())
	if err != nil {
		serviceError(r, err, log.OpCreate).Write(w)
		return
	}
	NewJSONResponse().
		Status(http.StatusCreated).
		Body(toSentimentJSON(entry, band)).
		Write(w)
}

func toSentimentJSON(e core.SentimentEntry, band sentiment.Band) sentimentJSON {
	return sentimentJSON{
		ID:     e.ID,
		Date:   e.Date,
		Score:  e.Score,
		Source: e.Source,
		Band:   string(band),
		Advice: band.Advice(),
	}
}

// handleForecast never fails on forecasting problems; they come back as a
// zero prediction.
func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w)
		return
	}
	kind, err := queryKind(r)
	if err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}

	now := s.now()
	ctx, cancel := withStoreTimeout(r.Context())
	defer cancel()
	predicted := s.ledger.ForecastNextMonth(ctx, kind, now)
	year, month := forecast.NextMonth(now)

	NewJSONResponse().Body(forecastJSON{
		Kind:           kind.String(),
		TargetYear:     year,
		TargetMonth:    month,
		PredictedTotal: predicted,
	}).Write(w)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w)
		return
	}

	ctx, cancel := withStoreTimeout(r.Context())
	defer cancel()
	d, err := s.ledger.Dashboard(ctx, s.now())
	if err != nil {
		serviceError(r, err, log.OpRead).Write(w)
		return
	}
	NewJSONResponse().Body(toDashboardJSON(d)).Write(w)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w)
		return
	}
	t, err := s.getTaxonomy(r.Context())
	if err != nil {
		serviceError(r, err, log.OpList).Write(w)
		return
	}
	NewJSONResponse().Body(t).Write(w)
}
