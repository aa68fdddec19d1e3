package http

import (
	"errors"
	"net/http"
	"strings"

	"finassist/internal/core"
	"finassist/internal/log"
	"finassist/internal/records"
)

type budgetJSON struct {
	Month string `json:"month"`
	Limit string `json:"limit"`
}

type goalJSON struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Target          string  `json:"target"`
	Current         string  `json:"current"`
	TargetDate      string  `json:"target_date"`
	ProgressPercent float64 `json:"progress_percent"`
	DaysRemaining   *int    `json:"days_remaining,omitempty"`
}

func toGoalJSON(g core.SavingsGoal) goalJSON {
	return goalJSON{
		ID:         g.ID,
		Name:       g.Name,
		Target:     g.Target.String(),
		Current:    g.Current.String(),
		TargetDate: g.TargetDate,
	}
}

func (s *Server) handleBudget(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.getBudgetHandler(w, r)
	case http.MethodPut:
		s.putBudget(w, r)
	default:
		MethodNotAllowedError("GET, PUT").Write(w)
	}
}

func (s *Server) getBudgetHandler(w http.ResponseWriter, r *http.Request) {
	month := strings.TrimSpace(r.URL.Query().Get("month"))
	if month == "" {
		month = core.FormatMonth(s.now())
	}
	if _, err := core.ParseMonth(month); err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}

	b, err := s.getBudget(r.Context(), month)
	if errors.Is(err, records.ErrNotFound) {
		NotFoundError("no budget set for " + month).Write(w)
		return
	}
	if err != nil {
		serviceError(r, err, log.OpRead).Write(w)
		return
	}
	NewJSONResponse().Body(budgetJSON{Month: b.Month, Limit: b.Limit.String()}).Write(w)
}

func (s *Server) putBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	limit, err := req.Limit.Money()
	if err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}

	b := core.Budget{Month: sanitizeInput(req.Month), Limit: limit}
	ctx, cancel := withStoreTimeout(r.Context())
	defer cancel()
	if err := s.ledger.SetBudget(ctx, b); err != nil {
		serviceError(r, err, log.OpUpdate).Write(w)
		return
	}
	s.budgetCache.Delete(b.Month)

	log.FromContext(r.Context()).InfoContext(r.Context(), "Budget set",
		log.FieldMonth, b.Month,
		log.FieldAmountCents, b.Limit.Cents)
	NewJSONResponse().Body(budgetJSON{Month: b.Month, Limit: b.Limit.String()}).Write(w)
}

func (s *Server) handleGoals(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listGoals(w, r)
	case http.MethodPost:
		s.createGoal(w, r)
	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}

func (s *Server) listGoals(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withStoreTimeout(r.Context())
	defer cancel()

	goals, err := s.ledger.ListGoals(ctx, s.now())
	if err != nil {
		serviceError(r, err, log.OpList).Write(w)
		return
	}
	out := make([]goalJSON, 0, len(goals))
	for _, gp := range goals {
		g := toGoalJSON(gp.Goal)
		g.ProgressPercent = gp.Percent
		days := gp.DaysRemaining
		g.DaysRemaining = &days
		out = append(out, g)
	}
	NewJSONResponse().Body(out).Write(w)
}

func (s *Server) createGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	target, err := req.Target.Money()
	if err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}

	ctx, cancel := withStoreTimeout(r.Context())
	defer cancel()
	g, err := s.ledger.AddSavingsGoal(ctx, core.SavingsGoal{
		Name:       sanitizeInput(req.Name),
		Target:     target,
		TargetDate: sanitizeInput(req.TargetDate),
	})
	if err != nil {
		serviceError(r, err, log.OpCreate).Write(w)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).Body(toGoalJSON(g)).Write(w)
}

func (s *Server) handleGoalContribution(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}

	var req contributionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	amount, err := req.Amount.Money()
	if err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}

	ctx, cancel := withStoreTimeout(r.Context())
	defer cancel()
	g, err := s.ledger.ContributeToGoal(ctx, sanitizeInput(req.Name), amount)
	if err != nil {
		serviceError(r, err, log.OpUpdate).Write(w)
		return
	}
	NewJSONResponse().Body(toGoalJSON(g)).Write(w)
}
