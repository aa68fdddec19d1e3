package http

import (
	"net/http"

	"finassist/internal/core"
	"finassist/internal/log"
)

type transactionJSON struct {
	ID       int64  `json:"id"`
	Kind     string `json:"kind"`
	Date     string `json:"date"`
	Amount   string `json:"amount"`
	Category string `json:"category,omitempty"`
	Source   string `json:"source,omitempty"`
}

func toTransactionJSON(tx core.Transaction) transactionJSON {
	out := transactionJSON{
		ID:     tx.ID,
		Kind:   tx.Kind.String(),
		Date:   tx.Date,
		Amount: tx.Amount.String(),
	}
	if tx.Kind == core.KindIncome {
		out.Source = tx.Tag
	} else {
		out.Category = tx.Tag
	}
	return out
}

func toTransactionsJSON(txs []core.Transaction) []transactionJSON {
	out := make([]transactionJSON, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toTransactionJSON(tx))
	}
	return out
}

// handleTransactions serves GET (list) and POST (record) for one ledger kind.
func (s *Server) handleTransactions(kind core.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			s.listTransactions(w, r, kind)
		case http.MethodPost:
			s.createTransaction(w, r, kind)
		default:
			MethodNotAllowedError("GET, POST").Write(w)
		}
	}
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request, kind core.Kind) {
	ctx, cancel := withStoreTimeout(r.Context())
	defer cancel()

	txs, err := s.ledger.ListTransactions(ctx, kind)
	if err != nil {
		serviceError(r, err, log.OpList).Write(w)
		return
	}
	NewJSONResponse().Body(toTransactionsJSON(txs)).Write(w)
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request, kind core.Kind) {
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	amount, err := req.Amount.Money()
	if err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}

	tag := req.Category
	if kind == core.KindIncome {
		tag = req.Source
	}
	date := sanitizeInput(req.Date)
	if date == "" {
		date = s.now().Format(core.DateLayout)
	}

	ctx, cancel := withStoreTimeout(r.Context())
	defer cancel()

	saved, err := s.ledger.RecordTransaction(ctx, kind, core.Transaction{
		Date:   date,
		Amount: amount,
		Tag:    sanitizeInput(tag),
	})
	if err != nil {
		serviceError(r, err, log.OpAppend).Write(w)
		return
	}

	NewJSONResponse().
		Status(http.StatusCreated).
		Body(toTransactionJSON(saved)).
		Write(w)
}
