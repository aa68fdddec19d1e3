// Package http provides the JSON API server and its handlers.
//
// This file implements utilities for decoding and validating request data
// shared by every handler.

package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"finassist/internal/core"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

var errEmptyBody = errors.New("request body is empty")

// AmountField accepts an amount either as a JSON string ("12,34", "12.34")
// or as a JSON number. Parsing is deferred to Cents so that a bad amount is
// a validation failure, not a malformed body.
type AmountField struct {
	raw string
	set bool
}

func (a *AmountField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = AmountField{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = AmountField{raw: s, set: true}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("amount must be a string or a number: %w", err)
	}
	*a = AmountField{raw: n.String(), set: true}
	return nil
}

// Money returns the parsed amount. A missing amount is invalid.
func (a AmountField) Money() (core.Money, error) {
	if !a.set {
		return core.Money{}, core.ErrInvalidAmount
	}
	cents, err := core.ParseDecimalToCents(a.raw)
	if err != nil {
		return core.Money{}, err
	}
	return core.Money{Cents: cents}, nil
}

type transactionRequest struct {
	Date     string      `json:"date"`
	Amount   AmountField `json:"amount"`
	Category string      `json:"category,omitempty"`
	Source   string      `json:"source,omitempty"`
}

type budgetRequest struct {
	Month string      `json:"month"`
	Limit AmountField `json:"limit"`
}

type goalRequest struct {
	Name       string      `json:"name"`
	Target     AmountField `json:"target"`
	TargetDate string      `json:"target_date"`
}

type contributionRequest struct {
	Name   string      `json:"name"`
	Amount AmountField `json:"amount"`
}

type sentimentRequest struct {
	Text string `json:"text"`
}

// decodeJSON reads a single JSON value from the body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return fmt.Errorf("decode request body: %w", err)
	}
	if dec.More() {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

// RequireMethod checks if the request method matches the expected method(s).
// Returns an error response builder if the method doesn't match.
func RequireMethod(r *http.Request, methods ...string) *JSONResponseBuilder {
	for _, m := range methods {
		if r.Method == m {
			return nil
		}
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}

// RequirePOST is a convenience function for POST-only handlers.
func RequirePOST(r *http.Request) *JSONResponseBuilder {
	return RequireMethod(r, http.MethodPost)
}

// queryKind reads ?kind=, defaulting to expense.
func queryKind(r *http.Request) (core.Kind, error) {
	v := strings.TrimSpace(r.URL.Query().Get("kind"))
	if v == "" {
		return core.KindExpense, nil
	}
	return core.ParseKind(v)
}
