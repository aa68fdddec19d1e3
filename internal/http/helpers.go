package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"finassist/internal/core"
	"finassist/internal/log"
	"finassist/internal/records"
	"finassist/internal/sentiment"
)

// storeTimeout bounds every store call made while serving a request.
const storeTimeout = 7 * time.Second

func withStoreTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, storeTimeout)
}

// sanitizeInput removes potentially dangerous characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}

var validationErrors = []error{
	core.ErrInvalidKind,
	core.ErrInvalidDate,
	core.ErrInvalidMonth,
	core.ErrInvalidAmount,
	core.ErrEmptyTag,
	core.ErrTagTooLong,
	core.ErrEmptyGoalName,
	core.ErrGoalNameTooLong,
	core.ErrInvalidGoalDate,
	sentiment.ErrEmptyText,
}

func isValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// serviceError maps a ledger error onto a response. Unknown errors are
// logged and reported as 500 without their details.
func serviceError(r *http.Request, err error, operation string) *JSONResponseBuilder {
	switch {
	case isValidationError(err):
		return UnprocessableEntityError(err.Error())
	case errors.Is(err, records.ErrNotFound):
		return NotFoundError(err.Error())
	case errors.Is(err, records.ErrDuplicate):
		return ConflictError(err.Error())
	}

	log.NewStructuredLogger(log.FromContext(r.Context())).
		LogError(r.Context(), "Ledger operation failed", err, operation, nil)
	return InternalServerError("internal error")
}
