package backend

import (
	"context"

	"finassist/internal/records"
	"finassist/internal/services"
)

// CleanupFunc releases the resources held by a backend
type CleanupFunc func() error

// BackendResult contains the wired ledger and its cleanup function
type BackendResult struct {
	Ledger   *services.LedgerService
	Taxonomy records.TaxonomyReader
	Cleanup  CleanupFunc

	// EventsEnabled reports whether an AMQP publisher is attached
	EventsEnabled bool
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// Memory backend seeds its taxonomy from this directory
	DataDirectory string

	// Optional change events
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	ForecastTrees int
	ForecastSeed  int64
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
