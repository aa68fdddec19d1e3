package backend

import (
	"context"
	"fmt"

	"finassist/internal/amqp"
	"finassist/internal/forecast"
	"finassist/internal/log"
	"finassist/internal/records"
	"finassist/internal/records/memory"
	"finassist/internal/services"
	"finassist/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Wrap(nil, log.ComponentBackend)
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		store    records.Store
		taxonomy records.TaxonomyReader
	)
	switch config.Type {
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		store, taxonomy = repo, repo
		f.logger.InfoContext(ctx, "Initialized SQLite backend", "db_path", config.SQLiteDBPath)
	case MemoryBackend:
		dataDir := config.DataDirectory
		if dataDir == "" {
			dataDir = "data"
		}
		store, taxonomy = memory.New(), memory.NewTaxonomyFromFiles(dataDir)
		f.logger.InfoContext(ctx, "Initialized memory backend", "data_directory", dataDir)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}

	opts := []services.Option{
		services.WithLogger(f.logger),
		services.WithForecaster(forecast.New(
			forecast.WithTrees(config.ForecastTrees),
			forecast.WithSeed(config.ForecastSeed),
		)),
	}

	// Events are optional; a broker outage at startup must not block writes.
	eventsEnabled := false
	if config.AMQPURL != "" {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without events", log.FieldError, err)
		} else {
			opts = append(opts, services.WithPublisher(client))
			eventsEnabled = true
			f.logger.InfoContext(ctx, "Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	ledger := services.NewLedgerService(store, opts...)
	return &BackendResult{
		Ledger:        ledger,
		Taxonomy:      taxonomy,
		Cleanup:       ledger.Close,
		EventsEnabled: eventsEnabled,
	}, nil
}
