package backend

import (
	"context"
	"path/filepath"
	"testing"

	"finassist/internal/config"
	"finassist/internal/core"
	"finassist/internal/log"
)

func TestFromAppConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.Config
		want    BackendType
		wantErr bool
	}{
		{name: "nil config", cfg: nil, wantErr: true},
		{name: "sqlite", cfg: &config.Config{DataBackend: "sqlite", SQLiteDBPath: "x.db"}, want: SQLiteBackend},
		{name: "memory", cfg: &config.Config{DataBackend: "memory"}, want: MemoryBackend},
		{name: "sheets no longer supported", cfg: &config.Config{DataBackend: "sheets"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromAppConfig(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FromAppConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && got.Type != tt.want {
				t.Errorf("FromAppConfig() type = %v, want %v", got.Type, tt.want)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "memory", cfg: Config{Type: MemoryBackend}},
		{name: "sqlite without path", cfg: Config{Type: SQLiteBackend}, wantErr: true},
		{name: "unknown type", cfg: Config{Type: "csv"}, wantErr: true},
		{name: "amqp without queue", cfg: Config{Type: MemoryBackend, AMQPURL: "amqp://localhost"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetBackendTypeStrings(t *testing.T) {
	got := GetBackendTypeStrings()
	if len(got) != 2 || got[0] != "sqlite" || got[1] != "memory" {
		t.Errorf("GetBackendTypeStrings() = %v", got)
	}
}

func TestCreateBackend(t *testing.T) {
	ctx := context.Background()
	f := NewFactory(log.Discard())

	for _, cfg := range []Config{
		{Type: MemoryBackend, DataDirectory: t.TempDir(), ForecastTrees: 10, ForecastSeed: 1},
		{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(t.TempDir(), "finance.db")},
	} {
		t.Run(cfg.Type.String(), func(t *testing.T) {
			res, err := f.CreateBackend(ctx, cfg)
			if err != nil {
				t.Fatalf("CreateBackend() error = %v", err)
			}
			defer res.Cleanup()

			if res.EventsEnabled {
				t.Error("events should be disabled without an AMQP URL")
			}
			if _, err := res.Ledger.RecordTransaction(ctx, core.KindExpense,
				core.Transaction{Date: "2024-01-15", Amount: core.Money{Cents: 10000}, Tag: "Groceries"}); err != nil {
				t.Fatalf("RecordTransaction() error = %v", err)
			}
			categories, sources, err := res.Taxonomy.ListTaxonomy(ctx)
			if err != nil {
				t.Fatalf("ListTaxonomy() error = %v", err)
			}
			if len(categories) == 0 || len(sources) == 0 {
				t.Errorf("expected seeded taxonomy, got %v / %v", categories, sources)
			}
		})
	}
}
