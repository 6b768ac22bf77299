package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/bhcwatch/y9c/internal/model"
)

func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

func seedTestItems(t *testing.T, store *SQLiteStorage) {
	t.Helper()
	items := []model.LineItem{
		{Code: "BHCK2170", Name: "Total assets", Statement: model.BalanceSheet, Category: "assets"},
		{Code: "BHCK3210", Name: "Total equity capital", Statement: model.BalanceSheet, Category: "equity"},
		{Code: "BHCK4340", Name: "Net income", Statement: model.IncomeStatement, Category: "income"},
	}
	if err := store.SeedLineItems(context.Background(), items); err != nil {
		t.Fatalf("Failed to seed line items: %v", err)
	}
}

func testRecord(t *testing.T, year, quarter int, code string, value float64) model.FinancialRecord {
	t.Helper()
	date, err := model.ReportDate(year, quarter)
	if err != nil {
		t.Fatalf("Bad test period %d Q%d: %v", year, quarter, err)
	}
	return model.FinancialRecord{
		RSSDID:     "1447376",
		ReportDate: date,
		Year:       year,
		Quarter:    quarter,
		Code:       code,
		Value:      value,
	}
}

func TestNewSQLiteStorage_CreatesParentDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	defer func() { _ = store.Close() }()

	if store.Path() != dbPath {
		t.Errorf("Path() = %q, want %q", store.Path(), dbPath)
	}
}

func TestNewSQLiteStorage_EmptyPath(t *testing.T) {
	if _, err := NewSQLiteStorage(""); err == nil {
		t.Fatal("Expected error for empty path")
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	ctx := context.Background()
	// Re-running on a migrated database must be a no-op.
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("Second migrate failed: %v", err)
	}

	var version int
	if err := store.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("Failed to read schema version: %v", err)
	}
	if version != ExpectedSchemaVersion {
		t.Errorf("Schema version = %d, want %d", version, ExpectedSchemaVersion)
	}
}

func TestMigrate_CreatesTables(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	ctx := context.Background()
	for _, table := range []string{"institutions", "account_definitions", "financial_data", "load_history"} {
		var name string
		err := store.db.QueryRowContext(ctx,
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("Table %q not created: %v", table, err)
		}
	}
}

func TestValidation_NilContext(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	//nolint:staticcheck // testing nil context rejection
	var nilCtx context.Context
	if err := store.SaveFinancialRecords(nilCtx, nil); err == nil {
		t.Error("Expected error for nil context")
	}
	if _, err := store.Periods(nilCtx, "1447376"); err == nil {
		t.Error("Expected error for nil context")
	}
}

func TestValidation_InvalidRecord(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	ctx := context.Background()
	bad := model.FinancialRecord{
		RSSDID:  "", // missing institution
		Year:    2023,
		Quarter: 1,
		Code:    "BHCK2170",
	}
	bad.ReportDate = time.Date(2023, 3, 31, 0, 0, 0, 0, time.UTC)

	if err := store.SaveFinancialRecords(ctx, []model.FinancialRecord{bad}); err == nil {
		t.Error("Expected error for record without RSSD ID")
	}
}
