package storage

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/bhcwatch/y9c/internal/model"
)

func TestExportCSV(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	seedTestItems(t, store)

	ctx := context.Background()
	records := []model.FinancialRecord{
		testRecord(t, 2023, 1, "BHCK2170", 1000),
		testRecord(t, 2023, 1, "BHCK3210", 200),
		testRecord(t, 2023, 1, "BHCK4340", 50),
	}
	if err := store.SaveFinancialRecords(ctx, records); err != nil {
		t.Fatalf("Failed to save records: %v", err)
	}

	outPath := filepath.Join(t.TempDir(), "full.csv")
	n, err := store.ExportCSV(ctx, "1447376", outPath, "")
	if err != nil {
		t.Fatalf("Failed to export: %v", err)
	}
	if n != 3 {
		t.Errorf("Exported %d rows, want 3", n)
	}

	f, err := os.Open(outPath)
	if err != nil {
		t.Fatalf("Failed to open export: %v", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("Failed to read CSV: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("CSV has %d rows, want header + 3", len(rows))
	}
	if rows[0][0] != "report_date" || rows[0][7] != "value" {
		t.Errorf("Unexpected header: %v", rows[0])
	}
	if rows[1][0] != "2023-03-31" {
		t.Errorf("report_date = %q, want 2023-03-31", rows[1][0])
	}
}

func TestExportCSV_StatementFilter(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	seedTestItems(t, store)

	ctx := context.Background()
	records := []model.FinancialRecord{
		testRecord(t, 2023, 1, "BHCK2170", 1000),
		testRecord(t, 2023, 1, "BHCK4340", 50),
	}
	if err := store.SaveFinancialRecords(ctx, records); err != nil {
		t.Fatalf("Failed to save records: %v", err)
	}

	outPath := filepath.Join(t.TempDir(), "income.csv")
	n, err := store.ExportCSV(ctx, "1447376", outPath, model.IncomeStatement)
	if err != nil {
		t.Fatalf("Failed to export: %v", err)
	}
	if n != 1 {
		t.Errorf("Exported %d rows, want 1", n)
	}
}

func TestExportCSV_InvalidStatement(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	outPath := filepath.Join(t.TempDir(), "bad.csv")
	if _, err := store.ExportCSV(context.Background(), "1447376", outPath, "cash_flow"); err == nil {
		t.Fatal("Expected error for invalid statement type")
	}
}

func TestExportCSV_EmptyDataset(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	outPath := filepath.Join(t.TempDir(), "empty.csv")
	n, err := store.ExportCSV(context.Background(), "1447376", outPath, "")
	if err != nil {
		t.Fatalf("Failed to export empty dataset: %v", err)
	}
	if n != 0 {
		t.Errorf("Exported %d rows, want 0", n)
	}
	if _, err := os.Stat(outPath); err != nil {
		t.Errorf("Expected header-only file to exist: %v", err)
	}
}
