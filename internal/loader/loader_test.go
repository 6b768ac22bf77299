package loader

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bhcwatch/y9c/internal/model"
	"github.com/bhcwatch/y9c/internal/storage"
)

func createTestStore(t *testing.T) *storage.SQLiteStorage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	items := []model.LineItem{
		{Code: "BHCK2170", Name: "Total assets", Statement: model.BalanceSheet, Category: "assets"},
		{Code: "BHCK3210", Name: "Total equity capital", Statement: model.BalanceSheet, Category: "equity"},
	}
	if err := store.SeedLineItems(ctx, items); err != nil {
		t.Fatalf("Failed to seed line items: %v", err)
	}

	return store
}

// writeArchive writes a zip with one caret-delimited member named like the
// FFIEC bulk files.
func writeArchive(t *testing.T, path, member, content string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create archive: %v", err)
	}
	defer func() { _ = f.Close() }()

	zw := zip.NewWriter(f)
	w, err := zw.Create(member)
	if err != nil {
		t.Fatalf("Failed to create zip member: %v", err)
	}
	if _, err := w.Write([]byte(content)); err != nil {
		t.Fatalf("Failed to write zip member: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Failed to close zip: %v", err)
	}
}

func TestLoadQuarter_Completed(t *testing.T) {
	store := createTestStore(t)
	dataDir := t.TempDir()
	writeArchive(t, filepath.Join(dataDir, "BHCF_2023Q2.zip"), "BHCF20230630.txt",
		"IDRSSD^BHCK2170^BHCK3210\n1447376^1000^200\n9999999^5^6\n")

	ld := New(store, dataDir, "1447376", []string{"BHCK2170", "BHCK3210"})
	ctx := context.Background()

	loaded, err := ld.LoadQuarter(ctx, 2023, 2, false)
	if err != nil {
		t.Fatalf("LoadQuarter failed: %v", err)
	}
	if loaded != 2 {
		t.Errorf("Loaded %d records, want 2", loaded)
	}

	status, recorded, err := store.LoadStatusFor(ctx, 2023, 2)
	if err != nil {
		t.Fatalf("Failed to query status: %v", err)
	}
	if !recorded || status != model.LoadCompleted {
		t.Errorf("Status = (%q, %v), want (completed, true)", status, recorded)
	}

	sheet, err := store.BalanceSheet(ctx, "1447376", 2023, 2)
	if err != nil {
		t.Fatalf("Failed to query balance sheet: %v", err)
	}
	if sheet["Total assets"] != 1000 {
		t.Errorf("Total assets = %v, want 1000", sheet["Total assets"])
	}
}

func TestLoadQuarter_SkipsCompletedUnlessForced(t *testing.T) {
	store := createTestStore(t)
	dataDir := t.TempDir()
	archive := filepath.Join(dataDir, "BHCF_2023Q2.zip")
	writeArchive(t, archive, "BHCF20230630.txt",
		"IDRSSD^BHCK2170\n1447376^1000\n")

	ld := New(store, dataDir, "1447376", []string{"BHCK2170"})
	ctx := context.Background()

	if _, err := ld.LoadQuarter(ctx, 2023, 2, false); err != nil {
		t.Fatalf("Initial load failed: %v", err)
	}

	// Restate the archive value; a plain re-run must skip it.
	writeArchive(t, archive, "BHCF20230630.txt",
		"IDRSSD^BHCK2170\n1447376^9999\n")

	loaded, err := ld.LoadQuarter(ctx, 2023, 2, false)
	if err != nil {
		t.Fatalf("Re-load failed: %v", err)
	}
	if loaded != 0 {
		t.Errorf("Re-load returned %d records, want 0 (skipped)", loaded)
	}

	sheet, err := store.BalanceSheet(ctx, "1447376", 2023, 2)
	if err != nil {
		t.Fatalf("Failed to query balance sheet: %v", err)
	}
	if sheet["Total assets"] != 1000 {
		t.Errorf("Total assets = %v, want unchanged 1000", sheet["Total assets"])
	}

	// Forced re-run picks up the restated value.
	loaded, err = ld.LoadQuarter(ctx, 2023, 2, true)
	if err != nil {
		t.Fatalf("Forced re-load failed: %v", err)
	}
	if loaded != 1 {
		t.Errorf("Forced re-load returned %d records, want 1", loaded)
	}

	sheet, err = store.BalanceSheet(ctx, "1447376", 2023, 2)
	if err != nil {
		t.Fatalf("Failed to re-query balance sheet: %v", err)
	}
	if sheet["Total assets"] != 9999 {
		t.Errorf("Total assets after force = %v, want 9999", sheet["Total assets"])
	}
}

func TestLoadQuarter_NoData(t *testing.T) {
	store := createTestStore(t)
	dataDir := t.TempDir()
	writeArchive(t, filepath.Join(dataDir, "BHCF_2023Q1.zip"), "BHCF20230331.txt",
		"IDRSSD^BHCK2170\n9999999^42\n")

	ld := New(store, dataDir, "1447376", []string{"BHCK2170"})
	ctx := context.Background()

	loaded, err := ld.LoadQuarter(ctx, 2023, 1, false)
	if err != nil {
		t.Fatalf("LoadQuarter failed: %v", err)
	}
	if loaded != 0 {
		t.Errorf("Loaded %d records, want 0", loaded)
	}

	status, recorded, err := store.LoadStatusFor(ctx, 2023, 1)
	if err != nil {
		t.Fatalf("Failed to query status: %v", err)
	}
	if !recorded || status != model.LoadNoData {
		t.Errorf("Status = (%q, %v), want (no_data, true)", status, recorded)
	}
}

func TestLoadQuarter_NoMatchingCodes(t *testing.T) {
	store := createTestStore(t)
	dataDir := t.TempDir()
	writeArchive(t, filepath.Join(dataDir, "BHCF_2023Q1.zip"), "BHCF20230331.txt",
		"IDRSSD^BHCKXXXX\n1447376^42\n")

	ld := New(store, dataDir, "1447376", []string{"BHCK2170"})
	ctx := context.Background()

	loaded, err := ld.LoadQuarter(ctx, 2023, 1, false)
	if err != nil {
		t.Fatalf("LoadQuarter failed: %v", err)
	}
	if loaded != 0 {
		t.Errorf("Loaded %d records, want 0", loaded)
	}

	status, recorded, err := store.LoadStatusFor(ctx, 2023, 1)
	if err != nil {
		t.Fatalf("Failed to query status: %v", err)
	}
	if !recorded || status != model.LoadNoMatchingCodes {
		t.Errorf("Status = (%q, %v), want (no_matching_codes, true)", status, recorded)
	}
}

func TestLoadQuarter_MissingArchiveLeavesStateUntouched(t *testing.T) {
	store := createTestStore(t)
	ld := New(store, t.TempDir(), "1447376", []string{"BHCK2170"})
	ctx := context.Background()

	loaded, err := ld.LoadQuarter(ctx, 2019, 3, false)
	if err != nil {
		t.Fatalf("LoadQuarter failed: %v", err)
	}
	if loaded != 0 {
		t.Errorf("Loaded %d records, want 0", loaded)
	}

	_, recorded, err := store.LoadStatusFor(ctx, 2019, 3)
	if err != nil {
		t.Fatalf("Failed to query status: %v", err)
	}
	if recorded {
		t.Error("Expected no load-history row for a missing archive")
	}
}

func TestLoadQuarter_ChicagoVariant(t *testing.T) {
	store := createTestStore(t)
	dataDir := t.TempDir()
	writeArchive(t, filepath.Join(dataDir, "BHCF_2019Q4_chicago.zip"), "bhcf1912.txt",
		"RSSD9001^BHCK2170\n1447376^777\n")

	ld := New(store, dataDir, "1447376", []string{"BHCK2170"})

	loaded, err := ld.LoadQuarter(context.Background(), 2019, 4, false)
	if err != nil {
		t.Fatalf("LoadQuarter failed: %v", err)
	}
	if loaded != 1 {
		t.Errorf("Loaded %d records, want 1", loaded)
	}
}

func TestLoadQuarter_CorruptArchive(t *testing.T) {
	store := createTestStore(t)
	dataDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dataDir, "BHCF_2023Q1.zip"), []byte("not a zip"), 0o644); err != nil {
		t.Fatalf("Failed to write bad archive: %v", err)
	}

	ld := New(store, dataDir, "1447376", []string{"BHCK2170"})
	ctx := context.Background()

	if _, err := ld.LoadQuarter(ctx, 2023, 1, false); err == nil {
		t.Fatal("Expected error for corrupt archive")
	}

	// Failure leaves the period unrecorded for a later retry.
	_, recorded, err := store.LoadStatusFor(ctx, 2023, 1)
	if err != nil {
		t.Fatalf("Failed to query status: %v", err)
	}
	if recorded {
		t.Error("Expected no load-history row after a failed parse")
	}
}

func TestLoadAll_IsolatesFailures(t *testing.T) {
	store := createTestStore(t)
	dataDir := t.TempDir()
	// Q1 corrupt, Q2 good.
	if err := os.WriteFile(filepath.Join(dataDir, "BHCF_2020Q1.zip"), []byte("junk"), 0o644); err != nil {
		t.Fatalf("Failed to write bad archive: %v", err)
	}
	writeArchive(t, filepath.Join(dataDir, "BHCF_2020Q2.zip"), "BHCF20200630.txt",
		"IDRSSD^BHCK2170\n1447376^1000\n")

	ld := New(store, dataDir, "1447376", []string{"BHCK2170"})

	total, err := ld.LoadAll(context.Background(), 2020, 2020, false, nil)
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if total != 1 {
		t.Errorf("LoadAll loaded %d records, want 1", total)
	}
}

func TestLoadAll_SkipsFutureYears(t *testing.T) {
	store := createTestStore(t)
	ld := New(store, t.TempDir(), "1447376", []string{"BHCK2170"})

	next := time.Now().Year() + 1
	calls := 0
	total, err := ld.LoadAll(context.Background(), next, next, false, func(int, int, int) {
		calls++
	})
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if total != 0 || calls != 0 {
		t.Errorf("LoadAll visited %d future quarters, loaded %d records, want none", calls, total)
	}
}

func TestLoadAll_ContextCancellation(t *testing.T) {
	store := createTestStore(t)
	ld := New(store, t.TempDir(), "1447376", []string{"BHCK2170"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := ld.LoadAll(ctx, 2020, 2021, false, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
