package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/bhcwatch/y9c/internal/model"
)

// ExportCSV writes an institution's records to a CSV file, one row per
// record, optionally filtered by statement type. Returns the row count.
func (s *SQLiteStorage) ExportCSV(ctx context.Context, rssdID, outputPath string, statement model.StatementType) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(rssdID, "rssdID"); err != nil {
		return 0, err
	}
	if err := validateString(outputPath, "outputPath"); err != nil {
		return 0, err
	}

	query := `
		SELECT fd.report_date, fd.year, fd.quarter, fd.mdrm_code,
		       ad.account_name, ad.statement_type, ad.category, fd.value
		FROM financial_data fd
		JOIN account_definitions ad ON fd.mdrm_code = ad.mdrm_code
		WHERE fd.rssd_id = ?
	`
	args := []any{rssdID}

	if statement != "" {
		if !statement.IsValid() {
			return 0, fmt.Errorf("invalid statement type: %q", statement)
		}
		query += " AND ad.statement_type = ?"
		args = append(args, string(statement))
	}

	query += " ORDER BY fd.report_date, ad.statement_type, ad.category, ad.account_name"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to query export rows: %w", err)
	}
	defer func() { _ = rows.Close() }()

	f, err := os.Create(outputPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create export file: %w", err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	header := []string{"report_date", "year", "quarter", "mdrm_code",
		"account_name", "statement_type", "category", "value"}
	if err := w.Write(header); err != nil {
		return 0, fmt.Errorf("failed to write CSV header: %w", err)
	}

	count := 0
	for rows.Next() {
		var reportDate, code, name, stmtType, category string
		var year, quarter int
		var value float64
		if err := rows.Scan(&reportDate, &year, &quarter, &code, &name, &stmtType, &category, &value); err != nil {
			return 0, fmt.Errorf("failed to scan export row: %w", err)
		}

		record := []string{
			reportDate,
			strconv.Itoa(year),
			strconv.Itoa(quarter),
			code,
			name,
			stmtType,
			category,
			strconv.FormatFloat(value, 'f', -1, 64),
		}
		if err := w.Write(record); err != nil {
			return 0, fmt.Errorf("failed to write CSV row: %w", err)
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return 0, fmt.Errorf("failed to flush CSV: %w", err)
	}

	return count, nil
}
