package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/bhcwatch/y9c/internal/model"
)

// dateLayout is the report-date format stored in the DATE column.
const dateLayout = "2006-01-02"

// SaveFinancialRecords upserts financial records in a single transaction.
// A record with an existing (rssd_id, report_date, mdrm_code) key replaces
// the stored value. The call is all-or-nothing: on any failure nothing is
// persisted and the caller gets an error.
func (s *SQLiteStorage) SaveFinancialRecords(ctx context.Context, records []model.FinancialRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRecords(records); err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO financial_data (
			rssd_id, report_date, year, quarter, mdrm_code, value
		) VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, rec := range records {
		_, err = stmt.ExecContext(ctx,
			rec.RSSDID,
			rec.ReportDate.Format(dateLayout),
			rec.Year,
			rec.Quarter,
			rec.Code,
			rec.Value,
		)
		if err != nil {
			return fmt.Errorf("failed to insert record %s/%s: %w", rec.RSSDID, rec.Code, err)
		}
	}

	return tx.Commit()
}

// BalanceSheet returns balance-sheet values for an institution and period,
// keyed by account name. Absence of data yields an empty map.
func (s *SQLiteStorage) BalanceSheet(ctx context.Context, rssdID string, year, quarter int) (map[string]float64, error) {
	return statementValues(ctx, s.db, rssdID, model.BalanceSheet, year, quarter)
}

// IncomeStatement returns income-statement values for an institution and
// period, keyed by account name.
func (s *SQLiteStorage) IncomeStatement(ctx context.Context, rssdID string, year, quarter int) (map[string]float64, error) {
	return statementValues(ctx, s.db, rssdID, model.IncomeStatement, year, quarter)
}

// statementValues runs against a queryable so it works inside and outside a
// transaction.
func statementValues(ctx context.Context, q queryable, rssdID string, statement model.StatementType, year, quarter int) (map[string]float64, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(rssdID, "rssdID"); err != nil {
		return nil, err
	}
	if err := validateQuarter(quarter); err != nil {
		return nil, err
	}

	rows, err := q.QueryContext(ctx, `
		SELECT ad.account_name, fd.value
		FROM financial_data fd
		JOIN account_definitions ad ON fd.mdrm_code = ad.mdrm_code
		WHERE fd.rssd_id = ?
		  AND ad.statement_type = ?
		  AND fd.year = ? AND fd.quarter = ?
		ORDER BY ad.category, ad.account_name
	`, rssdID, string(statement), year, quarter)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", statement, err)
	}
	defer func() { _ = rows.Close() }()

	values := make(map[string]float64)
	for rows.Next() {
		var name string
		var value float64
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", statement, err)
		}
		values[name] = value
	}

	return values, rows.Err()
}

// TimeSeriesPoint is one dated observation of a line item.
type TimeSeriesPoint struct {
	ReportDate time.Time
	Value      float64
}

// TimeSeriesFilter selects the line item and year bounds for a time series.
// Exactly one of Code or AccountName should be set; AccountName matches as a
// substring.
type TimeSeriesFilter struct {
	Code        string
	AccountName string
	StartYear   int
	EndYear     int
}

// TimeSeries returns time-ordered observations for one institution and line
// item. Absence of data yields an empty slice.
func (s *SQLiteStorage) TimeSeries(ctx context.Context, rssdID string, filter TimeSeriesFilter) ([]TimeSeriesPoint, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(rssdID, "rssdID"); err != nil {
		return nil, err
	}

	query := `
		SELECT fd.report_date, fd.value
		FROM financial_data fd
		JOIN account_definitions ad ON fd.mdrm_code = ad.mdrm_code
		WHERE fd.rssd_id = ?
	`
	args := []any{rssdID}

	switch {
	case filter.Code != "":
		query += " AND fd.mdrm_code = ?"
		args = append(args, filter.Code)
	case filter.AccountName != "":
		query += " AND ad.account_name LIKE ?"
		args = append(args, "%"+filter.AccountName+"%")
	}

	if filter.StartYear > 0 {
		query += " AND fd.year >= ?"
		args = append(args, filter.StartYear)
	}
	if filter.EndYear > 0 {
		query += " AND fd.year <= ?"
		args = append(args, filter.EndYear)
	}

	query += " ORDER BY fd.report_date"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query time series: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var points []TimeSeriesPoint
	for rows.Next() {
		var dateStr string
		var value float64
		if err := rows.Scan(&dateStr, &value); err != nil {
			return nil, fmt.Errorf("failed to scan time series row: %w", err)
		}
		date, parseErr := time.Parse(dateLayout, dateStr)
		if parseErr != nil {
			return nil, fmt.Errorf("failed to parse report date %q: %w", dateStr, parseErr)
		}
		points = append(points, TimeSeriesPoint{ReportDate: date, Value: value})
	}

	return points, rows.Err()
}

// Period is one reporting period present in the store.
type Period struct {
	ReportDate time.Time
	Year       int
	Quarter    int
}

// Periods returns the distinct reporting periods available for an
// institution, ordered by year and quarter.
func (s *SQLiteStorage) Periods(ctx context.Context, rssdID string) ([]Period, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(rssdID, "rssdID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT year, quarter, report_date
		FROM financial_data
		WHERE rssd_id = ?
		ORDER BY year, quarter
	`, rssdID)
	if err != nil {
		return nil, fmt.Errorf("failed to query periods: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var periods []Period
	for rows.Next() {
		var p Period
		var dateStr string
		if err := rows.Scan(&p.Year, &p.Quarter, &dateStr); err != nil {
			return nil, fmt.Errorf("failed to scan period: %w", err)
		}
		date, parseErr := time.Parse(dateLayout, dateStr)
		if parseErr != nil {
			return nil, fmt.Errorf("failed to parse report date %q: %w", dateStr, parseErr)
		}
		p.ReportDate = date
		periods = append(periods, p)
	}

	return periods, rows.Err()
}

// PeriodCoverage summarizes how many codes and records one period holds.
type PeriodCoverage struct {
	Year        int
	Quarter     int
	CodeCount   int
	RecordCount int
}

// Coverage reports per-period distinct code counts and record counts for an
// institution, ordered by period.
func (s *SQLiteStorage) Coverage(ctx context.Context, rssdID string) ([]PeriodCoverage, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(rssdID, "rssdID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT year, quarter, COUNT(DISTINCT mdrm_code), COUNT(*)
		FROM financial_data
		WHERE rssd_id = ?
		GROUP BY year, quarter
		ORDER BY year, quarter
	`, rssdID)
	if err != nil {
		return nil, fmt.Errorf("failed to query coverage: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var coverage []PeriodCoverage
	for rows.Next() {
		var c PeriodCoverage
		if err := rows.Scan(&c.Year, &c.Quarter, &c.CodeCount, &c.RecordCount); err != nil {
			return nil, fmt.Errorf("failed to scan coverage row: %w", err)
		}
		coverage = append(coverage, c)
	}

	return coverage, rows.Err()
}

// RecordCount returns the total number of stored financial records.
func (s *SQLiteStorage) RecordCount(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM financial_data`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get record count: %w", err)
	}

	return count, nil
}

// AllRecords returns every financial record for an institution joined with
// its line-item metadata, ordered by period. Used by the dashboard session.
type RecordWithItem struct {
	ReportDate  time.Time
	Code        string
	AccountName string
	Statement   model.StatementType
	Category    string
	Value       float64
	Year        int
	Quarter     int
}

// AllRecords loads the full joined dataset for one institution.
func (s *SQLiteStorage) AllRecords(ctx context.Context, rssdID string) ([]RecordWithItem, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(rssdID, "rssdID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT fd.report_date, fd.year, fd.quarter, fd.mdrm_code, fd.value,
		       ad.account_name, ad.statement_type, ad.category
		FROM financial_data fd
		JOIN account_definitions ad ON fd.mdrm_code = ad.mdrm_code
		WHERE fd.rssd_id = ?
		ORDER BY fd.year, fd.quarter
	`, rssdID)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []RecordWithItem
	for rows.Next() {
		var rec RecordWithItem
		var dateStr, statement string
		if err := rows.Scan(&dateStr, &rec.Year, &rec.Quarter, &rec.Code, &rec.Value,
			&rec.AccountName, &statement, &rec.Category); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		date, parseErr := time.Parse(dateLayout, dateStr)
		if parseErr != nil {
			return nil, fmt.Errorf("failed to parse report date %q: %w", dateStr, parseErr)
		}
		rec.ReportDate = date
		rec.Statement = model.StatementType(statement)
		records = append(records, rec)
	}

	return records, rows.Err()
}
