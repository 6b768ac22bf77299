package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bhcwatch/y9c/internal/model"
)

// RecordLoad upserts the load-history row for one period. The table is keyed
// by (year, quarter): recording a period again overwrites its prior status,
// source file, and count rather than appending.
func (s *SQLiteStorage) RecordLoad(ctx context.Context, result model.LoadResult) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateQuarter(result.Quarter); err != nil {
		return err
	}
	if !result.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, result.Status)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO load_history
		(year, quarter, source_file, records_loaded, status)
		VALUES (?, ?, ?, ?, ?)
	`, result.Year, result.Quarter, result.SourceFile, result.RecordsLoaded, string(result.Status))
	if err != nil {
		return fmt.Errorf("failed to record load: %w", err)
	}

	return nil
}

// YearQuarter identifies one reporting period.
type YearQuarter struct {
	Year    int
	Quarter int
}

// LoadedQuarters returns the periods whose load completed. Periods recorded
// as no_data or no_matching_codes are not considered loaded.
func (s *SQLiteStorage) LoadedQuarters(ctx context.Context) ([]YearQuarter, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT year, quarter FROM load_history
		WHERE status = ?
		ORDER BY year, quarter
	`, string(model.LoadCompleted))
	if err != nil {
		return nil, fmt.Errorf("failed to query load history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var quarters []YearQuarter
	for rows.Next() {
		var yq YearQuarter
		if err := rows.Scan(&yq.Year, &yq.Quarter); err != nil {
			return nil, fmt.Errorf("failed to scan load history row: %w", err)
		}
		quarters = append(quarters, yq)
	}

	return quarters, rows.Err()
}

// LoadStatusFor returns the recorded status for one period. The second
// return value reports whether the period has a history row at all; when it
// is false the status is empty and the error is nil.
func (s *SQLiteStorage) LoadStatusFor(ctx context.Context, year, quarter int) (model.LoadStatus, bool, error) {
	if err := validateContext(ctx); err != nil {
		return "", false, err
	}
	if err := validateQuarter(quarter); err != nil {
		return "", false, err
	}

	var status string
	err := s.db.QueryRowContext(ctx, `
		SELECT status FROM load_history WHERE year = ? AND quarter = ?
	`, year, quarter).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to query load status: %w", err)
	}

	return model.LoadStatus(status), true, nil
}
