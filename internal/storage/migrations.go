package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS institutions (
					rssd_id TEXT PRIMARY KEY,
					name TEXT,
					city TEXT,
					state TEXT,
					entity_type TEXT,
					primary_regulator TEXT,
					parent_rssd_id TEXT,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS account_definitions (
					mdrm_code TEXT PRIMARY KEY,
					account_name TEXT NOT NULL,
					statement_type TEXT NOT NULL,
					category TEXT NOT NULL,
					is_active INTEGER DEFAULT 1,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS financial_data (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					rssd_id TEXT NOT NULL,
					report_date DATE NOT NULL,
					year INTEGER NOT NULL,
					quarter INTEGER NOT NULL,
					mdrm_code TEXT NOT NULL,
					value REAL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					UNIQUE(rssd_id, report_date, mdrm_code),
					FOREIGN KEY (mdrm_code) REFERENCES account_definitions(mdrm_code)
				)`,

				`CREATE TABLE IF NOT EXISTS load_history (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					year INTEGER NOT NULL,
					quarter INTEGER NOT NULL,
					source_file TEXT,
					records_loaded INTEGER,
					load_timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
					status TEXT DEFAULT 'completed',
					UNIQUE(year, quarter)
				)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Indexes for lookup by institution, date, code, and period",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE INDEX IF NOT EXISTS idx_financial_data_rssd ON financial_data(rssd_id)`,
				`CREATE INDEX IF NOT EXISTS idx_financial_data_date ON financial_data(report_date)`,
				`CREATE INDEX IF NOT EXISTS idx_financial_data_mdrm ON financial_data(mdrm_code)`,
				`CREATE INDEX IF NOT EXISTS idx_financial_data_year_quarter ON financial_data(year, quarter)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query '%s': %w", query, err)
				}
			}
			return nil
		},
	},
}

// Migrate applies any pending schema migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
