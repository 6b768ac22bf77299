package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bhcwatch/y9c/internal/common"
	"github.com/bhcwatch/y9c/internal/model"
)

// SaveInstitution upserts institution metadata.
func (s *SQLiteStorage) SaveInstitution(ctx context.Context, inst model.Institution) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(inst.RSSDID, "rssdID"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO institutions
		(rssd_id, name, city, state, entity_type, primary_regulator, parent_rssd_id, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, inst.RSSDID, inst.Name, inst.City, inst.State, inst.EntityType,
		inst.PrimaryRegulator, inst.ParentRSSDID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save institution: %w", err)
	}

	return nil
}

// GetInstitution retrieves institution metadata by RSSD ID.
func (s *SQLiteStorage) GetInstitution(ctx context.Context, rssdID string) (*model.Institution, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(rssdID, "rssdID"); err != nil {
		return nil, err
	}

	var inst model.Institution
	var name, city, state, entityType, regulator, parent sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT rssd_id, name, city, state, entity_type, primary_regulator, parent_rssd_id
		FROM institutions
		WHERE rssd_id = ?
	`, rssdID).Scan(&inst.RSSDID, &name, &city, &state, &entityType, &regulator, &parent)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get institution: %w", err)
	}

	inst.Name = name.String
	inst.City = city.String
	inst.State = state.String
	inst.EntityType = entityType.String
	inst.PrimaryRegulator = regulator.String
	inst.ParentRSSDID = parent.String

	return &inst, nil
}

// SeedLineItems upserts the line-item catalog into account_definitions.
func (s *SQLiteStorage) SeedLineItems(ctx context.Context, items []model.LineItem) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO account_definitions
		(mdrm_code, account_name, statement_type, category)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, item := range items {
		if !item.Statement.IsValid() {
			return fmt.Errorf("line item %s has invalid statement type %q", item.Code, item.Statement)
		}
		if _, err := stmt.ExecContext(ctx, item.Code, item.Name, string(item.Statement), item.Category); err != nil {
			return fmt.Errorf("failed to insert line item %s: %w", item.Code, err)
		}
	}

	return tx.Commit()
}
