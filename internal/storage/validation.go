package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bhcwatch/y9c/internal/model"
)

// Validation errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrNilParameter   = errors.New("parameter cannot be nil")
	ErrInvalidRecord  = errors.New("invalid financial record")
	ErrInvalidQuarter = errors.New("quarter must be between 1 and 4")
	ErrInvalidStatus  = errors.New("invalid load status")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateQuarter ensures a quarter number is in range.
func validateQuarter(quarter int) error {
	if quarter < 1 || quarter > 4 {
		return fmt.Errorf("%w: %d", ErrInvalidQuarter, quarter)
	}
	return nil
}

// validateRecords validates a slice of financial records.
func validateRecords(records []model.FinancialRecord) error {
	if records == nil {
		return fmt.Errorf("%w: records", ErrNilParameter)
	}

	for i, rec := range records {
		if err := validateRecord(&rec); err != nil {
			return fmt.Errorf("record at index %d: %w", i, err)
		}
	}
	return nil
}

// validateRecord validates a single financial record.
func validateRecord(rec *model.FinancialRecord) error {
	if strings.TrimSpace(rec.RSSDID) == "" {
		return fmt.Errorf("%w: missing RSSD ID", ErrInvalidRecord)
	}
	if strings.TrimSpace(rec.Code) == "" {
		return fmt.Errorf("%w: missing MDRM code", ErrInvalidRecord)
	}
	if rec.ReportDate.IsZero() {
		return fmt.Errorf("%w: missing report date", ErrInvalidRecord)
	}
	if err := validateQuarter(rec.Quarter); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return nil
}
