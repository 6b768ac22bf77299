// Package loader orchestrates loading quarterly Y-9C archives into storage.
//
// Each (year, quarter) moves through a small state machine: not attempted →
// completed | no_data | no_matching_codes, recorded in load history. A
// period already completed is skipped unless forced; a period whose archive
// is missing stays untouched so a later run can pick it up.
package loader

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/bhcwatch/y9c/internal/common"
	"github.com/bhcwatch/y9c/internal/extract"
	"github.com/bhcwatch/y9c/internal/model"
)

// Store is the persistence surface the loader needs.
type Store interface {
	SaveFinancialRecords(ctx context.Context, records []model.FinancialRecord) error
	RecordLoad(ctx context.Context, result model.LoadResult) error
	LoadStatusFor(ctx context.Context, year, quarter int) (model.LoadStatus, bool, error)
}

// Loader loads quarterly archives for one target institution.
type Loader struct {
	store      Store
	dataDir    string
	targetRSSD string
	codes      []string
}

// New creates a Loader reading archives from dataDir and keeping records
// whose codes appear in the allow list.
func New(store Store, dataDir, targetRSSD string, codes []string) *Loader {
	return &Loader{
		store:      store,
		dataDir:    dataDir,
		targetRSSD: targetRSSD,
		codes:      codes,
	}
}

// archiveVariants lists the known archive filenames for one quarter, in
// preference order.
func (l *Loader) archiveVariants(year, quarter int) []string {
	return []string{
		filepath.Join(l.dataDir, fmt.Sprintf("BHCF_%dQ%d.zip", year, quarter)),
		filepath.Join(l.dataDir, fmt.Sprintf("BHCF_%dQ%d_chicago.zip", year, quarter)),
	}
}

// findArchive returns the first existing archive variant, or "".
func (l *Loader) findArchive(year, quarter int) string {
	for _, candidate := range l.archiveVariants(year, quarter) {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// LoadQuarter loads one period and returns the number of records stored.
// A period already completed is skipped unless force is set. When no archive
// exists the period's recorded state is left untouched and zero is returned.
func (l *Loader) LoadQuarter(ctx context.Context, year, quarter int, force bool) (int, error) {
	if !force {
		status, recorded, err := l.store.LoadStatusFor(ctx, year, quarter)
		if err != nil {
			return 0, err
		}
		if recorded && status == model.LoadCompleted {
			slog.Debug("Quarter already loaded, skipping", "year", year, "quarter", quarter)
			return 0, nil
		}
	}

	zipPath := l.findArchive(year, quarter)
	if zipPath == "" {
		slog.Debug("No archive found for quarter", "year", year, "quarter", quarter)
		return 0, nil
	}

	slog.Info("Processing archive", "path", zipPath, "year", year, "quarter", quarter)

	rows, err := parseArchive(zipPath, l.targetRSSD)
	if err != nil {
		return 0, err
	}

	if len(rows) == 0 {
		slog.Info("No records found for institution", "rssd_id", l.targetRSSD, "year", year, "quarter", quarter)
		if recordErr := l.store.RecordLoad(ctx, model.LoadResult{
			Year: year, Quarter: quarter, SourceFile: zipPath, Status: model.LoadNoData,
		}); recordErr != nil {
			return 0, recordErr
		}
		return 0, nil
	}

	records, err := extract.Records(rows, year, quarter, l.codes)
	if err != nil {
		return 0, err
	}

	if len(records) == 0 {
		slog.Info("No matching line-item codes in filing", "year", year, "quarter", quarter)
		if recordErr := l.store.RecordLoad(ctx, model.LoadResult{
			Year: year, Quarter: quarter, SourceFile: zipPath, Status: model.LoadNoMatchingCodes,
		}); recordErr != nil {
			return 0, recordErr
		}
		return 0, nil
	}

	if err := l.store.SaveFinancialRecords(ctx, records); err != nil {
		common.LogError(err, "Bulk insert failed", common.Fields{
			"year": year, "quarter": quarter, "records": len(records),
		})
		return 0, err
	}

	if err := l.store.RecordLoad(ctx, model.LoadResult{
		Year:          year,
		Quarter:       quarter,
		SourceFile:    zipPath,
		RecordsLoaded: len(records),
		Status:        model.LoadCompleted,
	}); err != nil {
		return 0, err
	}

	common.LogInfo("Loaded quarter", common.Fields{
		"year": year, "quarter": quarter, "records": len(records),
	})
	return len(records), nil
}

// Progress is called after each attempted period during a multi-quarter run.
type Progress func(year, quarter, loaded int)

// LoadAll loads every period in [startYear, endYear], capped at the current
// quarter in the current year. Per-period failures are isolated: they are
// logged, the period keeps whatever state it had, and the run continues.
// With force set, completed periods are reloaded from their archives.
func (l *Loader) LoadAll(ctx context.Context, startYear, endYear int, force bool, progress Progress) (int, error) {
	now := time.Now()
	if endYear <= 0 {
		endYear = now.Year()
	}

	total := 0
	for year := startYear; year <= endYear; year++ {
		maxQuarter := model.QuartersElapsed(year, now)

		for quarter := 1; quarter <= maxQuarter; quarter++ {
			if ctx.Err() != nil {
				return total, ctx.Err()
			}

			loaded, err := l.LoadQuarter(ctx, year, quarter, force)
			if err != nil {
				common.LogError(err, "Failed to load quarter", common.Fields{
					"year": year, "quarter": quarter,
				})
			}
			total += loaded

			if progress != nil {
				progress(year, quarter, loaded)
			}
		}
	}

	return total, nil
}

// IncrementalUpdate loads only the not-yet-completed periods in the current
// and prior year.
func (l *Loader) IncrementalUpdate(ctx context.Context) (int, error) {
	now := time.Now()
	currentYear := now.Year()

	total := 0
	for year := currentYear - 1; year <= currentYear; year++ {
		maxQuarter := model.QuartersElapsed(year, now)

		for quarter := 1; quarter <= maxQuarter; quarter++ {
			if ctx.Err() != nil {
				return total, ctx.Err()
			}

			status, recorded, err := l.store.LoadStatusFor(ctx, year, quarter)
			if err != nil {
				return total, err
			}
			if recorded && status == model.LoadCompleted {
				continue
			}

			slog.Info("Found missing quarter", "year", year, "quarter", quarter)
			loaded, err := l.LoadQuarter(ctx, year, quarter, false)
			if err != nil {
				common.LogError(err, "Failed to load quarter", common.Fields{
					"year": year, "quarter": quarter,
				})
				continue
			}
			total += loaded
		}
	}

	if total == 0 {
		slog.Info("No new data to load")
	}

	return total, nil
}
