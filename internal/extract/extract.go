// Package extract converts wide parsed filing rows into long financial
// records, one record per (institution, period, line-item code) that carries
// a numeric value.
package extract

import (
	"strconv"
	"strings"

	"github.com/bhcwatch/y9c/internal/model"
	"github.com/bhcwatch/y9c/internal/parser"
)

// rssdAliases is the ordered list of accepted institution-identifier column
// names. The first alias present in a row wins; the list is resolved up front
// rather than probed per lookup.
var rssdAliases = []string{"IDRSSD", "RSSD9001", "RSSD"}

// absent markers used by the bulk files for missing values.
func isAbsent(v string) bool {
	switch v {
	case "", "NA", "N/A", ".":
		return true
	}
	return false
}

// Records extracts financial records from parsed rows for one reporting
// period. Rows without a resolvable institution id are skipped; codes with
// absent or unparsable values are dropped silently.
func Records(rows []parser.Row, year, quarter int, codes []string) ([]model.FinancialRecord, error) {
	reportDate, err := model.ReportDate(year, quarter)
	if err != nil {
		return nil, err
	}

	upper := make([]string, len(codes))
	for i, code := range codes {
		upper[i] = strings.ToUpper(code)
	}

	var records []model.FinancialRecord
	for _, row := range rows {
		rssd := resolveRSSD(row)
		if rssd == "" {
			continue
		}

		for i, code := range codes {
			value, ok := row[upper[i]]
			if !ok || isAbsent(value) {
				continue
			}

			numeric, parseErr := strconv.ParseFloat(strings.ReplaceAll(value, ",", ""), 64)
			if parseErr != nil {
				continue
			}

			records = append(records, model.FinancialRecord{
				RSSDID:     rssd,
				ReportDate: reportDate,
				Year:       year,
				Quarter:    quarter,
				Code:       code,
				Value:      numeric,
			})
		}
	}

	return records, nil
}

// resolveRSSD returns the institution id from the first populated alias column.
func resolveRSSD(row parser.Row) string {
	for _, alias := range rssdAliases {
		if v := row[alias]; v != "" {
			return v
		}
	}
	return ""
}
