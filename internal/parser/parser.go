// Package parser reads the caret-delimited bulk text files published for
// FR Y-9C filings. The first line is a header of field names; each following
// line is one institution's filing for the period.
package parser

import (
	"bufio"
	"io"
	"log/slog"
	"strings"
)

// Delimiter is the field separator used by the FFIEC bulk files.
const Delimiter = "^"

// Row is one parsed data row, keyed by upper-cased header field name.
type Row map[string]string

// Options controls parsing behavior.
type Options struct {
	// TargetRSSD, when non-empty, keeps only rows whose institution
	// identifier matches it exactly.
	TargetRSSD string
	// Source names the input in log messages.
	Source string
}

// Parse reads a caret-delimited stream into rows. The institution-identifier
// column is located by exact "IDRSSD" or substring "RSSD" match; when no such
// column exists the whole file is skipped with a warning and an empty result.
// Rows whose field count differs from the header's are dropped.
func Parse(r io.Reader, opts Options) ([]Row, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	if !scanner.Scan() {
		return nil, scanner.Err()
	}

	headers := strings.Split(strings.TrimRight(scanner.Text(), "\r\n"), Delimiter)
	for i := range headers {
		headers[i] = strings.ToUpper(strings.TrimSpace(headers[i]))
	}

	rssdCol := findRSSDColumn(headers)
	if rssdCol < 0 {
		slog.Warn("No RSSD column found, skipping file", "source", opts.Source, "fields", len(headers))
		return nil, nil
	}

	var rows []Row
	for scanner.Scan() {
		values := strings.Split(strings.TrimRight(scanner.Text(), "\r\n"), Delimiter)
		if len(values) != len(headers) {
			continue
		}

		if opts.TargetRSSD != "" && strings.TrimSpace(values[rssdCol]) != opts.TargetRSSD {
			continue
		}

		row := make(Row, len(headers))
		for i, header := range headers {
			row[header] = strings.TrimSpace(values[i])
		}
		rows = append(rows, row)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return rows, nil
}

// findRSSDColumn returns the index of the institution-identifier column, or -1.
func findRSSDColumn(headers []string) int {
	for i, h := range headers {
		if h == "IDRSSD" || strings.Contains(h, "RSSD") {
			return i
		}
	}
	return -1
}
